package registry

import (
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type packageRecord struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex;not null"`
	Version   string
	Functions []functionRecord `gorm:"foreignKey:PackageID"`
	CreatedAt time.Time
}

func (packageRecord) TableName() string {
	return "packages"
}

type functionRecord struct {
	ID        uint `gorm:"primaryKey"`
	PackageID uint `gorm:"index"`
	Position  int
	Name      string
	Params    []string `gorm:"serializer:json"`
	Body      []string `gorm:"serializer:json"`
}

func (functionRecord) TableName() string {
	return "functions"
}

// Store keeps contributed packages in a sqlite database
type Store struct {
	db *gorm.DB
}

// OpenStore opens (creating when needed) the database at path
func OpenStore(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := db.AutoMigrate(&packageRecord{}, &functionRecord{}); err != nil {
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close releases the database
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Get loads the package called name
func (s *Store) Get(name string) (*Package, error) {
	var rec packageRecord
	err := s.db.
		Preload("Functions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position")
		}).
		Where("name = ?", name).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}

	pkg := &Package{
		Name:      rec.Name,
		Version:   rec.Version,
		Functions: make([]Function, 0, len(rec.Functions)),
	}
	for _, fn := range rec.Functions {
		pkg.Functions = append(pkg.Functions, Function{
			Name:   fn.Name,
			Params: nonNil(fn.Params),
			Body:   nonNil(fn.Body),
		})
	}
	return pkg, nil
}

// Create stores pkg. Names are unique: a second package with the same name
// fails with ErrExists.
func (s *Store) Create(pkg *Package) error {
	rec := packageRecord{
		Name:    pkg.Name,
		Version: pkg.Version,
	}
	for i, fn := range pkg.Functions {
		rec.Functions = append(rec.Functions, functionRecord{
			Position: i,
			Name:     fn.Name,
			Params:   nonNil(fn.Params),
			Body:     nonNil(fn.Body),
		})
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&packageRecord{}).Where("name = ?", pkg.Name).Count(&count).Error; err != nil {
			return fmt.Errorf("lookup %s: %w", pkg.Name, err)
		}
		if count > 0 {
			return fmt.Errorf("%w: %s", ErrExists, pkg.Name)
		}
		if err := tx.Create(&rec).Error; err != nil {
			return fmt.Errorf("store %s: %w", pkg.Name, err)
		}
		return nil
	})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

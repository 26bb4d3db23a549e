package internal

import (
	"errors"
	"testing"
)

func TestParseScoping(t *testing.T) {
	for name, expected := range map[string]Scoping{
		"":         ScopeSnapshot,
		"snapshot": ScopeSnapshot,
		"lexical":  ScopeLexical,
	} {
		got, err := ParseScoping(name)
		if err != nil || got != expected {
			t.Errorf("%q: expected %s, got %s (%v)", name, expected, got, err)
		}
	}
	if _, err := ParseScoping("dynamic"); !errors.Is(err, errUnknownScoping) {
		t.Errorf("expected errUnknownScoping, got %v", err)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.LockPath != "rusticle.lock" || cfg.TempLockPath != "rusticle.temp.lock" {
		t.Errorf("unexpected lock paths %s %s", cfg.LockPath, cfg.TempLockPath)
	}
	if cfg.Dialect != DialectLin || cfg.Scoping != ScopeSnapshot {
		t.Errorf("unexpected defaults %s %s", cfg.Dialect, cfg.Scoping)
	}
	if cfg.fetcher() == nil || cfg.logger() == nil {
		t.Error("fetcher and logger should default")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LIN_LOCK", "a.lock")
	t.Setenv("LIN_TEMP_LOCK", "b.lock")
	t.Setenv("LIN_REGISTRY", "http://registry:9000")
	t.Setenv("LIN_DIALECT", "english")
	t.Setenv("LIN_SCOPING", "lexical")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LockPath != "a.lock" || cfg.TempLockPath != "b.lock" || cfg.RegistryURL != "http://registry:9000" {
		t.Errorf("unexpected paths %+v", cfg)
	}
	if cfg.Dialect != DialectEnglish || cfg.Scoping != ScopeLexical {
		t.Errorf("unexpected modes %s %s", cfg.Dialect, cfg.Scoping)
	}

	t.Setenv("LIN_DIALECT", "klingon")
	if _, err := FromEnv(); !errors.Is(err, errUnknownDialect) {
		t.Errorf("expected errUnknownDialect, got %v", err)
	}
	t.Setenv("LIN_DIALECT", "lin")
	t.Setenv("LIN_SCOPING", "dynamic")
	if _, err := FromEnv(); !errors.Is(err, errUnknownScoping) {
		t.Errorf("expected errUnknownScoping, got %v", err)
	}
}

func TestRunWithUnknownDialect(t *testing.T) {
	cfg := testConfig()
	cfg.Dialect = "klingon"
	tp := &testPrinter{}
	if RunSourceWithPrinter("likh 1;", cfg, tp) {
		t.Error("an unknown dialect should fail")
	}
}

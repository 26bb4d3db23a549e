package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"git.sr.ht/~sircmpwn/getopt"
	"github.com/sirupsen/logrus"

	"lin/internal/registry"
)

func main() {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	dbPath := "lin-registry.db"
	addr := "127.0.0.1:8080"

	opts, _, err := getopt.Getopts(os.Args, "d:l:v")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, "Usage: linstore [-v] [-d dbpath] [-l addr]")
		os.Exit(1)
	}
	for _, opt := range opts {
		switch opt.Option {
		case 'd':
			dbPath = opt.Value
		case 'l':
			addr = opt.Value
		case 'v':
			log.SetLevel(logrus.DebugLevel)
		}
	}

	store, err := registry.OpenStore(dbPath)
	if err != nil {
		log.WithError(err).Fatal("cannot open registry database")
	}
	defer store.Close()

	server := registry.NewServer(store, log)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		if err := server.Shutdown(); err != nil {
			log.WithError(err).Error("shutdown")
		}
	}()

	if err := server.ListenAndServe(addr); err != nil {
		log.WithError(err).Error("registry stopped")
		store.Close()
		os.Exit(1)
	}
	log.Info("registry stopped")
}

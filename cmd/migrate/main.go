// Command migrate applies the embedded SQL migrations.
//
//	migrate up | down | version | force N
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/sirupsen/logrus"

	"github.com/diewo77/bizadmin/internal/config"
	"github.com/diewo77/bizadmin/internal/db"
	"github.com/diewo77/bizadmin/internal/logging"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "usage: migrate up | down | version | force N")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	log := logging.New(cfg.Log)

	url := cfg.Database.URL()
	log.WithField("dsn", config.MaskDSN(url)).Info("opening migrator")
	m, err := db.NewMigrator(url)
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close()

	if err := run(m, flag.Args(), log); err != nil {
		log.Fatal(err)
	}
}

func run(m *migrate.Migrate, args []string, log *logrus.Logger) error {
	switch args[0] {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
	case "force":
		if len(args) < 2 {
			return errors.New("force needs a version")
		}
		v, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[1], err)
		}
		if err := m.Force(v); err != nil {
			return err
		}
	case "version":
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		log.Info("no migration applied")
		return nil
	}
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"version": version, "dirty": dirty}).Info("schema version")
	return nil
}

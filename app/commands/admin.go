package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"postboard/app/config"
	"postboard/app/repositories"
	"postboard/app/repositories/sqlite"

	"github.com/pkg/errors"
)

// initDB creates the configured database and applies migrations
func (c *CLI) initDB(cfg *config.Config) error {
	store, err := openStore(cfg)
	if err != nil {
		return errors.Wrap(err, "initialize database")
	}
	if err := store.Close(); err != nil {
		return errors.Wrap(err, "close database")
	}
	fmt.Fprintf(c.Out, "Database initialized successfully (%s at %s)\n", cfg.Store, storePath(cfg))
	return nil
}

// clean removes the database
func (c *CLI) clean(cfg *config.Config, yes bool) error {
	path := storePath(cfg)
	if !exists(path) {
		fmt.Fprintln(c.Out, "Database is already clean (does not exist)")
		return nil
	}
	if !yes && !c.confirm("Are you sure you want to clean the database? This cannot be undone.") {
		fmt.Fprintln(c.Out, "Operation cancelled")
		return nil
	}

	if err := removeStore(cfg); err != nil {
		return errors.Wrap(err, "clean database")
	}
	fmt.Fprintln(c.Out, "Database cleaned successfully")
	return nil
}

func removeStore(cfg *config.Config) error {
	if cfg.Store == config.StoreBadger {
		return os.RemoveAll(cfg.BadgerPath)
	}
	for _, p := range []string{cfg.SQLitePath, cfg.SQLitePath + "-wal", cfg.SQLitePath + "-shm"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// backup writes a timestamped backup into the backup directory
func (c *CLI) backup(ctx context.Context, cfg *config.Config) error {
	if !exists(storePath(cfg)) {
		fmt.Fprintln(c.Out, "No database exists to backup")
		return nil
	}
	if err := os.MkdirAll(cfg.BackupDir, 0o755); err != nil {
		return errors.Wrap(err, "create backup directory")
	}

	store, err := openStore(cfg)
	if err != nil {
		return errors.Wrap(err, "open database")
	}
	defer store.Close()

	stamp := time.Now().UTC().Format("20060102T150405.000")
	var backupFile string
	switch s := store.(type) {
	case *sqlite.Store:
		backupFile = filepath.Join(cfg.BackupDir, fmt.Sprintf("backup_%s.db", stamp))
		err = s.Backup(ctx, backupFile)
	case *repositories.BadgerStore:
		backupFile = filepath.Join(cfg.BackupDir, fmt.Sprintf("backup_%s.badger", stamp))
		err = backupBadger(s, backupFile)
	default:
		err = fmt.Errorf("store %T does not support backups", store)
	}
	if err != nil {
		return errors.Wrap(err, "backup database")
	}

	fmt.Fprintf(c.Out, "Database backed up successfully to %s\n", backupFile)
	return nil
}

func backupBadger(store *repositories.BadgerStore, path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if err := store.Backup(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

// restore replaces the database with a backup file
func (c *CLI) restore(cfg *config.Config, backupFile string, yes bool) error {
	if !exists(backupFile) {
		fmt.Fprintf(c.Out, "Backup file does not exist: %s\n", backupFile)
		return nil
	}
	if exists(storePath(cfg)) && !yes {
		if !c.confirm("Existing database found. Do you want to replace it?") {
			fmt.Fprintln(c.Out, "Operation cancelled")
			return nil
		}
	}

	var err error
	switch cfg.Store {
	case config.StoreBadger:
		err = restoreBadger(cfg.BadgerPath, backupFile)
	default:
		err = sqlite.Restore(backupFile, cfg.SQLitePath)
	}
	if err != nil {
		return errors.Wrap(err, "restore database")
	}

	fmt.Fprintf(c.Out, "Database restored successfully from %s\n", backupFile)
	return nil
}

func restoreBadger(dbPath, backupFile string) error {
	f, err := os.Open(backupFile)
	if err != nil {
		return err
	}
	defer f.Close()

	store, err := repositories.OpenBadger(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Clear(); err != nil {
		return err
	}
	return store.Restore(f)
}

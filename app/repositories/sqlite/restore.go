package sqlite

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Restore replaces the database file at dest with the backup at src. The
// backup is checked to be a readable SQLite database first. No Store may
// have dest open while it runs.
func Restore(src, dest string) error {
	if err := verifyBackup(src); err != nil {
		return err
	}

	if dir := filepath.Dir(dest); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "create storage dir")
		}
	}
	for _, suffix := range []string{"-wal", "-shm"} {
		if err := os.Remove(dest + suffix); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "remove %s%s", dest, suffix)
		}
	}

	tmp := dest + ".restore"
	if err := copyFile(src, tmp); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, dest); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrap(err, "replace database")
	}
	return nil
}

func verifyBackup(path string) error {
	if _, err := os.Stat(path); err != nil {
		return errors.Wrap(err, "backup file")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return errors.Wrap(err, "open backup")
	}
	defer db.Close()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'posts'").Scan(&count); err != nil {
		return errors.Wrap(err, "read backup")
	}
	if count == 0 {
		return fmt.Errorf("%s is not a postboard backup", path)
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrap(err, "open backup")
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return errors.Wrap(err, "create database file")
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errors.Wrap(err, "copy backup")
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return errors.Wrap(err, "sync database file")
	}
	return errors.Wrap(out.Close(), "close database file")
}

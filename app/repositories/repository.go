package repositories

import (
	"fmt"
	"io"
	"log"

	"github.com/dgraph-io/badger/v4"
)

var _ Store = (*BadgerStore)(nil)

// BadgerStore bundles the Badger backed repositories sharing one database.
type BadgerStore struct {
	db       *badger.DB
	dbPath   string
	posts    *BadgerPostRepository
	comments *BadgerCommentRepository
	alerts   *BadgerAlertRepository
}

// OpenBadger opens the Badger database at path. An empty path opens an
// in-memory database.
func OpenBadger(path string) (*BadgerStore, error) {
	var opts badger.Options
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(path).
			WithNumVersionsToKeep(1).
			WithLogger(badgerLogger{})
	}
	opts = opts.WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", path, err)
	}
	store := NewBadgerStore(db)
	store.dbPath = path
	return store, nil
}

// NewBadgerStore wraps an already opened database
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{
		db:       db,
		posts:    NewBadgerPostRepository(db),
		comments: NewBadgerCommentRepository(db),
		alerts:   NewBadgerAlertRepository(db),
	}
}

func (s *BadgerStore) Posts() PostRepository       { return s.posts }
func (s *BadgerStore) Comments() CommentRepository { return s.comments }
func (s *BadgerStore) Alerts() AlertRepository     { return s.alerts }

// Backup writes a full backup of the database to w
func (s *BadgerStore) Backup(w io.Writer) error {
	if _, err := s.db.Backup(w, 0); err != nil {
		return wrapErr(err, "backup badger")
	}
	return nil
}

// Restore loads a backup produced by Backup
func (s *BadgerStore) Restore(r io.Reader) error {
	return wrapErr(s.db.Load(r, 16), "restore badger")
}

// Clear drops every key
func (s *BadgerStore) Clear() error {
	return wrapErr(s.db.DropAll(), "clear badger")
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// badgerLogger routes warnings and errors to the standard logger.
type badgerLogger struct{}

func (badgerLogger) Errorf(format string, args ...interface{}) {
	log.Printf("badger ERROR: "+format, args...)
}

func (badgerLogger) Warningf(format string, args ...interface{}) {
	log.Printf("badger WARNING: "+format, args...)
}

func (badgerLogger) Infof(string, ...interface{})  {}
func (badgerLogger) Debugf(string, ...interface{}) {}

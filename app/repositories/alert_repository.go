package repositories

import (
	"context"

	"postboard/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerAlertRepository implements AlertRepository using BadgerDB
type BadgerAlertRepository struct {
	db *badger.DB
}

// NewBadgerAlertRepository creates a new BadgerAlertRepository
func NewBadgerAlertRepository(db *badger.DB) *BadgerAlertRepository {
	return &BadgerAlertRepository{db: db}
}

// Create registers a keyword alert
func (r *BadgerAlertRepository) Create(ctx context.Context, alert *models.KeywordAlert) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	alert.BeforeCreate()

	err := r.db.Update(func(txn *badger.Txn) error {
		id, err := getNextID(txn, AlertSeqKey)
		if err != nil {
			return err
		}
		alert.ID = id
		return setEntity(txn, entityKey(AlertKeyPrefix, id), alert)
	})
	return wrapErr(err, "create alert")
}

// List retrieves every registered alert in creation order
func (r *BadgerAlertRepository) List(ctx context.Context) ([]*models.KeywordAlert, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	alerts := []*models.KeywordAlert{}
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(AlertKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var alert models.KeywordAlert
			err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &alert)
			})
			if err != nil {
				return err
			}
			alerts = append(alerts, &alert)
		}
		return nil
	})
	if err != nil {
		return nil, wrapErr(err, "list alerts")
	}
	return alerts, nil
}

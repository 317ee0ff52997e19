package repositories

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
)

const (
	// Key prefixes for different entity types
	PostKeyPrefix    = "post:"
	CommentKeyPrefix = "comment:"
	AlertKeyPrefix   = "alert:"

	// Index prefixes linking comments to their post and parent
	PostCommentsIndexPrefix = "idx:post-comments:"
	PostTopLevelIndexPrefix = "idx:post-toplevel:"
	RepliesIndexPrefix      = "idx:replies:"

	// Sequence keys for auto-incrementing IDs
	PostSeqKey    = "seq:post"
	CommentSeqKey = "seq:comment"
	AlertSeqKey   = "seq:alert"
)

// entityKey builds the primary key of an entity. IDs are zero padded so
// that key order matches ID order.
func entityKey(prefix string, id int) []byte {
	return []byte(fmt.Sprintf("%s%010d", prefix, id))
}

// indexPrefix returns the key prefix holding the members of owner.
func indexPrefix(prefix string, ownerID int) []byte {
	return []byte(fmt.Sprintf("%s%010d:", prefix, ownerID))
}

// indexKey links member to owner under prefix.
func indexKey(prefix string, ownerID, memberID int) []byte {
	return []byte(fmt.Sprintf("%s%010d:%010d", prefix, ownerID, memberID))
}

// indexMemberID extracts the member ID from the last field of an index key.
func indexMemberID(key []byte) (int, error) {
	if len(key) < 11 || key[len(key)-11] != ':' {
		return 0, fmt.Errorf("malformed index key %q", key)
	}
	id, err := strconv.Atoi(string(key[len(key)-10:]))
	if err != nil {
		return 0, fmt.Errorf("malformed index key %q: %v", key, err)
	}
	return id, nil
}

// getNextID gets the next available ID for a given sequence key
func getNextID(txn *badger.Txn, seqKey string) (int, error) {
	var id uint64
	item, err := txn.Get([]byte(seqKey))
	if err == badger.ErrKeyNotFound {
		id = 1
	} else if err != nil {
		return 0, err
	} else {
		err = item.Value(func(val []byte) error {
			if len(val) != 8 {
				return fmt.Errorf("corrupt sequence %s", seqKey)
			}
			id = binary.BigEndian.Uint64(val)
			return nil
		})
		if err != nil {
			return 0, err
		}
		id++
	}

	// Store new ID
	idBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(idBytes, id)
	if err := txn.Set([]byte(seqKey), idBytes); err != nil {
		return 0, err
	}

	return int(id), nil
}

// marshalEntity marshals an entity to JSON
func marshalEntity(entity interface{}) ([]byte, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %v", err)
	}
	return data, nil
}

// unmarshalEntity unmarshals JSON data into an entity
func unmarshalEntity(data []byte, entity interface{}) error {
	if err := json.Unmarshal(data, entity); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %v", err)
	}
	return nil
}

// getEntity loads the entity stored under key into entity.
func getEntity(txn *badger.Txn, key []byte, entity interface{}) error {
	item, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return unmarshalEntity(val, entity)
	})
}

// setEntity stores entity under key.
func setEntity(txn *badger.Txn, key []byte, entity interface{}) error {
	data, err := marshalEntity(entity)
	if err != nil {
		return err
	}
	return txn.Set(key, data)
}

// indexMembers lists the member IDs indexed under prefix in key order.
func indexMembers(txn *badger.Txn, prefix []byte) ([]int, error) {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	var ids []int
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		id, err := indexMemberID(it.Item().Key())
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// wrapErr annotates storage failures and passes sentinel errors through.
func wrapErr(err error, msg string) error {
	if err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, ErrPasswordMismatch) {
		return err
	}
	return errors.Wrap(err, msg)
}

package repositories

import (
	"context"
	"sort"

	"postboard/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerCommentRepository implements CommentRepository using BadgerDB
type BadgerCommentRepository struct {
	db *badger.DB
}

// NewBadgerCommentRepository creates a new BadgerCommentRepository
func NewBadgerCommentRepository(db *badger.DB) *BadgerCommentRepository {
	return &BadgerCommentRepository{db: db}
}

// Create creates a new comment and indexes it under its post and parent
func (r *BadgerCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	comment.BeforeCreate()

	err := r.db.Update(func(txn *badger.Txn) error {
		id, err := getNextID(txn, CommentSeqKey)
		if err != nil {
			return err
		}
		comment.ID = id

		if err := setEntity(txn, entityKey(CommentKeyPrefix, id), comment); err != nil {
			return err
		}
		for _, key := range commentIndexKeys(comment) {
			if err := txn.Set(key, nil); err != nil {
				return err
			}
		}
		return nil
	})
	return wrapErr(err, "create comment")
}

// GetByID retrieves a comment by ID
func (r *BadgerCommentRepository) GetByID(ctx context.Context, id int) (*models.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var comment models.Comment
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, entityKey(CommentKeyPrefix, id), &comment)
	})
	if err != nil {
		return nil, wrapErr(err, "get comment")
	}
	return &comment, nil
}

// List retrieves the comments of a post, newest first
func (r *BadgerCommentRepository) List(ctx context.Context, filter CommentFilter, page Page) ([]*models.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	indexName := PostCommentsIndexPrefix
	if filter.TopLevelOnly {
		indexName = PostTopLevelIndexPrefix
	}
	prefix := indexPrefix(indexName, filter.PostID)

	comments := []*models.Comment{}
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		skipped := 0
		seek := append(append([]byte{}, prefix...), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			if len(comments) >= page.Take {
				break
			}
			if skipped < page.Skip {
				skipped++
				continue
			}

			id, err := indexMemberID(it.Item().Key())
			if err != nil {
				return err
			}
			var comment models.Comment
			if err := getEntity(txn, entityKey(CommentKeyPrefix, id), &comment); err != nil {
				return err
			}
			comments = append(comments, &comment)
		}
		return nil
	})
	if err != nil {
		return nil, wrapErr(err, "list comments")
	}
	return comments, nil
}

// ListReplies retrieves the direct replies of the given comments, oldest first
func (r *BadgerCommentRepository) ListReplies(ctx context.Context, parentIDs []int) ([]*models.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	replies := []*models.Comment{}
	err := r.db.View(func(txn *badger.Txn) error {
		for _, parentID := range parentIDs {
			ids, err := indexMembers(txn, indexPrefix(RepliesIndexPrefix, parentID))
			if err != nil {
				return err
			}
			for _, id := range ids {
				var reply models.Comment
				if err := getEntity(txn, entityKey(CommentKeyPrefix, id), &reply); err != nil {
					return err
				}
				replies = append(replies, &reply)
			}
		}
		return nil
	})
	if err != nil {
		return nil, wrapErr(err, "list replies")
	}

	sort.SliceStable(replies, func(i, j int) bool {
		return replies[i].ID < replies[j].ID
	})
	return replies, nil
}

// Update replaces the content of the comment when password matches
func (r *BadgerCommentRepository) Update(ctx context.Context, id int, content string, password *string) (*models.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var comment models.Comment
	err := r.db.Update(func(txn *badger.Txn) error {
		key := entityKey(CommentKeyPrefix, id)
		if err := getEntity(txn, key, &comment); err != nil {
			return err
		}
		if !comment.PasswordMatches(password) {
			return ErrPasswordMismatch
		}

		comment.Content = content
		comment.Touch()
		return setEntity(txn, key, &comment)
	})
	if err != nil {
		return nil, wrapErr(err, "update comment")
	}
	return &comment, nil
}

// Delete deletes the comment and its replies when password matches
func (r *BadgerCommentRepository) Delete(ctx context.Context, id int, password *string) (*models.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var comment models.Comment
	err := r.db.Update(func(txn *badger.Txn) error {
		if err := getEntity(txn, entityKey(CommentKeyPrefix, id), &comment); err != nil {
			return err
		}
		if !comment.PasswordMatches(password) {
			return ErrPasswordMismatch
		}
		return deleteCommentKeys(txn, id)
	})
	if err != nil {
		return nil, wrapErr(err, "delete comment")
	}
	return &comment, nil
}

// commentIndexKeys lists the index entries pointing at comment.
func commentIndexKeys(comment *models.Comment) [][]byte {
	keys := [][]byte{indexKey(PostCommentsIndexPrefix, comment.PostID, comment.ID)}
	if comment.IsReply() {
		keys = append(keys, indexKey(RepliesIndexPrefix, *comment.ParentID, comment.ID))
	} else {
		keys = append(keys, indexKey(PostTopLevelIndexPrefix, comment.PostID, comment.ID))
	}
	return keys
}

// deleteCommentKeys removes a comment, its replies and their index entries.
func deleteCommentKeys(txn *badger.Txn, id int) error {
	var comment models.Comment
	err := getEntity(txn, entityKey(CommentKeyPrefix, id), &comment)
	if err == ErrNotFound {
		// already removed as part of the same cascade
		return nil
	}
	if err != nil {
		return err
	}

	replyIDs, err := indexMembers(txn, indexPrefix(RepliesIndexPrefix, id))
	if err != nil {
		return err
	}
	for _, replyID := range replyIDs {
		if err := deleteCommentKeys(txn, replyID); err != nil {
			return err
		}
	}

	for _, key := range commentIndexKeys(&comment) {
		if err := txn.Delete(key); err != nil {
			return err
		}
	}
	return txn.Delete(entityKey(CommentKeyPrefix, id))
}

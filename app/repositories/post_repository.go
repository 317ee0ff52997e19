package repositories

import (
	"context"

	"postboard/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerPostRepository implements PostRepository using BadgerDB
type BadgerPostRepository struct {
	db *badger.DB
}

// NewBadgerPostRepository creates a new BadgerPostRepository
func NewBadgerPostRepository(db *badger.DB) *BadgerPostRepository {
	return &BadgerPostRepository{db: db}
}

// Create creates a new post
func (r *BadgerPostRepository) Create(ctx context.Context, post *models.Post) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	post.BeforeCreate()

	err := r.db.Update(func(txn *badger.Txn) error {
		id, err := getNextID(txn, PostSeqKey)
		if err != nil {
			return err
		}
		post.ID = id
		return setEntity(txn, entityKey(PostKeyPrefix, post.ID), post)
	})
	return wrapErr(err, "create post")
}

// GetByID retrieves a post by ID
func (r *BadgerPostRepository) GetByID(ctx context.Context, id int) (*models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var post models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, entityKey(PostKeyPrefix, id), &post)
	})
	if err != nil {
		return nil, wrapErr(err, "get post")
	}
	return &post, nil
}

// List retrieves the posts matching filter, newest first
func (r *BadgerPostRepository) List(ctx context.Context, filter PostFilter, page Page) ([]*models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	posts := []*models.Post{}
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration starts at the last key not greater than the seek key
		prefix := []byte(PostKeyPrefix)
		seek := append([]byte(PostKeyPrefix), 0xFF)

		matched := 0
		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			if len(posts) >= page.Take {
				break
			}

			var post models.Post
			err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &post)
			})
			if err != nil {
				return err
			}
			if !filter.Match(&post) {
				continue
			}
			if matched < page.Skip {
				matched++
				continue
			}
			posts = append(posts, &post)
		}
		return nil
	})
	if err != nil {
		return nil, wrapErr(err, "list posts")
	}
	return posts, nil
}

// Update changes title and content of the post when password matches
func (r *BadgerPostRepository) Update(ctx context.Context, id int, patch PostPatch, password string) (*models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var post models.Post
	err := r.db.Update(func(txn *badger.Txn) error {
		key := entityKey(PostKeyPrefix, id)
		if err := getEntity(txn, key, &post); err != nil {
			return err
		}
		if !post.PasswordMatches(password) {
			return ErrPasswordMismatch
		}

		post.Title = patch.Title
		post.Content = patch.Content
		post.Touch()
		return setEntity(txn, key, &post)
	})
	if err != nil {
		return nil, wrapErr(err, "update post")
	}
	return &post, nil
}

// Delete deletes the post and its comments when password matches
func (r *BadgerPostRepository) Delete(ctx context.Context, id int, password string) (*models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var post models.Post
	err := r.db.Update(func(txn *badger.Txn) error {
		key := entityKey(PostKeyPrefix, id)
		if err := getEntity(txn, key, &post); err != nil {
			return err
		}
		if !post.PasswordMatches(password) {
			return ErrPasswordMismatch
		}

		commentIDs, err := indexMembers(txn, indexPrefix(PostCommentsIndexPrefix, id))
		if err != nil {
			return err
		}
		for _, commentID := range commentIDs {
			if err := deleteCommentKeys(txn, commentID); err != nil {
				return err
			}
		}
		return txn.Delete(key)
	})
	if err != nil {
		return nil, wrapErr(err, "delete post")
	}
	return &post, nil
}

package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"postboard/app/models"
	"postboard/app/repositories"

	"github.com/pkg/errors"
)

const postColumns = "id, title, content, author_name, password, created_at, updated_at"

// PostRepository implements repositories.PostRepository on SQLite.
type PostRepository struct {
	db *sql.DB
}

func scanPost(row rowScanner) (*models.Post, error) {
	var (
		post               models.Post
		createdAt, updated int64
	)
	if err := row.Scan(&post.ID, &post.Title, &post.Content, &post.AuthorName, &post.Password, &createdAt, &updated); err != nil {
		return nil, err
	}
	post.CreatedAt = fromMillis(createdAt)
	post.UpdatedAt = fromMillis(updated)
	return &post, nil
}

func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	post.BeforeCreate()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO posts (title, content, author_name, password, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		post.Title, post.Content, post.AuthorName, post.Password,
		toMillis(post.CreatedAt), toMillis(post.UpdatedAt),
	)
	if err != nil {
		return errors.Wrap(err, "insert post")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "post id")
	}
	post.ID = int(id)
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id int) (*models.Post, error) {
	post, err := scanPost(r.db.QueryRowContext(ctx, "SELECT "+postColumns+" FROM posts WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get post %d", id)
	}
	return post, nil
}

func (r *PostRepository) List(ctx context.Context, filter repositories.PostFilter, page repositories.Page) ([]*models.Post, error) {
	var (
		where []string
		args  []any
	)
	if filter.Search != nil {
		// instr is case sensitive, unlike LIKE
		where = append(where, "instr(title, ?) > 0")
		args = append(args, *filter.Search)
	}
	if filter.Author != nil {
		where = append(where, "author_name = ?")
		args = append(args, *filter.Author)
	}

	query := "SELECT " + postColumns + " FROM posts"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, page.Take, page.Skip)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list posts")
	}
	defer rows.Close()

	posts := []*models.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan post")
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "list posts")
	}
	return posts, nil
}

func (r *PostRepository) Update(ctx context.Context, id int, patch repositories.PostPatch, password string) (*models.Post, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE posts SET title = ?, content = ?, updated_at = ?
		 WHERE id = ? AND password = ?
		 RETURNING `+postColumns,
		patch.Title, patch.Content, toMillis(models.Now()), id, password,
	)
	post, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, classifyMiss(ctx, r.db, "posts", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "update post %d", id)
	}
	return post, nil
}

func (r *PostRepository) Delete(ctx context.Context, id int, password string) (*models.Post, error) {
	row := r.db.QueryRowContext(ctx,
		"DELETE FROM posts WHERE id = ? AND password = ? RETURNING "+postColumns,
		id, password,
	)
	post, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, classifyMiss(ctx, r.db, "posts", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "delete post %d", id)
	}
	return post, nil
}

package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"postboard/app/models"
	"postboard/app/repositories"

	"github.com/pkg/errors"
)

const commentColumns = "id, content, author_name, password, post_id, parent_id, created_at, updated_at"

// CommentRepository implements repositories.CommentRepository on SQLite.
type CommentRepository struct {
	db *sql.DB
}

func scanComment(row rowScanner) (*models.Comment, error) {
	var (
		comment            models.Comment
		password           sql.NullString
		parentID           sql.NullInt64
		createdAt, updated int64
	)
	err := row.Scan(&comment.ID, &comment.Content, &comment.AuthorName, &password,
		&comment.PostID, &parentID, &createdAt, &updated)
	if err != nil {
		return nil, err
	}
	if password.Valid {
		comment.Password = &password.String
	}
	if parentID.Valid {
		id := int(parentID.Int64)
		comment.ParentID = &id
	}
	comment.CreatedAt = fromMillis(createdAt)
	comment.UpdatedAt = fromMillis(updated)
	return &comment, nil
}

func scanComments(rows *sql.Rows) ([]*models.Comment, error) {
	defer rows.Close()

	comments := []*models.Comment{}
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

// nullable converts an optional value to a driver argument
func nullable[T any](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}

func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	comment.BeforeCreate()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO comments (content, author_name, password, post_id, parent_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		comment.Content, comment.AuthorName, nullable(comment.Password),
		comment.PostID, nullable(comment.ParentID),
		toMillis(comment.CreatedAt), toMillis(comment.UpdatedAt),
	)
	if err != nil {
		return errors.Wrap(err, "insert comment")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "comment id")
	}
	comment.ID = int(id)
	return nil
}

func (r *CommentRepository) GetByID(ctx context.Context, id int) (*models.Comment, error) {
	comment, err := scanComment(r.db.QueryRowContext(ctx, "SELECT "+commentColumns+" FROM comments WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get comment %d", id)
	}
	return comment, nil
}

func (r *CommentRepository) List(ctx context.Context, filter repositories.CommentFilter, page repositories.Page) ([]*models.Comment, error) {
	query := "SELECT " + commentColumns + " FROM comments WHERE post_id = ?"
	if filter.TopLevelOnly {
		query += " AND parent_id IS NULL"
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"

	rows, err := r.db.QueryContext(ctx, query, filter.PostID, page.Take, page.Skip)
	if err != nil {
		return nil, errors.Wrap(err, "list comments")
	}
	comments, err := scanComments(rows)
	if err != nil {
		return nil, errors.Wrap(err, "scan comments")
	}
	return comments, nil
}

func (r *CommentRepository) ListReplies(ctx context.Context, parentIDs []int) ([]*models.Comment, error) {
	if len(parentIDs) == 0 {
		return []*models.Comment{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(parentIDs)), ",")
	args := make([]any, 0, len(parentIDs))
	for _, id := range parentIDs {
		args = append(args, id)
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+commentColumns+" FROM comments WHERE parent_id IN ("+placeholders+") ORDER BY created_at ASC, id ASC",
		args...,
	)
	if err != nil {
		return nil, errors.Wrap(err, "list replies")
	}
	replies, err := scanComments(rows)
	if err != nil {
		return nil, errors.Wrap(err, "scan replies")
	}
	return replies, nil
}

func (r *CommentRepository) Update(ctx context.Context, id int, content string, password *string) (*models.Comment, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE comments SET content = ?, updated_at = ?
		 WHERE id = ? AND password IS ?
		 RETURNING `+commentColumns,
		content, toMillis(models.Now()), id, nullable(password),
	)
	comment, err := scanComment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, classifyMiss(ctx, r.db, "comments", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "update comment %d", id)
	}
	return comment, nil
}

func (r *CommentRepository) Delete(ctx context.Context, id int, password *string) (*models.Comment, error) {
	row := r.db.QueryRowContext(ctx,
		"DELETE FROM comments WHERE id = ? AND password IS ? RETURNING "+commentColumns,
		id, nullable(password),
	)
	comment, err := scanComment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, classifyMiss(ctx, r.db, "comments", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "delete comment %d", id)
	}
	return comment, nil
}

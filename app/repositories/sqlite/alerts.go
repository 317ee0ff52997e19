package sqlite

import (
	"context"
	"database/sql"

	"postboard/app/models"

	"github.com/pkg/errors"
)

// AlertRepository implements repositories.AlertRepository on SQLite.
type AlertRepository struct {
	db *sql.DB
}

func (r *AlertRepository) Create(ctx context.Context, alert *models.KeywordAlert) error {
	alert.BeforeCreate()
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO keyword_alerts (keyword, author_name, created_at) VALUES (?, ?, ?)",
		alert.Keyword, alert.AuthorName, toMillis(alert.CreatedAt),
	)
	if err != nil {
		return errors.Wrap(err, "insert keyword alert")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "keyword alert id")
	}
	alert.ID = int(id)
	return nil
}

func (r *AlertRepository) List(ctx context.Context) ([]*models.KeywordAlert, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, keyword, author_name, created_at FROM keyword_alerts ORDER BY id")
	if err != nil {
		return nil, errors.Wrap(err, "list keyword alerts")
	}
	defer rows.Close()

	alerts := []*models.KeywordAlert{}
	for rows.Next() {
		var (
			alert     models.KeywordAlert
			createdAt int64
		)
		if err := rows.Scan(&alert.ID, &alert.Keyword, &alert.AuthorName, &createdAt); err != nil {
			return nil, errors.Wrap(err, "scan keyword alert")
		}
		alert.CreatedAt = fromMillis(createdAt)
		alerts = append(alerts, &alert)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "list keyword alerts")
	}
	return alerts, nil
}

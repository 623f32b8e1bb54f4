package mysql

import (
	"context"
	"database/sql"

	"github.com/rakshitsawarn/brandsight/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) SaveReport(ctx context.Context, sr domain.StoredReport) error {
	_, err := r.db.ExecContext(ctx, insertReportSQL,
		sr.ID,
		sr.UID,
		sr.Title,
		string(sr.Payload),
	)
	return err
}

func (r *Repo) ListReports(ctx context.Context, uid string, limit int) ([]domain.StoredReport, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, listReportsSQL, uid, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.StoredReport
	for rows.Next() {
		var sr domain.StoredReport
		var payload []byte
		if err := rows.Scan(&sr.ID, &sr.UID, &sr.Title, &payload, &sr.CreatedAt); err != nil {
			return nil, err
		}
		sr.Payload = payload
		out = append(out, sr)
	}
	return out, rows.Err()
}

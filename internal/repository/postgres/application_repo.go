package postgres

import (
	"context"
	"database/sql"

	"clubevents/internal/domain"
)

type applicationRepository struct {
	DB *sql.DB
}

func NewApplicationRepository(db *sql.DB) domain.ApplicationRepository {
	return &applicationRepository{DB: db}
}

func (r *applicationRepository) Create(ctx context.Context, app *domain.Application) error {
	query := `
		INSERT INTO club_applications (full_name, email, major, motivation, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, app.FullName, app.Email, app.Major, app.Motivation, app.CreatedAt).Scan(&app.ID)
}

// List returns one page of applications, newest first, with the total count.
func (r *applicationRepository) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Application, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM club_applications`).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := `
		SELECT id, full_name, email, major, motivation, created_at
		FROM club_applications
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.DB.QueryContext(ctx, query, params.Limit(), params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	apps := make([]*domain.Application, 0)
	for rows.Next() {
		a := &domain.Application{}
		if err := rows.Scan(&a.ID, &a.FullName, &a.Email, &a.Major, &a.Motivation, &a.CreatedAt); err != nil {
			return nil, 0, err
		}
		apps = append(apps, a)
	}
	return apps, total, rows.Err()
}

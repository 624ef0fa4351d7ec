package postgres

import (
	"context"
	"database/sql"
	"errors"

	"clubevents/internal/domain"
)

const eventColumns = `id, title, description, date, location, cover_image_url, is_hidden, registration_deadline, max_participants, created_at, updated_at`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(s rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var coverNull sql.NullString
	var deadlineNull sql.NullTime
	var maxNull sql.NullInt64
	if err := s.Scan(
		&e.ID, &e.Title, &e.Description, &e.Date, &e.Location,
		&coverNull, &e.IsHidden, &deadlineNull, &maxNull, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if coverNull.Valid {
		e.CoverImageURL = &coverNull.String
	}
	if deadlineNull.Valid {
		e.RegistrationDeadline = &deadlineNull.Time
	}
	if maxNull.Valid {
		v := int(maxNull.Int64)
		e.MaxParticipants = &v
	}
	return e, nil
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return int64(*v)
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, description, date, location, cover_image_url, is_hidden, registration_deadline, max_participants, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		e.Title, e.Description, e.Date, e.Location, e.CoverImageURL, e.IsHidden,
		e.RegistrationDeadline, nullableInt(e.MaxParticipants), e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidID(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) List(ctx context.Context, includeHidden bool) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE is_hidden = false ORDER BY date ASC`
	if includeHidden {
		query = `SELECT ` + eventColumns + ` FROM events ORDER BY date ASC`
	}
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events
		SET title = $1,
			description = $2,
			date = $3,
			location = $4,
			cover_image_url = $5,
			is_hidden = $6,
			registration_deadline = $7,
			max_participants = $8,
			updated_at = $9
		WHERE id = $10
		RETURNING created_at
	`
	err := r.DB.QueryRowContext(ctx, query,
		e.Title, e.Description, e.Date, e.Location, e.CoverImageURL, e.IsHidden,
		e.RegistrationDeadline, nullableInt(e.MaxParticipants), e.UpdatedAt, e.ID,
	).Scan(&e.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidID(err) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		if isInvalidID(err) {
			return domain.ErrNotFound
		}
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"clubevents/internal/domain"
)

// Postgres SQLSTATE codes the repositories translate into domain errors.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqInvalidText         = "22P02"
)

// isInvalidID reports whether Postgres rejected a malformed uuid literal. No row
// can match such an id, so callers treat it as not found.
func isInvalidID(err error) bool {
	var perr *pq.Error
	return errors.As(err, &perr) && perr.Code == pqInvalidText
}

type registrationRepository struct {
	DB *sql.DB
}

func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{
		DB: db,
	}
}

// Create inserts the registration. The unique index on (event_id, email) is the
// only duplicate check; its violation is reported as ErrDuplicateRegistration.
func (r *registrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	query := `
		INSERT INTO event_registrations (event_id, full_name, email, phone, school_name, agreed_to_policies, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		reg.EventID, reg.FullName, reg.Email, reg.Phone, reg.SchoolName, reg.AgreedToPolicies, reg.CreatedAt,
	).Scan(&reg.ID)
	if err != nil {
		var perr *pq.Error
		if errors.As(err, &perr) {
			switch perr.Code {
			case pqUniqueViolation:
				return domain.ErrDuplicateRegistration
			case pqForeignKeyViolation, pqInvalidText:
				// event deleted between load and insert
				return domain.ErrNotFound
			}
		}
		return err
	}
	return nil
}

func (r *registrationRepository) CountByEvent(ctx context.Context, eventID string) (int, error) {
	query := `SELECT COUNT(*) FROM event_registrations WHERE event_id = $1`
	var n int
	if err := r.DB.QueryRowContext(ctx, query, eventID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *registrationRepository) Exists(ctx context.Context, eventID, email string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM event_registrations WHERE event_id = $1 AND email = $2)`
	var ok bool
	if err := r.DB.QueryRowContext(ctx, query, eventID, email).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

func (r *registrationRepository) ListByEvent(ctx context.Context, eventID string) ([]*domain.Registration, error) {
	query := `
		SELECT id, event_id, full_name, email, phone, school_name, agreed_to_policies, created_at
		FROM event_registrations
		WHERE event_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regs []*domain.Registration
	for rows.Next() {
		reg := &domain.Registration{}
		var phone, school sql.NullString
		if err := rows.Scan(&reg.ID, &reg.EventID, &reg.FullName, &reg.Email, &phone, &school, &reg.AgreedToPolicies, &reg.CreatedAt); err != nil {
			return nil, err
		}
		if phone.Valid {
			reg.Phone = &phone.String
		}
		if school.Valid {
			reg.SchoolName = &school.String
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if regs == nil {
		regs = []*domain.Registration{}
	}
	return regs, nil
}

package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"clubevents/internal/domain"
)

type settingsRepository struct {
	DB *sql.DB
}

func NewSettingsRepository(db *sql.DB) domain.SettingsRepository {
	return &settingsRepository{DB: db}
}

// decodeBool accepts a JSONB boolean or the string "true"/"false".
func decodeBool(raw []byte) (bool, error) {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return false, fmt.Errorf("setting is not a boolean: %s", raw)
	}
	return s == "true", nil
}

func (r *settingsRepository) GetBool(ctx context.Context, key string, def bool) (bool, error) {
	query := `SELECT value FROM settings WHERE key = $1`
	var raw []byte
	if err := r.DB.QueryRowContext(ctx, query, key).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return def, nil
		}
		return false, err
	}
	return decodeBool(raw)
}

func (r *settingsRepository) SetBool(ctx context.Context, key string, value bool) (bool, error) {
	query := `
		INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
		RETURNING value
	`
	encoded, err := json.Marshal(value)
	if err != nil {
		return false, err
	}
	var raw []byte
	if err := r.DB.QueryRowContext(ctx, query, key, string(encoded)).Scan(&raw); err != nil {
		return false, err
	}
	return decodeBool(raw)
}

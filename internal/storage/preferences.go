package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/okorolenko/news-cluster-bot/internal/core/domain"
)

// ErrNotFound reports a missing preference record.
var ErrNotFound = errors.New("preferences not found")

// GetPreferences returns the stored preferences for a chat, or ErrNotFound.
func (db *DB) GetPreferences(ctx context.Context, chatID int64) (domain.Preferences, error) {
	const query = `
		SELECT chat_id, topic, location, language, automatic, updated_at
		FROM user_preferences
		WHERE chat_id = $1`

	var prefs domain.Preferences

	err := db.Pool.QueryRow(ctx, query, chatID).Scan(
		&prefs.ChatID,
		&prefs.Topic,
		&prefs.Location,
		&prefs.Language,
		&prefs.Automatic,
		&prefs.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Preferences{}, ErrNotFound
	}

	if err != nil {
		return domain.Preferences{}, fmt.Errorf("get preferences: %w", err)
	}

	return prefs, nil
}

// SavePreferences inserts or updates the preference record for a chat.
func (db *DB) SavePreferences(ctx context.Context, prefs domain.Preferences) error {
	const query = `
		INSERT INTO user_preferences (chat_id, topic, location, language, automatic, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (chat_id) DO UPDATE SET
			topic = EXCLUDED.topic,
			location = EXCLUDED.location,
			language = EXCLUDED.language,
			automatic = EXCLUDED.automatic,
			updated_at = now()`

	if _, err := db.Pool.Exec(ctx, query,
		prefs.ChatID, prefs.Topic, prefs.Location, prefs.Language, prefs.Automatic); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}

	return nil
}

// SetAutomatic toggles automatic daily updates for a chat.
func (db *DB) SetAutomatic(ctx context.Context, chatID int64, automatic bool) error {
	const query = `
		UPDATE user_preferences
		SET automatic = $2, updated_at = now()
		WHERE chat_id = $1`

	tag, err := db.Pool.Exec(ctx, query, chatID, automatic)
	if err != nil {
		return fmt.Errorf("set automatic: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// ListAutomatic returns all chats with automatic daily updates enabled.
func (db *DB) ListAutomatic(ctx context.Context) ([]domain.Preferences, error) {
	const query = `
		SELECT chat_id, topic, location, language, automatic, updated_at
		FROM user_preferences
		WHERE automatic
		ORDER BY chat_id`

	rows, err := db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list automatic: %w", err)
	}
	defer rows.Close()

	var result []domain.Preferences

	for rows.Next() {
		var prefs domain.Preferences

		if err := rows.Scan(
			&prefs.ChatID,
			&prefs.Topic,
			&prefs.Location,
			&prefs.Language,
			&prefs.Automatic,
			&prefs.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan preferences: %w", err)
		}

		result = append(result, prefs)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate preferences: %w", err)
	}

	return result, nil
}

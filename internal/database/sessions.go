package database

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// CreateSession issues an opaque session token for a user.
func (db *DB) CreateSession(userID string, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	expires := time.Now().UTC().Add(ttl)

	_, err := db.conn.Exec(
		"INSERT INTO sessions (token, user_id, expires_at) VALUES (?, ?, ?)",
		token, userID, formatTime(expires),
	)
	if err != nil {
		return "", err
	}
	return token, nil
}

// GetUserBySession resolves a session token to its user. Expired or
// unknown tokens return nil; expired rows are removed on the way out.
func (db *DB) GetUserBySession(token string) (*User, error) {
	row := db.conn.QueryRow(
		`SELECT u.id, u.email, u.created_at, s.expires_at
		FROM sessions s JOIN users u ON u.id = s.user_id
		WHERE s.token = ?`, token,
	)

	var user User
	var createdAt, expiresAt string
	if err := row.Scan(&user.ID, &user.Email, &createdAt, &expiresAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	expires, err := parseTime(expiresAt)
	if err != nil {
		return nil, err
	}
	if time.Now().UTC().After(expires) {
		db.DeleteSession(token)
		return nil, nil
	}

	created, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	user.CreatedAt = created
	return &user, nil
}

// DeleteSession invalidates a session token.
func (db *DB) DeleteSession(token string) error {
	_, err := db.conn.Exec("DELETE FROM sessions WHERE token = ?", token)
	return err
}

package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrEmailTaken is returned by CreateUser for a duplicate email.
var ErrEmailTaken = errors.New("email already registered")

// CreateUser registers a new account with a bcrypt-hashed password and
// a default settings row.
func (db *DB) CreateUser(email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	id := uuid.NewString()
	now := time.Now().UTC()

	tx, err := db.conn.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var existing int
	if err := tx.QueryRow("SELECT COUNT(*) FROM users WHERE email = ?", email).Scan(&existing); err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ErrEmailTaken
	}

	if _, err := tx.Exec(
		"INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)",
		id, email, string(hash), formatTime(now),
	); err != nil {
		return nil, err
	}
	if _, err := tx.Exec("INSERT INTO user_settings (user_id) VALUES (?)", id); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &User{ID: id, Email: email, CreatedAt: now}, nil
}

// AuthenticateUser verifies credentials. Returns nil for an unknown
// email or wrong password.
func (db *DB) AuthenticateUser(email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	row := db.conn.QueryRow("SELECT id, email, password_hash, created_at FROM users WHERE email = ?", email)

	var user User
	var hash, createdAt string
	if err := row.Scan(&user.ID, &user.Email, &hash, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, nil
	}

	created, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	user.CreatedAt = created
	return &user, nil
}

// GetUserByID returns a user, or nil when absent.
func (db *DB) GetUserByID(id string) (*User, error) {
	row := db.conn.QueryRow("SELECT id, email, created_at FROM users WHERE id = ?", id)

	var user User
	var createdAt string
	if err := row.Scan(&user.ID, &user.Email, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	created, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	user.CreatedAt = created
	return &user, nil
}

package database

import (
	"database/sql"
	"time"
)

// GetUserSettings returns a user's settings row, or nil when absent.
func (db *DB) GetUserSettings(userID string) (*UserSettings, error) {
	row := db.conn.QueryRow(
		`SELECT user_id, name, brand_name, brand_url, brief_prompt_override, writer_prompt_override
		FROM user_settings WHERE user_id = ?`, userID,
	)

	var s UserSettings
	err := row.Scan(&s.UserID, &s.Name, &s.BrandName, &s.BrandURL, &s.BriefPromptOverride, &s.WriterPromptOverride)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// UpdateUserSettings overwrites a user's settings and returns the
// updated row, or nil when no row exists for the user.
func (db *DB) UpdateUserSettings(userID string, s UserSettings) (*UserSettings, error) {
	res, err := db.conn.Exec(
		`UPDATE user_settings SET name = ?, brand_name = ?, brand_url = ?,
		brief_prompt_override = ?, writer_prompt_override = ?, updated_at = ?
		WHERE user_id = ?`,
		s.Name, s.BrandName, s.BrandURL, s.BriefPromptOverride, s.WriterPromptOverride,
		formatTime(time.Now().UTC()), userID,
	)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, nil
	}
	return db.GetUserSettings(userID)
}

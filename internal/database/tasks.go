package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const taskColumns = "id, user_id, kind, query, mode, status, stage, progress_percent, error, artifacts, created_at, updated_at"

// CreateTask inserts a new queued task record and returns it.
func (db *DB) CreateTask(userID string, kind TaskKind, query, mode string, initial Artifacts) (*TaskRecord, error) {
	artifactsJSON, err := json.Marshal(initial)
	if err != nil {
		return nil, fmt.Errorf("encoding artifacts: %w", err)
	}

	now := time.Now().UTC()
	rec := &TaskRecord{
		ID:        uuid.NewString(),
		UserID:    userID,
		Kind:      kind,
		Query:     query,
		Mode:      mode,
		Status:    StatusQueued,
		Stage:     "queued",
		Artifacts: initial,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err = db.conn.Exec(
		`INSERT INTO tasks (id, user_id, kind, query, mode, status, stage, progress_percent, artifacts, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, ?, ?)`,
		rec.ID, rec.UserID, string(rec.Kind), rec.Query, rec.Mode, string(rec.Status), rec.Stage,
		string(artifactsJSON), formatTime(now), formatTime(now),
	)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// GetTask returns a task scoped to its owner, or nil when absent
// or owned by another user.
func (db *DB) GetTask(userID, taskID string) (*TaskRecord, error) {
	row := db.conn.QueryRow(
		"SELECT "+taskColumns+" FROM tasks WHERE id = ? AND user_id = ?",
		taskID, userID,
	)
	return scanTask(row)
}

// GetTaskByID returns a task without owner scoping. Orchestrators use
// it to fetch records they just created without re-deriving the owner.
func (db *DB) GetTaskByID(taskID string) (*TaskRecord, error) {
	row := db.conn.QueryRow("SELECT "+taskColumns+" FROM tasks WHERE id = ?", taskID)
	return scanTask(row)
}

// ListTasks returns a user's tasks of one kind, newest first.
func (db *DB) ListTasks(userID string, kind TaskKind, limit int) ([]TaskRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.conn.Query(
		"SELECT "+taskColumns+" FROM tasks WHERE user_id = ? AND kind = ? ORDER BY created_at DESC LIMIT ?",
		userID, string(kind), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []TaskRecord
	for rows.Next() {
		rec, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *rec)
	}
	return tasks, rows.Err()
}

// UpdateTask applies a partial update to a task record and returns the
// updated row. Only supplied fields are touched; updated_at is always
// refreshed and progress never moves backwards.
func (db *DB) UpdateTask(taskID string, u TaskUpdate) (*TaskRecord, error) {
	sets := []string{"updated_at = ?"}
	args := []any{formatTime(time.Now().UTC())}

	if u.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, string(*u.Status))
	}
	if u.Stage != nil {
		sets = append(sets, "stage = ?")
		args = append(args, *u.Stage)
	}
	if u.Progress != nil {
		sets = append(sets, "progress_percent = MAX(progress_percent, ?)")
		args = append(args, *u.Progress)
	}
	if u.ClearError {
		sets = append(sets, "error = NULL")
	} else if u.Error != nil {
		sets = append(sets, "error = ?")
		args = append(args, *u.Error)
	}
	if u.Artifacts != nil {
		artifactsJSON, err := json.Marshal(u.Artifacts)
		if err != nil {
			return nil, fmt.Errorf("encoding artifacts: %w", err)
		}
		sets = append(sets, "artifacts = ?")
		args = append(args, string(artifactsJSON))
	}

	args = append(args, taskID)
	res, err := db.conn.Exec("UPDATE tasks SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
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
	return db.GetTaskByID(taskID)
}

// FailInterrupted marks every queued or running task as failed.
// Called once at server startup so records from a previous process
// never dangle in a non-terminal state.
func (db *DB) FailInterrupted() (int64, error) {
	res, err := db.conn.Exec(
		`UPDATE tasks SET status = 'failed', stage = 'failed', progress_percent = 100,
		error = 'interrupted by restart', updated_at = ?
		WHERE status IN ('queued', 'running')`,
		formatTime(time.Now().UTC()),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type scannable interface {
	Scan(dest ...any) error
}

func scanTask(row scannable) (*TaskRecord, error) {
	var rec TaskRecord
	var kind, status, artifactsJSON, createdAt, updatedAt string
	err := row.Scan(
		&rec.ID, &rec.UserID, &kind, &rec.Query, &rec.Mode, &status, &rec.Stage,
		&rec.ProgressPercent, &rec.Error, &artifactsJSON, &createdAt, &updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	rec.Kind = TaskKind(kind)
	rec.Status = TaskStatus(status)
	if err := json.Unmarshal([]byte(artifactsJSON), &rec.Artifacts); err != nil {
		return nil, fmt.Errorf("decoding artifacts for task %s: %w", rec.ID, err)
	}
	if rec.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if rec.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &rec, nil
}

// timeLayout is fixed-width so stored timestamps sort lexicographically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}

package database

// Stats summarizes the database for the status command.
type Stats struct {
	Users          int
	Runs           int
	Briefs         int
	Articles       int
	CompletedTasks int
	FailedTasks    int
	ActiveTasks    int
}

// GetStats counts users and tasks by kind and status.
func (db *DB) GetStats() (*Stats, error) {
	stats := &Stats{}

	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&stats.Users); err != nil {
		return nil, err
	}

	rows, err := db.conn.Query(`SELECT kind, status, COUNT(*) FROM tasks GROUP BY kind, status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var kind, status string
		var count int
		if err := rows.Scan(&kind, &status, &count); err != nil {
			return nil, err
		}
		switch TaskKind(kind) {
		case TaskRun:
			stats.Runs += count
		case TaskBrief:
			stats.Briefs += count
		case TaskArticle:
			stats.Articles += count
		}
		switch TaskStatus(status) {
		case StatusCompleted:
			stats.CompletedTasks += count
		case StatusFailed:
			stats.FailedTasks += count
		case StatusQueued, StatusRunning:
			stats.ActiveTasks += count
		}
	}
	return stats, rows.Err()
}

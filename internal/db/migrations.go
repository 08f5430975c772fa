package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS workspaces (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			name       TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS devices (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			workspace_id      INTEGER NOT NULL REFERENCES workspaces(id),
			name              TEXT NOT NULL,
			photo_url         TEXT NOT NULL DEFAULT '',
			device_type_id    INTEGER NOT NULL DEFAULT 0,
			device_state_id   INTEGER NOT NULL DEFAULT 0,
			add_in_rec_system INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS operators (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			workspace_id INTEGER NOT NULL REFERENCES workspaces(id),
			full_name    TEXT NOT NULL,
			phone        TEXT NOT NULL DEFAULT '',
			user_login   TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS device_tasks (
			id                  INTEGER PRIMARY KEY AUTOINCREMENT,
			workspace_id        INTEGER NOT NULL REFERENCES workspaces(id),
			name                TEXT NOT NULL,
			doc_num             TEXT NOT NULL DEFAULT '',
			photo_url           TEXT NOT NULL DEFAULT '',
			device_id           INTEGER NOT NULL DEFAULT 0,
			operator_id         INTEGER NOT NULL DEFAULT 0,
			priority_id         INTEGER NOT NULL DEFAULT 0,
			device_task_type_id INTEGER NOT NULL DEFAULT 0,
			need_operator       INTEGER NOT NULL DEFAULT 0,
			add_in_rec_system   INTEGER NOT NULL DEFAULT 0,
			deadline            TEXT,
			plan_start          TEXT,
			plan_end            TEXT,
			duration_min        INTEGER NOT NULL DEFAULT 0,
			setup_time_min      INTEGER NOT NULL DEFAULT 0,
			unload_time_min     INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS breaks (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			workspace_id INTEGER NOT NULL REFERENCES workspaces(id),
			operator_id  INTEGER NOT NULL DEFAULT 0,
			name         TEXT NOT NULL DEFAULT '',
			kind         TEXT CHECK(kind IN ('lunch', 'off_duty')),
			priority     INTEGER NOT NULL DEFAULT 0,
			start_time   TEXT,
			end_time     TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_devices_workspace ON devices(workspace_id);
		CREATE INDEX IF NOT EXISTS idx_operators_workspace ON operators(workspace_id);
		CREATE INDEX IF NOT EXISTS idx_device_tasks_workspace ON device_tasks(workspace_id);
		CREATE INDEX IF NOT EXISTS idx_device_tasks_device ON device_tasks(device_id, plan_start);
		CREATE INDEX IF NOT EXISTS idx_breaks_operator ON breaks(operator_id, start_time);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	return nil
}

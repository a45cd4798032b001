package db

// SchemaSQL is the complete schema for fresh tally installs.
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. All tests
// load it via GetSchemaSQL(); if repository code references a column that
// does not exist here, tests fail immediately with "no such column".
// Do not hardcode CREATE TABLE statements in test files.
const SchemaSQL = `
-- Views (tabular regions: team views plus reserved structural views)
CREATE TABLE IF NOT EXISTS views (
	name TEXT PRIMARY KEY,
	team_id TEXT,
	reserved INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Cells (one row per occupied cell; value and note together)
CREATE TABLE IF NOT EXISTS cells (
	view_name TEXT NOT NULL,
	row INTEGER NOT NULL,
	col INTEGER NOT NULL,
	value TEXT NOT NULL DEFAULT '',
	note TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (view_name, row, col),
	FOREIGN KEY (view_name) REFERENCES views(name) ON DELETE CASCADE
);

-- Range protections (coarse guard against interactive edits, not locking)
CREATE TABLE IF NOT EXISTS protections (
	view_name TEXT NOT NULL,
	start_col INTEGER NOT NULL,
	end_col INTEGER NOT NULL,
	description TEXT,
	FOREIGN KEY (view_name) REFERENCES views(name) ON DELETE CASCADE
);

-- Subject directory (read-only to the core; refreshed by import)
CREATE TABLE IF NOT EXISTS subjects (
	id TEXT PRIMARY KEY,
	last_name TEXT NOT NULL,
	first_name TEXT NOT NULL,
	grade TEXT,
	team_id TEXT NOT NULL,
	flags TEXT
);

-- Staff roles per team (alert recipients)
CREATE TABLE IF NOT EXISTS staff (
	email TEXT NOT NULL,
	name TEXT,
	team_id TEXT NOT NULL,
	role TEXT NOT NULL CHECK(role IN ('lead', 'responder')),
	PRIMARY KEY (email, team_id, role)
);

-- Event ledger: one canonical row per (subject_id, rank, week_label).
-- snapshot is written at creation and never updated; source_value and
-- alerted_at are the only mutable fields.
CREATE TABLE IF NOT EXISTS ledger_events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at TEXT NOT NULL,
	subject_id TEXT NOT NULL,
	last_name TEXT,
	first_name TEXT,
	grade TEXT,
	team_id TEXT,
	rank TEXT NOT NULL,
	week_label TEXT NOT NULL,
	attribution TEXT,
	origin_view TEXT,
	source_value TEXT,
	snapshot TEXT,
	alerted_at TEXT NOT NULL DEFAULT '',
	UNIQUE (subject_id, rank, week_label)
);

-- Document-scoped durable map (per-team sync state)
CREATE TABLE IF NOT EXISTS doc_state (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

-- User-scoped durable map (attestation)
CREATE TABLE IF NOT EXISTS user_state (
	actor TEXT NOT NULL,
	key TEXT NOT NULL,
	value TEXT NOT NULL,
	PRIMARY KEY (actor, key)
);

-- Notification templates (literal placeholder substitution)
CREATE TABLE IF NOT EXISTS message_templates (
	name TEXT PRIMARY KEY,
	subject TEXT NOT NULL,
	body TEXT NOT NULL,
	fields TEXT
);

-- Bounded append-only diagnostic record
CREATE TABLE IF NOT EXISTS audit_log (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	actor TEXT,
	category TEXT NOT NULL,
	message TEXT NOT NULL
);
`

// GetSchemaSQL returns the authoritative schema.
func GetSchemaSQL() string {
	return SchemaSQL
}

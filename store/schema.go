package store

// Schema is applied on every open. The user row keeps the record as JSON
// minus its PnL history; history rows live in pnl_entries so saves only
// insert what is new.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	email_key TEXT NOT NULL UNIQUE,
	record TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS pnl_entries (
	user_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	date TEXT NOT NULL,
	amount TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (user_id, seq)
);

CREATE TABLE IF NOT EXISTS certificates (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	certificate_number TEXT NOT NULL,
	user_id TEXT NOT NULL,
	user_name TEXT NOT NULL,
	account_size TEXT NOT NULL,
	date_issued TEXT NOT NULL,
	date_generated TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_certificates_user ON certificates(user_id);
`

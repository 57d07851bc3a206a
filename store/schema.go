package store

// Schema is executed on every open. The partial unique index on OPEN
// status is the hard backstop for the single-open-register invariant;
// the conditional insert/update in closures.go is the normal path.
const Schema = `
CREATE TABLE IF NOT EXISTS closures (
	id TEXT PRIMARY KEY,
	status TEXT NOT NULL CHECK (status IN ('OPEN', 'CLOSED')),
	created_at DATETIME NOT NULL,
	last_activity_at DATETIME NOT NULL,
	closed_at DATETIME,
	operator_id TEXT NOT NULL DEFAULT '',
	total_credit REAL NOT NULL DEFAULT 0,
	total_debit REAL NOT NULL DEFAULT 0,
	final_balance REAL NOT NULL DEFAULT 0
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_closures_single_open
	ON closures(status) WHERE status = 'OPEN';

CREATE INDEX IF NOT EXISTS idx_closures_closed_at ON closures(closed_at);

CREATE TABLE IF NOT EXISTS closure_totals (
	closure_id TEXT NOT NULL REFERENCES closures(id),
	method_id TEXT NOT NULL,
	method_name TEXT NOT NULL,
	credit REAL NOT NULL,
	debit REAL NOT NULL,
	total REAL NOT NULL,
	position INTEGER NOT NULL,
	PRIMARY KEY (closure_id, method_id)
);

CREATE TABLE IF NOT EXISTS transactions (
	id TEXT PRIMARY KEY,
	amount REAL NOT NULL,
	transaction_date DATETIME NOT NULL,
	method_id TEXT,
	method_name TEXT,
	type_name TEXT,
	affects_balance TEXT,
	metadata TEXT NOT NULL DEFAULT '{}'
);

CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(transaction_date);

CREATE TABLE IF NOT EXISTS payment_methods (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	active INTEGER NOT NULL DEFAULT 1
);

INSERT OR IGNORE INTO payment_methods (id, name) VALUES
	('efectivo', 'Cash'),
	('tarjeta-credito', 'Credit Card'),
	('tarjeta-debito', 'Debit Card'),
	('transferencia', 'Bank Transfer');
`

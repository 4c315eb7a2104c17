package store

const schema = `
CREATE TABLE IF NOT EXISTS candle (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	symbol     TEXT NOT NULL,
	minutes    INTEGER NOT NULL,
	open_time  DATETIME NOT NULL,
	close_time DATETIME NOT NULL,
	open       REAL NOT NULL,
	high       REAL NOT NULL,
	low        REAL NOT NULL,
	close      REAL NOT NULL,
	volume     REAL NOT NULL,
	UNIQUE(symbol, minutes, open_time)
);

CREATE INDEX IF NOT EXISTS idx_candle_symbol_minutes_open
	ON candle(symbol, minutes, open_time);

CREATE TABLE IF NOT EXISTS flow (
	id                     INTEGER PRIMARY KEY AUTOINCREMENT,
	position               TEXT NOT NULL,
	is_buyer_maker         BOOLEAN NOT NULL,
	time                   DATETIME NOT NULL,
	price                  REAL NOT NULL,
	quantity               REAL NOT NULL,
	total                  REAL NOT NULL,
	real_balance_fiat_old  REAL NOT NULL,
	real_balance_fiat_new  REAL NOT NULL,
	gain_perc              REAL NOT NULL,
	log                    TEXT
);

CREATE INDEX IF NOT EXISTS idx_flow_position_time ON flow(position, time);

CREATE TABLE IF NOT EXISTS backtest_runs (
	run_id                  TEXT PRIMARY KEY,
	symbol                  TEXT NOT NULL,
	minutes                 INTEGER NOT NULL,
	script_path             TEXT NOT NULL,
	started_at              DATETIME NOT NULL,
	ended_at                DATETIME,
	start_real_balance_fiat REAL,
	end_real_balance_fiat   REAL,
	flow_count              INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_backtest_runs_started_at ON backtest_runs(started_at);
`

package database

// VisitsSchema creates the table the Postgres visit backend appends to.
// visited_at holds the "YYYY-MM-DD HH:MM:SS" text so day buckets match by
// prefix, the same as the sheet and local log. Client supplied columns are
// unbounded TEXT: a long forwarded-for value must not fail the insert.
var VisitsSchema = []string{
	`CREATE TABLE IF NOT EXISTS visits (
		id BIGSERIAL PRIMARY KEY,
		visited_at TEXT NOT NULL,
		ip_address TEXT NOT NULL DEFAULT '',
		user_agent TEXT NOT NULL DEFAULT '',
		note TEXT,
		created_at TIMESTAMP DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_visits_visited_at ON visits(visited_at)`,
}

// VisitsTeardown drops everything VisitsSchema creates
var VisitsTeardown = []string{
	`DROP TABLE IF EXISTS visits CASCADE`,
}

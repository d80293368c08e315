package sqlstore

import "fmt"

// Dialect holds the SQL flavour of a driver.
type Dialect struct {
	Name   string
	Driver string

	schema string
	get    string
	put    string
	del    string
}

// SQLite is the dialect of github.com/mattn/go-sqlite3.
var SQLite = Dialect{
	Name:   "sqlite",
	Driver: "sqlite3",
	schema: `CREATE TABLE IF NOT EXISTS %s (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
	get: `SELECT value FROM %s WHERE key = ?`,
	put: `INSERT INTO %s (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
	del: `DELETE FROM %s WHERE key = ?`,
}

// Postgres is the dialect of github.com/lib/pq.
var Postgres = Dialect{
	Name:   "postgres",
	Driver: "postgres",
	schema: `CREATE TABLE IF NOT EXISTS %s (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
	get: `SELECT value FROM %s WHERE key = $1`,
	put: `INSERT INTO %s (key, value, updated_at) VALUES ($1, $2, NOW())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
	del: `DELETE FROM %s WHERE key = $1`,
}

// DialectFor returns the dialect registered for a database/sql driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case SQLite.Driver, "sqlite":
		return SQLite, nil
	case Postgres.Driver, "postgresql", "pq":
		return Postgres, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported sql driver %q", driver)
	}
}

func (d Dialect) queries(table string) queries {
	return queries{
		schema: fmt.Sprintf(d.schema, table),
		get:    fmt.Sprintf(d.get, table),
		put:    fmt.Sprintf(d.put, table),
		del:    fmt.Sprintf(d.del, table),
	}
}

type queries struct {
	schema, get, put, del string
}

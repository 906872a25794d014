package db

const schemaUsersSQLite = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT NOT NULL UNIQUE,
    email TEXT NOT NULL UNIQUE,
    hashed_password TEXT NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT 1,
    created_at TIMESTAMP NOT NULL
);
`

const schemaTasksSQLite = `
CREATE TABLE IF NOT EXISTS tasks (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title VARCHAR(100) NOT NULL,
    description TEXT,
    completed BOOLEAN NOT NULL DEFAULT 0,
    user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);
`

const schemaUsersPostgres = `
CREATE TABLE IF NOT EXISTS users (
    id BIGSERIAL PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    email TEXT NOT NULL UNIQUE,
    hashed_password TEXT NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMPTZ NOT NULL
);
`

const schemaTasksPostgres = `
CREATE TABLE IF NOT EXISTS tasks (
    id BIGSERIAL PRIMARY KEY,
    title VARCHAR(100) NOT NULL,
    description TEXT,
    completed BOOLEAN NOT NULL DEFAULT FALSE,
    user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);
`

// Index DDL is shared; both engines accept IF NOT EXISTS.
const (
	indexTasksUserID    = `CREATE INDEX IF NOT EXISTS ix_tasks_user_id ON tasks (user_id);`
	indexTasksTitle     = `CREATE INDEX IF NOT EXISTS ix_tasks_title ON tasks (title);`
	indexTasksCompleted = `CREATE INDEX IF NOT EXISTS ix_tasks_completed ON tasks (completed);`
)

func schemaFor(d Dialect) []string {
	if d == Postgres {
		return []string{schemaUsersPostgres, schemaTasksPostgres, indexTasksUserID, indexTasksTitle, indexTasksCompleted}
	}
	return []string{schemaUsersSQLite, schemaTasksSQLite, indexTasksUserID, indexTasksTitle, indexTasksCompleted}
}

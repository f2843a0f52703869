package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the history schema.
// Timestamps are stored as Unix nanoseconds (UTC) so range filters compare
// integers.
const Schema = `
CREATE TABLE IF NOT EXISTS calls (
    id TEXT PRIMARY KEY,
    created_at INTEGER NOT NULL,

    provider TEXT NOT NULL,
    model TEXT NOT NULL,
    message_count INTEGER NOT NULL,
    prompt TEXT,

    outcome TEXT NOT NULL,
    status_code INTEGER,
    latency_ms INTEGER,
    response TEXT,
    request_id TEXT,

    prompt_tokens INTEGER,
    completion_tokens INTEGER,
    total_tokens INTEGER,

    error TEXT
);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_calls_created_at ON calls(created_at);
CREATE INDEX IF NOT EXISTS idx_calls_provider ON calls(provider);
CREATE INDEX IF NOT EXISTS idx_calls_outcome ON calls(outcome);
`

// InsertSchemaVersion inserts the schema version into the schema_version table.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`

const callColumns = `id, created_at, provider, model, message_count, prompt,
    outcome, status_code, latency_ms, response, request_id,
    prompt_tokens, completion_tokens, total_tokens, error`

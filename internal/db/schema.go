package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// schema is applied at startup. Two constraints carry core invariants:
// the UNIQUE (user_id, project_id) index on contributors is the sole source
// of truth for duplicate membership, and the ON DELETE CASCADE chain
// projects -> issues -> comments implements the ownership hierarchy.
// Author/assignee references stay nullable so erasure can anonymize them.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id                 BIGSERIAL PRIMARY KEY,
    username           TEXT NOT NULL UNIQUE,
    email              TEXT NOT NULL DEFAULT '',
    password_hash      TEXT NOT NULL,
    date_of_birth      DATE NOT NULL,
    can_be_contacted   BOOLEAN NOT NULL DEFAULT TRUE,
    can_data_be_shared BOOLEAN NOT NULL DEFAULT FALSE,
    created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS projects (
    id          BIGSERIAL PRIMARY KEY,
    name        TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    type        TEXT NOT NULL CHECK (type IN ('backend', 'frontend', 'ios', 'android')),
    author_id   BIGINT REFERENCES users(id),
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS contributors (
    id         BIGSERIAL PRIMARY KEY,
    user_id    BIGINT NOT NULL REFERENCES users(id),
    project_id BIGINT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CONSTRAINT contributors_user_project_key UNIQUE (user_id, project_id)
);

CREATE TABLE IF NOT EXISTS issues (
    id          BIGSERIAL PRIMARY KEY,
    project_id  BIGINT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
    name        TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    author_id   BIGINT REFERENCES users(id),
    assignee_id BIGINT REFERENCES users(id),
    priority    TEXT NOT NULL DEFAULT 'medium' CHECK (priority IN ('low', 'medium', 'high')),
    tag         TEXT NOT NULL DEFAULT 'task' CHECK (tag IN ('bug', 'feature', 'task')),
    status      TEXT NOT NULL DEFAULT 'to_do' CHECK (status IN ('to_do', 'in_progress', 'finished')),
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS comments (
    id          UUID PRIMARY KEY,
    issue_id    BIGINT NOT NULL REFERENCES issues(id) ON DELETE CASCADE,
    author_id   BIGINT REFERENCES users(id),
    description TEXT NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_contributors_project ON contributors(project_id);
CREATE INDEX IF NOT EXISTS idx_issues_project ON issues(project_id);
CREATE INDEX IF NOT EXISTS idx_comments_issue ON comments(issue_id);
`

// Migrate bootstraps the schema. Statements are idempotent so it runs on
// every startup.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		logger.Error("Schema migration failed", zap.Error(err))
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	logger.Info("Schema is up to date")
	return nil
}

package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"softdesk/internal/apperr"
	"softdesk/internal/model"
)

type ProjectRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewProjectRepository(db *pgxpool.Pool, logger *zap.Logger) *ProjectRepository {
	return &ProjectRepository{db: db, logger: logger}
}

// Create inserts the project and the author's membership row in one
// transaction. The membership insert uses ON CONFLICT DO NOTHING so the
// author join is idempotent; the author is a contributor from the instant the
// project exists.
func (r *ProjectRepository) Create(ctx context.Context, p *model.Project) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
        INSERT INTO projects (name, description, type, author_id, created_at)
        VALUES ($1, $2, $3, $4, NOW())
        RETURNING id, created_at
    `, p.Name, p.Description, p.Type, p.AuthorID).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
        INSERT INTO contributors (user_id, project_id, created_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (user_id, project_id) DO NOTHING
    `, p.AuthorID, p.ID)
	if err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	r.logger.Info("Project created",
		zap.Int64("id", p.ID),
		zap.Int64p("author_id", p.AuthorID),
	)
	return nil
}

// FindByID returns the project with the given id.
func (r *ProjectRepository) FindByID(ctx context.Context, id int64) (*model.Project, error) {
	query := `
        SELECT id, name, description, type, author_id, created_at
        FROM projects
        WHERE id = $1
    `
	var p model.Project
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Type, &p.AuthorID, &p.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("project")
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListForUser returns the projects the user contributes to. Scoping the query
// to memberships means resources outside the user's reach never appear, so
// listing leaks nothing.
func (r *ProjectRepository) ListForUser(ctx context.Context, userID int64) ([]model.Project, error) {
	query := `
        SELECT p.id, p.name, p.description, p.type, p.author_id, p.created_at
        FROM projects p
        JOIN contributors c ON c.project_id = p.id
        WHERE c.user_id = $1
        ORDER BY p.created_at DESC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Type, &p.AuthorID, &p.CreatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// Update rewrites the mutable fields. The author reference is immutable here.
func (r *ProjectRepository) Update(ctx context.Context, p *model.Project) error {
	query := `
        UPDATE projects
        SET name = $1, description = $2, type = $3
        WHERE id = $4
    `
	tag, err := r.db.Exec(ctx, query, p.Name, p.Description, p.Type, p.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("project")
	}
	return nil
}

// Delete removes the project; issues and comments go with it through the
// cascading foreign keys.
func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("project")
	}
	r.logger.Info("Project deleted", zap.Int64("id", id))
	return nil
}

// ProjectAuthor resolves the author reference for the policy engine. nil
// means the author was anonymized.
func (r *ProjectRepository) ProjectAuthor(ctx context.Context, projectID int64) (*int64, error) {
	var authorID *int64
	err := r.db.QueryRow(ctx, `SELECT author_id FROM projects WHERE id = $1`, projectID).Scan(&authorID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("project")
	}
	if err != nil {
		return nil, err
	}
	return authorID, nil
}

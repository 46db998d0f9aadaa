package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"softdesk/internal/apperr"
	"softdesk/internal/model"
)

type ContributorRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewContributorRepository(db *pgxpool.Pool, logger *zap.Logger) *ContributorRepository {
	return &ContributorRepository{db: db, logger: logger}
}

// Add inserts a membership row. The UNIQUE (user_id, project_id) index is
// the duplicate detector: a concurrent add for the same pair loses the race
// at the constraint, not at an application check.
func (r *ContributorRepository) Add(ctx context.Context, projectID, userID int64) (*model.Contributor, error) {
	query := `
        INSERT INTO contributors (user_id, project_id, created_at)
        VALUES ($1, $2, NOW())
        RETURNING id, created_at
    `
	c := model.Contributor{UserID: userID, ProjectID: projectID}
	err := r.db.QueryRow(ctx, query, userID, projectID).Scan(&c.ID, &c.CreatedAt)
	if _, ok := uniqueViolation(err); ok {
		return nil, &apperr.DuplicateError{Constraint: "contributor"}
	}
	if foreignKeyViolation(err) {
		return nil, apperr.NotFound("user")
	}
	if err != nil {
		return nil, err
	}

	r.logger.Info("Contributor added",
		zap.Int64("project_id", projectID),
		zap.Int64("user_id", userID),
	)
	return &c, nil
}

// Remove deletes a membership row. Callers enforce that the project author's
// row is never removed.
func (r *ContributorRepository) Remove(ctx context.Context, projectID, userID int64) error {
	tag, err := r.db.Exec(ctx, `
        DELETE FROM contributors
        WHERE project_id = $1 AND user_id = $2
    `, projectID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("contributor")
	}

	r.logger.Info("Contributor removed",
		zap.Int64("project_id", projectID),
		zap.Int64("user_id", userID),
	)
	return nil
}

// List returns the members of a project.
func (r *ContributorRepository) List(ctx context.Context, projectID int64) ([]model.Contributor, error) {
	query := `
        SELECT id, user_id, project_id, created_at
        FROM contributors
        WHERE project_id = $1
        ORDER BY created_at ASC
    `
	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contributors := []model.Contributor{}
	for rows.Next() {
		var c model.Contributor
		if err := rows.Scan(&c.ID, &c.UserID, &c.ProjectID, &c.CreatedAt); err != nil {
			return nil, err
		}
		contributors = append(contributors, c)
	}
	return contributors, rows.Err()
}

// IsMember reports whether the user currently contributes to the project.
func (r *ContributorRepository) IsMember(ctx context.Context, projectID, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM contributors WHERE project_id = $1 AND user_id = $2
        )
    `, projectID, userID).Scan(&exists)
	return exists, err
}

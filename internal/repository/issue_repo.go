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

type IssueRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewIssueRepository(db *pgxpool.Pool, logger *zap.Logger) *IssueRepository {
	return &IssueRepository{db: db, logger: logger}
}

// memberInTx re-checks membership inside the write transaction so a user
// removed from the project between the policy check and the write cannot
// slip through.
func memberInTx(ctx context.Context, tx pgx.Tx, projectID, userID int64) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM contributors WHERE project_id = $1 AND user_id = $2
        )
    `, projectID, userID).Scan(&exists)
	return exists, err
}

// Create inserts the issue. The assignee membership check and the insert
// share one transaction.
func (r *IssueRepository) Create(ctx context.Context, i *model.Issue) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if i.AssigneeID != nil {
		member, err := memberInTx(ctx, tx, i.ProjectID, *i.AssigneeID)
		if err != nil {
			return err
		}
		if !member {
			return apperr.Validation("assignee must be a contributor of the project")
		}
	}

	err = tx.QueryRow(ctx, `
        INSERT INTO issues (project_id, name, description, author_id, assignee_id, priority, tag, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
        RETURNING id, created_at, updated_at
    `, i.ProjectID, i.Name, i.Description, i.AuthorID, i.AssigneeID,
		i.Priority, i.Tag, i.Status,
	).Scan(&i.ID, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	r.logger.Info("Issue created",
		zap.Int64("id", i.ID),
		zap.Int64("project_id", i.ProjectID),
	)
	return nil
}

// FindByID returns the issue scoped under its project.
func (r *IssueRepository) FindByID(ctx context.Context, projectID, issueID int64) (*model.Issue, error) {
	query := `
        SELECT id, project_id, name, description, author_id, assignee_id, priority, tag, status, created_at, updated_at
        FROM issues
        WHERE id = $1 AND project_id = $2
    `
	var i model.Issue
	err := r.db.QueryRow(ctx, query, issueID, projectID).Scan(
		&i.ID, &i.ProjectID, &i.Name, &i.Description, &i.AuthorID, &i.AssigneeID,
		&i.Priority, &i.Tag, &i.Status, &i.CreatedAt, &i.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("issue")
	}
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// List returns a project's issues, newest first.
func (r *IssueRepository) List(ctx context.Context, projectID int64) ([]model.Issue, error) {
	query := `
        SELECT id, project_id, name, description, author_id, assignee_id, priority, tag, status, created_at, updated_at
        FROM issues
        WHERE project_id = $1
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	issues := []model.Issue{}
	for rows.Next() {
		var i model.Issue
		err := rows.Scan(
			&i.ID, &i.ProjectID, &i.Name, &i.Description, &i.AuthorID, &i.AssigneeID,
			&i.Priority, &i.Tag, &i.Status, &i.CreatedAt, &i.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		issues = append(issues, i)
	}
	return issues, rows.Err()
}

// Update rewrites the mutable fields. The assignee membership invariant is
// re-validated against current membership in the same transaction as the
// write, not only at creation.
func (r *IssueRepository) Update(ctx context.Context, i *model.Issue) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if i.AssigneeID != nil {
		member, err := memberInTx(ctx, tx, i.ProjectID, *i.AssigneeID)
		if err != nil {
			return err
		}
		if !member {
			return apperr.Validation("assignee must be a contributor of the project")
		}
	}

	err = tx.QueryRow(ctx, `
        UPDATE issues
        SET name = $1, description = $2, assignee_id = $3, priority = $4, tag = $5, status = $6, updated_at = NOW()
        WHERE id = $7 AND project_id = $8
        RETURNING updated_at
    `, i.Name, i.Description, i.AssigneeID, i.Priority, i.Tag, i.Status,
		i.ID, i.ProjectID,
	).Scan(&i.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("issue")
	}
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Delete removes the issue; its comments go with it through the cascade.
func (r *IssueRepository) Delete(ctx context.Context, projectID, issueID int64) error {
	tag, err := r.db.Exec(ctx, `
        DELETE FROM issues WHERE id = $1 AND project_id = $2
    `, issueID, projectID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("issue")
	}
	r.logger.Info("Issue deleted",
		zap.Int64("id", issueID),
		zap.Int64("project_id", projectID),
	)
	return nil
}

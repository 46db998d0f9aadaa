package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"softdesk/internal/apperr"
	"softdesk/internal/model"
)

type CommentRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewCommentRepository(db *pgxpool.Pool, logger *zap.Logger) *CommentRepository {
	return &CommentRepository{db: db, logger: logger}
}

// Create inserts the comment. The author membership check and the insert
// share one transaction so a requester removed from the project mid-request
// cannot comment.
func (r *CommentRepository) Create(ctx context.Context, c *model.Comment) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if c.AuthorID != nil {
		member, err := memberInTx(ctx, tx, c.ProjectID, *c.AuthorID)
		if err != nil {
			return err
		}
		if !member {
			return apperr.Validation("comment author must be a contributor of the project")
		}
	}

	err = tx.QueryRow(ctx, `
        INSERT INTO comments (id, issue_id, author_id, description, created_at)
        VALUES ($1, $2, $3, $4, NOW())
        RETURNING created_at
    `, c.ID, c.IssueID, c.AuthorID, c.Description).Scan(&c.CreatedAt)
	if err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	r.logger.Info("Comment created",
		zap.String("id", c.ID.String()),
		zap.Int64("issue_id", c.IssueID),
	)
	return nil
}

// FindByID returns the comment scoped under its issue. The join pulls the
// owning project id so the policy engine can resolve membership without a
// second query.
func (r *CommentRepository) FindByID(ctx context.Context, issueID int64, id uuid.UUID) (*model.Comment, error) {
	query := `
        SELECT c.id, c.issue_id, i.project_id, c.author_id, c.description, c.created_at
        FROM comments c
        JOIN issues i ON i.id = c.issue_id
        WHERE c.id = $1 AND c.issue_id = $2
    `
	var c model.Comment
	err := r.db.QueryRow(ctx, query, id, issueID).Scan(
		&c.ID, &c.IssueID, &c.ProjectID, &c.AuthorID, &c.Description, &c.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("comment")
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns an issue's comments, newest first.
func (r *CommentRepository) List(ctx context.Context, issueID int64) ([]model.Comment, error) {
	query := `
        SELECT c.id, c.issue_id, i.project_id, c.author_id, c.description, c.created_at
        FROM comments c
        JOIN issues i ON i.id = c.issue_id
        WHERE c.issue_id = $1
        ORDER BY c.created_at DESC
    `
	rows, err := r.db.Query(ctx, query, issueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.IssueID, &c.ProjectID, &c.AuthorID, &c.Description, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// Update rewrites the comment text.
func (r *CommentRepository) Update(ctx context.Context, c *model.Comment) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE comments SET description = $1 WHERE id = $2 AND issue_id = $3
    `, c.Description, c.ID, c.IssueID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("comment")
	}
	return nil
}

// Delete removes the comment.
func (r *CommentRepository) Delete(ctx context.Context, issueID int64, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
        DELETE FROM comments WHERE id = $1 AND issue_id = $2
    `, id, issueID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("comment")
	}
	r.logger.Info("Comment deleted", zap.String("id", id.String()))
	return nil
}

package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"softdesk/internal/apperr"
	"softdesk/internal/model"
	"softdesk/pkg/metrics"
)

// AccountRepository implements the right-to-erasure sequence and the GDPR
// data export. Erasure follows the anonymize-then-delete strategy: authored
// content loses its attribution instead of disappearing, except for projects
// where the departing user was the sole contributor.
type AccountRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewAccountRepository(db *pgxpool.Pool, logger *zap.Logger) *AccountRepository {
	return &AccountRepository{db: db, logger: logger}
}

// Erase removes the user and anonymizes every back-reference in one
// transaction. Any failure rolls the whole sequence back; a crash mid-way
// leaves the pre-deletion state intact.
func (r *AccountRepository) Erase(ctx context.Context, userID int64) error {
	start := time.Now()
	defer func() {
		metrics.RecordDBQueryDuration("erase", "users", time.Since(start))
	}()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return apperr.Internal("erase: begin", err)
	}
	defer tx.Rollback(ctx)

	// Comments keep their text, lose their attribution.
	if _, err := tx.Exec(ctx, `
        UPDATE comments SET author_id = NULL WHERE author_id = $1
    `, userID); err != nil {
		return apperr.Internal("erase: anonymize comments", err)
	}

	// Issues lose both attribution and assignment.
	if _, err := tx.Exec(ctx, `
        UPDATE issues SET author_id = NULL WHERE author_id = $1
    `, userID); err != nil {
		return apperr.Internal("erase: anonymize issue authors", err)
	}
	if _, err := tx.Exec(ctx, `
        UPDATE issues SET assignee_id = NULL WHERE assignee_id = $1
    `, userID); err != nil {
		return apperr.Internal("erase: clear issue assignments", err)
	}

	// Projects the user solely contributed to are deleted outright (the
	// cascade takes their issues and comments); shared projects only lose
	// the author reference.
	if _, err := tx.Exec(ctx, `
        DELETE FROM projects p
        WHERE p.author_id = $1
          AND NOT EXISTS (
              SELECT 1 FROM contributors c
              WHERE c.project_id = p.id AND c.user_id <> $1
          )
    `, userID); err != nil {
		return apperr.Internal("erase: delete sole-contributor projects", err)
	}
	if _, err := tx.Exec(ctx, `
        UPDATE projects SET author_id = NULL WHERE author_id = $1
    `, userID); err != nil {
		return apperr.Internal("erase: anonymize shared projects", err)
	}

	// Memberships go before the user row so no orphaned contributor rows
	// survive the commit.
	if _, err := tx.Exec(ctx, `
        DELETE FROM contributors WHERE user_id = $1
    `, userID); err != nil {
		return apperr.Internal("erase: delete memberships", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return apperr.Internal("erase: delete user", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user")
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.Internal("erase: commit", err)
	}

	r.logger.Info("Account erased", zap.Int64("user_id", userID))
	return nil
}

// Export collects all personal data referencing the user.
func (r *AccountRepository) Export(ctx context.Context, userID int64) (*model.Export, error) {
	var exp model.Export

	err := r.db.QueryRow(ctx, `
        SELECT id, username, email, password_hash, date_of_birth, can_be_contacted, can_data_be_shared, created_at
        FROM users WHERE id = $1
    `, userID).Scan(
		&exp.User.ID, &exp.User.Username, &exp.User.Email, &exp.User.PasswordHash,
		&exp.User.DateOfBirth, &exp.User.CanBeContacted, &exp.User.CanDataBeShared,
		&exp.User.CreatedAt,
	)
	if err != nil {
		return nil, apperr.NotFound("user")
	}

	exp.ProjectsAuthored, err = r.projectsAuthored(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("export: projects", err)
	}

	exp.Contributions, err = r.contributions(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("export: contributions", err)
	}

	exp.IssuesAuthored, err = r.issuesBy(ctx, `author_id`, userID)
	if err != nil {
		return nil, apperr.Internal("export: issues authored", err)
	}

	exp.IssuesAssigned, err = r.issuesBy(ctx, `assignee_id`, userID)
	if err != nil {
		return nil, apperr.Internal("export: issues assigned", err)
	}

	exp.CommentsAuthored, err = r.commentsAuthored(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("export: comments", err)
	}

	exp.ExportedAt = time.Now().UTC()
	return &exp, nil
}

func (r *AccountRepository) projectsAuthored(ctx context.Context, userID int64) ([]model.Project, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, name, description, type, author_id, created_at
        FROM projects WHERE author_id = $1 ORDER BY created_at DESC
    `, userID)
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

func (r *AccountRepository) contributions(ctx context.Context, userID int64) ([]model.Contributor, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, user_id, project_id, created_at
        FROM contributors WHERE user_id = $1 ORDER BY created_at DESC
    `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contributions := []model.Contributor{}
	for rows.Next() {
		var c model.Contributor
		if err := rows.Scan(&c.ID, &c.UserID, &c.ProjectID, &c.CreatedAt); err != nil {
			return nil, err
		}
		contributions = append(contributions, c)
	}
	return contributions, rows.Err()
}

func (r *AccountRepository) issuesBy(ctx context.Context, column string, userID int64) ([]model.Issue, error) {
	// column is one of the two fixed identifiers below, never user input.
	query := `
        SELECT id, project_id, name, description, author_id, assignee_id, priority, tag, status, created_at, updated_at
        FROM issues WHERE ` + column + ` = $1 ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, userID)
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

func (r *AccountRepository) commentsAuthored(ctx context.Context, userID int64) ([]model.Comment, error) {
	rows, err := r.db.Query(ctx, `
        SELECT c.id, c.issue_id, i.project_id, c.author_id, c.description, c.created_at
        FROM comments c
        JOIN issues i ON i.id = c.issue_id
        WHERE c.author_id = $1
        ORDER BY c.created_at DESC
    `, userID)
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

package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"softdesk/internal/model"
)

// Narrow store interfaces consumed by the services. The pgx repositories in
// internal/repository satisfy them; tests substitute in-memory fakes.

type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
	UpdateConsents(ctx context.Context, id int64, canBeContacted, canDataBeShared bool) error
}

type ProjectStore interface {
	Create(ctx context.Context, p *model.Project) error
	FindByID(ctx context.Context, id int64) (*model.Project, error)
	ListForUser(ctx context.Context, userID int64) ([]model.Project, error)
	Update(ctx context.Context, p *model.Project) error
	Delete(ctx context.Context, id int64) error
}

type ContributorStore interface {
	Add(ctx context.Context, projectID, userID int64) (*model.Contributor, error)
	Remove(ctx context.Context, projectID, userID int64) error
	List(ctx context.Context, projectID int64) ([]model.Contributor, error)
	IsMember(ctx context.Context, projectID, userID int64) (bool, error)
}

type IssueStore interface {
	Create(ctx context.Context, i *model.Issue) error
	FindByID(ctx context.Context, projectID, issueID int64) (*model.Issue, error)
	List(ctx context.Context, projectID int64) ([]model.Issue, error)
	Update(ctx context.Context, i *model.Issue) error
	Delete(ctx context.Context, projectID, issueID int64) error
}

type CommentStore interface {
	Create(ctx context.Context, c *model.Comment) error
	FindByID(ctx context.Context, issueID int64, id uuid.UUID) (*model.Comment, error)
	List(ctx context.Context, issueID int64) ([]model.Comment, error)
	Update(ctx context.Context, c *model.Comment) error
	Delete(ctx context.Context, issueID int64, id uuid.UUID) error
}

type AccountStore interface {
	Erase(ctx context.Context, userID int64) error
	Export(ctx context.Context, userID int64) (*model.Export, error)
}

// EventPublisher is the outbound side of the event bus. Publishing is
// best-effort: a failed publish is logged, never propagated.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

// TokenRevoker denylists a user's bearer tokens after account erasure.
type TokenRevoker interface {
	Revoke(ctx context.Context, userID int64, ttl time.Duration) error
}

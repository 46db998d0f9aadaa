package mq

import "time"

// Routing keys for lifecycle events. Publishing is best-effort after commit;
// the store stays the source of truth.
const (
	RoutingKeyProjectCreated = "project.created"
	RoutingKeyIssueCreated   = "issue.created"
	RoutingKeyCommentCreated = "comment.created"
	RoutingKeyUserDeleted    = "user.deleted"
)

type ProjectCreatedEvent struct {
	ProjectID int64     `json:"project_id"`
	AuthorID  int64     `json:"author_id"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

type IssueCreatedEvent struct {
	IssueID   int64     `json:"issue_id"`
	ProjectID int64     `json:"project_id"`
	AuthorID  int64     `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

type CommentCreatedEvent struct {
	CommentID string    `json:"comment_id"`
	IssueID   int64     `json:"issue_id"`
	AuthorID  int64     `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

type UserDeletedEvent struct {
	UserID    int64     `json:"user_id"`
	DeletedAt time.Time `json:"deleted_at"`
}

package model

import (
	"time"

	"github.com/google/uuid"
)

// Comment belongs to exactly one issue. The primary key is an opaque UUID so
// identifiers leak neither creation order nor volume across projects.
// ProjectID is denormalized into the struct by the repository join; it is not
// a column on the comments table.
type Comment struct {
	ID          uuid.UUID `json:"id"`
	IssueID     int64     `json:"issue_id"`
	ProjectID   int64     `json:"-"`
	AuthorID    *int64    `json:"author_id"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func (c *Comment) ProjectRef() int64 { return c.ProjectID }

func (c *Comment) AuthorRef() *int64 { return c.AuthorID }

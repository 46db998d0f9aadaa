package model

import (
	"time"

	"softdesk/internal/apperr"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Tag string

const (
	TagBug     Tag = "bug"
	TagFeature Tag = "feature"
	TagTask    Tag = "task"
)

func (t Tag) Valid() bool {
	switch t {
	case TagBug, TagFeature, TagTask:
		return true
	}
	return false
}

type Status string

const (
	StatusToDo       Status = "to_do"
	StatusInProgress Status = "in_progress"
	StatusFinished   Status = "finished"
)

func (s Status) Valid() bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusFinished:
		return true
	}
	return false
}

// Issue belongs to exactly one project. AuthorID is immutable after creation
// and nullable only through anonymization; AssigneeID is mutable and must
// reference a current project member whenever it is set.
type Issue struct {
	ID          int64     `json:"id"`
	ProjectID   int64     `json:"project_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	AuthorID    *int64    `json:"author_id"`
	AssigneeID  *int64    `json:"assignee_id"`
	Priority    Priority  `json:"priority"`
	Tag         Tag       `json:"tag"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ApplyDefaults fills the documented field defaults on creation.
func (i *Issue) ApplyDefaults() {
	if i.Priority == "" {
		i.Priority = PriorityMedium
	}
	if i.Tag == "" {
		i.Tag = TagTask
	}
	if i.Status == "" {
		i.Status = StatusToDo
	}
}

func (i *Issue) Validate() error {
	if i.Name == "" {
		return apperr.Validation("name is required")
	}
	if !i.Priority.Valid() {
		return apperr.Validation("invalid priority %q", string(i.Priority))
	}
	if !i.Tag.Valid() {
		return apperr.Validation("invalid tag %q", string(i.Tag))
	}
	if !i.Status.Valid() {
		return apperr.Validation("invalid status %q", string(i.Status))
	}
	return nil
}

func (i *Issue) ProjectRef() int64 { return i.ProjectID }

func (i *Issue) AuthorRef() *int64 { return i.AuthorID }

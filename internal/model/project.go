package model

import (
	"time"

	"softdesk/internal/apperr"
)

type ProjectType string

const (
	ProjectBackend  ProjectType = "backend"
	ProjectFrontend ProjectType = "frontend"
	ProjectIOS      ProjectType = "ios"
	ProjectAndroid  ProjectType = "android"
)

func (t ProjectType) Valid() bool {
	switch t {
	case ProjectBackend, ProjectFrontend, ProjectIOS, ProjectAndroid:
		return true
	}
	return false
}

// Project is the root of the resource hierarchy. AuthorID is nullable so the
// author reference can be anonymized on account erasure.
type Project struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Type        ProjectType `json:"type"`
	AuthorID    *int64      `json:"author_id"`
	CreatedAt   time.Time   `json:"created_at"`
}

func (p *Project) Validate() error {
	if p.Name == "" {
		return apperr.Validation("name is required")
	}
	if !p.Type.Valid() {
		return apperr.Validation("invalid project type %q", string(p.Type))
	}
	return nil
}

// ProjectRef resolves the owning project: a project owns itself.
func (p *Project) ProjectRef() int64 { return p.ID }

// AuthorRef returns the author reference, nil once anonymized.
func (p *Project) AuthorRef() *int64 { return p.AuthorID }

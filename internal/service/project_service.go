package service

import (
	"context"

	"go.uber.org/zap"

	"softdesk/internal/apperr"
	"softdesk/internal/model"
	"softdesk/internal/mq"
	"softdesk/internal/policy"
)

type ProjectService struct {
	projects     ProjectStore
	contributors ContributorStore
	auth         *policy.Engine
	events       EventPublisher
	logger       *zap.Logger
}

func NewProjectService(
	projects ProjectStore,
	contributors ContributorStore,
	auth *policy.Engine,
	events EventPublisher,
	logger *zap.Logger,
) *ProjectService {
	return &ProjectService{
		projects:     projects,
		contributors: contributors,
		auth:         auth,
		events:       events,
		logger:       logger,
	}
}

type ProjectInput struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Type        model.ProjectType `json:"type"`
}

// Create makes the requester the project's author. The store inserts the
// author membership row in the same transaction as the project.
func (s *ProjectService) Create(ctx context.Context, requesterID int64, in ProjectInput) (*model.Project, error) {
	p := &model.Project{
		Name:        in.Name,
		Description: in.Description,
		Type:        in.Type,
		AuthorID:    &requesterID,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := s.projects.Create(ctx, p); err != nil {
		return nil, err
	}

	s.publish(mq.RoutingKeyProjectCreated, mq.ProjectCreatedEvent{
		ProjectID: p.ID,
		AuthorID:  requesterID,
		Type:      string(p.Type),
		CreatedAt: p.CreatedAt,
	})
	return p, nil
}

// Get returns the project when the requester is a contributor.
func (s *ProjectService) Get(ctx context.Context, requesterID, projectID int64) (*model.Project, error) {
	p, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.auth.Authorize(ctx, requesterID, policy.KindProject, policy.ActionRead, p); err != nil {
		return nil, err
	}
	return p, nil
}

// List returns the projects the requester contributes to.
func (s *ProjectService) List(ctx context.Context, requesterID int64) ([]model.Project, error) {
	return s.projects.ListForUser(ctx, requesterID)
}

type ProjectUpdateInput struct {
	Name        *string            `json:"name"`
	Description *string            `json:"description"`
	Type        *model.ProjectType `json:"type"`
}

// Update rewrites the given fields; only the author may call it.
func (s *ProjectService) Update(ctx context.Context, requesterID, projectID int64, in ProjectUpdateInput) (*model.Project, error) {
	p, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.auth.Authorize(ctx, requesterID, policy.KindProject, policy.ActionUpdate, p); err != nil {
		return nil, err
	}

	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Type != nil {
		p.Type = *in.Type
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := s.projects.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes the project and, through the cascade, its issues and
// comments. Author only.
func (s *ProjectService) Delete(ctx context.Context, requesterID, projectID int64) error {
	p, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return err
	}
	if err := s.auth.Authorize(ctx, requesterID, policy.KindProject, policy.ActionDelete, p); err != nil {
		return err
	}
	return s.projects.Delete(ctx, projectID)
}

// AddContributor adds a member. Only the project author may manage
// membership; a duplicate pair fails at the unique constraint.
func (s *ProjectService) AddContributor(ctx context.Context, requesterID, projectID, userID int64) (*model.Contributor, error) {
	p, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.auth.Authorize(ctx, requesterID, policy.KindProject, policy.ActionRead, p); err != nil {
		return nil, err
	}
	if p.AuthorID == nil || *p.AuthorID != requesterID {
		return nil, apperr.Forbidden("only the project author may add contributors")
	}
	return s.contributors.Add(ctx, projectID, userID)
}

// RemoveContributor removes a member. The author's own membership is
// structurally mandatory while the project exists and can never be removed.
func (s *ProjectService) RemoveContributor(ctx context.Context, requesterID, projectID, userID int64) error {
	p, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return err
	}
	if err := s.auth.Authorize(ctx, requesterID, policy.KindProject, policy.ActionRead, p); err != nil {
		return err
	}
	if p.AuthorID == nil || *p.AuthorID != requesterID {
		return apperr.Forbidden("only the project author may remove contributors")
	}
	if p.AuthorID != nil && *p.AuthorID == userID {
		return apperr.Forbidden("the project author cannot be removed")
	}
	return s.contributors.Remove(ctx, projectID, userID)
}

// ListContributors returns the project's members.
func (s *ProjectService) ListContributors(ctx context.Context, requesterID, projectID int64) ([]model.Contributor, error) {
	p, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.auth.Authorize(ctx, requesterID, policy.KindProject, policy.ActionRead, p); err != nil {
		return nil, err
	}
	return s.contributors.List(ctx, projectID)
}

func (s *ProjectService) publish(routingKey string, payload any) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(routingKey, payload); err != nil {
		s.logger.Warn("Event publish failed",
			zap.String("routing_key", routingKey),
			zap.Error(err),
		)
	}
}

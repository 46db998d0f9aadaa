package service

import (
	"context"

	"go.uber.org/zap"

	"softdesk/internal/model"
	"softdesk/internal/mq"
	"softdesk/internal/policy"
)

type IssueService struct {
	projects ProjectStore
	issues   IssueStore
	auth     *policy.Engine
	events   EventPublisher
	logger   *zap.Logger
}

func NewIssueService(
	projects ProjectStore,
	issues IssueStore,
	auth *policy.Engine,
	events EventPublisher,
	logger *zap.Logger,
) *IssueService {
	return &IssueService{
		projects: projects,
		issues:   issues,
		auth:     auth,
		events:   events,
		logger:   logger,
	}
}

type IssueInput struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	AssigneeID  *int64         `json:"assignee_id"`
	Priority    model.Priority `json:"priority"`
	Tag         model.Tag      `json:"tag"`
	Status      model.Status   `json:"status"`
}

// Create opens an issue authored by the requester. The author field is never
// client-supplied. The assignee, when given, must be a current contributor;
// the store re-checks that inside the insert transaction.
func (s *IssueService) Create(ctx context.Context, requesterID, projectID int64, in IssueInput) (*model.Issue, error) {
	p, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.auth.Authorize(ctx, requesterID, policy.KindIssue, policy.ActionCreate, p); err != nil {
		return nil, err
	}

	i := &model.Issue{
		ProjectID:   projectID,
		Name:        in.Name,
		Description: in.Description,
		AuthorID:    &requesterID,
		AssigneeID:  in.AssigneeID,
		Priority:    in.Priority,
		Tag:         in.Tag,
		Status:      in.Status,
	}
	i.ApplyDefaults()
	if err := i.Validate(); err != nil {
		return nil, err
	}

	if err := s.issues.Create(ctx, i); err != nil {
		return nil, err
	}

	s.publish(mq.RoutingKeyIssueCreated, mq.IssueCreatedEvent{
		IssueID:   i.ID,
		ProjectID: projectID,
		AuthorID:  requesterID,
		CreatedAt: i.CreatedAt,
	})
	return i, nil
}

// Get returns the issue when the requester is a contributor of its project.
func (s *IssueService) Get(ctx context.Context, requesterID, projectID, issueID int64) (*model.Issue, error) {
	i, err := s.issues.FindByID(ctx, projectID, issueID)
	if err != nil {
		return nil, err
	}
	if err := s.auth.Authorize(ctx, requesterID, policy.KindIssue, policy.ActionRead, i); err != nil {
		return nil, err
	}
	return i, nil
}

// List returns the project's issues for contributors.
func (s *IssueService) List(ctx context.Context, requesterID, projectID int64) ([]model.Issue, error) {
	p, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.auth.Authorize(ctx, requesterID, policy.KindIssue, policy.ActionRead, p); err != nil {
		return nil, err
	}
	return s.issues.List(ctx, projectID)
}

type IssueUpdateInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	AssigneeID  *int64  `json:"assignee_id"`
	// ClearAssignee unassigns the issue; a null assignee_id alone is
	// indistinguishable from an omitted field.
	ClearAssignee bool            `json:"clear_assignee"`
	Priority      *model.Priority `json:"priority"`
	Tag           *model.Tag      `json:"tag"`
	Status        *model.Status   `json:"status"`
}

// Update rewrites the given fields. Permitted for the issue author or the
// project author. A changed assignee is validated against current membership
// inside the write transaction, so assignments to since-removed members fail
// while existing assignments stand.
func (s *IssueService) Update(ctx context.Context, requesterID, projectID, issueID int64, in IssueUpdateInput) (*model.Issue, error) {
	i, err := s.issues.FindByID(ctx, projectID, issueID)
	if err != nil {
		return nil, err
	}
	if err := s.auth.Authorize(ctx, requesterID, policy.KindIssue, policy.ActionUpdate, i); err != nil {
		return nil, err
	}

	if in.Name != nil {
		i.Name = *in.Name
	}
	if in.Description != nil {
		i.Description = *in.Description
	}
	if in.ClearAssignee {
		i.AssigneeID = nil
	} else if in.AssigneeID != nil {
		i.AssigneeID = in.AssigneeID
	}
	if in.Priority != nil {
		i.Priority = *in.Priority
	}
	if in.Tag != nil {
		i.Tag = *in.Tag
	}
	if in.Status != nil {
		i.Status = *in.Status
	}
	if err := i.Validate(); err != nil {
		return nil, err
	}

	if err := s.issues.Update(ctx, i); err != nil {
		return nil, err
	}
	return i, nil
}

// Delete removes the issue and its comments. Permitted for the issue author
// or the project author.
func (s *IssueService) Delete(ctx context.Context, requesterID, projectID, issueID int64) error {
	i, err := s.issues.FindByID(ctx, projectID, issueID)
	if err != nil {
		return err
	}
	if err := s.auth.Authorize(ctx, requesterID, policy.KindIssue, policy.ActionDelete, i); err != nil {
		return err
	}
	return s.issues.Delete(ctx, projectID, issueID)
}

func (s *IssueService) publish(routingKey string, payload any) {
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

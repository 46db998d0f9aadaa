package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"softdesk/internal/apperr"
	"softdesk/internal/model"
	"softdesk/internal/mq"
	"softdesk/internal/policy"
)

type CommentService struct {
	issues   IssueStore
	comments CommentStore
	auth     *policy.Engine
	events   EventPublisher
	logger   *zap.Logger
}

func NewCommentService(
	issues IssueStore,
	comments CommentStore,
	auth *policy.Engine,
	events EventPublisher,
	logger *zap.Logger,
) *CommentService {
	return &CommentService{
		issues:   issues,
		comments: comments,
		auth:     auth,
		events:   events,
		logger:   logger,
	}
}

// Create writes a comment authored by the requester. The id is an opaque
// UUID generated here, never derived from a sequence.
func (s *CommentService) Create(ctx context.Context, requesterID, projectID, issueID int64, description string) (*model.Comment, error) {
	if description == "" {
		return nil, apperr.Validation("description is required")
	}

	i, err := s.issues.FindByID(ctx, projectID, issueID)
	if err != nil {
		return nil, err
	}
	if err := s.auth.Authorize(ctx, requesterID, policy.KindComment, policy.ActionCreate, i); err != nil {
		return nil, err
	}

	c := &model.Comment{
		ID:          uuid.New(),
		IssueID:     issueID,
		ProjectID:   i.ProjectID,
		AuthorID:    &requesterID,
		Description: description,
	}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, err
	}

	s.publish(mq.RoutingKeyCommentCreated, mq.CommentCreatedEvent{
		CommentID: c.ID.String(),
		IssueID:   issueID,
		AuthorID:  requesterID,
		CreatedAt: c.CreatedAt,
	})
	return c, nil
}

// Get returns the comment when the requester contributes to its project.
func (s *CommentService) Get(ctx context.Context, requesterID, projectID, issueID int64, commentID uuid.UUID) (*model.Comment, error) {
	if _, err := s.issues.FindByID(ctx, projectID, issueID); err != nil {
		return nil, err
	}
	c, err := s.comments.FindByID(ctx, issueID, commentID)
	if err != nil {
		return nil, err
	}
	if err := s.auth.Authorize(ctx, requesterID, policy.KindComment, policy.ActionRead, c); err != nil {
		return nil, err
	}
	return c, nil
}

// List returns an issue's comments for contributors.
func (s *CommentService) List(ctx context.Context, requesterID, projectID, issueID int64) ([]model.Comment, error) {
	i, err := s.issues.FindByID(ctx, projectID, issueID)
	if err != nil {
		return nil, err
	}
	if err := s.auth.Authorize(ctx, requesterID, policy.KindComment, policy.ActionRead, i); err != nil {
		return nil, err
	}
	return s.comments.List(ctx, issueID)
}

// Update rewrites the comment text. Comment author only: the project author
// has no override here.
func (s *CommentService) Update(ctx context.Context, requesterID, projectID, issueID int64, commentID uuid.UUID, description string) (*model.Comment, error) {
	if description == "" {
		return nil, apperr.Validation("description is required")
	}

	if _, err := s.issues.FindByID(ctx, projectID, issueID); err != nil {
		return nil, err
	}
	c, err := s.comments.FindByID(ctx, issueID, commentID)
	if err != nil {
		return nil, err
	}
	if err := s.auth.Authorize(ctx, requesterID, policy.KindComment, policy.ActionUpdate, c); err != nil {
		return nil, err
	}

	c.Description = description
	if err := s.comments.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes the comment. Comment author only.
func (s *CommentService) Delete(ctx context.Context, requesterID, projectID, issueID int64, commentID uuid.UUID) error {
	if _, err := s.issues.FindByID(ctx, projectID, issueID); err != nil {
		return err
	}
	c, err := s.comments.FindByID(ctx, issueID, commentID)
	if err != nil {
		return err
	}
	if err := s.auth.Authorize(ctx, requesterID, policy.KindComment, policy.ActionDelete, c); err != nil {
		return err
	}
	return s.comments.Delete(ctx, issueID, commentID)
}

func (s *CommentService) publish(routingKey string, payload any) {
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

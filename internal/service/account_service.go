package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"softdesk/internal/model"
	"softdesk/internal/mq"
	"softdesk/internal/util"
	"softdesk/pkg/metrics"
)

// AccountService fronts the GDPR endpoints: data export (article 15) and
// right to erasure (article 17).
type AccountService struct {
	accounts AccountStore
	tokens   TokenRevoker
	events   EventPublisher
	logger   *zap.Logger
}

func NewAccountService(
	accounts AccountStore,
	tokens TokenRevoker,
	events EventPublisher,
	logger *zap.Logger,
) *AccountService {
	return &AccountService{
		accounts: accounts,
		tokens:   tokens,
		events:   events,
		logger:   logger,
	}
}

// Export returns every piece of personal data held about the user.
func (s *AccountService) Export(ctx context.Context, userID int64) (*model.Export, error) {
	return s.accounts.Export(ctx, userID)
}

// Delete erases the account. The store runs the anonymize-then-delete
// sequence as one transaction; token revocation and the deletion event only
// happen after that transaction committed, so a failed erasure leaves the
// account fully intact and still authenticated.
func (s *AccountService) Delete(ctx context.Context, userID int64) error {
	if err := s.accounts.Erase(ctx, userID); err != nil {
		metrics.IncrementAccountErasure("failed")
		return err
	}
	metrics.IncrementAccountErasure("success")

	if s.tokens != nil {
		if err := s.tokens.Revoke(ctx, userID, util.TokenTTL); err != nil {
			s.logger.Warn("Token revocation failed",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
		}
	}

	if s.events != nil {
		err := s.events.Publish(mq.RoutingKeyUserDeleted, mq.UserDeletedEvent{
			UserID:    userID,
			DeletedAt: time.Now().UTC(),
		})
		if err != nil {
			s.logger.Warn("Event publish failed",
				zap.String("routing_key", mq.RoutingKeyUserDeleted),
				zap.Error(err),
			)
		}
	}

	return nil
}

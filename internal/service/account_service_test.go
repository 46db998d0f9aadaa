package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"softdesk/internal/apperr"
	"softdesk/internal/model"
)

type fakeAccountStore struct {
	eraseErr error
	erased   []int64
	export   *model.Export
}

func (f *fakeAccountStore) Erase(_ context.Context, userID int64) error {
	if f.eraseErr != nil {
		return f.eraseErr
	}
	f.erased = append(f.erased, userID)
	return nil
}

func (f *fakeAccountStore) Export(_ context.Context, _ int64) (*model.Export, error) {
	return f.export, nil
}

type fakeRevoker struct {
	revoked []int64
}

func (f *fakeRevoker) Revoke(_ context.Context, userID int64, _ time.Duration) error {
	f.revoked = append(f.revoked, userID)
	return nil
}

func TestAccountDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("revokes tokens and publishes after erasure", func(t *testing.T) {
		store := &fakeAccountStore{}
		revoker := &fakeRevoker{}
		events := &capturingPublisher{}
		svc := NewAccountService(store, revoker, events, zap.NewNop())

		require.NoError(t, svc.Delete(ctx, 7))
		assert.Equal(t, []int64{7}, store.erased)
		assert.Equal(t, []int64{7}, revoker.revoked)
		assert.Equal(t, []string{"user.deleted"}, events.keys)
	})

	t.Run("failed erasure leaves tokens alive", func(t *testing.T) {
		store := &fakeAccountStore{eraseErr: apperr.Internal("erase", errors.New("tx aborted"))}
		revoker := &fakeRevoker{}
		events := &capturingPublisher{}
		svc := NewAccountService(store, revoker, events, zap.NewNop())

		err := svc.Delete(ctx, 7)
		require.Error(t, err)
		assert.Empty(t, revoker.revoked)
		assert.Empty(t, events.keys)
	})

	t.Run("missing user propagates not found", func(t *testing.T) {
		store := &fakeAccountStore{eraseErr: apperr.NotFound("user")}
		svc := NewAccountService(store, nil, nil, zap.NewNop())

		err := svc.Delete(ctx, 99)
		assert.True(t, apperr.IsNotFound(err), "got %v", err)
	})
}

func TestAccountExport(t *testing.T) {
	export := &model.Export{
		User:       model.User{ID: 7, Username: "alice"},
		ExportedAt: time.Now().UTC(),
	}
	svc := NewAccountService(&fakeAccountStore{export: export}, nil, nil, zap.NewNop())

	got, err := svc.Export(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.User.Username)
}

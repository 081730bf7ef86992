package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/property-assistant/internal/domain"
	"github.com/Rrens/property-assistant/internal/repository/memory"
)

func TestInboxService_List(t *testing.T) {
	ctx := context.Background()
	inbox := new(MockInbox)
	svc := NewInboxService(inbox, memory.NewSeededDirectoryRepository())

	t.Run("unknown agent", func(t *testing.T) {
		_, err := svc.List(ctx, 42, false)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		inbox.AssertNotCalled(t, "ListByAgent")
	})

	t.Run("empty inbox", func(t *testing.T) {
		inbox.On("ListByAgent", ctx, int64(1), true).Return(nil, nil).Once()

		list, err := svc.List(ctx, 1, true)
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})

	t.Run("storage error", func(t *testing.T) {
		inbox.On("ListByAgent", ctx, int64(2), false).Return(nil, errors.New("timeout")).Once()

		_, err := svc.List(ctx, 2, false)
		assert.ErrorContains(t, err, "failed to list notifications")
	})

	inbox.AssertExpectations(t)
}

func TestInboxService_MarkRead(t *testing.T) {
	ctx := context.Background()
	inbox := new(MockInbox)
	svc := NewInboxService(inbox, memory.NewSeededDirectoryRepository())
	id := uuid.New()

	inbox.On("MarkRead", ctx, int64(1), id).Return(domain.ErrNotFound).Once()

	err := svc.MarkRead(ctx, 1, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	inbox.AssertExpectations(t)
}

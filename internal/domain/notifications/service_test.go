package notifications

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymhub/internal/domain/apperr"
)

func TestNotificationInbox(t *testing.T) {
	ctx := context.Background()
	svc := New(NewMemoryStore())

	require.NoError(t, svc.Create(ctx, "member-1", TypePlanRequestApproved, "Plan approved", "Gold is active"))
	require.NoError(t, svc.Create(ctx, "member-1", TypeSessionAccepted, "Session confirmed", "See you Tuesday"))
	require.NoError(t, svc.Create(ctx, "member-2", TypeSessionCancelled, "Session cancelled", ""))
	require.NoError(t, svc.Create(ctx, "", TypeSalaryPaid, "ignored", ""))

	inbox, err := svc.List(ctx, "member-1", 10, 0)
	require.NoError(t, err)
	require.Len(t, inbox, 2)
	assert.Equal(t, TypeSessionAccepted, inbox[0].Type, "newest first")

	total, err := svc.Count(ctx, "member-1")
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	require.NoError(t, svc.MarkRead(ctx, "member-1", inbox[1].ID))
	inbox, err = svc.List(ctx, "member-1", 10, 0)
	require.NoError(t, err)
	assert.NotNil(t, inbox[1].ReadAt)

	err = svc.MarkRead(ctx, "member-2", inbox[0].ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound), "cannot read someone else's notice")
}

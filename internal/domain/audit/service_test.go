package audit

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAndList(t *testing.T) {
	ctx := context.Background()
	svc := New(NewMemoryStore())

	require.NoError(t, svc.Record(ctx, "u1", "plan_request.approve", "plan_request", "r1", "req-1", "10.0.0.1",
		map[string]string{"status": "pending"}, map[string]string{"status": "approved"}))
	require.NoError(t, svc.Record(ctx, "u2", "roster.create", "roster_shift", "s1", "req-2", "10.0.0.2", nil, map[string]int{"version": 1}))

	all, err := svc.List(ctx, Filter{}, true)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "roster.create", all[0].Action, "newest first")
	assert.Nil(t, all[0].Before)

	var after map[string]string
	require.NoError(t, json.Unmarshal(all[1].After, &after))
	assert.Equal(t, "approved", after["status"])

	brief, err := svc.List(ctx, Filter{ActorID: "u1"}, false)
	require.NoError(t, err)
	require.Len(t, brief, 1)
	assert.Nil(t, brief[0].After)

	total, err := svc.Count(ctx, Filter{EntityType: "roster_shift"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

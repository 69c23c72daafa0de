package operator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSM_AddPath(t *testing.T) {
	f := newFSM(StateMenu)
	ctx := context.Background()

	require.NoError(t, f.Event(ctx, evAdd))
	require.NoError(t, f.Event(ctx, evTitle))
	require.NoError(t, f.Event(ctx, evDescription))
	require.NoError(t, f.Event(ctx, evPhoto))
	require.NoError(t, f.Event(ctx, evConfirm))
	assert.Equal(t, StateMenu, f.Current())
}

func TestFSM_BrowsePath(t *testing.T) {
	f := newFSM(StateMenu)
	ctx := context.Background()

	require.NoError(t, f.Event(ctx, evList))
	require.NoError(t, f.Event(ctx, evOpen))
	require.NoError(t, f.Event(ctx, evDelete))
	require.NoError(t, f.Event(ctx, evDeleteNo))
	assert.Equal(t, StateDetail, f.Current())

	require.NoError(t, f.Event(ctx, evDelete))
	require.NoError(t, f.Event(ctx, evDeleteYes))
	assert.Equal(t, StateBrowsing, f.Current())
}

func TestFSM_RejectsIllegalTransitions(t *testing.T) {
	f := newFSM(StateMenu)
	assert.Error(t, f.Event(context.Background(), evConfirm), "confirm is only legal from the confirm state")
	assert.Equal(t, StateMenu, f.Current())

	f = newFSM(StateBrowsing)
	assert.Error(t, f.Event(context.Background(), evAdd))
}

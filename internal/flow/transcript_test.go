package flow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hr-intake-bot/internal/session"
	"hr-intake-bot/internal/transport"
)

func TestRenderer_AppendLine(t *testing.T) {
	tr := transport.NewFake()
	ref, err := tr.SendMessage(context.Background(), testChatID, "", nil)
	require.NoError(t, err)

	pad := session.NewScratchpad(testActorID, testChatID)
	pad.Refs.Transcript = ref
	r := NewRenderer(tr)

	require.NoError(t, r.AppendLine(context.Background(), pad, "Full name", "Ahmadjon Ahmedov"))
	require.NoError(t, r.AppendLine(context.Background(), pad, "Address", "Tashkent"))

	assert.Equal(t, "Full name: Ahmadjon Ahmedov\nAddress: Tashkent\n", tr.LastText(ref))
}

func TestRenderer_AppendItemIndentsBlock(t *testing.T) {
	tr := transport.NewFake()
	ref, err := tr.SendMessage(context.Background(), testChatID, "", nil)
	require.NoError(t, err)

	pad := session.NewScratchpad(testActorID, testChatID)
	pad.Refs.Transcript = ref
	r := NewRenderer(tr)

	require.NoError(t, r.AppendItem(context.Background(), pad, "Institution 1",
		[]string{"Name", "Faculty", "Years"},
		[]string{"TSU", "Physics", "2015 - 2019"}))

	assert.Equal(t,
		"Institution 1:\n  Name: TSU\n  Faculty: Physics\n  Years: 2015 - 2019\n",
		tr.LastText(ref))
}

func TestRenderer_FailsWithoutTranscriptMessage(t *testing.T) {
	pad := session.NewScratchpad(testActorID, testChatID)
	r := NewRenderer(transport.NewFake())
	assert.Error(t, r.AppendLine(context.Background(), pad, "Label", "value"))
}

package flow

import (
	"context"
	"fmt"
	"strings"

	"hr-intake-bot/internal/session"
	"hr-intake-bot/internal/transport"
)

// Renderer maintains the visible transcript of answered questions. The
// transcript is a single message that grows by editing in place; lines are
// append-only and survive until cancellation.
type Renderer struct {
	tr transport.Transport
}

// NewRenderer creates a transcript renderer over the given transport.
func NewRenderer(tr transport.Transport) *Renderer {
	return &Renderer{tr: tr}
}

// AppendLine appends one "Label: value" line and re-renders.
func (r *Renderer) AppendLine(ctx context.Context, pad *session.Scratchpad, label, value string) error {
	pad.Transcript += fmt.Sprintf("%s: %s\n", label, value)
	return r.render(ctx, pad)
}

// AppendItem appends one completed sub-record as an indented block:
//
//	Institution 2:
//	  Name: TSU
//	  Faculty: Physics
//	  Years: 2015 - 2019
func (r *Renderer) AppendItem(ctx context.Context, pad *session.Scratchpad, header string, labels, values []string) error {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString(":\n")
	for i, v := range values {
		label := "Field"
		if i < len(labels) {
			label = labels[i]
		}
		fmt.Fprintf(&b, "  %s: %s\n", label, v)
	}
	pad.Transcript += b.String()
	return r.render(ctx, pad)
}

func (r *Renderer) render(ctx context.Context, pad *session.Scratchpad) error {
	if pad.Refs.Transcript.IsZero() {
		return fmt.Errorf("transcript: no message to edit")
	}
	return r.tr.EditMessage(ctx, pad.Refs.Transcript, pad.Transcript, nil)
}

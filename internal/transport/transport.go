// Package transport declares the boundary to the messaging platform. The
// bot core only sends, edits and deletes messages through this interface;
// the concrete platform client lives outside the module.
package transport

import "context"

// MessageRef identifies a previously sent message so it can be edited or
// deleted later.
type MessageRef struct {
	ChatID    int64 `json:"chatId"`
	MessageID int64 `json:"messageId"`
}

// IsZero reports whether the ref points at nothing.
func (r MessageRef) IsZero() bool {
	return r.ChatID == 0 && r.MessageID == 0
}

// Button is one inline button with an opaque callback payload.
type Button struct {
	Text string
	Data string
}

// Keyboard is a grid of inline buttons, row-major.
type Keyboard [][]Button

// Row builds a single keyboard row.
func Row(buttons ...Button) []Button { return buttons }

// Transport is the outbound half of the messaging platform.
type Transport interface {
	SendMessage(ctx context.Context, chatID int64, text string, kb Keyboard) (MessageRef, error)
	SendPhoto(ctx context.Context, chatID int64, imageRef, caption string, kb Keyboard) (MessageRef, error)
	EditMessage(ctx context.Context, ref MessageRef, text string, kb Keyboard) error
	DeleteMessage(ctx context.Context, ref MessageRef) error
	AnswerCallback(ctx context.Context, callbackID string) error
}

// Receiver is the inbound half of the messaging platform. The returned
// channel closes when the context is cancelled.
type Receiver interface {
	Updates(ctx context.Context) (<-chan Update, error)
}

// UpdateKind discriminates the inbound action union.
type UpdateKind string

const (
	UpdateText     UpdateKind = "text"
	UpdateCallback UpdateKind = "callback"
	UpdateContact  UpdateKind = "contact"
	UpdatePhoto    UpdateKind = "photo"
)

// Contact is the structured payload of a native "share contact" action.
type Contact struct {
	Phone string
	Name  string
}

// Update is one inbound user action delivered by the platform.
type Update struct {
	Kind         UpdateKind
	ActorID      int64
	ChatID       int64
	Username     string
	DisplayName  string
	Text         string
	CallbackID   string
	CallbackData string
	MessageID    int64
	Contact      *Contact
	PhotoRef     string
}

// Ref returns the reference of the message this update arrived as.
func (u Update) Ref() MessageRef {
	return MessageRef{ChatID: u.ChatID, MessageID: u.MessageID}
}

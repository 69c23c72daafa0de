package transport

import (
	"context"
	"sync"
)

// FakeCall records one outbound transport invocation.
type FakeCall struct {
	Op       string // "send", "send_photo", "edit", "delete", "answer"
	Ref      MessageRef
	Text     string
	Keyboard Keyboard
}

// Fake is an in-memory Transport that records every call, for tests.
type Fake struct {
	mu     sync.Mutex
	nextID int64
	Calls  []FakeCall
	// Live tracks messages that have been sent and not deleted, by ref.
	Live map[MessageRef]string
	Err  error // when set, every call fails with it
}

// NewFake creates an empty fake transport.
func NewFake() *Fake {
	return &Fake{Live: make(map[MessageRef]string)}
}

func (f *Fake) SendMessage(_ context.Context, chatID int64, text string, kb Keyboard) (MessageRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return MessageRef{}, f.Err
	}
	f.nextID++
	ref := MessageRef{ChatID: chatID, MessageID: f.nextID}
	f.Live[ref] = text
	f.Calls = append(f.Calls, FakeCall{Op: "send", Ref: ref, Text: text, Keyboard: kb})
	return ref, nil
}

func (f *Fake) SendPhoto(_ context.Context, chatID int64, imageRef, caption string, kb Keyboard) (MessageRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return MessageRef{}, f.Err
	}
	f.nextID++
	ref := MessageRef{ChatID: chatID, MessageID: f.nextID}
	f.Live[ref] = caption
	f.Calls = append(f.Calls, FakeCall{Op: "send_photo", Ref: ref, Text: imageRef + "|" + caption, Keyboard: kb})
	return ref, nil
}

func (f *Fake) EditMessage(_ context.Context, ref MessageRef, text string, kb Keyboard) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.Live[ref] = text
	f.Calls = append(f.Calls, FakeCall{Op: "edit", Ref: ref, Text: text, Keyboard: kb})
	return nil
}

func (f *Fake) DeleteMessage(_ context.Context, ref MessageRef) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	delete(f.Live, ref)
	f.Calls = append(f.Calls, FakeCall{Op: "delete", Ref: ref})
	return nil
}

func (f *Fake) AnswerCallback(_ context.Context, callbackID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.Calls = append(f.Calls, FakeCall{Op: "answer", Text: callbackID})
	return nil
}

// LastText returns the current text of the given live message.
func (f *Fake) LastText(ref MessageRef) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Live[ref]
}

// LiveCount returns how many sent messages have not been deleted.
func (f *Fake) LiveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Live)
}

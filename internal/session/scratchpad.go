package session

import (
	"time"

	"hr-intake-bot/internal/transport"
)

// AnswerKind discriminates the typed value stored for one question.
type AnswerKind string

const (
	AnswerText   AnswerKind = "text"
	AnswerDate   AnswerKind = "date"
	AnswerBool   AnswerKind = "bool"
	AnswerChoice AnswerKind = "choice"
	AnswerID     AnswerKind = "id"
)

// Answer is the validated value of one completed step.
type Answer struct {
	Kind AnswerKind `json:"kind"`
	Text string     `json:"text,omitempty"`
	Bool bool       `json:"bool,omitempty"`
	Date string     `json:"date,omitempty"` // ISO 8601 date
	ID   int64      `json:"id,omitempty"`
}

// RenderRefs is the fixed record of messages the flow keeps editable:
// the intro line, the active question prompt, and the growing transcript.
type RenderRefs struct {
	Intro      transport.MessageRef `json:"intro"`
	Prompt     transport.MessageRef `json:"prompt"`
	Transcript transport.MessageRef `json:"transcript"`
}

// Cursor remembers the first and last catalog ids currently on screen.
type Cursor struct {
	FirstID int64 `json:"firstId"`
	LastID  int64 `json:"lastId"`
}

// PendingItem is a repeatable-section sub-record under construction. It is
// discarded wholesale on cancellation; only completed items reach the
// collections.
type PendingItem struct {
	Collection string   `json:"collection"`
	Fields     []string `json:"fields"`
}

// Mode values select which feature owns a conversation.
const (
	ModeApplicant = "applicant"
	ModeOperator  = "operator"
)

// Scratchpad is the per-actor transient state of one conversation. It is
// mutated exclusively by step handlers and destroyed on cancel, on commit,
// or by the store's TTL.
type Scratchpad struct {
	ActorID     int64                 `json:"actorId"`
	ChatID      int64                 `json:"chatId"`
	Mode        string                `json:"mode,omitempty"`
	CurrentStep string                `json:"currentStep"`
	Answers     map[string]Answer     `json:"answers"`
	Collections map[string][][]string `json:"collections"`
	// Placeholders tracks which collections already wrote their "none"
	// transcript line, so re-entering and leaving a loop never writes twice.
	Placeholders map[string]bool      `json:"placeholders"`
	Pending      *PendingItem         `json:"pending,omitempty"`
	Transcript   string               `json:"transcript"`
	Refs         RenderRefs           `json:"refs"`
	Cursor       Cursor               `json:"cursor"`
	StartedAt    time.Time            `json:"startedAt"`
}

// NewScratchpad creates an empty scratchpad for one actor's conversation.
func NewScratchpad(actorID, chatID int64) *Scratchpad {
	return &Scratchpad{
		ActorID:      actorID,
		ChatID:       chatID,
		Answers:      make(map[string]Answer),
		Collections:  make(map[string][][]string),
		Placeholders: make(map[string]bool),
		StartedAt:    time.Now().UTC(),
	}
}

// SetAnswer records the typed value for a question key.
func (s *Scratchpad) SetAnswer(key string, a Answer) {
	s.Answers[key] = a
}

// AppendItem appends one completed sub-record to a collection, preserving
// insertion order.
func (s *Scratchpad) AppendItem(collection string, fields []string) {
	s.Collections[collection] = append(s.Collections[collection], fields)
}

// Items returns the completed sub-records of a collection in insertion order.
func (s *Scratchpad) Items(collection string) [][]string {
	return s.Collections[collection]
}

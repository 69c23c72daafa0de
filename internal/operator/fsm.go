// Package operator implements the privileged department-management flow.
// Unlike the applicant questionnaire, this flow is a small hand-full of
// states with branchy navigation, so it rides on looplab/fsm: the state
// machine guards transition legality, the manager does the side effects.
package operator

import (
	"github.com/looplab/fsm"
)

// Operator flow states.
const (
	StateMenu          = "menu"
	StateTitle         = "await_title"
	StateDescription   = "await_description"
	StatePhoto         = "await_photo"
	StateConfirm       = "await_confirm"
	StateBrowsing      = "browsing"
	StateDetail        = "detail"
	StateDeleteConfirm = "await_delete_confirm"
)

// Operator flow events.
const (
	evAdd         = "add"
	evTitle       = "title_entered"
	evDescription = "description_entered"
	evPhoto       = "photo_attached"
	evConfirm     = "confirmed"
	evDiscard     = "discarded"
	evList        = "list"
	evOpen        = "open"
	evBackToMenu  = "back_to_menu"
	evBackToList  = "back_to_list"
	evDelete      = "delete"
	evDeleteYes   = "delete_confirmed"
	evDeleteNo    = "delete_cancelled"
)

// newFSM builds the transition table positioned at the given state. A fresh
// instance is created per update; the durable state lives on the scratchpad.
func newFSM(current string) *fsm.FSM {
	return fsm.NewFSM(current,
		fsm.Events{
			{Name: evAdd, Src: []string{StateMenu}, Dst: StateTitle},
			{Name: evTitle, Src: []string{StateTitle}, Dst: StateDescription},
			{Name: evDescription, Src: []string{StateDescription}, Dst: StatePhoto},
			{Name: evPhoto, Src: []string{StatePhoto}, Dst: StateConfirm},
			{Name: evConfirm, Src: []string{StateConfirm}, Dst: StateMenu},
			{Name: evDiscard, Src: []string{StateConfirm}, Dst: StateMenu},
			{Name: evList, Src: []string{StateMenu}, Dst: StateBrowsing},
			{Name: evOpen, Src: []string{StateBrowsing}, Dst: StateDetail},
			{Name: evBackToMenu, Src: []string{StateBrowsing}, Dst: StateMenu},
			{Name: evBackToList, Src: []string{StateDetail, StateDeleteConfirm}, Dst: StateBrowsing},
			{Name: evDelete, Src: []string{StateDetail}, Dst: StateDeleteConfirm},
			{Name: evDeleteYes, Src: []string{StateDeleteConfirm}, Dst: StateBrowsing},
			{Name: evDeleteNo, Src: []string{StateDeleteConfirm}, Dst: StateDetail},
		},
		fsm.Callbacks{},
	)
}

package flow

import (
	"unicode"

	"hr-intake-bot/internal/callback"
	"hr-intake-bot/internal/transport"
)

// User-facing copy of the applicant flow.
const (
	TextIntro          = "Application form:"
	TextHome           = "You are back at the main menu. Press \"Apply\" whenever you are ready."
	TextCancelled      = "Application cancelled. Nothing was saved."
	TextSubmitted      = "Thank you! Your application has been submitted. We will contact you soon."
	TextNoDepartments  = "Sorry, no departments are accepting applications right now. Please try again later."
	TextPlaceholder    = "none"
	TextButtonHome     = "🏠 Main menu"
	TextButtonAdd      = "➕ Add"
	TextButtonNext     = "➡ Next"
	TextButtonYes      = "✔ Yes"
	TextButtonNo       = "✖ No"
	TextButtonForward  = "»"
	TextButtonBackward = "«"
)

// homeButton cancels the conversation from any step.
func homeButton() transport.Button {
	return transport.Button{
		Text: TextButtonHome,
		Data: callback.New(callback.CategoryForm, callback.ActionHome).Encode(),
	}
}

// homeKeyboard is the control row shown under plain-text prompts.
func homeKeyboard() transport.Keyboard {
	return transport.Keyboard{transport.Row(homeButton())}
}

// choiceKeyboard renders a step's options one per row plus the control row.
func choiceKeyboard(s *Step) transport.Keyboard {
	var kb transport.Keyboard
	for i, c := range s.Choices {
		tok := callback.WithData(callback.CategoryForm, callback.ActionSelect, int64(i))
		kb = append(kb, transport.Row(transport.Button{Text: c.Label, Data: tok.Encode()}))
	}
	kb = append(kb, transport.Row(homeButton()))
	return kb
}

// repeatKeyboard renders the Add / Next pair for a repeatable section.
func repeatKeyboard(s *Step) transport.Keyboard {
	cat := collectionCategory(s.Collection)
	return transport.Keyboard{
		transport.Row(
			transport.Button{Text: TextButtonAdd, Data: callback.New(cat, callback.ActionAdd).Encode()},
			transport.Button{Text: TextButtonNext, Data: callback.New(cat, callback.ActionNext).Encode()},
		),
		transport.Row(homeButton()),
	}
}

// titleCase upper-cases the first rune; catalog titles are stored lowercase.
func titleCase(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// collectionCategory maps a collection name to its callback category.
func collectionCategory(collection string) callback.Category {
	switch collection {
	case CollectionUniversities:
		return callback.CategoryEducations
	case CollectionEmployers:
		return callback.CategoryEmployers
	case CollectionTrips:
		return callback.CategoryTrips
	case CollectionLanguages:
		return callback.CategoryLanguages
	case CollectionSkills:
		return callback.CategorySkills
	}
	return callback.CategoryForm
}

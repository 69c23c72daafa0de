package operator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/looplab/fsm"

	"hr-intake-bot/internal/callback"
	"hr-intake-bot/internal/catalog"
	boterrors "hr-intake-bot/internal/common/errors"
	"hr-intake-bot/internal/common/logger"
	"hr-intake-bot/internal/models"
	"hr-intake-bot/internal/session"
	"hr-intake-bot/internal/storage"
	"hr-intake-bot/internal/transport"
	"hr-intake-bot/internal/validate"
)

// User-facing copy of the operator flow.
const (
	TextMenu           = "Department management:"
	TextAskTitle       = "Enter the new department's title."
	TextAskDescription = "Enter a short description."
	TextAskPhoto       = "Send a cover photo for the department."
	TextConfirm        = "Create this department?"
	TextAdded          = "Department created."
	TextDiscarded      = "Draft discarded."
	TextDeleted        = "Department deleted."
	TextNoDepartments  = "There are no departments yet."
	TextListHeader     = "Departments:"
	TextDuplicate      = "A department with this title already exists:"
	TextDeleteConfirm  = "Delete this department? Submitted applications keep their records."

	TextButtonAddDept  = "➕ Add department"
	TextButtonListDept = "📋 List departments"
	TextButtonDelete   = "🗑 Delete"
	TextButtonBack     = "⬅ Back"
	TextButtonYes      = "✔ Yes"
	TextButtonNo       = "✖ No"
	TextButtonForward  = "»"
	TextButtonBackward = "«"
	TextButtonHome     = "🏠 Main menu"
)

// Draft answer keys on the operator scratchpad.
const (
	keyTitle       = "title"
	keyDescription = "description"
	keyImage       = "image"
	keyOpen        = "open"
)

// Manager drives the operator's department-management conversation.
type Manager struct {
	tr          transport.Transport
	sessions    *session.Store
	departments storage.DepartmentStore
	log         logger.Logger
	pageSize    int
	homeText    string
	homeKB      transport.Keyboard
}

// Config wires the operator flow collaborators.
type Config struct {
	Transport    transport.Transport
	Sessions     *session.Store
	Departments  storage.DepartmentStore
	Logger       logger.Logger
	PageSize     int
	HomeText     string
	HomeKeyboard transport.Keyboard
}

// NewManager builds the operator flow manager.
func NewManager(cfg Config) *Manager {
	return &Manager{
		tr:          cfg.Transport,
		sessions:    cfg.Sessions,
		departments: cfg.Departments,
		log:         cfg.Logger.WithFields(map[string]interface{}{"component": "operator-flow"}),
		pageSize:    cfg.PageSize,
		homeText:    cfg.HomeText,
		homeKB:      cfg.HomeKeyboard,
	}
}

// Menu opens the operator conversation at the management menu.
func (m *Manager) Menu(ctx context.Context, actorID, chatID int64) error {
	ref, err := m.tr.SendMessage(ctx, chatID, TextMenu, menuKeyboard())
	if err != nil {
		return fmt.Errorf("operator menu: %w", err)
	}
	pad := session.NewScratchpad(actorID, chatID)
	pad.Mode = session.ModeOperator
	pad.CurrentStep = StateMenu
	pad.Refs.Prompt = ref
	return m.sessions.Put(ctx, pad)
}

// Handle processes one inbound update against the operator conversation.
func (m *Manager) Handle(ctx context.Context, pad *session.Scratchpad, up transport.Update) error {
	var tok callback.Token
	if up.Kind == transport.UpdateCallback {
		if err := m.tr.AnswerCallback(ctx, up.CallbackID); err != nil {
			m.log.Warn("callback ack failed", map[string]interface{}{"error": err})
		}
		var ok bool
		tok, ok = callback.Decode(up.CallbackData)
		if !ok {
			return nil
		}
		if tok.Action == callback.ActionHome {
			return m.exit(ctx, pad)
		}
	}

	f := newFSM(pad.CurrentStep)
	var err error
	switch pad.CurrentStep {
	case StateMenu:
		err = m.handleMenu(ctx, pad, f, up, tok)
	case StateTitle, StateDescription:
		err = m.handleDraftText(ctx, pad, f, up)
	case StatePhoto:
		err = m.handleDraftPhoto(ctx, pad, f, up)
	case StateConfirm:
		err = m.handleConfirm(ctx, pad, f, up, tok)
	case StateBrowsing:
		err = m.handleBrowsing(ctx, pad, f, up, tok)
	case StateDetail:
		err = m.handleDetail(ctx, pad, f, tok)
	case StateDeleteConfirm:
		err = m.handleDeleteConfirm(ctx, pad, f, tok)
	default:
		m.log.Error("operator scratchpad in unknown state", map[string]interface{}{
			"actorId": pad.ActorID,
			"state":   pad.CurrentStep,
		})
		return m.exit(ctx, pad)
	}
	if err != nil {
		return err
	}
	pad.CurrentStep = f.Current()
	return m.sessions.Put(ctx, pad)
}

// exit leaves the operator flow: the management message is removed and the
// main menu restored.
func (m *Manager) exit(ctx context.Context, pad *session.Scratchpad) error {
	if !pad.Refs.Prompt.IsZero() {
		if err := m.tr.DeleteMessage(ctx, pad.Refs.Prompt); err != nil {
			m.log.Warn("operator message delete failed", map[string]interface{}{"error": err})
		}
	}
	if _, err := m.tr.SendMessage(ctx, pad.ChatID, m.homeText, m.homeKB); err != nil {
		return err
	}
	return m.sessions.Delete(ctx, pad.ActorID)
}

func (m *Manager) handleMenu(ctx context.Context, pad *session.Scratchpad, f *fsm.FSM, up transport.Update, tok callback.Token) error {
	if up.Kind != transport.UpdateCallback || tok.Category != callback.CategoryDepartments {
		return nil
	}
	switch tok.Action {
	case callback.ActionAdd:
		if err := f.Event(ctx, evAdd); err != nil {
			return err
		}
		return m.edit(ctx, pad, TextAskTitle, backKeyboard())
	case callback.ActionOpen:
		return m.showList(ctx, pad, f, evList, 0)
	}
	return nil
}

func (m *Manager) handleDraftText(ctx context.Context, pad *session.Scratchpad, f *fsm.FSM, up transport.Update) error {
	if up.Kind != transport.UpdateText {
		return nil
	}
	m.deleteInbound(ctx, up)
	text, err := validate.ParseText(up.Text)
	if err != nil {
		return nil
	}

	if pad.CurrentStep == StateTitle {
		pad.SetAnswer(keyTitle, session.Answer{Kind: session.AnswerText, Text: text})
		if err := f.Event(ctx, evTitle); err != nil {
			return err
		}
		return m.edit(ctx, pad, TextAskDescription, backKeyboard())
	}
	pad.SetAnswer(keyDescription, session.Answer{Kind: session.AnswerText, Text: text})
	if err := f.Event(ctx, evDescription); err != nil {
		return err
	}
	return m.edit(ctx, pad, TextAskPhoto, backKeyboard())
}

func (m *Manager) handleDraftPhoto(ctx context.Context, pad *session.Scratchpad, f *fsm.FSM, up transport.Update) error {
	if up.Kind != transport.UpdatePhoto || up.PhotoRef == "" {
		return nil
	}
	m.deleteInbound(ctx, up)
	pad.SetAnswer(keyImage, session.Answer{Kind: session.AnswerText, Text: up.PhotoRef})
	if err := f.Event(ctx, evPhoto); err != nil {
		return err
	}

	summary := fmt.Sprintf("%s\n\nTitle: %s\nDescription: %s",
		TextConfirm, pad.Answers[keyTitle].Text, pad.Answers[keyDescription].Text)
	return m.edit(ctx, pad, summary, yesNoKeyboard())
}

func (m *Manager) handleConfirm(ctx context.Context, pad *session.Scratchpad, f *fsm.FSM, up transport.Update, tok callback.Token) error {
	if up.Kind != transport.UpdateCallback || tok.Category != callback.CategoryDepartments {
		return nil
	}
	switch tok.Action {
	case callback.ActionYes:
		_, err := m.departments.Insert(ctx,
			pad.Answers[keyTitle].Text,
			pad.Answers[keyDescription].Text,
			pad.Answers[keyImage].Text)
		if errors.Is(err, boterrors.ErrDuplicateDepartment) {
			return m.rejectDuplicate(ctx, pad, f)
		}
		if err != nil {
			return err
		}
		m.log.Info("department created", map[string]interface{}{
			"actorId": pad.ActorID,
			"title":   pad.Answers[keyTitle].Text,
		})
		m.clearDraft(pad)
		if err := f.Event(ctx, evConfirm); err != nil {
			return err
		}
		return m.edit(ctx, pad, TextAdded+"\n\n"+TextMenu, menuKeyboard())
	case callback.ActionNo:
		m.clearDraft(pad)
		if err := f.Event(ctx, evDiscard); err != nil {
			return err
		}
		return m.edit(ctx, pad, TextDiscarded+"\n\n"+TextMenu, menuKeyboard())
	}
	return nil
}

// rejectDuplicate surfaces the existing titles and clears the draft, per
// the idempotent-rejecting insert contract.
func (m *Manager) rejectDuplicate(ctx context.Context, pad *session.Scratchpad, f *fsm.FSM) error {
	list, err := m.departments.List(ctx)
	if err != nil {
		return err
	}
	var b strings.Builder
	b.WriteString(TextDuplicate)
	for _, d := range list {
		b.WriteString("\n- ")
		b.WriteString(d.Title)
	}
	b.WriteString("\n\n")
	b.WriteString(TextMenu)
	m.clearDraft(pad)
	if err := f.Event(ctx, evDiscard); err != nil {
		return err
	}
	return m.edit(ctx, pad, b.String(), menuKeyboard())
}

func (m *Manager) handleBrowsing(ctx context.Context, pad *session.Scratchpad, f *fsm.FSM, up transport.Update, tok callback.Token) error {
	if up.Kind != transport.UpdateCallback || tok.Category != callback.CategoryDepartments {
		return nil
	}
	switch tok.Action {
	case callback.ActionNext:
		return m.renderList(ctx, pad, catalog.Forward(pad.Cursor.LastID+1, m.pageSize))
	case callback.ActionPrevious:
		return m.renderList(ctx, pad, catalog.Backward(pad.Cursor.FirstID-1, m.pageSize))
	case callback.ActionBack:
		if err := f.Event(ctx, evBackToMenu); err != nil {
			return err
		}
		return m.edit(ctx, pad, TextMenu, menuKeyboard())
	case callback.ActionSelect:
		if !tok.HasData {
			return nil
		}
		dept, err := m.departments.Get(ctx, tok.Data)
		if errors.Is(err, boterrors.ErrDepartmentNotFound) {
			// Deleted mid-browse; refresh the list instead.
			return m.renderList(ctx, pad, catalog.Forward(pad.Cursor.FirstID, m.pageSize))
		}
		if err != nil {
			return err
		}
		pad.SetAnswer(keyOpen, session.Answer{Kind: session.AnswerID, ID: dept.ID, Text: dept.Title})
		if err := f.Event(ctx, evOpen); err != nil {
			return err
		}
		return m.showDetail(ctx, pad, dept)
	}
	return nil
}

func (m *Manager) handleDetail(ctx context.Context, pad *session.Scratchpad, f *fsm.FSM, tok callback.Token) error {
	if tok.Category != callback.CategoryDepartments {
		return nil
	}
	switch tok.Action {
	case callback.ActionDelete:
		if err := f.Event(ctx, evDelete); err != nil {
			return err
		}
		return m.edit(ctx, pad, TextDeleteConfirm, yesNoKeyboard())
	case callback.ActionBack:
		return m.showList(ctx, pad, f, evBackToList, pad.Cursor.FirstID)
	}
	return nil
}

func (m *Manager) handleDeleteConfirm(ctx context.Context, pad *session.Scratchpad, f *fsm.FSM, tok callback.Token) error {
	if tok.Category != callback.CategoryDepartments {
		return nil
	}
	switch tok.Action {
	case callback.ActionYes:
		id := pad.Answers[keyOpen].ID
		if err := m.departments.Delete(ctx, id); err != nil {
			return err
		}
		m.log.Info("department deleted", map[string]interface{}{
			"actorId":      pad.ActorID,
			"departmentId": id,
		})
		if err := f.Event(ctx, evDeleteYes); err != nil {
			return err
		}
		// Back to the paged list at the remembered cursor position.
		return m.renderListOrMenu(ctx, pad, f, pad.Cursor.FirstID)
	case callback.ActionNo:
		dept, err := m.departments.Get(ctx, pad.Answers[keyOpen].ID)
		if errors.Is(err, boterrors.ErrDepartmentNotFound) {
			return m.showList(ctx, pad, f, evBackToList, pad.Cursor.FirstID)
		}
		if err != nil {
			return err
		}
		if err := f.Event(ctx, evDeleteNo); err != nil {
			return err
		}
		return m.showDetail(ctx, pad, dept)
	}
	return nil
}

// showList fires the given transition and renders the paged list, falling
// back to the menu text when the catalog is empty.
func (m *Manager) showList(ctx context.Context, pad *session.Scratchpad, f *fsm.FSM, event string, startID int64) error {
	list, err := m.departments.List(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		// Stay wherever a menu makes sense: an empty catalog has no list view.
		if f.Current() != StateMenu {
			if err := fireToMenu(ctx, f); err != nil {
				return err
			}
		}
		return m.edit(ctx, pad, TextNoDepartments+"\n\n"+TextMenu, menuKeyboard())
	}
	if err := f.Event(ctx, event); err != nil {
		return err
	}
	if startID == 0 {
		startID = list[0].ID
	}
	return m.renderListEntries(ctx, pad, list, catalog.Forward(startID, m.pageSize))
}

// fireToMenu walks the machine back to the menu from wherever a list view
// was requested.
func fireToMenu(ctx context.Context, f *fsm.FSM) error {
	if f.Can(evBackToMenu) {
		return f.Event(ctx, evBackToMenu)
	}
	if err := f.Event(ctx, evBackToList); err != nil {
		return err
	}
	return f.Event(ctx, evBackToMenu)
}

// renderListOrMenu re-renders the list after a mutation, dropping to the
// menu when the last entry was just deleted.
func (m *Manager) renderListOrMenu(ctx context.Context, pad *session.Scratchpad, f *fsm.FSM, startID int64) error {
	list, err := m.departments.List(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		if err := f.Event(ctx, evBackToMenu); err != nil {
			return err
		}
		return m.edit(ctx, pad, TextDeleted+"\n\n"+TextMenu, menuKeyboard())
	}
	return m.renderListEntries(ctx, pad, list, catalog.Forward(startID, m.pageSize))
}

func (m *Manager) renderList(ctx context.Context, pad *session.Scratchpad, req catalog.WindowRequest) error {
	list, err := m.departments.List(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return m.edit(ctx, pad, TextNoDepartments+"\n\n"+TextMenu, menuKeyboard())
	}
	return m.renderListEntries(ctx, pad, list, req)
}

func (m *Manager) renderListEntries(ctx context.Context, pad *session.Scratchpad, list []models.Department, req catalog.WindowRequest) error {
	page, err := catalog.Window(list, req)
	if err != nil {
		return err
	}
	pad.Cursor = session.Cursor{FirstID: page.FirstID(), LastID: page.LastID()}

	var kb transport.Keyboard
	for _, d := range page.Entries {
		tok := callback.WithData(callback.CategoryDepartments, callback.ActionSelect, d.ID)
		kb = append(kb, transport.Row(transport.Button{
			Text: fmt.Sprintf("%d. %s", d.ID, titleCase(d.Title)),
			Data: tok.Encode(),
		}))
	}
	var nav []transport.Button
	if !page.IsFirst {
		nav = append(nav, transport.Button{
			Text: TextButtonBackward,
			Data: callback.New(callback.CategoryDepartments, callback.ActionPrevious).Encode(),
		})
	}
	if !page.IsLast {
		nav = append(nav, transport.Button{
			Text: TextButtonForward,
			Data: callback.New(callback.CategoryDepartments, callback.ActionNext).Encode(),
		})
	}
	if len(nav) > 0 {
		kb = append(kb, nav)
	}
	kb = append(kb, transport.Row(backButton(), homeButton()))
	return m.edit(ctx, pad, TextListHeader, kb)
}

func (m *Manager) showDetail(ctx context.Context, pad *session.Scratchpad, dept *models.Department) error {
	text := fmt.Sprintf("%s\n\n%s", titleCase(dept.Title), dept.Description)
	kb := transport.Keyboard{
		transport.Row(transport.Button{
			Text: TextButtonDelete,
			Data: callback.New(callback.CategoryDepartments, callback.ActionDelete).Encode(),
		}),
		transport.Row(backButton(), homeButton()),
	}
	return m.edit(ctx, pad, text, kb)
}

func (m *Manager) edit(ctx context.Context, pad *session.Scratchpad, text string, kb transport.Keyboard) error {
	if pad.Refs.Prompt.IsZero() {
		ref, err := m.tr.SendMessage(ctx, pad.ChatID, text, kb)
		if err != nil {
			return err
		}
		pad.Refs.Prompt = ref
		return nil
	}
	return m.tr.EditMessage(ctx, pad.Refs.Prompt, text, kb)
}

func (m *Manager) deleteInbound(ctx context.Context, up transport.Update) {
	if up.MessageID == 0 {
		return
	}
	if err := m.tr.DeleteMessage(ctx, up.Ref()); err != nil {
		m.log.Warn("inbound message delete failed", map[string]interface{}{"error": err})
	}
}

func (m *Manager) clearDraft(pad *session.Scratchpad) {
	delete(pad.Answers, keyTitle)
	delete(pad.Answers, keyDescription)
	delete(pad.Answers, keyImage)
}

func menuKeyboard() transport.Keyboard {
	return transport.Keyboard{
		transport.Row(transport.Button{
			Text: TextButtonAddDept,
			Data: callback.New(callback.CategoryDepartments, callback.ActionAdd).Encode(),
		}),
		transport.Row(transport.Button{
			Text: TextButtonListDept,
			Data: callback.New(callback.CategoryDepartments, callback.ActionOpen).Encode(),
		}),
		transport.Row(homeButton()),
	}
}

func yesNoKeyboard() transport.Keyboard {
	return transport.Keyboard{
		transport.Row(
			transport.Button{Text: TextButtonYes, Data: callback.New(callback.CategoryDepartments, callback.ActionYes).Encode()},
			transport.Button{Text: TextButtonNo, Data: callback.New(callback.CategoryDepartments, callback.ActionNo).Encode()},
		),
	}
}

func backKeyboard() transport.Keyboard {
	return transport.Keyboard{transport.Row(homeButton())}
}

func backButton() transport.Button {
	return transport.Button{
		Text: TextButtonBack,
		Data: callback.New(callback.CategoryDepartments, callback.ActionBack).Encode(),
	}
}

func homeButton() transport.Button {
	return transport.Button{
		Text: TextButtonHome,
		Data: callback.New(callback.CategoryForm, callback.ActionHome).Encode(),
	}
}

func titleCase(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hr-intake-bot/internal/callback"
	"hr-intake-bot/internal/catalog"
	boterrors "hr-intake-bot/internal/common/errors"
	"hr-intake-bot/internal/common/logger"
	"hr-intake-bot/internal/common/metrics"
	"hr-intake-bot/internal/models"
	"hr-intake-bot/internal/session"
	"hr-intake-bot/internal/storage"
	"hr-intake-bot/internal/transport"
	"hr-intake-bot/internal/validate"
)

// EngineConfig wires the collaborators of the applicant flow.
type EngineConfig struct {
	Graph        *Graph
	Transport    transport.Transport
	Sessions     *session.Store
	Departments  storage.DepartmentStore
	Applications storage.ApplicationStore
	Logger       logger.Logger
	PageSize     int
	// HomeText and HomeKeyboard restore the caller's main menu after a
	// cancellation or a successful submission.
	HomeText     string
	HomeKeyboard transport.Keyboard
}

// Engine drives one actor's questionnaire: it interprets the step graph,
// validates input, maintains the transcript and the scratchpad, and commits
// the finished record.
type Engine struct {
	graph        *Graph
	tr           transport.Transport
	sessions     *session.Store
	departments  storage.DepartmentStore
	applications storage.ApplicationStore
	render       *Renderer
	log          logger.Logger
	pageSize     int
	homeText     string
	homeKB       transport.Keyboard
}

// NewEngine validates the graph once and builds the engine.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if err := cfg.Graph.Validate(); err != nil {
		return nil, err
	}
	homeText := cfg.HomeText
	if homeText == "" {
		homeText = TextHome
	}
	return &Engine{
		graph:        cfg.Graph,
		tr:           cfg.Transport,
		sessions:     cfg.Sessions,
		departments:  cfg.Departments,
		applications: cfg.Applications,
		render:       NewRenderer(cfg.Transport),
		log:          cfg.Logger.WithFields(map[string]interface{}{"component": "flow-engine"}),
		pageSize:     cfg.PageSize,
		homeText:     homeText,
		homeKB:       cfg.HomeKeyboard,
	}, nil
}

// Start opens a new conversation: the intro line, then the first prompt.
// The first prompt message later becomes the transcript, so only two
// messages exist until the first answer arrives.
func (e *Engine) Start(ctx context.Context, actorID, chatID int64) error {
	intro, err := e.tr.SendMessage(ctx, chatID, TextIntro, nil)
	if err != nil {
		return fmt.Errorf("flow start: %w", err)
	}
	first := e.graph.MustStep(e.graph.Entry())
	transcript, err := e.tr.SendMessage(ctx, chatID, first.Prompt, homeKeyboard())
	if err != nil {
		return fmt.Errorf("flow start: %w", err)
	}

	pad := session.NewScratchpad(actorID, chatID)
	pad.Mode = session.ModeApplicant
	pad.CurrentStep = string(first.ID)
	pad.Refs.Intro = intro
	pad.Refs.Transcript = transcript
	if err := e.sessions.Put(ctx, pad); err != nil {
		return err
	}
	metrics.ActiveSessions.Inc()
	return nil
}

// Handle processes one inbound update against an in-progress conversation.
func (e *Engine) Handle(ctx context.Context, pad *session.Scratchpad, up transport.Update) error {
	var tok callback.Token
	if up.Kind == transport.UpdateCallback {
		if err := e.tr.AnswerCallback(ctx, up.CallbackID); err != nil {
			e.log.Warn("callback ack failed", map[string]interface{}{"error": err})
		}
		var ok bool
		tok, ok = callback.Decode(up.CallbackData)
		if !ok {
			return nil
		}
		if tok.Action == callback.ActionHome {
			return e.Cancel(ctx, pad)
		}
	}

	step, ok := e.graph.Step(StepID(pad.CurrentStep))
	if !ok {
		// A scratchpad pointing at a step that no longer exists cannot
		// make progress; drop it and restore the menu.
		e.log.Error("scratchpad references unknown step", map[string]interface{}{
			"actorId": pad.ActorID,
			"step":    pad.CurrentStep,
		})
		return e.Cancel(ctx, pad)
	}

	var done bool
	var err error
	switch step.Kind {
	case KindText:
		done, err = e.handleText(ctx, pad, step, up)
	case KindChoice:
		done, err = e.handleChoice(ctx, pad, step, up, tok)
	case KindCatalog:
		done, err = e.handleCatalog(ctx, pad, step, up, tok)
	case KindRepeatChoice:
		done, err = e.handleRepeatChoice(ctx, pad, step, up, tok)
	case KindRepeatField:
		done, err = e.handleRepeatField(ctx, pad, step, up, tok)
	case KindPhoto:
		done, err = e.handlePhoto(ctx, pad, step, up)
	default:
		return fmt.Errorf("flow: unhandled step kind %q", step.Kind)
	}
	if err != nil {
		return err
	}
	if done {
		return nil
	}
	return e.sessions.Put(ctx, pad)
}

// Cancel tears the conversation down: every flow message is deleted, the
// scratchpad is destroyed, and the main menu is restored. Nothing reaches
// permanent storage.
func (e *Engine) Cancel(ctx context.Context, pad *session.Scratchpad) error {
	for _, ref := range []transport.MessageRef{pad.Refs.Prompt, pad.Refs.Transcript, pad.Refs.Intro} {
		if ref.IsZero() {
			continue
		}
		if err := e.tr.DeleteMessage(ctx, ref); err != nil {
			e.log.Warn("flow message delete failed", map[string]interface{}{"error": err})
		}
	}
	if _, err := e.tr.SendMessage(ctx, pad.ChatID, e.homeText, e.homeKB); err != nil {
		return err
	}
	if err := e.sessions.Delete(ctx, pad.ActorID); err != nil {
		return err
	}
	metrics.ActiveSessions.Dec()
	return nil
}

func (e *Engine) handleText(ctx context.Context, pad *session.Scratchpad, step *Step, up transport.Update) (bool, error) {
	var raw string
	trusted := false
	switch {
	case up.Kind == transport.UpdateContact && up.Contact != nil && step.ID == StepPhone:
		// A shared contact is trusted as-is; only typed numbers go through
		// the format check.
		raw = up.Contact.Phone
		trusted = true
	case up.Kind == transport.UpdateText:
		raw = up.Text
	default:
		return false, nil
	}
	e.deleteInbound(ctx, up)

	display, canonical := raw, raw
	if !trusted {
		var err error
		display, canonical, err = runValidator(step.Validator, raw)
		if err != nil {
			if errors.Is(err, boterrors.ErrValidation) {
				metrics.ValidationFailures.WithLabelValues(string(step.ID)).Inc()
				return false, e.editPrompt(ctx, pad, step.Prompt, homeKeyboard())
			}
			return false, err
		}
	}

	pad.SetAnswer(step.Key, answerFor(step.Validator, display, canonical))
	if !step.DeferTranscript {
		if err := e.render.AppendLine(ctx, pad, step.Label, display); err != nil {
			return false, err
		}
	}
	return e.advance(ctx, pad, step.Next)
}

func (e *Engine) handleChoice(ctx context.Context, pad *session.Scratchpad, step *Step, up transport.Update, tok callback.Token) (bool, error) {
	c, ok := matchChoice(step, up, tok)
	if !ok {
		return false, nil
	}

	if !c.Skip {
		a := session.Answer{Kind: session.AnswerChoice, Text: c.Record}
		if c.IsBool {
			a = session.Answer{Kind: session.AnswerBool, Bool: c.Bool, Text: c.Record}
		}
		pad.SetAnswer(step.Key, a)
		if err := e.render.AppendLine(ctx, pad, step.Label, c.Record); err != nil {
			return false, err
		}
	}
	if c.EmitAnswer != "" {
		if err := e.render.AppendLine(ctx, pad, step.Label, pad.Answers[c.EmitAnswer].Text); err != nil {
			return false, err
		}
	}

	next := c.Next
	if next == "" {
		next = step.Next
	}
	return e.advance(ctx, pad, next)
}

func (e *Engine) handleCatalog(ctx context.Context, pad *session.Scratchpad, step *Step, up transport.Update, tok callback.Token) (bool, error) {
	if up.Kind != transport.UpdateCallback || tok.Category != callback.CategoryDepartments {
		return false, nil
	}
	list, err := e.departments.List(ctx)
	if err != nil {
		return false, err
	}
	if len(list) == 0 {
		return true, e.abortEmptyCatalog(ctx, pad)
	}

	switch tok.Action {
	case callback.ActionNext:
		return false, e.showCatalogPage(ctx, pad, step, list, catalog.Forward(pad.Cursor.LastID+1, e.pageSize))
	case callback.ActionPrevious:
		return false, e.showCatalogPage(ctx, pad, step, list, catalog.Backward(pad.Cursor.FirstID-1, e.pageSize))
	case callback.ActionSelect:
		if !tok.HasData {
			return false, nil
		}
		dept, err := e.departments.Get(ctx, tok.Data)
		if errors.Is(err, boterrors.ErrDepartmentNotFound) {
			// The chosen entry vanished mid-browse; show the first page again.
			return false, e.showCatalogPage(ctx, pad, step, list, catalog.Forward(list[0].ID, e.pageSize))
		}
		if err != nil {
			return false, err
		}
		pad.SetAnswer(step.Key, session.Answer{Kind: session.AnswerID, ID: dept.ID, Text: dept.Title})
		if err := e.render.AppendLine(ctx, pad, step.Label, dept.Title); err != nil {
			return false, err
		}
		return e.advance(ctx, pad, step.Next)
	}
	return false, nil
}

func (e *Engine) handleRepeatChoice(ctx context.Context, pad *session.Scratchpad, step *Step, up transport.Update, tok callback.Token) (bool, error) {
	if up.Kind != transport.UpdateCallback || tok.Category != collectionCategory(step.Collection) {
		return false, nil
	}
	switch tok.Action {
	case callback.ActionAdd:
		pad.Pending = &session.PendingItem{Collection: step.Collection}
		return e.advance(ctx, pad, step.AddStep)
	case callback.ActionNext:
		if len(pad.Items(step.Collection)) == 0 && !pad.Placeholders[step.Collection] {
			if err := e.render.AppendLine(ctx, pad, step.Label, TextPlaceholder); err != nil {
				return false, err
			}
			pad.Placeholders[step.Collection] = true
		}
		return e.advance(ctx, pad, step.Next)
	}
	return false, nil
}

func (e *Engine) handleRepeatField(ctx context.Context, pad *session.Scratchpad, step *Step, up transport.Update, tok callback.Token) (bool, error) {
	var value string
	if len(step.Choices) > 0 {
		c, ok := matchChoice(step, up, tok)
		if !ok {
			return false, nil
		}
		value = c.Record
	} else {
		if up.Kind != transport.UpdateText {
			return false, nil
		}
		e.deleteInbound(ctx, up)
		var err error
		value, _, err = runValidator(step.Validator, up.Text)
		if err != nil {
			if errors.Is(err, boterrors.ErrValidation) {
				metrics.ValidationFailures.WithLabelValues(string(step.ID)).Inc()
				return false, e.editPrompt(ctx, pad, step.Prompt, homeKeyboard())
			}
			return false, err
		}
	}

	if pad.Pending == nil || pad.Pending.Collection != step.Collection {
		pad.Pending = &session.PendingItem{Collection: step.Collection}
	}
	pad.Pending.Fields = append(pad.Pending.Fields, value)

	if !step.Final {
		return e.advance(ctx, pad, step.Next)
	}

	// The item is complete: only now does it reach the collection and the
	// transcript, as one indivisible block.
	loop := e.graph.MustStep(step.Next)
	fields := pad.Pending.Fields
	pad.AppendItem(step.Collection, fields)
	pad.Pending = nil
	header := fmt.Sprintf("%s %d", loop.ItemLabel, len(pad.Items(step.Collection)))
	if err := e.render.AppendItem(ctx, pad, header, loop.FieldLabels, fields); err != nil {
		return false, err
	}
	return e.advance(ctx, pad, step.Next)
}

func (e *Engine) handlePhoto(ctx context.Context, pad *session.Scratchpad, step *Step, up transport.Update) (bool, error) {
	if up.Kind != transport.UpdatePhoto || up.PhotoRef == "" {
		return false, nil
	}

	form, cols, err := assemble(pad, up.PhotoRef)
	if err != nil {
		return false, err
	}
	formID, err := e.applications.Commit(ctx, pad.ActorID, form, cols)
	if err != nil {
		return false, err
	}
	metrics.ApplicationsCommitted.Inc()
	e.log.Info("application committed", map[string]interface{}{
		"actorId": pad.ActorID,
		"formId":  formID,
	})

	if err := e.render.AppendLine(ctx, pad, step.Label, "attached"); err != nil {
		e.log.Warn("final transcript edit failed", map[string]interface{}{"error": err})
	}
	e.deleteInbound(ctx, up)
	if !pad.Refs.Prompt.IsZero() {
		if err := e.tr.DeleteMessage(ctx, pad.Refs.Prompt); err != nil {
			e.log.Warn("prompt delete failed", map[string]interface{}{"error": err})
		}
	}
	if _, err := e.tr.SendMessage(ctx, pad.ChatID, TextSubmitted, e.homeKB); err != nil {
		return true, err
	}
	if err := e.sessions.Delete(ctx, pad.ActorID); err != nil {
		return true, err
	}
	metrics.ActiveSessions.Dec()
	return true, nil
}

// advance moves the conversation to the next step and renders its prompt.
func (e *Engine) advance(ctx context.Context, pad *session.Scratchpad, next StepID) (bool, error) {
	pad.CurrentStep = string(next)
	step := e.graph.MustStep(next)

	switch step.Kind {
	case KindChoice:
		return false, e.editPrompt(ctx, pad, step.Prompt, choiceKeyboard(step))
	case KindRepeatChoice:
		return false, e.editPrompt(ctx, pad, step.Prompt, repeatKeyboard(step))
	case KindRepeatField:
		if len(step.Choices) > 0 {
			return false, e.editPrompt(ctx, pad, step.Prompt, choiceKeyboard(step))
		}
		return false, e.editPrompt(ctx, pad, step.Prompt, homeKeyboard())
	case KindCatalog:
		list, err := e.departments.List(ctx)
		if err != nil {
			return false, err
		}
		if len(list) == 0 {
			return true, e.abortEmptyCatalog(ctx, pad)
		}
		return false, e.showCatalogPage(ctx, pad, step, list, catalog.Forward(list[0].ID, e.pageSize))
	default:
		return false, e.editPrompt(ctx, pad, step.Prompt, homeKeyboard())
	}
}

// showCatalogPage renders one catalog window into the prompt message and
// remembers the visible id range for subsequent paging.
func (e *Engine) showCatalogPage(ctx context.Context, pad *session.Scratchpad, step *Step, list []models.Department, req catalog.WindowRequest) error {
	page, err := catalog.Window(list, req)
	if err != nil {
		return err
	}
	pad.Cursor = session.Cursor{FirstID: page.FirstID(), LastID: page.LastID()}

	var kb transport.Keyboard
	for _, d := range page.Entries {
		tok := callback.WithData(callback.CategoryDepartments, callback.ActionSelect, d.ID)
		kb = append(kb, transport.Row(transport.Button{Text: titleCase(d.Title), Data: tok.Encode()}))
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
	kb = append(kb, transport.Row(homeButton()))
	return e.editPrompt(ctx, pad, step.Prompt, kb)
}

// abortEmptyCatalog ends the conversation when no department can be chosen:
// the transcript and intro vanish, the prompt becomes an apology, and the
// scratchpad is destroyed.
func (e *Engine) abortEmptyCatalog(ctx context.Context, pad *session.Scratchpad) error {
	for _, ref := range []transport.MessageRef{pad.Refs.Transcript, pad.Refs.Intro} {
		if ref.IsZero() {
			continue
		}
		if err := e.tr.DeleteMessage(ctx, ref); err != nil {
			e.log.Warn("flow message delete failed", map[string]interface{}{"error": err})
		}
	}
	if err := e.editPrompt(ctx, pad, TextNoDepartments, e.homeKB); err != nil {
		return err
	}
	if err := e.sessions.Delete(ctx, pad.ActorID); err != nil {
		return err
	}
	metrics.ActiveSessions.Dec()
	return nil
}

// editPrompt updates the active question in place, creating the prompt
// message on the transition from the first question to the second.
func (e *Engine) editPrompt(ctx context.Context, pad *session.Scratchpad, text string, kb transport.Keyboard) error {
	if pad.Refs.Prompt.IsZero() {
		ref, err := e.tr.SendMessage(ctx, pad.ChatID, text, kb)
		if err != nil {
			return err
		}
		pad.Refs.Prompt = ref
		return nil
	}
	return e.tr.EditMessage(ctx, pad.Refs.Prompt, text, kb)
}

// deleteInbound removes the user's own message to keep the chat to the
// three managed messages.
func (e *Engine) deleteInbound(ctx context.Context, up transport.Update) {
	if up.MessageID == 0 {
		return
	}
	if err := e.tr.DeleteMessage(ctx, up.Ref()); err != nil {
		e.log.Warn("inbound message delete failed", map[string]interface{}{"error": err})
	}
}

// matchChoice resolves a button press against a step's option set.
func matchChoice(step *Step, up transport.Update, tok callback.Token) (Choice, bool) {
	if up.Kind != transport.UpdateCallback {
		return Choice{}, false
	}
	if tok.Category != callback.CategoryForm || tok.Action != callback.ActionSelect || !tok.HasData {
		return Choice{}, false
	}
	if tok.Data < 0 || tok.Data >= int64(len(step.Choices)) {
		return Choice{}, false
	}
	return step.Choices[tok.Data], true
}

// runValidator applies the step's format check. The returned display value
// goes to the transcript; the canonical value is what gets stored (they
// differ only for dates).
func runValidator(v ValidatorID, raw string) (display, canonical string, err error) {
	switch v {
	case ValidatorFullName:
		name, err := validate.ParseFullName(raw)
		return name, name, err
	case ValidatorDate:
		t, err := validate.ParseBirthDate(raw)
		if err != nil {
			return "", "", err
		}
		return strings.TrimSpace(raw), t.Format("2006-01-02"), nil
	case ValidatorPhone:
		phone, err := validate.ParsePhone(raw)
		return phone, phone, err
	case ValidatorYear:
		year, err := validate.ParseYear(raw)
		return year, year, err
	case ValidatorYearRange:
		r, err := validate.ParseYearRange(raw)
		return r, r, err
	default:
		text, err := validate.ParseText(raw)
		return text, text, err
	}
}

// answerFor types the stored answer by validator.
func answerFor(v ValidatorID, display, canonical string) session.Answer {
	if v == ValidatorDate {
		return session.Answer{Kind: session.AnswerDate, Text: display, Date: canonical}
	}
	return session.Answer{Kind: session.AnswerText, Text: canonical}
}

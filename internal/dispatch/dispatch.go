// Package dispatch routes inbound updates to the applicant or operator
// flow, enforces the one-update-per-actor rule, and converts panics and
// storage failures into an apology plus a session reset.
package dispatch

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"hr-intake-bot/internal/callback"
	boterrors "hr-intake-bot/internal/common/errors"
	"hr-intake-bot/internal/common/logger"
	"hr-intake-bot/internal/common/metrics"
	"hr-intake-bot/internal/flow"
	"hr-intake-bot/internal/operator"
	"hr-intake-bot/internal/session"
	"hr-intake-bot/internal/storage"
	"hr-intake-bot/internal/transport"
)

const (
	TextGreeting   = "Welcome! Press \"Apply\" to fill in a job application."
	TextHelp       = "This bot collects job applications. Use /start for the menu; the 🏠 button cancels an application at any point."
	TextApology    = "Something went wrong and your conversation was reset. Please press /start to begin again."
	TextNotAllowed = "This action is only available to operators."

	TextButtonApply  = "📝 Apply"
	TextButtonManage = "⚙ Manage departments"
)

// Config wires the dispatcher.
type Config struct {
	Engine     *flow.Engine
	Operator   *operator.Manager
	Sessions   *session.Store
	Actors     storage.ActorStore
	Transport  transport.Transport
	Logger     logger.Logger
	IsOperator func(actorID int64) bool
}

// Dispatcher is the single entry point for inbound updates.
type Dispatcher struct {
	engine     *flow.Engine
	operator   *operator.Manager
	sessions   *session.Store
	actors     storage.ActorStore
	tr         transport.Transport
	log        logger.Logger
	isOperator func(int64) bool

	locks sync.Map // actor id -> *sync.Mutex
}

// New builds a dispatcher.
func New(cfg Config) *Dispatcher {
	return &Dispatcher{
		engine:     cfg.Engine,
		operator:   cfg.Operator,
		sessions:   cfg.Sessions,
		actors:     cfg.Actors,
		tr:         cfg.Transport,
		log:        cfg.Logger.WithFields(map[string]interface{}{"component": "dispatcher"}),
		isOperator: cfg.IsOperator,
	}
}

// MenuKeyboard is the main-menu keyboard for an actor; operators get the
// management entry in addition to the apply button.
func MenuKeyboard(isOperator bool) transport.Keyboard {
	kb := transport.Keyboard{transport.Row(transport.Button{
		Text: TextButtonApply,
		Data: callback.New(callback.CategoryMenu, callback.ActionApply).Encode(),
	})}
	if isOperator {
		kb = append(kb, transport.Row(transport.Button{
			Text: TextButtonManage,
			Data: callback.New(callback.CategoryMenu, callback.ActionManage).Encode(),
		}))
	}
	return kb
}

// Run consumes updates until the context is cancelled. Each update is
// handled on its own goroutine; per-actor ordering is enforced by the
// drop-while-busy lock, not by serialization.
func (d *Dispatcher) Run(ctx context.Context, recv transport.Receiver) error {
	updates, err := recv.Updates(ctx)
	if err != nil {
		return err
	}
	var wg sync.WaitGroup
	for up := range updates {
		wg.Add(1)
		go func(up transport.Update) {
			defer wg.Done()
			d.Dispatch(ctx, up)
		}(up)
	}
	wg.Wait()
	return ctx.Err()
}

// Dispatch handles one update end to end. It never returns an error: every
// failure is absorbed at this boundary.
func (d *Dispatcher) Dispatch(ctx context.Context, up transport.Update) {
	mu := d.lockFor(up.ActorID)
	if !mu.TryLock() {
		// A previous update from this actor is still in flight; the
		// reentrancy policy is to drop, not queue.
		metrics.UpdatesDropped.Inc()
		d.log.Debug("update dropped, actor busy", map[string]interface{}{"actorId": up.ActorID})
		return
	}
	defer mu.Unlock()

	start := time.Now()
	category := "ignored"
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("panic while handling update", map[string]interface{}{
				"actorId": up.ActorID,
				"panic":   r,
			})
			d.apologize(ctx, up)
		}
		metrics.UpdatesProcessed.WithLabelValues(category).Inc()
		metrics.UpdateDuration.WithLabelValues(category).Observe(time.Since(start).Seconds())
	}()

	category = d.route(ctx, up)
}

// route picks the owner of the update and returns the metrics category.
func (d *Dispatcher) route(ctx context.Context, up transport.Update) string {
	if up.Kind == transport.UpdateText && strings.HasPrefix(up.Text, "/") {
		return d.handleCommand(ctx, up)
	}

	pad, err := d.sessions.Get(ctx, up.ActorID)
	switch {
	case err == nil:
		if pad.Mode == session.ModeOperator {
			d.guard(ctx, up, d.operator.Handle(ctx, pad, up))
			return "operator"
		}
		d.guard(ctx, up, d.engine.Handle(ctx, pad, up))
		return "applicant"
	case errors.Is(err, boterrors.ErrSessionNotFound):
		return d.handleMenu(ctx, up)
	default:
		d.log.WithError(err).Error("session load failed", map[string]interface{}{"actorId": up.ActorID})
		d.apologize(ctx, up)
		return "error"
	}
}

func (d *Dispatcher) handleCommand(ctx context.Context, up transport.Update) string {
	switch {
	case strings.HasPrefix(up.Text, "/start"):
		actor, err := d.actors.GetOrCreate(ctx, up.ActorID, up.Username, up.DisplayName)
		if err != nil {
			d.log.WithError(err).Error("actor registration failed", map[string]interface{}{"actorId": up.ActorID})
			d.apologize(ctx, up)
			return "error"
		}
		// /start abandons any conversation in progress.
		if err := d.sessions.Delete(ctx, up.ActorID); err != nil {
			d.log.WithError(err).Warn("session reset on /start failed", nil)
		}
		isOp := d.isOperator(actor.ID)
		if _, err := d.tr.SendMessage(ctx, up.ChatID, TextGreeting, MenuKeyboard(isOp)); err != nil {
			d.log.WithError(err).Error("greeting send failed", nil)
		}
		return "command"
	case strings.HasPrefix(up.Text, "/help"):
		if _, err := d.tr.SendMessage(ctx, up.ChatID, TextHelp, nil); err != nil {
			d.log.WithError(err).Error("help send failed", nil)
		}
		return "command"
	}
	return "ignored"
}

// handleMenu handles updates arriving with no conversation in progress:
// only the main-menu buttons mean anything here.
func (d *Dispatcher) handleMenu(ctx context.Context, up transport.Update) string {
	if up.Kind != transport.UpdateCallback {
		return "ignored"
	}
	if err := d.tr.AnswerCallback(ctx, up.CallbackID); err != nil {
		d.log.Warn("callback ack failed", map[string]interface{}{"error": err})
	}
	tok, ok := callback.Decode(up.CallbackData)
	if !ok || tok.Category != callback.CategoryMenu {
		return "ignored"
	}
	switch tok.Action {
	case callback.ActionApply:
		if _, err := d.actors.GetOrCreate(ctx, up.ActorID, up.Username, up.DisplayName); err != nil {
			d.log.WithError(err).Error("actor registration failed", map[string]interface{}{"actorId": up.ActorID})
			d.apologize(ctx, up)
			return "error"
		}
		d.guard(ctx, up, d.engine.Start(ctx, up.ActorID, up.ChatID))
		return "menu"
	case callback.ActionManage:
		if !d.isOperator(up.ActorID) {
			if _, err := d.tr.SendMessage(ctx, up.ChatID, TextNotAllowed, nil); err != nil {
				d.log.WithError(err).Warn("refusal send failed", nil)
			}
			return "menu"
		}
		d.guard(ctx, up, d.operator.Menu(ctx, up.ActorID, up.ChatID))
		return "menu"
	}
	return "ignored"
}

// guard is the storage-failure boundary around flow handlers.
func (d *Dispatcher) guard(ctx context.Context, up transport.Update, err error) {
	if err == nil {
		return
	}
	d.log.WithError(err).Error("update handling failed", map[string]interface{}{
		"actorId": up.ActorID,
		"kind":    string(up.Kind),
	})
	d.apologize(ctx, up)
}

// apologize resets the actor's conversation and says so. Best effort: the
// actor can always recover with /start.
func (d *Dispatcher) apologize(ctx context.Context, up transport.Update) {
	if err := d.sessions.Delete(ctx, up.ActorID); err != nil {
		d.log.WithError(err).Warn("session reset failed", map[string]interface{}{"actorId": up.ActorID})
	}
	if _, err := d.tr.SendMessage(ctx, up.ChatID, TextApology, MenuKeyboard(d.isOperator(up.ActorID))); err != nil {
		d.log.WithError(err).Warn("apology send failed", map[string]interface{}{"actorId": up.ActorID})
	}
}

func (d *Dispatcher) lockFor(actorID int64) *sync.Mutex {
	mu, _ := d.locks.LoadOrStore(actorID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hr-intake-bot/internal/callback"
	boterrors "hr-intake-bot/internal/common/errors"
	"hr-intake-bot/internal/common/logger"
	"hr-intake-bot/internal/flow"
	"hr-intake-bot/internal/models"
	"hr-intake-bot/internal/operator"
	"hr-intake-bot/internal/session"
	"hr-intake-bot/internal/transport"
)

const (
	applicantID = int64(100)
	operatorID  = int64(200)
	chatID      = int64(300)
)

type fakeActors struct {
	registered []int64
	err        error
}

func (f *fakeActors) GetOrCreate(_ context.Context, id int64, username, displayName string) (*models.Actor, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.registered = append(f.registered, id)
	return &models.Actor{ID: id, Username: username, DisplayName: displayName}, nil
}

type fakeDepartments struct {
	list []models.Department
}

func (f *fakeDepartments) List(context.Context) ([]models.Department, error) { return f.list, nil }

func (f *fakeDepartments) Get(_ context.Context, id int64) (*models.Department, error) {
	for _, d := range f.list {
		if d.ID == id {
			return &d, nil
		}
	}
	return nil, boterrors.ErrDepartmentNotFound
}

func (f *fakeDepartments) Insert(context.Context, string, string, string) (int64, error) {
	return 0, errors.New("not implemented")
}

func (f *fakeDepartments) Delete(context.Context, int64) error { return nil }

type fakeApplications struct{}

func (fakeApplications) Commit(context.Context, int64, *models.ApplicationForm, *models.Collections) (int64, error) {
	return 1, nil
}

type testRig struct {
	d        *Dispatcher
	tr       *transport.Fake
	sessions *session.Store
	actors   *fakeActors
}

func newTestRig(t *testing.T) *testRig {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	tr := transport.NewFake()
	store := session.NewStore(client, time.Hour)
	depts := &fakeDepartments{list: []models.Department{{ID: 1, Title: "logistics"}}}
	log := logger.NewNoOpLogger()

	engine, err := flow.NewEngine(flow.EngineConfig{
		Graph:        flow.DefaultGraph(),
		Transport:    tr,
		Sessions:     store,
		Departments:  depts,
		Applications: fakeApplications{},
		Logger:       log,
		PageSize:     3,
		HomeKeyboard: MenuKeyboard(false),
	})
	require.NoError(t, err)

	mgr := operator.NewManager(operator.Config{
		Transport:    tr,
		Sessions:     store,
		Departments:  depts,
		Logger:       log,
		PageSize:     10,
		HomeText:     TextGreeting,
		HomeKeyboard: MenuKeyboard(true),
	})

	actors := &fakeActors{}
	d := New(Config{
		Engine:     engine,
		Operator:   mgr,
		Sessions:   store,
		Actors:     actors,
		Transport:  tr,
		Logger:     log,
		IsOperator: func(id int64) bool { return id == operatorID },
	})
	return &testRig{d: d, tr: tr, sessions: store, actors: actors}
}

func command(actorID int64, text string) transport.Update {
	return transport.Update{
		Kind: transport.UpdateText, ActorID: actorID, ChatID: chatID,
		MessageID: 9000, Text: text,
	}
}

func menuPress(actorID int64, action callback.Action) transport.Update {
	return transport.Update{
		Kind: transport.UpdateCallback, ActorID: actorID, ChatID: chatID,
		CallbackID: "cb", CallbackData: callback.New(callback.CategoryMenu, action).Encode(),
	}
}

func TestDispatch_StartRegistersAndGreets(t *testing.T) {
	r := newTestRig(t)

	r.d.Dispatch(context.Background(), command(applicantID, "/start"))

	assert.Equal(t, []int64{applicantID}, r.actors.registered)
	require.NotEmpty(t, r.tr.Calls)
	last := r.tr.Calls[len(r.tr.Calls)-1]
	assert.Equal(t, TextGreeting, last.Text)
	assert.Len(t, last.Keyboard, 1, "applicants see only the apply button")
}

func TestDispatch_StartShowsManageRowToOperators(t *testing.T) {
	r := newTestRig(t)

	r.d.Dispatch(context.Background(), command(operatorID, "/start"))

	last := r.tr.Calls[len(r.tr.Calls)-1]
	assert.Len(t, last.Keyboard, 2)
}

func TestDispatch_StartAbandonsConversationInProgress(t *testing.T) {
	r := newTestRig(t)
	ctx := context.Background()
	r.d.Dispatch(ctx, menuPress(applicantID, callback.ActionApply))
	_, err := r.sessions.Get(ctx, applicantID)
	require.NoError(t, err)

	r.d.Dispatch(ctx, command(applicantID, "/start"))

	_, err = r.sessions.Get(ctx, applicantID)
	assert.ErrorIs(t, err, boterrors.ErrSessionNotFound)
}

func TestDispatch_Help(t *testing.T) {
	r := newTestRig(t)

	r.d.Dispatch(context.Background(), command(applicantID, "/help"))

	assert.Equal(t, TextHelp, r.tr.Calls[len(r.tr.Calls)-1].Text)
}

func TestDispatch_ApplyStartsApplicantFlow(t *testing.T) {
	r := newTestRig(t)

	r.d.Dispatch(context.Background(), menuPress(applicantID, callback.ActionApply))

	pad, err := r.sessions.Get(context.Background(), applicantID)
	require.NoError(t, err)
	assert.Equal(t, session.ModeApplicant, pad.Mode)
	assert.Equal(t, []int64{applicantID}, r.actors.registered)
}

func TestDispatch_ManageRefusedForApplicants(t *testing.T) {
	r := newTestRig(t)

	r.d.Dispatch(context.Background(), menuPress(applicantID, callback.ActionManage))

	_, err := r.sessions.Get(context.Background(), applicantID)
	assert.ErrorIs(t, err, boterrors.ErrSessionNotFound)
	assert.Equal(t, TextNotAllowed, r.tr.Calls[len(r.tr.Calls)-1].Text)
}

func TestDispatch_ManageOpensOperatorFlow(t *testing.T) {
	r := newTestRig(t)

	r.d.Dispatch(context.Background(), menuPress(operatorID, callback.ActionManage))

	pad, err := r.sessions.Get(context.Background(), operatorID)
	require.NoError(t, err)
	assert.Equal(t, session.ModeOperator, pad.Mode)
	assert.Equal(t, operator.StateMenu, pad.CurrentStep)
}

func TestDispatch_RoutesTextToApplicantFlow(t *testing.T) {
	r := newTestRig(t)
	ctx := context.Background()
	r.d.Dispatch(ctx, menuPress(applicantID, callback.ActionApply))

	r.d.Dispatch(ctx, transport.Update{
		Kind: transport.UpdateText, ActorID: applicantID, ChatID: chatID,
		MessageID: 9001, Text: "Ahmadjon Ahmedov",
	})

	pad, err := r.sessions.Get(ctx, applicantID)
	require.NoError(t, err)
	assert.Equal(t, "Ahmadjon Ahmedov", pad.Answers["full_name"].Text)
}

func TestDispatch_DropsWhileActorBusy(t *testing.T) {
	r := newTestRig(t)
	mu := r.d.lockFor(applicantID)
	mu.Lock()
	defer mu.Unlock()

	r.d.Dispatch(context.Background(), command(applicantID, "/start"))

	assert.Empty(t, r.actors.registered, "update was dropped, not handled")
	assert.Empty(t, r.tr.Calls)
}

func TestDispatch_PanicResetsSessionAndApologizes(t *testing.T) {
	r := newTestRig(t)
	ctx := context.Background()
	r.d.Dispatch(ctx, menuPress(applicantID, callback.ActionApply))
	r.d.engine = nil // any handler panic is converted at the boundary

	r.d.Dispatch(ctx, transport.Update{
		Kind: transport.UpdateText, ActorID: applicantID, ChatID: chatID,
		MessageID: 9002, Text: "anything",
	})

	_, err := r.sessions.Get(ctx, applicantID)
	assert.ErrorIs(t, err, boterrors.ErrSessionNotFound)
	assert.Equal(t, TextApology, r.tr.Calls[len(r.tr.Calls)-1].Text)
}

func TestDispatch_RegistrationFailureApologizes(t *testing.T) {
	r := newTestRig(t)
	r.actors.err = errors.New("db down")

	r.d.Dispatch(context.Background(), command(applicantID, "/start"))

	assert.Equal(t, TextApology, r.tr.Calls[len(r.tr.Calls)-1].Text)
}

func TestDispatch_IgnoresStrayText(t *testing.T) {
	r := newTestRig(t)

	r.d.Dispatch(context.Background(), transport.Update{
		Kind: transport.UpdateText, ActorID: applicantID, ChatID: chatID, Text: "hello",
	})

	assert.Empty(t, r.tr.Calls)
}

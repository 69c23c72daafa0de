package operator

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hr-intake-bot/internal/callback"
	boterrors "hr-intake-bot/internal/common/errors"
	"hr-intake-bot/internal/common/logger"
	"hr-intake-bot/internal/models"
	"hr-intake-bot/internal/session"
	"hr-intake-bot/internal/transport"
)

const (
	testActorID = int64(42)
	testChatID  = int64(43)
)

// memDepartments is an in-memory DepartmentStore with working inserts and
// deletes, enough to drive the whole management flow.
type memDepartments struct {
	nextID int64
	list   []models.Department
}

func (m *memDepartments) List(context.Context) ([]models.Department, error) {
	out := make([]models.Department, len(m.list))
	copy(out, m.list)
	return out, nil
}

func (m *memDepartments) Get(_ context.Context, id int64) (*models.Department, error) {
	for _, d := range m.list {
		if d.ID == id {
			return &d, nil
		}
	}
	return nil, boterrors.ErrDepartmentNotFound
}

func (m *memDepartments) Insert(_ context.Context, title, description, imageRef string) (int64, error) {
	title = strings.ToLower(strings.TrimSpace(title))
	for _, d := range m.list {
		if d.Title == title {
			return 0, boterrors.ErrDuplicateDepartment
		}
	}
	m.nextID++
	m.list = append(m.list, models.Department{ID: m.nextID, Title: title, Description: description, ImageRef: imageRef})
	return m.nextID, nil
}

func (m *memDepartments) Delete(_ context.Context, id int64) error {
	for i, d := range m.list {
		if d.ID == id {
			m.list = append(m.list[:i], m.list[i+1:]...)
			return nil
		}
	}
	return nil
}

type testRig struct {
	mgr      *Manager
	tr       *transport.Fake
	sessions *session.Store
	depts    *memDepartments
}

func newTestRig(t *testing.T) *testRig {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	tr := transport.NewFake()
	depts := &memDepartments{}
	store := session.NewStore(client, time.Hour)
	mgr := NewManager(Config{
		Transport:    tr,
		Sessions:     store,
		Departments:  depts,
		Logger:       logger.NewNoOpLogger(),
		PageSize:     10,
		HomeText:     "Main menu",
		HomeKeyboard: transport.Keyboard{transport.Row(transport.Button{Text: "Manage", Data: "menu:manage"})},
	})
	return &testRig{mgr: mgr, tr: tr, sessions: store, depts: depts}
}

func (r *testRig) pad(t *testing.T) *session.Scratchpad {
	t.Helper()
	pad, err := r.sessions.Get(context.Background(), testActorID)
	require.NoError(t, err)
	return pad
}

func (r *testRig) handle(t *testing.T, up transport.Update) {
	t.Helper()
	require.NoError(t, r.mgr.Handle(context.Background(), r.pad(t), up))
}

func (r *testRig) press(t *testing.T, tok callback.Token) {
	t.Helper()
	r.handle(t, transport.Update{
		Kind: transport.UpdateCallback, ActorID: testActorID, ChatID: testChatID,
		CallbackID: "cb-1", CallbackData: tok.Encode(),
	})
}

var inboundID = int64(2000)

func (r *testRig) typeText(t *testing.T, text string) {
	t.Helper()
	inboundID++
	r.handle(t, transport.Update{
		Kind: transport.UpdateText, ActorID: testActorID, ChatID: testChatID,
		MessageID: inboundID, Text: text,
	})
}

func (r *testRig) sendPhoto(t *testing.T, ref string) {
	t.Helper()
	inboundID++
	r.handle(t, transport.Update{
		Kind: transport.UpdatePhoto, ActorID: testActorID, ChatID: testChatID,
		MessageID: inboundID, PhotoRef: ref,
	})
}

func deptToken(a callback.Action) callback.Token {
	return callback.New(callback.CategoryDepartments, a)
}

func TestManager_MenuOpensSession(t *testing.T) {
	r := newTestRig(t)
	require.NoError(t, r.mgr.Menu(context.Background(), testActorID, testChatID))

	pad := r.pad(t)
	assert.Equal(t, session.ModeOperator, pad.Mode)
	assert.Equal(t, StateMenu, pad.CurrentStep)
	assert.Equal(t, TextMenu, r.tr.LastText(pad.Refs.Prompt))
}

func TestManager_AddDepartment(t *testing.T) {
	r := newTestRig(t)
	require.NoError(t, r.mgr.Menu(context.Background(), testActorID, testChatID))

	r.press(t, deptToken(callback.ActionAdd))
	assert.Equal(t, StateTitle, r.pad(t).CurrentStep)

	r.typeText(t, "Logistics")
	assert.Equal(t, StateDescription, r.pad(t).CurrentStep)

	r.typeText(t, "Warehouse and delivery")
	assert.Equal(t, StatePhoto, r.pad(t).CurrentStep)

	r.sendPhoto(t, "cover-1")
	pad := r.pad(t)
	assert.Equal(t, StateConfirm, pad.CurrentStep)
	assert.Contains(t, r.tr.LastText(pad.Refs.Prompt), "Title: Logistics")

	r.press(t, deptToken(callback.ActionYes))
	pad = r.pad(t)
	assert.Equal(t, StateMenu, pad.CurrentStep)
	assert.Contains(t, r.tr.LastText(pad.Refs.Prompt), TextAdded)

	require.Len(t, r.depts.list, 1)
	assert.Equal(t, "logistics", r.depts.list[0].Title)
	assert.Equal(t, "cover-1", r.depts.list[0].ImageRef)
	assert.Empty(t, pad.Answers, "draft is cleared after insert")
}

func TestManager_DuplicateTitleListsExistingAndClears(t *testing.T) {
	r := newTestRig(t)
	_, err := r.depts.Insert(context.Background(), "logistics", "", "")
	require.NoError(t, err)
	require.NoError(t, r.mgr.Menu(context.Background(), testActorID, testChatID))

	r.press(t, deptToken(callback.ActionAdd))
	r.typeText(t, "Logistics")
	r.typeText(t, "duplicate draft")
	r.sendPhoto(t, "cover-2")
	r.press(t, deptToken(callback.ActionYes))

	pad := r.pad(t)
	assert.Equal(t, StateMenu, pad.CurrentStep)
	text := r.tr.LastText(pad.Refs.Prompt)
	assert.Contains(t, text, TextDuplicate)
	assert.Contains(t, text, "logistics")
	assert.Empty(t, pad.Answers)
	assert.Len(t, r.depts.list, 1, "nothing was inserted")
}

func TestManager_ConfirmNoDiscardsDraft(t *testing.T) {
	r := newTestRig(t)
	require.NoError(t, r.mgr.Menu(context.Background(), testActorID, testChatID))

	r.press(t, deptToken(callback.ActionAdd))
	r.typeText(t, "Sales")
	r.typeText(t, "desc")
	r.sendPhoto(t, "cover-3")
	r.press(t, deptToken(callback.ActionNo))

	pad := r.pad(t)
	assert.Equal(t, StateMenu, pad.CurrentStep)
	assert.Empty(t, pad.Answers)
	assert.Empty(t, r.depts.list)
}

func seedDepartments(t *testing.T, r *testRig, n int) {
	t.Helper()
	titles := []string{"logistics", "sales", "accounting", "security", "marketing",
		"transport", "warehouse", "kitchen", "cleaning", "legal", "finance", "reception"}
	for i := 0; i < n; i++ {
		_, err := r.depts.Insert(context.Background(), titles[i], "", "")
		require.NoError(t, err)
	}
}

func TestManager_ListPagesOpensAndDeletes(t *testing.T) {
	r := newTestRig(t)
	seedDepartments(t, r, 12)
	require.NoError(t, r.mgr.Menu(context.Background(), testActorID, testChatID))

	r.press(t, deptToken(callback.ActionOpen))
	pad := r.pad(t)
	assert.Equal(t, StateBrowsing, pad.CurrentStep)
	assert.Equal(t, session.Cursor{FirstID: 1, LastID: 10}, pad.Cursor)

	r.press(t, deptToken(callback.ActionNext))
	pad = r.pad(t)
	assert.Equal(t, session.Cursor{FirstID: 11, LastID: 12}, pad.Cursor)

	r.press(t, callback.WithData(callback.CategoryDepartments, callback.ActionSelect, 11))
	pad = r.pad(t)
	assert.Equal(t, StateDetail, pad.CurrentStep)
	assert.Equal(t, int64(11), pad.Answers[keyOpen].ID)
	assert.Contains(t, r.tr.LastText(pad.Refs.Prompt), "Finance")

	r.press(t, deptToken(callback.ActionDelete))
	assert.Equal(t, StateDeleteConfirm, r.pad(t).CurrentStep)

	r.press(t, deptToken(callback.ActionYes))
	pad = r.pad(t)
	assert.Equal(t, StateBrowsing, pad.CurrentStep)
	assert.Len(t, r.depts.list, 11)
	_, err := r.depts.Get(context.Background(), 11)
	assert.ErrorIs(t, err, boterrors.ErrDepartmentNotFound)
}

func TestManager_DeleteCancelReturnsToDetail(t *testing.T) {
	r := newTestRig(t)
	seedDepartments(t, r, 2)
	require.NoError(t, r.mgr.Menu(context.Background(), testActorID, testChatID))

	r.press(t, deptToken(callback.ActionOpen))
	r.press(t, callback.WithData(callback.CategoryDepartments, callback.ActionSelect, 2))
	r.press(t, deptToken(callback.ActionDelete))
	r.press(t, deptToken(callback.ActionNo))

	pad := r.pad(t)
	assert.Equal(t, StateDetail, pad.CurrentStep)
	assert.Len(t, r.depts.list, 2)
}

func TestManager_BackNavigation(t *testing.T) {
	r := newTestRig(t)
	seedDepartments(t, r, 3)
	require.NoError(t, r.mgr.Menu(context.Background(), testActorID, testChatID))

	r.press(t, deptToken(callback.ActionOpen))
	r.press(t, callback.WithData(callback.CategoryDepartments, callback.ActionSelect, 1))
	r.press(t, deptToken(callback.ActionBack))
	assert.Equal(t, StateBrowsing, r.pad(t).CurrentStep)

	r.press(t, deptToken(callback.ActionBack))
	pad := r.pad(t)
	assert.Equal(t, StateMenu, pad.CurrentStep)
	assert.Equal(t, TextMenu, r.tr.LastText(pad.Refs.Prompt))
}

func TestManager_EmptyCatalogListShowsNotice(t *testing.T) {
	r := newTestRig(t)
	require.NoError(t, r.mgr.Menu(context.Background(), testActorID, testChatID))

	r.press(t, deptToken(callback.ActionOpen))

	pad := r.pad(t)
	assert.Equal(t, StateMenu, pad.CurrentStep)
	assert.Contains(t, r.tr.LastText(pad.Refs.Prompt), TextNoDepartments)
}

func TestManager_HomeExits(t *testing.T) {
	r := newTestRig(t)
	require.NoError(t, r.mgr.Menu(context.Background(), testActorID, testChatID))

	r.press(t, callback.New(callback.CategoryForm, callback.ActionHome))

	_, err := r.sessions.Get(context.Background(), testActorID)
	assert.ErrorIs(t, err, boterrors.ErrSessionNotFound)
	assert.Equal(t, 1, r.tr.LiveCount())
}

func TestManager_IgnoresForeignCallbacks(t *testing.T) {
	r := newTestRig(t)
	require.NoError(t, r.mgr.Menu(context.Background(), testActorID, testChatID))

	r.press(t, callback.New(callback.CategoryTrips, callback.ActionAdd))

	assert.Equal(t, StateMenu, r.pad(t).CurrentStep)
}

package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"inventory-dashboard/internal/debounce/debouncetest"
	"inventory-dashboard/internal/form"
	"inventory-dashboard/internal/model"
	"inventory-dashboard/internal/repository"
	"inventory-dashboard/internal/service"
	"inventory-dashboard/internal/view"
	"inventory-dashboard/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	views  []ViewFrame
	forms  []FormFrame
	toasts []Toast
}

func (r *recorder) RenderView(f ViewFrame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views = append(r.views, f)
}

func (r *recorder) RenderForm(f FormFrame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.forms = append(r.forms, f)
}

func (r *recorder) RenderToast(t Toast) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, t)
}

func (r *recorder) lastView() ViewFrame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.views[len(r.views)-1]
}

func (r *recorder) lastForm() FormFrame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.forms[len(r.forms)-1]
}

func (r *recorder) viewCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

// describer hands out text when released
type describer struct {
	release chan struct{}
	text    string
}

func (d *describer) Describe(ctx context.Context, name, category string) string {
	if d.release != nil {
		<-d.release
	}
	return d.text + " " + name
}

type fixture struct {
	repo  repository.ProductRepository
	svc   service.InventoryService
	sched *debouncetest.Scheduler
	out   *recorder
	desc  *describer
	s     *Session
}

func newFixture(t *testing.T, products int) *fixture {
	t.Helper()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	repo := repository.NewProductRepo()
	for i := 0; i < products; i++ {
		repo.Insert(model.NewProduct(model.ProductInput{
			Name:     fmt.Sprintf("gadget %02d", i),
			Price:    decimal.NewFromInt(5),
			Category: "Electronics",
			Stock:    i,
		}, base.Add(-time.Duration(i)*time.Minute)))
	}

	f := &fixture{
		repo:  repo,
		svc:   service.NewInventoryService(repo, model.NewCategories(model.DefaultCategories), nil),
		sched: debouncetest.New(),
		out:   &recorder{},
		desc:  &describer{text: "Generated for"},
	}
	f.s = New(f.svc, f.desc, f.out, Options{PageSize: 10, Scheduler: f.sched})
	f.s.Start()
	t.Cleanup(f.s.Close)
	return f
}

func (f *fixture) addNamed(name string, age time.Duration) model.Product {
	p := model.NewProduct(model.ProductInput{
		Name:     name,
		Price:    decimal.NewFromInt(1),
		Category: "Toys",
	}, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).Add(-age))
	f.repo.Insert(p)
	return p
}

func TestStartRendersFirstPage(t *testing.T) {
	f := newFixture(t, 25)
	v := f.out.lastView()
	assert.Equal(t, 1, v.Page.Page)
	assert.Equal(t, 3, v.Page.TotalPages)
	assert.Len(t, v.Page.Items, 10)
	assert.Equal(t, "gadget 00", v.Page.Items[0].Name)
}

func TestSearchIsDebounced(t *testing.T) {
	f := newFixture(t, 25)
	start := f.out.viewCount()

	f.s.Type("g")
	f.sched.Advance(100 * time.Millisecond)
	f.s.Type("ga")
	f.sched.Advance(100 * time.Millisecond)
	f.s.Type("gadget 2")

	f.sched.Advance(499 * time.Millisecond)
	assert.Equal(t, start, f.out.viewCount(), "no render before the quiet period")
	assert.Equal(t, "gadget 2", f.s.State().RawSearch)
	assert.Equal(t, "", f.s.State().Search)

	f.sched.Advance(time.Millisecond)
	assert.Equal(t, start+1, f.out.viewCount())
	v := f.out.lastView()
	assert.Equal(t, "gadget 2", v.State.Search)
	assert.Equal(t, 5, v.Page.TotalItems)
}

func TestTypingAndClearingReturnsToFirstPage(t *testing.T) {
	f := newFixture(t, 25)
	f.s.SetPage(3)
	require.Equal(t, 3, f.out.lastView().Page.Page)

	f.s.Type("x")
	assert.Equal(t, 1, f.out.lastView().Page.Page, "page resets on the keystroke")
	assert.Equal(t, "", f.out.lastView().State.Search)

	f.s.Type("")
	f.sched.Advance(500 * time.Millisecond)
	v := f.out.lastView()
	assert.Equal(t, 1, v.Page.Page)
	assert.Equal(t, 25, v.Page.TotalItems)
}

func TestNarrowingSearchClampsFromPageThree(t *testing.T) {
	f := newFixture(t, 20)
	for i := 0; i < 5; i++ {
		f.addNamed(fmt.Sprintf("widget %d", i), time.Duration(100+i)*time.Minute)
	}

	f.s.SetPage(3)
	require.Equal(t, 3, f.out.lastView().Page.Page)

	f.s.SearchNow("WIDGET")
	v := f.out.lastView()
	assert.Equal(t, 1, v.Page.Page)
	assert.Equal(t, 1, v.Page.TotalPages)
	assert.Len(t, v.Page.Items, 5)
}

func TestPageSizeResetsPage(t *testing.T) {
	f := newFixture(t, 40)
	f.s.SetPage(2)
	require.Equal(t, 2, f.out.lastView().Page.Page)

	f.s.SetPageSize(20)
	v := f.out.lastView()
	assert.Equal(t, 1, v.Page.Page)
	assert.Len(t, v.Page.Items, 20)
}

func TestLayoutToggle(t *testing.T) {
	f := newFixture(t, 1)
	f.s.SetLayout(view.LayoutGrid)
	assert.Equal(t, view.LayoutGrid, f.out.lastView().State.Layout)
}

func TestCatalogShrinkClampsOnNotify(t *testing.T) {
	f := newFixture(t, 21)
	f.s.SetPage(3)
	require.Len(t, f.out.lastView().Page.Items, 1)

	removed, ok := f.repo.Delete(f.out.lastView().Page.Items[0].ID)
	require.True(t, ok)
	f.s.Notify(model.NewCatalogEvent(model.ActionProductDeleted, removed, service.MsgProductDeleted))

	v := f.out.lastView()
	assert.Equal(t, 2, v.Page.Page)
	assert.Len(t, v.Page.Items, 10)
	assert.Equal(t, Toast{Message: service.MsgProductDeleted, Level: ToastInfo}, f.out.toasts[len(f.out.toasts)-1])
}

func TestTwoTapDelete(t *testing.T) {
	f := newFixture(t, 3)
	target := f.out.lastView().Page.Items[0].ID

	f.s.RequestDelete(target)
	v := f.out.lastView()
	require.NotNil(t, v.PendingDelete)
	assert.Equal(t, target, *v.PendingDelete)
	assert.Len(t, f.repo.FindAll(), 3)

	f.sched.Advance(time.Second)
	f.s.RequestDelete(target)
	assert.Len(t, f.repo.FindAll(), 2)
	assert.Nil(t, f.out.lastView().PendingDelete)
	assert.Equal(t, 0, f.sched.Active(), "expiry timer is cancelled by the second tap")
}

func TestDeleteConfirmationExpires(t *testing.T) {
	f := newFixture(t, 3)
	target := f.out.lastView().Page.Items[0].ID

	f.s.RequestDelete(target)
	f.sched.Advance(3 * time.Second)
	assert.Nil(t, f.out.lastView().PendingDelete)

	f.s.RequestDelete(target)
	assert.Len(t, f.repo.FindAll(), 3, "a tap after expiry only re-arms")
}

func TestArmingAnotherRecordReplacesConfirmation(t *testing.T) {
	f := newFixture(t, 3)
	items := f.out.lastView().Page.Items

	f.s.RequestDelete(items[0].ID)
	f.sched.Advance(2 * time.Second)
	f.s.RequestDelete(items[1].ID)
	f.sched.Advance(2 * time.Second)

	v := f.out.lastView()
	require.NotNil(t, v.PendingDelete, "the first record's expiry must not clear the second")
	assert.Equal(t, items[1].ID, *v.PendingDelete)
}

func TestDeleteUnknownIDIsQuiet(t *testing.T) {
	f := newFixture(t, 2)
	ghost := uuid.New()
	f.s.RequestDelete(ghost)
	f.s.RequestDelete(ghost)
	assert.Len(t, f.repo.FindAll(), 2)
	assert.Empty(t, f.out.toasts)
}

func TestCloseCancelsTimers(t *testing.T) {
	f := newFixture(t, 3)
	f.s.Type("gadget")
	f.s.RequestDelete(f.out.lastView().Page.Items[0].ID)
	require.Equal(t, 2, f.sched.Active())
	before := f.out.viewCount()

	f.s.Close()
	assert.Equal(t, 0, f.sched.Active())

	f.sched.Advance(10 * time.Second)
	assert.Equal(t, before, f.out.viewCount(), "nothing renders after teardown")
}

func TestCreateFlow(t *testing.T) {
	f := newFixture(t, 0)
	f.s.OpenCreate()
	fr := f.out.lastForm()
	require.NotNil(t, fr.Form)
	token := fr.Form.Token
	assert.False(t, fr.Form.IsEdit())

	require.Error(t, f.s.Submit(token))
	assert.Len(t, f.out.lastForm().Form.Errors, 4)

	require.NoError(t, f.s.SetField(token, form.FieldName, "Robot Kit"))
	assert.NotContains(t, f.out.lastForm().Form.Errors, form.FieldName)
	require.NoError(t, f.s.SetField(token, form.FieldPrice, "59.90"))
	require.NoError(t, f.s.SetField(token, form.FieldCategory, "Toys"))
	require.NoError(t, f.s.SetField(token, form.FieldStock, "12"))

	require.NoError(t, f.s.Submit(token))
	assert.Nil(t, f.out.lastForm().Form)
	v := f.out.lastView()
	require.Len(t, v.Page.Items, 1)
	assert.Equal(t, "Robot Kit", v.Page.Items[0].Name)

	assert.ErrorIs(t, f.s.Submit(token), ErrStaleForm)
}

func TestEditFlowPreservesIdentity(t *testing.T) {
	f := newFixture(t, 2)
	original := f.out.lastView().Page.Items[1]

	f.s.OpenEdit(original.ID)
	fr := f.out.lastForm()
	require.NotNil(t, fr.Form)
	assert.Equal(t, form.Field(original.Name), fr.Form.Draft.Name)

	require.NoError(t, f.s.SetField(fr.Form.Token, form.FieldName, "renamed"))
	require.NoError(t, f.s.SetField(fr.Form.Token, form.FieldStock, "99"))
	require.NoError(t, f.s.Submit(fr.Form.Token))

	stored, ok := f.repo.FindByID(original.ID)
	require.True(t, ok)
	assert.Equal(t, original.CreatedAt, stored.CreatedAt)
	assert.Equal(t, "renamed", stored.Name)
	assert.Equal(t, 99, stored.Stock)
}

func TestEditOfDeletedProduct(t *testing.T) {
	f := newFixture(t, 1)
	p := f.out.lastView().Page.Items[0]
	f.s.OpenEdit(p.ID)
	token := f.out.lastForm().Form.Token

	f.repo.Delete(p.ID)
	err := f.s.Submit(token)
	assert.ErrorIs(t, err, service.ErrProductNotFound)
	assert.Nil(t, f.out.lastForm().Form)
	assert.Equal(t, MsgProductMissing, f.out.toasts[len(f.out.toasts)-1].Message)

	f.s.OpenEdit(uuid.New())
	assert.Equal(t, ToastError, f.out.toasts[len(f.out.toasts)-1].Level)
}

func TestAssistFillsDescription(t *testing.T) {
	f := newFixture(t, 0)
	f.s.OpenCreate()
	token := f.out.lastForm().Form.Token

	require.NoError(t, f.s.Assist(token))
	assert.Equal(t, MsgAssistNeedsInput, f.out.toasts[0].Message)

	require.NoError(t, f.s.SetField(token, form.FieldName, "Kite"))
	require.NoError(t, f.s.SetField(token, form.FieldCategory, "Toys"))
	require.NoError(t, f.s.Assist(token))
	f.s.inflight.Wait()

	fr := f.out.lastForm()
	assert.False(t, fr.Assisting)
	assert.Equal(t, form.Field("Generated for Kite"), fr.Form.Draft.Description)
}

func TestLateAssistResultIsIgnored(t *testing.T) {
	f := newFixture(t, 0)
	f.desc.release = make(chan struct{})
	f.s.OpenCreate()
	token := f.out.lastForm().Form.Token
	require.NoError(t, f.s.SetField(token, form.FieldName, "Kite"))
	require.NoError(t, f.s.SetField(token, form.FieldCategory, "Toys"))

	require.NoError(t, f.s.Assist(token))
	assert.True(t, f.out.lastForm().Assisting)

	f.s.CancelForm(token)
	f.s.OpenCreate()
	fresh := f.out.lastForm().Form
	formsBefore := len(f.out.forms)

	close(f.desc.release)
	f.s.inflight.Wait()

	assert.Len(t, f.out.forms, formsBefore, "the late result must not render")
	assert.Equal(t, form.Field(""), f.out.lastForm().Form.Draft.Description)
	assert.Equal(t, fresh.Token, f.out.lastForm().Form.Token)
}

func TestStaleTokensAreRejected(t *testing.T) {
	f := newFixture(t, 0)
	assert.ErrorIs(t, f.s.SetField(uuid.New(), form.FieldName, "x"), ErrStaleForm)
	assert.ErrorIs(t, f.s.Assist(uuid.New()), ErrStaleForm)
}

func TestSessionFollowsHub(t *testing.T) {
	hub := ws.NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	repo := repository.NewProductRepo()
	svc := service.NewInventoryService(repo, model.NewCategories(model.DefaultCategories), hub)
	out := &recorder{}
	s := New(svc, &describer{}, out, Options{Hub: hub})
	s.Start()
	defer s.Close()

	other := form.NewCreate()
	other.Draft = form.Draft{Name: "Board Game", Price: "30", Category: "Toys", Stock: "2"}
	_, err := svc.Submit(other)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return out.viewCount() >= 2 && len(out.lastView().Page.Items) == 1
	}, time.Second, time.Millisecond)
}

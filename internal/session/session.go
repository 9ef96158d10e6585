// Package session is one live dashboard: the view state a user is looking
// at, their debounced search, the delete confirmation and the open form.
// The WebSocket endpoint and the terminal UI both drive a Session.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"inventory-dashboard/internal/assist"
	"inventory-dashboard/internal/debounce"
	"inventory-dashboard/internal/form"
	"inventory-dashboard/internal/model"
	"inventory-dashboard/internal/service"
	"inventory-dashboard/internal/view"
	"inventory-dashboard/internal/ws"

	"github.com/google/uuid"
)

const (
	DefaultDebounce   = 500 * time.Millisecond
	DefaultConfirmTTL = 3 * time.Second
)

const (
	MsgAssistNeedsInput = "Please enter a name and category first for the AI to assist."
	MsgProductMissing   = "That product no longer exists."
)

var ErrStaleForm = errors.New("session: form is not open")

// Hub is where a session listens for catalog changes.
type Hub interface {
	Subscribe(ws.Subscriber)
	Unsubscribe(ws.Subscriber)
}

type Options struct {
	PageSize   int
	Debounce   time.Duration
	ConfirmTTL time.Duration
	Scheduler  debounce.Scheduler
	Hub        Hub
	Logger     *slog.Logger
}

type Session struct {
	svc    service.InventoryService
	assist assist.Describer
	out    Renderer
	hub    Hub
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	search *debounce.Debouncer[string]

	mu        sync.Mutex
	state     view.State
	confirm   *confirm
	form      *form.Form
	assisting bool
	closed    bool

	inflight sync.WaitGroup
}

func New(svc service.InventoryService, describer assist.Describer, out Renderer, opts Options) *Session {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.ConfirmTTL <= 0 {
		opts.ConfirmTTL = DefaultConfirmTTL
	}
	if opts.Scheduler == nil {
		opts.Scheduler = debounce.RealScheduler
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		svc:     svc,
		assist:  describer,
		out:     out,
		hub:     opts.Hub,
		logger:  opts.Logger,
		ctx:     ctx,
		cancel:  cancel,
		state:   view.NewState(opts.PageSize),
		confirm: newConfirm(opts.Scheduler, opts.ConfirmTTL),
	}
	s.search = debounce.New(opts.Debounce, opts.Scheduler, s.applySearch)
	return s
}

// Start subscribes to catalog changes and renders the first view.
func (s *Session) Start() {
	if s.hub != nil {
		s.hub.Subscribe(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renderView()
}

// Close tears the session down. Pending search and confirm timers are
// cancelled and late assist results are dropped.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.confirm.Clear()
	s.form = nil
	s.mu.Unlock()

	s.search.Stop()
	s.cancel()
	if s.hub != nil {
		s.hub.Unsubscribe(s)
	}
}

// State returns a copy of the current view state.
func (s *Session) State() view.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Notify re-derives the view after a catalog change, clamping the page if
// the catalog shrank.
func (s *Session) Notify(event model.CatalogEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if event.Action == model.ActionProductDeleted && s.confirm.Armed(event.ProductID) {
		s.confirm.Clear()
	}
	s.renderView()
	if event.Message != "" {
		level := ToastSuccess
		if event.Action == model.ActionProductDeleted {
			level = ToastInfo
		}
		s.out.RenderToast(Toast{Message: event.Message, Level: level})
	}
}

// Type records a keystroke in the search box. The view follows once the
// input has been quiet for the debounce period.
func (s *Session) Type(raw string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if s.state.SetRawSearch(raw) {
		s.renderView()
	}
	s.mu.Unlock()

	s.search.Push(raw)
}

// SearchNow applies raw immediately, skipping the quiet period.
func (s *Session) SearchNow(raw string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.state.SetRawSearch(raw)
	s.mu.Unlock()

	s.search.Flush(raw)
}

func (s *Session) applySearch(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.state.SetSearch(text)
	s.renderView()
}

func (s *Session) SetPage(page int) {
	s.update(func(st *view.State) { st.SetPage(page) })
}

func (s *Session) SetPageSize(size int) {
	s.update(func(st *view.State) { st.SetPageSize(size) })
}

func (s *Session) SetLayout(layout view.Layout) {
	s.update(func(st *view.State) { st.SetLayout(layout) })
}

// Refresh re-renders the current view.
func (s *Session) Refresh() {
	s.update(func(*view.State) {})
}

func (s *Session) update(fn func(*view.State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	fn(&s.state)
	s.renderView()
}

// RequestDelete is the two-tap delete: the first tap arms the record, a
// second tap on the same record before the confirmation expires deletes it.
func (s *Session) RequestDelete(id uuid.UUID) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if !s.confirm.Armed(id) {
		s.confirm.Arm(id, s.expireConfirm)
		s.renderView()
		s.mu.Unlock()
		return
	}
	s.confirm.Clear()
	s.mu.Unlock()

	s.svc.DeleteProduct(id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.renderView()
	}
}

func (s *Session) expireConfirm(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.confirm.Expire(gen) {
		s.renderView()
	}
}

// OpenCreate opens an empty form, replacing any open one.
func (s *Session) OpenCreate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.form = form.NewCreate()
	s.assisting = false
	s.renderForm()
}

// OpenEdit opens a form pre-filled with the product.
func (s *Session) OpenEdit(id uuid.UUID) {
	product, err := s.svc.GetProduct(id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if err != nil {
		s.out.RenderToast(Toast{Message: MsgProductMissing, Level: ToastError})
		return
	}
	s.form = form.NewEdit(product)
	s.assisting = false
	s.renderForm()
}

// SetField edits the open form identified by token.
func (s *Session) SetField(token uuid.UUID, field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.openForm(token)
	if err != nil {
		return err
	}
	if err := f.SetField(field, value); err != nil {
		return err
	}
	s.renderForm()
	return nil
}

// CancelForm closes the form without saving.
func (s *Session) CancelForm(token uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.openForm(token); err != nil {
		return
	}
	s.form = nil
	s.assisting = false
	s.renderForm()
}

// Submit validates and saves the open form. Validation errors stay on the
// form; success closes it.
func (s *Session) Submit(token uuid.UUID) error {
	s.mu.Lock()
	f, err := s.openForm(token)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	draft := *f
	s.mu.Unlock()

	_, err = s.svc.Submit(&draft)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.form != f {
		return ErrStaleForm
	}

	var verrs form.Errors
	switch {
	case errors.As(err, &verrs):
		f.Errors = verrs
		s.renderForm()
		return err
	case errors.Is(err, service.ErrProductNotFound):
		s.form = nil
		s.renderForm()
		s.out.RenderToast(Toast{Message: MsgProductMissing, Level: ToastError})
		s.renderView()
		return err
	case err != nil:
		return err
	}

	s.form = nil
	s.assisting = false
	s.renderForm()
	s.renderView()
	return nil
}

// Assist asks for a generated description without blocking. The result
// lands in the description field only if the same form is still open.
func (s *Session) Assist(token uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.openForm(token)
	if err != nil {
		return err
	}
	if !f.CanAssist() {
		s.out.RenderToast(Toast{Message: MsgAssistNeedsInput, Level: ToastInfo})
		return nil
	}
	if s.assisting {
		return nil
	}
	s.assisting = true
	s.renderForm()

	name, category := string(f.Draft.Name), string(f.Draft.Category)
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		text := s.assist.Describe(s.ctx, name, category)

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed || s.form != f {
			s.logger.Debug("dropping description for closed form", "token", f.Token)
			return
		}
		s.assisting = false
		f.Draft.Description = form.Field(text)
		s.renderForm()
	}()
	return nil
}

func (s *Session) openForm(token uuid.UUID) (*form.Form, error) {
	if s.closed || s.form == nil || s.form.Token != token {
		return nil, ErrStaleForm
	}
	return s.form, nil
}

// renderView derives and emits the current page. Caller holds s.mu.
func (s *Session) renderView() {
	page := s.state.Derive(s.svc.GetAllProducts())
	frame := ViewFrame{State: s.state, Page: page}
	if id := s.confirm.Current(); id != uuid.Nil {
		frame.PendingDelete = &id
	}
	s.out.RenderView(frame)
}

// renderForm emits a snapshot of the form. Caller holds s.mu.
func (s *Session) renderForm() {
	if s.form == nil {
		s.out.RenderForm(FormFrame{})
		return
	}
	snapshot := *s.form
	if s.form.Errors != nil {
		snapshot.Errors = make(form.Errors, len(s.form.Errors))
		for k, v := range s.form.Errors {
			snapshot.Errors[k] = v
		}
	}
	s.out.RenderForm(FormFrame{Form: &snapshot, Assisting: s.assisting})
}

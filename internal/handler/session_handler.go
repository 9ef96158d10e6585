package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"inventory-dashboard/internal/assist"
	"inventory-dashboard/internal/form"
	"inventory-dashboard/internal/service"
	"inventory-dashboard/internal/session"
	"inventory-dashboard/internal/view"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

// Client actions on the dashboard socket
const (
	ActionSearch     = "search"
	ActionPage       = "page"
	ActionPageSize   = "page_size"
	ActionLayout     = "layout"
	ActionDelete     = "delete"
	ActionFormOpen   = "form_open"
	ActionFormField  = "form_field"
	ActionFormAssist = "form_assist"
	ActionFormSubmit = "form_submit"
	ActionFormCancel = "form_cancel"
	ActionRefresh    = "refresh"
)

// Server frame types
const (
	FrameView  = "view"
	FrameForm  = "form"
	FrameToast = "toast"
)

const outboundBuffer = 64

var (
	ErrUnknownAction = errors.New("unknown action")
	ErrInvalidLayout = errors.New("invalid layout")
)

type clientMessage struct {
	Action string `json:"action"`

	// search: Immediate skips the debounce, as pressing enter does
	Search    string `json:"search"`
	Immediate bool   `json:"immediate"`

	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Layout   string `json:"layout"`

	// delete and form_open (uuid.Nil opens an empty form)
	ID uuid.UUID `json:"id"`

	Token uuid.UUID  `json:"token"`
	Field string     `json:"field"`
	Value form.Field `json:"value"`
}

type serverFrame struct {
	Type  string             `json:"type"`
	View  *session.ViewFrame `json:"view,omitempty"`
	Form  *session.FormFrame `json:"form,omitempty"`
	Toast *session.Toast     `json:"toast,omitempty"`
}

type SessionHandler struct {
	service   service.InventoryService
	describer assist.Describer
	opts      session.Options
	logger    *slog.Logger
}

func NewSessionHandler(s service.InventoryService, d assist.Describer, hub session.Hub, opts session.Options, logger *slog.Logger) *SessionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	opts.Hub = hub
	opts.Logger = logger
	return &SessionHandler{service: s, describer: d, opts: opts, logger: logger}
}

// Serve runs one dashboard session for the lifetime of the connection.
// GET /ws
func (h *SessionHandler) Serve(c *websocket.Conn) {
	out := newConnRenderer(outboundBuffer)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		if err := out.drain(c.WriteJSON); err != nil {
			h.logger.Debug("dashboard socket writer stopped", "error", err)
		}
		// unblock the read loop when the writer gives up first
		_ = c.Close()
	}()

	s := session.New(h.service, h.describer, out, h.opts)
	s.Start()
	defer func() {
		s.Close()
		out.stop()
		<-writerDone
	}()

	for {
		_, data, err := c.ReadMessage()
		if err != nil {
			return
		}
		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			out.RenderToast(session.Toast{Message: "Invalid message", Level: session.ToastError})
			continue
		}
		if err := h.dispatch(s, msg); err != nil {
			out.RenderToast(session.Toast{Message: err.Error(), Level: session.ToastError})
		}
	}
}

// dispatch applies one client message to the session. Validation and
// missing-product failures are already rendered by the session itself.
func (h *SessionHandler) dispatch(s *session.Session, msg clientMessage) error {
	switch msg.Action {
	case ActionSearch:
		if msg.Immediate {
			s.SearchNow(msg.Search)
		} else {
			s.Type(msg.Search)
		}
	case ActionPage:
		s.SetPage(msg.Page)
	case ActionPageSize:
		s.SetPageSize(msg.PageSize)
	case ActionLayout:
		layout, ok := view.ParseLayout(msg.Layout)
		if !ok {
			return ErrInvalidLayout
		}
		s.SetLayout(layout)
	case ActionDelete:
		s.RequestDelete(msg.ID)
	case ActionFormOpen:
		if msg.ID == uuid.Nil {
			s.OpenCreate()
		} else {
			s.OpenEdit(msg.ID)
		}
	case ActionFormField:
		return s.SetField(msg.Token, msg.Field, string(msg.Value))
	case ActionFormAssist:
		return s.Assist(msg.Token)
	case ActionFormSubmit:
		err := s.Submit(msg.Token)
		var verrs form.Errors
		if errors.As(err, &verrs) || errors.Is(err, service.ErrProductNotFound) {
			return nil
		}
		return err
	case ActionFormCancel:
		s.CancelForm(msg.Token)
	case ActionRefresh:
		s.Refresh()
	default:
		return ErrUnknownAction
	}
	return nil
}

// connRenderer queues frames for the socket writer without ever blocking
// the session. A client that falls a full buffer behind is disconnected.
type connRenderer struct {
	frames chan serverFrame
	done   chan struct{}
	slow   chan struct{}

	stopOnce sync.Once
	slowOnce sync.Once
}

func newConnRenderer(buffer int) *connRenderer {
	return &connRenderer{
		frames: make(chan serverFrame, buffer),
		done:   make(chan struct{}),
		slow:   make(chan struct{}),
	}
}

var errSlowConsumer = errors.New("client is not reading frames")

func (r *connRenderer) RenderView(f session.ViewFrame) {
	r.send(serverFrame{Type: FrameView, View: &f})
}

func (r *connRenderer) RenderForm(f session.FormFrame) {
	r.send(serverFrame{Type: FrameForm, Form: &f})
}

func (r *connRenderer) RenderToast(t session.Toast) {
	r.send(serverFrame{Type: FrameToast, Toast: &t})
}

func (r *connRenderer) send(f serverFrame) {
	select {
	case <-r.done:
		return
	default:
	}
	select {
	case r.frames <- f:
	default:
		r.slowOnce.Do(func() { close(r.slow) })
	}
}

// drain writes queued frames until stop is called, the client falls
// behind, or write fails.
func (r *connRenderer) drain(write func(interface{}) error) error {
	for {
		select {
		case <-r.done:
			return nil
		case <-r.slow:
			return errSlowConsumer
		case f := <-r.frames:
			if err := write(f); err != nil {
				return err
			}
		}
	}
}

func (r *connRenderer) stop() {
	r.stopOnce.Do(func() { close(r.done) })
}

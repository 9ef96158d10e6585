package session

import (
	"inventory-dashboard/internal/form"
	"inventory-dashboard/internal/view"

	"github.com/google/uuid"
)

type ToastLevel string

const (
	ToastSuccess ToastLevel = "success"
	ToastError   ToastLevel = "error"
	ToastInfo    ToastLevel = "info"
)

type Toast struct {
	Message string     `json:"message"`
	Level   ToastLevel `json:"level"`
}

// ViewFrame is everything needed to draw the product list and pager.
type ViewFrame struct {
	State         view.State `json:"state"`
	Page          view.Page  `json:"page"`
	PendingDelete *uuid.UUID `json:"pending_delete,omitempty"`
}

// FormFrame describes the open form. Form is nil once it closes.
type FormFrame struct {
	Form      *form.Form `json:"form"`
	Assisting bool       `json:"assisting"`
}

// Renderer receives frames in order. Implementations must not call back
// into the session and must not block on the session's consumer.
type Renderer interface {
	RenderView(ViewFrame)
	RenderForm(FormFrame)
	RenderToast(Toast)
}

package tui

import (
	"fmt"
	"strings"

	"inventory-dashboard/internal/model"
	"inventory-dashboard/internal/session"
	"inventory-dashboard/internal/view"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
)

const cardWidth = 30

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245"))
	cursorStyle   = lipgloss.NewStyle().Background(lipgloss.Color("236"))
	lowStockStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	confirmStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	faintStyle    = lipgloss.NewStyle().Faint(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))

	cardStyle = lipgloss.NewStyle().
			Width(cardWidth).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))
	selectedCardStyle = cardStyle.BorderForeground(lipgloss.Color("62"))

	toastStyles = map[session.ToastLevel]lipgloss.Style{
		session.ToastSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		session.ToastError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		session.ToastInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
	}
)

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Inventory Dashboard"))
	b.WriteString("\n\n")

	if m.form.Form != nil {
		b.WriteString(m.renderForm())
	} else {
		b.WriteString(m.search.View())
		b.WriteString("\n\n")
		b.WriteString(renderPage(m.view, m.cursor, m.width))
		b.WriteString("\n")
		b.WriteString(renderPager(m.view))
	}

	b.WriteString("\n")
	for _, t := range m.toasts {
		b.WriteString(toastStyles[t.toast.Level].Render(t.toast.Message))
		b.WriteString("\n")
	}
	b.WriteString(faintStyle.Render(m.helpText()))
	return b.String()
}

func (m Model) helpText() string {
	switch m.focus {
	case focusSearch:
		return "enter search now • esc done"
	case focusForm:
		return "tab next field • ctrl+n next category • ctrl+g AI description • enter save • esc cancel"
	}
	return "/ search • ←/→ page • s page size • v layout • n new • e edit • d delete • q quit"
}

func renderPage(frame session.ViewFrame, cursor, width int) string {
	items := frame.Page.Items
	if len(items) == 0 {
		if frame.State.Search != "" {
			return faintStyle.Render(fmt.Sprintf("No products match %q.", frame.State.Search))
		}
		return faintStyle.Render("No products yet. Press n to add one.")
	}
	pending := uuid.Nil
	if frame.PendingDelete != nil {
		pending = *frame.PendingDelete
	}
	if frame.State.Layout == view.LayoutGrid {
		return renderGrid(items, cursor, pending, width)
	}
	return renderList(items, cursor, pending)
}

func renderList(items []model.Product, cursor int, pending uuid.UUID) string {
	rows := make([]string, 0, len(items)+1)
	rows = append(rows, headerStyle.Render(fmt.Sprintf("  %-32s %-16s %10s %6s  %-12s", "NAME", "CATEGORY", "PRICE", "STOCK", "ADDED")))
	for i, p := range items {
		stock := fmt.Sprintf("%6d", p.Stock)
		if p.IsLowStock() {
			stock = lowStockStyle.Render(stock)
		}
		row := fmt.Sprintf("  %-32s %-16s %10s %s  %-12s",
			truncate(p.Name, 32), truncate(p.Category, 16), p.DisplayPrice(), stock, p.CreatedAt.Format("Jan 2 15:04"))
		if p.ID == pending {
			row += "  " + confirmStyle.Render("press d again to delete")
		}
		if i == cursor {
			row = cursorStyle.Render(">" + row[1:])
		}
		rows = append(rows, row)
	}
	return strings.Join(rows, "\n")
}

func renderGrid(items []model.Product, cursor int, pending uuid.UUID, width int) string {
	perRow := width / (cardWidth + 4)
	if perRow < 1 {
		perRow = 1
	}

	var rows []string
	for start := 0; start < len(items); start += perRow {
		end := start + perRow
		if end > len(items) {
			end = len(items)
		}
		cards := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			cards = append(cards, renderCard(items[i], i == cursor, items[i].ID == pending))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderCard(p model.Product, selected, pending bool) string {
	stock := fmt.Sprintf("%d in stock", p.Stock)
	if p.IsLowStock() {
		stock = lowStockStyle.Render(stock)
	}
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(truncate(p.Name, cardWidth-2)),
		faintStyle.Render(p.Category),
		p.DisplayPrice() + "  " + stock,
	}
	if p.Description != "" {
		lines = append(lines, truncate(p.Description, cardWidth-2))
	}
	if pending {
		lines = append(lines, confirmStyle.Render("press d again to delete"))
	}
	style := cardStyle
	if selected {
		style = selectedCardStyle
	}
	return style.Render(strings.Join(lines, "\n"))
}

func renderPager(frame session.ViewFrame) string {
	p := frame.Page
	return faintStyle.Render(fmt.Sprintf("Page %d of %d • %d products • %d per page • %s view",
		p.Page, p.TotalPages, p.TotalItems, p.PageSize, frame.State.Layout))
}

func (m Model) renderForm() string {
	f := m.form.Form
	title := "Add Product"
	if f.IsEdit() {
		title = "Edit Product"
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n\n")
	for i, field := range formFields {
		marker := "  "
		if i == m.field {
			marker = "> "
		}
		b.WriteString(fmt.Sprintf("%s%-12s %s\n", marker, fieldLabels[field], m.inputs[i].View()))
		if msg, ok := f.Errors[field]; ok {
			b.WriteString("  " + errorStyle.Render(msg) + "\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(faintStyle.Render("Categories: " + strings.Join(m.categories, ", ")))
	if m.form.Assisting {
		b.WriteString("\n" + faintStyle.Render("Generating description..."))
	}
	b.WriteString("\n")
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

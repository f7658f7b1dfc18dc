package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// suggestDebounce is how long the name field has to stay unchanged before
// a suggestion request is sent. Every keystroke schedules a new timer
// carrying a snapshot of the input; a timer whose snapshot no longer
// matches the current input is discarded, so only the latest one fires.
const suggestDebounce = 450 * time.Millisecond

const requestTimeout = 60 * time.Second

type view int

const (
	viewForm view = iota
	viewList
	viewQuery
)

type field int

const (
	fieldName field = iota
	fieldQuantity
	fieldPrice
	fieldNotes
	fieldCount
)

func (f field) label() string {
	switch f {
	case fieldName:
		return "Name"
	case fieldQuantity:
		return "Quantity"
	case fieldPrice:
		return "Price"
	case fieldNotes:
		return "Notes"
	default:
		return ""
	}
}

type debounceFiredMsg struct {
	text string
}

type suggestionsMsg struct {
	forText     string
	suggestions []string
	err         error
}

type rewriteMsg struct {
	improved string
	err      error
}

type productsMsg struct {
	products []Product
	err      error
}

type createdMsg struct {
	product Product
	err     error
}

type deletedMsg struct {
	err error
}

type answerMsg struct {
	answer string
	raw    []Product
	err    error
}

type Model struct {
	client *Client

	view  view
	theme Theme
	dark  bool
	width int

	inputs [fieldCount]string
	focus  field

	suggestions []string
	suggestIdx  int
	suggesting  bool
	rewriting   bool
	saving      bool

	products   []Product
	cursor     int
	confirming bool

	query     string
	answer    string
	answerRaw []Product
	querying  bool

	status string
	errMsg string
}

func NewModel(client *Client) Model {
	return Model{
		client:     client,
		theme:      NewTheme(true),
		dark:       true,
		suggestIdx: -1,
	}
}

func (m Model) Init() tea.Cmd {
	return m.loadProducts()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case debounceFiredMsg:
		if msg.text != m.inputs[fieldName] || strings.TrimSpace(msg.text) == "" {
			return m, nil
		}
		m.suggesting = true
		return m, m.fetchSuggestions(msg.text)

	case suggestionsMsg:
		m.suggesting = false
		if msg.err != nil {
			m.errMsg = "suggestions unavailable: " + msg.err.Error()
			return m, nil
		}
		if msg.forText != m.inputs[fieldName] {
			return m, nil
		}
		m.suggestions = msg.suggestions
		m.suggestIdx = -1
		m.errMsg = ""
		return m, nil

	case rewriteMsg:
		m.rewriting = false
		if msg.err != nil {
			m.errMsg = "rewrite unavailable: " + msg.err.Error()
			return m, nil
		}
		if msg.improved != "" {
			m.inputs[fieldNotes] = msg.improved
		}
		m.status = "notes improved"
		m.errMsg = ""
		return m, nil

	case productsMsg:
		if msg.err != nil {
			m.errMsg = "failed to load products: " + msg.err.Error()
			return m, nil
		}
		m.products = msg.products
		if m.cursor >= len(m.products) {
			m.cursor = 0
		}
		m.errMsg = ""
		return m, nil

	case createdMsg:
		m.saving = false
		if msg.err != nil {
			m.errMsg = "failed to save product: " + msg.err.Error()
			return m, nil
		}
		m.inputs = [fieldCount]string{}
		m.focus = fieldName
		m.suggestions = nil
		m.suggestIdx = -1
		m.status = fmt.Sprintf("saved %q", msg.product.Name)
		m.errMsg = ""
		return m, m.loadProducts()

	case deletedMsg:
		if msg.err != nil {
			m.errMsg = "failed to delete product: " + msg.err.Error()
			return m, nil
		}
		m.status = "product deleted"
		m.errMsg = ""
		return m, m.loadProducts()

	case answerMsg:
		m.querying = false
		if msg.err != nil {
			m.errMsg = "query failed: " + msg.err.Error()
			return m, nil
		}
		m.answer = strings.ReplaceAll(msg.answer, "**", "")
		m.answerRaw = msg.raw
		m.errMsg = ""
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "ctrl+t":
		m.dark = !m.dark
		m.theme = NewTheme(m.dark)
		return m, nil
	case "ctrl+f":
		m.view = viewForm
		return m, nil
	case "ctrl+l":
		if m.view == viewList {
			m.view = viewForm
			return m, nil
		}
		m.view = viewList
		m.confirming = false
		return m, m.loadProducts()
	case "ctrl+g":
		m.view = viewQuery
		return m, nil
	}

	switch m.view {
	case viewForm:
		return m.handleFormKey(msg)
	case viewList:
		return m.handleListKey(msg)
	case viewQuery:
		return m.handleQueryKey(msg)
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		m.focus = (m.focus + 1) % fieldCount
		return m, nil
	case "shift+tab":
		m.focus = (m.focus + fieldCount - 1) % fieldCount
		return m, nil
	case "down":
		if m.focus == fieldName && len(m.suggestions) > 0 {
			if m.suggestIdx < len(m.suggestions)-1 {
				m.suggestIdx++
			}
			return m, nil
		}
		m.focus = (m.focus + 1) % fieldCount
		return m, nil
	case "up":
		if m.focus == fieldName && m.suggestIdx >= 0 {
			m.suggestIdx--
			return m, nil
		}
		m.focus = (m.focus + fieldCount - 1) % fieldCount
		return m, nil
	case "esc":
		m.suggestions = nil
		m.suggestIdx = -1
		return m, nil
	case "enter":
		if m.focus == fieldName && m.suggestIdx >= 0 && m.suggestIdx < len(m.suggestions) {
			m.inputs[fieldName] = m.suggestions[m.suggestIdx]
			m.suggestions = nil
			m.suggestIdx = -1
			return m, nil
		}
		return m.submitForm()
	case "ctrl+r":
		if m.rewriting || strings.TrimSpace(m.inputs[fieldNotes]) == "" {
			return m, nil
		}
		m.rewriting = true
		return m, m.rewriteNotes(m.inputs[fieldNotes])
	case "backspace":
		m.inputs[m.focus] = trimLastRune(m.inputs[m.focus])
		if m.focus == fieldName {
			m.suggestIdx = -1
			return m, scheduleSuggest(m.inputs[fieldName])
		}
		return m, nil
	}

	if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
		m.inputs[m.focus] += msg.String()
		if m.focus == fieldName {
			m.suggestIdx = -1
			return m, scheduleSuggest(m.inputs[fieldName])
		}
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirming {
		switch msg.String() {
		case "y":
			m.confirming = false
			if m.cursor < len(m.products) {
				return m, m.deleteProduct(m.products[m.cursor].ID)
			}
			return m, nil
		case "n", "esc":
			m.confirming = false
			return m, nil
		}
		return m, nil
	}

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.products)-1 {
			m.cursor++
		}
	case "d":
		if len(m.products) > 0 {
			m.confirming = true
		}
	case "r":
		return m, m.loadProducts()
	case "esc":
		m.view = viewForm
	}
	return m, nil
}

func (m Model) handleQueryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if m.querying || strings.TrimSpace(m.query) == "" {
			return m, nil
		}
		m.querying = true
		m.errMsg = ""
		return m, m.runQuery(m.query)
	case "backspace":
		m.query = trimLastRune(m.query)
		return m, nil
	case "esc":
		m.view = viewForm
		return m, nil
	}

	if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
		m.query += msg.String()
	}
	return m, nil
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	if m.saving {
		return m, nil
	}
	name := strings.TrimSpace(m.inputs[fieldName])
	if name == "" {
		m.errMsg = "name is required"
		return m, nil
	}
	m.saving = true
	m.status = "saving..."
	m.errMsg = ""
	quantity := parseNumber(m.inputs[fieldQuantity])
	price := parseNumber(m.inputs[fieldPrice])
	notes := strings.TrimSpace(m.inputs[fieldNotes])
	return m, m.createProduct(name, quantity, price, notes)
}

func scheduleSuggest(text string) tea.Cmd {
	return tea.Tick(suggestDebounce, func(time.Time) tea.Msg {
		return debounceFiredMsg{text: text}
	})
}

func (m Model) fetchSuggestions(text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		suggestions, err := m.client.SuggestNames(ctx, text)
		return suggestionsMsg{forText: text, suggestions: suggestions, err: err}
	}
}

func (m Model) rewriteNotes(text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		improved, err := m.client.RewriteNotes(ctx, text, "")
		return rewriteMsg{improved: improved, err: err}
	}
}

func (m Model) loadProducts() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		products, err := m.client.ListProducts(ctx)
		return productsMsg{products: products, err: err}
	}
}

func (m Model) createProduct(name string, quantity, price float64, notes string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		product, err := m.client.CreateProduct(ctx, name, quantity, price, notes)
		return createdMsg{product: product, err: err}
	}
}

func (m Model) deleteProduct(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return deletedMsg{err: m.client.DeleteProduct(ctx, id)}
	}
}

func (m Model) runQuery(query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		answer, raw, err := m.client.QueryProducts(ctx, query)
		return answerMsg{answer: answer, raw: raw, err: err}
	}
}

func parseNumber(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

func trimLastRune(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	return string(runes[:len(runes)-1])
}

func (m Model) View() string {
	var b strings.Builder

	switch m.view {
	case viewForm:
		b.WriteString(m.theme.Title.Render("Inventario / new product"))
		b.WriteString("\n")
		for f := fieldName; f < fieldCount; f++ {
			label := m.theme.Label.Render(f.label() + ": ")
			value := m.inputs[f]
			if f == m.focus {
				b.WriteString(label + m.theme.Focused.Render(value+"▌"))
			} else {
				b.WriteString(label + m.theme.Blurred.Render(value))
			}
			b.WriteString("\n")
		}
		if m.suggesting {
			b.WriteString(m.theme.Status.Render("thinking of names..."))
			b.WriteString("\n")
		}
		if len(m.suggestions) > 0 {
			chips := make([]string, 0, len(m.suggestions))
			for i, s := range m.suggestions {
				if i == m.suggestIdx {
					chips = append(chips, m.theme.ChipFocus.Render(s))
				} else {
					chips = append(chips, m.theme.Chip.Render(s))
				}
			}
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, chips...))
			b.WriteString("\n")
		}
		if m.rewriting {
			b.WriteString(m.theme.Status.Render("improving notes..."))
			b.WriteString("\n")
		}
		b.WriteString(m.helpLine("enter save · ↑/↓ pick suggestion · ctrl+r improve notes · ctrl+l products · ctrl+g ask"))

	case viewList:
		b.WriteString(m.theme.Title.Render(fmt.Sprintf("Inventario / products (%d)", len(m.products))))
		b.WriteString("\n")
		if len(m.products) == 0 {
			b.WriteString(m.theme.Label.Render("no products yet"))
			b.WriteString("\n")
		}
		for i, p := range m.products {
			line := fmt.Sprintf("%-24s  qty %-5d  $%.2f", p.Name, p.Quantity, p.Price)
			if i == m.cursor {
				line = m.theme.Selected.Render("> " + line)
			} else {
				line = "  " + line
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
		if m.confirming && m.cursor < len(m.products) {
			b.WriteString(m.theme.Error.Render(fmt.Sprintf("delete %q? (y/n)", m.products[m.cursor].Name)))
			b.WriteString("\n")
		}
		b.WriteString(m.helpLine("↑/↓ move · d delete · r refresh · esc back"))

	case viewQuery:
		b.WriteString(m.theme.Title.Render("Inventario / ask"))
		b.WriteString("\n")
		b.WriteString(m.theme.Label.Render("Question: ") + m.theme.Focused.Render(m.query+"▌"))
		b.WriteString("\n")
		if m.querying {
			b.WriteString(m.theme.Status.Render("asking..."))
			b.WriteString("\n")
		}
		if m.answer != "" {
			b.WriteString(m.theme.Answer.Render(m.answer))
			b.WriteString("\n")
			if len(m.answerRaw) > 0 {
				b.WriteString(m.theme.Label.Render(fmt.Sprintf("based on %d products", len(m.answerRaw))))
				b.WriteString("\n")
			}
		}
		b.WriteString(m.helpLine("enter ask · esc back"))
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(m.theme.Error.Render(m.errMsg))
	} else if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.theme.Status.Render(m.status))
	}
	b.WriteString("\n")

	return b.String()
}

func (m Model) helpLine(text string) string {
	return m.theme.Help.Render(text + " · ctrl+t theme · ctrl+c quit")
}

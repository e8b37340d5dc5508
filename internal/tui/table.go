package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/bhujbal-nitin/poc-portal/internal/api"
)

// recordsLoadedMsg carries the fetched POC list (or its failure).
type recordsLoadedMsg struct {
	gen     int
	records []api.POCRecord
	err     error
}

func (m recordsLoadedMsg) generation() int { return m.gen }

// deleteDoneMsg reports the outcome of a delete request.
type deleteDoneMsg struct {
	gen   int
	pocID string
	err   error
}

func (m deleteDoneMsg) generation() int { return m.gen }

// tableKeyMap defines key bindings for the management table
type tableKeyMap struct {
	Search  key.Binding
	Open    key.Binding
	New     key.Binding
	Edit    key.Binding
	Delete  key.Binding
	Refresh key.Binding
	Page    key.Binding
	Back    key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k tableKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Open, k.New, k.Edit, k.Delete, k.Page, k.Back}
}

// FullHelp returns keybindings for the expanded help view
func (k tableKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Search, k.Open, k.New, k.Edit},
		{k.Delete, k.Refresh, k.Page, k.Back},
	}
}

// TableModel is the POC management screen: the searchable, paginated
// record table with a detail view and delete confirmation.
type TableModel struct {
	Client   *api.Client
	Token    string
	User     api.User
	Gen      int
	PageSize int

	Records []api.POCRecord
	Loading bool
	LoadErr string

	SearchInput textinput.Model
	Searching   bool // typing into the search box
	Page        int

	Table table.Model

	// Detail view state
	ShowingDetail bool
	Detail        *api.POCRecord

	// Delete confirmation state
	ConfirmingDelete bool
	DeleteTarget     string
	Deleting         bool

	StatusError string

	Spinner spinner.Model

	// UI state
	Width  int
	Height int

	Help help.Model
	Keys tableKeyMap
}

// NewTableModel creates the management table screen.
func NewTableModel(client *api.Client, token string, user api.User, gen, pageSize int) TableModel {
	searchInput := textinput.New()
	searchInput.Placeholder = "search POCs..."
	searchInput.CharLimit = 80
	searchInput.Width = 40

	columns := []table.Column{
		{Title: "POC ID", Width: 12},
		{Title: "Name", Width: 22},
		{Title: "Entity", Width: 18},
		{Title: "Sales Person", Width: 16},
		{Title: "Region", Width: 10},
		{Title: "Assigned To", Width: 16},
		{Title: "Status", Width: 12},
	}

	tbl := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(pageSize+1),
	)
	tableStyles := table.DefaultStyles()
	tableStyles.Header = tableStyles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(BorderColor).
		BorderBottom(true).
		Bold(true)
	tableStyles.Selected = tableStyles.Selected.
		Foreground(TextColor).
		Background(PrimaryColor).
		Bold(true)
	tbl.SetStyles(tableStyles)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	keys := tableKeyMap{
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new code"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "delete"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Page: key.NewBinding(
			key.WithKeys("left", "right"),
			key.WithHelp("←/→", "page"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
	}

	return TableModel{
		Client:      client,
		Token:       token,
		User:        user,
		Gen:         gen,
		PageSize:    pageSize,
		Loading:     true,
		SearchInput: searchInput,
		Table:       tbl,
		Spinner:     s,
		Help:        help.New(),
		Keys:        keys,
	}
}

// Init fetches the record list.
func (m TableModel) Init() tea.Cmd {
	return tea.Batch(m.Spinner.Tick, m.loadRecordsCmd())
}

// loadRecordsCmd fetches all POC records.
func (m TableModel) loadRecordsCmd() tea.Cmd {
	client, token, gen := m.Client, m.Token, m.Gen
	return func() tea.Msg {
		records, err := client.All(context.Background(), token)
		return recordsLoadedMsg{gen: gen, records: records, err: err}
	}
}

// deleteCmd deletes one record.
func (m TableModel) deleteCmd(pocID string) tea.Cmd {
	client, token, gen := m.Client, m.Token, m.Gen
	return func() tea.Msg {
		err := client.Delete(context.Background(), token, pocID)
		return deleteDoneMsg{gen: gen, pocID: pocID, err: err}
	}
}

// filtered returns the records matching the current search term.
func (m TableModel) filtered() []api.POCRecord {
	term := strings.TrimSpace(m.SearchInput.Value())
	if term == "" {
		return m.Records
	}
	return lo.Filter(m.Records, func(r api.POCRecord, _ int) bool {
		return r.Matches(term)
	})
}

// pageCount returns the number of pages for the current filter.
func (m TableModel) pageCount() int {
	n := len(m.filtered())
	if n == 0 {
		return 1
	}
	return (n + m.PageSize - 1) / m.PageSize
}

// pageRecords returns the records on the current page.
func (m TableModel) pageRecords() []api.POCRecord {
	filtered := m.filtered()
	start := m.Page * m.PageSize
	if start >= len(filtered) {
		return nil
	}
	end := start + m.PageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end]
}

// syncRows rebuilds the table rows from the current page.
func (m *TableModel) syncRows() {
	page := m.pageRecords()
	rows := make([]table.Row, 0, len(page))
	for _, r := range page {
		rows = append(rows, table.Row{
			r.PocID, r.PocName, r.EntityName, r.SalesPerson,
			r.Region, r.AssignedTo, r.Status,
		})
	}
	m.Table.SetRows(rows)
	if m.Table.Cursor() >= len(rows) && len(rows) > 0 {
		m.Table.SetCursor(len(rows) - 1)
	}
}

// selectedRecord returns the record under the table cursor.
func (m TableModel) selectedRecord() *api.POCRecord {
	page := m.pageRecords()
	idx := m.Table.Cursor()
	if idx < 0 || idx >= len(page) {
		return nil
	}
	rec := page[idx]
	return &rec
}

// Update handles management table messages
func (m TableModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case recordsLoadedMsg:
		m.Loading = false
		if msg.err != nil {
			if api.IsUnauthorized(msg.err) {
				return m, func() tea.Msg { return sessionExpiredMsg{} }
			}
			m.LoadErr = api.UserMessage(msg.err)
			return m, nil
		}
		m.LoadErr = ""
		m.Records = msg.records
		m.Page = 0
		m.syncRows()
		return m, nil

	case deleteDoneMsg:
		m.Deleting = false
		if msg.err != nil {
			if api.IsUnauthorized(msg.err) {
				return m, func() tea.Msg { return sessionExpiredMsg{} }
			}
			m.StatusError = api.UserMessage(msg.err)
			return m, nil
		}
		// Refetch after a successful delete so the table reflects the
		// backend, not a local guess
		m.StatusError = ""
		m.ShowingDetail = false
		m.Detail = nil
		m.Loading = true
		return m, tea.Batch(m.Spinner.Tick, m.loadRecordsCmd())

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey routes key presses by the current sub-state.
func (m TableModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.Deleting {
		return m, nil
	}

	if m.ConfirmingDelete {
		return m.handleDeleteConfirmKey(msg)
	}

	if m.ShowingDetail {
		return m.handleDetailKey(msg)
	}

	if m.Searching {
		return m.handleSearchKey(msg)
	}

	return m.handleBrowseKey(msg)
}

// handleBrowseKey handles input while browsing the table.
func (m TableModel) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		return m, func() tea.Msg { return goBackMsg{} }

	case "/":
		m.Searching = true
		m.SearchInput.Focus()
		return m, textinput.Blink

	case "r":
		m.Loading = true
		return m, tea.Batch(m.Spinner.Tick, m.loadRecordsCmd())

	case "left", "h":
		if m.Page > 0 {
			m.Page--
			m.syncRows()
		}
		return m, nil

	case "right", "l":
		if m.Page < m.pageCount()-1 {
			m.Page++
			m.syncRows()
		}
		return m, nil

	case "enter":
		if rec := m.selectedRecord(); rec != nil {
			m.Detail = rec
			m.ShowingDetail = true
		}
		return m, nil

	case "n":
		return m, func() tea.Msg { return screenTransitionMsg{screen: ScreenCodeForm} }

	case "e":
		if rec := m.selectedRecord(); rec != nil {
			return m, func() tea.Msg { return screenTransitionMsg{screen: ScreenCodeForm, data: rec} }
		}
		return m, nil

	case "x":
		if rec := m.selectedRecord(); rec != nil {
			m.ConfirmingDelete = true
			m.DeleteTarget = rec.PocID
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.Table, cmd = m.Table.Update(msg)
	return m, cmd
}

// handleSearchKey handles input while the search box is focused.
func (m TableModel) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Searching = false
		m.SearchInput.Blur()
		m.SearchInput.SetValue("")
		m.Page = 0
		m.syncRows()
		return m, nil

	case "enter":
		m.Searching = false
		m.SearchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.SearchInput, cmd = m.SearchInput.Update(msg)
	m.Page = 0
	m.syncRows()
	return m, cmd
}

// handleDetailKey handles input while the detail view is open.
func (m TableModel) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter", "q":
		m.ShowingDetail = false
		m.Detail = nil
		return m, nil

	case "e":
		if m.Detail != nil {
			rec := m.Detail
			return m, func() tea.Msg { return screenTransitionMsg{screen: ScreenCodeForm, data: rec} }
		}
		return m, nil

	case "x":
		if m.Detail != nil {
			m.ConfirmingDelete = true
			m.DeleteTarget = m.Detail.PocID
		}
		return m, nil
	}

	return m, nil
}

// handleDeleteConfirmKey handles the delete confirmation dialog.
func (m TableModel) handleDeleteConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.ConfirmingDelete = false
		m.Deleting = true
		return m, tea.Batch(m.Spinner.Tick, m.deleteCmd(m.DeleteTarget))

	case "n", "N", "esc":
		m.ConfirmingDelete = false
		m.DeleteTarget = ""
		return m, nil
	}

	return m, nil
}

// View renders the management table
func (m TableModel) View() string {
	if m.ConfirmingDelete {
		return RenderModal(m.renderDeleteConfirm(), m.Width, m.Height)
	}

	var content string
	if m.ShowingDetail && m.Detail != nil {
		content = m.buildDetailContent()
	} else {
		content = m.buildTableContent()
	}

	helpText := m.Help.View(m.Keys)
	return RenderApplicationContainer(content, helpText, m.Width, m.Height, m.User.Name())
}

// buildTableContent builds the table browsing view
func (m TableModel) buildTableContent() string {
	var b strings.Builder

	b.WriteString(RenderTitle("Manage POCs"))
	b.WriteString("\n")

	if m.Searching || m.SearchInput.Value() != "" {
		b.WriteString("  Search: ")
		b.WriteString(m.SearchInput.View())
		b.WriteString("\n\n")
	}

	switch {
	case m.Loading:
		b.WriteString(m.Spinner.View())
		b.WriteString(" Loading POCs...\n")

	case m.LoadErr != "":
		b.WriteString(RenderError(m.LoadErr))
		b.WriteString("\n\n")
		b.WriteString(MenuItemStyle.Render("  r - retry"))
		b.WriteString("\n")

	case len(m.filtered()) == 0:
		if m.SearchInput.Value() != "" {
			b.WriteString(RenderSubtitle("No POCs match the search."))
		} else {
			b.WriteString(RenderSubtitle("No POCs yet."))
		}
		b.WriteString("\n")

	default:
		b.WriteString(m.Table.View())
		b.WriteString("\n\n")
		b.WriteString(SubtitleStyle.Render(fmt.Sprintf(
			"Page %d of %d (%d records)",
			m.Page+1, m.pageCount(), len(m.filtered()),
		)))
		b.WriteString("\n")
	}

	if m.Deleting {
		b.WriteString("\n")
		b.WriteString(m.Spinner.View())
		b.WriteString(" Deleting POC...\n")
	}

	if m.StatusError != "" {
		b.WriteString("\n")
		b.WriteString(RenderError(m.StatusError))
		b.WriteString("\n")
	}

	return b.String()
}

// buildDetailContent builds the full-record detail view
func (m TableModel) buildDetailContent() string {
	r := m.Detail
	var b strings.Builder

	b.WriteString(RenderTitle("POC " + r.PocID))
	b.WriteString("\n")

	rows := []struct{ label, value string }{
		{"POC Name", r.PocName},
		{"Entity Type", r.EntityType},
		{"Entity Name", r.EntityName},
		{"Sales Person", r.SalesPerson},
		{"Assigned To", r.AssignedTo},
		{"Created By", r.CreatedBy},
		{"Region", r.Region},
		{"Start Date", r.StartDate},
		{"End Date", r.EndDate},
		{"Actual Start Date", r.ActualStartDate},
		{"Actual End Date", r.ActualEndDate},
		{"Estimated Efforts", itoa(r.EstimatedEfforts)},
		{"Total Efforts", itoa(r.TotalEfforts)},
		{"Variance Days", itoa(r.VarianceDays)},
		{"Billable", yesNo(r.IsBillable)},
		{"POC Type", r.PocType},
		{"Status", r.Status},
		{"Approved By", r.ApprovedBy},
		{"SPOC Email", r.SpocEmail},
		{"SPOC Designation", r.SpocDesignation},
		{"Tags", r.Tags},
		{"Description", r.Description},
		{"Remark", r.Remark},
	}

	for _, row := range rows {
		value := row.value
		if value == "" {
			value = BlurredInputStyle.Render("—")
		}
		b.WriteString("  " + BlurredInputStyle.Render(padLabel(row.label)) + " " + value + "\n")
	}

	b.WriteString("\n")
	b.WriteString(MenuItemStyle.Render("  e - edit    x - delete    esc - back"))
	b.WriteString("\n")

	return b.String()
}

// renderDeleteConfirm renders the delete confirmation modal
func (m TableModel) renderDeleteConfirm() string {
	content := WarningBoxStyle.Render(fmt.Sprintf(
		"Delete POC %s?\n\nThis cannot be undone.\n\n  y - delete    n - cancel",
		m.DeleteTarget,
	))
	return content
}

// itoa renders an int, hiding zero as empty.
func itoa(n int) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("%d", n)
}

// yesNo renders a boolean as Yes/No.
func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

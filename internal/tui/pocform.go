package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bhujbal-nitin/poc-portal/internal/api"
	"github.com/bhujbal-nitin/poc-portal/internal/form"
)

// optionsLoadedMsg carries one dropdown's option list (or its failure).
// Each dropdown loads independently so one broken endpoint doesn't take
// the rest of the form down with it.
type optionsLoadedMsg struct {
	gen     int
	field   string
	options []string
	err     error
}

func (m optionsLoadedMsg) generation() int { return m.gen }

// submitDoneMsg carries the outcome of a save request.
type submitDoneMsg struct {
	gen int
	id  string
	err error
}

func (m submitDoneMsg) generation() int { return m.gen }

// fieldKind distinguishes how a form field is entered.
type fieldKind int

const (
	fieldText   fieldKind = iota // free text via textinput
	fieldOption                  // pick from a fetched or fixed option list
	fieldTags                    // tag set with add/remove entry
)

// formField describes one visible entry of a form screen.
type formField struct {
	name    string
	section string
	kind    fieldKind
	partner bool // only shown when the partner block is active
}

// optionState tracks one dropdown's fetched options.
type optionState struct {
	Options []string
	Loading bool
	Err     error
}

// formKeyMap defines key bindings shared by the form screens
type formKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Cycle  key.Binding
	Submit key.Binding
	Back   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k formKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Cycle, k.Submit, k.Back}
}

// FullHelp returns keybindings for the expanded help view
func (k formKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Cycle},
		{k.Submit, k.Back},
	}
}

func newFormKeyMap() formKeyMap {
	return formKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "shift+tab"),
			key.WithHelp("↑", "previous field"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "tab"),
			key.WithHelp("↓/tab", "next field"),
		),
		Cycle: key.NewBinding(
			key.WithKeys("left", "right"),
			key.WithHelp("←/→", "change option"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "submit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
	}
}

// InitiationModel is the POC initiation form screen.
type InitiationModel struct {
	Client *api.Client
	Token  string
	User   api.User
	Gen    int

	Form       *form.State
	Controller *form.Controller

	Fields  []formField
	Inputs  map[string]textinput.Model
	Options map[string]*optionState

	Cursor      int // index into visibleFields(); len(visible) = submit button
	Submitting  bool
	StatusError string

	Spinner spinner.Model

	// UI state
	Width  int
	Height int

	Help help.Model
	Keys formKeyMap
}

// initiationFields is the display order of the initiation form.
func initiationFields() []formField {
	return []formField{
		{form.FieldSalesPerson, "AE Sales Info", fieldOption, false},
		{form.FieldRegion, "AE Sales Info", fieldOption, false},
		{form.FieldEndCustomerType, "AE Sales Info", fieldOption, false},
		{form.FieldProcessType, "AE Sales Info", fieldOption, false},

		{form.FieldCompanyName, "Customer Info", fieldText, false},
		{form.FieldSpoc, "Customer Info", fieldText, false},
		{form.FieldSpocManager, "Customer Info", fieldText, false},
		{form.FieldDegree, "Customer Info", fieldText, false},
		{form.FieldMobileNumber, "Customer Info", fieldText, false},

		{form.FieldPartnerCompanyName, "Partner Info", fieldText, true},
		{form.FieldPartnerSpoc, "Partner Info", fieldText, true},
		{form.FieldPartnerSpocEmail, "Partner Info", fieldText, true},
		{form.FieldPartnerDesignation, "Partner Info", fieldText, true},
		{form.FieldPartnerMobileNumber, "Partner Info", fieldText, true},

		{form.FieldUsecase, "Usecase Details", fieldText, false},
		{form.FieldBrief, "Usecase Details", fieldText, false},
	}
}

// NewInitiationModel creates the initiation form screen.
func NewInitiationModel(client *api.Client, token string, user api.User, gen int) InitiationModel {
	def := form.Initiation()
	state := form.NewState(def)

	fields := initiationFields()
	inputs := make(map[string]textinput.Model)
	options := make(map[string]*optionState)

	for _, f := range fields {
		switch f.kind {
		case fieldText:
			input := textinput.New()
			input.Placeholder = def.Field(f.name).Label
			input.CharLimit = 200
			input.Width = 50
			if f.name == form.FieldMobileNumber || f.name == form.FieldPartnerMobileNumber {
				input.CharLimit = 10
			}
			inputs[f.name] = input
		case fieldOption:
			options[f.name] = &optionState{Loading: true}
		}
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	return InitiationModel{
		Client:     client,
		Token:      token,
		User:       user,
		Gen:        gen,
		Form:       state,
		Controller: form.NewController(state),
		Fields:     fields,
		Inputs:     inputs,
		Options:    options,
		Spinner:    s,
		Help:       help.New(),
		Keys:       newFormKeyMap(),
	}
}

// Init fires the dropdown fetches concurrently.
func (m InitiationModel) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.Spinner.Tick}
	for name := range m.Options {
		cmds = append(cmds, m.loadOptionsCmd(name))
	}
	return tea.Batch(cmds...)
}

// loadOptionsCmd fetches one dropdown's option list.
func (m InitiationModel) loadOptionsCmd(field string) tea.Cmd {
	client, token, gen := m.Client, m.Token, m.Gen
	return func() tea.Msg {
		ctx := context.Background()
		var options []string
		var err error
		switch field {
		case form.FieldSalesPerson:
			options, err = client.SalesPersons(ctx, token)
		case form.FieldRegion:
			options, err = client.Regions(ctx, token)
		case form.FieldEndCustomerType:
			options, err = client.CustomerTypes(ctx, token)
		case form.FieldProcessType:
			options, err = client.ProcessTypes(ctx, token)
		case form.FieldAssignedTo:
			options, err = client.AssignTo(ctx, token)
		}
		return optionsLoadedMsg{gen: gen, field: field, options: options, err: err}
	}
}

// submitCmd performs the save request for a validated form.
func (m InitiationModel) submitCmd() tea.Cmd {
	client, token, gen := m.Client, m.Token, m.Gen
	payload := api.InitiationPayload(m.Form.Values())
	return func() tea.Msg {
		id, err := client.SavePOC(context.Background(), token, payload)
		return submitDoneMsg{gen: gen, id: id, err: err}
	}
}

// visibleFields returns the fields currently shown, honoring the
// conditional partner block.
func (m InitiationModel) visibleFields() []formField {
	partner := m.Form.Get(form.FieldEndCustomerType) == form.EntityPartner
	visible := make([]formField, 0, len(m.Fields))
	for _, f := range m.Fields {
		if f.partner && !partner {
			continue
		}
		visible = append(visible, f)
	}
	return visible
}

// Update handles initiation form messages
func (m InitiationModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case optionsLoadedMsg:
		if state, ok := m.Options[msg.field]; ok {
			state.Loading = false
			state.Options = msg.options
			state.Err = msg.err
		}
		if api.IsUnauthorized(msg.err) {
			return m, func() tea.Msg { return sessionExpiredMsg{} }
		}
		return m, nil

	case submitDoneMsg:
		return m.handleSubmitDone(msg)

	case tea.KeyMsg:
		if m.Submitting {
			// One save request at a time; ignore input until it settles
			return m, nil
		}
		return m.handleKey(msg)
	}

	return m.updateFocusedInput(msg)
}

// handleSubmitDone settles the in-flight save through the controller.
func (m InitiationModel) handleSubmitDone(msg submitDoneMsg) (tea.Model, tea.Cmd) {
	m.Submitting = false

	outcome := m.Controller.Finish(form.Result{
		ID:           msg.id,
		Message:      api.UserMessage(msg.err),
		Err:          msg.err,
		Unauthorized: api.IsUnauthorized(msg.err),
	})

	switch outcome {
	case form.OutcomeSuccess:
		conf := confirmationData{
			Heading:    "POC Initiated Successfully!",
			Identifier: msg.id,
		}
		return m, func() tea.Msg { return screenTransitionMsg{screen: ScreenConfirmation, data: conf} }

	case form.OutcomeUnauthorized:
		return m, func() tea.Msg { return sessionExpiredMsg{} }

	default:
		m.StatusError = api.UserMessage(msg.err)
		if m.StatusError == "" {
			m.StatusError = "POC creation failed (no ID returned)"
		}
		return m, nil
	}
}

// handleKey handles navigation, option cycling and text entry.
func (m InitiationModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.visibleFields()
	onSubmit := m.Cursor >= len(visible)

	switch msg.String() {
	case "esc":
		return m, func() tea.Msg { return goBackMsg{} }

	case "up", "shift+tab":
		if m.Cursor > 0 {
			m.Cursor--
		}
		return m.applyFocus()

	case "down", "tab":
		if m.Cursor < len(visible) {
			m.Cursor++
		}
		return m.applyFocus()

	case "enter":
		if onSubmit {
			return m.submit()
		}
		// Enter advances through the form like tab
		m.Cursor++
		return m.applyFocus()

	case "ctrl+s":
		return m.submit()

	case "left", "right":
		if !onSubmit && visible[m.Cursor].kind == fieldOption {
			m.cycleOption(visible[m.Cursor].name, msg.String() == "right")
			return m, nil
		}

	case "r":
		// Retry failed dropdown fetches (only when not typing into a text field)
		if !onSubmit && visible[m.Cursor].kind == fieldOption {
			return m.retryFailedOptions()
		}
	}

	return m.updateFocusedInput(msg)
}

// retryFailedOptions refetches every dropdown whose load failed.
func (m InitiationModel) retryFailedOptions() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	for name, state := range m.Options {
		if state.Err != nil {
			state.Loading = true
			state.Err = nil
			cmds = append(cmds, m.loadOptionsCmd(name))
		}
	}
	if len(cmds) == 0 {
		return m, nil
	}
	cmds = append(cmds, m.Spinner.Tick)
	return m, tea.Batch(cmds...)
}

// cycleOption steps a dropdown's value forward or backward.
func (m *InitiationModel) cycleOption(field string, forward bool) {
	state := m.Options[field]
	if state == nil || len(state.Options) == 0 {
		return
	}

	current := m.Form.Get(field)
	idx := -1
	for i, opt := range state.Options {
		if opt == current {
			idx = i
			break
		}
	}

	if forward {
		idx = (idx + 1) % len(state.Options)
	} else {
		if idx <= 0 {
			idx = len(state.Options) - 1
		} else {
			idx--
		}
	}

	m.Form.SetField(field, state.Options[idx])
}

// applyFocus focuses the text input under the cursor and blurs the rest.
func (m InitiationModel) applyFocus() (tea.Model, tea.Cmd) {
	visible := m.visibleFields()

	var focused string
	if m.Cursor < len(visible) && visible[m.Cursor].kind == fieldText {
		focused = visible[m.Cursor].name
	}

	for name, input := range m.Inputs {
		if name == focused {
			input.Focus()
		} else {
			input.Blur()
		}
		m.Inputs[name] = input
	}

	if focused != "" {
		return m, textinput.Blink
	}
	return m, nil
}

// updateFocusedInput routes keystrokes to the focused text input and
// mirrors the value into the form state so validation errors clear as
// the user types.
func (m InitiationModel) updateFocusedInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	visible := m.visibleFields()
	if m.Cursor >= len(visible) || visible[m.Cursor].kind != fieldText {
		return m, nil
	}

	name := visible[m.Cursor].name
	input := m.Inputs[name]
	var cmd tea.Cmd
	input, cmd = input.Update(msg)
	m.Inputs[name] = input
	m.Form.SetField(name, input.Value())

	return m, cmd
}

// submit runs the full-form validation gate and fires the save request.
func (m InitiationModel) submit() (tea.Model, tea.Cmd) {
	m.StatusError = ""

	status, errs := m.Controller.Begin()
	switch status {
	case form.BeginBusy:
		return m, nil
	case form.BeginInvalid:
		m.StatusError = "Please fix the highlighted fields"
		_ = errs // published into the form state already
		return m, nil
	}

	m.Submitting = true
	return m, tea.Batch(m.Spinner.Tick, m.submitCmd())
}

// View renders the initiation form
func (m InitiationModel) View() string {
	content := m.buildContent()
	helpText := m.Help.View(m.Keys)
	return RenderApplicationContainer(content, helpText, m.Width, m.Height, m.User.Name())
}

// buildContent builds the form content section by section
func (m InitiationModel) buildContent() string {
	var b strings.Builder

	b.WriteString(RenderTitle("POC Initiation"))
	b.WriteString("\n")

	visible := m.visibleFields()
	def := m.Form.Definition()

	lastSection := ""
	for i, f := range visible {
		if f.section != lastSection {
			lastSection = f.section
			b.WriteString("\n")
			b.WriteString(SubtitleStyle.Render(f.section))
			b.WriteString("\n")
		}

		label := def.Field(f.name).Label
		focused := i == m.Cursor

		switch f.kind {
		case fieldOption:
			b.WriteString(m.renderOptionField(label, f.name, focused))
		case fieldText:
			b.WriteString(renderLabeledInput(label, m.Inputs[f.name], focused))
		}

		if errMsg := m.Form.Error(f.name); errMsg != "" {
			b.WriteString("  ")
			b.WriteString(FieldErrorStyle.Render(errMsg))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	button := "[ Submit ]"
	if m.Cursor >= len(visible) {
		button = FocusedInputStyle.Render(button)
	} else {
		button = BlurredInputStyle.Render(button)
	}
	b.WriteString("  ")
	b.WriteString(button)
	b.WriteString("\n")

	if m.Submitting {
		b.WriteString("\n")
		b.WriteString(m.Spinner.View())
		b.WriteString(" Saving POC...\n")
	}

	if m.StatusError != "" {
		b.WriteString("\n")
		b.WriteString(RenderError(m.StatusError))
		b.WriteString("\n")
	}

	return b.String()
}

// renderOptionField renders a dropdown-backed field with its load state.
func (m InitiationModel) renderOptionField(label, name string, focused bool) string {
	labelStyle := BlurredInputStyle
	if focused {
		labelStyle = FocusedInputStyle
	}

	state := m.Options[name]
	value := m.Form.Get(name)

	var display string
	switch {
	case state == nil:
		display = value
	case state.Loading:
		display = m.Spinner.View() + " loading..."
	case state.Err != nil:
		display = FieldErrorStyle.Render("unavailable (r to retry)")
	case value == "":
		display = BlurredInputStyle.Render("← select →")
	default:
		display = value
	}

	return "  " + labelStyle.Render(padLabel(label)) + " " + display
}

package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bhujbal-nitin/poc-portal/internal/api"
	"github.com/bhujbal-nitin/poc-portal/internal/form"
)

// Fixed option lists for the code forms. These never come from the
// backend; they are part of the form contract.
var (
	entityTypeOptions = []string{"Partner", "Client", "Internal"}
	billableOptions   = []string{"Yes", "No"}
	pocTypeOptions    = []string{"Technical", "Commercial", "Strategic", "Trial"}
	statusOptions     = []string{"Draft", "Pending", "In Progress", "Completed", "Cancelled"}
	tagSuggestions    = []string{"Urgent", "High Priority", "Low Priority", "Internal", "External", "Critical"}
)

// CodeFormModel is the POC code screen, used both to create a new code
// and to edit an existing record.
type CodeFormModel struct {
	Client *api.Client
	Token  string
	User   api.User
	Gen    int

	// Editing is true when the screen maintains an existing record.
	Editing   bool
	EditPocID string

	Form       *form.State
	Controller *form.Controller

	Fields  []formField
	Inputs  map[string]textinput.Model
	Options map[string]*optionState

	// TagInput collects the next tag for the tag set field.
	TagInput textinput.Model

	Cursor      int
	Submitting  bool
	StatusError string

	Spinner spinner.Model

	// UI state
	Width  int
	Height int

	Help help.Model
	Keys formKeyMap
}

// codeFormFields is the display order of the code creation form.
func codeFormFields() []formField {
	return []formField{
		{form.FieldPocID, "Identification", fieldText, false},
		{form.FieldPocName, "Identification", fieldText, false},
		{form.FieldEntityType, "Identification", fieldOption, false},
		{form.FieldEntityName, "Identification", fieldText, false},

		{form.FieldSalesPerson, "Ownership", fieldOption, false},
		{form.FieldAssignedTo, "Ownership", fieldOption, false},
		{form.FieldCreatedBy, "Ownership", fieldOption, false},
		{form.FieldRegion, "Ownership", fieldOption, false},

		{form.FieldStartDate, "Planning", fieldText, false},
		{form.FieldEndDate, "Planning", fieldText, false},
		{form.FieldIsBillable, "Planning", fieldOption, false},
		{form.FieldPocType, "Planning", fieldOption, false},

		{form.FieldSpocEmail, "Contact", fieldText, false},
		{form.FieldSpocDesignation, "Contact", fieldText, false},

		{form.FieldDescription, "Details", fieldText, false},
		{form.FieldRemark, "Details", fieldText, false},
		{form.FieldTags, "Details", fieldTags, false},
	}
}

// codeEditFields appends the tracking fields that only exist on the edit form.
func codeEditFields() []formField {
	fields := codeFormFields()
	return append(fields,
		formField{form.FieldActualStartDate, "Tracking", fieldText, false},
		formField{form.FieldActualEndDate, "Tracking", fieldText, false},
		formField{form.FieldEstimatedEfforts, "Tracking", fieldText, false},
		formField{form.FieldTotalEfforts, "Tracking", fieldText, false},
		formField{form.FieldVarianceDays, "Tracking", fieldText, false},
		formField{form.FieldApprovedBy, "Tracking", fieldOption, false},
		formField{form.FieldStatus, "Tracking", fieldOption, false},
	)
}

// NewCodeFormModel creates the code creation screen.
func NewCodeFormModel(client *api.Client, token string, user api.User, gen int) CodeFormModel {
	m := newCodeModel(client, token, user, gen, form.POCCode(), codeFormFields())
	// Created By defaults to the signed-in user
	m.Form.SetField(form.FieldCreatedBy, user.Username)
	return m
}

// NewCodeEditModel creates the edit screen pre-populated from a record.
func NewCodeEditModel(client *api.Client, token string, user api.User, gen int, record *api.POCRecord) CodeFormModel {
	m := newCodeModel(client, token, user, gen, form.Edit(), codeEditFields())
	m.Editing = true

	if record != nil {
		m.EditPocID = record.PocID
		m.Form.Fill(api.RecordValues(*record))
		// Mirror the filled values into the text inputs
		for name, input := range m.Inputs {
			input.SetValue(m.Form.Get(name))
			m.Inputs[name] = input
		}
	}

	return m
}

// newCodeModel builds the shared scaffolding for both modes.
func newCodeModel(client *api.Client, token string, user api.User, gen int, def *form.Definition, fields []formField) CodeFormModel {
	state := form.NewState(def)

	inputs := make(map[string]textinput.Model)
	options := make(map[string]*optionState)

	for _, f := range fields {
		switch f.kind {
		case fieldText:
			input := textinput.New()
			input.Placeholder = def.Field(f.name).Label
			input.CharLimit = 200
			input.Width = 50
			switch f.name {
			case form.FieldStartDate, form.FieldEndDate,
				form.FieldActualStartDate, form.FieldActualEndDate:
				input.Placeholder = "YYYY-MM-DD"
				input.CharLimit = 10
			case form.FieldEstimatedEfforts, form.FieldTotalEfforts, form.FieldVarianceDays:
				input.Placeholder = "days"
				input.CharLimit = 5
			}
			inputs[f.name] = input

		case fieldOption:
			switch f.name {
			case form.FieldEntityType:
				options[f.name] = &optionState{Options: entityTypeOptions}
			case form.FieldIsBillable:
				options[f.name] = &optionState{Options: billableOptions}
			case form.FieldPocType:
				options[f.name] = &optionState{Options: pocTypeOptions}
			case form.FieldStatus:
				options[f.name] = &optionState{Options: statusOptions}
			default:
				options[f.name] = &optionState{Loading: true}
			}
		}
	}

	tagInput := textinput.New()
	tagInput.Placeholder = "add tag, enter to confirm"
	tagInput.CharLimit = 40
	tagInput.Width = 30

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	return CodeFormModel{
		Client:     client,
		Token:      token,
		User:       user,
		Gen:        gen,
		Form:       state,
		Controller: form.NewController(state),
		Fields:     fields,
		Inputs:     inputs,
		Options:    options,
		TagInput:   tagInput,
		Spinner:    s,
		Help:       help.New(),
		Keys:       newFormKeyMap(),
	}
}

// Init fires the dropdown fetches that need the backend.
func (m CodeFormModel) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.Spinner.Tick}
	for name, state := range m.Options {
		if state.Loading {
			cmds = append(cmds, m.loadOptionsCmd(name))
		}
	}
	return tea.Batch(cmds...)
}

// loadOptionsCmd fetches one dropdown's option list.
func (m CodeFormModel) loadOptionsCmd(field string) tea.Cmd {
	client, token, gen, username := m.Client, m.Token, m.Gen, m.User.Username
	return func() tea.Msg {
		ctx := context.Background()
		var options []string
		var err error
		switch field {
		case form.FieldSalesPerson:
			options, err = client.SalesPersons(ctx, token)
		case form.FieldRegion:
			options, err = client.Regions(ctx, token)
		case form.FieldAssignedTo:
			options, err = client.AssignTo(ctx, token)
		case form.FieldCreatedBy:
			options, err = client.CreatedBy(ctx, token, username)
		case form.FieldApprovedBy:
			options, err = client.ApprovedBy(ctx, token)
		}
		return optionsLoadedMsg{gen: gen, field: field, options: options, err: err}
	}
}

// submitCmd performs the create or update request for a validated form.
func (m CodeFormModel) submitCmd() tea.Cmd {
	client, token, gen := m.Client, m.Token, m.Gen
	record := api.CodeRecord(m.Form.Values())
	editing, editID := m.Editing, m.EditPocID

	return func() tea.Msg {
		if editing {
			err := client.Update(context.Background(), token, editID, record)
			id := ""
			if err == nil {
				id = editID
			}
			return submitDoneMsg{gen: gen, id: id, err: err}
		}

		id, err := client.SaveCode(context.Background(), token, record)
		return submitDoneMsg{gen: gen, id: id, err: err}
	}
}

// Update handles code form messages
func (m CodeFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			return m, nil
		}
		return m.handleKey(msg)
	}

	return m.updateFocusedInput(msg)
}

// handleSubmitDone settles the in-flight save through the controller.
func (m CodeFormModel) handleSubmitDone(msg submitDoneMsg) (tea.Model, tea.Cmd) {
	m.Submitting = false

	outcome := m.Controller.Finish(form.Result{
		ID:           msg.id,
		Message:      api.UserMessage(msg.err),
		Err:          msg.err,
		Unauthorized: api.IsUnauthorized(msg.err),
	})

	switch outcome {
	case form.OutcomeSuccess:
		heading := "POC Code Created Successfully!"
		if m.Editing {
			heading = "POC Updated Successfully!"
		}
		conf := confirmationData{Heading: heading, Identifier: msg.id}
		return m, func() tea.Msg { return screenTransitionMsg{screen: ScreenConfirmation, data: conf} }

	case form.OutcomeUnauthorized:
		return m, func() tea.Msg { return sessionExpiredMsg{} }

	default:
		m.StatusError = api.UserMessage(msg.err)
		if m.StatusError == "" {
			m.StatusError = "Save failed. Please try again."
		}
		return m, nil
	}
}

// handleKey handles navigation, option cycling, tag entry and text entry.
func (m CodeFormModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	onSubmit := m.Cursor >= len(m.Fields)
	var current formField
	if !onSubmit {
		current = m.Fields[m.Cursor]
	}

	switch msg.String() {
	case "esc":
		return m, func() tea.Msg { return goBackMsg{} }

	case "up", "shift+tab":
		if m.Cursor > 0 {
			m.Cursor--
		}
		return m.applyFocus()

	case "down", "tab":
		if m.Cursor < len(m.Fields) {
			m.Cursor++
		}
		return m.applyFocus()

	case "enter":
		if onSubmit {
			return m.submit()
		}
		if current.kind == fieldTags {
			return m.addTag()
		}
		m.Cursor++
		return m.applyFocus()

	case "ctrl+s":
		return m.submit()

	case "left", "right":
		if !onSubmit && current.kind == fieldOption {
			m.cycleOption(current.name, msg.String() == "right")
			return m, nil
		}

	case "backspace":
		if !onSubmit && current.kind == fieldTags && m.TagInput.Value() == "" {
			m.removeLastTag()
			return m, nil
		}

	case "r":
		if !onSubmit && current.kind == fieldOption {
			return m.retryFailedOptions()
		}
	}

	return m.updateFocusedInput(msg)
}

// addTag confirms the typed tag into the tag set, or advances when empty.
func (m CodeFormModel) addTag() (tea.Model, tea.Cmd) {
	tag := strings.TrimSpace(m.TagInput.Value())
	if tag == "" {
		m.Cursor++
		return m.applyFocus()
	}

	m.Form.AddTag(form.FieldTags, tag)
	m.TagInput.SetValue("")
	return m, nil
}

// removeLastTag drops the most recently added tag.
func (m *CodeFormModel) removeLastTag() {
	tags := m.Form.Tags(form.FieldTags)
	if len(tags) == 0 {
		return
	}
	m.Form.RemoveTag(form.FieldTags, tags[len(tags)-1])
}

// retryFailedOptions refetches every dropdown whose load failed.
func (m CodeFormModel) retryFailedOptions() (tea.Model, tea.Cmd) {
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
func (m *CodeFormModel) cycleOption(field string, forward bool) {
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

// applyFocus focuses the input under the cursor and blurs the rest.
func (m CodeFormModel) applyFocus() (tea.Model, tea.Cmd) {
	var focused string
	isTags := false
	if m.Cursor < len(m.Fields) {
		switch m.Fields[m.Cursor].kind {
		case fieldText:
			focused = m.Fields[m.Cursor].name
		case fieldTags:
			isTags = true
		}
	}

	for name, input := range m.Inputs {
		if name == focused {
			input.Focus()
		} else {
			input.Blur()
		}
		m.Inputs[name] = input
	}

	if isTags {
		m.TagInput.Focus()
	} else {
		m.TagInput.Blur()
	}

	if focused != "" || isTags {
		return m, textinput.Blink
	}
	return m, nil
}

// updateFocusedInput routes keystrokes to the focused input and mirrors
// the value into the form state so validation errors clear as the user
// types.
func (m CodeFormModel) updateFocusedInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.Cursor >= len(m.Fields) {
		return m, nil
	}

	var cmd tea.Cmd
	switch m.Fields[m.Cursor].kind {
	case fieldText:
		name := m.Fields[m.Cursor].name
		input := m.Inputs[name]
		input, cmd = input.Update(msg)
		m.Inputs[name] = input
		m.Form.SetField(name, input.Value())

	case fieldTags:
		m.TagInput, cmd = m.TagInput.Update(msg)
	}

	return m, cmd
}

// submit runs the full-form validation gate and fires the save request.
func (m CodeFormModel) submit() (tea.Model, tea.Cmd) {
	m.StatusError = ""

	status, _ := m.Controller.Begin()
	switch status {
	case form.BeginBusy:
		return m, nil
	case form.BeginInvalid:
		m.StatusError = "Please fix the highlighted fields"
		return m, nil
	}

	m.Submitting = true
	return m, tea.Batch(m.Spinner.Tick, m.submitCmd())
}

// View renders the code form
func (m CodeFormModel) View() string {
	content := m.buildContent()
	helpText := m.Help.View(m.Keys)
	return RenderApplicationContainer(content, helpText, m.Width, m.Height, m.User.Name())
}

// buildContent builds the form content section by section
func (m CodeFormModel) buildContent() string {
	var b strings.Builder

	title := "Create POC Code"
	if m.Editing {
		title = "Edit POC " + m.EditPocID
	}
	b.WriteString(RenderTitle(title))
	b.WriteString("\n")

	def := m.Form.Definition()

	lastSection := ""
	for i, f := range m.Fields {
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
		case fieldTags:
			b.WriteString(m.renderTagField(label, focused))
		}

		if errMsg := m.Form.Error(f.name); errMsg != "" {
			b.WriteString("  ")
			b.WriteString(FieldErrorStyle.Render(errMsg))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	buttonLabel := "[ Create ]"
	if m.Editing {
		buttonLabel = "[ Save Changes ]"
	}
	if m.Cursor >= len(m.Fields) {
		b.WriteString("  " + FocusedInputStyle.Render(buttonLabel))
	} else {
		b.WriteString("  " + BlurredInputStyle.Render(buttonLabel))
	}
	b.WriteString("\n")

	if m.Submitting {
		b.WriteString("\n")
		b.WriteString(m.Spinner.View())
		if m.Editing {
			b.WriteString(" Updating POC...\n")
		} else {
			b.WriteString(" Creating POC code...\n")
		}
	}

	if m.StatusError != "" {
		b.WriteString("\n")
		b.WriteString(RenderError(m.StatusError))
		b.WriteString("\n")
	}

	return b.String()
}

// renderOptionField renders a dropdown-backed field with its load state.
func (m CodeFormModel) renderOptionField(label, name string, focused bool) string {
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

// renderTagField renders the tag chips plus the entry input.
func (m CodeFormModel) renderTagField(label string, focused bool) string {
	labelStyle := BlurredInputStyle
	if focused {
		labelStyle = FocusedInputStyle
	}

	var chips strings.Builder
	for _, tag := range m.Form.Tags(form.FieldTags) {
		chips.WriteString(TagStyle.Render(tag))
	}

	line := "  " + labelStyle.Render(padLabel(label)) + " " + chips.String()
	if focused {
		line += m.TagInput.View()
		line += "\n    " + SubtitleStyle.Render("suggestions: "+strings.Join(tagSuggestions, ", "))
	}
	return line
}

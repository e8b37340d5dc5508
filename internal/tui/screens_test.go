package tui

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bhujbal-nitin/poc-portal/internal/api"
	"github.com/bhujbal-nitin/poc-portal/internal/form"
)

func newTestInitiation() InitiationModel {
	client := api.NewClient("http://127.0.0.1:1")
	return NewInitiationModel(client, "tok", api.User{Username: "nitin"}, 0)
}

func TestInitiationPartnerBlockVisibility(t *testing.T) {
	m := newTestInitiation()

	base := len(m.visibleFields())
	m.Form.SetField(form.FieldEndCustomerType, form.EntityPartner)
	withPartner := len(m.visibleFields())

	if withPartner != base+5 {
		t.Errorf("partner block should add 5 fields, got %d -> %d", base, withPartner)
	}

	m.Form.SetField(form.FieldEndCustomerType, "Client")
	if len(m.visibleFields()) != base {
		t.Error("partner block should hide again for non-partner customers")
	}
}

func TestInitiationOptionCycling(t *testing.T) {
	m := newTestInitiation()
	m.Options[form.FieldRegion].Loading = false
	m.Options[form.FieldRegion].Options = []string{"APAC", "EMEA", "AMER"}

	m.cycleOption(form.FieldRegion, true)
	if got := m.Form.Get(form.FieldRegion); got != "APAC" {
		t.Errorf("first cycle = %q, want APAC", got)
	}

	m.cycleOption(form.FieldRegion, true)
	if got := m.Form.Get(form.FieldRegion); got != "EMEA" {
		t.Errorf("second cycle = %q, want EMEA", got)
	}

	m.cycleOption(form.FieldRegion, false)
	if got := m.Form.Get(form.FieldRegion); got != "APAC" {
		t.Errorf("backward cycle = %q, want APAC", got)
	}
}

func TestInitiationOptionFailureIsIndependent(t *testing.T) {
	m := newTestInitiation()

	updated, _ := m.Update(optionsLoadedMsg{gen: 0, field: form.FieldRegion, err: errors.New("boom")})
	m = updated.(InitiationModel)
	updated, _ = m.Update(optionsLoadedMsg{gen: 0, field: form.FieldSalesPerson, options: []string{"Asha"}})
	m = updated.(InitiationModel)

	if m.Options[form.FieldRegion].Err == nil {
		t.Error("region load failure should be recorded")
	}
	if len(m.Options[form.FieldSalesPerson].Options) != 1 {
		t.Error("sales person options should load despite the region failure")
	}
}

func TestInitiationSubmitBlockedWhileInFlight(t *testing.T) {
	m := newTestInitiation()

	// Fill every required field so validation passes
	for _, f := range m.Form.Definition().Fields {
		if m.Form.Get(f.Name) == "" {
			m.Form.SetField(f.Name, "value")
		}
	}
	m.Form.SetField(form.FieldEndCustomerType, "Client")
	m.Form.SetField(form.FieldMobileNumber, "9876543210")
	m.Form.SetField(form.FieldPartnerMobileNumber, "")

	updated, cmd := m.submit()
	m = updated.(InitiationModel)
	if !m.Submitting {
		t.Fatal("submit should arm the in-flight guard")
	}
	if cmd == nil {
		t.Fatal("submit should issue the save command")
	}

	// A second submit while in flight must be a no-op
	updated, cmd = m.submit()
	m = updated.(InitiationModel)
	if cmd != nil {
		t.Error("second submit issued a command while one was in flight")
	}
}

func TestInitiationInFlightSubmitSendsOneRequest(t *testing.T) {
	var posts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		posts++
		fmt.Fprint(w, `{"pocId":"POC-9"}`)
	}))
	defer srv.Close()

	m := newTestInitiation()
	m.Client = api.NewClient(srv.URL)
	for _, f := range m.Form.Definition().Fields {
		if m.Form.Get(f.Name) == "" {
			m.Form.SetField(f.Name, "value")
		}
	}
	m.Form.SetField(form.FieldEndCustomerType, "Client")
	m.Form.SetField(form.FieldMobileNumber, "9876543210")
	m.Form.SetField(form.FieldPartnerMobileNumber, "")

	updated, cmd := m.submit()
	m = updated.(InitiationModel)
	if cmd == nil {
		t.Fatal("submit should issue the save command")
	}
	// submit() batches the spinner tick with the request; run the request
	// itself so the backend actually sees it.
	if msg, ok := m.submitCmd()().(submitDoneMsg); !ok || msg.err != nil {
		t.Fatalf("save request failed: %+v", msg)
	}

	if _, cmd = m.submit(); cmd != nil {
		t.Error("second submit issued a command while one was in flight")
	}
	if posts != 1 {
		t.Errorf("backend saw %d POSTs, want 1", posts)
	}
}

func TestInitiationInvalidSubmitPublishesErrors(t *testing.T) {
	m := newTestInitiation()

	updated, cmd := m.submit()
	m = updated.(InitiationModel)

	if m.Submitting {
		t.Error("invalid form must not arm the submitting guard")
	}
	if cmd != nil {
		t.Error("invalid form must not issue a network command")
	}
	if !m.Form.HasErrors() {
		t.Error("validation errors should be published into the form state")
	}
}

func TestInitiationUnauthorizedSubmitExpiresSession(t *testing.T) {
	m := newTestInitiation()
	m.Submitting = true

	updated, cmd := m.handleSubmitDone(submitDoneMsg{
		gen: 0,
		err: api.NewUnauthorizedError(""),
	})
	m = updated.(InitiationModel)

	if cmd == nil {
		t.Fatal("unauthorized submit should emit a message")
	}
	if _, ok := cmd().(sessionExpiredMsg); !ok {
		t.Error("unauthorized submit should expire the session")
	}
	if m.Submitting {
		t.Error("submit flag should clear")
	}
}

func TestCodeFormDefaultsCreatedBy(t *testing.T) {
	client := api.NewClient("http://127.0.0.1:1")
	m := NewCodeFormModel(client, "tok", api.User{Username: "nitin"}, 0)

	if got := m.Form.Get(form.FieldCreatedBy); got != "nitin" {
		t.Errorf("createdBy default = %q, want nitin", got)
	}
	if m.Editing {
		t.Error("creation form should not be in edit mode")
	}
}

func TestCodeEditPrepopulates(t *testing.T) {
	client := api.NewClient("http://127.0.0.1:1")
	record := &api.POCRecord{
		PocID:      "POC-9",
		PocName:    "Edge Gateway",
		IsBillable: true,
		StartDate:  "2026-01-05T00:00:00Z",
		Tags:       "Urgent,Internal",
	}
	m := NewCodeEditModel(client, "tok", api.User{Username: "nitin"}, 0, record)

	if !m.Editing || m.EditPocID != "POC-9" {
		t.Fatalf("edit mode not armed: editing=%v id=%q", m.Editing, m.EditPocID)
	}
	if got := m.Form.Get(form.FieldPocName); got != "Edge Gateway" {
		t.Errorf("pocName = %q", got)
	}
	if got := m.Form.Get(form.FieldIsBillable); got != "Yes" {
		t.Errorf("isBillable = %q, want Yes", got)
	}
	if got := m.Form.Get(form.FieldStartDate); got != "2026-01-05" {
		t.Errorf("startDate = %q, want date part only", got)
	}
	if tags := m.Form.Tags(form.FieldTags); len(tags) != 2 {
		t.Errorf("tags = %v, want 2 entries", tags)
	}
	// Unvalidated edit form starts with the Draft default when status is empty
	if got := m.Form.Get(form.FieldStatus); got != "Draft" {
		t.Errorf("status = %q, want Draft", got)
	}
	// The text inputs mirror the filled values
	if got := m.Inputs[form.FieldPocName].Value(); got != "Edge Gateway" {
		t.Errorf("input pocName = %q", got)
	}
}

func TestCodeFormTagEditing(t *testing.T) {
	client := api.NewClient("http://127.0.0.1:1")
	m := NewCodeFormModel(client, "tok", api.User{Username: "nitin"}, 0)

	m.TagInput.SetValue("Urgent")
	updated, _ := m.addTag()
	m = updated.(CodeFormModel)

	if tags := m.Form.Tags(form.FieldTags); len(tags) != 1 || tags[0] != "Urgent" {
		t.Fatalf("tags = %v, want [Urgent]", tags)
	}
	if m.TagInput.Value() != "" {
		t.Error("tag input should clear after adding")
	}

	m.Form.AddTag(form.FieldTags, "Internal")
	m.removeLastTag()
	if tags := m.Form.Tags(form.FieldTags); len(tags) != 1 || tags[0] != "Urgent" {
		t.Errorf("tags after remove = %v, want [Urgent]", tags)
	}
}

func newTestTable() TableModel {
	client := api.NewClient("http://127.0.0.1:1")
	m := NewTableModel(client, "tok", api.User{Username: "nitin"}, 0, 2)
	m.Loading = false
	m.Records = []api.POCRecord{
		{PocID: "POC-1", PocName: "Alpha", Region: "APAC"},
		{PocID: "POC-2", PocName: "Beta", Region: "EMEA"},
		{PocID: "POC-3", PocName: "Gamma", Region: "APAC"},
		{PocID: "POC-4", PocName: "Delta", Region: "AMER"},
		{PocID: "POC-5", PocName: "Epsilon", Region: "EMEA"},
	}
	m.syncRows()
	return m
}

func TestTablePagination(t *testing.T) {
	m := newTestTable()

	if got := m.pageCount(); got != 3 {
		t.Errorf("pageCount = %d, want 3", got)
	}
	if got := len(m.pageRecords()); got != 2 {
		t.Errorf("page 0 size = %d, want 2", got)
	}

	m.Page = 2
	page := m.pageRecords()
	if len(page) != 1 || page[0].PocID != "POC-5" {
		t.Errorf("last page = %v", page)
	}
}

func TestTableSearchFilters(t *testing.T) {
	m := newTestTable()
	m.SearchInput.SetValue("apac")
	m.syncRows()

	filtered := m.filtered()
	if len(filtered) != 2 {
		t.Fatalf("filtered = %d records, want 2", len(filtered))
	}
	for _, r := range filtered {
		if r.Region != "APAC" {
			t.Errorf("unexpected record %v", r.PocID)
		}
	}
}

func TestTableDeleteTriggersRefetch(t *testing.T) {
	m := newTestTable()
	m.Deleting = true

	updated, cmd := m.Update(deleteDoneMsg{gen: 0, pocID: "POC-1"})
	m = updated.(TableModel)

	if m.Deleting {
		t.Error("delete flag should clear")
	}
	if !m.Loading {
		t.Error("successful delete should trigger a refetch")
	}
	if cmd == nil {
		t.Error("refetch command expected")
	}
}

func TestTableNewCodeOpensCreateForm(t *testing.T) {
	m := newTestTable()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	if cmd == nil {
		t.Fatal("expected a screen transition")
	}
	msg, ok := cmd().(screenTransitionMsg)
	if !ok {
		t.Fatalf("got %T, want screenTransitionMsg", cmd())
	}
	if msg.screen != ScreenCodeForm {
		t.Errorf("screen = %q, want %q", msg.screen, ScreenCodeForm)
	}
	if msg.data != nil {
		t.Error("new-code transition should carry no record")
	}
}

func TestTableDeleteUnauthorizedExpiresSession(t *testing.T) {
	m := newTestTable()

	_, cmd := m.Update(deleteDoneMsg{gen: 0, pocID: "POC-1", err: api.NewUnauthorizedError("")})
	if cmd == nil {
		t.Fatal("expected a session expiry message")
	}
	if _, ok := cmd().(sessionExpiredMsg); !ok {
		t.Error("unauthorized delete should expire the session")
	}
}

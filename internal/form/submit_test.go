package form

import (
	"errors"
	"testing"
)

// TestBeginInvalidPublishesErrors tests that an invalid form stops the attempt
// before any network contact and publishes the error map
func TestBeginInvalidPublishesErrors(t *testing.T) {
	s := NewState(Initiation())
	c := NewController(s)

	status, errs := c.Begin()
	if status != BeginInvalid {
		t.Fatalf("status = %v, want BeginInvalid", status)
	}
	if len(errs) == 0 {
		t.Fatal("expected a non-empty error map")
	}
	if !s.HasErrors() {
		t.Error("errors were not published into the form state")
	}
	if c.State() != StateIdle {
		t.Errorf("controller state = %v, want idle after invalid attempt", c.State())
	}
}

// TestBeginSubmittingGuard tests that a second submit while in flight is a no-op
func TestBeginSubmittingGuard(t *testing.T) {
	s := NewState(Initiation())
	fillRequiredInitiation(s)
	c := NewController(s)

	status, _ := c.Begin()
	if status != BeginSubmitting {
		t.Fatalf("first Begin = %v, want BeginSubmitting", status)
	}
	if c.State() != StateSubmitting {
		t.Fatalf("controller state = %v, want submitting", c.State())
	}

	// Double submission must be refused while the attempt is in flight.
	status, _ = c.Begin()
	if status != BeginBusy {
		t.Errorf("second Begin = %v, want BeginBusy", status)
	}
}

// TestFinishSuccessResetsForm tests the success transition: form cleared,
// controller back at idle
func TestFinishSuccessResetsForm(t *testing.T) {
	s := NewState(Initiation())
	fillRequiredInitiation(s)
	c := NewController(s)
	c.Begin()

	outcome := c.Finish(Result{ID: "POC-42"})
	if outcome != OutcomeSuccess {
		t.Fatalf("outcome = %v, want OutcomeSuccess", outcome)
	}
	if s.Get(FieldCompanyName) != "" {
		t.Error("form data survived a successful submission")
	}
	if s.HasErrors() {
		t.Error("error map survived a successful submission")
	}
	if c.State() != StateIdle {
		t.Errorf("controller state = %v, want idle", c.State())
	}
}

// TestFinishFailurePreservesForm tests that failed attempts keep the data for retry
func TestFinishFailurePreservesForm(t *testing.T) {
	s := NewState(Initiation())
	fillRequiredInitiation(s)
	c := NewController(s)
	c.Begin()

	outcome := c.Finish(Result{Err: errors.New("connection refused"), Message: "POC creation failed"})
	if outcome != OutcomeFailed {
		t.Fatalf("outcome = %v, want OutcomeFailed", outcome)
	}
	if s.Get(FieldCompanyName) != "Acme Corp" {
		t.Error("form data was lost on failure")
	}
	if c.State() != StateIdle {
		t.Errorf("controller state = %v, want idle (ready for retry)", c.State())
	}

	// A fresh attempt after the failure is allowed.
	if status, _ := c.Begin(); status != BeginSubmitting {
		t.Errorf("retry Begin = %v, want BeginSubmitting", status)
	}
}

// TestFinishMissingIdentifier tests that a 2xx response without an identifier
// is a failure, not a success
func TestFinishMissingIdentifier(t *testing.T) {
	s := NewState(Initiation())
	fillRequiredInitiation(s)
	c := NewController(s)
	c.Begin()

	outcome := c.Finish(Result{Message: "POC creation failed (no ID returned)"})
	if outcome != OutcomeFailed {
		t.Errorf("outcome = %v, want OutcomeFailed for missing identifier", outcome)
	}
	if s.Get(FieldCompanyName) == "" {
		t.Error("form data must be preserved when the success body is malformed")
	}
}

// TestFinishUnauthorized tests the distinguished session-fatal failure
func TestFinishUnauthorized(t *testing.T) {
	s := NewState(Initiation())
	fillRequiredInitiation(s)
	c := NewController(s)
	c.Begin()

	outcome := c.Finish(Result{Err: errors.New("401"), Unauthorized: true})
	if outcome != OutcomeUnauthorized {
		t.Errorf("outcome = %v, want OutcomeUnauthorized", outcome)
	}
	if c.State() != StateIdle {
		t.Errorf("controller state = %v, want idle", c.State())
	}
}

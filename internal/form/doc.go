// Package form implements the client-side form machinery of the POC Portal:
// per-field validation rules, flat form state with an error map, the
// full-form validation aggregator, and the submission state machine.
//
// # Form State
//
// A State holds every field of one form as a flat name -> value map, with a
// parallel error map keyed the same way. A field name is present in the error
// map if and only if its current value violates its rule; absence means the
// field is valid.
//
// # Incremental Clearing
//
// SetField re-checks only the edited field and removes its error entry once
// the value becomes valid. Edits never add errors - errors are only
// introduced by a full ValidateAll on submit. This keeps a field from
// flashing an error while the user is still typing, while still giving
// instant feedback once the field turns valid.
//
// # Submission
//
// A Controller drives the submit flow:
//
//	Idle -> Validating -> (Invalid | Submitting) -> (Succeeded | Failed) -> Idle
//
// Begin validates and either publishes the error map (no network contact) or
// arms the submitting guard; while the guard is armed a repeated Begin is a
// no-op, so exactly one request is issued per attempt. Finish applies the
// terminal transition: success resets the form, failure preserves it so the
// user can retry without re-entering data.
//
// # Usage Example
//
//	st := form.NewState(form.Initiation())
//	st.SetField(form.FieldSalesPerson, "Jane Smith")
//	ctrl := form.NewController(st)
//	switch status, errs := ctrl.Begin(); status {
//	case form.BeginInvalid:
//	    // render errs inline
//	case form.BeginSubmitting:
//	    // issue exactly one save request, then ctrl.Finish(result)
//	}
package form

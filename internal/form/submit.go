package form

// ControllerState is the submission state machine's current position.
//
//	Idle -> Validating -> (Invalid | Submitting) -> (Succeeded | Failed) -> Idle
//
// Validating, Invalid, Succeeded and Failed are transient: Begin and Finish
// pass through them and leave the controller back at Idle or Submitting.
type ControllerState int

const (
	StateIdle ControllerState = iota
	StateValidating
	StateSubmitting
)

// String returns a human-readable state name.
func (cs ControllerState) String() string {
	switch cs {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}

// BeginStatus is the outcome of a Begin call.
type BeginStatus int

const (
	// BeginInvalid means validation failed; the error map was published and
	// no network request may be issued.
	BeginInvalid BeginStatus = iota
	// BeginSubmitting means the form validated and the submitting guard is
	// armed; the caller must issue exactly one save request and report back
	// through Finish.
	BeginSubmitting
	// BeginBusy means a submission is already in flight; the repeat submit
	// action is a no-op.
	BeginBusy
)

// Result is the terminal outcome of one network attempt, fed to Finish.
type Result struct {
	// ID is the server-assigned identifier on success.
	ID string
	// Message is the user-visible text: the server's message when available,
	// otherwise a generic fallback supplied by the API layer.
	Message string
	// Err is non-nil for any failed attempt: transport failure, non-2xx
	// response, or a 2xx body missing the identifier.
	Err error
	// Unauthorized marks the distinguished 401 failure that forces session
	// teardown instead of a retry prompt.
	Unauthorized bool
}

// Outcome classifies what Finish decided.
type Outcome int

const (
	// OutcomeSuccess: identifier received, form reset, ready for confirmation.
	OutcomeSuccess Outcome = iota
	// OutcomeFailed: attempt failed, form data preserved for retry.
	OutcomeFailed
	// OutcomeUnauthorized: session-fatal failure; caller must tear down the
	// session and return to login.
	OutcomeUnauthorized
)

// Controller orchestrates validate -> send -> settle for one form instance.
// It owns no transport: the caller performs the actual request between Begin
// and Finish, which keeps the machine synchronous and single-threaded even
// though the network call itself is asynchronous.
type Controller struct {
	form  *State
	state ControllerState
}

// NewController creates a submission controller bound to a form state.
func NewController(form *State) *Controller {
	return &Controller{form: form, state: StateIdle}
}

// Form returns the bound form state.
func (c *Controller) Form() *State {
	return c.form
}

// State returns the controller's current state.
func (c *Controller) State() ControllerState {
	return c.state
}

// Begin handles an explicit submit action. While a submission is in flight
// it refuses to start another (BeginBusy), which guarantees one network call
// per attempt. Otherwise it validates the whole form: a non-empty error map
// ends the attempt at BeginInvalid with the errors published into the form
// state; an empty one arms the submitting guard.
func (c *Controller) Begin() (BeginStatus, map[string]string) {
	if c.state == StateSubmitting {
		return BeginBusy, nil
	}

	c.state = StateValidating
	errs := c.form.ValidateAll()
	if len(errs) > 0 {
		c.state = StateIdle
		return BeginInvalid, errs
	}

	c.state = StateSubmitting
	return BeginSubmitting, nil
}

// Finish settles the in-flight attempt and returns the controller to Idle.
// On success the form state and error map are cleared for the next entry.
// On failure everything is preserved so the user can retry without
// re-entering data; an unauthorized failure is surfaced as its own outcome
// because it forces logout rather than retry.
func (c *Controller) Finish(res Result) Outcome {
	c.state = StateIdle

	if res.Unauthorized {
		return OutcomeUnauthorized
	}
	if res.Err != nil || res.ID == "" {
		return OutcomeFailed
	}

	c.form.Reset()
	return OutcomeSuccess
}

package form

// State is the in-memory record of one form instance: a flat field -> value
// map plus the parallel error map. Each form screen owns exactly one State;
// nothing is shared between instances.
type State struct {
	def    *Definition
	values map[string]string
	errors map[string]string
}

// NewState creates an empty State for the given form definition. Every
// declared field gets an entry (empty string), so the value map always covers
// the form's full field set.
func NewState(def *Definition) *State {
	s := &State{
		def:    def,
		values: make(map[string]string, len(def.Fields)),
		errors: make(map[string]string),
	}
	for _, f := range def.Fields {
		s.values[f.Name] = ""
	}
	return s
}

// Definition returns the form definition this state was built from.
func (s *State) Definition() *Definition {
	return s.def
}

// Get returns the current value of a field ("" for unknown names).
func (s *State) Get(name string) string {
	return s.values[name]
}

// Error returns the current error message for a field, or "" when the field
// has no recorded error.
func (s *State) Error(name string) string {
	return s.errors[name]
}

// HasErrors reports whether any field currently carries an error.
func (s *State) HasErrors() bool {
	return len(s.errors) > 0
}

// Errors returns a copy of the current error map.
func (s *State) Errors() map[string]string {
	out := make(map[string]string, len(s.errors))
	for k, v := range s.errors {
		out[k] = v
	}
	return out
}

// SetField updates a field's value and re-evaluates only that field's rule.
// If the field now satisfies its rule its error entry is removed; otherwise
// any prior error is left untouched. Edits can only clear errors, never
// introduce them - new errors appear only through ValidateAll.
func (s *State) SetField(name, value string) {
	f := s.def.Field(name)
	if f == nil {
		return
	}
	s.values[name] = value

	if _, had := s.errors[name]; !had {
		return
	}
	if f.Rule == nil || f.Rule(value, s) == "" {
		delete(s.errors, name)
	}
}

// ValidateAll runs every field's rule against the current values and
// replaces the error map with the complete result. Fields that pass are
// simply absent. The call is idempotent: repeating it on unchanged values
// yields an identical map.
func (s *State) ValidateAll() map[string]string {
	errs := make(map[string]string)
	for _, f := range s.def.Fields {
		if f.Rule == nil {
			continue
		}
		if msg := f.Rule(s.values[f.Name], s); msg != "" {
			errs[f.Name] = msg
		}
	}
	s.errors = errs
	return s.Errors()
}

// Reset clears every field back to empty and drops all errors. Called after
// a successful submission or when navigating away from the form.
func (s *State) Reset() {
	for _, f := range s.def.Fields {
		s.values[f.Name] = ""
	}
	s.errors = make(map[string]string)
}

// Fill seeds field values from an existing record, used by the edit form to
// pre-populate from the selected POC. Unknown names are ignored; no
// validation runs.
func (s *State) Fill(values map[string]string) {
	for name, value := range values {
		if s.def.Field(name) != nil {
			s.values[name] = value
		}
	}
}

// Tags decodes a tag-set field's CSV value into its individual tags.
func (s *State) Tags(name string) []string {
	return splitTags(s.values[name])
}

// AddTag adds a tag to a tag-set field if not already present, clearing the
// field's error once the set is non-empty (same clearing rule as SetField).
func (s *State) AddTag(name, tag string) {
	tags := s.Tags(name)
	for _, t := range tags {
		if t == tag {
			return
		}
	}
	s.SetField(name, joinTags(append(tags, tag)))
}

// RemoveTag removes a tag from a tag-set field.
func (s *State) RemoveTag(name, tag string) {
	tags := s.Tags(name)
	kept := tags[:0]
	for _, t := range tags {
		if t != tag {
			kept = append(kept, t)
		}
	}
	s.SetField(name, joinTags(kept))
}

// Values returns a copy of the full field -> value map, in the shape the
// request serializers expect.
func (s *State) Values() map[string]string {
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

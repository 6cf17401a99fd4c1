package wizard

// Patch is a shallow partial update keyed by UI field name.
type Patch map[string]interface{}

// ApplyFunc shallow-merges a patch into the aggregate. Each wizard supplies
// one with an exhaustive switch over its field names, so unknown names are
// ignored rather than silently landing in a loose bag.
type ApplyFunc[A any] func(*A, Patch)

// DeriveFunc recomputes derived fields (age, totals, net proceeds) from the
// aggregate. It runs after every update so derivation stays a pure pass
// instead of a reactive side effect.
type DeriveFunc[A any] func(*A)

// Store owns the form aggregate and the current validation errors for one
// wizard instance. It never validates; validation is an explicit pass run by
// the shell.
type Store[A any] struct {
	agg    *A
	errs   ValidationErrors
	apply  ApplyFunc[A]
	derive DeriveFunc[A]
}

func NewStore[A any](defaults *A, apply ApplyFunc[A], derive DeriveFunc[A]) *Store[A] {
	s := &Store[A]{
		agg:    defaults,
		errs:   ValidationErrors{},
		apply:  apply,
		derive: derive,
	}
	if s.derive != nil {
		s.derive(s.agg)
	}
	return s
}

// Aggregate returns the live aggregate. The shell owns the store for the
// lifetime of the wizard; nothing else mutates it.
func (s *Store[A]) Aggregate() *A {
	return s.agg
}

// Errors returns the current validation errors.
func (s *Store[A]) Errors() ValidationErrors {
	return s.errs
}

// Update shallow-merges the patch into the aggregate, clears the errors
// whose key was touched, and recomputes derived fields. Updating field A
// never perturbs field B's value or error state.
func (s *Store[A]) Update(p Patch) {
	if len(p) == 0 {
		return
	}
	s.apply(s.agg, p)
	for field := range p {
		delete(s.errs, field)
	}
	if s.derive != nil {
		s.derive(s.agg)
	}
}

// SetErrors replaces the error map wholesale with a validator's output.
func (s *Store[A]) SetErrors(errs ValidationErrors) {
	if errs == nil {
		errs = ValidationErrors{}
	}
	s.errs = errs
}

// Reset discards the aggregate and errors, replacing them with defaults.
// Used by Cancel; nothing is persisted.
func (s *Store[A]) Reset(defaults *A) {
	s.agg = defaults
	s.errs = ValidationErrors{}
	if s.derive != nil {
		s.derive(s.agg)
	}
}

package wizard

import "sort"

// ValidationErrors maps a UI field name (or a collection-scoped key such as
// "{id}_name") to a human-readable message. An empty map means the step is
// valid. Validators rebuild the map wholesale on every pass; outside a pass
// the store clears only the keys touched by the most recent update.
type ValidationErrors map[string]string

// Add records a message for a field. The first message per field wins so a
// required-field error is not clobbered by a later format rule.
func (v ValidationErrors) Add(field, message string) {
	if _, exists := v[field]; !exists {
		v[field] = message
	}
}

// Merge folds other into v, first message per field winning.
func (v ValidationErrors) Merge(other ValidationErrors) {
	for field, message := range other {
		v.Add(field, message)
	}
}

// IsEmpty reports whether the step passed validation.
func (v ValidationErrors) IsEmpty() bool {
	return len(v) == 0
}

// Fields returns the offending field names in stable order.
func (v ValidationErrors) Fields() []string {
	out := make([]string, 0, len(v))
	for field := range v {
		out = append(out, field)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy.
func (v ValidationErrors) Clone() ValidationErrors {
	out := make(ValidationErrors, len(v))
	for field, message := range v {
		out[field] = message
	}
	return out
}

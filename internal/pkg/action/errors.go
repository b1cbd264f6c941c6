package action

// GlobalField is the key used for errors that do not belong to a single field.
const GlobalField = "_global"

// FieldError is one field-scoped error record.
type FieldError struct {
	// Field is the field key, usually the property path of the violation.
	Field string `json:"field"`
	// Message is the human readable reason.
	Message string `json:"message"`
	// Value echoes the rejected input so it can be redisplayed.
	Value string `json:"value,omitempty"`
	// HasValue reports whether Value carries an echo (the rejected value may be an empty string).
	HasValue bool `json:"has_value,omitempty"`
}

// ValidationErrors is the per-request error collection keyed by field.
//
// Fields keep the order in which they first received an error. A field may
// hold several records. The collection is request scoped and not safe for
// concurrent use.
type ValidationErrors struct {
	order   []string
	byField map[string][]FieldError
	total   int
}

// NewValidationErrors returns an empty collection.
func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{byField: make(map[string][]FieldError)}
}

// Add appends records; existing records are never replaced.
func (ve *ValidationErrors) Add(errs ...FieldError) {
	if ve.byField == nil {
		ve.byField = make(map[string][]FieldError)
	}

	for _, fe := range errs {
		if fe.Field == "" {
			fe.Field = GlobalField
		}
		if _, seen := ve.byField[fe.Field]; !seen {
			ve.order = append(ve.order, fe.Field)
		}
		ve.byField[fe.Field] = append(ve.byField[fe.Field], fe)
		ve.total++
	}
}

// AddGlobal records an error that is not tied to a field.
func (ve *ValidationErrors) AddGlobal(message string) {
	ve.Add(FieldError{Field: GlobalField, Message: message})
}

// Get returns the records of field.
func (ve *ValidationErrors) Get(field string) []FieldError {
	return ve.byField[field]
}

// Has reports whether field has at least one record.
func (ve *ValidationErrors) Has(field string) bool {
	return len(ve.byField[field]) > 0
}

// Fields returns the keys in first-insertion order.
func (ve *ValidationErrors) Fields() []string {
	out := make([]string, len(ve.order))
	copy(out, ve.order)
	return out
}

// All returns every record grouped by field in first-insertion order.
func (ve *ValidationErrors) All() []FieldError {
	out := make([]FieldError, 0, ve.total)
	for _, field := range ve.order {
		out = append(out, ve.byField[field]...)
	}
	return out
}

// Len returns the number of records.
func (ve *ValidationErrors) Len() int {
	return ve.total
}

// IsEmpty reports whether the collection holds no record.
func (ve *ValidationErrors) IsEmpty() bool {
	return ve.total == 0
}

// Messages returns the first message of every field.
func (ve *ValidationErrors) Messages() map[string]string {
	out := make(map[string]string, len(ve.order))
	for _, field := range ve.order {
		out[field] = ve.byField[field][0].Message
	}
	return out
}

// Values returns the first echoed value of every field that has one.
func (ve *ValidationErrors) Values() map[string]string {
	out := make(map[string]string)
	for _, field := range ve.order {
		for _, fe := range ve.byField[field] {
			if fe.HasValue {
				out[field] = fe.Value
				break
			}
		}
	}
	return out
}

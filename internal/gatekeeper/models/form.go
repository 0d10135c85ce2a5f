package models

// FormData is the submitted signup form viewed as an opaque string-keyed map.
// The engine never interprets host fields; rules read only the fields they
// know about.
type FormData map[string]string

// Get returns the value for a field, or "" when absent.
func (d FormData) Get(name string) string {
	return d[name]
}

// Has reports whether the field was submitted at all, even empty.
func (d FormData) Has(name string) bool {
	_, ok := d[name]
	return ok
}

// FieldKind distinguishes how the host should render an injected field.
type FieldKind string

const (
	FieldText   FieldKind = "text"
	FieldHidden FieldKind = "hidden"
	// FieldChallenge marks fields the host renders as an interactive
	// challenge widget (CAPTCHA and similar).
	FieldChallenge FieldKind = "challenge"
)

// FormField is one element a rule injects into the signup form so its
// post-check can read the value back after submission.
type FormField struct {
	Name  string
	Kind  FieldKind
	Label string
	Value string
}

// Form is the ordered list of injected fields. Rules append during the
// form-extension phase, in instance sort order.
type Form struct {
	fields []FormField
}

// Add appends a field. Later additions with the same name are kept; the host
// renders fields in insertion order.
func (f *Form) Add(field FormField) {
	f.fields = append(f.fields, field)
}

// Fields returns the injected fields in insertion order.
func (f *Form) Fields() []FormField {
	out := make([]FormField, len(f.fields))
	copy(out, f.fields)
	return out
}

// Lookup returns the first field with the given name.
func (f *Form) Lookup(name string) (FormField, bool) {
	for _, field := range f.fields {
		if field.Name == name {
			return field, true
		}
	}
	return FormField{}, false
}

// Seed returns the injected fields as submitted-form data, used by tests and
// by hosts that round-trip hidden values verbatim.
func (f *Form) Seed() FormData {
	data := make(FormData, len(f.fields))
	for _, field := range f.fields {
		data[field.Name] = field.Value
	}
	return data
}

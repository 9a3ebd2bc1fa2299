package crud

import "fmt"

type FieldKind string

const (
	KindText     FieldKind = "text"
	KindTextarea FieldKind = "textarea"
	KindEmail    FieldKind = "email"
	KindPassword FieldKind = "password"
	KindNumber   FieldKind = "number"
	KindDecimal  FieldKind = "decimal"
	KindDate     FieldKind = "date"
	KindBool     FieldKind = "checkbox"
	KindChoice   FieldKind = "select"
	KindRelation FieldKind = "relation"
)

type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Field is one declared, editable attribute of an entity.
type Field struct {
	Name     string      `json:"name"`
	Label    string      `json:"label"`
	Kind     FieldKind   `json:"kind"`
	Required bool        `json:"required"`
	Choices  []Choice    `json:"choices,omitempty"`
	Source   string      `json:"source,omitempty"`
	Default  interface{} `json:"default,omitempty"`
}

type Widget struct {
	Field
	Placeholder string      `json:"placeholder,omitempty"`
	EmptyLabel  string      `json:"empty_label,omitempty"`
	Initial     interface{} `json:"initial,omitempty"`
}

type Form struct {
	Entity string   `json:"entity"`
	Fields []Widget `json:"fields"`
}

// DeriveForm builds the form for an entity from its declared fields. Text inputs
// get an "Enter ..." placeholder, choice and relation inputs an empty option
// labelled "Select ...".
func DeriveForm(label string, fields []Field, exclude []string) Form {
	skip := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		skip[name] = true
	}

	form := Form{Entity: label, Fields: make([]Widget, 0, len(fields))}
	for _, f := range fields {
		if skip[f.Name] {
			continue
		}
		w := Widget{Field: f, Initial: f.Default}
		switch f.Kind {
		case KindText, KindTextarea, KindEmail, KindPassword:
			w.Placeholder = fmt.Sprintf("Enter %s %s", label, f.Label)
		case KindChoice, KindRelation:
			w.EmptyLabel = fmt.Sprintf("Select %s %s", label, f.Label)
		}
		form.Fields = append(form.Fields, w)
	}
	return form
}

// WithInitial returns a copy of the form with initial values filled in.
func (f Form) WithInitial(initial map[string]interface{}) Form {
	out := Form{Entity: f.Entity, Fields: make([]Widget, len(f.Fields))}
	for i, w := range f.Fields {
		if v, ok := initial[w.Name]; ok {
			w.Initial = v
		}
		out.Fields[i] = w
	}
	return out
}

// Choices turns a fixed vocabulary into select options.
func Choices(values []string, labels map[string]string) []Choice {
	out := make([]Choice, len(values))
	for i, v := range values {
		l, ok := labels[v]
		if !ok {
			l = v
		}
		out[i] = Choice{Value: v, Label: l}
	}
	return out
}

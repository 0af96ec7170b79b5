package briefing

import "strings"

// FieldKind identifies the input widget a descriptor binds to.
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindNumber   FieldKind = "number"
	KindBoolean  FieldKind = "boolean"
	KindDropdown FieldKind = "dropdown"
	KindRange    FieldKind = "range"
	KindCheckbox FieldKind = "checkbox"
)

// Option is one selectable value of a dropdown or checkbox field.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FieldDescriptor is the backend-declared description of one form input for a
// given step. Descriptors are fetched fresh whenever their governing upstream
// selection changes and are never mutated client-side.
type FieldDescriptor struct {
	Name     string    `json:"name"`
	Label    string    `json:"label"`
	Kind     FieldKind `json:"type"`
	Values   []Option  `json:"values,omitempty"`
	Required bool      `json:"required"`
	Multiple bool      `json:"multiple"`
}

// WireField is the raw descriptor shape the generation backend returns. Option
// labels are optional on the wire; NormalizeField defaults them to the value.
type WireField struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Type     string `json:"type"`
	Values   []any  `json:"values,omitempty"`
	Required bool   `json:"required"`
	Multiple bool   `json:"multiple"`
}

// NormalizeField converts a wire descriptor into the typed form. Unknown type
// strings degrade to text so a backend schema addition never breaks the form.
func NormalizeField(w WireField) FieldDescriptor {
	fd := FieldDescriptor{
		Name:     w.Name,
		Label:    w.Label,
		Kind:     normalizeKind(w.Type),
		Required: w.Required,
		Multiple: w.Multiple,
	}
	if fd.Label == "" {
		fd.Label = fd.Name
	}
	for _, raw := range w.Values {
		switch v := raw.(type) {
		case string:
			fd.Values = append(fd.Values, Option{Value: v, Label: v})
		case map[string]any:
			opt := Option{}
			if s, ok := v["value"].(string); ok {
				opt.Value = s
			}
			if s, ok := v["label"].(string); ok {
				opt.Label = s
			}
			if opt.Label == "" {
				opt.Label = opt.Value
			}
			if opt.Value != "" {
				fd.Values = append(fd.Values, opt)
			}
		}
	}
	return fd
}

// NormalizeFields maps a backend field list into descriptors, preserving order.
func NormalizeFields(wire []WireField) []FieldDescriptor {
	if len(wire) == 0 {
		return nil
	}
	out := make([]FieldDescriptor, 0, len(wire))
	for _, w := range wire {
		out = append(out, NormalizeField(w))
	}
	return out
}

func normalizeKind(raw string) FieldKind {
	switch FieldKind(strings.ToLower(strings.TrimSpace(raw))) {
	case KindNumber:
		return KindNumber
	case KindBoolean:
		return KindBoolean
	case KindDropdown:
		return KindDropdown
	case KindRange:
		return KindRange
	case KindCheckbox:
		return KindCheckbox
	default:
		return KindText
	}
}

package steps

import (
	"fmt"
	"strconv"

	"github.com/joaolucasdevmath/maip-campaign-builder/internal/briefing"
)

// flattenMulti maps a submitted multi-select value to bare option values, in
// insertion order. Both plain strings and {value,label} option objects are
// accepted; labels are dropped from patches.
func flattenMulti(raw any) []string {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			switch iv := item.(type) {
			case string:
				out = append(out, iv)
			case map[string]any:
				if s, ok := iv["value"].(string); ok {
					out = append(out, s)
				}
			}
		}
		return out
	case map[string]any:
		if s, ok := v["value"].(string); ok {
			return []string{s}
		}
		return nil
	default:
		return nil
	}
}

// submittedString maps a submitted scalar to a string; option objects yield
// their value.
func submittedString(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case map[string]any:
		if s, ok := v["value"].(string); ok {
			return s
		}
		return ""
	default:
		return ""
	}
}

// submittedBool interprets checkbox/boolean submissions, tolerating the
// string forms a form encoder may produce.
func submittedBool(raw any) bool {
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == "on" || v == "1"
	default:
		return false
	}
}

// rangeBounds extracts the min/max pair of a range submission.
func rangeBounds(raw any) (min, max float64, ok bool) {
	m, isMap := raw.(map[string]any)
	if !isMap {
		return 0, 0, false
	}
	min, okMin := asNumber(m["min"])
	max, okMax := asNumber(m["max"])
	return min, max, okMin && okMax
}

func asNumber(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// isEmpty reports whether a submitted value counts as "not filled in" for
// required-field checks. A false boolean is a value, not an absence.
func isEmpty(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []any:
		return len(v) == 0
	case []string:
		return len(v) == 0
	case bool:
		return false
	default:
		return false
	}
}

// validateDescriptors applies the generic per-field rules every
// descriptor-backed step shares: required presence and range ordering.
// Cross-field rules belong to the individual controllers.
func validateDescriptors(descriptors []briefing.FieldDescriptor, sub Submission, errs ValidationErrors) {
	for _, fd := range descriptors {
		raw, present := sub[fd.Name]
		if fd.Required && (!present || isEmpty(raw)) {
			errs[fd.Name] = fmt.Sprintf("%s é obrigatório", fd.Label)
			continue
		}
		if !present {
			continue
		}
		if fd.Kind == briefing.KindRange && !isEmpty(raw) {
			min, max, ok := rangeBounds(raw)
			if !ok {
				errs[fd.Name] = fmt.Sprintf("%s deve ter valores mínimo e máximo numéricos", fd.Label)
				continue
			}
			if min >= max {
				errs[fd.Name] = fmt.Sprintf("%s: o mínimo deve ser menor que o máximo", fd.Label)
			}
		}
	}
}

// descriptorPatch computes the generic patch for descriptor-backed values:
// multi-selects flatten to bare values, scalars keep their submitted shape.
func descriptorPatch(descriptors []briefing.FieldDescriptor, sub Submission) briefing.CampaignData {
	patch := briefing.CampaignData{}
	for _, fd := range descriptors {
		raw, present := sub[fd.Name]
		if !present || isEmpty(raw) {
			continue
		}
		switch {
		case fd.Multiple:
			patch[fd.Name] = flattenMulti(raw)
		case fd.Kind == briefing.KindBoolean || fd.Kind == briefing.KindCheckbox:
			patch[fd.Name] = submittedBool(raw)
		case fd.Kind == briefing.KindNumber:
			if n, ok := asNumber(raw); ok {
				patch[fd.Name] = n
			}
		case fd.Kind == briefing.KindRange:
			if min, max, ok := rangeBounds(raw); ok {
				patch[fd.Name] = map[string]any{"min": min, "max": max}
			}
		default:
			patch[fd.Name] = submittedString(raw)
		}
	}
	return patch
}

package briefing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joaolucasdevmath/maip-campaign-builder/internal/briefing"
)

func TestNormalizeFieldDefaultsLabelToName(t *testing.T) {
	fd := briefing.NormalizeField(briefing.WireField{Name: "curso_interesse", Type: "dropdown"})
	assert.Equal(t, "curso_interesse", fd.Label)
	assert.Equal(t, briefing.KindDropdown, fd.Kind)
}

func TestNormalizeFieldUnknownKindDegradesToText(t *testing.T) {
	fd := briefing.NormalizeField(briefing.WireField{Name: "novo_widget", Type: "hologram"})
	assert.Equal(t, briefing.KindText, fd.Kind)
}

func TestNormalizeFieldOptionShapes(t *testing.T) {
	fd := briefing.NormalizeField(briefing.WireField{
		Name: "modalidade",
		Type: "checkbox",
		Values: []any{
			"EAD",
			map[string]any{"value": "presencial", "label": "Presencial"},
			map[string]any{"value": "semi"},
			map[string]any{"label": "sem valor"},
		},
	})

	require.Len(t, fd.Values, 3)
	assert.Equal(t, briefing.Option{Value: "EAD", Label: "EAD"}, fd.Values[0])
	assert.Equal(t, briefing.Option{Value: "presencial", Label: "Presencial"}, fd.Values[1])
	assert.Equal(t, briefing.Option{Value: "semi", Label: "semi"}, fd.Values[2])
}

func TestNormalizeFieldsPreservesOrder(t *testing.T) {
	wire := []briefing.WireField{
		{Name: "b", Type: "text"},
		{Name: "a", Type: "number"},
	}
	fds := briefing.NormalizeFields(wire)
	require.Len(t, fds, 2)
	assert.Equal(t, "b", fds[0].Name)
	assert.Equal(t, "a", fds[1].Name)
	assert.Nil(t, briefing.NormalizeFields(nil))
}

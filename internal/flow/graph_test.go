package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultGraph_Valid(t *testing.T) {
	require.NoError(t, DefaultGraph().Validate())
}

func TestDefaultGraph_VisitsEveryScalarKey(t *testing.T) {
	g := DefaultGraph()
	keys := map[string]bool{}
	for _, id := range g.order {
		s := g.steps[id]
		if s.Key != "" {
			keys[s.Key] = true
		}
	}
	// Every column the commit assembler reads must have a producing step.
	for _, key := range []string{
		"full_name", "birth_date", "phone", "department", "address",
		"living_condition", "education_degree", "married", "military_service",
		"criminal_record", "driver_licence", "personal_car", "origin",
		"salary", "overtime", "force_majeure", "working_style", "health",
	} {
		assert.True(t, keys[key], "no step produces answer %q", key)
	}
}

func TestGraph_Validate_DanglingTransition(t *testing.T) {
	g := NewGraph("a",
		&Step{ID: "a", Kind: KindText, Next: "missing"},
	)
	assert.Error(t, g.Validate())
}

func TestGraph_Validate_UnreachableStep(t *testing.T) {
	g := NewGraph("a",
		&Step{ID: "a", Kind: KindText, Next: "end"},
		&Step{ID: "end", Kind: KindPhoto},
		&Step{ID: "orphan", Kind: KindText, Next: "end"},
	)
	assert.ErrorContains(t, g.Validate(), "unreachable")
}

func TestGraph_Validate_NoTerminal(t *testing.T) {
	g := NewGraph("a",
		&Step{ID: "a", Kind: KindText, Next: "b"},
		&Step{ID: "b", Kind: KindText, Next: "a"},
	)
	assert.ErrorContains(t, g.Validate(), "terminal")
}

func TestGraph_Validate_MissingEntry(t *testing.T) {
	g := NewGraph("nope", &Step{ID: "a", Kind: KindPhoto})
	assert.Error(t, g.Validate())
}

func TestGraph_Validate_RepeatWithoutExit(t *testing.T) {
	g := NewGraph("loop",
		&Step{ID: "loop", Kind: KindRepeatChoice, Collection: "things", AddStep: "field"},
		&Step{ID: "field", Kind: KindRepeatField, Collection: "things", Next: "loop", Final: true},
	)
	assert.Error(t, g.Validate())
}

package flow

import (
	"fmt"
)

// StepID names one node of the questionnaire graph.
type StepID string

// StepKind determines what input a step accepts and how it is handled.
type StepKind string

const (
	// KindText expects free text checked by the step's validator.
	KindText StepKind = "text"
	// KindChoice expects a button press from the step's option set.
	KindChoice StepKind = "choice"
	// KindCatalog is the department browse/select step.
	KindCatalog StepKind = "catalog"
	// KindRepeatChoice offers Add / Next for one repeatable collection.
	KindRepeatChoice StepKind = "repeat_choice"
	// KindRepeatField collects one field of an in-progress collection item.
	KindRepeatField StepKind = "repeat_field"
	// KindPhoto expects an image upload and terminates the flow.
	KindPhoto StepKind = "photo"
)

// ValidatorID selects the format check for free-text steps.
type ValidatorID string

const (
	ValidatorFullName  ValidatorID = "full_name"
	ValidatorDate      ValidatorID = "date"
	ValidatorPhone     ValidatorID = "phone"
	ValidatorYear      ValidatorID = "year"
	ValidatorYearRange ValidatorID = "year_range"
	ValidatorText      ValidatorID = "text"
)

// Choice is one option of a KindChoice or choice-driven KindRepeatField
// step. Options that branch (phone confirmation) carry their own Next.
type Choice struct {
	Label  string // button text
	Record string // value written to answers and the transcript
	Bool   bool   // typed value for yes/no decisions
	IsBool bool
	Next   StepID // overrides the step's Next when set
	// Skip marks options that record nothing (e.g. "no, re-ask"): no
	// answer, no transcript line.
	Skip bool
	// EmitAnswer appends the transcript line of a previously stored answer
	// when this option is taken (the deferred phone line).
	EmitAnswer string
}

// Step is one node of the form graph. The step declares what it accepts,
// how to validate it, what it writes, and where control goes next.
type Step struct {
	ID     StepID
	Key    string // answers key
	Label  string // transcript label
	Prompt string
	Kind   StepKind

	Validator ValidatorID // KindText, KindRepeatField
	Choices   []Choice    // KindChoice, choice-driven KindRepeatField

	// Next is the static successor. For KindRepeatChoice it is the step
	// after the loop; for the final KindRepeatField it is the loop's
	// choice step.
	Next StepID

	// Repeatable-section wiring.
	Collection  string // collection name, set on repeat kinds
	AddStep     StepID // KindRepeatChoice: first field step
	ItemLabel   string // KindRepeatChoice: transcript header of one item
	FieldLabels []string
	Final       bool // KindRepeatField: completing this field completes the item

	// DeferTranscript suppresses the immediate transcript line; a later
	// choice emits it via EmitAnswer (phone confirmation).
	DeferTranscript bool
}

// Graph is the static, inspectable questionnaire definition.
type Graph struct {
	entry StepID
	steps map[StepID]*Step
	order []StepID
}

// NewGraph builds a graph with the given entry step.
func NewGraph(entry StepID, steps ...*Step) *Graph {
	g := &Graph{entry: entry, steps: make(map[StepID]*Step, len(steps))}
	for _, s := range steps {
		g.steps[s.ID] = s
		g.order = append(g.order, s.ID)
	}
	return g
}

// Entry returns the entry step id.
func (g *Graph) Entry() StepID { return g.entry }

// Step looks up a step by id.
func (g *Graph) Step(id StepID) (*Step, bool) {
	s, ok := g.steps[id]
	return s, ok
}

// MustStep looks up a step that the graph validation guarantees to exist.
func (g *Graph) MustStep(id StepID) *Step {
	s, ok := g.steps[id]
	if !ok {
		panic(fmt.Sprintf("flow: unknown step %q", id))
	}
	return s
}

// successors returns every step reachable in one transition.
func (g *Graph) successors(s *Step) []StepID {
	var out []StepID
	if s.Next != "" {
		out = append(out, s.Next)
	}
	if s.AddStep != "" {
		out = append(out, s.AddStep)
	}
	for _, c := range s.Choices {
		if c.Next != "" {
			out = append(out, c.Next)
		}
	}
	return out
}

// Validate statically checks the graph: the entry exists, every declared
// transition targets a known step, every step is reachable from the entry,
// every non-terminal step has somewhere to go, and a terminal step is
// reachable.
func (g *Graph) Validate() error {
	if _, ok := g.steps[g.entry]; !ok {
		return fmt.Errorf("flow: entry step %q not defined", g.entry)
	}

	for _, id := range g.order {
		s := g.steps[id]
		succ := g.successors(s)
		if s.Kind != KindPhoto && len(succ) == 0 {
			return fmt.Errorf("flow: step %q has no outgoing transition", id)
		}
		for _, target := range succ {
			if _, ok := g.steps[target]; !ok {
				return fmt.Errorf("flow: step %q transitions to unknown step %q", id, target)
			}
		}
		if s.Kind == KindRepeatChoice && (s.AddStep == "" || s.Next == "") {
			return fmt.Errorf("flow: repeat step %q must define both add and exit transitions", id)
		}
	}

	// Reachability from the entry.
	seen := map[StepID]bool{g.entry: true}
	queue := []StepID{g.entry}
	terminalReachable := false
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		s := g.steps[id]
		if s.Kind == KindPhoto {
			terminalReachable = true
		}
		for _, target := range g.successors(s) {
			if !seen[target] {
				seen[target] = true
				queue = append(queue, target)
			}
		}
	}
	for _, id := range g.order {
		if !seen[id] {
			return fmt.Errorf("flow: step %q is unreachable from the entry", id)
		}
	}
	if !terminalReachable {
		return fmt.Errorf("flow: no terminal step reachable from the entry")
	}
	return nil
}

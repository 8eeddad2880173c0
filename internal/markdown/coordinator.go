package markdown

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dshills/markstyle/internal/engine/buffer"
	"github.com/dshills/markstyle/internal/engine/cursor"
)

// Host is the editor surface a toggle command runs against.
type Host interface {
	// Document returns an immutable view of the current text.
	Document() buffer.Document
	// Selections returns the selections in creation order. The first one
	// is the originally active selection.
	Selections() []cursor.Selection
	// ApplyEdit applies the batch atomically. It is the only blocking
	// call of a command.
	ApplyEdit(ctx context.Context, b *buffer.BatchEdit) error
	// SetSelections replaces the host's selections.
	SetSelections(sels []cursor.Selection)
}

// SelectionPolicy decides when computed selections replace the host's own
// post-edit placement.
type SelectionPolicy uint8

const (
	// PolicyPrimaryEmpty installs selections only when the originally
	// active selection was an empty caret.
	PolicyPrimaryEmpty SelectionPolicy = iota
	// PolicyAlways installs selections after every successful edit.
	PolicyAlways
)

// String returns the policy name used in configuration.
func (p SelectionPolicy) String() string {
	switch p {
	case PolicyAlways:
		return "always"
	default:
		return "primary-empty"
	}
}

// ParseSelectionPolicy resolves a policy name.
func ParseSelectionPolicy(name string) (SelectionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "primary-empty", "primary_empty", "primaryempty":
		return PolicyPrimaryEmpty, nil
	case "always":
		return PolicyAlways, nil
	}
	return PolicyPrimaryEmpty, fmt.Errorf("unknown selection policy %q", name)
}

// Step is a state a selection passes through while a plan is built.
type Step uint8

const (
	StepIdle Step = iota
	StepClassified
	StepNoOp
	StepTargetSelected
	StepToggled
	StepPositionCorrected
)

var stepNames = [...]string{"idle", "classified", "noop", "target-selected", "toggled", "position-corrected"}

// String returns the step name.
func (s Step) String() string {
	if int(s) < len(stepNames) {
		return stepNames[s]
	}
	return "unknown"
}

// Trace records how one selection was handled.
type Trace struct {
	Index     int
	Input     cursor.Selection
	Steps     []Step
	Target    Target
	Action    Action
	Shift     int
	Settled   int
	Duplicate bool
	Output    cursor.Selection
}

// Plan is the complete outcome of one toggle invocation before it is
// applied.
type Plan struct {
	Label           string
	Batch           *buffer.BatchEdit
	Ledger          *ShiftLedger
	Selections      []cursor.Selection
	Traces          []Trace
	PrimaryWasEmpty bool
}

// Install reports whether Selections should replace the host placement.
func (p *Plan) Install(policy SelectionPolicy) bool {
	return policy == PolicyAlways || p.PrimaryWasEmpty
}

// PlanToggle computes the batch and resulting selections for toggling
// pattern over sels. It does not touch any host state.
func PlanToggle(doc buffer.Document, sels []cursor.Selection, p Pattern, style Style) (*Plan, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	plan := &Plan{
		Label:      style.String(),
		Batch:      buffer.NewBatchEdit(style.String()),
		Ledger:     NewShiftLedger(),
		Selections: make([]cursor.Selection, len(sels)),
		Traces:     make([]Trace, 0, len(sels)),
	}
	if len(sels) > 0 {
		plan.PrimaryWasEmpty = sels[0].IsEmpty()
	}

	marks := make([]int, len(sels))
	for i, sel := range sels {
		tr := Trace{Index: i, Input: sel, Steps: []Step{StepIdle}}
		shift := plan.Ledger.Sum(sel.Start())
		tr.Shift = shift

		in := ToggleInput{
			Selection: sel,
			Caret:     sel.Active,
			Shift:     shift,
			EndShift:  plan.Ledger.Sum(sel.End()),
			Pattern:   p,
		}

		if sel.IsEmpty() {
			target := SelectTarget(doc, sel.Active, p, style)
			tr.Target = target
			tr.Steps = append(tr.Steps, StepClassified)
			if target.NoOp() {
				out := cursor.NewCursorSelection(sel.Active.Translate(shift + p.SuffixLen()))
				tr.Steps = append(tr.Steps, StepNoOp)
				tr.Action = ActionAdvance
				tr.Output = out
				plan.Selections[i] = out
				plan.Traces = append(plan.Traces, tr)
				marks[i] = plan.Ledger.Len()
				continue
			}
			in.Range = target.Range
			in.Kind = target.Kind
		} else {
			in.Range = sel.Range()
			in.Kind = TargetSelection
			in.Selected = true
			tr.Target = Target{Kind: TargetSelection, Range: in.Range}
		}
		tr.Steps = append(tr.Steps, StepTargetSelected)

		res := ToggleRange(doc, in)
		if plan.Batch.Contains(res.Edit) {
			// Another caret in the same word already scheduled this edit;
			// its shift must not count against this caret a second time.
			in.Shift -= res.Shift.Covering(sel.Start())
			in.EndShift -= res.Shift.Covering(sel.End())
			tr.Shift = in.Shift
			res = ToggleRange(doc, in)
			tr.Duplicate = true
		}
		tr.Steps = append(tr.Steps, StepToggled)
		tr.Action = res.Action

		if !tr.Duplicate {
			plan.Batch.Add(res.Edit)
			plan.Ledger.Record(res.Shift)
		}

		tr.Steps = append(tr.Steps, StepPositionCorrected)
		tr.Output = res.Selection
		plan.Selections[i] = res.Selection
		plan.Traces = append(plan.Traces, tr)
		marks[i] = plan.Ledger.Len()
	}

	settle(plan, sels, marks)
	return plan, nil
}

// settle moves each selection by the edits scheduled after it was
// processed that lie to its left on the same line. marks[i] is the ledger
// length once selection i was handled; carets created in document order
// need no settling.
func settle(plan *Plan, sels []cursor.Selection, marks []int) {
	for i, sel := range sels {
		if marks[i] == plan.Ledger.Len() {
			continue
		}
		startDelta := plan.Ledger.SumSince(marks[i], sel.Start())
		endDelta := plan.Ledger.SumSince(marks[i], sel.End())
		if startDelta == 0 && endDelta == 0 {
			continue
		}

		out := plan.Selections[i]
		if out.IsEmpty() {
			out = cursor.NewCursorSelection(out.Active.Translate(startDelta))
		} else {
			out = out.WithBounds(out.Start().Translate(startDelta), out.End().Translate(endDelta))
		}
		plan.Selections[i] = out
		plan.Traces[i].Settled = startDelta
		plan.Traces[i].Output = out
	}
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger for per-selection tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithSelectionPolicy sets when computed selections are installed.
func WithSelectionPolicy(p SelectionPolicy) Option {
	return func(c *Coordinator) {
		c.policy = p
	}
}

// WithPatterns overrides the delimiters per style.
func WithPatterns(ps Patterns) Option {
	return func(c *Coordinator) {
		for s, p := range ps {
			c.patterns[s] = p
		}
	}
}

// Coordinator runs toggle commands against a Host.
type Coordinator struct {
	logger   *slog.Logger
	policy   SelectionPolicy
	patterns Patterns
}

// NewCoordinator creates a coordinator with default patterns and the
// PolicyPrimaryEmpty selection policy.
func NewCoordinator(opts ...Option) *Coordinator {
	c := &Coordinator{
		logger:   slog.New(slog.DiscardHandler),
		policy:   PolicyPrimaryEmpty,
		patterns: DefaultPatterns(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Policy returns the selection policy.
func (c *Coordinator) Policy() SelectionPolicy {
	return c.policy
}

// Pattern returns the delimiters used for style.
func (c *Coordinator) Pattern(style Style) (Pattern, error) {
	return c.patterns.Lookup(style)
}

// Plan computes a toggle of style over sels without applying it.
func (c *Coordinator) Plan(doc buffer.Document, sels []cursor.Selection, style Style) (*Plan, error) {
	p, err := c.patterns.Lookup(style)
	if err != nil {
		return nil, err
	}
	plan, err := PlanToggle(doc, sels, p, style)
	if err != nil {
		return nil, err
	}
	c.trace(plan)
	return plan, nil
}

// Toggle applies style at every selection of the host in one batch.
// When the host rejects the batch the error is returned and selections are
// left as the host reports them.
func (c *Coordinator) Toggle(ctx context.Context, host Host, style Style) (*Plan, error) {
	plan, err := c.Plan(host.Document(), host.Selections(), style)
	if err != nil {
		return nil, err
	}
	if err := c.apply(ctx, host, plan); err != nil {
		return plan, err
	}
	return plan, nil
}

func (c *Coordinator) apply(ctx context.Context, host Host, plan *Plan) error {
	if err := host.ApplyEdit(ctx, plan.Batch); err != nil {
		c.logger.Warn("batch edit failed", "label", plan.Label, "batch", plan.Batch.ID(), "error", err)
		return fmt.Errorf("%s: %w", plan.Label, err)
	}
	if plan.Install(c.policy) {
		host.SetSelections(plan.Selections)
	} else {
		c.logger.Debug("keeping host selections", "label", plan.Label, "policy", c.policy)
	}
	return nil
}

func (c *Coordinator) trace(plan *Plan) {
	if !c.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	for _, tr := range plan.Traces {
		c.logger.Debug("toggle selection",
			"label", plan.Label,
			"index", tr.Index,
			"context", tr.Target.Context,
			"target", tr.Target,
			"action", tr.Action,
			"shift", tr.Shift,
			"duplicate", tr.Duplicate,
			"selection", tr.Output,
		)
	}
}

package keymap

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/dshills/markstyle/internal/input/key"
)

// Registry manages all keymaps and provides binding lookup.
type Registry struct {
	mu sync.RWMutex

	// keymaps holds all registered keymaps by name.
	keymaps map[string]*registered

	// prefixTree provides prefix-based lookup.
	prefixTree *prefixTree

	// conditionEvaluator evaluates "when" conditions.
	conditionEvaluator ConditionEvaluator

	// nextSeq orders registrations.
	nextSeq int
}

type registered struct {
	parsed *ParsedKeymap
	seq    int
}

// ConditionEvaluator evaluates binding conditions.
type ConditionEvaluator interface {
	// Evaluate evaluates a condition expression against the current context.
	Evaluate(condition string, ctx *LookupContext) bool
}

// LookupContext provides context for binding lookup.
type LookupContext struct {
	// FileType is the current file type (e.g., "markdown").
	FileType string

	// Conditions holds current condition values, e.g. "readonly".
	Conditions map[string]bool

	// Variables holds context variables, e.g. "policy".
	Variables map[string]string
}

// NewLookupContext creates a new lookup context.
func NewLookupContext() *LookupContext {
	return &LookupContext{
		Conditions: make(map[string]bool),
		Variables:  make(map[string]string),
	}
}

// NewRegistry creates a new keymap registry.
func NewRegistry() *Registry {
	return &Registry{
		keymaps:            make(map[string]*registered),
		prefixTree:         newPrefixTree(),
		conditionEvaluator: &DefaultConditionEvaluator{},
	}
}

// SetConditionEvaluator sets the condition evaluator.
func (r *Registry) SetConditionEvaluator(eval ConditionEvaluator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conditionEvaluator = eval
}

// Register adds a keymap to the registry.
// If a keymap with the same name already exists, it is replaced.
func (r *Registry) Register(km *Keymap) error {
	if km == nil {
		return fmt.Errorf("cannot register nil keymap")
	}

	parsed, err := km.Parse()
	if err != nil {
		return fmt.Errorf("parsing keymap %q: %w", km.Name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.unregisterLocked(km.Name)

	r.nextSeq++
	reg := &registered{parsed: parsed, seq: r.nextSeq}
	r.keymaps[km.Name] = reg

	for i := range parsed.ParsedBindings {
		pb := &parsed.ParsedBindings[i]
		r.prefixTree.insert(pb.Sequence, pb, reg)
	}

	return nil
}

// unregisterLocked removes a keymap without acquiring the lock.
// Caller must hold the write lock.
func (r *Registry) unregisterLocked(name string) {
	reg, ok := r.keymaps[name]
	if !ok {
		return
	}
	for i := range reg.parsed.ParsedBindings {
		r.prefixTree.remove(reg.parsed.ParsedBindings[i].Sequence, reg)
	}
	delete(r.keymaps, name)
}

// Get returns a keymap by name.
func (r *Registry) Get(name string) *ParsedKeymap {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if reg, ok := r.keymaps[name]; ok {
		return reg.parsed
	}
	return nil
}

// Lookup finds the best matching binding for a key sequence.
// If ctx is nil, a default empty context is used.
func (r *Registry) Lookup(seq *key.Sequence, ctx *LookupContext) *Binding {
	matches := r.LookupAll(seq, ctx)
	if len(matches) == 0 {
		return nil
	}
	b := matches[0].Binding
	return &b
}

// LookupKeys parses spec and looks it up.
func (r *Registry) LookupKeys(spec string, ctx *LookupContext) (*Binding, error) {
	seq, err := key.ParseSequence(spec)
	if err != nil {
		return nil, err
	}
	return r.Lookup(seq, ctx), nil
}

// LookupAll finds all matching bindings for a key sequence, best first.
// If ctx is nil, a default empty context is used.
func (r *Registry) LookupAll(seq *key.Sequence, ctx *LookupContext) []BindingMatch {
	if seq.IsEmpty() {
		return nil
	}
	if ctx == nil {
		ctx = NewLookupContext()
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := make([]BindingMatch, 0)
	for _, entry := range r.prefixTree.lookup(seq) {
		km := entry.reg.parsed.Keymap
		if km.FileType != "" && km.FileType != ctx.FileType {
			continue
		}
		if entry.binding.When != "" && !r.conditionEvaluator.Evaluate(entry.binding.When, ctx) {
			continue
		}
		match := BindingMatch{
			ParsedBinding: entry.binding,
			Keymap:        km,
			seq:           entry.reg.seq,
		}
		match.calculateScore()
		matches = append(matches, match)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Less(matches[j])
	})
	return matches
}

// HasPrefix reports whether some longer binding starts with seq, meaning
// more keys may complete it.
func (r *Registry) HasPrefix(seq *key.Sequence) bool {
	if seq.IsEmpty() {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.prefixTree.hasLonger(seq)
}

// Keymaps returns all registered keymaps in registration order.
func (r *Registry) Keymaps() []*ParsedKeymap {
	r.mu.RLock()
	defer r.mu.RUnlock()

	regs := make([]*registered, 0, len(r.keymaps))
	for _, reg := range r.keymaps {
		regs = append(regs, reg)
	}
	sort.Slice(regs, func(i, j int) bool { return regs[i].seq < regs[j].seq })

	result := make([]*ParsedKeymap, len(regs))
	for i, reg := range regs {
		result[i] = reg.parsed
	}
	return result
}

// Bindings returns every binding in registration order.
func (r *Registry) Bindings() []Binding {
	var out []Binding
	for _, km := range r.Keymaps() {
		out = append(out, km.Bindings...)
	}
	return out
}

// BindingsFor returns the bindings that trigger action.
func (r *Registry) BindingsFor(action string) []Binding {
	var out []Binding
	for _, b := range r.Bindings() {
		if b.Action == action {
			out = append(out, b)
		}
	}
	return out
}

// prefixTree indexes bindings by chord.
type prefixTree struct {
	root *prefixNode
}

type prefixNode struct {
	children map[key.Chord]*prefixNode
	entries  []prefixEntry
}

type prefixEntry struct {
	binding *ParsedBinding
	reg     *registered
}

func newPrefixNode() *prefixNode {
	return &prefixNode{children: make(map[key.Chord]*prefixNode)}
}

// newPrefixTree creates a new prefix tree.
func newPrefixTree() *prefixTree {
	return &prefixTree{root: newPrefixNode()}
}

// insert adds a binding to the prefix tree.
func (t *prefixTree) insert(seq *key.Sequence, binding *ParsedBinding, reg *registered) {
	node := t.root
	for _, c := range seq.Chords {
		child, ok := node.children[c]
		if !ok {
			child = newPrefixNode()
			node.children[c] = child
		}
		node = child
	}
	node.entries = append(node.entries, prefixEntry{binding: binding, reg: reg})
}

// remove removes the bindings of reg at seq, pruning empty nodes.
func (t *prefixTree) remove(seq *key.Sequence, reg *registered) {
	if seq.IsEmpty() {
		return
	}

	path := make([]*prefixNode, 0, seq.Len()+1)
	path = append(path, t.root)
	node := t.root
	for _, c := range seq.Chords {
		child, ok := node.children[c]
		if !ok {
			return
		}
		path = append(path, child)
		node = child
	}

	filtered := node.entries[:0]
	for _, entry := range node.entries {
		if entry.reg != reg {
			filtered = append(filtered, entry)
		}
	}
	node.entries = filtered

	for i := len(path) - 1; i > 0; i-- {
		current := path[i]
		if len(current.entries) != 0 || len(current.children) != 0 {
			break
		}
		delete(path[i-1].children, seq.Chords[i-1])
	}
}

func (t *prefixTree) find(seq *key.Sequence) *prefixNode {
	node := t.root
	for _, c := range seq.Chords {
		child, ok := node.children[c]
		if !ok {
			return nil
		}
		node = child
	}
	return node
}

// lookup finds exact matches for a key sequence.
func (t *prefixTree) lookup(seq *key.Sequence) []prefixEntry {
	if node := t.find(seq); node != nil {
		return node.entries
	}
	return nil
}

// hasLonger reports whether a binding longer than seq starts with it.
func (t *prefixTree) hasLonger(seq *key.Sequence) bool {
	node := t.find(seq)
	return node != nil && len(node.children) > 0
}

// DefaultConditionEvaluator provides basic condition evaluation.
type DefaultConditionEvaluator struct{}

// Evaluate evaluates a condition expression.
// Supports: name, !name, a && b, a || b, var == value
func (e *DefaultConditionEvaluator) Evaluate(condition string, ctx *LookupContext) bool {
	if strings.TrimSpace(condition) == "" {
		return true
	}
	return e.evaluateExpr(condition, ctx)
}

func (e *DefaultConditionEvaluator) evaluateExpr(expr string, ctx *LookupContext) bool {
	if left, right, ok := strings.Cut(expr, "||"); ok {
		return e.evaluateExpr(left, ctx) || e.evaluateExpr(right, ctx)
	}
	if left, right, ok := strings.Cut(expr, "&&"); ok {
		return e.evaluateExpr(left, ctx) && e.evaluateExpr(right, ctx)
	}

	expr = strings.TrimSpace(expr)
	if strings.HasPrefix(expr, "!") {
		return !e.evaluateExpr(expr[1:], ctx)
	}
	if left, right, ok := strings.Cut(expr, "=="); ok {
		val, found := ctx.Variables[strings.TrimSpace(left)]
		return found && val == strings.TrimSpace(right)
	}
	return ctx.Conditions[expr]
}

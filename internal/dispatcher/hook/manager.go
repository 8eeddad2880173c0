package hook

import (
	"slices"
	"sort"
	"sync"

	"github.com/dshills/markstyle/internal/dispatcher/execctx"
	"github.com/dshills/markstyle/internal/dispatcher/handler"
	"github.com/dshills/markstyle/internal/input"
)

// Manager manages dispatch hooks with priority-based ordering.
type Manager struct {
	mu        sync.RWMutex
	preHooks  []PreDispatchHook
	postHooks []PostDispatchHook
}

// NewManager creates a new hook manager.
func NewManager() *Manager {
	return &Manager{}
}

// RegisterPre adds a pre-dispatch hook, replacing one with the same name.
func (m *Manager) RegisterPre(h PreDispatchHook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.preHooks = replaceOrAppend(m.preHooks, h)
	sort.SliceStable(m.preHooks, func(i, j int) bool {
		return m.preHooks[i].Priority() > m.preHooks[j].Priority()
	})
}

// RegisterPost adds a post-dispatch hook, replacing one with the same name.
func (m *Manager) RegisterPost(h PostDispatchHook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.postHooks = replaceOrAppend(m.postHooks, h)
	sort.SliceStable(m.postHooks, func(i, j int) bool {
		return m.postHooks[i].Priority() < m.postHooks[j].Priority()
	})
}

// Register adds h to every list whose interface it implements.
func (m *Manager) Register(h Hook) {
	if pre, ok := h.(PreDispatchHook); ok {
		m.RegisterPre(pre)
	}
	if post, ok := h.(PostDispatchHook); ok {
		m.RegisterPost(post)
	}
}

// RunPreDispatch runs all pre-dispatch hooks in priority order.
// Returns false if any hook cancels the action.
func (m *Manager) RunPreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool {
	m.mu.RLock()
	hooks := slices.Clone(m.preHooks)
	m.mu.RUnlock()

	for _, h := range hooks {
		if !h.PreDispatch(action, ctx) {
			return false
		}
	}
	return true
}

// RunPostDispatch runs all post-dispatch hooks from lowest to highest priority.
func (m *Manager) RunPostDispatch(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result) {
	m.mu.RLock()
	hooks := slices.Clone(m.postHooks)
	m.mu.RUnlock()

	for _, h := range hooks {
		h.PostDispatch(action, ctx, result)
	}
}

// PreHookNames returns the names of all pre-dispatch hooks in run order.
func (m *Manager) PreHookNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return names(m.preHooks)
}

// PostHookNames returns the names of all post-dispatch hooks in run order.
func (m *Manager) PostHookNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return names(m.postHooks)
}

func replaceOrAppend[H Hook](hooks []H, h H) []H {
	for i, existing := range hooks {
		if existing.Name() == h.Name() {
			hooks[i] = h
			return hooks
		}
	}
	return append(hooks, h)
}

func names[H Hook](hooks []H) []string {
	out := make([]string, len(hooks))
	for i, h := range hooks {
		out[i] = h.Name()
	}
	return out
}

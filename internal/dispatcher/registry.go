package dispatcher

import (
	"sort"
	"sync"

	"github.com/dshills/markstyle/internal/dispatcher/handler"
)

// Registry holds handlers bound to one exact action name, such as
// "file.save". Namespaced actions go through the Router first.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string][]handler.Handler // highest priority first
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string][]handler.Handler),
	}
}

// Register adds h for actionName. Handlers of equal priority keep
// registration order.
func (r *Registry) Register(actionName string, h handler.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	handlers := append(r.handlers[actionName], h)
	sort.SliceStable(handlers, func(i, j int) bool {
		return handlers[i].Priority() > handlers[j].Priority()
	})
	r.handlers[actionName] = handlers
}

// Get returns the highest priority handler for actionName, or nil.
func (r *Registry) Get(actionName string) handler.Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if handlers := r.handlers[actionName]; len(handlers) > 0 {
		return handlers[0]
	}
	return nil
}

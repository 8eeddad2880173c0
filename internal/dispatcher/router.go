package dispatcher

import (
	"strings"
	"sync"

	"github.com/dshills/markstyle/internal/dispatcher/handler"
)

// Router routes actions to namespace handlers by the prefix before the
// first dot.
type Router struct {
	mu sync.RWMutex

	// namespaces maps "markdown" to the handler of "markdown.*".
	namespaces map[string]handler.NamespaceHandler
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{
		namespaces: make(map[string]handler.NamespaceHandler),
	}
}

// RegisterNamespace installs h for every action in namespace, replacing
// any previous handler.
func (r *Router) RegisterNamespace(namespace string, h handler.NamespaceHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.namespaces[namespace] = h
}

// Route returns the handler for actionName, or nil when its namespace is
// unknown or the namespace handler declines it.
func (r *Router) Route(actionName string) handler.Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if h, ok := r.namespaces[extractNamespace(actionName)]; ok && h.CanHandle(actionName) {
		return handler.NewNamespaceAdapter(h)
	}
	return nil
}

// extractNamespace returns "markdown" for "markdown.toggleBold" and ""
// when there is no dot.
func extractNamespace(actionName string) string {
	ns, _, ok := strings.Cut(actionName, ".")
	if !ok {
		return ""
	}
	return ns
}

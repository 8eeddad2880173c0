package input

// ActionSource indicates the origin of an action.
type ActionSource uint8

const (
	// SourceKeyboard indicates the action came from a key binding.
	SourceKeyboard ActionSource = iota
	// SourcePlugin indicates the action came from a Lua plugin.
	SourcePlugin
	// SourceCLI indicates the action came from the command line.
	SourceCLI
	// SourceAPI indicates the action came from a direct API call.
	SourceAPI
)

// String returns a string representation of the action source.
func (s ActionSource) String() string {
	switch s {
	case SourceKeyboard:
		return "keyboard"
	case SourcePlugin:
		return "plugin"
	case SourceCLI:
		return "cli"
	case SourceAPI:
		return "api"
	default:
		return "unknown"
	}
}

// ActionArgs holds arguments for an action.
type ActionArgs struct {
	// Text is a free-form argument, such as a style name.
	Text string

	// Extra holds additional key-value pairs, typically copied from a
	// binding's Args.
	Extra map[string]any
}

// Get retrieves a value from Extra.
func (a ActionArgs) Get(key string) (any, bool) {
	if a.Extra == nil {
		return nil, false
	}
	v, ok := a.Extra[key]
	return v, ok
}

// GetString retrieves a string value from Extra.
func (a ActionArgs) GetString(key string) string {
	if v, ok := a.Get(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetInt retrieves an int value from Extra.
func (a ActionArgs) GetInt(key string) int {
	if v, ok := a.Get(key); ok {
		switch n := v.(type) {
		case int:
			return n
		case int64:
			return int(n)
		case float64:
			return int(n)
		}
	}
	return 0
}

// GetBool retrieves a bool value from Extra.
func (a ActionArgs) GetBool(key string) bool {
	if v, ok := a.Get(key); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

// Action represents a command to be executed by the dispatcher.
type Action struct {
	// Name is the command identifier (e.g., "markdown.toggleBold").
	Name string

	// Args contains command-specific arguments.
	Args ActionArgs

	// Source indicates where this action originated.
	Source ActionSource

	// Count is the repeat count. Zero means once.
	Count int
}

// NewAction creates an action from the given source.
func NewAction(name string, source ActionSource) Action {
	return Action{Name: name, Source: source}
}

// WithCount returns a copy of the action with the specified count.
func (a Action) WithCount(count int) Action {
	a.Count = count
	return a
}

// WithText returns a copy of the action with the text argument set.
func (a Action) WithText(text string) Action {
	a.Args.Text = text
	return a
}

// WithArg returns a copy of the action with an extra argument added.
// The Extra map is copied so the original action is unchanged.
func (a Action) WithArg(key string, value any) Action {
	extra := make(map[string]any, len(a.Args.Extra)+1)
	for k, v := range a.Args.Extra {
		extra[k] = v
	}
	extra[key] = value
	a.Args.Extra = extra
	return a
}

// Package generator models the host site-generator boundary: the settings
// and shared build context handed to plugins, and the initialization signal
// plugins subscribe to. The real generator owns the page lifecycle; this
// package only reproduces the slice of it that plugins see.
package generator

// Generator carries the per-run state a plugin interacts with.
type Generator struct {
	// Settings is the site configuration, keyed by setting name.
	Settings map[string]any
	// Context is the shared build context read by the template stage.
	// Plugins publish their output here.
	Context map[string]any

	initFns []func(*Generator)
}

// New creates a generator with the given settings and an empty context.
// A nil settings map is treated as empty.
func New(settings map[string]any) *Generator {
	if settings == nil {
		settings = make(map[string]any)
	}
	return &Generator{
		Settings: settings,
		Context:  make(map[string]any),
	}
}

// ConnectInit registers fn to be invoked once per generation pass, when the
// generator fires its initialization signal.
func (g *Generator) ConnectInit(fn func(*Generator)) {
	g.initFns = append(g.initFns, fn)
}

// SignalInit fires the initialization signal, invoking the registered
// callbacks in registration order.
func (g *Generator) SignalInit() {
	for _, fn := range g.initFns {
		fn(g)
	}
}

// Setting returns the string value of a settings key. The second return is
// false when the key is absent or holds a non-string value.
func (g *Generator) Setting(key string) (string, bool) {
	v, ok := g.Settings[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

package main

import (
	"fmt"
	"slices"

	"github.com/bawdo/wherekit/plugins"
)

// plugin is an enabled transformer. String is its status line.
type plugin interface {
	plugins.Transformer
	fmt.Stringer
}

// pluginKind is a plugin the REPL can configure by name.
type pluginKind struct {
	name  string
	color string // DOT cluster colour
	parse func(args string) (plugin, error)
	label string // shown as "<label> enabled (<status>)"
}

var pluginKinds = []pluginKind{
	{name: "softdelete", color: "#CC6666", parse: parseSoftdelete, label: "Soft-delete"},
}

func lookupKind(name string) (pluginKind, bool) {
	i := slices.IndexFunc(pluginKinds, func(k pluginKind) bool { return k.name == name })
	if i < 0 {
		return pluginKind{}, false
	}
	return pluginKinds[i], true
}

// enabledPlugins holds configured plugins in the order they were first
// enabled, which is the order they apply in. Reconfiguring keeps the slot.
type enabledPlugins struct {
	order  []string
	byName map[string]plugin
}

func (e *enabledPlugins) enable(name string, p plugin) {
	if e.byName == nil {
		e.byName = make(map[string]plugin)
	}
	if _, ok := e.byName[name]; !ok {
		e.order = append(e.order, name)
	}
	e.byName[name] = p
}

// disable reports whether name was enabled.
func (e *enabledPlugins) disable(name string) bool {
	if _, ok := e.byName[name]; !ok {
		return false
	}
	delete(e.byName, name)
	e.order = slices.DeleteFunc(e.order, func(n string) bool { return n == name })
	return true
}

func (e *enabledPlugins) clear() {
	e.order, e.byName = nil, nil
}

func (e *enabledPlugins) lookup(name string) (plugin, bool) {
	p, ok := e.byName[name]
	return p, ok
}

func (e *enabledPlugins) names() []string {
	return slices.Clone(e.order)
}

func (e *enabledPlugins) transformers() []plugins.Transformer {
	out := make([]plugins.Transformer, 0, len(e.order))
	for _, n := range e.order {
		out = append(out, e.byName[n])
	}
	return out
}

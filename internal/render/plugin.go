package render

import (
	"log"

	"candlechart/internal/layout"
	"candlechart/internal/model"
	"candlechart/internal/viewport"
)

// Plugin is an extension identified by name. All capabilities beyond the
// name are optional: a plugin declares them by implementing the hook
// interfaces below, and the registry dispatches by testing for presence.
type Plugin interface {
	Name() string
}

// InstallHook runs once when the plugin is installed.
type InstallHook interface {
	OnInstall()
}

// UninstallHook runs once when the plugin is uninstalled.
type UninstallHook interface {
	OnUninstall()
}

// RenderHook runs at every render phase of every frame. Implementations
// must not schedule new renders synchronously within the same frame; this
// is advisory, not enforced.
type RenderHook interface {
	OnRender(ctx *Context)
}

// EventHook receives every normalized input event, independent of render
// phases.
type EventHook interface {
	OnEvent(ev model.Event)
}

// Context is what render hooks see at each phase.
type Context struct {
	Phase    Phase
	Surface  Surface
	Layout   layout.Layout
	Viewport *viewport.Viewport
	Theme    Theme
}

// PluginRegistry holds installed plugins in installation order.
type PluginRegistry struct {
	plugins []Plugin
	byName  map[string]Plugin
}

// NewPluginRegistry creates an empty registry.
func NewPluginRegistry() *PluginRegistry {
	return &PluginRegistry{byName: make(map[string]Plugin)}
}

// Install adds a plugin and fires its OnInstall hook. Installing a
// duplicate name is a no-op with a diagnostic.
func (r *PluginRegistry) Install(p Plugin) {
	name := p.Name()
	if _, exists := r.byName[name]; exists {
		log.Printf("[render] plugin %q already installed, ignoring", name)
		return
	}
	r.byName[name] = p
	r.plugins = append(r.plugins, p)
	if h, ok := p.(InstallHook); ok {
		h.OnInstall()
	}
}

// Uninstall removes a plugin by name and fires its OnUninstall hook.
// Unknown names are a no-op with a diagnostic.
func (r *PluginRegistry) Uninstall(name string) {
	p, exists := r.byName[name]
	if !exists {
		log.Printf("[render] plugin %q not installed, ignoring uninstall", name)
		return
	}
	delete(r.byName, name)
	for i, q := range r.plugins {
		if q == p {
			r.plugins = append(r.plugins[:i], r.plugins[i+1:]...)
			break
		}
	}
	if h, ok := p.(UninstallHook); ok {
		h.OnUninstall()
	}
}

// Len returns the number of installed plugins.
func (r *PluginRegistry) Len() int { return len(r.plugins) }

// DispatchRender fans the phase context out to every plugin with a render
// hook, in installation order.
func (r *PluginRegistry) DispatchRender(ctx *Context) {
	for _, p := range r.plugins {
		if h, ok := p.(RenderHook); ok {
			h.OnRender(ctx)
		}
	}
}

// DispatchEvent fans a normalized input event out to every plugin with an
// event hook, in installation order.
func (r *PluginRegistry) DispatchEvent(ev model.Event) {
	for _, p := range r.plugins {
		if h, ok := p.(EventHook); ok {
			h.OnEvent(ev)
		}
	}
}

package providers

import (
	"github.com/teranos/lingua/lang"
)

// RegisterAll registers every built-in provider on the registry.
// Registration order matters only for extension collisions (last wins);
// the built-ins claim disjoint extensions.
func RegisterAll(reg *lang.Registry, opts Options) {
	reg.Register(NewPython(opts))
	reg.Register(NewJavaScript(opts))
	reg.Register(NewTypeScript(opts))
	reg.Register(NewJava(opts))
	reg.Register(NewCSharp(opts))
	reg.Register(NewCpp(opts))
	reg.Register(NewGo(opts))
}

// NewDefaultRegistry creates a registry with all built-in providers.
func NewDefaultRegistry(opts Options) *lang.Registry {
	reg := lang.NewRegistry()
	RegisterAll(reg, opts)
	return reg
}

// Package registry assembles feature pipelines from plain configuration
// mappings. A Registry is an explicit object: a process may hold several
// (e.g. for test isolation) and none of the package state is global.
package registry

import (
	"maps"

	"github.com/RyanBlaney/sonido-features/algorithms/common"
	"github.com/RyanBlaney/sonido-features/logging"
)

// Kind names one of the extensible component families
type Kind string

const (
	KindScale    Kind = "scale"
	KindBank     Kind = "bank"
	KindComputer Kind = "computer"
	KindPre      Kind = "pre"
	KindPost     Kind = "post"
)

// Constructor builds a component from validated parameters. Constructors may
// resolve nested components (a bank's scale, a computer's bank) through the
// registry they were invoked on.
type Constructor func(r *Registry, p *Params) (any, error)

// Registry maps (kind, name) pairs to component constructors.
type Registry struct {
	constructors map[Kind]map[string]Constructor
	logger       logging.Logger
}

// New creates an empty registry
func New() *Registry {
	return &Registry{
		constructors: make(map[Kind]map[string]Constructor),
		logger: logging.WithFields(logging.Fields{
			"component": "registry",
		}),
	}
}

// Register associates a name with a constructor for the given kind.
// Registering the same (kind, name) twice is a ConfigError.
func (r *Registry) Register(kind Kind, name string, ctor Constructor) error {
	byName, ok := r.constructors[kind]
	if !ok {
		byName = make(map[string]Constructor)
		r.constructors[kind] = byName
	}
	if _, exists := byName[name]; exists {
		return common.Configf("registry: %s %q is already registered", kind, name)
	}
	byName[name] = ctor
	return nil
}

// Names returns the registered names for a kind, in no particular order
func (r *Registry) Names(kind Kind) []string {
	byName := r.constructors[kind]
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	return names
}

// Construct resolves the required "name" key of config and invokes the
// matching constructor with the remaining keys. Unknown component names and
// unrecognized or ill-typed parameters are ConfigErrors naming the offender.
func (r *Registry) Construct(kind Kind, config map[string]any) (any, error) {
	rest := make(map[string]any, len(config))
	maps.Copy(rest, config)

	rawName, ok := rest["name"]
	if !ok {
		return nil, common.Configf("registry: %s configuration is missing required key \"name\"", kind)
	}
	delete(rest, "name")

	name, ok := rawName.(string)
	if !ok {
		return nil, common.Configf("registry: %s key \"name\" must be a string, got %T", kind, rawName)
	}

	ctor, ok := r.constructors[kind][name]
	if !ok {
		return nil, common.Configf("registry: unknown %s %q", kind, name)
	}

	p := newParams(string(kind)+" "+name, rest)
	component, err := ctor(r, p)
	if err != nil {
		return nil, err
	}

	if leftover := p.unconsumed(); len(leftover) > 0 {
		return nil, common.Configf("registry: %s %q does not recognize parameter %q", kind, name, leftover[0])
	}

	r.logger.Debug("component constructed", logging.Fields{
		"kind": string(kind),
		"name": name,
	})
	return component, nil
}

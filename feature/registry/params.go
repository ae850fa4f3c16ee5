package registry

import (
	"math"
	"sort"

	"github.com/RyanBlaney/sonido-features/algorithms/common"
)

// Params wraps the constructor parameters of one component configuration.
// Every accessor records the key it consumed; after construction the registry
// rejects configurations with unconsumed keys, naming the offender.
type Params struct {
	component string
	values    map[string]any
	consumed  map[string]bool
}

func newParams(component string, values map[string]any) *Params {
	return &Params{
		component: component,
		values:    values,
		consumed:  make(map[string]bool),
	}
}

// Has reports whether the key is present
func (p *Params) Has(key string) bool {
	_, ok := p.values[key]
	return ok
}

// String reads an optional string parameter
func (p *Params) String(key, fallback string) (string, error) {
	raw, ok := p.values[key]
	if !ok {
		return fallback, nil
	}
	p.consumed[key] = true

	s, ok := raw.(string)
	if !ok {
		return "", common.Configf("%s: parameter %q must be a string, got %T", p.component, key, raw)
	}
	return s, nil
}

// Int reads an optional integer parameter. YAML and JSON decoders deliver
// numbers as several concrete types; integral floats are accepted.
func (p *Params) Int(key string, fallback int) (int, error) {
	raw, ok := p.values[key]
	if !ok {
		return fallback, nil
	}
	p.consumed[key] = true

	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case uint64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, common.Configf("%s: parameter %q must be an integer, got %v", p.component, key, v)
		}
		return int(v), nil
	default:
		return 0, common.Configf("%s: parameter %q must be an integer, got %T", p.component, key, raw)
	}
}

// Float reads an optional float parameter
func (p *Params) Float(key string, fallback float64) (float64, error) {
	raw, ok := p.values[key]
	if !ok {
		return fallback, nil
	}
	p.consumed[key] = true

	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	default:
		return 0, common.Configf("%s: parameter %q must be a number, got %T", p.component, key, raw)
	}
}

// Bool reads an optional boolean parameter
func (p *Params) Bool(key string, fallback bool) (bool, error) {
	raw, ok := p.values[key]
	if !ok {
		return fallback, nil
	}
	p.consumed[key] = true

	b, ok := raw.(bool)
	if !ok {
		return false, common.Configf("%s: parameter %q must be a boolean, got %T", p.component, key, raw)
	}
	return b, nil
}

// Component reads a nested component configuration: either a plain name
// string (shorthand for {"name": s}) or a full mapping.
func (p *Params) Component(key string) (map[string]any, error) {
	raw, ok := p.values[key]
	if !ok {
		return nil, nil
	}
	p.consumed[key] = true

	switch v := raw.(type) {
	case string:
		return map[string]any{"name": v}, nil
	case map[string]any:
		return v, nil
	default:
		return nil, common.Configf("%s: parameter %q must be a name or a mapping, got %T", p.component, key, raw)
	}
}

// unconsumed returns the keys no accessor touched, sorted for stable errors
func (p *Params) unconsumed() []string {
	var keys []string
	for key := range p.values {
		if !p.consumed[key] {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

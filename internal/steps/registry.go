package steps

import (
	"errors"
	"fmt"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// ErrUnknownStep is returned when a step name is not registered.
var ErrUnknownStep = errors.New("unknown step")

// Registry holds steps in the order they run.
type Registry struct {
	steps []Step
	names mapset.Set[string]
}

// NewRegistry returns a registry holding steps in the given order.
func NewRegistry(steps ...Step) *Registry {
	r := &Registry{names: mapset.NewThreadUnsafeSet[string]()}
	for _, s := range steps {
		r.Register(s)
	}
	return r
}

// Default returns the registry of every step in canonical order.
func Default() *Registry {
	return NewRegistry(
		ElectronBuilder(),
		ElectronVite(),
		RemoteVite(),
		Manifest(),
		Icons(),
	)
}

// Register appends a step. A step with an already registered name replaces
// the earlier one in place.
func (r *Registry) Register(s Step) {
	if r.names.Contains(s.Name()) {
		for i, existing := range r.steps {
			if existing.Name() == s.Name() {
				r.steps[i] = s
				return
			}
		}
	}
	r.names.Add(s.Name())
	r.steps = append(r.steps, s)
}

// Get returns a step by name.
func (r *Registry) Get(name string) (Step, error) {
	for _, s := range r.steps {
		if s.Name() == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownStep, name)
}

// List returns all registered steps in run order.
func (r *Registry) List() []Step {
	return append([]Step(nil), r.steps...)
}

// Select returns the named steps in run order. No names selects every step.
func (r *Registry) Select(names []string) ([]Step, error) {
	if len(names) == 0 {
		return r.List(), nil
	}
	wanted := mapset.NewThreadUnsafeSet[string]()
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if !r.names.Contains(name) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownStep, name)
		}
		wanted.Add(name)
	}
	var selected []Step
	for _, s := range r.steps {
		if wanted.Contains(s.Name()) {
			selected = append(selected, s)
		}
	}
	return selected, nil
}

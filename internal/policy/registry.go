// Package policy provides the paddle control policies and a global
// registry for them. Policies register themselves in init() functions,
// allowing the CLI to list and instantiate them without hardcoded
// dependencies. The set is closed: follow, column and row.
package policy

import (
	"fmt"
	"sort"
	"sync"

	"github.com/dacebt/gh-brickbreak/internal/sim"
)

// Info contains metadata about a registered policy.
type Info struct {
	ID          string
	Description string
}

// Factory is a function that creates a fresh policy instance. Policies
// carry per-run cursor state, so every simulation run needs its own.
type Factory func() sim.Policy

var (
	factories    = make(map[string]Factory)
	descriptions = make(map[string]string)
	mu           sync.RWMutex
)

// Register adds a policy factory to the registry.
// Typically called from a policy's init() function.
// Panics if a policy with the same ID is already registered.
func Register(id, description string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("policy: policy %q already registered", id))
	}

	factories[id] = f
	descriptions[id] = description
}

// List returns information about all registered policies, sorted by ID.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(factories))
	for id := range factories {
		result = append(result, Info{
			ID:          id,
			Description: descriptions[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new policy by its ID.
// Returns an error if the policy ID is not registered.
func Create(id string) (sim.Policy, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("policy: unknown policy %q", id)
	}

	return f(), nil
}

// Exists checks if a policy with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}

// Package registry keeps the set of loaded component definitions and
// notifies watchers when definitions are added, updated or removed.
package registry

import (
	"sort"
	"sync"
	"time"

	"github.com/protofab/protofab/internal/types"
)

// DefinitionRegistry manages all loaded component definitions
type DefinitionRegistry struct {
	definitions map[string]*types.CustomComponentDefinition
	mutex       sync.RWMutex
	watchers    []chan types.DefinitionEvent
}

// NewDefinitionRegistry creates a new definition registry
func NewDefinitionRegistry() *DefinitionRegistry {
	return &DefinitionRegistry{
		definitions: make(map[string]*types.CustomComponentDefinition),
		watchers:    make([]chan types.DefinitionEvent, 0),
	}
}

// Register adds or updates a definition in the registry
func (r *DefinitionRegistry) Register(def *types.CustomComponentDefinition) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	eventType := types.DefinitionAdded
	if _, exists := r.definitions[def.Name]; exists {
		eventType = types.DefinitionUpdated
	}

	r.definitions[def.Name] = def

	r.notify(types.DefinitionEvent{
		Type:       eventType,
		Definition: def,
		Timestamp:  time.Now(),
	})
}

// Get retrieves a definition by name
func (r *DefinitionRegistry) Get(name string) (*types.CustomComponentDefinition, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	def, exists := r.definitions[name]
	return def, exists
}

// GetAll returns all registered definitions
func (r *DefinitionRegistry) GetAll() map[string]*types.CustomComponentDefinition {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make(map[string]*types.CustomComponentDefinition, len(r.definitions))
	for name, def := range r.definitions {
		result[name] = def
	}
	return result
}

// Names returns the names of all registered definitions, sorted.
func (r *DefinitionRegistry) Names() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	names := make([]string, 0, len(r.definitions))
	for name := range r.definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Remove removes a definition from the registry
func (r *DefinitionRegistry) Remove(name string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	def, exists := r.definitions[name]
	if !exists {
		return
	}

	delete(r.definitions, name)

	r.notify(types.DefinitionEvent{
		Type:       types.DefinitionRemoved,
		Definition: def,
		Timestamp:  time.Now(),
	})
}

// Watch returns a channel that receives definition events
func (r *DefinitionRegistry) Watch() <-chan types.DefinitionEvent {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	ch := make(chan types.DefinitionEvent, 100)
	r.watchers = append(r.watchers, ch)
	return ch
}

// UnWatch removes a watcher channel and closes it
func (r *DefinitionRegistry) UnWatch(ch <-chan types.DefinitionEvent) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i, watcher := range r.watchers {
		if watcher == ch {
			close(watcher)
			r.watchers = append(r.watchers[:i], r.watchers[i+1:]...)
			break
		}
	}
}

// Count returns the number of registered definitions
func (r *DefinitionRegistry) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.definitions)
}

// notify delivers an event to every watcher. Must be called with the
// mutex held.
func (r *DefinitionRegistry) notify(event types.DefinitionEvent) {
	for _, watcher := range r.watchers {
		select {
		case watcher <- event:
		default:
			// Skip if channel is full
		}
	}
}

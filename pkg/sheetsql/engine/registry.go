package engine

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]func(*slog.Logger) Store)
)

// Register adds a store factory to the registry.
// Called by store implementations in their init() functions.
func Register(name string, factory func(*slog.Logger) Store) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// Get retrieves a store factory by name.
func Get(name string) (func(*slog.Logger) Store, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[name]
	return f, ok
}

// ListStores returns all registered store names (sorted).
func ListStores() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a store name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[name]
	return ok
}

// UnknownStoreError is returned when an unknown store name is requested.
type UnknownStoreError struct {
	Name      string
	Available []string
}

func (e *UnknownStoreError) Error() string {
	return fmt.Sprintf("unknown engine %q (available: %v)", e.Name, e.Available)
}

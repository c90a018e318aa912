package core

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registry   = make(map[string]EntityDefinition)
	registryMu sync.RWMutex
)

// Register adds an entity definition to the registry.
// Panics if the key is taken or the definition is internally inconsistent.
func Register(def EntityDefinition) {
	if err := def.validate(); err != nil {
		panic(fmt.Sprintf("invalid entity %q: %v", def.Info.Key, err))
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[def.Info.Key]; exists {
		panic(fmt.Sprintf("entity already registered: %s", def.Info.Key))
	}
	registry[def.Info.Key] = def
}

// Get returns an entity definition by key.
func Get(key string) (EntityDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[key]
	return def, ok
}

// All returns every registered entity in navigation order.
func All() []EntityDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]EntityDefinition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Info.Order != result[j].Info.Order {
			return result[i].Info.Order < result[j].Info.Order
		}
		return result[i].Info.Key < result[j].Info.Key
	})
	return result
}

// Count returns the number of registered entities.
func Count() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Clear removes all registered entities.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]EntityDefinition)
}

func (d EntityDefinition) validate() error {
	if d.Info.Key == "" {
		return fmt.Errorf("missing key")
	}
	if n := len(d.KeyFields); n < 1 || n > 2 {
		return fmt.Errorf("want 1 or 2 key fields, got %d", n)
	}
	if len(d.Columns) < len(d.KeyFields) {
		return fmt.Errorf("list columns must start with the %d key columns", len(d.KeyFields))
	}
	for i, k := range d.KeyFields {
		if d.Columns[i].Name != k {
			return fmt.Errorf("list column %d is %q, want key %q", i, d.Columns[i].Name, k)
		}
	}

	lookups := make(map[string]bool, len(d.Lookups))
	for _, l := range d.Lookups {
		lookups[l.Name] = true
	}
	for _, f := range d.Fields {
		if f.Type == FieldRef && !lookups[f.Lookup] {
			return fmt.Errorf("field %s references unknown lookup %q", f.Name, f.Lookup)
		}
	}

	// Procedure signatures follow directly from the key and field lists.
	want := map[Op]int{
		OpCreate: len(d.Fields),
		OpUpdate: len(d.KeyFields) + len(d.Fields),
		OpDelete: len(d.KeyFields),
	}
	for op, proc := range d.Procedures {
		if proc.Arity() != want[op] {
			return fmt.Errorf("%s procedure %s takes %d params, want %d", op, proc.Name, proc.Arity(), want[op])
		}
	}
	return nil
}

package feature

import (
	"maps"
	"slices"

	"k8s.io/apimachinery/pkg/labels"
)

// NoAttributeSet is returned by Attribute when the requested attribute is
// absent.
const NoAttributeSet = "NULL"

// Attributes maps attribute names to values. Names are case-sensitive. A nil
// Attributes is valid for reads; the map is allocated on first write.
type Attributes map[string]string

// Get returns the value for name, or NoAttributeSet.
func (a Attributes) Get(name string) string {
	if v, ok := a[name]; ok {
		return v
	}
	return NoAttributeSet
}

// Lookup returns the value for name and whether it is present.
func (a Attributes) Lookup(name string) (string, bool) {
	v, ok := a[name]
	return v, ok
}

// GetOrInsert returns the value for name, creating it with an empty value
// first if it is absent.
func (a *Attributes) GetOrInsert(name string) string {
	if v, ok := (*a)[name]; ok {
		return v
	}
	a.Set(name, "")
	return ""
}

// Set creates or replaces the value for name.
func (a *Attributes) Set(name, value string) {
	if *a == nil {
		*a = make(Attributes)
	}
	(*a)[name] = value
}

// Remove deletes name. Removing an absent name is a no-op.
func (a Attributes) Remove(name string) {
	delete(a, name)
}

// Names returns the attribute names in sorted order.
func (a Attributes) Names() []string {
	return slices.Sorted(maps.Keys(a))
}

// Clone returns an independent copy. Cloning an empty map yields nil.
func (a Attributes) Clone() Attributes {
	if len(a) == 0 {
		return nil
	}
	return maps.Clone(a)
}

// Labels exposes the attributes to label selectors. The returned set shares
// storage with a and must not be modified.
func (a Attributes) Labels() labels.Set {
	return labels.Set(a)
}

package classifier

// Registry maps a classifier name to its Classifier, preserving the
// order names were registered in -- the driver iterates Ordered() to
// produce deterministic, configuration-driven Stage1Record field order.
type Registry struct {
	order   []string
	byName  map[string]Classifier
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Classifier)}
}

// Register adds c under its own Name(), in call order. Registering the
// same name twice replaces the Classifier but keeps its original
// position.
func (r *Registry) Register(c Classifier) {
	name := c.Name()
	if _, ok := r.byName[name]; !ok {
		r.order = append(r.order, name)
	}
	r.byName[name] = c
}

// Lookup returns the Classifier registered under name, or false.
func (r *Registry) Lookup(name string) (Classifier, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// Ordered returns the registered classifiers, skipping any name in
// names that was never registered, in the order names lists them. This
// lets the driver project the registry onto a configured lids list.
func (r *Registry) Ordered(names []string) []Classifier {
	out := make([]Classifier, 0, len(names))
	for _, n := range names {
		if c, ok := r.byName[n]; ok {
			out = append(out, c)
		}
	}
	return out
}

package cards

import "sort"

// StaticCatalog is an in-memory Catalog keyed by card name.
type StaticCatalog struct {
	byName map[string]Template
	names  []string
}

// NewStaticCatalog builds a catalog. Later templates replace earlier ones
// with the same name.
func NewStaticCatalog(templates ...Template) *StaticCatalog {
	c := &StaticCatalog{byName: make(map[string]Template, len(templates))}
	for _, t := range templates {
		c.Add(t)
	}
	return c
}

// Add registers a template.
func (c *StaticCatalog) Add(t Template) {
	if _, ok := c.byName[t.Name]; !ok {
		c.names = append(c.names, t.Name)
		sort.Strings(c.names)
	}
	c.byName[t.Name] = t
}

// All returns templates ordered by name.
func (c *StaticCatalog) All() []Template {
	out := make([]Template, 0, len(c.names))
	for _, n := range c.names {
		out = append(out, c.byName[n])
	}
	return out
}

// Lookup finds a template by name.
func (c *StaticCatalog) Lookup(name string) (Template, bool) {
	t, ok := c.byName[name]
	return t, ok
}

// Len returns the number of templates.
func (c *StaticCatalog) Len() int {
	return len(c.names)
}

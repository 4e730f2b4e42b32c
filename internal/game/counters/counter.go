// Package counters keeps named multisets, used for table-wide modifiers
// whose strength scales with how many times they were chosen.
package counters

// Counter is one named entry of the multiset.
type Counter struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// NewCounter creates a counter. Counts below one are raised to one.
func NewCounter(name string, count int) *Counter {
	if count <= 0 {
		count = 1
	}
	return &Counter{
		Name:  name,
		Count: count,
	}
}

// Add adds the specified amount to the counter.
func (c *Counter) Add(amount int) {
	if amount > 0 {
		c.Count += amount
	}
}

// Copy creates a deep copy of the counter.
func (c *Counter) Copy() *Counter {
	return &Counter{
		Name:  c.Name,
		Count: c.Count,
	}
}

// Counters manages a collection of counters.
type Counters struct {
	Counters map[string]*Counter `json:"counters"`
}

// NewCounters creates an empty collection.
func NewCounters() *Counters {
	return &Counters{
		Counters: make(map[string]*Counter),
	}
}

// AddCounter merges the counter into the collection.
func (cs *Counters) AddCounter(counter *Counter) {
	if counter == nil {
		return
	}
	if cs.Counters == nil {
		cs.Counters = make(map[string]*Counter)
	}
	if existing, ok := cs.Counters[counter.Name]; ok {
		existing.Add(counter.Count)
	} else {
		cs.Counters[counter.Name] = counter.Copy()
	}
}

// Increment adds one of the named counter.
func (cs *Counters) Increment(name string) {
	cs.AddCounter(NewCounter(name, 1))
}

// GetCount returns the count of the named counter.
func (cs *Counters) GetCount(name string) int {
	if cs == nil {
		return 0
	}
	if counter, ok := cs.Counters[name]; ok {
		return counter.Count
	}
	return 0
}

// Copy creates a deep copy of the collection.
func (cs *Counters) Copy() *Counters {
	cp := NewCounters()
	if cs == nil {
		return cp
	}
	for name, counter := range cs.Counters {
		cp.Counters[name] = counter.Copy()
	}
	return cp
}

package mana

// Pool is a player's mana: the current amount and the per-turn maximum,
// which grows each turn up to Cap.
type Pool struct {
	Current int `json:"mana"`
	Max     int `json:"max_mana"`
	Cap     int `json:"mana_cap"`
}

// NewPool creates an empty pool with the given ceiling.
func NewPool(limit int) Pool {
	return Pool{Cap: limit}
}

// Add adds mana without exceeding the maximum.
func (p *Pool) Add(amount int) {
	if amount <= 0 {
		return
	}
	p.Current = min(p.Current+amount, p.Max)
}

// Refill sets current mana to the maximum.
func (p *Pool) Refill() {
	p.Current = p.Max
}

// IncreaseMax raises the maximum, bounded by Cap.
func (p *Pool) IncreaseMax(amount int) {
	if amount <= 0 {
		return
	}
	p.Max += amount
	if p.Cap > 0 && p.Max > p.Cap {
		p.Max = p.Cap
	}
}

// DecreaseMax lowers the maximum and clamps current mana to it.
func (p *Pool) DecreaseMax(amount int) {
	if amount <= 0 {
		return
	}
	p.Max = max(p.Max-amount, 0)
	p.Clamp()
}

// Clamp keeps current mana within [0, Max].
func (p *Pool) Clamp() {
	p.Current = max(min(p.Current, p.Max), 0)
}

// Drain empties the pool and returns what was in it.
func (p *Pool) Drain() int {
	n := p.Current
	p.Current = 0
	return n
}

// Source is a secondary reserve drawn on after the pool is exhausted.
type Source interface {
	// Available reports how much the source can still supply.
	Available() int
	// Take removes up to n and returns the amount actually supplied.
	Take(n int) int
}

// Available sums the pool and every source.
func (p *Pool) Available(sources ...Source) int {
	total := p.Current
	for _, s := range sources {
		total += s.Available()
	}
	return total
}

// Spend pays amount from the pool first and then from sources in order.
// It returns the part that could not be paid; nothing goes negative.
func (p *Pool) Spend(amount int, sources ...Source) int {
	if amount <= 0 {
		return 0
	}
	fromPool := min(amount, p.Current)
	p.Current -= fromPool
	remaining := amount - fromPool
	for _, s := range sources {
		if remaining == 0 {
			break
		}
		remaining -= s.Take(remaining)
	}
	return remaining
}

// Bank is a Source backed by an integer counter, such as mana stored on an artifact.
type Bank struct {
	Amount *int
}

// Available implements Source.
func (b Bank) Available() int {
	if b.Amount == nil {
		return 0
	}
	return max(*b.Amount, 0)
}

// Take implements Source.
func (b Bank) Take(n int) int {
	taken := min(n, b.Available())
	if taken > 0 {
		*b.Amount -= taken
	}
	return taken
}

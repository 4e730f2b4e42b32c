package rules

import "fmt"

// DefaultMaxDepth bounds nested resolutions such as leave-play effects that
// kill further mobs.
const DefaultMaxDepth = 16

// ResolutionContext tracks what is currently resolving so that cascading
// effects cannot recurse forever.
type ResolutionContext struct {
	resolving []string
	maxDepth  int
}

// NewResolutionContext creates a context with the given depth limit.
func NewResolutionContext(maxDepth int) *ResolutionContext {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &ResolutionContext{
		resolving: make([]string, 0, 8),
		maxDepth:  maxDepth,
	}
}

// Begin marks the start of resolving an item.
func (rc *ResolutionContext) Begin(id string) error {
	if len(rc.resolving) >= rc.maxDepth {
		return fmt.Errorf("maximum resolution depth (%d) exceeded", rc.maxDepth)
	}
	rc.resolving = append(rc.resolving, id)
	return nil
}

// End marks the end of resolving an item.
func (rc *ResolutionContext) End(id string) error {
	if len(rc.resolving) == 0 {
		return fmt.Errorf("no item currently resolving")
	}
	current := rc.resolving[len(rc.resolving)-1]
	if current != id {
		return fmt.Errorf("resolution mismatch: expected %s, got %s", current, id)
	}
	rc.resolving = rc.resolving[:len(rc.resolving)-1]
	return nil
}

// IsResolving reports whether id is somewhere in the chain.
func (rc *ResolutionContext) IsResolving(id string) bool {
	for _, r := range rc.resolving {
		if r == id {
			return true
		}
	}
	return false
}

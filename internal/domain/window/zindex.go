package window

// ZAllocator hands out stacking values. Each allocation is strictly greater
// than every value handed out before it.
type ZAllocator struct {
	current int
}

// NewZAllocator creates an allocator whose first allocation is base+1.
func NewZAllocator(base int) *ZAllocator {
	return &ZAllocator{current: base}
}

// AllocateTopZIndex advances the counter and returns the new top value.
func (a *ZAllocator) AllocateTopZIndex() int {
	a.current++
	return a.current
}

// Current returns the most recently allocated value (or the base).
func (a *ZAllocator) Current() int {
	return a.current
}

package buffer

// Buffer defines a simple float buffer that acts like a constant size queue
type Buffer struct {
	size   int
	values []float64
}

// NewBuffer creates a new buffer.
func NewBuffer(size int) *Buffer {
	if size < 1 {
		size = 1
	}
	return &Buffer{
		size:   size,
		values: make([]float64, 0, size),
	}
}

// Push adds an element to the buffer.
// It returns the evicted element, if the buffer was already full.
func (b *Buffer) Push(x float64) (float64, bool) {
	b.values = append(b.values, x)
	if len(b.values) > b.size {
		value := b.values[0]
		b.values = b.values[1:]
		return value, true
	}
	return 0, false
}

// Fill pushes all the given elements in order.
// It returns the number of evicted elements.
func (b *Buffer) Fill(xx ...float64) int {
	var evicted int
	for _, x := range xx {
		if _, ok := b.Push(x); ok {
			evicted++
		}
	}
	return evicted
}

// Get returns the buffer elements in the order they were added.
func (b *Buffer) Get() []float64 {
	vv := make([]float64, len(b.values))
	copy(vv, b.values)
	return vv
}

// Last returns the last element in the buffer.
func (b *Buffer) Last() (float64, bool) {
	size := len(b.values)
	if size > 0 {
		return b.values[size-1], true
	}
	return 0, false
}

// Len returns the current length of the buffer.
func (b *Buffer) Len() int {
	return len(b.values)
}

// Cap returns the capacity of the buffer.
func (b *Buffer) Cap() int {
	return b.size
}

// Reverse reverses the given slice in place and returns it.
func Reverse(vv []float64) []float64 {
	for i, j := 0, len(vv)-1; i < j; i, j = i+1, j-1 {
		vv[i], vv[j] = vv[j], vv[i]
	}
	return vv
}

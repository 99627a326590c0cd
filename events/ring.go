package events

func newRing[T any](capacity int) *ring[T] {
	return &ring[T]{data: make([]T, capacity)}
}

// ring is an insert only buffer that keeps the last cap() items.
type ring[T any] struct {
	data  []T
	start int
	size  int
}

func (r *ring[T]) cap() int {
	return len(r.data)
}

func (r *ring[T]) insert(val T) {
	if len(r.data) == 0 {
		return
	}
	if r.size < len(r.data) {
		r.data[(r.start+r.size)%len(r.data)] = val
		r.size++
		return
	}
	r.data[r.start] = val
	r.start = (r.start + 1) % len(r.data)
}

// iterate from the oldest to the newest item until fn returns false.
func (r *ring[T]) iterate(fn func(val T) bool) {
	for i := 0; i < r.size; i++ {
		if !fn(r.data[(r.start+i)%len(r.data)]) {
			return
		}
	}
}

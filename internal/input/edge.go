package input

// Edge holds the previous and current sample of one signal.
type Edge[T any] struct {
	prev, cur T
	active    func(T) bool
}

func NewEdge[T any](initial T, active func(T) bool) Edge[T] {
	return Edge[T]{prev: initial, cur: initial, active: active}
}

func (e *Edge[T]) Set(v T)        { e.cur = v }
func (e *Edge[T]) Current() T     { return e.cur }
func (e *Edge[T]) Previous() T    { return e.prev }
func (e *Edge[T]) Advance()       { e.prev = e.cur }
func (e *Edge[T]) IsActive() bool { return e.active(e.cur) }

func (e *Edge[T]) Rising() bool {
	return !e.active(e.prev) && e.active(e.cur)
}

func (e *Edge[T]) Falling() bool {
	return e.active(e.prev) && !e.active(e.cur)
}

func floatActive(v float64) bool { return v > 0 }
func boolActive(v bool) bool     { return v }
func axisActive(v float64) bool  { return v != 0 }

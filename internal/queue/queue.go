// Package queue contains FIFO queues used by breadth-first traversals of grammars and imports.
package queue

const minSize = 3

// Queue is a ring buffer FIFO queue.
type Queue[T any] struct {
	items      []T
	size       int
	head, tail int
	zero       T
}

func New[T any](items ...T) *Queue[T] {
	result := &Queue[T]{}
	l := len(items)
	result.tail = l
	result.size = computeSize(l)
	result.items = make([]T, result.size+1)
	copy(result.items, items)
	return result
}

func (q *Queue[T]) IsEmpty() bool {
	return q.head == q.tail
}

func (q *Queue[T]) Len() int {
	return (q.tail + q.size + 1 - q.head) & q.size
}

// Items returns queued items in FIFO order.
func (q *Queue[T]) Items() []T {
	l := q.Len()
	result := make([]T, l)
	if q.tail >= q.head {
		copy(result, q.items[q.head:q.tail])
	} else {
		copy(result, q.items[q.head:q.size+1])
		copy(result[q.size-q.head+1:], q.items[:q.tail])
	}
	return result
}

func (q *Queue[T]) Append(items ...T) *Queue[T] {
	for _, item := range items {
		q.items[q.tail] = item
		q.tail = (q.tail + 1) & q.size
		if q.tail == q.head {
			q.grow()
		}
	}
	return q
}

// First removes and returns the oldest item, returns false if the queue is empty.
func (q *Queue[T]) First() (T, bool) {
	if q.head == q.tail {
		return q.zero, false
	}

	result := q.items[q.head]
	q.items[q.head] = q.zero
	q.head = (q.head + 1) & q.size

	if q.head == 0 && q.size > minSize && (q.tail<<2) <= q.size {
		q.size = computeSize(q.tail << 1)
		items := make([]T, q.size+1)
		copy(items, q.items[:q.tail])
		q.items = items
	}

	return result, true
}

func computeSize(length int) (size int) {
	if length <= minSize {
		size = minSize
	} else {
		length |= length >> 1
		length |= length >> 2
		length |= length >> 4
		length |= length >> 8
		size = length | length>>16
	}
	return
}

func (q *Queue[T]) grow() {
	items := make([]T, (q.size+1)<<1)
	copy(items, q.items[q.head:])
	if q.head > 0 {
		copy(items[q.size+1-q.head:], q.items[0:q.head])
	}
	q.head = 0
	q.tail = q.size + 1
	q.size = q.size + q.tail
	q.items = items
}

// Unique is a work queue that accepts each value at most once during its lifetime,
// so a traversal over a cyclic graph visits every node once.
type Unique[T comparable] struct {
	queue *Queue[T]
	seen  map[T]bool
}

func NewUnique[T comparable](items ...T) *Unique[T] {
	u := &Unique[T]{queue: New[T](), seen: make(map[T]bool)}
	for _, item := range items {
		u.Add(item)
	}
	return u
}

// Add queues item unless it has been added before, returns true if the item was queued.
func (u *Unique[T]) Add(item T) bool {
	if u.seen[item] {
		return false
	}

	u.seen[item] = true
	u.queue.Append(item)
	return true
}

// Next removes and returns the oldest queued item.
func (u *Unique[T]) Next() (T, bool) {
	return u.queue.First()
}

// Seen reports whether item has ever been added.
func (u *Unique[T]) Seen(item T) bool {
	return u.seen[item]
}

func (u *Unique[T]) IsEmpty() bool {
	return u.queue.IsEmpty()
}

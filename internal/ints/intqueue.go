package ints

// Queue is a FIFO queue of integers that remembers every item ever appended,
// so that each item is queued at most once.
type Queue struct {
	items []int
	head  int
	seen  *Set
}

func NewQueue(items ...int) *Queue {
	q := &Queue{seen: NewSet()}
	for _, item := range items {
		q.Append(item)
	}
	return q
}

func (q *Queue) IsEmpty() bool {
	return q.head == len(q.items)
}

func (q *Queue) Len() int {
	return len(q.items) - q.head
}

// Append adds item unless it was appended before.
func (q *Queue) Append(item int) *Queue {
	if !q.seen.Contains(item) {
		q.seen.Add(item)
		q.items = append(q.items, item)
	}
	return q
}

// Head removes and returns the first item, 0 if the queue is empty.
func (q *Queue) Head() int {
	if q.IsEmpty() {
		return 0
	}

	result := q.items[q.head]
	q.head++
	return result
}

// Seen returns all items ever appended.
func (q *Queue) Seen() *Set {
	return q.seen
}

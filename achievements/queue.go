package achievements

import "sync"

// UnlockQueue carries unlocked achievement ids from the emulation thread to
// the host thread in the order they were unlocked. It does not deduplicate.
type UnlockQueue struct {
	mu   sync.Mutex
	ids  []uint32
	head int
}

// Enqueue appends id to the tail of the queue.
func (q *UnlockQueue) Enqueue(id uint32) {
	q.mu.Lock()
	q.ids = append(q.ids, id)
	q.mu.Unlock()
}

// Drain pops every queued id in FIFO order and passes it to handler,
// returning how many were delivered. The queue lock is held while handler
// runs, so handler must not call back into the queue.
func (q *UnlockQueue) Drain(handler func(id uint32)) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := 0
	for q.head < len(q.ids) {
		id := q.ids[q.head]
		q.head++
		n++
		if handler != nil {
			handler(id)
		}
	}
	q.ids = q.ids[:0]
	q.head = 0
	return n
}

// Len returns the number of undelivered ids.
func (q *UnlockQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.ids) - q.head
}

// Discard drops every undelivered id and returns how many were dropped.
func (q *UnlockQueue) Discard() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := len(q.ids) - q.head
	q.ids = q.ids[:0]
	q.head = 0
	return n
}

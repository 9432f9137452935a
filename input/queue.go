package input

// Queue is a buffered in-memory Source fed by backends or scripts
// Push drops keys when the buffer is full
type Queue struct {
	ch chan Key
}

// DefaultQueueSize covers a burst of key repeats between two ticks
const DefaultQueueSize = 64

// NewQueue creates a Queue holding up to size pending keys
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{ch: make(chan Key, size)}
}

// Push enqueues k, returning false if the buffer is full
func (q *Queue) Push(k Key) bool {
	select {
	case q.ch <- k:
		return true
	default:
		return false
	}
}

// Poll returns the oldest pending key
func (q *Queue) Poll() (Key, bool) {
	select {
	case k := <-q.ch:
		return k, true
	default:
		return KeyNone, false
	}
}

// Len returns the number of pending keys
func (q *Queue) Len() int {
	return len(q.ch)
}

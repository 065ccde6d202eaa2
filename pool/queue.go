package pool

// job is one queue entry. The stop entry is the sentinel that ends exactly
// one worker's loop.
type job struct {
	frame string
	stop  bool
}

// Queue is a multi-producer, multi-consumer queue of frame names terminated
// by one sentinel per worker.
type Queue struct {
	ch chan job
}

// NewQueue returns a queue that holds capacity entries without blocking.
// Sizing it to frames+workers lets the producer enqueue everything, sentinels
// included, before any worker starts.
func NewQueue(capacity int) *Queue {
	return &Queue{ch: make(chan job, capacity)}
}

func (q *Queue) Push(frame string) {
	q.ch <- job{frame: frame}
}

// Close enqueues one sentinel for each of workers consumers.
func (q *Queue) Close(workers int) {
	for range workers {
		q.ch <- job{stop: true}
	}
}

// Pop blocks for the next entry. It returns false when the entry is a sentinel.
func (q *Queue) Pop() (string, bool) {
	j := <-q.ch
	if j.stop {
		return "", false
	}
	return j.frame, true
}

// Len returns the number of queued entries, sentinels included.
func (q *Queue) Len() int {
	return len(q.ch)
}

package datasets_services

import "sync"

// memoryQueue is the in-process ProcessingQueue used by test binaries, where
// no Valkey instance is available.
type memoryQueue struct {
	mu     sync.Mutex
	queues map[string][][]byte
}

func newMemoryQueue() *memoryQueue {
	return &memoryQueue{queues: make(map[string][][]byte)}
}

func (q *memoryQueue) Enqueue(queueKey string, item []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.queues[queueKey] = append(q.queues[queueKey], item)

	return nil
}

func (q *memoryQueue) DequeueBatch(queueKey string, maxCount int) ([][]byte, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	items := q.queues[queueKey]
	if len(items) == 0 || maxCount <= 0 {
		return nil, nil
	}

	count := min(maxCount, len(items))

	batch := make([][]byte, count)
	copy(batch, items[:count])
	q.queues[queueKey] = items[count:]

	return batch, nil
}

package events

import (
	"context"
	"sync"

	"github.com/segmentio/kafka-go"
)

// MemoryReader replays queued payloads in order and calls stop once they are
// used up, which ends Consumer.Run.
type MemoryReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	committed []int64
	stop      context.CancelFunc
}

func NewMemoryReader(stop context.CancelFunc, values ...[]byte) *MemoryReader {
	r := &MemoryReader{stop: stop}
	for i, v := range values {
		r.queue = append(r.queue, kafka.Message{Offset: int64(i), Value: v})
	}
	return r
}

func (r *MemoryReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.queue) == 0 {
		r.stop()
		return kafka.Message{}, context.Canceled
	}
	msg := r.queue[0]
	r.queue = r.queue[1:]
	return msg, nil
}

func (r *MemoryReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *MemoryReader) Close() error { return nil }

// Committed returns the committed offsets in commit order.
func (r *MemoryReader) Committed() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.committed...)
}

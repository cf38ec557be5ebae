package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

type chanReader struct {
	msgs chan kafka.Message

	mu        sync.Mutex
	committed []int64
	closed    bool
}

func (r *chanReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-r.msgs:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (r *chanReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *chanReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *chanReader) commits() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.committed)
}

type fakeReviewer struct {
	mu    sync.Mutex
	calls []ReviewRequest
	ids   []uint
}

func (f *fakeReviewer) Review(_ context.Context, id uint, req ReviewRequest) (*Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ids = append(f.ids, id)
	f.calls = append(f.calls, req)
	if id == 99 {
		return nil, ErrInvalidTransition
	}
	return &Application{ID: id, Status: req.Status}, nil
}

func TestReviewConsumer(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	reader := &chanReader{msgs: make(chan kafka.Message, 3)}
	reviewer := &fakeReviewer{}
	consumer := NewReviewConsumer(reader, reviewer, zap.NewNop())

	reader.msgs <- kafka.Message{Offset: 1, Value: []byte(`{"applicationId":5,"status":"approved","notes":"ok"}`)}
	reader.msgs <- kafka.Message{Offset: 2, Value: []byte(`not json`)}
	reader.msgs <- kafka.Message{Offset: 3, Value: []byte(`{"applicationId":99,"status":"completed"}`)}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- consumer.Run(ctx) }()

	require.Eventually(t, func() bool { return reader.commits() == 3 }, 2*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop")
	}

	reviewer.mu.Lock()
	defer reviewer.mu.Unlock()
	assert.Equal(t, []uint{5, 99}, reviewer.ids)
	assert.Equal(t, "ok", reviewer.calls[0].Notes)
	assert.True(t, reader.closed)
}

package queue

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"investalytics/server/internal/models"
)

var (
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueClosed = errors.New("queue is closed")
)

// PropertyQueue buffers batches of ingested listings between the API and
// the batch processor.
type PropertyQueue struct {
	items    chan []*models.Property
	done     chan struct{}
	maxSize  int
	closed   bool
	mu       sync.RWMutex
	logger   *logrus.Logger
	handlers []func([]*models.Property) error
}

// NewPropertyQueue creates a queue buffering up to bufferSize batches.
func NewPropertyQueue(bufferSize int, logger *logrus.Logger) *PropertyQueue {
	if logger == nil {
		logger = logrus.New()
	}
	return &PropertyQueue{
		items:   make(chan []*models.Property, bufferSize),
		done:    make(chan struct{}),
		maxSize: bufferSize,
		logger:  logger,
	}
}

// Push adds a batch of properties to the queue without blocking.
func (q *PropertyQueue) Push(properties []*models.Property) error {
	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		return ErrQueueClosed
	}
	q.mu.RUnlock()

	select {
	case q.items <- properties:
		q.logger.WithField("batch_size", len(properties)).Debug("Pushed batch to queue")
		return nil
	default:
		return ErrQueueFull
	}
}

// Subscribe registers a handler invoked for every batch.
func (q *PropertyQueue) Subscribe(handler func([]*models.Property) error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers = append(q.handlers, handler)
}

// Start begins draining the queue in a background goroutine.
func (q *PropertyQueue) Start() {
	go q.process()
}

func (q *PropertyQueue) process() {
	for {
		select {
		case <-q.done:
			return
		case batch := <-q.items:
			q.dispatch(batch)
		}
	}
}

func (q *PropertyQueue) dispatch(batch []*models.Property) {
	q.mu.RLock()
	handlers := q.handlers
	q.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(batch); err != nil {
			q.logger.WithError(err).Error("Handler failed to process batch")
		}
	}
}

// Close stops the queue and rejects further pushes.
func (q *PropertyQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	q.closed = true
	close(q.done)
	return nil
}

// Len returns the number of batches waiting in the queue.
func (q *PropertyQueue) Len() int {
	return len(q.items)
}

// IsClosed reports whether the queue has been closed.
func (q *PropertyQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

package engine

import (
	"errors"
	"math/rand"
	"time"

	"github.com/piwi3910/StackLoad/internal/model"
)

// ErrSourceExhausted is returned by a QueueSource with nothing left to hand out.
var ErrSourceExhausted = errors.New("no more boxes in the queue")

// ItemSource supplies the dimensions of the next box to generate.
type ItemSource interface {
	Next() (model.BoxSpec, error)
}

// RandomSource draws each dimension independently from [min, max].
type RandomSource struct {
	min, max float64
	rng      *rand.Rand
}

// NewRandomSource creates a seeded random source. A zero seed uses the clock.
func NewRandomSource(min, max float64, seed int64) *RandomSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomSource{
		min: min,
		max: max,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Next returns a box with random dimensions.
func (s *RandomSource) Next() (model.BoxSpec, error) {
	return model.BoxSpec{
		Width:  s.dimension(),
		Height: s.dimension(),
		Depth:  s.dimension(),
	}, nil
}

func (s *RandomSource) dimension() float64 {
	return s.min + s.rng.Float64()*(s.max-s.min)
}

// QueueSource hands out predefined boxes in order, then defers to a fallback.
type QueueSource struct {
	queue    []model.BoxSpec
	fallback ItemSource
}

// NewQueueSource creates a queue over boxes. fallback may be nil.
func NewQueueSource(boxes []model.BoxSpec, fallback ItemSource) *QueueSource {
	q := &QueueSource{fallback: fallback}
	q.Push(boxes...)
	return q
}

// Push appends boxes to the end of the queue.
func (q *QueueSource) Push(boxes ...model.BoxSpec) {
	q.queue = append(q.queue, boxes...)
}

// Len returns the number of queued boxes.
func (q *QueueSource) Len() int {
	return len(q.queue)
}

// Next pops the head of the queue.
func (q *QueueSource) Next() (model.BoxSpec, error) {
	if len(q.queue) == 0 {
		if q.fallback == nil {
			return model.BoxSpec{}, ErrSourceExhausted
		}
		return q.fallback.Next()
	}
	next := q.queue[0]
	q.queue = q.queue[1:]
	return next, nil
}

package kafka

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/ariefcatur/go-commerce-core/internal/logger"
	"github.com/cenkalti/backoff/v4"
	"github.com/segmentio/kafka-go"
)

// Handler returns nil only when the message is done and its offset may be committed.
// Any error is retried with backoff until it succeeds or the consumer stops.
type Handler func(ctx context.Context, m kafka.Message) error

// reader is the part of *kafka.Reader the consumer drives.
type reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Consumer struct {
	r       reader
	workers int
	log     *logger.Logger
	backoff func() backoff.BackOff

	marks    *watermarks
	commitMu sync.Mutex
}

func NewConsumer(brokers []string, group, topic string, workers int, log *logger.Logger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        group,
		Topic:          topic,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0, // manual commit
	})
	return newConsumer(r, workers, log.With("topic", topic, "group", group))
}

func newConsumer(r reader, workers int, log *logger.Logger) *Consumer {
	if workers <= 0 {
		workers = 1
	}
	return &Consumer{r: r, workers: workers, log: log, backoff: retryBackOff, marks: newWatermarks()}
}

// retryBackOff never gives up on its own; only ctx ends a retry.
func retryBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = 0
	return b
}

// worker picks the worker for a key so messages of one aggregate stay in order.
func (c *Consumer) worker(key []byte) int {
	if c.workers == 1 {
		return 0
	}
	h := fnv.New32a()
	_, _ = h.Write(key)
	return int(h.Sum32() % uint32(c.workers))
}

// handle runs h until it succeeds; it fails only when ctx is done.
func (c *Consumer) handle(ctx context.Context, h Handler, m kafka.Message) error {
	attempt := 0
	op := func() error {
		attempt++
		err := h(ctx, m)
		if err != nil {
			c.log.Warn("handle message, retrying", "partition", m.Partition, "offset", m.Offset, "attempt", attempt, "err", err)
		}
		return err
	}
	return backoff.Retry(op, backoff.WithContext(c.backoff(), ctx))
}

// commit never moves a partition's group offset backwards.
func (c *Consumer) commit(ctx context.Context, m kafka.Message) {
	c.commitMu.Lock()
	defer c.commitMu.Unlock()
	if !c.marks.advance(m) {
		return
	}
	if err := c.r.CommitMessages(ctx, m); err != nil {
		c.marks.rollback(m)
		c.log.Error("commit offset", "partition", m.Partition, "offset", m.Offset, "err", err)
	}
}

// Start fetches until ctx is done. An offset is committed only once it and
// every earlier fetched offset of its partition have been handled.
func (c *Consumer) Start(ctx context.Context, h Handler) error {
	defer c.r.Close()

	jobs := make([]chan kafka.Message, c.workers)
	var wg sync.WaitGroup
	for i := range jobs {
		jobs[i] = make(chan kafka.Message, 128)
		wg.Add(1)
		go func(in <-chan kafka.Message) {
			defer wg.Done()
			for m := range in {
				if err := c.handle(ctx, h, m); err != nil {
					// stopped mid-retry: m stays pending and holds back its partition
					continue
				}
				if upto, ok := c.marks.done(m); ok {
					c.commit(ctx, upto)
				}
			}
		}(jobs[i])
	}
	stop := func() {
		for _, ch := range jobs {
			close(ch)
		}
		wg.Wait()
	}

	for {
		m, err := c.r.FetchMessage(ctx)
		if err != nil {
			stop()
			select {
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}
		c.marks.begin(m)
		select {
		case jobs[c.worker(m.Key)] <- m:
		case <-ctx.Done():
			stop()
			return nil
		}
	}
}

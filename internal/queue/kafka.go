package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaOptions configures the broker backed queue.
type KafkaOptions struct {
	Brokers []string
	Topic   string
	Group   string
}

// KafkaQueue publishes tasks to a topic and consumes them as a group member.
// Offsets are committed after the handler returns, failed tasks are logged and skipped.
type KafkaQueue struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger

	wg     sync.WaitGroup
	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewKafkaQueue connects producer and group consumer.
func NewKafkaQueue(opts KafkaOptions, logger *slog.Logger) (*KafkaQueue, error) {
	if len(opts.Brokers) == 0 {
		return nil, errors.New("kafka brokers must be provided")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(opts.Brokers...),
		kgo.ClientID("edukar-store"),
		kgo.DefaultProduceTopic(opts.Topic),
		kgo.AllowAutoTopicCreation(),
		kgo.ConsumerGroup(opts.Group),
		kgo.ConsumeTopics(opts.Topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
		kgo.AutoCommitMarks(),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &KafkaQueue{client: client, topic: opts.Topic, logger: logger}, nil
}

func (q *KafkaQueue) Enqueue(ctx context.Context, task Task) error {
	value, err := encodeTask(task)
	if err != nil {
		return err
	}
	record := &kgo.Record{Topic: q.topic, Key: []byte(task.Key()), Value: value}
	if err := q.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce %s task: %w", task.Kind, err)
	}
	return nil
}

// Start begins consuming in the background.
func (q *KafkaQueue) Start(ctx context.Context, handler Handler) error {
	if err := q.client.Ping(ctx); err != nil {
		return fmt.Errorf("ping kafka: %w", err)
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	runCtx, cancel := context.WithCancel(ctx)
	q.cancel = cancel

	q.wg.Add(1)
	go q.consume(runCtx, handler)
	return nil
}

// Stop ends consumption, commits marked offsets and closes the client.
func (q *KafkaQueue) Stop() {
	q.mu.Lock()
	if q.cancel != nil {
		q.cancel()
		q.cancel = nil
	}
	q.mu.Unlock()

	q.wg.Wait()
	q.client.Close()
}

func (q *KafkaQueue) consume(ctx context.Context, handler Handler) {
	defer q.wg.Done()
	for {
		fetches := q.client.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			return
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			q.logger.Error("kafka fetch failed",
				slog.String("topic", topic),
				slog.Int("partition", int(partition)),
				slog.String("error", err.Error()),
			)
		})
		fetches.EachRecord(func(record *kgo.Record) {
			q.handle(ctx, handler, record)
			q.client.MarkCommitRecords(record)
		})
	}
}

func (q *KafkaQueue) handle(ctx context.Context, handler Handler, record *kgo.Record) {
	task, err := decodeTask(record.Value)
	if err != nil {
		q.logger.Error("skipping malformed task",
			slog.Int64("offset", record.Offset),
			slog.String("error", err.Error()),
		)
		return
	}
	if err := handler(ctx, task); err != nil {
		q.logger.Error("task failed",
			slog.String("kind", string(task.Kind)),
			slog.String("key", task.Key()),
			slog.String("error", err.Error()),
		)
	}
}

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/tearaglass/godscruiseline/internal/catalog/domain"
)

const (
	docKeyPrefix       = "gc:"        // Hash of documents per table: gc:{table}, field = id
	eventChannelPrefix = "gc:events:" // Pub/Sub channel for change events: gc:events:{table}
)

// updateScript replaces a field only when it already exists.
var updateScript = redis.NewScript(`
if redis.call("HEXISTS", KEYS[1], ARGV[1]) == 0 then
  return 0
end
redis.call("HSET", KEYS[1], ARGV[1], ARGV[2])
return 1
`)

// deleteScript removes a field and returns its previous value, or false when absent.
var deleteScript = redis.NewScript(`
local v = redis.call("HGET", KEYS[1], ARGV[1])
if not v then
  return false
end
redis.call("HDEL", KEYS[1], ARGV[1])
return v
`)

// ChangeEvent is published on gc:events:{table} after every successful mutation.
type ChangeEvent struct {
	Op string `json:"op"`
	ID string `json:"id"`
}

// RedisStore keeps each table as a single hash of JSON documents.
type RedisStore[T any] struct {
	client *redis.Client
	table  Table[T]
}

// NewRedisStore creates a Redis-backed store for table.
func NewRedisStore[T any](client *redis.Client, table Table[T]) *RedisStore[T] {
	return &RedisStore[T]{client: client, table: table}
}

// EventChannel returns the Pub/Sub channel carrying change events for table.
func EventChannel(table string) string { return eventChannelPrefix + table }

func (s *RedisStore[T]) key() string { return docKeyPrefix + s.table.Name }

func (s *RedisStore[T]) List(ctx context.Context) ([]T, error) {
	all, err := s.client.HGetAll(ctx, s.key()).Result()
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.table.Name, err)
	}
	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		doc, err := s.decode(all[id])
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func (s *RedisStore[T]) Get(ctx context.Context, id string) (T, error) {
	data, err := s.client.HGet(ctx, s.key(), id).Result()
	if errors.Is(err, redis.Nil) {
		var zero T
		return zero, domain.ErrNotFound
	}
	if err != nil {
		var zero T
		return zero, fmt.Errorf("get %s: %w", s.table.Name, err)
	}
	return s.decode(data)
}

func (s *RedisStore[T]) Insert(ctx context.Context, doc T) (T, error) {
	id := s.table.Key(doc)
	data, err := json.Marshal(doc)
	if err != nil {
		return doc, fmt.Errorf("marshal %s: %w", s.table.Name, err)
	}
	ok, err := s.client.HSetNX(ctx, s.key(), id, data).Result()
	if err != nil {
		return doc, fmt.Errorf("insert %s: %w", s.table.Name, err)
	}
	if !ok {
		return doc, domain.ErrConflict
	}
	s.publish(ctx, "insert", id)
	return doc, nil
}

func (s *RedisStore[T]) Update(ctx context.Context, doc T) (T, error) {
	id := s.table.Key(doc)
	data, err := json.Marshal(doc)
	if err != nil {
		return doc, fmt.Errorf("marshal %s: %w", s.table.Name, err)
	}
	n, err := updateScript.Run(ctx, s.client, []string{s.key()}, id, data).Int()
	if err != nil {
		return doc, fmt.Errorf("update %s: %w", s.table.Name, err)
	}
	if n == 0 {
		return doc, domain.ErrNotFound
	}
	s.publish(ctx, "update", id)
	return doc, nil
}

func (s *RedisStore[T]) Delete(ctx context.Context, id string) (T, error) {
	data, err := deleteScript.Run(ctx, s.client, []string{s.key()}, id).Text()
	if errors.Is(err, redis.Nil) {
		var zero T
		return zero, domain.ErrNotFound
	}
	if err != nil {
		var zero T
		return zero, fmt.Errorf("delete %s: %w", s.table.Name, err)
	}
	doc, err := s.decode(data)
	if err != nil {
		return doc, err
	}
	s.publish(ctx, "delete", id)
	return doc, nil
}

func (s *RedisStore[T]) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore[T]) decode(data string) (T, error) {
	var doc T
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return doc, fmt.Errorf("unmarshal %s: %w", s.table.Name, err)
	}
	return doc, nil
}

// Subscribe listens for change events on this table. The subscription is
// confirmed before Subscribe returns, so no event published afterwards is
// missed. The channel closes when ctx ends or the returned func is called.
func (s *RedisStore[T]) Subscribe(ctx context.Context) (<-chan ChangeEvent, func() error, error) {
	ps := s.client.Subscribe(ctx, EventChannel(s.table.Name))
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, nil, fmt.Errorf("subscribe %s: %w", s.table.Name, err)
	}

	out := make(chan ChangeEvent)
	go func() {
		defer close(out)
		msgs := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ev ChangeEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, ps.Close, nil
}

// publish is best effort: the write has already succeeded.
func (s *RedisStore[T]) publish(ctx context.Context, op, id string) {
	payload, err := json.Marshal(ChangeEvent{Op: op, ID: id})
	if err != nil {
		return
	}
	_ = s.client.Publish(ctx, EventChannel(s.table.Name), payload).Err()
}

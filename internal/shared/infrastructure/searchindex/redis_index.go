package searchindex

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
)

// scratchTTL bounds the lifetime of intersection keys left behind when a
// search is abandoned mid-flight.
const scratchTTL = time.Minute

// RedisIndexConfig configures the Redis-backed index.
type RedisIndexConfig struct {
	// KeyPrefix namespaces all index keys, e.g. "rentals:search:cars".
	KeyPrefix string

	// MaxRequests is the maximum number of requests allowed in half-open state.
	MaxRequests uint32

	// Interval is the cyclic period of the closed state.
	Interval time.Duration

	// Timeout is the period of the open state.
	Timeout time.Duration

	// FailureThreshold trips the breaker after this many consecutive failures.
	FailureThreshold uint32
}

// DefaultRedisIndexConfig returns a sensible default configuration.
func DefaultRedisIndexConfig(keyPrefix string) RedisIndexConfig {
	return RedisIndexConfig{
		KeyPrefix:        keyPrefix,
		MaxRequests:      3,
		Interval:         60 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// RedisIndex implements Index on Redis. Each document is stored whole under a
// doc key; a sorted set per token holds the ids containing that token, scored
// by term frequency. A search intersects the token sets into a scratch key
// and pages it by descending score.
type RedisIndex struct {
	client  *redis.Client
	prefix  string
	breaker *gobreaker.CircuitBreaker[any]
	logger  *slog.Logger
}

// NewRedisIndex creates a Redis-backed search index.
func NewRedisIndex(client *redis.Client, config RedisIndexConfig, logger *slog.Logger) *RedisIndex {
	if logger == nil {
		logger = slog.Default()
	}
	if config.KeyPrefix == "" {
		config.KeyPrefix = "rentals:search"
	}

	settings := gobreaker.Settings{
		Name:        config.KeyPrefix,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= config.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("search index circuit breaker state changed",
				"index", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &RedisIndex{
		client:  client,
		prefix:  config.KeyPrefix,
		breaker: gobreaker.NewCircuitBreaker[any](settings),
		logger:  logger,
	}
}

func (i *RedisIndex) docKey(id int64) string {
	return fmt.Sprintf("%s:doc:%d", i.prefix, id)
}

func (i *RedisIndex) docTokensKey(id int64) string {
	return fmt.Sprintf("%s:doctok:%d", i.prefix, id)
}

func (i *RedisIndex) tokenKey(token string) string {
	return fmt.Sprintf("%s:tok:%s", i.prefix, token)
}

// execute runs an operation through the circuit breaker.
func (i *RedisIndex) execute(fn func() (any, error)) (any, error) {
	result, err := i.breaker.Execute(fn)
	if err == gobreaker.ErrOpenState {
		return nil, ErrUnavailable
	}
	return result, err
}

// Index stores the document and replaces its token memberships.
func (i *RedisIndex) Index(ctx context.Context, id int64, doc []byte, text string) error {
	_, err := i.execute(func() (any, error) {
		return nil, i.index(ctx, id, doc, text)
	})
	return err
}

func (i *RedisIndex) index(ctx context.Context, id int64, doc []byte, text string) error {
	oldTokens, err := i.client.SMembers(ctx, i.docTokensKey(id)).Result()
	if err != nil && err != redis.Nil {
		return err
	}

	freqs := TermFrequencies(text)
	member := strconv.FormatInt(id, 10)

	pipe := i.client.TxPipeline()
	for _, token := range oldTokens {
		pipe.ZRem(ctx, i.tokenKey(token), member)
	}
	pipe.Del(ctx, i.docTokensKey(id))
	pipe.Set(ctx, i.docKey(id), doc, 0)
	for token, freq := range freqs {
		pipe.ZAdd(ctx, i.tokenKey(token), redis.Z{Score: float64(freq), Member: member})
		pipe.SAdd(ctx, i.docTokensKey(id), token)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// Delete removes the document and its token memberships.
func (i *RedisIndex) Delete(ctx context.Context, id int64) error {
	_, err := i.execute(func() (any, error) {
		return nil, i.delete(ctx, id)
	})
	return err
}

func (i *RedisIndex) delete(ctx context.Context, id int64) error {
	tokens, err := i.client.SMembers(ctx, i.docTokensKey(id)).Result()
	if err != nil && err != redis.Nil {
		return err
	}

	member := strconv.FormatInt(id, 10)
	pipe := i.client.TxPipeline()
	for _, token := range tokens {
		pipe.ZRem(ctx, i.tokenKey(token), member)
	}
	pipe.Del(ctx, i.docTokensKey(id), i.docKey(id))
	_, err = pipe.Exec(ctx)
	return err
}

// Search intersects the query token sets and returns one page of documents.
func (i *RedisIndex) Search(ctx context.Context, query string, offset, limit int) (*Result, error) {
	result, err := i.execute(func() (any, error) {
		return i.search(ctx, query, offset, limit)
	})
	if err != nil {
		return nil, err
	}
	return result.(*Result), nil
}

func (i *RedisIndex) search(ctx context.Context, query string, offset, limit int) (*Result, error) {
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return &Result{IDs: []int64{}, Docs: [][]byte{}}, nil
	}
	if offset < 0 {
		offset = 0
	}

	keys := make([]string, len(tokens))
	for idx, token := range tokens {
		keys[idx] = i.tokenKey(token)
	}

	scratch := fmt.Sprintf("%s:scratch:%s", i.prefix, uuid.NewString())
	defer i.client.Del(ctx, scratch)

	total, err := i.client.ZInterStore(ctx, scratch, &redis.ZStore{Keys: keys}).Result()
	if err != nil {
		return nil, err
	}
	if total == 0 || limit <= 0 {
		return &Result{IDs: []int64{}, Docs: [][]byte{}, Total: total}, nil
	}
	i.client.Expire(ctx, scratch, scratchTTL)

	members, err := i.client.ZRevRange(ctx, scratch, int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, err
	}

	result := &Result{IDs: []int64{}, Docs: [][]byte{}, Total: total}
	if len(members) == 0 {
		return result, nil
	}

	docKeys := make([]string, len(members))
	for idx, member := range members {
		docKeys[idx] = i.prefix + ":doc:" + member
	}
	values, err := i.client.MGet(ctx, docKeys...).Result()
	if err != nil {
		return nil, err
	}

	for idx, value := range values {
		raw, ok := value.(string)
		if !ok {
			// Document vanished between the range and the fetch
			continue
		}
		id, err := strconv.ParseInt(members[idx], 10, 64)
		if err != nil {
			continue
		}
		result.IDs = append(result.IDs, id)
		result.Docs = append(result.Docs, []byte(raw))
	}
	return result, nil
}

// Clear drops every key under the index prefix.
func (i *RedisIndex) Clear(ctx context.Context) error {
	_, err := i.execute(func() (any, error) {
		return nil, i.clear(ctx)
	})
	return err
}

func (i *RedisIndex) clear(ctx context.Context) error {
	iter := i.client.Scan(ctx, 0, i.prefix+":*", 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) >= 100 {
			if err := i.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) > 0 {
		return i.client.Del(ctx, keys...).Err()
	}
	return nil
}

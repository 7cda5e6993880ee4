// Package invalidation provides a best-effort, Redis pub/sub-backed
// implementation of objcache.Invalidator, plus a Subscriber peers use to
// apply invalidation messages to their own local Backend.
package invalidation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/devmesh-labs/objcache"
	"github.com/devmesh-labs/objcache/observability"
)

const channelPrefix = "objcache:inval:"

// kind tags what a message invalidates.
type kind string

const (
	kindObj kind = "obj"
	kindRef kind = "ref"
)

// message is the wire format published on a repository's invalidation
// channel. Target is an object id's hex string for kindObj, or a
// reference name for kindRef.
type message struct {
	ID     string `json:"id"`
	Repo   string `json:"repo"`
	Kind   kind   `json:"kind"`
	Target string `json:"target"`
}

// RedisPublisher implements objcache.Invalidator over Redis pub/sub.
// Publishing is best-effort: a failed PUBLISH is retried with backoff and
// then logged and dropped, never returned to the caller, because the
// interface it implements has no error return to propagate to -- a
// correctness-critical mutation must not be rolled back or delayed over a
// coherence hint peers don't strictly need.
type RedisPublisher struct {
	client  *redis.Client
	logger  observability.Logger
	timeout time.Duration
}

// NewRedisPublisher returns a RedisPublisher. A nil logger is replaced
// with a no-op one.
func NewRedisPublisher(client *redis.Client, logger observability.Logger) *RedisPublisher {
	if logger == nil {
		logger = observability.NewNoopLogger()
	}
	return &RedisPublisher{client: client, logger: logger, timeout: 2 * time.Second}
}

// InvalidateObj implements objcache.Invalidator.
func (p *RedisPublisher) InvalidateObj(repo objcache.RepositoryId, id objcache.ObjId) {
	p.publish(string(repo), message{ID: uuid.NewString(), Repo: string(repo), Kind: kindObj, Target: id.String()})
}

// InvalidateReference implements objcache.Invalidator.
func (p *RedisPublisher) InvalidateReference(repo objcache.RepositoryId, name string) {
	p.publish(string(repo), message{ID: uuid.NewString(), Repo: string(repo), Kind: kindRef, Target: name})
}

func (p *RedisPublisher) publish(repo string, msg message) {
	data, err := json.Marshal(msg)
	if err != nil {
		p.logger.Error("failed to marshal invalidation message", map[string]interface{}{"error": err.Error()})
		return
	}
	channel := channelPrefix + repo

	op := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()
		return p.client.Publish(ctx, channel, data).Err()
	}

	bo := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3)
	if err := backoff.Retry(op, bo); err != nil {
		p.logger.Warn("giving up publishing invalidation message", map[string]interface{}{
			"channel": channel,
			"msg_id":  msg.ID,
			"error":   err.Error(),
		})
	}
}

// Subscriber applies invalidation messages from a RedisPublisher (or any
// publisher using the same wire format) to a local objcache.Backend. It
// is the peer side of the best-effort invalidation hook: a dropped or
// malformed message is logged and skipped rather than surfaced, since
// entries also expire on their own TTL.
type Subscriber struct {
	client  *redis.Client
	backend objcache.Backend
	logger  observability.Logger
}

// NewSubscriber returns a Subscriber applying messages to backend. A nil
// logger is replaced with a no-op one.
func NewSubscriber(client *redis.Client, backend objcache.Backend, logger observability.Logger) *Subscriber {
	if logger == nil {
		logger = observability.NewNoopLogger()
	}
	return &Subscriber{client: client, backend: backend, logger: logger}
}

// Listen subscribes to repo's invalidation channel and applies incoming
// messages to the local backend until ctx is cancelled or the
// subscription's channel is closed.
func (s *Subscriber) Listen(ctx context.Context, repo objcache.RepositoryId) error {
	pubsub := s.client.Subscribe(ctx, channelPrefix+string(repo))
	defer func() { _ = pubsub.Close() }()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("invalidation: subscribe to %s: %w", repo, err)
	}

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			s.apply(ctx, m.Payload)
		}
	}
}

func (s *Subscriber) apply(ctx context.Context, payload string) {
	var msg message
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		s.logger.Warn("dropping malformed invalidation message", map[string]interface{}{"error": err.Error()})
		return
	}
	repo := objcache.RepositoryId(msg.Repo)

	switch msg.Kind {
	case kindObj:
		id, err := objcache.ParseObjIdHex(msg.Target)
		if err != nil {
			s.logger.Warn("dropping invalidation message with unparseable object id", map[string]interface{}{"error": err.Error()})
			return
		}
		if err := s.backend.RemoveLocal(ctx, repo, id); err != nil {
			s.logger.Warn("failed to apply object invalidation", map[string]interface{}{"error": err.Error()})
		}
	case kindRef:
		if err := s.backend.RemoveReferenceLocal(ctx, repo, msg.Target); err != nil {
			s.logger.Warn("failed to apply reference invalidation", map[string]interface{}{"error": err.Error()})
		}
	default:
		s.logger.Warn("dropping invalidation message with unknown kind", map[string]interface{}{"kind": string(msg.Kind)})
	}
}

package csrf

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "csrf:"

// getOrExtend creates the token when the key is absent. An existing token is
// returned as is, with its expiry pushed out to the requested lifetime when
// that is later. Replies {payload, pttl_ms}.
var getOrExtend = redis.NewScript(`
local cur = redis.call('GET', KEYS[1])
local want = tonumber(ARGV[2])
if not cur then
  redis.call('SET', KEYS[1], ARGV[1], 'PX', want)
  return {ARGV[1], want}
end
local ttl = redis.call('PTTL', KEYS[1])
if ttl < want then
  redis.call('PEXPIRE', KEYS[1], want)
  ttl = want
end
return {cur, ttl}
`)

// redisRecord is the stored payload. The expiry lives in the key TTL only so
// that extending a token is a single PEXPIRE.
type redisRecord struct {
	Value    string    `json:"value"`
	IssuedAt time.Time `json:"issued_at"`
}

// RedisStore shares tokens between replicas. GetOrCreate runs as one Lua
// script, so the first writer for a binding wins and every later fetch
// leaves the token with at least the candidate's lifetime.
type RedisStore struct {
	client redis.Cmdable
	now    func() time.Time
}

func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

func (s *RedisStore) GetOrCreate(ctx context.Context, binding string, candidate Token) (Token, error) {
	ttl := candidate.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return candidate, nil
	}

	payload, err := json.Marshal(redisRecord{Value: candidate.Value, IssuedAt: candidate.IssuedAt})
	if err != nil {
		return Token{}, err
	}

	reply, err := getOrExtend.Run(ctx, s.client, []string{redisKeyPrefix + binding},
		payload, max(ttl.Milliseconds(), 1)).Slice()
	if err != nil {
		return Token{}, err
	}
	if len(reply) != 2 {
		return Token{}, fmt.Errorf("csrf: unexpected script reply of length %d", len(reply))
	}
	raw, ok := reply[0].(string)
	if !ok {
		return Token{}, fmt.Errorf("csrf: unexpected script payload %T", reply[0])
	}
	pttl, ok := reply[1].(int64)
	if !ok {
		return Token{}, fmt.Errorf("csrf: unexpected script ttl %T", reply[1])
	}
	return s.decode(raw, time.Duration(pttl)*time.Millisecond)
}

func (s *RedisStore) Get(ctx context.Context, binding string) (Token, error) {
	key := redisKeyPrefix + binding

	var (
		get  *redis.StringCmd
		pttl *redis.DurationCmd
	)
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		get = p.Get(ctx, key)
		pttl = p.PTTL(ctx, key)
		return nil
	})
	if errors.Is(err, redis.Nil) || errors.Is(get.Err(), redis.Nil) {
		return Token{}, ErrTokenNotFound
	}
	if err != nil {
		return Token{}, err
	}
	if pttl.Val() <= 0 {
		return Token{}, ErrTokenNotFound
	}
	return s.decode(get.Val(), pttl.Val())
}

func (s *RedisStore) decode(raw string, ttl time.Duration) (Token, error) {
	var rec redisRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return Token{}, err
	}
	return Token{Value: rec.Value, IssuedAt: rec.IssuedAt, ExpiresAt: s.now().Add(ttl)}, nil
}

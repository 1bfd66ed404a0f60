package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions server-side: the cookie holds a random id and
// Redis maps "<prefix><id>" to the account id with the session TTL.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
	opts   CookieOptions
}

func NewRedisStore(rdb *redis.Client, opts CookieOptions) *RedisStore {
	if opts.Name == "" {
		opts.Name = "session_id"
	}
	return &RedisStore{rdb: rdb, prefix: "session:", opts: opts}
}

func (s *RedisStore) Load(r *http.Request) (Session, error) {
	sid, ok := s.opts.read(r)
	if !ok {
		return Session{}, nil
	}
	value, err := s.rdb.Get(r.Context(), s.prefix+sid).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Session{}, nil
		}
		return Session{}, fmt.Errorf("load session: %w", err)
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return Session{}, nil
	}
	return ForAccount(id), nil
}

// Save always issues a fresh session id; a previous one is deleted.
func (s *RedisStore) Save(w http.ResponseWriter, r *http.Request, sess Session) error {
	if !sess.Authenticated() {
		return s.Destroy(w, r)
	}
	ctx := r.Context()
	if err := s.deleteCurrent(ctx, r); err != nil {
		return err
	}

	sid := uuid.NewString()
	if err := s.rdb.Set(ctx, s.prefix+sid, strconv.FormatInt(*sess.AccountID, 10), s.opts.TTL).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.opts.set(w, sid)
	return nil
}

func (s *RedisStore) Destroy(w http.ResponseWriter, r *http.Request) error {
	s.opts.clear(w)
	return s.deleteCurrent(r.Context(), r)
}

func (s *RedisStore) deleteCurrent(ctx context.Context, r *http.Request) error {
	sid, ok := s.opts.read(r)
	if !ok {
		return nil
	}
	if err := s.rdb.Del(ctx, s.prefix+sid).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"projeto_nfc/internal/common"
	"projeto_nfc/internal/domain/model"

	"github.com/redis/go-redis/v9"
)

// RecordRepository is the patient document store. Documents are keyed by
// user id; the key is not part of the stored body.
type RecordRepository interface {
	FindByID(ctx context.Context, id string) (*model.UserRecord, error)
	All(ctx context.Context) ([]model.UserRecord, error)
	Put(ctx context.Context, record *model.UserRecord) error
}

// redisRecordRepository stores each document as a JSON string under
// "<prefix>:<id>".
type redisRecordRepository struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisRecordRepository(rdb *redis.Client, prefix string) RecordRepository {
	return &redisRecordRepository{rdb: rdb, prefix: prefix}
}

func (r *redisRecordRepository) key(id string) string {
	return r.prefix + ":" + id
}

func (r *redisRecordRepository) FindByID(ctx context.Context, id string) (*model.UserRecord, error) {
	body, err := r.rdb.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("redisRecordRepository.FindByID: %w", err)
	}
	return &model.UserRecord{ID: id, Body: body}, nil
}

// All scans the keyspace for the prefix and returns every document ordered by
// id. Keys deleted between SCAN and GET are skipped.
func (r *redisRecordRepository) All(ctx context.Context) ([]model.UserRecord, error) {
	var keys []string
	iter := r.rdb.Scan(ctx, 0, r.prefix+":*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redisRecordRepository.All: scan: %w", err)
	}
	sort.Strings(keys)

	records := make([]model.UserRecord, 0, len(keys))
	const batch = 100
	for start := 0; start < len(keys); start += batch {
		end := min(start+batch, len(keys))
		values, err := r.rdb.MGet(ctx, keys[start:end]...).Result()
		if err != nil {
			return nil, fmt.Errorf("redisRecordRepository.All: mget: %w", err)
		}
		for i, v := range values {
			s, ok := v.(string)
			if !ok {
				continue
			}
			records = append(records, model.UserRecord{
				ID:   strings.TrimPrefix(keys[start+i], r.prefix+":"),
				Body: json.RawMessage(s),
			})
		}
	}
	return records, nil
}

func (r *redisRecordRepository) Put(ctx context.Context, record *model.UserRecord) error {
	if record.ID == "" {
		return fmt.Errorf("record id is required: %w", common.ErrBadRequest)
	}
	if !json.Valid(record.Body) {
		return fmt.Errorf("record %q body is not valid JSON: %w", record.ID, common.ErrBadRequest)
	}
	if err := r.rdb.Set(ctx, r.key(record.ID), []byte(record.Body), 0).Err(); err != nil {
		return fmt.Errorf("redisRecordRepository.Put: %w", err)
	}
	return nil
}

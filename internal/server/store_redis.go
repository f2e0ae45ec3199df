package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/playperu/ruleta/internal/ruleta"
)

const redisKeyPrefix = "ruleta:"

// RedisStore keeps each question as a JSON value and indexes it in a sorted
// set per owner, scored by creation time.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func questionKey(id string) string { return redisKeyPrefix + "question:" + id }

func ownerIndexKey(owner ruleta.Owner) string {
	return redisKeyPrefix + "owner:" + owner.Key() + ":questions"
}

func (s *RedisStore) List(ctx context.Context, owner ruleta.Owner) ([]ruleta.CustomQuestion, error) {
	ids, err := s.rdb.ZRevRange(ctx, ownerIndexKey(owner), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = questionKey(id)
	}
	vals, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	questions := make([]ruleta.CustomQuestion, 0, len(vals))
	for _, v := range vals {
		raw, ok := v.(string)
		if !ok {
			// Index entry outlived its value.
			continue
		}
		var d questionDoc
		if err := json.Unmarshal([]byte(raw), &d); err != nil {
			return nil, fmt.Errorf("decoding question: %w", err)
		}
		questions = append(questions, d.toQuestion())
	}
	return questions, nil
}

func (s *RedisStore) Add(ctx context.Context, owner ruleta.Owner, question, category string) (ruleta.CustomQuestion, error) {
	if !owner.Valid() {
		return ruleta.CustomQuestion{}, fmt.Errorf("%w: invalid owner", ruleta.ErrInvalidInput)
	}
	now := time.Now().UTC()
	d := questionDoc{
		ID:        newID(),
		Question:  question,
		Category:  category,
		CreatedAt: now.Format(timeLayout),
	}
	if owner.Kind == ruleta.OwnerUser {
		d.UserID = owner.ID
	} else {
		d.SessionID = owner.ID
	}

	data, err := json.Marshal(d)
	if err != nil {
		return ruleta.CustomQuestion{}, err
	}

	_, err = s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, questionKey(d.ID), data, 0)
		p.ZAdd(ctx, ownerIndexKey(owner), redis.Z{Score: float64(now.UnixNano()), Member: d.ID})
		return nil
	})
	if err != nil {
		return ruleta.CustomQuestion{}, err
	}
	return d.toQuestion(), nil
}

func (s *RedisStore) Remove(ctx context.Context, owner ruleta.Owner, id string) error {
	raw, err := s.rdb.Get(ctx, questionKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return ruleta.ErrNotFound
	}
	if err != nil {
		return err
	}

	var d questionDoc
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return fmt.Errorf("decoding question: %w", err)
	}
	if d.owner() != owner {
		return ruleta.ErrNotFound
	}

	_, err = s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, questionKey(id))
		p.ZRem(ctx, ownerIndexKey(owner), id)
		return nil
	})
	return err
}

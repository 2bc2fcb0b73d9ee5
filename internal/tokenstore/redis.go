package tokenstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis хранит токен в Redis под ключом prefix + Key.
// Подходит, когда консоль запускается в нескольких контейнерах подряд.
type Redis struct {
	db  *redis.Client
	key string
}

// NewRedis создаёт хранилище поверх готового клиента.
func NewRedis(db *redis.Client, prefix string) *Redis {
	return &Redis{db: db, key: prefix + Key}
}

func (r *Redis) Load(ctx context.Context) (string, bool, error) {
	const op = "tokenstore.Redis.Load"

	val, err := r.db.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	return val, val != "", nil
}

func (r *Redis) Save(ctx context.Context, token string) error {
	const op = "tokenstore.Redis.Save"

	if err := r.db.Set(ctx, r.key, token, 0).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context) error {
	const op = "tokenstore.Redis.Delete"

	if err := r.db.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

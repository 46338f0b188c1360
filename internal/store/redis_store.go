package store

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

// Redis persiste cada registro como JSON em uma chave Redis, sem TTL.
// Permite compartilhar a sessão entre instâncias do serviço.
type Redis struct{ R *redis.Client }

func NewRedis(r *redis.Client) *Redis { return &Redis{R: r} }

func (s *Redis) Load(ctx context.Context, key string, dst any) (bool, error) {
	b, err := s.R.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Redis) Save(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.R.Set(ctx, key, b, 0).Err()
}

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisNonceRepo struct {
	rdb *redis.Client
}

func NewRedisNonceRepo(rdb *redis.Client) NonceRepo {
	return &redisNonceRepo{rdb: rdb}
}

// key 约定：auth:nonce:{nonce} -> "1"，TTL 即有效期
func nonceKey(nonce string) string {
	return fmt.Sprintf("auth:nonce:%s", nonce)
}

func (r *redisNonceRepo) Issue(ctx context.Context, nonce string, ttl time.Duration) error {
	ok, err := r.rdb.SetNX(ctx, nonceKey(nonce), 1, ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("nonce %s already issued", nonce)
	}
	return nil
}

// Consume DEL 返回删除个数，天然原子：并发登录只有一个能拿到 1
func (r *redisNonceRepo) Consume(ctx context.Context, nonce string) (bool, error) {
	n, err := r.rdb.Del(ctx, nonceKey(nonce)).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

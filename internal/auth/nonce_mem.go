package auth

import (
	"context"
	"sync"
	"time"
)

type memNonceRepo struct {
	mu     sync.Mutex
	nonces map[string]time.Time // nonce -> 过期时间
	now    func() time.Time
}

func NewMemoryNonceRepo() NonceRepo {
	return &memNonceRepo{
		nonces: make(map[string]time.Time),
		now:    time.Now,
	}
}

func (m *memNonceRepo) Issue(ctx context.Context, nonce string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// 顺便清理过期项，内存版没有后台任务
	now := m.now()
	for n, exp := range m.nonces {
		if now.After(exp) {
			delete(m.nonces, n)
		}
	}
	m.nonces[nonce] = now.Add(ttl)
	return nil
}

func (m *memNonceRepo) Consume(ctx context.Context, nonce string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	exp, ok := m.nonces[nonce]
	if !ok {
		return false, nil
	}
	delete(m.nonces, nonce)
	return !m.now().After(exp), nil
}

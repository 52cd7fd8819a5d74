package auth

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrAccountNotFound = errors.New("account not found")

// Account 登录台账：只记录谁在什么时候登录过，不存任何牌靴数据
type Account struct {
	Address    string    `json:"address"`
	FirstLogin time.Time `json:"firstLogin"`
	LastLogin  time.Time `json:"lastLogin"`
	LoginCount int       `json:"loginCount"`
}

type AccountRepo interface {
	RecordLogin(ctx context.Context, address string, at time.Time) (Account, error)
	Get(ctx context.Context, address string) (Account, error)
}

type memAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]Account
}

func NewMemoryAccountRepo() AccountRepo {
	return &memAccountRepo{accounts: make(map[string]Account)}
}

func (m *memAccountRepo) RecordLogin(ctx context.Context, address string, at time.Time) (Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.accounts[address]
	if !ok {
		a = Account{Address: address, FirstLogin: at}
	}
	a.LastLogin = at
	a.LoginCount++
	m.accounts[address] = a
	return a, nil
}

func (m *memAccountRepo) Get(ctx context.Context, address string) (Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.accounts[address]
	if !ok {
		return Account{}, ErrAccountNotFound
	}
	return a, nil
}

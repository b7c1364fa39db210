package testutil

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"
)

// InMemoryRedis behaves like the real client for the operations the codebase
// uses, with the counter operations atomic the way the redis pipelines are.
// TTLs are accepted and ignored.
type InMemoryRedis struct {
	mutex sync.Mutex
	store map[string]string
}

func NewInMemoryRedis() *InMemoryRedis {
	return &InMemoryRedis{store: map[string]string{}}
}

func (m *InMemoryRedis) Exist(ctx context.Context, key string) (bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	_, ok := m.store[key]
	return ok, nil
}

func (m *InMemoryRedis) Del(ctx context.Context, key ...string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, k := range key {
		delete(m.store, k)
	}

	return nil
}

func (m *InMemoryRedis) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.store[key] = value
	return nil
}

func (m *InMemoryRedis) SetObj(ctx context.Context, key string, obj any, ttl time.Duration) error {
	b, err := json.Marshal(obj)
	if err != nil {
		return err
	}

	return m.Set(ctx, key, string(b), ttl)
}

func (m *InMemoryRedis) Get(ctx context.Context, key string) (string, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	value, ok := m.store[key]
	if !ok {
		return "", errors.New("redis: nil")
	}

	return value, nil
}

func (m *InMemoryRedis) GetObj(ctx context.Context, key string, v any) error {
	value, err := m.Get(ctx, key)
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(value), v)
}

func (m *InMemoryRedis) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return m.incrLocked(key)
}

func (m *InMemoryRedis) SetNXIncr(
	ctx context.Context, key string, start int64, ttl time.Duration,
) (int64, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, ok := m.store[key]; !ok {
		m.store[key] = strconv.FormatInt(start, 10)
	}

	return m.incrLocked(key)
}

func (m *InMemoryRedis) incrLocked(key string) (int64, error) {
	current, err := strconv.ParseInt(m.store[key], 10, 64)
	if err != nil && m.store[key] != "" {
		return 0, err
	}

	current++
	m.store[key] = strconv.FormatInt(current, 10)
	return current, nil
}

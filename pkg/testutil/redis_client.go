package testutil

import (
	"context"
	"errors"
	"time"
)

type MockRedisClient struct {
	ExistFunc     func(ctx context.Context, key string) (bool, error)
	DelFunc       func(ctx context.Context, key ...string) error
	SetFunc       func(ctx context.Context, key, value string, ttl time.Duration) error
	SetObjFunc    func(ctx context.Context, key string, obj any, ttl time.Duration) error
	GetFunc       func(ctx context.Context, key string) (string, error)
	GetObjFunc    func(ctx context.Context, key string, v any) error
	IncrFunc      func(ctx context.Context, key string, ttl time.Duration) (int64, error)
	SetNXIncrFunc func(ctx context.Context, key string, start int64, ttl time.Duration) (int64, error)
}

func (m *MockRedisClient) Exist(ctx context.Context, key string) (bool, error) {
	if m.ExistFunc != nil {
		return m.ExistFunc(ctx, key)
	}

	return false, nil
}

func (m *MockRedisClient) Del(ctx context.Context, key ...string) error {
	if m.DelFunc != nil {
		return m.DelFunc(ctx, key...)
	}

	return nil
}

func (m *MockRedisClient) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}

	return nil
}

func (m *MockRedisClient) SetObj(ctx context.Context, key string, obj any, ttl time.Duration) error {
	if m.SetObjFunc != nil {
		return m.SetObjFunc(ctx, key, obj, ttl)
	}

	return nil
}

func (m *MockRedisClient) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}

	return "", nil
}

func (m *MockRedisClient) GetObj(ctx context.Context, key string, v any) error {
	if m.GetObjFunc != nil {
		return m.GetObjFunc(ctx, key, v)
	}

	return errors.New("not found")
}

func (m *MockRedisClient) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	if m.IncrFunc != nil {
		return m.IncrFunc(ctx, key, ttl)
	}

	return 0, nil
}

func (m *MockRedisClient) SetNXIncr(
	ctx context.Context, key string, start int64, ttl time.Duration,
) (int64, error) {
	if m.SetNXIncrFunc != nil {
		return m.SetNXIncrFunc(ctx, key, start, ttl)
	}

	return 0, nil
}

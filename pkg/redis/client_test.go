package redis

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/innovativehub/storefront/pkg/config"
	"github.com/redis/go-redis/v9"
)

func TestSessionSlotsLifecycle(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}
	slots := client.SessionSlots("sess-1", 30*time.Minute)

	if _, ok, err := slots.Get(ctx, "buyNowItem"); err != nil || ok {
		t.Fatalf("expected missing slot, ok=%v err=%v", ok, err)
	}

	if err := slots.Set(ctx, "buyNowItem", `{"quantity":1}`); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if mock.ttls["sf:session:sess-1:buyNowItem"] != 30*time.Minute {
		t.Fatalf("expected ttl on set, got %v", mock.ttls)
	}

	value, ok, err := slots.Get(ctx, "buyNowItem")
	if err != nil || !ok {
		t.Fatalf("expected hit, ok=%v err=%v", ok, err)
	}
	if value != `{"quantity":1}` {
		t.Fatalf("unexpected value %q", value)
	}
	if len(mock.expireCalls) != 1 {
		t.Fatalf("expected ttl refresh on hit, got %d", len(mock.expireCalls))
	}

	if err := slots.Delete(ctx, "buyNowItem"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok, _ := slots.Get(ctx, "buyNowItem"); ok {
		t.Fatalf("expected slot gone after delete")
	}
}

func TestSessionSlotsIsolatedPerSession(t *testing.T) {
	ctx := context.Background()
	client := &Client{store: newMockCmdable()}

	if err := client.SessionSlots("a", 0).Set(ctx, "lastOrderSummary", "a-value"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if _, ok, _ := client.SessionSlots("b", 0).Get(ctx, "lastOrderSummary"); ok {
		t.Fatalf("session b must not see session a's slot")
	}
}

func TestSessionSlotsSurfaceErrors(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	mock.getErr = errors.New("connection reset")
	slots := (&Client{store: mock}).SessionSlots("s", 0)

	if _, _, err := slots.Get(ctx, "x"); err == nil {
		t.Fatalf("expected transport error to surface")
	}

	var uninit SessionSlots
	if err := uninit.Set(ctx, "x", "y"); err == nil {
		t.Fatalf("expected error for uninitialized client")
	}
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	if got := client.SessionSlotKey("sess", "buyNowItem"); got != "sf:session:sess:buyNowItem" {
		t.Fatalf("unexpected session slot key %s", got)
	}
	if got := client.SessionSlotKey("", "buyNowItem"); got != "sf:session:buyNowItem" {
		t.Fatalf("empty parts should be skipped, got %s", got)
	}
	if got := client.LockKey("slot-retention"); got != "sf:lock:slot-retention" {
		t.Fatalf("unexpected lock key %s", got)
	}
}

func TestSetNXOnlyFirstWriterWins(t *testing.T) {
	ctx := context.Background()
	client := &Client{store: newMockCmdable()}

	ok, err := client.SetNX(ctx, "sf:lock:x", "owner-a", time.Minute)
	if err != nil || !ok {
		t.Fatalf("expected first setnx to win, ok=%v err=%v", ok, err)
	}
	ok, err = client.SetNX(ctx, "sf:lock:x", "owner-b", time.Minute)
	if err != nil || ok {
		t.Fatalf("expected second setnx to lose, ok=%v err=%v", ok, err)
	}
	value, err := client.Get(ctx, "sf:lock:x")
	if err != nil || value != "owner-a" {
		t.Fatalf("unexpected owner %q err=%v", value, err)
	}
	if err := client.Del(ctx, "sf:lock:x"); err != nil {
		t.Fatalf("del failed: %v", err)
	}
	if _, err := client.Get(ctx, "sf:lock:x"); !errors.Is(err, redis.Nil) {
		t.Fatalf("expected redis.Nil after delete, got %v", err)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatalf("expected error without url or address")
	}
	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://localhost:6379/2", PoolSize: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.DB != 2 || opts.PoolSize != 7 {
		t.Fatalf("unexpected options db=%d pool=%d", opts.DB, opts.PoolSize)
	}
}

type mockCmdable struct {
	data        map[string]string
	ttls        map[string]time.Duration
	expireCalls []expireCall
	getErr      error
}

type expireCall struct {
	key string
	ttl time.Duration
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{
		data: make(map[string]string),
		ttls: make(map[string]time.Duration),
	}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	m.data[key] = fmt.Sprint(value)
	m.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd {
	if _, exists := m.data[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	m.data[key] = fmt.Sprint(value)
	m.ttls[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	if m.getErr != nil {
		return redis.NewStringResult("", m.getErr)
	}
	if value, ok := m.data[key]; ok {
		return redis.NewStringResult(value, nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (m *mockCmdable) Expire(ctx context.Context, key string, ttl time.Duration) *redis.BoolCmd {
	m.expireCalls = append(m.expireCalls, expireCall{key: key, ttl: ttl})
	m.ttls[key] = ttl
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var removed int64
	for _, key := range keys {
		if _, ok := m.data[key]; ok {
			delete(m.data, key)
			removed++
		}
	}
	return redis.NewIntResult(removed, nil)
}

package refresh

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewStore(rdb, Config{
		Prefix:          "sa",
		BootstrapTTL:    120 * time.Second,
		ExtendThreshold: 10 * time.Second,
		ExtendedTTL:     1000 * time.Second,
	}), mr
}

func TestCreateThenValidate(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, 1)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if created.Token == "" {
		t.Fatal("expected non-empty token value")
	}
	if created.TTL != 120*time.Second {
		t.Fatalf("unexpected bootstrap TTL: %v", created.TTL)
	}

	got, err := store.Validate(ctx, 1, created.Token)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if got.Token != created.Token {
		t.Fatalf("token mismatch: got %q want %q", got.Token, created.Token)
	}
}

func TestValidateWrongToken(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Create(ctx, 1); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if _, err := store.Validate(ctx, 1, "not-the-stored-value"); !errors.Is(err, ErrTokenMismatch) {
		t.Fatalf("expected ErrTokenMismatch, got %v", err)
	}
}

func TestValidateUnknownAccount(t *testing.T) {
	store, _ := newTestStore(t)

	if _, err := store.Validate(context.Background(), 42, "anything"); !errors.Is(err, ErrNoRecord) {
		t.Fatalf("expected ErrNoRecord, got %v", err)
	}
}

func TestCreateOverwritesPriorRecord(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	first, err := store.Create(ctx, 1)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	second, err := store.Create(ctx, 1)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if first.Token == second.Token {
		t.Fatal("expected a fresh token value on overwrite")
	}

	if _, err := store.Validate(ctx, 1, first.Token); !errors.Is(err, ErrTokenMismatch) {
		t.Fatalf("expected stale token to mismatch, got %v", err)
	}
	if _, err := store.Validate(ctx, 1, second.Token); err != nil {
		t.Fatalf("Validate error for current token: %v", err)
	}
}

func TestValidateExtendsNearExpiry(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, 7)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	// Burn the bootstrap window down to under the extend threshold.
	mr.FastForward(115 * time.Second)

	got, err := store.Validate(ctx, 7, created.Token)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if got.TTL != 1000*time.Second {
		t.Fatalf("expected extended TTL, got %v", got.TTL)
	}
	if remaining := mr.TTL("sa:refresh:7"); remaining != 1000*time.Second {
		t.Fatalf("expected stored TTL 1000s, got %v", remaining)
	}
}

func TestValidateDoesNotExtendEarly(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, 9)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	mr.FastForward(30 * time.Second)

	got, err := store.Validate(ctx, 9, created.Token)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if got.TTL > 120*time.Second {
		t.Fatalf("expected untouched TTL, got %v", got.TTL)
	}
}

func TestRecordExpires(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, 3)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	mr.FastForward(121 * time.Second)

	if _, err := store.Validate(ctx, 3, created.Token); !errors.Is(err, ErrNoRecord) {
		t.Fatalf("expected ErrNoRecord after expiry, got %v", err)
	}
}

func TestInvalidateIsIdempotent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, 5)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if err := store.Invalidate(ctx, 5); err != nil {
		t.Fatalf("Invalidate error: %v", err)
	}
	if _, err := store.Validate(ctx, 5, created.Token); !errors.Is(err, ErrNoRecord) {
		t.Fatalf("expected ErrNoRecord after invalidate, got %v", err)
	}
	if err := store.Invalidate(ctx, 5); err != nil {
		t.Fatalf("second Invalidate error: %v", err)
	}
}

func TestConcurrentValidateKeepsRecordReadable(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, 11)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	mr.FastForward(115 * time.Second)

	const n = 16
	var wg sync.WaitGroup
	wg.Add(n)

	results := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := store.Validate(ctx, 11, created.Token)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	for err := range results {
		if err != nil {
			t.Fatalf("unexpected validate error: %v", err)
		}
	}

	got, err := store.Validate(ctx, 11, created.Token)
	if err != nil {
		t.Fatalf("record unreadable after concurrent validates: %v", err)
	}
	if got.Token != created.Token {
		t.Fatalf("token corrupted: got %q", got.Token)
	}
}

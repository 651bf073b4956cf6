package keylock_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"visitlog/internal/platform/keylock"
)

func TestLockSerializesSameKey(t *testing.T) {
	t.Parallel()
	locks := keylock.New()
	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locks.Lock(context.Background(), "visitor-1")
			if err != nil {
				t.Errorf("lock: %v", err)
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				cur := atomic.LoadInt32(&maxInside)
				if n <= cur || atomic.CompareAndSwapInt32(&maxInside, cur, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			unlock()
		}()
	}
	wg.Wait()
	if maxInside != 1 {
		t.Fatalf("expected at most one holder, got %d", maxInside)
	}
	if locks.Len() != 0 {
		t.Fatalf("expected idle keys to be released, got %d", locks.Len())
	}
}

func TestLockDifferentKeysIndependent(t *testing.T) {
	t.Parallel()
	locks := keylock.New()
	unlockA, err := locks.Lock(context.Background(), "a")
	if err != nil {
		t.Fatalf("lock a: %v", err)
	}
	defer unlockA()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	unlockB, err := locks.Lock(ctx, "b")
	if err != nil {
		t.Fatalf("key b must not wait on key a: %v", err)
	}
	unlockB()
}

func TestLockHonoursDeadline(t *testing.T) {
	t.Parallel()
	locks := keylock.New()
	unlock, err := locks.Lock(context.Background(), "a")
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := locks.Lock(ctx, "a"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	unlock()
	unlock()
	if locks.Len() != 0 {
		t.Fatalf("expected no keys after release, got %d", locks.Len())
	}
}

package orgmd2xhs

import (
	"runtime"
	"sync"
	"testing"
)

func TestNewServicePool_ClampsSize(t *testing.T) {
	t.Parallel()

	pool := NewServicePool(0)
	defer pool.Close()

	if pool.Size() != 1 {
		t.Errorf("Size() = %d, want 1", pool.Size())
	}
}

func TestServicePool_AcquireRelease(t *testing.T) {
	t.Parallel()

	pool := NewServicePool(2)
	defer pool.Close()

	a := pool.Acquire()
	b := pool.Acquire()
	if a == nil || b == nil {
		t.Fatal("Acquire() returned nil service")
	}
	if a == b {
		t.Error("pool handed out the same service twice")
	}

	pool.Release(a)
	if again := pool.Acquire(); again != a {
		t.Error("released service was not reused")
	}
}

func TestServicePool_ConcurrentUse(t *testing.T) {
	t.Parallel()

	pool := NewServicePool(2)
	defer pool.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc := pool.Acquire()
			pool.Release(svc)
		}()
	}
	wg.Wait()
}

func TestServicePool_CloseIdempotent(t *testing.T) {
	t.Parallel()

	pool := NewServicePool(1)
	svc := pool.Acquire()
	pool.Release(svc)

	if err := pool.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := pool.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
}

func TestServicePool_ReleaseAfterClose(t *testing.T) {
	t.Parallel()

	pool := NewServicePool(1)
	svc := pool.Acquire()

	if err := pool.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// Must not panic on the closed channel.
	pool.Release(svc)
}

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	auto := runtime.GOMAXPROCS(0) / cpuDivisor
	if auto < MinPoolSize {
		auto = MinPoolSize
	}
	if auto > MaxPoolSize {
		auto = MaxPoolSize
	}

	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{"explicit", 3, 3},
		{"explicit above cap", 100, MaxPoolSize},
		{"zero derives from cpus", 0, auto},
		{"negative derives from cpus", -1, auto},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ResolvePoolSize(tt.workers); got != tt.want {
				t.Errorf("ResolvePoolSize(%d) = %d, want %d", tt.workers, got, tt.want)
			}
		})
	}
}

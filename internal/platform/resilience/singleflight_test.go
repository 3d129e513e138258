package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlightDo(t *testing.T) {
	var g SingleFlight
	var counter int32

	const workers = 20
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			val, err, _ := g.Do("season-1", func() (any, error) {
				atomic.AddInt32(&counter, 1)
				time.Sleep(20 * time.Millisecond)
				return 7, nil
			})
			if err != nil {
				t.Errorf("singleflight call failed: %v", err)
			}
			if got, ok := val.(int); !ok || got != 7 {
				t.Errorf("expected shared value 7, got %v", val)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&counter); got != 1 {
		t.Fatalf("expected function to run once, got %d", got)
	}
}

func TestSingleFlightSequentialCallsRunSeparately(t *testing.T) {
	var g SingleFlight
	runs := 0

	for i := 0; i < 3; i++ {
		val, err, shared := g.Do("key", func() (any, error) {
			runs++
			return runs, nil
		})
		if err != nil {
			t.Fatalf("call %d failed: %v", i, err)
		}
		if shared {
			t.Fatalf("call %d unexpectedly shared", i)
		}
		if got, ok := val.(int); !ok || got != i+1 {
			t.Fatalf("call %d returned value %v", i, val)
		}
	}

	if runs != 3 {
		t.Fatalf("expected 3 runs, got %d", runs)
	}
}

package relax

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestBarrierReleasesTogether(t *testing.T) {
	const parties, rounds = 5, 200
	b := NewBarrier(parties)
	var arrived int64
	var failed atomic.Bool

	var wg sync.WaitGroup
	for p := 0; p < parties; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				atomic.AddInt64(&arrived, 1)
				if gen := b.Wait(); gen != uint64(2*i) {
					failed.Store(true)
				}
				if atomic.LoadInt64(&arrived) != int64((i+1)*parties) {
					failed.Store(true)
				}
				b.Wait()
			}
		}()
	}
	wg.Wait()

	if failed.Load() {
		t.Fatal("a party left the barrier before every party arrived")
	}
	if got := b.Generation(); got != 2*rounds {
		t.Fatalf("generation = %d, want %d", got, 2*rounds)
	}
}

func TestBarrierSingleParty(t *testing.T) {
	b := NewBarrier(1)
	if b.Wait() != 0 || b.Wait() != 1 {
		t.Fatal("a single party should pass straight through")
	}
}

package store

import (
	"strconv"
	"sync"
	"testing"
)

func TestIDGenMonotonic(t *testing.T) {
	var g idGen

	prev := int64(0)
	for i := 0; i < 1000; i++ {
		id, err := strconv.ParseInt(g.Next(), 10, 64)
		if err != nil {
			t.Fatalf("Next() returned a non-numeric id: %v", err)
		}
		if id <= prev {
			t.Fatalf("Next() = %d after %d, want strictly increasing", id, prev)
		}
		prev = id
	}
}

func TestIDGenConcurrent(t *testing.T) {
	var g idGen
	const workers = 8
	const perWorker = 100

	ids := make(chan string, workers*perWorker)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				ids <- g.Next()
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool, workers*perWorker)
	for id := range ids {
		if seen[id] {
			t.Fatalf("Next() issued duplicate id %s under concurrency", id)
		}
		seen[id] = true
	}
}

package ratelimiter

import (
	"sync"
	"testing"
	"time"
)

func TestWaitIfNeeded_UnderLimitDoesNotBlock(t *testing.T) {
	rl := New(5, time.Second)

	start := time.Now()
	for i := 0; i < 5; i++ {
		rl.WaitIfNeeded()
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("calls under the limit blocked for %v", elapsed)
	}
}

func TestWaitIfNeeded_OverLimitBlocks(t *testing.T) {
	rl := New(2, 200*time.Millisecond)

	start := time.Now()
	for i := 0; i < 3; i++ {
		rl.WaitIfNeeded()
	}
	if elapsed := time.Since(start); elapsed < 100*time.Millisecond {
		t.Errorf("third call should have waited for the window, elapsed %v", elapsed)
	}
}

func TestWaitIfNeeded_ConcurrentCallers(t *testing.T) {
	rl := New(3, 100*time.Millisecond)

	var wg sync.WaitGroup
	start := time.Now()
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rl.WaitIfNeeded()
		}()
	}
	wg.Wait()

	// 6回の呼び出しは3回ずつの2ウィンドウに収まる
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("six concurrent calls finished in %v, pacing did not engage", elapsed)
	}
}

package service

import (
	"io"
	"sync"
	"testing"

	"github.com/emzola/athenaeum/config"
	"github.com/emzola/athenaeum/internal/jsonlog"
)

// Shutdown waits on the server's wait group, so background goroutines must
// register on the same wait group the caller passed to New.
func TestBackgroundUsesCallerWaitGroup(t *testing.T) {
	var wg sync.WaitGroup
	s := New(config.Config{}, &wg, jsonlog.New(io.Discard, jsonlog.LevelOff), nil)
	ran := false
	s.background(func() {
		ran = true
	})
	wg.Wait()
	if !ran {
		t.Fatal("expected the wait group to wait for the background function")
	}
}

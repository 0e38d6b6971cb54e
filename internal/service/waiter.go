// FILE: internal/service/waiter.go
package service

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// WaitTimeout bounds how long a long-poll client can block before the wait
// resolves empty.
const WaitTimeout = 25 * time.Second

// WaitRegistry tracks long-polling clients waiting for a game to advance.
type WaitRegistry struct {
	mu       sync.RWMutex
	waiters  map[string][]*waitEntry // gameID to waiting clients
	shutdown chan struct{}
	wg       sync.WaitGroup
}

type waitEntry struct {
	moveCount int
	notify    chan struct{}
}

// NewWaitRegistry creates an empty registry.
func NewWaitRegistry() *WaitRegistry {
	return &WaitRegistry{
		waiters:  make(map[string][]*waitEntry),
		shutdown: make(chan struct{}),
	}
}

// RegisterWait registers a client waiting for the game to move past
// moveCount. The returned channel receives exactly one value on change,
// timeout, disconnect, or shutdown.
func (w *WaitRegistry) RegisterWait(gameID string, moveCount int, ctx context.Context) <-chan struct{} {
	entry := &waitEntry{
		moveCount: moveCount,
		notify:    make(chan struct{}, 1),
	}

	w.mu.Lock()
	w.waiters[gameID] = append(w.waiters[gameID], entry)
	w.mu.Unlock()

	// the returned channel stays buffered so resolve never blocks
	out := make(chan struct{}, 1)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer w.remove(gameID, entry)

		timer := time.NewTimer(WaitTimeout)
		defer timer.Stop()

		select {
		case <-entry.notify:
		case <-timer.C:
		case <-ctx.Done():
		case <-w.shutdown:
		}
		out <- struct{}{}
	}()

	return out
}

// NotifyGame wakes every client whose known move count differs from the
// current one.
func (w *WaitRegistry) NotifyGame(gameID string, currentMoveCount int) {
	w.mu.RLock()
	waitList := w.waiters[gameID]
	w.mu.RUnlock()

	for _, entry := range waitList {
		if entry.moveCount == currentMoveCount {
			continue
		}
		select {
		case entry.notify <- struct{}{}:
		default:
			// already notified
		}
	}
}

// RemoveGame wakes and drops all waiters for a game before deletion.
func (w *WaitRegistry) RemoveGame(gameID string) {
	w.mu.Lock()
	waitList := w.waiters[gameID]
	delete(w.waiters, gameID)
	w.mu.Unlock()

	for _, entry := range waitList {
		select {
		case entry.notify <- struct{}{}:
		default:
		}
	}
}

// Shutdown releases all waiters and waits for their goroutines to finish.
func (w *WaitRegistry) Shutdown(timeout time.Duration) error {
	close(w.shutdown)

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("wait registry shutdown timed out")
	}
}

func (w *WaitRegistry) remove(gameID string, entry *waitEntry) {
	w.mu.Lock()
	defer w.mu.Unlock()

	waitList := w.waiters[gameID]
	for i, e := range waitList {
		if e == entry {
			w.waiters[gameID] = append(waitList[:i], waitList[i+1:]...)
			break
		}
	}
	if len(w.waiters[gameID]) == 0 {
		delete(w.waiters, gameID)
	}
}

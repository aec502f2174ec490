package service

import "sync"

// HelpHintEvery is how many consecutive failures trigger the help hint.
const HelpHintEvery = 3

// FailureTracker counts consecutive failed replies per user.
type FailureTracker struct {
	mu     sync.Mutex
	counts map[string]int
}

func NewFailureTracker() *FailureTracker {
	return &FailureTracker{counts: make(map[string]int)}
}

// Failure records a failed reply and reports whether this one should carry
// the help hint. The counter restarts after every hint.
func (t *FailureTracker) Failure(userID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := t.counts[userID] + 1
	if n >= HelpHintEvery {
		delete(t.counts, userID)
		return true
	}
	t.counts[userID] = n
	return false
}

// Success resets the user's counter.
func (t *FailureTracker) Success(userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.counts, userID)
}

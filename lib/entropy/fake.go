// Copyright 2026 The Sealkit Authors
// SPDX-License-Identifier: Apache-2.0

package entropy

import (
	"fmt"
	"sync"
)

// Fake returns a FakeSource that replays the given values in order.
// Each call to Alphanumeric consumes one value.
//
// FakeSource is safe for concurrent use by multiple goroutines.
func Fake(values ...string) *FakeSource {
	return &FakeSource{queue: values}
}

// FakeSource is a deterministic Source for testing. Draws consume a
// queue of preset values; an exhausted queue or a value whose length
// does not match the request is an error, never a silent substitute.
type FakeSource struct {
	mu    sync.Mutex
	queue []string
}

// Alphanumeric pops the next queued value. Returns an error if the
// queue is empty or the value's length differs from length.
func (s *FakeSource) Alphanumeric(length int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.queue) == 0 {
		return "", fmt.Errorf("entropy: fake source exhausted (draw of length %d requested)", length)
	}
	next := s.queue[0]
	s.queue = s.queue[1:]

	if len(next) != length {
		return "", fmt.Errorf("entropy: fake value %q has length %d, draw requested %d", next, len(next), length)
	}
	return next, nil
}

// Remaining returns the number of queued values not yet drawn.
func (s *FakeSource) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

package leadclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

const (
	// DefaultClientMax is the number of successful submissions allowed per
	// window before the client stops trying.
	DefaultClientMax = 3
	// DefaultClientWindow is the sliding window for the local limit.
	DefaultClientWindow = time.Hour
)

// TimestampStore persists the timestamps of recent successful submissions.
type TimestampStore interface {
	Read() ([]time.Time, error)
	Write(ts []time.Time) error
}

// FileTimestampStore keeps timestamps in a JSON file.
type FileTimestampStore struct {
	path string
}

func NewFileTimestampStore(path string) *FileTimestampStore {
	return &FileTimestampStore{path: path}
}

func (s *FileTimestampStore) Read() ([]time.Time, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ratelimit: read: %w", err)
	}
	var ts []time.Time
	if err := json.Unmarshal(data, &ts); err != nil {
		return nil, nil
	}
	return ts, nil
}

func (s *FileTimestampStore) Write(ts []time.Time) error {
	data, err := json.Marshal(ts)
	if err != nil {
		return fmt.Errorf("ratelimit: encode: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("ratelimit: write: %w", err)
	}
	return nil
}

// LocalLimiter enforces a client-side sliding window over successful
// submissions. It is advisory: the server enforces its own limit with a
// stricter ceiling. Only successful submissions count against the window.
type LocalLimiter struct {
	store   TimestampStore
	max     int
	window  time.Duration
	now     func() time.Time
	Enabled bool
}

// NewLocalLimiter creates a limiter over the given store. Zero max or window
// fall back to the defaults.
func NewLocalLimiter(store TimestampStore, max int, window time.Duration) *LocalLimiter {
	if max <= 0 {
		max = DefaultClientMax
	}
	if window <= 0 {
		window = DefaultClientWindow
	}
	return &LocalLimiter{
		store:   store,
		max:     max,
		window:  window,
		now:     time.Now,
		Enabled: true,
	}
}

// Allow reports whether another submission may be attempted. Expired
// timestamps are pruned from the store as a side effect.
func (l *LocalLimiter) Allow() (bool, error) {
	if !l.Enabled {
		return true, nil
	}
	recent, err := l.prune()
	if err != nil {
		return true, err
	}
	return len(recent) < l.max, nil
}

// Record appends the current time after a successful submission.
func (l *LocalLimiter) Record() error {
	if !l.Enabled {
		return nil
	}
	recent, err := l.prune()
	if err != nil {
		return err
	}
	recent = append(recent, l.now())
	return l.store.Write(recent)
}

// Remaining reports how many submissions the window still allows.
func (l *LocalLimiter) Remaining() (int, error) {
	if !l.Enabled {
		return l.max, nil
	}
	recent, err := l.prune()
	if err != nil {
		return l.max, err
	}
	left := l.max - len(recent)
	if left < 0 {
		left = 0
	}
	return left, nil
}

func (l *LocalLimiter) prune() ([]time.Time, error) {
	ts, err := l.store.Read()
	if err != nil {
		return nil, err
	}
	cutoff := l.now().Add(-l.window)
	recent := ts[:0]
	for _, t := range ts {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}
	if len(recent) != len(ts) {
		if err := l.store.Write(recent); err != nil {
			return recent, err
		}
	}
	return recent, nil
}

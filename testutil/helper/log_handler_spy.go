package helper

import (
	"context"
	"log/slog"
	"sync"
)

// LogHandlerSpy is a slog.Handler that keeps every record.
//
//	spy := helper.NewLogHandlerSpy()
//	logger := slog.New(spy)
type LogHandlerSpy struct {
	mu      sync.Mutex
	records []slog.Record
}

// NewLogHandlerSpy returns an empty spy.
func NewLogHandlerSpy() *LogHandlerSpy {
	return &LogHandlerSpy{}
}

// Handle keeps record.
func (s *LogHandlerSpy) Handle(_ context.Context, record slog.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, record.Clone())

	return nil
}

// Enabled is always true.
func (s *LogHandlerSpy) Enabled(context.Context, slog.Level) bool {
	return true
}

// WithAttrs ignores attrs.
func (s *LogHandlerSpy) WithAttrs([]slog.Attr) slog.Handler {
	return s
}

// WithGroup ignores the group.
func (s *LogHandlerSpy) WithGroup(string) slog.Handler {
	return s
}

// RecordCount returns the number of kept records.
func (s *LogHandlerSpy) RecordCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.records)
}

// HasLog reports whether a record with level and msg was kept.
func (s *LogHandlerSpy) HasLog(level slog.Level, msg string) bool {
	return s.HasLogWithAttr(level, msg, "", "")
}

// HasLogWithAttr reports whether a record with level and msg carries attribute key=value.
// An empty key matches any record with level and msg.
func (s *LogHandlerSpy) HasLogWithAttr(level slog.Level, msg, key, value string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.records {
		if record.Level != level || record.Message != msg {
			continue
		}

		if key == "" {
			return true
		}

		found := false
		record.Attrs(func(a slog.Attr) bool {
			if a.Key == key && a.Value.String() == value {
				found = true
				return false
			}
			return true
		})

		if found {
			return true
		}
	}

	return false
}

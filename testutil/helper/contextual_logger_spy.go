package helper

import (
	"context"
	"fmt"
	"sync"
)

// SpyContextualLogRecord is one captured contextual log call.
type SpyContextualLogRecord struct {
	Level   string
	Message string
	Args    []any
	Context context.Context
}

// ContextualLoggerSpy captures calls to circulation.ContextualLogger.
type ContextualLoggerSpy struct {
	mu      sync.Mutex
	records []SpyContextualLogRecord
}

// NewContextualLoggerSpy returns an empty spy.
func NewContextualLoggerSpy() *ContextualLoggerSpy {
	return &ContextualLoggerSpy{}
}

func (s *ContextualLoggerSpy) record(ctx context.Context, level, msg string, args []any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, SpyContextualLogRecord{Level: level, Message: msg, Args: args, Context: ctx})
}

// DebugContext captures a debug call.
func (s *ContextualLoggerSpy) DebugContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "debug", msg, args)
}

// InfoContext captures an info call.
func (s *ContextualLoggerSpy) InfoContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "info", msg, args)
}

// WarnContext captures a warn call.
func (s *ContextualLoggerSpy) WarnContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "warn", msg, args)
}

// ErrorContext captures an error call.
func (s *ContextualLoggerSpy) ErrorContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "error", msg, args)
}

// Records returns a copy of the captured calls.
func (s *ContextualLoggerSpy) Records() []SpyContextualLogRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]SpyContextualLogRecord(nil), s.records...)
}

// HasRecord reports whether a call with level and msg was captured.
func (s *ContextualLoggerSpy) HasRecord(level, msg string) bool {
	for _, r := range s.Records() {
		if r.Level == level && r.Message == msg {
			return true
		}
	}

	return false
}

// HasRecordWithArg reports whether a call with level and msg had the key/value pair in its args.
func (s *ContextualLoggerSpy) HasRecordWithArg(level, msg, key string, value any) bool {
	for _, r := range s.Records() {
		if r.Level != level || r.Message != msg {
			continue
		}

		for i := 0; i+1 < len(r.Args); i += 2 {
			if fmt.Sprint(r.Args[i]) == key && fmt.Sprint(r.Args[i+1]) == fmt.Sprint(value) {
				return true
			}
		}
	}

	return false
}

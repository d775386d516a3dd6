package settingscache

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/library-circulation-go/library/core"
	"github.com/AntonStoeckl/library-circulation-go/library/shell"
)

const (
	// DefaultTTL is how long an entry lives without an explicit invalidation.
	DefaultTTL = 5 * time.Minute

	keyPrefix = "circulation:settings:"

	logMsgCacheReadFailed   = "settings cache read failed, loading from store"
	logMsgCacheWriteFailed  = "settings cache write failed"
	logMsgCacheDecodeFailed = "settings cache entry unreadable, loading from store"
	logAttrOwnerID          = "owner_id"
	logAttrError            = "error"
)

// ErrNilRedisClient is returned when New gets no client.
var ErrNilRedisClient = errors.New("redis client must not be nil")

// Cache implements shell.LoadsSettings on top of another shell.LoadsSettings.
type Cache struct {
	store  shell.LoadsSettings
	client redis.Cmdable
	ttl    time.Duration
	logger shell.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithLogger logs cache failures at warn level.
func WithLogger(logger shell.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// New returns a Cache reading through to store.
func New(store shell.LoadsSettings, client redis.Cmdable, options ...Option) (*Cache, error) {
	if client == nil {
		return nil, ErrNilRedisClient
	}

	c := &Cache{store: store, client: client, ttl: DefaultTTL}
	for _, option := range options {
		option(c)
	}

	return c, nil
}

// LoadSettings returns the cached entry of ownerID, or loads and caches it.
func (c *Cache) LoadSettings(ctx context.Context, ownerID uuid.UUID) (core.LibrarySettings, bool, error) {
	raw, err := c.client.Get(ctx, key(ownerID)).Bytes()

	switch {
	case err == nil:
		settings, found, decodeErr := decode(raw, ownerID)
		if decodeErr == nil {
			return settings, found, nil
		}

		c.warn(logMsgCacheDecodeFailed, ownerID, decodeErr)
	case errors.Is(err, redis.Nil):
		// miss
	default:
		c.warn(logMsgCacheReadFailed, ownerID, err)
	}

	settings, found, err := c.store.LoadSettings(ctx, ownerID)
	if err != nil {
		return core.LibrarySettings{}, false, err
	}

	c.put(ctx, ownerID, settings, found)

	return settings, found, nil
}

// Invalidate drops the entry of ownerID. Call it after the settings were written.
func (c *Cache) Invalidate(ctx context.Context, ownerID uuid.UUID) error {
	return c.client.Del(ctx, key(ownerID)).Err()
}

func (c *Cache) put(ctx context.Context, ownerID uuid.UUID, settings core.LibrarySettings, found bool) {
	raw, err := jsoniter.ConfigFastest.Marshal(entryFrom(settings, found))
	if err != nil {
		c.warn(logMsgCacheWriteFailed, ownerID, err)
		return
	}

	if err := c.client.Set(ctx, key(ownerID), raw, c.ttl).Err(); err != nil {
		c.warn(logMsgCacheWriteFailed, ownerID, err)
	}
}

func (c *Cache) warn(msg string, ownerID uuid.UUID, err error) {
	if c.logger != nil {
		c.logger.Warn(msg, logAttrOwnerID, ownerID.String(), logAttrError, err.Error())
	}
}

func key(ownerID uuid.UUID) string {
	return keyPrefix + ownerID.String()
}

type entry struct {
	Found              bool      `json:"found"`
	DailyLateFeeRate   string    `json:"daily_late_fee_rate,omitempty"`
	GracePeriodDays    int       `json:"grace_period_days,omitempty"`
	MaxLateFeeCap      string    `json:"max_late_fee_cap,omitempty"`
	MaxRenewalsPerLoan int       `json:"max_renewals_per_loan,omitempty"`
	BorrowingLimit     int       `json:"borrowing_limit,omitempty"`
	UnpaidFeeLoanLimit int       `json:"unpaid_fee_loan_limit,omitempty"`
	DefaultLoanDays    int       `json:"default_loan_days,omitempty"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func entryFrom(s core.LibrarySettings, found bool) entry {
	if !found {
		return entry{Found: false}
	}

	return entry{
		Found:              true,
		DailyLateFeeRate:   s.DailyLateFeeRate.String(),
		GracePeriodDays:    s.GracePeriodDays,
		MaxLateFeeCap:      s.MaxLateFeeCap.String(),
		MaxRenewalsPerLoan: s.MaxRenewalsPerLoan,
		BorrowingLimit:     s.BorrowingLimit,
		UnpaidFeeLoanLimit: s.UnpaidFeeLoanLimit,
		DefaultLoanDays:    s.DefaultLoanDays,
		UpdatedAt:          s.UpdatedAt,
	}
}

func decode(raw []byte, ownerID uuid.UUID) (core.LibrarySettings, bool, error) {
	var e entry
	if err := jsoniter.ConfigFastest.Unmarshal(raw, &e); err != nil {
		return core.LibrarySettings{}, false, err
	}

	if !e.Found {
		return core.LibrarySettings{}, false, nil
	}

	rate, err := decimal.NewFromString(e.DailyLateFeeRate)
	if err != nil {
		return core.LibrarySettings{}, false, err
	}

	maxCap, err := decimal.NewFromString(e.MaxLateFeeCap)
	if err != nil {
		return core.LibrarySettings{}, false, err
	}

	return core.LibrarySettings{
		OwnerID:            ownerID,
		DailyLateFeeRate:   rate,
		GracePeriodDays:    e.GracePeriodDays,
		MaxLateFeeCap:      maxCap,
		MaxRenewalsPerLoan: e.MaxRenewalsPerLoan,
		BorrowingLimit:     e.BorrowingLimit,
		UnpaidFeeLoanLimit: e.UnpaidFeeLoanLimit,
		DefaultLoanDays:    e.DefaultLoanDays,
		UpdatedAt:          e.UpdatedAt,
	}, true, nil
}

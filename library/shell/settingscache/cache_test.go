package settingscache_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/library/core"
	"github.com/AntonStoeckl/library-circulation-go/library/shell/settingscache"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/helper" //nolint:revive
)

type countingSettingsStore struct {
	settings core.LibrarySettings
	found    bool
	err      error
	calls    int
}

func (s *countingSettingsStore) LoadSettings(context.Context, uuid.UUID) (core.LibrarySettings, bool, error) {
	s.calls++
	return s.settings, s.found, s.err
}

func givenRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, client
}

func givenStoredSettings(ownerID uuid.UUID) core.LibrarySettings {
	s := core.DefaultLibrarySettingsFor(ownerID)
	s.DailyLateFeeRate = core.MoneyFromString("0.75")
	s.MaxRenewalsPerLoan = 3
	s.UpdatedAt = FixedNow()

	return s
}

func Test_New_NilClient(t *testing.T) {
	// act
	_, err := settingscache.New(&countingSettingsStore{}, nil)

	// assert
	assert.ErrorIs(t, err, settingscache.ErrNilRedisClient)
}

func Test_LoadSettings_ReadsThroughOnceThenServesFromCache(t *testing.T) {
	// setup
	_, client := givenRedis(t)
	ctx := context.Background()

	// arrange
	ownerID := GivenUniqueID(t)
	store := &countingSettingsStore{settings: givenStoredSettings(ownerID), found: true}
	cache, err := settingscache.New(store, client)
	require.NoError(t, err)

	// act
	first, firstFound, firstErr := cache.LoadSettings(ctx, ownerID)
	second, secondFound, secondErr := cache.LoadSettings(ctx, ownerID)

	// assert
	require.NoError(t, firstErr)
	require.NoError(t, secondErr)
	assert.True(t, firstFound)
	assert.True(t, secondFound)
	assert.Equal(t, 1, store.calls)
	assert.True(t, second.SameRulesAs(first))
	assert.True(t, second.UpdatedAt.Equal(FixedNow()))
}

func Test_LoadSettings_CachesAbsence(t *testing.T) {
	// setup
	_, client := givenRedis(t)
	ctx := context.Background()

	// arrange
	ownerID := GivenUniqueID(t)
	store := &countingSettingsStore{}
	cache, err := settingscache.New(store, client)
	require.NoError(t, err)

	// act
	_, firstFound, _ := cache.LoadSettings(ctx, ownerID)
	_, secondFound, secondErr := cache.LoadSettings(ctx, ownerID)

	// assert
	require.NoError(t, secondErr)
	assert.False(t, firstFound)
	assert.False(t, secondFound)
	assert.Equal(t, 1, store.calls)
}

func Test_LoadSettings_EntriesExpire(t *testing.T) {
	// setup
	mr, client := givenRedis(t)
	ctx := context.Background()

	// arrange
	ownerID := GivenUniqueID(t)
	store := &countingSettingsStore{settings: givenStoredSettings(ownerID), found: true}
	cache, err := settingscache.New(store, client, settingscache.WithTTL(time.Minute))
	require.NoError(t, err)

	_, _, err = cache.LoadSettings(ctx, ownerID)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, mr.TTL("circulation:settings:"+ownerID.String()))

	// act
	mr.FastForward(2 * time.Minute)
	_, _, err = cache.LoadSettings(ctx, ownerID)

	// assert
	require.NoError(t, err)
	assert.Equal(t, 2, store.calls)
}

func Test_Invalidate_ForcesReload(t *testing.T) {
	// setup
	_, client := givenRedis(t)
	ctx := context.Background()

	// arrange
	ownerID := GivenUniqueID(t)
	store := &countingSettingsStore{settings: givenStoredSettings(ownerID), found: true}
	cache, err := settingscache.New(store, client)
	require.NoError(t, err)

	_, _, err = cache.LoadSettings(ctx, ownerID)
	require.NoError(t, err)

	store.settings.BorrowingLimit = 9

	// act
	require.NoError(t, cache.Invalidate(ctx, ownerID))
	settings, _, err := cache.LoadSettings(ctx, ownerID)

	// assert
	require.NoError(t, err)
	assert.Equal(t, 9, settings.BorrowingLimit)
	assert.Equal(t, 2, store.calls)
}

func Test_LoadSettings_StoreErrorIsNotCached(t *testing.T) {
	// setup
	_, client := givenRedis(t)
	ctx := context.Background()

	// arrange
	ownerID := GivenUniqueID(t)
	storeErr := errors.New("db down")
	store := &countingSettingsStore{err: storeErr}
	cache, err := settingscache.New(store, client)
	require.NoError(t, err)

	// act
	_, _, firstErr := cache.LoadSettings(ctx, ownerID)
	_, _, secondErr := cache.LoadSettings(ctx, ownerID)

	// assert
	assert.ErrorIs(t, firstErr, storeErr)
	assert.ErrorIs(t, secondErr, storeErr)
	assert.Equal(t, 2, store.calls)
}

func Test_LoadSettings_RedisDownFallsBackToStore(t *testing.T) {
	// setup
	mr, client := givenRedis(t)
	ctx := context.Background()
	logSpy := NewLogHandlerSpy()

	// arrange
	ownerID := GivenUniqueID(t)
	store := &countingSettingsStore{settings: givenStoredSettings(ownerID), found: true}
	cache, err := settingscache.New(store, client, settingscache.WithLogger(slog.New(logSpy)))
	require.NoError(t, err)
	mr.Close()

	// act
	settings, found, err := cache.LoadSettings(ctx, ownerID)

	// assert
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 3, settings.MaxRenewalsPerLoan)
	assert.True(t, logSpy.HasLogWithAttr(slog.LevelWarn, "settings cache read failed, loading from store", "owner_id", ownerID.String()))
	assert.True(t, logSpy.HasLog(slog.LevelWarn, "settings cache write failed"))
}

func Test_LoadSettings_CorruptEntryFallsBackToStore(t *testing.T) {
	// setup
	mr, client := givenRedis(t)
	ctx := context.Background()
	logSpy := NewLogHandlerSpy()

	// arrange
	ownerID := GivenUniqueID(t)
	require.NoError(t, mr.Set("circulation:settings:"+ownerID.String(), `{"found":true,"daily_late_fee_rate":"lots"}`))
	store := &countingSettingsStore{settings: givenStoredSettings(ownerID), found: true}
	cache, err := settingscache.New(store, client, settingscache.WithLogger(slog.New(logSpy)))
	require.NoError(t, err)

	// act
	settings, found, err := cache.LoadSettings(ctx, ownerID)

	// assert
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, settings.DailyLateFeeRate.Equal(core.MoneyFromString("0.75")))
	assert.Equal(t, 1, store.calls)
	assert.True(t, logSpy.HasLog(slog.LevelWarn, "settings cache entry unreadable, loading from store"))
}

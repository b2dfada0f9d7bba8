package updatecheck

import (
	"context"
	"testing"
	"time"

	"github.com/colonyops/quill/internal/core/kv"
	"github.com/colonyops/quill/internal/data/db"
	"github.com/colonyops/quill/internal/data/stores"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChecker(t *testing.T) (*Checker, kv.KV) {
	t.Helper()
	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	store := stores.NewKVStore(database)
	return New(store), store
}

func cacheRelease(t *testing.T, store kv.KV, tag string) {
	t.Helper()
	cache := kv.Scoped[ReleaseInfo](store, cacheNamespace)
	err := cache.SetTTL(context.Background(), cacheKey, ReleaseInfo{TagName: tag}, cacheTTL)
	require.NoError(t, err)
}

func withStubbedFetch(t *testing.T) *int {
	t.Helper()
	calls := 0
	prevFetch := fetchLatestReleaseJSON
	fetchLatestReleaseJSON = func(context.Context) ([]byte, error) {
		calls++
		return nil, nil
	}
	t.Cleanup(func() {
		fetchLatestReleaseJSON = prevFetch
	})
	return &calls
}

func TestCheck_DevVersion(t *testing.T) {
	checker, _ := newTestChecker(t)

	result, err := checker.Check(context.Background(), "dev")
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestCheck_EmptyVersion(t *testing.T) {
	checker, _ := newTestChecker(t)

	result, err := checker.Check(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestCheck_InvalidVersion(t *testing.T) {
	checker, _ := newTestChecker(t)

	result, err := checker.Check(context.Background(), "not-semver")
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestCheck_CurrentIsLatest(t *testing.T) {
	checker, store := newTestChecker(t)
	cacheRelease(t, store, "v1.3.0")
	lookups := withStubbedFetch(t)

	result, err := checker.Check(context.Background(), "v1.3.0")
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Equal(t, 0, *lookups)
}

func TestCheck_UpdateAvailable(t *testing.T) {
	checker, store := newTestChecker(t)
	cacheRelease(t, store, "v2.0.0")
	lookups := withStubbedFetch(t)

	result, err := checker.Check(context.Background(), "v1.0.0")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "v1.0.0", result.Current)
	assert.Equal(t, "v2.0.0", result.Latest)
	assert.Equal(t, 0, *lookups)
}

func TestCheck_CurrentIsNewer(t *testing.T) {
	checker, store := newTestChecker(t)
	cacheRelease(t, store, "v1.0.0")
	lookups := withStubbedFetch(t)

	result, err := checker.Check(context.Background(), "v2.0.0")
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Equal(t, 0, *lookups)
}

func TestCheck_NormalizesVersionPrefix(t *testing.T) {
	checker, store := newTestChecker(t)
	cacheRelease(t, store, "v1.3.0")
	lookups := withStubbedFetch(t)

	result, err := checker.Check(context.Background(), "1.2.3")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "v1.2.3", result.Current)
	assert.Equal(t, "v1.3.0", result.Latest)
	assert.Equal(t, 0, *lookups)
}

func TestCheck_InvalidCachedTag(t *testing.T) {
	checker, store := newTestChecker(t)
	cache := kv.Scoped[ReleaseInfo](store, cacheNamespace)
	err := cache.SetTTL(context.Background(), cacheKey, ReleaseInfo{TagName: "not-semver"}, time.Hour)
	require.NoError(t, err)

	result, checkErr := checker.Check(context.Background(), "v1.0.0")
	require.NoError(t, checkErr)
	assert.Nil(t, result)
}

package service

import (
	"Go_Assets/config"
	"Go_Assets/internal/repo"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReserveQuotaIsConditional(t *testing.T) {
	setupTest(t)
	createUser(t, "u1", "u1@example.com")
	limit := config.Upload().MaxUserStorage

	require.NoError(t, ReserveQuota(repo.Db, "u1", 100))
	assert.Equal(t, int64(100), usage(t, "u1"))

	setUsage(t, "u1", limit-50)
	assert.ErrorIs(t, ReserveQuota(repo.Db, "u1", 100), ErrQuotaExceeded)
	assert.Equal(t, limit-50, usage(t, "u1"))

	require.NoError(t, ReserveQuota(repo.Db, "u1", 50))
	assert.Equal(t, limit, usage(t, "u1"))

	require.NoError(t, ReserveQuota(repo.Db, "u1", 0))
}

func TestReserveQuotaUnknownUser(t *testing.T) {
	setupTest(t)
	assert.ErrorIs(t, ReserveQuota(repo.Db, "ghost", 10), ErrNotFound)
	assert.ErrorIs(t, ReserveQuota(repo.Db, "ghost", 0), ErrNotFound)
	assert.ErrorIs(t, ReserveQuota(repo.Db, "ghost", -1), ErrValidation)
}

func TestReleaseQuotaSaturatesAtZero(t *testing.T) {
	setupTest(t)
	createUser(t, "u1", "u1@example.com")
	setUsage(t, "u1", 10)

	require.NoError(t, ReleaseQuota(repo.Db, "u1", 4))
	assert.Equal(t, int64(6), usage(t, "u1"))

	require.NoError(t, ReleaseQuota(repo.Db, "u1", 100))
	assert.Equal(t, int64(0), usage(t, "u1"))
}

func TestGetQuotaInfo(t *testing.T) {
	setupTest(t)
	createUser(t, "u1", "u1@example.com")
	limit := config.Upload().MaxUserStorage
	setUsage(t, "u1", limit/4)

	info, err := GetQuotaInfo("u1")
	require.NoError(t, err)
	assert.Equal(t, limit/4, info.Used)
	assert.Equal(t, limit-limit/4, info.Available)
	assert.InDelta(t, 25.0, info.UsagePercent, 0.001)
}

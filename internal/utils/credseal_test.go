package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tindahan/tindahan/internal/core/domain"
)

func testCredential() *domain.CachedCredential {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.CachedCredential{
		OwnerID:      "owner-1",
		StoreName:    "Tindahan ni Aling Nena",
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		TokenExpiry:  now.Add(time.Hour),
		CachedAt:     now,
		HardCeiling:  now.Add(720 * time.Hour),
	}
}

func TestSealUnsealRoundTrip(t *testing.T) {
	cred := testCredential()

	blob, err := SealCredential(cred, "secret")
	require.NoError(t, err)
	require.NotEmpty(t, blob)

	got, err := UnsealCredential(blob, "secret")
	require.NoError(t, err)
	assert.Equal(t, cred.OwnerID, got.OwnerID)
	assert.Equal(t, cred.AccessToken, got.AccessToken)
	assert.Equal(t, cred.RefreshToken, got.RefreshToken)
	assert.True(t, cred.TokenExpiry.Equal(got.TokenExpiry))
	assert.True(t, cred.HardCeiling.Equal(got.HardCeiling))
}

func TestUnsealRejectsTamperedBlob(t *testing.T) {
	blob, err := SealCredential(testCredential(), "secret")
	require.NoError(t, err)

	blob[len(blob)-1] ^= 0xFF

	got, err := UnsealCredential(blob, "secret")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrSealedDataCorrupt)
}

func TestUnsealRejectsWrongSecret(t *testing.T) {
	blob, err := SealCredential(testCredential(), "secret")
	require.NoError(t, err)

	got, err := UnsealCredential(blob, "another secret")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrSealedDataCorrupt)
}

func TestUnsealRejectsTruncatedBlob(t *testing.T) {
	got, err := UnsealCredential([]byte{0x01, 0x02}, "secret")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrSealedDataCorrupt)
}

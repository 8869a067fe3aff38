package auth

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestAuth_TokenRoundTrip(t *testing.T) {
	a, err := New(testKey, time.Hour, 24*time.Hour)
	require.NoError(t, err)

	access, refresh, err := a.GenToken(Claims{UserId: 3, Type: TypeEmployee, SiteID: 9})
	require.NoError(t, err)

	claims, err := a.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, 3, claims.UserId)
	assert.Equal(t, TypeEmployee, claims.Type)
	assert.Equal(t, 9, claims.SiteID)

	_, err = a.ValidateToken(refresh)
	assert.True(t, errors.Is(err, ErrInvalidToken))

	rc, err := a.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, 3, rc.UserId)

	_, err = a.ValidateRefreshToken(access)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestAuth_ExpiredAndForeignTokens(t *testing.T) {
	a, err := New(testKey, time.Minute, time.Minute)
	require.NoError(t, err)
	a.now = func() time.Time { return time.Now().Add(-time.Hour) }

	access, _, err := a.GenToken(Claims{UserId: 1, Type: TypeAdmin})
	require.NoError(t, err)

	_, err = a.ValidateToken(access)
	assert.Equal(t, ErrExpiredToken, err)

	other, err := New("another-signing-key-0000", time.Hour, time.Hour)
	require.NoError(t, err)
	foreign, _, err := other.GenToken(Claims{UserId: 1, Type: TypeAdmin})
	require.NoError(t, err)

	b, err := New(testKey, time.Hour, time.Hour)
	require.NoError(t, err)
	_, err = b.ValidateToken(foreign)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestNew_ShortKey(t *testing.T) {
	_, err := New("short", time.Hour, time.Hour)
	assert.Error(t, err)
}

func TestClaims_Capabilities(t *testing.T) {
	super := Claims{Type: TypeAdmin, SuperAdmin: true}
	scoped := Claims{Type: TypeAdmin, Capabilities: []string{CapLabour}}
	employee := Claims{Type: TypeEmployee, Capabilities: []string{CapLabour}}

	for _, c := range AllCapabilities {
		assert.True(t, super.Can(c), c)
	}
	assert.True(t, scoped.Can(CapLabour))
	assert.False(t, scoped.Can(CapAdmin))
	assert.False(t, employee.Can(CapLabour))

	assert.True(t, employee.Authorized())
	assert.True(t, employee.Authorized(TypeAdmin, TypeEmployee))
	assert.False(t, employee.Authorized(TypeLabour))
}

func TestFromContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := context.WithValue(context.Background(), Key, Claims{UserId: 5})
	claims, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, 5, claims.UserId)
}

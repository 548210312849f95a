package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/querydeck/querydeck/internal/service/auth"
)

func TestLoginAndValidate(t *testing.T) {
	provider := auth.NewMemoryProvider("demo", "demo", time.Hour, nil)
	ctx := context.Background()

	session, err := provider.Login(ctx, "demo", "demo")
	require.NoError(t, err)
	require.NotEmpty(t, session.Token)

	got, ok := provider.Validate(ctx, session.Token)
	require.True(t, ok)
	assert.Equal(t, session.Token, got.Token)
	assert.False(t, got.DarkTheme)
}

func TestLoginRejectsWrongCredentials(t *testing.T) {
	provider := auth.NewMemoryProvider("demo", "demo", time.Hour, nil)
	ctx := context.Background()

	_, err := provider.Login(ctx, "demo", "wrong")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = provider.Login(ctx, "intruder", "demo")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestValidateUnknownToken(t *testing.T) {
	provider := auth.NewMemoryProvider("demo", "demo", time.Hour, nil)

	_, ok := provider.Validate(context.Background(), "nope")
	assert.False(t, ok)
	_, ok = provider.Validate(context.Background(), "")
	assert.False(t, ok)
}

func TestSessionExpiry(t *testing.T) {
	clock := clockwork.NewFakeClock()
	provider := auth.NewMemoryProvider("demo", "demo", time.Hour, clock)
	ctx := context.Background()

	session, err := provider.Login(ctx, "demo", "demo")
	require.NoError(t, err)

	_, ok := provider.Validate(ctx, session.Token)
	require.True(t, ok)

	clock.Advance(time.Hour + time.Minute)

	_, ok = provider.Validate(ctx, session.Token)
	assert.False(t, ok)
}

func TestDestroy(t *testing.T) {
	provider := auth.NewMemoryProvider("demo", "demo", time.Hour, nil)
	ctx := context.Background()

	session, err := provider.Login(ctx, "demo", "demo")
	require.NoError(t, err)

	provider.Destroy(ctx, session.Token)
	_, ok := provider.Validate(ctx, session.Token)
	assert.False(t, ok)
}

func TestToggleThemeTwiceRestoresOriginal(t *testing.T) {
	provider := auth.NewMemoryProvider("demo", "demo", time.Hour, nil)
	ctx := context.Background()

	session, err := provider.Login(ctx, "demo", "demo")
	require.NoError(t, err)

	dark, err := provider.ToggleTheme(ctx, session.Token)
	require.NoError(t, err)
	assert.True(t, dark)

	dark, err = provider.ToggleTheme(ctx, session.Token)
	require.NoError(t, err)
	assert.False(t, dark)

	got, ok := provider.Validate(ctx, session.Token)
	require.True(t, ok)
	assert.False(t, got.DarkTheme)
}

func TestToggleThemeUnknownSession(t *testing.T) {
	provider := auth.NewMemoryProvider("demo", "demo", time.Hour, nil)

	_, err := provider.ToggleTheme(context.Background(), "nope")
	assert.ErrorIs(t, err, auth.ErrSessionNotFound)
}

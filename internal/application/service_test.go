package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bnema/autumn-cli/internal/domain"
	"github.com/bnema/autumn-cli/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialServiceSaveTrimsSecret(t *testing.T) {
	store := mocks.NewMockSecretStore(t)
	service := NewCredentialService(store)

	store.EXPECT().Put(mockAnyContext(), CredentialKey, "am_sk_live").Return(nil).Once()

	err := service.Save(context.Background(), "  am_sk_live \n")
	require.NoError(t, err)
}

func TestCredentialServiceSaveRejectsBlankWithoutStoreCall(t *testing.T) {
	store := mocks.NewMockSecretStore(t)
	service := NewCredentialService(store)

	for _, input := range []string{"", "   ", "\t\n"} {
		err := service.Save(context.Background(), input)
		require.ErrorIs(t, err, domain.ErrEmptyCredential)
		assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	}
}

func TestCredentialServiceSaveWrapsStoreError(t *testing.T) {
	store := mocks.NewMockSecretStore(t)
	service := NewCredentialService(store)

	putErr := errors.New("disk full")
	store.EXPECT().Put(mockAnyContext(), CredentialKey, "key").Return(putErr).Once()

	err := service.Save(context.Background(), "key")
	require.ErrorIs(t, err, putErr)
	assert.ErrorContains(t, err, "store api key")
}

func TestCredentialServiceReadMissingKeyIsAbsent(t *testing.T) {
	store := mocks.NewMockSecretStore(t)
	service := NewCredentialService(store)

	store.EXPECT().Get(mockAnyContext(), CredentialKey).Return("", domain.ErrSecretNotFound).Once()

	secret, found, err := service.Read(context.Background())
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, secret)
}

func TestCredentialServiceReadEmptyValueIsAbsent(t *testing.T) {
	store := mocks.NewMockSecretStore(t)
	service := NewCredentialService(store)

	store.EXPECT().Get(mockAnyContext(), CredentialKey).Return("", nil).Once()

	_, found, err := service.Read(context.Background())
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCredentialServiceReadPropagatesBackendError(t *testing.T) {
	store := mocks.NewMockSecretStore(t)
	service := NewCredentialService(store)

	store.EXPECT().Get(mockAnyContext(), CredentialKey).Return("", errors.New("gpg locked")).Once()

	_, found, err := service.Read(context.Background())
	require.Error(t, err)
	assert.False(t, found)
	assert.ErrorContains(t, err, "gpg locked")
}

func TestCredentialServiceClearIsIdempotent(t *testing.T) {
	store := mocks.NewMockSecretStore(t)
	service := NewCredentialService(store)

	store.EXPECT().Delete(mockAnyContext(), CredentialKey).Return(nil).Once()
	store.EXPECT().Delete(mockAnyContext(), CredentialKey).Return(domain.ErrSecretNotFound).Once()

	require.NoError(t, service.Clear(context.Background()))
	require.NoError(t, service.Clear(context.Background()))
}

func TestCredentialServiceClearReportsBackendError(t *testing.T) {
	store := mocks.NewMockSecretStore(t)
	service := NewCredentialService(store)

	deleteErr := errors.New("permission denied")
	store.EXPECT().Delete(mockAnyContext(), CredentialKey).Return(deleteErr).Once()

	require.ErrorIs(t, service.Clear(context.Background()), deleteErr)
}

func TestCredentialRoundTripThenClear(t *testing.T) {
	service := NewCredentialService(newMemorySecretStore())
	ctx := context.Background()

	require.NoError(t, service.Save(ctx, "am_sk_1"))
	secret, found, err := service.Read(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "am_sk_1", secret)

	require.NoError(t, service.Clear(ctx))
	_, found, err = service.Read(ctx)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSessionGateResolve(t *testing.T) {
	t.Run("stored key routes to dashboard", func(t *testing.T) {
		store := mocks.NewMockSecretStore(t)
		store.EXPECT().Get(mockAnyContext(), CredentialKey).Return("am_sk", nil).Once()

		route, err := NewSessionGate(NewCredentialService(store)).Resolve(context.Background())
		require.NoError(t, err)
		assert.Equal(t, domain.RouteDashboard, route)
	})

	t.Run("missing key routes to setup", func(t *testing.T) {
		store := mocks.NewMockSecretStore(t)
		store.EXPECT().Get(mockAnyContext(), CredentialKey).Return("", domain.ErrSecretNotFound).Once()

		route, err := NewSessionGate(NewCredentialService(store)).Resolve(context.Background())
		require.NoError(t, err)
		assert.Equal(t, domain.RouteSetup, route)
	})

	t.Run("empty key routes to setup", func(t *testing.T) {
		store := mocks.NewMockSecretStore(t)
		store.EXPECT().Get(mockAnyContext(), CredentialKey).Return("", nil).Once()

		route, err := NewSessionGate(NewCredentialService(store)).Resolve(context.Background())
		require.NoError(t, err)
		assert.Equal(t, domain.RouteSetup, route)
	})

	t.Run("store failure routes to setup and reports", func(t *testing.T) {
		store := mocks.NewMockSecretStore(t)
		store.EXPECT().Get(mockAnyContext(), CredentialKey).Return("", errors.New("boom")).Once()

		route, err := NewSessionGate(NewCredentialService(store)).Resolve(context.Background())
		require.Error(t, err)
		assert.Equal(t, domain.RouteSetup, route)
	})
}

func TestClientFactoryPassesAbsentCredentialThroughAsEmptyKey(t *testing.T) {
	remote := newFakeBilling("valid")
	factory := NewClientFactory(NewCredentialService(newMemorySecretStore()), remote.factory())

	client, err := factory.Client(context.Background())
	require.NoError(t, err)

	_, err = client.GetOrganization(context.Background())
	require.Error(t, err)
	assert.Equal(t, domain.KindCredentialInvalid, domain.KindOf(err))
	assert.Equal(t, []string{""}, remote.keysSeen)
}

func TestClientFactoryBuildsFreshClientPerCall(t *testing.T) {
	store := newMemorySecretStore()
	creds := NewCredentialService(store)
	remote := newFakeBilling("second")
	factory := NewClientFactory(creds, remote.factory())

	require.NoError(t, creds.Save(context.Background(), "first"))
	_, err := factory.Client(context.Background())
	require.NoError(t, err)

	require.NoError(t, creds.Save(context.Background(), "second"))
	_, err = factory.Client(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second"}, remote.keysSeen)
}

func TestPreferencesServiceToggleThemePersists(t *testing.T) {
	repo := mocks.NewMockPreferencesRepository(t)
	clock := mocks.NewMockClock(t)
	service := NewPreferencesService(repo, clock)

	now := time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC)
	repo.EXPECT().Load(mockAnyContext()).Return(domain.Preferences{Theme: domain.ThemeLight}, nil).Once()
	clock.EXPECT().Now().Return(now).Once()
	repo.EXPECT().Save(mockAnyContext(), domain.Preferences{Theme: domain.ThemeDark, UpdatedAt: now}).Return(nil).Once()

	theme, err := service.ToggleTheme(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, theme)
}

func TestPreferencesServiceApplyThemeExplicitMode(t *testing.T) {
	repo := mocks.NewMockPreferencesRepository(t)
	clock := mocks.NewMockClock(t)
	service := NewPreferencesService(repo, clock)

	now := time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC)
	repo.EXPECT().Load(mockAnyContext()).Return(domain.Preferences{Theme: domain.ThemeDark}, nil).Once()
	clock.EXPECT().Now().Return(now).Once()
	repo.EXPECT().Save(mockAnyContext(), domain.Preferences{Theme: domain.ThemeDark, UpdatedAt: now}).Return(nil).Once()

	theme, err := service.ApplyTheme(context.Background(), ThemeModeDark)
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, theme)
}

func TestPreferencesServiceApplyThemeReportsSaveError(t *testing.T) {
	repo := mocks.NewMockPreferencesRepository(t)
	clock := mocks.NewMockClock(t)
	service := NewPreferencesService(repo, clock)

	saveErr := errors.New("read-only filesystem")
	repo.EXPECT().Load(mockAnyContext()).Return(domain.DefaultPreferences(), nil).Once()
	clock.EXPECT().Now().Return(time.Time{}).Once()
	repo.EXPECT().Save(mockAnyContext(), domain.Preferences{Theme: domain.ThemeDark}).Return(saveErr).Once()

	_, err := service.ToggleTheme(context.Background())
	require.ErrorIs(t, err, saveErr)
}

func TestParseThemeMode(t *testing.T) {
	t.Parallel()

	mode, err := ParseThemeMode(" Toggle ")
	require.NoError(t, err)
	assert.Equal(t, ThemeModeToggle, mode)
	assert.Equal(t, domain.ThemeDark, mode.Apply(domain.ThemeLight))
	assert.Equal(t, domain.ThemeLight, ThemeModeLight.Apply(domain.ThemeDark))

	_, err = ParseThemeMode("sepia")
	require.Error(t, err)
}

func TestUpdateCustomerCommandPatch(t *testing.T) {
	t.Parallel()

	_, err := UpdateCustomerCommand{ID: "cus_1"}.Patch()
	require.ErrorIs(t, err, domain.ErrEmptyPatch)

	_, err = UpdateCustomerCommand{Name: strPtr("x")}.Patch()
	require.ErrorIs(t, err, domain.ErrMissingCustomer)

	patch, err := UpdateCustomerCommand{ID: "cus_1", Email: strPtr("a@b.c")}.Patch()
	require.NoError(t, err)
	assert.Nil(t, patch.Name)
	assert.Equal(t, "a@b.c", *patch.Email)
}

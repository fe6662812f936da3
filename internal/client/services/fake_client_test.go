package services

import (
	"context"
	"sync"
	"testing"

	"github.com/dmitrijs2005/movieclient/internal/client/client"
	"github.com/dmitrijs2005/movieclient/internal/client/models"
	"github.com/dmitrijs2005/movieclient/internal/client/repositories/kv"
	"github.com/dmitrijs2005/movieclient/internal/client/state"
	"github.com/dmitrijs2005/movieclient/internal/cryptox"
	"github.com/dmitrijs2005/movieclient/internal/logging"
	"github.com/stretchr/testify/require"
)

// ---- helpers ----

func newStores(t *testing.T) *state.Stores {
	t.Helper()
	ctx := context.Background()
	db, err := client.InitDatabase(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	sealer, err := cryptox.NewSealer([]byte("services-test-secret"), "auth")
	require.NoError(t, err)

	stores, err := state.Open(ctx, kv.NewSQLiteRepository(db), sealer, state.Options{DefaultLocale: models.LocaleKo})
	require.NoError(t, err)
	return stores
}

func loginAs(t *testing.T, s *state.Stores, id string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.Credentials.Save(ctx, models.TokenPair{AccessToken: "a", RefreshToken: "r"}))
	require.NoError(t, s.Session.SetUser(ctx, &models.User{ID: id, Username: id}))
}

// ---- fake client ----

// fakeClient implements client.Client for service tests. Results and errors
// are set per test; calls are counted by method name.
type fakeClient struct {
	mu    sync.Mutex
	calls map[string]int

	LoginRet    *models.TokenPair
	LoginErr    error
	RegisterErr error
	LogoutErr   error
	UserRet     *models.User
	UserErr     error

	LastCreds    models.Credentials
	LastRegister models.Registration

	DevicesRet    []models.Device
	DevicesErr    error
	CurrentRet    *models.Device
	CurrentErr    error
	RegisterDev   *models.Device
	RegisterDevEr error
	RenameErr     error
	DeregisterErr error
	MaxRet        int
	MaxErr        error
	LimitOK       bool
	LimitErr      error

	LastDeviceReg models.DeviceRegistration

	SubRet       *models.Subscription
	SubErr       error
	ChangeRet    *models.Subscription
	ChangeErr    error
	CancelErr    error
	AutoRenewRet *models.Subscription
	PaymentRet   *models.Subscription
	AccessRet    bool
	AccessErr    error

	// onCancel runs after CancelSubscription succeeds, e.g. to change SubRet.
	onCancel func(f *fakeClient)
	// block, when set, is waited on inside CheckDeviceLimit.
	block chan struct{}
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) hit(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[name]++
}

func (f *fakeClient) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeClient) Login(ctx context.Context, creds models.Credentials) (*models.TokenPair, error) {
	f.hit("Login")
	f.LastCreds = creds
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) Register(ctx context.Context, reg models.Registration) (*models.User, error) {
	f.hit("Register")
	f.LastRegister = reg
	if f.RegisterErr != nil {
		return nil, f.RegisterErr
	}
	return &models.User{ID: "new", Username: reg.Username, Email: reg.Email}, nil
}

func (f *fakeClient) Logout(ctx context.Context) error {
	f.hit("Logout")
	return f.LogoutErr
}

func (f *fakeClient) CurrentUser(ctx context.Context) (*models.User, error) {
	f.hit("CurrentUser")
	return f.UserRet, f.UserErr
}

func (f *fakeClient) OAuthURL(provider models.OAuthProvider) string {
	return "http://api.test/oauth/" + string(provider)
}

func (f *fakeClient) UserDevices(ctx context.Context, userID string) ([]models.Device, error) {
	f.hit("UserDevices")
	return f.DevicesRet, f.DevicesErr
}

func (f *fakeClient) CurrentDevice(ctx context.Context) (*models.Device, error) {
	f.hit("CurrentDevice")
	return f.CurrentRet, f.CurrentErr
}

func (f *fakeClient) RegisterDevice(ctx context.Context, reg models.DeviceRegistration) (*models.Device, error) {
	f.hit("RegisterDevice")
	f.LastDeviceReg = reg
	return f.RegisterDev, f.RegisterDevEr
}

func (f *fakeClient) RenameDevice(ctx context.Context, deviceID, name string) (*models.Device, error) {
	f.hit("RenameDevice")
	if f.RenameErr != nil {
		return nil, f.RenameErr
	}
	return &models.Device{ID: deviceID, Name: name}, nil
}

func (f *fakeClient) DeregisterDevice(ctx context.Context, deviceID string) error {
	f.hit("DeregisterDevice")
	return f.DeregisterErr
}

func (f *fakeClient) MaxDevices(ctx context.Context, userID string) (int, error) {
	f.hit("MaxDevices")
	return f.MaxRet, f.MaxErr
}

func (f *fakeClient) CheckDeviceLimit(ctx context.Context, userID string) (bool, error) {
	f.hit("CheckDeviceLimit")
	if f.block != nil {
		<-f.block
	}
	return f.LimitOK, f.LimitErr
}

func (f *fakeClient) UserSubscription(ctx context.Context, userID string) (*models.Subscription, error) {
	f.hit("UserSubscription")
	return f.SubRet, f.SubErr
}

func (f *fakeClient) ChangeSubscription(ctx context.Context, userID string, tier models.Tier) (*models.Subscription, error) {
	f.hit("ChangeSubscription")
	return f.ChangeRet, f.ChangeErr
}

func (f *fakeClient) CancelSubscription(ctx context.Context, subscriptionID string) error {
	f.hit("CancelSubscription")
	if f.CancelErr != nil {
		return f.CancelErr
	}
	if f.onCancel != nil {
		f.onCancel(f)
	}
	return nil
}

func (f *fakeClient) UpdateAutoRenew(ctx context.Context, subscriptionID string, autoRenew bool) (*models.Subscription, error) {
	f.hit("UpdateAutoRenew")
	return f.AutoRenewRet, nil
}

func (f *fakeClient) UpdatePaymentMethod(ctx context.Context, subscriptionID, paymentMethodID string) (*models.Subscription, error) {
	f.hit("UpdatePaymentMethod")
	return f.PaymentRet, nil
}

func (f *fakeClient) CheckContentAccess(ctx context.Context, userID, contentID string) (bool, error) {
	f.hit("CheckContentAccess")
	return f.AccessRet, f.AccessErr
}

var nopLog = logging.Nop()

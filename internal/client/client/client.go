package client

import (
	"context"

	"github.com/dmitrijs2005/movieclient/internal/client/models"
)

// Client is the movie service API as seen by the services layer.
type Client interface {
	Login(ctx context.Context, creds models.Credentials) (*models.TokenPair, error)
	Register(ctx context.Context, reg models.Registration) (*models.User, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*models.User, error)
	OAuthURL(provider models.OAuthProvider) string

	UserDevices(ctx context.Context, userID string) ([]models.Device, error)
	CurrentDevice(ctx context.Context) (*models.Device, error)
	RegisterDevice(ctx context.Context, reg models.DeviceRegistration) (*models.Device, error)
	RenameDevice(ctx context.Context, deviceID, name string) (*models.Device, error)
	DeregisterDevice(ctx context.Context, deviceID string) error
	MaxDevices(ctx context.Context, userID string) (int, error)
	// CheckDeviceLimit reports whether another device may be registered.
	CheckDeviceLimit(ctx context.Context, userID string) (bool, error)

	UserSubscription(ctx context.Context, userID string) (*models.Subscription, error)
	ChangeSubscription(ctx context.Context, userID string, tier models.Tier) (*models.Subscription, error)
	CancelSubscription(ctx context.Context, subscriptionID string) error
	UpdateAutoRenew(ctx context.Context, subscriptionID string, autoRenew bool) (*models.Subscription, error)
	UpdatePaymentMethod(ctx context.Context, subscriptionID, paymentMethodID string) (*models.Subscription, error)
	CheckContentAccess(ctx context.Context, userID, contentID string) (bool, error)
}

var _ Client = (*HTTPClient)(nil)

package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/movieclient/internal/client/models"
)

func (c *HTTPClient) UserDevices(ctx context.Context, userID string) ([]models.Device, error) {
	var out []models.Device
	if err := c.Do(ctx, Request{Path: "/devices/user/" + url.PathEscape(userID)}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) CurrentDevice(ctx context.Context) (*models.Device, error) {
	var d models.Device
	if err := c.Do(ctx, Request{Path: "/devices/current"}, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *HTTPClient) RegisterDevice(ctx context.Context, reg models.DeviceRegistration) (*models.Device, error) {
	var d models.Device
	if err := c.Do(ctx, Request{Method: http.MethodPost, Path: "/devices/register", Body: reg}, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *HTTPClient) RenameDevice(ctx context.Context, deviceID, name string) (*models.Device, error) {
	var d models.Device
	err := c.Do(ctx, Request{
		Method: http.MethodPatch,
		Path:   "/devices/" + url.PathEscape(deviceID) + "/name",
		Body:   map[string]string{"name": name},
	}, &d)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *HTTPClient) DeregisterDevice(ctx context.Context, deviceID string) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: "/devices/" + url.PathEscape(deviceID)}, nil)
}

func (c *HTTPClient) MaxDevices(ctx context.Context, userID string) (int, error) {
	var out struct {
		MaxDevices int `json:"maxDevices"`
	}
	if err := c.Do(ctx, Request{Path: "/users/" + url.PathEscape(userID) + "/max-devices"}, &out); err != nil {
		return 0, err
	}
	return out.MaxDevices, nil
}

func (c *HTTPClient) CheckDeviceLimit(ctx context.Context, userID string) (bool, error) {
	var out struct {
		LimitReached bool `json:"limitReached"`
	}
	err := c.Do(ctx, Request{Path: "/devices/check-limit", Query: url.Values{"userId": {userID}}}, &out)
	if err != nil {
		return false, err
	}
	return !out.LimitReached, nil
}

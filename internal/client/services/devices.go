package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/movieclient/internal/client/client"
	"github.com/dmitrijs2005/movieclient/internal/client/models"
	"github.com/dmitrijs2005/movieclient/internal/client/state"
	"github.com/dmitrijs2005/movieclient/internal/common"
	"github.com/dmitrijs2005/movieclient/internal/logging"
)

// DeviceService manages the devices registered to the logged-in user.
// Every mutation is followed by a re-fetch so the local mirror follows the
// server.
type DeviceService interface {
	// Load fetches the device list unless it has already been loaded.
	Load(ctx context.Context) error
	Reload(ctx context.Context) error
	RegisterCurrentDevice(ctx context.Context, name, deviceType string) (*models.Device, error)
	ChangeDeviceName(ctx context.Context, deviceID, name string) (*models.Device, error)
	UnregisterDevice(ctx context.Context, deviceID string) error
	IsDeviceLimitReached() bool
	Snapshot() state.DeviceState
}

type deviceService struct {
	client client.Client
	stores *state.Stores
	log    logging.Logger
}

func NewDeviceService(c client.Client, stores *state.Stores, log logging.Logger) DeviceService {
	return &deviceService{client: c, stores: stores, log: log.With("component", "devices")}
}

func (s *deviceService) Snapshot() state.DeviceState {
	return s.stores.Devices.Snapshot()
}

func (s *deviceService) IsDeviceLimitReached() bool {
	return s.stores.Devices.Snapshot().LimitReached()
}

func (s *deviceService) Load(ctx context.Context) error {
	if s.stores.Devices.Snapshot().Loaded {
		return nil
	}
	return s.Reload(ctx)
}

func (s *deviceService) Reload(ctx context.Context) error {
	userID, err := currentUserID(s.stores)
	if err != nil {
		return err
	}
	if !s.stores.Devices.BeginLoading() {
		return ErrBusy
	}
	defer s.stores.Devices.EndLoading()

	if err := s.fetch(ctx, userID); err != nil {
		s.stores.Devices.SetErr(err.Error())
		return fmt.Errorf("load devices: %w", err)
	}
	return nil
}

func (s *deviceService) fetch(ctx context.Context, userID string) error {
	devices, err := s.client.UserDevices(ctx, userID)
	if err != nil {
		return err
	}

	current, err := s.client.CurrentDevice(ctx)
	if errors.Is(err, common.ErrNotFound) {
		current = nil
	} else if err != nil {
		return err
	}

	limit, err := s.client.MaxDevices(ctx, userID)
	if err != nil {
		return err
	}

	return s.stores.Devices.ReplaceAll(ctx, devices, current, limit)
}

// reconcile re-fetches after a successful mutation. A failed re-fetch leaves
// the optimistic local update in place and marks the mirror stale.
func (s *deviceService) reconcile(ctx context.Context, userID string) {
	if err := s.fetch(ctx, userID); err != nil {
		s.stores.Devices.MarkStale()
		s.stores.Devices.SetErr(err.Error())
		s.log.Warn(ctx, "device list refresh failed", "error", err)
	}
}

func (s *deviceService) begin() (string, error) {
	userID, err := currentUserID(s.stores)
	if err != nil {
		return "", err
	}
	if !s.stores.Devices.BeginLoading() {
		return "", ErrBusy
	}
	return userID, nil
}

func (s *deviceService) RegisterCurrentDevice(ctx context.Context, name, deviceType string) (*models.Device, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: device name is required", ErrValidation)
	}

	userID, err := s.begin()
	if err != nil {
		return nil, err
	}
	defer s.stores.Devices.EndLoading()

	ok, err := s.client.CheckDeviceLimit(ctx, userID)
	if err != nil {
		s.stores.Devices.SetErr(err.Error())
		return nil, fmt.Errorf("check device limit: %w", err)
	}
	if !ok {
		s.stores.Devices.SetErr(ErrDeviceLimitReached.Error())
		return nil, ErrDeviceLimitReached
	}

	d, err := s.client.RegisterDevice(ctx, models.DeviceRegistration{
		UserID:          userID,
		Name:            name,
		Type:            deviceType,
		IsCurrentDevice: true,
	})
	if err != nil {
		s.stores.Devices.SetErr(err.Error())
		return nil, fmt.Errorf("register device: %w", err)
	}

	if err := s.stores.Devices.Upsert(ctx, *d); err != nil {
		return nil, err
	}
	if err := s.stores.Devices.SetCurrent(ctx, d); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "device registered", "device_id", d.ID)

	s.reconcile(ctx, userID)
	return d, nil
}

func (s *deviceService) ChangeDeviceName(ctx context.Context, deviceID, name string) (*models.Device, error) {
	name = strings.TrimSpace(name)
	if deviceID == "" || name == "" {
		return nil, fmt.Errorf("%w: device id and name are required", ErrValidation)
	}

	userID, err := s.begin()
	if err != nil {
		return nil, err
	}
	defer s.stores.Devices.EndLoading()

	d, err := s.client.RenameDevice(ctx, deviceID, name)
	if err != nil {
		s.stores.Devices.SetErr(err.Error())
		return nil, fmt.Errorf("rename device: %w", err)
	}
	if err := s.stores.Devices.Upsert(ctx, *d); err != nil {
		return nil, err
	}

	s.reconcile(ctx, userID)
	return d, nil
}

func (s *deviceService) UnregisterDevice(ctx context.Context, deviceID string) error {
	if deviceID == "" {
		return fmt.Errorf("%w: device id is required", ErrValidation)
	}

	userID, err := s.begin()
	if err != nil {
		return err
	}
	defer s.stores.Devices.EndLoading()

	if err := s.client.DeregisterDevice(ctx, deviceID); err != nil {
		s.stores.Devices.SetErr(err.Error())
		return fmt.Errorf("remove device: %w", err)
	}
	if err := s.stores.Devices.Remove(ctx, deviceID); err != nil {
		return err
	}
	s.log.Info(ctx, "device removed", "device_id", deviceID)

	s.reconcile(ctx, userID)
	return nil
}

package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/movieclient/internal/client/client"
	"github.com/dmitrijs2005/movieclient/internal/client/gate"
	"github.com/dmitrijs2005/movieclient/internal/client/models"
	"github.com/dmitrijs2005/movieclient/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceService_RequiresLogin(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{}
	svc := NewDeviceService(fc, newStores(t), nopLog)

	require.ErrorIs(t, svc.Reload(ctx), ErrNotLoggedIn)
	_, err := svc.RegisterCurrentDevice(ctx, "TV", "tv")
	require.ErrorIs(t, err, ErrNotLoggedIn)
	assert.Zero(t, fc.count("UserDevices"))
}

func TestDeviceService_Load(t *testing.T) {
	ctx := context.Background()
	stores := newStores(t)
	loginAs(t, stores, "u1")
	fc := &fakeClient{
		DevicesRet: []models.Device{{ID: "d1", Name: "Phone"}, {ID: "d2", Name: "TV"}},
		CurrentErr: &client.HTTPError{Status: 404},
		MaxRet:     4,
	}
	svc := NewDeviceService(fc, stores, nopLog)

	require.NoError(t, svc.Load(ctx))
	require.NoError(t, svc.Load(ctx))
	assert.Equal(t, 1, fc.count("UserDevices"))

	snap := svc.Snapshot()
	assert.True(t, snap.Loaded)
	assert.Len(t, snap.Devices, 2)
	assert.Nil(t, snap.Current)
	assert.Equal(t, 4, snap.MaxDevices)
	assert.False(t, svc.IsDeviceLimitReached())

	require.NoError(t, svc.Reload(ctx))
	assert.Equal(t, 2, fc.count("UserDevices"))
}

func TestDeviceService_ReloadError(t *testing.T) {
	ctx := context.Background()
	stores := newStores(t)
	loginAs(t, stores, "u1")
	svc := NewDeviceService(&fakeClient{DevicesErr: client.ErrUnavailable}, stores, nopLog)

	require.ErrorIs(t, svc.Reload(ctx), client.ErrUnavailable)
	snap := svc.Snapshot()
	assert.False(t, snap.Loaded)
	assert.NotEmpty(t, snap.Err)
	assert.False(t, stores.Devices.Loading())
}

func TestDeviceService_RegisterCurrentDevice(t *testing.T) {
	ctx := context.Background()
	stores := newStores(t)
	loginAs(t, stores, "u1")

	d1 := models.Device{ID: "d1", Name: "Phone"}
	d2 := models.Device{ID: "d2", Name: "Laptop", IsCurrentDevice: true}
	fc := &fakeClient{
		LimitOK:     true,
		RegisterDev: &d2,
		DevicesRet:  []models.Device{d1, d2},
		CurrentRet:  &d2,
		MaxRet:      2,
	}
	svc := NewDeviceService(fc, stores, nopLog)

	got, err := svc.RegisterCurrentDevice(ctx, "  Laptop ", "desktop")
	require.NoError(t, err)
	assert.Equal(t, "d2", got.ID)
	assert.Equal(t, models.DeviceRegistration{UserID: "u1", Name: "Laptop", Type: "desktop", IsCurrentDevice: true}, fc.LastDeviceReg)

	snap := svc.Snapshot()
	assert.Len(t, snap.Devices, 2)
	require.NotNil(t, snap.Current)
	assert.Equal(t, "d2", snap.Current.ID)
	assert.False(t, snap.Stale)
	assert.True(t, svc.IsDeviceLimitReached())

	d := gate.Evaluate(gate.FromStores(stores), gate.Require(models.TierNone))
	assert.Equal(t, gate.DeviceLimitReached, d.Kind)
	assert.Equal(t, 2, d.DeviceCount)
	assert.Equal(t, 2, d.MaxDevices)
}

func TestDeviceService_RegisterLimitBoundary(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		devices int
		max     int
		reached bool
	}{
		{"below", 1, 3, false},
		{"one short", 2, 3, false},
		{"at max", 3, 3, true},
		{"over max", 4, 3, true},
		{"max unknown", 2, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stores := newStores(t)
			loginAs(t, stores, "u1")
			devs := make([]models.Device, tt.devices)
			for i := range devs {
				devs[i] = models.Device{ID: string(rune('a' + i))}
			}
			fc := &fakeClient{LimitOK: true, RegisterDev: &devs[len(devs)-1], DevicesRet: devs, MaxRet: tt.max}
			svc := NewDeviceService(fc, stores, nopLog)

			_, err := svc.RegisterCurrentDevice(ctx, "dev", "tv")
			require.NoError(t, err)
			assert.Equal(t, tt.reached, svc.IsDeviceLimitReached())
		})
	}
}

func TestDeviceService_RegisterRejectedByLimit(t *testing.T) {
	ctx := context.Background()
	stores := newStores(t)
	loginAs(t, stores, "u1")
	fc := &fakeClient{LimitOK: false}
	svc := NewDeviceService(fc, stores, nopLog)

	_, err := svc.RegisterCurrentDevice(ctx, "TV", "tv")
	require.ErrorIs(t, err, ErrDeviceLimitReached)
	assert.Zero(t, fc.count("RegisterDevice"))
	assert.False(t, stores.Devices.Loading())
}

func TestDeviceService_RefetchFailureKeepsLocalUpdate(t *testing.T) {
	ctx := context.Background()
	stores := newStores(t)
	loginAs(t, stores, "u1")
	d := models.Device{ID: "d9", Name: "Tablet"}
	fc := &fakeClient{LimitOK: true, RegisterDev: &d, DevicesErr: client.ErrUnavailable}
	svc := NewDeviceService(fc, stores, nopLog)

	_, err := svc.RegisterCurrentDevice(ctx, "Tablet", "tablet")
	require.NoError(t, err)

	snap := svc.Snapshot()
	assert.True(t, snap.Stale)
	assert.NotEmpty(t, snap.Err)
	require.Len(t, snap.Devices, 1)
	assert.Equal(t, "d9", snap.Devices[0].ID)
	require.NotNil(t, snap.Current)
	assert.Equal(t, "d9", snap.Current.ID)
}

func TestDeviceService_RenameAndRemove(t *testing.T) {
	ctx := context.Background()
	stores := newStores(t)
	loginAs(t, stores, "u1")
	require.NoError(t, stores.Devices.ReplaceAll(ctx,
		[]models.Device{{ID: "d1", Name: "Old"}, {ID: "d2", Name: "TV"}}, &models.Device{ID: "d1", Name: "Old"}, 3))

	// server re-fetch fails so the local edit is what remains
	fc := &fakeClient{DevicesErr: client.ErrUnavailable}
	svc := NewDeviceService(fc, stores, nopLog)

	got, err := svc.ChangeDeviceName(ctx, "d1", "New")
	require.NoError(t, err)
	assert.Equal(t, "New", got.Name)
	snap := svc.Snapshot()
	assert.Equal(t, "New", snap.Devices[0].Name)
	assert.Equal(t, "New", snap.Current.Name)

	require.NoError(t, svc.UnregisterDevice(ctx, "d1"))
	snap = svc.Snapshot()
	require.Len(t, snap.Devices, 1)
	assert.Equal(t, "d2", snap.Devices[0].ID)
	assert.Nil(t, snap.Current)

	_, err = svc.ChangeDeviceName(ctx, "d2", " ")
	require.ErrorIs(t, err, ErrValidation)

	fc.DeregisterErr = &client.HTTPError{Status: 404}
	err = svc.UnregisterDevice(ctx, "missing")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestDeviceService_BusyWhileRegistering(t *testing.T) {
	ctx := context.Background()
	stores := newStores(t)
	loginAs(t, stores, "u1")
	d := models.Device{ID: "d1"}
	fc := &fakeClient{LimitOK: true, RegisterDev: &d, block: make(chan struct{})}
	svc := NewDeviceService(fc, stores, nopLog)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = svc.RegisterCurrentDevice(ctx, "first", "tv")
	}()

	require.Eventually(t, stores.Devices.Loading, time.Second, 5*time.Millisecond)
	_, err := svc.RegisterCurrentDevice(ctx, "second", "tv")
	require.ErrorIs(t, err, ErrBusy)
	require.ErrorIs(t, svc.Reload(ctx), ErrBusy)

	close(fc.block)
	wg.Wait()
	assert.False(t, stores.Devices.Loading())
	assert.Equal(t, 1, fc.count("RegisterDevice"))
}

package state

import (
	"context"
	"slices"
	"sync"

	"github.com/dmitrijs2005/movieclient/internal/client/models"
	"github.com/dmitrijs2005/movieclient/internal/client/repositories/kv"
)

const devicesKey = "mirror"

// DeviceState is a snapshot of the device mirror. Loaded and Stale are
// per-process and never persisted.
type DeviceState struct {
	Devices    []models.Device `json:"devices"`
	Current    *models.Device  `json:"currentDevice"`
	MaxDevices int             `json:"maxDevices"`

	Loaded bool   `json:"-"`
	Stale  bool   `json:"-"`
	Err    string `json:"-"`
}

func (s DeviceState) Count() int { return len(s.Devices) }

// LimitReached is count >= max. A zero max is unknown and never reached.
func (s DeviceState) LimitReached() bool {
	return s.MaxDevices > 0 && len(s.Devices) >= s.MaxDevices
}

func (s DeviceState) HasCurrentDevice() bool { return s.Current != nil }

// DeviceStore mirrors the user's registered devices.
type DeviceStore struct {
	repo kv.Repository

	mu      sync.RWMutex
	state   DeviceState
	loading bool
}

func NewDeviceStore(repo kv.Repository) *DeviceStore {
	return &DeviceStore{repo: repo}
}

// Load restores the persisted mirror without marking it Loaded.
func (s *DeviceStore) Load(ctx context.Context) error {
	var st DeviceState
	if _, err := loadJSON(ctx, s.repo, nsDevices, devicesKey, &st); err != nil {
		return err
	}
	s.mu.Lock()
	s.state.Devices = st.Devices
	s.state.Current = st.Current
	s.state.MaxDevices = st.MaxDevices
	s.mu.Unlock()
	return nil
}

// persist must be called with mu held.
func (s *DeviceStore) persist(ctx context.Context) error {
	return saveJSON(ctx, s.repo, nsDevices, devicesKey, s.state)
}

// BeginLoading reports false when another operation is already running.
func (s *DeviceStore) BeginLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading {
		return false
	}
	s.loading = true
	s.state.Err = ""
	return true
}

func (s *DeviceStore) EndLoading() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

func (s *DeviceStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// ReplaceAll installs a freshly fetched mirror and marks it loaded.
func (s *DeviceStore) ReplaceAll(ctx context.Context, devices []models.Device, current *models.Device, maxDevices int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Devices = slices.Clone(devices)
	s.state.Current = cloneDevice(current)
	s.state.MaxDevices = maxDevices
	s.state.Loaded = true
	s.state.Stale = false
	return s.persist(ctx)
}

// Upsert adds d or replaces the device with the same id.
func (s *DeviceStore) Upsert(ctx context.Context, d models.Device) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := slices.IndexFunc(s.state.Devices, func(x models.Device) bool { return x.ID == d.ID }); i >= 0 {
		s.state.Devices[i] = d
	} else {
		s.state.Devices = append(s.state.Devices, d)
	}
	if s.state.Current != nil && s.state.Current.ID == d.ID {
		s.state.Current = cloneDevice(&d)
	}
	return s.persist(ctx)
}

func (s *DeviceStore) SetCurrent(ctx context.Context, d *models.Device) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Current = cloneDevice(d)
	return s.persist(ctx)
}

// Remove drops the device with id; the current device is cleared if it matches.
func (s *DeviceStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Devices = slices.DeleteFunc(s.state.Devices, func(x models.Device) bool { return x.ID == id })
	if s.state.Current != nil && s.state.Current.ID == id {
		s.state.Current = nil
	}
	return s.persist(ctx)
}

func (s *DeviceStore) MarkStale() {
	s.mu.Lock()
	s.state.Stale = true
	s.mu.Unlock()
}

func (s *DeviceStore) SetErr(msg string) {
	s.mu.Lock()
	s.state.Err = msg
	s.mu.Unlock()
}

// Reset empties the mirror, e.g. on logout.
func (s *DeviceStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	s.state = DeviceState{}
	s.mu.Unlock()
	return s.repo.Clear(ctx, nsDevices)
}

func (s *DeviceStore) Snapshot() DeviceState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.state
	out.Devices = slices.Clone(s.state.Devices)
	out.Current = cloneDevice(s.state.Current)
	return out
}

func cloneDevice(d *models.Device) *models.Device {
	if d == nil {
		return nil
	}
	cp := *d
	return &cp
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/movieclient/internal/client/services"
)

// Devices prints the device list, loading it on first use.
func (a *App) Devices(ctx context.Context, _ []string) error {
	if err := a.devices.Load(ctx); err != nil {
		return a.fail(err)
	}
	a.printDevices()
	return nil
}

func (a *App) printDevices() {
	snap := a.devices.Snapshot()
	if snap.Stale {
		a.say("device.stale")
	}
	if len(snap.Devices) == 0 {
		a.say("device.none")
	}
	for _, d := range snap.Devices {
		marker := " "
		if snap.Current != nil && snap.Current.ID == d.ID {
			marker = "*"
		}
		a.println(fmt.Sprintf("%s %s  %-20s %-10s %s", marker, d.ID, d.Name, d.Type, formatTime(d.LastActive)))
	}
	if snap.MaxDevices > 0 {
		a.println(fmt.Sprintf("%d/%d", snap.Count(), snap.MaxDevices))
	}
}

// AddDevice registers this installation: device-add <name> <type>.
func (a *App) AddDevice(ctx context.Context, args []string) error {
	if len(args) < 2 {
		a.println("Usage: device-add <name> <type>")
		return nil
	}
	name := strings.Join(args[:len(args)-1], " ")
	_, err := a.devices.RegisterCurrentDevice(ctx, name, args[len(args)-1])
	if errors.Is(err, services.ErrDeviceLimitReached) {
		a.say("device.limit_reached")
		return err
	}
	if err != nil {
		return a.fail(err)
	}
	a.say("device.registered")
	a.printDevices()
	return nil
}

// RenameDevice: device-rename <id> <name>.
func (a *App) RenameDevice(ctx context.Context, args []string) error {
	if len(args) < 2 {
		a.println("Usage: device-rename <id> <name>")
		return nil
	}
	if _, err := a.devices.ChangeDeviceName(ctx, args[0], strings.Join(args[1:], " ")); err != nil {
		return a.fail(err)
	}
	a.say("device.renamed")
	return nil
}

// RemoveDevice: device-remove <id>.
func (a *App) RemoveDevice(ctx context.Context, args []string) error {
	if len(args) != 1 {
		a.println("Usage: device-remove <id>")
		return nil
	}
	if err := a.devices.UnregisterDevice(ctx, args[0]); err != nil {
		return a.fail(err)
	}
	a.say("device.removed")
	return nil
}

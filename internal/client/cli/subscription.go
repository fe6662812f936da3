package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/movieclient/internal/client/gate"
	"github.com/dmitrijs2005/movieclient/internal/client/models"
	"github.com/dmitrijs2005/movieclient/internal/timex"
)

func formatTime(t timex.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func (a *App) tierName(t models.Tier) string {
	return a.catalog.TierName(a.stores.Locale.Get(), t)
}

// Subscription prints the current plan, loading it on first use.
func (a *App) Subscription(ctx context.Context, _ []string) error {
	if err := a.subs.Load(ctx); err != nil {
		return a.fail(err)
	}
	a.printSubscription()
	return nil
}

func (a *App) printSubscription() {
	sub := a.subs.Snapshot().Subscription
	if sub == nil {
		a.say("subscription.none")
		return
	}
	status := "active"
	if !sub.IsActive {
		status = "inactive"
	}
	a.println(fmt.Sprintf("%s (%s) %s ~ %s auto-renew=%t payment=%s",
		a.tierName(sub.Tier), status, formatTime(sub.StartDate), formatTime(sub.EndDate), sub.AutoRenew, sub.PaymentMethod))
}

// Plan changes the tier: plan <basic|standard|premium>.
func (a *App) Plan(ctx context.Context, args []string) error {
	if len(args) != 1 {
		a.println("Usage: plan <basic|standard|premium>")
		return nil
	}
	tier, err := models.ParseTier(args[0])
	if err != nil {
		return a.fail(err)
	}
	sub, err := a.subs.ChangePlan(ctx, tier)
	if err != nil {
		return a.fail(err)
	}
	a.say("subscription.changed", a.tierName(sub.Tier))
	return nil
}

func (a *App) Cancel(ctx context.Context, _ []string) error {
	if err := a.subs.Load(ctx); err != nil {
		return a.fail(err)
	}
	if err := a.subs.Cancel(ctx); err != nil {
		return a.fail(err)
	}
	a.say("subscription.cancelled")
	return nil
}

// AutoRenew: autorenew <on|off>.
func (a *App) AutoRenew(ctx context.Context, args []string) error {
	var on bool
	switch {
	case len(args) == 1 && args[0] == "on":
		on = true
	case len(args) == 1 && args[0] == "off":
	default:
		a.println("Usage: autorenew <on|off>")
		return nil
	}
	if err := a.subs.Load(ctx); err != nil {
		return a.fail(err)
	}
	if _, err := a.subs.SetAutoRenew(ctx, on); err != nil {
		return a.fail(err)
	}
	if on {
		a.say("subscription.auto_renew_on")
	} else {
		a.say("subscription.auto_renew_off")
	}
	return nil
}

// Payment: payment <paymentMethodId>.
func (a *App) Payment(ctx context.Context, args []string) error {
	if len(args) != 1 {
		a.println("Usage: payment <paymentMethodId>")
		return nil
	}
	if err := a.subs.Load(ctx); err != nil {
		return a.fail(err)
	}
	if _, err := a.subs.ChangePaymentMethod(ctx, args[0]); err != nil {
		return a.fail(err)
	}
	a.say("subscription.payment_updated")
	return nil
}

// Access asks the server whether the user may watch a title: access <contentId>.
func (a *App) Access(ctx context.Context, args []string) error {
	if len(args) != 1 {
		a.println("Usage: access <contentId>")
		return nil
	}
	if !a.isLoggedIn() {
		a.say("auth.login_required")
		return nil
	}
	if a.subs.HasAccessToContent(ctx, args[0]) {
		a.say("subscription.access_granted")
	} else {
		a.say("subscription.access_denied")
	}
	return nil
}

// Watch evaluates the access gate for a tier: watch <tier> [nodevicecheck].
// Mirrors are loaded first so the decision sees server state. Playback is
// refused when the device check was asked for but the limit could not be
// fetched.
func (a *App) Watch(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 || (len(args) == 2 && args[1] != "nodevicecheck") {
		a.println("Usage: watch <tier> [nodevicecheck]")
		return nil
	}
	tier, err := models.ParseTier(args[0])
	if err != nil {
		return a.fail(err)
	}
	req := gate.Require(tier)
	req.CheckDeviceLimit = len(args) == 1

	var devErr error
	if a.isLoggedIn() {
		if err := a.subs.Load(ctx); err != nil {
			a.log.Warn(ctx, "load subscription", "error", err)
		}
		if req.CheckDeviceLimit {
			if devErr = a.devices.Load(ctx); devErr != nil {
				a.log.Warn(ctx, "load devices", "error", devErr)
			}
		}
	}

	d := gate.Evaluate(gate.FromStores(a.stores), req)
	// Without a known limit the device check cannot pass.
	if d.Kind == gate.Allowed && devErr != nil && a.devices.Snapshot().MaxDevices == 0 {
		a.say("gate.device_unknown")
		return devErr
	}
	a.printDecision(d)
	return nil
}

func (a *App) printDecision(d gate.Decision) {
	switch d.Kind {
	case gate.NeedsLogin:
		a.say("gate.needs_login")
	case gate.NeedsSubscription:
		a.say("gate.needs_subscription", a.tierName(d.RequiredTier), a.tierName(d.CurrentTier))
	case gate.DeviceLimitReached:
		a.say("gate.device_limit", d.DeviceCount, d.MaxDevices)
	default:
		a.say("gate.allowed")
	}
}

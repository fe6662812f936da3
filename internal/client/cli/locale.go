package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/movieclient/internal/client/models"
)

// Locale switches the message language: locale <ko|en>.
func (a *App) Locale(ctx context.Context, args []string) error {
	if len(args) != 1 {
		a.println(fmt.Sprintf("Usage: locale <%s|%s> (current: %s)", models.LocaleKo, models.LocaleEn, a.stores.Locale.Get()))
		return nil
	}
	l, err := models.ParseLocale(args[0])
	if err != nil {
		return a.fail(err)
	}
	if err := a.stores.Locale.Set(ctx, l); err != nil {
		return a.fail(err)
	}
	a.say("locale.changed")
	return nil
}

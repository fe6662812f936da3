package state

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/movieclient/internal/client/repositories/kv"
	"github.com/dmitrijs2005/movieclient/internal/common"
)

// Namespaces, one per container.
const (
	nsAuth         = "auth"
	nsSession      = "session"
	nsDevices      = "devices"
	nsSubscription = "subscription"
	nsLocale       = "locale"
	nsInstallation = "installation"
)

// loadJSON reads ns/key into v. It reports false when nothing is stored.
func loadJSON(ctx context.Context, repo kv.Repository, ns, key string, v any) (bool, error) {
	raw, err := repo.Get(ctx, ns, key)
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("%w: %s/%s: %w", common.ErrCorruptedValue, ns, key, err)
	}
	return true, nil
}

func saveJSON(ctx context.Context, repo kv.Repository, ns, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return repo.Set(ctx, ns, key, raw, time.Time{})
}

package state

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/movieclient/internal/client/repositories/kv"
	"github.com/google/uuid"
)

const installationKey = "device_id"

// InstallationID returns the persisted per-installation UUID, creating it
// on first use. It is sent as X-Device-Id on every request.
func InstallationID(ctx context.Context, repo kv.Repository) (string, error) {
	raw, err := repo.Get(ctx, nsInstallation, installationKey)
	if err != nil {
		return "", err
	}
	if raw != nil {
		if id, err := uuid.ParseBytes(raw); err == nil {
			return id.String(), nil
		}
	}

	id := uuid.NewString()
	if err := repo.Set(ctx, nsInstallation, installationKey, []byte(id), time.Time{}); err != nil {
		return "", fmt.Errorf("persist installation id: %w", err)
	}
	return id, nil
}

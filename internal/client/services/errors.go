package services

import (
	"errors"

	"github.com/dmitrijs2005/movieclient/internal/common"
)

var (
	ErrNotLoggedIn        = errors.New("not logged in")
	ErrBusy               = errors.New("another operation is in progress")
	ErrDeviceLimitReached = errors.New("device limit reached")
	ErrNoSubscription     = errors.New("no subscription")
	ErrValidation         = common.ErrValidation
)

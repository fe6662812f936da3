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

type SubscriptionService interface {
	Load(ctx context.Context) error
	Reload(ctx context.Context) error
	ChangePlan(ctx context.Context, tier models.Tier) (*models.Subscription, error)
	Cancel(ctx context.Context) error
	SetAutoRenew(ctx context.Context, on bool) (*models.Subscription, error)
	ChangePaymentMethod(ctx context.Context, paymentMethodID string) (*models.Subscription, error)
	// HasAccessToContent asks the server; any failure counts as no access.
	HasAccessToContent(ctx context.Context, contentID string) bool

	IsSubscribed() bool
	CurrentTier() models.Tier
	HasRequiredTier(t models.Tier) bool
	Snapshot() state.SubscriptionState
}

type subscriptionService struct {
	client client.Client
	stores *state.Stores
	log    logging.Logger
}

func NewSubscriptionService(c client.Client, stores *state.Stores, log logging.Logger) SubscriptionService {
	return &subscriptionService{client: c, stores: stores, log: log.With("component", "subscription")}
}

func (s *subscriptionService) Snapshot() state.SubscriptionState {
	return s.stores.Subscription.Snapshot()
}

func (s *subscriptionService) IsSubscribed() bool {
	return s.Snapshot().IsSubscribed()
}

func (s *subscriptionService) CurrentTier() models.Tier {
	return s.Snapshot().CurrentTier()
}

func (s *subscriptionService) HasRequiredTier(t models.Tier) bool {
	return s.Snapshot().HasRequiredTier(t)
}

func (s *subscriptionService) Load(ctx context.Context) error {
	if s.Snapshot().Loaded {
		return nil
	}
	return s.Reload(ctx)
}

func (s *subscriptionService) begin() (string, error) {
	userID, err := currentUserID(s.stores)
	if err != nil {
		return "", err
	}
	if !s.stores.Subscription.BeginLoading() {
		return "", ErrBusy
	}
	return userID, nil
}

func (s *subscriptionService) Reload(ctx context.Context) error {
	userID, err := s.begin()
	if err != nil {
		return err
	}
	defer s.stores.Subscription.EndLoading()

	if err := s.fetch(ctx, userID); err != nil {
		s.stores.Subscription.SetErr(err.Error())
		return fmt.Errorf("load subscription: %w", err)
	}
	return nil
}

// fetch treats 404 as "no subscription".
func (s *subscriptionService) fetch(ctx context.Context, userID string) error {
	sub, err := s.client.UserSubscription(ctx, userID)
	if errors.Is(err, common.ErrNotFound) {
		return s.stores.Subscription.Set(ctx, nil)
	}
	if err != nil {
		return err
	}
	return s.stores.Subscription.Set(ctx, sub)
}

func (s *subscriptionService) adopt(ctx context.Context, sub *models.Subscription, op string, err error) (*models.Subscription, error) {
	if err != nil {
		s.stores.Subscription.SetErr(err.Error())
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.stores.Subscription.Set(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *subscriptionService) ChangePlan(ctx context.Context, tier models.Tier) (*models.Subscription, error) {
	if !tier.Valid() || tier == models.TierNone {
		return nil, fmt.Errorf("%w: unknown tier %d", ErrValidation, tier)
	}

	userID, err := s.begin()
	if err != nil {
		return nil, err
	}
	defer s.stores.Subscription.EndLoading()

	sub, err := s.client.ChangeSubscription(ctx, userID, tier)
	if sub, err = s.adopt(ctx, sub, "change subscription", err); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "subscription changed", "tier", tier.String())
	return sub, nil
}

// current returns the id of the stored subscription or ErrNoSubscription.
func (s *subscriptionService) current() (string, error) {
	sub := s.Snapshot().Subscription
	if sub == nil || sub.ID == "" {
		return "", ErrNoSubscription
	}
	return sub.ID, nil
}

func (s *subscriptionService) Cancel(ctx context.Context) error {
	subID, err := s.current()
	if err != nil {
		return err
	}
	userID, err := s.begin()
	if err != nil {
		return err
	}
	defer s.stores.Subscription.EndLoading()

	if err := s.client.CancelSubscription(ctx, subID); err != nil {
		s.stores.Subscription.SetErr(err.Error())
		return fmt.Errorf("cancel subscription: %w", err)
	}
	s.log.Info(ctx, "subscription cancelled", "subscription_id", subID)

	if err := s.fetch(ctx, userID); err != nil {
		s.log.Warn(ctx, "subscription refresh after cancel failed", "error", err)
		return s.stores.Subscription.Deactivate(ctx)
	}
	return nil
}

func (s *subscriptionService) SetAutoRenew(ctx context.Context, on bool) (*models.Subscription, error) {
	subID, err := s.current()
	if err != nil {
		return nil, err
	}
	if _, err := s.begin(); err != nil {
		return nil, err
	}
	defer s.stores.Subscription.EndLoading()

	sub, err := s.client.UpdateAutoRenew(ctx, subID, on)
	return s.adopt(ctx, sub, "update auto renew", err)
}

func (s *subscriptionService) ChangePaymentMethod(ctx context.Context, paymentMethodID string) (*models.Subscription, error) {
	paymentMethodID = strings.TrimSpace(paymentMethodID)
	if paymentMethodID == "" {
		return nil, fmt.Errorf("%w: payment method is required", ErrValidation)
	}
	subID, err := s.current()
	if err != nil {
		return nil, err
	}
	if _, err := s.begin(); err != nil {
		return nil, err
	}
	defer s.stores.Subscription.EndLoading()

	sub, err := s.client.UpdatePaymentMethod(ctx, subID, paymentMethodID)
	return s.adopt(ctx, sub, "update payment method", err)
}

func (s *subscriptionService) HasAccessToContent(ctx context.Context, contentID string) bool {
	userID, err := currentUserID(s.stores)
	if err != nil {
		return false
	}
	ok, err := s.client.CheckContentAccess(ctx, userID, contentID)
	if err != nil {
		s.log.Warn(ctx, "content access check failed", "content_id", contentID, "error", err)
		return false
	}
	return ok
}

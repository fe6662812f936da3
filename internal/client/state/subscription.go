package state

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/movieclient/internal/client/models"
	"github.com/dmitrijs2005/movieclient/internal/client/repositories/kv"
)

const subscriptionKey = "current"

type SubscriptionState struct {
	Subscription *models.Subscription
	Loaded       bool
	Stale        bool
	Err          string
}

func (s SubscriptionState) IsSubscribed() bool {
	return s.Subscription != nil && s.Subscription.IsActive
}

// CurrentTier is the stored tier, or NONE when there is no subscription.
func (s SubscriptionState) CurrentTier() models.Tier {
	if s.Subscription == nil {
		return models.TierNone
	}
	return s.Subscription.Tier
}

func (s SubscriptionState) HasRequiredTier(t models.Tier) bool {
	return s.Subscription.HasTier(t)
}

// SubscriptionStore mirrors the user's subscription record.
type SubscriptionStore struct {
	repo kv.Repository

	mu      sync.RWMutex
	state   SubscriptionState
	loading bool
}

func NewSubscriptionStore(repo kv.Repository) *SubscriptionStore {
	return &SubscriptionStore{repo: repo}
}

func (s *SubscriptionStore) Load(ctx context.Context) error {
	var sub models.Subscription
	ok, err := loadJSON(ctx, s.repo, nsSubscription, subscriptionKey, &sub)
	if err != nil {
		return err
	}
	s.mu.Lock()
	if ok {
		s.state.Subscription = &sub
	} else {
		s.state.Subscription = nil
	}
	s.mu.Unlock()
	return nil
}

func (s *SubscriptionStore) BeginLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading {
		return false
	}
	s.loading = true
	s.state.Err = ""
	return true
}

func (s *SubscriptionStore) EndLoading() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

func (s *SubscriptionStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Set replaces the record with a server copy and marks the mirror loaded.
// A nil sub means the user has no subscription.
func (s *SubscriptionStore) Set(ctx context.Context, sub *models.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loaded = true
	s.state.Stale = false
	if sub == nil {
		s.state.Subscription = nil
		return s.repo.Clear(ctx, nsSubscription)
	}
	cp := *sub
	s.state.Subscription = &cp
	return saveJSON(ctx, s.repo, nsSubscription, subscriptionKey, cp)
}

// Deactivate flips isActive off locally and marks the mirror stale.
func (s *SubscriptionStore) Deactivate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Stale = true
	if s.state.Subscription == nil {
		return nil
	}
	s.state.Subscription.IsActive = false
	return saveJSON(ctx, s.repo, nsSubscription, subscriptionKey, *s.state.Subscription)
}

func (s *SubscriptionStore) MarkStale() {
	s.mu.Lock()
	s.state.Stale = true
	s.mu.Unlock()
}

func (s *SubscriptionStore) SetErr(msg string) {
	s.mu.Lock()
	s.state.Err = msg
	s.mu.Unlock()
}

func (s *SubscriptionStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	s.state = SubscriptionState{}
	s.mu.Unlock()
	return s.repo.Clear(ctx, nsSubscription)
}

func (s *SubscriptionStore) Snapshot() SubscriptionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.state
	if out.Subscription != nil {
		cp := *out.Subscription
		out.Subscription = &cp
	}
	return out
}

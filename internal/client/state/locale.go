package state

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/movieclient/internal/client/models"
	"github.com/dmitrijs2005/movieclient/internal/client/repositories/kv"
)

const localeKey = "current"

// LocaleStore survives logout; nothing in the auth flow clears it.
type LocaleStore struct {
	repo kv.Repository

	mu     sync.RWMutex
	locale models.Locale
}

func NewLocaleStore(repo kv.Repository, def models.Locale) *LocaleStore {
	if def == "" {
		def = models.DefaultLocale
	}
	return &LocaleStore{repo: repo, locale: def}
}

func (s *LocaleStore) Load(ctx context.Context) error {
	var l models.Locale
	ok, err := loadJSON(ctx, s.repo, nsLocale, localeKey, &l)
	if err != nil || !ok {
		return err
	}
	if parsed, err := models.ParseLocale(string(l)); err == nil {
		s.mu.Lock()
		s.locale = parsed
		s.mu.Unlock()
	}
	return nil
}

func (s *LocaleStore) Get() models.Locale {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.locale
}

func (s *LocaleStore) Set(ctx context.Context, l models.Locale) error {
	s.mu.Lock()
	s.locale = l
	s.mu.Unlock()
	return saveJSON(ctx, s.repo, nsLocale, localeKey, l)
}

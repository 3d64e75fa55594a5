package memory

import "lendflow/internal/repository"

// Store bundles one instance of every in-memory repository.
type Store struct {
	Users         *UserStore
	Lenders       *LenderStore
	Rules         *RuleStore
	Applications  *ApplicationStore
	Notifications *NotificationStore
	Documents     *DocumentStore
	Settings      *SettingsStore
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		Users:         NewUserStore(),
		Lenders:       NewLenderStore(),
		Rules:         NewRuleStore(),
		Applications:  NewApplicationStore(),
		Notifications: NewNotificationStore(),
		Documents:     NewDocumentStore(),
		Settings:      NewSettingsStore(),
	}
}

// Set exposes the store through the repository interfaces.
func (s *Store) Set() repository.Set {
	return repository.Set{
		Users:         s.Users,
		Lenders:       s.Lenders,
		Rules:         s.Rules,
		Applications:  s.Applications,
		Notifications: s.Notifications,
		Documents:     s.Documents,
		Settings:      s.Settings,
	}
}

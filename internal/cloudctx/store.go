// Package cloudctx holds the process-wide cloud context: the subscription,
// environment and CLI endpoint that actions fall back to when a caller omits
// them.
package cloudctx

import "sync"

// CloudContext is a snapshot of the selected subscription, environment and
// CLI endpoint. Empty strings mean "not set".
type CloudContext struct {
	SubscriptionID string `json:"subscriptionId,omitempty"`
	EnvironmentID  string `json:"environmentId,omitempty"`
	CLIURL         string `json:"cliUrl,omitempty"`
}

// Update is a partial CloudContext. Nil fields keep their current value.
type Update struct {
	SubscriptionID *string
	EnvironmentID  *string
	CLIURL         *string
}

// Store is a thread-safe holder for one CloudContext.
type Store struct {
	mu  sync.RWMutex
	ctx CloudContext
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Set merges the provided fields into the context and returns the resulting
// snapshot. The merge is applied atomically.
func (s *Store) Set(u Update) CloudContext {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.SubscriptionID != nil {
		s.ctx.SubscriptionID = *u.SubscriptionID
	}
	if u.EnvironmentID != nil {
		s.ctx.EnvironmentID = *u.EnvironmentID
	}
	if u.CLIURL != nil {
		s.ctx.CLIURL = *u.CLIURL
	}
	return s.ctx
}

// Get returns a copy of the current context.
func (s *Store) Get() CloudContext {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ctx
}

// Endpoint returns the CLI endpoint override, or "" when none is set.
func (s *Store) Endpoint() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ctx.CLIURL
}

// Subscription returns explicit when non-empty, otherwise the stored value.
func (s *Store) Subscription(explicit string) string {
	if explicit != "" {
		return explicit
	}
	return s.Get().SubscriptionID
}

// Environment returns explicit when non-empty, otherwise the stored value.
func (s *Store) Environment(explicit string) string {
	if explicit != "" {
		return explicit
	}
	return s.Get().EnvironmentID
}

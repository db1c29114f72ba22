package cloudctx

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestStore_SetMergesPartialUpdates(t *testing.T) {
	s := NewStore()

	got := s.Set(Update{SubscriptionID: strPtr("sub-1"), EnvironmentID: strPtr("env-1")})
	assert.Equal(t, CloudContext{SubscriptionID: "sub-1", EnvironmentID: "env-1"}, got)

	got = s.Set(Update{CLIURL: strPtr("https://cloud.example")})
	assert.Equal(t, CloudContext{
		SubscriptionID: "sub-1",
		EnvironmentID:  "env-1",
		CLIURL:         "https://cloud.example",
	}, got)

	got = s.Set(Update{EnvironmentID: strPtr("")})
	assert.Equal(t, "", got.EnvironmentID)
	assert.Equal(t, "sub-1", got.SubscriptionID)
}

func TestStore_GetReturnsCopy(t *testing.T) {
	s := NewStore()
	s.Set(Update{SubscriptionID: strPtr("sub-1")})

	snap := s.Get()
	snap.SubscriptionID = "changed"

	assert.Equal(t, "sub-1", s.Get().SubscriptionID)
}

func TestStore_Fallback(t *testing.T) {
	s := NewStore()
	assert.Equal(t, "", s.Subscription(""))

	s.Set(Update{SubscriptionID: strPtr("S1"), EnvironmentID: strPtr("E1")})
	assert.Equal(t, "S1", s.Subscription(""))
	assert.Equal(t, "S2", s.Subscription("S2"))
	assert.Equal(t, "E1", s.Environment(""))
	assert.Equal(t, "E2", s.Environment("E2"))
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Set(Update{SubscriptionID: strPtr("a"), EnvironmentID: strPtr("a")})
		}()
		go func() {
			defer wg.Done()
			c := s.Get()
			// Both fields are written together, so a reader never sees one without the other.
			assert.Equal(t, c.SubscriptionID, c.EnvironmentID)
		}()
	}
	wg.Wait()
}

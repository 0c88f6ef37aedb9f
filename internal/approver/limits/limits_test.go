package limits

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codex-k8s/toolgate-mcp-server/internal/runtime/approver"
)

func approve(t *testing.T, store *Store, tool string) approver.Decision {
	t.Helper()
	decision, err := store.Approve(context.Background(), approver.Request{ToolID: tool})
	require.NoError(t, err)
	return decision
}

func TestStore_MaxTotal(t *testing.T) {
	store := NewApprover("", Policy{MaxTotal: 2}, nil)

	assert.True(t, approve(t, store, "Gmail_ListEmails").Allowed)
	assert.True(t, approve(t, store, "Gmail_ListEmails").Allowed)

	denied := approve(t, store, "Gmail_ListEmails")
	assert.False(t, denied.Allowed)
	assert.Equal(t, ReasonMaxTotal, denied.Reason)
	assert.Equal(t, "limits", denied.Source)

	assert.True(t, approve(t, store, "Gmail_SendEmail").Allowed, "counters are per tool")
}

func TestStore_RatePerMinute(t *testing.T) {
	store := NewApprover("rate", Policy{RatePerMinute: 1}, nil)

	assert.True(t, approve(t, store, "GoogleHotels_SearchHotels").Allowed)

	denied := approve(t, store, "GoogleHotels_SearchHotels")
	assert.False(t, denied.Allowed)
	assert.Equal(t, ReasonRateLimit, denied.Reason)
}

func TestStore_Overrides(t *testing.T) {
	store := NewApprover("", Policy{MaxTotal: 1}, map[string]Policy{
		"Gmail_ListEmails": {},
	})

	for i := 0; i < 5; i++ {
		assert.True(t, approve(t, store, "Gmail_ListEmails").Allowed)
	}
	assert.True(t, approve(t, store, "Gmail_SendEmail").Allowed)
	assert.False(t, approve(t, store, "Gmail_SendEmail").Allowed)
}

func TestStore_ConcurrentMaxTotal(t *testing.T) {
	store := NewApprover("", Policy{MaxTotal: 10}, nil)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			decision, _ := store.Approve(context.Background(), approver.Request{ToolID: "t"})
			if decision.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, allowed)
}

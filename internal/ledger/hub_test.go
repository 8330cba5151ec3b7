package ledger

import (
	"testing"
	"time"

	"storefront-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeReceivesFullSnapshotOnChange(t *testing.T) {
	hub := NewHub()

	ch, cancel := hub.Subscribe()
	defer cancel()

	hub.Publish([]models.Order{{ID: "o1"}, {ID: "o2"}})

	select {
	case snapshot := <-ch:
		require.Len(t, snapshot, 2, "every notification carries the complete set")
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered")
	}
}

func TestSubscribeDeliversCurrentSnapshotImmediately(t *testing.T) {
	hub := NewHub()
	hub.Publish([]models.Order{{ID: "o1"}})

	ch, cancel := hub.Subscribe()
	defer cancel()

	select {
	case snapshot := <-ch:
		assert.Equal(t, "o1", snapshot[0].ID)
	case <-time.After(time.Second):
		t.Fatal("no initial snapshot delivered")
	}
}

func TestSlowSubscriberGetsLatestSnapshot(t *testing.T) {
	hub := NewHub()

	ch, cancel := hub.Subscribe()
	defer cancel()

	// Two publishes without a read in between; the stale snapshot is
	// replaced, never queued behind.
	hub.Publish([]models.Order{{ID: "o1"}})
	hub.Publish([]models.Order{{ID: "o1"}, {ID: "o2"}})

	snapshot := <-ch
	assert.Len(t, snapshot, 2)
}

func TestCancelRemovesSubscriber(t *testing.T) {
	hub := NewHub()

	_, cancel := hub.Subscribe()
	assert.Equal(t, 1, hub.SubscriberCount())

	cancel()
	assert.Equal(t, 0, hub.SubscriberCount())

	// Publishing after cancel must not panic on the closed channel.
	hub.Publish([]models.Order{{ID: "o1"}})

	// Double cancel is a no-op.
	cancel()
}

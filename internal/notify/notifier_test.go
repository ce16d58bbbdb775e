package notify

import (
	"testing"
	"time"

	"cart-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowAndExpire(t *testing.T) {
	n := NewNotifier(30 * time.Millisecond)
	defer n.Close()

	n.Show("Add to cart successfully", models.KindSuccess, models.OutcomeOK)

	msg := n.Active()
	require.NotNil(t, msg)
	assert.Equal(t, "Add to cart successfully", msg.Text)
	assert.Equal(t, models.KindSuccess, msg.Kind)

	assert.Eventually(t, func() bool {
		return n.Active() == nil
	}, time.Second, 5*time.Millisecond, "message should clear after the TTL")
}

func TestShowReplacesActiveMessage(t *testing.T) {
	n := NewNotifier(time.Minute)
	defer n.Close()

	n.Show("first", models.KindInfo, models.OutcomeOK)
	n.Show("second", models.KindDanger, models.OutcomeRejected)

	msg := n.Active()
	require.NotNil(t, msg)
	assert.Equal(t, "second", msg.Text)
	assert.Equal(t, models.KindDanger, msg.Kind)
	assert.Equal(t, models.OutcomeRejected, msg.Outcome)
}

// TestStaleTimerDoesNotClearNewerMessage arms a short timer for the first
// message and checks the second one outlives it.
func TestStaleTimerDoesNotClearNewerMessage(t *testing.T) {
	n := NewNotifier(100 * time.Millisecond)
	defer n.Close()

	n.Show("first", models.KindSuccess, models.OutcomeOK)
	time.Sleep(60 * time.Millisecond)
	n.Show("second", models.KindSuccess, models.OutcomeOK)

	// Past the first message's expiry, before the second's.
	time.Sleep(60 * time.Millisecond)
	msg := n.Active()
	require.NotNil(t, msg, "newer message erased by a stale timer")
	assert.Equal(t, "second", msg.Text)

	assert.Eventually(t, func() bool {
		return n.Active() == nil
	}, time.Second, 5*time.Millisecond)
}

func TestTimerResetsPerMessage(t *testing.T) {
	n := NewNotifier(100 * time.Millisecond)
	defer n.Close()

	n.Show("first", models.KindInfo, models.OutcomeOK)
	for i := 0; i < 3; i++ {
		time.Sleep(50 * time.Millisecond)
		n.Show("again", models.KindInfo, models.OutcomeOK)
	}

	// Each Show re-armed the window, so the last message is still visible.
	require.NotNil(t, n.Active())
}

func TestMessagesCarryDistinctIDs(t *testing.T) {
	n := NewNotifier(time.Minute)
	defer n.Close()

	a := n.Show("a", models.KindInfo, models.OutcomeOK)
	b := n.Show("b", models.KindInfo, models.OutcomeOK)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestCloseIsIdempotent(t *testing.T) {
	n := NewNotifier(time.Minute)

	n.Show("pending", models.KindInfo, models.OutcomeOK)
	n.Close()
	n.Close()

	assert.Nil(t, n.Active())
}

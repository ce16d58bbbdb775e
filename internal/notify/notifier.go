package notify

import (
	"sync"
	"time"

	"cart-service/internal/models"
	"cart-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultTTL is how long a message stays visible before it is cleared.
const DefaultTTL = 3 * time.Second

// Notifier holds at most one visible status message at a time. Showing a new
// message supersedes the previous one and re-arms the clear timer; the old
// timer never erases the newer message.
type Notifier struct {
	mu     sync.Mutex
	active *models.Message
	timer  *time.Timer
	ttl    time.Duration
	logger *zap.Logger
}

// NewNotifier creates a notifier whose messages expire after ttl. A ttl of
// zero or less falls back to DefaultTTL.
func NewNotifier(ttl time.Duration) *Notifier {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Notifier{
		ttl:    ttl,
		logger: util.GetLogger(),
	}
}

// Show replaces the currently displayed message and restarts the expiry
// timer. It returns the message it installed.
func (n *Notifier) Show(text, kind, outcome string) models.Message {
	msg := models.Message{
		ID:      uuid.New().String(),
		Text:    text,
		Kind:    kind,
		Outcome: outcome,
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.timer != nil {
		n.timer.Stop()
	}
	n.active = &msg
	n.timer = time.AfterFunc(n.ttl, func() {
		n.clear(msg.ID)
	})

	util.MessagesShownTotal.WithLabelValues(kind).Inc()
	n.logger.Debug("Message shown",
		zap.String("text", text),
		zap.String("kind", kind),
		zap.String("outcome", outcome))

	return msg
}

// clear removes the active message, but only if it is still the one whose
// timer elapsed. A timer racing a newer Show is a no-op.
func (n *Notifier) clear(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.active != nil && n.active.ID == id {
		n.active = nil
		n.timer = nil
	}
}

// Active returns the currently visible message, or nil if none.
func (n *Notifier) Active() *models.Message {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.active == nil {
		return nil
	}
	msg := *n.active
	return &msg
}

// Close cancels any in-flight expiry timer. Safe to call more than once.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.active = nil
}

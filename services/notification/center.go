package notification

import (
	"sort"
	"sync"
	"time"

	"hoofix/models"

	"github.com/google/uuid"
)

// DefaultTTL is how long an in-page notification stays visible.
const DefaultTTL = 5 * time.Second

// Center holds the transient in-page notifications of one session.
type Center struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items map[string]models.Notification
}

func NewCenter(ttl time.Duration) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Center{ttl: ttl, now: time.Now, items: map[string]models.Notification{}}
}

func (c *Center) Add(level models.NotificationLevel, message string) models.Notification {
	now := c.now()
	n := models.Notification{
		ID:        uuid.New().String(),
		Level:     level,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(c.ttl),
	}
	c.mu.Lock()
	c.items[n.ID] = n
	c.mu.Unlock()
	return n
}

// Active returns unexpired notifications, oldest first, and forgets the
// expired ones.
func (c *Center) Active() []models.Notification {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.Notification, 0, len(c.items))
	for id, n := range c.items {
		if n.Expired(now) {
			delete(c.items, id)
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (c *Center) Dismiss(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[id]
	delete(c.items, id)
	return ok
}

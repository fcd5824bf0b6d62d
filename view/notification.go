package view

import (
	"time"
)

// noticeTTL matches the storefront's transient notification duration.
const noticeTTL = 2 * time.Second

type notice struct {
	message   string
	expiresAt time.Time
}

// Notices buffers transient on-screen messages. Expired entries are pruned
// on read rather than by timers, keeping everything on the single UI
// execution context.
type Notices struct {
	entries []notice
	now     func() time.Time
}

func NewNotices() *Notices {
	return &Notices{now: time.Now}
}

func (n *Notices) Push(message string) {
	n.entries = append(n.entries, notice{
		message:   message,
		expiresAt: n.now().Add(noticeTTL),
	})
}

// Active returns the messages that have not yet expired, oldest first.
func (n *Notices) Active() []string {
	now := n.now()

	live := n.entries[:0]
	var messages []string
	for _, e := range n.entries {
		if e.expiresAt.After(now) {
			live = append(live, e)
			messages = append(messages, e.message)
		}
	}
	n.entries = live

	return messages
}

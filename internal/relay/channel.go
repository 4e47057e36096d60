package relay

import (
	"context"
	"sync"
)

// Listener handles one message. It returns NotHandled for queries it does
// not recognize.
type Listener func(ctx context.Context, msg *Message) Result

// Channel is the shared message-dispatch channel: an ordered set of
// listeners keyed by id. Adding an id twice never adds a second listener.
type Channel struct {
	mu        sync.RWMutex
	order     []string
	listeners map[string]Listener
	onChange  func(count int)
}

// NewChannel creates an empty channel
func NewChannel() *Channel {
	return &Channel{listeners: make(map[string]Listener)}
}

// OnChange installs a hook called with the listener count after every
// mutation. Used to feed the listener gauge.
func (c *Channel) OnChange(fn func(count int)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// Add appends l under id. It reports false and does nothing if id is
// already present.
func (c *Channel) Add(id string, l Listener) bool {
	c.mu.Lock()
	if _, exists := c.listeners[id]; exists {
		c.mu.Unlock()
		return false
	}
	c.listeners[id] = l
	c.order = append(c.order, id)
	n, hook := len(c.order), c.onChange
	c.mu.Unlock()

	notify(hook, n)
	return true
}

// Remove drops the listener under id. It reports false if id was absent.
func (c *Channel) Remove(id string) bool {
	c.mu.Lock()
	if _, exists := c.listeners[id]; !exists {
		c.mu.Unlock()
		return false
	}
	c.removeLocked(id)
	n, hook := len(c.order), c.onChange
	c.mu.Unlock()

	notify(hook, n)
	return true
}

// Replace removes any listener under id and adds l, as one atomic step.
func (c *Channel) Replace(id string, l Listener) {
	c.mu.Lock()
	if _, exists := c.listeners[id]; exists {
		c.removeLocked(id)
	}
	c.listeners[id] = l
	c.order = append(c.order, id)
	n, hook := len(c.order), c.onChange
	c.mu.Unlock()

	notify(hook, n)
}

// Has reports whether a listener is registered under id
func (c *Channel) Has(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.listeners[id]
	return ok
}

// Len returns the number of listeners
func (c *Channel) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// IDs returns the listener ids in dispatch order
func (c *Channel) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.order...)
}

// Dispatch offers msg to each listener in order and returns the first
// result that is not NotHandled. The listener set is snapshotted first, so
// the lock is never held across a network call.
func (c *Channel) Dispatch(ctx context.Context, msg *Message) Result {
	type entry struct {
		id string
		l  Listener
	}

	c.mu.RLock()
	snapshot := make([]entry, 0, len(c.order))
	for _, id := range c.order {
		snapshot = append(snapshot, entry{id: id, l: c.listeners[id]})
	}
	c.mu.RUnlock()

	for _, e := range snapshot {
		if err := ctx.Err(); err != nil {
			return Failed(err).from(e.id)
		}
		if r := e.l(ctx, msg); r.kind != KindNotHandled {
			return r.from(e.id)
		}
	}
	return NotHandled()
}

func (c *Channel) removeLocked(id string) {
	delete(c.listeners, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func notify(hook func(int), n int) {
	if hook != nil {
		hook(n)
	}
}

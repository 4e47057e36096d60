package relay

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// ErrEmptyDomain is returned when registering without a domain name.
var ErrEmptyDomain = errors.New("relay: domain cannot be empty")

// ErrNilHandler is returned when registering without a message handler.
var ErrNilHandler = errors.New("relay: message handler cannot be nil")

// ConnectHandler runs on every connection event with the shared channel.
type ConnectHandler func(ch *Channel)

// Registration binds a domain to its handler pair
type Registration struct {
	Domain    string
	OnConnect ConnectHandler
	OnMessage Listener
}

// Stats is a point-in-time view of the registry
type Stats struct {
	Domains     []string `json:"domains"`
	Listeners   int      `json:"listeners"`
	Connections uint64   `json:"connections"`
}

// Registry is the process-wide table of domain registrations. Register and
// Unregister are its only mutators.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]Registration

	channel     *Channel
	connections atomic.Uint64
	logger      *zap.Logger
}

// NewRegistry creates a registry with a fresh channel
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		entries: make(map[string]Registration),
		channel: NewChannel(),
		logger:  logger,
	}
}

// ReplaceOnConnect is the standard connection handler: it puts onMessage on
// the channel under domain, replacing whatever was there.
func ReplaceOnConnect(domain string, onMessage Listener) ConnectHandler {
	return func(ch *Channel) {
		ch.Replace(domain, onMessage)
	}
}

// Register installs the handler pair for domain, first removing any prior
// pair and its channel listener. Calling it again with the same arguments
// leaves the registry unchanged.
func (r *Registry) Register(domain string, onConnect ConnectHandler, onMessage Listener) error {
	if domain == "" {
		return ErrEmptyDomain
	}
	if onMessage == nil {
		return ErrNilHandler
	}
	if onConnect == nil {
		onConnect = ReplaceOnConnect(domain, onMessage)
	}

	r.mu.Lock()
	if _, exists := r.entries[domain]; exists {
		r.unregisterLocked(domain)
	}
	r.entries[domain] = Registration{Domain: domain, OnConnect: onConnect, OnMessage: onMessage}
	r.order = append(r.order, domain)
	r.mu.Unlock()

	r.logger.Debug("Registered relay domain", zap.String("domain", domain))
	return nil
}

// Unregister removes the pair for domain and its channel listener. It
// reports false if the domain was not registered.
func (r *Registry) Unregister(domain string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[domain]; !exists {
		return false
	}
	r.unregisterLocked(domain)
	return true
}

func (r *Registry) unregisterLocked(domain string) {
	delete(r.entries, domain)
	for i, d := range r.order {
		if d == domain {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.channel.Remove(domain)
}

// Get returns the registration for domain
func (r *Registry) Get(domain string) (Registration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.entries[domain]
	return reg, ok
}

// Connect handles one inbound connection event by running every stored
// connection handler in registration order.
func (r *Registry) Connect() {
	r.mu.RLock()
	handlers := make([]ConnectHandler, 0, len(r.order))
	for _, d := range r.order {
		handlers = append(handlers, r.entries[d].OnConnect)
	}
	r.mu.RUnlock()

	for _, h := range handlers {
		h(r.channel)
	}

	n := r.connections.Add(1)
	r.logger.Debug("Relay connection event",
		zap.Uint64("connections", n),
		zap.Int("listeners", r.channel.Len()),
	)
}

// Dispatch delivers msg on the channel
func (r *Registry) Dispatch(ctx context.Context, msg *Message) Result {
	return r.channel.Dispatch(ctx, msg)
}

// Channel returns the shared message-dispatch channel
func (r *Registry) Channel() *Channel {
	return r.channel
}

// Domains returns the registered domains in registration order
func (r *Registry) Domains() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Stats returns registry statistics
func (r *Registry) Stats() Stats {
	return Stats{
		Domains:     r.Domains(),
		Listeners:   r.channel.Len(),
		Connections: r.connections.Load(),
	}
}

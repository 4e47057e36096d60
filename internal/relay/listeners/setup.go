// Package listeners holds the per-domain message handlers. Each domain is
// a fixed table of endpoints; a message whose query names one of them
// becomes exactly one GET to that endpoint.
package listeners

import (
	"fmt"

	"github.com/bewlybewly/bewly/backend/internal/relay"
	"go.uber.org/zap"
)

// All lists every domain in setup order.
func All() []Domain {
	return []Domain{
		Auth,
		Video,
		User,
		Search,
		Notification,
		People,
		Moment,
		History,
		Favorite,
		Anime,
		WatchLater,
		Ranking,
	}
}

// Setup registers one domain with the standard replace-on-connect handler.
func Setup(registry *relay.Registry, d Domain, f Fetcher, logger *zap.Logger) error {
	onMessage := d.Listener(f, logger)
	if err := registry.Register(d.Name, relay.ReplaceOnConnect(d.Name, onMessage), onMessage); err != nil {
		return fmt.Errorf("register %s: %w", d.Name, err)
	}
	return nil
}

// SetupAll registers every domain.
func SetupAll(registry *relay.Registry, f Fetcher, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	for _, d := range All() {
		if err := Setup(registry, d, f, logger); err != nil {
			return err
		}
	}
	return nil
}

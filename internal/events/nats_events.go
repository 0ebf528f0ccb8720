package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/metrics"
)

// Publisher is the subset of the NATS client the emitter needs.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NATSEmitter publishes events on <prefix>.<event type>, e.g.
// universal-nft.transfer.initiated, where the relay watcher subscribes.
type NATSEmitter struct {
	publisher Publisher
	prefix    string
}

func NewNATSEmitter(publisher Publisher, prefix string) *NATSEmitter {
	if prefix == "" {
		prefix = "universal-nft"
	}
	return &NATSEmitter{publisher: publisher, prefix: strings.TrimSuffix(prefix, ".")}
}

// Subject for an event type under this emitter's prefix.
func (n *NATSEmitter) Subject(t EventType) string {
	return n.prefix + "." + string(t)
}

// Subjects wildcard covering every event this emitter publishes.
func (n *NATSEmitter) Subjects() []string {
	return []string{n.prefix + ".>"}
}

func (n *NATSEmitter) Emit(_ context.Context, evt Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := n.publisher.Publish(n.Subject(evt.Type), data); err != nil {
		metrics.NATSPublishFailed.WithLabelValues(string(evt.Type)).Inc()
		return fmt.Errorf("publish %s: %w", evt.Type, err)
	}
	metrics.NATSMessagesPublished.WithLabelValues(string(evt.Type)).Inc()
	return nil
}

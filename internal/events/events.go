// Package events fans bridge events out to the relay and subscribers.
// Emission happens after the ledger commit and never fails an operation.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type EventType string

const (
	ProgramInitialized       EventType = "program.initialized"
	ProgramPaused            EventType = "program.paused"
	ChainSupported           EventType = "program.chain_supported"
	NftMinted                EventType = "nft.minted"
	CrossChainTransfer       EventType = "transfer.initiated"
	CrossChainTransferFinal  EventType = "transfer.finalized"
	CrossChainTransferRevert EventType = "transfer.reverted"
	CrossChainReceive        EventType = "transfer.received"
	OwnershipVerified        EventType = "nft.ownership_verified"
)

// Event is serialized as-is to NATS and websocket subscribers.
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Mint      string                 `json:"mint,omitempty"`
	Owner     string                 `json:"owner,omitempty"`
	ChainID   uint64                 `json:"chain_id,omitempty"`
	Nonce     uint64                 `json:"nonce,omitempty"`
	Recipient string                 `json:"recipient,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// Emitter delivers events. Implementations must be safe for concurrent use.
type Emitter interface {
	Emit(ctx context.Context, evt Event) error
}

// MultiEmitter sends to every emitter and logs failures.
type MultiEmitter struct {
	emitters []Emitter
	logger   *logrus.Logger
}

func NewMultiEmitter(logger *logrus.Logger, emitters ...Emitter) *MultiEmitter {
	m := &MultiEmitter{logger: logger}
	for _, e := range emitters {
		if e != nil {
			m.emitters = append(m.emitters, e)
		}
	}
	return m
}

func (m *MultiEmitter) Add(e Emitter) {
	if e != nil {
		m.emitters = append(m.emitters, e)
	}
}

func (m *MultiEmitter) Emit(ctx context.Context, evt Event) error {
	for _, e := range m.emitters {
		if err := e.Emit(ctx, evt); err != nil {
			m.logger.WithFields(logrus.Fields{
				"event_id":   evt.ID,
				"event_type": evt.Type,
				"error":      err.Error(),
			}).Warn("Event delivery failed")
		}
	}
	return nil
}

// LogEmitter writes each event to the log.
type LogEmitter struct {
	logger *logrus.Logger
}

func NewLogEmitter(logger *logrus.Logger) *LogEmitter {
	return &LogEmitter{logger: logger}
}

func (l *LogEmitter) Emit(_ context.Context, evt Event) error {
	l.logger.WithFields(logrus.Fields{
		"event_id":   evt.ID,
		"event_type": evt.Type,
		"mint":       evt.Mint,
		"chain_id":   evt.ChainID,
		"nonce":      evt.Nonce,
	}).Info("Bridge event")
	return nil
}

// Recorder keeps events in memory. Used by tests.
type Recorder struct {
	mu     sync.Mutex
	Events []Event
}

func (r *Recorder) Emit(_ context.Context, evt Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, evt)
	return nil
}

// OfType returns recorded events of one type.
func (r *Recorder) OfType(t EventType) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, evt := range r.Events {
		if evt.Type == t {
			out = append(out, evt)
		}
	}
	return out
}

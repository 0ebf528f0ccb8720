package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	subjects []string
	payloads [][]byte
	err      error
}

func (f *fakePublisher) Publish(subject string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.subjects = append(f.subjects, subject)
	f.payloads = append(f.payloads, data)
	return nil
}

func TestNATSEmitterPublishesJSON(t *testing.T) {
	pub := &fakePublisher{}
	emitter := NewNATSEmitter(pub, "bridge.")

	evt := Event{ID: "1", Type: CrossChainTransfer, Mint: "mint", ChainID: 1, Nonce: 3, Timestamp: time.Unix(10, 0).UTC()}
	require.NoError(t, emitter.Emit(context.Background(), evt))

	require.Len(t, pub.subjects, 1)
	assert.Equal(t, "bridge.transfer.initiated", pub.subjects[0])
	assert.Equal(t, []string{"bridge.>"}, emitter.Subjects())

	var decoded Event
	require.NoError(t, json.Unmarshal(pub.payloads[0], &decoded))
	assert.Equal(t, evt, decoded)
}

func TestMultiEmitterSwallowsFailures(t *testing.T) {
	logger := logrus.New()
	failing := NewNATSEmitter(&fakePublisher{err: errors.New("down")}, "")
	rec := &Recorder{}

	multi := NewMultiEmitter(logger, failing, nil, rec)
	assert.NoError(t, multi.Emit(context.Background(), Event{Type: NftMinted}))
	assert.Len(t, rec.OfType(NftMinted), 1)
	assert.Empty(t, rec.OfType(CrossChainReceive))
}

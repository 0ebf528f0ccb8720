package clients

import (
	"fmt"
	"time"

	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/config"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/metrics"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// NATSClient publishes bridge events for the relay watcher.
type NATSClient struct {
	conn   *nats.Conn
	js     nats.JetStreamContext
	logger *logrus.Logger
}

// NewNATSClient connects to NATS and, when enabled, binds JetStream.
func NewNATSClient(cfg config.NATSConfig, logger *logrus.Logger) (*NATSClient, error) {
	connectTimeout := 10 * time.Second
	if cfg.Timeout > 0 {
		connectTimeout = time.Duration(cfg.Timeout) * time.Second
	}
	reconnectWait := 5 * time.Second
	if cfg.ReconnectWait > 0 {
		reconnectWait = time.Duration(cfg.ReconnectWait) * time.Second
	}
	maxReconnects := cfg.MaxReconnects
	if maxReconnects == 0 {
		maxReconnects = -1
	}

	conn, err := nats.Connect(cfg.URL,
		nats.Name("universal-nft-bridge"),
		nats.Timeout(connectTimeout),
		nats.ReconnectWait(reconnectWait),
		nats.MaxReconnects(maxReconnects),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.WithError(err).Warn("NATS disconnected")
			metrics.NATSConnectionStatus.Set(0)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.WithField("url", nc.ConnectedUrl()).Info("NATS reconnected")
			metrics.NATSConnectionStatus.Set(1)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect NATS: %w", err)
	}
	metrics.NATSConnectionStatus.Set(1)

	client := &NATSClient{conn: conn, logger: logger}
	if cfg.EnableJetStream {
		js, err := conn.JetStream()
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("create JetStream context: %w", err)
		}
		client.js = js
	}

	logger.WithFields(logrus.Fields{
		"url":       cfg.URL,
		"jetstream": cfg.EnableJetStream,
	}).Info("NATS connected")
	return client, nil
}

// EnsureStream creates the event stream if it does not exist yet.
func (c *NATSClient) EnsureStream(name string, subjects []string) error {
	if c.js == nil {
		return nil
	}
	if _, err := c.js.StreamInfo(name); err == nil {
		return nil
	}
	_, err := c.js.AddStream(&nats.StreamConfig{
		Name:      name,
		Subjects:  subjects,
		Retention: nats.LimitsPolicy,
		MaxAge:    7 * 24 * time.Hour,
		Storage:   nats.FileStorage,
	})
	if err != nil {
		return fmt.Errorf("create stream %s: %w", name, err)
	}
	c.logger.WithField("stream", name).Info("NATS stream created")
	return nil
}

// Publish sends data on subject, through JetStream when it is bound so the
// relay gets an acknowledged, persisted copy.
func (c *NATSClient) Publish(subject string, data []byte) error {
	if c.js != nil {
		_, err := c.js.Publish(subject, data)
		return err
	}
	return c.conn.Publish(subject, data)
}

func (c *NATSClient) IsConnected() bool {
	return c.conn != nil && c.conn.IsConnected()
}

func (c *NATSClient) Close() {
	if c.conn == nil {
		return
	}
	if err := c.conn.Drain(); err != nil {
		c.conn.Close()
	}
	metrics.NATSConnectionStatus.Set(0)
}

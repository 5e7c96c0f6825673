// Package notify delivers client-facing messages over MQTT. A broker
// bridge on the other side turns them into SMS or push notifications.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/fieldops/dispatch/core/logger"
)

// Config holds the broker connection parameters.
type Config struct {
	Broker   string `json:"broker" koanf:"broker"`
	ClientID string `json:"client_id" koanf:"client_id"`
	Username string `json:"username" koanf:"username"`
	Password string `json:"password" koanf:"password"`
	Topic    string `json:"topic" koanf:"topic"`
	QoS      byte   `json:"qos" koanf:"qos"`
}

// message is the wire payload. MessageID lets the bridge deduplicate
// redeliveries.
type message struct {
	MessageID string    `json:"message_id"`
	JobID     string    `json:"job_id"`
	Kind      string    `json:"kind"`
	SentAt    time.Time `json:"sent_at"`
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// MQTTNotifier publishes notification messages to a single topic.
type MQTTNotifier struct {
	cli   pahoClient
	topic string
	qos   byte
	log   logger.Logger
}

// NewMQTTNotifier connects to the broker.
func NewMQTTNotifier(cfg Config, log logger.Logger) (*MQTTNotifier, error) {
	if cfg.Topic == "" {
		cfg.Topic = "fieldops/notify"
	}
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("notify: connection lost: %v", err)
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("notify: connect %s: %w", cfg.Broker, token.Error())
	}
	return &MQTTNotifier{cli: c, topic: cfg.Topic, qos: cfg.QoS, log: log}, nil
}

// OnMyWay publishes an en-route notification for the job's client.
func (n *MQTTNotifier) OnMyWay(ctx context.Context, jobID string) error {
	payload, err := json.Marshal(message{
		MessageID: uuid.NewString(),
		JobID:     jobID,
		Kind:      "on_my_way",
		SentAt:    time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("notify: marshal: %w", err)
	}
	token := n.cli.Publish(n.topic, n.qos, false, payload)
	done := make(chan struct{})
	go func() {
		token.Wait()
		close(done)
	}()
	select {
	case <-ctx.Done():
		return fmt.Errorf("notify: publish: %w", ctx.Err())
	case <-done:
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("notify: publish: %w", err)
	}
	n.log.Debugf("notify: on_my_way sent for job %s", jobID)
	return nil
}

// Close disconnects from the broker.
func (n *MQTTNotifier) Close() {
	n.cli.Disconnect(250)
}

package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

type fakeToken struct{ err error }

func (t fakeToken) Wait() bool                     { return true }
func (t fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t fakeToken) Error() error { return t.err }

type fakeClient struct {
	connectErr error
	publishErr error
	topic      string
	payload    []byte
}

func (f *fakeClient) IsConnected() bool       { return true }
func (f *fakeClient) Connect() paho.Token     { return fakeToken{err: f.connectErr} }
func (f *fakeClient) Disconnect(uint)         {}
func (f *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	f.topic = topic
	f.payload = payload.([]byte)
	return fakeToken{err: f.publishErr}
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}

func newTestNotifier(t *testing.T, fc *fakeClient) *MQTTNotifier {
	t.Helper()
	orig := newMQTTClient
	newMQTTClient = func(*paho.ClientOptions) pahoClient { return fc }
	t.Cleanup(func() { newMQTTClient = orig })
	n, err := NewMQTTNotifier(Config{Broker: "tcp://localhost:1883", ClientID: "test"}, nopLogger{})
	if err != nil {
		t.Fatalf("notifier: %v", err)
	}
	return n
}

func TestOnMyWay_Payload(t *testing.T) {
	fc := &fakeClient{}
	n := newTestNotifier(t, fc)

	if err := n.OnMyWay(context.Background(), "j7"); err != nil {
		t.Fatalf("on my way: %v", err)
	}
	if fc.topic != "fieldops/notify" {
		t.Fatalf("unexpected topic %q", fc.topic)
	}
	var msg message
	if err := json.Unmarshal(fc.payload, &msg); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if msg.JobID != "j7" || msg.Kind != "on_my_way" || msg.MessageID == "" {
		t.Fatalf("unexpected message %+v", msg)
	}
}

func TestOnMyWay_PublishError(t *testing.T) {
	fc := &fakeClient{publishErr: errors.New("broker gone")}
	n := newTestNotifier(t, fc)
	if err := n.OnMyWay(context.Background(), "j7"); err == nil {
		t.Fatal("expected publish error")
	}
}

func TestNewMQTTNotifier_ConnectError(t *testing.T) {
	fc := &fakeClient{connectErr: errors.New("refused")}
	orig := newMQTTClient
	newMQTTClient = func(*paho.ClientOptions) pahoClient { return fc }
	t.Cleanup(func() { newMQTTClient = orig })
	if _, err := NewMQTTNotifier(Config{Broker: "tcp://localhost:1883"}, nopLogger{}); err == nil {
		t.Fatal("expected connect error")
	}
}

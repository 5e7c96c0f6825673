package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func waitForBroker(broker string, timeout time.Duration) error {
	opts := paho.NewClientOptions().AddBroker(broker).SetClientID("probe")
	deadline := time.Now().Add(timeout)
	var lastErr error
	for time.Now().Before(deadline) {
		cli := paho.NewClient(opts)
		token := cli.Connect()
		token.Wait()
		if token.Error() == nil {
			cli.Disconnect(100)
			return nil
		}
		lastErr = token.Error()
		time.Sleep(100 * time.Millisecond)
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("timeout waiting for broker")
	}
	return lastErr
}

func startMosquitto(ctx context.Context, t *testing.T) (tc.Container, string) {
	t.Helper()
	conf := `listener 1883
allow_anonymous true
persistence false
log_dest stdout
`
	dir := t.TempDir()
	path := filepath.Join(dir, "mosquitto.conf")
	if err := os.WriteFile(path, []byte(conf), 0644); err != nil {
		t.Fatalf("write conf: %v", err)
	}

	req := tc.ContainerRequest{
		Image:        "eclipse-mosquitto:2.0",
		ExposedPorts: []string{"1883/tcp"},
		WaitingFor:   wait.ForListeningPort("1883/tcp"),
		Files: []tc.ContainerFile{
			{
				HostFilePath:      path,
				ContainerFilePath: "/mosquitto/config/mosquitto.conf",
				FileMode:          0644,
			},
		},
	}
	cont, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("container start: %v", err)
	}
	host, err := cont.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := cont.MappedPort(ctx, "1883")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	broker := fmt.Sprintf("tcp://%s", net.JoinHostPort(host, port.Port()))
	if err := waitForBroker(broker, 5*time.Second); err != nil {
		t.Skipf("mosquitto not ready: %v", err)
	}
	return cont, broker
}

type testLogger struct{ t *testing.T }

func (l testLogger) Debugf(f string, a ...any)       { l.t.Logf(f, a...) }
func (l testLogger) Debugw(string, map[string]any)   {}
func (l testLogger) Infof(f string, a ...any)        { l.t.Logf(f, a...) }
func (l testLogger) Warnf(f string, a ...any)        { l.t.Logf(f, a...) }
func (l testLogger) Errorf(f string, a ...any)       { l.t.Logf(f, a...) }

func TestMQTTNotifier_OnMyWay(t *testing.T) {
	if os.Getenv("DOCKER_AVAILABLE") == "" {
		t.Skip("set DOCKER_AVAILABLE to run container tests")
	}
	ctx := context.Background()
	cont, broker := startMosquitto(ctx, t)
	defer func() { _ = cont.Terminate(ctx) }()

	received := make(chan message, 1)
	subOpts := paho.NewClientOptions().AddBroker(broker).SetClientID("bridge-sim")
	sub := paho.NewClient(subOpts)
	if token := sub.Connect(); token.Wait() && token.Error() != nil {
		t.Fatalf("subscriber connect: %v", token.Error())
	}
	defer sub.Disconnect(100)
	if token := sub.Subscribe("fieldops/notify", 0, func(_ paho.Client, m paho.Message) {
		var msg message
		if err := json.Unmarshal(m.Payload(), &msg); err == nil {
			received <- msg
		}
	}); token.Wait() && token.Error() != nil {
		t.Fatalf("subscribe: %v", token.Error())
	}

	n, err := NewMQTTNotifier(Config{Broker: broker, ClientID: "notify-test"}, testLogger{t})
	if err != nil {
		t.Fatalf("notifier: %v", err)
	}
	defer n.Close()

	if err := n.OnMyWay(ctx, "job-42"); err != nil {
		t.Fatalf("on my way: %v", err)
	}

	select {
	case msg := <-received:
		if msg.JobID != "job-42" || msg.Kind != "on_my_way" {
			t.Fatalf("unexpected message %+v", msg)
		}
		if msg.MessageID == "" {
			t.Fatal("message id must be set")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("notification not delivered")
	}
}

package mqtt

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/sweeney/house-guard/internal/logger"
	"github.com/sweeney/house-guard/internal/logic"
)

const (
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
)

// Options configures a RealPublisher.
type Options struct {
	Broker     string
	ClientID   string
	BufferSize int
}

// RealPublisher publishes to an actual MQTT broker. While the broker is
// unreachable messages are kept in a bounded backlog and replayed in order on
// the next connect, followed by a RECONNECTED system event.
type RealPublisher struct {
	ctx    context.Context
	client paho.Client

	// send and connected are the client operations, replaceable in tests.
	send      func(m outbound) error
	connected func() bool

	mu     sync.Mutex
	buffer *backlog
	everUp bool
	now    func() time.Time
}

// NewRealPublisher creates a publisher for the given broker. If the first
// connection attempt times out the publisher is still returned: paho keeps
// retrying in the background and messages are buffered meanwhile.
func NewRealPublisher(ctx context.Context, o Options) (*RealPublisher, error) {
	ctx = logger.WithKV(logger.WithName(ctx, "mqtt"), "broker", o.Broker)
	p := newPublisher(ctx, o.BufferSize)

	opts := paho.NewClientOptions().
		AddBroker(o.Broker).
		SetClientID(o.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5*time.Second).
		SetWill(TopicSystem, string(WillPayload(time.Now())), 1, true).
		SetOnConnectHandler(func(paho.Client) { p.onConnect() }).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			logger.WarnKV(ctx, "connection lost", "error", err)
		})

	p.client = paho.NewClient(opts)
	p.send = p.clientSend
	p.connected = p.client.IsConnectionOpen

	token := p.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		logger.WarnKV(ctx, "broker not reachable yet, buffering", "broker", o.Broker)
		return p, nil
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}
	return p, nil
}

func newPublisher(ctx context.Context, bufferSize int) *RealPublisher {
	return &RealPublisher{
		ctx:    ctx,
		buffer: newBacklog(bufferSize),
		now:    time.Now,
	}
}

func (p *RealPublisher) clientSend(m outbound) error {
	token := p.client.Publish(m.topic, m.qos, m.retained, m.payload)
	if !token.WaitTimeout(publishTimeout) {
		return errors.New("publish timeout")
	}
	return token.Error()
}

// onConnect replays the buffer. It runs on paho's goroutine.
func (p *RealPublisher) onConnect() {
	p.mu.Lock()
	reconnect := p.everUp
	p.everUp = true
	pending := p.buffer.drainAll()
	p.mu.Unlock()

	if len(pending) > 0 {
		logger.InfoKV(p.ctx, "replaying buffered messages", "count", len(pending))
	}
	for _, m := range pending {
		if err := p.send(m); err != nil {
			logger.WarnKV(p.ctx, "replay failed", "topic", m.topic, "error", err)
			p.enqueue(m)
		}
	}

	if reconnect {
		payload, _ := FormatSystemPayload(SystemEvent{Timestamp: p.now(), Event: "RECONNECTED"})
		if err := p.deliver(outbound{topic: TopicSystem, payload: payload, qos: 1}); err != nil {
			logger.WarnKV(p.ctx, "publish reconnected", "error", err)
		}
	}
}

func (p *RealPublisher) enqueue(m outbound) {
	p.mu.Lock()
	dropped := p.buffer.push(m)
	size := p.buffer.limit
	p.mu.Unlock()
	if dropped {
		logger.WarnKV(p.ctx, "buffer full, dropping oldest", "capacity", size)
	}
}

// deliver sends m now if connected, otherwise buffers it. A failed send is
// buffered too and the error returned.
func (p *RealPublisher) deliver(m outbound) error {
	if !p.connected() {
		p.enqueue(m)
		return nil
	}
	if err := p.send(m); err != nil {
		p.enqueue(m)
		return fmt.Errorf("publish %s: %w", m.topic, err)
	}
	return nil
}

// Publish sends a controller event to the MQTT broker.
func (p *RealPublisher) Publish(event logic.Event) error {
	payload, err := FormatPayload(event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}
	// QoS 1: gas events matter more than a duplicate.
	return p.deliver(outbound{topic: Topic, payload: payload, qos: 1})
}

// PublishSystem sends a system lifecycle event to the MQTT broker.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}
	return p.deliver(outbound{topic: TopicSystem, payload: payload, qos: 1, retained: event.Retained})
}

// IsConnected reports whether the client currently has a connection.
func (p *RealPublisher) IsConnected() bool {
	return p.connected()
}

// Buffered returns the number of messages waiting for a connection.
func (p *RealPublisher) Buffered() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buffer.len()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	if p.client != nil {
		p.client.Disconnect(1000) // 1 second timeout
	}
	if n := p.Buffered(); n > 0 {
		logger.WarnKV(p.ctx, "discarding buffered messages", "count", n)
	}
	return nil
}

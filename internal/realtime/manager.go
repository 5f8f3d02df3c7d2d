package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/atomic"

	"kicklive/internal/dispatch"
	"kicklive/internal/events"
	"kicklive/internal/interfaces"
	"kicklive/internal/metrics"
)

// Protocol frames exchanged with the realtime endpoint, besides the
// application event envelopes.
const (
	frameSubscribe   = "pusher:subscribe"
	frameUnsubscribe = "pusher:unsubscribe"
	framePing        = "pusher:ping"
	framePong        = "pusher:pong"
	frameEstablished = "pusher:connection_established"
	frameSubscribed  = "pusher_internal:subscription_succeeded"
	frameError       = "pusher:error"
)

// Config tunes the connection manager. Zero values pick the defaults below.
type Config struct {
	URL            string
	PingInterval   time.Duration
	MaxMissedPongs int
	BackoffInitial time.Duration
	BackoffMax     time.Duration
}

func (c *Config) withDefaults() Config {
	cfg := *c
	if cfg.PingInterval == 0 {
		cfg.PingInterval = 25 * time.Second
	}
	if cfg.MaxMissedPongs == 0 {
		cfg.MaxMissedPongs = 2
	}
	if cfg.BackoffInitial == 0 {
		cfg.BackoffInitial = time.Second
	}
	if cfg.BackoffMax == 0 {
		cfg.BackoffMax = 30 * time.Second
	}
	return cfg
}

// Manager owns the long-lived realtime connection: connect, heartbeat,
// reconnect with backoff, channel re-subscription and teardown. Inbound
// messages flow through the decoder into the dispatcher in arrival order.
type Manager struct {
	cfg        Config
	dialer     interfaces.RealtimeDialer
	decoder    *events.Decoder
	dispatcher *dispatch.Dispatcher
	logger     zerolog.Logger

	state       atomic.Int32
	missedPongs atomic.Int32
	closed      atomic.Bool

	mu       sync.Mutex
	channels []string
	conn     interfaces.RealtimeConn

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// NewManager wires a manager onto the decode→dispatch pipeline. A closed
// manager cannot be restarted; construct a new one instead.
func NewManager(cfg Config, dialer interfaces.RealtimeDialer, dispatcher *dispatch.Dispatcher, logger zerolog.Logger) *Manager {
	return &Manager{
		cfg:        cfg.withDefaults(),
		dialer:     dialer,
		decoder:    events.NewDecoder("realtime"),
		dispatcher: dispatcher,
		logger:     logger.With().Str("component", "realtime").Logger(),
		done:       make(chan struct{}),
	}
}

// State returns the current lifecycle state.
func (m *Manager) State() State { return State(m.state.Load()) }

// Channels returns the channels currently remembered for subscription.
func (m *Manager) Channels() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.channels...)
}

// Subscribe remembers the given channels and, if connected, issues the
// subscription commands immediately. Remembered channels survive
// reconnects: they are re-issued on every new connection.
func (m *Manager) Subscribe(channels ...string) {
	m.mu.Lock()
	var added []string
	for _, ch := range channels {
		if !containsString(m.channels, ch) {
			m.channels = append(m.channels, ch)
			added = append(added, ch)
		}
	}
	conn := m.conn
	m.mu.Unlock()

	if conn == nil || m.State() != StateConnected {
		return
	}
	for _, ch := range added {
		if err := m.writeFrame(conn, frameSubscribe, ch); err != nil {
			m.logger.Warn().Err(err).Str("channel", ch).Msg("subscribe command failed")
			return
		}
	}
}

// Start begins connecting and runs the connection loop until Close is
// called. Calling Start on a closed manager returns an error.
func (m *Manager) Start(ctx context.Context) error {
	if m.closed.Load() {
		return errors.New("realtime manager is closed")
	}
	ctx, m.cancel = context.WithCancel(ctx)
	m.setState(StateConnecting)
	go m.run(ctx)
	return nil
}

// Close moves to the terminal state from anywhere, aborting any pending
// backoff timer. In-flight decode/dispatch of an already received message
// completes; no further messages are accepted.
func (m *Manager) Close() {
	m.once.Do(func() {
		m.closed.Store(true)
		started := m.cancel != nil
		if started {
			m.cancel()
		}
		m.mu.Lock()
		if m.conn != nil {
			m.conn.Close()
		}
		m.mu.Unlock()
		if started {
			<-m.done
		}
		m.setState(StateClosed)
	})
}

func (m *Manager) run(ctx context.Context) {
	defer close(m.done)

	attempts := 0
	for {
		conn, ok := m.establish(ctx, attempts == 0)
		if !ok {
			return
		}
		if attempts > 0 {
			metrics.Reconnects.Inc()
		}
		attempts++

		m.setState(StateConnected)
		m.readUntilError(ctx, conn)

		m.mu.Lock()
		m.conn = nil
		m.mu.Unlock()
		conn.Close()

		if ctx.Err() != nil {
			return
		}
		// Unexpected drop or heartbeat starvation: degrade and try an
		// immediate reconnect before entering the backoff cycle.
		m.setState(StateDegraded)
	}
}

// establish dials until a connection with all remembered subscriptions is
// up. The first post-drop attempt runs without delay (Degraded); further
// failures move to Reconnecting with bounded exponential backoff. Attempt
// count is unbounded; only ctx cancellation stops the cycle.
func (m *Manager) establish(ctx context.Context, initial bool) (interfaces.RealtimeConn, bool) {
	backoff := m.cfg.BackoffInitial
	for attempt := 0; ; attempt++ {
		if ctx.Err() != nil {
			return nil, false
		}
		if attempt > 0 {
			if initial {
				m.setState(StateConnecting)
			} else {
				m.setState(StateReconnecting)
			}
			select {
			case <-ctx.Done():
				return nil, false
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > m.cfg.BackoffMax {
				backoff = m.cfg.BackoffMax
			}
		}

		conn, err := m.connect(ctx)
		if err != nil {
			m.logger.Warn().Err(err).Int("attempt", attempt+1).Msg("connection attempt failed")
			continue
		}
		return conn, true
	}
}

// connect dials and re-issues every remembered channel subscription before
// the connection is handed to the read loop, so no inbound message is
// forwarded until the subscription set is restored.
func (m *Manager) connect(ctx context.Context) (interfaces.RealtimeConn, error) {
	conn, err := m.dialer.Dial(ctx, m.cfg.URL)
	if err != nil {
		return nil, err
	}

	for _, ch := range m.Channels() {
		if err := m.writeFrame(conn, frameSubscribe, ch); err != nil {
			conn.Close()
			return nil, err
		}
	}

	m.mu.Lock()
	m.conn = conn
	m.mu.Unlock()
	m.missedPongs.Store(0)
	return conn, nil
}

// readUntilError pumps inbound messages into the pipeline until the
// connection breaks or the context is cancelled.
func (m *Manager) readUntilError(ctx context.Context, conn interfaces.RealtimeConn) {
	stop := make(chan struct{})
	defer close(stop)
	go m.heartbeat(conn, stop)

	for {
		raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				m.logger.Warn().Err(err).Msg("realtime connection dropped")
			}
			return
		}
		m.handleMessage(conn, raw)
	}
}

// heartbeat pings on the protocol cadence and forces a reconnect when too
// many replies go missing.
func (m *Manager) heartbeat(conn interfaces.RealtimeConn, stop <-chan struct{}) {
	ticker := time.NewTicker(m.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if int(m.missedPongs.Inc()) > m.cfg.MaxMissedPongs {
				metrics.HeartbeatMisses.Inc()
				m.logger.Warn().Msg("heartbeat replies missing, forcing reconnect")
				conn.Close()
				return
			}
			if err := m.writeFrame(conn, framePing, ""); err != nil {
				conn.Close()
				return
			}
		}
	}
}

func (m *Manager) handleMessage(conn interfaces.RealtimeConn, raw []byte) {
	var probe struct {
		Event string `json:"event"`
	}
	_ = json.Unmarshal(raw, &probe)

	switch probe.Event {
	case framePong:
		m.missedPongs.Store(0)
		return
	case framePing:
		_ = m.writeFrame(conn, framePong, "")
		return
	case frameEstablished, frameSubscribed:
		m.missedPongs.Store(0)
		m.logger.Debug().Str("frame", probe.Event).Msg("protocol frame")
		return
	case frameError:
		m.logger.Warn().RawJSON("frame", raw).Msg("realtime protocol error frame")
		return
	}

	ev, err := m.decoder.Decode(raw)
	if err != nil {
		metrics.MalformedEnvelopes.Inc()
		m.logger.Warn().Err(err).Msg("dropping malformed envelope")
		return
	}
	m.dispatcher.Dispatch(ev)
}

func (m *Manager) writeFrame(conn interfaces.RealtimeConn, event, channel string) error {
	frame := map[string]any{"event": event}
	if channel != "" {
		frame["data"] = map[string]string{"auth": "", "channel": channel}
	} else {
		frame["data"] = map[string]string{}
	}
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	return conn.WriteMessage(data)
}

func (m *Manager) setState(s State) {
	old := State(m.state.Swap(int32(s)))
	if old != s {
		m.logger.Info().Str("from", old.String()).Str("to", s.String()).Msg("connection state changed")
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

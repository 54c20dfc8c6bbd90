package match

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	payload "github.com/HMasataka/rally/payload/match"
	"github.com/HMasataka/rally/pkg/retry"
	rallywebrtc "github.com/HMasataka/rally/pkg/webrtc"
	"github.com/bep/debounce"
	ws "github.com/gorilla/websocket"
	"github.com/pion/webrtc/v4"
)

type ClientOptions struct {
	ServerURL string
	// ConnectTimeout bounds the control-plane dial, and how long a second
	// caller waits on a dial already in flight.
	ConnectTimeout time.Duration
	// CreateTimeout bounds the wait for the created reply.
	CreateTimeout time.Duration
	// JoinTimeout bounds the wait for the joined reply. Longer than
	// create: join is the path a user is actively waiting on.
	JoinTimeout  time.Duration
	WriteTimeout time.Duration
	// DataChannelLabel names the channel the initiator creates.
	DataChannelLabel string
	// Negotiator builds the local peer negotiation object, one per
	// attempt.
	Negotiator NegotiatorFactory
	DialRetry  retry.Config
}

func DefaultClientOptions(serverURL string) ClientOptions {
	return ClientOptions{
		ServerURL:        serverURL,
		ConnectTimeout:   5 * time.Second,
		CreateTimeout:    10 * time.Second,
		JoinTimeout:      15 * time.Second,
		WriteTimeout:     10 * time.Second,
		DataChannelLabel: "game",
		DialRetry:        retry.DefaultConfig(),
	}
}

// failureDebounce swallows disconnected/failed flaps of the peer
// connection before a failure is reported.
const failureDebounce = 500 * time.Millisecond

// Client drives one participant's side of match establishment until a
// direct data channel opens. One attempt may be active at a time; a
// second CreateMatch/JoinMatch while one is in flight fails fast.
type Client struct {
	options ClientOptions

	mu       sync.Mutex
	conn     *ws.Conn
	dialDone chan struct{}
	dialErr  error
	attempt  *attempt

	writeMu sync.Mutex

	onChannelReady func(DataChannel)
	onError        func(error)
}

func NewClient(options ClientOptions) *Client {
	if options.Negotiator == nil {
		options.Negotiator = PionNegotiatorFactory(rallywebrtc.DefaultPeerConnectionOptions())
	}
	if options.DataChannelLabel == "" {
		options.DataChannelLabel = "game"
	}

	return &Client{
		options: options,
	}
}

// OnChannelReady registers the success callback. It fires exactly once
// per attempt, when the data channel opens.
func (c *Client) OnChannelReady(f func(DataChannel)) {
	c.onChannelReady = f
}

// OnError registers the failure callback. It fires at most once per
// attempt for failures that happen after the entry call returned.
func (c *Client) OnError(f func(error)) {
	c.onError = f
}

// CreateMatch opens a new match and returns its code. The local role is
// fixed to initiator before anything is sent.
func (c *Client) CreateMatch(ctx context.Context) (string, error) {
	a, err := c.beginAttempt(ctx, payload.RoleInitiator)
	if err != nil {
		return "", err
	}

	if err := c.ensureConnection(ctx); err != nil {
		c.abandonAttempt(a)
		return "", err
	}

	msg, err := payload.NewCreateMessage()
	if err != nil {
		c.abandonAttempt(a)
		return "", err
	}

	a.awaiting.Store(true)

	if err := c.send(msg); err != nil {
		c.abandonAttempt(a)
		return "", err
	}

	reply, err := c.await(ctx, a, c.options.CreateTimeout, payload.MessageTypeCreated)
	if err != nil {
		c.abandonAttempt(a)
		return "", err
	}

	var created payload.CreatedResponse
	if err := json.Unmarshal(reply.Data, &created); err != nil {
		c.abandonAttempt(a)
		return "", fmt.Errorf("malformed created reply: %w", err)
	}

	a.setCode(created.Code)

	slog.Info("match created", slog.String("code", created.Code))

	return created.Code, nil
}

// JoinMatch joins an existing match by code. The local role is fixed to
// joiner before anything is sent.
func (c *Client) JoinMatch(ctx context.Context, code string) error {
	a, err := c.beginAttempt(ctx, payload.RoleJoiner)
	if err != nil {
		return err
	}

	if err := c.ensureConnection(ctx); err != nil {
		c.abandonAttempt(a)
		return err
	}

	// The initiator may relay its offer the moment the pairing happens,
	// so the code and the negotiator must be in place before the join
	// request goes out.
	a.setCode(code)

	// Answering side: accept the remote channel, never create one.
	neg, err := c.buildNegotiator(a)
	if err != nil {
		c.abandonAttempt(a)
		return err
	}

	neg.OnDataChannel(func(dc DataChannel) {
		a.setDataChannel(dc)
		dc.OnOpen(func() {
			c.channelReady(a, dc)
		})
	})

	msg, err := payload.NewJoinMessage(code)
	if err != nil {
		c.abandonAttempt(a)
		return err
	}

	a.awaiting.Store(true)

	if err := c.send(msg); err != nil {
		c.abandonAttempt(a)
		return err
	}

	reply, err := c.await(ctx, a, c.options.JoinTimeout, payload.MessageTypeJoined)
	if err != nil {
		c.abandonAttempt(a)
		return err
	}

	var joined payload.JoinedResponse
	if err := json.Unmarshal(reply.Data, &joined); err != nil {
		c.abandonAttempt(a)
		return fmt.Errorf("malformed joined reply: %w", err)
	}

	a.setCode(joined.Code)

	slog.Info("match joined", slog.String("code", joined.Code))

	return nil
}

// Disconnect tears everything down: data channel, negotiation object and
// control-plane connection. Pending waits unblock with ErrCancelled.
// Idempotent and safe from any state.
func (c *Client) Disconnect() {
	c.mu.Lock()
	a := c.attempt
	c.attempt = nil
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if a != nil {
		a.stop()
	}
	if conn != nil {
		_ = conn.Close()
	}
}

func (c *Client) beginAttempt(ctx context.Context, role payload.Role) (*attempt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.attempt != nil {
		return nil, ErrAttemptInProgress
	}

	a := newAttempt(context.WithoutCancel(ctx), role)
	c.attempt = a

	return a, nil
}

// abandonAttempt clears a failed attempt so the client is reusable.
func (c *Client) abandonAttempt(a *attempt) {
	c.mu.Lock()
	if c.attempt == a {
		c.attempt = nil
	}
	c.mu.Unlock()

	a.stop()
}

// failAttempt is the asynchronous failure path: it reports through
// OnError exactly once, unless an entry call is waiting and will return
// the error itself.
func (c *Client) failAttempt(a *attempt, err error) {
	c.mu.Lock()
	current := c.attempt == a
	if current {
		c.attempt = nil
	}
	c.mu.Unlock()

	if !a.fail(err) || !current {
		return
	}

	awaiting := a.awaiting.Load()

	go func() {
		a.stop()

		if !awaiting && c.onError != nil {
			c.onError(err)
		}
	}()
}

// ensureConnection dials the relay lazily. At most one dial is in flight
// per client; a concurrent caller waits on it instead of opening a
// second connection.
func (c *Client) ensureConnection(ctx context.Context) error {
	c.mu.Lock()
	if c.conn != nil {
		c.mu.Unlock()
		return nil
	}

	if c.dialDone != nil {
		done := c.dialDone
		c.mu.Unlock()
		return c.awaitDial(ctx, done)
	}

	done := make(chan struct{})
	c.dialDone = done
	c.mu.Unlock()

	conn, err := c.dial(ctx)

	c.mu.Lock()
	c.dialErr = err
	if err == nil {
		c.conn = conn
	}
	c.dialDone = nil
	c.mu.Unlock()
	close(done)

	if err != nil {
		return err
	}

	go c.readLoop(conn)

	return nil
}

func (c *Client) awaitDial(ctx context.Context, done chan struct{}) error {
	timer := time.NewTimer(c.options.ConnectTimeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrConnectTimeout
	case <-done:
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		if c.dialErr != nil {
			return c.dialErr
		}
		return ErrConnectTimeout
	}

	return nil
}

func (c *Client) dial(ctx context.Context) (*ws.Conn, error) {
	dialer := ws.Dialer{
		HandshakeTimeout: c.options.ConnectTimeout,
	}

	var conn *ws.Conn

	err := retry.Do(ctx, c.options.DialRetry, func(ctx context.Context) error {
		dialCtx, cancel := context.WithTimeout(ctx, c.options.ConnectTimeout)
		defer cancel()

		var err error
		conn, _, err = dialer.DialContext(dialCtx, c.options.ServerURL, nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to dial relay server: %w", err)
	}

	return conn, nil
}

func (c *Client) send(msg *payload.Message) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	if conn == nil {
		return ErrControlPlaneClosed
	}

	conn.SetWriteDeadline(time.Now().Add(c.options.WriteTimeout))

	return conn.WriteMessage(ws.TextMessage, b)
}

// await blocks until the wanted reply, a server error, a timeout, or
// cancellation. The caller raises a.awaiting before sending the request;
// a reply can arrive before this function runs.
func (c *Client) await(ctx context.Context, a *attempt, timeout time.Duration, want payload.MessageType) (*payload.Message, error) {
	defer a.awaiting.Store(false)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-a.ctx.Done():
			if err := a.failure(); err != nil {
				return nil, err
			}
			return nil, ErrCancelled
		case <-timer.C:
			return nil, ErrServerTimeout
		case msg := <-a.replies():
			if msg.Type == payload.MessageTypeError {
				var resp payload.ErrorResponse
				if err := json.Unmarshal(msg.Data, &resp); err != nil {
					return nil, fmt.Errorf("malformed error reply: %w", err)
				}
				return nil, wireError(resp)
			}

			if msg.Type != want {
				slog.Warn("unexpected reply type, ignoring", slog.String("type", string(msg.Type)))
				continue
			}

			return msg, nil
		}
	}
}

func (c *Client) readLoop(conn *ws.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.handleDisconnect(conn, err)
			return
		}

		var msg payload.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("failed to unmarshal server message", "error", err.Error())
			continue
		}

		c.dispatch(&msg)
	}
}

func (c *Client) handleDisconnect(conn *ws.Conn, err error) {
	c.mu.Lock()
	if c.conn != conn {
		// Already replaced or torn down by Disconnect.
		c.mu.Unlock()
		return
	}
	c.conn = nil
	a := c.attempt
	c.mu.Unlock()

	if a != nil {
		c.failAttempt(a, fmt.Errorf("%w: %s", ErrControlPlaneClosed, err.Error()))
	}
}

func (c *Client) dispatch(msg *payload.Message) {
	c.mu.Lock()
	a := c.attempt
	c.mu.Unlock()

	if a == nil {
		slog.Warn("message with no active attempt, dropping", slog.String("type", string(msg.Type)))
		return
	}

	switch msg.Type {
	case payload.MessageTypeCreated, payload.MessageTypeJoined, payload.MessageTypeError:
		if a.awaiting.Load() {
			select {
			case a.replies() <- msg:
			default:
				slog.Warn("reply queue full, dropping", slog.String("type", string(msg.Type)))
			}
			return
		}

		if msg.Type == payload.MessageTypeError {
			var resp payload.ErrorResponse
			if err := json.Unmarshal(msg.Data, &resp); err != nil {
				return
			}
			c.failAttempt(a, wireError(resp))
		}

	case payload.MessageTypePeerJoined:
		if a.Role() != payload.RoleInitiator {
			slog.Warn("peerJoined received by joiner, dropping")
			return
		}
		a.submit(func() {
			c.startOffering(a)
		})

	case payload.MessageTypeSignal:
		var event payload.SignalEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			slog.Warn("malformed signal event, dropping", "error", err.Error())
			return
		}
		a.submit(func() {
			c.handleSignal(a, event)
		})

	case payload.MessageTypePeerDisconnected:
		c.failAttempt(a, ErrPeerDisconnected)

	default:
		slog.Warn("unknown message type, dropping", slog.String("type", string(msg.Type)))
	}
}

// startOffering runs on the initiator when the joiner pairs: create the
// channel, produce the offer, relay it. A duplicate peerJoined never
// produces a second offer.
func (c *Client) startOffering(a *attempt) {
	if !a.offered.CompareAndSwap(false, true) {
		slog.Warn("duplicate peerJoined, offer already sent", slog.String("code", a.Code()))
		return
	}

	neg, err := c.buildNegotiator(a)
	if err != nil {
		c.failAttempt(a, err)
		return
	}

	dc, err := neg.CreateDataChannel(c.options.DataChannelLabel)
	if err != nil {
		c.failAttempt(a, err)
		return
	}
	a.setDataChannel(dc)

	dc.OnOpen(func() {
		c.channelReady(a, dc)
	})

	offer, err := neg.CreateOffer()
	if err != nil {
		c.failAttempt(a, err)
		return
	}

	signal, err := payload.NewOfferSignal(offer)
	if err != nil {
		c.failAttempt(a, err)
		return
	}

	c.relaySignal(a, signal)
}

// handleSignal applies one relayed negotiation payload. Signals that are
// inconsistent with the current role or state are protocol anomalies:
// they are logged and dropped, never fatal.
func (c *Client) handleSignal(a *attempt, event payload.SignalEvent) {
	var sig payload.Signal
	if err := json.Unmarshal(event.Signal, &sig); err != nil {
		slog.Warn("unparseable signal payload, dropping", "error", err.Error())
		return
	}

	neg := a.negotiator()
	if neg == nil {
		slog.Warn("signal before negotiation started, dropping", slog.String("kind", string(sig.Kind)))
		return
	}

	switch sig.Kind {
	case payload.SignalKindOffer:
		if a.Role() != payload.RoleJoiner || sig.SDP == nil {
			slog.Warn("offer inconsistent with role, dropping", slog.String("role", string(a.Role())))
			return
		}
		if !a.answered.CompareAndSwap(false, true) {
			slog.Warn("duplicate offer, answer already sent", slog.String("code", a.Code()))
			return
		}

		answer, err := neg.CreateAnswer(*sig.SDP)
		if err != nil {
			c.failAttempt(a, err)
			return
		}

		signal, err := payload.NewAnswerSignal(answer)
		if err != nil {
			c.failAttempt(a, err)
			return
		}

		c.relaySignal(a, signal)

	case payload.SignalKindAnswer:
		if a.Role() != payload.RoleInitiator || sig.SDP == nil {
			slog.Warn("answer inconsistent with role, dropping", slog.String("role", string(a.Role())))
			return
		}
		if !a.applied.CompareAndSwap(false, true) {
			slog.Warn("duplicate answer, dropping", slog.String("code", a.Code()))
			return
		}

		if err := neg.SetRemoteDescription(*sig.SDP); err != nil {
			c.failAttempt(a, err)
			return
		}

	case payload.SignalKindCandidate:
		if sig.Candidate == nil {
			slog.Warn("candidate signal without candidate, dropping")
			return
		}

		if err := neg.AddICECandidate(*sig.Candidate); err != nil {
			slog.Warn("failed to add remote candidate", "error", err.Error())
		}

	default:
		slog.Warn("unknown signal kind, dropping", slog.String("kind", string(sig.Kind)))
	}
}

// buildNegotiator constructs the per-attempt negotiation object and
// wires candidate relay and failure reporting.
func (c *Client) buildNegotiator(a *attempt) (Negotiator, error) {
	neg, err := c.options.Negotiator()
	if err != nil {
		return nil, err
	}
	a.setNegotiator(neg)

	neg.OnICECandidate(func(candidate webrtc.ICECandidateInit) {
		// Eager relay, one message per candidate.
		signal, err := payload.NewCandidateSignal(candidate)
		if err != nil {
			return
		}
		c.relaySignal(a, signal)
	})

	debounced := debounce.New(failureDebounce)
	neg.OnConnectionStateChange(func(state webrtc.PeerConnectionState) {
		switch state {
		case webrtc.PeerConnectionStateFailed:
			debounced(func() {
				c.failAttempt(a, ErrConnectionFailed)
			})
		case webrtc.PeerConnectionStateConnected:
			debounced(func() {})
		}
	})

	return neg, nil
}

func (c *Client) relaySignal(a *attempt, signal json.RawMessage) {
	code := a.Code()
	if code == "" {
		return
	}

	msg, err := payload.NewSignalRequestMessage(code, a.Role(), a.Role().Opposite(), signal)
	if err != nil {
		return
	}

	if err := c.send(msg); err != nil {
		slog.Warn("failed to relay signal", slog.String("code", code), "error", err.Error())
	}
}

func (c *Client) channelReady(a *attempt, dc DataChannel) {
	a.readyOnce.Do(func() {
		slog.Info("data channel open",
			slog.String("code", a.Code()),
			slog.String("label", dc.Label()),
		)

		if c.onChannelReady != nil {
			c.onChannelReady(dc)
		}
	})
}

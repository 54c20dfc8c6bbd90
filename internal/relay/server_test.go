package relay_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/HMasataka/rally/internal/relay"
	"github.com/HMasataka/rally/payload/match"
	ws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPeer struct {
	t    *testing.T
	conn *ws.Conn
}

func newTestServer(t *testing.T) (*relay.Server, *httptest.Server) {
	t.Helper()

	s := relay.NewServer(relay.DefaultConfig())

	ts := httptest.NewServer(http.HandlerFunc(s.HandleWebSocket))
	t.Cleanup(ts.Close)

	return s, ts
}

func dialTestPeer(t *testing.T, ts *httptest.Server) *testPeer {
	t.Helper()

	url := "ws" + strings.TrimPrefix(ts.URL, "http")

	conn, _, err := ws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return &testPeer{t: t, conn: conn}
}

func (p *testPeer) send(msg *match.Message) {
	p.t.Helper()
	require.NoError(p.t, p.conn.WriteJSON(msg))
}

func (p *testPeer) sendRaw(frame string) {
	p.t.Helper()
	require.NoError(p.t, p.conn.WriteMessage(ws.TextMessage, []byte(frame)))
}

func (p *testPeer) read() *match.Message {
	p.t.Helper()

	require.NoError(p.t, p.conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var msg match.Message
	require.NoError(p.t, p.conn.ReadJSON(&msg))

	return &msg
}

func (p *testPeer) create() string {
	p.t.Helper()

	msg, err := match.NewCreateMessage()
	require.NoError(p.t, err)
	p.send(msg)

	reply := p.read()
	require.Equal(p.t, match.MessageTypeCreated, reply.Type)

	var created match.CreatedResponse
	require.NoError(p.t, json.Unmarshal(reply.Data, &created))

	return created.Code
}

func (p *testPeer) join(code string) {
	p.t.Helper()

	msg, err := match.NewJoinMessage(code)
	require.NoError(p.t, err)
	p.send(msg)

	reply := p.read()
	require.Equal(p.t, match.MessageTypeJoined, reply.Type)
}

func errorResponse(t *testing.T, msg *match.Message) match.ErrorResponse {
	t.Helper()

	require.Equal(t, match.MessageTypeError, msg.Type)

	var resp match.ErrorResponse
	require.NoError(t, json.Unmarshal(msg.Data, &resp))

	return resp
}

func TestServer_CreateAndJoin(t *testing.T) {
	s, ts := newTestServer(t)

	initiator := dialTestPeer(t, ts)
	joiner := dialTestPeer(t, ts)

	code := initiator.create()
	assert.Len(t, code, relay.DefaultCodeLength)
	assert.Equal(t, 1, s.Registry().Len())

	joiner.join(code)

	notification := initiator.read()
	assert.Equal(t, match.MessageTypePeerJoined, notification.Type)
}

func TestServer_SignalRelay(t *testing.T) {
	_, ts := newTestServer(t)

	initiator := dialTestPeer(t, ts)
	joiner := dialTestPeer(t, ts)

	code := initiator.create()
	joiner.join(code)
	require.Equal(t, match.MessageTypePeerJoined, initiator.read().Type)

	payload := json.RawMessage(`{"kind":"offer","sdp":{"type":"offer","sdp":"v=0\r\n"}}`)

	msg, err := match.NewSignalRequestMessage(code, match.RoleInitiator, match.RoleJoiner, payload)
	require.NoError(t, err)
	initiator.send(msg)

	delivered := joiner.read()
	require.Equal(t, match.MessageTypeSignal, delivered.Type)

	var event match.SignalEvent
	require.NoError(t, json.Unmarshal(delivered.Data, &event))
	assert.Equal(t, match.RoleInitiator, event.From)
	assert.JSONEq(t, string(payload), string(event.Signal))

	// 逆方向も同じ経路で届く。
	answer := json.RawMessage(`{"kind":"answer","sdp":{"type":"answer","sdp":"v=0\r\n"}}`)

	msg, err = match.NewSignalRequestMessage(code, match.RoleJoiner, match.RoleInitiator, answer)
	require.NoError(t, err)
	joiner.send(msg)

	delivered = initiator.read()
	require.Equal(t, match.MessageTypeSignal, delivered.Type)
	require.NoError(t, json.Unmarshal(delivered.Data, &event))
	assert.Equal(t, match.RoleJoiner, event.From)
	assert.JSONEq(t, string(answer), string(event.Signal))
}

func TestServer_PeerDisconnected(t *testing.T) {
	s, ts := newTestServer(t)

	initiator := dialTestPeer(t, ts)
	joiner := dialTestPeer(t, ts)

	code := initiator.create()
	joiner.join(code)
	require.Equal(t, match.MessageTypePeerJoined, initiator.read().Type)

	require.NoError(t, joiner.conn.Close())

	notification := initiator.read()
	assert.Equal(t, match.MessageTypePeerDisconnected, notification.Type)

	assert.Eventually(t, func() bool {
		return s.Registry().Len() == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestDefaultConfig_Heartbeat(t *testing.T) {
	config := relay.DefaultConfig()

	// A silent peer is dropped within one probe cycle: the pong wait
	// exceeds the ping interval only by write slack.
	assert.Greater(t, config.Heartbeat.PongWaitSeconds, config.Heartbeat.IntervalSeconds)
	assert.LessOrEqual(t, config.Heartbeat.PongWaitSeconds, 2*config.Heartbeat.IntervalSeconds)
}

func TestServer_ErrorFrames(t *testing.T) {
	t.Run("未知のコードへの参加はmatch_not_found", func(t *testing.T) {
		_, ts := newTestServer(t)
		peer := dialTestPeer(t, ts)

		msg, err := match.NewJoinMessage("ZZZZZZ")
		require.NoError(t, err)
		peer.send(msg)

		resp := errorResponse(t, peer.read())
		assert.Equal(t, match.ErrorCodeMatchNotFound, resp.Code)
	})

	t.Run("満員のマッチへの参加はmatch_full", func(t *testing.T) {
		_, ts := newTestServer(t)

		initiator := dialTestPeer(t, ts)
		joiner := dialTestPeer(t, ts)
		third := dialTestPeer(t, ts)

		code := initiator.create()
		joiner.join(code)

		msg, err := match.NewJoinMessage(code)
		require.NoError(t, err)
		third.send(msg)

		resp := errorResponse(t, third.read())
		assert.Equal(t, match.ErrorCodeMatchFull, resp.Code)
	})

	t.Run("自分のマッチへの参加はself_join", func(t *testing.T) {
		_, ts := newTestServer(t)
		peer := dialTestPeer(t, ts)

		code := peer.create()

		msg, err := match.NewJoinMessage(code)
		require.NoError(t, err)
		peer.send(msg)

		resp := errorResponse(t, peer.read())
		assert.Equal(t, match.ErrorCodeSelfJoin, resp.Code)
	})

	t.Run("相手不在のsignalはtarget_unavailable", func(t *testing.T) {
		_, ts := newTestServer(t)
		peer := dialTestPeer(t, ts)

		code := peer.create()

		msg, err := match.NewSignalRequestMessage(code, match.RoleInitiator, match.RoleJoiner, json.RawMessage(`{}`))
		require.NoError(t, err)
		peer.send(msg)

		resp := errorResponse(t, peer.read())
		assert.Equal(t, match.ErrorCodeTargetUnavailable, resp.Code)
	})

	t.Run("壊れたフレームはmalformed_requestで接続は維持される", func(t *testing.T) {
		_, ts := newTestServer(t)
		peer := dialTestPeer(t, ts)

		peer.sendRaw("{not json")

		resp := errorResponse(t, peer.read())
		assert.Equal(t, match.ErrorCodeMalformedRequest, resp.Code)

		// エラー後も同じ接続でマッチを作成できる。
		code := peer.create()
		assert.NotEmpty(t, code)
	})

	t.Run("未知のメッセージ型はmalformed_request", func(t *testing.T) {
		_, ts := newTestServer(t)
		peer := dialTestPeer(t, ts)

		msg, err := match.NewMessage("dance", nil)
		require.NoError(t, err)
		peer.send(msg)

		resp := errorResponse(t, peer.read())
		assert.Equal(t, match.ErrorCodeMalformedRequest, resp.Code)
	})
}

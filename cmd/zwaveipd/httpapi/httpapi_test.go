package httpapi

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gozwave/zwaveip/app"
	"github.com/gozwave/zwaveip/frame"
	"github.com/gozwave/zwaveip/gateway"
	"github.com/gozwave/zwaveip/transport"
)

type loopbackConn struct {
	respond func(msg frame.Message) frame.Message
	cb      transport.Callback
}

func (c *loopbackConn) Send(b []byte) error {
	msg, err := frame.Decode(b)
	if err != nil {
		return err
	}
	packet, ok := msg.(*frame.ZipPacket)
	if !ok {
		return nil
	}
	go func() {
		ack := &frame.ZipPacket{AckResponse: true, SeqNo: packet.SeqNo}
		raw, _ := frame.Compose(ack)
		c.cb(raw, nil)
		if packet.Command == nil || c.respond == nil {
			return
		}
		reply := c.respond(packet.Command)
		if reply == nil {
			return
		}
		replyPacket := &frame.ZipPacket{SourceEP: packet.DestEP, DestEP: packet.SourceEP, Command: reply}
		raw, _ = frame.Compose(replyPacket)
		c.cb(raw, nil)
	}()
	return nil
}

func (c *loopbackConn) SendTo(b []byte, _ net.Addr) error { return c.Send(b) }
func (c *loopbackConn) Stop() error                       { return nil }
func (c *loopbackConn) LocalAddr() net.Addr               { return nil }

func newTestApp(t *testing.T) *app.Application {
	t.Helper()
	conn := &loopbackConn{respond: func(msg frame.Message) frame.Message {
		if _, ok := msg.(*frame.NodeListGet); ok {
			return &frame.NodeListReport{NodeListControllerID: 1, Nodes: map[byte]bool{}}
		}
		return nil
	}}
	tr, err := transport.New(conn, transport.DefaultConfig(), nil)
	require.NoError(t, err)
	conn.cb = tr.HandleDatagram
	gw := gateway.New(tr, nil, nil, nil)
	a := app.New(gw)
	require.NoError(t, a.Startup())
	return a
}

func TestHealthzReturnsOK(t *testing.T) {
	router := NewRouter(newTestApp(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestNodesReturnsEmptyListWhenNoNodes(t *testing.T) {
	router := NewRouter(newTestApp(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nodes", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "[]", rec.Body.String())
}

func TestNodeByIDReturnsNotFoundForUnknownNode(t *testing.T) {
	router := NewRouter(newTestApp(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nodes/9", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNodeByIDRejectsNonNumericID(t *testing.T) {
	router := NewRouter(newTestApp(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nodes/notanumber", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetricsEndpointServesPrometheusFormat(t *testing.T) {
	router := NewRouter(newTestApp(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

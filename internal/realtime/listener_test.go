package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	wire "crm-gateway/pkg/models"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var upgrader = websocket.Upgrader{}

type evento struct {
	correoID string
	estado   string
}

func feedServer(t *testing.T, conexiones *int32, eventos []wire.DeliveryEvent) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		atomic.AddInt32(conexiones, 1)
		for _, ev := range eventos {
			if err := conn.WriteJSON(ev); err != nil {
				break
			}
		}
		conn.Close()
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestListenerFiltraOtrosTratos(t *testing.T) {
	var conexiones int32
	srv := feedServer(t, &conexiones, []wire.DeliveryEvent{
		{TratoID: 2, CorreoID: "ajeno", Estado: "ENTREGADO"},
		{TratoID: 1, CorreoID: "mio", Estado: "REBOTADO"},
	})
	defer srv.Close()

	recibidos := make(chan evento, 4)
	l := NewListener(wsURL(srv), 1, func(correoID, estado string) {
		recibidos <- evento{correoID, estado}
	})
	l.retry = time.Hour // no reconnect during the test
	l.Activate()
	defer l.Deactivate()

	select {
	case ev := <-recibidos:
		assert.Equal(t, "mio", ev.correoID)
		assert.Equal(t, "REBOTADO", ev.estado)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout esperando el evento")
	}

	select {
	case ev := <-recibidos:
		t.Fatalf("evento de otro trato entregado: %+v", ev)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestListenerReconecta(t *testing.T) {
	var conexiones int32
	srv := feedServer(t, &conexiones, []wire.DeliveryEvent{
		{TratoID: 1, CorreoID: "a", Estado: "ENTREGADO"},
	})
	defer srv.Close()

	recibidos := make(chan evento, 8)
	l := NewListener(wsURL(srv), 1, func(correoID, estado string) {
		recibidos <- evento{correoID, estado}
	})
	l.retry = 20 * time.Millisecond
	l.Activate()
	defer l.Deactivate()

	// The server drops every connection after one event, so a second delivery
	// proves the listener reconnected.
	for i := 0; i < 2; i++ {
		select {
		case <-recibidos:
		case <-time.After(2 * time.Second):
			t.Fatal("timeout esperando la reconexión")
		}
	}
	require.GreaterOrEqual(t, atomic.LoadInt32(&conexiones), int32(2))
}

func TestActivateEsIdempotente(t *testing.T) {
	var conexiones int32
	srv := feedServer(t, &conexiones, nil)
	defer srv.Close()

	l := NewListener(wsURL(srv), 1, func(string, string) {})
	l.retry = time.Hour
	l.Activate()
	l.Activate()
	defer l.Deactivate()

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&conexiones))
}

func TestDeactivateDetieneReintentos(t *testing.T) {
	var conexiones int32
	srv := feedServer(t, &conexiones, nil)
	defer srv.Close()

	l := NewListener(wsURL(srv), 1, func(string, string) {})
	l.retry = 20 * time.Millisecond
	l.Activate()
	time.Sleep(100 * time.Millisecond)
	l.Deactivate()
	time.Sleep(50 * time.Millisecond)

	antes := atomic.LoadInt32(&conexiones)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, antes, atomic.LoadInt32(&conexiones))
}

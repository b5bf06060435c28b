package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"crm-gateway/pkg/models"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, srv *httptest.Server, trato string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?trato=" + trato
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func TestHubEntregaSoloAlTratoSuscrito(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	defer srv.Close()

	mio := dial(t, srv, "1")
	defer mio.Close()
	ajeno := dial(t, srv, "2")
	defer ajeno.Close()

	// Give both registrations time to land before broadcasting.
	time.Sleep(50 * time.Millisecond)

	hub.NotifyDelivery(models.DeliveryEvent{TratoID: 1, CorreoID: "abc", Estado: "ENTREGADO"})

	mio.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := mio.ReadMessage()
	require.NoError(t, err)

	var ev struct {
		Type string               `json:"type"`
		Data models.DeliveryEvent `json:"data"`
	}
	require.NoError(t, json.Unmarshal(payload, &ev))
	assert.Equal(t, "correo_estado", ev.Type)
	assert.Equal(t, "abc", ev.Data.CorreoID)
	assert.Equal(t, "ENTREGADO", ev.Data.Estado)

	ajeno.SetReadDeadline(time.Now().Add(150 * time.Millisecond))
	_, _, err = ajeno.ReadMessage()
	assert.Error(t, err, "el cliente de otro trato no debe recibir el evento")
}

func TestServeWsRequiereTrato(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

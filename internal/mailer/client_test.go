package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnviar(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/correos", r.URL.Path)
		assert.Equal(t, "Bearer secreto", r.Header.Get("Authorization"))

		var e Envio
		require.NoError(t, json.NewDecoder(r.Body).Decode(&e))
		assert.Equal(t, []string{"marta@acme.mx"}, e.Destinatarios)
		assert.Equal(t, "Propuesta", e.Asunto)

		w.Write([]byte(`{"id":"msg-1"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secreto")
	id, err := c.Enviar(context.Background(), Envio{
		Destinatarios: []string{"marta@acme.mx"},
		Asunto:        "Propuesta",
		Cuerpo:        "<p>Hola</p>",
	})
	require.NoError(t, err)
	assert.Equal(t, "msg-1", id)
}

func TestEnviarErrorDelProveedor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quota"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.Enviar(context.Background(), Envio{Destinatarios: []string{"x@y.z"}})
	assert.Error(t, err)
}

func TestNotificarReunionVariantes(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	require.NoError(t, c.NotificarReunion(context.Background(), AvisoReunion{Para: "x@y.z"}, false))
	require.NoError(t, c.NotificarReunion(context.Background(), AvisoReunion{Para: "x@y.z"}, true))
	assert.Equal(t, []string{"/api/notificaciones/reunion", "/api/notificaciones/reunion-reprogramada"}, paths)
}

func TestSubirAdjunto(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/adjuntos", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "contrato.pdf", header.Filename)
		assert.Equal(t, "application/pdf", r.FormValue("mime_type"))

		w.Write([]byte(`{"url":"https://cdn.example.com/contrato.pdf"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	url, err := c.SubirAdjunto(context.Background(), []byte("%PDF"), "application/pdf", "contrato.pdf")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/contrato.pdf", url)
}

package webhook

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"crm-gateway/internal/config"
	"crm-gateway/internal/database"
	"crm-gateway/internal/models"
	"crm-gateway/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestHandler(t *testing.T) (*Handler, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	hub := ws.NewHub()
	go hub.Run()

	cfg := &config.Config{WebhookToken: "verificame"}
	return NewHandler(cfg, db, hub), db
}

func newRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/webhook", h.VerifyWebhook)
	r.POST("/webhook", h.HandleDelivery)
	return r
}

func TestVerifyWebhook(t *testing.T) {
	h, _ := newTestHandler(t)
	r := newRouter(h)

	t.Run("token correcto", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/webhook?hub.mode=subscribe&hub.verify_token=verificame&hub.challenge=reto123", nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "reto123", w.Body.String())
	})

	t.Run("token incorrecto", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/webhook?hub.mode=subscribe&hub.verify_token=otro&hub.challenge=reto123", nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("sin parametros", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/webhook", nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleDeliveryActualizaRegistro(t *testing.T) {
	h, db := newTestHandler(t)
	r := newRouter(h)

	registro := models.CorreoRegistro{ID: "abc-123", TratoID: 7, Asunto: "Propuesta", Estado: models.CorreoEnviado}
	require.NoError(t, db.Create(&registro).Error)

	w := httptest.NewRecorder()
	body := bytes.NewBufferString(`{"trato_id":7,"correo_id":"abc-123","estado":"ENTREGADO"}`)
	req := httptest.NewRequest("POST", "/webhook", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var actualizado models.CorreoRegistro
	require.NoError(t, db.First(&actualizado, "id = ?", "abc-123").Error)
	assert.Equal(t, models.CorreoEntregado, actualizado.Estado)
}

func TestHandleDeliveryCorreoDesconocido(t *testing.T) {
	h, _ := newTestHandler(t)
	r := newRouter(h)

	w := httptest.NewRecorder()
	body := bytes.NewBufferString(`{"trato_id":7,"correo_id":"no-existe","estado":"REBOTADO"}`)
	req := httptest.NewRequest("POST", "/webhook", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	// Acknowledged so the provider stops retrying.
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandleDeliveryEstadoInvalido(t *testing.T) {
	h, db := newTestHandler(t)
	r := newRouter(h)

	registro := models.CorreoRegistro{ID: "abc-456", TratoID: 7, Estado: models.CorreoEnviado}
	require.NoError(t, db.Create(&registro).Error)

	w := httptest.NewRecorder()
	body := bytes.NewBufferString(`{"trato_id":7,"correo_id":"abc-456","estado":"LEIDO"}`)
	req := httptest.NewRequest("POST", "/webhook", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var registro2 models.CorreoRegistro
	require.NoError(t, db.First(&registro2, "id = ?", "abc-456").Error)
	assert.Equal(t, models.CorreoEnviado, registro2.Estado)
}

func TestHandleDeliveryTratoEquivocado(t *testing.T) {
	h, db := newTestHandler(t)
	r := newRouter(h)

	registro := models.CorreoRegistro{ID: "abc-789", TratoID: 7, Estado: models.CorreoEnviado}
	require.NoError(t, db.Create(&registro).Error)

	w := httptest.NewRecorder()
	body := bytes.NewBufferString(`{"trato_id":99,"correo_id":"abc-789","estado":"ENTREGADO"}`)
	req := httptest.NewRequest("POST", "/webhook", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var registro2 models.CorreoRegistro
	require.NoError(t, db.First(&registro2, "id = ?", "abc-789").Error)
	assert.Equal(t, models.CorreoEnviado, registro2.Estado, "un trato ajeno no debe tocar el registro")
}

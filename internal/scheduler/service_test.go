package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"crm-gateway/internal/database"
	"crm-gateway/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubChecker struct {
	conflicto bool
	err       error
	llamadas  int
}

func (s *stubChecker) HayConflicto(ctx context.Context, q Conflicto) (bool, error) {
	s.llamadas++
	return s.conflicto, s.err
}

func newTestService(t *testing.T, checker ConflictChecker) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	svc := NewService(db, checker)
	svc.now = func() time.Time { return ahora }
	return svc
}

func TestProgramarValidacionFallaSinConsultarAgenda(t *testing.T) {
	checker := &stubChecker{}
	svc := newTestService(t, checker)

	req := solicitudLlamada()
	req.Fecha = "2026-03-01"
	_, err := svc.Programar(context.Background(), req)

	var errs FieldErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs, "fecha")
	assert.Zero(t, checker.llamadas, "la agenda no debe consultarse con datos inválidos")
}

func TestProgramarConflictoBloquea(t *testing.T) {
	svc := newTestService(t, &stubChecker{conflicto: true})

	_, err := svc.Programar(context.Background(), solicitudLlamada())
	assert.ErrorIs(t, err, ErrConflictoAgenda)

	abiertas, err := svc.Abiertas(context.Background(), 1, models.TipoLlamada)
	require.NoError(t, err)
	assert.Empty(t, abiertas)
}

func TestProgramarAgendaCaidaNoBloquea(t *testing.T) {
	svc := newTestService(t, &stubChecker{err: errors.New("connection refused")})

	act, err := svc.Programar(context.Background(), solicitudLlamada())
	require.NoError(t, err)
	assert.Equal(t, models.EstadoAbierta, act.Estado)
	assert.NotZero(t, act.ID)
}

func TestProgramarReunionVirtualGeneraEnlace(t *testing.T) {
	svc := newTestService(t, &stubChecker{})

	req := solicitudLlamada()
	req.Tipo = models.TipoReunion
	req.Duracion = 60
	req.Modalidad = models.ModalidadVirtual
	req.Canal = models.CanalMeet
	req.Lugar = "esto se ignora"

	act, err := svc.Programar(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "https://meet.google.com/new", act.Enlace)
	assert.Empty(t, act.Lugar)
}

func TestProgramarReunionPresencialSinEnlace(t *testing.T) {
	svc := newTestService(t, &stubChecker{})

	req := solicitudLlamada()
	req.Tipo = models.TipoReunion
	req.Duracion = 30
	req.Modalidad = models.ModalidadPresencial
	req.Lugar = "Sala 2"

	act, err := svc.Programar(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Sala 2", act.Lugar)
	assert.Empty(t, act.Enlace)
	assert.Empty(t, act.Canal)
}

func TestReprogramarMantieneIdentidad(t *testing.T) {
	svc := newTestService(t, &stubChecker{})

	act, err := svc.Programar(context.Background(), solicitudLlamada())
	require.NoError(t, err)

	req := solicitudLlamada()
	req.Fecha = "2026-03-20"
	req.Hora = "16:00"
	nuevo, err := svc.Reprogramar(context.Background(), act.ID, req)
	require.NoError(t, err)

	assert.Equal(t, act.ID, nuevo.ID)
	assert.Equal(t, models.EstadoReprogramada, nuevo.Estado)
	assert.Equal(t, "2026-03-20", nuevo.Fecha)
	assert.Equal(t, "16:00", nuevo.Hora)
}

func TestReprogramarCompletadaRechazada(t *testing.T) {
	svc := newTestService(t, &stubChecker{})

	act, err := svc.Programar(context.Background(), solicitudLlamada())
	require.NoError(t, err)
	_, err = svc.Completar(context.Background(), act.ID, Desenlace{Respuesta: "SI"})
	require.NoError(t, err)

	_, err = svc.Reprogramar(context.Background(), act.ID, solicitudLlamada())
	assert.ErrorIs(t, err, ErrActividadCerrada)
}

func TestCompletarMueveAlHistorial(t *testing.T) {
	svc := newTestService(t, &stubChecker{})

	req := solicitudLlamada()
	req.Tipo = models.TipoReunion
	req.Duracion = 60
	req.Modalidad = models.ModalidadVirtual
	req.Canal = models.CanalZoom
	act, err := svc.Programar(context.Background(), req)
	require.NoError(t, err)

	interaccion, err := svc.Completar(context.Background(), act.ID, Desenlace{
		Respuesta: "SI",
		Interes:   "ALTO",
	})
	require.NoError(t, err)
	assert.Equal(t, ResultadoPositivo, interaccion.Resultado)
	assert.Equal(t, models.ModalidadPresencial, interaccion.Medio)
	assert.Equal(t, act.ID, interaccion.ActividadID)

	abiertas, err := svc.Abiertas(context.Background(), 1, models.TipoReunion)
	require.NoError(t, err)
	assert.Empty(t, abiertas)

	historial, err := svc.Historial(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, historial, 1)
	assert.Equal(t, interaccion.ID, historial[0].ID)
}

func TestCompletarDosVecesRechazado(t *testing.T) {
	svc := newTestService(t, &stubChecker{})

	act, err := svc.Programar(context.Background(), solicitudLlamada())
	require.NoError(t, err)
	_, err = svc.Completar(context.Background(), act.ID, Desenlace{Respuesta: "NO"})
	require.NoError(t, err)

	_, err = svc.Completar(context.Background(), act.ID, Desenlace{Respuesta: "SI"})
	assert.ErrorIs(t, err, ErrActividadCerrada)
}

func TestEditarInteraccionCorrigeResultado(t *testing.T) {
	svc := newTestService(t, &stubChecker{})

	act, err := svc.Programar(context.Background(), solicitudLlamada())
	require.NoError(t, err)
	interaccion, err := svc.Completar(context.Background(), act.ID, Desenlace{Respuesta: "SI"})
	require.NoError(t, err)

	editada, err := svc.EditarInteraccion(context.Background(), interaccion.ID, Desenlace{
		Respuesta: "NO",
		Notas:     "El cliente se retractó",
	})
	require.NoError(t, err)
	assert.Equal(t, interaccion.ID, editada.ID)
	assert.Equal(t, ResultadoNegativo, editada.Resultado)
	assert.Equal(t, "El cliente se retractó", editada.Notas)
}

func TestEliminarNoExiste(t *testing.T) {
	svc := newTestService(t, &stubChecker{})
	err := svc.Eliminar(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNoEncontrada)
}

func TestAbiertasOrdenadasPorFechaHora(t *testing.T) {
	svc := newTestService(t, &stubChecker{})

	tarde := solicitudLlamada()
	tarde.Fecha = "2026-03-12"
	tarde.Hora = "18:00"
	_, err := svc.Programar(context.Background(), tarde)
	require.NoError(t, err)

	temprano := solicitudLlamada()
	temprano.Fecha = "2026-03-12"
	temprano.Hora = "08:00"
	_, err = svc.Programar(context.Background(), temprano)
	require.NoError(t, err)

	abiertas, err := svc.Abiertas(context.Background(), 1, models.TipoLlamada)
	require.NoError(t, err)
	require.Len(t, abiertas, 2)
	assert.Equal(t, "08:00", abiertas[0].Hora)
	assert.Equal(t, "18:00", abiertas[1].Hora)
}

package scheduler

import (
	"context"
	"errors"
	"log"
	"time"

	"crm-gateway/internal/models"

	"gorm.io/gorm"
)

var (
	// ErrConflictoAgenda blocks submission when the agenda reports a collision
	// for the same assignee, date and time.
	ErrConflictoAgenda = errors.New("el asignado ya tiene una actividad en ese horario")

	// ErrActividadCerrada rejects lifecycle operations on a completed activity.
	ErrActividadCerrada = errors.New("la actividad ya fue completada")

	ErrNoEncontrada = errors.New("actividad no encontrada")
)

// Service owns the activity lifecycle: schedule, reschedule, complete, edit
// the resulting interaction, delete.
type Service struct {
	db      *gorm.DB
	checker ConflictChecker
	now     func() time.Time
}

func NewService(db *gorm.DB, checker ConflictChecker) *Service {
	return &Service{db: db, checker: checker, now: time.Now}
}

// Programar validates and creates a new activity. Validation failures return
// before any conflict query is issued. A conflict-check transport failure is
// logged and treated as no conflict: the agenda answer is advisory and must
// never hard-block the user.
func (s *Service) Programar(ctx context.Context, req Solicitud) (*models.Actividad, error) {
	if errs := Validar(req, s.now()); len(errs) > 0 {
		return nil, errs
	}
	if err := s.verificarConflicto(ctx, req); err != nil {
		return nil, err
	}

	act := s.construir(req)
	act.Estado = models.EstadoAbierta
	if err := s.db.WithContext(ctx).Create(act).Error; err != nil {
		return nil, err
	}
	return act, nil
}

// Reprogramar re-validates and updates an existing open activity in place,
// keeping its identity. The activity moves to REPROGRAMADA.
func (s *Service) Reprogramar(ctx context.Context, id uint, req Solicitud) (*models.Actividad, error) {
	var act models.Actividad
	if err := s.db.WithContext(ctx).First(&act, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoEncontrada
		}
		return nil, err
	}
	if act.Estado == models.EstadoCompletada {
		return nil, ErrActividadCerrada
	}

	if errs := Validar(req, s.now()); len(errs) > 0 {
		return nil, errs
	}
	if err := s.verificarConflicto(ctx, req); err != nil {
		return nil, err
	}

	nuevo := s.construir(req)
	nuevo.ID = act.ID
	nuevo.Estado = models.EstadoReprogramada
	nuevo.CreatedAt = act.CreatedAt
	if err := s.db.WithContext(ctx).Save(nuevo).Error; err != nil {
		return nil, err
	}
	return nuevo, nil
}

// Completar closes an open activity and folds it into the interaction
// history. Both writes happen in one transaction so a failure applies nothing.
func (s *Service) Completar(ctx context.Context, id uint, d Desenlace) (*models.Interaccion, error) {
	var act models.Actividad
	if err := s.db.WithContext(ctx).First(&act, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoEncontrada
		}
		return nil, err
	}
	if act.Estado == models.EstadoCompletada {
		return nil, ErrActividadCerrada
	}

	mapped := Mapear(act.Tipo, d)
	interaccion := models.Interaccion{
		TratoID:     act.TratoID,
		ActividadID: act.ID,
		Tipo:        act.Tipo,
	}
	aplicarDesenlace(&interaccion, mapped)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&act).Update("estado", models.EstadoCompletada).Error; err != nil {
			return err
		}
		return tx.Create(&interaccion).Error
	})
	if err != nil {
		return nil, err
	}
	return &interaccion, nil
}

// EditarInteraccion corrects a historical record in place. The record never
// re-enters the scheduling lifecycle; only its outcome fields change.
func (s *Service) EditarInteraccion(ctx context.Context, id uint, d Desenlace) (*models.Interaccion, error) {
	var in models.Interaccion
	if err := s.db.WithContext(ctx).First(&in, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoEncontrada
		}
		return nil, err
	}

	aplicarDesenlace(&in, Mapear(in.Tipo, d))
	if err := s.db.WithContext(ctx).Save(&in).Error; err != nil {
		return nil, err
	}
	return &in, nil
}

// Eliminar removes an open activity without producing an interaction.
func (s *Service) Eliminar(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Actividad{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNoEncontrada
	}
	return nil
}

// Abiertas lists the open activities of one kind for a deal.
func (s *Service) Abiertas(ctx context.Context, tratoID uint, tipo string) ([]models.Actividad, error) {
	var acts []models.Actividad
	err := s.db.WithContext(ctx).
		Where("trato_id = ? AND tipo = ? AND estado <> ?", tratoID, tipo, models.EstadoCompletada).
		Order("fecha, hora").
		Find(&acts).Error
	if acts == nil {
		acts = []models.Actividad{}
	}
	return acts, err
}

// Historial lists the interaction history for a deal, newest first.
func (s *Service) Historial(ctx context.Context, tratoID uint) ([]models.Interaccion, error) {
	var hist []models.Interaccion
	err := s.db.WithContext(ctx).
		Where("trato_id = ?", tratoID).
		Order("fecha DESC").
		Find(&hist).Error
	if hist == nil {
		hist = []models.Interaccion{}
	}
	return hist, err
}

func (s *Service) verificarConflicto(ctx context.Context, req Solicitud) error {
	if s.checker == nil {
		return nil
	}
	conflicto, err := s.checker.HayConflicto(ctx, Conflicto{
		AsignadoID: req.AsignadoID,
		Fecha:      req.Fecha,
		Hora:       req.Hora,
		Duracion:   req.Duracion,
	})
	if err != nil {
		// Fail open: an unreachable agenda never blocks scheduling.
		log.Printf("Conflict check failed, proceeding: %v", err)
		return nil
	}
	if conflicto {
		return ErrConflictoAgenda
	}
	return nil
}

func (s *Service) construir(req Solicitud) *models.Actividad {
	act := &models.Actividad{
		TratoID:    req.TratoID,
		Tipo:       req.Tipo,
		AsignadoID: req.AsignadoID,
		ContactoID: req.ContactoID,
		Fecha:      req.Fecha,
		Hora:       req.Hora,
	}
	switch req.Tipo {
	case models.TipoReunion:
		act.Duracion = req.Duracion
		act.Modalidad = req.Modalidad
		if req.Modalidad == models.ModalidadPresencial {
			// A presential meeting keeps the venue and never carries a link.
			act.Lugar = req.Lugar
		} else {
			act.Canal = req.Canal
			act.Enlace = models.EnlaceCanal(req.Canal)
		}
	case models.TipoTarea:
		act.SubTipo = req.SubTipo
		act.FechaLimite = req.FechaLimite
		act.Notas = req.Notas
	}
	return act
}

package scheduler

import (
	"sort"
	"strings"
	"time"

	"crm-gateway/internal/models"
)

// FieldErrors maps a field name to its validation message. It satisfies error
// so a failed validation can travel up the call chain without losing the
// per-field detail.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "campos inválidos: " + strings.Join(fields, ", ")
}

// Solicitud carries the fields of a schedule or reschedule request. Kind
// specific fields are ignored for the other kinds.
type Solicitud struct {
	Tipo       string `json:"tipo"`
	TratoID    uint   `json:"trato_id"`
	AsignadoID uint   `json:"asignado_id"`
	ContactoID uint   `json:"contacto_id"`
	Fecha      string `json:"fecha"` // YYYY-MM-DD
	Hora       string `json:"hora"`  // HH:MM

	// Reunión
	Duracion  int    `json:"duracion"`
	Modalidad string `json:"modalidad"`
	Lugar     string `json:"lugar"`
	Canal     string `json:"canal"`

	// Tarea
	SubTipo     string `json:"sub_tipo"`
	FechaLimite string `json:"fecha_limite"`
	Notas       string `json:"notas"`
}

var duracionesReunion = map[int]bool{30: true, 60: true, 90: true, 120: true, 150: true, 180: true}

const (
	fechaLayout = "2006-01-02"
	horaLayout  = "15:04"
)

// Validar runs every required-field and date/time ordering check locally.
// It never touches the network; the conflict pre-check happens afterwards and
// only when this returns no errors.
func Validar(req Solicitud, now time.Time) FieldErrors {
	errs := FieldErrors{}

	switch req.Tipo {
	case models.TipoLlamada, models.TipoReunion, models.TipoTarea:
	default:
		errs["tipo"] = "tipo de actividad desconocido"
	}

	if req.TratoID == 0 {
		errs["trato_id"] = "el trato es obligatorio"
	}
	if req.ContactoID == 0 {
		errs["contacto_id"] = "el contacto es obligatorio"
	}

	validarFechaHora(errs, req.Fecha, req.Hora, now)

	switch req.Tipo {
	case models.TipoReunion:
		if !duracionesReunion[req.Duracion] {
			errs["duracion"] = "duración no permitida"
		}
		switch req.Modalidad {
		case models.ModalidadPresencial:
			if strings.TrimSpace(req.Lugar) == "" {
				errs["lugar"] = "el lugar es obligatorio para reuniones presenciales"
			}
		case models.ModalidadVirtual:
			if models.EnlaceCanal(req.Canal) == "" {
				errs["canal"] = "canal de reunión desconocido"
			}
		default:
			errs["modalidad"] = "modalidad desconocida"
		}
	case models.TipoTarea:
		switch req.SubTipo {
		case models.SubTipoCorreo, models.SubTipoMensaje, models.SubTipoActividad:
		default:
			errs["sub_tipo"] = "subtipo de tarea desconocido"
		}
		if req.FechaLimite == "" {
			errs["fecha_limite"] = "la fecha límite es obligatoria"
		} else if lim, err := time.ParseInLocation(fechaLayout, req.FechaLimite, now.Location()); err != nil {
			errs["fecha_limite"] = "fecha límite inválida"
		} else if lim.Before(hoy(now)) {
			errs["fecha_limite"] = "la fecha límite no puede ser anterior a hoy"
		}
	}

	return errs
}

// validarFechaHora enforces fecha >= today and, when fecha is today,
// hora >= the current wall clock. A date before today is rejected regardless
// of the time.
func validarFechaHora(errs FieldErrors, fecha, hora string, now time.Time) {
	if fecha == "" {
		errs["fecha"] = "la fecha es obligatoria"
	}
	if hora == "" {
		errs["hora"] = "la hora es obligatoria"
	}
	if len(errs) > 0 && (errs["fecha"] != "" || errs["hora"] != "") {
		return
	}

	f, err := time.ParseInLocation(fechaLayout, fecha, now.Location())
	if err != nil {
		errs["fecha"] = "fecha inválida"
		return
	}
	if _, err := time.Parse(horaLayout, hora); err != nil {
		errs["hora"] = "hora inválida"
		return
	}

	today := hoy(now)
	if f.Before(today) {
		errs["fecha"] = "la fecha no puede ser anterior a hoy"
		return
	}
	if f.Equal(today) && hora < now.Format(horaLayout) {
		errs["hora"] = "la hora ya pasó"
	}
}

func hoy(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

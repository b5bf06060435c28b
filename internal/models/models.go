package models

import (
	"time"
)

// Pipeline phases, in order. A deal is always in exactly one of these.
const (
	FaseProspeccion = "PROSPECCION"
	FaseContacto    = "CONTACTO"
	FasePropuesta   = "PROPUESTA"
	FaseNegociacion = "NEGOCIACION"
	FaseCierre      = "CIERRE"
)

// Fases lists the pipeline phases in pipeline order.
var Fases = []string{FaseProspeccion, FaseContacto, FasePropuesta, FaseNegociacion, FaseCierre}

// ValidFase reports whether fase belongs to the fixed ordered set.
func ValidFase(fase string) bool {
	for _, f := range Fases {
		if f == fase {
			return true
		}
	}
	return false
}

// Activity kinds.
const (
	TipoLlamada = "LLAMADA"
	TipoReunion = "REUNION"
	TipoTarea   = "TAREA"
)

// Activity lifecycle states.
const (
	EstadoAbierta      = "ABIERTA"
	EstadoReprogramada = "REPROGRAMADA"
	EstadoCompletada   = "COMPLETADA"
)

// Meeting modalities.
const (
	ModalidadVirtual    = "VIRTUAL"
	ModalidadPresencial = "PRESENCIAL"
)

// Virtual meeting channels and their fixed links.
const (
	CanalMeet  = "MEET"
	CanalZoom  = "ZOOM"
	CanalTeams = "TEAMS"
)

// EnlaceCanal returns the meeting link for a virtual channel, or "" if the
// channel is unknown.
func EnlaceCanal(canal string) string {
	switch canal {
	case CanalMeet:
		return "https://meet.google.com/new"
	case CanalZoom:
		return "https://zoom.us/start/videomeeting"
	case CanalTeams:
		return "https://teams.microsoft.com/start"
	}
	return ""
}

// Task subtypes.
const (
	SubTipoCorreo    = "Correo"
	SubTipoMensaje   = "Mensaje"
	SubTipoActividad = "Actividad"
)

// Email delivery states. An email record starts as ENVIADO and is patched by
// realtime delivery events.
const (
	CorreoEnviado   = "ENVIADO"
	CorreoEntregado = "ENTREGADO"
	CorreoRebotado  = "REBOTADO"
)

// Usuario is an internal CRM user (deal owner, activity assignee).
type Usuario struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Nombre    string    `gorm:"type:varchar(255);not null" json:"nombre"`
	Email     string    `gorm:"type:varchar(255)" json:"email"`
	Activo    bool      `gorm:"default:true" json:"activo"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Usuario) TableName() string {
	return "usuarios"
}

// Empresa is a customer company.
type Empresa struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Nombre    string    `gorm:"type:varchar(255);not null" json:"nombre"`
	Direccion string    `gorm:"type:text" json:"direccion"`
	Sector    string    `gorm:"type:varchar(100)" json:"sector"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Empresa) TableName() string {
	return "empresas"
}

// Contacto is a person at a customer company.
type Contacto struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EmpresaID uint      `gorm:"index" json:"empresa_id"`
	Nombre    string    `gorm:"type:varchar(255);not null" json:"nombre"`
	Email     string    `gorm:"type:varchar(255)" json:"email"`
	Telefono  string    `gorm:"type:varchar(50)" json:"telefono"`
	Puesto    string    `gorm:"type:varchar(100)" json:"puesto"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Contacto) TableName() string {
	return "contactos"
}

// TieneEmail reports whether the contact is reachable by email.
func (c Contacto) TieneEmail() bool { return c.Email != "" }

// TieneTelefono reports whether the contact is reachable by phone.
func (c Contacto) TieneTelefono() bool { return c.Telefono != "" }

// Trato is a deal in the pipeline.
type Trato struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Nombre        string     `gorm:"type:varchar(255);not null" json:"nombre"`
	PropietarioID uint       `gorm:"index" json:"propietario_id"`
	EmpresaID     uint       `gorm:"index" json:"empresa_id"`
	ContactoID    uint       `gorm:"index" json:"contacto_id"`
	Monto         float64    `json:"monto"`
	Descripcion   string     `gorm:"type:text" json:"descripcion"`
	Fase          string     `gorm:"type:varchar(50);not null" json:"fase"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	CerradoEn     *time.Time `json:"cerrado_en"`
}

func (Trato) TableName() string {
	return "tratos"
}

// Actividad is a scheduled unit of future work on a deal. The three kinds
// share one table, discriminated by Tipo; kind-specific fields are empty for
// the other kinds.
type Actividad struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	TratoID    uint   `gorm:"index;not null" json:"trato_id"`
	Tipo       string `gorm:"type:varchar(20);not null;index" json:"tipo"`
	Estado     string `gorm:"type:varchar(20);not null;default:'ABIERTA'" json:"estado"`
	AsignadoID uint   `gorm:"index" json:"asignado_id"`
	ContactoID uint   `gorm:"index" json:"contacto_id"`
	Fecha      string `gorm:"type:varchar(10)" json:"fecha"` // YYYY-MM-DD
	Hora       string `gorm:"type:varchar(5)" json:"hora"`   // HH:MM

	// Meeting fields
	Duracion  int    `json:"duracion,omitempty"` // minutes
	Modalidad string `gorm:"type:varchar(20)" json:"modalidad,omitempty"`
	Lugar     string `gorm:"type:text" json:"lugar,omitempty"`
	Canal     string `gorm:"type:varchar(20)" json:"canal,omitempty"`
	Enlace    string `gorm:"type:text" json:"enlace,omitempty"`

	// Task fields
	SubTipo     string `gorm:"type:varchar(20)" json:"sub_tipo,omitempty"`
	FechaLimite string `gorm:"type:varchar(10)" json:"fecha_limite,omitempty"`
	Notas       string `gorm:"type:text" json:"notas,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Actividad) TableName() string {
	return "actividades"
}

// Interaccion is the historical record produced when an activity completes.
type Interaccion struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	TratoID       uint      `gorm:"index;not null" json:"trato_id"`
	ActividadID   uint      `gorm:"index" json:"actividad_id"`
	Tipo          string    `gorm:"type:varchar(20)" json:"tipo"`
	Respuesta     string    `gorm:"type:varchar(10)" json:"respuesta"` // SI | NO
	Resultado     string    `gorm:"type:varchar(20)" json:"resultado"` // POSITIVO | NEGATIVO | Sin resultado
	Interes       string    `gorm:"type:varchar(10)" json:"interes"`   // BAJO | MEDIO | ALTO
	Informacion   string    `gorm:"type:varchar(10)" json:"informacion"`
	Medio         string    `gorm:"type:varchar(30)" json:"medio"`
	ProximaAccion string    `gorm:"type:text" json:"proxima_accion"`
	Notas         string    `gorm:"type:text" json:"notas"`
	Fecha         time.Time `gorm:"autoCreateTime" json:"fecha"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Interaccion) TableName() string {
	return "interacciones"
}

// Nota is a free-text annotation on a deal.
type Nota struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	TratoID      uint      `gorm:"index;not null" json:"trato_id"`
	AutorID      uint      `json:"autor_id"`
	Contenido    string    `gorm:"type:text;not null" json:"contenido"`
	EditadoPorID *uint     `json:"editado_por_id,omitempty"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Nota) TableName() string {
	return "notas"
}

// Plantilla is a reusable email template.
type Plantilla struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Nombre    string    `gorm:"type:varchar(255);not null" json:"nombre"`
	Asunto    string    `gorm:"type:varchar(255)" json:"asunto"`
	Cuerpo    string    `gorm:"type:text" json:"cuerpo"`   // HTML
	Adjuntos  string    `gorm:"type:text" json:"adjuntos"` // JSON array of URLs
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Plantilla) TableName() string {
	return "plantillas"
}

// CorreoRegistro is the audit entry for a sent email. Estado is mutated in
// place by delivery events, last write wins.
type CorreoRegistro struct {
	ID            string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	TratoID       uint      `gorm:"index;not null" json:"trato_id"`
	Destinatarios string    `gorm:"type:text" json:"destinatarios"` // JSON array
	Asunto        string    `gorm:"type:varchar(255)" json:"asunto"`
	Cuerpo        string    `gorm:"type:text" json:"cuerpo"`
	Adjuntos      string    `gorm:"type:text" json:"adjuntos"` // JSON array of URLs
	Estado        string    `gorm:"type:varchar(20);default:'ENVIADO'" json:"estado"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (CorreoRegistro) TableName() string {
	return "correo_registros"
}

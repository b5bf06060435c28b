package scheduler

import (
	"crm-gateway/internal/models"
)

// Mapped resultado values.
const (
	ResultadoPositivo = "POSITIVO"
	ResultadoNegativo = "NEGATIVO"
	ResultadoSin      = "Sin resultado"
)

// Desenlace holds the outcome fields captured when an activity is completed,
// or corrected when a historical interaction is edited.
type Desenlace struct {
	Respuesta     string `json:"respuesta"` // SI | NO
	Resultado     string `json:"resultado"`
	Interes       string `json:"interes"` // BAJO | MEDIO | ALTO
	Informacion   string `json:"informacion"`
	Medio         string `json:"medio"`
	ProximaAccion string `json:"proxima_accion"`
	Notas         string `json:"notas"`
}

// MapearResultado folds the yes/no response into the display resultado.
// Anything other than SI or NO, including a missing response, maps to
// "Sin resultado".
func MapearResultado(respuesta string) string {
	switch respuesta {
	case "SI":
		return ResultadoPositivo
	case "NO":
		return ResultadoNegativo
	}
	return ResultadoSin
}

// Mapear normalizes an outcome for the given activity kind. Resultado is
// always derived from Respuesta, and a meeting with no recorded medio defaults
// to PRESENCIAL. Free-text fields pass through verbatim. Mapping an already
// mapped outcome yields the same outcome.
func Mapear(tipo string, d Desenlace) Desenlace {
	d.Resultado = MapearResultado(d.Respuesta)
	if tipo == models.TipoReunion && d.Medio == "" {
		d.Medio = models.ModalidadPresencial
	}
	return d
}

// aplicarDesenlace copies a mapped outcome onto an interaction record.
func aplicarDesenlace(in *models.Interaccion, d Desenlace) {
	in.Respuesta = d.Respuesta
	in.Resultado = d.Resultado
	in.Interes = d.Interes
	in.Informacion = d.Informacion
	in.Medio = d.Medio
	in.ProximaAccion = d.ProximaAccion
	in.Notas = d.Notas
}

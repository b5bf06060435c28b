package scheduler

import (
	"testing"

	"crm-gateway/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestMapearResultado(t *testing.T) {
	tests := []struct {
		respuesta string
		want      string
	}{
		{"SI", ResultadoPositivo},
		{"NO", ResultadoNegativo},
		{"", ResultadoSin},
		{"QUIZAS", ResultadoSin},
		{"si", ResultadoSin},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MapearResultado(tt.respuesta), "respuesta %q", tt.respuesta)
	}
}

func TestMapearReunionMedioPorDefecto(t *testing.T) {
	d := Mapear(models.TipoReunion, Desenlace{Respuesta: "SI"})
	assert.Equal(t, models.ModalidadPresencial, d.Medio)
	assert.Equal(t, ResultadoPositivo, d.Resultado)

	d = Mapear(models.TipoReunion, Desenlace{Respuesta: "SI", Medio: models.ModalidadVirtual})
	assert.Equal(t, models.ModalidadVirtual, d.Medio)
}

func TestMapearLlamadaNoTocaMedio(t *testing.T) {
	d := Mapear(models.TipoLlamada, Desenlace{Respuesta: "NO"})
	assert.Empty(t, d.Medio)
	assert.Equal(t, ResultadoNegativo, d.Resultado)
}

func TestMapearEsIdempotente(t *testing.T) {
	original := Desenlace{
		Respuesta:     "SI",
		Interes:       "ALTO",
		Informacion:   "SI",
		ProximaAccion: "Enviar cotización",
		Notas:         "Pidió descuento por volumen",
	}
	once := Mapear(models.TipoReunion, original)
	twice := Mapear(models.TipoReunion, once)
	assert.Equal(t, once, twice)
}

func TestMapearConservaTextoLibre(t *testing.T) {
	d := Mapear(models.TipoTarea, Desenlace{
		Respuesta:     "NO",
		ProximaAccion: "Llamar en dos semanas",
		Notas:         "Sin presupuesto este trimestre",
	})
	assert.Equal(t, "Llamar en dos semanas", d.ProximaAccion)
	assert.Equal(t, "Sin presupuesto este trimestre", d.Notas)
}

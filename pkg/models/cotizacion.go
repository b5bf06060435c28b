package models

// Cotizacion is the summary the billing collaborator exposes per quotation.
// The gateway persists nothing for quotations; these are pass-through shapes.
type Cotizacion struct {
	ID       string  `json:"id"`
	TratoID  uint    `json:"trato_id"`
	Fecha    string  `json:"fecha"`
	Total    float64 `json:"total"`
	Estado   string  `json:"estado"` // BORRADOR, ENVIADA, ACEPTADA, RECHAZADA
	Creador  string  `json:"creador"`
	Enlazada bool    `json:"enlazada"` // already linked to a receivable
}

// CotizacionList is the billing service's list response envelope.
type CotizacionList struct {
	Data []Cotizacion `json:"data"`
}

// EnlaceCheck is the billing service's link-check response.
type EnlaceCheck struct {
	Enlazada bool `json:"enlazada"`
}

package models

// DeliveryEvent is a delivery-status event from the mail provider, received
// either over the websocket feed or the provider webhook. Estado is one of
// ENTREGADO or REBOTADO.
type DeliveryEvent struct {
	TratoID  uint   `json:"trato_id"`
	CorreoID string `json:"correo_id"`
	Estado   string `json:"estado"`
}

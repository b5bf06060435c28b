package notify

import (
	"context"
	"fmt"

	"crm-gateway/internal/mailer"
	"crm-gateway/internal/models"
	"crm-gateway/internal/whatsapp"

	"gorm.io/gorm"
)

// Notificador resolves an activity and its contact, then dispatches the
// meeting confirmation over the chosen channel. It implements the
// confirmation flow's EmailNotifier and WhatsAppLinker.
type Notificador struct {
	db     *gorm.DB
	mailer *mailer.Client
}

func NewNotificador(db *gorm.DB, m *mailer.Client) *Notificador {
	return &Notificador{db: db, mailer: m}
}

func (n *Notificador) cargar(ctx context.Context, actividadID uint) (*models.Actividad, *models.Contacto, error) {
	var act models.Actividad
	if err := n.db.WithContext(ctx).First(&act, actividadID).Error; err != nil {
		return nil, nil, fmt.Errorf("actividad %d: %w", actividadID, err)
	}
	var contacto models.Contacto
	if err := n.db.WithContext(ctx).First(&contacto, act.ContactoID).Error; err != nil {
		return nil, nil, fmt.Errorf("contacto %d: %w", act.ContactoID, err)
	}
	return &act, &contacto, nil
}

// NotificarReunion emails the contact the meeting details; reprogramada picks
// the rescheduled wording on the provider side.
func (n *Notificador) NotificarReunion(ctx context.Context, actividadID uint, reprogramada bool) error {
	act, contacto, err := n.cargar(ctx, actividadID)
	if err != nil {
		return err
	}
	return n.mailer.NotificarReunion(ctx, mailer.AvisoReunion{
		Para:      contacto.Email,
		Contacto:  contacto.Nombre,
		Fecha:     act.Fecha,
		Hora:      act.Hora,
		Duracion:  act.Duracion,
		Modalidad: act.Modalidad,
		Lugar:     act.Lugar,
		Enlace:    act.Enlace,
	}, reprogramada)
}

// EnlaceMensajeReunion builds the wa.me link with the meeting summary
// pre-filled for the contact's phone.
func (n *Notificador) EnlaceMensajeReunion(ctx context.Context, actividadID uint) (string, error) {
	act, contacto, err := n.cargar(ctx, actividadID)
	if err != nil {
		return "", err
	}

	texto := fmt.Sprintf("Hola %s, confirmamos nuestra reunión el %s a las %s.", contacto.Nombre, act.Fecha, act.Hora)
	if act.Modalidad == models.ModalidadPresencial {
		texto += " Lugar: " + act.Lugar
	} else if act.Enlace != "" {
		texto += " Enlace: " + act.Enlace
	}
	return whatsapp.MessageLink(contacto.Telefono, texto), nil
}

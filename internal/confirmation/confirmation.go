// Package confirmation drives the ask-to-notify flow that follows scheduling
// or rescheduling a meeting: confirm yes/no, pick a channel the contact is
// reachable on, dispatch, and hand control back to the caller exactly once.
package confirmation

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

type State int

const (
	Idle State = iota
	AskConfirm
	AskChannel
	Cancelled
	EmailSent
	WhatsAppOpened
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case AskConfirm:
		return "AskConfirm"
	case AskChannel:
		return "AskChannel"
	case Cancelled:
		return "Cancelled"
	case EmailSent:
		return "EmailSent"
	case WhatsAppOpened:
		return "WhatsAppOpened"
	case Failed:
		return "Failed"
	}
	return "Unknown"
}

var (
	ErrTransicion        = errors.New("transición de confirmación inválida")
	ErrCanalNoDisponible = errors.New("el contacto no es alcanzable por ese canal")
)

// Reachability carries the pre-fetched contact flags that gate the channel
// buttons.
type Reachability struct {
	TieneEmail    bool
	TieneTelefono bool
}

// EmailNotifier sends the meeting-confirmation email; reprogramada selects the
// rescheduled variant.
type EmailNotifier interface {
	NotificarReunion(ctx context.Context, actividadID uint, reprogramada bool) error
}

// WhatsAppLinker produces the WhatsApp message URL the caller opens.
type WhatsAppLinker interface {
	EnlaceMensajeReunion(ctx context.Context, actividadID uint) (string, error)
}

// Flow is the confirmation state machine for one scheduled meeting:
//
//	Idle → AskConfirm → {Cancelled | AskChannel} → {EmailSent | WhatsAppOpened | Failed} → Idle
//
// The completion callback runs exactly once, whatever the outcome; a failed
// send is reported to the caller but never blocks completion.
type Flow struct {
	state        State
	outcome      State
	actividadID  uint
	reprogramada bool
	alcance      Reachability
	email        EmailNotifier
	whatsapp     WhatsAppLinker
	done         func()
	once         sync.Once
}

func New(actividadID uint, reprogramada bool, alcance Reachability, email EmailNotifier, whatsapp WhatsAppLinker, done func()) *Flow {
	return &Flow{
		state:        AskConfirm,
		actividadID:  actividadID,
		reprogramada: reprogramada,
		alcance:      alcance,
		email:        email,
		whatsapp:     whatsapp,
		done:         done,
	}
}

func (f *Flow) State() State { return f.state }

// Outcome reports the terminal state the flow reached, or Idle if it has not
// finished.
func (f *Flow) Outcome() State { return f.outcome }

// CanEmail reports whether the email channel is selectable.
func (f *Flow) CanEmail() bool { return f.alcance.TieneEmail }

// CanWhatsApp reports whether the WhatsApp channel is selectable.
func (f *Flow) CanWhatsApp() bool { return f.alcance.TieneTelefono }

// Decline answers "no" to the confirmation prompt: nothing is sent and the
// completion callback fires.
func (f *Flow) Decline() error {
	if f.state != AskConfirm {
		return fmt.Errorf("%w: %s", ErrTransicion, f.state)
	}
	f.finish(Cancelled)
	return nil
}

// Accept answers "yes" and moves to channel selection.
func (f *Flow) Accept() error {
	if f.state != AskConfirm {
		return fmt.Errorf("%w: %s", ErrTransicion, f.state)
	}
	f.state = AskChannel
	return nil
}

// SendEmail dispatches the confirmation email. The flow completes whether or
// not the send succeeds.
func (f *Flow) SendEmail(ctx context.Context) error {
	if f.state != AskChannel {
		return fmt.Errorf("%w: %s", ErrTransicion, f.state)
	}
	if !f.alcance.TieneEmail {
		return ErrCanalNoDisponible
	}

	err := f.email.NotificarReunion(ctx, f.actividadID, f.reprogramada)
	if err != nil {
		f.finish(Failed)
		return err
	}
	f.finish(EmailSent)
	return nil
}

// OpenWhatsApp generates the WhatsApp message link for the caller to open.
// The flow completes whether or not generation succeeds.
func (f *Flow) OpenWhatsApp(ctx context.Context) (string, error) {
	if f.state != AskChannel {
		return "", fmt.Errorf("%w: %s", ErrTransicion, f.state)
	}
	if !f.alcance.TieneTelefono {
		return "", ErrCanalNoDisponible
	}

	url, err := f.whatsapp.EnlaceMensajeReunion(ctx, f.actividadID)
	if err != nil {
		f.finish(Failed)
		return "", err
	}
	f.finish(WhatsAppOpened)
	return url, nil
}

func (f *Flow) finish(outcome State) {
	f.outcome = outcome
	f.state = Idle
	f.once.Do(func() {
		if f.done != nil {
			f.done()
		}
	})
}

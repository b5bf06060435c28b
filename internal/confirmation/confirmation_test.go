package confirmation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmail struct {
	err      error
	llamadas int
	reprog   bool
}

func (f *fakeEmail) NotificarReunion(ctx context.Context, actividadID uint, reprogramada bool) error {
	f.llamadas++
	f.reprog = reprogramada
	return f.err
}

type fakeWhatsApp struct {
	url string
	err error
}

func (f *fakeWhatsApp) EnlaceMensajeReunion(ctx context.Context, actividadID uint) (string, error) {
	return f.url, f.err
}

func alcanzable() Reachability {
	return Reachability{TieneEmail: true, TieneTelefono: true}
}

func TestDeclineCompletaSinEnviar(t *testing.T) {
	email := &fakeEmail{}
	completado := 0
	f := New(1, false, alcanzable(), email, &fakeWhatsApp{}, func() { completado++ })

	require.NoError(t, f.Decline())
	assert.Equal(t, 1, completado)
	assert.Equal(t, Cancelled, f.Outcome())
	assert.Equal(t, Idle, f.State())
	assert.Zero(t, email.llamadas)
}

func TestSendEmailExitoso(t *testing.T) {
	email := &fakeEmail{}
	completado := 0
	f := New(1, true, alcanzable(), email, &fakeWhatsApp{}, func() { completado++ })

	require.NoError(t, f.Accept())
	require.NoError(t, f.SendEmail(context.Background()))
	assert.Equal(t, 1, completado)
	assert.Equal(t, EmailSent, f.Outcome())
	assert.Equal(t, 1, email.llamadas)
	assert.True(t, email.reprog, "debe pedir la variante de reprogramación")
}

func TestSendEmailFallaPeroCompleta(t *testing.T) {
	email := &fakeEmail{err: errors.New("smtp down")}
	completado := 0
	f := New(1, false, alcanzable(), email, &fakeWhatsApp{}, func() { completado++ })

	require.NoError(t, f.Accept())
	err := f.SendEmail(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 1, completado, "el fallo de envío no bloquea la finalización")
	assert.Equal(t, Failed, f.Outcome())
}

func TestOpenWhatsApp(t *testing.T) {
	completado := 0
	f := New(1, false, alcanzable(), &fakeEmail{}, &fakeWhatsApp{url: "https://wa.me/5215512345678?text=hola"}, func() { completado++ })

	require.NoError(t, f.Accept())
	url, err := f.OpenWhatsApp(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://wa.me/5215512345678?text=hola", url)
	assert.Equal(t, 1, completado)
	assert.Equal(t, WhatsAppOpened, f.Outcome())
}

func TestCanalesBloqueadosPorAlcance(t *testing.T) {
	f := New(1, false, Reachability{}, &fakeEmail{}, &fakeWhatsApp{}, nil)
	assert.False(t, f.CanEmail())
	assert.False(t, f.CanWhatsApp())

	require.NoError(t, f.Accept())
	assert.ErrorIs(t, f.SendEmail(context.Background()), ErrCanalNoDisponible)
	_, err := f.OpenWhatsApp(context.Background())
	assert.ErrorIs(t, err, ErrCanalNoDisponible)
}

func TestTransicionesInvalidas(t *testing.T) {
	f := New(1, false, alcanzable(), &fakeEmail{}, &fakeWhatsApp{}, nil)

	// Channel steps before accepting.
	assert.ErrorIs(t, f.SendEmail(context.Background()), ErrTransicion)
	_, err := f.OpenWhatsApp(context.Background())
	assert.ErrorIs(t, err, ErrTransicion)

	require.NoError(t, f.Accept())
	assert.ErrorIs(t, f.Accept(), ErrTransicion)
	assert.ErrorIs(t, f.Decline(), ErrTransicion)
}

func TestCallbackExactamenteUnaVez(t *testing.T) {
	completado := 0
	f := New(1, false, alcanzable(), &fakeEmail{}, &fakeWhatsApp{url: "x"}, func() { completado++ })

	require.NoError(t, f.Accept())
	_, err := f.OpenWhatsApp(context.Background())
	require.NoError(t, err)

	// Terminal operations after completion fail and never re-fire the callback.
	assert.ErrorIs(t, f.Decline(), ErrTransicion)
	assert.ErrorIs(t, f.SendEmail(context.Background()), ErrTransicion)
	assert.Equal(t, 1, completado)
}

func TestCallbackNilNoPaniquea(t *testing.T) {
	f := New(1, false, alcanzable(), &fakeEmail{}, &fakeWhatsApp{}, nil)
	assert.NotPanics(t, func() {
		require.NoError(t, f.Decline())
	})
}

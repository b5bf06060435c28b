package richtext

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	url      string
	err      error
	llamadas int
}

func (f *fakeUploader) SubirImagen(ctx context.Context, data []byte, mime, filename string) (string, error) {
	f.llamadas++
	return f.url, f.err
}

func TestInsertImage(t *testing.T) {
	up := &fakeUploader{url: "https://cdn.example.com/foto.png"}
	d := Plain("texto")

	out, err := InsertImage(context.Background(), d, 1, []byte{1, 2, 3}, "image/png", "foto.png", MaxImagenPlantilla, up)
	require.NoError(t, err)
	require.Len(t, out.Blocks, 2)
	assert.Equal(t, "https://cdn.example.com/foto.png", out.Blocks[1].Src)
	assert.False(t, out.Blocks[1].Pending)
	assert.Equal(t, `<p>texto</p><img src="https://cdn.example.com/foto.png" alt="foto.png">`, Render(out))
}

func TestInsertImageRechazaMIME(t *testing.T) {
	up := &fakeUploader{}
	d := Plain("texto")

	_, err := InsertImage(context.Background(), d, 1, []byte{1}, "application/pdf", "doc.pdf", MaxImagenPlantilla, up)
	assert.ErrorIs(t, err, ErrTipoImagen)
	assert.Zero(t, up.llamadas, "un tipo inválido no debe llegar al almacén")
}

func TestInsertImageRechazaTamanio(t *testing.T) {
	up := &fakeUploader{}
	d := Plain("texto")
	grande := make([]byte, MaxImagenCorreo+1)

	_, err := InsertImage(context.Background(), d, 1, grande, "image/jpeg", "foto.jpg", MaxImagenCorreo, up)
	assert.ErrorIs(t, err, ErrImagenGrande)
	assert.Zero(t, up.llamadas, "una imagen demasiado grande no debe subirse")
}

func TestInsertImageLimitePorSuperficie(t *testing.T) {
	// 2 MiB passes the template ceiling but not the compose one.
	data := make([]byte, MaxImagenPlantilla)
	up := &fakeUploader{url: "https://cdn.example.com/x.png"}
	d := Plain("texto")

	_, err := InsertImage(context.Background(), d, 1, data, "image/png", "x.png", MaxImagenPlantilla, up)
	assert.NoError(t, err)

	_, err = InsertImage(context.Background(), d, 1, data, "image/png", "x.png", MaxImagenCorreo, up)
	assert.ErrorIs(t, err, ErrImagenGrande)
}

func TestInsertImageFalloEliminaPlaceholder(t *testing.T) {
	up := &fakeUploader{err: errors.New("storage down")}
	d := Plain("texto")

	out, err := InsertImage(context.Background(), d, 1, []byte{1}, "image/png", "x.png", MaxImagenPlantilla, up)
	assert.Error(t, err)
	require.Len(t, out.Blocks, 1, "el placeholder debe retirarse tras el fallo")
	assert.Equal(t, "<p>texto</p>", Render(out))
}

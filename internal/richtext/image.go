package richtext

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Image size ceilings per editing surface.
const (
	MaxImagenPlantilla = 2 << 20       // 2 MiB, template editor
	MaxImagenCorreo    = 3 * (1 << 19) // 1.5 MiB, compose-email editor
)

var (
	ErrTipoImagen   = errors.New("el archivo no es una imagen")
	ErrImagenGrande = errors.New("la imagen supera el límite permitido")
)

// Uploader stores image bytes and returns a public URL.
type Uploader interface {
	SubirImagen(ctx context.Context, data []byte, mime, filename string) (string, error)
}

// InsertImage validates, uploads and inserts an image block at the given
// position. MIME and size are checked before any upload request. While the
// upload runs the document carries a pending placeholder block; on success the
// placeholder becomes the image, on failure it is removed and the error
// returned so the caller can report it.
func InsertImage(ctx context.Context, d Document, at int, data []byte, mime, filename string, limit int, up Uploader) (Document, error) {
	if !strings.HasPrefix(mime, "image/") {
		return d, ErrTipoImagen
	}
	if len(data) > limit {
		return d, fmt.Errorf("%w: máximo %d bytes", ErrImagenGrande, limit)
	}

	at = clamp(at, 0, len(d.Blocks))
	out := d.clone()
	out.Blocks = insertBlock(out.Blocks, at, Block{Kind: BlockImage, Alt: filename, Pending: true})

	url, err := up.SubirImagen(ctx, data, mime, filename)
	if err != nil {
		out.Blocks = append(out.Blocks[:at], out.Blocks[at+1:]...)
		return out, fmt.Errorf("no se pudo subir la imagen: %w", err)
	}

	out.Blocks[at].Src = url
	out.Blocks[at].Pending = false
	return out, nil
}

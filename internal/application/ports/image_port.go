package ports

import (
	"context"
	"io"
)

// ImageFile archivo de imagen recibido en un formulario multipart.
type ImageFile struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// ImageUploader define el puerto de salida hacia el servicio externo de imágenes.
// Upload redimensiona la imagen a 300 px de ancho (alto proporcional), la publica
// bajo el espacio fijo "fabric-categories" y devuelve su URL pública.
type ImageUploader interface {
	Upload(ctx context.Context, file ImageFile) (string, error)
}

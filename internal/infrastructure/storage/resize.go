package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

// TargetWidth ancho fijo de las imágenes de categoría; el alto se escala en proporción.
const TargetWidth = 300

const jpegQuality = 85

// Límites sobre las dimensiones declaradas en la cabecera, antes de decodificar:
// un PNG de pocos KB puede declarar miles de millones de píxeles.
const (
	maxImageSide   = 10000
	maxImagePixels = 40_000_000
)

// resizedImage resultado de redimensionar: bytes codificados más metadatos.
type resizedImage struct {
	Data        []byte
	ContentType string
	Ext         string
	Width       int
	Height      int
}

// decodeImage detecta el formato por contenido (no por la extensión del archivo).
func decodeImage(r io.Reader) (image.Image, string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("leer imagen: %w", err)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, "", fmt.Errorf("formato de imagen no soportado: %w", err)
	}
	if err := checkDimensions(cfg.Width, cfg.Height); err != nil {
		return nil, "", err
	}
	var img image.Image
	switch format {
	case "jpeg":
		img, err = jpeg.Decode(bytes.NewReader(raw))
	case "png":
		img, err = png.Decode(bytes.NewReader(raw))
	case "gif":
		img, err = gif.Decode(bytes.NewReader(raw))
	case "webp":
		img, err = webp.Decode(bytes.NewReader(raw))
	default:
		return nil, "", fmt.Errorf("formato de imagen no soportado: %s", format)
	}
	if err != nil {
		return nil, "", fmt.Errorf("decodificar %s: %w", format, err)
	}
	return img, format, nil
}

func checkDimensions(w, h int) error {
	if w > maxImageSide || h > maxImageSide || int64(w)*int64(h) > maxImagePixels {
		return fmt.Errorf("dimensiones de imagen excesivas: %dx%d (máximo %d px por lado y %d MP)",
			w, h, maxImageSide, maxImagePixels/1_000_000)
	}
	return nil
}

// scaleToWidth escala src a width píxeles de ancho manteniendo la proporción (mínimo 1 px de alto).
func scaleToWidth(src image.Image, width int) *image.RGBA {
	b := src.Bounds()
	height := (b.Dy()*width + b.Dx()/2) / b.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// resize decodifica, escala a TargetWidth y recodifica. PNG se mantiene en PNG
// (conserva transparencia); el resto se publica como JPEG.
func resize(r io.Reader) (*resizedImage, error) {
	src, format, err := decodeImage(r)
	if err != nil {
		return nil, err
	}
	if src.Bounds().Dx() == 0 || src.Bounds().Dy() == 0 {
		return nil, fmt.Errorf("imagen vacía")
	}
	dst := scaleToWidth(src, TargetWidth)

	var buf bytes.Buffer
	out := &resizedImage{Width: dst.Bounds().Dx(), Height: dst.Bounds().Dy()}
	if format == "png" {
		if err := png.Encode(&buf, dst); err != nil {
			return nil, fmt.Errorf("codificar png: %w", err)
		}
		out.ContentType, out.Ext = "image/png", "png"
	} else {
		if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, fmt.Errorf("codificar jpeg: %w", err)
		}
		out.ContentType, out.Ext = "image/jpeg", "jpg"
	}
	out.Data = buf.Bytes()
	return out, nil
}

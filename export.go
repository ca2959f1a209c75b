package easel

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"github.com/gogpu/gg"
	"golang.org/x/image/bmp"
	"golang.org/x/image/colornames"
	"golang.org/x/image/tiff"
)

// Supported export MIME types.
const (
	MimePNG  = "image/png"
	MimeJPEG = "image/jpeg"
	MimeBMP  = "image/bmp"
	MimeTIFF = "image/tiff"
)

// jpegQuality is used for image/jpeg exports.
const jpegQuality = 92

// ToImage returns the stage canvas encoded as a data URL. An empty mimeType
// means image/png; unsupported types fall back to image/png. When background
// is not empty the image is composited over that color first. The canvas
// itself is never modified.
func (s *Stage) ToImage(mimeType, background string) (string, error) {
	img, err := s.snapshot(background)
	if err != nil {
		return "", err
	}
	return dataURL(img, mimeType)
}

// WriteImage encodes the stage canvas to w like ToImage, returning the MIME
// type actually used.
func (s *Stage) WriteImage(w io.Writer, mimeType, background string) (string, error) {
	img, err := s.snapshot(background)
	if err != nil {
		return "", err
	}
	return encodeImage(w, img, mimeType)
}

// snapshot copies the canvas, composited over background when it is set.
func (s *Stage) snapshot(background string) (*image.RGBA, error) {
	if s.canvas == nil {
		return nil, ErrNoCanvas
	}
	img := s.canvas.ImageData(s.canvas.Bounds())
	if background == "" {
		return img, nil
	}
	col, err := ParseColor(background)
	if err != nil {
		return nil, err
	}
	out := image.NewRGBA(img.Rect)
	draw.Draw(out, out.Rect, image.NewUniform(col), image.Point{}, draw.Src)
	draw.Draw(out, out.Rect, img, img.Rect.Min, draw.Over)
	return out, nil
}

// DataURL returns the canvas encoded as a data URL. See Stage.ToImage for
// the accepted MIME types.
func (c *Canvas) DataURL(mimeType string) (string, error) {
	return dataURL(c.img, mimeType)
}

// Encode writes the canvas to w in the given format, returning the MIME type
// actually used.
func (c *Canvas) Encode(w io.Writer, mimeType string) (string, error) {
	return encodeImage(w, c.img, mimeType)
}

func dataURL(img image.Image, mimeType string) (string, error) {
	var buf bytes.Buffer
	mime, err := encodeImage(&buf, img, mimeType)
	if err != nil {
		return "", err
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func encodeImage(w io.Writer, img image.Image, mimeType string) (string, error) {
	mime := normalizeMime(mimeType)
	var err error
	switch mime {
	case MimeJPEG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality})
	case MimeBMP:
		err = bmp.Encode(w, img)
	case MimeTIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		err = png.Encode(w, img)
	}
	if err != nil {
		return "", fmt.Errorf("easel: encode %s: %w", mime, err)
	}
	return mime, nil
}

// MimeForExtension returns the export type for a file extension such as
// ".jpg", defaulting to PNG.
func MimeForExtension(ext string) string {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return MimeJPEG
	case ".bmp":
		return MimeBMP
	case ".tif", ".tiff":
		return MimeTIFF
	}
	return MimePNG
}

// normalizeMime maps mimeType to a supported type, defaulting to PNG.
func normalizeMime(mimeType string) string {
	m := strings.ToLower(strings.TrimSpace(mimeType))
	switch m {
	case "", MimePNG:
		return MimePNG
	case MimeJPEG, "image/jpg":
		return MimeJPEG
	case MimeBMP, "image/x-ms-bmp":
		return MimeBMP
	case MimeTIFF, "image/tif":
		return MimeTIFF
	}
	Logger().Warn("unsupported export type, using png", "type", mimeType)
	return MimePNG
}

// ParseColor parses a CSS-style color: "#rgb", "#rgba", "#rrggbb",
// "#rrggbbaa", a color name such as "cornflowerblue", or "transparent".
func ParseColor(s string) (color.Color, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		hex := s[1:]
		switch len(hex) {
		case 3, 4, 6, 8:
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedColor, s)
		}
		for i := 0; i < len(hex); i++ {
			if !isHexDigit(hex[i]) {
				return nil, fmt.Errorf("%w: %q", ErrUnsupportedColor, s)
			}
		}
		return gg.Hex(hex).Color(), nil
	}
	name := strings.ToLower(s)
	if name == "transparent" {
		return color.Transparent, nil
	}
	if c, ok := colornames.Map[name]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedColor, s)
}

func isHexDigit(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

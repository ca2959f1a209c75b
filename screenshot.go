package easel

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// SavePNG writes the canvas to a PNG file. The encoder converts the
// premultiplied pixels to straight alpha.
func (c *Canvas) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := c.Encode(f, MimePNG); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Screenshot writes the stage canvas to dir as a PNG named after the current
// time and label, and returns the file path. The directory is created when
// missing.
func (s *Stage) Screenshot(dir, label string) (string, error) {
	if s.canvas == nil {
		return "", ErrNoCanvas
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	stamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", stamp, sanitizeLabel(label)))
	if err := s.canvas.SavePNG(path); err != nil {
		return "", err
	}
	return path, nil
}

// sanitizeLabel keeps letters, digits, '-' and '.', turning anything else
// into '_'. A blank label becomes "unlabeled".
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		if r < utf8.RuneSelf && (r == '-' || r == '.' || unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return r
		}
		return '_'
	}, label)
}

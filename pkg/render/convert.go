package render

import (
	"bytes"
	"fmt"
	"os/exec"
)

// rsvgBinary is the converter used for PDF and PNG output.
var rsvgBinary = "rsvg-convert"

// ToPDF converts SVG bytes to PDF.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(svg []byte) ([]byte, error) {
	return convert(svg, FormatPDF)
}

// ToPNG converts SVG bytes to PNG at the given scale; 2.0 doubles the
// resolution.
func ToPNG(svg []byte, scale float64) ([]byte, error) {
	return convert(svg, FormatPNG, "-z", fmt.Sprintf("%.2f", scale))
}

// ErrNoConverter reports that rsvg-convert is not installed.
type ErrNoConverter struct{ Format string }

func (e *ErrNoConverter) Error() string {
	return fmt.Sprintf("%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", e.Format)
}

func convert(svg []byte, format string, extraArgs ...string) ([]byte, error) {
	bin, err := exec.LookPath(rsvgBinary)
	if err != nil {
		return nil, &ErrNoConverter{Format: format}
	}

	cmd := exec.Command(bin, append([]string{"-f", format}, extraArgs...)...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %v: %s", rsvgBinary, err, stderr.String())
	}
	return out.Bytes(), nil
}

package output

import (
	"fmt"
	"image/png"
	"strings"

	"github.com/disintegration/imaging"
)

// Format is an output image encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

// DefaultQuality is the JPEG quality and PNG compression input when unset.
const DefaultQuality = 85

// ParseFormat accepts "png", "jpeg" and "jpg", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "png":
		return FormatPNG, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	default:
		return "", fmt.Errorf("unsupported image type %q (valid: png, jpeg)", s)
	}
}

// Extension returns the file extension, without the dot.
func (f Format) Extension() string {
	if f == FormatJPEG {
		return "jpg"
	}
	return "png"
}

// encodeOptions maps quality (1..100) onto the encoder settings. JPEG takes
// it as is. PNG scales it to a 0..9 compression level, which Go's encoder
// only knows in four steps.
func (f Format) encodeOptions(quality int) (imaging.Format, []imaging.EncodeOption) {
	if quality <= 0 {
		quality = DefaultQuality
	}
	if quality > 100 {
		quality = 100
	}

	if f == FormatJPEG {
		return imaging.JPEG, []imaging.EncodeOption{imaging.JPEGQuality(quality)}
	}
	return imaging.PNG, []imaging.EncodeOption{imaging.PNGCompressionLevel(pngLevel(quality))}
}

func pngLevel(quality int) png.CompressionLevel {
	switch level := quality * 9 / 100; {
	case level == 0:
		return png.NoCompression
	case level <= 3:
		return png.BestSpeed
	case level <= 6:
		return png.DefaultCompression
	default:
		return png.BestCompression
	}
}

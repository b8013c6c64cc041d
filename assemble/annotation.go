package assemble

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"
)

// RawElement is the wire form of one overlay element, as sent by the editing
// client. Geometry is in preview-space units; colours are 6-hex-digit strings;
// image payloads are data URLs.
type RawElement struct {
	Type   string  `json:"type"` // "text", "image", "rect", "circle"
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// Text fields.
	Text      string  `json:"text,omitempty"`
	FontSize  float64 `json:"fontSize,omitempty"`
	FontColor string  `json:"fontColor,omitempty"`
	Bold      bool    `json:"bold,omitempty"`
	Italic    bool    `json:"italic,omitempty"`

	// Image fields.
	Src string `json:"src,omitempty"` // data URL

	// Shape fields.
	FillColor   string `json:"fillColor,omitempty"`
	BorderColor string `json:"borderColor,omitempty"`
}

// RGB is a decoded colour triple.
type RGB struct {
	R, G, B uint8
}

// Annotation is one overlay element attached to a page, in preview-space
// coordinates. The variants form a closed set: Text, Image, Rect, Ellipse.
type Annotation interface {
	Bounds() Box
	isAnnotation()
}

// Text places a string in a bounding box. Bold and Italic arrive from the
// client and are preserved for forward compatibility but are currently inert:
// rendering always uses the regular face.
type Text struct {
	Box
	Content  string
	FontSize float64
	Color    RGB
	Bold     bool
	Italic   bool
}

// Image stretches a decoded raster image to exactly fill its box, with no
// aspect-ratio preservation.
type Image struct {
	Box
	Data   []byte
	Format string // "png", "jpg", "gif"
}

// Rect is a filled rectangle with a 1-unit border stroke.
type Rect struct {
	Box
	Fill   RGB
	Border RGB
}

// Ellipse is a filled ellipse inscribed in its box, with a 1-unit border.
type Ellipse struct {
	Box
	Fill   RGB
	Border RGB
}

func (Text) isAnnotation()    {}
func (Image) isAnnotation()   {}
func (Rect) isAnnotation()    {}
func (Ellipse) isAnnotation() {}

// DecodeAnnotations converts wire elements into typed annotations, preserving
// order. Any undecodable element fails the whole list: annotation lists are
// applied in a single pass or not at all.
func DecodeAnnotations(elems []RawElement) ([]Annotation, error) {
	anns := make([]Annotation, 0, len(elems))
	for i, el := range elems {
		a, err := decodeElement(el)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		anns = append(anns, a)
	}
	return anns, nil
}

func decodeElement(el RawElement) (Annotation, error) {
	box := Box{X: el.X, Y: el.Y, W: el.Width, H: el.Height}

	switch el.Type {
	case "text":
		color, err := ParseHexColor(el.FontColor)
		if err != nil {
			return nil, fmt.Errorf("%w: font color: %v", ErrBadPayload, err)
		}
		return Text{
			Box:      box,
			Content:  el.Text,
			FontSize: el.FontSize,
			Color:    color,
			Bold:     el.Bold,
			Italic:   el.Italic,
		}, nil

	case "image":
		data, format, err := decodeDataURL(el.Src)
		if err != nil {
			return nil, fmt.Errorf("%w: image src: %v", ErrBadPayload, err)
		}
		return Image{Box: box, Data: data, Format: format}, nil

	case "rect", "circle":
		fill, err := ParseHexColor(el.FillColor)
		if err != nil {
			return nil, fmt.Errorf("%w: fill color: %v", ErrBadPayload, err)
		}
		border, err := ParseHexColor(el.BorderColor)
		if err != nil {
			return nil, fmt.Errorf("%w: border color: %v", ErrBadPayload, err)
		}
		if el.Type == "circle" {
			return Ellipse{Box: box, Fill: fill, Border: border}, nil
		}
		return Rect{Box: box, Fill: fill, Border: border}, nil

	default:
		return nil, fmt.Errorf("%w: unknown element type %q", ErrBadPayload, el.Type)
	}
}

// ParseHexColor decodes a 6-hex-digit colour string, with or without a
// leading '#'.
func ParseHexColor(s string) (RGB, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("bad color %q", s)
	}
	var c RGB
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return RGB{}, fmt.Errorf("bad color %q", s)
	}
	return c, nil
}

// decodeDataURL extracts the payload of a base64 data URL and detects the
// image format, first from the declared mime type, then from the magic bytes.
func decodeDataURL(src string) ([]byte, string, error) {
	if !strings.HasPrefix(src, "data:") {
		return nil, "", fmt.Errorf("not a data URL")
	}
	meta, payload, ok := strings.Cut(src, ",")
	if !ok {
		return nil, "", fmt.Errorf("missing data URL payload")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("base64: %w", err)
	}

	format := formatFromMime(meta)
	if format == "" {
		format = sniffImageFormat(data)
	}
	if format == "" {
		return nil, "", fmt.Errorf("unsupported image format")
	}
	return data, format, nil
}

func formatFromMime(meta string) string {
	switch {
	case strings.Contains(meta, "image/png"):
		return "png"
	case strings.Contains(meta, "image/jpeg"), strings.Contains(meta, "image/jpg"):
		return "jpg"
	case strings.Contains(meta, "image/gif"):
		return "gif"
	}
	return ""
}

func sniffImageFormat(data []byte) string {
	switch {
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return "png"
	case bytes.HasPrefix(data, []byte{0xff, 0xd8, 0xff}):
		return "jpg"
	case bytes.HasPrefix(data, []byte("GIF8")):
		return "gif"
	}
	return ""
}

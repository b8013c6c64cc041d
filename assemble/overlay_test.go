package assemble

import (
	"bytes"
	"encoding/base64"
	"errors"
	"testing"
)

func testAnnotations(t *testing.T) []Annotation {
	t.Helper()
	png, err := base64.StdEncoding.DecodeString(tinyPNGBase64)
	if err != nil {
		t.Fatal(err)
	}
	return []Annotation{
		Text{
			Box:      Box{X: 100, Y: 100, W: 200, H: 40},
			Content:  "annotated",
			FontSize: 16,
			Color:    RGB{R: 200},
		},
		Image{Box: Box{X: 50, Y: 300, W: 120, H: 80}, Data: png, Format: "png"},
		Rect{Box: Box{X: 10, Y: 10, W: 60, H: 30}, Fill: RGB{G: 255}, Border: RGB{}},
		Ellipse{Box: Box{X: 400, Y: 500, W: 100, H: 100}, Fill: RGB{B: 255}, Border: RGB{}},
	}
}

func TestRenderAnnotatedPage(t *testing.T) {
	src := buildPDF(612, "page one", "page two")
	before := bytes.Clone(src)

	out, err := renderAnnotatedPage(src, 1, testAnnotations(t), DefaultPreviewWidth)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	info, err := Inspect(out)
	if err != nil {
		t.Fatalf("inspect rendered: %v", err)
	}
	if info.PageCount != 1 {
		t.Fatalf("rendered PageCount = %d, want 1", info.PageCount)
	}
	if info.Dims[0].Width != 612 || info.Dims[0].Height != 792 {
		t.Fatalf("rendered dims = %+v, want source page size", info.Dims[0])
	}

	if !bytes.Equal(src, before) {
		t.Fatal("source bytes were mutated")
	}
}

func TestRenderAnnotatedPage_OutOfRange(t *testing.T) {
	src := buildPDF(612, "only page")
	for _, p := range []int{-1, 1} {
		if _, err := renderAnnotatedPage(src, p, nil, DefaultPreviewWidth); !errors.Is(err, ErrPageOutOfRange) {
			t.Errorf("page %d: expected ErrPageOutOfRange, got %v", p, err)
		}
	}
}

func TestRenderAnnotatedPage_Malformed(t *testing.T) {
	if _, err := renderAnnotatedPage([]byte("garbage"), 0, nil, DefaultPreviewWidth); !errors.Is(err, ErrMalformedSource) {
		t.Fatalf("expected ErrMalformedSource, got %v", err)
	}
}

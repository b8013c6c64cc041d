package assemble

import (
	"errors"
	"testing"
)

func TestInspect(t *testing.T) {
	src := buildPDF(612, "page one", "page two", "page three")
	info, err := Inspect(src)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if info.PageCount != 3 {
		t.Fatalf("PageCount = %d, want 3", info.PageCount)
	}
	if len(info.Dims) != 3 {
		t.Fatalf("len(Dims) = %d, want 3", len(info.Dims))
	}
	for i, d := range info.Dims {
		if d.Width != 612 || d.Height != 792 {
			t.Errorf("page %d: dims %+v, want 612x792", i, d)
		}
	}
}

func TestInspect_Malformed(t *testing.T) {
	if _, err := Inspect([]byte("not a pdf at all")); !errors.Is(err, ErrMalformedSource) {
		t.Fatalf("expected ErrMalformedSource, got %v", err)
	}
}

func TestTrimPage(t *testing.T) {
	src := buildPDF(612, "alpha", "beta")

	out, err := trimPage(src, 1)
	if err != nil {
		t.Fatalf("trim: %v", err)
	}
	info, err := Inspect(out)
	if err != nil {
		t.Fatalf("inspect trimmed: %v", err)
	}
	if info.PageCount != 1 {
		t.Fatalf("trimmed PageCount = %d, want 1", info.PageCount)
	}

	// Source must be untouched.
	after, err := Inspect(src)
	if err != nil || after.PageCount != 2 {
		t.Fatalf("source mutated: count=%v err=%v", after, err)
	}
}

func TestTrimPage_OutOfRange(t *testing.T) {
	src := buildPDF(612, "only page")
	for _, p := range []int{-1, 1, 99} {
		if _, err := trimPage(src, p); !errors.Is(err, ErrPageOutOfRange) {
			t.Errorf("page %d: expected ErrPageOutOfRange, got %v", p, err)
		}
	}
}

func TestMergeParts(t *testing.T) {
	a, err := trimPage(buildPDF(612, "first"), 0)
	if err != nil {
		t.Fatal(err)
	}
	b, err := trimPage(buildPDF(612, "second"), 0)
	if err != nil {
		t.Fatal(err)
	}

	merged, err := mergeParts([][]byte{a, b, a})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	info, err := Inspect(merged)
	if err != nil {
		t.Fatalf("inspect merged: %v", err)
	}
	if info.PageCount != 3 {
		t.Fatalf("merged PageCount = %d, want 3", info.PageCount)
	}
}

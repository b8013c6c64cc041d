package assemble

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PageDim is the true size of one page in PDF points.
type PageDim struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DocumentInfo describes a validated source document.
type DocumentInfo struct {
	PageCount int       `json:"pageCount"`
	Dims      []PageDim `json:"dims"`
}

func newConf() *model.Configuration {
	return model.NewDefaultConfiguration()
}

// Inspect validates src as a PDF and returns its page count and per-page
// dimensions. The dimensions let the preview collaborator derive each page's
// aspect ratio for its fixed-width rendering.
func Inspect(src []byte) (*DocumentInfo, error) {
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(src), newConf())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSource, err)
	}
	dims, err := ctx.PageDims()
	if err != nil {
		return nil, fmt.Errorf("%w: page dims: %v", ErrMalformedSource, err)
	}
	info := &DocumentInfo{PageCount: ctx.PageCount, Dims: make([]PageDim, 0, len(dims))}
	for _, d := range dims {
		info.Dims = append(info.Dims, PageDim{Width: d.Width, Height: d.Height})
	}
	return info, nil
}

// pageCount returns the number of pages in src, or ErrMalformedSource.
func pageCount(src []byte) (int, error) {
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(src), newConf())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedSource, err)
	}
	return ctx.PageCount, nil
}

// trimPage copies a single page out of src as a standalone document. This is
// a structural copy: the page's content is carried over untouched, which
// preserves fidelity for pages without annotations.
func trimPage(src []byte, pageNum int) ([]byte, error) {
	n, err := pageCount(src)
	if err != nil {
		return nil, err
	}
	if pageNum < 0 || pageNum >= n {
		return nil, fmt.Errorf("%w: page %d of %d", ErrPageOutOfRange, pageNum, n)
	}
	var buf bytes.Buffer
	sel := []string{strconv.Itoa(pageNum + 1)} // pdfcpu page selectors are 1-based
	if err := api.Trim(bytes.NewReader(src), &buf, sel, newConf()); err != nil {
		return nil, fmt.Errorf("%w: trim page %d: %v", ErrMalformedSource, pageNum+1, err)
	}
	return buf.Bytes(), nil
}

// mergeParts concatenates single-page documents, in order, into one document.
func mergeParts(parts [][]byte) ([]byte, error) {
	rsc := make([]io.ReadSeeker, len(parts))
	for i, p := range parts {
		rsc[i] = bytes.NewReader(p)
	}
	var buf bytes.Buffer
	if err := api.MergeRaw(rsc, &buf, false, newConf()); err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	return buf.Bytes(), nil
}

package assemble

import "strconv"

// PageRef identifies one page as (source document id, zero-based page index).
type PageRef struct {
	DocID   string `json:"docId"`
	PageNum int    `json:"pageNum"`
}

// Key returns the composite annotation-map key for this page:
// "<docID>_<pageNum>". The key always uses the original page index within
// the source document, never the page's position in a PageOrder.
func (r PageRef) Key() string {
	return r.DocID + "_" + strconv.Itoa(r.PageNum)
}

// PageOrder is the client-controlled ordered page sequence for one assembly
// request. It may reorder and drop pages across multiple source documents.
type PageOrder []PageRef

// File is one named artifact in a split result.
type File struct {
	Name string `json:"name"`
	Data []byte `json:"-"`
}

// Result is the outcome of a merge or extract operation.
type Result struct {
	// PDF is the assembled document.
	PDF []byte
	// Pages is the number of pages in the assembled document.
	Pages int
	// Skipped counts pages that contributed nothing: stale document
	// references plus per-page render failures.
	Skipped int
}

// SplitResult is the outcome of a split operation: independent single-page
// documents in traversal order.
type SplitResult struct {
	Files   []File
	Skipped int
}

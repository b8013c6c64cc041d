package assemble

import "sort"

// job is one resolved page ready for rendering: the source bytes, the
// original page index, the raw annotation list, and the page's 1-based
// position in the PageOrder traversal (used for split naming).
type job struct {
	pos   int
	ref   PageRef
	data  []byte
	elems []RawElement
}

// resolve translates a PageOrder into render jobs. PageRefs whose document id
// is absent from the store are skipped and counted, never failed: client page
// state may lag the server's store within a session.
func (e *Engine) resolve(order PageOrder, elements map[string][]RawElement) (jobs []job, stale int) {
	for i, ref := range order {
		data, ok := e.store.Get(ref.DocID)
		if !ok {
			stale++
			e.logger.Debug("stale document reference skipped", "doc", ref.DocID, "page", ref.PageNum)
			continue
		}
		jobs = append(jobs, job{
			pos:   i + 1,
			ref:   ref,
			data:  data,
			elems: elements[ref.Key()],
		})
	}
	return jobs, stale
}

// resolveSubset is resolve restricted to 1-based positions into the
// PageOrder. Invalid positions are dropped; the survivors are deduplicated
// and processed in ascending order exactly once each.
func (e *Engine) resolveSubset(order PageOrder, positions []int, elements map[string][]RawElement) (jobs []job, stale int) {
	valid := subsetPositions(positions, len(order))
	sub := make(PageOrder, 0, len(valid))
	for _, p := range valid {
		sub = append(sub, order[p-1])
	}
	return e.resolve(sub, elements)
}

// subsetPositions filters positions to 1..n, deduplicates, and sorts
// ascending.
func subsetPositions(positions []int, n int) []int {
	seen := make(map[int]struct{}, len(positions))
	var out []int
	for _, p := range positions {
		if p < 1 || p > n {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}

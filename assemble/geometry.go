package assemble

// Box is an axis-aligned rectangle: top-left corner plus size. Preview space
// and page space share the same orientation (origin top-left, y growing
// down), so mapping between them is a pure uniform scale.
type Box struct {
	X, Y, W, H float64
}

// Bounds returns the box itself; it makes every annotation variant satisfy
// the Annotation interface via embedding.
func (b Box) Bounds() Box { return b }

// Scale returns the box with every length multiplied by f.
func (b Box) Scale(f float64) Box {
	return Box{X: b.X * f, Y: b.Y * f, W: b.W * f, H: b.H * f}
}

// ScaleFactor maps preview-space lengths to page-space lengths for a page of
// the given true width. The preview is assumed to have been rendered at
// previewWidth logical units regardless of the page's aspect ratio.
func ScaleFactor(pageWidth, previewWidth float64) float64 {
	if previewWidth <= 0 {
		previewWidth = DefaultPreviewWidth
	}
	return pageWidth / previewWidth
}

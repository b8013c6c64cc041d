package assemble

import "log/slog"

// DefaultPreviewWidth is the logical width of the client's preview space.
// Annotation geometry arrives relative to this width regardless of each
// page's true size; the preview-generation collaborator must render at the
// same width.
const DefaultPreviewWidth = 800

// Config configures the assembly engine.
type Config struct {
	// PreviewWidth is the logical width of the client preview space
	// (default: 800 units).
	PreviewWidth float64 `json:"preview_width" yaml:"preview_width"`

	// Workers bounds concurrent per-page rendering (default: 4).
	// Outputs are always joined in page order, never completion order.
	Workers int `json:"workers" yaml:"workers"`

	// Logger for warnings about skipped pages.
	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.PreviewWidth <= 0 {
		c.PreviewWidth = DefaultPreviewWidth
	}
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

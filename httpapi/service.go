package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Ethan1812/pdf-edit-online/assemble"
	"github.com/Ethan1812/pdf-edit-online/docstore"
)

// Service wires the document store and assembly engine into HTTP handlers.
type Service struct {
	store     *docstore.Store
	engine    *assemble.Engine
	logger    *slog.Logger
	maxUpload int64
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = logger }
}

// WithMaxUpload caps the accepted multipart body size in bytes.
func WithMaxUpload(n int64) ServiceOption {
	return func(s *Service) { s.maxUpload = n }
}

// NewService creates the HTTP service.
func NewService(store *docstore.Store, engine *assemble.Engine, opts ...ServiceOption) *Service {
	s := &Service{
		store:     store,
		engine:    engine,
		logger:    slog.Default(),
		maxUpload: 50 * 1024 * 1024,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Register mounts all routes on r.
func (s *Service) Register(r chi.Router) {
	r.Get("/health", s.handleHealth)

	r.Post("/api/documents", s.handleUpload)
	// Legacy route names kept for wire compatibility with older clients.
	r.Post("/upload", s.handleUpload)
	r.Post("/add_pdfs", s.handleUpload)

	r.Route("/api/assembly", func(r chi.Router) {
		r.Post("/merge", s.handleMerge)
		r.Post("/extract", s.handleExtract)
		r.Post("/split", s.handleSplit)
	})
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, 200, map[string]any{"status": "ok", "documents": s.store.Len()})
}

// uploadedDocument is one stored file in the upload response. Pages carry the
// true page dimensions so the client can shape its fixed-width previews.
type uploadedDocument struct {
	DocID     string       `json:"docId"`
	Name      string       `json:"name"`
	PageCount int          `json:"pageCount"`
	Pages     []uploadPage `json:"pages"`
}

type uploadPage struct {
	DocID   string  `json:"docId"`
	PageNum int     `json:"pageNum"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

func (s *Service) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		writeError(w, 400, fmt.Errorf("parse multipart: %w", err))
		return
	}
	files := r.MultipartForm.File["pdf_files"]
	if len(files) == 0 {
		writeError(w, 400, fmt.Errorf("no pdf_files in request"))
		return
	}

	// Validate every file before storing any, so a rejected upload never
	// leaves earlier files of the same request behind in the store.
	type pending struct {
		name string
		data []byte
		info *assemble.DocumentInfo
	}
	batch := make([]pending, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			writeError(w, 400, fmt.Errorf("open %s: %w", fh.Filename, err))
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			writeError(w, 400, fmt.Errorf("read %s: %w", fh.Filename, err))
			return
		}
		info, err := assemble.Inspect(data)
		if err != nil {
			writeError(w, 422, fmt.Errorf("%s: %w", fh.Filename, err))
			return
		}
		batch = append(batch, pending{name: fh.Filename, data: data, info: info})
	}

	docs := make([]uploadedDocument, 0, len(batch))
	for _, p := range batch {
		id := s.store.Put(p.data)
		doc := uploadedDocument{
			DocID:     id,
			Name:      p.name,
			PageCount: p.info.PageCount,
			Pages:     make([]uploadPage, 0, p.info.PageCount),
		}
		for i, d := range p.info.Dims {
			doc.Pages = append(doc.Pages, uploadPage{
				DocID: id, PageNum: i, Width: d.Width, Height: d.Height,
			})
		}
		docs = append(docs, doc)
		s.logger.Info("document stored", "doc", id, "name", p.name, "pages", p.info.PageCount)
	}

	writeJSON(w, 200, map[string]any{"documents": docs})
}

// assemblyRequest is the shared body of the three assembly routes.
type assemblyRequest struct {
	PagesOrder assemble.PageOrder               `json:"pages_order"`
	Elements   map[string][]assemble.RawElement `json:"all_elements_data"`
	Pages      []int                            `json:"pages"`
}

func decodeAssemblyRequest(r *http.Request) (*assemblyRequest, error) {
	var req assemblyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	return &req, nil
}

func (s *Service) handleMerge(w http.ResponseWriter, r *http.Request) {
	req, err := decodeAssemblyRequest(r)
	if err != nil {
		writeError(w, 400, err)
		return
	}
	res, err := s.engine.Merge(r.Context(), req.PagesOrder, req.Elements)
	if err != nil {
		writeAssemblyError(w, res, err)
		return
	}
	writePDF(w, "merged.pdf", res)
}

func (s *Service) handleExtract(w http.ResponseWriter, r *http.Request) {
	req, err := decodeAssemblyRequest(r)
	if err != nil {
		writeError(w, 400, err)
		return
	}
	if len(req.Pages) == 0 {
		writeError(w, 400, fmt.Errorf("pages is required"))
		return
	}
	res, err := s.engine.Extract(r.Context(), req.PagesOrder, req.Pages, req.Elements)
	if err != nil {
		writeAssemblyError(w, res, err)
		return
	}
	writePDF(w, "extracted.pdf", res)
}

func (s *Service) handleSplit(w http.ResponseWriter, r *http.Request) {
	req, err := decodeAssemblyRequest(r)
	if err != nil {
		writeError(w, 400, err)
		return
	}
	res, err := s.engine.Split(r.Context(), req.PagesOrder, req.Elements)
	if err != nil {
		writeError(w, 500, err)
		return
	}
	if len(res.Files) == 0 {
		writeError(w, 404, assemble.ErrNoPages)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="split_pages.zip"`)
	w.Header().Set("X-Skipped-Pages", strconv.Itoa(res.Skipped))
	if err := writeZip(w, res.Files); err != nil {
		s.logger.Error("zip stream", "error", err)
	}
}

func writeAssemblyError(w http.ResponseWriter, res *assemble.Result, err error) {
	if errors.Is(err, assemble.ErrNoPages) {
		if res != nil {
			w.Header().Set("X-Skipped-Pages", strconv.Itoa(res.Skipped))
		}
		writeError(w, 404, err)
		return
	}
	writeError(w, 500, err)
}

func writePDF(w http.ResponseWriter, filename string, res *assemble.Result) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("X-Skipped-Pages", strconv.Itoa(res.Skipped))
	w.WriteHeader(200)
	w.Write(res.PDF)
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

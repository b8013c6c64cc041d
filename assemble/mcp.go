package assemble

import (
	"context"
	"encoding/base64"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Ethan1812/pdf-edit-online/docstore"
	"github.com/Ethan1812/pdf-edit-online/idgen"
	"github.com/Ethan1812/pdf-edit-online/kit"
)

var newRequestID = idgen.Prefixed("req_", idgen.Default)

// withRequestID gives every tool call its own request id, so event records
// from the MCP surface correlate the same way HTTP requests do.
func withRequestID(next kit.Endpoint) kit.Endpoint {
	return func(ctx context.Context, req any) (any, error) {
		if kit.GetRequestID(ctx) == "" {
			ctx = kit.WithRequestID(ctx, newRequestID())
		}
		return next(ctx, req)
	}
}

var toolMiddleware = kit.Chain(withRequestID)

// MCPTools exposes the document store and assembly engine as MCP tools.
type MCPTools struct {
	store  *docstore.Store
	engine *Engine
}

// NewMCPTools bundles the store and engine for MCP registration.
func NewMCPTools(store *docstore.Store, engine *Engine) *MCPTools {
	return &MCPTools{store: store, engine: engine}
}

// RegisterMCP registers the assembly tools on an MCP server.
func (t *MCPTools) RegisterMCP(srv *mcp.Server) {
	t.registerUploadTool(srv)
	t.registerMergeTool(srv)
	t.registerExtractTool(srv)
	t.registerSplitTool(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

var pageOrderSchema = map[string]any{
	"type":        "array",
	"description": "Ordered page sequence: one {docId, pageNum} per page.",
	"items": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"docId":   map[string]any{"type": "string"},
			"pageNum": map[string]any{"type": "integer"},
		},
		"required": []string{"docId", "pageNum"},
	},
}

var elementsSchema = map[string]any{
	"type":        "object",
	"description": "Overlay elements per page, keyed by '<docId>_<pageNum>'.",
}

// --- upload ---

type uploadReq struct {
	Data string `json:"data"` // base64-encoded PDF
}

func (t *MCPTools) registerUploadTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "pdf_upload",
		Description: "Store a PDF document and return its id, page count, and page dimensions.",
		InputSchema: inputSchema(map[string]any{
			"data": map[string]any{"type": "string", "description": "Base64-encoded PDF bytes"},
		}, []string{"data"}),
	}

	endpoint := func(_ context.Context, req any) (any, error) {
		r := req.(*uploadReq)
		raw, err := base64.StdEncoding.DecodeString(r.Data)
		if err != nil {
			return nil, err
		}
		info, err := Inspect(raw)
		if err != nil {
			return nil, err
		}
		id := t.store.Put(raw)
		return map[string]any{
			"docId":     id,
			"pageCount": info.PageCount,
			"dims":      info.Dims,
		}, nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r uploadReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, toolMiddleware(endpoint), decode)
}

// --- merge ---

type assemblyReq struct {
	PagesOrder PageOrder               `json:"pages_order"`
	Elements   map[string][]RawElement `json:"all_elements_data"`
	Pages      []int                   `json:"pages"`
}

func decodeAssemblyReq(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
	var r assemblyReq
	if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
		return nil, err
	}
	return &kit.MCPDecodeResult{Request: &r}, nil
}

func (t *MCPTools) registerMergeTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "pdf_merge",
		Description: "Assemble all pages of the given page order, with overlay elements applied, into one PDF.",
		InputSchema: inputSchema(map[string]any{
			"pages_order":       pageOrderSchema,
			"all_elements_data": elementsSchema,
		}, []string{"pages_order"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*assemblyReq)
		res, err := t.engine.Merge(ctx, r.PagesOrder, r.Elements)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"pdf_base64": base64.StdEncoding.EncodeToString(res.PDF),
			"pages":      res.Pages,
			"skipped":    res.Skipped,
		}, nil
	}

	kit.RegisterMCPTool(srv, tool, toolMiddleware(endpoint), decodeAssemblyReq)
}

// --- extract ---

func (t *MCPTools) registerExtractTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "pdf_extract",
		Description: "Extract a subset of the page order (1-based positions) into one PDF.",
		InputSchema: inputSchema(map[string]any{
			"pages_order":       pageOrderSchema,
			"all_elements_data": elementsSchema,
			"pages": map[string]any{
				"type":        "array",
				"description": "1-based positions into pages_order",
				"items":       map[string]any{"type": "integer"},
			},
		}, []string{"pages_order", "pages"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*assemblyReq)
		res, err := t.engine.Extract(ctx, r.PagesOrder, r.Pages, r.Elements)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"pdf_base64": base64.StdEncoding.EncodeToString(res.PDF),
			"pages":      res.Pages,
			"skipped":    res.Skipped,
		}, nil
	}

	kit.RegisterMCPTool(srv, tool, toolMiddleware(endpoint), decodeAssemblyReq)
}

// --- split ---

func (t *MCPTools) registerSplitTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "pdf_split",
		Description: "Render each page of the page order as an independent single-page PDF.",
		InputSchema: inputSchema(map[string]any{
			"pages_order":       pageOrderSchema,
			"all_elements_data": elementsSchema,
		}, []string{"pages_order"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*assemblyReq)
		res, err := t.engine.Split(ctx, r.PagesOrder, r.Elements)
		if err != nil {
			return nil, err
		}
		files := make([]map[string]any, 0, len(res.Files))
		for _, f := range res.Files {
			files = append(files, map[string]any{
				"name":       f.Name,
				"pdf_base64": base64.StdEncoding.EncodeToString(f.Data),
			})
		}
		return map[string]any{
			"files":   files,
			"skipped": res.Skipped,
		}, nil
	}

	kit.RegisterMCPTool(srv, tool, toolMiddleware(endpoint), decodeAssemblyReq)
}

package assemble

import (
	"strings"
)

// memStore is a deterministic docstore.Reader for tests.
type memStore map[string][]byte

func (m memStore) Get(id string) ([]byte, bool) {
	data, ok := m[id]
	return data, ok
}

func (m memStore) Contains(id string) bool {
	_, ok := m[id]
	return ok
}

// buildPDF creates a valid multi-page PDF with proper xref offsets.
// Each page carries one text line so the result survives validation.
// All pages share the given MediaBox width (height fixed at 792).
func buildPDF(width float64, pageTexts ...string) []byte {
	n := len(pageTexts)
	if n == 0 {
		panic("buildPDF: need at least one page")
	}
	w := pdfItoa(int(width))

	// Object layout: 1=Catalog, 2=Pages, 3=Font,
	// then per page i: 4+2i=Page, 5+2i=Contents.
	total := 3 + 2*n
	offsets := make([]int, total+1)

	var b strings.Builder
	b.WriteString("%PDF-1.4\n")

	offsets[1] = b.Len()
	b.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")

	kids := make([]string, n)
	for i := range kids {
		kids[i] = pdfItoa(4+2*i) + " 0 R"
	}
	offsets[2] = b.Len()
	b.WriteString("2 0 obj\n<< /Type /Pages /Kids [" + strings.Join(kids, " ") +
		"] /Count " + pdfItoa(n) + " >>\nendobj\n")

	offsets[3] = b.Len()
	b.WriteString("3 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n")

	for i, text := range pageTexts {
		escaped := strings.ReplaceAll(text, `\`, `\\`)
		escaped = strings.ReplaceAll(escaped, "(", `\(`)
		escaped = strings.ReplaceAll(escaped, ")", `\)`)
		stream := "BT\n/F1 12 Tf\n72 720 Td\n(" + escaped + ") Tj\nET"

		pageObj := 4 + 2*i
		contentObj := 5 + 2*i

		offsets[pageObj] = b.Len()
		b.WriteString(pdfItoa(pageObj) +
			" 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 " + w +
			" 792] /Contents " + pdfItoa(contentObj) +
			" 0 R /Resources << /Font << /F1 3 0 R >> >> >>\nendobj\n")

		offsets[contentObj] = b.Len()
		b.WriteString(pdfItoa(contentObj) + " 0 obj\n<< /Length " +
			pdfItoa(len(stream)) + " >>\nstream\n" + stream + "\nendstream\nendobj\n")
	}

	xrefOffset := b.Len()
	b.WriteString("xref\n0 " + pdfItoa(total+1) + "\n")
	b.WriteString("0000000000 65535 f \n")
	for i := 1; i <= total; i++ {
		b.WriteString(pdfPadOffset(offsets[i]) + " 00000 n \n")
	}
	b.WriteString("trailer\n<< /Size " + pdfItoa(total+1) +
		" /Root 1 0 R >>\nstartxref\n" + pdfItoa(xrefOffset) + "\n%%EOF\n")

	return []byte(b.String())
}

func pdfItoa(n int) string {
	if n == 0 {
		return "0"
	}
	s := ""
	for n > 0 {
		s = string(rune('0'+n%10)) + s
		n /= 10
	}
	return s
}

func pdfPadOffset(n int) string {
	s := pdfItoa(n)
	for len(s) < 10 {
		s = "0" + s
	}
	return s
}

// tinyPNG is a valid 1x1 red PNG, base64-encoded without the data URL prefix.
const tinyPNGBase64 = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mP8z8BQDwAEhQGAhKmMIQAAAABJRU5ErkJggg=="

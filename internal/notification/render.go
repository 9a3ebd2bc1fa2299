package notification

import (
	"bytes"
	"embed"
	"fmt"
	"html"
	"html/template"
	"regexp"
	"strings"
)

const (
	TemplateReceipt = "payment_receipt"
	TemplateRenewal = "renewal"
	TemplateGeneric = "generic"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// ReceiptData fills the receipt and renewal templates. Money is preformatted.
type ReceiptData struct {
	PaymentID   int
	MemberName  string
	PlanName    string
	Amount      string
	Discount    string
	NetAmount   string
	Method      string
	Reference   string
	PeriodStart string
	PeriodEnd   string
}

type GenericData struct {
	Heading    string
	Paragraphs []string
}

// Render returns the HTML body and its plain-text fallback.
func Render(name string, data interface{}) (string, string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name+".html", data); err != nil {
		return "", "", fmt.Errorf("render %s: %w", name, err)
	}
	body := buf.String()
	return body, PlainText(body), nil
}

var (
	styleOrHead = regexp.MustCompile(`(?is)<(head|style)[^>]*>.*?</(head|style)>`)
	blockTag    = regexp.MustCompile(`(?i)</?(p|h[1-6]|tr|br|table|div)[^>]*>`)
	anyTag      = regexp.MustCompile(`<[^>]+>`)
	blankRuns   = regexp.MustCompile(`[ \t]+`)
	lineRuns    = regexp.MustCompile(`\n\s*\n+`)
)

// PlainText strips markup for the text/plain part.
func PlainText(s string) string {
	s = styleOrHead.ReplaceAllString(s, "")
	s = blockTag.ReplaceAllString(s, "\n")
	s = anyTag.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	s = blankRuns.ReplaceAllString(s, " ")

	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	s = strings.Join(lines, "\n")
	return strings.TrimSpace(lineRuns.ReplaceAllString(s, "\n\n"))
}

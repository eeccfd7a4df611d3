package resume

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/gabriel-vasile/mimetype"
	pdf "github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"github.com/artem13815/portfolio/pkg/apperr"
)

const (
	MediaTypePDF  = "application/pdf"
	MediaTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MediaTypeHTML = "text/html"
)

var (
	reTags     = regexp.MustCompile(`<[^>]+>`)
	reSpaces   = regexp.MustCompile(`[ \t\r\f\v]+`)
	reNewlines = regexp.MustCompile(`\n+`)
)

// ErrUnsupportedMediaType is wrapped into the extraction error for unknown formats.
var ErrUnsupportedMediaType = errors.New("unsupported media type")

// ExtractText returns the plain text of a resume given exactly one of doc or text.
// Empty output is not an error here; callers decide whether it is acceptable.
func ExtractText(doc *Document, text string) (string, error) {
	hasDoc := doc != nil && len(doc.Data) > 0
	hasText := strings.TrimSpace(text) != ""
	switch {
	case hasDoc && hasText:
		return "", apperr.InvalidInput("provide either a resume file or resume text, not both")
	case !hasDoc && !hasText:
		return "", apperr.InvalidInput("either a resume file or resume text is required")
	case hasText:
		return normalizeWhitespace(text), nil
	}
	return ParseDocument(*doc)
}

// ParseDocument picks an extraction strategy by media type, sniffing the
// content when the declared type is missing or generic.
func ParseDocument(doc Document) (string, error) {
	mediaType := DetectMediaType(doc)

	var (
		out string
		err error
	)
	switch {
	case mediaType == MediaTypePDF:
		out, err = extractTextFromPDF(doc.Data)
	case mediaType == MediaTypeDOCX:
		out, err = extractTextFromDocx(doc.Data)
	case mediaType == MediaTypeHTML:
		out, err = extractTextFromHTML(doc.Data)
	case strings.HasPrefix(mediaType, "text/"):
		if !utf8.Valid(doc.Data) {
			err = errors.New("text document is not valid UTF-8")
			break
		}
		out = normalizeWhitespace(string(doc.Data))
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedMediaType, mediaType)
	}
	if err != nil {
		return "", apperr.ExtractionFailed(err)
	}
	return out, nil
}

// DetectMediaType returns the bare media type (no parameters) of doc.
func DetectMediaType(doc Document) string {
	declared := strings.TrimSpace(doc.MediaType)
	if declared != "" {
		if mt, _, err := mime.ParseMediaType(declared); err == nil {
			declared = strings.ToLower(mt)
		}
	}
	if declared != "" && declared != "application/octet-stream" && declared != "application/zip" {
		return declared
	}

	detected := mimetype.Detect(doc.Data)
	for _, known := range []string{MediaTypePDF, MediaTypeDOCX, MediaTypeHTML} {
		if detected.Is(known) {
			return known
		}
	}
	mt, _, err := mime.ParseMediaType(detected.String())
	if err != nil {
		return detected.String()
	}
	return mt
}

// extractTextFromPDF reads text page by page in page order. Images are ignored.
func extractTextFromPDF(data []byte) (text string, err error) {
	// the pdf reader panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("corrupt pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	var buf strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		pageText, err := p.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		buf.WriteString(pageText)
		buf.WriteString("\n")
	}
	return normalizeWhitespace(buf.String()), nil
}

func extractTextFromDocx(data []byte) (string, error) {
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	defer r.Close()

	xml := r.Editable().GetContent()
	if strings.TrimSpace(xml) == "" {
		return "", errors.New("docx has no document body")
	}
	// Convert paragraph boundaries to newlines before dropping markup.
	xml = strings.ReplaceAll(xml, "</w:p>", "\n")
	xml = strings.ReplaceAll(xml, "<w:tab/>", "\t")
	xml = strings.ReplaceAll(xml, "<w:br/>", "\n")
	txt := reTags.ReplaceAllString(xml, "")
	return normalizeWhitespace(unescapeXML(txt)), nil
}

func extractTextFromHTML(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	doc.Find("script, style, noscript").Remove()
	doc.Find("p, div, li, br, tr, h1, h2, h3, h4, h5, h6, section").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})
	return normalizeWhitespace(doc.Text()), nil
}

var xmlEntities = strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`, "&apos;", "'")

func unescapeXML(s string) string { return xmlEntities.Replace(s) }

func normalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\u00A0", " ")
	s = reSpaces.ReplaceAllString(s, " ")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	s = strings.Join(lines, "\n")
	s = reNewlines.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}

package extract

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/openshelf/warden/internal/resources"
)

// maxPDFTextChars caps the extracted text included in the prompt so a
// large document cannot blow out the model's context.
const maxPDFTextChars = 4000

func (e *Extractor) extractPDF(ctx context.Context, item resources.Item) Content {
	data, ok := e.fetch(ctx, item.File)
	if !ok {
		return Content{Summary: FallbackSummary}
	}

	c := Content{SizeBytes: int64(len(data))}

	pages, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		e.logger.Warn("pdf page count failed",
			"key", item.File.StorageKey,
			"error", err,
		)
	} else {
		c.PageCount = pages
	}

	text := strings.TrimSpace(pdfText(data))
	if text == "" && c.PageCount == 0 {
		c.Summary = FallbackSummary
		return c
	}

	c.WordCount = len(strings.Fields(text))
	if len(text) > maxPDFTextChars {
		text = text[:maxPDFTextChars]
	}
	c.Summary = text

	return c
}

// pdfText extracts plain text from a PDF. The parser panics on some
// malformed files, so recovery collapses those to an empty result.
func pdfText(data []byte) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ""
	}

	reader, err := r.GetPlainText()
	if err != nil {
		return ""
	}

	var b strings.Builder
	if _, err := io.Copy(&b, reader); err != nil {
		return ""
	}

	return b.String()
}

package pdftext

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
	"go.uber.org/zap"
	rpdf "rsc.io/pdf"
)

var ErrNoPages = errors.New("document has no pages")

// Extractor reads the text of a PDF page by page. Each page is preceded by a
// "[Page N Start]" marker line.
type Extractor struct {
	log *zap.Logger
}

func NewExtractor(log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{log: log}
}

// PageMarker is the line inserted before page n's text.
func PageMarker(n int) string { return fmt.Sprintf("[Page %d Start]", n) }

// Text returns the document text. It tries ledongthuc/pdf first and falls
// back to rsc.io/pdf when the former cannot open the file.
func (e *Extractor) Text(ctx context.Context, path string) (string, error) {
	pages, err := e.plainPages(ctx, path)
	if err != nil {
		e.log.Debug("plain text extraction failed, trying content streams", zap.String("path", path), zap.Error(err))
		pages, err = e.contentPages(ctx, path)
		if err != nil {
			return "", fmt.Errorf("extract text from %s: %w", path, err)
		}
	}
	if len(pages) == 0 {
		return "", fmt.Errorf("extract text from %s: %w", path, ErrNoPages)
	}
	return e.join(pages), nil
}

func (e *Extractor) join(pages []string) string {
	var b strings.Builder
	for i, p := range pages {
		if strings.TrimSpace(p) == "" {
			e.log.Warn("no text extracted from page", zap.Int("page", i+1))
		}
		b.WriteString(PageMarker(i + 1))
		b.WriteString("\n")
		b.WriteString(p)
		b.WriteString("\n")
	}
	return b.String()
}

func (e *Extractor) plainPages(ctx context.Context, path string) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	n := reader.NumPage()
	pages = make([]string, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			e.log.Warn("page text extraction failed", zap.Int("page", i), zap.Error(err))
			continue
		}
		pages[i-1] = text
	}
	return pages, nil
}

func (e *Extractor) contentPages(ctx context.Context, path string) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()
	f, doc, err := openRSC(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	n := doc.NumPage()
	pages = make([]string, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := doc.Page(i)
		if p.V.IsNull() {
			continue
		}
		pages[i-1] = textRuns(p.Content().Text)
	}
	return pages, nil
}

func openRSC(path string) (*os.File, *rpdf.Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	doc, err := rpdf.NewReader(f, fi.Size())
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return f, doc, nil
}

// textRuns joins positioned glyph runs, starting a new line whenever the
// baseline moves.
func textRuns(runs []rpdf.Text) string {
	var b strings.Builder
	for i, t := range runs {
		if i > 0 && t.Y != runs[i-1].Y {
			b.WriteString("\n")
		}
		b.WriteString(t.S)
	}
	return b.String()
}

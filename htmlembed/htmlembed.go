// Package htmlembed rewrites generated HTML documents, replacing fenced
// diagram blocks with SVG rendered by a kroki backend.
//
// A block is any code or div element whose class carries a
// language-{lang} token for a supported diagram language. Blocks are
// scanned in a fixed language/tag/document order so runs are
// deterministic; documents are processed concurrently under a bounded
// admission limit, and one failing document never aborts its siblings.
package htmlembed

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/krokify/krokify/lib/kroki"
	"github.com/krokify/krokify/lib/log"
	"github.com/krokify/krokify/lib/svgsanitize"
	"github.com/krokify/krokify/site"
)

// diagramTags are the element names scanned for diagram source, in
// scan order.
var diagramTags = []string{"code", "div"}

// Renderer is the one operation the scanner needs from the backend
// client.
type Renderer interface {
	Render(ctx context.Context, language, source string) ([]byte, error)
}

// EmbedSite renders and embeds diagrams across every eligible document
// of s. Only a configuration error makes it fail; per-document errors
// are logged as warnings and excluded from the rendered count.
func EmbedSite(ctx context.Context, s site.Site) error {
	cfg, err := site.ResolveConfig(s)
	if err != nil {
		return err
	}
	client, err := kroki.NewClient(cfg.Config)
	if err != nil {
		return err
	}
	embedSite(ctx, s, client, cfg.Concurrency, cfg.BaseURL)
	return nil
}

func embedSite(ctx context.Context, s site.Site, r Renderer, concurrency int, baseURL string) {
	docs := site.Eligible(s.Documents())

	var total atomic.Int64
	g := new(errgroup.Group)
	g.SetLimit(concurrency)
	for _, doc := range docs {
		doc := doc
		g.Go(func() error {
			n, err := ProcessDocument(ctx, r, doc)
			if err != nil {
				log.Warn(ctx, "failed to embed diagrams", "document", doc.Name(), "err", err)
				return nil
			}
			total.Add(int64(n))
			return nil
		})
	}
	// Tasks never return errors; Wait only joins them.
	g.Wait()

	if n := total.Load(); n > 0 {
		log.Info(ctx, "diagrams rendered", "count", n, "backend", baseURL)
	}
}

// ProcessDocument renders every diagram block in doc and replaces each
// block with its sanitized SVG. The document content is rewritten once,
// after every block has rendered; the first failing block aborts the
// document and leaves its content untouched. It returns how many blocks
// were replaced.
func ProcessDocument(ctx context.Context, r Renderer, doc site.Document) (int, error) {
	tree, err := goquery.NewDocumentFromReader(strings.NewReader(doc.Content()))
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", doc.Name(), err)
	}

	count := 0
	for _, lang := range kroki.Languages {
		for _, tag := range diagramTags {
			var blockErr error
			tree.Find(fmt.Sprintf("%s.language-%s", tag, lang)).EachWithBreak(func(_ int, block *goquery.Selection) bool {
				svg, err := renderBlock(ctx, r, lang, block.Text())
				if err != nil {
					blockErr = err
					return false
				}
				block.ReplaceWithHtml(svg)
				count++
				return true
			})
			if blockErr != nil {
				return 0, fmt.Errorf("%s block in %s: %w", lang, doc.Name(), blockErr)
			}
		}
	}

	if count == 0 {
		return 0, nil
	}
	content, err := tree.Html()
	if err != nil {
		return 0, fmt.Errorf("failed to serialize %s: %w", doc.Name(), err)
	}
	doc.SetContent(content)
	return count, nil
}

func renderBlock(ctx context.Context, r Renderer, language, source string) (string, error) {
	raw, err := r.Render(ctx, language, source)
	if err != nil {
		return "", err
	}
	return svgsanitize.Sanitize(string(raw))
}

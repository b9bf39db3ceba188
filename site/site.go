// Package site models the host generator's view of a built site: the
// documents the embedder may rewrite and the configuration namespace it
// reads. The embedder never creates or destroys documents; its only
// effect is replacing a document's content once.
package site

// Document is one generated output unit.
type Document interface {
	// Name identifies the document in logs.
	Name() string
	// OutputFormat must be "HTML" for the document to be eligible.
	OutputFormat() string
	// Kind is the host's document kind, e.g. "page".
	Kind() string
	// Writable marks non-page documents that may still be rewritten.
	Writable() bool
	Content() string
	SetContent(string)
}

// Site exposes the documents of a built site and its configuration.
type Site interface {
	Documents() []Document
	// Params returns the configuration map under the given namespace
	// and whether the namespace exists.
	Params(namespace string) (map[string]any, bool)
}

// Eligible filters docs down to the ones the embedder may process:
// HTML output that is either a page or explicitly writable.
func Eligible(docs []Document) []Document {
	var out []Document
	for _, d := range docs {
		if d.OutputFormat() != "HTML" {
			continue
		}
		if d.Kind() != "page" && !d.Writable() {
			continue
		}
		out = append(out, d)
	}
	return out
}

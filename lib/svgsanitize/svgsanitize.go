// Package svgsanitize strips script elements from SVG markup returned
// by the rendering backend before it is embedded into a page.
//
// This is a minimal measure against the most direct injection vector.
// It does not neutralize event-handler attributes, external references
// or foreignObject content.
package svgsanitize

import (
	"github.com/beevik/etree"

	"oss.terrastruct.com/xdefer"
)

// Sanitize parses markup as XML, removes every script element at any
// depth and in any namespace, and re-serializes the result. It is
// idempotent.
func Sanitize(markup string) (_ string, err error) {
	defer xdefer.Errorf(&err, "failed to sanitize svg")

	doc := etree.NewDocument()
	if err := doc.ReadFromString(markup); err != nil {
		return "", err
	}
	stripScripts(&doc.Element)
	return doc.WriteToString()
}

func stripScripts(el *etree.Element) {
	for _, child := range el.ChildElements() {
		if child.Tag == "script" {
			el.RemoveChild(child)
			continue
		}
		stripScripts(child)
	}
}

package kroki

// Languages lists every diagram type the scanner recognizes, in scan
// order. It tracks the backend's support matrix by hand; the backend is
// never queried for it at runtime.
var Languages = []string{
	"actdiag",
	"blockdiag",
	"bpmn",
	"bytefield",
	"c4plantuml",
	"d2",
	"dbml",
	"ditaa",
	"erd",
	"excalidraw",
	"graphviz",
	"mermaid",
	"nomnoml",
	"nwdiag",
	"packetdiag",
	"pikchr",
	"plantuml",
	"rackdiag",
	"seqdiag",
	"structurizr",
	"svgbob",
	"symbolator",
	"tikz",
	"umlet",
	"vega",
	"vegalite",
	"wavedrom",
	"wireviz",
}

// SupportedLanguage reports whether lang is on the supported list.
func SupportedLanguage(lang string) bool {
	for _, l := range Languages {
		if l == lang {
			return true
		}
	}
	return false
}

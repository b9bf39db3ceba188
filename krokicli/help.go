package krokicli

import (
	"fmt"

	"github.com/krokify/krokify/lib/xmain"
)

func help(ms *xmain.State) {
	fmt.Fprintf(ms.Stdout, `Usage:
  %[1]s [--url https://kroki.io] [--concurrency 8] dir

%[1]s scans the generated HTML documents under dir for fenced diagram
blocks (code or div elements classed language-mermaid, language-plantuml,
language-graphviz, ...), renders each block through a kroki backend and
replaces the block with the returned SVG, in place.

Documents that fail to render are left untouched and reported as
warnings; the rest of the site is still processed.

Flags:
%s
`, ms.Name, ms.Opts.Help())
}

package main

import (
	"github.com/krokify/krokify/krokicli"
	"github.com/krokify/krokify/lib/xmain"
)

func main() {
	xmain.Main(krokicli.Run)
}

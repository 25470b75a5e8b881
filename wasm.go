//go:build js && wasm

package main

import (
	"fmt"
	"syscall/js"

	"github.com/Myriad-Dreamin/tinymist-sub003/analysis"
	"github.com/Myriad-Dreamin/tinymist-sub003/foundations"
	"github.com/Myriad-Dreamin/tinymist-sub003/syntax"
)

func main() {
	js.Global().Set("RefineTypeAt", js.FuncOf(refineTypeAt))
	js.Global().Set("ShowHints", js.FuncOf(showHints))

	// wait indefinitely so that Go does not terminate execution
	// and the functions remain available
	<-make(chan struct{})
}

// refineTypeAt takes (source, offset) and returns the refined type at that
// offset as a string, or a message when nothing is known there.
func refineTypeAt(_ js.Value, args []js.Value) (ret any) {
	defer func() {
		if r := recover(); r != nil {
			ret = "analyzer panicked: " + fmt.Sprint(r)
		}
	}()
	if len(args) < 2 {
		return "expected (source, offset)"
	}

	root, _ := syntax.Parse(args[0].String())
	leaf := root.LeafAt(args[1].Int())
	if leaf == nil {
		return "no syntax at offset"
	}

	info := analysis.SeedTypes(root, foundations.Library())
	t := analysis.PostTypeCheck(analysis.NewContext(info), info, leaf)
	if t == nil {
		t = info.TypeOfSpan(leaf.Span())
	}
	if t == nil {
		return "no type information"
	}
	return info.Simplify(t, false).String()
}

// showHints takes (source) and returns [{offset, label}] for every call.
func showHints(_ js.Value, args []js.Value) (ret any) {
	defer func() {
		if r := recover(); r != nil {
			ret = "analyzer panicked: " + fmt.Sprint(r)
		}
	}()
	if len(args) < 1 {
		return "expected (source)"
	}

	root, _ := syntax.Parse(args[0].String())
	info := analysis.SeedTypes(root, foundations.Library())

	out := []any{}
	for _, hint := range analysis.InlayHints(analysis.NewContext(info), info, root) {
		out = append(out, map[string]any{
			"offset": hint.Offset,
			"label":  hint.Label,
		})
	}
	return js.ValueOf(out)
}

//go:build js && wasm

package main

import (
	"syscall/js"

	"ternsnip/internal/adapter/signature"
	"ternsnip/internal/adapter/snippet"
)

var (
	parser *signature.Parser
	synths map[string]*snippet.Synthesizer
)

func init() {
	parser = signature.NewParser()
	synths = map[string]*snippet.Synthesizer{
		"lsp":      snippet.NewSynthesizer(snippet.WithNotation(snippet.LSP{})),
		"chocolat": snippet.NewSynthesizer(snippet.WithNotation(snippet.Chocolat{})),
	}
}

func main() {
	c := make(chan struct{})

	js.Global().Set("ternSnippet", js.FuncOf(expandSignature))
	js.Global().Set("ternRepr", js.FuncOf(reprSignature))

	<-c
}

// expandSignature(sig, notation?) returns the snippet string, or undefined
// when sig is not a function type.
func expandSignature(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError("usage: ternSnippet(signature, [notation])")
	}

	name := "lsp"
	if len(args) > 1 && args[1].Type() == js.TypeString {
		name = args[1].String()
	}
	synth, ok := synths[name]
	if !ok {
		return makeError("unknown notation: " + name)
	}

	snip, err := synth.Expand(args[0].String())
	if err != nil {
		return js.Undefined()
	}
	return snip
}

func reprSignature(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError("usage: ternRepr(signature)")
	}

	fn, err := parser.Parse(args[0].String())
	if err != nil {
		return makeError(err.Error())
	}
	if fn == nil {
		return js.Undefined()
	}
	return signature.Repr(fn)
}

func makeError(msg string) map[string]interface{} {
	return map[string]interface{}{
		"error": msg,
	}
}

// Package codelai provides a structural code-translation engine.
//
// Codelai translates the human-readable text embedded in source code (string
// literals, comments and markup text) using a term dictionary, while leaving
// every identifier, operator and expression byte-for-byte unchanged.
// JavaScript-family sources are parsed with an error-tolerant tree-sitter
// grammar, '#'-comment languages are handled by a lexical scanner and anything
// else falls back to whole-text substitution.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/ZaguanLabs/codelai"
//	    "github.com/ZaguanLabs/codelai/processor"
//	    "github.com/ZaguanLabs/codelai/termsource"
//	)
//
//	func main() {
//	    dict := codelai.NewCachedDictionary(termsource.NewFileSource("terms.yaml"))
//
//	    t := codelai.NewTranslator(dict,
//	        codelai.WithRewriter(processor.NewStructuralRewriter()),
//	        codelai.WithRewriter(processor.NewLexicalRewriter()),
//	    )
//
//	    result, err := t.Translate(context.Background(), `const msg = "fetch user";`, "js")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(result.Code) // const msg = "obtener usuario";
//	}
package codelai

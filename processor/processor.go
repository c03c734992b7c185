// Package processor provides the per-language rewriters used by the translator.
//
// Every rewriter works the same way: it locates the translatable spans of the
// source (literal interiors, comment interiors, markup text), records an edit
// for each span whose text the dictionary changes, and applies all edits in a
// single splice over the untouched original. Bytes outside recorded spans are
// never modified.
package processor

import "github.com/ZaguanLabs/codelai"

// Rewriter is an alias to the main package interface.
type Rewriter = codelai.Rewriter

// Segment is an alias to the main package type.
type Segment = codelai.Segment

// Rewriters returns one instance of every rewriter in this package.
func Rewriters() []Rewriter {
	return []Rewriter{
		NewStructuralRewriter(),
		NewLexicalRewriter(),
		NewGoRewriter(),
		NewMarkupRewriter(),
	}
}

package processor

import (
	"context"
	"strings"

	"github.com/ZaguanLabs/codelai"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// StructuralRewriter rewrites JavaScript-family sources from an
// error-tolerant tree-sitter parse. It translates quoted strings, static
// template chunks, JSX text and comments.
type StructuralRewriter struct {
	grammars map[codelai.Language]*sitter.Language
}

// NewStructuralRewriter creates a rewriter for js, jsx and ts.
func NewStructuralRewriter() *StructuralRewriter {
	return &StructuralRewriter{
		grammars: map[codelai.Language]*sitter.Language{
			codelai.LangJS:  javascript.GetLanguage(),
			codelai.LangJSX: tsx.GetLanguage(),
			codelai.LangTS:  typescript.GetLanguage(),
		},
	}
}

// Languages returns js, jsx and ts.
func (r *StructuralRewriter) Languages() []codelai.Language {
	return []codelai.Language{codelai.LangJS, codelai.LangJSX, codelai.LangTS}
}

// Rewrite parses code and translates its text nodes. A parse that yields no
// usable tree is reported as a *codelai.ProcessorError.
func (r *StructuralRewriter) Rewrite(ctx context.Context, code string, lang codelai.Language, dict *codelai.Dictionary) (*codelai.Rewrite, error) {
	grammar, ok := r.grammars[lang]
	if !ok {
		return nil, &codelai.ProcessorError{Message: "no grammar for language", Language: lang}
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(grammar)

	src := []byte(code)
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, &codelai.ProcessorError{Message: "parse failed", Cause: err, Language: lang}
	}
	if tree == nil {
		return nil, &codelai.ProcessorError{Message: "parse produced no tree", Language: lang}
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil || root.Type() == "ERROR" {
		return nil, &codelai.ProcessorError{Message: "source is not parseable", Language: lang}
	}

	w := &treeWalk{src: code, dict: dict, edits: newEditSet(code)}
	w.visit(root, nil, "")
	return w.edits.apply(), nil
}

// translatableAttributes lists JSX attributes whose value is UI text.
var translatableAttributes = map[string]bool{
	"title":            true,
	"alt":              true,
	"placeholder":      true,
	"label":            true,
	"summary":          true,
	"aria-label":       true,
	"aria-description": true,
	"aria-placeholder": true,
}

// skippedStringFields are node fields whose string names code, not text.
var skippedStringFields = map[string]bool{
	"source": true, // import/export specifiers
	"key":    true, // object property keys
	"name":   true, // property signatures, method and module names
	"index":  true, // obj["key"]
}

// skippedStringParents are parents whose string children are structural.
var skippedStringParents = map[string]bool{
	"literal_type":          true,
	"expression_statement":  true, // directives such as "use strict"
	"import_statement":      true,
	"export_statement":      true,
	"import_require_clause": true,
}

type treeWalk struct {
	src   string
	dict  *codelai.Dictionary
	edits *editSet
}

func (w *treeWalk) visit(n *sitter.Node, parent *sitter.Node, field string) {
	switch n.Type() {
	case "comment":
		w.comment(n)
		return
	case "string":
		w.quoted(n, parent, field)
		return
	case "template_string":
		// Substitutions are code and are never entered.
		tagged := parent != nil && parent.Type() == "call_expression" && field == "arguments"
		if !tagged {
			w.template(n)
		}
		return
	case "jsx_text":
		w.markupText(n)
		return
	case "call_expression":
		if w.isModuleCall(n) {
			w.visitModuleCall(n)
			return
		}
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		w.visit(child, n, n.FieldNameForChild(i))
	}
}

// isModuleCall reports require(...) and import(...) calls.
func (w *treeWalk) isModuleCall(n *sitter.Node) bool {
	fn := n.ChildByFieldName("function")
	if fn == nil {
		return false
	}
	switch fn.Type() {
	case "import":
		return true
	case "identifier":
		return w.text(fn) == "require"
	}
	return false
}

// visitModuleCall walks a module call without translating its direct
// string arguments.
func (w *treeWalk) visitModuleCall(n *sitter.Node) {
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		if child.Type() != "arguments" {
			w.visit(child, n, n.FieldNameForChild(i))
			continue
		}
		for j := 0; j < int(child.ChildCount()); j++ {
			arg := child.Child(j)
			if arg == nil || arg.Type() == "string" || arg.Type() == "template_string" {
				continue
			}
			w.visit(arg, child, child.FieldNameForChild(j))
		}
	}
}

func (w *treeWalk) text(n *sitter.Node) string {
	return w.src[n.StartByte():n.EndByte()]
}

func (w *treeWalk) quoted(n, parent *sitter.Node, field string) {
	if skippedStringFields[field] {
		return
	}
	if parent != nil && skippedStringParents[parent.Type()] {
		return
	}

	start, end := int(n.StartByte()), int(n.EndByte())
	if end-start < 2 {
		return
	}
	quote := w.src[start]
	if (quote != '"' && quote != '\'') || w.src[end-1] != quote {
		return
	}
	bodyStart, bodyEnd := start+1, end-1
	body := w.src[bodyStart:bodyEnd]

	if parent != nil && parent.Type() == "jsx_attribute" {
		w.attribute(parent, bodyStart, bodyEnd, body, quote)
		return
	}

	value, ok := decodeJS(body)
	if !ok {
		return
	}
	translated := w.dict.Apply(value)
	if translated == value {
		return
	}
	w.edits.add(codelai.KindString, bodyStart, bodyEnd, value, translated, escapeJSQuoted(translated, quote))
}

// attribute translates JSX attribute values, which carry no escapes.
func (w *treeWalk) attribute(attr *sitter.Node, start, end int, body string, quote byte) {
	if attr.ChildCount() == 0 {
		return
	}
	name := attr.Child(0)
	if name == nil || !translatableAttributes[w.text(name)] {
		return
	}
	translated := w.dict.Apply(body)
	if translated == body || introducesAny(body, translated, string(quote)) {
		return
	}
	w.edits.add(codelai.KindString, start, end, body, translated, translated)
}

// template translates each static chunk between substitutions.
func (w *treeWalk) template(n *sitter.Node) {
	start, end := int(n.StartByte()), int(n.EndByte())
	if end-start < 2 || w.src[start] != '`' || w.src[end-1] != '`' {
		return
	}

	chunkStart := start + 1
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil || child.Type() != "template_substitution" {
			continue
		}
		w.templateChunk(chunkStart, int(child.StartByte()))
		chunkStart = int(child.EndByte())
	}
	w.templateChunk(chunkStart, end-1)
}

func (w *treeWalk) templateChunk(start, end int) {
	if start >= end {
		return
	}
	raw := w.src[start:end]
	value, ok := decodeJS(raw)
	if !ok {
		return
	}
	translated := w.dict.Apply(value)
	if translated == value {
		return
	}
	w.edits.add(codelai.KindString, start, end, value, translated, escapeJSTemplate(translated))
}

func (w *treeWalk) markupText(n *sitter.Node) {
	text := w.text(n)
	if strings.TrimSpace(text) == "" {
		return
	}
	translated := w.dict.Apply(text)
	if translated == text || strings.ContainsAny(translated, "{}<>") {
		return
	}
	w.edits.add(codelai.KindString, int(n.StartByte()), int(n.EndByte()), text, translated, translated)
}

func (w *treeWalk) comment(n *sitter.Node) {
	start, end := int(n.StartByte()), int(n.EndByte())
	raw := w.src[start:end]

	var bodyStart, bodyEnd int
	block := false
	switch {
	case strings.HasPrefix(raw, "//"):
		bodyStart, bodyEnd = start+2, end
		for bodyEnd > bodyStart && w.src[bodyEnd-1] == '\r' {
			bodyEnd--
		}
	case strings.HasPrefix(raw, "/*") && strings.HasSuffix(raw, "*/") && len(raw) >= 4:
		bodyStart, bodyEnd = start+2, end-2
		block = true
	default:
		return
	}

	body := w.src[bodyStart:bodyEnd]
	translated := w.dict.Apply(body)
	if translated == body {
		return
	}

	replacement := translated
	if block {
		replacement = strings.ReplaceAll(replacement, "*/", "* /")
	} else {
		replacement = strings.NewReplacer("\r", " ", "\n", " ").Replace(replacement)
	}
	w.edits.add(codelai.KindComment, bodyStart, bodyEnd, body, translated, replacement)
}

var _ Rewriter = (*StructuralRewriter)(nil)

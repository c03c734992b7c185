package processor

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/ZaguanLabs/codelai"
	"golang.org/x/net/html"
)

// voidElements never have content or end tags.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true, "hr": true, "img": true,
	"input": true, "link": true, "meta": true, "param": true, "source": true, "track": true, "wbr": true,
}

// MarkupRewriter rewrites HTML documents and fragments. It translates text
// nodes and comment interiors in place, tracking byte offsets through the
// tokenizer so markup outside those spans is preserved exactly.
type MarkupRewriter struct {
	ignoredTags map[string]bool
}

// NewMarkupRewriter creates a new HTML rewriter with default ignored tags.
func NewMarkupRewriter() *MarkupRewriter {
	return &MarkupRewriter{
		ignoredTags: codelai.IgnoredTags,
	}
}

// NewMarkupRewriterWithIgnoredTags creates a new HTML rewriter with custom ignored tags.
func NewMarkupRewriterWithIgnoredTags(tags []string) *MarkupRewriter {
	ignored := make(map[string]bool)
	for _, tag := range tags {
		ignored[strings.ToLower(tag)] = true
	}
	return &MarkupRewriter{
		ignoredTags: ignored,
	}
}

// Languages returns html.
func (r *MarkupRewriter) Languages() []codelai.Language {
	return []codelai.Language{codelai.LangHTML}
}

// Rewrite tokenizes code and translates its text and comments. Text inside
// ignored tags or elements carrying data-no-translate is left alone.
func (r *MarkupRewriter) Rewrite(ctx context.Context, code string, lang codelai.Language, dict *codelai.Dictionary) (*codelai.Rewrite, error) {
	z := html.NewTokenizer(strings.NewReader(code))
	edits := newEditSet(code)

	// Open elements that suppress translation, innermost last.
	var skip []string
	offset := 0

	for {
		tt := z.Next()
		raw := string(z.Raw())
		start := offset
		offset += len(raw)

		switch tt {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return edits.apply(), nil
			}
			return nil, &codelai.ProcessorError{Message: "tokenizing markup", Cause: z.Err(), Language: lang}

		case html.StartTagToken:
			name, noTranslate := r.startTag(z)
			if voidElements[name] {
				continue
			}
			if len(skip) > 0 || r.ignoredTags[name] || noTranslate {
				skip = append(skip, name)
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			skip = popElement(skip, string(name))

		case html.TextToken:
			if len(skip) > 0 || strings.TrimSpace(raw) == "" {
				continue
			}
			translated := dict.Apply(raw)
			if translated == raw || introducesAny(raw, translated, "<&") {
				continue
			}
			edits.add(codelai.KindString, start, offset, raw, translated, translated)

		case html.CommentToken:
			if !strings.HasPrefix(raw, "<!--") || !strings.HasSuffix(raw, "-->") || len(raw) < 7 {
				continue
			}
			bodyStart, bodyEnd := start+4, offset-3
			body := code[bodyStart:bodyEnd]
			if strings.HasPrefix(strings.TrimSpace(body), "[if") {
				continue
			}
			translated := dict.Apply(body)
			if translated == body {
				continue
			}
			edits.add(codelai.KindComment, bodyStart, bodyEnd, body, translated, strings.ReplaceAll(translated, "-->", "-- >"))
		}
	}
}

// startTag returns the lowercased tag name and whether it carries data-no-translate.
func (r *MarkupRewriter) startTag(z *html.Tokenizer) (string, bool) {
	name, hasAttr := z.TagName()
	tag := string(name)
	noTranslate := false
	for hasAttr {
		var key []byte
		key, _, hasAttr = z.TagAttr()
		if string(key) == "data-no-translate" {
			noTranslate = true
		}
	}
	return tag, noTranslate
}

// popElement closes name and anything opened inside it. Unmatched end tags
// leave the stack unchanged.
func popElement(stack []string, name string) []string {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == name {
			return stack[:i]
		}
	}
	return stack
}

var _ Rewriter = (*MarkupRewriter)(nil)

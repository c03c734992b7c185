package processor

import (
	"context"
	"go/scanner"
	"go/token"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/ZaguanLabs/codelai"
)

// GoRewriter rewrites Go source from the token stream of go/scanner.
// It translates interpreted and raw string literals and comments; import
// paths, struct tags and tool directives are left alone.
type GoRewriter struct {
	translateComments bool
	translateStrings  bool
}

// GoRewriterOption configures the Go rewriter.
type GoRewriterOption func(*GoRewriter)

// WithComments enables/disables comment translation.
func WithComments(enabled bool) GoRewriterOption {
	return func(r *GoRewriter) {
		r.translateComments = enabled
	}
}

// WithStrings enables/disables string literal translation.
func WithStrings(enabled bool) GoRewriterOption {
	return func(r *GoRewriter) {
		r.translateStrings = enabled
	}
}

// NewGoRewriter creates a new Go source rewriter.
func NewGoRewriter(opts ...GoRewriterOption) *GoRewriter {
	r := &GoRewriter{
		translateComments: true,
		translateStrings:  true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Languages returns go.
func (r *GoRewriter) Languages() []codelai.Language {
	return []codelai.Language{codelai.LangGo}
}

// Rewrite scans code and translates its literals and comments. Scanner
// errors are tolerated: the offending token is skipped.
func (r *GoRewriter) Rewrite(ctx context.Context, code string, lang codelai.Language, dict *codelai.Dictionary) (*codelai.Rewrite, error) {
	src := []byte(code)
	fset := token.NewFileSet()
	file := fset.AddFile("source.go", fset.Base(), len(src))

	var s scanner.Scanner
	s.Init(file, src, func(token.Position, string) {}, scanner.ScanComments)

	edits := newEditSet(code)
	var prev token.Token
	inImport := false
	importParen := false

	for {
		pos, tok, lit := s.Scan()
		if tok == token.EOF {
			break
		}
		offset := file.Offset(pos)

		switch tok {
		case token.COMMENT:
			if r.translateComments {
				r.comment(edits, code, offset, dict)
			}
			continue
		case token.IMPORT:
			inImport = true
		case token.LPAREN:
			if inImport && prev == token.IMPORT {
				importParen = true
			}
		case token.RPAREN:
			if importParen {
				inImport, importParen = false, false
			}
		case token.SEMICOLON:
			if inImport && !importParen {
				inImport = false
			}
		case token.STRING:
			if r.translateStrings && !inImport {
				r.literal(edits, code, offset, lit, dict)
			}
		}
		prev = tok
	}

	return edits.apply(), nil
}

// structTag matches the conventional key:"value" struct tag syntax.
var structTag = regexp.MustCompile(`^\s*([A-Za-z_][\w.-]*:"[^"]*"\s*)+$`)

func (r *GoRewriter) literal(edits *editSet, code string, offset int, lit string, dict *codelai.Dictionary) {
	if len(lit) < 2 {
		return
	}

	if lit[0] == '`' {
		end := strings.IndexByte(code[offset+1:], '`')
		if end < 0 {
			return
		}
		start, stop := offset+1, offset+1+end
		body := code[start:stop]
		if structTag.MatchString(body) || !isTranslatableString(body) {
			return
		}
		translated := dict.Apply(body)
		if translated == body || strings.Contains(translated, "`") {
			return
		}
		edits.add(codelai.KindString, start, stop, body, translated, translated)
		return
	}

	if lit[0] != '"' {
		return
	}
	value, err := strconv.Unquote(lit)
	if err != nil || structTag.MatchString(value) || !isTranslatableString(value) {
		return
	}
	translated := dict.Apply(value)
	if translated == value {
		return
	}
	edits.add(codelai.KindString, offset+1, offset+len(lit)-1, value, translated, escapeString(translated))
}

func (r *GoRewriter) comment(edits *editSet, code string, offset int, dict *codelai.Dictionary) {
	rest := code[offset:]

	var start, end int
	block := false
	switch {
	case strings.HasPrefix(rest, "//"):
		start = offset + 2
		end = len(code)
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			end = offset + nl
		}
		for end > start && code[end-1] == '\r' {
			end--
		}
	case strings.HasPrefix(rest, "/*"):
		closeAt := strings.Index(rest[2:], "*/")
		if closeAt < 0 {
			return
		}
		start, end = offset+2, offset+2+closeAt
		block = true
	default:
		return
	}

	body := code[start:end]
	if isDirective(body) {
		return
	}
	translated := dict.Apply(body)
	if translated == body {
		return
	}

	replacement := translated
	if block {
		replacement = strings.ReplaceAll(replacement, "*/", "* /")
	} else {
		replacement = strings.NewReplacer("\r", " ", "\n", " ").Replace(replacement)
	}
	edits.add(codelai.KindComment, start, end, body, translated, replacement)
}

// isDirective reports //go:, //line, //export, //nolint and +build comments.
func isDirective(body string) bool {
	for _, p := range []string{"go:", "line ", "export ", "nolint", "+build", "extern ", "#cgo"} {
		if strings.HasPrefix(body, p) {
			return true
		}
	}
	return false
}

// isTranslatableString rejects values that read as identifiers rather than
// prose: slash-separated paths without spaces, short format verbs, single
// upper-case tokens, and anything without a letter.
func isTranslatableString(s string) bool {
	if len(s) < 2 {
		return false
	}
	spaced := strings.ContainsRune(s, ' ')
	switch {
	case !spaced && strings.ContainsRune(s, '/'):
		return false
	case len(s) < 5 && s[0] == '%':
		return false
	case !spaced && strings.ToUpper(s) == s:
		return false
	}
	return strings.IndexFunc(s, unicode.IsLetter) >= 0
}

// escapeString escapes a string for use in an interpreted Go string literal.
func escapeString(s string) string {
	q := strconv.Quote(s)
	return q[1 : len(q)-1]
}

var _ Rewriter = (*GoRewriter)(nil)

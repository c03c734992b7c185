package processor

import (
	"context"
	"regexp"
	"strings"

	"github.com/ZaguanLabs/codelai"
)

// lexSyntax describes the literal and comment rules of one '#'-comment language.
type lexSyntax struct {
	prefixes string // Lowercase string prefix letters
	triple   bool   // Triple-quoted strings exist
	decode   bool   // Non-raw literals are decoded and re-escaped

	// escapes reports whether backslash escapes apply inside a literal.
	escapes func(quote byte) bool

	// commentAt reports whether '#' at src[i] starts a comment.
	commentAt func(src string, i int) bool
}

var lexSyntaxes = map[codelai.Language]lexSyntax{
	codelai.LangPython: {
		prefixes:  "rbuf",
		triple:    true,
		decode:    true,
		escapes:   func(byte) bool { return true },
		commentAt: func(string, int) bool { return true },
	},
	codelai.LangRuby: {
		escapes:   func(byte) bool { return true },
		commentAt: func(string, int) bool { return true },
	},
	codelai.LangShell: {
		escapes: func(quote byte) bool { return quote == '"' },
		commentAt: func(src string, i int) bool {
			return i == 0 || strings.IndexByte(" \t\n;&|()", src[i-1]) >= 0
		},
	},
}

// LexicalRewriter rewrites python, ruby and shell sources with a single
// left-to-right scan. It translates '#' comment interiors and string literal
// interiors; interpolations inside literals are translated as text.
type LexicalRewriter struct{}

// NewLexicalRewriter creates a rewriter for python, ruby and shell.
func NewLexicalRewriter() *LexicalRewriter {
	return &LexicalRewriter{}
}

// Languages returns python, ruby and shell.
func (r *LexicalRewriter) Languages() []codelai.Language {
	return []codelai.Language{codelai.LangPython, codelai.LangRuby, codelai.LangShell}
}

// Rewrite scans code and translates its comments and literals. The scanner
// never fails: text it cannot classify is left alone.
func (r *LexicalRewriter) Rewrite(ctx context.Context, code string, lang codelai.Language, dict *codelai.Dictionary) (*codelai.Rewrite, error) {
	syntax, ok := lexSyntaxes[lang]
	if !ok {
		return nil, &codelai.ProcessorError{Message: "no lexical syntax for language", Language: lang}
	}

	s := &lexScanner{src: code, syntax: syntax, dict: dict, edits: newEditSet(code)}
	s.run()
	return s.edits.apply(), nil
}

type lexState int

const (
	stateDefault lexState = iota
	stateComment
	stateString
)

// literal is the string literal being scanned.
type literal struct {
	contentStart int    // Offset just past the opening delimiter
	prefix       string // Lowercased prefix letters
	quote        byte
	delim        string // Closing delimiter: one or three quotes
	escapes      bool
}

func (l literal) triple() bool {
	return len(l.delim) == 3
}

func (l literal) raw() bool {
	return strings.ContainsRune(l.prefix, 'r')
}

func (l literal) bytes() bool {
	return strings.ContainsRune(l.prefix, 'b')
}

type lexScanner struct {
	src    string
	syntax lexSyntax
	dict   *codelai.Dictionary
	edits  *editSet
}

func (s *lexScanner) run() {
	src := s.src
	state := stateDefault
	var lit literal
	commentStart := 0

	for i := 0; ; {
		if i >= len(src) {
			if state == stateString {
				// Unterminated: not a literal. Resume after the opening delimiter.
				i = lit.contentStart
				state = stateDefault
				continue
			}
			break
		}

		c := src[i]
		switch state {
		case stateDefault:
			switch {
			case c == '#' && s.syntax.commentAt(src, i):
				state = stateComment
				commentStart = i + 1
				i++
			case c == '\'' || c == '"':
				lit = s.open(i)
				state = stateString
				i = lit.contentStart
			default:
				i++
			}

		case stateComment:
			if c == '\n' {
				s.comment(commentStart, i)
				state = stateDefault
			}
			i++

		case stateString:
			switch {
			case c == '\\' && lit.escapes:
				i += 2
			case c == '\n' && !lit.triple():
				i = lit.contentStart
				state = stateDefault
			case c == lit.quote && strings.HasPrefix(src[i:], lit.delim):
				s.literal(lit, i)
				i += len(lit.delim)
				state = stateDefault
			default:
				i++
			}
		}
	}

	if state == stateComment {
		s.comment(commentStart, len(src))
	}
}

// open reads the prefix and delimiter of a literal whose quote is at q.
func (s *lexScanner) open(q int) literal {
	src := s.src
	quote := src[q]

	j := q
	for j > 0 && q-j < 2 && strings.IndexByte(s.syntax.prefixes, lower(src[j-1])) >= 0 {
		j--
	}
	prefix := ""
	if j < q && (j == 0 || !isIdentByte(src[j-1])) {
		prefix = strings.ToLower(src[j:q])
	}

	delim := string(quote)
	if s.syntax.triple && strings.HasPrefix(src[q:], strings.Repeat(delim, 3)) {
		delim = strings.Repeat(delim, 3)
	}

	l := literal{
		contentStart: q + len(delim),
		prefix:       prefix,
		quote:        quote,
		delim:        delim,
	}
	l.escapes = s.syntax.escapes(quote) && !l.raw()
	return l
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}

func (s *lexScanner) literal(lit literal, end int) {
	start := lit.contentStart
	body := s.src[start:end]
	if strings.TrimSpace(body) == "" {
		return
	}

	if s.syntax.decode && !lit.raw() {
		if value, ok := decodePython(body, lit.bytes()); ok {
			translated := s.dict.Apply(value)
			if translated == value || (lit.bytes() && !isASCII(translated)) {
				return
			}
			s.edits.add(codelai.KindString, start, end, value, translated, escapePython(translated, lit.quote, lit.triple()))
			return
		}
	}

	// Verbatim: the body is rewritten only if the translation needs no escaping.
	translated := s.dict.Apply(body)
	if translated == body || (lit.bytes() && !isASCII(translated)) {
		return
	}
	special := `\` + string(lit.quote)
	if !lit.triple() {
		special += "\r\n"
	}
	if introducesAny(body, translated, special) {
		return
	}
	s.edits.add(codelai.KindString, start, end, body, translated, translated)
}

// pragmaComment matches tool directives that must keep their exact text.
var pragmaComment = regexp.MustCompile(`^\s*(!|-\*-|noqa\b|shellcheck\s|(type|pylint|pyright|mypy|fmt|isort|pragma|rubocop|vim?|frozen_string_literal|encoding|coding)\s*[:=])`)

func (s *lexScanner) comment(start, end int) {
	for end > start && s.src[end-1] == '\r' {
		end--
	}
	body := s.src[start:end]
	if pragmaComment.MatchString(body) {
		return
	}

	translated := s.dict.Apply(body)
	if translated == body {
		return
	}
	replacement := strings.NewReplacer("\r", " ", "\n", " ").Replace(translated)
	s.edits.add(codelai.KindComment, start, end, body, translated, replacement)
}

var _ Rewriter = (*LexicalRewriter)(nil)

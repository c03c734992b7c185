package codelai

// Language is a canonical language tag used to select a rewriter.
type Language string

const (
	// LangJS is plain JavaScript (JSX allowed).
	LangJS Language = "js"
	// LangJSX is JavaScript or TypeScript with markup.
	LangJSX Language = "jsx"
	// LangTS is TypeScript.
	LangTS Language = "ts"
	// LangPython is Python.
	LangPython Language = "python"
	// LangRuby is Ruby.
	LangRuby Language = "ruby"
	// LangShell is a POSIX-like shell script.
	LangShell Language = "shell"
	// LangGo is Go.
	LangGo Language = "go"
	// LangHTML is an HTML document or fragment.
	LangHTML Language = "html"
	// LangPlain is anything without a dedicated rewriter.
	LangPlain Language = "plain"
)

// SegmentKind classifies a rewritten span.
type SegmentKind string

const (
	// KindString covers string literals, template chunks and markup text nodes.
	KindString SegmentKind = "string"
	// KindComment covers line and block comments.
	KindComment SegmentKind = "comment"
	// KindText is the single aggregate segment reported by the plain-text fallback.
	KindText SegmentKind = "text"
)

// Segment is one contiguous span whose text changed.
// Offsets are byte offsets into the original source.
type Segment struct {
	Kind        SegmentKind `json:"kind"`
	Original    string      `json:"original"`
	Translated  string      `json:"translated"`
	StartOffset int         `json:"startOffset"`
	EndOffset   int         `json:"endOffset"`
}

// Result is the outcome of a single Translate call.
type Result struct {
	Language            Language  `json:"language"`
	Code                string    `json:"code"`
	UsedFallback        bool      `json:"usedFallback"`
	Segments            []Segment `json:"segments"`
	StringReplacements  int       `json:"stringReplacements"`
	CommentReplacements int       `json:"commentReplacements"`
}

// Rewrite is what a Rewriter produces for one source snippet.
type Rewrite struct {
	Code                string
	Segments            []Segment
	StringReplacements  int
	CommentReplacements int
}

// TermRecord is one record of the upstream term collection.
type TermRecord struct {
	Term        string   `json:"term" yaml:"term"`
	Translation string   `json:"translation" yaml:"translation"`
	Aliases     []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
}

// IgnoredTags contains HTML tags whose content should not be translated.
var IgnoredTags = map[string]bool{
	"script":   true,
	"style":    true,
	"code":     true,
	"pre":      true,
	"textarea": true,
	"noscript": true,
}

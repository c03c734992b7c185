package processor

import (
	"sort"
	"strings"

	"github.com/ZaguanLabs/codelai"
)

// edit replaces src[start:end] with text and reports seg.
type edit struct {
	start int
	end   int
	text  string
	seg   Segment
}

// editSet collects edits from independent passes over one source.
type editSet struct {
	src   string
	edits []edit
}

func newEditSet(src string) *editSet {
	return &editSet{src: src}
}

// add records a replacement of src[start:end]. original and translated are
// the human-readable forms reported in the segment; replacement is the
// source text spliced in.
func (s *editSet) add(kind codelai.SegmentKind, start, end int, original, translated, replacement string) {
	if start < 0 || end > len(s.src) || start > end {
		return
	}
	s.edits = append(s.edits, edit{
		start: start,
		end:   end,
		text:  replacement,
		seg: Segment{
			Kind:        kind,
			Original:    original,
			Translated:  translated,
			StartOffset: start,
			EndOffset:   end,
		},
	})
}

// apply splices every edit into the source in one linear pass.
// Edits overlapping an earlier one are dropped.
func (s *editSet) apply() *codelai.Rewrite {
	sort.SliceStable(s.edits, func(i, j int) bool {
		return s.edits[i].start < s.edits[j].start
	})

	out := &codelai.Rewrite{Segments: make([]Segment, 0, len(s.edits))}

	var b strings.Builder
	b.Grow(len(s.src))
	pos := 0
	for _, e := range s.edits {
		if e.start < pos {
			continue
		}
		b.WriteString(s.src[pos:e.start])
		b.WriteString(e.text)
		pos = e.end

		out.Segments = append(out.Segments, e.seg)
		switch e.seg.Kind {
		case codelai.KindComment:
			out.CommentReplacements++
		default:
			out.StringReplacements++
		}
	}
	b.WriteString(s.src[pos:])

	out.Code = b.String()
	return out
}

// introducesAny reports whether translated contains more of any byte in set
// than original does.
func introducesAny(original, translated, set string) bool {
	for i := 0; i < len(set); i++ {
		c := set[i : i+1]
		if strings.Count(translated, c) > strings.Count(original, c) {
			return true
		}
	}
	return false
}

func isIdentByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c >= 0x80
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

package codelai

import (
	"regexp"
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/go-enry/go-enry/v2"
)

// languageAliases maps lowercased hints to canonical tags.
var languageAliases = map[string]Language{
	"js":         LangJS,
	"javascript": LangJS,
	"mjs":        LangJS,
	"cjs":        LangJS,
	"node":       LangJS,
	"jsx":        LangJSX,
	"tsx":        LangJSX,
	"react":      LangJSX,
	"ts":         LangTS,
	"typescript": LangTS,
	"mts":        LangTS,
	"cts":        LangTS,
	"py":         LangPython,
	"python":     LangPython,
	"python3":    LangPython,
	"rb":         LangRuby,
	"ruby":       LangRuby,
	"sh":         LangShell,
	"bash":       LangShell,
	"zsh":        LangShell,
	"shell":      LangShell,
	"go":         LangGo,
	"golang":     LangGo,
	"html":       LangHTML,
	"htm":        LangHTML,
	"xhtml":      LangHTML,
	"plain":      LangPlain,
	"text":       LangPlain,
}

// NormalizeLanguage maps a language hint to its canonical tag.
// Unknown hints become LangPlain.
func NormalizeLanguage(hint string) Language {
	if lang, ok := languageAliases[strings.ToLower(strings.TrimSpace(hint))]; ok {
		return lang
	}
	return LangPlain
}

var (
	// Balanced tag pair with the same name, a fragment, or a self-closing component.
	markupPattern = regexp2.MustCompile(
		`<([A-Za-z][\w.\-]*)(?:\s[^<>]*)?>[\s\S]*?</\1\s*>|<>[\s\S]*?</>|<[A-Z][\w.]*(?:\s[^<>]*)?/>`,
		regexp2.None,
	)

	pythonPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?m)^[ \t]*def[ \t]+\w+[ \t]*\(`),
		regexp.MustCompile(`(?m)^[ \t]*class[ \t]+\w+[ \t]*(\([^)\n]*\))?[ \t]*:`),
		regexp.MustCompile(`(?m)^[ \t]*import[ \t]+[\w.]+([ \t]+as[ \t]+\w+)?([ \t]*,[ \t]*[\w.]+)*[ \t]*$`),
		regexp.MustCompile(`(?m)^[ \t]*from[ \t]+[\w.]+[ \t]+import[ \t]+`),
		regexp.MustCompile(`(?m)^[ \t]*(if|elif|else|for|while|try|except|finally|with)\b[^\n]*:[ \t]*(#[^\n]*)?\n[ \t]+\S`),
		regexp.MustCompile(`(?m)^[ \t]*#[ \t]`),
	}

	typePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\binterface[ \t]+[A-Za-z_$][\w$]*`),
		regexp.MustCompile(`\btype[ \t]+[A-Za-z_$][\w$]*(<[^>\n]*>)?[ \t]*=`),
		regexp.MustCompile(`:[ \t]*(string|number|boolean|any|void|unknown|never)\b`),
	}
)

// DetectLanguage resolves the language of code. A non-empty hint always wins
// and is normalized; otherwise ordered heuristics classify the source.
func DetectLanguage(code, hint string) Language {
	if strings.TrimSpace(hint) != "" {
		return NormalizeLanguage(hint)
	}

	if ok, _ := markupPattern.MatchString(code); ok {
		return LangJSX
	}
	if matchesAny(pythonPatterns, code) {
		return LangPython
	}
	if matchesAny(typePatterns, code) {
		return LangTS
	}
	return LangJS
}

func matchesAny(patterns []*regexp.Regexp, code string) bool {
	for _, p := range patterns {
		if p.MatchString(code) {
			return true
		}
	}
	return false
}

// LanguageForFile returns a language hint for a file name, or "" when the
// extension is unknown or maps to more than one supported language.
func LanguageForFile(filename string) string {
	var hint string
	for _, name := range enry.GetLanguagesByExtension(filename, nil, nil) {
		name = strings.ToLower(name)
		if _, ok := languageAliases[name]; !ok {
			continue
		}
		if hint != "" && NormalizeLanguage(hint) != NormalizeLanguage(name) {
			return ""
		}
		hint = name
	}
	return hint
}

package codelai

import "testing"

func TestNormalizeLanguage(t *testing.T) {
	tests := []struct {
		hint     string
		expected Language
	}{
		{"javascript", LangJS},
		{"JS", LangJS},
		{"mjs", LangJS},
		{"node", LangJS},
		{"tsx", LangJSX},
		{"React", LangJSX},
		{"typescript", LangTS},
		{"mts", LangTS},
		{"py", LangPython},
		{"python3", LangPython},
		{"rb", LangRuby},
		{"bash", LangShell},
		{"zsh", LangShell},
		{"golang", LangGo},
		{"htm", LangHTML},
		{"  python  ", LangPython},
		{"cobol", LangPlain}, // unsupported
		{"", LangPlain},
	}

	for _, tt := range tests {
		t.Run(tt.hint, func(t *testing.T) {
			result := NormalizeLanguage(tt.hint)
			if result != tt.expected {
				t.Errorf("NormalizeLanguage(%q) = %q, want %q", tt.hint, result, tt.expected)
			}
		})
	}
}

func TestDetectLanguage_HintWins(t *testing.T) {
	code := "def greet():\n    return 1\n"
	if got := DetectLanguage(code, "ts"); got != LangTS {
		t.Errorf("DetectLanguage with hint ts = %q, want ts", got)
	}
	if got := DetectLanguage(code, "fortran"); got != LangPlain {
		t.Errorf("DetectLanguage with unknown hint = %q, want plain", got)
	}
}

func TestDetectLanguage_Heuristics(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected Language
	}{
		{"balanced tag", "return <div className=\"x\">hello</div>;", LangJSX},
		{"self-closing component", "const el = <Avatar user={u} />;", LangJSX},
		{"fragment", "return <>hi</>;", LangJSX},
		{"lowercase self-closing is not enough", "a = b </c/>", LangJS},
		{"def", "def fetch_user(id):\n    pass\n", LangPython},
		{"class with colon", "class User(Base):\n    pass\n", LangPython},
		{"bare import", "import os\n", LangPython},
		{"from import", "from typing import List\n", LangPython},
		{"block keyword", "if ready:\n    go()\n", LangPython},
		{"hash comment", "# fetch user from db\nmessage = \"welcome user\"\n", LangPython},
		{"js class is not python", "class User {\n  constructor() {}\n}\n", LangJS},
		{"interface", "interface User { name: string }", LangTS},
		{"type alias", "type ID = number;", LangTS},
		{"annotation", "let count: number = 0;", LangTS},
		{"plain js", "const msg = \"fetch user\";", LangJS},
		{"js import from", "import x from './x';", LangJS},
		{"private field", "class A {\n  #count = 0;\n}\n", LangJS},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DetectLanguage(tt.code, "")
			if result != tt.expected {
				t.Errorf("DetectLanguage(%q) = %q, want %q", tt.code, result, tt.expected)
			}
		})
	}
}

func TestDetectLanguage_Deterministic(t *testing.T) {
	code := "const a = 1;\n"
	first := DetectLanguage(code, "")
	for i := 0; i < 10; i++ {
		if got := DetectLanguage(code, ""); got != first {
			t.Fatalf("DetectLanguage not deterministic: %q then %q", first, got)
		}
	}
}

func TestLanguageForFile(t *testing.T) {
	tests := []struct {
		filename string
		expected Language
	}{
		{"app.js", LangJS},
		{"app.ts", LangTS},
		{"main.py", LangPython},
		{"Rakefile.rb", LangRuby},
		{"deploy.sh", LangShell},
		{"main.go", LangGo},
		{"index.html", LangHTML},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			hint := LanguageForFile(tt.filename)
			if got := NormalizeLanguage(hint); got != tt.expected {
				t.Errorf("LanguageForFile(%q) = %q (normalized %q), want %q", tt.filename, hint, got, tt.expected)
			}
		})
	}

	if hint := LanguageForFile("notes.unknownext"); hint != "" {
		t.Errorf("LanguageForFile(unknown) = %q, want empty", hint)
	}
}

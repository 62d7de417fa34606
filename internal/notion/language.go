package notion

import "strings"

// codeLanguages are the code block languages the API accepts.
var codeLanguages = map[string]bool{
	"abap": true, "arduino": true, "bash": true, "basic": true, "c": true, "clojure": true,
	"coffeescript": true, "c++": true, "c#": true, "css": true, "dart": true, "diff": true,
	"docker": true, "elixir": true, "elm": true, "erlang": true, "flow": true, "fortran": true,
	"f#": true, "gherkin": true, "glsl": true, "go": true, "graphql": true, "groovy": true,
	"haskell": true, "html": true, "java": true, "javascript": true, "json": true, "julia": true,
	"kotlin": true, "latex": true, "less": true, "lisp": true, "livescript": true, "lua": true,
	"makefile": true, "markdown": true, "markup": true, "matlab": true, "mermaid": true,
	"nix": true, "objective-c": true, "ocaml": true, "pascal": true, "perl": true, "php": true,
	"plain text": true, "powershell": true, "prolog": true, "protobuf": true, "python": true,
	"r": true, "reason": true, "ruby": true, "rust": true, "sass": true, "scala": true,
	"scheme": true, "scss": true, "shell": true, "sql": true, "swift": true, "typescript": true,
	"vb.net": true, "verilog": true, "vhdl": true, "visual basic": true, "webassembly": true,
	"xml": true, "yaml": true,
}

var languageAliases = map[string]string{
	"golang":        "go",
	"sh":            "shell",
	"zsh":           "shell",
	"console":       "shell",
	"shell-session": "shell",
	"js":            "javascript",
	"jsx":           "javascript",
	"ts":            "typescript",
	"tsx":           "typescript",
	"py":            "python",
	"rb":            "ruby",
	"rs":            "rust",
	"yml":           "yaml",
	"cpp":           "c++",
	"cxx":           "c++",
	"cs":            "c#",
	"csharp":        "c#",
	"fsharp":        "f#",
	"dockerfile":    "docker",
	"make":          "makefile",
	"md":            "markdown",
	"proto":         "protobuf",
	"ps1":           "powershell",
	"tex":           "latex",
	"objc":          "objective-c",
	"text":          "plain text",
	"txt":           "plain text",
	"plaintext":     "plain text",
}

// codeLanguage maps a fenced code info string to an accepted language.
// Unknown languages become "plain text".
func codeLanguage(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if alias, ok := languageAliases[lang]; ok {
		return alias
	}
	if codeLanguages[lang] {
		return lang
	}
	return "plain text"
}

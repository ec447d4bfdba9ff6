package mdx

import (
	"fmt"
	"regexp"
	"strings"
)

type Category string

const (
	CategoryExample     Category = "CODE EXAMPLE"
	CategoryIneffective Category = "INEFFECTIVE CODE EXAMPLE"
	CategoryEffective   Category = "EFFECTIVE CODE EXAMPLE"
	CategoryPattern     Category = "CODE PATTERN"
)

const emptyBlock = "[Code example]"

var (
	negativeMarkers = []string{"**ineffective:**", "**risky:**", "**bad:**", "**wrong:**"}
	positiveMarkers = []string{"**effective:**", "**better:**", "**good:**", "**correct:**"}
	crossGlyphs     = []string{"❌", "✗", "✘"}
	checkGlyphs     = []string{"✅", "✓", "✔"}
	patternWords    = []string{"pattern", "structure", "template"}
)

var shellLangs = map[string]bool{
	"bash": true, "sh": true, "shell": true, "zsh": true,
	"console": true, "terminal": true, "powershell": true, "ps1": true,
}

var (
	funcDeclRe = regexp.MustCompile(`\bfunction\s*\*?\s*([A-Za-z][\w$]{2,})\s*\(|` +
		`\b(?:const|let|var)\s+([A-Za-z][\w$]{2,})\s*=\s*(?:async\s+)?(?:function\b|\([^)]*\)\s*=>|[A-Za-z_$][\w$]*\s*=>)|` +
		`\bdef\s+([A-Za-z]\w{2,})\s*\(|` +
		`\bfunc\s+(?:\([^)]*\)\s*)?([A-Za-z]\w{2,})\s*\(`)
	paramsRe    = regexp.MustCompile(`\(([^)]*)\)`)
	returnRe    = regexp.MustCompile(`\breturn\b`)
	typeDeclRe  = regexp.MustCompile(`\b(?:interface|type)\s+([A-Za-z]\w*)`)
	classDeclRe = regexp.MustCompile(`\bclass\s+([A-Za-z]\w*)`)
	importUseRe = regexp.MustCompile(`\bimport\b|\brequire\s*\(`)
)

// DescribeBlock replaces a fenced block with a one-line bracketed summary.
// preceding and following are the text around the block; only the last and
// first WideWindow runes of them are looked at.
func DescribeBlock(block, preceding, following string) string {
	lang, body := "", block
	if m := fenceRe.FindStringSubmatch(block); m != nil {
		lang, body = m[1], m[2]
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return emptyBlock
	}
	return fmt.Sprintf("[%s: %s]", ClassifyBlock(preceding, following), SummarizeBlock(body, lang))
}

// ClassifyBlock picks the category from the surrounding prose. The checks
// run from the most explicit, nearest signal to the weakest one and the
// first hit wins.
func ClassifyBlock(preceding, following string) Category {
	immediate := strings.ToLower(tailRunes(preceding, ImmediateWindow) + "\n" + headRunes(following, ImmediateWindow))
	wide := strings.ToLower(tailRunes(preceding, WideWindow) + "\n" + headRunes(following, WideWindow))

	switch {
	case containsAny(immediate, negativeMarkers):
		return CategoryIneffective
	case containsAny(immediate, positiveMarkers):
		return CategoryEffective
	case containsAny(wide, crossGlyphs) && !containsAny(immediate, checkGlyphs):
		return CategoryIneffective
	case containsAny(wide, checkGlyphs) && !containsAny(immediate, crossGlyphs):
		return CategoryEffective
	case containsAny(wide, patternWords) || strings.Contains(immediate, "example"):
		return CategoryPattern
	default:
		return CategoryExample
	}
}

// SummarizeBlock describes the shape of a code body. The branches are
// ordered and exclusive: a body declaring a class inside a config-like
// brace is reported as a class.
func SummarizeBlock(body, lang string) string {
	body = strings.TrimSpace(body)
	lang = strings.TrimSpace(lang)
	lower := strings.ToLower(body)

	if loc := funcDeclRe.FindStringSubmatchIndex(body); loc != nil {
		return summarizeFunction(body, loc)
	}
	if m := typeDeclRe.FindStringSubmatch(body); m != nil {
		return fmt.Sprintf("Type definition '%s'", m[1])
	}
	if m := classDeclRe.FindStringSubmatch(body); m != nil {
		return fmt.Sprintf("Class '%s'", m[1])
	}
	if importUseRe.MatchString(body) {
		return "Import statements for dependencies"
	}
	if strings.HasPrefix(body, "{") || strings.Contains(lower, "config") || strings.Contains(lower, "options") {
		return "Configuration object with properties"
	}
	if shellLangs[strings.ToLower(lang)] || strings.Contains(body, "$") ||
		strings.Contains(body, "npm") || strings.Contains(body, "git") {
		n := countLines(body, true)
		return fmt.Sprintf("Shell %s (%d %s)", plural(n, "command", "commands"), n, plural(n, "line", "lines"))
	}

	label := lang
	if label == "" {
		label = "Code"
	}
	n := countLines(body, false)
	return fmt.Sprintf("%s snippet (%d %s)", label, n, plural(n, "line", "lines"))
}

func summarizeFunction(body string, loc []int) string {
	var name string
	nameEnd := loc[1]
	for g := 1; g < len(loc)/2; g++ {
		if loc[2*g] >= 0 {
			name = body[loc[2*g]:loc[2*g+1]]
			nameEnd = loc[2*g+1]
			break
		}
	}

	out := fmt.Sprintf("Function '%s'", name)
	if m := paramsRe.FindStringSubmatch(body[nameEnd:]); m != nil {
		if n := countParams(m[1]); n > 0 {
			out += fmt.Sprintf(" with %d %s", n, plural(n, "parameter", "parameters"))
		}
	}
	if returnRe.MatchString(body) {
		out += " that returns a value"
	}
	return out
}

func countParams(list string) int {
	if strings.TrimSpace(list) == "" {
		return 0
	}
	n := 0
	for _, p := range strings.Split(list, ",") {
		if strings.TrimSpace(p) != "" {
			n++
		}
	}
	return n
}

// countLines counts non-blank lines; with skipComments, lines starting
// with '#' are left out too.
func countLines(body string, skipComments bool) int {
	n := 0
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if skipComments && strings.HasPrefix(line, "#") {
			continue
		}
		n++
	}
	return n
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

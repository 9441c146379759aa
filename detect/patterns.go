package detect

import (
	"regexp"
	"strings"

	"github.com/byteness/niuc"
)

// reFlags is prepended to the pattern families' regexes: case-insensitive,
// multi-line, and dot matches newline (spec §4.C). The @name( and ::name(
// tool-call markers, the \xHH escape-run marker, and the numeric-rm
// heuristic are compiled without it.
const reFlags = "(?ism)"

// directVerbCategoryOrder fixes the iteration order over
// directVerbVocabulary's categories at package init. Map iteration order is
// randomized in Go; without a fixed order, tie-broken overlap resolution
// between two equal-span matches from different categories would not be
// deterministic across runs, violating P1.
var directVerbCategoryOrder = []niuc.Category{
	niuc.CategoryExecution,
	niuc.CategoryFilesystem,
	niuc.CategoryNetwork,
	niuc.CategoryDataAccess,
	niuc.CategoryPrivilege,
	niuc.CategoryProcess,
	niuc.CategorySystemModification,
}

// directVerbVocabulary groups the 102-word direct-verb vocabulary (spec
// §4.C.1) by category. Each word is matched as a whole word (\b(word)\b).
var directVerbVocabulary = map[niuc.Category][]string{
	niuc.CategoryExecution: {
		"execute", "run", "eval", "evaluate", "invoke", "launch", "spawn",
		"exec", "trigger", "perform", "interpret", "compile", "execute_script",
		"executescript", "bootstrap", "rerun",
	},
	niuc.CategoryFilesystem: {
		"delete", "remove", "rm", "unlink", "mkdir", "rmdir", "truncate",
		"overwrite", "erase", "format", "wipe", "shred", "chmod", "chown",
		"move", "rename", "copy",
	},
	niuc.CategoryNetwork: {
		"curl", "wget", "fetch", "upload", "download", "post", "send",
		"connect", "exfiltrate", "transmit", "broadcast", "beacon",
		"proxy", "tunnel", "relay",
	},
	niuc.CategoryDataAccess: {
		"open", "read", "load", "query", "drop", "dump", "extract", "export",
		"select", "scan", "harvest", "reveal", "disclose", "leak", "print",
		"decrypt",
	},
	niuc.CategoryPrivilege: {
		"sudo", "escalate", "grant", "elevate", "impersonate", "authorize",
		"bypass", "override", "su", "deauthorize", "unlock", "whitelist",
	},
	niuc.CategoryProcess: {
		"kill", "terminate", "fork", "restart", "suspend", "resume",
		"signal", "pause", "abort", "halt", "crash",
	},
	niuc.CategorySystemModification: {
		"install", "patch", "modify", "configure", "disable", "enable",
		"uninstall", "reconfigure", "downgrade", "upgrade", "alter",
		"change", "replace", "inject", "flash",
	},
}

// highRiskVerbs is the subset referenced by the modal+action and
// request-frame families (spec §4.C.2, §4.C.3): the verbs whose appearance
// immediately after a modal or polite request prefix is itself suspicious,
// independent of direct-verb matching.
var highRiskVerbs = []string{
	"execute", "run", "delete", "remove", "kill", "terminate", "install",
	"grant", "escalate", "upload", "fetch", "drop", "modify", "disable",
	"format", "overwrite", "rm", "exfiltrate", "bypass", "eval",
}

// modalPrefixes and requestFramePrefixes are the two sets of prefixes that
// precede a high-risk verb in families 2 and 3 respectively.
var modalPrefixes = []string{
	"must", "should", "need to", "have to", "will", "shall",
}

var requestFramePrefixes = []string{
	"please", "could you", "would you", "can you", "i need you to",
	"you must", "you should", "i want you to",
}

// conditionalPrefixes introduce family 6's trigger phrases.
var conditionalPrefixes = []string{
	"if", "when", "unless", "upon", "after", "before",
}

func alternation(words []string) string {
	escaped := make([]string, len(words))
	for i, w := range words {
		escaped[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(escaped, "|")
}

// compiledDirectVerb is one compiled pattern for a single direct-verb
// category, built once at package initialization.
type compiledDirectVerb struct {
	category niuc.Category
	re       *regexp.Regexp
}

var directVerbPatterns []compiledDirectVerb

var (
	modalActionPattern   *regexp.Regexp
	requestFramePattern  *regexp.Regexp
	conditionalPattern   *regexp.Regexp
	codeFenceInfoPattern *regexp.Regexp
	codeFenceHTMLPattern *regexp.Regexp
	toolCallAtPattern    *regexp.Regexp
	toolCallHashPattern  *regexp.Regexp
	toolCallBracket      *regexp.Regexp
	toolCallDoubleColon  *regexp.Regexp
	toolCallTemplateJS   *regexp.Regexp
	toolCallTemplateJSP  *regexp.Regexp
	toolCallHexEscape    *regexp.Regexp
	evasionPrivNoun      *regexp.Regexp
	evasionUrgency       *regexp.Regexp
	evasionNumericRM     *regexp.Regexp
	evasionObfuscated    []*regexp.Regexp
	evasionFusedVerb     *regexp.Regexp
)

// fusionSafeVerbs are high-risk verbs long and distinctive enough that a
// boundary-free substring search carries negligible false-positive risk
// (no ordinary English word contains them as an infix). These are matched
// without \b so that zero-width-joiner removal fusing an adjacent word
// directly onto the verb — e.g. "please" + ZWJ-stripped + "execute"
// becoming the single run "pleaseexecute" with no word boundary between
// them — still surfaces a span. Short, collision-prone verbs ("run", "rm",
// "kill") stay boundary-anchored in the direct-verb family instead, since
// e.g. "perform" and "prune" contain "rm"/"run" as ordinary substrings.
var fusionSafeVerbs = []string{
	"execute", "terminate", "escalate", "exfiltrate", "uninstall",
	"reconfigure", "impersonate",
}

func init() {
	for _, cat := range directVerbCategoryOrder {
		pattern := regexp.MustCompile(reFlags + `\b(?:` + alternation(directVerbVocabulary[cat]) + `)\b`)
		directVerbPatterns = append(directVerbPatterns, compiledDirectVerb{category: cat, re: pattern})
	}

	modalActionPattern = regexp.MustCompile(
		reFlags + `\b(?:` + alternation(modalPrefixes) + `)\s+(?:` + alternation(highRiskVerbs) + `)\b`)

	requestFramePattern = regexp.MustCompile(
		reFlags + `\b(?:` + alternation(requestFramePrefixes) + `)\b.{0,20}?\b(?:` + alternation(highRiskVerbs) + `)\b`)

	conditionalPattern = regexp.MustCompile(
		reFlags + `\b(?:` + alternation(conditionalPrefixes) + `)\b.{0,40}?\b(?:` + alternation(highRiskVerbs) + `)\b`)

	codeFenceInfoPattern = regexp.MustCompile(reFlags + "```[^\\n]*\\b(?:run|exec|execute|auto|immediate)\\b[^\\n]*\\n.*?```")
	codeFenceHTMLPattern = regexp.MustCompile(reFlags + `<code\b[^>]*\bexecute\s*=\s*["'][^"']*["'][^>]*>`)

	toolCallAtPattern = regexp.MustCompile(`@\w+\(`)
	toolCallHashPattern = regexp.MustCompile(reFlags + `#execute\s+\w+`)
	toolCallBracket = regexp.MustCompile(reFlags + `\[(?:RUN|EXEC|CALL)\]`)
	toolCallDoubleColon = regexp.MustCompile(`::\w+\(`)
	toolCallTemplateJS = regexp.MustCompile(reFlags + `\$\{[^}]*exec[^}]*\}`)
	toolCallTemplateJSP = regexp.MustCompile(reFlags + `<%[^%]*exec[^%]*%>`)
	toolCallHexEscape = regexp.MustCompile(`(?:\\x[0-9a-fA-F]{2}){3,}`)

	evasionPrivNoun = regexp.MustCompile(reFlags + `\b(?:system mode|root access|admin mode|superuser|god mode)\b`)
	evasionUrgency = regexp.MustCompile(reFlags + `\b(?:emergency override|urgent override|immediate action required|act now)\b`)
	evasionNumericRM = regexp.MustCompile(`\b\d{1,3}\s?rm\b`)

	for _, v := range highRiskVerbs {
		letters := []rune(v)
		var b strings.Builder
		b.WriteString(`\b`)
		for i, r := range letters {
			if i > 0 {
				b.WriteString(`[\s\-\.]*`)
			}
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
		b.WriteString(`\b`)
		evasionObfuscated = append(evasionObfuscated, regexp.MustCompile(reFlags+b.String()))
	}

	evasionFusedVerb = regexp.MustCompile(reFlags + `(?:` + alternation(fusionSafeVerbs) + `)`)

	codeFenceFamily = []*regexp.Regexp{codeFenceInfoPattern, codeFenceHTMLPattern}
	toolCallFamily = []*regexp.Regexp{
		toolCallAtPattern, toolCallHashPattern, toolCallBracket,
		toolCallDoubleColon, toolCallTemplateJS, toolCallTemplateJSP, toolCallHexEscape,
	}
	evasionSimpleFamily = []*regexp.Regexp{evasionPrivNoun, evasionUrgency, evasionNumericRM}
}

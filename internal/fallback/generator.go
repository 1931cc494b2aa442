package fallback

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"resumelift/internal/types"
)

const (
	baseScore      = 65
	minScore       = 60
	maxScore       = 100
	maxSuggestions = 5
	maxKeywords    = 10
)

var (
	bulletPrefix   = regexp.MustCompile(`(?m)^\s*[-*•–]\s+`)
	emailPattern   = regexp.MustCompile(`[\w.+-]+@[\w-]+\.[\w.]+`)
	phonePattern   = regexp.MustCompile(`(\+?\d[\d\s().-]{7,}\d)`)
	metricPattern  = regexp.MustCompile(`\d+(\.\d+)?%|\$\s?\d|\b\d+x\b`)
	capitalizedTok = regexp.MustCompile(`\b[A-ZÀ-Þ][a-zà-þA-ZÀ-Þ+#.-]{2,}\b`)
)

// Generator produces a deterministic optimization result without any remote
// provider. Identical input always yields identical output.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate restructures the resume into normalized markup and attaches the
// static per-language suggestions, extracted keywords and a heuristic score.
func (g *Generator) Generate(input types.OptimizeInput) types.OptimizationResult {
	vocab := vocabFor(normalizeLanguage(input.Language))

	return types.OptimizationResult{
		OptimizedText: g.restructure(input.ResumeContent, vocab),
		Suggestions:   g.suggestions(vocab),
		Keywords:      g.keywords(input.ResumeContent, vocab),
		ATSScore:      g.heuristicScore(input.ResumeContent, vocab),
	}
}

// restructure classifies each line and emits normalized HTML: section
// headers, sub-headers, bullet lists and paragraphs.
func (g *Generator) restructure(content string, vocab languageVocab) string {
	var b strings.Builder
	inList := false

	closeList := func() {
		if inList {
			b.WriteString("</ul>\n")
			inList = false
		}
	}

	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			closeList()
			continue
		}

		switch {
		case bulletPrefix.MatchString(line):
			if !inList {
				b.WriteString("<ul>\n")
				inList = true
			}
			item := bulletPrefix.ReplaceAllString(line, "")
			fmt.Fprintf(&b, "<li>%s</li>\n", html.EscapeString(item))
		case isSectionHeader(line, vocab):
			closeList()
			fmt.Fprintf(&b, "<h2>%s</h2>\n", html.EscapeString(strings.ToUpper(line)))
		case strings.HasSuffix(line, ":"):
			closeList()
			fmt.Fprintf(&b, "<h3>%s</h3>\n", html.EscapeString(strings.TrimSuffix(line, ":")))
		default:
			closeList()
			fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(line))
		}
	}
	closeList()

	return b.String()
}

// isSectionHeader treats short all-caps lines and known per-language section
// names as headers.
func isSectionHeader(line string, vocab languageVocab) bool {
	if len(line) <= 40 && line == strings.ToUpper(line) && strings.IndexFunc(line, unicode.IsLetter) >= 0 {
		return true
	}
	lower := strings.ToLower(strings.TrimSuffix(line, ":"))
	for _, name := range vocab.sectionNames {
		if lower == name {
			return true
		}
	}
	return false
}

func (g *Generator) suggestions(vocab languageVocab) []types.Suggestion {
	out := make([]types.Suggestion, 0, maxSuggestions)
	for i, s := range vocab.suggestions {
		if i == maxSuggestions {
			break
		}
		s.ID = deterministicID("suggestion", i, s.Text)
		out = append(out, s)
	}
	return out
}

// keywords merges the static vocabulary with capitalized tokens from the
// resume that are not stop words, preserving first-seen order.
func (g *Generator) keywords(content string, vocab languageVocab) []types.Keyword {
	seen := make(map[string]struct{})
	out := make([]types.Keyword, 0, maxKeywords)

	add := func(text string) {
		if len(out) >= maxKeywords {
			return
		}
		key := strings.ToLower(text)
		if _, dup := seen[key]; dup {
			return
		}
		if _, stop := stopWords[key]; stop {
			return
		}
		seen[key] = struct{}{}
		out = append(out, types.Keyword{
			ID:   deterministicID("keyword", len(out), text),
			Text: text,
		})
	}

	for _, kw := range vocab.keywords {
		add(kw)
	}
	for _, tok := range capitalizedTok.FindAllString(content, -1) {
		add(tok)
	}

	return out
}

// heuristicScore builds a deterministic score from structural signals on top
// of the fixed base.
func (g *Generator) heuristicScore(content string, vocab languageVocab) int {
	score := baseScore
	lower := strings.ToLower(content)

	found := 0
	for _, name := range vocab.sectionNames {
		if strings.Contains(lower, name) {
			found++
		}
	}
	switch {
	case found >= 4:
		score += 15
	case found >= 2:
		score += 10
	case found >= 1:
		score += 5
	}

	if emailPattern.MatchString(content) || phonePattern.MatchString(content) {
		score += 5
	}
	if bullets := len(bulletPrefix.FindAllString(content, -1)); bullets >= 3 {
		score += 5
	}
	if metricPattern.MatchString(content) {
		score += 5
	}

	if score < minScore {
		score = minScore
	}
	if score > maxScore {
		score = maxScore
	}
	return score
}

// deterministicID derives a stable UUID from the item's position and text so
// repeated runs over the same resume produce identical IDs.
func deterministicID(kind string, index int, text string) string {
	name := fmt.Sprintf("%s:%d:%s", kind, index, text)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}

func normalizeLanguage(language string) string {
	language = strings.ToLower(strings.TrimSpace(language))
	if i := strings.IndexAny(language, "-_"); i > 0 {
		language = language[:i]
	}
	return language
}

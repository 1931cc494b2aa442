package score

import (
	"regexp"
	"strings"

	"resumelift/internal/types"
)

// sectionWeights lists the sections a well-formed resume is expected to carry
// and how much each contributes to structural completeness.
var sectionWeights = []struct {
	name    string
	weight  float64
	markers []string
}{
	{"experience", 0.30, []string{"experience", "work experience", "employment", "expérience", "experiencia"}},
	{"skills", 0.25, []string{"skills", "technical skills", "compétences", "habilidades"}},
	{"education", 0.15, []string{"education", "formation", "educación", "educacion"}},
	{"summary", 0.10, []string{"summary", "profile", "objective", "profil", "resumen", "perfil"}},
	{"projects", 0.07, []string{"projects", "projets", "proyectos"}},
	{"certifications", 0.05, []string{"certifications", "certificats", "certificaciones"}},
	{"languages", 0.03, []string{"languages", "langues", "idiomas"}},
	{"awards", 0.02, []string{"awards", "honors", "distinctions", "premios"}},
	{"publications", 0.01, []string{"publications", "publicaciones"}},
	{"volunteering", 0.01, []string{"volunteering", "volunteer", "bénévolat", "voluntariado"}},
	{"additional", 0.01, []string{"additional information", "additional", "divers"}},
	{"interests", 0.01, []string{"interests", "hobbies", "centres d'intérêt", "intereses"}},
}

var (
	listItemPattern = regexp.MustCompile(`(?m)^\s*(?:[-*•]|\d+\.)\s+|<li[ >]`)
	tagPattern      = regexp.MustCompile(`<[^>]+>`)
	sectionMetric   = regexp.MustCompile(`\d+(\.\d+)?%|\$\s?\d|\b\d+x\b`)
)

// EvaluateSections scores each expected resume section from the content's
// structure. A found section starts at 50 and earns bonuses for substance
// (length, list items, quantified metrics). When the section heading is
// present but its body cannot be delimited, a flat 70 is assigned; absent
// sections score 0.
func (e *Engine) EvaluateSections(content string) map[string]types.SectionScore {
	if strings.TrimSpace(content) == "" {
		return nil
	}

	plain := tagPattern.ReplaceAllString(content, "\n")
	lower := strings.ToLower(plain)

	scores := make(map[string]types.SectionScore, len(sectionWeights))
	for _, section := range sectionWeights {
		idx, marker := findSectionMarker(lower, section.markers)
		if idx < 0 {
			scores[section.name] = types.SectionScore{Weight: section.weight}
			continue
		}

		body := sectionBody(plain, idx+len(marker))
		score := 70.0 // heading found but body not delimitable
		if body != "" {
			score = scoreSectionBody(body)
		}

		scores[section.name] = types.SectionScore{
			Score:  score,
			Weight: section.weight,
			Found:  true,
		}
	}

	return scores
}

// findSectionMarker locates the first occurrence of any marker appearing at
// the start of a line, which is how resume headings present after tags are
// stripped.
func findSectionMarker(lower string, markers []string) (int, string) {
	for _, marker := range markers {
		offset := 0
		for {
			idx := strings.Index(lower[offset:], marker)
			if idx < 0 {
				break
			}
			abs := offset + idx
			if abs == 0 || lower[abs-1] == '\n' {
				return abs, marker
			}
			offset = abs + len(marker)
		}
	}
	return -1, ""
}

// sectionBody extracts the text between a section heading and the next
// heading-like line (short line followed by content, or another known marker).
func sectionBody(plain string, start int) string {
	if start >= len(plain) {
		return ""
	}
	rest := plain[start:]
	lowerRest := strings.ToLower(rest)

	end := len(rest)
	for _, section := range sectionWeights {
		for _, marker := range section.markers {
			idx := strings.Index(lowerRest, "\n"+marker)
			if idx >= 0 && idx < end {
				end = idx
			}
		}
	}

	return strings.TrimSpace(rest[:end])
}

func scoreSectionBody(body string) float64 {
	score := 50.0

	switch n := len(body); {
	case n > 500:
		score += 15
	case n > 200:
		score += 10
	case n > 100:
		score += 5
	}

	if listItemPattern.MatchString(body) {
		score += 10
	}
	if sectionMetric.MatchString(body) {
		score += 15
	}

	if score > maxScore {
		score = maxScore
	}
	return score
}

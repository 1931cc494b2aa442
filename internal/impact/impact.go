package impact

import (
	"math"
	"regexp"
	"strings"

	"resumelift/internal/types"
)

// categoryWeights maps suggestion categories to their base weight.
// Unknown categories fall back to defaultCategoryWeight.
var categoryWeights = map[string]float64{
	types.CategorySkills:     0.9,
	types.CategoryStructure:  0.8,
	types.CategoryContent:    0.7,
	types.CategoryFormatting: 0.5,
	types.CategoryLanguage:   0.4,
	types.CategoryKeywords:   0.8,
	types.CategoryATS:        0.9,
}

const defaultCategoryWeight = 0.6

// intensityWords ranks impact-description vocabulary from strongest to
// weakest. The first match wins, so stronger words shadow weaker ones.
var intensityWords = []struct {
	word  string
	value float64
}{
	{"critical", 10},
	{"essential", 9},
	{"significant", 8},
	{"major", 7},
	{"important", 6},
	{"moderate", 5},
	{"helpful", 4},
	{"minor", 3},
	{"slight", 2},
	{"minimal", 1},
}

var (
	metricPattern = regexp.MustCompile(`(?i)(\d+(\.\d+)?%|\$\s?\d|\b\d+x\b|\bdoubl\w*|\btripl\w*|\bincreas\w+ by \d)`)
	atsPattern    = regexp.MustCompile(`(?i)\b(ats|parsing|parser|scanning|scanner)\b`)
)

// CategoryWeight returns the scoring weight for a suggestion category.
func CategoryWeight(category string) float64 {
	if w, ok := categoryWeights[strings.ToLower(strings.TrimSpace(category))]; ok {
		return w
	}
	return defaultCategoryWeight
}

// AnalyzeSuggestionImpact estimates how much a suggestion would move an ATS
// score, on a 1-10 scale. The category weight sets the base, the impact
// description nudges it toward the strongest intensity word it contains, and
// quantified metrics or explicit ATS references add a point each.
func AnalyzeSuggestionImpact(s types.Suggestion) int {
	base := CategoryWeight(s.Category) * 10

	desc := strings.ToLower(s.ImpactDescription)
	for _, iw := range intensityWords {
		if strings.Contains(desc, iw.word) {
			base += (iw.value - base) / 2
			break
		}
	}

	if metricPattern.MatchString(s.ImpactDescription) {
		base++
	}
	if atsPattern.MatchString(s.ImpactDescription) {
		base++
	}

	score := int(math.Round(base))
	if score < 1 {
		score = 1
	}
	if score > 10 {
		score = 10
	}
	return score
}

// keywordFamilies classifies keywords by pattern, checked in priority order.
var keywordFamilies = []struct {
	category string
	weight   float64
	pattern  *regexp.Regexp
}{
	{types.KeywordTechnical, 0.9, regexp.MustCompile(`(?i)\b(golang|go|python|java(script)?|typescript|rust|c\+\+|c#|sql|nosql|api|rest|grpc|graphql|docker|kubernetes|k8s|terraform|aws|azure|gcp|cloud|linux|git|ci/cd|devops|react|angular|vue|node(\.js)?|spring|django|kafka|redis|postgres(ql)?|mysql|mongodb|elasticsearch|machine learning|data science|etl|microservices?|agile|scrum)\b`)},
	{types.KeywordSoftSkill, 0.6, regexp.MustCompile(`(?i)\b(leadership|communication|collaborat\w+|teamwork|problem[ -]solving|adaptab\w+|mentor\w*|negotiat\w+|presentation|stakeholder|time management|critical thinking|empathy|creativ\w+)\b`)},
	{types.KeywordAction, 0.5, regexp.MustCompile(`(?i)\b(led|managed|built|designed|developed|implemented|launched|delivered|optimi[sz]ed|improved|reduced|increased|automated|architected|migrated|scaled|drove|spearheaded|coordinated|streamlined)\b`)},
	{types.KeywordIndustry, 0.8, regexp.MustCompile(`(?i)\b(compliance|hipaa|gdpr|sox|fintech|healthcare|e-?commerce|saas|b2b|b2c|logistics|supply chain|manufacturing|retail|insurance|banking|telecom|biotech|pharma\w*|aerospace|automotive)\b`)},
}

const (
	generalKeywordWeight = 0.4
	presencePenalty      = 0.3
	minKeywordImpact     = 0.1
)

// AnalyzeKeywordImpact classifies a keyword and estimates its 0-1 impact.
// Keywords the resume already contains are penalized so that adding them
// again is nearly worthless.
func AnalyzeKeywordImpact(keyword, resumeContent string) (string, float64) {
	category := types.KeywordGeneral
	weight := generalKeywordWeight

	for _, family := range keywordFamilies {
		if family.pattern.MatchString(keyword) {
			category = family.category
			weight = family.weight
			break
		}
	}

	if containsWholeWord(resumeContent, keyword) {
		weight -= presencePenalty
	}
	if weight < minKeywordImpact {
		weight = minKeywordImpact
	}

	return category, weight
}

// ImpactLevel buckets a 0-1 impact value into a named level.
func ImpactLevel(impact float64) string {
	switch {
	case impact >= 0.8:
		return types.ImpactCritical
	case impact >= 0.6:
		return types.ImpactHigh
	case impact >= 0.4:
		return types.ImpactMedium
	default:
		return types.ImpactLow
	}
}

// containsWholeWord reports whether content contains keyword as a whole word,
// case-insensitively. The keyword is quoted so regex metacharacters in
// user-supplied text (e.g. "C++") cannot break the match.
func containsWholeWord(content, keyword string) bool {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" || content == "" {
		return false
	}
	pattern, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(keyword) + `\b`)
	if err != nil {
		return strings.Contains(strings.ToLower(content), strings.ToLower(keyword))
	}
	return pattern.MatchString(content)
}

package types

// SuggestionCategory values recognized by the impact analyzer. Unknown
// categories are accepted and scored with a default weight.
const (
	CategorySkills     = "skills"
	CategoryStructure  = "structure"
	CategoryContent    = "content"
	CategoryFormatting = "formatting"
	CategoryLanguage   = "language"
	CategoryKeywords   = "keywords"
	CategoryATS        = "ats-direct"
)

// Keyword categories assigned by the impact analyzer
const (
	KeywordTechnical = "technical"
	KeywordSoftSkill = "soft-skill"
	KeywordAction    = "action-verb"
	KeywordIndustry  = "industry-specific"
	KeywordGeneral   = "general"
)

// Impact levels derived from a keyword's 0-1 impact value
const (
	ImpactLow      = "low"
	ImpactMedium   = "medium"
	ImpactHigh     = "high"
	ImpactCritical = "critical"
)

// Suggestion represents a single improvement recommendation for a resume.
// ImpactScore and PointImpact are derived caches filled in by the score
// engine; the analyzer recomputation is the source of truth.
type Suggestion struct {
	ID                string  `json:"id"`
	Category          string  `json:"category"`
	Text              string  `json:"text"`
	ImpactDescription string  `json:"impactDescription"`
	ImpactScore       int     `json:"impactScore,omitempty"`
	PointImpact       float64 `json:"pointImpact,omitempty"`
	IsApplied         bool    `json:"isApplied"`
}

// Keyword represents an ATS keyword recommendation. Category, Impact and
// PointImpact are derived caches filled in by the score engine.
type Keyword struct {
	ID          string  `json:"id"`
	Text        string  `json:"text"`
	Category    string  `json:"category,omitempty"`
	Impact      float64 `json:"impact,omitempty"`
	PointImpact float64 `json:"pointImpact,omitempty"`
	IsApplied   bool    `json:"isApplied"`
}

// OptimizeInput represents a resume optimization request
type OptimizeInput struct {
	ResumeContent      string   `json:"resumeContent"`
	JobDescription     string   `json:"jobDescription,omitempty"`
	Language           string   `json:"language,omitempty"`
	CustomInstructions []string `json:"customInstructions,omitempty"`
}

// OptimizationResult is the canonical result shape every provider resolves to
type OptimizationResult struct {
	OptimizedText string       `json:"optimizedText"`
	Suggestions   []Suggestion `json:"suggestions"`
	Keywords      []Keyword    `json:"keywordSuggestions"`
	ATSScore      int          `json:"atsScore"`
	Provider      string       `json:"provider,omitempty"`
	Degraded      bool         `json:"degraded,omitempty"`
}

// SectionScore holds the heuristic score for a single resume section
type SectionScore struct {
	Score  float64 `json:"score"`
	Weight float64 `json:"weight"`
	Found  bool    `json:"found"`
}

// ScoreBreakdown is the full decomposition of an ATS score
type ScoreBreakdown struct {
	Base             float64                 `json:"base"`
	SuggestionPoints float64                 `json:"suggestionPoints"`
	KeywordPoints    float64                 `json:"keywordPoints"`
	Total            float64                 `json:"total"`
	Potential        float64                 `json:"potential"`
	Sections         map[string]SectionScore `json:"sections,omitempty"`
}

// SimulationResult describes the hypothetical effect of toggling one item
type SimulationResult struct {
	NewScore    float64 `json:"newScore"`
	PointImpact float64 `json:"pointImpact"`
	Description string  `json:"description"`
}

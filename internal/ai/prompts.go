package ai

import (
	"fmt"
	"strings"

	"resumelift/internal/config"
)

// DefaultSystemPrompt is the system-level instruction shared by every
// hosted-model provider unless overridden in configuration.
const DefaultSystemPrompt = `You are an expert resume writer and ATS (Applicant Tracking System) analyst with a strict commitment to honesty and accuracy. Your core principles are:

- NEVER invent, exaggerate, or misattribute any skills or experiences
- Every piece of information must be directly traceable to the source material
- Maintain professional integrity while optimizing for relevance
- Provide honest, data-driven analysis

Your expertise includes:
- Resume optimization and restructuring
- ATS keyword analysis and scoring
- HR best practices and industry standards

You always respond with a single JSON object and nothing else.`

// DefaultUserPrompt is the user prompt template. Placeholders: resume
// content, then job description.
const DefaultUserPrompt = `Please optimize the provided resume for Applicant Tracking Systems.

**Tasks:**

1. **Optimized Resume**:
   Rewrite the resume to improve structure, clarity, and keyword coverage.
   Only use skills and experience *explicitly present in the original resume*.
   When incorporating keywords from the job description, only do so if the
   corresponding skill or experience actually exists in the resume.

2. **Suggestions**:
   Provide up to 5 concrete improvement suggestions. Each suggestion has a
   category (one of: skills, structure, content, formatting, language,
   keywords, ats-direct), the suggestion text, and a short impact description.

3. **Keyword Suggestions**:
   Provide up to 10 ATS keywords the resume should include, each with a
   category.

4. **ATS Score**:
   Estimate an ATS compatibility score from 0 to 100 for the optimized resume.

Respond with a JSON object with the fields "optimizedText", "suggestions",
"keywordSuggestions" and "atsScore".

**Resume:**
-----
%s
-----

**Job Description:**
-----
%s
-----`

// buildPrompts resolves the system and user prompt for a provider and
// formats the user prompt with the request content. Priority per prompt:
// file-loaded, inline config, hardcoded default.
func buildPrompts(providerName string, pc *config.ProviderConfig, input promptInput) (systemPrompt, userPrompt string) {
	loaded := config.GetLoadedPrompts(providerName)

	systemPrompt = resolvePrompt(loaded.System, pc.CustomPrompts.SystemPrompt, DefaultSystemPrompt)
	template := resolvePrompt(loaded.User, pc.CustomPrompts.UserPrompt, DefaultUserPrompt)

	userPrompt = fmt.Sprintf(template, input.ResumeContent, input.JobDescription)

	var extras []string
	if input.Language != "" {
		extras = append(extras, fmt.Sprintf("Write the optimized resume and all suggestions in the language %q.", input.Language))
	}
	for _, instruction := range input.CustomInstructions {
		if trimmed := strings.TrimSpace(instruction); trimmed != "" {
			extras = append(extras, trimmed)
		}
	}
	if len(extras) > 0 {
		userPrompt += "\n\n**Additional instructions:**\n- " + strings.Join(extras, "\n- ")
	}

	return systemPrompt, userPrompt
}

// promptInput is the subset of the optimize request the prompts depend on
type promptInput struct {
	ResumeContent      string
	JobDescription     string
	Language           string
	CustomInstructions []string
}

// resolvePrompt selects the correct prompt string based on a clear priority order:
// 1. A prompt loaded from a file.
// 2. A prompt defined directly in the configuration.
// 3. A hardcoded default prompt.
func resolvePrompt(loadedFromFile, fromConfig, fromDefault string) string {
	if loadedFromFile != "" {
		return loadedFromFile
	}
	if fromConfig != "" {
		return fromConfig
	}
	return fromDefault
}

package fallback

import "resumelift/internal/types"

// languageVocab holds the per-language static material the generator draws
// from. Unsupported languages fall back to English.
type languageVocab struct {
	sectionNames []string
	suggestions  []types.Suggestion
	keywords     []string
}

var vocabularies = map[string]languageVocab{
	"en": {
		sectionNames: []string{
			"summary", "profile", "objective", "experience", "work experience",
			"employment", "education", "skills", "projects", "certifications",
			"languages", "awards", "references", "interests",
		},
		suggestions: []types.Suggestion{
			{Category: types.CategoryStructure, Text: "Use clear section headings so parsers can segment your resume", ImpactDescription: "Important for ATS parsing accuracy"},
			{Category: types.CategoryContent, Text: "Start bullet points with strong action verbs and quantify results", ImpactDescription: "Significant improvement to recruiter engagement"},
			{Category: types.CategoryKeywords, Text: "Mirror the key terms from the job description in your skills section", ImpactDescription: "Major boost to keyword matching"},
			{Category: types.CategoryFormatting, Text: "Keep formatting simple: no tables, text boxes or images", ImpactDescription: "Helpful for automated scanning"},
			{Category: types.CategorySkills, Text: "List concrete tools and technologies rather than broad claims", ImpactDescription: "Essential for skills-based filtering"},
		},
		keywords: []string{
			"leadership", "project management", "communication", "problem solving",
			"collaboration", "analytics", "process improvement", "strategic planning",
		},
	},
	"fr": {
		sectionNames: []string{
			"profil", "résumé", "objectif", "expérience", "expérience professionnelle",
			"formation", "compétences", "projets", "certifications", "langues",
			"distinctions", "références", "centres d'intérêt",
		},
		suggestions: []types.Suggestion{
			{Category: types.CategoryStructure, Text: "Utilisez des titres de section clairs pour faciliter l'analyse automatique", ImpactDescription: "Important pour la lecture ATS"},
			{Category: types.CategoryContent, Text: "Commencez chaque puce par un verbe d'action et chiffrez vos résultats", ImpactDescription: "Amélioration significative de l'impact"},
			{Category: types.CategoryKeywords, Text: "Reprenez les termes clés de l'offre d'emploi dans vos compétences", ImpactDescription: "Gain majeur de correspondance des mots-clés"},
			{Category: types.CategoryFormatting, Text: "Gardez une mise en page simple, sans tableaux ni images", ImpactDescription: "Utile pour le balayage automatique"},
			{Category: types.CategorySkills, Text: "Listez des outils et technologies concrets plutôt que des généralités", ImpactDescription: "Essentiel pour le filtrage par compétences"},
		},
		keywords: []string{
			"gestion de projet", "leadership", "communication", "résolution de problèmes",
			"collaboration", "analyse", "amélioration continue", "planification",
		},
	},
	"es": {
		sectionNames: []string{
			"perfil", "resumen", "objetivo", "experiencia", "experiencia laboral",
			"educación", "educacion", "habilidades", "proyectos", "certificaciones",
			"idiomas", "premios", "referencias", "intereses",
		},
		suggestions: []types.Suggestion{
			{Category: types.CategoryStructure, Text: "Use encabezados de sección claros para facilitar el análisis automático", ImpactDescription: "Importante para la lectura ATS"},
			{Category: types.CategoryContent, Text: "Comience cada viñeta con un verbo de acción y cuantifique resultados", ImpactDescription: "Mejora significativa del impacto"},
			{Category: types.CategoryKeywords, Text: "Incluya los términos clave de la oferta en su sección de habilidades", ImpactDescription: "Aumento mayor de coincidencia de palabras clave"},
			{Category: types.CategoryFormatting, Text: "Mantenga un formato simple, sin tablas ni imágenes", ImpactDescription: "Útil para el escaneo automático"},
			{Category: types.CategorySkills, Text: "Enumere herramientas y tecnologías concretas en lugar de generalidades", ImpactDescription: "Esencial para el filtrado por habilidades"},
		},
		keywords: []string{
			"gestión de proyectos", "liderazgo", "comunicación", "resolución de problemas",
			"colaboración", "análisis", "mejora de procesos", "planificación",
		},
	},
}

// stopWords excludes capitalized tokens that are capitalized for grammatical
// rather than semantic reasons (line starts, months, pronouns).
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "from": {}, "this": {},
	"that": {}, "have": {}, "has": {}, "was": {}, "were": {}, "are": {},
	"january": {}, "february": {}, "march": {}, "april": {}, "may": {},
	"june": {}, "july": {}, "august": {}, "september": {}, "october": {},
	"november": {}, "december": {},
	"monday": {}, "tuesday": {}, "wednesday": {}, "thursday": {},
	"friday": {}, "saturday": {}, "sunday": {},
}

func vocabFor(language string) languageVocab {
	if v, ok := vocabularies[language]; ok {
		return v
	}
	return vocabularies["en"]
}

package ai

import (
	"strings"

	"resumematch/internal/config"
)

// ResumePlaceholder marks where the resume prompt is inserted into a template
const ResumePlaceholder = "{{resume}}"

// Response dialects a template can ask the model for
const (
	DialectStructured = "structured"
	DialectLegacy     = "legacy"
)

// DefaultSystemPrompt is sent as the system instruction when enabled
const DefaultSystemPrompt = `You are a career coach and labor market analyst.
You read resumes carefully and only draw conclusions the resume supports.
You give concrete, encouraging advice and realistic market figures.`

// DefaultStructuredPrompt asks for the full analysis as a single JSON object
const DefaultStructuredPrompt = `CONTEXT: You are a career coach and labor market analyst.
Tailor advice to the candidate's profile and keep it encouraging and concrete.
-------
TASK:
- Analyze the resume below.
- Reply with ONE JSON object and nothing else. No markdown fences.
- Scores are integers from 0 to 100. Ratings are numbers from 0 to 5.
- Salaries are integers in the currency given by "currency" (GBP, USD or EUR).
- Always speak to the user in 'you'.
-------
RESUME:
{{resume}}
-------
OUTPUT FORMAT (field names are exact; enum values must be one of the listed options):
{
  "suggestedCareer": string,
  "matchPercentage": {"overall": int, "technical": int, "experience": int, "education": int},
  "strengths": {"highlightedSkills": [string], "keyStrengths": [string], "experienceHighlights": [string], "softSkills": [string], "positiveIndicators": [string]},
  "skillGaps": [{"skill": string, "importance": "High|Medium|Low", "timeToLearn": string, "difficulty": "Beginner|Intermediate|Advanced", "description": string}],
  "jobMarket": {"demandScore": int, "growthRate": number, "trend": "Growing|Stable|Declining", "competitionLevel": "Low|Medium|High", "remoteOpportunities": int, "marketInsights": [string]},
  "topCompanies": [{"name": string, "industry": string, "size": "Startup|Small|Medium|Large|Enterprise", "location": string, "remotePolicy": "Remote|Hybrid|On-site|Flexible", "activelyHiring": bool, "culture": [string], "benefits": [string]}],
  "learningResources": [{"title": string, "provider": string, "type": "Course|Certification|Tutorial|Book|Documentation", "duration": string, "difficulty": "Beginner|Intermediate|Advanced", "cost": "Free|Paid|Freemium", "rating": number, "url": string, "description": string, "skills": [string]}],
  "culturalFit": {"workStyle": "Independent|Collaborative|Mixed", "environmentPreference": "Startup|Corporate|Agency|Consultancy|Non-profit", "teamSize": "Small|Medium|Large|Flexible", "workArrangement": "Remote|Hybrid|On-site|Flexible", "managementStyle": "Autonomous|Guided|Structured", "innovationLevel": "High|Medium|Low", "riskTolerance": "High|Medium|Low", "personalityTraits": [string], "culturalFitScores": {"startup": int, "corporate": int, "agency": int, "nonprofit": int}},
  "alternativeCareers": [{"title": string, "matchPercentage": int, "overlapSkills": [string], "additionalSkillsNeeded": [string], "transitionDifficulty": "Easy|Medium|Hard", "timeToTransition": string, "salaryComparison": "Higher|Similar|Lower", "description": string, "keyDifferences": [string]}],
  "careerTimeline": {"currentLevel": string, "timeToNextLevel": string, "milestones": [{"year": int, "level": "Junior|Mid-level|Senior|Lead|Principal", "title": string, "responsibilities": [string], "requiredSkills": [string], "certifications": [string], "averageSalary": int, "keyAchievements": [string]}], "alternativePaths": [string], "skillProgression": {"technical": [string], "leadership": [string], "domain": [string]}},
  "resumeFeedback": {"overallScore": int, "clarity": {"score": int, "suggestions": [string]}, "keywordOptimization": {"score": int, "missingKeywords": [string], "suggestions": [string]}, "formatting": {"score": int, "issues": [string], "improvements": [string]}, "content": {"score": int, "strengths": [string], "weaknesses": [string], "suggestions": [string]}, "atsCompatibility": {"score": int, "issues": [string], "improvements": [string]}},
  "networkingOpportunities": [{"name": string, "type": "Event|Community|Group|Conference|Meetup|Online Forum", "description": string, "url": string, "cost": "Free|Paid", "relevanceScore": int, "focus": [string]}],
  "actionPlan": {"phase1": [step], "phase2": [step], "phase3": [step], "totalEstimatedTime": string, "quickWins": [step]},
  "gamification": {"level": int, "xp": int, "xpToNextLevel": int, "badges": [], "achievements": [], "careerReadinessLevel": int, "weeklyProgress": {"skillsLearned": 0, "projectsCompleted": 0, "applicationsSubmitted": 0, "networkingEvents": 0}},
  "salaryPredictions": {"currency": string, "entry": int, "mid": int, "senior": int},
  "careerPathSuggestions": [string]
}
where step is {"id": int, "title": string, "description": string, "category": "Learning|Building|Networking|Applying|Certification", "timeframe": string, "difficulty": "Easy|Medium|Hard", "priority": "High|Medium|Low", "resources": [], "completed": false, "estimatedHours": int}`

// DefaultLegacyPrompt asks for the tag based answer of the first matcher version
const DefaultLegacyPrompt = `CONTEXT: You are a career coach and labor market analyst.
You are funny and witty, with an edge. You talk like a mentor hyping the user up.
Tailor advice to the candidate's profile and keep it encouraging and concrete.
-------
TASK:
- Analyze the resume below.
- Output: suggested career, skill gap analysis, salary predictions, and career path suggestions.
- Keep bullets concise (<= 80 chars each) and practical.
- Write in a witty, upbeat tone with 1-2 light metaphors max.
- Always speak to the user in 'you'.
-------
RESUME:
{{resume}}
-------
OUTPUT FORMAT:
<Suggested Career>...</Suggested Career>
<Skill Gap Analysis>
   <ul>
      <li>...</li>
      ...
   </ul>
</Skill Gap Analysis>
<Salary Predictions>
   <ul>
      <li>Entry: $...</li>
      <li>Mid: $...</li>
      <li>Senior: $...</li>
   </ul>
</Salary Predictions>
<Career Path Suggestions>
   <ul>
      <li>...</li>
      ...
   </ul>
</Career Path Suggestions>`

// FormatResumePrompt wraps extracted resume text the way the upload client sends it
func FormatResumePrompt(text string) string {
	return "RESUME: " + text + "\n\n-------\n\n"
}

// BuildPrompt embeds the resume prompt into the default template of a dialect
func BuildPrompt(dialect, resume string) string {
	return fillTemplate(defaultTemplate(dialect), resume)
}

func defaultTemplate(dialect string) string {
	if dialect == DialectLegacy {
		return DefaultLegacyPrompt
	}
	return DefaultStructuredPrompt
}

// fillTemplate replaces the placeholder once; a template without one gets the resume appended.
// Templates carry literal percent signs, so fmt verbs are not used here.
func fillTemplate(template, resume string) string {
	if !strings.Contains(template, ResumePlaceholder) {
		return template + "\n\n" + resume
	}
	return strings.Replace(template, ResumePlaceholder, resume, 1)
}

// templateFor returns the template of the configured dialect
func templateFor(cfg *config.AIConfig) string {
	if cfg.Dialect == DialectLegacy {
		return resolvePrompt(cfg.Loaded.Legacy, cfg.Prompts.Legacy, DefaultLegacyPrompt)
	}
	return resolvePrompt(cfg.Loaded.Structured, cfg.Prompts.Structured, DefaultStructuredPrompt)
}

// systemPromptFor returns the system instruction, or "" when disabled
func systemPromptFor(cfg *config.AIConfig) string {
	if !cfg.UseSystemPrompt {
		return ""
	}
	return resolvePrompt(cfg.Loaded.System, cfg.Prompts.System, DefaultSystemPrompt)
}

// resolvePrompt selects a prompt in priority order:
// 1. A prompt loaded from a file.
// 2. A prompt defined directly in the configuration.
// 3. The built-in default.
func resolvePrompt(loadedFromFile, fromConfig, fromDefault string) string {
	if loadedFromFile != "" {
		return loadedFromFile
	}
	if fromConfig != "" {
		return fromConfig
	}
	return fromDefault
}

package formatters

import (
	"fmt"
	"strings"

	"resumematch/internal/types"
)

// AnalysisTextFormatter handles text formatting for analysis records
type AnalysisTextFormatter struct{}

func (atf *AnalysisTextFormatter) Format(data any) (string, error) {
	rec, ok := data.(*types.AnalysisRecord)
	if !ok {
		return "", fmt.Errorf("expected *AnalysisRecord, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== CAREER MATCH ===\n\n")
	fmt.Fprintf(&output, "Suggested career: %s\n", rec.SuggestedCareer)
	mp := rec.MatchPercentage
	fmt.Fprintf(&output, "Match: %d%% (technical %d%%, experience %d%%, education %d%%)\n\n",
		mp.Overall, mp.Technical, mp.Experience, mp.Education)

	output.WriteString("=== STRENGTHS ===\n")
	writeTextList(&output, "Key strengths", rec.Strengths.KeyStrengths)
	writeTextList(&output, "Highlighted skills", rec.Strengths.HighlightedSkills)
	writeTextList(&output, "Soft skills", rec.Strengths.SoftSkills)
	output.WriteString("\n")

	if len(rec.SkillGaps) > 0 {
		output.WriteString("=== SKILL GAPS ===\n")
		for _, gap := range rec.SkillGaps {
			fmt.Fprintf(&output, "- %s [%s importance, %s, %s]\n", gap.Skill, gap.Importance, gap.Difficulty, gap.TimeToLearn)
		}
		output.WriteString("\n")
	}

	jm := rec.JobMarket
	output.WriteString("=== JOB MARKET ===\n")
	fmt.Fprintf(&output, "Demand: %d/100  Trend: %s %s  Growth: %.1f%%\n", jm.DemandScore, TrendEmoji(jm.Trend), jm.Trend, jm.GrowthRate)
	fmt.Fprintf(&output, "Competition: %s  Remote opportunities: %d%%\n", jm.CompetitionLevel, jm.RemoteOpportunities)
	writeTextList(&output, "Insights", jm.MarketInsights)
	output.WriteString("\n")

	sp := rec.SalaryPredictions
	output.WriteString("=== SALARY ===\n")
	fmt.Fprintf(&output, "Entry: %s  Mid: %s  Senior: %s\n\n",
		FormatCurrency(sp.Entry, sp.Currency), FormatCurrency(sp.Mid, sp.Currency), FormatCurrency(sp.Senior, sp.Currency))

	if len(rec.TopCompanies) > 0 {
		output.WriteString("=== TOP COMPANIES ===\n")
		for _, c := range rec.TopCompanies {
			hiring := ""
			if c.ActivelyHiring {
				hiring = ", hiring"
			}
			fmt.Fprintf(&output, "- %s (%s, %s%s)\n", c.Name, c.Industry, c.RemotePolicy, hiring)
		}
		output.WriteString("\n")
	}

	if len(rec.LearningResources) > 0 {
		output.WriteString("=== LEARNING RESOURCES ===\n")
		for _, r := range rec.LearningResources {
			fmt.Fprintf(&output, "- %s by %s (%s, %s, %s)\n", r.Title, r.Provider, r.Type, r.Duration, r.Cost)
		}
		output.WriteString("\n")
	}

	if len(rec.AlternativeCareers) > 0 {
		output.WriteString("=== ALTERNATIVE CAREERS ===\n")
		for _, alt := range rec.AlternativeCareers {
			fmt.Fprintf(&output, "- %s: %d%% match, %s transition\n", alt.Title, alt.MatchPercentage, alt.TransitionDifficulty)
		}
		output.WriteString("\n")
	}

	rf := rec.ResumeFeedback
	output.WriteString("=== RESUME FEEDBACK ===\n")
	fmt.Fprintf(&output, "Overall: %d/100  Clarity: %d  Keywords: %d  Formatting: %d  Content: %d  ATS: %d\n",
		rf.OverallScore, rf.Clarity.Score, rf.KeywordOptimization.Score, rf.Formatting.Score, rf.Content.Score, rf.ATSCompatibility.Score)
	writeTextList(&output, "Missing keywords", rf.KeywordOptimization.MissingKeywords)
	writeTextList(&output, "Suggestions", rf.Clarity.Suggestions)
	output.WriteString("\n")

	if steps := rec.ActionPlan.Steps(); len(steps) > 0 {
		output.WriteString("=== ACTION PLAN ===\n")
		for _, step := range steps {
			fmt.Fprintf(&output, "%d. %s (%s, %s priority)\n", step.ID, step.Title, step.Timeframe, step.Priority)
		}
		if rec.ActionPlan.TotalEstimatedTime != "" {
			fmt.Fprintf(&output, "Total estimated time: %s\n", rec.ActionPlan.TotalEstimatedTime)
		}
		output.WriteString("\n")
	}

	writeTextList(&output, "Career path", rec.CareerPathSuggestions)
	fmt.Fprintf(&output, "Career readiness: %d/100\n", rec.Gamification.CareerReadinessLevel)

	return output.String(), nil
}

func (atf *AnalysisTextFormatter) SupportedType() string {
	return "AnalysisRecord"
}

// AnalysisMarkdownFormatter handles markdown formatting for analysis records
type AnalysisMarkdownFormatter struct{}

func (amf *AnalysisMarkdownFormatter) Format(data any) (string, error) {
	rec, ok := data.(*types.AnalysisRecord)
	if !ok {
		return "", fmt.Errorf("expected *AnalysisRecord, got %T", data)
	}

	var output strings.Builder

	fmt.Fprintf(&output, "# Career Match: %s\n\n", rec.SuggestedCareer)
	mp := rec.MatchPercentage
	output.WriteString("| Overall | Technical | Experience | Education |\n")
	output.WriteString("|---------|-----------|------------|-----------|\n")
	fmt.Fprintf(&output, "| %d%% | %d%% | %d%% | %d%% |\n\n", mp.Overall, mp.Technical, mp.Experience, mp.Education)

	output.WriteString("## Strengths\n\n")
	writeMarkdownList(&output, rec.Strengths.KeyStrengths)
	writeMarkdownList(&output, rec.Strengths.HighlightedSkills)

	if len(rec.SkillGaps) > 0 {
		output.WriteString("## Skill Gaps\n\n")
		output.WriteString("| Skill | Importance | Difficulty | Time to learn |\n")
		output.WriteString("|-------|------------|------------|---------------|\n")
		for _, gap := range rec.SkillGaps {
			fmt.Fprintf(&output, "| %s | %s | %s | %s |\n", gap.Skill, gap.Importance, gap.Difficulty, gap.TimeToLearn)
		}
		output.WriteString("\n")
	}

	jm := rec.JobMarket
	output.WriteString("## Job Market\n\n")
	fmt.Fprintf(&output, "- **Demand:** %d/100\n", jm.DemandScore)
	fmt.Fprintf(&output, "- **Trend:** %s %s (%.1f%% growth)\n", TrendEmoji(jm.Trend), jm.Trend, jm.GrowthRate)
	fmt.Fprintf(&output, "- **Competition:** %s\n", jm.CompetitionLevel)
	fmt.Fprintf(&output, "- **Remote opportunities:** %d%%\n\n", jm.RemoteOpportunities)

	sp := rec.SalaryPredictions
	output.WriteString("## Salary Predictions\n\n")
	output.WriteString("| Entry | Mid | Senior |\n")
	output.WriteString("|-------|-----|--------|\n")
	fmt.Fprintf(&output, "| %s | %s | %s |\n\n",
		FormatCurrency(sp.Entry, sp.Currency), FormatCurrency(sp.Mid, sp.Currency), FormatCurrency(sp.Senior, sp.Currency))

	if len(rec.TopCompanies) > 0 {
		output.WriteString("## Top Companies\n\n")
		for _, c := range rec.TopCompanies {
			fmt.Fprintf(&output, "- **%s** (%s, %s)\n", c.Name, c.Industry, c.RemotePolicy)
		}
		output.WriteString("\n")
	}

	if len(rec.LearningResources) > 0 {
		output.WriteString("## Learning Resources\n\n")
		for _, r := range rec.LearningResources {
			if r.URL != "" {
				fmt.Fprintf(&output, "- [%s](%s) by %s (%s, %s)\n", r.Title, r.URL, r.Provider, r.Duration, r.Cost)
			} else {
				fmt.Fprintf(&output, "- %s by %s (%s, %s)\n", r.Title, r.Provider, r.Duration, r.Cost)
			}
		}
		output.WriteString("\n")
	}

	rf := rec.ResumeFeedback
	output.WriteString("## Resume Feedback\n\n")
	fmt.Fprintf(&output, "**Overall score:** %d/100\n\n", rf.OverallScore)
	if len(rf.KeywordOptimization.MissingKeywords) > 0 {
		output.WriteString("### Missing Keywords\n")
		writeMarkdownList(&output, rf.KeywordOptimization.MissingKeywords)
	}

	if steps := rec.ActionPlan.Steps(); len(steps) > 0 {
		output.WriteString("## Action Plan\n\n")
		for _, step := range steps {
			fmt.Fprintf(&output, "%d. **%s** (%s) %s\n", step.ID, step.Title, step.Timeframe, step.Description)
		}
		output.WriteString("\n")
	}

	if len(rec.CareerPathSuggestions) > 0 {
		output.WriteString("## Career Path\n\n")
		writeMarkdownList(&output, rec.CareerPathSuggestions)
	}

	fmt.Fprintf(&output, "**Career readiness:** %d/100\n", rec.Gamification.CareerReadinessLevel)

	return output.String(), nil
}

func (amf *AnalysisMarkdownFormatter) SupportedType() string {
	return "AnalysisRecord"
}

func writeTextList(output *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(output, "%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(output, "  - %s\n", item)
	}
}

func writeMarkdownList(output *strings.Builder, items []string) {
	if len(items) == 0 {
		return
	}
	for _, item := range items {
		fmt.Fprintf(output, "- %s\n", item)
	}
	output.WriteString("\n")
}

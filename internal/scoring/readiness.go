package scoring

import (
	"fmt"
	"math"
	"strings"

	"resumematch/internal/types"
)

// readiness weights, out of 100
const (
	weightTechnical  = 30
	weightExperience = 25
	weightResume     = 20
	weightPortfolio  = 15
	weightActionPlan = 10
)

// CareerReadiness scores 0-100 how ready the candidate is to apply,
// weighting match scores, resume quality, portfolio and action-plan progress.
// Missing inputs contribute nothing.
func CareerReadiness(rec *types.AnalysisRecord) int {
	if rec == nil {
		return 0
	}

	score := 0.0
	score += fraction(rec.MatchPercentage.Technical) * weightTechnical
	score += fraction(rec.MatchPercentage.Experience) * weightExperience
	score += fraction(rec.ResumeFeedback.OverallScore) * weightResume
	if rec.PortfolioAnalysis != nil {
		score += fraction(rec.PortfolioAnalysis.PortfolioScore) * weightPortfolio
	}

	steps := rec.ActionPlan.Steps()
	if len(steps) > 0 {
		completed := 0
		for _, step := range steps {
			if step.Completed {
				completed++
			}
		}
		score += float64(completed) / float64(len(steps)) * weightActionPlan
	}

	const total = weightTechnical + weightExperience + weightResume + weightPortfolio + weightActionPlan
	return int(math.Round(score / total * 100))
}

func fraction(score int) float64 {
	return float64(score) / 100
}

type resourceTemplate struct {
	provider string
	kind     string
	cost     string
	rating   float64
}

var resourceTemplates = []resourceTemplate{
	{"Coursera", "Course", "Paid", 4.5},
	{"freeCodeCamp", "Tutorial", "Free", 4.8},
	{"Udemy", "Course", "Paid", 4.3},
}

const maxGeneratedResources = 5

// LearningResources builds placeholder learning resources for up to five skills,
// rotating through a fixed set of providers.
func LearningResources(skills []string) []types.LearningResource {
	n := min(len(skills), maxGeneratedResources)
	resources := make([]types.LearningResource, 0, n)
	for i, skill := range skills[:n] {
		tmpl := resourceTemplates[i%len(resourceTemplates)]
		slug := strings.Join(strings.Fields(strings.ToLower(skill)), "-")
		resources = append(resources, types.LearningResource{
			Title:       "Master " + skill,
			Provider:    tmpl.provider,
			Type:        tmpl.kind,
			Duration:    "4-6 weeks",
			Difficulty:  "Intermediate",
			Cost:        tmpl.cost,
			Rating:      tmpl.rating,
			URL:         fmt.Sprintf("https://%s.com/%s", strings.ToLower(tmpl.provider), slug),
			Description: fmt.Sprintf("Comprehensive %s course for career advancement", skill),
			Skills:      []string{skill},
		})
	}
	return resources
}

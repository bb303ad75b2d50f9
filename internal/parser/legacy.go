package parser

import (
	"regexp"
	"strings"

	"resumematch/internal/scoring"
	"resumematch/internal/types"
)

// NotDetermined is the suggested career of a response that names none
const NotDetermined = "Not determined"

var (
	careerTag   = regexp.MustCompile(`(?s)<Suggested Career>(.*?)</Suggested Career>`)
	skillGapTag = regexp.MustCompile(`(?s)<Skill Gap Analysis>(.*?)</Skill Gap Analysis>`)
	salaryTag   = regexp.MustCompile(`(?s)<Salary Predictions>(.*?)</Salary Predictions>`)
	careerPath  = regexp.MustCompile(`(?s)<Career Path Suggestions>(.*?)</Career Path Suggestions>`)
	listItem    = regexp.MustCompile(`<li>(.+?)</li>`)
)

var currencyBySymbol = map[string]string{
	"£": "GBP",
	"$": "USD",
	"€": "EUR",
}

// legacySections holds the raw text of the four tag-delimited sections
type legacySections struct {
	career     string
	skillGap   string
	salary     string
	careerPath string
}

func extractSections(text string) legacySections {
	return legacySections{
		career:     strings.TrimSpace(section(careerTag, text)),
		skillGap:   section(skillGapTag, text),
		salary:     section(salaryTag, text),
		careerPath: section(careerPath, text),
	}
}

// usable reports whether any section carries content
func (s legacySections) usable() bool {
	return s.career != "" ||
		strings.TrimSpace(s.skillGap) != "" ||
		strings.TrimSpace(s.salary) != "" ||
		strings.TrimSpace(s.careerPath) != ""
}

func section(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

func listItems(text string) []string {
	items := []string{}
	for _, m := range listItem.FindAllStringSubmatch(text, -1) {
		items = append(items, m[1])
	}
	return items
}

// salaryFor returns the first amount on the item labelled label, with its currency code
func salaryFor(items []string, label string) (int, string, bool) {
	for _, item := range items {
		if !strings.Contains(item, label+":") {
			continue
		}
		amount, symbol, ok := scoring.FirstAmount(item)
		if !ok {
			return 0, "", false
		}
		return amount, currencyBySymbol[symbol], true
	}
	return 0, "", false
}

func buildLegacyRecord(s legacySections, synth *scoring.Synthesizer, suggestResources bool) *types.AnalysisRecord {
	career := s.career
	if career == "" {
		career = NotDetermined
	}

	rec := defaultRecord()
	rec.SuggestedCareer = career
	rec.MatchPercentage = synth.Synthesize(career, s.skillGap, s.salary)

	skills := listItems(s.skillGap)
	for _, skill := range skills {
		skill = strings.TrimSpace(skill)
		rec.SkillGaps = append(rec.SkillGaps, types.SkillGap{
			Skill:       skill,
			Importance:  "Medium",
			TimeToLearn: "2-3 months",
			Difficulty:  "Intermediate",
			Description: skill,
		})
	}
	if suggestResources {
		names := make([]string, 0, len(rec.SkillGaps))
		for _, g := range rec.SkillGaps {
			names = append(names, g.Skill)
		}
		rec.LearningResources = scoring.LearningResources(names)
	}

	salaryItems := listItems(s.salary)
	for _, level := range []struct {
		label string
		dst   *int
	}{
		{"Entry", &rec.SalaryPredictions.Entry},
		{"Mid", &rec.SalaryPredictions.Mid},
		{"Senior", &rec.SalaryPredictions.Senior},
	} {
		if amount, currency, ok := salaryFor(salaryItems, level.label); ok {
			*level.dst = amount
			if currency != "" {
				rec.SalaryPredictions.Currency = currency
			}
		}
	}

	rec.CareerPathSuggestions = listItems(s.careerPath)
	rec.Gamification.CareerReadinessLevel = scoring.CareerReadiness(rec)
	return rec
}

// defaultRecord returns a structurally complete record holding the fixed
// values used for every group a legacy response cannot supply
func defaultRecord() *types.AnalysisRecord {
	return &types.AnalysisRecord{
		SuggestedCareer: NotDetermined,
		Strengths: types.StrengthsAnalysis{
			HighlightedSkills:    []string{},
			KeyStrengths:         []string{},
			ExperienceHighlights: []string{},
			SoftSkills:           []string{},
			PositiveIndicators:   []string{},
		},
		SkillGaps: []types.SkillGap{},
		JobMarket: types.JobMarketData{
			DemandScore:         75,
			GrowthRate:          10,
			Trend:               "Growing",
			CompetitionLevel:    "Medium",
			RemoteOpportunities: 60,
			MarketInsights:      []string{},
		},
		TopCompanies:      []types.Company{},
		LearningResources: []types.LearningResource{},
		CulturalFit: types.CulturalFitAnalysis{
			WorkStyle:             "Mixed",
			EnvironmentPreference: "Corporate",
			TeamSize:              "Medium",
			WorkArrangement:       "Hybrid",
			ManagementStyle:       "Guided",
			InnovationLevel:       "Medium",
			RiskTolerance:         "Medium",
			PersonalityTraits:     []string{},
			CulturalFitScores: types.CulturalFitScores{
				Startup:   60,
				Corporate: 70,
				Agency:    65,
				Nonprofit: 50,
			},
		},
		AlternativeCareers: []types.AlternativeCareer{},
		CareerTimeline: types.CareerTimeline{
			CurrentLevel:     "Junior",
			TimeToNextLevel:  "12-18 months",
			Milestones:       []types.CareerMilestone{},
			AlternativePaths: []string{},
			SkillProgression: types.SkillProgression{
				Technical:  []string{},
				Leadership: []string{},
				Domain:     []string{},
			},
		},
		ResumeFeedback: types.ResumeFeedback{
			OverallScore: 75,
			Clarity:      types.ScoredSuggestions{Score: 80, Suggestions: []string{}},
			KeywordOptimization: types.KeywordFeedback{
				Score:           70,
				MissingKeywords: []string{},
				Suggestions:     []string{},
			},
			Formatting: types.IssueFeedback{Score: 85, Issues: []string{}, Improvements: []string{}},
			Content: types.ContentFeedback{
				Score:       75,
				Strengths:   []string{},
				Weaknesses:  []string{},
				Suggestions: []string{},
			},
			ATSCompatibility: types.IssueFeedback{Score: 80, Issues: []string{}, Improvements: []string{}},
		},
		NetworkingOpportunities: []types.NetworkingOpportunity{},
		ActionPlan: types.ActionPlan{
			Phase1:             []types.ActionPlanStep{},
			Phase2:             []types.ActionPlanStep{},
			Phase3:             []types.ActionPlanStep{},
			TotalEstimatedTime: "6 months",
			QuickWins:          []types.ActionPlanStep{},
		},
		Gamification: types.GamificationData{
			Level:                1,
			XP:                   0,
			XPToNextLevel:        1000,
			Badges:               []types.Badge{},
			Achievements:         []types.Achievement{},
			CareerReadinessLevel: 50,
		},
		SalaryPredictions: types.SalaryRange{
			Currency: "GBP",
			Entry:    25000,
			Mid:      45000,
			Senior:   75000,
		},
		CareerPathSuggestions: []string{},
	}
}

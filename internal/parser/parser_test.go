package parser

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"resumematch/internal/scoring"
	"resumematch/internal/types"
)

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestParser(opts ...Option) *Parser {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return New(scoring.NewSynthesizer(7), opts...)
}

func sampleRecord() *types.AnalysisRecord {
	rec := defaultRecord()
	rec.Timestamp = fixedNow
	rec.SuggestedCareer = "Data Scientist"
	rec.MatchPercentage = types.MatchPercentage{Overall: 85, Technical: 80, Experience: 90, Education: 75}
	rec.SkillGaps = []types.SkillGap{{
		Skill:       "MLOps",
		Importance:  "High",
		TimeToLearn: "3 months",
		Difficulty:  "Advanced",
		Description: "Deploying models",
	}}
	rec.TopCompanies = []types.Company{{
		Name:         "DeepMind",
		Industry:     "AI",
		Size:         "Large",
		Location:     "London",
		RemotePolicy: "On-site",
		Culture:      []string{"research"},
		Benefits:     []string{"pension"},
	}}
	rec.NetworkingOpportunities = []types.NetworkingOpportunity{{
		Name: "PyData", Type: "Online Forum", Cost: "Free", RelevanceScore: 90, Focus: []string{"python"},
	}}
	rec.CareerPathSuggestions = []string{"ML Engineer"}
	return rec
}

func sampleJSON(t *testing.T, rec *types.AnalysisRecord) string {
	t.Helper()
	data, err := json.Marshal(rec)
	require.NoError(t, err)
	return string(data)
}

func TestParseStructuredWithSurroundingProse(t *testing.T) {
	p := newTestParser()
	text := "Sure! Here is your analysis:\n" + sampleJSON(t, sampleRecord()) + "\nGood luck with the applications."

	got := p.Parse(text)
	require.Equal(t, DialectStructured, got.Dialect)
	assert.Empty(t, got.Reason)
	assert.Equal(t, "Data Scientist", got.Record.SuggestedCareer)
	assert.Equal(t, types.MatchPercentage{Overall: 85, Technical: 80, Experience: 90, Education: 75}, got.Record.MatchPercentage)
	assert.Equal(t, fixedNow, got.Record.Timestamp)
}

func TestParseStructuredRoundTrip(t *testing.T) {
	want := sampleRecord()

	got := newTestParser().Parse("```json\n" + sampleJSON(t, want) + "\n```")
	require.Equal(t, DialectStructured, got.Dialect)
	assert.Equal(t, want, got.Record)
}

func TestParseStructuredOverridesModelTimestamp(t *testing.T) {
	rec := sampleRecord()
	rec.Timestamp = time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)

	got := newTestParser().Parse(sampleJSON(t, rec))
	require.Equal(t, DialectStructured, got.Dialect)
	assert.Equal(t, fixedNow, got.Record.Timestamp)
}

func TestParseStructuredRequiresCompleteRecord(t *testing.T) {
	missingTrend := sampleRecord()
	missingTrend.JobMarket.Trend = ""

	missingLevel := sampleRecord()
	missingLevel.CareerTimeline.Milestones = []types.CareerMilestone{{Year: 1, Title: "Analyst"}}

	nullGaps := sampleRecord()
	nullGaps.SkillGaps = nil

	zeroScores := sampleRecord()
	zeroScores.MatchPercentage = types.MatchPercentage{}

	tests := []struct {
		name       string
		text       string
		wantReason string
	}{
		{"empty object", "{}", "SuggestedCareer is missing"},
		{"career only", `{"suggestedCareer":"Data Scientist"}`, "JobMarket is missing"},
		{"absent enum", sampleJSON(t, missingTrend), "Trend"},
		{"absent nested enum", sampleJSON(t, missingLevel), "Level"},
		{"null group", sampleJSON(t, nullGaps), "SkillGaps is missing"},
		{"zero scores", sampleJSON(t, zeroScores), "MatchPercentage is missing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestParser().ParseStructured(tt.text)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantReason)
		})
	}
}

func TestParseIncompleteObjectIsNotStructured(t *testing.T) {
	got := newTestParser().Parse(`{"suggestedCareer":"Data Scientist"}`)
	assert.True(t, got.Failed())
	assert.Equal(t, NotDetermined, got.Record.SuggestedCareer)
	assert.Equal(t, "Growing", got.Record.JobMarket.Trend)
	assert.NotNil(t, got.Record.SkillGaps)
}

func TestParseLegacyWithEmbeddedBraces(t *testing.T) {
	text := "<Suggested Career>Senior Engineer</Suggested Career> note {} end"

	got := newTestParser().Parse(text)
	require.Equal(t, DialectLegacy, got.Dialect)
	assert.Equal(t, "Senior Engineer", got.Record.SuggestedCareer)
	assert.NotEmpty(t, got.Reason)
}

func TestParseStructuredRejections(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantReason string
	}{
		{"no braces", "just prose", "no JSON object"},
		{"reversed braces", "} oops {", "no JSON object"},
		{"invalid JSON", "{suggestedCareer: Chef}", "failed to decode"},
		{"unknown enum", `{"skillGaps":[{"skill":"Go","importance":"Critical"}]}`, "Importance"},
		{"nested unknown enum", `{"culturalFit":{"workStyle":"Remote-first"}}`, "WorkStyle"},
		{"score out of range", `{"matchPercentage":{"overall":120}}`, "Overall"},
		{"rating out of range", `{"learningResources":[{"title":"x","rating":7}]}`, "Rating"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestParser().ParseStructured(tt.text)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantReason)
		})
	}
}

func TestParseFallsBackToLegacyOnUnknownEnum(t *testing.T) {
	text := `{"suggestedCareer":"Chef","jobMarket":{"trend":"Booming"}}
<Suggested Career>Sous Chef</Suggested Career>`

	got := newTestParser().Parse(text)
	assert.Equal(t, DialectLegacy, got.Dialect)
	assert.Equal(t, "Sous Chef", got.Record.SuggestedCareer)
	assert.Contains(t, got.Reason, "Trend")
}

const legacyResponse = `<Suggested Career>
  Senior Software Engineer
</Suggested Career>
<Skill Gap Analysis>
   <ul>
      <li>Kubernetes </li>
      <li>Advanced system design</li>
   </ul>
</Skill Gap Analysis>
<Salary Predictions>
   <ul>
      <li>Entry: £70000</li>
      <li>Mid: £90,000</li>
      <li>Senior: £120000</li>
   </ul>
</Salary Predictions>
<Career Path Suggestions>
   <ul>
      <li>Staff Engineer</li>
      <li>Engineering Manager</li>
   </ul>
</Career Path Suggestions>`

func TestParseLegacy(t *testing.T) {
	got := newTestParser().Parse(legacyResponse)
	require.Equal(t, DialectLegacy, got.Dialect)
	rec := got.Record

	assert.Equal(t, "Senior Software Engineer", rec.SuggestedCareer)
	require.Len(t, rec.SkillGaps, 2)
	assert.Equal(t, types.SkillGap{
		Skill:       "Kubernetes",
		Importance:  "Medium",
		TimeToLearn: "2-3 months",
		Difficulty:  "Intermediate",
		Description: "Kubernetes",
	}, rec.SkillGaps[0])
	assert.Equal(t, types.SalaryRange{Currency: "GBP", Entry: 70000, Mid: 90000, Senior: 120000}, rec.SalaryPredictions)
	assert.Equal(t, []string{"Staff Engineer", "Engineering Manager"}, rec.CareerPathSuggestions)
	assert.Equal(t, fixedNow, rec.Timestamp)
	assert.Empty(t, rec.LearningResources)

	// senior title, advanced skills and high salaries push the axes up
	assert.GreaterOrEqual(t, rec.MatchPercentage.Experience, 76)
	assert.Equal(t, scoring.Overall(rec.MatchPercentage.Technical, rec.MatchPercentage.Experience, rec.MatchPercentage.Education), rec.MatchPercentage.Overall)
	assert.Equal(t, scoring.CareerReadiness(rec), rec.Gamification.CareerReadinessLevel)
}

func TestParseLegacySeniorScenario(t *testing.T) {
	text := "<Suggested Career>Senior Software Engineer</Suggested Career><Salary Predictions><li>Entry: £70000</li><li>Mid: £90000</li><li>Senior: £120000</li></Salary Predictions>"

	for seed := range int64(50) {
		p := New(scoring.NewSynthesizer(seed))
		got := p.Parse(text)
		require.Equal(t, DialectLegacy, got.Dialect)
		assert.GreaterOrEqual(t, got.Record.MatchPercentage.Experience, 76)
		assert.LessOrEqual(t, got.Record.MatchPercentage.Experience, 85)
	}
}

func TestParseLegacyCurrencySymbols(t *testing.T) {
	text := "<Salary Predictions><li>Entry: $50,000</li><li>Mid: $80000</li></Salary Predictions>"
	rec := newTestParser().ParseLegacy(text)

	assert.Equal(t, "USD", rec.SalaryPredictions.Currency)
	assert.Equal(t, 50000, rec.SalaryPredictions.Entry)
	assert.Equal(t, 80000, rec.SalaryPredictions.Mid)
	assert.Equal(t, 75000, rec.SalaryPredictions.Senior)
}

func TestParseLegacyLearningResources(t *testing.T) {
	rec := newTestParser(WithLearningResources(true)).ParseLegacy(legacyResponse)
	require.Len(t, rec.LearningResources, 2)
	assert.Equal(t, "Master Kubernetes", rec.LearningResources[0].Title)
}

func TestParseWithoutAnyTagsIsComplete(t *testing.T) {
	for _, text := range []string{"", "The model said nothing useful.", "<Suggested Career>  </Suggested Career>"} {
		t.Run(text, func(t *testing.T) {
			got := newTestParser().Parse(text)
			assert.True(t, got.Failed())
			require.NotNil(t, got.Record)
			assert.NotEmpty(t, got.Reason)

			rec := got.Record
			assert.Equal(t, NotDetermined, rec.SuggestedCareer)
			assert.Equal(t, types.SalaryRange{Currency: "GBP", Entry: 25000, Mid: 45000, Senior: 75000}, rec.SalaryPredictions)
			assert.Equal(t, "Growing", rec.JobMarket.Trend)
			assert.Equal(t, 70, rec.CulturalFit.CulturalFitScores.Corporate)
			assert.Equal(t, "6 months", rec.ActionPlan.TotalEstimatedTime)

			// every top-level group is present in the JSON form
			data, err := json.Marshal(rec)
			require.NoError(t, err)
			var fields map[string]any
			require.NoError(t, json.Unmarshal(data, &fields))
			for name, value := range fields {
				assert.NotNil(t, value, "field %s is null", name)
			}
		})
	}
}

func TestParseNeverPanics(t *testing.T) {
	inputs := []string{
		"{", "}", "{}", "{]", strings.Repeat("{", 1000),
		"<Skill Gap Analysis><li></li></Skill Gap Analysis>",
		"<Salary Predictions><li>Entry: £</li></Salary Predictions>",
	}
	p := newTestParser()
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			got := p.Parse(in)
			assert.NotNil(t, got.Record)
		})
	}
}

func BenchmarkParseLegacy(b *testing.B) {
	p := newTestParser()
	for b.Loop() {
		p.Parse(legacyResponse)
	}
}

package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"resumematch/internal/types"
)

func TestCareerReadiness(t *testing.T) {
	tests := []struct {
		name string
		rec  *types.AnalysisRecord
		want int
	}{
		{"nil record", nil, 0},
		{"empty record", &types.AnalysisRecord{}, 0},
		{
			name: "scores only",
			rec: &types.AnalysisRecord{
				MatchPercentage: types.MatchPercentage{Technical: 70, Experience: 75},
				ResumeFeedback:  types.ResumeFeedback{OverallScore: 75},
			},
			// 21 + 18.75 + 15 = 54.75
			want: 55,
		},
		{
			name: "portfolio and half the plan done",
			rec: &types.AnalysisRecord{
				MatchPercentage:   types.MatchPercentage{Technical: 100, Experience: 100},
				ResumeFeedback:    types.ResumeFeedback{OverallScore: 100},
				PortfolioAnalysis: &types.PortfolioAnalysis{PortfolioScore: 100},
				ActionPlan: types.ActionPlan{
					Phase1: []types.ActionPlanStep{{ID: 1, Completed: true}},
					Phase3: []types.ActionPlanStep{{ID: 2}},
				},
			},
			want: 95,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CareerReadiness(tt.rec))
		})
	}
}

func TestLearningResources(t *testing.T) {
	skills := []string{"TypeScript", "Node JS", "Docker", "AWS", "GraphQL", "Rust"}

	got := LearningResources(skills)
	require.Len(t, got, 5)

	assert.Equal(t, "Master TypeScript", got[0].Title)
	assert.Equal(t, "Coursera", got[0].Provider)
	assert.Equal(t, "https://freecodecamp.com/node-js", got[1].URL)
	assert.Equal(t, "Free", got[1].Cost)
	assert.Equal(t, "Udemy", got[2].Provider)
	assert.Equal(t, "Coursera", got[3].Provider)
	assert.Equal(t, []string{"GraphQL"}, got[4].Skills)

	assert.Empty(t, LearningResources(nil))
}

package scoring

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"resumematch/internal/types"
)

func assertWithinBounds(t *testing.T, got types.MatchPercentage) {
	t.Helper()
	assert.GreaterOrEqual(t, got.Technical, 25)
	assert.LessOrEqual(t, got.Technical, 90)
	assert.GreaterOrEqual(t, got.Experience, 20)
	assert.LessOrEqual(t, got.Experience, 85)
	assert.GreaterOrEqual(t, got.Education, 35)
	assert.LessOrEqual(t, got.Education, 90)
	assert.Equal(t, Overall(got.Technical, got.Experience, got.Education), got.Overall)
}

func TestSynthesizeBounds(t *testing.T) {
	inputs := []struct {
		name, career, skills, salary string
	}{
		{"empty", "", "", ""},
		{"senior high salary", "Senior Lead Architect", "expert advanced", "£200000 £300000"},
		{"junior low salary", "Junior entry analyst", "beginner basic", "£1000 £2000"},
		{"unrelated text", "Gardener", "soil", "no numbers here"},
	}

	for _, in := range inputs {
		t.Run(in.name, func(t *testing.T) {
			for seed := range int64(50) {
				assertWithinBounds(t, NewSynthesizer(seed).Synthesize(in.career, in.skills, in.salary))
			}
		})
	}
}

func TestSynthesizeSeniorScenario(t *testing.T) {
	salary := "<li>Entry: £70000</li><li>Mid: £90000</li><li>Senior: £120000</li>"

	for seed := range int64(100) {
		got := NewSynthesizer(seed).Synthesize("Senior Software Engineer", "", salary)
		// 40 + 25 + 15 = 80, jitter ±4, clamped at 85
		assert.GreaterOrEqual(t, got.Experience, 76)
		assert.LessOrEqual(t, got.Experience, 84)
		// 45 + 20 + 8 = 73, jitter ±4
		assert.GreaterOrEqual(t, got.Technical, 69)
		assert.LessOrEqual(t, got.Technical, 77)
		assertWithinBounds(t, got)
	}
}

func TestSynthesizeAdjustments(t *testing.T) {
	tests := []struct {
		name                   string
		career, skills, salary string
		technical, experience  int
	}{
		{"baseline", "Analyst", "", "", 45, 40},
		{"lead title", "Team Lead", "", "", 65, 65},
		{"junior title", "Junior Developer", "", "", 40, 30},
		{"expert skills", "Analyst", "Expert Kubernetes", "", 60, 40},
		{"basic skills", "Analyst", "basic SQL", "", 35, 40},
		{"low salary", "Analyst", "", "$20000 $25000", 42, 32},
		{"mid salary unchanged", "Analyst", "", "€45,000", 45, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for seed := range int64(20) {
				got := NewSynthesizer(seed).Synthesize(tt.career, tt.skills, tt.salary)
				assert.InDelta(t, tt.technical, got.Technical, 4)
				assert.InDelta(t, tt.experience, got.Experience, 4)
				assert.InDelta(t, 65, got.Education, 4)
			}
		})
	}
}

func TestSynthesizeSeedIsReproducible(t *testing.T) {
	a := NewSynthesizer(42).Synthesize("Senior Engineer", "advanced Go", "£50000")
	b := NewSynthesizer(42).Synthesize("Senior Engineer", "advanced Go", "£50000")
	assert.Equal(t, a, b)
}

func TestSynthesizeWithSourceMatchesSeed(t *testing.T) {
	seeded := NewSynthesizer(42)
	sourced := NewSynthesizerWithSource(rand.NewPCG(42, 0))
	for range 20 {
		assert.Equal(t,
			seeded.Synthesize("Junior Analyst", "basic SQL", "£22000"),
			sourced.Synthesize("Junior Analyst", "basic SQL", "£22000"))
	}
}

func TestSalaryAmounts(t *testing.T) {
	tests := []struct {
		text string
		want []int
	}{
		{"Entry: £25000, Mid: £45000", []int{25000, 45000}},
		{"Senior: $120,000", []int{120000}},
		{"€ 30000 and 40000", []int{30000}},
		{"no money", nil},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, SalaryAmounts(tt.text))
		})
	}
}

func TestOverall(t *testing.T) {
	assert.Equal(t, 78, Overall(75, 80, 80))
	assert.Equal(t, 50, Overall(50, 50, 50))
	assert.Equal(t, 67, Overall(66, 67, 67))
}

func BenchmarkSynthesize(b *testing.B) {
	s := NewSynthesizer(1)
	for b.Loop() {
		s.Synthesize("Senior Engineer", "advanced distributed systems", "£70000 £90000 £120000")
	}
}

// Package scoring derives match scores when the analysis response carries none.
package scoring

import (
	"math"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"resumematch/internal/types"
)

const (
	baseTechnical  = 45
	baseExperience = 40
	baseEducation  = 65

	jitterRange = 4

	highSalaryMean = 60000
	lowSalaryMean  = 30000
)

type bounds struct{ min, max int }

var (
	technicalBounds  = bounds{25, 90}
	experienceBounds = bounds{20, 85}
	educationBounds  = bounds{35, 90}
)

// amountPattern matches a currency symbol followed by an integer, thousands separators allowed
var amountPattern = regexp.MustCompile(`([£$€])\s?(\d{1,3}(?:,\d{3})+|\d+)`)

// Synthesizer produces plausible match percentages from weak textual signals.
// Output carries a bounded random jitter drawn from the injected source.
type Synthesizer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSynthesizer creates a synthesizer whose jitter is reproducible for a seed
func NewSynthesizer(seed int64) *Synthesizer {
	return &Synthesizer{rng: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// NewSynthesizerWithSource creates a synthesizer over an existing source
func NewSynthesizerWithSource(src rand.Source) *Synthesizer {
	return &Synthesizer{rng: rand.New(src)}
}

// Synthesize derives match percentages from the suggested career title,
// the skill-gap section text and the salary section text.
func (s *Synthesizer) Synthesize(career, skillGapText, salaryText string) types.MatchPercentage {
	technical, experience, education := baseTechnical, baseExperience, baseEducation

	title := strings.ToLower(career)
	switch {
	case strings.Contains(title, "senior") || strings.Contains(title, "lead"):
		technical += 20
		experience += 25
	case strings.Contains(title, "junior") || strings.Contains(title, "entry"):
		technical -= 5
		experience -= 10
	}

	skills := strings.ToLower(skillGapText)
	switch {
	case strings.Contains(skills, "advanced") || strings.Contains(skills, "expert"):
		technical += 15
	case strings.Contains(skills, "beginner") || strings.Contains(skills, "basic"):
		technical -= 10
	}

	if amounts := SalaryAmounts(salaryText); len(amounts) > 0 {
		mean := meanOf(amounts)
		switch {
		case mean > highSalaryMean:
			experience += 15
			technical += 8
		case mean < lowSalaryMean:
			experience -= 8
			technical -= 3
		}
	}

	s.mu.Lock()
	technical += s.jitter()
	experience += s.jitter()
	education += s.jitter()
	s.mu.Unlock()

	technical = clamp(technical, technicalBounds)
	experience = clamp(experience, experienceBounds)
	education = clamp(education, educationBounds)

	return types.MatchPercentage{
		Overall:    Overall(technical, experience, education),
		Technical:  technical,
		Experience: experience,
		Education:  education,
	}
}

// jitter returns a uniform integer in [-jitterRange, jitterRange]; callers hold s.mu
func (s *Synthesizer) jitter() int {
	return s.rng.IntN(2*jitterRange+1) - jitterRange
}

// SalaryAmounts returns every currency-prefixed integer found in text
func SalaryAmounts(text string) []int {
	var amounts []int
	for _, m := range amountPattern.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(strings.ReplaceAll(m[2], ",", ""))
		if err != nil {
			continue
		}
		amounts = append(amounts, n)
	}
	return amounts
}

// FirstAmount returns the first currency-prefixed integer in text and its symbol
func FirstAmount(text string) (int, string, bool) {
	m := amountPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, "", false
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m[2], ",", ""))
	if err != nil {
		return 0, "", false
	}
	return n, m[1], true
}

// Overall is the rounded mean of the three axis scores
func Overall(technical, experience, education int) int {
	return int(math.Round(float64(technical+experience+education) / 3))
}

func meanOf(values []int) float64 {
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

func clamp(v int, b bounds) int {
	return max(b.min, min(v, b.max))
}

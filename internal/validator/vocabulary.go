package validator

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Vocabulary is the lexical knowledge the validator matches against.
// All terms are lower case; matching is substring containment.
type Vocabulary struct {
	Negative   []string `mapstructure:"negative"`
	Positive   []string `mapstructure:"positive"`
	Experience []string `mapstructure:"experience"`
	Education  []string `mapstructure:"education"`
	Skills     []string `mapstructure:"skills"`
}

var defaultPositive = []string{
	"experience", "education", "skills", "work", "job", "employment",
	"career", "professional", "qualification", "degree", "university",
	"college", "certification", "training", "project", "achievement",
	"responsibility", "duties", "position", "role", "company",
	"organization", "cv", "resume", "curriculum vitae", "summary",
	"objective", "profile", "background", "employment history",
	"work history", "professional experience", "academic",
	"bachelor", "master", "phd", "diploma", "certificate",
}

var defaultNegative = []string{
	"invoice", "receipt", "bill", "payment", "bank statement",
	"contract", "agreement", "terms and conditions", "court",
	"medical report", "prescription", "diagnosis", "treatment", "patient",
	"recipe", "restaurant menu",
	"user manual", "instruction manual", "product guide", "how to",
	"academic paper", "research article", "scientific journal",
	"newsletter", "magazine", "blog post",
	"price list", "total amount", "due date",
	"medication", "doctor note",
	"ingredients list", "cooking time", "serves", "preparation time",
	"invoice number", "shipping address", "billing address", "purchase order",
	"statement of account", "transaction", "credit card", "debit card",
	"insurance policy", "claim", "policy number", "coverage",
	"prescription number", "pharmacy", "dosage", "refill",
	"menu item", "appetizer", "main course", "dessert", "beverage",
	"table of contents", "chapter", "section", "appendix", "reference",
	"abstract", "introduction", "methodology", "results", "discussion",
	"conclusion", "bibliography", "citation", "footnote",
	"newsletter subscription", "editorial", "advertisement",
	"press release", "event invitation", "wedding invitation",
	"birthday invitation", "greeting card", "thank you note",
	"packing list", "shipping label", "tracking number",
	"return policy", "warranty", "service agreement",
	"maintenance report", "inspection report", "audit", "balance sheet",
	"income statement", "profit and loss", "tax return", "tax form",
	"utility bill", "electricity bill", "water bill", "gas bill",
	"lease agreement", "rental agreement", "mortgage", "deed",
	"passport", "visa", "boarding pass", "itinerary", "travel plan",
	"flight ticket", "hotel reservation", "booking confirmation",
}

// DefaultVocabulary returns a copy of the built-in vocabulary.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Negative:   append([]string(nil), defaultNegative...),
		Positive:   append([]string(nil), defaultPositive...),
		Experience: []string{"experience", "employment", "work"},
		Education:  []string{"education", "degree", "university", "college"},
		Skills:     []string{"skills", "technical", "proficient"},
	}
}

// LoadVocabulary reads a vocabulary file (any format viper understands).
// Lists missing from the file keep their default values.
func LoadVocabulary(path string) (Vocabulary, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Vocabulary{}, fmt.Errorf("failed to read vocabulary file %s: %w", path, err)
	}

	var vocab Vocabulary
	if err := v.Unmarshal(&vocab); err != nil {
		return Vocabulary{}, fmt.Errorf("failed to decode vocabulary file %s: %w", path, err)
	}

	defaults := DefaultVocabulary()
	for key, pair := range map[string]struct{ dst, def *[]string }{
		"negative":   {&vocab.Negative, &defaults.Negative},
		"positive":   {&vocab.Positive, &defaults.Positive},
		"experience": {&vocab.Experience, &defaults.Experience},
		"education":  {&vocab.Education, &defaults.Education},
		"skills":     {&vocab.Skills, &defaults.Skills},
	} {
		if !v.IsSet(key) {
			*pair.dst = *pair.def
		}
	}

	vocab = vocab.normalized()
	if err := vocab.Validate(); err != nil {
		return Vocabulary{}, fmt.Errorf("invalid vocabulary file %s: %w", path, err)
	}
	return vocab, nil
}

// Validate checks that every list has at least one term
func (v Vocabulary) Validate() error {
	lists := []struct {
		name  string
		terms []string
	}{
		{"negative", v.Negative},
		{"positive", v.Positive},
		{"experience", v.Experience},
		{"education", v.Education},
		{"skills", v.Skills},
	}
	for _, l := range lists {
		if len(l.terms) == 0 {
			return fmt.Errorf("%s vocabulary is empty", l.name)
		}
	}
	return nil
}

func (v Vocabulary) normalized() Vocabulary {
	return Vocabulary{
		Negative:   normalizeTerms(v.Negative),
		Positive:   normalizeTerms(v.Positive),
		Experience: normalizeTerms(v.Experience),
		Education:  normalizeTerms(v.Education),
		Skills:     normalizeTerms(v.Skills),
	}
}

func normalizeTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

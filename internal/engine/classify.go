package engine

import (
	"strings"

	"github.com/piwi3910/CircuitSizer/internal/model"
)

// OutletRule selects how many outlets a room receives.
type OutletRule int

const (
	RuleByArea   OutletRule = iota // One outlet per 5 m of perimeter, one for small rooms
	RuleSingle                     // Bathrooms: exactly one outlet
	RuleKitchen                    // One outlet per 3.5 m of perimeter, at least two
	RuleExternal                   // Outdoor areas: exactly one outlet
)

func (r OutletRule) String() string {
	switch r {
	case RuleSingle:
		return "single"
	case RuleKitchen:
		return "kitchen"
	case RuleExternal:
		return "external"
	default:
		return "by-area"
	}
}

// Profile is what the pipeline needs to know about a room from its name.
type Profile struct {
	Outlets OutletRule
	Special bool // Up to three 600 VA outlets
	Class   model.LoadClass
}

// Classifier resolves a room name into a Profile.
type Classifier interface {
	Classify(name string) Profile
}

// KeywordClassifier matches normalized room names against keyword lists.
// All lists except External are exact matches; External is a substring match.
type KeywordClassifier struct {
	SingleOutlet   []string
	Kitchen        []string
	External       []string
	Special        []string
	WetExternal    []string
	KitchenService []string
}

// DefaultClassifier returns the keyword sets for Portuguese room names.
func DefaultClassifier() *KeywordClassifier {
	return &KeywordClassifier{
		SingleOutlet:   []string{"banheiro", "wc"},
		Kitchen:        []string{"cozinha", "copa", "copa-cozinha", "area de serviço", "lavanderia"},
		External:       []string{"externa", "varanda", "quintal"},
		Special:        []string{"banheiro", "wc", "cozinha", "copa", "lavanderia", "area de serviço", "área externa", "area externa", "varanda", "quintal"},
		WetExternal:    []string{"banheiro", "wc", "área externa", "area externa", "quintal", "varanda"},
		KitchenService: []string{"cozinha", "copa", "area de serviço", "lavanderia"},
	}
}

// NormalizeName lowercases a room name for keyword matching. Surrounding
// spaces are kept; callers trim names on input.
func NormalizeName(name string) string {
	return strings.ToLower(name)
}

func (k *KeywordClassifier) Classify(name string) Profile {
	n := NormalizeName(name)

	p := Profile{Outlets: RuleByArea, Class: model.ClassGeneral}
	switch {
	case contains(k.SingleOutlet, n):
		p.Outlets = RuleSingle
	case contains(k.Kitchen, n):
		p.Outlets = RuleKitchen
	case containsSubstring(k.External, n):
		p.Outlets = RuleExternal
	}

	p.Special = contains(k.Special, n)

	switch {
	case contains(k.WetExternal, n):
		p.Class = model.ClassWetExternal
	case contains(k.KitchenService, n):
		p.Class = model.ClassKitchenService
	}
	return p
}

func contains(list []string, n string) bool {
	for _, s := range list {
		if s == n {
			return true
		}
	}
	return false
}

func containsSubstring(list []string, n string) bool {
	for _, s := range list {
		if strings.Contains(n, s) {
			return true
		}
	}
	return false
}

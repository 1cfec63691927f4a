package scanner

import (
	"sort"
	"strings"

	"github.com/angelmondragon/storefront/internal/products"
)

const (
	DefaultTopN            = 8
	DefaultAffordablePrice = 500000
	DefaultMidRangePrice   = 1000000
)

// Recommendation pairs a catalog product with why and how well it matches.
type Recommendation struct {
	Product    products.Product `json:"product"`
	Reason     string           `json:"reason"`
	MatchScore int              `json:"matchScore"`
}

// ScoreOptions tunes the recommender. Zero values fall back to defaults.
type ScoreOptions struct {
	TopN            int
	AffordablePrice int64
	MidRangePrice   int64
}

func (o ScoreOptions) withDefaults() ScoreOptions {
	if o.TopN <= 0 {
		o.TopN = DefaultTopN
	}
	if o.AffordablePrice <= 0 {
		o.AffordablePrice = DefaultAffordablePrice
	}
	if o.MidRangePrice <= 0 {
		o.MidRangePrice = DefaultMidRangePrice
	}
	return o
}

// Recommend scores every product against the analysis and returns the best
// matches, highest score first. Products scoring zero are dropped; ties keep
// catalog order.
func Recommend(analysis Analysis, catalog []products.Product, opts ScoreOptions) []Recommendation {
	opts = opts.withDefaults()
	out := make([]Recommendation, 0, len(catalog))
	for _, p := range catalog {
		score, reason := scoreProduct(analysis, p, opts)
		if score <= 0 {
			continue
		}
		out = append(out, Recommendation{Product: p, Reason: reason, MatchScore: score})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MatchScore > out[j].MatchScore
	})
	if len(out) > opts.TopN {
		out = out[:opts.TopN]
	}
	return out
}

func scoreProduct(analysis Analysis, p products.Product, opts ScoreOptions) (int, string) {
	name := strings.ToLower(p.Name)
	var (
		score  int
		reason string
	)
	apply := func(rules []rule) {
		for _, r := range rules {
			if !r.matches(name) {
				continue
			}
			score += r.points
			if r.mode == reasonAppend {
				reason += " " + r.reason
			} else {
				reason = r.reason
			}
		}
	}

	apply(selectBranch(toneBranches, analysis.SkinTone))
	apply(selectBranch(typeBranches, analysis.SkinType))
	apply(selectBranch(shapeBranches, analysis.FaceShape))
	apply(genericRules)

	if score == 0 {
		return 0, ""
	}
	switch {
	case p.Price < opts.AffordablePrice:
		score += affordableBonus
	case p.Price < opts.MidRangePrice:
		score += midRangeBonus
	}
	return score, strings.TrimSpace(reason)
}

func selectBranch(branches []branch, attribute string) []rule {
	attr := strings.ToLower(attribute)
	for _, b := range branches {
		if strings.Contains(attr, b.keyword) {
			return b.rules
		}
	}
	return nil
}

func (r rule) matches(name string) bool {
	for _, term := range r.all {
		if !strings.Contains(name, term) {
			return false
		}
	}
	if len(r.anyOf) == 0 {
		return true
	}
	for _, term := range r.anyOf {
		if strings.Contains(name, term) {
			return true
		}
	}
	return false
}

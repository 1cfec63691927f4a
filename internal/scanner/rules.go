package scanner

type reasonMode int

const (
	reasonSet reasonMode = iota
	reasonAppend
)

// rule awards points when the lowercased product name contains every term in
// all and at least one term in anyOf (when anyOf is non-empty).
type rule struct {
	all    []string
	anyOf  []string
	points int
	reason string
	mode   reasonMode
}

// branch is one arm of an if/else-if chain keyed on an analysis attribute.
type branch struct {
	keyword string
	rules   []rule
}

var toneBranches = []branch{
	{keyword: "warm", rules: []rule{
		{all: []string{"foundation"}, anyOf: []string{"warm", "golden", "beige"}, points: 40, reason: "Warm-toned foundation perfect for your skin tone"},
		{all: []string{"blush"}, anyOf: []string{"coral", "peach", "warm"}, points: 35, reason: "Warm blush tones to complement your skin"},
		{all: []string{"lipstick"}, anyOf: []string{"coral", "peach", "warm"}, points: 30, reason: "Warm lipstick shades for your skin tone"},
	}},
	{keyword: "cool", rules: []rule{
		{all: []string{"foundation"}, anyOf: []string{"cool", "pink", "neutral"}, points: 40, reason: "Cool-toned foundation perfect for your skin tone"},
		{all: []string{"blush"}, anyOf: []string{"pink", "rose", "cool"}, points: 35, reason: "Cool blush tones to complement your skin"},
		{all: []string{"lipstick"}, anyOf: []string{"pink", "rose", "cool"}, points: 30, reason: "Cool lipstick shades for your skin tone"},
	}},
}

var typeBranches = []branch{
	{keyword: "combination", rules: []rule{
		{all: []string{"foundation"}, anyOf: []string{"matte", "oil", "control"}, points: 25, reason: "Oil-control formula for combination skin", mode: reasonAppend},
		{all: []string{"primer"}, anyOf: []string{"pore", "matte"}, points: 20, reason: "Pore-minimizing primer for combination skin"},
	}},
	{keyword: "dry", rules: []rule{
		{all: []string{"foundation"}, anyOf: []string{"hydrating", "moisture", "dewy"}, points: 25, reason: "Hydrating formula for dry skin", mode: reasonAppend},
		{all: []string{"primer"}, anyOf: []string{"hydrating", "moisture"}, points: 20, reason: "Hydrating primer for dry skin"},
	}},
	{keyword: "oily", rules: []rule{
		{all: []string{"foundation"}, anyOf: []string{"matte", "oil", "control"}, points: 25, reason: "Oil-control formula for oily skin", mode: reasonAppend},
		{all: []string{"powder"}, anyOf: []string{"setting", "matte"}, points: 20, reason: "Setting powder for oily skin"},
	}},
}

var shapeBranches = []branch{
	{keyword: "oval", rules: []rule{
		{anyOf: []string{"highlight", "illuminator"}, points: 20, reason: "Perfect for highlighting your oval face shape", mode: reasonAppend},
		{anyOf: []string{"contour", "bronzer"}, points: 15, reason: "Subtle contouring for oval face", mode: reasonAppend},
	}},
	{keyword: "round", rules: []rule{
		{anyOf: []string{"contour", "bronzer"}, points: 25, reason: "Contouring to define your round face", mode: reasonAppend},
		{all: []string{"blush"}, anyOf: []string{"matte", "natural"}, points: 20, reason: "Natural blush for round face", mode: reasonAppend},
	}},
	{keyword: "square", rules: []rule{
		{anyOf: []string{"highlight", "illuminator"}, points: 25, reason: "Highlighting to soften square features", mode: reasonAppend},
		{all: []string{"blush"}, anyOf: []string{"soft", "natural"}, points: 20, reason: "Soft blush to soften square features", mode: reasonAppend},
	}},
}

var genericRules = []rule{
	{all: []string{"concealer"}, points: 15, reason: "Essential for covering imperfections", mode: reasonAppend},
	{all: []string{"mascara"}, points: 10, reason: "Enhances your natural beauty", mode: reasonAppend},
	{all: []string{"eyeliner"}, points: 10, reason: "Defines your eyes beautifully", mode: reasonAppend},
	{all: []string{"eyeshadow"}, points: 10, reason: "Complements your skin tone", mode: reasonAppend},
	{all: []string{"setting spray"}, points: 15, reason: "Keeps your makeup in place", mode: reasonAppend},
}

const (
	affordableBonus = 5
	midRangeBonus   = 3
)

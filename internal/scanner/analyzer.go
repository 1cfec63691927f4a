package scanner

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"time"
)

var (
	SkinTones  = []string{"Warm Light", "Warm Medium", "Warm Deep", "Cool Light", "Cool Medium", "Cool Deep", "Neutral Light", "Neutral Medium"}
	SkinTypes  = []string{"Dry", "Oily", "Combination", "Normal", "Sensitive"}
	FaceShapes = []string{"Oval", "Round", "Square", "Heart", "Diamond", "Rectangle"}
)

const DefaultMaxAdvice = 6

// Analysis is the simulated result of a face scan. It is never persisted.
type Analysis struct {
	SkinTone        string   `json:"skinTone"`
	SkinType        string   `json:"skinType"`
	FaceShape       string   `json:"faceShape"`
	Recommendations []string `json:"recommendations"`
}

var toneAdvice = []struct {
	keyword string
	lines   []string
}{
	{"warm", []string{
		"Choose a warm-toned foundation to match your skin",
		"Use coral or peach blush to lift a warm complexion",
	}},
	{"cool", []string{
		"Choose a cool-toned foundation with a pink undertone",
		"Use pink or rose blush to suit a cool complexion",
	}},
}

var neutralToneAdvice = []string{
	"Choose a neutral foundation to match a balanced undertone",
	"Most color families will work for you",
}

var typeAdvice = []struct {
	keyword string
	lines   []string
}{
	{"dry", []string{
		"Use a cream or liquid foundation with high moisture",
		"Add a hydrating primer before makeup",
	}},
	{"oily", []string{
		"Pick a matte foundation to control shine",
		"Use setting powder to make your look last longer",
	}},
	{"combination", []string{
		"Use a foundation made for combination skin",
		"Focus oil control on the T-zone",
	}},
}

var shapeAdvice = []struct {
	keyword string
	lines   []string
}{
	{"oval", []string{
		"Highlight the cheekbones to show off your oval face",
		"Most makeup styles suit your face shape",
	}},
	{"round", []string{
		"Contour to add definition to a round face",
		"Highlight the center of the forehead and chin to lengthen the face",
	}},
	{"square", []string{
		"Contour the jaw corners to soften a square face",
		"Highlight the center of the forehead to balance proportions",
	}},
}

var generalAdvice = []string{
	"Always apply sunscreen before makeup",
	"Remove makeup thoroughly at the end of the day",
}

// Analyzer simulates the face scan. Safe for concurrent use.
type Analyzer struct {
	mu        sync.Mutex
	rng       *rand.Rand
	maxAdvice int
	delay     time.Duration
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithSource makes the picks reproducible.
func WithSource(src rand.Source) AnalyzerOption {
	return func(a *Analyzer) {
		if src != nil {
			a.rng = rand.New(src)
		}
	}
}

func WithMaxAdvice(n int) AnalyzerOption {
	return func(a *Analyzer) {
		if n > 0 {
			a.maxAdvice = n
		}
	}
}

// WithDelay simulates processing time before a result is returned.
func WithDelay(d time.Duration) AnalyzerOption {
	return func(a *Analyzer) {
		if d > 0 {
			a.delay = d
		}
	}
}

func NewAnalyzer(opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		rng:       rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5ca11)),
		maxAdvice: DefaultMaxAdvice,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// Analyze returns a random analysis drawn from the fixed enums.
func (a *Analyzer) Analyze(ctx context.Context) (Analysis, error) {
	if a.delay > 0 {
		timer := time.NewTimer(a.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Analysis{}, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}

	a.mu.Lock()
	tone := SkinTones[a.rng.IntN(len(SkinTones))]
	skinType := SkinTypes[a.rng.IntN(len(SkinTypes))]
	shape := FaceShapes[a.rng.IntN(len(FaceShapes))]
	a.mu.Unlock()

	return Analysis{
		SkinTone:        tone,
		SkinType:        skinType,
		FaceShape:       shape,
		Recommendations: Advice(tone, skinType, shape, a.maxAdvice),
	}, nil
}

// Advice builds the ordered advice lines for an analysis, capped at max.
func Advice(tone, skinType, shape string, max int) []string {
	if max <= 0 {
		max = DefaultMaxAdvice
	}
	lines := make([]string, 0, 8)

	toneLines := neutralToneAdvice
	for _, t := range toneAdvice {
		if strings.Contains(strings.ToLower(tone), t.keyword) {
			toneLines = t.lines
			break
		}
	}
	lines = append(lines, toneLines...)

	for _, t := range typeAdvice {
		if strings.Contains(strings.ToLower(skinType), t.keyword) {
			lines = append(lines, t.lines...)
			break
		}
	}
	for _, s := range shapeAdvice {
		if strings.Contains(strings.ToLower(shape), s.keyword) {
			lines = append(lines, s.lines...)
			break
		}
	}
	lines = append(lines, generalAdvice...)

	if len(lines) > max {
		lines = lines[:max]
	}
	return lines
}

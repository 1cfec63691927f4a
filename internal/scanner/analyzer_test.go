package scanner

import (
	"context"
	"math/rand/v2"
	"slices"
	"testing"
	"time"
)

func TestAnalyzeDrawsFromEnums(t *testing.T) {
	a := NewAnalyzer(WithSource(rand.NewPCG(1, 2)))
	for i := 0; i < 50; i++ {
		got, err := a.Analyze(context.Background())
		if err != nil {
			t.Fatalf("analyze: %v", err)
		}
		if !slices.Contains(SkinTones, got.SkinTone) {
			t.Fatalf("unexpected tone %q", got.SkinTone)
		}
		if !slices.Contains(SkinTypes, got.SkinType) {
			t.Fatalf("unexpected type %q", got.SkinType)
		}
		if !slices.Contains(FaceShapes, got.FaceShape) {
			t.Fatalf("unexpected shape %q", got.FaceShape)
		}
		if len(got.Recommendations) == 0 || len(got.Recommendations) > DefaultMaxAdvice {
			t.Fatalf("advice count out of range: %d", len(got.Recommendations))
		}
	}
}

func TestAnalyzeReproducibleWithSource(t *testing.T) {
	first := NewAnalyzer(WithSource(rand.NewPCG(7, 9)))
	second := NewAnalyzer(WithSource(rand.NewPCG(7, 9)))
	for i := 0; i < 10; i++ {
		a, _ := first.Analyze(context.Background())
		b, _ := second.Analyze(context.Background())
		if a.SkinTone != b.SkinTone || a.SkinType != b.SkinType || a.FaceShape != b.FaceShape {
			t.Fatalf("draw %d differs: %+v vs %+v", i, a, b)
		}
	}
}

func TestAnalyzeHonorsCancellation(t *testing.T) {
	a := NewAnalyzer(WithDelay(time.Minute))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := a.Analyze(ctx); err == nil {
		t.Fatalf("expected cancellation error")
	}

	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	start := time.Now()
	if _, err := a.Analyze(ctx); err == nil {
		t.Fatalf("expected deadline error")
	}
	if time.Since(start) > 5*time.Second {
		t.Fatalf("analyze did not stop on deadline")
	}
}

func TestAdvice(t *testing.T) {
	got := Advice("Warm Light", "Oily", "Round", 0)
	if len(got) != DefaultMaxAdvice {
		t.Fatalf("expected cap of %d, got %d", DefaultMaxAdvice, len(got))
	}
	if got[0] != "Choose a warm-toned foundation to match your skin" {
		t.Fatalf("tone advice must come first, got %q", got[0])
	}
	if got[2] != "Pick a matte foundation to control shine" {
		t.Fatalf("type advice must follow tone, got %q", got[2])
	}

	neutral := Advice("Neutral Medium", "Normal", "Heart", 10)
	want := []string{
		"Choose a neutral foundation to match a balanced undertone",
		"Most color families will work for you",
		"Always apply sunscreen before makeup",
		"Remove makeup thoroughly at the end of the day",
	}
	if !slices.Equal(neutral, want) {
		t.Fatalf("unexpected neutral advice %v", neutral)
	}

	if got := Advice("Cool Deep", "Dry", "Square", 3); len(got) != 3 {
		t.Fatalf("expected explicit cap, got %d", len(got))
	}
}

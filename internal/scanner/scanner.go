// Package scanner runs the simulated beauty scan and ranks catalog products
// against its result.
package scanner

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront/internal/products"
	"github.com/angelmondragon/storefront/pkg/apiclient"
	"github.com/angelmondragon/storefront/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
)

// Result is what the scanner screen renders.
type Result struct {
	Analysis        Analysis         `json:"analysis"`
	Recommendations []Recommendation `json:"recommendedProducts"`
}

type catalogLister interface {
	ListProducts(ctx context.Context) ([]products.Product, error)
}

// Scanner combines the analyzer with the live catalog.
type Scanner struct {
	catalog  catalogLister
	analyzer *Analyzer
	tokens   apiclient.TokenSource
	opts     ScoreOptions
	logg     *logger.Logger
}

// Params bundles the scanner dependencies. Tokens is optional; when set the
// scan requires a signed-in user.
type Params struct {
	Catalog  catalogLister
	Analyzer *Analyzer
	Tokens   apiclient.TokenSource
	Config   config.ScannerConfig
	Logger   *logger.Logger
}

func New(params Params) (*Scanner, error) {
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	analyzer := params.Analyzer
	if analyzer == nil {
		analyzer = NewAnalyzer(WithMaxAdvice(params.Config.MaxAdvice))
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &Scanner{
		catalog:  params.Catalog,
		analyzer: analyzer,
		tokens:   params.Tokens,
		opts: ScoreOptions{
			TopN:            params.Config.TopN,
			AffordablePrice: int64(params.Config.AffordablePrice),
			MidRangePrice:   int64(params.Config.MidRangePrice),
		},
		logg: logg,
	}, nil
}

// Scan analyzes the (simulated) photo and recommends products from the catalog.
func (s *Scanner) Scan(ctx context.Context) (*Result, error) {
	if s.tokens != nil {
		token, err := s.tokens.Token(ctx)
		if err != nil || strings.TrimSpace(token) == "" {
			return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "Please login to use AI analysis")
		}
	}

	catalog, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	analysis, err := s.analyzer.Analyze(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeCanceled, err, "analysis interrupted")
	}

	recs := Recommend(analysis, catalog, s.opts)
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"skin_tone":       analysis.SkinTone,
		"skin_type":       analysis.SkinType,
		"face_shape":      analysis.FaceShape,
		"catalog_size":    len(catalog),
		"recommendations": len(recs),
	}), "scanner.scan.complete")

	return &Result{Analysis: analysis, Recommendations: recs}, nil
}

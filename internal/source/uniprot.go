// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/pdiddy/seqref/internal/httputil"
	"github.com/pdiddy/seqref/internal/throttle"
	"github.com/pdiddy/seqref/pkg/types"
)

// uniprotAPIBase is the UniProtKB search endpoint. Declared as a var so
// tests can substitute an httptest server.
var uniprotAPIBase = "https://rest.uniprot.org/uniprotkb/search"

// UniProt is the primary source client. It asks UniProtKB for at most one
// exact match on protein name and organism, in FASTA form.
type UniProt struct {
	HTTP    *httputil.Client
	Pacer   throttle.Pacer
	Logger  *zap.Logger
	BaseURL string
}

// NewUniProt builds the primary client from cfg.
func NewUniProt(hc *httputil.Client, cfg types.UniProtConfig, logger *zap.Logger) *UniProt {
	return &UniProt{
		HTTP:    hc,
		Pacer:   throttle.New(cfg.Delay),
		Logger:  logger,
		BaseURL: cfg.BaseURL,
	}
}

// Name returns the source identifier.
func (u *UniProt) Name() string { return "uniprot" }

// Lookup returns the best match for proteinName in organism. The remote
// ranking decides which entry comes first; size=1 keeps only that one.
func (u *UniProt) Lookup(ctx context.Context, proteinName, organism string) Result {
	log := u.logger().With(zap.String("protein", proteinName), zap.String("organism", organism))

	if u.Pacer != nil {
		if err := u.Pacer.Wait(ctx); err != nil {
			log.Warn("uniprot lookup failed", zap.Error(err))
			return Failed(err)
		}
	}

	params := url.Values{
		"query":  {buildUniProtQuery(proteinName, organism)},
		"format": {"fasta"},
		"size":   {"1"},
	}
	body, err := u.HTTP.GetText(ctx, u.baseURL(), params)
	if err != nil {
		log.Warn("uniprot lookup failed", zap.Error(err))
		return Failed(err)
	}

	return accept(body, log, "uniprot miss")
}

// buildUniProtQuery constructs the exact-match query on both fields.
func buildUniProtQuery(proteinName, organism string) string {
	return fmt.Sprintf(`protein_name:"%s" AND organism_name:"%s"`, proteinName, organism)
}

func (u *UniProt) baseURL() string {
	if u.BaseURL != "" {
		return u.BaseURL
	}
	return uniprotAPIBase
}

func (u *UniProt) logger() *zap.Logger {
	if u.Logger == nil {
		return zap.NewNop()
	}
	return u.Logger
}

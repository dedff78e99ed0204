// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/pdiddy/seqref/internal/httputil"
	"github.com/pdiddy/seqref/pkg/types"
)

// E-utilities endpoints. Declared as vars so tests can substitute an
// httptest server.
var (
	esearchAPIBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"
	efetchAPIBase  = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi"
)

// Finder resolves a protein name and organism to candidate identifiers.
type Finder interface {
	FindIDs(ctx context.Context, proteinName, organism string) ([]string, error)
}

// Fetcher retrieves a full FASTA record by identifier.
type Fetcher interface {
	FetchFASTA(ctx context.Context, id string) (string, error)
}

// Entrez implements Finder and Fetcher against NCBI E-utilities. It does no
// pacing of its own; NCBI wraps every call with its Pacer.
type Entrez struct {
	HTTP       *httputil.Client
	DB         string
	Tool       string
	Email      string
	APIKey     string
	ESearchURL string
	EFetchURL  string
}

// NewEntrez builds an E-utilities transport from cfg.
func NewEntrez(hc *httputil.Client, cfg types.NCBIConfig) *Entrez {
	return &Entrez{
		HTTP:       hc,
		DB:         cfg.DB,
		Tool:       cfg.Tool,
		Email:      cfg.Email,
		APIKey:     cfg.APIKey,
		ESearchURL: cfg.ESearchURL,
		EFetchURL:  cfg.EFetchURL,
	}
}

type esearchResponse struct {
	Result struct {
		Count  string   `json:"count"`
		IDList []string `json:"idlist"`
		Error  string   `json:"ERROR"`
	} `json:"esearchresult"`
	Error string `json:"error"`
}

// FindIDs runs an exact-phrase esearch on the protein-name and organism
// fields. The ids come back in the order NCBI ranks them.
func (e *Entrez) FindIDs(ctx context.Context, proteinName, organism string) ([]string, error) {
	params := e.common()
	params.Set("term", buildEntrezTerm(proteinName, organism))
	params.Set("retmax", "1")
	params.Set("retmode", "json")

	body, err := e.HTTP.GetText(ctx, pick(e.ESearchURL, esearchAPIBase), params)
	if err != nil {
		return nil, errors.Wrap(err, "esearch")
	}

	var resp esearchResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return nil, errors.Wrap(err, "parsing esearch response")
	}
	if resp.Error != "" {
		return nil, errors.Newf("esearch: %s", resp.Error)
	}
	if resp.Result.Error != "" {
		return nil, errors.Newf("esearch: %s", resp.Result.Error)
	}
	return resp.Result.IDList, nil
}

// FetchFASTA runs efetch for id with rettype=fasta.
func (e *Entrez) FetchFASTA(ctx context.Context, id string) (string, error) {
	params := e.common()
	params.Set("id", id)
	params.Set("rettype", "fasta")
	params.Set("retmode", "text")

	body, err := e.HTTP.GetText(ctx, pick(e.EFetchURL, efetchAPIBase), params)
	if err != nil {
		return "", errors.Wrapf(err, "efetch %s", id)
	}
	return body, nil
}

func (e *Entrez) common() url.Values {
	v := url.Values{}
	v.Set("db", pick(e.DB, "protein"))
	if e.Tool != "" {
		v.Set("tool", e.Tool)
	}
	if e.Email != "" {
		v.Set("email", e.Email)
	}
	if e.APIKey != "" {
		v.Set("api_key", e.APIKey)
	}
	return v
}

// buildEntrezTerm quotes both phrases and restricts them to their fields.
func buildEntrezTerm(proteinName, organism string) string {
	return fmt.Sprintf(`"%s"[Protein Name] AND "%s"[Organism]`,
		strings.ReplaceAll(proteinName, `"`, ""), strings.ReplaceAll(organism, `"`, ""))
}

func pick(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetText_ReturnsTrimmedBody(t *testing.T) {
	var gotUA, gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotQuery = r.URL.Query().Get("query")
		fmt.Fprint(w, "\n  >sp|P1|X\nMKV\n\n")
	}))
	defer ts.Close()

	c := &Client{HTTP: ts.Client(), UserAgent: "seqref-test/0.1"}
	body, err := c.GetText(context.Background(), ts.URL, url.Values{"query": {`protein_name:"a b"`}})
	require.NoError(t, err)

	assert.Equal(t, ">sp|P1|X\nMKV", body)
	assert.Equal(t, "seqref-test/0.1", gotUA)
	assert.Equal(t, `protein_name:"a b"`, gotQuery)
}

func TestGetText_NonOKIsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer ts.Close()

	c := &Client{HTTP: ts.Client()}
	_, err := c.GetText(context.Background(), ts.URL, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStatus))
	assert.Contains(t, err.Error(), "HTTP 502")
}

func TestGetText_TransportErrorRedactsQuery(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	addr := ts.URL
	ts.Close()

	c := &Client{HTTP: &http.Client{}}
	_, err := c.GetText(context.Background(), addr, url.Values{"api_key": {"s3cret"}})
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "s3cret")
}

func TestRedact(t *testing.T) {
	assert.Equal(t, "https://x.org/e", redact("https://x.org/e?api_key=1"))
	assert.Equal(t, "https://x.org/e", redact("https://x.org/e"))
}

// Package peeringdb looks up peers' self-declared prefix counts in the
// PeeringDB registry. Registry data is self-reported and untrusted: it
// informs advisory output only, never direct mutation.
package peeringdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/maxpfx-net/maxpfx/pkg/util"
)

// DefaultBaseURL is the public PeeringDB API endpoint.
const DefaultBaseURL = "https://www.peeringdb.com/api"

const requestTimeout = 30 * time.Second

// Counts holds a network's declared prefix counts, both families.
// PeeringDB returns both even when only one is configured locally.
type Counts struct {
	Prefixes4 int `json:"prefixes4"`
	Prefixes6 int `json:"prefixes6"`
}

// Source yields declared counts per ASN. Implemented by Client and Cache.
type Source interface {
	LookupASN(ctx context.Context, asn uint32) (Counts, error)
}

// Client queries the PeeringDB net endpoint over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a registry client. An empty baseURL selects the
// public PeeringDB API.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

type netResponse struct {
	Data []struct {
		ASN           uint32 `json:"asn"`
		InfoPrefixes4 int    `json:"info_prefixes4"`
		InfoPrefixes6 int    `json:"info_prefixes6"`
	} `json:"data"`
}

// LookupASN fetches a network's declared prefix counts. Returns
// util.ErrASNNotFound when the registry has no entry for the ASN — a
// normal outcome, not a failure.
func (c *Client) LookupASN(ctx context.Context, asn uint32) (Counts, error) {
	url := fmt.Sprintf("%s/net?asn=%d", c.baseURL, asn)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Counts{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Counts{}, fmt.Errorf("registry lookup AS%d: %w", asn, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Counts{}, fmt.Errorf("AS%d: %w", asn, util.ErrASNNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return Counts{}, fmt.Errorf("registry lookup AS%d: unexpected status %s", asn, resp.Status)
	}

	var parsed netResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Counts{}, fmt.Errorf("registry lookup AS%d: decoding response: %w", asn, err)
	}
	if len(parsed.Data) == 0 {
		return Counts{}, fmt.Errorf("AS%d: %w", asn, util.ErrASNNotFound)
	}

	return Counts{
		Prefixes4: parsed.Data[0].InfoPrefixes4,
		Prefixes6: parsed.Data[0].InfoPrefixes6,
	}, nil
}

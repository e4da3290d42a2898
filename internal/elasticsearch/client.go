// Package elasticsearch implements the content search backend and the site
// configuration source on top of Elasticsearch indices.
package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	es "github.com/elastic/go-elasticsearch/v8"

	infraes "github.com/zescabedo/globalpayments-poc-sub001/infrastructure/elasticsearch"
	"github.com/zescabedo/globalpayments-poc-sub001/infrastructure/retry"
	"github.com/zescabedo/globalpayments-poc-sub001/internal/domain"
)

// Indices names the indices the client reads.
type Indices struct {
	Content      string
	Sites        string
	SiteSettings string
}

// Client reads content, sites and site settings.
type Client struct {
	es      *es.Client
	indices Indices
}

// NewClient wraps an existing go-elasticsearch client.
func NewClient(esClient *es.Client, indices Indices) *Client {
	return &Client{es: esClient, indices: indices}
}

// Ping checks the cluster.
func (c *Client) Ping(ctx context.Context) error {
	return infraes.Ping(ctx, c.es, 0)
}

type hit[T any] struct {
	Source T                 `json:"_source"`
	Sort   []json.RawMessage `json:"sort"`
}

type searchResponse[T any] struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []hit[T] `json:"hits"`
	} `json:"hits"`
}

func search[T any](ctx context.Context, c *Client, index string, body map[string]any) (*searchResponse[T], error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(index),
		c.es.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, retry.Transient(fmt.Errorf("search request failed: %w", err))
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		statusErr := fmt.Errorf("search returned error [%d]: %s", res.StatusCode, strings.TrimSpace(string(msg)))
		if res.StatusCode >= http.StatusInternalServerError || res.StatusCode == http.StatusTooManyRequests {
			return nil, retry.Transient(statusErr)
		}
		return nil, statusErr
	}

	var decoded searchResponse[T]
	if err = json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return &decoded, nil
}

// SearchContent fetches one page of content. HasNext is true when the page
// came back full; the cursor is the last hit's sort values.
func (c *Client) SearchContent(ctx context.Context, q domain.ContentQuery) (*domain.ContentPage, error) {
	body, err := buildContentQuery(q)
	if err != nil {
		return nil, err
	}

	res, err := search[domain.HarvestedItem](ctx, c, c.indices.Content, body)
	if err != nil {
		return nil, err
	}

	page := &domain.ContentPage{
		Results: make([]domain.HarvestedItem, 0, len(res.Hits.Hits)),
		Total:   res.Hits.Total.Value,
	}
	for _, h := range res.Hits.Hits {
		page.Results = append(page.Results, h.Source)
	}

	if n := len(res.Hits.Hits); n > 0 {
		cursor, encErr := encodeCursor(res.Hits.Hits[n-1].Sort)
		if encErr != nil {
			return nil, encErr
		}
		page.PageInfo = domain.PageCursor{EndCursor: &cursor, HasNext: q.Size > 0 && n >= q.Size}
	}

	return page, nil
}

// wildcardHost marks a site that answers for any host.
const wildcardHost = "*"

// FindSiteByHost returns the site whose hostnames contain host, falling back
// to a site registered for "*".
func (c *Client) FindSiteByHost(ctx context.Context, host string) (*domain.SiteDescriptor, error) {
	host = strings.ToLower(host)
	body := map[string]any{
		"size": 10,
		"query": map[string]any{
			"terms": map[string]any{"hostnames": []string{host, wildcardHost}},
		},
		"sort": []any{map[string]any{"name": "asc"}},
	}

	res, err := search[domain.SiteDescriptor](ctx, c, c.indices.Sites, body)
	if err != nil {
		return nil, fmt.Errorf("find site for %s: %w", host, err)
	}

	var fallback *domain.SiteDescriptor
	for i := range res.Hits.Hits {
		site := &res.Hits.Hits[i].Source
		for _, h := range site.HostNames {
			if strings.EqualFold(h, host) {
				return site, nil
			}
		}
		if fallback == nil {
			fallback = site
		}
	}
	if fallback != nil {
		return fallback, nil
	}
	return nil, fmt.Errorf("%w: no site for host %s", domain.ErrConfigurationMissing, host)
}

// FindSiteByName returns the named site.
func (c *Client) FindSiteByName(ctx context.Context, name string) (*domain.SiteDescriptor, error) {
	body := map[string]any{
		"size":  1,
		"query": map[string]any{"term": map[string]any{"name": name}},
	}

	res, err := search[domain.SiteDescriptor](ctx, c, c.indices.Sites, body)
	if err != nil {
		return nil, fmt.Errorf("find site %s: %w", name, err)
	}
	if len(res.Hits.Hits) == 0 {
		return nil, fmt.Errorf("%w: no site named %s", domain.ErrConfigurationMissing, name)
	}
	return &res.Hits.Hits[0].Source, nil
}

// SiteSettings returns the route settings for one site root and language.
func (c *Client) SiteSettings(ctx context.Context, rootID, language string) (*domain.SiteSettings, error) {
	body := map[string]any{
		"size": 1,
		"query": map[string]any{
			"bool": map[string]any{
				"filter": []any{
					map[string]any{"term": map[string]any{"root_id": rootID}},
					map[string]any{"term": map[string]any{fieldLanguage: strings.ToLower(language)}},
				},
			},
		},
	}

	res, err := search[domain.SiteSettings](ctx, c, c.indices.SiteSettings, body)
	if err != nil {
		return nil, fmt.Errorf("load settings for %s/%s: %w", rootID, language, err)
	}
	if len(res.Hits.Hits) == 0 {
		return nil, fmt.Errorf("%w: no settings for %s/%s", domain.ErrConfigurationMissing, rootID, language)
	}
	return &res.Hits.Hits[0].Source, nil
}

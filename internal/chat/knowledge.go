package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultWikipediaBase = "https://%s.wikipedia.org"
	defaultDuckDuckGoURL = "https://api.duckduckgo.com/"
)

type knowledge struct {
	http     *resty.Client
	wikiBase string
	ddgURL   string
}

func newKnowledge(cfg Config) *knowledge {
	if cfg.WikipediaBase == "" {
		cfg.WikipediaBase = defaultWikipediaBase
	}
	if cfg.DuckDuckGoURL == "" {
		cfg.DuckDuckGoURL = defaultDuckDuckGoURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 8 * time.Second
	}
	return &knowledge{
		http:     resty.New().SetTimeout(cfg.Timeout).SetHeader("User-Agent", "travis-home-ai/1.0"),
		wikiBase: cfg.WikipediaBase,
		ddgURL:   cfg.DuckDuckGoURL,
	}
}

func (k *knowledge) site(lang string) string {
	return strings.TrimRight(fmt.Sprintf(k.wikiBase, lang), "/")
}

// wikipedia tries the page summary for q, then the best opensearch title.
func (k *knowledge) wikipedia(ctx context.Context, lang, q string) string {
	if s := k.summary(ctx, lang, q); s != "" {
		return s
	}
	resp, err := k.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"action":    "opensearch",
			"search":    q,
			"limit":     "1",
			"namespace": "0",
			"format":    "json",
		}).
		Get(k.site(lang) + "/w/api.php")
	if err != nil || resp.StatusCode() != http.StatusOK {
		return ""
	}
	// [query, [titles], [descriptions], [links]]
	var data []json.RawMessage
	if err := json.Unmarshal(resp.Body(), &data); err != nil || len(data) < 2 {
		return ""
	}
	var titles []string
	if err := json.Unmarshal(data[1], &titles); err != nil || len(titles) == 0 || titles[0] == "" {
		return ""
	}
	return k.summary(ctx, lang, titles[0])
}

func (k *knowledge) summary(ctx context.Context, lang, title string) string {
	resp, err := k.http.R().
		SetContext(ctx).
		Get(k.site(lang) + "/api/rest_v1/page/summary/" + url.PathEscape(title))
	if err != nil || resp.StatusCode() != http.StatusOK {
		return ""
	}
	var out struct {
		Extract string `json:"extract"`
	}
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return ""
	}
	return strings.TrimSpace(out.Extract)
}

func (k *knowledge) duckduckgo(ctx context.Context, q string) string {
	resp, err := k.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":           q,
			"format":      "json",
			"no_redirect": "1",
			"no_html":     "1",
		}).
		Get(k.ddgURL)
	if err != nil || resp.StatusCode() != http.StatusOK {
		return ""
	}
	var out struct {
		AbstractText  string `json:"AbstractText"`
		Answer        string `json:"Answer"`
		RelatedTopics []struct {
			Text string `json:"Text"`
		} `json:"RelatedTopics"`
	}
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return ""
	}
	if s := strings.TrimSpace(out.AbstractText); s != "" {
		return s
	}
	if s := strings.TrimSpace(out.Answer); s != "" {
		return s
	}
	for _, t := range out.RelatedTopics {
		if s := strings.TrimSpace(t.Text); s != "" {
			return s
		}
	}
	return ""
}

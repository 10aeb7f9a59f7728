package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultMyMemoryURL = "https://api.mymemory.translated.net"

// MyMemory calls the MyMemory translation memory API. The service needs an
// explicit source language.
type MyMemory struct {
	email   string
	baseURL string
	client  *http.Client
}

func NewMyMemory(email, baseURL string) *MyMemory {
	if baseURL == "" {
		baseURL = DefaultMyMemoryURL
	}
	return &MyMemory{
		email:   email,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *MyMemory) Name() string {
	return "mymemory"
}

func (s *MyMemory) Translate(ctx context.Context, text, source, target string) (string, error) {
	if source == "" {
		return "", fmt.Errorf("mymemory requires a source language")
	}

	q := url.Values{}
	q.Set("q", text)
	q.Set("langpair", source+"|"+target)
	if s.email != "" {
		q.Set("de", s.email)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/get?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var out struct {
		ResponseData struct {
			TranslatedText string  `json:"translatedText"`
			Match          float64 `json:"match"`
		} `json:"responseData"`
		ResponseStatus  any    `json:"responseStatus"`
		ResponseDetails string `json:"responseDetails"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if status := fmt.Sprint(out.ResponseStatus); status != "200" {
		return "", fmt.Errorf("API error: %s (%s)", out.ResponseDetails, status)
	}
	return out.ResponseData.TranslatedText, nil
}

// MyMemoryLanguages are the codes accepted by the MyMemory API.
var MyMemoryLanguages = []string{
	"en", "es", "fr", "de", "it", "pt", "ru", "ja", "ko", "zh",
	"ar", "nl", "pl", "tr", "sv", "da", "no", "fi", "el", "he",
	"th", "vi", "id", "ms", "cs", "hu", "ro", "uk", "bg", "ca",
}

package backend

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const DefaultInferenceURL = "http://localhost:8089"

// Inference drives one encoder-decoder model hosted by a local inference
// server exposing /tokenize, /generate and /decode.
type Inference struct {
	modelID string
	baseURL string
	http    *resty.Client
}

func NewInference(baseURL, modelID string) *Inference {
	if baseURL == "" {
		baseURL = DefaultInferenceURL
	}
	return &Inference{
		modelID: modelID,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    resty.New().SetTimeout(300 * time.Second),
	}
}

func (m *Inference) ModelID() string {
	return m.modelID
}

func (m *Inference) post(ctx context.Context, path string, body, result any) error {
	r, err := m.http.R().SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(result).
		Post(m.baseURL + path)
	if err != nil {
		return err
	}
	if r.IsError() {
		return fmt.Errorf("inference %s: %s; body: %s", path, r.Status(), r.String())
	}
	return nil
}

func (m *Inference) Tokenize(ctx context.Context, text, srcLang string) ([]int, error) {
	var out struct {
		InputIDs []int `json:"input_ids"`
	}
	body := map[string]any{"model": m.modelID, "text": text}
	if srcLang != "" {
		body["src_lang"] = srcLang
	}
	if err := m.post(ctx, "/tokenize", body, &out); err != nil {
		return nil, err
	}
	if len(out.InputIDs) == 0 {
		return nil, fmt.Errorf("tokenizer returned no ids")
	}
	return out.InputIDs, nil
}

func (m *Inference) Generate(ctx context.Context, inputIDs []int, opts GenerationOptions) ([]int, error) {
	var out struct {
		OutputIDs []int `json:"output_ids"`
	}
	body := map[string]any{
		"model":      m.modelID,
		"input_ids":  inputIDs,
		"max_length": opts.MaxLength,
		"num_beams":  opts.NumBeams,
		"device":     opts.Device,
	}
	if opts.ForcedBOS != "" {
		body["forced_bos_token"] = opts.ForcedBOS
	}
	if err := m.post(ctx, "/generate", body, &out); err != nil {
		return nil, err
	}
	return out.OutputIDs, nil
}

func (m *Inference) Decode(ctx context.Context, outputIDs []int) (string, error) {
	var out struct {
		Text *string `json:"text"`
	}
	body := map[string]any{"model": m.modelID, "ids": outputIDs, "skip_special_tokens": true}
	if err := m.post(ctx, "/decode", body, &out); err != nil {
		return "", err
	}
	if out.Text == nil {
		return "", fmt.Errorf("decoder response has no 'text' field")
	}
	return *out.Text, nil
}

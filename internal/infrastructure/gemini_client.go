package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"botpage/internal/entities"
	"botpage/internal/interfaces"
)

const geminiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-pro:generateContent"

// GeminiProvider answers chats through the Google Gemini generateContent
// API. Gemini has no native chat-role format here, so the transcript is
// flattened into a single prompt.
type GeminiProvider struct {
	endpoint   string
	httpClient *http.Client
}

func NewGeminiProvider() interfaces.AIProvider {
	return &GeminiProvider{
		endpoint:   geminiEndpoint,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (p *GeminiProvider) Reply(ctx context.Context, apiKey string, history []entities.Message, faq, triageRules string) (string, error) {
	var prompt strings.Builder
	prompt.WriteString(systemPrompt(faq, triageRules))
	prompt.WriteString("\n\nConversa até agora:\n")
	for _, m := range history {
		if m.Role == entities.RoleBot {
			prompt.WriteString("Atendente: ")
		} else {
			prompt.WriteString("Cliente: ")
		}
		prompt.WriteString(m.Content)
		prompt.WriteString("\n")
	}
	prompt.WriteString("Atendente:")

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt.String()}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal gemini request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("gemini error %d: %s", resp.StatusCode, string(detail))
	}

	var parsed geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("gemini returned no candidates")
	}

	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

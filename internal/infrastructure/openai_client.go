package infrastructure

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"botpage/internal/entities"
	"botpage/internal/interfaces"
)

// OpenAIProvider answers chats through the OpenAI chat-completions API.
// The key is per tenant, so a client is built per call.
type OpenAIProvider struct {
	model       string
	maxTokens   int
	temperature float32
}

func NewOpenAIProvider(model string, maxTokens int, temperature float32) interfaces.AIProvider {
	if model == "" {
		model = openai.GPT3Dot5Turbo
	}
	return &OpenAIProvider{
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
	}
}

func systemPrompt(faq, triageRules string) string {
	return fmt.Sprintf("Você é um assistente de atendimento ao cliente. Responda com base nas seguintes informações:\n\nFAQ:\n%s\n\nRegras de Triagem:\n%s\n\nSeja conciso, amigável e profissional.", faq, triageRules)
}

func (p *OpenAIProvider) Reply(ctx context.Context, apiKey string, history []entities.Message, faq, triageRules string) (string, error) {
	client := openai.NewClient(apiKey)

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt(faq, triageRules),
	})
	for _, m := range history {
		role := openai.ChatMessageRoleUser
		if m.Role == entities.RoleBot {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: m.Content,
		})
	}

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    messages,
		MaxTokens:   p.maxTokens,
		Temperature: p.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("openai request: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

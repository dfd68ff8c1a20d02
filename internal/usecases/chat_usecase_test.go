package usecases

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"botpage/internal/entities"
	"botpage/internal/infrastructure"
	"botpage/internal/interfaces"
)

type chatFixture struct {
	uc            *ChatUsecase
	conversations *fakeConversationStore
	openai        *fakeProvider
	gemini        *fakeProvider
	tenant        *entities.Tenant
}

func newChatFixture(t *testing.T, apiKey string) *chatFixture {
	t.Helper()

	cipher, err := infrastructure.NewKeyCipher("unit-test-secret")
	if err != nil {
		t.Fatalf("NewKeyCipher: %v", err)
	}
	encrypted, err := cipher.Encrypt(apiKey)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	tenant := activeTenant()
	tenant.AIKeyEncrypted = encrypted
	tenant.AIProvider = entities.DetectProvider(apiKey)
	tenant.FAQ = "Horário: 9h às 18h"
	tenant.TriageRules = "Encaminhe orçamentos"

	conversations := &fakeConversationStore{}
	conversations.sessions = append(conversations.sessions, &entities.Session{
		ID: 1, SessionID: "sess-token-1", ClientID: tenant.ID, LeadID: 1,
	})

	openaiProv := &fakeProvider{reply: "Olá! Como posso ajudar?"}
	geminiProv := &fakeProvider{reply: "Resposta do Gemini"}

	uc := NewChatUsecase(
		newFakeTenantStore(tenant),
		conversations,
		cipher,
		map[string]interfaces.AIProvider{
			entities.ProviderOpenAI: openaiProv,
			entities.ProviderGemini: geminiProv,
		},
		40,
		zap.NewNop(),
	)

	return &chatFixture{uc: uc, conversations: conversations, openai: openaiProv, gemini: geminiProv, tenant: tenant}
}

func validChatRequest() ChatRequest {
	return ChatRequest{
		Slug:      "acme-bots-abc123def",
		SessionID: "sess-token-1",
		Message:   "Oi",
	}
}

func TestChatRequiredFields(t *testing.T) {
	f := newChatFixture(t, "sk-test-key")

	clear := []struct {
		field string
		mut   func(*ChatRequest)
	}{
		{"slug", func(r *ChatRequest) { r.Slug = "" }},
		{"sessionId", func(r *ChatRequest) { r.SessionID = "" }},
		{"message", func(r *ChatRequest) { r.Message = "" }},
	}

	for _, tc := range clear {
		t.Run(tc.field, func(t *testing.T) {
			req := validChatRequest()
			tc.mut(&req)
			if _, err := f.uc.Reply(context.Background(), req); !errors.Is(err, entities.ErrValidation) {
				t.Fatalf("missing %s: got %v, want ErrValidation", tc.field, err)
			}
		})
	}
}

func TestChatUnknownSlug(t *testing.T) {
	f := newChatFixture(t, "sk-test-key")

	req := validChatRequest()
	req.Slug = "nope"
	if _, err := f.uc.Reply(context.Background(), req); !errors.Is(err, entities.ErrNotFound) {
		t.Fatalf("unknown slug: got %v, want ErrNotFound", err)
	}
}

func TestChatCrossTenantSessionRejected(t *testing.T) {
	f := newChatFixture(t, "sk-test-key")

	// Session minted for another tenant must not resolve under this slug
	f.conversations.sessions[0].ClientID = 999

	if _, err := f.uc.Reply(context.Background(), validChatRequest()); !errors.Is(err, entities.ErrNotFound) {
		t.Fatalf("cross-tenant session: got %v, want ErrNotFound", err)
	}
	if f.openai.calls != 0 {
		t.Fatal("provider must not be called for a foreign session")
	}
}

func TestChatReplyAndTranscript(t *testing.T) {
	f := newChatFixture(t, "sk-test-key")

	reply, err := f.uc.Reply(context.Background(), validChatRequest())
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if reply != "Olá! Como posso ajudar?" {
		t.Fatalf("reply = %q", reply)
	}

	// Provider saw the decrypted key, the new user turn and the tenant context
	if f.openai.lastKey != "sk-test-key" {
		t.Fatalf("provider key = %q", f.openai.lastKey)
	}
	if f.openai.lastLen != 1 {
		t.Fatalf("provider history length = %d, want 1", f.openai.lastLen)
	}
	if f.openai.lastFAQ != f.tenant.FAQ {
		t.Fatalf("provider faq = %q", f.openai.lastFAQ)
	}

	// Both turns persisted in order
	msgs, _ := f.conversations.ListMessages(context.Background(), "sess-token-1", 0)
	if len(msgs) != 2 {
		t.Fatalf("transcript length = %d, want 2", len(msgs))
	}
	if msgs[0].Role != entities.RoleUser || msgs[0].Content != "Oi" {
		t.Fatalf("first turn = %+v", msgs[0])
	}
	if msgs[1].Role != entities.RoleBot || msgs[1].Content != reply {
		t.Fatalf("second turn = %+v", msgs[1])
	}
}

func TestChatHistoryReplayGrows(t *testing.T) {
	f := newChatFixture(t, "sk-test-key")

	if _, err := f.uc.Reply(context.Background(), validChatRequest()); err != nil {
		t.Fatalf("first Reply: %v", err)
	}

	req := validChatRequest()
	req.Message = "E os preços?"
	if _, err := f.uc.Reply(context.Background(), req); err != nil {
		t.Fatalf("second Reply: %v", err)
	}

	// Second call replays the two stored turns plus the new user turn
	if f.openai.lastLen != 3 {
		t.Fatalf("provider history length = %d, want 3", f.openai.lastLen)
	}
}

func TestChatRoutesByStoredProvider(t *testing.T) {
	f := newChatFixture(t, "AIzaSyD-gemini-key")

	reply, err := f.uc.Reply(context.Background(), validChatRequest())
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if reply != "Resposta do Gemini" {
		t.Fatalf("reply = %q, want gemini reply", reply)
	}
	if f.openai.calls != 0 || f.gemini.calls != 1 {
		t.Fatalf("calls openai=%d gemini=%d", f.openai.calls, f.gemini.calls)
	}
}

func TestChatPrefixFallbackForLegacyRows(t *testing.T) {
	f := newChatFixture(t, "sk-test-key")
	// Row predates the stored provider column
	f.tenant.AIProvider = ""

	if _, err := f.uc.Reply(context.Background(), validChatRequest()); err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if f.openai.calls != 1 {
		t.Fatal("sk- key should fall back to the OpenAI provider")
	}
}

func TestChatDecryptFailureIsFatal(t *testing.T) {
	f := newChatFixture(t, "sk-test-key")
	f.tenant.AIKeyEncrypted = "deadbeef"

	_, err := f.uc.Reply(context.Background(), validChatRequest())
	if err == nil {
		t.Fatal("corrupted ciphertext must fail the request")
	}
	if f.openai.calls != 0 {
		t.Fatal("provider must not be called without a decrypted key")
	}
}

func TestChatProviderErrorIsFatal(t *testing.T) {
	f := newChatFixture(t, "sk-test-key")
	f.openai.err = errors.New("upstream 500")

	if _, err := f.uc.Reply(context.Background(), validChatRequest()); err == nil {
		t.Fatal("provider failure must surface as an error")
	}

	msgs, _ := f.conversations.ListMessages(context.Background(), "sess-token-1", 0)
	if len(msgs) != 0 {
		t.Fatalf("no turns should persist when the provider fails, got %d", len(msgs))
	}
}

func TestChatReplyReturnedDespitePersistFailure(t *testing.T) {
	f := newChatFixture(t, "sk-test-key")
	f.conversations.failAppend = true

	reply, err := f.uc.Reply(context.Background(), validChatRequest())
	if err != nil {
		t.Fatalf("persistence failure must not block the reply: %v", err)
	}
	if reply != "Olá! Como posso ajudar?" {
		t.Fatalf("reply = %q", reply)
	}
}

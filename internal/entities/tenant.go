package entities

import (
	"strings"
	"time"
)

// Tenant status values. Only active tenants resolve through public endpoints.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// AI provider identifiers stored per tenant.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

type Tenant struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	Slug           string    `json:"slug"`
	BusinessName   string    `json:"business_name"`
	SellerWhatsapp string    `json:"seller_whatsapp"`
	WhatSell       string    `json:"what_sell"`
	TargetAudience string    `json:"target_audience"`
	FAQ            string    `json:"faq"`
	TriageRules    string    `json:"triage_rules"`
	Color          string    `json:"color"`
	LogoURL        string    `json:"logo_url"`
	AIProvider     string    `json:"-"`
	AIKeyEncrypted string    `json:"-"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// Page is the publish record gating public visibility of a tenant page.
type Page struct {
	ClientID  int64     `json:"client_id"`
	Slug      string    `json:"slug"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// DetectProvider guesses the provider family from the key shape.
// OpenAI keys start with "sk-"; everything else is routed to Gemini.
// Used at onboarding time so the choice is stored, and as a fallback
// for tenant rows that predate the ai_provider column.
func DetectProvider(apiKey string) string {
	if strings.HasPrefix(apiKey, "sk-") {
		return ProviderOpenAI
	}
	return ProviderGemini
}

// Provider returns the stored provider, falling back to key detection.
func (t *Tenant) Provider(apiKey string) string {
	if t.AIProvider != "" {
		return t.AIProvider
	}
	return DetectProvider(apiKey)
}

package usecases

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"botpage/internal/entities"
	"botpage/internal/infrastructure"
	"botpage/internal/interfaces"
)

// OnboardRequest carries the flat payload of the 3-step signup wizard:
// owner identity, business profile, branding + provider key.
type OnboardRequest struct {
	// Step 1
	Name     string `json:"name"`
	Email    string `json:"email"`
	Whatsapp string `json:"whatsapp"`
	Segment  string `json:"segment"`
	// Step 2
	BusinessName   string `json:"businessName"`
	SellerWhatsapp string `json:"sellerWhatsapp"`
	WhatSell       string `json:"whatSell"`
	TargetAudience string `json:"targetAudience"`
	FAQ            string `json:"faq"`
	TriageRules    string `json:"triageRules"`
	// Step 3
	Color    string `json:"color"`
	AIKey    string `json:"aiKey"`
	Logo     string `json:"logo"` // base64-encoded PNG
	Password string `json:"password"`
}

type OnboardResult struct {
	Slug    string `json:"slug"`
	PageURL string `json:"page_url"`
}

type OnboardingUsecase struct {
	accounts interfaces.AccountStore
	logos    interfaces.LogoStore
	cipher   *infrastructure.KeyCipher
	logger   *zap.Logger
}

func NewOnboardingUsecase(accounts interfaces.AccountStore, logos interfaces.LogoStore, cipher *infrastructure.KeyCipher, logger *zap.Logger) *OnboardingUsecase {
	return &OnboardingUsecase{
		accounts: accounts,
		logos:    logos,
		cipher:   cipher,
		logger:   logger,
	}
}

func (r *OnboardRequest) validate() error {
	required := []struct{ name, value string }{
		{"name", r.Name},
		{"email", r.Email},
		{"whatsapp", r.Whatsapp},
		{"businessName", r.BusinessName},
		{"sellerWhatsapp", r.SellerWhatsapp},
		{"aiKey", r.AIKey},
	}
	for _, f := range required {
		if f.value == "" {
			return fmt.Errorf("%w: %s is required", entities.ErrValidation, f.name)
		}
	}
	if r.Password != "" && len(r.Password) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", entities.ErrValidation)
	}
	return nil
}

// Onboard creates the owner user, tenant and page record, encrypting the
// provider key and publishing the public page slug.
func (uc *OnboardingUsecase) Onboard(ctx context.Context, req OnboardRequest) (*OnboardResult, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	user := &entities.User{
		Name:     req.Name,
		Email:    req.Email,
		Whatsapp: req.Whatsapp,
		Segment:  req.Segment,
	}
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hashed)
	}

	encryptedKey, err := uc.cipher.Encrypt(req.AIKey)
	if err != nil {
		return nil, fmt.Errorf("encrypt ai key: %w", err)
	}

	slug := GenerateSlug(req.BusinessName)

	// Logo upload is best-effort: a storage failure leaves logo_url empty
	// instead of aborting the signup.
	logoURL := ""
	if req.Logo != "" && uc.logos != nil {
		logoURL = uc.uploadLogo(ctx, slug, req.Logo)
	}

	tenant := &entities.Tenant{
		Slug:           slug,
		BusinessName:   req.BusinessName,
		SellerWhatsapp: req.SellerWhatsapp,
		WhatSell:       req.WhatSell,
		TargetAudience: req.TargetAudience,
		FAQ:            req.FAQ,
		TriageRules:    req.TriageRules,
		Color:          req.Color,
		LogoURL:        logoURL,
		AIProvider:     entities.DetectProvider(req.AIKey),
		AIKeyEncrypted: encryptedKey,
		Status:         entities.StatusActive,
	}

	err = uc.accounts.CreateAccount(ctx, user, tenant)
	if errors.Is(err, entities.ErrSlugTaken) {
		// Suffix collision, retry once with a fresh one
		tenant.Slug = GenerateSlug(req.BusinessName)
		err = uc.accounts.CreateAccount(ctx, user, tenant)
	}
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	uc.logger.Info("tenant onboarded",
		zap.String("slug", tenant.Slug),
		zap.String("provider", tenant.AIProvider))

	return &OnboardResult{
		Slug:    tenant.Slug,
		PageURL: "/c/" + tenant.Slug,
	}, nil
}

func (uc *OnboardingUsecase) uploadLogo(ctx context.Context, slug, logo string) string {
	data, err := base64.StdEncoding.DecodeString(logo)
	if err != nil {
		uc.logger.Warn("logo payload is not valid base64", zap.String("slug", slug), zap.Error(err))
		return ""
	}

	fileName := fmt.Sprintf("%s-%d.png", slug, time.Now().UnixMilli())
	url, err := uc.logos.Upload(ctx, fileName, data)
	if err != nil {
		uc.logger.Warn("logo upload failed", zap.String("slug", slug), zap.Error(err))
		return ""
	}
	return url
}

package assistant

import (
	"context"

	"github.com/krishimitra/farmer-portal-backend/internal/farmer"
	"github.com/krishimitra/farmer-portal-backend/internal/scheme"
)

type TranslateRequest struct {
	Text           string `json:"text" binding:"required"`
	TargetLanguage string `json:"targetLanguage" binding:"required" example:"hi"`
}

type Translation struct {
	TranslatedText string `json:"translatedText"`
	SourceLanguage string `json:"sourceLanguage"`
	TargetLanguage string `json:"targetLanguage"`
}

// Provider is a generative assistant for farmers.
type Provider interface {
	Translate(ctx context.Context, req TranslateRequest) (*Translation, error)
	FarmingTips(ctx context.Context, f *farmer.Farmer) ([]string, error)
	SchemeInsights(ctx context.Context, f *farmer.Farmer, schemes []scheme.Scheme) (map[uint]scheme.Insight, error)
}

var languageNames = map[string]string{
	"hi": "Hindi (हिंदी)",
	"te": "Telugu (తెలుగు)",
	"ta": "Tamil (தமிழ்)",
	"bn": "Bengali (বাংলা)",
	"gu": "Gujarati (ગુજરાતી)",
	"mr": "Marathi (मराठी)",
	"pa": "Punjabi (ਪੰਜਾਬੀ)",
	"kn": "Kannada (ಕನ್ನಡ)",
	"ml": "Malayalam (മലയാളം)",
	"or": "Odia (ଓଡ଼ିଆ)",
	"en": "English",
}

func languageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return "English"
}

var defaultTips = []string{
	"Ensure proper irrigation management based on crop requirements",
	"Monitor soil moisture levels regularly",
	"Apply organic compost to improve soil health",
	"Check for pest and disease symptoms weekly",
}

// MockProvider is used when no AI key is configured.
type MockProvider struct{}

func (MockProvider) Translate(_ context.Context, req TranslateRequest) (*Translation, error) {
	return identity(req), nil
}

func (MockProvider) FarmingTips(context.Context, *farmer.Farmer) ([]string, error) {
	return append([]string(nil), defaultTips...), nil
}

func (MockProvider) SchemeInsights(context.Context, *farmer.Farmer, []scheme.Scheme) (map[uint]scheme.Insight, error) {
	return map[uint]scheme.Insight{}, nil
}

func identity(req TranslateRequest) *Translation {
	return &Translation{
		TranslatedText: req.Text,
		SourceLanguage: "unknown",
		TargetLanguage: req.TargetLanguage,
	}
}

package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"google.golang.org/genai"

	"github.com/krishimitra/farmer-portal-backend/internal/farmer"
	"github.com/krishimitra/farmer-portal-backend/internal/scheme"
)

const (
	translatorPrompt = `You are a professional translator specializing in Indian languages and agricultural terminology.
Translate the given text accurately while preserving technical agricultural terms and government scheme information.
Provide natural, contextual translations that are easily understood by Indian farmers.`

	extensionOfficerPrompt = `You are an experienced agricultural extension officer in India.
Provide practical, season-appropriate farming tips based on the farmer's profile.
Focus on local best practices, sustainable farming, and productivity improvement.`

	advisorPrompt = `You are an expert agricultural advisor for Indian government schemes.
For each scheme you are given, explain briefly why it suits the farmer and list practical next steps to apply.
Do not change which schemes are recommended.`
)

// GeminiProvider talks to Gemini through the genai SDK.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiProvider{client: client, model: model}, nil
}

// generateJSON asks for a JSON answer matching schema and decodes it into out.
func (g *GeminiProvider) generateJSON(ctx context.Context, system, prompt string, schema *genai.Schema, out interface{}) error {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    schema,
	})
	if err != nil {
		return err
	}
	text := resp.Text()
	if text == "" {
		return fmt.Errorf("empty response from %s", g.model)
	}
	return json.Unmarshal([]byte(text), out)
}

func stringSchema() *genai.Schema { return &genai.Schema{Type: genai.TypeString} }

func stringsSchema() *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: stringSchema()}
}

func (g *GeminiProvider) Translate(ctx context.Context, req TranslateRequest) (*Translation, error) {
	prompt := fmt.Sprintf("Translate the following text to %s:\n%q\n\nRespond in JSON format with the translated text.",
		languageName(req.TargetLanguage), req.Text)

	var out Translation
	err := g.generateJSON(ctx, translatorPrompt, prompt, &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"translatedText": stringSchema(),
			"sourceLanguage": stringSchema(),
			"targetLanguage": stringSchema(),
		},
		Required: []string{"translatedText", "sourceLanguage", "targetLanguage"},
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("translate: %w", err)
	}
	if out.TargetLanguage == "" {
		out.TargetLanguage = req.TargetLanguage
	}
	return &out, nil
}

func (g *GeminiProvider) FarmingTips(ctx context.Context, f *farmer.Farmer) ([]string, error) {
	season := "kharif"
	crops := make([]string, 0, len(f.Crops))
	for _, c := range f.Crops {
		crops = append(crops, c.CropName)
	}
	if len(f.Crops) > 0 && f.Crops[0].Season != "" {
		season = f.Crops[0].Season
	}
	profile, _ := json.Marshal(map[string]interface{}{
		"location": f.District + ", " + f.State,
		"crops":    crops,
		"landArea": f.TotalLandArea(),
		"season":   season,
	})

	prompt := "Farmer Profile: " + string(profile) + `
Provide 5-7 practical farming tips relevant to this farmer's situation, crops, and location.
Focus on current season recommendations, pest management, soil health, and yield optimization.`

	var out struct {
		Tips []string `json:"tips"`
	}
	err := g.generateJSON(ctx, extensionOfficerPrompt, prompt, &genai.Schema{
		Type:       genai.TypeObject,
		Properties: map[string]*genai.Schema{"tips": stringsSchema()},
		Required:   []string{"tips"},
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("farming tips: %w", err)
	}
	return out.Tips, nil
}

func (g *GeminiProvider) SchemeInsights(ctx context.Context, f *farmer.Farmer, schemes []scheme.Scheme) (map[uint]scheme.Insight, error) {
	if len(schemes) == 0 {
		return map[uint]scheme.Insight{}, nil
	}

	type brief struct {
		ID          string   `json:"id"`
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Criteria    []string `json:"eligibilityCriteria"`
	}
	briefs := make([]brief, 0, len(schemes))
	for _, s := range schemes {
		briefs = append(briefs, brief{
			ID:          strconv.FormatUint(uint64(s.ID), 10),
			Name:        s.Name,
			Description: s.Description,
			Criteria:    s.EligibilityCriteria,
		})
	}
	profile, _ := json.Marshal(map[string]interface{}{
		"state":         f.State,
		"district":      f.District,
		"age":           f.Age,
		"category":      f.Category,
		"totalLandArea": f.TotalLandArea(),
		"crops":         len(f.Crops),
		"livestock":     len(f.Livestock),
	})
	list, _ := json.Marshal(briefs)
	prompt := "Farmer Profile: " + string(profile) + "\nRecommended Schemes: " + string(list)

	var out struct {
		Insights []struct {
			SchemeID  string   `json:"schemeId"`
			Reasoning string   `json:"reasoning"`
			NextSteps []string `json:"nextSteps"`
		} `json:"insights"`
	}
	err := g.generateJSON(ctx, advisorPrompt, prompt, &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"insights": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"schemeId":  stringSchema(),
						"reasoning": stringSchema(),
						"nextSteps": stringsSchema(),
					},
					Required: []string{"schemeId", "reasoning", "nextSteps"},
				},
			},
		},
		Required: []string{"insights"},
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("scheme insights: %w", err)
	}

	result := make(map[uint]scheme.Insight, len(out.Insights))
	for _, in := range out.Insights {
		id, err := strconv.ParseUint(in.SchemeID, 10, 32)
		if err != nil {
			continue
		}
		result[uint(id)] = scheme.Insight{Reasoning: in.Reasoning, NextSteps: in.NextSteps}
	}
	return result, nil
}

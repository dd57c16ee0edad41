package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// listingPrompt 是產生物品簡介的固定提示詞，
// 要求模型以嚴格的JSON格式回應
const listingPrompt = `
You are a witty community manager for NeighborLoop.
Analyze this surplus item and return JSON:
{
    "bio": "First-person witty dating-style profile bio, for the product, not longer than 2 lines",
    "category": "One-word category",
    "tags": ["tag1", "tag2"]
}
`

// ItemProfile 是模型為刊登物品產生的簡介
type ItemProfile struct {
	Bio      string   `json:"bio"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

// IProfiler 定義了物品簡介產生器的介面
type IProfiler interface {
	GenerateItemProfile(ctx context.Context, image []byte, mimeType string) (ItemProfile, error)
}

// Profiler 透過 Gemini 多模態模型為物品圖片產生簡介
type Profiler struct {
	client *genai.Client
	model  string
}

func NewProfiler(ctx context.Context, apiKey, model string) (*Profiler, error) {
	const op = "NewProfiler"
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to create Gemini client, err=%w", op, err)
	}
	return &Profiler{client: client, model: model}, nil
}

// GenerateItemProfile 將圖片與固定提示詞送給模型，解析JSON回應
func (p *Profiler) GenerateItemProfile(ctx context.Context, image []byte, mimeType string) (ItemProfile, error) {
	const op = "GenerateItemProfile"
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(image, mimeType),
			genai.NewPartFromText(listingPrompt),
		}, genai.RoleUser),
	}
	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return ItemProfile{}, fmt.Errorf("[%s] Fail to generate item profile, err=%w", op, err)
	}
	profile, err := ParseItemProfile(resp.Text())
	if err != nil {
		return ItemProfile{}, fmt.Errorf("[%s] Fail to parse item profile, err=%w", op, err)
	}
	return profile, nil
}

// ParseItemProfile 解析模型回應的JSON
// 即使要求了JSON模式，部分模型仍會以markdown程式碼區塊包裝回應，
// 解析前先剝除區塊標記
func ParseItemProfile(text string) (ItemProfile, error) {
	const op = "ParseItemProfile"
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	}
	var profile ItemProfile
	if err := json.Unmarshal([]byte(cleaned), &profile); err != nil {
		return ItemProfile{}, fmt.Errorf("[%s] Invalid profile JSON, err=%w", op, err)
	}
	return profile, nil
}

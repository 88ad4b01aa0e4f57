package gemini

import (
	"context"
	"fmt"
	"log"

	"google.golang.org/genai"

	"facelab-server/modules/common/apperr"
	"facelab-server/modules/common/config"
)

// Client - Gemini 호출 클라이언트
// 이미지 모델 호출 비용 때문에 자동 재시도는 하지 않는다.
// 실패는 그대로 GenerationError로 전파된다.
type Client struct {
	genaiClient *genai.Client
}

// NewClient - Genai 클라이언트 생성
func NewClient(ctx context.Context) *Client {
	cfg := config.GetConfig()

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		log.Printf("❌ Failed to create Genai client: %v", err)
		return nil
	}

	log.Println("✅ Genai client initialized")
	return &Client{
		genaiClient: genaiClient,
	}
}

// EditImage - 원본 이미지 + 지시문으로 변환 이미지 생성
func (c *Client) EditImage(ctx context.Context, imageData []byte, mimeType, instruction string) ([]byte, error) {
	cfg := config.GetConfig()

	log.Printf("🎨 Calling Gemini API (model: %s) with prompt length: %d", cfg.GeminiImageModel, len(instruction))

	content := &genai.Content{
		Parts: []*genai.Part{
			genai.NewPartFromBytes(imageData, mimeType),
			genai.NewPartFromText(instruction),
		},
	}

	result, err := c.genaiClient.Models.GenerateContent(
		ctx,
		cfg.GeminiImageModel,
		[]*genai.Content{content},
		&genai.GenerateContentConfig{},
	)
	if err != nil {
		return nil, apperr.GenerationFailed(err.Error())
	}

	if blocked := blockReason(result); blocked != "" {
		return nil, apperr.GenerationFailed(blocked)
	}

	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}

		for _, part := range candidate.Content.Parts {
			// 이미지는 InlineData로 반환됨
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				log.Printf("✅ Received image from Gemini: %d bytes", len(part.InlineData.Data))
				return part.InlineData.Data, nil
			}
		}
	}

	return nil, apperr.GenerationFailed("No image data returned")
}

// GenerateJSON - 구조화 출력 스키마로 분석 결과 생성 (원본 JSON 텍스트 반환)
func (c *Client) GenerateJSON(ctx context.Context, imageData []byte, mimeType, instruction string, schema *genai.Schema) (string, error) {
	cfg := config.GetConfig()

	log.Printf("🔬 Calling Gemini API (model: %s) for structured analysis", cfg.GeminiAnalysisModel)

	content := &genai.Content{
		Parts: []*genai.Part{
			genai.NewPartFromBytes(imageData, mimeType),
			genai.NewPartFromText(instruction),
		},
	}

	result, err := c.genaiClient.Models.GenerateContent(
		ctx,
		cfg.GeminiAnalysisModel,
		[]*genai.Content{content},
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   schema,
		},
	)
	if err != nil {
		return "", apperr.GenerationFailed(err.Error())
	}

	if blocked := blockReason(result); blocked != "" {
		return "", apperr.GenerationFailed(blocked)
	}

	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}

		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				log.Printf("✅ Received analysis from Gemini: %d chars", len(part.Text))
				return part.Text, nil
			}
		}
	}

	return "", apperr.GenerationFailed("No analysis data returned")
}

// blockReason - 안전 필터 차단 사유 추출
func blockReason(result *genai.GenerateContentResponse) string {
	if result == nil {
		return "empty response"
	}
	if result.PromptFeedback != nil && result.PromptFeedback.BlockReason != "" {
		return fmt.Sprintf("blocked: %s", result.PromptFeedback.BlockReason)
	}
	return ""
}

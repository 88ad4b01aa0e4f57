package analyze

import "google.golang.org/genai"

// AnalyzeRequest - 분석 요청 (스테이징된 임시 객체 경로)
type AnalyzeRequest struct {
	StoragePath string `json:"storagePath"`
}

// FacialAnalysisResult - 구조화 얼굴 분석 리포트
type FacialAnalysisResult struct {
	FaceShape                string  `json:"faceShape"`
	SymmetryScore            float64 `json:"symmetryScore"`
	YouthfulnessScore        float64 `json:"youthfulnessScore"`
	SkinClarity              float64 `json:"skinClarity"`
	OverallAnalysis          string  `json:"overallAnalysis"`
	EyeShape                 string  `json:"eyeShape"`
	JawlineDefinitionScore   float64 `json:"jawlineDefinitionScore"`
	CheekboneProminenceScore float64 `json:"cheekboneProminenceScore"`
	LipFullnessScore         float64 `json:"lipFullnessScore"`
	SkinEvennessScore        float64 `json:"skinEvennessScore"`
	GoldenRatioScore         float64 `json:"goldenRatioScore"`
	EmotionalExpression      string  `json:"emotionalExpression"`
	PerceivedAge             int     `json:"perceivedAge"`
}

// AnalyzeResponse - 분석 응답
type AnalyzeResponse struct {
	AnalysisResult *FacialAnalysisResult `json:"analysisResult"`
}

// analysisSchema - Gemini 구조화 출력 스키마. 13개 필드 전부 필수.
var analysisSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"faceShape":                {Type: genai.TypeString},
		"symmetryScore":            {Type: genai.TypeNumber},
		"youthfulnessScore":        {Type: genai.TypeNumber},
		"skinClarity":              {Type: genai.TypeNumber},
		"overallAnalysis":          {Type: genai.TypeString},
		"eyeShape":                 {Type: genai.TypeString},
		"jawlineDefinitionScore":   {Type: genai.TypeNumber},
		"cheekboneProminenceScore": {Type: genai.TypeNumber},
		"lipFullnessScore":         {Type: genai.TypeNumber},
		"skinEvennessScore":        {Type: genai.TypeNumber},
		"goldenRatioScore":         {Type: genai.TypeNumber},
		"emotionalExpression":      {Type: genai.TypeString},
		"perceivedAge":             {Type: genai.TypeInteger},
	},
	Required: []string{
		"faceShape", "symmetryScore", "youthfulnessScore", "skinClarity",
		"overallAnalysis", "eyeShape", "jawlineDefinitionScore",
		"cheekboneProminenceScore", "lipFullnessScore", "skinEvennessScore",
		"goldenRatioScore", "emotionalExpression", "perceivedAge",
	},
}

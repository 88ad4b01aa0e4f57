package tools

// Tool 타입 상수
const (
	TypeTransformation = "TRANSFORMATION"
	TypeFilter         = "FILTER"
	TypeAnalysis       = "ANALYSIS"
)

// Tool - 변환 도구 정의 (세션 시작 시 로드되는 읽기 전용 참조 데이터)
type Tool struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// catalog - 지원되는 도구 전체
var catalog = []Tool{
	{ID: "hairstyle", Name: "Hairstyle", Type: TypeTransformation},
	{ID: "hair-color", Name: "Hair Color", Type: TypeTransformation},
	{ID: "eye-color", Name: "Eye Color", Type: TypeTransformation},
	{ID: "skin-color", Name: "Skin Tone", Type: TypeTransformation},
	{ID: "age", Name: "Age", Type: TypeFilter},
	{ID: "smile", Name: "Smile", Type: TypeFilter},
	{ID: "fat", Name: "Weight", Type: TypeFilter},
	{ID: "bald", Name: "Bald", Type: TypeFilter},
	{ID: "beard", Name: "Beard", Type: TypeTransformation},
	{ID: "halloween", Name: "Halloween", Type: TypeFilter},
	{ID: "analysis", Name: "Facial Analysis", Type: TypeAnalysis},
}

var byID = func() map[string]Tool {
	m := make(map[string]Tool, len(catalog))
	for _, t := range catalog {
		m[t.ID] = t
	}
	return m
}()

// Lookup - 도구 ID로 조회
func Lookup(id string) (Tool, bool) {
	t, ok := byID[id]
	return t, ok
}

// All - 카탈로그 전체 (복사본)
func All() []Tool {
	out := make([]Tool, len(catalog))
	copy(out, catalog)
	return out
}

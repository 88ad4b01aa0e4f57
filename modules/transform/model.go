package transform

// TransformRequest - POST /api/transform 요청
// 클라이언트는 이미지를 /api/uploads로 먼저 스테이징하고 경로만 보낸다.
type TransformRequest struct {
	Tool struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"tool"`
	Params      RawParams `json:"params"`
	StoragePath string    `json:"storagePath"`
}

// TransformResponse - 최적화 이미지(base64)와 생성 레코드 ID
type TransformResponse struct {
	NewImageBase64 string `json:"newImageBase64"`
	GenerationID   int64  `json:"generationId"`
}

// Result - 파이프라인 결과
type Result struct {
	OptimizedImage []byte
	GenerationID   int64
}

package tools

import (
	"net/http"

	"facelab-server/modules/common/apperr"
)

// ListHandler - GET /tools 도구 카탈로그 반환 (인증 불필요, 읽기 전용)
func ListHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, map[string]interface{}{"tools": All()})
}

package editor

// History - 선형 편집 이력 (분기 없는 undo/redo 스택)
// index -1은 "원본 이미지, 편집 없음"을 뜻한다.
type History struct {
	entries []string
	index   int
}

// NewHistory - 빈 이력 생성
func NewHistory() *History {
	return &History{
		entries: []string{},
		index:   -1,
	}
}

// Apply - 새 편집 결과 추가
// undo 이후 적용되면 현재 위치 뒤의 redo 가능 항목들은 전부 버려진다.
func (h *History) Apply(entry string) {
	h.entries = append(h.entries[:h.index+1], entry)
	h.index = len(h.entries) - 1
}

// Undo - 한 단계 뒤로. 원본(-1)에서는 no-op.
func (h *History) Undo() bool {
	if h.index > -1 {
		h.index--
		return true
	}
	return false
}

// Redo - 한 단계 앞으로. 버려진 분기는 복원 불가.
func (h *History) Redo() bool {
	if h.index < len(h.entries)-1 {
		h.index++
		return true
	}
	return false
}

// Current - 현재 항목. 원본 위치면 ("", false).
func (h *History) Current() (string, bool) {
	if h.index < 0 {
		return "", false
	}
	return h.entries[h.index], true
}

// Index - 현재 위치
func (h *History) Index() int {
	return h.index
}

// Entries - 이력 전체 사본
func (h *History) Entries() []string {
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

// CanUndo - undo 가능 여부
func (h *History) CanUndo() bool {
	return h.index > -1
}

// CanRedo - redo 가능 여부
func (h *History) CanRedo() bool {
	return h.index < len(h.entries)-1
}

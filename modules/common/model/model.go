package model

import "time"

// Plan 이름 상수
const (
	PlanFree       = "Free"
	PlanPro        = "Pro"
	PlanEnterprise = "Enterprise"
)

// Plan - plans 테이블 구조
type Plan struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	MonthlyCredits  int    `json:"monthly_credits"`
	MaxDailyCredits int    `json:"max_daily_credits"`
}

// PlanRef - users 조회 시 조인되는 plans(name)
type PlanRef struct {
	Name string `json:"name"`
}

// UserProfile - users 테이블 구조 (plans(name) 조인 포함)
type UserProfile struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	PlanID   int      `json:"plan_id"`
	Credits  int      `json:"credits"`
	Plan     *PlanRef `json:"plans"`
}

// PlanName - 조인된 플랜 이름 (없으면 Free 취급)
func (u *UserProfile) PlanName() string {
	if u.Plan == nil || u.Plan.Name == "" {
		return PlanFree
	}
	return u.Plan.Name
}

// Hairstyle - hairstyles 참조 카탈로그 구조
type Hairstyle struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
	Gender   string `json:"gender"`
	Category string `json:"category"`
	IsPro    bool   `json:"is_pro"`
}

// Generation 상태 상수
// pending → complete 전이는 정산 성공 후에만 일어난다.
// pending으로 남은 행은 정산 전에 중단된 파이프라인의 흔적이다.
const (
	GenerationPending  = "pending"
	GenerationComplete = "complete"
)

// Generation - generations 테이블 구조 (성공한 변환당 1행)
type Generation struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"user_id"`
	ToolID     string    `json:"tool_id"`
	ImageURL   string    `json:"image_url,omitempty"`
	ImageURLHQ string    `json:"image_url_hq,omitempty"`
	Status     string    `json:"status,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreditUsage - credit_usage 원장 구조 (append-only)
type CreditUsage struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	ToolID      string    `json:"tool_id"`
	CreditsUsed int       `json:"credits_used"`
	CreatedAt   time.Time `json:"created_at"`
}

// Notification 타입 상수
const (
	NotificationInfo    = "info"
	NotificationSuccess = "success"
	NotificationWarning = "warning"
	NotificationError   = "error"
)

// Notification - notifications 테이블 구조
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

package transform

import (
	"fmt"
)

// ToolParams - 도구별 파라미터 태그드 유니언.
// 느슨한 필드 가방 대신 도구 id에 맞는 변형만 허용하고
// 생성 시점에 검증한다.
type ToolParams interface {
	Validate() error
}

// RawParams - 요청 본문의 파라미터 가방 (파싱 전)
type RawParams struct {
	Style          string `json:"style,omitempty"`
	Color          string `json:"color,omitempty"`
	Intensity      *int   `json:"intensity,omitempty"`
	Age            *int   `json:"age,omitempty"`
	BeardStyle     string `json:"beardStyle,omitempty"`
	SkinTone       string `json:"skinTone,omitempty"`
	HalloweenStyle string `json:"halloweenStyle,omitempty"`
}

// HairstyleParams - hairstyle 도구 (색상은 선택)
type HairstyleParams struct {
	Style string
	Color string
}

func (p HairstyleParams) Validate() error {
	if p.Style == "" {
		return fmt.Errorf("hairstyle requires a style")
	}
	return nil
}

// HairColorParams - hair-color 도구
type HairColorParams struct {
	Color string
}

func (p HairColorParams) Validate() error {
	if p.Color == "" {
		return fmt.Errorf("hair-color requires a color")
	}
	return nil
}

// EyeColorParams - eye-color 도구
type EyeColorParams struct {
	Color string
}

func (p EyeColorParams) Validate() error {
	if p.Color == "" {
		return fmt.Errorf("eye-color requires a color")
	}
	return nil
}

// SkinToneParams - skin-color 도구
type SkinToneParams struct {
	SkinTone string
}

func (p SkinToneParams) Validate() error {
	if p.SkinTone == "" {
		return fmt.Errorf("skin-color requires a skin tone")
	}
	return nil
}

// AgeParams - age 필터
type AgeParams struct {
	Age int
}

func (p AgeParams) Validate() error {
	if p.Age < 1 || p.Age > 120 {
		return fmt.Errorf("age must be between 1 and 120, got %d", p.Age)
	}
	return nil
}

// IntensityParams - smile/fat/bald 필터 (0~100%)
type IntensityParams struct {
	ToolID    string
	Intensity int
}

func (p IntensityParams) Validate() error {
	if p.Intensity < 0 || p.Intensity > 100 {
		return fmt.Errorf("intensity must be between 0 and 100, got %d", p.Intensity)
	}
	return nil
}

// 허용되는 beard 스타일
var beardStyles = map[string]bool{
	"Clean Shaven": true,
	"Stubble":      true,
	"Goatee":       true,
}

// BeardParams - beard 도구
type BeardParams struct {
	BeardStyle string
}

func (p BeardParams) Validate() error {
	if !beardStyles[p.BeardStyle] {
		return fmt.Errorf("unsupported beard style: %q", p.BeardStyle)
	}
	return nil
}

// 허용되는 halloween 스타일
var halloweenStyles = map[string]bool{
	"face only":    true,
	"whole figure": true,
	"add objects":  true,
}

// HalloweenParams - halloween 필터
type HalloweenParams struct {
	HalloweenStyle string
}

func (p HalloweenParams) Validate() error {
	if !halloweenStyles[p.HalloweenStyle] {
		return fmt.Errorf("unsupported halloween style: %q", p.HalloweenStyle)
	}
	return nil
}

// GenericParams - 카탈로그에 없는 도구 id (파라미터 없음, 기본 프롬프트로 폴백)
type GenericParams struct{}

func (p GenericParams) Validate() error { return nil }

// ParseParams - 도구 id에 맞는 변형으로 파싱 + 검증
func ParseParams(toolID string, raw RawParams) (ToolParams, error) {
	var params ToolParams

	switch toolID {
	case "hairstyle":
		params = HairstyleParams{Style: raw.Style, Color: raw.Color}
	case "hair-color":
		params = HairColorParams{Color: raw.Color}
	case "eye-color":
		params = EyeColorParams{Color: raw.Color}
	case "skin-color":
		params = SkinToneParams{SkinTone: raw.SkinTone}
	case "age":
		if raw.Age == nil {
			return nil, fmt.Errorf("age requires an age value")
		}
		params = AgeParams{Age: *raw.Age}
	case "smile", "fat", "bald":
		if raw.Intensity == nil {
			return nil, fmt.Errorf("%s requires an intensity value", toolID)
		}
		params = IntensityParams{ToolID: toolID, Intensity: *raw.Intensity}
	case "beard":
		params = BeardParams{BeardStyle: raw.BeardStyle}
	case "halloween":
		params = HalloweenParams{HalloweenStyle: raw.HalloweenStyle}
	default:
		params = GenericParams{}
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}

	return params, nil
}

// SelectedStyle - 티어 게이트 대상 헤어스타일 이름 (해당 없으면 빈 문자열)
func SelectedStyle(params ToolParams) string {
	if hs, ok := params.(HairstyleParams); ok {
		return hs.Style
	}
	return ""
}

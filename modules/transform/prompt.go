package transform

import "fmt"

// BuildPrompt - (도구, 파라미터) → 자연어 지시문.
// 알려진 모든 도구 id에 대한 전함수이며, 미등록 id는 표시 이름으로
// 기본 템플릿에 폴백한다. 부작용 없음.
func BuildPrompt(toolID, displayName string, params ToolParams) string {
	switch p := params.(type) {
	case HairstyleParams:
		prompt := fmt.Sprintf("Change the hairstyle to %q.", p.Style)
		if p.Color != "" {
			prompt += fmt.Sprintf(" The hair color should be %s.", p.Color)
		}
		return prompt

	case HairColorParams:
		return fmt.Sprintf("Change the hair color to %s.", p.Color)

	case EyeColorParams:
		return fmt.Sprintf("Change the eye color to %s.", p.Color)

	case SkinToneParams:
		return fmt.Sprintf("Change the skin tone to %s.", p.SkinTone)

	case AgeParams:
		return fmt.Sprintf("Make the person in the image look %d years old.", p.Age)

	case IntensityParams:
		switch p.ToolID {
		case "smile":
			return fmt.Sprintf("Add a natural smile to the person's face with an intensity of %d%%.", p.Intensity)
		case "fat":
			return fmt.Sprintf("Make the person in the image look heavier by an intensity of %d%%.", p.Intensity)
		case "bald":
			return fmt.Sprintf("Make the person in the image look bald with an intensity of %d%%.", p.Intensity)
		}

	case BeardParams:
		return fmt.Sprintf("Apply a %q beard style.", p.BeardStyle)

	case HalloweenParams:
		return fmt.Sprintf("Apply a halloween filter. The style should focus on %q.", p.HalloweenStyle)
	}

	return fmt.Sprintf("Apply the %s transformation.", displayName)
}

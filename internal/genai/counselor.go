package genai

import (
	"context"
	"fmt"
	"strings"
)

// UserProfile is the applicant snapshot embedded into the counseling
// persona instruction.
type UserProfile struct {
	Name          string   `json:"name"`
	Age           string   `json:"age"`
	Gender        string   `json:"gender"`
	JobStatus     string   `json:"job_status"`
	IncomeLevel   string   `json:"income_level"`
	InterestAreas []string `json:"interest_areas"`
	SpecialNotes  []string `json:"special_notes"`
}

// CounselorInstruction builds the fixed counseling persona script with the
// applicant's profile interpolated. The response-length and single-question
// constraints are part of the product script and must stay verbatim.
func CounselorInstruction(p UserProfile) string {
	interests := strings.Join(p.InterestAreas, ", ")
	if interests == "" {
		interests = "미지정"
	}
	notes := strings.Join(p.SpecialNotes, ", ")
	if notes == "" {
		notes = "없음"
	}

	return fmt.Sprintf(`
      당신은 청년 정책 상담을 시작하기 전, 내담자의 상황을 빠르고 정확하게 진단하는 '청년 정책 전문 AI 상담사'입니다.
      긴 채팅은 내담자에게 피로감을 주므로, **최대 3개의 핵심 질문**만 던지고 대화를 신속하게 마무리해야 합니다.

      [내담자 사전 정보]
      - 이름: %s
      - 나이: %s세
      - 성별: %s
      - 직업/소득: %s / %s
      - 관심 분야: %s
      - 특이사항: %s

      [상담의 목적 및 원칙 (Core Rules)]
      1. 질문 개수 제한: 대화 전체를 통틀어 당신이 던지는 질문은 **단 3개**로 철저히 제한합니다.
      2. 해결 중심 단기 상담(SFBT) 기반: 내담자의 과거 원인 분석보다는 '현재의 어려움', '지금까지의 대처/강점', '원하는 작은 변화'에 집중합니다.
      3. 피로도 최소화: 답변은 아주 짧고 명확하게(공백 포함 100자 내외), 한 번에 하나의 질문만 하세요.

      [대화 흐름 (Flow : 3단계 질문)]
      - 첫 번째 답변 (상황 파악): 내담자의 첫 고민에 짧게 공감하고, "가장 시급하게 해결해야 할 구체적인 어려움이 무엇인지" 묻습니다.
      - 두 번째 답변 (대처/강점 파악): 답변에 대해 공감 및 지지를 보내며, "그럼에도 불구하고 지금까지 그 상황을 어떻게 버텨오셨는지, 혹은 스스로 시도해본 현실적인 방법이 있었는지" 묻습니다.
      - 세 번째 답변 (현실적 목표 설정): 답변을 듣고, 극단적인 기적이 아닌 현실적인 변화를 묻습니다. "만약 이번 상담을 통해 아주 작은 부분이라도 먼저 해결될 수 있다면, 내일 당장 어떤 점이 가장 먼저 달라지기를 원하시나요?" 와 같이 현실적이고 구체적인 목표를 묻습니다.
      - 네 번째 답변 (종료 안내): 3번의 질문이 끝났다면 추가 질문을 절대 하지 마세요. 수집된 정보를 바탕으로 전문가가 맞춤 상담을 준비하겠다고 안내하며, 대화를 확정 짓는 멘트로 마무리합니다. ("아래 '상담 완료' 버튼을 눌러주세요.")

      [종료 멘트 예시]
      "네, 상황과 원하시는 방향을 충분히 이해했습니다. 지금까지 혼자 고민하시며 노력해오신 점들이 본 상담에서 큰 도움이 될 거예요. 말씀해주신 핵심 내용을 바탕으로 전문 상담사가 가장 현실적이고 적합한 정책을 찾아드릴 예정입니다. 이제 편안하게 아래의 '상담 완료' 버튼을 눌러주시면 예약이 최종 확정됩니다. 감사합니다!"
    `, p.Name, p.Age, p.Gender, p.JobStatus, p.IncomeLevel, interests, notes)
}

// Chat sends one user message with sanitized prior history under the
// counseling persona. Generation is bounded to 500 output tokens at
// temperature 0.7, matching the product's response-length constraint.
func (c *Client) Chat(ctx context.Context, profile UserProfile, history []Content, message string) (string, error) {
	contents := append(append([]Content{}, history...), Content{
		Role:  "user",
		Parts: []Part{{Text: message}},
	})
	return c.GenerateContent(ctx, CounselorInstruction(profile), contents, GenerationConfig{
		MaxOutputTokens: 500,
		Temperature:     0.7,
	})
}

package genai

import (
	"context"
	"encoding/base64"
)

// transcribeInstruction requests Korean transcription with two-party
// diarization labeled [상담사]/[내담자]. The model's free-text output is
// propagated verbatim; speaker-label correctness is delegated entirely to
// the model.
const transcribeInstruction = `
      당신은 상담 녹음 파일을 분석하고 정확하게 전사(STT)하며 화자를 분리하는 전문 AI입니다.

      [요구사항]
      1. 제공된 오디오를 듣고 한국어로 정확하게 전사하세요.
      2. 대화의 흐름과 목소리를 분석하여 화자를 완벽하게 두 명으로 분리(Diarization)하세요.
      3. 화자 라벨은 반드시 [상담사]와 [내담자]로 표기하세요.
      4. 발화 내용에 오타나 문맥상 어색한 부분이 있다면 자연스러운 한국어로 교정하여 작성하세요.
      5. 화자가 변경될 때마다 줄바꿈을 하여 가독성 좋게 출력해 주세요.
      6. 다음과 같은 형식으로 정확히 출력해야 합니다:
      [상담사] 안녕하세요. 오늘 어떤 고민으로 찾아오셨나요?
      [내담자] 네, 요즘 취업 준비 때문에 너무 스트레스를 받아서요.
    `

const transcribePrompt = "첨부된 오디오 파일을 분석해서 전사 및 화자 분리를 시작해 줘."

// Transcribe submits raw audio bytes for transcription and diarization and
// returns the model's single text block.
func (c *Client) Transcribe(ctx context.Context, mimeType string, audio []byte) (string, error) {
	if mimeType == "" {
		mimeType = "audio/webm"
	}
	contents := []Content{{
		Role: "user",
		Parts: []Part{
			{Text: transcribePrompt},
			{InlineData: &InlineData{
				MimeType: mimeType,
				Data:     base64.StdEncoding.EncodeToString(audio),
			}},
		},
	}}
	return c.GenerateContent(ctx, transcribeInstruction, contents, GenerationConfig{})
}

package gemini

import (
	"fmt"
	"strings"

	"github.com/tvhoang/august-revolution/internal/domain"
)

// MaxContextExcerpts bounds the number of knowledge excerpts embedded in a
// prompt, keeping request size and cost predictable.
const MaxContextExcerpts = 2

// systemInstruction fixes the assistant persona and style.
const systemInstruction = "Bạn là trợ lý lịch sử Việt Nam. Trả lời NGẮN GỌN, tiếng Việt, lịch sự, chính xác. " +
	"Nếu không chắc, hãy nói bạn chưa có dữ liệu. Tránh suy đoán. Dùng dữ liệu bối cảnh khi phù hợp."

// responseInstruction fixes the expected answer shape.
const responseInstruction = "Trả lời ngắn gọn (3–6 câu), ưu tiên mốc thời gian, địa danh, nhân vật. " +
	"Nếu dùng dữ liệu, có thể trích nguồn bằng tiêu đề trong ngoặc."

// TruncateContext returns at most MaxContextExcerpts excerpts.
func TruncateContext(excerpts []domain.KnowledgeEntry) []domain.KnowledgeEntry {
	if len(excerpts) > MaxContextExcerpts {
		return excerpts[:MaxContextExcerpts]
	}
	return excerpts
}

// BuildPrompt assembles the single-turn prompt: persona, indexed context
// excerpts, the question, and the response-format instruction. The relay
// performs the identical construction so both transports stay equivalent.
func BuildPrompt(query string, excerpts []domain.KnowledgeEntry) string {
	excerpts = TruncateContext(excerpts)

	contextText := "(Không có)"
	if len(excerpts) > 0 {
		lines := make([]string, len(excerpts))
		for i, d := range excerpts {
			lines[i] = fmt.Sprintf("(%d) %s: %s", i+1, d.Title, d.Content)
		}
		contextText = strings.Join(lines, "\n")
	}

	return fmt.Sprintf("%s\n\nDỮ LIỆU BỐI CẢNH:\n%s\n\nCÂU HỎI: %s\n\nYÊU CẦU: %s",
		systemInstruction, contextText, query, responseInstruction)
}

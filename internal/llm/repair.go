package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/mlehane/shelfscout/internal/model"
)

// Validation limits for extraction results.
const (
	maxTitleLength = 200
	maxTitles      = 30
	minConfidence  = 0.3
)

// ErrInvalidResponse reports provider output that could not be turned into
// at least one valid record, even after repair.
var ErrInvalidResponse = errors.New("invalid provider response")

var trailingCommaRE = regexp.MustCompile(`,\s*([}\]])`)

// stripCodeFence removes surrounding markdown code-fence markers, with or
// without a json tag.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = s[7:]
	} else if strings.HasPrefix(s, "```") {
		s = s[3:]
	}
	if strings.HasSuffix(strings.TrimSpace(s), "```") {
		s = strings.TrimSpace(s)
		s = s[:len(s)-3]
	}
	return strings.TrimSpace(s)
}

// repairJSON applies a best-effort repair pass for the failure modes
// providers actually produce: trailing commas and truncated output.
func repairJSON(s string) string {
	s = trailingCommaRE.ReplaceAllString(s, "$1")

	stripped := strings.TrimRight(s, " \t\r\n")
	if stripped == "" || strings.HasSuffix(stripped, "]") || strings.HasSuffix(stripped, "}") {
		return s
	}

	// Truncated response. Close a dangling string first, then append the
	// missing closers inferred from bracket depth.
	if strings.Count(stripped, `"`)%2 != 0 {
		stripped += `"`
	}

	openBraces := strings.Count(stripped, "{") - strings.Count(stripped, "}")
	openBrackets := strings.Count(stripped, "[") - strings.Count(stripped, "]")

	if openBraces > 0 {
		stripped += strings.Repeat("}", openBraces)
	}
	if openBrackets > 0 {
		stripped += strings.Repeat("]", openBrackets)
	}

	return stripped
}

// decodeArray parses raw provider text into v, stripping fences and
// attempting exactly one repair pass on failure.
func decodeArray(raw string, v any) error {
	cleaned := stripCodeFence(raw)

	if err := json.Unmarshal([]byte(cleaned), v); err == nil {
		return nil
	}

	repaired := repairJSON(cleaned)
	if err := json.Unmarshal([]byte(repaired), v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

type extractedTitleJSON struct {
	Title         string               `json:"title"`
	Author        string               `json:"author"`
	Confidence    *float64             `json:"confidence"`
	VisualContext *model.VisualContext `json:"visual_context"`
}

// ParseExtraction converts a raw extraction response into validated titles.
// Items failing validation are dropped individually; the whole response is
// rejected only when nothing valid remains. Surviving titles are
// deduplicated by normalized form (first occurrence wins), capped, and
// filtered by the minimum confidence threshold.
func ParseExtraction(raw string) ([]model.ExtractedTitle, error) {
	var items []extractedTitleJSON
	if err := decodeArray(raw, &items); err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return nil, nil
	}

	titles := make([]model.ExtractedTitle, 0, len(items))
	seen := make(map[string]struct{})

	for _, item := range items {
		title := strings.Join(strings.Fields(item.Title), " ")
		if title == "" || len(title) > maxTitleLength {
			continue
		}
		if item.Confidence == nil || *item.Confidence < 0 || *item.Confidence > 1 {
			continue
		}

		normalized := model.NormalizeTitle(title)
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}

		extracted := model.ExtractedTitle{
			Title:      title,
			Author:     strings.Join(strings.Fields(item.Author), " "),
			Confidence: *item.Confidence,
		}
		if !item.VisualContext.Empty() {
			extracted.Visual = item.VisualContext
		}
		titles = append(titles, extracted)

		if len(titles) == maxTitles {
			break
		}
	}

	if len(titles) == 0 {
		return nil, fmt.Errorf("%w: no valid titles in %d items", ErrInvalidResponse, len(items))
	}

	filtered := titles[:0]
	for _, t := range titles {
		if t.Confidence >= minConfidence {
			filtered = append(filtered, t)
		}
	}

	return filtered, nil
}

type providerScoreJSON struct {
	Title       string   `json:"title"`
	Score       *float64 `json:"score"`
	Explanation string   `json:"explanation"`
}

// ParseBatchScores converts a raw batch scoring response into validated
// score records. Scores of any range are clamped to [0, 1]; entries missing
// a title or score are dropped.
func ParseBatchScores(raw string) ([]model.ProviderScore, error) {
	var items []providerScoreJSON
	if err := decodeArray(raw, &items); err != nil {
		return nil, err
	}

	scores := make([]model.ProviderScore, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.Title) == "" || item.Score == nil {
			continue
		}
		explanation := item.Explanation
		if explanation == "" {
			explanation = "No explanation provided"
		}
		scores = append(scores, model.ProviderScore{
			Title:       item.Title,
			Score:       model.Clamp01(*item.Score),
			Explanation: explanation,
		})
	}

	if len(scores) == 0 {
		return nil, fmt.Errorf("%w: no valid scores in %d items", ErrInvalidResponse, len(items))
	}

	return scores, nil
}

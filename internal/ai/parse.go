package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Model output is hostile input: fences, commentary, half-followed templates.
// Parsing here recovers whatever it can and only fails when no question at
// all survives.

var (
	ErrNoQuestions = errors.New("ai: no parsable questions in completion")

	fenceRe        = regexp.MustCompile("(?s)```[a-zA-Z]*\n?(.*?)```")
	lineCommentRe  = regexp.MustCompile(`(?m)^\s*//.*$`)
	blockCommentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)

	questionRe = regexp.MustCompile(`(?mi)^\s*QUESTION\s*\d+\s*[:.]\s*(.+)$`)
	optionRe   = regexp.MustCompile(`(?mi)^\s*OPTION\s*(\d)\s*[:.]\s*(.+)$`)
	correctRe  = regexp.MustCompile(`(?mi)^\s*CORRECT(?:\s*ANSWER)?\s*[:.]\s*(\d)`)
)

var optionPlaceholders = []string{"Option A", "Option B", "Option C", "Option D"}

// StripNoise removes markdown fences and comment syntax that models wrap
// around otherwise valid payloads. Fenced content is kept, the fences
// themselves dropped.
func StripNoise(raw string) string {
	if m := fenceRe.FindStringSubmatch(raw); m != nil {
		raw = m[1]
	}
	raw = blockCommentRe.ReplaceAllString(raw, "")
	raw = lineCommentRe.ReplaceAllString(raw, "")
	return strings.TrimSpace(raw)
}

// normalizeKeys rewrites the singular field names some models emit back to
// the plural forms the templates ask for.
func normalizeKeys(raw string) string {
	replacer := strings.NewReplacer(
		`"question":`, `"questions":`,
		`"option":`, `"options":`,
		`"correctAnswer":`, `"correct_answers":`,
		`"correct_answer":`, `"correct_answers":`,
	)
	return replacer.Replace(raw)
}

// ===== QUIZ =====

type QuizQuestion struct {
	Text    string
	Options []string
	Correct int
}

// ParseQuiz extracts quiz questions from a line-templated completion. The
// primary pass walks the template markers in order; if that yields nothing,
// a cruder QUESTION-split pass retries chunk by chunk.
func ParseQuiz(raw string) ([]QuizQuestion, error) {
	cleaned := StripNoise(raw)

	questions := parseQuizMarkers(cleaned)
	if len(questions) == 0 {
		questions = parseQuizChunks(cleaned)
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	return questions, nil
}

func parseQuizMarkers(text string) []QuizQuestion {
	starts := questionRe.FindAllStringSubmatchIndex(text, -1)
	if len(starts) == 0 {
		return nil
	}

	var out []QuizQuestion
	for i, loc := range starts {
		end := len(text)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}
		block := text[loc[0]:end]

		q, ok := parseQuizBlock(block)
		if ok {
			out = append(out, q)
		}
	}
	return out
}

// parseQuizChunks is the fallback: split on the QUESTION keyword and salvage
// each chunk independently.
func parseQuizChunks(text string) []QuizQuestion {
	chunks := regexp.MustCompile(`(?i)QUESTION`).Split(text, -1)
	var out []QuizQuestion
	for _, chunk := range chunks {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		q, ok := parseQuizBlock("QUESTION " + chunk)
		if ok {
			out = append(out, q)
		}
	}
	return out
}

func parseQuizBlock(block string) (QuizQuestion, bool) {
	q := QuizQuestion{Options: make([]string, 4)}

	if m := questionRe.FindStringSubmatch(block); m != nil {
		q.Text = strings.TrimSpace(m[1])
	}
	if q.Text == "" {
		// Tolerate a missing marker when the first non-empty line looks
		// like a question.
		for _, line := range strings.Split(block, "\n") {
			line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "QUESTION"))
			line = strings.TrimLeft(line, "0123456789:. ")
			if line != "" {
				q.Text = line
				break
			}
		}
	}
	if q.Text == "" {
		return q, false
	}

	found := 0
	for _, m := range optionRe.FindAllStringSubmatch(block, -1) {
		idx, err := strconv.Atoi(m[1])
		if err != nil || idx < 0 || idx > 3 {
			continue
		}
		q.Options[idx] = strings.TrimSpace(m[2])
		found++
	}
	if found == 0 {
		return q, false
	}
	// Substitute placeholders for the slots the model skipped rather than
	// discarding the whole question.
	for i, opt := range q.Options {
		if opt == "" {
			q.Options[i] = optionPlaceholders[i]
		}
	}

	if m := correctRe.FindStringSubmatch(block); m != nil {
		idx, err := strconv.Atoi(m[1])
		if err == nil && idx >= 0 && idx <= 3 {
			q.Correct = idx
		}
	}
	return q, true
}

// ===== CODING =====

type CodingQuestion struct {
	Title              string `json:"questions"`
	ProblemDescription string `json:"problem_description"`
	StarterCode        string `json:"starter_code"`
	ExpectedOutput     string `json:"expected_output"`
	Points             int    `json:"points"`
}

func ParseCoding(raw string) ([]CodingQuestion, error) {
	cleaned := normalizeKeys(StripNoise(raw))

	var questions []CodingQuestion
	if err := decodeArrayOrSingle(cleaned, &questions); err != nil {
		return nil, err
	}

	out := questions[:0]
	for _, q := range questions {
		if q.ProblemDescription == "" {
			continue
		}
		if q.Title == "" {
			q.Title = firstSentence(q.ProblemDescription)
		}
		if q.Points <= 0 {
			q.Points = 1
		}
		out = append(out, q)
	}
	if len(out) == 0 {
		return nil, ErrNoQuestions
	}
	return out, nil
}

// ===== WRITING =====

type WritingQuestion struct {
	Title        string `json:"questions"`
	Prompt       string `json:"prompt"`
	Instructions string `json:"instructions"`
	WordLimit    int    `json:"word_limit"`
	Points       int    `json:"points"`
}

func ParseWriting(raw string) ([]WritingQuestion, error) {
	cleaned := normalizeKeys(StripNoise(raw))

	var questions []WritingQuestion
	if err := decodeArrayOrSingle(cleaned, &questions); err != nil {
		return nil, err
	}

	out := questions[:0]
	for _, q := range questions {
		if q.Prompt == "" {
			continue
		}
		if q.Title == "" {
			q.Title = firstSentence(q.Prompt)
		}
		if q.WordLimit <= 0 {
			q.WordLimit = 500
		}
		if q.Points <= 0 {
			q.Points = 1
		}
		out = append(out, q)
	}
	if len(out) == 0 {
		return nil, ErrNoQuestions
	}
	return out, nil
}

// decodeArrayOrSingle accepts a JSON array, a single object, or an object
// wrapping the array under "questions".
func decodeArrayOrSingle[T any](raw string, dest *[]T) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ErrNoQuestions
	}

	if err := json.Unmarshal([]byte(raw), dest); err == nil {
		return nil
	}

	var single T
	if err := json.Unmarshal([]byte(raw), &single); err == nil {
		*dest = []T{single}
		return nil
	}

	var wrapped struct {
		Questions []T `json:"questions"`
	}
	if err := json.Unmarshal([]byte(raw), &wrapped); err == nil && len(wrapped.Questions) > 0 {
		*dest = wrapped.Questions
		return nil
	}

	return fmt.Errorf("ai: completion is not valid JSON: %w", ErrNoQuestions)
}

func firstSentence(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.IndexAny(text, ".!?\n"); i > 0 {
		text = text[:i]
	}
	if len(text) > 120 {
		text = text[:120]
	}
	return text
}

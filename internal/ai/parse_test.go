package ai

import (
	"errors"
	"testing"
)

func TestStripNoise(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "hello", "hello"},
		{"fence dropped", "```json\n{\"a\":1}\n```", "{\"a\":1}"},
		{"fence with language", "```go\ncode\n```", "code"},
		{"line comments removed", "// note\npayload", "payload"},
		{"block comments removed", "/* lead-in */payload", "payload"},
		{"surrounding whitespace trimmed", "  payload  \n", "payload"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripNoise(tt.in); got != tt.want {
				t.Errorf("StripNoise(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseQuizTemplated(t *testing.T) {
	raw := `QUESTION 1: What does TCP stand for?
OPTION 0: Transmission Control Protocol
OPTION 1: Total Connection Plan
OPTION 2: Transfer Check Program
OPTION 3: Timed Control Packet
CORRECT: 0

QUESTION 2: Default HTTP port?
OPTION 0: 21
OPTION 1: 80
OPTION 2: 443
OPTION 3: 8080
CORRECT ANSWER: 1`

	questions, err := ParseQuiz(raw)
	if err != nil {
		t.Fatalf("ParseQuiz: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("questions = %d, want 2", len(questions))
	}
	if questions[0].Text != "What does TCP stand for?" {
		t.Errorf("q1 text = %q", questions[0].Text)
	}
	if questions[0].Correct != 0 {
		t.Errorf("q1 correct = %d, want 0", questions[0].Correct)
	}
	if questions[1].Correct != 1 {
		t.Errorf("q2 correct = %d, want 1", questions[1].Correct)
	}
	if questions[1].Options[2] != "443" {
		t.Errorf("q2 option 2 = %q", questions[1].Options[2])
	}
}

func TestParseQuizFencedCompletion(t *testing.T) {
	raw := "```\nQUESTION 1: Pick one\nOPTION 0: yes\nOPTION 1: no\nCORRECT: 1\n```"
	questions, err := ParseQuiz(raw)
	if err != nil {
		t.Fatalf("ParseQuiz: %v", err)
	}
	if len(questions) != 1 || questions[0].Correct != 1 {
		t.Errorf("questions = %+v", questions)
	}
}

func TestParseQuizFillsMissingOptions(t *testing.T) {
	raw := `QUESTION 1: Sparse options?
OPTION 0: the only real one
CORRECT: 0`

	questions, err := ParseQuiz(raw)
	if err != nil {
		t.Fatalf("ParseQuiz: %v", err)
	}
	q := questions[0]
	if q.Options[0] != "the only real one" {
		t.Errorf("option 0 = %q", q.Options[0])
	}
	for i := 1; i < 4; i++ {
		if q.Options[i] != optionPlaceholders[i] {
			t.Errorf("option %d = %q, want placeholder %q", i, q.Options[i], optionPlaceholders[i])
		}
	}
}

func TestParseQuizChunkFallback(t *testing.T) {
	// No numbered "QUESTION n:" markers, so the marker pass finds nothing and
	// the split pass has to salvage the chunks.
	raw := `QUESTION What is DNS?
OPTION 0: Domain Name System
OPTION 1: Data Net Service
CORRECT: 0
QUESTION What is ARP?
OPTION 0: Address Resolution Protocol
OPTION 1: Array Rotation Pass
CORRECT: 0`

	questions, err := ParseQuiz(raw)
	if err != nil {
		t.Fatalf("ParseQuiz: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("questions = %d, want 2", len(questions))
	}
	if questions[0].Text != "What is DNS?" {
		t.Errorf("q1 text = %q", questions[0].Text)
	}
}

func TestParseQuizNoQuestions(t *testing.T) {
	if _, err := ParseQuiz("I'm sorry, I cannot help with that."); !errors.Is(err, ErrNoQuestions) {
		t.Errorf("err = %v, want ErrNoQuestions", err)
	}
}

func TestParseCodingArray(t *testing.T) {
	raw := `[
	  {"questions": "Reverse a string", "problem_description": "Write a function that reverses its input.", "starter_code": "func reverse(s string) string {}", "expected_output": "cba", "points": 3},
	  {"problem_description": "Sum two ints. Return the result.", "expected_output": "5"}
	]`

	questions, err := ParseCoding(raw)
	if err != nil {
		t.Fatalf("ParseCoding: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("questions = %d, want 2", len(questions))
	}
	if questions[0].Points != 3 {
		t.Errorf("q1 points = %d, want 3", questions[0].Points)
	}
	// Missing title falls back to the first sentence; missing points default
	// to 1.
	if questions[1].Title != "Sum two ints" {
		t.Errorf("q2 title = %q", questions[1].Title)
	}
	if questions[1].Points != 1 {
		t.Errorf("q2 points = %d, want 1", questions[1].Points)
	}
}

func TestParseCodingSingleObject(t *testing.T) {
	raw := `{"question": "Binary search", "problem_description": "Implement binary search.", "expected_output": "2"}`

	questions, err := ParseCoding(raw)
	if err != nil {
		t.Fatalf("ParseCoding: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("questions = %d, want 1", len(questions))
	}
	// The singular "question" key is normalized to the plural the template
	// asks for.
	if questions[0].Title != "Binary search" {
		t.Errorf("title = %q", questions[0].Title)
	}
}

func TestParseCodingWrappedObject(t *testing.T) {
	raw := `{"questions": [{"problem_description": "FizzBuzz it.", "expected_output": "Fizz"}]}`

	questions, err := ParseCoding(raw)
	if err != nil {
		t.Fatalf("ParseCoding: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("questions = %d, want 1", len(questions))
	}
}

func TestParseCodingSkipsEmptyDescriptions(t *testing.T) {
	raw := `[{"questions": "empty"}, {"problem_description": "Real one."}]`
	questions, err := ParseCoding(raw)
	if err != nil {
		t.Fatalf("ParseCoding: %v", err)
	}
	if len(questions) != 1 {
		t.Errorf("questions = %d, want 1", len(questions))
	}

	if _, err := ParseCoding(`[{"questions": "all empty"}]`); !errors.Is(err, ErrNoQuestions) {
		t.Errorf("err = %v, want ErrNoQuestions", err)
	}
}

func TestParseWritingDefaults(t *testing.T) {
	raw := "```json\n[{\"prompt\": \"Discuss garbage collection tradeoffs. Cover pauses.\"}]\n```"

	questions, err := ParseWriting(raw)
	if err != nil {
		t.Fatalf("ParseWriting: %v", err)
	}
	q := questions[0]
	if q.Title != "Discuss garbage collection tradeoffs" {
		t.Errorf("title = %q", q.Title)
	}
	if q.WordLimit != 500 {
		t.Errorf("word limit = %d, want 500", q.WordLimit)
	}
	if q.Points != 1 {
		t.Errorf("points = %d, want 1", q.Points)
	}
}

func TestParseWritingInvalidJSON(t *testing.T) {
	if _, err := ParseWriting("not json at all"); !errors.Is(err, ErrNoQuestions) {
		t.Errorf("err = %v, want ErrNoQuestions", err)
	}
}

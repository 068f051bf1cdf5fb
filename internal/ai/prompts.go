package ai

import (
	"fmt"
	"strings"
)

// Quiz generation uses a line-oriented template because small models follow
// it far more reliably than JSON; coding and writing prompts ask for JSON and
// go through the defensive parser.

func QuizPrompt(topic, difficulty string, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate exactly %d multiple-choice quiz questions about %q at %s difficulty.\n\n", count, topic, difficulty)
	b.WriteString("Output each question in exactly this format, with no other text:\n\n")
	b.WriteString("QUESTION 1: <question text>\n")
	b.WriteString("OPTION 0: <first option>\n")
	b.WriteString("OPTION 1: <second option>\n")
	b.WriteString("OPTION 2: <third option>\n")
	b.WriteString("OPTION 3: <fourth option>\n")
	b.WriteString("CORRECT: <index of the correct option, 0-3>\n\n")
	b.WriteString("Repeat for every question, incrementing the question number. Do not add explanations, markdown or code fences.")
	return b.String()
}

func CodingPrompt(topic, difficulty, language string, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate exactly %d coding problems about %q in %s at %s difficulty.\n\n", count, topic, language, difficulty)
	b.WriteString("Respond with a JSON array only, no markdown fences and no commentary. Each element:\n")
	b.WriteString(`{
  "questions": "<short problem title>",
  "problem_description": "<full problem statement>",
  "starter_code": "<starter code for the candidate>",
  "expected_output": "<expected output for the sample input>",
  "points": <points 1-10>
}`)
	return b.String()
}

func WritingPrompt(topic, difficulty, writingType string, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate exactly %d %s writing prompts about %q at %s difficulty.\n\n", count, writingType, topic, difficulty)
	b.WriteString("Respond with a JSON array only, no markdown fences and no commentary. Each element:\n")
	b.WriteString(`{
  "questions": "<short prompt title>",
  "prompt": "<the full writing prompt>",
  "instructions": "<instructions for the writer>",
  "word_limit": <suggested word limit>,
  "points": <points 1-10>
}`)
	return b.String()
}

package extraction

import (
	"fmt"
	"strings"

	"paperplane/internal/domain"
)

// Selector picks the prompt template: one question type, or auto-detection.
type Selector string

const SelectorAuto Selector = "auto"

// Selectors lists every accepted selector, auto last.
func Selectors() []Selector {
	out := make([]Selector, 0, len(domain.QuestionTypes)+1)
	for _, t := range domain.QuestionTypes {
		out = append(out, Selector(t))
	}
	return append(out, SelectorAuto)
}

// ParseSelector accepts a question type or "auto"; empty means auto.
func ParseSelector(s string) (Selector, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == string(SelectorAuto) {
		return SelectorAuto, nil
	}
	if t, ok := domain.ParseQuestionType(s); ok {
		return Selector(t), nil
	}
	return "", domain.ValidationErrors{domain.NewInvalidFormatError("type", s)}
}

// Label is a human readable name for the selector.
func (s Selector) Label() string {
	if s == SelectorAuto {
		return "Auto-detect from headings"
	}
	return domain.QuestionType(s).Label()
}

const baseInstructions = `You are a helpful assistant that extracts questions from markdown content.

The markdown may have metadata headers at the top:
- ## Subject - [Subject Name]
- ## Chapter - [Chapter Name]
- ## Section - [Section Name]

CRITICAL: DO NOT extract or guess answers. Leave the "answers" field as an empty array [].
The user will select answers manually in the UI after extraction.

Extract ALL images from markdown and put in appropriate images arrays.
Preserve mathematical formulas exactly as written (use $...$ format).
Return ONLY a valid JSON array, no additional text.`

const choiceTemplate = `Extract SINGLE or MULTIPLE CHOICE questions with this structure:
{
  "id": number (question number from markdown),
  "type": "%s",
  "content": { "text": "question text", "images": ["url1", "url2"] },
  "options": [
    { "text": "option text", "image_url": "url if any" }
  ],
  "answers": []  // ALWAYS EMPTY - user will select in UI
}

Extract question text and all options (1), (2), (3), (4).
Do NOT try to determine which option is correct.`

const integerTemplate = `Extract INTEGER/NUMERICAL questions with this structure:
{
  "id": number (question number from markdown),
  "type": "integer",
  "content": { "text": "question text", "images": ["url1", "url2"] },
  "options": [],
  "answers": []  // ALWAYS EMPTY - user will enter in UI
}

Extract only the question text and any images.`

const matrixTemplate = `Extract MATRIX MATCH questions with this structure:
{
  "id": number (question number from markdown),
  "type": "matrix",
  "content": { "text": "question text", "images": [] },
  "matrix_match": {
    "columnA": ["A. item 1", "B. item 2"],
    "columnB": ["P. item 1", "Q. item 2"],
    "map": {}  // ALWAYS EMPTY - user will map in UI
  }
}

Extract Column A items (A, B, C...) and Column B items (P, Q, R...).
Do NOT try to determine the correct mapping.`

const comprehensionTemplate = `Extract COMPREHENSION questions with this structure:

CRITICAL: Group all sub-questions under ONE comprehension passage!

Format in markdown:
## For Problems X-Y    ← This means ONE comprehension question
[Passage text here]
X. Sub-question 1...
Y. Sub-question 2...

Extract as ONE question:
{
  "id": X (first sub-question number),
  "type": "comprehension",
  "comprehension_passage": {
    "text": "[Full passage text]",
    "images": []
  },
  "sub_questions": [
    {
      "type": "single",
      "content": { "text": "Sub-question 1 text", "images": [] },
      "options": [{ "text": "option", "image_url": "" }],
      "answers": []
    },
    {
      "type": "single",
      "content": { "text": "Sub-question 2 text", "images": [] },
      "options": [{ "text": "option", "image_url": "" }],
      "answers": []
    }
  ]
}

IMPORTANT RULES:
1. "## For Problems 1-3" means questions 1, 2, 3 share the SAME passage
2. Create ONE comprehension object with id = first question number
3. Put ALL sub-questions (1, 2, 3) in the sub_questions array
4. The passage is the text between "## For Problems" and the first numbered question
5. Do NOT create separate comprehension objects for each sub-question
6. Each "## For Problems X-Y" section = ONE comprehension question

Example:
## For Problems 1-3
A car accelerates...

1. What is velocity?
2. What is acceleration?
3. What is distance?

Should extract as ONE question with id=1 and 3 sub-questions, NOT 3 separate questions.

Do NOT try to determine correct answers for sub-questions.`

const autoTemplate = `The markdown will have section headers indicating question type:
- "Single Correct Answer Type" or similar → type: "single"
- "Multiple Correct Answers Type" or similar → type: "multiple"
- "Integer/Numerical Type" or similar → type: "integer"
- "Matrix Match Type" or similar → type: "matrix"
- "Linked Comprehension Type" or similar → type: "comprehension"

Extract each question with appropriate structure based on type detected.

For SINGLE/MULTIPLE/INTEGER types:
{
  "id": number,
  "type": "single" | "multiple" | "integer",
  "content": { "text": "question text", "images": [] },
  "options": [{ "text": "option text", "image_url": "" }],
  "answers": []  // ALWAYS EMPTY
}

For MATRIX MATCH type:
{
  "id": number,
  "type": "matrix",
  "content": { "text": "question text", "images": [] },
  "matrix_match": {
    "columnA": ["A. item 1"],
    "columnB": ["P. item 1"],
    "map": {}  // ALWAYS EMPTY
  }
}

For COMPREHENSION type:
CRITICAL: "## For Problems X-Y" means ONE comprehension question with multiple sub-questions!

{
  "id": X (first sub-question number),
  "type": "comprehension",
  "comprehension_passage": { "text": "passage", "images": [] },
  "sub_questions": [
    {
      "type": "single" | "multiple",
      "content": { "text": "sub-question 1", "images": [] },
      "options": [{ "text": "option", "image_url": "" }],
      "answers": []  // ALWAYS EMPTY
    },
    {
      "type": "single" | "multiple",
      "content": { "text": "sub-question 2", "images": [] },
      "options": [{ "text": "option", "image_url": "" }],
      "answers": []  // ALWAYS EMPTY
    }
  ]
}

RULES for comprehension:
- "## For Problems 1-3" = ONE question with id=1, containing 3 sub-questions
- Passage text is between "## For Problems" header and first numbered question
- Group ALL sub-questions under ONE comprehension object
- Do NOT create separate questions for each sub-question`

// BuildPrompt returns the system instructions for sel. Selectors outside the
// known set fall back to auto-detection; use ParseSelector to reject them first.
func BuildPrompt(sel Selector) string {
	var body string
	switch domain.QuestionType(sel) {
	case domain.TypeSingle, domain.TypeMultiple:
		body = fmt.Sprintf(choiceTemplate, sel)
	case domain.TypeInteger:
		body = integerTemplate
	case domain.TypeMatrix:
		body = matrixTemplate
	case domain.TypeComprehension:
		body = comprehensionTemplate
	default:
		body = autoTemplate
	}
	return baseInstructions + "\n\n" + body
}

// UserMessage wraps the markdown document for the completion request.
func UserMessage(markdown string) string {
	return "Extract all questions from this markdown:\n\n" + markdown
}

package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// MissingAnswerMessage is returned when a question is pushed without a curated answer.
const MissingAnswerMessage = "Please select/enter answer(s) before uploading"

const matrixArrow = "→"

// MatrixLabel extracts the leading label of a column entry: "A. item" -> "A".
func MatrixLabel(entry string) string {
	label, _, _ := strings.Cut(entry, ".")
	return strings.ToUpper(strings.TrimSpace(label))
}

// MatrixAnswerTokens renders a mapping as "A→P,Q" tokens ordered by left label.
// Labels without targets are skipped.
func MatrixAnswerTokens(mapping map[string][]string) []string {
	keys := make([]string, 0, len(mapping))
	for k, v := range mapping {
		if len(v) > 0 {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	tokens := make([]string, 0, len(keys))
	for _, k := range keys {
		tokens = append(tokens, k+matrixArrow+strings.Join(mapping[k], ","))
	}
	return tokens
}

// ParseMatrixToken splits "A→P,Q" (or "A->P,Q") into its labels.
func ParseMatrixToken(token string) (string, []string, bool) {
	left, right, found := strings.Cut(token, matrixArrow)
	if !found {
		left, right, found = strings.Cut(token, "->")
	}
	if !found {
		return "", nil, false
	}
	left = strings.ToUpper(strings.TrimSpace(left))
	if left == "" {
		return "", nil, false
	}
	var targets []string
	for _, r := range strings.Split(right, ",") {
		r = strings.ToUpper(strings.TrimSpace(r))
		if r != "" {
			targets = append(targets, r)
		}
	}
	if len(targets) == 0 {
		return "", nil, false
	}
	return left, targets, true
}

// CompletionSummary reports "n/m answered" for a comprehension block and whether
// every sub-question has an answer.
func CompletionSummary(subs []SubQuestion) (string, bool) {
	answered := 0
	for _, s := range subs {
		if hasAnswer(s.Answers) {
			answered++
		}
	}
	return fmt.Sprintf("%d/%d answered", answered, len(subs)), answered == len(subs)
}

// ComprehensionAnswers is the question-level answer list of a comprehension block:
// the summary once complete, empty before.
func ComprehensionAnswers(subs []SubQuestion) []string {
	summary, complete := CompletionSummary(subs)
	if !complete || len(subs) == 0 {
		return []string{}
	}
	return []string{summary}
}

func hasAnswer(answers []string) bool {
	for _, a := range answers {
		if strings.TrimSpace(a) != "" {
			return true
		}
	}
	return false
}

func missingAnswer(field string) ValidationErrors {
	return ValidationErrors{NewFieldError(field, MissingAnswerMessage)}
}

func (b *ChoiceBody) DeriveAnswers(current []string) []string { return current }

// ValidateAnswers accepts 0-based option indices; single choice takes exactly one.
func (b *ChoiceBody) ValidateAnswers(t QuestionType, answers []string) error {
	if !hasAnswer(answers) {
		return missingAnswer("answers")
	}
	var errs ValidationErrors
	if t == TypeSingle && len(answers) != 1 {
		errs = append(errs, NewFieldError("answers", "single choice questions take exactly one answer"))
	}
	seen := make(map[int]bool, len(answers))
	for _, a := range answers {
		idx, err := strconv.Atoi(strings.TrimSpace(a))
		if err != nil || idx < 0 || idx >= len(b.Options) {
			errs = append(errs, NewOutOfRangeError("answers", a, 0, len(b.Options)-1))
			continue
		}
		if seen[idx] {
			errs = append(errs, NewFieldError("answers", fmt.Sprintf("option %d selected twice", idx)))
		}
		seen[idx] = true
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (b *IntegerBody) DeriveAnswers(current []string) []string {
	out := make([]string, 0, len(current))
	for _, a := range current {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

func (b *IntegerBody) ValidateAnswers(_ QuestionType, answers []string) error {
	if !hasAnswer(answers) {
		return missingAnswer("answers")
	}
	if len(answers) != 1 {
		return ValidationErrors{NewFieldError("answers", "numerical questions take exactly one answer")}
	}
	return nil
}

// DeriveAnswers renders the mapping when no tokens were supplied.
func (b *MatrixBody) DeriveAnswers(current []string) []string {
	if hasAnswer(current) {
		return current
	}
	return MatrixAnswerTokens(b.Matrix.Map)
}

func (b *MatrixBody) ValidateAnswers(_ QuestionType, answers []string) error {
	if !hasAnswer(answers) {
		return missingAnswer("answers")
	}
	left := labelSet(b.Matrix.ColumnA)
	right := labelSet(b.Matrix.ColumnB)
	var errs ValidationErrors
	for _, token := range answers {
		from, to, ok := ParseMatrixToken(token)
		if !ok {
			errs = append(errs, NewInvalidFormatError("answers", token))
			continue
		}
		if len(left) > 0 && !left[from] {
			errs = append(errs, NewFieldError("answers", fmt.Sprintf("%s is not a Column A label", from)))
		}
		for _, t := range to {
			if len(right) > 0 && !right[t] {
				errs = append(errs, NewFieldError("answers", fmt.Sprintf("%s is not a Column B label", t)))
			}
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func labelSet(entries []string) map[string]bool {
	set := make(map[string]bool, len(entries))
	for _, e := range entries {
		if l := MatrixLabel(e); l != "" {
			set[l] = true
		}
	}
	return set
}

func (b *ComprehensionBody) DeriveAnswers([]string) []string {
	return ComprehensionAnswers(b.SubQuestions)
}

// ValidateAnswers requires every sub-question to be answered; question-level
// answers are derived and not inspected.
func (b *ComprehensionBody) ValidateAnswers(_ QuestionType, _ []string) error {
	if len(b.SubQuestions) == 0 {
		return ValidationErrors{NewMissingFieldError("sub_questions")}
	}
	var errs ValidationErrors
	for i, s := range b.SubQuestions {
		field := fmt.Sprintf("sub_questions[%d].answers", i)
		if !hasAnswer(s.Answers) {
			errs = append(errs, NewFieldError(field, MissingAnswerMessage))
			continue
		}
		if s.Type != TypeMultiple && len(s.Answers) != 1 {
			errs = append(errs, NewFieldError(field, "single choice questions take exactly one answer"))
		}
	}
	if len(errs) > 0 {
		if summary, _ := CompletionSummary(b.SubQuestions); summary != "" {
			errs = append(errs, NewFieldError("sub_questions", summary))
		}
		return errs
	}
	return nil
}

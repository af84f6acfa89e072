package extraction

import (
	"fmt"

	"github.com/google/uuid"
)

// questionNamespace must never change: stored identifiers depend on it.
var questionNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// QuestionID derives a UUID v5 from the question's position in the taxonomy.
// Identical inputs always produce the same identifier.
func QuestionID(subject, chapter, section, qtype string, number int) string {
	if number <= 0 {
		number = 1
	}
	name := fmt.Sprintf("%s-%s-%s-%s-%d",
		orUnknown(subject), orUnknown(chapter), orUnknown(section), orUnknown(qtype), number)
	return uuid.NewSHA1(questionNamespace, []byte(name)).String()
}

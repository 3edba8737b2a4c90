package models

// ── Course Catalog ────────────────────────────────────────
//
// Subjects are ordered (catalog order matters: subject-completer and mastery
// badges report the first qualifying subject).

type Subject struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Topics []Topic `json:"topics"`
}

type Topic struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	SubTopics    []Topic    `json:"subTopics,omitempty"`
	Questions    []Question `json:"questions,omitempty"`
	TecQuestions []Question `json:"tecQuestions,omitempty"`
}

// Question is a single multiple-choice item, used both in catalog question
// sets and in generated challenge/quiz content.
type Question struct {
	ID          string   `json:"id"`
	Text        string   `json:"text"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation,omitempty"`
}

// TecTopicKey returns the progress/badge key for a topic's extracted-question
// ("tec") variant.
func TecTopicKey(topicID string) string {
	return topicID + "-tec"
}

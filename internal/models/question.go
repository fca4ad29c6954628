package models

// Question is an authoritative question/answer record. Records are loaded out of band and are
// read-only from the API's point of view.
type Question struct {
	ID     uint   `gorm:"primaryKey" json:"-"`
	Input  string `gorm:"type:text" json:"input"`
	Output string `gorm:"type:text" json:"output"`
}

// TableName keeps the collection name used by the original data set.
func (Question) TableName() string {
	return "medicals"
}

// QuestionView is the public projection of a question record.
type QuestionView struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// View strips store-internal fields.
func (q Question) View() QuestionView {
	return QuestionView{Input: q.Input, Output: q.Output}
}

// Suggestion is the projection returned by text search.
type Suggestion struct {
	Input string `json:"input"`
}

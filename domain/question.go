package domain

// Question is an immutable trivia item. Questions come from a fixed in-memory
// pool and are never persisted, so there is no stable identifier; equality is
// by content.
type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

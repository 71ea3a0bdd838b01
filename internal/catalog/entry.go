package catalog

import "strings"

// Entry is one reference material.
type Entry struct {
	Name          string   `json:"name" yaml:"name"`
	Description   string   `json:"description" yaml:"description"`
	Properties    string   `json:"properties" yaml:"properties"`
	Applications  string   `json:"applications" yaml:"applications"`
	GOSTStandards []string `json:"gost_standards" yaml:"gost_standards"`
}

// EmbeddingText is the text embedded for similarity search.
func (e Entry) EmbeddingText() string {
	return strings.Join([]string{e.Name, e.Description, e.Properties, e.Applications}, " ")
}

func (e Entry) clone() Entry {
	e.GOSTStandards = append([]string(nil), e.GOSTStandards...)
	return e
}

// Match is a search result. Score is nil for cold-start results returned
// before any entry has been embedded.
type Match struct {
	Entry
	Score *float64 `json:"similarity_score,omitempty"`
}

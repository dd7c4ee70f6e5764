package worksheet

import (
	"fmt"
	"math/rand/v2"
)

const (
	MinCount     = 1
	MaxCount     = 50
	DefaultCount = 10
)

// Grades is the grade catalog offered by the form.
var Grades = func() []string {
	out := make([]string, 12)
	for i := range out {
		out[i] = fmt.Sprintf("Grade %d", i+1)
	}
	return out
}()

// TopicSuggestions backs the "suggest a topic" button.
var TopicSuggestions = []string{
	"Adding and subtracting fractions",
	"Reading and interpreting classical poetry",
	"Area of plane figures",
	"English verb tenses",
	"Dynasties of Chinese history",
	"The periodic table of elements",
	"Fundamentals of mechanics",
	"Structure of the cell",
}

// SuggestTopic returns a random entry from TopicSuggestions.
func SuggestTopic() string {
	return TopicSuggestions[rand.IntN(len(TopicSuggestions))]
}

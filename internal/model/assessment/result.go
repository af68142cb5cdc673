package assessment

import (
	"errors"
	"fmt"
)

type Scores struct {
	Pronunciation int `json:"pronunciation"`
	Fluency       int `json:"fluency"`
	Vocabulary    int `json:"vocabulary"`
	Grammar       int `json:"grammar"`
}

func (s Scores) each() []int {
	return []int{s.Pronunciation, s.Fluency, s.Vocabulary, s.Grammar}
}

// Clamp 把各项分数限制在 0..100
func (s Scores) Clamp() Scores {
	c := func(v int) int { return max(0, min(100, v)) }
	return Scores{
		Pronunciation: c(s.Pronunciation),
		Fluency:       c(s.Fluency),
		Vocabulary:    c(s.Vocabulary),
		Grammar:       c(s.Grammar),
	}
}

// AnalysisResult 口语等级测评结果
type AnalysisResult struct {
	Timestamp        string `json:"timestamp"`
	EDLevel          string `json:"edLevel"`
	LevelDesc        string `json:"levelDesc"`
	CEFR             string `json:"cefr"`
	TOEIC            string `json:"toeic"`
	IELTS            string `json:"ielts"`
	Scores           Scores `json:"scores"`
	Reasoning        string `json:"reasoning"`
	DetectedLanguage string `json:"detectedLanguage"`
}

func (r AnalysisResult) Validate() error {
	if r.Timestamp == "" {
		return errors.New("result timestamp is empty")
	}
	if LevelIndex(r.EDLevel) < 0 {
		return fmt.Errorf("result level %q is not in the taxonomy", r.EDLevel)
	}
	for _, v := range r.Scores.each() {
		if v < 0 || v > 100 {
			return fmt.Errorf("result score %d out of range", v)
		}
	}
	return nil
}

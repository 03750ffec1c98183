package models

import (
	"sort"
	"strings"
)

// MockTest is one full-length mock exam attempt
type MockTest struct {
	ID               string  `json:"id"`
	Date             string  `json:"date"`
	Provider         string  `json:"provider"`
	TotalMarks       float64 `json:"totalMarks"`
	Score            float64 `json:"score"`
	TotalAttempts    int     `json:"totalAttempts"`
	CorrectAttempts  int     `json:"correctAttempts"`
	WrongAttempts    int     `json:"wrongAttempts"`
	TimeSpentMinutes int     `json:"timeSpentMinutes"`
}

// Accuracy returns correct attempts as a percentage of all attempts
func (m MockTest) Accuracy() float64 {
	if m.TotalAttempts == 0 {
		return 0
	}
	return float64(m.CorrectAttempts) / float64(m.TotalAttempts) * 100
}

// MockSummary aggregates the mock history
type MockSummary struct {
	Count       int
	AvgAccuracy float64
	Latest      *MockTest
}

// SummarizeMocks averages the accuracy over mocks, which are newest first
func SummarizeMocks(mocks []MockTest) MockSummary {
	if len(mocks) == 0 {
		return MockSummary{}
	}
	total := 0.0
	for _, m := range mocks {
		total += m.Accuracy()
	}
	latest := mocks[0]
	return MockSummary{Count: len(mocks), AvgAccuracy: total / float64(len(mocks)), Latest: &latest}
}

// ErrorLogEntry records a mistake made while practising
type ErrorLogEntry struct {
	ID               string      `json:"id"`
	Date             string      `json:"date"`
	Subject          Subject     `json:"subject"`
	Topic            string      `json:"topic"`
	MistakeType      MistakeType `json:"mistakeType"`
	TimeSpentSeconds int         `json:"timeSpentSeconds"`
	Notes            string      `json:"notes"`
	ReviewCount      int         `json:"reviewCount"`
	ImageURL         string      `json:"imageUrl,omitempty"`
}

// DailyLog is the habit entry for one day. One entry per date.
type DailyLog struct {
	ID                string              `json:"id"`
	Date              string              `json:"date"`
	StudyHours        map[Subject]float64 `json:"studyHours"`
	TopicsCovered     []string            `json:"topicsCovered"`
	PracticeQuestions int                 `json:"practiceQuestions"`
	PracticeCorrect   int                 `json:"practiceCorrect"`
	RevisionDone      bool                `json:"revisionDone"`
	FocusLevel        int                 `json:"focusLevel"` // 1-5
	WeakestConcept    string              `json:"weakestConcept"`
}

// TotalHours sums the study hours of all subjects
func (l DailyLog) TotalHours() float64 {
	total := 0.0
	for _, h := range l.StudyHours {
		total += h
	}
	return total
}

// InfoItem is a saved syllabus resource such as an image or a PDF
type InfoItem struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Date    string `json:"date"`
	DataURL string `json:"dataUrl"`
	Type    string `json:"type"` // "image" or "pdf"
}

// KnowledgeItem is an entry of the keyword-searchable knowledge base
type KnowledgeItem struct {
	ID       string   `json:"id"`
	Keywords []string `json:"keywords"`
	Answer   string   `json:"answer"`
	Category string   `json:"category"` // a Subject or "General"
}

// DrillStats tracks the calculator speed drill
type DrillStats struct {
	TotalAttempts int     `json:"totalAttempts"`
	Correct       int     `json:"correct"`
	AvgTimeSec    float64 `json:"avgTimeSec"`
	BestTimeSec   float64 `json:"bestTimeSec"`
}

// Record adds one drill attempt. The average time only counts correct answers.
func (s DrillStats) Record(seconds float64, correct bool) DrillStats {
	s.TotalAttempts++
	if !correct {
		return s
	}
	s.AvgTimeSec = (s.AvgTimeSec*float64(s.Correct) + seconds) / float64(s.Correct+1)
	s.Correct++
	if seconds < s.BestTimeSec || s.BestTimeSec == 0 {
		s.BestTimeSec = seconds
	}
	return s
}

// SearchKnowledge returns the items matching query, best first. Keyword hits
// weigh more than hits in the answer text.
func SearchKnowledge(items []KnowledgeItem, query string) []KnowledgeItem {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return nil
	}

	type scored struct {
		item  KnowledgeItem
		score int
	}
	var hits []scored
	for _, item := range items {
		answer := strings.ToLower(item.Answer)
		score := 0
		for _, term := range terms {
			for _, k := range item.Keywords {
				if strings.Contains(strings.ToLower(k), term) {
					score += 3
					break
				}
			}
			if strings.Contains(answer, term) {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, scored{item, score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	out := make([]KnowledgeItem, len(hits))
	for i, h := range hits {
		out[i] = h.item
	}
	return out
}

// CheatSheet is the free-form formula sheet
type CheatSheet struct {
	Content      string `json:"content"`
	LastModified string `json:"lastModified"`
}

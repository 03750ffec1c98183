package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Subject is one of the fixed GATE CS subjects
type Subject string

const (
	SubjectCN   Subject = "Computer Networks"
	SubjectOS   Subject = "Operating Systems"
	SubjectDBMS Subject = "DBMS"
	SubjectTOC  Subject = "Theory of Computation"
	SubjectCD   Subject = "Compiler Design"
	SubjectDLD  Subject = "Digital Logic"
	SubjectCOA  Subject = "COA"
	SubjectDS   Subject = "Data Structures"
	SubjectALGO Subject = "Algorithms"
	SubjectDM   Subject = "Discrete Math"
	SubjectEM   Subject = "Engg Math"
	SubjectGA   Subject = "General Aptitude"
)

// AllSubjects lists every subject in display order
var AllSubjects = []Subject{
	SubjectCN, SubjectOS, SubjectDBMS, SubjectTOC, SubjectCD, SubjectDLD,
	SubjectCOA, SubjectDS, SubjectALGO, SubjectDM, SubjectEM, SubjectGA,
}

// ParseSubject converts a string into a Subject, rejecting unknown names
func ParseSubject(s string) (Subject, error) {
	for _, subject := range AllSubjects {
		if string(subject) == s {
			return subject, nil
		}
	}
	return "", fmt.Errorf("unknown subject %q", s)
}

// Valid reports whether s is a known subject
func (s Subject) Valid() bool {
	_, err := ParseSubject(string(s))
	return err == nil
}

// UnmarshalJSON rejects subjects that are not part of the enum
func (s *Subject) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseSubject(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// MistakeType classifies an entry of the error journal
type MistakeType string

const (
	MistakeConcept MistakeType = "Conceptual Gap"
	MistakeSilly   MistakeType = "Silly Mistake"
	MistakeTime    MistakeType = "Time Management"
	MistakeGuess   MistakeType = "Guess Work"
	MistakeSkipped MistakeType = "Unattempted (Fear/Unknown)"
)

// AllMistakeTypes lists every mistake type
var AllMistakeTypes = []MistakeType{MistakeConcept, MistakeSilly, MistakeTime, MistakeGuess, MistakeSkipped}

// ParseMistakeType accepts a mistake type name or any unambiguous
// case-insensitive prefix of it, such as "silly"
func ParseMistakeType(s string) (MistakeType, error) {
	in := strings.ToLower(strings.TrimSpace(s))
	if in == "" {
		return "", fmt.Errorf("empty mistake type")
	}
	for _, t := range AllMistakeTypes {
		if strings.HasPrefix(strings.ToLower(string(t)), in) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown mistake type %q", s)
}

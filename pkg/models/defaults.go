package models

import (
	"time"

	"github.com/example/gateforge/internal/calendar"
)

// DefaultExamDate is used until onboarding sets the real exam date
const DefaultExamDate = "2027-02-06T09:00:00"

// DefaultTargetYear is assumed for profiles saved without target years
const DefaultTargetYear = 2027

// DefaultProfile returns the profile used before onboarding
func DefaultProfile() UserProfile {
	return UserProfile{
		Name:            "Candidate",
		ExamDate:        DefaultExamDate,
		TargetYears:     []int{DefaultTargetYear},
		IsSetupComplete: false,
	}
}

// DefaultScheduleTemplate returns the study plan created during onboarding
func DefaultScheduleTemplate() []Phase {
	phase := func(id, name, start, end string) Phase {
		return Phase{ID: id, Name: name, Start: calendar.MustParse(start), End: calendar.MustParse(end)}
	}
	return []Phase{
		phase("Phase1", "C Programming + Data Structures", "2025-12-15", "2026-01-15"),
		phase("Phase2", "Discrete Structures", "2026-01-15", "2026-02-15"),
		phase("Phase3", "Algorithms", "2026-02-15", "2026-03-15"),
		phase("Phase4", "General Aptitude", "2026-03-15", "2026-04-15"),
		phase("Phase5", "Engineering Mathematics", "2026-05-05", "2026-07-05"),
		phase("Phase6", "DBMS", "2026-07-05", "2026-08-05"),
		phase("Phase7a", "Operating Systems", "2026-08-05", "2026-08-25"),
		phase("Phase7b", "Computer Networks", "2026-08-25", "2026-09-15"),
		phase("Phase7c", "Digital Logic", "2026-09-15", "2026-10-05"),
		phase("Phase7d", "Computer Organization", "2026-10-05", "2026-10-31"),
		phase("Phase8", "Revision + Deep PYQs + Mocks", "2026-11-01", "2027-01-31"),
	}
}

// InitialFlashcards seeds an empty deck, due on today
func InitialFlashcards(today calendar.Date) []Flashcard {
	return []Flashcard{
		{
			ID:             "f1",
			Front:          "Number of edges in a complete graph K_n?",
			Back:           "n(n-1) / 2",
			Subject:        SubjectDM,
			Box:            1,
			NextReviewDate: today,
		},
	}
}

// DefaultKnowledgeBase seeds the knowledge base when nothing is stored
func DefaultKnowledgeBase() []KnowledgeItem {
	return []KnowledgeItem{
		{
			ID:       "k1",
			Category: string(SubjectALGO),
			Keywords: []string{"quick", "sort", "complexity", "worst", "case", "average"},
			Answer:   "Quick Sort: Divide & Conquer.\nTime: O(n log n) avg, O(n^2) worst (when sorted).\nSpace: O(log n) stack.\nNot Stable, In-place.",
		},
		{
			ID:       "k2",
			Category: string(SubjectALGO),
			Keywords: []string{"merge", "sort", "complexity"},
			Answer:   "Merge Sort: Divide & Conquer.\nTime: O(n log n) always.\nSpace: O(n) auxiliary.\nStable, Not In-place.",
		},
		{
			ID:       "k6",
			Category: string(SubjectDS),
			Keywords: []string{"bst", "binary", "search", "tree", "complexity"},
			Answer:   "BST: Left < Root < Right.\nSearch/Insert/Delete: O(h).\nWorst case h=n (skewed), Avg case h=log n.\nInorder traversal gives sorted sequence.",
		},
		{
			ID:       "os_sync",
			Category: string(SubjectOS),
			Keywords: []string{"synchronization", "semaphore", "mutex", "deadlock"},
			Answer:   "Critical Section: Mutual Exclusion, Progress, Bounded Waiting.\nSemaphore: Integer variable (Wait/Signal).\nDeadlock Conditions: Mutex, Hold & Wait, No Preemption, Circular Wait.",
		},
		{
			ID:       "dbms_norm",
			Category: string(SubjectDBMS),
			Keywords: []string{"normalization", "nf", "dependency", "bcnf", "3nf"},
			Answer:   "1NF: Atomic values.\n2NF: No partial dependency.\n3NF: No transitive dependency.\nBCNF: For X->Y, X must be superkey.",
		},
	}
}

// DefaultDrillStats is the empty calculator drill record
func DefaultDrillStats() DrillStats {
	return DrillStats{BestTimeSec: 9999}
}

// DefaultCheatSheet is the placeholder formula sheet
func DefaultCheatSheet(now time.Time) CheatSheet {
	return CheatSheet{
		Content:      "# My GATE Cheat Sheet\n\n- Add formulas here...",
		LastModified: now.UTC().Format(time.RFC3339),
	}
}

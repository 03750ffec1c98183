package dependency

import (
	"github.com/example/gateforge/pkg/models"
)

// State of a subject in the prerequisite graph
type State string

const (
	StateCompleted State = "completed"
	StateReady     State = "ready"
	StateLocked    State = "locked"
)

// Node is a subject with its prerequisites. Parents gate readiness,
// WeakParents are advisory and only shown as links.
type Node struct {
	ID          models.Subject
	Parents     []models.Subject
	WeakParents []models.Subject
}

// DefaultGraph returns the fixed GATE CS prerequisite graph
func DefaultGraph() []Node {
	return []Node{
		{ID: models.SubjectEM},
		{ID: models.SubjectDM},
		{ID: models.SubjectDS},
		{ID: models.SubjectDLD},

		{ID: models.SubjectTOC, Parents: []models.Subject{models.SubjectDM}},
		{ID: models.SubjectALGO, Parents: []models.Subject{models.SubjectDM, models.SubjectDS}},
		{ID: models.SubjectCOA, Parents: []models.Subject{models.SubjectDLD}},
		{ID: models.SubjectDBMS, WeakParents: []models.Subject{models.SubjectDS}},

		{ID: models.SubjectCD, Parents: []models.Subject{models.SubjectTOC, models.SubjectDS}},
		{ID: models.SubjectOS, Parents: []models.Subject{models.SubjectDS, models.SubjectCOA}},

		{ID: models.SubjectCN, Parents: []models.Subject{models.SubjectOS}, WeakParents: []models.Subject{models.SubjectEM}},
	}
}

// Blocked is a subject that cannot be started yet
type Blocked struct {
	Subject        models.Subject
	MissingParents []models.Subject
}

// Analysis splits the graph into completed, ready and locked subjects,
// each list in graph order
type Analysis struct {
	Completed []models.Subject
	Ready     []models.Subject
	Locked    []Blocked
}

// Analyze classifies every node against the completion status, which is
// keyed by subject name
func Analyze(graph []Node, status models.CompletionStatus) Analysis {
	var a Analysis
	for _, node := range graph {
		if status.IsCompleted(string(node.ID)) {
			a.Completed = append(a.Completed, node.ID)
			continue
		}

		var missing []models.Subject
		for _, p := range node.Parents {
			if !status.IsCompleted(string(p)) {
				missing = append(missing, p)
			}
		}

		if len(missing) == 0 {
			a.Ready = append(a.Ready, node.ID)
		} else {
			a.Locked = append(a.Locked, Blocked{Subject: node.ID, MissingParents: missing})
		}
	}
	return a
}

// State returns the classification of subject, or "" if it is not in the graph
func (a Analysis) State(subject models.Subject) State {
	for _, s := range a.Completed {
		if s == subject {
			return StateCompleted
		}
	}
	for _, s := range a.Ready {
		if s == subject {
			return StateReady
		}
	}
	for _, b := range a.Locked {
		if b.Subject == subject {
			return StateLocked
		}
	}
	return ""
}

// Links are the subjects connected to one node
type Links struct {
	Parents     []models.Subject
	WeakParents []models.Subject
	Children    []models.Subject
}

// Neighbours returns the parents, weak parents and children of subject
func Neighbours(graph []Node, subject models.Subject) Links {
	var l Links
	for _, node := range graph {
		if node.ID == subject {
			l.Parents = append(l.Parents, node.Parents...)
			l.WeakParents = append(l.WeakParents, node.WeakParents...)
			continue
		}
		if contains(node.Parents, subject) || contains(node.WeakParents, subject) {
			l.Children = append(l.Children, node.ID)
		}
	}
	return l
}

func contains(list []models.Subject, s models.Subject) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

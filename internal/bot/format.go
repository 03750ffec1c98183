package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/example/gateforge/internal/calendar"
	"github.com/example/gateforge/internal/dependency"
	"github.com/example/gateforge/internal/planner"
	"github.com/example/gateforge/internal/spaced_repetition"
	"github.com/example/gateforge/pkg/models"
)

// Callback data
const (
	callbackStatus            = "status"
	callbackSchedule          = "schedule"
	callbackReview            = "review"
	callbackDeps              = "deps"
	callbackRescheduleConfirm = "reschedule:confirm"
	callbackRescheduleCancel  = "reschedule:cancel"

	prefixShow  = "show:"
	prefixGrade = "grade:"
)

// knowledgeGeneral is the knowledge base category outside the subjects
const knowledgeGeneral = "General"

// statusView is everything /status shows
type statusView struct {
	Name       string
	Resolution planner.Resolution
	Pending    bool
	Exam       *planner.Countdown
	Due        int
	Mocks      models.MockSummary
}

func formatStatus(v statusView) string {
	var sb strings.Builder
	if v.Name != "" {
		sb.WriteString(fmt.Sprintf("👋 %s\n\n", v.Name))
	}
	if v.Exam != nil {
		sb.WriteString(fmt.Sprintf("🎯 Exam in %s\n\n", v.Exam))
	}
	sb.WriteString(formatResolution(v.Resolution, v.Pending))
	sb.WriteString(fmt.Sprintf("\n\n🧠 Cards due today: %d", v.Due))
	sb.WriteString("\n\n" + formatMockSummary(v.Mocks))
	return sb.String()
}

// formatResolution describes the current plan situation
func formatResolution(res planner.Resolution, pending bool) string {
	switch {
	case res.Active != nil:
		return fmt.Sprintf("📘 Active phase: %s (%s)\n%s → %s\nEnds in %s",
			res.Active.Name, res.Active.ID, res.Active.Start, res.Active.End, res.Remaining)
	case res.IsGap && res.GapTarget != nil:
		return fmt.Sprintf("⏸ Break before %s (%s)\nStarts in %s",
			res.GapTarget.Name, res.GapTarget.ID, res.Remaining)
	case pending:
		return "🗓 Schedule pending: some phases have no dates yet. Use /reschedule."
	}
	return "🏁 All phases are behind you. Time for revision."
}

func formatReminder(due int) string {
	if due == 1 {
		return "🧠 1 card is due for review today."
	}
	return fmt.Sprintf("🧠 %d cards are due for review today.", due)
}

func progressMarks(p models.PhaseProgress) string {
	mark := func(done bool, label string) string {
		if done {
			return "✅" + label
		}
		return "▫️" + label
	}
	return strings.Join([]string{
		mark(p.Completed, "done"),
		mark(p.Rev1, "R1"),
		mark(p.Rev2, "R2"),
		mark(p.Rev3, "R3"),
	}, " ")
}

func formatPhaseLine(p models.Phase) string {
	if !p.IsDated() {
		return fmt.Sprintf("%s · %s\n   dates TBD", p.ID, p.Name)
	}
	return fmt.Sprintf("%s · %s\n   %s → %s (%d days)", p.ID, p.Name, p.Start, p.End, p.Days())
}

func formatSchedule(phases []models.Phase, status models.CompletionStatus, today calendar.Date) string {
	if len(phases) == 0 {
		return "🗓 The schedule is empty."
	}

	var sb strings.Builder
	sb.WriteString("🗓 Schedule\n")
	for _, p := range phases {
		pointer := ""
		if p.IsDated() && !today.Before(p.Start) && !today.After(p.End) {
			pointer = " 👈"
		}
		sb.WriteString("\n" + formatPhaseLine(p) + pointer + "\n")
		sb.WriteString("   " + progressMarks(status[p.ID]) + "\n")
	}
	sb.WriteString("\nToggle a checkbox with /toggle <phase> <completed|rev1|rev2|rev3>")
	return sb.String()
}

func subjectList(subjects []models.Subject) string {
	names := make([]string, len(subjects))
	for i, s := range subjects {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

func formatAnalysis(a dependency.Analysis) string {
	var sb strings.Builder
	sb.WriteString("🕸 Subject dependencies\n")

	sb.WriteString("\n✅ Completed\n")
	if len(a.Completed) == 0 {
		sb.WriteString("   none yet\n")
	}
	for _, s := range a.Completed {
		sb.WriteString("   " + string(s) + "\n")
	}

	sb.WriteString("\n🟢 Ready to start\n")
	if len(a.Ready) == 0 {
		sb.WriteString("   none\n")
	}
	for _, s := range a.Ready {
		sb.WriteString("   " + string(s) + "\n")
	}

	sb.WriteString("\n🔒 Locked\n")
	if len(a.Locked) == 0 {
		sb.WriteString("   none\n")
	}
	for _, b := range a.Locked {
		sb.WriteString(fmt.Sprintf("   %s (needs %s)\n", b.Subject, subjectList(b.MissingParents)))
	}

	sb.WriteString("\nMark a subject done with /toggle \"<subject>\" completed")
	return strings.TrimRight(sb.String(), "\n")
}

func formatProposal(before, after []models.Phase, status models.CompletionStatus, bufferDays int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🔁 Proposed schedule (%d revision days kept before the exam)\n", bufferDays))
	for i, p := range after {
		if status.IsCompleted(p.ID) {
			sb.WriteString(fmt.Sprintf("\n✅ %s · %s (completed, unchanged)\n", p.ID, p.Name))
			continue
		}
		changed := i >= len(before) || !before[i].Start.Equal(p.Start) || !before[i].End.Equal(p.End)
		marker := "•"
		if changed {
			marker = "✏️"
		}
		sb.WriteString(fmt.Sprintf("\n%s %s\n", marker, formatPhaseLine(p)))
	}
	sb.WriteString("\nApply it?")
	return sb.String()
}

func formatCardFront(card models.Flashcard, position, total int) string {
	return fmt.Sprintf("🧠 Card %d/%d · %s · box %d\n\n%s", position, total, card.Subject, card.Box, card.Front)
}

func formatCardBack(card models.Flashcard, position, total int) string {
	return formatCardFront(card, position, total) + "\n\n💡 " + card.Back + "\n\nHow well did you recall it?"
}

func formatGraded(card models.Flashcard, grade spaced_repetition.Grade) string {
	return fmt.Sprintf("%s\n\n💡 %s\n\nGraded %s: box %d, next review %s", card.Front, card.Back, grade, card.Box, card.NextReviewDate)
}

func gradeButtons(cardID string) [][]MenuButton {
	labels := map[spaced_repetition.Grade]string{
		spaced_repetition.GradeForgot: "😵 Forgot",
		spaced_repetition.GradeHard:   "😓 Hard",
		spaced_repetition.GradeGood:   "🙂 Good",
		spaced_repetition.GradeEasy:   "😎 Easy",
	}
	row := make([]MenuButton, 0, len(spaced_repetition.Grades))
	for _, g := range spaced_repetition.Grades {
		row = append(row, MenuButton{Text: labels[g], CallbackData: prefixGrade + cardID + ":" + string(g)})
	}
	return [][]MenuButton{row}
}

// parseGradeCallback splits "grade:<card id>:<grade>"
func parseGradeCallback(data string) (string, spaced_repetition.Grade, error) {
	rest := strings.TrimPrefix(data, prefixGrade)
	idx := strings.LastIndex(rest, ":")
	if idx <= 0 {
		return "", "", fmt.Errorf("malformed grade callback %q", data)
	}
	grade, err := spaced_repetition.ParseGrade(rest[idx+1:])
	if err != nil {
		return "", "", err
	}
	return rest[:idx], grade, nil
}

// parseAddCard reads "front | back | subject"
func parseAddCard(args string) (front, back string, subject models.Subject, err error) {
	parts := strings.Split(args, "|")
	if len(parts) != 3 {
		return "", "", "", fmt.Errorf("usage: /addcard question | answer | subject")
	}
	front = strings.TrimSpace(parts[0])
	back = strings.TrimSpace(parts[1])
	if front == "" || back == "" {
		return "", "", "", fmt.Errorf("question and answer cannot be empty")
	}
	subject, err = models.ParseSubject(strings.TrimSpace(parts[2]))
	if err != nil {
		return "", "", "", err
	}
	return front, back, subject, nil
}

// parseToggle reads "<id> <field>"; the id may be quoted to allow subject
// names with spaces
func parseToggle(args string) (string, models.ProgressField, error) {
	args = strings.TrimSpace(args)
	idx := strings.LastIndex(args, " ")
	if idx <= 0 {
		return "", "", fmt.Errorf("usage: /toggle <phase or subject> <completed|rev1|rev2|rev3>")
	}
	field, err := models.ParseProgressField(strings.TrimSpace(args[idx+1:]))
	if err != nil {
		return "", "", err
	}
	id := strings.Trim(strings.TrimSpace(args[:idx]), "\"")
	if id == "" {
		return "", "", fmt.Errorf("missing phase or subject")
	}
	return id, field, nil
}

// splitArgs splits "a | b | c" and trims every part
func splitArgs(args string) []string {
	parts := strings.Split(args, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// parseMock reads "provider | score | total marks | correct | wrong | minutes"
func parseMock(args string) (models.MockTest, error) {
	usage := fmt.Errorf("usage: /mock provider | score | total marks | correct | wrong | minutes")
	parts := splitArgs(args)
	if len(parts) != 6 || parts[0] == "" {
		return models.MockTest{}, usage
	}

	score, err1 := strconv.ParseFloat(parts[1], 64)
	total, err2 := strconv.ParseFloat(parts[2], 64)
	correct, err3 := strconv.Atoi(parts[3])
	wrong, err4 := strconv.Atoi(parts[4])
	minutes, err5 := strconv.Atoi(parts[5])
	for _, err := range []error{err1, err2, err3, err4, err5} {
		if err != nil {
			return models.MockTest{}, usage
		}
	}
	if total <= 0 || score > total || correct < 0 || wrong < 0 || minutes < 0 {
		return models.MockTest{}, fmt.Errorf("score must be within the total marks and counts cannot be negative")
	}

	return models.MockTest{
		Provider:         parts[0],
		Score:            score,
		TotalMarks:       total,
		TotalAttempts:    correct + wrong,
		CorrectAttempts:  correct,
		WrongAttempts:    wrong,
		TimeSpentMinutes: minutes,
	}, nil
}

// parseMistake reads "subject | topic | mistake type | notes", notes optional
func parseMistake(args string) (models.ErrorLogEntry, error) {
	parts := splitArgs(args)
	if len(parts) < 3 || len(parts) > 4 {
		return models.ErrorLogEntry{}, fmt.Errorf("usage: /mistake subject | topic | mistake type | notes")
	}
	subject, err := models.ParseSubject(parts[0])
	if err != nil {
		return models.ErrorLogEntry{}, err
	}
	if parts[1] == "" {
		return models.ErrorLogEntry{}, fmt.Errorf("topic cannot be empty")
	}
	kind, err := models.ParseMistakeType(parts[2])
	if err != nil {
		return models.ErrorLogEntry{}, err
	}

	entry := models.ErrorLogEntry{Subject: subject, Topic: parts[1], MistakeType: kind}
	if len(parts) == 4 {
		entry.Notes = parts[3]
	}
	return entry, nil
}

// parseDaily reads "subject=hours, ... | questions | correct | focus 1-5"
func parseDaily(args string) (models.DailyLog, error) {
	usage := fmt.Errorf("usage: /daily subject=hours, ... | questions | correct | focus 1-5")
	parts := splitArgs(args)
	if len(parts) != 4 || parts[0] == "" {
		return models.DailyLog{}, usage
	}

	hours := map[models.Subject]float64{}
	for _, pair := range strings.Split(parts[0], ",") {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return models.DailyLog{}, usage
		}
		subject, err := models.ParseSubject(strings.TrimSpace(name))
		if err != nil {
			return models.DailyLog{}, err
		}
		h, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || h < 0 || h > 24 {
			return models.DailyLog{}, fmt.Errorf("invalid hours %q for %s", strings.TrimSpace(value), subject)
		}
		hours[subject] += h
	}

	questions, err1 := strconv.Atoi(parts[1])
	correct, err2 := strconv.Atoi(parts[2])
	focus, err3 := strconv.Atoi(parts[3])
	if err1 != nil || err2 != nil || err3 != nil {
		return models.DailyLog{}, usage
	}
	if questions < 0 || correct < 0 || correct > questions {
		return models.DailyLog{}, fmt.Errorf("correct answers must be between 0 and %d", questions)
	}
	if focus < 1 || focus > 5 {
		return models.DailyLog{}, fmt.Errorf("focus must be between 1 and 5")
	}

	return models.DailyLog{
		StudyHours:        hours,
		TopicsCovered:     []string{},
		PracticeQuestions: questions,
		PracticeCorrect:   correct,
		FocusLevel:        focus,
	}, nil
}

// parseNote reads "keyword, keyword | answer | category"
func parseNote(args string) (models.KnowledgeItem, error) {
	parts := splitArgs(args)
	if len(parts) != 3 {
		return models.KnowledgeItem{}, fmt.Errorf("usage: /note keyword, keyword | answer | subject or General")
	}

	var keywords []string
	for _, k := range strings.Split(parts[0], ",") {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			keywords = append(keywords, k)
		}
	}
	if len(keywords) == 0 || parts[1] == "" {
		return models.KnowledgeItem{}, fmt.Errorf("keywords and answer cannot be empty")
	}

	category := parts[2]
	if category != knowledgeGeneral {
		if _, err := models.ParseSubject(category); err != nil {
			return models.KnowledgeItem{}, err
		}
	}
	return models.KnowledgeItem{Keywords: keywords, Answer: parts[1], Category: category}, nil
}

// parseDrill reads "<seconds> <ok|miss>"
func parseDrill(args string) (float64, bool, error) {
	usage := fmt.Errorf("usage: /drill <seconds> <ok|miss>")
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return 0, false, usage
	}
	seconds, err := strconv.ParseFloat(fields[0], 64)
	if err != nil || seconds <= 0 {
		return 0, false, usage
	}
	switch strings.ToLower(fields[1]) {
	case "ok":
		return seconds, true, nil
	case "miss":
		return seconds, false, nil
	}
	return 0, false, usage
}

func formatMockSummary(sum models.MockSummary) string {
	if sum.Count == 0 {
		return "📝 No mocks logged yet. Use /mock."
	}
	return fmt.Sprintf("📝 Mocks: %d, average accuracy %.1f%%\nLatest: %s %.2f/%.0f on %s",
		sum.Count, sum.AvgAccuracy, sum.Latest.Provider, sum.Latest.Score, sum.Latest.TotalMarks, sum.Latest.Date)
}

func formatDrillStats(s models.DrillStats) string {
	best := "-"
	if s.Correct > 0 {
		best = fmt.Sprintf("%.2fs", s.BestTimeSec)
	}
	return fmt.Sprintf("🧮 Drill: %d/%d correct, average %.2fs, best %s",
		s.Correct, s.TotalAttempts, s.AvgTimeSec, best)
}

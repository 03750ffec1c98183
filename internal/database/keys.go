package database

// Storage keys, one JSON document per key
const (
	KeyUserProfile = "gate_forge_user_profile"
	KeyMocks       = "gate_forge_mocks"
	KeyErrors      = "gate_forge_errors"
	KeyDaily       = "gate_forge_daily"
	KeyInfoImages  = "gate_forge_info_images"
	KeySyllabus    = "gate_forge_syllabus_status"
	KeySchedule    = "gate_forge_schedule_v2"
	KeyKnowledge   = "gate_forge_knowledge_base"
	KeyCalcStats   = "gate_forge_calc_stats"
	KeyCheatSheet  = "gate_forge_cheat_sheet"
	KeyFlashcards  = "gate_forge_flashcards"

	// KeyBackup holds the last automatic snapshot of everything above
	KeyBackup = "gate_forge_backup"
)

// DataKeys lists every key cleared by ClearAll
var DataKeys = []string{
	KeyUserProfile, KeyMocks, KeyErrors, KeyDaily, KeyInfoImages, KeySyllabus,
	KeySchedule, KeyKnowledge, KeyCalcStats, KeyCheatSheet, KeyFlashcards,
}

package database

import (
	"context"

	"github.com/example/gateforge/pkg/models"
)

// KnowledgeRepository handles the knowledge base and the small tool states
// (calculator drill stats and the cheat sheet)
type KnowledgeRepository struct {
	store *Store
}

// NewKnowledgeRepository creates a new repository instance
func NewKnowledgeRepository(store *Store) *KnowledgeRepository {
	return &KnowledgeRepository{store: store}
}

// Items returns the knowledge base, seeded when empty
func (r *KnowledgeRepository) Items(ctx context.Context) ([]models.KnowledgeItem, error) {
	var items []models.KnowledgeItem
	if _, err := r.store.Get(ctx, KeyKnowledge, &items); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return models.DefaultKnowledgeBase(), nil
	}
	return items, nil
}

// SaveItem inserts the item or replaces the one with the same id
func (r *KnowledgeRepository) SaveItem(ctx context.Context, item models.KnowledgeItem) error {
	items, err := r.Items(ctx)
	if err != nil {
		return err
	}

	replaced := false
	for i := range items {
		if items[i].ID == item.ID {
			items[i] = item
			replaced = true
			break
		}
	}
	if !replaced {
		items = append(items, item)
	}
	return r.store.Save(ctx, KeyKnowledge, items)
}

// CalcStats returns the calculator drill statistics
func (r *KnowledgeRepository) CalcStats(ctx context.Context) (models.DrillStats, error) {
	stats := models.DefaultDrillStats()
	if _, err := r.store.Get(ctx, KeyCalcStats, &stats); err != nil {
		return models.DrillStats{}, err
	}
	return stats, nil
}

// SaveCalcStats stores the drill statistics. Like the cheat sheet this
// does not refresh the backup.
func (r *KnowledgeRepository) SaveCalcStats(ctx context.Context, stats models.DrillStats) error {
	return r.store.Put(ctx, KeyCalcStats, stats)
}

// CheatSheet returns the formula sheet
func (r *KnowledgeRepository) CheatSheet(ctx context.Context) (models.CheatSheet, error) {
	sheet := models.DefaultCheatSheet(r.store.Now())
	if _, err := r.store.Get(ctx, KeyCheatSheet, &sheet); err != nil {
		return models.CheatSheet{}, err
	}
	return sheet, nil
}

// SaveCheatSheet stores the formula sheet
func (r *KnowledgeRepository) SaveCheatSheet(ctx context.Context, sheet models.CheatSheet) error {
	return r.store.Put(ctx, KeyCheatSheet, sheet)
}

package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/gateforge/internal/spaced_repetition"
	"github.com/example/gateforge/pkg/models"
)

// ErrCardNotFound is returned when grading a card id that is not stored
var ErrCardNotFound = errors.New("flashcard not found")

// FlashcardRepository handles the flashcard deck
type FlashcardRepository struct {
	store   *Store
	leitner *spaced_repetition.Leitner
}

// NewFlashcardRepository creates a new repository instance
func NewFlashcardRepository(store *Store) *FlashcardRepository {
	return &FlashcardRepository{
		store:   store,
		leitner: spaced_repetition.NewLeitner(),
	}
}

// Load returns the deck, seeded with the starter card when nothing is stored
func (r *FlashcardRepository) Load(ctx context.Context) ([]models.Flashcard, error) {
	return loadFlashcards(ctx, r.store)
}

// Save stores the whole deck
func (r *FlashcardRepository) Save(ctx context.Context, cards []models.Flashcard) error {
	return r.store.Save(ctx, KeyFlashcards, cards)
}

// Add appends a card to the deck
func (r *FlashcardRepository) Add(ctx context.Context, card models.Flashcard) error {
	cards, err := r.Load(ctx)
	if err != nil {
		return err
	}
	return r.Save(ctx, append(cards, card))
}

// Due returns the cards due today in the store's location
func (r *FlashcardRepository) Due(ctx context.Context) ([]models.Flashcard, error) {
	cards, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	return spaced_repetition.DueCards(cards, r.store.Today()), nil
}

// Grade applies a review outcome to the card with id and stores the deck
func (r *FlashcardRepository) Grade(ctx context.Context, id string, grade spaced_repetition.Grade) (models.Flashcard, error) {
	cards, err := r.Load(ctx)
	if err != nil {
		return models.Flashcard{}, err
	}

	for i := range cards {
		if cards[i].ID != id {
			continue
		}
		cards[i] = r.leitner.Process(cards[i], grade, r.store.Now())
		if err := r.Save(ctx, cards); err != nil {
			return models.Flashcard{}, err
		}
		return cards[i], nil
	}

	return models.Flashcard{}, fmt.Errorf("%w: %s", ErrCardNotFound, id)
}

func loadFlashcards(ctx context.Context, s *Store) ([]models.Flashcard, error) {
	var cards []models.Flashcard
	ok, err := s.Get(ctx, KeyFlashcards, &cards)
	if err != nil {
		return nil, err
	}
	if !ok {
		return models.InitialFlashcards(s.Today()), nil
	}
	if cards == nil {
		cards = []models.Flashcard{}
	}
	return cards, nil
}

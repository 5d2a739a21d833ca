package savegame

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-2048/internal/storage"
)

const (
	slotPrefix   = "save/"
	slotSuffix   = ".json"
	highScoreKey = "highscore"
)

var (
	// ErrSlotNotFound is returned when loading a slot that does not exist.
	ErrSlotNotFound = errors.New("savegame: save not found")
	// ErrEmptyName is returned for a blank slot name.
	ErrEmptyName = errors.New("savegame: save name is empty")
)

// SlotName normalizes a user-supplied save name: trims it and appends
// ".json" unless already present.
func SlotName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == slotSuffix {
		return "", ErrEmptyName
	}
	if strings.ContainsAny(name, "/\\") {
		return "", fmt.Errorf("savegame: save name %q must not contain path separators", name)
	}
	if !strings.HasSuffix(strings.ToLower(name), slotSuffix) {
		name += slotSuffix
	}
	return name, nil
}

// Slots manages named saved games.
type Slots struct {
	kv storage.KV
}

// NewSlots creates a slot manager backed by kv.
func NewSlots(kv storage.KV) *Slots {
	return &Slots{kv: kv}
}

// Save writes the record under the normalized name and returns that name.
func (s *Slots) Save(name string, r Record) (string, error) {
	slot, err := SlotName(name)
	if err != nil {
		return "", err
	}
	data, err := Encode(r)
	if err != nil {
		return "", err
	}
	if err := s.kv.Put(slotPrefix+slot, data); err != nil {
		return "", fmt.Errorf("savegame: cannot save %s: %w", slot, err)
	}
	return slot, nil
}

// Load reads and decodes a saved record. The record is not validated
// against a board size; callers do that when restoring.
func (s *Slots) Load(name string) (Record, error) {
	slot, err := SlotName(name)
	if err != nil {
		return Record{}, err
	}
	data, err := s.kv.Get(slotPrefix + slot)
	if errors.Is(err, storage.ErrNotFound) {
		return Record{}, fmt.Errorf("%w: %s", ErrSlotNotFound, slot)
	}
	if err != nil {
		return Record{}, fmt.Errorf("savegame: cannot load %s: %w", slot, err)
	}
	return Decode(data)
}

// List returns the names of all saved games, sorted.
func (s *Slots) List() ([]string, error) {
	keys, err := s.kv.Keys(slotPrefix)
	if err != nil {
		return nil, fmt.Errorf("savegame: cannot list saves: %w", err)
	}
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, strings.TrimPrefix(k, slotPrefix))
	}
	return names, nil
}

// Delete removes a saved game.
func (s *Slots) Delete(name string) error {
	slot, err := SlotName(name)
	if err != nil {
		return err
	}
	if err := s.kv.Delete(slotPrefix + slot); err != nil {
		return fmt.Errorf("savegame: cannot delete %s: %w", slot, err)
	}
	return nil
}

// HighScores persists the single best score.
type HighScores struct {
	kv storage.KV
}

// NewHighScores creates a high-score store backed by kv.
func NewHighScores(kv storage.KV) *HighScores {
	return &HighScores{kv: kv}
}

type highScoreDoc struct {
	HighScore int `json:"high_score"`
}

// Load returns the stored high score. A missing or corrupt value yields 0;
// the error is still returned so callers can log it. A missing value is not
// an error.
func (h *HighScores) Load() (int, error) {
	data, err := h.kv.Get(highScoreKey)
	if errors.Is(err, storage.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("savegame: cannot read high score: %w", err)
	}
	return decodeHighScore(data)
}

// Save stores the high score unconditionally.
func (h *HighScores) Save(score int) error {
	data, err := encodeHighScore(score)
	if err != nil {
		return err
	}
	if err := h.kv.Put(highScoreKey, data); err != nil {
		return fmt.Errorf("savegame: cannot write high score: %w", err)
	}
	return nil
}

// Raise stores score if it beats the stored high score, atomically with
// respect to other users of the same store. It returns the high score after
// the call and whether score became the new one. A corrupt stored value
// counts as 0.
func (h *HighScores) Raise(score int) (high int, raised bool, err error) {
	err = h.kv.Update(highScoreKey, func(old []byte) ([]byte, error) {
		high = 0
		if old != nil {
			high, _ = decodeHighScore(old)
		}
		if score <= high {
			return nil, nil
		}
		high, raised = score, true
		return encodeHighScore(score)
	})
	if err != nil {
		return high, false, fmt.Errorf("savegame: cannot write high score: %w", err)
	}
	return high, raised, nil
}

func decodeHighScore(data []byte) (int, error) {
	var doc highScoreDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return 0, fmt.Errorf("savegame: corrupt high score: %w", err)
	}
	if doc.HighScore < 0 {
		return 0, fmt.Errorf("savegame: corrupt high score: negative value %d", doc.HighScore)
	}
	return doc.HighScore, nil
}

func encodeHighScore(score int) ([]byte, error) {
	data, err := json.Marshal(highScoreDoc{HighScore: score})
	if err != nil {
		return nil, fmt.Errorf("savegame: cannot encode high score: %w", err)
	}
	return data, nil
}

package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/reviewlens/backend/internal/models"
	"github.com/reviewlens/backend/pkg/logger"
)

var ErrNotFound = errors.New("preference not found")

// PreferenceStore persists preferences as an ordered JSON list in a single
// file. Every operation is a read-modify-write under one mutex; the file is
// the only source of truth, so concurrent callers cannot lose updates.
type PreferenceStore struct {
	mu   sync.Mutex
	path string
}

// PreferenceUpdate is a partial update; nil fields are left untouched.
type PreferenceUpdate struct {
	Title      *string   `json:"title"`
	UserRating *int      `json:"user_rating"`
	MediaType  *string   `json:"media_type"`
	Themes     *[]string `json:"themes"`
}

func NewPreferenceStore(path string) (*PreferenceStore, error) {
	s := &PreferenceStore{path: path}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.save(seedPreferences()); err != nil {
			return nil, err
		}
		logger.Info("Initialized preference storage", zap.String("path", path))
	}

	return s, nil
}

func seedPreferences() []models.Preference {
	now := time.Now()
	return []models.Preference{
		{ID: 1, Title: "Star Trek TNG", UserRating: 9, MediaType: "TV", Themes: []string{"philosophy", "character_development"}, CreatedAt: now},
		{ID: 2, Title: "Fallout TV", UserRating: 9, MediaType: "TV", Themes: []string{"post_apocalyptic", "humor"}, CreatedAt: now},
		{ID: 3, Title: "Witcher 3", UserRating: 9, MediaType: "Game", Themes: []string{"open_world", "storytelling"}, CreatedAt: now},
	}
}

func (s *PreferenceStore) load() ([]models.Preference, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}

	var preferences []models.Preference
	if err := json.Unmarshal(data, &preferences); err != nil {
		return nil, fmt.Errorf("failed to parse preferences: %w", err)
	}
	return preferences, nil
}

func (s *PreferenceStore) save(preferences []models.Preference) error {
	data, err := json.MarshalIndent(preferences, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	return nil
}

func (s *PreferenceStore) GetAll() ([]models.Preference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *PreferenceStore) GetByID(id int) (*models.Preference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	preferences, err := s.load()
	if err != nil {
		return nil, err
	}
	for i := range preferences {
		if preferences[i].ID == id {
			return &preferences[i], nil
		}
	}
	return nil, ErrNotFound
}

// Create assigns max(existing ids)+1, or 1 on an empty store.
func (s *PreferenceStore) Create(pref models.Preference) (*models.Preference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	preferences, err := s.load()
	if err != nil {
		return nil, err
	}

	maxID := 0
	for _, p := range preferences {
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	pref.ID = maxID + 1
	pref.CreatedAt = time.Now()
	pref.UpdatedAt = time.Time{}

	preferences = append(preferences, pref)
	if err := s.save(preferences); err != nil {
		return nil, err
	}

	logger.Info("Preference created", zap.Int("id", pref.ID), zap.String("title", pref.Title))
	return &pref, nil
}

func (s *PreferenceStore) Update(id int, update PreferenceUpdate) (*models.Preference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	preferences, err := s.load()
	if err != nil {
		return nil, err
	}

	for i := range preferences {
		if preferences[i].ID != id {
			continue
		}
		if update.Title != nil {
			preferences[i].Title = *update.Title
		}
		if update.UserRating != nil {
			preferences[i].UserRating = *update.UserRating
		}
		if update.MediaType != nil {
			preferences[i].MediaType = *update.MediaType
		}
		if update.Themes != nil {
			preferences[i].Themes = *update.Themes
		}
		preferences[i].UpdatedAt = time.Now()

		if err := s.save(preferences); err != nil {
			return nil, err
		}
		logger.Info("Preference updated", zap.Int("id", id))
		return &preferences[i], nil
	}
	return nil, ErrNotFound
}

func (s *PreferenceStore) Delete(id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	preferences, err := s.load()
	if err != nil {
		return false, err
	}

	kept := preferences[:0]
	for _, p := range preferences {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(preferences) {
		return false, nil
	}

	if err := s.save(kept); err != nil {
		return false, err
	}
	logger.Info("Preference deleted", zap.Int("id", id))
	return true, nil
}

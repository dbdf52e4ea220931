package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/bracket-manager/models"
	"github.com/Dosada05/bracket-manager/repositories"
	"github.com/Dosada05/bracket-manager/storage"
	"golang.org/x/sync/errgroup"
)

type SaveResult struct {
	SavedAt  time.Time             `json:"savedAt"`
	Snapshot *storage.UploadResult `json:"snapshot,omitempty"`
}

// StateService moves the tournament state between the service and the
// configured repository.
type StateService struct {
	tournament *TournamentService
	repo       repositories.StateRepository
	// uploader, when set, receives a copy of every saved state.
	uploader storage.FileUploader
	logger   *slog.Logger
}

func NewStateService(tournament *TournamentService, repo repositories.StateRepository, uploader storage.FileUploader, logger *slog.Logger) *StateService {
	if logger == nil {
		logger = slog.Default()
	}
	return &StateService{tournament: tournament, repo: repo, uploader: uploader, logger: logger}
}

// Load restores the saved state. A missing save is not an error; the
// tournament simply starts empty.
func (s *StateService) Load(ctx context.Context) error {
	state, err := s.repo.Load(ctx)
	if err != nil {
		if errors.Is(err, repositories.ErrStateNotFound) {
			s.logger.InfoContext(ctx, "no saved state, starting empty")
			return nil
		}
		return err
	}
	return s.tournament.Restore(*state)
}

// Save persists the current state and, when an uploader is configured,
// uploads a snapshot of it at the same time.
func (s *StateService) Save(ctx context.Context) (*SaveResult, error) {
	state := s.tournament.Snapshot()
	result := &SaveResult{SavedAt: time.Now().UTC()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.repo.Save(gctx, &state)
	})
	if s.uploader != nil {
		g.Go(func() error {
			raw, err := json.Marshal(state)
			if err != nil {
				return fmt.Errorf("failed to encode snapshot: %w", err)
			}
			key := fmt.Sprintf("snapshots/state-%s.json", result.SavedAt.Format("20060102T150405Z"))
			uploaded, err := s.uploader.Upload(gctx, key, "application/json", bytes.NewReader(raw))
			if err != nil {
				return err
			}
			result.Snapshot = uploaded
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "state saved", slog.Int("players", len(state.Players)))
	return result, nil
}

// Import replaces the state with a raw state document.
func (s *StateService) Import(raw []byte) error {
	state, err := models.DecodeState(raw)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}
	return s.tournament.Restore(*state)
}

func (s *StateService) Export() models.State {
	return s.tournament.Snapshot()
}

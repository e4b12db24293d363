package usecase

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/selection"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/session"
)

// SelectionService manages side picks for a session up to the freeze point.
type SelectionService struct {
	sessionRepo   session.Repository
	selectionRepo selection.Repository
	now           func() time.Time
}

func NewSelectionService(sessionRepo session.Repository, selectionRepo selection.Repository) *SelectionService {
	return &SelectionService{
		sessionRepo:   sessionRepo,
		selectionRepo: selectionRepo,
		now:           time.Now,
	}
}

func (s *SelectionService) Get(ctx context.Context, sessionID string) (selection.Selection, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SelectionService.Get")
	defer span.End()

	if sessionID == "" {
		return selection.Selection{}, errors.Wrap(ErrInvalidInput, "session id is required")
	}
	sel, err := s.selectionRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return selection.Selection{}, errors.Wrapf(err, "get selection for session %s", sessionID)
	}
	return sel, nil
}

// SaveSide replaces one side's players and captain. The selection record is
// created lazily on the first save for a session.
func (s *SelectionService) SaveSide(ctx context.Context, sessionID string, side selection.Side, players []string, captain string) (selection.Selection, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SelectionService.SaveSide")
	defer span.End()

	if sessionID == "" {
		return selection.Selection{}, errors.Wrap(ErrInvalidInput, "session id is required")
	}
	if _, err := s.sessionRepo.GetByID(ctx, sessionID); err != nil {
		return selection.Selection{}, errors.Wrapf(ErrNotFound, "session %s", sessionID)
	}

	sel, err := s.selectionRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		sel = selection.Selection{SessionID: sessionID}
	}

	if err := sel.SetSide(side, players, captain); err != nil {
		return selection.Selection{}, errors.Wrapf(ErrInvalidInput, "set side for session %s: %v", sessionID, err)
	}
	sel.UpdatedAt = s.now().UTC()

	if err := s.selectionRepo.Save(ctx, sel); err != nil {
		return selection.Selection{}, errors.Wrapf(err, "save selection for session %s", sessionID)
	}
	return sel, nil
}

// Freeze locks the selection permanently. Both sides must be complete; after
// freezing, stat refresh and scoring become available for the session.
func (s *SelectionService) Freeze(ctx context.Context, sessionID string) (selection.Selection, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SelectionService.Freeze")
	defer span.End()

	if sessionID == "" {
		return selection.Selection{}, errors.Wrap(ErrInvalidInput, "session id is required")
	}
	sel, err := s.selectionRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return selection.Selection{}, errors.Wrapf(ErrNotFound, "selection for session %s", sessionID)
	}

	if err := sel.Freeze(s.now().UTC()); err != nil {
		if errors.Is(err, selection.ErrAlreadyFrozen) {
			return selection.Selection{}, errors.Wrapf(ErrPreconditionFailed, "freeze selection for session %s: %v", sessionID, err)
		}
		return selection.Selection{}, errors.Wrapf(ErrInvalidInput, "freeze selection for session %s: %v", sessionID, err)
	}

	if err := s.selectionRepo.Save(ctx, sel); err != nil {
		return selection.Selection{}, errors.Wrapf(err, "save frozen selection for session %s", sessionID)
	}
	return sel, nil
}

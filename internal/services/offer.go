package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	offerrepo "github.com/daftaros/daftar-backend/internal/data/repos/offer"
	pitchrepo "github.com/daftaros/daftar-backend/internal/data/repos/pitch"
	types "github.com/daftaros/daftar-backend/internal/domain"
	pkgerrors "github.com/daftaros/daftar-backend/internal/pkg/errors"
	"github.com/daftaros/daftar-backend/internal/platform/logger"
)

type OfferService interface {
	Create(ctx context.Context, pitchID, createdBy uuid.UUID, description string) (*types.Offer, error)
	GetByID(ctx context.Context, offerID uuid.UUID) (*types.Offer, error)
	ListByPitch(ctx context.Context, pitchID uuid.UUID) ([]*types.Offer, error)
	UpdateStatus(ctx context.Context, offerID uuid.UUID, action string, actorID uuid.UUID, reason string) (*types.Offer, error)
}

var offerEventByAction = map[string]string{
	types.OfferStatusAccepted:  "offer_accepted",
	types.OfferStatusRejected:  "offer_rejected",
	types.OfferStatusWithdrawn: "offer_withdrawn",
}

type offerService struct {
	log      *logger.Logger
	offers   offerrepo.OfferRepo
	pitches  pitchrepo.PitchRepo
	notifier NotificationService
}

func NewOfferService(log *logger.Logger, offers offerrepo.OfferRepo, pitches pitchrepo.PitchRepo, notifier NotificationService) OfferService {
	return &offerService{
		log:      log.With("service", "OfferService"),
		offers:   offers,
		pitches:  pitches,
		notifier: notifier,
	}
}

func (s *offerService) Create(ctx context.Context, pitchID, createdBy uuid.UUID, description string) (*types.Offer, error) {
	if pitchID == uuid.Nil || createdBy == uuid.Nil {
		return nil, fmt.Errorf("%w: pitch and creator ids required", pkgerrors.ErrInvalidArgument)
	}
	if _, err := s.pitches.GetByID(ctx, nil, pitchID); err != nil {
		return nil, err
	}

	row := &types.Offer{
		ID:          uuid.New(),
		PitchID:     pitchID,
		Description: description,
		Status:      types.OfferStatusPending,
		CreatedBy:   createdBy,
	}
	if err := s.offers.Create(ctx, nil, row); err != nil {
		return nil, err
	}

	s.notifier.Emit(ctx, "offer_received", EntityRefs{PitchID: pitchID}, map[string]any{
		"offer_id": row.ID.String(),
		"pitch_id": pitchID.String(),
	})
	return row, nil
}

func (s *offerService) GetByID(ctx context.Context, offerID uuid.UUID) (*types.Offer, error) {
	return s.offers.GetByID(ctx, nil, offerID)
}

func (s *offerService) ListByPitch(ctx context.Context, pitchID uuid.UUID) ([]*types.Offer, error) {
	return s.offers.ListByPitch(ctx, nil, pitchID)
}

// UpdateStatus drives the offer state machine: pending forks to accepted or
// rejected, withdrawn is reachable only from accepted, and everything else is
// rejected. The audit row and the status flip commit atomically.
func (s *offerService) UpdateStatus(ctx context.Context, offerID uuid.UUID, action string, actorID uuid.UUID, reason string) (*types.Offer, error) {
	if actorID == uuid.Nil {
		return nil, fmt.Errorf("%w: actor id required", pkgerrors.ErrInvalidArgument)
	}
	eventKey, ok := offerEventByAction[action]
	if !ok {
		return nil, fmt.Errorf("%w: unknown offer action %q", pkgerrors.ErrInvalidArgument, action)
	}

	current, err := s.offers.GetByID(ctx, nil, offerID)
	if err != nil {
		return nil, err
	}
	if !types.OfferTransitionAllowed(current.Status, action) {
		return nil, fmt.Errorf("%w: cannot %s an offer in status %q", pkgerrors.ErrInvalidArgument, action, current.Status)
	}

	won, err := s.offers.Transition(ctx, nil, offerID, current.Status, &types.OfferAction{
		ID:      uuid.New(),
		Action:  action,
		ActorID: actorID,
		Reason:  reason,
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.offers.GetByID(ctx, nil, offerID)
	if err != nil {
		return nil, err
	}
	if !won {
		// A concurrent caller moved the offer first. Landing on the same
		// status is a redundant transition and absorbed as success; anything
		// else is a real illegal transition.
		if updated.Status == action {
			return updated, nil
		}
		return nil, fmt.Errorf("%w: cannot %s an offer in status %q", pkgerrors.ErrInvalidArgument, action, updated.Status)
	}

	s.notifier.Emit(ctx, eventKey, EntityRefs{PitchID: updated.PitchID, OfferID: updated.ID}, map[string]any{
		"offer_id": updated.ID.String(),
		"pitch_id": updated.PitchID.String(),
		"action":   action,
		"actor_id": actorID.String(),
		"reason":   reason,
	})
	return updated, nil
}

package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	approvalrepo "github.com/daftaros/daftar-backend/internal/data/repos/approval"
	pitchrepo "github.com/daftaros/daftar-backend/internal/data/repos/pitch"
	scoutrepo "github.com/daftaros/daftar-backend/internal/data/repos/scout"
	types "github.com/daftaros/daftar-backend/internal/domain"
	pkgerrors "github.com/daftaros/daftar-backend/internal/pkg/errors"
	"github.com/daftaros/daftar-backend/internal/platform/logger"
)

// ApprovalService is the consent ledger for destructive or launch-gating
// transitions. The required-voter set is resolved fresh from the ownership
// graph on every vote, so a stakeholder added mid-vote joins the requirement
// and a removed one leaves it.
type ApprovalService interface {
	SubmitVote(ctx context.Context, actionType string, subjectID, voterID uuid.UUID, approve bool) (*types.VoteTally, error)
}

// actionSpec binds an approvable action to its voter rule, the terminal
// transition it unlocks, and the event announced when it resolves.
type actionSpec struct {
	rule          AudienceRule
	refs          func(subjectID uuid.UUID) EntityRefs
	transition    func(ctx context.Context, subjectID uuid.UUID) (bool, error)
	resolvedEvent string
}

type approvalService struct {
	log      *logger.Logger
	votes    approvalrepo.ApprovalVoteRepo
	audience AudienceResolver
	notifier NotificationService
	actions  map[string]actionSpec
}

func NewApprovalService(log *logger.Logger, votes approvalrepo.ApprovalVoteRepo, audience AudienceResolver, pitches pitchrepo.PitchRepo, scouts scoutrepo.ScoutRepo, notifier NotificationService) ApprovalService {
	s := &approvalService{
		log:      log.With("service", "ApprovalService"),
		votes:    votes,
		audience: audience,
		notifier: notifier,
	}
	s.actions = map[string]actionSpec{
		types.ApprovalActionPitchDelete: {
			rule: RulePitchTeam,
			refs: func(subjectID uuid.UUID) EntityRefs { return EntityRefs{PitchID: subjectID} },
			transition: func(ctx context.Context, subjectID uuid.UUID) (bool, error) {
				return pitches.TransitionStatus(ctx, nil, subjectID, types.PitchActiveStatuses(), types.PitchStatusDeleted)
			},
			resolvedEvent: "pitch_deleted",
		},
		types.ApprovalActionScoutApproval: {
			rule: RuleScoutInvestors,
			refs: func(subjectID uuid.UUID) EntityRefs { return EntityRefs{ScoutID: subjectID} },
			transition: func(ctx context.Context, subjectID uuid.UUID) (bool, error) {
				// Guarding on the pre-approval statuses keeps the resolution
				// one-shot: once the scout is approved or has moved past
				// approval, a late unanimous tally is a no-op and nothing is
				// re-announced.
				return scouts.TransitionStatus(ctx, nil, subjectID, types.ScoutApprovableStatuses(), types.ScoutStatusApproved)
			},
			resolvedEvent: "scout_approved",
		},
	}
	return s
}

func (s *approvalService) SubmitVote(ctx context.Context, actionType string, subjectID, voterID uuid.UUID, approve bool) (*types.VoteTally, error) {
	if subjectID == uuid.Nil || voterID == uuid.Nil {
		return nil, fmt.Errorf("%w: subject and voter ids required", pkgerrors.ErrInvalidArgument)
	}
	spec, ok := s.actions[actionType]
	if !ok {
		return nil, fmt.Errorf("%w: unknown action type %q", pkgerrors.ErrInvalidArgument, actionType)
	}

	refs := spec.refs(subjectID)
	required, err := s.audience.Resolve(ctx, spec.rule, refs)
	if err != nil {
		return nil, err
	}
	requiredSet := make(map[uuid.UUID]bool, len(required))
	for _, sh := range required {
		requiredSet[sh.UserID] = true
	}
	if !requiredSet[voterID] {
		return nil, fmt.Errorf("%w: voter is not a required stakeholder for %s", pkgerrors.ErrInvalidArgument, actionType)
	}

	if err := s.votes.Upsert(ctx, nil, &types.ApprovalVote{
		ID:         uuid.New(),
		ActionType: actionType,
		SubjectID:  subjectID,
		VoterID:    voterID,
		Approved:   approve,
	}); err != nil {
		return nil, err
	}

	// Unanimity is decided against a full re-read of the vote set, never an
	// incrementally maintained counter, so near-simultaneous votes cannot
	// lose each other's updates.
	votes, err := s.votes.ListForSubject(ctx, nil, actionType, subjectID)
	if err != nil {
		return nil, err
	}
	approvedBy := make(map[uuid.UUID]bool, len(votes))
	for _, v := range votes {
		if v.Approved {
			approvedBy[v.VoterID] = true
		}
	}

	tally := &types.VoteTally{TotalRequired: len(requiredSet), Resolved: len(requiredSet) > 0}
	for id := range requiredSet {
		if approvedBy[id] {
			tally.ApprovedCount++
		} else {
			tally.Resolved = false
		}
	}

	if tally.Resolved {
		// The conditional update makes concurrent resolvers converge: only
		// the caller that actually flips the status announces it. Losers see
		// resolved=true with no side effects, which is success, not a
		// conflict.
		won, err := spec.transition(ctx, subjectID)
		if err != nil {
			return nil, err
		}
		if won {
			s.log.Info("Approval resolved; terminal transition applied",
				"action_type", actionType, "subject_id", subjectID)
			s.notifier.Emit(ctx, spec.resolvedEvent, refs, map[string]any{
				"subject_id":  subjectID.String(),
				"action_type": actionType,
			})
		}
	}

	return tally, nil
}

package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	daftarrepo "github.com/daftaros/daftar-backend/internal/data/repos/daftar"
	pitchrepo "github.com/daftaros/daftar-backend/internal/data/repos/pitch"
	scoutrepo "github.com/daftaros/daftar-backend/internal/data/repos/scout"
	types "github.com/daftaros/daftar-backend/internal/domain"
	pkgerrors "github.com/daftaros/daftar-backend/internal/pkg/errors"
	"github.com/daftaros/daftar-backend/internal/platform/logger"
)

// AudienceRule names a declarative mapping from an entity to the stakeholders
// who must vote on it or be told about it.
type AudienceRule string

const (
	// RulePitchTeam is the founder team of a pitch.
	RulePitchTeam AudienceRule = "pitch_team"
	// RuleDaftarInvestors is the investor members of one daftar.
	RuleDaftarInvestors AudienceRule = "daftar_investors"
	// RuleScoutInvestors is the investor members of every daftar
	// collaborating on a scout, the owning daftar included.
	RuleScoutInvestors AudienceRule = "scout_investors"
	// RulePitchScoutInvestors is RuleScoutInvestors applied to the scout a
	// pitch was submitted into.
	RulePitchScoutInvestors AudienceRule = "pitch_scout_investors"
	// RulePitchTeamAndScoutInvestors is the pitch team unioned with the
	// investors of the pitch's scout.
	RulePitchTeamAndScoutInvestors AudienceRule = "pitch_team_and_scout_investors"
	// RuleScoutAudience is the scout's investors unioned with the team
	// members of every pitch attached to the scout.
	RuleScoutAudience AudienceRule = "scout_audience"
)

// EntityRefs carries the subject-entity identifiers an audience rule may need.
// A rule reads only the refs it documents; extra refs are ignored.
type EntityRefs struct {
	PitchID  uuid.UUID
	ScoutID  uuid.UUID
	DaftarID uuid.UUID
	OfferID  uuid.UUID
}

// AudienceResolver resolves a named rule against the current ownership graph.
// Pure read: two calls around a membership change return different sets.
type AudienceResolver interface {
	Resolve(ctx context.Context, rule AudienceRule, refs EntityRefs) ([]types.Stakeholder, error)
	Known(rule AudienceRule) bool
}

type ruleFunc func(ctx context.Context, refs EntityRefs) ([]types.Stakeholder, error)

type audienceService struct {
	log     *logger.Logger
	pitches pitchrepo.PitchRepo
	daftars daftarrepo.DaftarRepo
	scouts  scoutrepo.ScoutRepo
	rules   map[AudienceRule]ruleFunc
}

func NewAudienceService(log *logger.Logger, pitches pitchrepo.PitchRepo, daftars daftarrepo.DaftarRepo, scouts scoutrepo.ScoutRepo) AudienceResolver {
	s := &audienceService{
		log:     log.With("service", "AudienceService"),
		pitches: pitches,
		daftars: daftars,
		scouts:  scouts,
	}
	s.rules = map[AudienceRule]ruleFunc{
		RulePitchTeam:                  s.pitchTeam,
		RuleDaftarInvestors:            s.daftarInvestors,
		RuleScoutInvestors:             s.scoutInvestors,
		RulePitchScoutInvestors:        s.pitchScoutInvestors,
		RulePitchTeamAndScoutInvestors: s.pitchTeamAndScoutInvestors,
		RuleScoutAudience:              s.scoutAudience,
	}
	return s
}

func (s *audienceService) Known(rule AudienceRule) bool {
	_, ok := s.rules[rule]
	return ok
}

func (s *audienceService) Resolve(ctx context.Context, rule AudienceRule, refs EntityRefs) ([]types.Stakeholder, error) {
	fn, ok := s.rules[rule]
	if !ok {
		return nil, fmt.Errorf("%w: unknown audience rule %q", pkgerrors.ErrInvalidArgument, rule)
	}
	out, err := fn(ctx, refs)
	if err != nil {
		return nil, err
	}
	return dedupeStakeholders(out), nil
}

func (s *audienceService) pitchTeam(ctx context.Context, refs EntityRefs) ([]types.Stakeholder, error) {
	if _, err := s.pitches.GetByID(ctx, nil, refs.PitchID); err != nil {
		return nil, err
	}
	return s.pitches.TeamStakeholders(ctx, nil, refs.PitchID)
}

func (s *audienceService) daftarInvestors(ctx context.Context, refs EntityRefs) ([]types.Stakeholder, error) {
	if _, err := s.daftars.GetByID(ctx, nil, refs.DaftarID); err != nil {
		return nil, err
	}
	return s.daftars.InvestorStakeholders(ctx, nil, []uuid.UUID{refs.DaftarID})
}

func (s *audienceService) scoutInvestors(ctx context.Context, refs EntityRefs) ([]types.Stakeholder, error) {
	daftarIDs, err := s.scouts.CollaboratingDaftarIDs(ctx, nil, refs.ScoutID)
	if err != nil {
		return nil, err
	}
	return s.daftars.InvestorStakeholders(ctx, nil, daftarIDs)
}

func (s *audienceService) pitchScoutInvestors(ctx context.Context, refs EntityRefs) ([]types.Stakeholder, error) {
	pitch, err := s.pitches.GetByID(ctx, nil, refs.PitchID)
	if err != nil {
		return nil, err
	}
	if pitch.ScoutID == nil || *pitch.ScoutID == uuid.Nil {
		// Unlinked pitch: no scout, no investors.
		return nil, nil
	}
	return s.scoutInvestors(ctx, EntityRefs{ScoutID: *pitch.ScoutID})
}

func (s *audienceService) pitchTeamAndScoutInvestors(ctx context.Context, refs EntityRefs) ([]types.Stakeholder, error) {
	team, err := s.pitchTeam(ctx, refs)
	if err != nil {
		return nil, err
	}
	investors, err := s.pitchScoutInvestors(ctx, refs)
	if err != nil {
		return nil, err
	}
	return append(team, investors...), nil
}

func (s *audienceService) scoutAudience(ctx context.Context, refs EntityRefs) ([]types.Stakeholder, error) {
	investors, err := s.scoutInvestors(ctx, refs)
	if err != nil {
		return nil, err
	}
	teams, err := s.pitches.TeamStakeholdersForScout(ctx, nil, refs.ScoutID)
	if err != nil {
		return nil, err
	}
	return append(investors, teams...), nil
}

// dedupeStakeholders collapses identities reached through multiple relational
// paths, keeping the first relation seen, and drops unset identities.
func dedupeStakeholders(in []types.Stakeholder) []types.Stakeholder {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[uuid.UUID]bool, len(in))
	out := make([]types.Stakeholder, 0, len(in))
	for _, sh := range in {
		if sh.UserID == uuid.Nil || seen[sh.UserID] {
			continue
		}
		seen[sh.UserID] = true
		out = append(out, sh)
	}
	return out
}

package services

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/daftaros/daftar-backend/internal/domain"
	pkgerrors "github.com/daftaros/daftar-backend/internal/pkg/errors"
	"github.com/daftaros/daftar-backend/internal/platform/logger"
	"github.com/daftaros/daftar-backend/internal/realtime"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

// fakeAudience serves canned stakeholder sets per rule.
type fakeAudience struct {
	mu      sync.Mutex
	sets    map[AudienceRule][]types.Stakeholder
	err     error
	unknown bool
}

func newFakeAudience() *fakeAudience {
	return &fakeAudience{sets: make(map[AudienceRule][]types.Stakeholder)}
}

func (f *fakeAudience) set(rule AudienceRule, stakeholders ...types.Stakeholder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets[rule] = stakeholders
}

func (f *fakeAudience) Resolve(ctx context.Context, rule AudienceRule, refs EntityRefs) ([]types.Stakeholder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.unknown {
		return nil, fmt.Errorf("%w: unknown audience rule %q", pkgerrors.ErrInvalidArgument, rule)
	}
	return f.sets[rule], nil
}

func (f *fakeAudience) Known(rule AudienceRule) bool { return !f.unknown }

type emitCall struct {
	eventKey string
	refs     EntityRefs
	payload  map[string]any
}

// fakeNotifier records Emit calls for services that fan out on success.
type fakeNotifier struct {
	mu    sync.Mutex
	emits []emitCall
}

func (f *fakeNotifier) Emit(ctx context.Context, eventKey string, refs EntityRefs, payload map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emits = append(f.emits, emitCall{eventKey: eventKey, refs: refs, payload: payload})
}

func (f *fakeNotifier) List(ctx context.Context, userID uuid.UUID, role string) ([]*types.Notification, error) {
	return nil, nil
}

func (f *fakeNotifier) MarkRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	return nil
}

func (f *fakeNotifier) ReadIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}

func (f *fakeNotifier) calls() []emitCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]emitCall, len(f.emits))
	copy(out, f.emits)
	return out
}

// fakeVoteRepo keys votes the way the unique index does.
type fakeVoteRepo struct {
	mu    sync.Mutex
	votes map[string]*types.ApprovalVote
}

func newFakeVoteRepo() *fakeVoteRepo {
	return &fakeVoteRepo{votes: make(map[string]*types.ApprovalVote)}
}

func voteKey(actionType string, subjectID, voterID uuid.UUID) string {
	return actionType + "|" + subjectID.String() + "|" + voterID.String()
}

func (f *fakeVoteRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.ApprovalVote) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *row
	f.votes[voteKey(row.ActionType, row.SubjectID, row.VoterID)] = &cp
	return nil
}

func (f *fakeVoteRepo) ListForSubject(ctx context.Context, tx *gorm.DB, actionType string, subjectID uuid.UUID) ([]*types.ApprovalVote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.ApprovalVote
	for _, v := range f.votes {
		if v.ActionType == actionType && v.SubjectID == subjectID {
			cp := *v
			out = append(out, &cp)
		}
	}
	return out, nil
}

// fakePitchRepo holds pitches in memory; TransitionStatus mirrors the
// conditional-update contract of the real repo.
type fakePitchRepo struct {
	mu           sync.Mutex
	pitches      map[uuid.UUID]*types.Pitch
	team         map[uuid.UUID][]types.Stakeholder
	transitioned []string
}

func newFakePitchRepo() *fakePitchRepo {
	return &fakePitchRepo{
		pitches: make(map[uuid.UUID]*types.Pitch),
		team:    make(map[uuid.UUID][]types.Stakeholder),
	}
}

func (f *fakePitchRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Pitch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *row
	f.pitches[row.ID] = &cp
	return nil
}

func (f *fakePitchRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Pitch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.pitches[id]
	if !ok {
		return nil, fmt.Errorf("%w: pitch %s", pkgerrors.ErrNotFound, id)
	}
	cp := *p
	return &cp, nil
}

func (f *fakePitchRepo) ListByScout(ctx context.Context, tx *gorm.DB, scoutID uuid.UUID) ([]*types.Pitch, error) {
	return nil, nil
}

func (f *fakePitchRepo) AddTeamMember(ctx context.Context, tx *gorm.DB, row *types.PitchTeamMember) error {
	return nil
}

func (f *fakePitchRepo) TeamStakeholders(ctx context.Context, tx *gorm.DB, pitchID uuid.UUID) ([]types.Stakeholder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.team[pitchID], nil
}

func (f *fakePitchRepo) TeamStakeholdersForScout(ctx context.Context, tx *gorm.DB, scoutID uuid.UUID) ([]types.Stakeholder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []types.Stakeholder
	for id, p := range f.pitches {
		if p.ScoutID != nil && *p.ScoutID == scoutID {
			out = append(out, f.team[id]...)
		}
	}
	return out, nil
}

func (f *fakePitchRepo) TransitionStatus(ctx context.Context, tx *gorm.DB, pitchID uuid.UUID, from []string, to string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.pitches[pitchID]
	if !ok {
		return false, fmt.Errorf("%w: pitch %s", pkgerrors.ErrNotFound, pitchID)
	}
	if !slices.Contains(from, p.Status) {
		return false, nil
	}
	p.Status = to
	f.transitioned = append(f.transitioned, to)
	return true, nil
}

type fakeScoutRepo struct {
	mu           sync.Mutex
	scouts       map[uuid.UUID]*types.Scout
	transitioned []string
}

func newFakeScoutRepo() *fakeScoutRepo {
	return &fakeScoutRepo{scouts: make(map[uuid.UUID]*types.Scout)}
}

func (f *fakeScoutRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Scout) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *row
	f.scouts[row.ID] = &cp
	return nil
}

func (f *fakeScoutRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Scout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.scouts[id]
	if !ok {
		return nil, fmt.Errorf("%w: scout %s", pkgerrors.ErrNotFound, id)
	}
	cp := *s
	return &cp, nil
}

func (f *fakeScoutRepo) AddCollaboration(ctx context.Context, tx *gorm.DB, row *types.ScoutCollaboration) error {
	return nil
}

func (f *fakeScoutRepo) CollaboratingDaftarIDs(ctx context.Context, tx *gorm.DB, scoutID uuid.UUID) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.scouts[scoutID]
	if !ok {
		return nil, fmt.Errorf("%w: scout %s", pkgerrors.ErrNotFound, scoutID)
	}
	return []uuid.UUID{s.DaftarID}, nil
}

func (f *fakeScoutRepo) TransitionStatus(ctx context.Context, tx *gorm.DB, scoutID uuid.UUID, from []string, to string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.scouts[scoutID]
	if !ok {
		return false, fmt.Errorf("%w: scout %s", pkgerrors.ErrNotFound, scoutID)
	}
	if !slices.Contains(from, s.Status) {
		return false, nil
	}
	s.Status = to
	f.transitioned = append(f.transitioned, to)
	return true, nil
}

type fakeDaftarRepo struct {
	mu        sync.Mutex
	daftars   map[uuid.UUID]*types.Daftar
	investors map[uuid.UUID][]types.Stakeholder
}

func newFakeDaftarRepo() *fakeDaftarRepo {
	return &fakeDaftarRepo{
		daftars:   make(map[uuid.UUID]*types.Daftar),
		investors: make(map[uuid.UUID][]types.Stakeholder),
	}
}

func (f *fakeDaftarRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Daftar) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *row
	f.daftars[row.ID] = &cp
	return nil
}

func (f *fakeDaftarRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Daftar, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.daftars[id]
	if !ok {
		return nil, fmt.Errorf("%w: daftar %s", pkgerrors.ErrNotFound, id)
	}
	cp := *d
	return &cp, nil
}

func (f *fakeDaftarRepo) AddMember(ctx context.Context, tx *gorm.DB, row *types.DaftarMember) error {
	return nil
}

func (f *fakeDaftarRepo) RemoveMember(ctx context.Context, tx *gorm.DB, daftarID, userID uuid.UUID) error {
	return nil
}

func (f *fakeDaftarRepo) InvestorStakeholders(ctx context.Context, tx *gorm.DB, daftarIDs []uuid.UUID) ([]types.Stakeholder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []types.Stakeholder
	for _, id := range daftarIDs {
		out = append(out, f.investors[id]...)
	}
	return out, nil
}

func (f *fakeDaftarRepo) MemberDaftarIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}

// fakeOfferRepo mirrors the transactional contract of the real repo: the
// status flip and the audit append happen together or not at all.
type fakeOfferRepo struct {
	mu     sync.Mutex
	offers map[uuid.UUID]*types.Offer
	// beforeTransition runs inside Transition before the status check, for
	// interleaving a concurrent writer.
	beforeTransition func()
}

func newFakeOfferRepo() *fakeOfferRepo {
	return &fakeOfferRepo{offers: make(map[uuid.UUID]*types.Offer)}
}

func (f *fakeOfferRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Offer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *row
	f.offers[row.ID] = &cp
	return nil
}

func (f *fakeOfferRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Offer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.offers[id]
	if !ok {
		return nil, fmt.Errorf("%w: offer %s", pkgerrors.ErrNotFound, id)
	}
	cp := *o
	cp.Actions = append([]types.OfferAction(nil), o.Actions...)
	return &cp, nil
}

func (f *fakeOfferRepo) ListByPitch(ctx context.Context, tx *gorm.DB, pitchID uuid.UUID) ([]*types.Offer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.Offer
	for _, o := range f.offers {
		if o.PitchID == pitchID {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeOfferRepo) Transition(ctx context.Context, tx *gorm.DB, offerID uuid.UUID, from string, action *types.OfferAction) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.beforeTransition != nil {
		f.beforeTransition()
	}
	o, ok := f.offers[offerID]
	if !ok {
		return false, fmt.Errorf("%w: offer %s", pkgerrors.ErrNotFound, offerID)
	}
	if o.Status != from {
		return false, nil
	}
	o.Status = action.Action
	act := *action
	act.OfferID = offerID
	o.Actions = append(o.Actions, act)
	return true, nil
}

// fakeNotificationRepo is the in-memory feed store.
type fakeNotificationRepo struct {
	mu        sync.Mutex
	created   []*types.Notification
	createErr error
	reads     map[uuid.UUID]map[uuid.UUID]bool
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{reads: make(map[uuid.UUID]map[uuid.UUID]bool)}
}

func (f *fakeNotificationRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, row)
	return nil
}

func (f *fakeNotificationRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.created {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, fmt.Errorf("%w: notification %s", pkgerrors.ErrNotFound, id)
}

func (f *fakeNotificationRepo) ListVisible(ctx context.Context, tx *gorm.DB, userID uuid.UUID, role string) ([]*types.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.Notification
	for _, n := range f.created {
		if n.VisibleTo(userID, role) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) MarkRead(ctx context.Context, tx *gorm.DB, notificationID, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reads[userID] == nil {
		f.reads[userID] = make(map[uuid.UUID]bool)
	}
	f.reads[userID][notificationID] = true
	return nil
}

func (f *fakeNotificationRepo) ReadIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []uuid.UUID
	for id := range f.reads[userID] {
		out = append(out, id)
	}
	return out, nil
}

// fakeEmitter collects SSE messages instead of delivering them.
type fakeEmitter struct {
	mu       sync.Mutex
	messages []realtime.SSEMessage
}

func (f *fakeEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, msg)
}

func (f *fakeEmitter) channels() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.messages))
	for _, m := range f.messages {
		out = append(out, m.Channel)
	}
	return out
}

type fakeMailer struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeMailer) Notify(ctx context.Context, record *types.Notification, recipients []types.Stakeholder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

func (f *fakeMailer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func stakeholder(role string) types.Stakeholder {
	return types.Stakeholder{UserID: uuid.New(), Email: uuid.NewString() + "@example.com", Role: role}
}

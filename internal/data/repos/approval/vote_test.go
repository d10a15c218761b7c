package approval

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	types "github.com/daftaros/daftar-backend/internal/domain"
	"github.com/daftaros/daftar-backend/internal/platform/logger"
)

func testRepo(t *testing.T) ApprovalVoteRepo {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`)
	if err := db.AutoMigrate(&types.ApprovalVote{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	db.Exec("TRUNCATE approval_vote")

	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return NewApprovalVoteRepo(db, log)
}

func TestUpsert_RevoteOverwritesInsteadOfDuplicating(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	subject := uuid.New()
	voter := uuid.New()

	if err := repo.Upsert(ctx, nil, &types.ApprovalVote{
		ID: uuid.New(), ActionType: types.ApprovalActionPitchDelete,
		SubjectID: subject, VoterID: voter, Approved: true,
	}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := repo.Upsert(ctx, nil, &types.ApprovalVote{
		ID: uuid.New(), ActionType: types.ApprovalActionPitchDelete,
		SubjectID: subject, VoterID: voter, Approved: false,
	}); err != nil {
		t.Fatalf("revote upsert: %v", err)
	}

	votes, err := repo.ListForSubject(ctx, nil, types.ApprovalActionPitchDelete, subject)
	if err != nil {
		t.Fatalf("ListForSubject: %v", err)
	}
	if len(votes) != 1 {
		t.Fatalf("expected one row per voter, got %d", len(votes))
	}
	if votes[0].Approved {
		t.Fatalf("expected the revote to win")
	}
}

func TestListForSubject_ScopesByActionAndSubject(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	subject := uuid.New()
	other := uuid.New()

	inserts := []*types.ApprovalVote{
		{ID: uuid.New(), ActionType: types.ApprovalActionPitchDelete, SubjectID: subject, VoterID: uuid.New(), Approved: true},
		{ID: uuid.New(), ActionType: types.ApprovalActionPitchDelete, SubjectID: subject, VoterID: uuid.New(), Approved: true},
		{ID: uuid.New(), ActionType: types.ApprovalActionPitchDelete, SubjectID: other, VoterID: uuid.New(), Approved: true},
		{ID: uuid.New(), ActionType: types.ApprovalActionScoutApproval, SubjectID: subject, VoterID: uuid.New(), Approved: true},
	}
	for _, v := range inserts {
		if err := repo.Upsert(ctx, nil, v); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}

	votes, err := repo.ListForSubject(ctx, nil, types.ApprovalActionPitchDelete, subject)
	if err != nil {
		t.Fatalf("ListForSubject: %v", err)
	}
	if len(votes) != 2 {
		t.Fatalf("expected 2 votes in scope, got %d", len(votes))
	}
}

func TestUpsert_RejectsIncompleteRows(t *testing.T) {
	repo := testRepo(t)
	if err := repo.Upsert(context.Background(), nil, &types.ApprovalVote{
		ID: uuid.New(), ActionType: "", SubjectID: uuid.New(), VoterID: uuid.New(),
	}); err == nil {
		t.Fatalf("expected error for empty action type")
	}
}

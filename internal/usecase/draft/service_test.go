package draft_test

import (
	"context"
	"errors"
	"testing"

	"opportunity-scout/internal/domain/entity"
	draftUC "opportunity-scout/internal/usecase/draft"
)

type stubDraftRepo struct {
	drafts    map[int64]*entity.AIDraft
	err       error
	lastLimit int
}

func (r *stubDraftRepo) Create(_ context.Context, _ *entity.AIDraft) error { return nil }

func (r *stubDraftRepo) Get(_ context.Context, id int64) (*entity.AIDraft, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.drafts[id], nil
}

func (r *stubDraftRepo) ListPending(_ context.Context, limit int) ([]*entity.AIDraft, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.lastLimit = limit
	var out []*entity.AIDraft
	for _, d := range r.drafts {
		if d.Status == entity.DraftPending && len(out) < limit {
			out = append(out, d)
		}
	}
	return out, nil
}

func TestListPending_DefaultLimit(t *testing.T) {
	repo := &stubDraftRepo{drafts: map[int64]*entity.AIDraft{
		1: {ID: 1, Title: "Scholarship", Status: entity.DraftPending},
	}}
	svc := draftUC.NewService(repo)

	got, err := svc.ListPending(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("len=%d, want 1", len(got))
	}
	if repo.lastLimit != 20 {
		t.Fatalf("limit=%d, want default 20", repo.lastLimit)
	}
}

func TestListPending_ExcludesReviewed(t *testing.T) {
	repo := &stubDraftRepo{drafts: map[int64]*entity.AIDraft{
		1: {ID: 1, Status: entity.DraftPending},
		2: {ID: 2, Status: entity.DraftApproved},
	}}
	svc := draftUC.NewService(repo)

	got, err := svc.ListPending(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("got=%+v", got)
	}
}

func TestGet(t *testing.T) {
	repo := &stubDraftRepo{drafts: map[int64]*entity.AIDraft{
		5: {ID: 5, Title: "Research Grant", Status: entity.DraftPending},
	}}
	svc := draftUC.NewService(repo)

	got, err := svc.Get(context.Background(), 5)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Research Grant" {
		t.Fatalf("title=%q", got.Title)
	}
}

func TestGet_NotFound(t *testing.T) {
	svc := draftUC.NewService(&stubDraftRepo{drafts: map[int64]*entity.AIDraft{}})

	_, err := svc.Get(context.Background(), 42)
	if !errors.Is(err, draftUC.ErrDraftNotFound) {
		t.Fatalf("err=%v, want ErrDraftNotFound", err)
	}
}

func TestGet_RepoError(t *testing.T) {
	svc := draftUC.NewService(&stubDraftRepo{err: errors.New("db down")})

	_, err := svc.Get(context.Background(), 1)
	if err == nil || errors.Is(err, draftUC.ErrDraftNotFound) {
		t.Fatalf("err=%v, want wrapped repo error", err)
	}
}

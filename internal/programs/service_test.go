package programs

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"partnerhub/internal/core"
	"partnerhub/pkg/domain"
)

type serviceHarness struct {
	svc   *Service
	store *core.Store
	now   time.Time
}

func newHarness(t *testing.T) *serviceHarness {
	t.Helper()
	h := &serviceHarness{now: baseTime}
	n := 0
	h.store = core.NewStore(nil,
		core.WithClock(core.ClockFunc(func() time.Time { return h.now })),
		core.WithIDGenerator(func() string { n++; return fmt.Sprintf("rec-%d", n) }),
	)
	tokens := 0
	h.svc = NewService(h.store, WithTokenGenerator(func() string { tokens++; return fmt.Sprintf("tok-%d", tokens) }))
	return h
}

func (h *serviceHarness) seedPartners(t *testing.T, ctx context.Context) {
	t.Helper()
	for _, p := range []domain.Partner{
		{Meta: domain.Meta{ID: "host"}, Name: "Host Org"},
		{Meta: domain.Meta{ID: "co"}, Name: "Co Org"},
	} {
		if _, err := core.Create(ctx, h.store, domain.Partners, p); err != nil {
			t.Fatalf("create partner: %v", err)
		}
	}
}

func TestCreateProgramWithHostRelationship(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.seedPartners(t, ctx)
	p, err := h.svc.CreateProgram(ctx, domain.Program{PartnerID: "host", Name: "Sea Stories"}, CreateProgramOptions{WithHostRelationship: true, ActorID: "host"})
	if err != nil {
		t.Fatalf("create program: %v", err)
	}
	if p.Status != domain.ProgramStatusDraft {
		t.Fatalf("expected draft status, got %s", p.Status)
	}
	s, ok := h.svc.Summary(ctx, p.ID)
	if !ok {
		t.Fatalf("expected summary")
	}
	if len(s.Partners) != 1 || s.Partners[0].Role != domain.PartnerRoleHost || s.Metrics.CoPartnerCount != 1 {
		t.Fatalf("expected accepted host relationship, got %+v", s.Partners)
	}
	if len(s.Activities) != 1 || s.Activities[0].Type != ActivityProgramCreated {
		t.Fatalf("expected creation activity, got %+v", s.Activities)
	}
}

func TestUpdateAndStatus(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	p, _ := h.svc.CreateProgram(ctx, domain.Program{PartnerID: "host", Name: "Old"}, CreateProgramOptions{})
	if _, ok := h.svc.UpdateProgram(ctx, p.ID, "host", func(p *domain.Program) { p.Tagline = "fresh" }); !ok {
		t.Fatalf("expected update to succeed")
	}
	if _, ok := h.svc.UpdateProgram(ctx, "missing", "host", nil); ok {
		t.Fatalf("expected update of unknown program to report false")
	}
	got, err := h.svc.SetProgramStatus(ctx, p.ID, domain.ProgramStatusActive, "host")
	if err != nil || got.Status != domain.ProgramStatusActive || got.Tagline != "fresh" {
		t.Fatalf("set status: %+v %v", got, err)
	}
	if _, err := h.svc.SetProgramStatus(ctx, p.ID, "paused", "host"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if _, err := h.svc.SetProgramStatus(ctx, "missing", domain.ProgramStatusActive, ""); !errors.Is(err, ErrProgramNotFound) {
		t.Fatalf("expected ErrProgramNotFound, got %v", err)
	}
	s, _ := h.svc.Summary(ctx, p.ID)
	if len(s.Activities) != 3 {
		t.Fatalf("expected created, updated and status activities, got %d", len(s.Activities))
	}
}

func TestCoPartnerInvitationLifecycle(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.seedPartners(t, ctx)
	p, _ := h.svc.CreateProgram(ctx, domain.Program{PartnerID: "host", Name: "Shared"}, CreateProgramOptions{WithHostRelationship: true})

	inv, err := h.svc.Invite(ctx, InviteRequest{ProgramID: p.ID, Type: domain.InvitationCoPartner, TargetID: "co", InvitedByID: "host"})
	if err != nil {
		t.Fatalf("invite: %v", err)
	}
	if inv.Token != "tok-1" || inv.Status != domain.InvitationPending || !inv.ExpiresAt.Equal(baseTime.Add(DefaultInvitationTTL)) {
		t.Fatalf("unexpected invitation %+v", inv)
	}
	related := h.svc.ProgramsForPartner(ctx, "co", PartnerOptions{IncludeRelated: true})
	if len(related) != 1 {
		t.Fatalf("expected invited co-partner to see the program, got %d", len(related))
	}
	if m := h.svc.PartnerMetrics(ctx, "host", PartnerOptions{}); m.PendingInvitations != 1 || m.CoPartnerCount != 1 {
		t.Fatalf("unexpected metrics before accept %+v", m)
	}

	if v, err := h.svc.ViewInvitation(ctx, inv.Token); err != nil || v.Status != domain.InvitationViewed {
		t.Fatalf("view: %+v %v", v, err)
	}
	h.now = h.now.Add(time.Hour)
	accepted, err := h.svc.AcceptInvitation(ctx, inv.Token, "co")
	if err != nil || accepted.Status != domain.InvitationAccepted || accepted.RespondedAt == nil {
		t.Fatalf("accept: %+v %v", accepted, err)
	}
	s, _ := h.svc.Summary(ctx, p.ID)
	if s.Metrics.CoPartnerCount != 2 {
		t.Fatalf("expected accepted co-partner to count, got %d", s.Metrics.CoPartnerCount)
	}
	if _, err := h.svc.DeclineInvitation(ctx, inv.Token, "co"); !errors.Is(err, ErrInvitationClosed) {
		t.Fatalf("expected ErrInvitationClosed, got %v", err)
	}
	if _, err := h.svc.AcceptInvitation(ctx, "nope", "co"); !errors.Is(err, ErrInvitationNotFound) {
		t.Fatalf("expected ErrInvitationNotFound, got %v", err)
	}
}

func TestInviteUnknownProgram(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.Invite(context.Background(), InviteRequest{ProgramID: "missing", Type: domain.InvitationTeacher})
	if !errors.Is(err, ErrProgramNotFound) {
		t.Fatalf("expected ErrProgramNotFound, got %v", err)
	}
}

func TestInvitationExpiry(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	p, _ := h.svc.CreateProgram(ctx, domain.Program{PartnerID: "host", Name: "Timed"}, CreateProgramOptions{})
	first, _ := h.svc.Invite(ctx, InviteRequest{ProgramID: p.ID, Type: domain.InvitationTeacher, Email: "t@school.org"})
	h.now = h.now.Add(DefaultInvitationTTL + time.Minute)

	if _, err := h.svc.DeclineInvitation(ctx, first.Token, ""); !errors.Is(err, ErrInvitationExpired) {
		t.Fatalf("expected ErrInvitationExpired, got %v", err)
	}
	fresh, _ := h.svc.Invite(ctx, InviteRequest{ProgramID: p.ID, Type: domain.InvitationCoordinator, Email: "c@org.org"})
	n, err := h.svc.ExpireInvitations(ctx)
	if err != nil || n != 1 {
		t.Fatalf("expire: n=%d err=%v", n, err)
	}
	s, _ := h.svc.Summary(ctx, p.ID)
	for _, inv := range s.Invitations {
		want := domain.InvitationExpired
		if inv.ID == fresh.ID {
			want = domain.InvitationPending
		}
		if inv.Status != want {
			t.Fatalf("invitation %s: got %s want %s", inv.ID, inv.Status, want)
		}
	}
}

func TestDeleteProgramCascades(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	p, _ := h.svc.CreateProgram(ctx, domain.Program{PartnerID: "host", Name: "Y"}, CreateProgramOptions{WithHostRelationship: true})
	for _, err := range []error{
		create(ctx, h.store, domain.Coordinators, domain.CountryCoordinator{ProgramID: p.ID, Name: "C", Country: "DK"}),
		create(ctx, h.store, domain.Institutions, domain.EducationalInstitution{ProgramID: p.ID, Name: "I"}),
		create(ctx, h.store, domain.InstitutionTeachers, domain.InstitutionTeacher{ProgramID: p.ID, InstitutionID: "x", Name: "T"}),
	} {
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	if _, err := h.svc.Invite(ctx, InviteRequest{ProgramID: p.ID, Type: domain.InvitationTeacher}); err != nil {
		t.Fatalf("invite: %v", err)
	}

	removed, err := h.svc.DeleteProgram(ctx, p.ID)
	if err != nil || !removed {
		t.Fatalf("delete: removed=%v err=%v", removed, err)
	}
	if _, ok := core.GetByID(ctx, h.store, domain.Programs, p.ID); ok {
		t.Fatalf("expected program gone")
	}
	db := h.store.LoadDatabase(ctx)
	for _, name := range domain.TableNames() {
		if name == domain.TablePartners {
			continue
		}
		if n, _ := domain.Count(&db, name); n != 0 {
			t.Fatalf("expected %s empty after cascade, have %d", name, n)
		}
	}
	if removed, err := h.svc.DeleteProgram(ctx, p.ID); err != nil || removed {
		t.Fatalf("expected second delete to be a no-op, got %v %v", removed, err)
	}
}

func TestMyPrograms(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.seedPartners(t, ctx)
	_ = create(ctx, h.store, domain.PartnerUsers, domain.PartnerUser{PartnerID: "host", Email: "me@host.org"})
	_, _ = h.svc.CreateProgram(ctx, domain.Program{PartnerID: "host", Name: "Mine"}, CreateProgramOptions{})

	signedIn := domain.SessionFunc(func(context.Context) (domain.Session, bool) {
		return domain.Session{Email: "ME@host.org"}, true
	})
	partner, summaries, ok := h.svc.MyPrograms(ctx, signedIn)
	if !ok || partner.ID != "host" || len(summaries) != 1 {
		t.Fatalf("unexpected result %v %s %d", ok, partner.ID, len(summaries))
	}
	anonymous := domain.SessionFunc(func(context.Context) (domain.Session, bool) { return domain.Session{}, false })
	if _, _, ok := h.svc.MyPrograms(ctx, anonymous); ok {
		t.Fatalf("expected no programs without a session")
	}
}

func TestCatalogThroughService(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.seedPartners(t, ctx)
	_, _ = h.svc.CreateProgram(ctx, domain.Program{PartnerID: "host", Name: "Open", IsPublic: true}, CreateProgramOptions{})
	_, _ = h.svc.CreateProgram(ctx, domain.Program{PartnerID: "host", Name: "Closed"}, CreateProgramOptions{})
	if got := h.svc.Catalog(ctx, CatalogOptions{}); len(got) != 1 || got[0].Name != "Open" || got[0].Host == nil {
		t.Fatalf("unexpected catalog %+v", got)
	}
}

func create[T any](ctx context.Context, s *core.Store, table domain.Table[T], rec T) error {
	_, err := core.Create(ctx, s, table, rec)
	return err
}

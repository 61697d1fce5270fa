package programs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"partnerhub/internal/core"
	"partnerhub/pkg/domain"
)

// Activity types recorded by Service.
const (
	ActivityProgramCreated     = "program_created"
	ActivityProgramUpdated     = "program_updated"
	ActivityStatusChanged      = "program_status_changed"
	ActivityCoPartnerInvited   = "co_partner_invited"
	ActivityInvitationSent     = "invitation_sent"
	ActivityInvitationAccepted = "invitation_accepted"
	ActivityInvitationDeclined = "invitation_declined"
	ActivityInvitationExpired  = "invitation_expired"
)

// DefaultInvitationTTL is how long a new invitation stays answerable.
const DefaultInvitationTTL = 14 * 24 * time.Hour

var (
	// ErrProgramNotFound is returned when an operation names an unknown program.
	ErrProgramNotFound = errors.New("program not found")
	// ErrInvitationNotFound is returned for an unknown invitation token.
	ErrInvitationNotFound = errors.New("invitation not found")
	// ErrInvitationClosed is returned when answering an invitation that is
	// already accepted, declined, expired, or cancelled.
	ErrInvitationClosed = errors.New("invitation is no longer open")
	// ErrInvitationExpired is returned when answering past the expiry time.
	ErrInvitationExpired = errors.New("invitation has expired")
	// ErrInvalidStatus is returned for an unknown program status.
	ErrInvalidStatus = errors.New("invalid program status")
)

// Service binds the program queries to a record store and provides the
// mutating program helpers.
type Service struct {
	store    *core.Store
	logger   core.Logger
	newToken func() string
	ttl      time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l core.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTokenGenerator replaces the invitation token generator.
func WithTokenGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newToken = fn
		}
	}
}

// WithInvitationTTL sets the lifetime of new invitations.
func WithInvitationTTL(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.ttl = d
		}
	}
}

// NewService returns a Service over store.
func NewService(store *core.Store, opts ...Option) *Service {
	s := &Service{store: store, logger: discardLogger{}, newToken: uuid.NewString, ttl: DefaultInvitationTTL}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the underlying record store.
func (s *Service) Store() *core.Store { return s.store }

func (s *Service) load(ctx context.Context) *domain.Database {
	db := s.store.LoadDatabase(ctx)
	return &db
}

// ProgramsForPartner returns the partner's programs, newest first.
func (s *Service) ProgramsForPartner(ctx context.Context, partnerID string, opts PartnerOptions) []domain.Program {
	return ProgramsForPartner(s.load(ctx), partnerID, opts)
}

// Summary returns the summary of one program.
func (s *Service) Summary(ctx context.Context, programID string) (ProgramSummary, bool) {
	return FindSummaryByID(s.load(ctx), programID)
}

// SummariesForPartner summarizes the partner's programs.
func (s *Service) SummariesForPartner(ctx context.Context, partnerID string, opts PartnerOptions) []ProgramSummary {
	return SummariesForPartner(s.load(ctx), partnerID, opts)
}

// Catalog builds the discovery catalog.
func (s *Service) Catalog(ctx context.Context, opts CatalogOptions) []CatalogItem {
	return BuildCatalog(s.load(ctx), opts)
}

// PartnerMetrics aggregates the partner's program summaries.
func (s *Service) PartnerMetrics(ctx context.Context, partnerID string, opts PartnerOptions) PartnerProgramMetrics {
	return AggregateProgramMetrics(s.SummariesForPartner(ctx, partnerID, opts))
}

// MyPrograms resolves the current session to a partner and summarizes its
// owned and related programs. It reports false when there is no session or
// no matching partner.
func (s *Service) MyPrograms(ctx context.Context, sessions domain.SessionProvider) (domain.Partner, []ProgramSummary, bool) {
	session, ok := sessions.CurrentSession(ctx)
	if !ok {
		return domain.Partner{}, nil, false
	}
	db := s.load(ctx)
	partner, ok := CurrentPartner(db, session)
	if !ok {
		return domain.Partner{}, nil, false
	}
	return partner, SummariesForPartner(db, partner.ID, PartnerOptions{IncludeRelated: true}), true
}

// CreateProgramOptions tunes CreateProgram.
type CreateProgramOptions struct {
	// WithHostRelationship also records the owning partner as the accepted
	// host of the program.
	WithHostRelationship bool
	ActorID              string
}

// CreateProgram stores a new program. The status defaults to draft.
func (s *Service) CreateProgram(ctx context.Context, program domain.Program, opts CreateProgramOptions) (domain.Program, error) {
	if program.Status == "" {
		program.Status = domain.ProgramStatusDraft
	}
	var out domain.Program
	err := s.store.RunInTransaction(ctx, "create_program", func(tx *core.Tx) error {
		var err error
		if out, err = core.Insert(tx, domain.Programs, program); err != nil {
			return err
		}
		if opts.WithHostRelationship {
			now := tx.Now()
			host := domain.ProgramPartner{
				ProgramID:   out.ID,
				PartnerID:   out.PartnerID,
				Role:        domain.PartnerRoleHost,
				Status:      domain.RelationshipAccepted,
				Permissions: fullPermissions,
				RespondedAt: &now,
			}
			if _, err := core.Insert(tx, domain.ProgramPartners, host); err != nil {
				return err
			}
		}
		return recordActivity(tx, out.ID, ActivityProgramCreated, opts.ActorID, fmt.Sprintf("Program %q created", out.Title()))
	})
	if err != nil {
		return domain.Program{}, err
	}
	s.logger.Info("program created", "program_id", out.ID, "partner_id", out.PartnerID)
	return out, nil
}

var fullPermissions = domain.PartnerPermissions{
	CanEditProgram:        true,
	CanInviteCoordinators: true,
	CanInviteInstitutions: true,
	CanViewAnalytics:      true,
	CanManageTemplates:    true,
}

// UpdateProgram applies mutate to the program and records the change.
func (s *Service) UpdateProgram(ctx context.Context, programID, actorID string, mutate func(*domain.Program)) (domain.Program, bool) {
	var out domain.Program
	err := s.store.RunInTransaction(ctx, "update_program", func(tx *core.Tx) error {
		var err error
		if out, err = core.Patch(tx, domain.Programs, programID, mutate); err != nil {
			return err
		}
		return recordActivity(tx, programID, ActivityProgramUpdated, actorID, fmt.Sprintf("Program %q updated", out.Title()))
	})
	return out, err == nil
}

// SetProgramStatus moves the program to status.
func (s *Service) SetProgramStatus(ctx context.Context, programID string, status domain.ProgramStatus, actorID string) (domain.Program, error) {
	switch status {
	case domain.ProgramStatusDraft, domain.ProgramStatusActive, domain.ProgramStatusCompleted, domain.ProgramStatusArchived:
	default:
		return domain.Program{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	var out domain.Program
	err := s.store.RunInTransaction(ctx, "set_program_status", func(tx *core.Tx) error {
		var err error
		out, err = core.Patch(tx, domain.Programs, programID, func(p *domain.Program) { p.Status = status })
		if err != nil {
			return fmt.Errorf("%w: %s", ErrProgramNotFound, programID)
		}
		return recordActivity(tx, programID, ActivityStatusChanged, actorID, "Status set to "+string(status))
	})
	return out, err
}

// DeleteProgram removes the program and every record referencing it in one
// transaction. Either everything is removed or nothing is. It reports
// whether the program existed.
func (s *Service) DeleteProgram(ctx context.Context, programID string) (bool, error) {
	var removed bool
	err := s.store.RunInTransaction(ctx, "delete_program", func(tx *core.Tx) error {
		var err error
		removed, err = CascadeDeleteProgram(tx.View(), programID, func(table domain.TableName, id string) (bool, error) {
			return core.Remove(tx, table, id)
		})
		return err
	})
	if err != nil {
		s.logger.Warn("cascade delete failed", "program_id", programID, "error", err)
		return false, err
	}
	if removed {
		s.logger.Info("program deleted", "program_id", programID)
	}
	return removed, nil
}

// InviteRequest describes a new invitation.
type InviteRequest struct {
	ProgramID   string
	Type        domain.InvitationType
	Email       string
	TargetID    string
	InvitedByID string
	// Role is the relationship role offered to a co-partner. Defaults to
	// co_host.
	Role domain.PartnerRole
}

// Invite creates a pending invitation. A co_partner invitation with a
// TargetID also records the invited ProgramPartner relationship.
func (s *Service) Invite(ctx context.Context, req InviteRequest) (domain.ProgramInvitation, error) {
	var out domain.ProgramInvitation
	err := s.store.RunInTransaction(ctx, "invite", func(tx *core.Tx) error {
		db := tx.View()
		if _, ok := domain.Programs.Find(db, req.ProgramID); !ok {
			return fmt.Errorf("%w: %s", ErrProgramNotFound, req.ProgramID)
		}
		inv := domain.ProgramInvitation{
			ProgramID:      req.ProgramID,
			InvitationType: req.Type,
			Email:          req.Email,
			TargetID:       req.TargetID,
			InvitedByID:    req.InvitedByID,
			Token:          s.newToken(),
			ExpiresAt:      tx.Now().Add(s.ttl),
			Status:         domain.InvitationPending,
		}
		var err error
		if out, err = core.Insert(tx, domain.Invitations, inv); err != nil {
			return err
		}
		activity := ActivityInvitationSent
		if req.Type == domain.InvitationCoPartner {
			activity = ActivityCoPartnerInvited
			if req.TargetID != "" {
				if err := ensureRelationship(tx, req); err != nil {
					return err
				}
			}
		}
		return recordActivity(tx, req.ProgramID, activity, req.InvitedByID, fmt.Sprintf("%s invitation sent", req.Type))
	})
	return out, err
}

func ensureRelationship(tx *core.Tx, req InviteRequest) error {
	role := req.Role
	if role == "" {
		role = domain.PartnerRoleCoHost
	}
	for _, rel := range tx.View().ProgramPartners {
		if rel.ProgramID == req.ProgramID && rel.PartnerID == req.TargetID {
			_, err := core.Patch(tx, domain.ProgramPartners, rel.ID, func(r *domain.ProgramPartner) {
				r.Status = domain.RelationshipInvited
				r.Role = role
				r.RespondedAt = nil
			})
			return err
		}
	}
	_, err := core.Insert(tx, domain.ProgramPartners, domain.ProgramPartner{
		ProgramID:   req.ProgramID,
		PartnerID:   req.TargetID,
		Role:        role,
		Status:      domain.RelationshipInvited,
		InvitedByID: req.InvitedByID,
	})
	return err
}

// ViewInvitation marks a pending invitation as viewed.
func (s *Service) ViewInvitation(ctx context.Context, token string) (domain.ProgramInvitation, error) {
	return s.respond(ctx, "view_invitation", token, func(tx *core.Tx, inv *domain.ProgramInvitation) error {
		if inv.Status == domain.InvitationPending {
			inv.Status = domain.InvitationViewed
		}
		return nil
	})
}

// AcceptInvitation accepts an open invitation.
func (s *Service) AcceptInvitation(ctx context.Context, token, actorID string) (domain.ProgramInvitation, error) {
	return s.answer(ctx, token, actorID, domain.InvitationAccepted, domain.RelationshipAccepted, ActivityInvitationAccepted)
}

// DeclineInvitation declines an open invitation.
func (s *Service) DeclineInvitation(ctx context.Context, token, actorID string) (domain.ProgramInvitation, error) {
	return s.answer(ctx, token, actorID, domain.InvitationDeclined, domain.RelationshipDeclined, ActivityInvitationDeclined)
}

func (s *Service) answer(ctx context.Context, token, actorID string, to domain.InvitationStatus, rel domain.RelationshipStatus, activity string) (domain.ProgramInvitation, error) {
	return s.respond(ctx, string(to)+"_invitation", token, func(tx *core.Tx, inv *domain.ProgramInvitation) error {
		now := tx.Now()
		if !inv.ExpiresAt.IsZero() && now.After(inv.ExpiresAt) {
			return ErrInvitationExpired
		}
		inv.Status = to
		inv.RespondedAt = &now
		if inv.InvitationType == domain.InvitationCoPartner && inv.TargetID != "" {
			for _, r := range tx.View().ProgramPartners {
				if r.ProgramID != inv.ProgramID || r.PartnerID != inv.TargetID {
					continue
				}
				if _, err := core.Patch(tx, domain.ProgramPartners, r.ID, func(p *domain.ProgramPartner) {
					p.Status = rel
					p.RespondedAt = &now
				}); err != nil {
					return err
				}
			}
		}
		return recordActivity(tx, inv.ProgramID, activity, actorID, fmt.Sprintf("%s invitation %s", inv.InvitationType, to))
	})
}

func (s *Service) respond(ctx context.Context, op, token string, fn func(*core.Tx, *domain.ProgramInvitation) error) (domain.ProgramInvitation, error) {
	var out domain.ProgramInvitation
	err := s.store.RunInTransaction(ctx, op, func(tx *core.Tx) error {
		inv, ok := findByToken(tx.View(), token)
		if !ok {
			return ErrInvitationNotFound
		}
		if !inv.Status.Open() {
			return fmt.Errorf("%w: %s", ErrInvitationClosed, inv.Status)
		}
		var ferr error
		updated, err := core.Patch(tx, domain.Invitations, inv.ID, func(p *domain.ProgramInvitation) { ferr = fn(tx, p) })
		if err != nil {
			return err
		}
		if ferr != nil {
			return ferr
		}
		out = updated
		return nil
	})
	return out, err
}

func findByToken(db *domain.Database, token string) (domain.ProgramInvitation, bool) {
	if token == "" {
		return domain.ProgramInvitation{}, false
	}
	for _, inv := range db.Invitations {
		if inv.Token == token {
			return inv, true
		}
	}
	return domain.ProgramInvitation{}, false
}

// ExpireInvitations marks every open invitation past its expiry as expired
// and returns how many changed.
func (s *Service) ExpireInvitations(ctx context.Context) (int, error) {
	n := 0
	err := s.store.RunInTransaction(ctx, "expire_invitations", func(tx *core.Tx) error {
		now := tx.Now()
		var due []domain.ProgramInvitation
		for _, inv := range tx.View().Invitations {
			if inv.Status.Open() && !inv.ExpiresAt.IsZero() && now.After(inv.ExpiresAt) {
				due = append(due, inv)
			}
		}
		for _, inv := range due {
			if _, err := core.Patch(tx, domain.Invitations, inv.ID, func(p *domain.ProgramInvitation) { p.Status = domain.InvitationExpired }); err != nil {
				return err
			}
			if err := recordActivity(tx, inv.ProgramID, ActivityInvitationExpired, "", fmt.Sprintf("%s invitation expired", inv.InvitationType)); err != nil {
				return err
			}
			n++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("invitations expired", "count", n)
	}
	return n, nil
}

func recordActivity(tx *core.Tx, programID, kind, actorID, description string) error {
	actorType := ""
	if actorID != "" {
		actorType = "partner"
	}
	_, err := core.Insert(tx, domain.Activities, domain.ProgramActivity{
		ProgramID:   programID,
		Type:        kind,
		ActorType:   actorType,
		ActorID:     actorID,
		Description: description,
	})
	return err
}

type discardLogger struct{}

func (discardLogger) Debug(string, ...any) {}
func (discardLogger) Info(string, ...any)  {}
func (discardLogger) Warn(string, ...any)  {}
func (discardLogger) Error(string, ...any) {}

// Package diagnostic contains the business logic for generating
// business diagnostics from debriefing answers.
package diagnostic

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agenciahub/agenciahub/internal/entitlement"
	"github.com/agenciahub/agenciahub/internal/lib/sl"
	"github.com/agenciahub/agenciahub/internal/lib/userlock"
	"github.com/agenciahub/agenciahub/internal/metrics"
	"github.com/agenciahub/agenciahub/internal/models"
	"github.com/agenciahub/agenciahub/internal/services/errs"
)

// Repository is the storage contract for diagnostics.
type Repository interface {
	CreateDiagnostic(ctx context.Context, d models.Diagnostic) error
	ReadDiagnostic(ctx context.Context, id, userUID string) (*models.Diagnostic, error)
	ListDiagnostics(ctx context.Context, userUID string, limit, offset int) ([]*models.Diagnostic, error)
}

// UserProvider supplies the entitlement snapshot for quota checks.
type UserProvider interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	UsageCounts(ctx context.Context, userUID string) (models.Usage, error)
}

// TimelineAppender records lifecycle events on the client timeline.
type TimelineAppender interface {
	AppendEvent(ctx context.Context, event models.TimelineEvent) error
}

// Service implements diagnostic generation.
type Service struct {
	repo     Repository
	users    UserProvider
	timeline TimelineAppender
	engine   *entitlement.Engine
	locker   *userlock.Locker
	log      *slog.Logger
}

// New creates a diagnostic Service.
func New(repo Repository, users UserProvider, timeline TimelineAppender, engine *entitlement.Engine, locker *userlock.Locker, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		timeline: timeline,
		engine:   engine,
		locker:   locker,
		log:      log,
	}
}

// Create checks the plan quota, scores the debriefing answers and
// stores the resulting diagnostic.
func (s *Service) Create(ctx context.Context, userUID string, req models.DummyDiagnostic) (string, error) {
	unlock := s.locker.Lock(userUID)
	defer unlock()

	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return "", err
	}
	usage, err := s.users.UsageCounts(ctx, userUID)
	if err != nil {
		return "", err
	}
	if d := s.engine.CanCreate(entitlement.ResourceDiagnostics, *user, usage); !d.Allowed {
		metrics.PolicyDenials.WithLabelValues(metrics.ReasonQuotaExceeded).Inc()
		s.log.Warn("diagnostic creation denied", slog.String("user_uid", userUID), slog.String("reason", d.Message))
		return "", &errs.QuotaError{Message: d.Message}
	}

	scores := scoreAnswers(req.Answers)
	var clientID *string
	if req.ClientID != "" {
		clientID = &req.ClientID
	}
	diag := models.Diagnostic{
		ID:       uuid.New().String(),
		UserUID:  userUID,
		ClientID: clientID,
		Answers:  req.Answers,
		Summary:  buildSummary(scores),
		Scores:   scores,
	}
	if err := s.repo.CreateDiagnostic(ctx, diag); err != nil {
		return "", err
	}
	s.log.Info("created new diagnostic", slog.String("id", diag.ID))

	event := models.TimelineEvent{
		UserUID:     userUID,
		ClientID:    clientID,
		Kind:        models.EventDiagnosticCreated,
		Description: "business diagnostic generated",
		OccurredAt:  time.Now().UTC(),
	}
	if err := s.timeline.AppendEvent(ctx, event); err != nil {
		s.log.Warn("failed to append timeline event", sl.Err(err))
	}
	return diag.ID, nil
}

// Read returns one diagnostic of the user.
func (s *Service) Read(ctx context.Context, id, userUID string) (*models.Diagnostic, error) {
	d, err := s.repo.ReadDiagnostic(ctx, id, userUID)
	if err != nil {
		return nil, errs.ErrNotFound
	}
	return d, nil
}

// List returns the diagnostics of a user with pagination.
func (s *Service) List(ctx context.Context, userUID string, limit, offset int) ([]*models.Diagnostic, error) {
	return s.repo.ListDiagnostics(ctx, userUID, limit, offset)
}

// areaKeywords maps each scored area to the answer keywords that raise
// its score. Scoring is a coarse heuristic over the free-form answers.
var areaKeywords = map[string][]string{
	models.AreaAcquisition: {"lead", "funnel", "ads", "campaign", "traffic", "referral"},
	models.AreaRetention:   {"churn", "retention", "repeat", "loyal", "follow-up", "renewal"},
	models.AreaPositioning: {"niche", "brand", "positioning", "differenti", "premium", "specializ"},
}

func scoreAnswers(answers map[string]string) map[string]int {
	joined := strings.ToLower(strings.Join(values(answers), " "))
	scores := make(map[string]int, len(areaKeywords))
	for area, keywords := range areaKeywords {
		score := 20
		for _, kw := range keywords {
			if strings.Contains(joined, kw) {
				score += 15
			}
		}
		if score > 100 {
			score = 100
		}
		scores[area] = score
	}
	return scores
}

func buildSummary(scores map[string]int) string {
	areas := make([]string, 0, len(scores))
	for area := range scores {
		areas = append(areas, area)
	}
	sort.Slice(areas, func(i, j int) bool {
		return scores[areas[i]] < scores[areas[j]]
	})
	weakest := areas[0]
	strongest := areas[len(areas)-1]
	return fmt.Sprintf("strongest area is %s (%d/100), %s (%d/100) needs the most attention",
		strongest, scores[strongest], weakest, scores[weakest])
}

func values(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	return out
}

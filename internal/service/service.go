// Package service holds the marketplace use cases. Services receive the
// authenticated caller explicitly and enforce role and ownership rules; the
// HTTP layer only translates requests and errors.
package service

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"

	"lendflow/internal/auth"
	"lendflow/internal/model"
	"lendflow/internal/repository"
	"lendflow/internal/storage"
	"lendflow/internal/toast"
)

var tracer = otel.Tracer("lendflow/internal/service")

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// ListResult is a page of records and the filtered total.
type ListResult[T any] struct {
	Items []T `json:"data"`
	Total int `json:"total"`
}

func pageQuery(limit, offset int) repository.PageQuery {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return repository.PageQuery{Limit: limit, Offset: offset}
}

func listResult[T any](res *repository.PageResult[T]) *ListResult[T] {
	return &ListResult[T]{Items: res.Items, Total: res.Total}
}

// Deps are the collaborators shared by the services.
type Deps struct {
	Repos         repository.Set
	Storage       storage.Storage
	Tokens        *auth.TokenIssuer
	Toasts        *toast.Queue
	Metrics       *Metrics
	Log           logrus.FieldLogger
	BcryptCost    int
	PresignExpiry time.Duration
	Now           func() time.Time
}

// Services is every use case wired to one set of dependencies.
type Services struct {
	Auth          AuthService
	Users         UserService
	Lenders       LenderService
	Rules         RuleService
	Applications  ApplicationService
	Eligibility   EligibilityService
	Calculator    CalculatorService
	Notifications NotificationService
	Documents     DocumentService
	Analytics     AnalyticsService
	Reports       ReportService
	Settings      SettingsService
}

// New builds all services.
func New(d Deps) *Services {
	if d.Log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		d.Log = l
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	n := &notifier{
		notifications: d.Repos.Notifications,
		settings:      d.Repos.Settings,
		toasts:        d.Toasts,
		log:           d.Log,
		now:           d.Now,
	}
	return &Services{
		Auth:          NewAuthService(d.Repos.Users, d.Tokens, d.BcryptCost, d.Now),
		Users:         NewUserService(d.Repos.Users, d.BcryptCost, d.Now),
		Lenders:       NewLenderService(d.Repos.Lenders, d.Repos.Users, d.Now),
		Rules:         NewRuleService(d.Repos.Rules, d.Repos.Lenders, d.Now),
		Applications:  NewApplicationService(d.Repos, n, d.Metrics, d.Log, d.Now),
		Eligibility:   NewEligibilityService(d.Repos, d.Now),
		Calculator:    NewCalculatorService(d.Repos.Users),
		Notifications: NewNotificationService(d.Repos.Notifications, d.Repos.Users, n),
		Documents:     NewDocumentService(d.Storage, d.Repos.Documents, d.Repos.Applications, d.Repos.Lenders, d.PresignExpiry, d.Now),
		Analytics:     NewAnalyticsService(d.Repos, d.Now),
		Reports:       NewReportService(d.Repos, d.Now),
		Settings:      NewSettingsService(d.Repos.Settings, d.Now),
	}
}

// requireRole returns ErrForbidden unless p holds one of roles.
func requireRole(p auth.Principal, roles ...model.Role) error {
	if !auth.HasAnyRole(p.Role, roles...) {
		return forbidden("role %s may not perform this action", p.Role)
	}
	return nil
}

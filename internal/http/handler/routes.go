package handler

import (
	"github.com/gofiber/fiber/v2"

	"lendflow/internal/http/middleware"
	"lendflow/internal/model"
	"lendflow/internal/service"
)

// Deps are what the routes need besides the services.
type Deps struct {
	DB           Pinger
	Services     *service.Services
	Tokens       middleware.TokenParser
	Toasts       ToastQueue
	LoginLimiter *middleware.RateLimiter
}

// RegisterRoutes attaches every API route to app. Authenticated routes run
// Authenticate, then Maintenance, then any role guard.
func RegisterRoutes(app *fiber.App, d Deps) {
	s := d.Services
	maintenance := middleware.Maintenance(s.Settings)
	authed := func(h ...fiber.Handler) []fiber.Handler {
		return append([]fiber.Handler{middleware.Authenticate(d.Tokens), maintenance}, h...)
	}
	admin := middleware.RequireRole(model.RoleAdmin)
	lender := middleware.RequireRole(model.RoleLender)
	borrower := middleware.RequireRole(model.RoleBorrower)
	staff := middleware.RequireRole(model.RoleAdmin, model.RoleLender)

	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", Liveness())

	limited := func(h fiber.Handler) []fiber.Handler {
		if d.LoginLimiter == nil {
			return []fiber.Handler{h}
		}
		return []fiber.Handler{d.LoginLimiter.Handler(), h}
	}
	app.Post("/auth/register", append(limited(maintenance), Register(s.Auth))...)
	app.Post("/auth/login", limited(Login(s.Auth))...)
	app.Post("/auth/refresh", authed(Refresh(s.Auth))...)
	app.Get("/auth/me", authed(Me(s.Auth))...)

	app.Get("/users", authed(admin, ListUsers(s.Users))...)
	app.Get("/users/:id", authed(GetUser(s.Users))...)
	app.Patch("/users/:id", authed(UpdateUser(s.Users))...)
	app.Delete("/users/:id", authed(admin, DeleteUser(s.Users))...)

	app.Get("/lenders", authed(ListLenders(s.Lenders))...)
	app.Get("/lenders/me", authed(lender, MyLender(s.Lenders))...)
	app.Get("/lenders/:id", authed(GetLender(s.Lenders))...)
	app.Post("/lenders", authed(staff, CreateLender(s.Lenders))...)
	app.Patch("/lenders/:id", authed(staff, UpdateLender(s.Lenders))...)

	app.Get("/lenderRules", authed(ListRules(s.Rules))...)
	app.Get("/lenderRules/:id", authed(GetRule(s.Rules))...)
	app.Post("/lenderRules", authed(staff, CreateRule(s.Rules))...)
	app.Patch("/lenderRules/:id", authed(staff, UpdateRule(s.Rules))...)
	app.Delete("/lenderRules/:id", authed(staff, DeleteRule(s.Rules))...)

	app.Get("/loanApplications", authed(ListApplications(s.Applications))...)
	app.Post("/loanApplications", authed(borrower, CreateApplication(s.Applications))...)
	app.Post("/loanApplications/bulk-process", authed(lender, BulkProcess(s.Applications))...)
	app.Get("/loanApplications/:id", authed(GetApplication(s.Applications))...)
	app.Patch("/loanApplications/:id/status", authed(staff, UpdateApplicationStatus(s.Applications))...)
	app.Post("/loanApplications/:id/cancel", authed(borrower, CancelApplication(s.Applications))...)
	app.Get("/loanApplications/:id/assessment", authed(staff, AssessApplication(s.Applications))...)

	app.Get("/eligibility/applications/:id", authed(CheckApplicationEligibility(s.Eligibility))...)
	app.Post("/eligibility/check", authed(CheckEligibility(s.Eligibility))...)
	app.Get("/eligibility/score", authed(EligibilityScore(s.Eligibility))...)
	app.Get("/matching", authed(borrower, MatchLenders(s.Eligibility))...)

	app.Get("/calculator/defaults", CalculatorDefaults(s.Calculator))
	app.Post("/calculator/emi", authed(CalculateEMI(s.Calculator))...)

	app.Get("/notifications", authed(ListNotifications(s.Notifications))...)
	app.Post("/notifications", authed(staff, CreateNotification(s.Notifications))...)
	app.Patch("/notifications/:id/read", authed(MarkNotificationRead(s.Notifications))...)

	app.Get("/toasts", authed(ListToasts(d.Toasts))...)
	app.Delete("/toasts/:id", authed(DismissToast(d.Toasts))...)
	app.Delete("/toasts", authed(ClearToasts(d.Toasts))...)

	app.Get("/documents", authed(ListDocuments(s.Documents))...)
	app.Post("/documents", authed(borrower, UploadDocument(s.Documents))...)
	app.Get("/documents/checklist", authed(DocumentChecklist(s.Documents))...)
	app.Get("/documents/:id", authed(GetDocument(s.Documents))...)
	app.Get("/documents/:id/download", authed(DownloadDocument(s.Documents))...)
	app.Delete("/documents/:id", authed(DeleteDocument(s.Documents))...)
	app.Patch("/documents/:id/status", authed(staff, UpdateDocumentStatus(s.Documents))...)

	app.Get("/analytics/platform", authed(admin, PlatformAnalytics(s.Analytics))...)
	app.Get("/analytics/lender", authed(lender, LenderAnalytics(s.Analytics))...)

	app.Get("/reports/lender.csv", authed(lender, LenderCSVReport(s.Reports))...)
	app.Get("/reports/lender.txt", authed(lender, LenderTextReport(s.Reports))...)
	app.Get("/reports/platform.csv", authed(admin, PlatformCSVReport(s.Reports))...)

	app.Get("/settings", authed(GetSettings(s.Settings))...)
	app.Put("/settings", authed(admin, UpdateSettings(s.Settings))...)
	app.Post("/settings/reset", authed(admin, ResetSettings(s.Settings))...)
}

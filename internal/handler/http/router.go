package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/payroll-backend-go/internal/config"
	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/authz"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Auth         AuthHandler
	Company      CompanyHandler
	Employee     EmployeeHandler
	Compensation CompensationHandler
	Attendance   AttendanceHandler
	Payroll      PayrollHandler
	Assignment   AssignmentHandler
	Equipment    EquipmentHandler
}

// NewRouter mounts the API under /api/v1. uploadsDir, when set, is served at
// /uploads for locally stored payslips.
func NewRouter(app config.AppConfig, JWTService jwt.Service, perms *middleware.Permissions, h Handlers, uploadsDir string) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(app.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", app.Name),
		slog.String("version", app.Version),
		slog.String("env", app.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.CORSOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition", "X-Payslip-URL"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if uploadsDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadsDir))))
	}

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
			r.Get("/oauth/google", h.Auth.LoginWithGoogle)
			r.Get("/oauth/callback/google", h.Auth.OAuthCallbackGoogle)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Get("/auth/me", h.Auth.Me)

			r.Route("/users", func(r chi.Router) {
				r.With(perms.Require(authz.ResourceUser, authz.ActionWrite)).Get("/", h.Auth.ListUsers)
				r.With(perms.Require(authz.ResourceUser, authz.ActionWrite)).Post("/", h.Auth.CreateUser)
			})

			r.Route("/companies/my", func(r chi.Router) {
				r.With(perms.Require(authz.ResourceCompany, authz.ActionRead)).Get("/", h.Company.GetMy)
				r.With(perms.Require(authz.ResourceCompany, authz.ActionWrite)).Put("/", h.Company.UpdateMy)
			})

			r.Route("/employees", func(r chi.Router) {
				r.With(perms.Require(authz.ResourceEmployee, authz.ActionRead)).Get("/", h.Employee.List)
				r.With(perms.Require(authz.ResourceEmployee, authz.ActionWrite)).Post("/", h.Employee.Create)

				r.Route("/{id}", func(r chi.Router) {
					r.With(perms.Require(authz.ResourceEmployee, authz.ActionRead)).Get("/", h.Employee.Get)
					r.With(perms.Require(authz.ResourceEmployee, authz.ActionWrite)).Put("/", h.Employee.Update)
					r.With(perms.Require(authz.ResourceEmployee, authz.ActionWrite)).Delete("/", h.Employee.Delete)

					r.Route("/increments", func(r chi.Router) {
						r.With(perms.Require(authz.ResourceCompensation, authz.ActionRead)).Get("/", h.Compensation.List)
						r.With(perms.Require(authz.ResourceCompensation, authz.ActionRead)).Post("/preview", h.Compensation.Preview)
						r.With(perms.Require(authz.ResourceCompensation, authz.ActionWrite)).Post("/", h.Compensation.Apply)
					})

					r.Route("/attendance", func(r chi.Router) {
						r.With(perms.Require(authz.ResourceAttendance, authz.ActionRead)).Get("/", h.Attendance.List)
						r.With(perms.Require(authz.ResourceAttendance, authz.ActionWrite)).Post("/", h.Attendance.Record)
					})

					r.Route("/assignments", func(r chi.Router) {
						r.With(perms.Require(authz.ResourceAssignment, authz.ActionRead)).Get("/", h.Assignment.ListForEmployee)
						r.With(perms.Require(authz.ResourceAssignment, authz.ActionWrite)).Post("/", h.Assignment.CreateForEmployee)
						r.With(perms.Require(authz.ResourceAssignment, authz.ActionWrite)).Put("/{assignmentId}", h.Assignment.UpdateForEmployee)
						r.With(perms.Require(authz.ResourceAssignment, authz.ActionWrite)).Delete("/{assignmentId}", h.Assignment.DeleteForEmployee)
					})
				})
			})

			r.With(perms.Require(authz.ResourceCompensation, authz.ActionRead)).Post("/increments/calculate", h.Compensation.Calculate)

			r.With(perms.Require(authz.ResourceAttendance, authz.ActionWrite)).Delete("/attendance/{id}", h.Attendance.Delete)

			r.Route("/equipment", func(r chi.Router) {
				r.With(perms.Require(authz.ResourceEquipment, authz.ActionRead)).Get("/", h.Equipment.List)
				r.With(perms.Require(authz.ResourceEquipment, authz.ActionWrite)).Post("/", h.Equipment.Create)

				r.Route("/{id}", func(r chi.Router) {
					r.With(perms.Require(authz.ResourceEquipment, authz.ActionRead)).Get("/", h.Equipment.Get)
					r.With(perms.Require(authz.ResourceEquipment, authz.ActionWrite)).Put("/", h.Equipment.Update)

					r.Route("/assignments", func(r chi.Router) {
						r.With(perms.Require(authz.ResourceAssignment, authz.ActionRead)).Get("/", h.Assignment.ListForEquipment)
						r.With(perms.Require(authz.ResourceAssignment, authz.ActionWrite)).Post("/", h.Assignment.CreateForEquipment)
						r.With(perms.Require(authz.ResourceAssignment, authz.ActionWrite)).Delete("/{assignmentId}", h.Assignment.DeleteForEquipment)
					})
				})
			})

			r.Route("/payroll", func(r chi.Router) {
				r.With(perms.Require(authz.ResourcePayroll, authz.ActionRead)).Get("/settings", h.Payroll.GetSettings)
				r.With(perms.Require(authz.ResourcePayroll, authz.ActionWrite)).Put("/settings", h.Payroll.UpdateSettings)

				r.With(perms.Require(authz.ResourcePayroll, authz.ActionWrite)).Post("/generate", h.Payroll.GeneratePayroll)
				r.With(perms.Require(authz.ResourcePayroll, authz.ActionFinalize)).Post("/finalize", h.Payroll.FinalizePayroll)
				r.With(perms.Require(authz.ResourcePayroll, authz.ActionRead)).Get("/summary", h.Payroll.GetPayrollSummary)
				r.With(perms.Require(authz.ResourcePayroll, authz.ActionRead)).Post("/aggregate", h.Payroll.Aggregate)

				r.Route("/records", func(r chi.Router) {
					r.With(perms.Require(authz.ResourcePayroll, authz.ActionRead)).Get("/", h.Payroll.ListPayrollRecords)

					r.Route("/{id}", func(r chi.Router) {
						r.With(perms.Require(authz.ResourcePayroll, authz.ActionRead)).Get("/", h.Payroll.GetPayrollRecord)
						r.With(perms.Require(authz.ResourcePayroll, authz.ActionWrite)).Put("/", h.Payroll.UpdatePayrollRecord)
						r.With(perms.Require(authz.ResourcePayroll, authz.ActionWrite)).Delete("/", h.Payroll.DeletePayrollRecord)
						r.With(perms.Require(authz.ResourcePayroll, authz.ActionWrite)).Post("/recompute", h.Payroll.RecomputePayrollRecord)
						r.With(perms.Require(authz.ResourcePayroll, authz.ActionRead)).Get("/payslip", h.Payroll.GetPayslip)
					})
				})
			})
		})
	})
	return r
}

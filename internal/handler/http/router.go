package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/schoolworks/staff-backend-go/internal/handler/http/middleware"
	"github.com/schoolworks/staff-backend-go/internal/pkg/jwt"
)

type Handlers struct {
	Auth         AuthHandler
	Employee     EmployeeHandler
	Location     LocationHandler
	Attendance   AttendanceHandler
	Face         FaceHandler
	Leave        LeaveHandler
	Payroll      PayrollHandler
	Notification NotificationHandler
	Audit        AuditHandler
	Report       ReportHandler
}

func NewRouter(jwtService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "staff-backend"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)

			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
				r.Use(middleware.AuthRequired(jwtService.JWTAuth()))
				r.Post("/change-password", h.Auth.ChangePassword)
			})
		})

		// SSE stream authenticates with its own short-lived token
		r.Get("/notifications/stream", h.Notification.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/employees", func(r chi.Router) {
				r.Get("/me", h.Employee.GetMyProfile)
				r.Get("/{id}", h.Employee.GetEmployee)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/", h.Employee.ListEmployees)
					r.Put("/{id}", h.Employee.UpdateEmployee)
					r.Get("/{employeeID}/leave-balances", h.Leave.GetEmployeeBalances)
					r.Get("/{employeeID}/components", h.Payroll.GetEmployeeComponents)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Post("/", h.Employee.CreateEmployee)
					r.Delete("/{id}", h.Employee.DeleteEmployee)
					r.Post("/{id}/deactivate", h.Employee.DeactivateEmployee)
					r.Post("/{employeeID}/leave-balances/initialize", h.Leave.InitializeBalances)
					r.Post("/{employeeID}/components", h.Payroll.AssignComponent)
				})

				// Face enrollment is manager+ only
				r.Route("/{employeeID}/face", func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Post("/", h.Face.Enroll)
					r.Delete("/", h.Face.Remove)
					r.Get("/", h.Face.Status)
					r.Get("/verifications", h.Face.VerificationHistory)
				})
			})

			r.Route("/locations", func(r chi.Router) {
				r.Get("/", h.Location.List)
				r.Get("/{id}", h.Location.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Post("/", h.Location.Create)
					r.Put("/{id}", h.Location.Update)
					r.Patch("/{id}/status", h.Location.SetActive)
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/check-in", h.Attendance.CheckIn)
				r.Post("/check-out", h.Attendance.CheckOut)
				r.Get("/me", h.Attendance.GetMyAttendance)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/", h.Attendance.List)
					r.Get("/{id}", h.Attendance.Get)
					r.Post("/manual", h.Attendance.ManualEntry)
					r.Post("/mark-absentees", h.Attendance.MarkAbsentees)
				})
			})

			r.Route("/leave", func(r chi.Router) {
				r.Get("/types", h.Leave.ListTypes)
				r.Get("/balances/me", h.Leave.GetMyBalances)

				r.Route("/requests", func(r chi.Router) {
					r.Post("/", h.Leave.CreateRequest)
					r.Get("/me", h.Leave.GetMyRequests)
					r.Get("/{id}", h.Leave.GetRequest)
					r.Post("/{id}/cancel", h.Leave.CancelRequest)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireManager)
						r.Get("/", h.Leave.ListRequests)
						r.Post("/{id}/approve", h.Leave.ApproveRequest)
						r.Post("/{id}/reject", h.Leave.RejectRequest)
					})
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Post("/types", h.Leave.CreateType)
					r.Put("/types/{id}", h.Leave.UpdateType)
				})
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Get("/payslips/me", h.Payroll.GetMyPayslips)
				r.Get("/records/{id}", h.Payroll.GetRecord)
				r.Get("/records/{id}/payslip", h.Report.DownloadPayslip)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Route("/components", func(r chi.Router) {
						r.Get("/", h.Payroll.ListComponents)
						r.Post("/", h.Payroll.CreateComponent)
						r.Put("/{id}", h.Payroll.UpdateComponent)
					})
					r.Delete("/employee-components/{id}", h.Payroll.RemoveEmployeeComponent)

					r.Post("/generate", h.Payroll.Generate)
					r.Get("/records", h.Payroll.ListRecords)
					r.Post("/records/mark-paid", h.Payroll.MarkPaid)
					r.Delete("/records/{id}", h.Payroll.DeleteDraft)
					r.Post("/records/{id}/correct", h.Payroll.Correct)
					r.Get("/periods/{period}/totals", h.Payroll.GetPeriodTotals)
				})
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", h.Notification.List)
				r.Get("/unread-count", h.Notification.UnreadCount)
				r.Post("/mark-read", h.Notification.MarkAsRead)
				r.Post("/mark-all-read", h.Notification.MarkAllAsRead)
				r.Delete("/{id}", h.Notification.Delete)
				r.Get("/preferences", h.Notification.GetPreferences)
				r.Put("/preferences", h.Notification.UpdatePreference)
				r.Post("/sse-token", h.Notification.GetSSEToken)
			})

			r.Route("/audit", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/events", h.Audit.List)
				r.Get("/events/{id}", h.Audit.Get)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Use(middleware.RequireManager)
				r.Get("/attendance", h.Report.GetMonthlyAttendanceReport)
				r.Get("/payroll", h.Report.GetPayrollSummaryReport)
				r.Get("/payroll/export", h.Report.ExportPayrollSummaryXLSX)
				r.Get("/leave-balance", h.Report.GetLeaveBalanceReport)
			})
		})
	})
	return r
}

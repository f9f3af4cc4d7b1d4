package routes

import (
	"time"

	"carepath-api/internal/adapters/http/handlers"
	"carepath-api/internal/adapters/http/middleware"
	"carepath-api/internal/adapters/persistence/repositories"
	"carepath-api/internal/config"
	"carepath-api/internal/core/services"
	"carepath-api/internal/pkg/cache"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Services holds the wired service layer. The cron scheduler and CLI
// commands use it alongside the HTTP handlers.
type Services struct {
	Auth       *services.AuthService
	User       *services.UserService
	Patient    *services.PatientService
	Program    *services.ProgramService
	Session    *services.SessionService
	Enrollment *services.EnrollmentService
	Medication *services.MedicationService
	Dashboard  *services.DashboardService
}

// NewServices builds repositories and services on top of db
func NewServices(db *gorm.DB, c cache.Cache, cfg *config.Config) *Services {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	patientRepo := repositories.NewPatientRepository(db)
	programRepo := repositories.NewProgramRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)
	enrollmentRepo := repositories.NewEnrollmentRepository(db)
	attendanceRepo := repositories.NewAttendanceRepository(db)
	medicationRepo := repositories.NewMedicationRepository(db)
	prescriptionRepo := repositories.NewPrescriptionRepository(db)
	dispenseRepo := repositories.NewDispenseRepository(db)

	notifyService := services.NewNotificationService(cfg.Reset.WebhookURL)
	if !notifyService.IsEnabled() {
		log.Warn().Msg("⚠️ RESET_WEBHOOK_URL not set, password reset links are only logged")
	}

	return &Services{
		Auth:       services.NewAuthService(userRepo, notifyService, cfg),
		User:       services.NewUserService(userRepo),
		Patient:    services.NewPatientService(patientRepo, userRepo, cfg),
		Program:    services.NewProgramService(programRepo, c, cfg),
		Session:    services.NewSessionService(sessionRepo, programRepo, patientRepo, enrollmentRepo, attendanceRepo, cfg),
		Enrollment: services.NewEnrollmentService(enrollmentRepo, patientRepo, programRepo, sessionRepo, attendanceRepo),
		Medication: services.NewMedicationService(medicationRepo, prescriptionRepo, dispenseRepo, patientRepo, cfg),
		Dashboard: services.NewDashboardService(
			userRepo,
			patientRepo,
			programRepo,
			sessionRepo,
			enrollmentRepo,
			attendanceRepo,
			cfg,
		),
	}
}

// NewApp creates the Fiber app with the global middleware stack
func NewApp(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "CarePath API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	middleware.Setup(app, cfg)
	return app
}

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, svc *Services, cfg *config.Config) {
	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db, cfg)
	authHandler := handlers.NewAuthHandler(svc.Auth, cfg)
	userHandler := handlers.NewUserHandler(svc.User)
	patientHandler := handlers.NewPatientHandler(svc.Patient)
	programHandler := handlers.NewProgramHandler(svc.Program)
	sessionHandler := handlers.NewSessionHandler(svc.Session)
	enrollmentHandler := handlers.NewEnrollmentHandler(svc.Enrollment)
	medicationHandler := handlers.NewMedicationHandler(svc.Medication)
	dashboardHandler := handlers.NewDashboardHandler(svc.Dashboard)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Prometheus metrics
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	auth := middleware.AuthMiddleware(cfg)
	optionalAuth := middleware.OptionalAuth(cfg)

	// ============================================================
	// Auth
	// ============================================================
	authRoutes := apiV1.Group("/auth")
	authRoutes.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	authRoutes.Post("/refresh", authHandler.RefreshToken)
	authRoutes.Post("/admin/create", middleware.AuthRateLimiter(), authHandler.CreateAdmin)
	authRoutes.Post("/forgot-password", middleware.StrictRateLimiter(), authHandler.ForgotPassword)
	authRoutes.Post("/reset-password", middleware.StrictRateLimiter(), authHandler.ResetPassword)
	authRoutes.Post("/logout", auth, authHandler.Logout)
	authRoutes.Get("/me", auth, middleware.NoCacheHeaders(), authHandler.Me)
	authRoutes.Post("/change-password", auth, authHandler.ChangePassword)
	authRoutes.Post("/staff/create", auth, middleware.AdminOnly(), authHandler.CreateStaff)

	// ============================================================
	// Users
	// ============================================================
	apiV1.Get("/users", auth, middleware.AdminOnly(), userHandler.ListUsers)

	// ============================================================
	// Patients
	// ============================================================
	patientRoutes := apiV1.Group("/patient", auth)
	patientRoutes.Post("/", middleware.StaffOrAdmin(), patientHandler.CreatePatient)
	patientRoutes.Get("/", patientHandler.ListPatients)
	patientRoutes.Get("/assigned-to/:assignedToId", middleware.StaffOrAdmin(), patientHandler.ListAssignedPatients)
	patientRoutes.Get("/:patientId", patientHandler.GetPatient)

	// ============================================================
	// Programs (listings are public)
	// ============================================================
	programRoutes := apiV1.Group("/program")
	programRoutes.Get("/", optionalAuth, middleware.PublicCacheHeaders(30*time.Second), programHandler.ListPrograms)
	programRoutes.Get("/upcoming", optionalAuth, middleware.PublicCacheHeaders(30*time.Second), programHandler.ListUpcomingPrograms)
	programRoutes.Post("/", auth, middleware.AdminOnly(), programHandler.CreateProgram)
	programRoutes.Patch("/:id", auth, middleware.AdminOnly(), programHandler.UpdateProgram)
	programRoutes.Get("/:id", auth, programHandler.GetProgram)

	// ============================================================
	// Sessions & attendance
	// ============================================================
	sessionRoutes := apiV1.Group("/sessions", auth)
	sessionRoutes.Get("/", sessionHandler.ListSessions)
	sessionRoutes.Post("/program", middleware.StaffOrAdmin(), sessionHandler.CreateSession)
	sessionRoutes.Post("/program/bulk", middleware.StaffOrAdmin(), sessionHandler.CreateSessions)
	sessionRoutes.Get("/program/:programId", sessionHandler.ListProgramSessions)
	sessionRoutes.Post("/patient", middleware.StaffOrAdmin(), sessionHandler.RecordAttendance)
	sessionRoutes.Get("/patient", middleware.StaffOrAdmin(), sessionHandler.ListAttendance)
	sessionRoutes.Get("/patient/export", middleware.StaffOrAdmin(), middleware.NoCacheHeaders(), sessionHandler.ExportAttendance)
	sessionRoutes.Get("/patient/:patientId", sessionHandler.ListPatientAttendance)
	sessionRoutes.Patch("/cancel/:attendanceId", middleware.StaffOrAdmin(), sessionHandler.CancelAttendance)
	sessionRoutes.Get("/:sessionId", sessionHandler.GetSession)

	// ============================================================
	// Enrollments
	// ============================================================
	enrollmentRoutes := apiV1.Group("/enrollments", auth)
	enrollmentRoutes.Post("/", middleware.StaffOrAdmin(), enrollmentHandler.Enroll)
	enrollmentRoutes.Get("/", middleware.NoCacheHeaders(), enrollmentHandler.ListMyEnrollments)
	enrollmentRoutes.Get("/program/:programId", enrollmentHandler.ListProgramEnrollments)

	// ============================================================
	// Medications
	// ============================================================
	medicationRoutes := apiV1.Group("/medications", auth, middleware.StaffOrAdmin())
	medicationRoutes.Post("/", medicationHandler.CreateMedication)
	medicationRoutes.Post("/bulk", medicationHandler.CreateMedications)
	medicationRoutes.Get("/", middleware.PrivateCacheHeaders(30*time.Second), medicationHandler.ListMedications)
	medicationRoutes.Post("/patient/prescribe", medicationHandler.Prescribe)
	medicationRoutes.Get("/prescriptions", medicationHandler.ListPrescriptions)
	medicationRoutes.Post("/patient/dispense", medicationHandler.Dispense)
	medicationRoutes.Get("/dispense/history", medicationHandler.ListDispenseHistory)

	// ============================================================
	// Dashboard
	// ============================================================
	dashboardRoutes := apiV1.Group("/dashboard", auth, middleware.NoCacheHeaders())
	dashboardRoutes.Get("/admin", middleware.AdminOnly(), dashboardHandler.GetAdminDashboard)
	dashboardRoutes.Get("/staff", middleware.StaffOrAdmin(), dashboardHandler.GetStaffDashboard)
}

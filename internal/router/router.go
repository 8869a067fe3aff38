package router

import (
	"log"

	"github.com/redis/go-redis/v9"

	"labour/backend/foundation/web"
	"labour/backend/internal/auth"
	"labour/backend/internal/middleware"
	"labour/backend/internal/pkg/cache"
	"labour/backend/internal/pkg/config"
	"labour/backend/internal/pkg/repository/postgresql"
	"labour/backend/internal/repository/postgres/employee"
	"labour/backend/internal/repository/postgres/entry"
	"labour/backend/internal/repository/postgres/labour"
	"labour/backend/internal/repository/postgres/report"
	"labour/backend/internal/repository/postgres/site"
	"labour/backend/internal/repository/postgres/user"
	"labour/backend/internal/service/reporting"
	"labour/backend/internal/service/wagecard"
	"labour/backend/internal/wage"

	auth_controller "labour/backend/internal/controller/http/v1/auth"
	employee_controller "labour/backend/internal/controller/http/v1/employee"
	entry_controller "labour/backend/internal/controller/http/v1/entry"
	labour_controller "labour/backend/internal/controller/http/v1/labour"
	report_controller "labour/backend/internal/controller/http/v1/report"
	site_controller "labour/backend/internal/controller/http/v1/site"
	user_controller "labour/backend/internal/controller/http/v1/user"
	wagecard_controller "labour/backend/internal/controller/http/v1/wagecard"
)

type Router struct {
	*web.App
	postgresDB *postgresql.Database
	redisDB    *redis.Client
	auth       *auth.Auth
	cfg        *config.Config
	log        *log.Logger
}

func NewRouter(
	app *web.App,
	postgresDB *postgresql.Database,
	redisDB *redis.Client,
	auth *auth.Auth,
	cfg *config.Config,
	log *log.Logger,
) *Router {
	return &Router{
		app,
		postgresDB,
		redisDB,
		auth,
		cfg,
		log,
	}
}

// Init wires repositories, services and controllers and registers every route.
func (r Router) Init() {

	r.HandleMethodNotAllowed = true
	r.Use(middleware.CORSMiddleware(r.cfg.AllowedOrigins))

	// - postgresql
	userPostgres := user.NewRepository(r.postgresDB)
	sitePostgres := site.NewRepository(r.postgresDB)
	employeePostgres := employee.NewRepository(r.postgresDB)
	labourPostgres := labour.NewRepository(r.postgresDB)
	entryPostgres := entry.NewRepository(r.postgresDB)
	reportPostgres := report.NewRepository(r.postgresDB)

	// - redis
	wageCache := cache.NewWageCache(r.redisDB, r.cfg.CacheTTL, r.log)

	// service
	cards := wagecard.NewService(labourPostgres, entryPostgres, wage.NewCalculator(r.cfg.WagePolicy), wageCache)
	reports := reporting.NewService(entryPostgres, reportPostgres, r.cfg.ReportThresholds)

	// controller
	authController := auth_controller.NewController(userPostgres, employeePostgres, labourPostgres, r.auth)
	userController := user_controller.NewController(userPostgres)
	siteController := site_controller.NewController(sitePostgres)
	employeeController := employee_controller.NewController(employeePostgres)
	labourController := labour_controller.NewController(labourPostgres, cards)
	entryController := entry_controller.NewController(entryPostgres, labourPostgres, cards)
	wagecardController := wagecard_controller.NewController(cards)
	reportController := report_controller.NewController(reports)

	admin := middleware.Authenticate(r.auth, auth.TypeAdmin)
	employeeOnly := middleware.Authenticate(r.auth, auth.TypeEmployee)
	labourOnly := middleware.Authenticate(r.auth, auth.TypeLabour)
	can := middleware.RequireCapability

	// #auth
	r.Post("/api/v1/sign-in", authController.SignIn)
	r.Post("/api/v1/refresh-token", authController.RefreshToken)

	// #admin
	r.Get("/api/v1/admin", userController.GetUserList, admin, can(auth.CapAdmin))
	r.Get("/api/v1/admin/permissions", userController.GetPermissions, admin)
	r.Get("/api/v1/admin/:id", userController.GetUserDetailById, admin, can(auth.CapAdmin))
	r.Post("/api/v1/admin", userController.CreateUser, admin, can(auth.CapAdmin))
	r.Patch("/api/v1/admin/:id", userController.UpdateUserColumns, admin, can(auth.CapAdmin))
	r.Delete("/api/v1/admin/:id", userController.DeleteUser, admin, can(auth.CapAdmin))

	// #site
	r.Get("/api/v1/site", siteController.GetList, admin, can(auth.CapSite))
	r.Get("/api/v1/site/:id", siteController.GetDetailById, admin, can(auth.CapSite))
	r.Post("/api/v1/site", siteController.Create, admin, can(auth.CapSite))
	r.Patch("/api/v1/site/:id", siteController.UpdateColumns, admin, can(auth.CapSite))
	r.Delete("/api/v1/site/:id", siteController.Delete, admin, can(auth.CapSite))

	// #employee
	r.Get("/api/v1/employee", employeeController.GetList, admin, can(auth.CapEmployee))
	r.Get("/api/v1/employee/:id", employeeController.GetDetailById, admin, can(auth.CapEmployee))
	r.Post("/api/v1/employee", employeeController.Create, admin, can(auth.CapEmployee))
	r.Patch("/api/v1/employee/:id", employeeController.UpdateColumns, admin, can(auth.CapEmployee))
	r.Patch("/api/v1/employee/:id/toggle", employeeController.ToggleStatus, admin, can(auth.CapEmployee))
	r.Delete("/api/v1/employee/:id", employeeController.Delete, admin, can(auth.CapEmployee))

	// #labour
	r.Get("/api/v1/labour", labourController.GetList, admin, can(auth.CapLabour))
	r.Get("/api/v1/labour/qrcode-list", labourController.GetQrCodeList, admin, can(auth.CapLabour))
	r.Get("/api/v1/labour/import-template", labourController.GetImportTemplate, admin, can(auth.CapLabour))
	r.Post("/api/v1/labour/import", labourController.Import, admin, can(auth.CapLabour))
	r.Get("/api/v1/labour/:id", labourController.GetDetailById, admin, can(auth.CapLabour))
	r.Get("/api/v1/labour/:id/wage", labourController.GetWage, admin, can(auth.CapLabour))
	r.Get("/api/v1/labour/:id/qrcode", labourController.GetQrCode, admin, can(auth.CapLabour))
	r.Post("/api/v1/labour", labourController.Create, admin, can(auth.CapLabour))
	r.Patch("/api/v1/labour/:id", labourController.UpdateColumns, admin, can(auth.CapLabour))
	r.Patch("/api/v1/labour/:id/toggle", labourController.ToggleStatus, admin, can(auth.CapLabour))
	r.Post("/api/v1/labour/:id/visa-payment", labourController.AddVisaPayment, admin, can(auth.CapLabour))
	r.Post("/api/v1/labour/:id/advance", labourController.AddAdvancePayment, admin, can(auth.CapLabour))
	r.Delete("/api/v1/labour/:id", labourController.Delete, admin, can(auth.CapLabour))

	// #entry
	r.Get("/api/v1/entry/today", entryController.GetTodayList, employeeOnly)
	r.Get("/api/v1/entry/labours", entryController.GetOptions, employeeOnly)
	r.Get("/api/v1/entry/:id", entryController.GetDetailById, employeeOnly)
	r.Post("/api/v1/entry", entryController.Create, employeeOnly)
	r.Put("/api/v1/entry/:id", entryController.Update, employeeOnly)
	r.Delete("/api/v1/entry/:id", entryController.Delete, employeeOnly)

	// #wage card
	r.Get("/api/v1/wage-card", wagecardController.GetOwn, labourOnly)

	// #report
	r.Get("/api/v1/report", reportController.GetReport, admin)
	r.Get("/api/v1/report/chart-data", reportController.GetChartData, admin)
	r.Get("/api/v1/report/export/:format", reportController.Export, admin)
}

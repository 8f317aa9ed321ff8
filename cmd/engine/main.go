package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/shiftly-hq/presence-backend-go/internal/config"
	appHTTP "github.com/shiftly-hq/presence-backend-go/internal/handler/http"
	"github.com/shiftly-hq/presence-backend-go/internal/pkg/cron"
	"github.com/shiftly-hq/presence-backend-go/internal/pkg/database"
	"github.com/shiftly-hq/presence-backend-go/internal/pkg/jwt"
	"github.com/shiftly-hq/presence-backend-go/internal/pkg/mailer"
	"github.com/shiftly-hq/presence-backend-go/internal/repository/postgresql"
	anomalyService "github.com/shiftly-hq/presence-backend-go/internal/service/anomaly"
	deviceService "github.com/shiftly-hq/presence-backend-go/internal/service/device"
	"github.com/shiftly-hq/presence-backend-go/internal/service/ledger"
	"github.com/shiftly-hq/presence-backend-go/internal/service/managerres"
	punchService "github.com/shiftly-hq/presence-backend-go/internal/service/punch"
	"github.com/shiftly-hq/presence-backend-go/internal/service/reconcile"
	"github.com/shiftly-hq/presence-backend-go/internal/service/scheduleres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	punchRepo := postgresql.NewPunchEventRepository(db)
	anomalyRepo := postgresql.NewAnomalyRepository(db)
	scheduleRepo := postgresql.NewScheduleRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	orgRepo := postgresql.NewOrgRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	tenantRepo := postgresql.NewTenantRepository(db)
	notifyLogRepo := postgresql.NewNotifyLogRepository(db)
	deviceRepo := postgresql.NewDeviceRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	dispatcher, err := mailer.NewDispatcher(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize mail dispatcher:", err)
	}

	resolver := scheduleres.NewResolver(scheduleRepo, tenantRepo)
	managers := managerres.NewService(orgRepo, employeeRepo)
	ledgerSvc := ledger.NewService(notifyLogRepo)
	reconciler := reconcile.NewService(
		db,
		punchRepo,
		anomalyRepo,
		scheduleRepo,
		leaveRepo,
		tenantRepo,
		employeeRepo,
		resolver,
		managers,
		ledgerSvc,
		dispatcher,
	)
	punchSvc := punchService.NewEventService(punchRepo, employeeRepo, tenantRepo, reconciler, managers)
	anomalySvc := anomalyService.NewService(anomalyRepo, managers)
	deviceSvc := deviceService.NewService(deviceRepo)

	scheduler := cron.NewScheduler()
	cron.NewReconcileJobs(reconciler, cfg.Cron.ReconcileInterval).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	punchHandler := appHTTP.NewPunchHandler(punchSvc, deviceSvc)
	anomalyHandler := appHTTP.NewAnomalyHandler(anomalySvc)

	router := appHTTP.NewRouter(jwtService, punchHandler, anomalyHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	server := &http.Server{Addr: port, Handler: router}

	go func() {
		fmt.Printf("Server running at http://localhost%s\n", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Println("Server error:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("Shutting down...")
	if err := server.Close(); err != nil {
		fmt.Println("Server close error:", err)
	}
}

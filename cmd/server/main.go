package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"

	corepersistence "github.com/veltapack/masterdata/modules/core/infrastructure/persistence"
	corecontrollers "github.com/veltapack/masterdata/modules/core/presentation/controllers"
	coreservices "github.com/veltapack/masterdata/modules/core/services"
	"github.com/veltapack/masterdata/modules/masterdata/infrastructure/persistence"
	"github.com/veltapack/masterdata/modules/masterdata/presentation/controllers"
	"github.com/veltapack/masterdata/modules/masterdata/services"
	"github.com/veltapack/masterdata/pkg/configuration"
	"github.com/veltapack/masterdata/pkg/eventbus"
	"github.com/veltapack/masterdata/pkg/metrics"
	"github.com/veltapack/masterdata/pkg/middleware"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			configuration.Use().Unload()
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	conf := configuration.Use()
	logger := conf.Logger()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		panic(err)
	}
	defer pool.Close()

	if err := corepersistence.EnsureControlSchema(ctx, pool); err != nil {
		log.Fatalf("failed to ensure control schema: %v", err)
	}

	bus := eventbus.NewEventPublisher(logger)
	allocator := persistence.NewAllocator(
		persistence.WithMaxAttempts(conf.Allocator.MaxAttempts),
		persistence.WithBackoff(conf.Allocator.RetryBackoff),
	)

	tenantService := coreservices.NewTenantService(corepersistence.NewTenantRepository(), pool)
	materialService := services.NewMaterialService(persistence.NewMaterialRepository(allocator), bus)
	departmentService := services.NewDepartmentService(persistence.NewDepartmentRepository(allocator))
	employeeService := services.NewEmployeeService(persistence.NewEmployeeRepository(allocator), bus)

	router := mux.NewRouter()
	router.Use(
		middleware.WithLogger(logger),
		middleware.WithPool(pool),
	)

	tenantGuard := middleware.RequireTenant(tenantService)
	for _, controller := range []interface {
		Key() string
		Register(r *mux.Router)
	}{
		corecontrollers.NewTenantsController(tenantService),
		controllers.NewMaterialsController(materialService, tenantGuard),
		controllers.NewDepartmentsController(departmentService, tenantGuard),
		controllers.NewEmployeesController(employeeService, tenantGuard),
	} {
		controller.Register(router)
		logger.WithField("key", controller.Key()).Debug("controller registered")
	}

	if conf.Prometheus.Enabled {
		metrics.NewPrometheusController(conf.Prometheus.Path).Register(router)
	}

	handler := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(router)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", conf.ServerPort),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Infof("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
	configuration.Use().Unload()
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/appetiteclub/concierge/internal/backend"
	"github.com/appetiteclub/concierge/internal/browse"
	"github.com/appetiteclub/concierge/internal/bus"
	"github.com/appetiteclub/concierge/internal/catalog"
	"github.com/appetiteclub/concierge/internal/events"
	"github.com/appetiteclub/concierge/internal/manager"
	"github.com/appetiteclub/concierge/internal/mongo"
	"github.com/aquamarinepk/aqm"
	aqmevents "github.com/aquamarinepk/aqm/events"
	"github.com/aquamarinepk/aqm/middleware"
)

const (
	appNamespace = "CATALOG"
	appName      = "concierge"
	appVersion   = "0.1.0"
)

func main() {
	config, err := aqm.LoadConfig(appNamespace, os.Args[1:])
	if err != nil {
		log.Fatalf("Cannot setup %s(%s): %v", appName, appVersion, err)
	}

	logLevel, _ := config.GetString("log.level")
	logger := aqm.NewLogger(logLevel)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	// Snapshot repository for warm starts when the backend is down
	snapshotRepo := mongo.NewSnapshotRepo(config, logger)

	// Admin backend client
	backendURL := config.GetStringOrDef("services.backend.url", "http://localhost:8085")
	propertyID := config.GetStringOrDef("property.id", "")
	dataAccess := backend.NewDataAccess(aqm.NewServiceClient(backendURL), propertyID, logger)

	store := catalog.NewStore(dataAccess, snapshotRepo, logger)
	sessions := browse.NewSessionCache(store, logger)

	// Event bus: optional, the service degrades to poll-free operation
	// with manual reloads when no broker is configured.
	var publisher aqmevents.Publisher = bus.NoopPublisher{}
	lifecycle := []interface{}{snapshotRepo}

	natsURL, _ := config.GetString("nats.url")
	if natsURL != "" {
		natsPublisher, err := bus.NewNATSPublisher(natsURL)
		if err != nil {
			log.Fatalf("Cannot connect to NATS publisher: %v", err)
		}
		publisher = natsPublisher

		natsSubscriber, err := bus.NewNATSSubscriber(natsURL, logger)
		if err != nil {
			log.Fatalf("Cannot connect to NATS subscriber: %v", err)
		}
		lifecycle = append(lifecycle, events.NewCatalogSubscriber(natsSubscriber, store, logger))
	}

	browseHandler := browse.NewHandler(store, sessions, config, logger)
	managerHandler := manager.NewHandler(store, dataAccess, publisher, config, logger)

	// Warm the mirror after the snapshot repo is connected; live load
	// first, stored snapshots as fallback.
	warmHooks := aqm.LifecycleHooks{
		OnStart: func(ctx context.Context) error {
			if err := store.Warm(ctx); err != nil {
				logger.Errorf("Catalog warm start incomplete: %v", err)
			}
			return nil
		},
	}
	lifecycle = append(lifecycle, warmHooks)

	stack := middleware.DefaultStack(middleware.StackOptions{
		Logger:      logger,
		DisableCORS: false, // guest browsing surface is public
	})

	options := []aqm.Option{
		aqm.WithConfig(config),
		aqm.WithLogger(logger),
		aqm.WithHTTPMiddleware(stack...),
		aqm.WithHTTPServerModules("web.port", browseHandler, managerHandler),
		aqm.WithLifecycle(lifecycle...),
		aqm.WithHealthChecks(appName),
	}

	ms := aqm.NewMicro(options...)
	logger.Infof("Starting %s(%s)", appName, appVersion)

	if err := ms.Run(ctx); err != nil {
		log.Fatalf("%s(%s) stopped with error: %v", appName, appVersion, err)
	}

	logger.Infof("%s(%s) stopped", appName, appVersion)
}

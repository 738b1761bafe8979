package main

import (
	"context"
	"fmt"

	"logbook-creator/internal/domain/entity"
	"logbook-creator/internal/domain/repository"
	"logbook-creator/internal/infrastructure/oauth"
	"logbook-creator/internal/infrastructure/persistence"
	"logbook-creator/internal/infrastructure/router"
	"logbook-creator/internal/interface/gmail"
	"logbook-creator/internal/interface/openflights"
	repo "logbook-creator/internal/interface/repository"
	"logbook-creator/internal/interface/spreadsheet"
	"logbook-creator/internal/usecase"
	"logbook-creator/pkg/metrics"
	"logbook-creator/pkg/suncalc"
	"logbook-creator/pkg/utils"
	"logbook-creator/templates"

	"github.com/spf13/cobra"
)

const metricsJob = "logbook_run"

func runCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Process the inbox, store flights and rebuild the workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context())
		},
	}
}

func reorganizeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reorganize",
		Short: "Sort the rows already in the workbook by date and departure time",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.reorganize(cmd.Context())
		},
	}
}

func updateAirportsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "update-airports",
		Short: "Refresh the airport table from OpenFlights",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.updateAirports(cmd.Context())
		},
	}
}

func (a *app) run(ctx context.Context) error {
	defer a.sync()
	a.log.Info("Starting logbook run")

	if err := a.cfg.Validate(); err != nil {
		a.log.Fatal("Invalid configuration", "error", err)
	}

	airports, aircraft, err := a.loadReferenceData(ctx)
	if err != nil {
		a.log.Fatal("Failed to load reference data", "error", err)
	}

	// Set up MongoDB connection
	mongoClient, err := persistence.NewMongoClient(ctx, a.cfg.MongoURI, a.cfg.MongoUser, a.cfg.MongoPassword, a.cfg.RequestTimeout)
	if err != nil {
		a.log.Fatal("Failed to connect to MongoDB", "error", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			a.log.Error("MongoDB disconnect error", "error", err)
		}
	}()
	db := persistence.GetDatabase(mongoClient, a.cfg.MongoDB)

	flightRepo, err := repo.NewMongoFlightRecordRepository(ctx, db, a.cfg.MongoCollection)
	if err != nil {
		a.log.Fatal("Failed to set up flight storage", "error", err)
	}
	emailLogRepo, err := repo.NewMongoEmailLogRepository(ctx, db)
	if err != nil {
		a.log.Fatal("Failed to set up email log storage", "error", err)
	}

	// Set up Gmail OAuth
	gmailOAuth := oauth.NewGmailOAuth(oauth.Credentials{
		ClientID:     a.cfg.GmailClientID,
		ClientSecret: a.cfg.GmailClientSecret,
		RefreshToken: a.cfg.GmailRefreshToken,
	}, a.log)
	tokenSource, err := gmailOAuth.GetTokenSource(ctx)
	if err != nil {
		a.log.Fatal("Failed to set up Gmail OAuth", "error", err)
	}
	mailbox, err := gmail.NewGmailService(ctx, tokenSource, a.log)
	if err != nil {
		a.log.Fatal("Failed to create Gmail service", "error", err)
	}

	parser := utils.NewFlightLogParser(airports, suncalc.NewSunCalc(), a.log)
	subjectRouter := router.NewSubjectRouter(a.log)
	subjectRouter.Register(templates.NewLogbookReportHandler(parser, aircraft, a.cfg.LogbookSubject, a.log))

	m := metrics.NewMetrics("logbook")
	workbook := spreadsheet.NewLogbookWorkbook(a.cfg.LogbookXLSX, a.cfg.LogbookTemplate, aircraft, a.log)

	orchestrator := usecase.NewEmailOrchestrator(
		mailbox,
		emailLogRepo,
		flightRepo,
		workbook,
		subjectRouter,
		m,
		usecase.OrchestratorOptions{
			Folder:         a.cfg.GmailFolder,
			TrashProcessed: a.cfg.TrashProcessed,
		},
		a.log,
	)

	summary, runErr := orchestrator.Run(ctx)
	a.pushMetrics(m)
	if runErr != nil {
		a.log.Error("Logbook run failed", "error", runErr)
		return runErr
	}

	fmt.Printf("Processed %d messages: %d flights extracted, %d emails trashed, %d flights in %s\n",
		summary.MessagesListed, summary.FlightsExtracted, summary.EmailsTrashed, summary.FlightsExported, a.cfg.LogbookXLSX)
	return nil
}

func (a *app) reorganize(ctx context.Context) error {
	defer a.sync()

	aircraftRepo := repo.NewCSVAircraftRepository(a.cfg.AircraftCSV)
	aircraft, err := aircraftRepo.LoadAircraft(ctx)
	if err != nil {
		a.log.Fatal("Failed to load aircraft data", "error", err)
	}

	workbook := spreadsheet.NewLogbookWorkbook(a.cfg.LogbookXLSX, a.cfg.LogbookTemplate, aircraft, a.log)
	count, err := usecase.NewLogbookReorganizer(workbook, a.log).Reorganize()
	if err != nil {
		a.log.Error("Failed to reorganize logbook", "error", err)
		return err
	}

	fmt.Printf("Reorganized %d flights in %s\n", count, a.cfg.LogbookXLSX)
	return nil
}

func (a *app) updateAirports(ctx context.Context) error {
	defer a.sync()

	stores := []repository.AirportStore{repo.NewCSVAirportRepository(a.cfg.AirportsCSV)}

	if a.cfg.AirportsPostgresDSN != "" {
		gormDB, err := persistence.NewPostgresDB(a.cfg.AirportsPostgresDSN)
		if err != nil {
			a.log.Fatal("Failed to connect to PostgreSQL", "error", err)
		}
		airportDB := repo.NewGormAirportRepository(gormDB)
		if err := airportDB.Migrate(ctx); err != nil {
			a.log.Fatal("Failed to migrate airports table", "error", err)
		}
		stores = append(stores, airportDB)
	}

	source := openflights.NewClient(a.cfg.OpenFlightsURL, a.cfg.RequestTimeout, a.log)
	count, err := usecase.NewAirportUpdater(source, a.log, stores...).Update(ctx)
	if err != nil {
		a.log.Error("Failed to update airports", "error", err)
		return err
	}

	fmt.Printf("Saved %d airports to %s\n", count, a.cfg.AirportsCSV)
	return nil
}

// loadReferenceData reads the airport table from Postgres when configured, otherwise from CSV
func (a *app) loadReferenceData(ctx context.Context) (entity.AirportTable, entity.AircraftTable, error) {
	var airportRepo repository.AirportRepository = repo.NewCSVAirportRepository(a.cfg.AirportsCSV)
	if a.cfg.AirportsPostgresDSN != "" {
		gormDB, err := persistence.NewPostgresDB(a.cfg.AirportsPostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", repository.ErrReferenceData, err)
		}
		airportRepo = repo.NewGormAirportRepository(gormDB)
	}

	airports, err := airportRepo.LoadAirports(ctx)
	if err != nil {
		return nil, nil, err
	}

	aircraft, err := repo.NewCSVAircraftRepository(a.cfg.AircraftCSV).LoadAircraft(ctx)
	if err != nil {
		return nil, nil, err
	}

	a.log.Info("Reference data loaded", "airports", len(airports), "aircraft", len(aircraft))
	return airports, aircraft, nil
}

func (a *app) pushMetrics(m *metrics.Metrics) {
	if a.cfg.PushgatewayURL == "" {
		return
	}
	if err := m.Push(a.cfg.PushgatewayURL, metricsJob, a.runID); err != nil {
		a.log.Warn("Failed to push metrics", "error", err)
	}
}

package config

import (
	"pdf-annotator/internal/domain"
	"pdf-annotator/internal/export"
	"pdf-annotator/internal/repository"
	"pdf-annotator/internal/service"
	"pdf-annotator/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config               domain.Config
	Logger               domain.Logger
	SupabaseClient       domain.SupabaseClient
	AnnotationRepository domain.AnnotationRepository
	FileRepository       domain.FileRepository

	Tracker    *service.ViewportTracker
	Mapper     *service.CoordinateMapper
	Store      *service.AnnotationStore
	Machine    *service.DrawingMachine
	Inspector  *service.PDFInspector
	Fetcher    domain.DocumentFetcher
	Compositor domain.Compositor

	SyncService   *service.SyncService
	ExportService *service.ExportService
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	config := NewConfig()
	appLogger := logger.NewLogger(config.GetLogLevel())

	// Initialize Supabase client
	supabaseClient := repository.NewSupabaseClient(config, appLogger)

	// Initialize repositories
	annotationRepo := repository.NewAnnotationRepository(supabaseClient, appLogger)
	fileRepo := repository.NewFileRepository(supabaseClient, appLogger)

	// Initialize the annotation engine
	tracker := service.NewViewportTracker(appLogger)
	mapper := service.NewCoordinateMapper(tracker)
	store := service.NewAnnotationStore(appLogger)
	machine := service.NewDrawingMachine(mapper, store, appLogger)
	inspector := service.NewPDFInspector(appLogger)
	fetcher := service.NewDocumentService(config, appLogger)
	compositor := export.NewCompositor(appLogger)

	syncService := service.NewSyncService(store, annotationRepo, fileRepo, appLogger)
	exportService := service.NewExportService(store, machine, fetcher, compositor, appLogger)

	return &Container{
		Config:               config,
		Logger:               appLogger,
		SupabaseClient:       supabaseClient,
		AnnotationRepository: annotationRepo,
		FileRepository:       fileRepo,
		Tracker:              tracker,
		Mapper:               mapper,
		Store:                store,
		Machine:              machine,
		Inspector:            inspector,
		Fetcher:              fetcher,
		Compositor:           compositor,
		SyncService:          syncService,
		ExportService:        exportService,
	}
}

// GetConfig returns the configuration instance
func (c *Container) GetConfig() domain.Config {
	return c.Config
}

// GetLogger returns the logger instance
func (c *Container) GetLogger() domain.Logger {
	return c.Logger
}

// GetSupabaseClient returns the Supabase client instance
func (c *Container) GetSupabaseClient() domain.SupabaseClient {
	return c.SupabaseClient
}

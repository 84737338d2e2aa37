package app

import (
	"context"
	"fmt"
	"syscall"

	"github.com/shopspring/decimal"
	"golang.org/x/term"

	"github.com/andy/freelancedesk/internal/api"
	"github.com/andy/freelancedesk/internal/config"
	"github.com/andy/freelancedesk/internal/crypto"
	"github.com/andy/freelancedesk/internal/db"
	"github.com/andy/freelancedesk/internal/domain"
	"github.com/andy/freelancedesk/internal/repository"
	"github.com/andy/freelancedesk/internal/service"
)

// App is the dependency injection container for all application components
type App struct {
	Config *config.Config
	DB     *db.DB

	// Repositories
	UserRepo    repository.UserRepository
	ClientRepo  repository.ClientRepository
	ProjectRepo repository.ProjectRepository
	TrialRepo   repository.TrialRepository
	InvoiceRepo repository.InvoiceRepository
	TaskRepo    repository.TaskRepository
	ExpenseRepo repository.ExpenseRepository
	TimeLogRepo repository.TimeLogRepository

	// Services
	TimerService     service.TimerService
	TrialService     service.TrialService
	InvoiceService   service.InvoiceService
	DashboardService service.DashboardService

	// HTTP API
	Server *api.Server
}

// New creates a new App instance, initializing all dependencies:
// config, encryption key, database, migrations, repositories, services,
// and the API server.
func New(ctx context.Context) (*App, error) {
	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return NewWithConfig(ctx, cfg)
}

// NewWithConfig creates an App with a provided config (useful for testing)
func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	keyring := crypto.NewKeyring()

	password, err := keyring.GetKey()
	if err != nil {
		// No key exists, prompt user to set one
		fmt.Println("Setting up database encryption for the first time...")
		password, err = promptForPassword()
		if err != nil {
			return nil, fmt.Errorf("failed to set password: %w", err)
		}

		if err := keyring.SetKey(password); err != nil {
			return nil, fmt.Errorf("failed to store encryption key: %w", err)
		}
	}

	database, err := db.Open(cfg.Database.Path, password)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := database.RunMigrations(); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	pricing, err := trialPricing(cfg)
	if err != nil {
		database.Close()
		return nil, err
	}

	userRepo := repository.NewUserRepo(database)
	clientRepo := repository.NewClientRepo(database)
	projectRepo := repository.NewProjectRepo(database)
	trialRepo := repository.NewTrialRepo(database)
	invoiceRepo := repository.NewInvoiceRepo(database)
	taskRepo := repository.NewTaskRepo(database)
	expenseRepo := repository.NewExpenseRepo(database)
	timeLogRepo := repository.NewTimeLogRepo(database)

	timerService := service.NewTimerService(projectRepo)
	trialService := service.NewTrialService(trialRepo, projectRepo, pricing)
	invoiceService := service.NewInvoiceService(invoiceRepo, clientRepo)
	dashboardService := service.NewDashboardService(clientRepo, projectRepo, invoiceRepo)

	server := api.NewServer(
		userRepo, clientRepo, projectRepo, taskRepo, expenseRepo, timeLogRepo,
		timerService, trialService, invoiceService, dashboardService,
	)
	if cfg.Server.Metrics {
		server.EnableMetrics()
	}

	return &App{
		Config:           cfg,
		DB:               database,
		UserRepo:         userRepo,
		ClientRepo:       clientRepo,
		ProjectRepo:      projectRepo,
		TrialRepo:        trialRepo,
		InvoiceRepo:      invoiceRepo,
		TaskRepo:         taskRepo,
		ExpenseRepo:      expenseRepo,
		TimeLogRepo:      timeLogRepo,
		TimerService:     timerService,
		TrialService:     trialService,
		InvoiceService:   invoiceService,
		DashboardService: dashboardService,
		Server:           server,
	}, nil
}

// Close cleanly shuts down the application
func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

// SaveConfig saves the current configuration to disk
func (a *App) SaveConfig() error {
	return a.Config.Save(config.DefaultConfigPath())
}

// trialPricing builds the tiering policy from config, keeping the defaults
// when fields are unset.
func trialPricing(cfg *config.Config) (domain.TrialPricing, error) {
	pricing := domain.DefaultTrialPricing()
	if cfg.Trials.FreeSessions > 0 {
		pricing.FreeSessions = cfg.Trials.FreeSessions
	}
	if cfg.Trials.ExtraCost != "" {
		cost, err := decimal.NewFromString(cfg.Trials.ExtraCost)
		if err != nil {
			return domain.TrialPricing{}, fmt.Errorf("invalid trials.extra_cost %q: %w", cfg.Trials.ExtraCost, err)
		}
		if cost.IsNegative() {
			return domain.TrialPricing{}, fmt.Errorf("trials.extra_cost cannot be negative")
		}
		pricing.ExtraCost = cost
	}
	return pricing, nil
}

// promptForPassword prompts user for a new database password (first run)
func promptForPassword() (string, error) {
	fmt.Println()
	fmt.Println("Your business data will be encrypted with a password.")
	fmt.Println("This password will be stored securely in your system keyring.")
	fmt.Println()
	fmt.Print("Enter a password for database encryption: ")

	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	if len(password) == 0 {
		return "", fmt.Errorf("password cannot be empty")
	}

	fmt.Print("Confirm password: ")
	confirm, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read confirmation: %w", err)
	}

	if string(password) != string(confirm) {
		return "", fmt.Errorf("passwords do not match")
	}

	fmt.Println()
	fmt.Println("Database encryption configured successfully")
	fmt.Println()

	return string(password), nil
}

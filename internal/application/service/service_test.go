package service

import (
	"context"
	"testing"
	"time"

	"github.com/freelio/freelio-api/internal/domain/entity"
	"github.com/freelio/freelio-api/internal/domain/enum"
	"github.com/freelio/freelio-api/internal/infrastructure/database"
	infraRepo "github.com/freelio/freelio-api/internal/infrastructure/repository"
	"github.com/freelio/freelio-api/pkg/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testEnv wires the services against an in-memory sqlite database, which
// supports everything the repositories use except ILIKE search.
type testEnv struct {
	db        *gorm.DB
	auth      *AuthService
	clients   *ClientService
	projects  *ProjectService
	budgets   *BudgetService
	invoices  *InvoiceService
	dashboard *DashboardService

	freelancer *entity.User
	client     *entity.Client
	project    *entity.Project
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	// one connection keeps the in-memory database alive across the pool
	sqlDB.SetMaxOpenConns(1)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	userRepo := infraRepo.NewUserRepository(db)
	clientRepo := infraRepo.NewClientRepository(db)
	projectRepo := infraRepo.NewProjectRepository(db)
	budgetRepo := infraRepo.NewBudgetRepository(db)
	invoiceRepo := infraRepo.NewInvoiceRepository(db)
	tx := database.NewTxManager(db)

	env := &testEnv{
		db:        db,
		auth:      NewAuthService(userRepo, utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)),
		clients:   NewClientService(clientRepo, userRepo),
		projects:  NewProjectService(projectRepo, clientRepo),
		budgets:   NewBudgetService(budgetRepo, invoiceRepo, projectRepo, tx),
		invoices:  NewInvoiceService(invoiceRepo, tx),
		dashboard: NewDashboardService(invoiceRepo, userRepo),
	}

	env.freelancer = &entity.User{
		Username:    "maria",
		Email:       "maria@example.com",
		Password:    "irrelevant",
		AccountType: enum.AccountTypeFreelancer,
		Active:      true,
	}
	if err := userRepo.Create(context.Background(), env.freelancer); err != nil {
		t.Fatalf("seed freelancer: %v", err)
	}

	env.client = &entity.Client{
		UserID: env.freelancer.ID,
		Name:   "Acme SL",
		Email:  "billing@acme.example",
		Active: true,
	}
	if err := clientRepo.Create(context.Background(), env.client); err != nil {
		t.Fatalf("seed client: %v", err)
	}

	env.project = &entity.Project{
		UserID:    env.freelancer.ID,
		ClientID:  env.client.ID,
		Name:      "Website relaunch",
		Status:    enum.ProjectStatusActive,
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := projectRepo.Create(context.Background(), env.project); err != nil {
		t.Fatalf("seed project: %v", err)
	}

	return env
}

func (env *testEnv) newUser(t *testing.T, username string, accountType enum.AccountType) *entity.User {
	t.Helper()
	user := &entity.User{
		Username:    username,
		Email:       username + "@example.com",
		Password:    "irrelevant",
		AccountType: accountType,
		Active:      true,
	}
	if err := env.db.Create(user).Error; err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return user
}

// newBudget creates a draft budget of 1000.00 at 21% tax with the given
// validity window.
func (env *testEnv) newBudget(t *testing.T, issue, validity time.Time) *entity.Budget {
	t.Helper()
	budget, err := env.budgets.CreateBudget(context.Background(), &CreateBudgetInput{
		UserID:       env.freelancer.ID,
		ProjectID:    env.project.ID,
		IssueDate:    issue,
		ValidityDate: validity,
		BaseAmount:   decimal.NewFromInt(1000),
	})
	if err != nil {
		t.Fatalf("create budget: %v", err)
	}
	return budget
}

// acceptedBudget walks a fresh budget to accepted.
func (env *testEnv) acceptedBudget(t *testing.T, issue, validity, now time.Time) *entity.Budget {
	t.Helper()
	budget := env.newBudget(t, issue, validity)
	if _, err := env.budgets.SendBudget(context.Background(), env.freelancer.ID, budget.ID, now); err != nil {
		t.Fatalf("send budget: %v", err)
	}
	budget, err := env.budgets.AcceptBudget(context.Background(), env.freelancer.ID, budget.ID, now)
	if err != nil {
		t.Fatalf("accept budget: %v", err)
	}
	return budget
}

// convertedInvoice walks a fresh budget all the way to its invoice.
func (env *testEnv) convertedInvoice(t *testing.T, issue, validity, now time.Time) *entity.Invoice {
	t.Helper()
	budget := env.acceptedBudget(t, issue, validity, now)
	invoice, err := env.budgets.ConvertToInvoice(context.Background(), env.freelancer.ID, budget.ID, now)
	if err != nil {
		t.Fatalf("convert budget: %v", err)
	}
	return invoice
}

func (env *testEnv) reloadBudget(t *testing.T, id uuid.UUID) *entity.Budget {
	t.Helper()
	var budget entity.Budget
	if err := env.db.First(&budget, "id = ?", id).Error; err != nil {
		t.Fatalf("reload budget: %v", err)
	}
	return &budget
}

func (env *testEnv) reloadInvoice(t *testing.T, id uuid.UUID) *entity.Invoice {
	t.Helper()
	var invoice entity.Invoice
	if err := env.db.First(&invoice, "id = ?", id).Error; err != nil {
		t.Fatalf("reload invoice: %v", err)
	}
	return &invoice
}

package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	types "github.com/brickline/brickline-backend/internal/domain"
	"github.com/brickline/brickline-backend/internal/pkg/logger"
	"github.com/brickline/brickline-backend/internal/utils"
)

type Service struct {
	db  *gorm.DB
	log *logger.Logger
}

// New connects to Postgres, or to a local sqlite file when DB_DRIVER=sqlite is
// set for development without a running database.
func New(log *logger.Logger) (*Service, error) {
	serviceLog := log.With("service", "DBService")

	driver := utils.GetEnv("DB_DRIVER", "postgres", log)

	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		path := utils.GetEnv("SQLITE_PATH", "brickline.db", log)
		dialector = sqlite.Open(path)
	default:
		host := utils.GetEnv("POSTGRES_HOST", "localhost", log)
		port := utils.GetEnv("POSTGRES_PORT", "5432", log)
		user := utils.GetEnv("POSTGRES_USER", "postgres", log)
		password := utils.GetEnv("POSTGRES_PASSWORD", "", log)
		name := utils.GetEnv("POSTGRES_NAME", "brickline", log)
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)
		dialector = postgres.Open(dsn)
	}

	log.Info("Connecting to database...", "driver", driver)
	gdb, err := gorm.Open(dialector, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if driver == "postgres" {
		if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
			log.Error("Failed to enable uuid-ossp extension", "error", err)
			return nil, fmt.Errorf("enable uuid-ossp extension: %w", err)
		}
	}

	return &Service{db: gdb, log: serviceLog}, nil
}

func (s *Service) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...")
	err := s.db.AutoMigrate(
		&types.Project{},
		&types.Company{},
		&types.CostCode{},
		&types.Budget{},
		&types.BudgetLine{},
		&types.Commitment{},
		&types.CommitmentLine{},
		&types.ChangeOrder{},
		&types.ChangeOrderLine{},
		&types.VendorBill{},
		&types.VarianceAlert{},
	)
	if err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}

	if s.db.Dialector.Name() == "postgres" {
		// Safety net for concurrent variance scans: at most one open alert per
		// (project, cost_code, budget). The detector still does an explicit
		// find-then-insert; this index catches the race.
		if err := s.db.Exec(`
			CREATE UNIQUE INDEX IF NOT EXISTS uq_variance_alert_open
			ON "variance_alert" ("project_id", COALESCE("cost_code_id", '00000000-0000-0000-0000-000000000000'::uuid), "budget_id")
			WHERE "status" = 'open'
		`).Error; err != nil {
			return fmt.Errorf("create uq_variance_alert_open: %w", err)
		}
	}
	return nil
}

func (s *Service) DB() *gorm.DB {
	return s.db
}

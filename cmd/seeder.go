package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/frahmantamala/task-management/internal/core/events"
	"github.com/frahmantamala/task-management/internal/user"
	userPostgres "github.com/frahmantamala/task-management/internal/user/postgres"
	"github.com/frahmantamala/task-management/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	seedEmail    string
	seedPassword string
	seedName     string
)

// seedCmd provisions the first admin. Self-signup only creates employees, so
// this is the only way an admin account comes to exist.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the initial admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
		log := logger.LoggerWrapper()

		store, err := initDB(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to init db: %w", err)
		}
		defer store.Close()

		users := user.NewService(userPostgres.NewUserRepository(store.Gorm), events.NewBus(log), cfg.Security.BCryptCost, log)

		admin, err := users.ProvisionAdmin(context.Background(), seedName, seedEmail, seedPassword)
		if errors.Is(err, user.ErrEmailTaken) {
			fmt.Println("admin user already exists:", user.NormalizeEmail(seedEmail))
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to seed admin: %w", err)
		}

		fmt.Println("Seeded admin user:", admin.Email)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedEmail, "email", "", "admin email")
	seedCmd.Flags().StringVar(&seedPassword, "password", "", "admin password")
	seedCmd.Flags().StringVar(&seedName, "name", "Administrator", "admin display name")
	_ = seedCmd.MarkFlagRequired("email")
	_ = seedCmd.MarkFlagRequired("password")
}

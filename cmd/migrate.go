package cmd

import (
	"errors"
	"log"

	"wavebox/config"
	"wavebox/core/auth"
	"wavebox/db"
	"wavebox/model"
	"wavebox/repository"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations and seed the admin account",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()

		if err := db.ConnectGormDB(cfg); err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.CloseGormDB()

		if err := db.AutoMigrateModels(model.All()...); err != nil {
			log.Fatalf("Failed to migrate models: %v", err)
		}

		if err := seedAdmin(cfg); err != nil {
			log.Fatalf("Failed to seed admin account: %v", err)
		}

		log.Println("Migration completed.")
	},
}

// seedAdmin creates the admin account from env config if it does not exist yet.
func seedAdmin(cfg *config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		log.Println("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin seed.")
		return nil
	}

	userRepo := repository.NewUserRepository(db.GormDB)
	_, err := userRepo.GetByEmail(cfg.AdminEmail)
	if err == nil {
		log.Printf("Admin account %s already exists, skipping.", cfg.AdminEmail)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) && !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}

	admin := &model.User{
		Name:         cfg.AdminName,
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		IsActive:     true,
	}
	if err := userRepo.Create(admin); err != nil {
		return err
	}
	log.Printf("Admin account %s created with ID %d.", admin.Email, admin.ID)
	return nil
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

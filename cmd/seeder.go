package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/dchesque/app-loja/internal/auth"
	coreuser "github.com/dchesque/app-loja/internal/core/user"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

var (
	seedEmail    string
	seedPassword string
	seedName     string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the first MASTER_ADMIN user",
	Long:  `Create a MASTER_ADMIN account so the first administrator can log in and register everybody else.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(seedPassword) < 8 {
			log.Fatal("password must have at least 8 characters")
		}

		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		created, err := seedMasterAdmin(ctx, db, auth.NewBcryptHasher(cfg.Security.BCryptCost), seedEmail, seedPassword, seedName)
		if err != nil {
			log.Fatalf("failed to seed master admin: %v", err)
		}
		if !created {
			fmt.Println("user already exists:", seedEmail)
			return
		}

		fmt.Println("Seeded MASTER_ADMIN user:", seedEmail)
	},
}

// seedMasterAdmin inserts a MASTER_ADMIN unless the e-mail is already taken.
// It reports whether a row was created.
func seedMasterAdmin(ctx context.Context, db *sqlx.DB, hasher auth.PasswordHasher, email, password, name string) (bool, error) {
	var existing string
	err := db.GetContext(ctx, &existing, db.Rebind("SELECT id FROM users WHERE email = ?"), email)
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, sql.ErrNoRows):
		return false, fmt.Errorf("look up user: %w", err)
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return false, err
	}

	_, err = db.NamedExecContext(ctx, `
		INSERT INTO users (id, email, password, name, role, active, created_at)
		VALUES (:id, :email, :password, :name, :role, :active, :created_at)`,
		map[string]any{
			"id":         uuid.NewString(),
			"email":      email,
			"password":   hash,
			"name":       name,
			"role":       string(coreuser.RoleMasterAdmin),
			"active":     true,
			"created_at": time.Now(),
		})
	if err != nil {
		return false, fmt.Errorf("insert master admin: %w", err)
	}
	return true, nil
}

func init() {
	seedCmd.Flags().StringVar(&seedEmail, "email", "admin@loja.com", "master admin e-mail")
	seedCmd.Flags().StringVar(&seedPassword, "password", "", "master admin password (min 8 characters)")
	seedCmd.Flags().StringVar(&seedName, "name", "Administrador", "master admin name")
	_ = seedCmd.MarkFlagRequired("password")
}

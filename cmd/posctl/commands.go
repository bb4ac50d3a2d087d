package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/SoyuzCL/pos-panchita/internal/config"
	"github.com/SoyuzCL/pos-panchita/internal/infra"
	"github.com/SoyuzCL/pos-panchita/internal/model"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "posctl",
		Short:         "Herramientas de operación del POS",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newMigrateCmd(), newSeedAdminCmd(), newHashPasswordCmd())
	return root
}

func openDB() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	// NewDatabase migrates on open.
	db, err := infra.NewDatabase(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Crea o actualiza el esquema de la base de datos",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := openDB()
			if err != nil {
				return err
			}
			log.Info().Str("driver", cfg.DBDriver).Msg("schema up to date")
			return nil
		},
	}
}

func newSeedAdminCmd() *cobra.Command {
	var rut, name, password string
	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Crea o actualiza un administrador activo",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, db, err := openDB()
			if err != nil {
				return err
			}
			emp, err := buildAdmin(rut, name, password, cfg.BcryptCost)
			if err != nil {
				return err
			}
			err = db.WithContext(cmd.Context()).Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "rut"}},
				DoUpdates: clause.AssignmentColumns([]string{"first_name", "last_name", "role", "password_hash", "is_active"}),
			}).Create(emp).Error
			if err != nil {
				return fmt.Errorf("upsert admin: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Administrador %s (%s) listo.\n", emp.FullName(), emp.RUT)
			return nil
		},
	}
	cmd.Flags().StringVar(&rut, "rut", "", "RUT del administrador")
	cmd.Flags().StringVar(&name, "name", "", "nombre completo")
	cmd.Flags().StringVar(&password, "password", "", "contraseña")
	_ = cmd.MarkFlagRequired("rut")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

// buildAdmin splits name into first name and the rest as last name.
func buildAdmin(rut, name, password string, cost int) (*model.Employee, error) {
	rut = strings.TrimSpace(rut)
	parts := strings.Fields(name)
	if rut == "" || len(parts) == 0 {
		return nil, errors.New("rut and name are required")
	}
	if len(password) < 4 {
		return nil, errors.New("password must have at least 4 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, err
	}
	return &model.Employee{
		FirstName:    parts[0],
		LastName:     strings.Join(parts[1:], " "),
		RUT:          rut,
		Role:         model.RoleAdmin,
		PasswordHash: string(hash),
		IsActive:     true,
	}, nil
}

func newHashPasswordCmd() *cobra.Command {
	var cost int
	cmd := &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Imprime el hash bcrypt de una contraseña",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := bcrypt.GenerateFromPassword([]byte(args[0]), cost)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(h))
			return nil
		},
	}
	cmd.Flags().IntVar(&cost, "cost", 12, "bcrypt cost")
	return cmd
}

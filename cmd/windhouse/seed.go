package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/gopalbasak1/wind-house-management-server/internal/config"
	"github.com/gopalbasak1/wind-house-management-server/internal/domain"
	"github.com/gopalbasak1/wind-house-management-server/internal/repository"
	"github.com/gopalbasak1/wind-house-management-server/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func seedCmd() *cobra.Command {
	var file, adminEmail, adminName string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo apartments and bootstrap an admin account",
		Long: `Seed inserts apartments only when the collection is empty, so it is safe
to run repeatedly. The admin account is created, or promoted if it exists.

Examples:
  windhouse seed --admin-email owner@example.com
  windhouse seed --file apartments.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync()

			apartments := demoApartments()
			if file != "" {
				if apartments, err = loadApartments(file); err != nil {
					return err
				}
			}

			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			be, err := openBackend(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer be.close(ctx)

			n, err := service.NewApartmentService(be.store.Apartments, logger).Seed(ctx, apartments)
			if err != nil {
				return err
			}
			logger.Info("apartments seeded", zap.Int("inserted", n))

			if adminEmail != "" {
				if err := ensureAdmin(ctx, be.store.Users, adminEmail, adminName); err != nil {
					return err
				}
				logger.Info("admin ready", zap.String("email", adminEmail))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON array of apartments (default: built-in demo set)")
	cmd.Flags().StringVar(&adminEmail, "admin-email", os.Getenv("SEED_ADMIN_EMAIL"), "email of the admin account to bootstrap")
	cmd.Flags().StringVar(&adminName, "admin-name", "Wind House Admin", "display name for a new admin")
	return cmd
}

// ensureAdmin writes the admin role straight to the store; the API never
// lets a caller grant it to themselves at registration.
func ensureAdmin(ctx context.Context, users repository.UsersRepository, email, name string) error {
	_, created, err := users.CreateUser(ctx, &domain.User{
		Email:     email,
		Name:      name,
		Role:      domain.RoleAdmin,
		Timestamp: time.Now().UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	if created {
		return nil
	}
	role := domain.RoleAdmin
	if err := users.UpdateUserByEmail(ctx, email, domain.UserPatch{Role: &role}); err != nil {
		return fmt.Errorf("promote admin: %w", err)
	}
	return nil
}

func loadApartments(path string) ([]domain.Apartment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var list []domain.Apartment
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return list, nil
}

// demoApartments 4 个楼栋 x 3 层
func demoApartments() []domain.Apartment {
	var list []domain.Apartment
	for _, block := range []string{"A", "B", "C", "D"} {
		for floor := 1; floor <= 3; floor++ {
			list = append(list, domain.Apartment{
				Image:       fmt.Sprintf("https://images.windhouse.example/%s-%d01.jpg", block, floor),
				FloorNo:     fmt.Sprint(floor),
				BlockName:   block,
				ApartmentNo: fmt.Sprintf("%s-%d01", block, floor),
				Rent:        float64(900 + floor*150),
			})
		}
	}
	return list
}

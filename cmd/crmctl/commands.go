package main

import (
	"context"
	"fmt"
	"log/slog"

	"crm/config"
	"crm/internal/domain/entity"
	domainerrors "crm/internal/domain/errors"
	"crm/internal/domain/lifecycle"
	"crm/internal/infra/auth"
	logs "crm/internal/infra/log"
	"crm/internal/infra/persistence/postgres"
	"crm/internal/usecase"
	"crm/internal/usecase/impl"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var (
	adminUsername string
	adminPassword string
	adminPhone    string

	rootCmd = &cobra.Command{
		Use:           "crmctl",
		Short:         "Administrative tasks for the CRM service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE:  runMigrate,
	}

	bootstrapAdminCmd = &cobra.Command{
		Use:   "bootstrap-admin",
		Short: "Create the first super admin account",
		Long: `Creates an approved SUPER_ADMIN account. Flags override the bootstrap section of the
configuration. An existing account with the same username is left untouched.`,
		RunE: runBootstrapAdmin,
	}
)

func init() {
	bootstrapAdminCmd.Flags().StringVar(&adminUsername, "username", "", "super admin username (default: bootstrap.username)")
	bootstrapAdminCmd.Flags().StringVar(&adminPassword, "password", "", "super admin password (default: bootstrap.password)")
	bootstrapAdminCmd.Flags().StringVar(&adminPhone, "phone", "", "super admin phone (default: bootstrap.phone)")

	rootCmd.AddCommand(migrateCmd, bootstrapAdminCmd)
}

// commandDeps is the slice of the service graph the commands need.
type commandDeps struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
	DB     *gorm.DB
	Users  usecase.UserUsecase
}

// withDeps starts a minimal fx graph, runs fn and stops the graph again.
func withDeps(ctx context.Context, fn func(ctx context.Context, deps commandDeps) error) error {
	var deps commandDeps

	app := fx.New(
		fx.NopLogger,
		fx.Provide(
			config.New,
			logs.New,
			postgres.New,
			postgres.NewUserRepository,
			auth.NewBcryptHasher,
			impl.NewUserService,
		),
		fx.Populate(&deps),
	)
	if err := app.Err(); err != nil {
		return errors.Wrap(err, "build dependencies")
	}

	startCtx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return errors.Wrap(err, "start dependencies")
	}

	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), lifecycle.DefaultTimeout)
		defer cancel()
		if err := app.Stop(stopCtx); err != nil {
			deps.Logger.Warn("Failed to stop dependencies", slog.Any("error", err))
		}
	}()

	return fn(ctx, deps)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	return withDeps(cmd.Context(), func(ctx context.Context, deps commandDeps) error {
		return postgres.Migrate(ctx, deps.DB, deps.Logger)
	})
}

func runBootstrapAdmin(cmd *cobra.Command, _ []string) error {
	return withDeps(cmd.Context(), func(ctx context.Context, deps commandDeps) error {
		input := bootstrapInput(deps.Config)
		if input.Username == "" || input.Password == "" {
			return errors.New("super admin username and password are required")
		}

		user, err := deps.Users.Create(ctx, input)
		if errors.Is(err, domainerrors.ErrUserAlreadyExists) {
			fmt.Fprintf(cmd.OutOrStdout(), "super admin %q already exists\n", input.Username)

			return nil
		}
		if err != nil {
			return errors.Wrap(err, "create super admin")
		}

		fmt.Fprintf(cmd.OutOrStdout(), "created super admin %q (%s)\n", user.Username, user.ID)

		return nil
	})
}

func bootstrapInput(cfg *config.Config) usecase.CreateUserInput {
	input := usecase.CreateUserInput{Role: entity.RoleSuperAdmin}
	if cfg.Bootstrap != nil {
		input.Username = cfg.Bootstrap.Username
		input.Password = cfg.Bootstrap.Password
		input.Phone = cfg.Bootstrap.Phone
	}

	if adminUsername != "" {
		input.Username = adminUsername
	}
	if adminPassword != "" {
		input.Password = adminPassword
	}
	if adminPhone != "" {
		input.Phone = adminPhone
	}

	return input
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/bazaar/config"
	"github.com/shashiranjanraj/bazaar/internal/server"
	"github.com/shashiranjanraj/bazaar/pkg/database"
	"github.com/shashiranjanraj/bazaar/pkg/logger"
	"github.com/shashiranjanraj/bazaar/pkg/migration"

	"github.com/shashiranjanraj/bazaar/database/seeders"

	// Register schema migrations.
	_ "github.com/shashiranjanraj/bazaar/database/migrations"
)

func main() {
	root := &cobra.Command{
		Use:   "bazaar",
		Short: "Bazaar storefront and back-office API",
	}

	root.AddCommand(
		serveCmd(),
		migrateCmd(),
		migrateRollbackCmd(),
		migrateStatusCmd(),
		seedCmd(),
		queueWorkCmd(),
		routeListCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run migrations and start the HTTP and gRPC servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := server.New()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connect()
			if err != nil {
				return err
			}
			return migration.Run(db)
		},
	}
}

func migrateRollbackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate:rollback",
		Short: "Roll back the last migration batch",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connect()
			if err != nil {
				return err
			}
			return migration.Rollback(db)
		},
	}
}

func migrateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate:status",
		Short: "Show each migration with its applied batch",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connect()
			if err != nil {
				return err
			}
			status, err := migration.Status(db)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "MIGRATION\tSTATUS")
			for _, s := range status {
				state := "pending"
				if s.Batch > 0 {
					state = fmt.Sprintf("batch %d", s.Batch)
				}
				fmt.Fprintf(w, "%s\t%s\n", s.Name, state)
			}
			return w.Flush()
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the admin account and demo catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connect()
			if err != nil {
				return err
			}
			if err := migration.Run(db); err != nil {
				return err
			}
			return seeders.Run(db)
		},
	}
}

func queueWorkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "queue:work",
		Short: "Run a standalone queue worker process",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := server.New()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.RunWorker(ctx)
		},
	}
}

func routeListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "route:list",
		Short: "List the registered HTTP routes",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := server.New()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "METHOD\tPATH\tNAME")
			for _, route := range srv.Routes() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", route.Method, route.Path, route.Name)
			}
			return w.Flush()
		},
	}
}

func connect() (*gorm.DB, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}
	logger.Init()
	return database.Connect()
}

// Command manage runs maintenance tasks against the configured database.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"task_manager/internal/config"
	"task_manager/internal/model"
	"task_manager/internal/repository"
	"task_manager/internal/service"
	"task_manager/internal/utils"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("INFO: No .env file found, relying on environment variables")
	}

	if err := newApp().Run(os.Args); err != nil {
		log.Fatalf("ERROR: %v", err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "manage",
		Usage: "task manager maintenance commands",
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "apply pending schema migrations",
				Action: migrate,
			},
			{
				Name:  "create-admin",
				Usage: "create an administrator account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "identificacion", Aliases: []string{"i"}, Required: true, Usage: "numeric identification, at least 8 digits"},
					&cli.StringFlag{Name: "contrasena", Aliases: []string{"p"}, Required: true, EnvVars: []string{"ADMIN_CONTRASENA"}, Usage: "password"},
					&cli.StringFlag{Name: "nombre", Value: "Administrador", Usage: "first name"},
					&cli.StringFlag{Name: "apellido", Value: "Principal", Usage: "last name"},
				},
				Action: createAdmin,
			},
		},
	}
}

func openStore(ctx context.Context) (repository.Store, error) {
	db, err := config.LoadDBConfig()
	if err != nil {
		return nil, err
	}
	store, err := config.OpenStore(ctx, db)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

func migrate(c *cli.Context) error {
	store, err := openStore(c.Context)
	if err != nil {
		return err
	}
	defer store.Close()

	log.Println("INFO: Database schema is up to date")
	return nil
}

func createAdmin(c *cli.Context) error {
	store, err := openStore(c.Context)
	if err != nil {
		return err
	}
	defer store.Close()

	// the account service only signs tokens on login
	admins := service.NewAdminService(store, utils.NewJWTUtil("unused", 1))
	admin, created, err := admins.EnsureAdmin(c.Context, model.CreateAccountRequest{
		Identification: c.String("identificacion"),
		FirstName:      c.String("nombre"),
		LastName:       c.String("apellido"),
		Password:       c.String("contrasena"),
	})
	if err != nil {
		return err
	}
	if !created {
		return fmt.Errorf("admin %s already exists", admin.Identification)
	}

	fmt.Fprintf(c.App.Writer, "Administrador %s creado (id %d)\n", admin.Identification, admin.ID)
	return nil
}

package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/logger"
	"github.com/mrlokans/bookshelf/internal/session"
)

// MigrateCommand creates or updates the books table and, for SQL backed
// session stores, the sessions table.
type MigrateCommand struct {
	cfg *config.Config
}

// NewMigrateCommand starts from the environment configuration; flags override it.
func NewMigrateCommand(cfg *config.Config) *MigrateCommand {
	return &MigrateCommand{cfg: cfg}
}

// ParseFlags parses command line flags
func (cmd *MigrateCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)

	driver := fs.String("driver", string(cmd.cfg.Database.Driver), "Database driver: sqlite or postgres")
	fs.StringVar(&cmd.cfg.Database.Path, "db", cmd.cfg.Database.Path, "Path to the sqlite database file")
	fs.StringVar(&cmd.cfg.Database.URL, "url", cmd.cfg.Database.URL, "Postgres connection URL")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s migrate [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create or update the database schema.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	cmd.cfg.Database.Driver = config.DatabaseDriver(*driver)
	return nil
}

// Run executes the migration
func (cmd *MigrateCommand) Run() error {
	logger.Init(cmd.cfg.Global.Environment, cmd.cfg.Global.LogLevel)

	db, err := database.NewDatabase(cmd.cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	store := cmd.cfg.Session.Store
	if store == config.SessionStoreSQLite || store == config.SessionStorePostgres {
		if string(store) == string(db.Driver()) {
			sqlDB, err := db.SQLDB()
			if err != nil {
				return err
			}
			sessions, err := session.NewStore(store, session.StoreBackends{SQL: sqlDB})
			if err != nil {
				return err
			}
			// Only the table is needed here, not the expiry sweeper.
			if s, ok := sessions.(interface{ StopCleanup() }); ok {
				s.StopCleanup()
			}
		}
	}

	var count int64
	if err := db.DB.Model(&entities.Book{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count books: %w", err)
	}

	fmt.Printf("Schema is up to date (%s, %d books)\n", db.Driver(), count)
	return nil
}

package cli

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/terratensor/altnames/internal/adapters/downloader"
	"github.com/terratensor/altnames/internal/adapters/repositories/sqlstore"
	"github.com/terratensor/altnames/internal/app"
	"github.com/terratensor/altnames/internal/app/services"
	"github.com/terratensor/altnames/internal/config"
)

// env is what every subcommand needs after configuration is loaded.
type env struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	cfg        *config.Config
	log        *slog.Logger
	store      *sqlstore.Store
}

// NewRootCommand builds the altnames command tree. Running it without a
// subcommand populates the table.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	e := &env{stdout: stdout, stderr: stderr}

	populate := newPopulateCommand(e)

	rc := &cobra.Command{
		Use:   "altnames",
		Short: "Populate an AlternateNames table from the GeoNames dump",
		Long: `altnames downloads alternateNamesV2 from GeoNames when it is missing,
filters it by language and bulk loads it into a relational table,
preserving the GeoNames alternateNameId as the row ID.

Configuration is read from .env, an optional JSON/YAML file given with
--config and the environment (GEONAMES__ALTERNATENAMESLANGUAGECODES).`,
		PersistentPreRunE: e.setup,
		RunE:              populate.RunE,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
	rc.PersistentFlags().StringVarP(&e.configPath, "config", "c", "", "Configuration file to read from.")

	rc.AddCommand(populate)
	rc.AddCommand(newFetchCommand(e))
	rc.AddCommand(newCountCommand(e))

	rc.SetOut(stdout)
	rc.SetErr(stderr)
	return rc
}

func (e *env) setup(*cobra.Command, []string) error {
	cfg, err := config.Load(e.configPath)
	if err != nil {
		return err
	}
	dialect, err := sqlstore.DialectFor(cfg.Dialect)
	if err != nil {
		return err
	}

	e.cfg = cfg
	e.log = app.NewLogger(cfg.Log)
	e.store = sqlstore.New(dialect, cfg.ConnectionString)
	return nil
}

func (e *env) importer() *services.Importer {
	dl := downloader.New(e.cfg, e.log).WithOutput(e.stdout)
	return services.NewImporter(e.cfg, e.log, e.stdout, dl, e.store, e.store.Dialect())
}

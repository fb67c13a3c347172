// Package cli wires the catalog commands.
package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"

	"catalog-cli/internal/client"
	"catalog-cli/internal/config"
	"catalog-cli/internal/format"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type App struct {
	ConfigFile string
	PrettyJSON bool
	Format     string

	v      *viper.Viper
	cfg    *config.Config
	cfgErr error
}

var glogDefaults sync.Once

func NewRootCmd() *cobra.Command {
	app := &App{}
	app.v, app.cfgErr = config.New()

	cmd := &cobra.Command{
		Use:          "catalog",
		Short:        "Catalog query server, client and browser",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Serve a generated catalog of 1,000,000 items on :3001
  catalog serve

  # Page through it from a script
  catalog items list --q "Item 42" --limit 5

  # Direct item lookup (shortcut for: catalog items show 42)
  catalog 42

  # Interactive browser
  catalog browse
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	// glog registers its flags on the standard flag set; expose them here and log to
	// stderr unless told otherwise.
	glogDefaults.Do(func() {
		_ = flag.Set("logtostderr", "true")
	})
	cmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if !flag.Parsed() {
			_ = flag.CommandLine.Parse(nil)
		}
		if app.cfgErr != nil {
			return writeErr(cmd, app.cfgErr)
		}
		if app.ConfigFile != "" {
			app.v.SetConfigFile(app.ConfigFile)
		}
		cfg, err := config.Load(app.v)
		if err != nil {
			return writeErr(cmd, err)
		}
		app.cfg = cfg
		if cfg.File != "" {
			glog.V(1).Infof("config: %s", cfg.File)
		}
		return nil
	}
	cmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		glog.Flush()
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&app.ConfigFile, "config", envOr("CATALOG_CONFIG", ""), "Config file (default: ~/.catalog/config.yaml)")
	pf.String("base-url", "", "Catalog server base URL (env CATALOG_BASE_URL)")
	pf.BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON/EDN output")
	pf.StringVar(&app.Format, "format", envOr("CATALOG_FORMAT", format.JSON), "Output format (json|edn|table)")
	bindFlag(app.v, config.KeyBaseURL, pf.Lookup("base-url"))

	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newItemsCmd(app))
	cmd.AddCommand(newStateCmd(app))
	cmd.AddCommand(newBrowseCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

func bindFlag(v *viper.Viper, key string, f *pflag.Flag) {
	if v == nil || f == nil {
		return
	}
	_ = v.BindPFlag(key, f)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// newClient returns an API client for the configured base URL.
func newClient(app *App) (*client.Client, error) {
	return client.New(app.cfg.BaseURL, client.Options{})
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/consenterra/website/internal/config"
)

// app carries state shared by the subcommands.
type app struct {
	v          *viper.Viper
	configPath string
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.NewViper()}

	root := &cobra.Command{
		Use:   "consenterra",
		Short: "ConsenTerra website server",
		Long: `consenterra serves the ConsenTerra marketing site. Pages are server
rendered; the navigation bar stays interactive over a live websocket.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to a YAML, TOML or JSON config file")

	root.AddCommand(
		newServeCmd(a),
		newRoutesCmd(),
		newConfigCmd(a),
		newVersionCmd(),
	)

	return root
}

// load reads the effective configuration for the invoked command.
func (a *app) load() (config.Config, error) {
	return config.Load(a.v, a.configPath)
}

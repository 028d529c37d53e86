package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/joeydtaylor/steeze-remote/pkg/keyword"
	"github.com/joeydtaylor/steeze-remote/pkg/serverfx"
)

var (
	manifestPath string
	listenAddr   string
)

var rootCmd = &cobra.Command{
	Use:   "steeze-remote",
	Short: "Serve a keyword library over JSON-RPC",
	Long: `steeze-remote exposes a keyword library to remote test runners.

Clients list keywords with get_keyword_names and call them with
run_keyword(name, args[, kwargs]) at the configured RPC path.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := fx.New(
			serverfx.Module(serverOptions()...),
			fx.WithLogger(func(zl *zap.Logger) fxevent.Logger {
				return &fxevent.ZapLogger{Logger: zl.Named("fx")}
			}),
		)
		if err := app.Err(); err != nil {
			return err
		}
		app.Run()
		return nil
	},
}

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "List the keywords the manifest enables, with their signatures",
	RunE: func(cmd *cobra.Command, args []string) error {
		man, err := serverfx.ProvideManifest(serverfx.NewConfig(serverOptions()...))
		if err != nil {
			return err
		}
		reg, err := serverfx.ProvideRegistry(serverfx.ProvideLibrary(man), zap.NewNop())
		if err != nil {
			return err
		}
		return printKeywords(cmd, reg)
	},
}

func printKeywords(cmd *cobra.Command, reg *keyword.Registry) error {
	out := cmd.OutOrStdout()
	for _, name := range reg.Names() {
		h, _ := reg.Lookup(name)
		if _, err := fmt.Fprintf(out, "%s\t%s\n", name, h.Signature()); err != nil {
			return err
		}
	}
	return nil
}

func serverOptions() []serverfx.Option {
	var opts []serverfx.Option
	if manifestPath != "" {
		opts = append(opts, serverfx.WithManifest(manifestPath))
	}
	if listenAddr != "" {
		opts = append(opts, serverfx.WithListen(listenAddr))
	}
	return opts
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&manifestPath, "manifest", "m", "", "manifest file (.toml or .yaml); defaults to $REMOTE_MANIFEST or ./manifest.toml")
	rootCmd.PersistentFlags().StringVar(&listenAddr, "listen", "", "listen address, overrides the manifest and $SERVER_LISTEN_ADDRESS")
	rootCmd.AddCommand(keywordsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the ppd-mac2linux CLI. It converts a
// printer driver description file installed by a macOS driver into one the
// Linux print system can use.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/ppd-mac2linux/internal/history"
	"github.com/pdiddy/ppd-mac2linux/internal/ppd"
	"github.com/pdiddy/ppd-mac2linux/internal/report"
	"github.com/pdiddy/ppd-mac2linux/internal/rewrite"
	"github.com/pdiddy/ppd-mac2linux/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const appName = "ppd-mac2linux"

// resourceDir is where driver files are looked up.
var resourceDir = ppd.ResourceDir

// errUsage marks a command line that does not name exactly a driver file
// and an output directory.
var errUsage = errors.New("usage")

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   appName + " <PPD file> <output directory>",
		Short: "Convert a macOS printer driver PPD for use on Linux",
		Long: `ppd-mac2linux reads a PPD file installed by a macOS printer driver and
writes a copy that the Linux print system accepts. The platform and file
name entries are rewritten, filters and macOS-only attributes are removed,
and referenced ICC profiles are copied next to the output file.

The PPD file is looked up by name in ` + resourceDir + `.
The output directory must already exist.

Use the history subcommand to list runs recorded with --history.`,
		Version:       version,
		Args:          exactArgs(2),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile, _ := cmd.Flags().GetString("config")
			cfg, err := loadConfig(v, cfgFile, stderr)
			if err != nil {
				return err
			}
			return runConvert(cmd.Context(), cfg, args[0], args[1], stdout)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(*cobra.Command, error) error { return errUsage })
	cmd.CompletionOptions.DisableDefaultCmd = true

	cmd.PersistentFlags().String("config", "", "config file (default: ./"+appName+".yaml or ~/.config/"+appName+"/"+appName+".yaml)")
	cmd.Flags().String("report", "", "write a YAML report of the conversion to this file")
	cmd.Flags().String("history", "", "record the conversion in this SQLite database")

	bindFlag(v, "report", cmd.Flags().Lookup("report"))
	bindFlag(v, "history_db", cmd.Flags().Lookup("history"))
	v.SetDefault("extra_mac_attributes", []string{})

	cmd.AddCommand(newHistoryCmd(v, stdout, stderr))

	return cmd
}

func bindFlag(v *viper.Viper, key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("binding flag %s: %v", flag.Name, err))
	}
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return errUsage
		}
		return nil
	}
}

// loadConfig reads the optional config file and PPD_MAC2LINUX_* environment
// variables on top of the flag values.
func loadConfig(v *viper.Viper, cfgFile string, stderr io.Writer) (types.ConvertConfig, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(appName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", appName))
		}
	}

	v.SetEnvPrefix("PPD_MAC2LINUX")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err == nil {
		fmt.Fprintln(stderr, "Using config file:", v.ConfigFileUsed())
	} else if cfgFile != "" {
		return types.ConvertConfig{}, fmt.Errorf("reading config %s: %w", cfgFile, err)
	}

	var cfg types.ConvertConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return types.ConvertConfig{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// runConvert loads fileName from the resource directory, converts it into
// destDir and records the run when configured to.
func runConvert(ctx context.Context, cfg types.ConvertConfig, fileName, destDir string, w io.Writer) error {
	doc, err := ppd.Load(resourceDir, fileName)
	if err != nil {
		return err
	}
	if !doc.Exists {
		return fmt.Errorf("%s not found", doc.SourcePath)
	}

	opts := rewrite.Options{ExtraMacAttributes: cfg.ExtraMacAttributes}
	set, err := rewrite.Convert(doc, destDir, opts, w)
	if err != nil {
		return err
	}

	now := time.Now()
	if cfg.ReportPath != "" {
		if err := report.Write(cfg.ReportPath, report.Build(doc, set, now)); err != nil {
			return err
		}
	}
	if cfg.HistoryDB != "" {
		if err := recordHistory(ctx, cfg.HistoryDB, history.NewRun(doc, set, now)); err != nil {
			return err
		}
	}
	return nil
}

func recordHistory(ctx context.Context, path string, run history.Run) error {
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = store.Record(ctx, run)
	return err
}

func printUsage(cmd *cobra.Command, w io.Writer) {
	fmt.Fprintf(w, "Usage: %s <PPD file> <output directory>\n", appName)
	fmt.Fprintf(w, "  PPD file is file name in %s\n", resourceDir)
	fmt.Fprintf(w, "\nFlags:\n%s", cmd.LocalFlags().FlagUsages())
}

// run executes the CLI and returns the process exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, errUsage) {
			printUsage(cmd, stdout)
			return 1
		}
		fmt.Fprintln(stdout, types.Diagnostic{Level: types.LevelError, Message: err.Error()})
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

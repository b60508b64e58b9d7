// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/ppd-mac2linux/internal/history"
)

func newHistoryCmd(v *viper.Viper, stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List conversions recorded with --history",
		Long: `History lists the conversion runs recorded in the SQLite history
database, newest first. The database is taken from --db, or from the
history_db config key or PPD_MAC2LINUX_HISTORY_DB when --db is not given.`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile, _ := cmd.Flags().GetString("config")
			cfg, err := loadConfig(v, cfgFile, stderr)
			if err != nil {
				return err
			}

			dbPath, _ := cmd.Flags().GetString("db")
			if dbPath == "" {
				dbPath = cfg.HistoryDB
			}
			limit, _ := cmd.Flags().GetInt("limit")
			jsonOutput, _ := cmd.Flags().GetBool("json")

			return runHistory(cmd, dbPath, limit, jsonOutput, stdout)
		},
	}

	cmd.Flags().String("db", "", "history database (default: history_db from config)")
	cmd.Flags().Int("limit", 20, "maximum number of runs to list")
	cmd.Flags().Bool("json", false, "output runs as JSON")

	return cmd
}

func runHistory(cmd *cobra.Command, dbPath string, limit int, jsonOutput bool, w io.Writer) error {
	if dbPath == "" {
		return fmt.Errorf("no history database: pass --db or set history_db")
	}

	// Listing must not create an empty database as a side effect.
	if _, err := os.Stat(dbPath); errors.Is(err, fs.ErrNotExist) {
		return formatHistoryOutput(nil, jsonOutput, w)
	}

	store, err := history.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List(cmd.Context(), limit)
	if err != nil {
		return err
	}
	return formatHistoryOutput(runs, jsonOutput, w)
}

func formatHistoryOutput(runs []history.Run, jsonOutput bool, w io.Writer) error {
	if jsonOutput {
		if runs == nil {
			runs = []history.Run{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "No conversions recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-4s  %-20s  %-30s  %-9s  %-8s  %s\n",
		"ID", "Converted", "File", "Lines", "Warnings", "Profiles")
	fmt.Fprintln(w, strings.Repeat("-", 90))

	for _, r := range runs {
		name := r.FileName
		if len(name) > 30 {
			name = name[:27] + "..."
		}
		lines := fmt.Sprintf("%d/%d", r.LinesOut, r.LinesIn)
		fmt.Fprintf(w, "%-4d  %-20s  %-30s  %-9s  %-8d  %d\n",
			r.ID, r.ConvertedAt.UTC().Format(time.RFC3339), name, lines, r.Warnings, len(r.Profiles))
	}

	fmt.Fprintf(w, "\n%d runs\n", len(runs))
	return nil
}

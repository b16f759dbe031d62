package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	etp "github.com/pumped-fn/etp-sizing"
	"github.com/pumped-fn/etp-sizing/extensions"
	"github.com/pumped-fn/etp-sizing/pkg/engine"
	"github.com/pumped-fn/etp-sizing/pkg/snapshot"
)

var (
	format    string
	groupName string
	graphRoot string
	dbPath    string
)

var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Print the settled sizing",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openSession()
		if err != nil {
			return err
		}
		defer e.Dispose()

		snap, err := e.Snapshot()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch format {
		case "table":
			renderSnapshot(out, snap)
			return nil
		case "json":
			return snapshot.NewJSONExporter(out).Export(cmd.Context(), snap)
		case "yaml":
			return snapshot.NewYAMLExporter(out).Export(cmd.Context(), snap)
		}
		return fmt.Errorf("unknown format %q (table, json or yaml)", format)
	},
}

var valuesCmd = &cobra.Command{
	Use:   "values",
	Short: "Print the calculated values of one group, or list the groups",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openSession()
		if err != nil {
			return err
		}
		defer e.Dispose()

		if groupName == "" {
			for _, name := range engine.GroupNames() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		}

		values, err := e.GroupValue(groupName)
		if err != nil {
			return err
		}
		renderValues(cmd.OutOrStdout(), groupName, values)
		return nil
	},
}

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Draw the groups recomputed when a cell changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openSession()
		if err != nil {
			return err
		}
		defer e.Dispose()

		all := append(engine.InputCells(), engine.Groups()...)
		i := slices.IndexFunc(all, func(g engine.Group) bool { return g.Name == graphRoot })
		if i < 0 {
			return fmt.Errorf("%w: %q", engine.ErrUnknownGroup, graphRoot)
		}
		fmt.Fprintln(cmd.OutOrStdout(), extensions.RenderDependents(e.Scope().Graph(), all[i].Cell))
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Store the settled snapshot in a SQLite file",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openSession()
		if err != nil {
			return err
		}
		defer e.Dispose()

		store, err := snapshot.OpenSQLite(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()

		snap, err := e.Snapshot()
		if err != nil {
			return err
		}
		if err := store.Export(cmd.Context(), snap); err != nil {
			return err
		}
		logger.Info("snapshot stored",
			zap.String("db", store.Path()),
			zap.String("session", snap.SessionID),
			zap.Uint64("version", snap.Version),
		)
		fmt.Fprintf(cmd.OutOrStdout(), "%s@%d\n", snap.SessionID, snap.Version)
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history [session]",
	Short: "List the snapshots stored in a SQLite file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := snapshot.OpenSQLite(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()

		var session string
		if len(args) == 1 {
			session = args[0]
		}
		entries, err := store.List(cmd.Context(), session)
		if err != nil {
			return err
		}
		renderHistory(cmd.OutOrStdout(), entries)
		return nil
	},
}

func init() {
	computeCmd.Flags().StringVar(&format, "format", "table", "output format: table, json or yaml")
	valuesCmd.Flags().StringVarP(&groupName, "group", "g", "", "group name (see: etpsizing values)")
	graphCmd.Flags().StringVar(&graphRoot, "root", etp.NameOf(engine.InletInputs), "cell to draw dependents of")
	exportCmd.Flags().StringVar(&dbPath, "db", "etp-sizing.db", "SQLite file")
	historyCmd.Flags().StringVar(&dbPath, "db", "etp-sizing.db", "SQLite file")
}

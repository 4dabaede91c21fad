// cmd/hiringctl/db.go
package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"hiring-workers/internal/common/config"
	"hiring-workers/internal/common/database"
	"hiring-workers/internal/search"
	"hiring-workers/internal/store"
)

var (
	ok   = color.New(color.FgGreen).SprintFunc()
	warn = color.New(color.FgYellow).SprintFunc()
)

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

func connect(ctx context.Context, cfg *config.Config) (*database.PostgresClient, error) {
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return nil, err
	}
	if err := pg.Ping(ctx); err != nil {
		pg.Close()
		return nil, fmt.Errorf("postgres unreachable: %w", err)
	}
	return pg, nil
}

func migrateCmd(configPath *string) *cobra.Command {
	var skipIndex bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations and create the search index",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			pg, err := connect(ctx, cfg)
			if err != nil {
				return err
			}
			defer pg.Close()

			applied, err := store.Migrate(ctx, pg.DB)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(applied) == 0 {
				fmt.Fprintf(out, "%s schema is up to date\n", ok("OK"))
			}
			for _, m := range applied {
				fmt.Fprintf(out, "%s %03d_%s\n", ok("APPLIED"), m.Version, m.Name)
			}

			if skipIndex {
				return nil
			}
			es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			if err := es.EnsureIndex(ctx, cfg.Search.ApplicationsIndex, search.ApplicationsMapping); err != nil {
				return err
			}
			fmt.Fprintf(out, "%s index %s\n", ok("READY"), cfg.Search.ApplicationsIndex)
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipIndex, "skip-index", false, "do not touch Elasticsearch")
	return cmd
}

func seedCmd(configPath *string) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load positions, schools and majors; existing rows are kept",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			data, err := seedData(file)
			if err != nil {
				return err
			}

			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			pg, err := connect(ctx, cfg)
			if err != nil {
				return err
			}
			defer pg.Close()

			res, err := store.Seed(ctx, pg.DB, data)
			if err != nil {
				return err
			}
			printSeedResult(cmd, data, res)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML seed file (default: the built-in reference data)")
	return cmd
}

func seedData(file string) (*store.SeedData, error) {
	if file == "" {
		return store.DefaultSeed()
	}
	return store.LoadSeedFile(file)
}

func printSeedResult(cmd *cobra.Command, data *store.SeedData, res store.SeedResult) {
	out := cmd.OutOrStdout()
	rows := []struct {
		name            string
		inserted, total int
	}{
		{"positions", res.Positions, len(data.Positions)},
		{"schools", res.Schools, len(data.Schools)},
		{"majors", res.Majors, len(data.Majors)},
	}
	for _, r := range rows {
		label := ok("SEEDED")
		if r.inserted < r.total {
			label = warn("PARTIAL")
		}
		fmt.Fprintf(out, "%-8s %-10s %d new of %d\n", label, r.name, r.inserted, r.total)
	}
}

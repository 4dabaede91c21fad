// cmd/hiringctl/registry.go
package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	apperrors "hiring-workers/internal/common/errors"
	"hiring-workers/internal/common/validation"
	"hiring-workers/pkg/registry"
)

func registryCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Inspect the activity registry the workers validate against",
	}
	cmd.PersistentFlags().StringVar(&path, "path", "", "registry JSON file (default: the built-in registry)")

	load := func() (*registry.ActivityRegistry, error) {
		if path == "" {
			return registry.Default()
		}
		return registry.LoadRegistry(path)
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every registered task type",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := load()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TASK TYPE\tACTOR\tTIMEOUT\tRETRIES\tERRORS")
			for _, taskType := range reg.TaskTypes() {
				a, _ := reg.Find(taskType)
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", a.TaskType, a.Actor, a.Timeout, a.Retries, strings.Join(a.ErrorCodes, ","))
			}
			return w.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate <task-type> <variables-json>",
		Short: "Check job variables against a task type's input schema",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := load()
			if err != nil {
				return err
			}
			v, err := validation.NewValidator(reg)
			if err != nil {
				return err
			}
			if !v.Has(args[0]) {
				return fmt.Errorf("unknown task type %q", args[0])
			}

			variables := args[1]
			if strings.HasPrefix(variables, "@") {
				body, err := os.ReadFile(strings.TrimPrefix(variables, "@"))
				if err != nil {
					return err
				}
				variables = string(body)
			}

			if err := v.Validate(args[0], variables); err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.New(color.FgRed).Sprint("INVALID"), apperrors.AsStandardError(err).Details)
				return fmt.Errorf("variables rejected by %s schema", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ok("VALID"), args[0])
			return nil
		},
	})

	return cmd
}

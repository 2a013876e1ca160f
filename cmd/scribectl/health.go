package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Check service and database health",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newAPIClient()
			svc, err := c.get("/api/health")
			if err != nil {
				return err
			}
			db, err := c.get("/api/health/db")
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(os.Stdout, "service: %sdb: %s", svc, db)
			return nil
		},
	}
	rootCmd.AddCommand(healthCmd)
}

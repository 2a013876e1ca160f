package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	clientsCmd := &cobra.Command{Use: "clients", Short: "Client profile operations"}

	// create
	var name, dob, gender, insurance, complaint, medications, goals string
	var diagnosis []string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a client profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]interface{}{
				"name":        name,
				"dateOfBirth": dob,
			}
			if gender != "" {
				payload["gender"] = gender
			}
			if insurance != "" {
				payload["insurance"] = insurance
			}
			if complaint != "" {
				payload["chiefComplaint"] = complaint
			}
			if len(diagnosis) > 0 {
				payload["diagnosis"] = diagnosis
			}
			if medications != "" {
				payload["medications"] = medications
			}
			if goals != "" {
				payload["treatmentGoals"] = goals
			}
			data, err := newAPIClient().post("/api/clients", payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	createCmd.Flags().StringVarP(&name, "name", "n", "", "Client name (required)")
	createCmd.Flags().StringVarP(&dob, "dob", "d", "", "Date of birth YYYY-MM-DD (required)")
	createCmd.Flags().StringVar(&gender, "gender", "", "Gender")
	createCmd.Flags().StringVar(&insurance, "insurance", "", "Insurance carrier")
	createCmd.Flags().StringVar(&complaint, "complaint", "", "Chief complaint")
	createCmd.Flags().StringSliceVar(&diagnosis, "diagnosis", nil, "Diagnosis codes (repeatable)")
	createCmd.Flags().StringVar(&medications, "medications", "", "Current medications")
	createCmd.Flags().StringVar(&goals, "goals", "", "Treatment goals")
	_ = createCmd.MarkFlagRequired("name")
	_ = createCmd.MarkFlagRequired("dob")
	clientsCmd.AddCommand(createCmd)

	// list
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List own clients",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := newAPIClient().get("/api/clients")
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	clientsCmd.AddCommand(listCmd)

	// get
	getCmd := &cobra.Command{
		Use:   "get CLIENT_ID",
		Short: "Get a client by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := newAPIClient().get("/api/clients/" + args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	clientsCmd.AddCommand(getCmd)

	rootCmd.AddCommand(clientsCmd)
}

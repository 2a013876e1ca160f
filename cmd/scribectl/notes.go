package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	notesCmd := &cobra.Command{Use: "notes", Short: "Generated note operations"}

	// generate
	var clientID string
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a SOAP note from recent transcripts",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := newAPIClient().post("/api/clients/"+clientID+"/notes", nil)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	generateCmd.Flags().StringVarP(&clientID, "client", "c", "", "Client ID (required)")
	_ = generateCmd.MarkFlagRequired("client")
	notesCmd.AddCommand(generateCmd)

	// show
	showCmd := &cobra.Command{
		Use:   "show NOTE_ID",
		Short: "Show the current version of a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := newAPIClient().get("/api/notes/" + args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	notesCmd.AddCommand(showCmd)

	// history
	historyCmd := &cobra.Command{
		Use:   "history NOTE_ID",
		Short: "List all versions of a note, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := newAPIClient().get("/api/notes/" + args[0] + "/versions")
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	notesCmd.AddCommand(historyCmd)

	// edit
	var content string
	editCmd := &cobra.Command{
		Use:   "edit NOTE_ID",
		Short: "Append an edited snapshot to a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := newAPIClient().post("/api/notes/"+args[0]+"/versions", map[string]interface{}{
				"content": content,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	editCmd.Flags().StringVar(&content, "content", "", "Edited note body (required)")
	_ = editCmd.MarkFlagRequired("content")
	notesCmd.AddCommand(editCmd)

	rootCmd.AddCommand(notesCmd)
}

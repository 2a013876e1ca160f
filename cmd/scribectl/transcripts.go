package main

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	transcriptsCmd := &cobra.Command{Use: "transcripts", Short: "Session transcript operations"}

	// add
	var clientID, sessionTime, content, file string
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Ingest a session transcript",
		RunE: func(cmd *cobra.Command, args []string) error {
			if content == "" && file == "" {
				return fmt.Errorf("--content or --file required")
			}
			body := content
			if file != "" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer func() { _ = f.Close() }()
				data, err := io.ReadAll(f)
				if err != nil {
					return err
				}
				body = string(data)
			}
			at := sessionTime
			if at == "" {
				at = time.Now().UTC().Format(time.RFC3339)
			}
			data, err := newAPIClient().post("/api/clients/"+clientID+"/transcripts", map[string]interface{}{
				"sessionTime": at,
				"content":     body,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	addCmd.Flags().StringVarP(&clientID, "client", "c", "", "Client ID (required)")
	addCmd.Flags().StringVarP(&sessionTime, "time", "t", "", "Session time RFC3339 (defaults now)")
	addCmd.Flags().StringVar(&content, "content", "", "Transcript text")
	addCmd.Flags().StringVarP(&file, "file", "f", "", "Read transcript text from file")
	_ = addCmd.MarkFlagRequired("client")
	transcriptsCmd.AddCommand(addCmd)

	// list
	var listClientID string
	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List transcripts, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/clients/%s/transcripts?limit=%d", listClientID, limit)
			data, err := newAPIClient().get(path)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	listCmd.Flags().StringVarP(&listClientID, "client", "c", "", "Client ID (required)")
	listCmd.Flags().IntVarP(&limit, "limit", "l", 20, "Maximum transcripts to return")
	_ = listCmd.MarkFlagRequired("client")
	transcriptsCmd.AddCommand(listCmd)

	// search
	var searchClientID, query string
	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Keyword search over a client's transcripts",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/clients/%s/transcripts/search?q=%s", searchClientID, url.QueryEscape(query))
			data, err := newAPIClient().get(path)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	searchCmd.Flags().StringVarP(&searchClientID, "client", "c", "", "Client ID (required)")
	searchCmd.Flags().StringVarP(&query, "query", "q", "", "Search query (required)")
	_ = searchCmd.MarkFlagRequired("client")
	_ = searchCmd.MarkFlagRequired("query")
	transcriptsCmd.AddCommand(searchCmd)

	rootCmd.AddCommand(transcriptsCmd)
}

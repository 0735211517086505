package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	listLimit    int
	listPlayer   string
	listFinished string
)

func init() {
	matchesCmd.Flags().IntVar(&listLimit, "limit", 0, "Maximum number of matches to return")
	matchesCmd.Flags().StringVar(&listPlayer, "player", "", "Only matches this player id took part in")
	matchesCmd.Flags().StringVar(&listFinished, "finished", "", "Filter by finished state (true or false)")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(rankingCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/health", nil)
	},
}

var loginCmd = &cobra.Command{
	Use:   "login <email> <password>",
	Short: "Log in and print a session token for --token",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/api/auth/login", map[string]string{"email": args[0], "password": args[1]})
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List matches, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}
		if listLimit > 0 {
			q.Set("limit", strconv.Itoa(listLimit))
		}
		if listPlayer != "" {
			q.Set("player", listPlayer)
		}
		if listFinished != "" {
			q.Set("finished", listFinished)
		}
		endpoint := "/api/matches"
		if len(q) > 0 {
			endpoint += "?" + q.Encode()
		}
		return performRequest(http.MethodGet, endpoint, nil)
	},
}

var matchCmd = &cobra.Command{
	Use:   "match <id>",
	Short: "Show a single match with its rounds",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/api/matches/"+url.PathEscape(args[0]), nil)
	},
}

var rankingCmd = &cobra.Command{
	Use:   "ranking",
	Short: "Show the league ranking",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/api/ranking", nil)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats <playerID>",
	Short: "Show the stats of a player",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/api/stats/players/"+url.PathEscape(args[0]), nil)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/metrics", nil)
	},
}

func performRequest(method, endpoint string, payload any) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(respBody))

	return nil
}

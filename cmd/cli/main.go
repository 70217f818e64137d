package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/finboard/variance/internal/adapter/http/dto"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "variance-cli",
		Short: "Variance analysis CLI tool",
		Long:  `A command line interface for interacting with the variance analysis API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the variance API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newCacheCmd())
	rootCmd.AddCommand(newTrendCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func newAnalyzeCmd() *cobra.Command {
	var (
		orgID      string
		boardID    string
		period     string
		budgetFile string
		actualFile string
		hierarchy  bool
		trends     bool
		force      bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run a variance analysis from budget and actual files",
		Run: func(cmd *cobra.Command, args []string) {
			runAnalyze(orgID, boardID, period, budgetFile, actualFile, hierarchy, trends, force)
		},
	}

	cmd.Flags().StringVar(&orgID, "org", "", "Organization ID")
	cmd.Flags().StringVar(&boardID, "board", "", "Board ID")
	cmd.Flags().StringVar(&period, "period", "", "Period (YYYY-MM)")
	cmd.Flags().StringVar(&budgetFile, "budget", "", "Path to budget lines JSON file")
	cmd.Flags().StringVar(&actualFile, "actuals", "", "Path to actual lines JSON file")
	cmd.Flags().BoolVar(&hierarchy, "hierarchy", false, "Build the account hierarchy")
	cmd.Flags().BoolVar(&trends, "trends", false, "Attach historical trends")
	cmd.Flags().BoolVar(&force, "force", false, "Recompute even when a cached result exists")
	cmd.MarkFlagRequired("period")
	cmd.MarkFlagRequired("budget")

	return cmd
}

func runAnalyze(orgID, boardID, period, budgetFile, actualFile string, hierarchy, trends, force bool) {
	var budget []dto.BudgetLineRequest
	if err := readJSONFile(budgetFile, &budget); err != nil {
		fmt.Printf("Failed to read budget file: %v\n", err)
		os.Exit(1)
	}

	var actuals []dto.ActualLineRequest
	if actualFile != "" {
		if err := readJSONFile(actualFile, &actuals); err != nil {
			fmt.Printf("Failed to read actuals file: %v\n", err)
			os.Exit(1)
		}
	}

	req := dto.AnalyzeRequest{
		OrganizationID: orgID,
		BoardID:        boardID,
		Period:         period,
		Budget:         budget,
		Actuals:        actuals,
		Options: &dto.AnalyzeOptionsRequest{
			IncludeChildren: hierarchy,
			IncludeTrends:   trends,
		},
	}

	body, err := json.Marshal(req)
	if err != nil {
		fmt.Printf("Failed to encode request: %v\n", err)
		os.Exit(1)
	}

	path := "/api/v1/analyses"
	if force {
		path += "?force=true"
	}

	result, err := postJSON(path, body)
	if err != nil {
		fmt.Printf("Analysis failed: %v\n", err)
		os.Exit(1)
	}

	printJSON(result)
}

func newCacheCmd() *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Cache operations",
	}

	invalidateCmd := &cobra.Command{
		Use:   "invalidate <org> [board period]",
		Short: "Invalidate cached analyses for an organization, or one entry",
		Args:  cobra.RangeArgs(1, 3),
		Run: func(cmd *cobra.Command, args []string) {
			path := "/api/v1/cache/" + url.PathEscape(args[0])
			if len(args) == 3 {
				path += "/" + url.PathEscape(args[1]) + "/" + url.PathEscape(args[2])
			} else if len(args) == 2 {
				fmt.Println("invalidate takes either one argument (org) or three (org board period)")
				os.Exit(1)
			}

			result, err := deleteJSON(path)
			if err != nil {
				fmt.Printf("Invalidation failed: %v\n", err)
				os.Exit(1)
			}

			printJSON(result)
		},
	}

	cacheCmd.AddCommand(invalidateCmd)

	return cacheCmd
}

func newTrendCmd() *cobra.Command {
	var (
		orgID    string
		boardID  string
		lookback int
	)

	cmd := &cobra.Command{
		Use:   "trend <accountID>",
		Short: "Show the variance trend for one account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			path := fmt.Sprintf("/api/v1/accounts/%s/trend?org=%s&board=%s&lookback=%d",
				url.PathEscape(args[0]), url.QueryEscape(orgID), url.QueryEscape(boardID), lookback)

			result, err := getJSON(path)
			if err != nil {
				fmt.Printf("Trend lookup failed: %v\n", err)
				os.Exit(1)
			}

			printJSON(result)
		},
	}

	cmd.Flags().StringVar(&orgID, "org", "", "Organization ID")
	cmd.Flags().StringVar(&boardID, "board", "", "Board ID")
	cmd.Flags().IntVar(&lookback, "lookback", 0, "Number of trailing periods (0 for default)")
	cmd.MarkFlagRequired("org")
	cmd.MarkFlagRequired("board")

	return cmd
}

func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func getJSON(path string) (map[string]any, error) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		return nil, err
	}
	return decodeResponse(resp)
}

func postJSON(path string, body []byte) (map[string]any, error) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return decodeResponse(resp)
}

func deleteJSON(path string) (map[string]any, error) {
	req, err := http.NewRequest(http.MethodDelete, baseURL+path, nil)
	if err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	return decodeResponse(resp)
}

func decodeResponse(resp *http.Response) (map[string]any, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("request failed (status %d): %s", resp.StatusCode, string(body))
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return result, nil
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("Failed to format output: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

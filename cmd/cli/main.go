package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
	token   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "khata-cli",
		Short: "Khata CLI tool",
		Long:  `A command line interface for interacting with the Khata API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Khata API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("KHATA_TOKEN"), "Bearer token (defaults to KHATA_TOKEN)")

	// Auth commands
	registerCmd := &cobra.Command{
		Use:   "register <mobile> <name> <password>",
		Short: "Register a new account",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			register(args[0], args[1], args[2])
		},
	}

	loginCmd := &cobra.Command{
		Use:   "login <mobile> <password>",
		Short: "Log in and print a bearer token",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			login(args[0], args[1])
		},
	}

	// Customer commands
	customersCmd := &cobra.Command{
		Use:   "customers",
		Short: "Customer operations",
	}

	customersListCmd := &cobra.Command{
		Use:   "list",
		Short: "List customers",
		Run: func(cmd *cobra.Command, args []string) {
			listCustomers()
		},
	}

	customersAddCmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a customer",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			mobile, _ := cmd.Flags().GetString("mobile")
			address, _ := cmd.Flags().GetString("address")
			addCustomer(args[0], mobile, address)
		},
	}
	customersAddCmd.Flags().String("mobile", "", "Customer mobile number")
	customersAddCmd.Flags().String("address", "", "Customer address")

	customersCmd.AddCommand(customersListCmd, customersAddCmd)

	// Transaction command
	recordCmd := &cobra.Command{
		Use:   "record <customer-id> <gave|took> <amount>",
		Short: "Record a transaction against a customer",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			recordTransaction(args[0], args[1], args[2])
		},
	}

	// Entries command
	entriesCmd := &cobra.Command{
		Use:   "entries <customer-id>",
		Short: "List ledger entries for a customer",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			listEntries(args[0])
		},
	}

	// Summary command
	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Show book totals",
		Run: func(cmd *cobra.Command, args []string) {
			showSummary()
		},
	}

	rootCmd.AddCommand(registerCmd, loginCmd, customersCmd, recordCmd, entriesCmd, summaryCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func register(mobile, name, password string) {
	body := map[string]string{"mobile": mobile, "name": name, "password": password}
	result := doRequest(http.MethodPost, "/api/v1/auth/register", body, http.StatusCreated)

	fmt.Printf("Registered.\n")
	printToken(result)
}

func login(mobile, password string) {
	body := map[string]string{"mobile": mobile, "password": password}
	result := doRequest(http.MethodPost, "/api/v1/auth/login", body, http.StatusOK)

	printToken(result)
}

func printToken(result map[string]any) {
	if tok, ok := result["token"].(string); ok {
		fmt.Printf("Token: %s\n", tok)
		fmt.Printf("Export it with: export KHATA_TOKEN=%s\n", tok)
	}
}

func listCustomers() {
	result := doRequest(http.MethodGet, "/api/v1/customers", nil, http.StatusOK)

	customers, _ := result["customers"].([]any)
	fmt.Printf("Customers: %d\n", len(customers))
	for _, c := range customers {
		customer, ok := c.(map[string]any)
		if !ok {
			continue
		}
		fmt.Printf("  %s  %-20s  balance=%s (%s)\n",
			customer["id"], customer["name"], customer["balance"], customer["state"])
	}
}

func addCustomer(name, mobile, address string) {
	body := map[string]string{"name": name}
	if mobile != "" {
		body["mobile"] = mobile
	}
	if address != "" {
		body["address"] = address
	}
	result := doRequest(http.MethodPost, "/api/v1/customers", body, http.StatusCreated)

	fmt.Printf("Created customer %s (%s)\n", result["id"], result["name"])
}

func recordTransaction(customerID, direction, amount string) {
	body := map[string]string{"direction": direction, "amount": amount}
	result := doRequest(http.MethodPost, "/api/v1/customers/"+customerID+"/transactions", body, http.StatusCreated)

	if customer, ok := result["customer"].(map[string]any); ok {
		fmt.Printf("New balance: %s (%s)\n", customer["balance"], customer["state"])
	}
	events, _ := result["events"].([]any)
	for _, e := range events {
		event, ok := e.(map[string]any)
		if !ok {
			continue
		}
		fmt.Printf("  %s  %s %s  %s\n", event["id"], event["direction"], event["amount"], event["label"])
	}
}

func listEntries(customerID string) {
	result := doRequest(http.MethodGet, "/api/v1/customers/"+customerID+"/entries", nil, http.StatusOK)

	events, _ := result["events"].([]any)
	fmt.Printf("Entries: %d\n", len(events))
	for _, e := range events {
		event, ok := e.(map[string]any)
		if !ok {
			continue
		}
		fmt.Printf("  %s  %-5s %10s  %-20s  %s\n",
			event["timestamp"], event["direction"], event["amount"], event["label"], event["id"])
	}
}

func showSummary() {
	result := doRequest(http.MethodGet, "/api/v1/summary", nil, http.StatusOK)

	fmt.Printf("Receivable: %s\n", result["receivable"])
	fmt.Printf("Payable:    %s\n", result["payable"])
	fmt.Printf("Net:        %s\n", result["net"])
	fmt.Printf("Customers:  %v\n", result["customers"])
}

func doRequest(method, path string, body any, wantStatus int) map[string]any {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			fmt.Printf("Failed to encode request: %v\n", err)
			os.Exit(1)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, baseURL+path, reqBody)
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != wantStatus {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(respBody))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(respBody, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	return result
}

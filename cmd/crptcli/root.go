package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KOMKZ/go-crpt-client/config"
	"github.com/KOMKZ/go-crpt-client/crpt"
	"github.com/KOMKZ/go-crpt-client/limiter"
	"github.com/KOMKZ/go-crpt-client/logger"
)

// appConfig top-level config document for the CLI
type appConfig struct {
	Logger logger.Config `mapstructure:"logger"`
	CRPT   crpt.Config   `mapstructure:"crpt"`
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "crptcli",
		Short:        "Submit marked-goods documents to the CRPT API",
		SilenceUsage: true,
	}

	root.AddCommand(newSubmitCmd())
	return root
}

func newSubmitCmd() *cobra.Command {
	var (
		configPath string
		docPath    string
		signature  string
		baseURL    string
		unit       string
		capacity   int64
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a document file through the rate-limited client",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := appConfig{CRPT: crpt.DefaultConfig()}
			if configPath != "" {
				if err := config.Load(configPath, "CRPT", &cfg); err != nil {
					return err
				}
			}

			// flags win over the config file
			if baseURL != "" {
				cfg.CRPT.BaseURL = baseURL
			}
			if unit != "" {
				cfg.CRPT.Limiter.Unit = limiter.Unit(unit)
			}
			if capacity > 0 {
				cfg.CRPT.Limiter.Capacity = capacity
			}

			logger.InitManager(cfg.Logger)

			raw, err := os.ReadFile(docPath)
			if err != nil {
				return fmt.Errorf("read document file: %w", err)
			}
			var doc crpt.Document
			if err := json.Unmarshal(raw, &doc); err != nil {
				return fmt.Errorf("parse document file: %w", err)
			}

			client, err := crpt.New(cfg.CRPT)
			if err != nil {
				return err
			}
			defer client.Close()

			body, err := client.CreateDocument(cmd.Context(), &doc, signature)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), body)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file path (yaml)")
	cmd.Flags().StringVarP(&docPath, "file", "f", "", "document json file")
	cmd.Flags().StringVarP(&signature, "signature", "s", "", "detached signature value")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "API origin override")
	cmd.Flags().StringVar(&unit, "unit", "", "limiter window unit: second, minute, hour, day")
	cmd.Flags().Int64Var(&capacity, "capacity", 0, "admissions per window")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("signature")

	return cmd
}

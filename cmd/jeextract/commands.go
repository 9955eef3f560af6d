package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dvloznov/journal-extractor/internal/completion"
	"github.com/dvloznov/journal-extractor/internal/config"
	"github.com/dvloznov/journal-extractor/internal/extract"
	"github.com/dvloznov/journal-extractor/internal/logger"
	"github.com/dvloznov/journal-extractor/internal/mailparse"
	"github.com/dvloznov/journal-extractor/internal/sheet"
	"github.com/dvloznov/journal-extractor/internal/source"
	"github.com/dvloznov/journal-extractor/internal/workflow"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "jeextract",
		Short: "Extract journal entries from an email and its spreadsheet attachment",
		Long: `Extract journal entries from an email and its spreadsheet attachment.

The email body is sent to the model first. When it holds no journal entries
the first .xlsx attachment is read and sent instead. The accepted entries are
written to <output-dir>/<message name>.json.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newExtractCmd(opts),
		newDecodeCmd(),
		newNormalizeCmd(),
		newSheetCmd(opts),
	)
	return root
}

// loadConfig reads the config file and environment and applies flag overrides.
func loadConfig(cmd *cobra.Command, opts *rootOptions, o config.Overrides) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadFromEnv(opts.configPath)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	o.LogLevel = opts.logLevel
	cfg.Apply(o)

	log := logger.NewConsole(cmd.ErrOrStderr(), cfg.LogLevel)
	return cfg, log, nil
}

// --- extract ---

func newExtractCmd(opts *rootOptions) *cobra.Command {
	var o config.Overrides

	cmd := &cobra.Command{
		Use:   "extract <message.eml | gs://bucket/object.eml>",
		Short: "Extract journal entries from one email and write the JSON result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(cmd, opts, o)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout())
			defer cancel()
			ctx = logger.WithContext(ctx, log)

			stager := source.NewStager(source.NewGCSFetcher(cfg.GCS.CredentialsFile), cfg.GCS.StagingDir)
			messagePath, err := stager.Resolve(ctx, args[0])
			if err != nil {
				return err
			}

			completer, err := completion.New(ctx, cfg)
			if err != nil {
				return err
			}

			log.Info().
				Str("message_path", messagePath).
				Str("provider", cfg.Provider).
				Str("model", cfg.Model).
				Msg("Starting extraction")

			orchestrator := workflow.NewOrchestrator(
				mailparse.NewDecoder(),
				sheet.NewReader(),
				extract.NewExtractor(completer, cfg.Model, cfg.SamplingTemperature()),
				workflow.Options{OutputDir: cfg.OutputDir, PreferredSheet: cfg.PreferredSheet},
			)

			report, err := orchestrator.Run(ctx, messagePath)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), report.OutputPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&o.OutputDir, "output-dir", "", "directory for result files (default \"json\")")
	cmd.Flags().StringVar(&o.Provider, "provider", "", "completion provider: openai or gemini")
	cmd.Flags().StringVar(&o.Model, "model", "", "model name")
	cmd.Flags().StringVar(&o.PreferredSheet, "sheet", "", "sheet to read from the attachment (default \"Monthly JE\")")
	return cmd
}

// --- decode ---

type decodedMessage struct {
	Path        string   `json:"path"`
	Subject     string   `json:"subject"`
	From        string   `json:"from,omitempty"`
	Date        string   `json:"date,omitempty"`
	Body        string   `json:"body"`
	Attachments []string `json:"attachments"`
	Warnings    []string `json:"warnings,omitempty"`
}

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <message.eml>",
		Short: "Decode an email, save its .xlsx attachments and print the parts as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := mailparse.NewDecoder().Decode(args[0])
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(decodedMessage{
				Path:        msg.Path,
				Subject:     msg.Subject,
				From:        msg.From,
				Date:        msg.Date,
				Body:        msg.Body,
				Attachments: msg.Attachments,
				Warnings:    msg.Warnings,
			})
		},
	}
}

// --- normalize ---

func newNormalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize [file]",
		Short: "Normalize raw model output (file or stdin) into a JSON array",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				raw []byte
				err error
			)
			if len(args) == 1 && args[0] != "-" {
				raw, err = os.ReadFile(args[0])
			} else {
				raw, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("reading model output: %w", err)
			}

			result, err := extract.Normalize(string(raw))
			if err != nil {
				return err
			}

			out, err := result.MarshalIndent()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

// --- sheet ---

func newSheetCmd(opts *rootOptions) *cobra.Command {
	var (
		preferred string
		list      bool
		raw       bool
	)

	cmd := &cobra.Command{
		Use:   "sheet <workbook.xlsx>",
		Short: "Print the cleaned cell grid sent to the model for a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(cmd, opts, config.Overrides{PreferredSheet: preferred})
			if err != nil {
				return err
			}

			var readerOpts []sheet.Option
			if raw {
				readerOpts = append(readerOpts, sheet.WithRawValues())
			}
			reader := sheet.NewReader(readerOpts...)

			if list {
				names, err := reader.SheetNames(args[0])
				if err != nil {
					return err
				}
				for _, n := range names {
					fmt.Fprintln(cmd.OutOrStdout(), n)
				}
				return nil
			}

			table, err := reader.ReadTable(args[0], cfg.PreferredSheet)
			if err != nil {
				return err
			}
			log.Info().Str("sheet", table.Sheet).Int("rows", len(table.Rows)).Msg("Sheet decoded")

			grid, err := extract.SerializeGrid(table.Rows)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), grid)
			return nil
		},
	}

	cmd.Flags().StringVar(&preferred, "sheet", "", "sheet to read (default \"Monthly JE\", else the first sheet)")
	cmd.Flags().BoolVar(&list, "list", false, "list sheet names instead of printing the grid")
	cmd.Flags().BoolVar(&raw, "raw", false, "print stored cell values instead of displayed ones")
	return cmd
}

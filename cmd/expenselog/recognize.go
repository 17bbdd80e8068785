package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"expenselog/internal/cli"
	"expenselog/internal/common"
	"expenselog/internal/currency"
	"expenselog/internal/ledger"
	"expenselog/internal/recognize"
)

func recognizeCmd() *cobra.Command {
	var (
		language string
		voice    string
	)

	cmd := &cobra.Command{
		Use:   "recognize [text]",
		Short: "Record an expense from free text or voice",
		Long: `Extract the amount, currency, category and description from a
free-text expense description (or a recorded audio file with --voice)
and record it in the ledger. Recognition output goes through exactly
the same validation as manual entry.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			text := ""
			if len(args) > 0 {
				text = args[0]
			}
			if text == "" && voice == "" {
				return fmt.Errorf("pass an expense description or --voice <file>")
			}

			fallback := recognize.NewFallbackParser(defaultCurrency())

			if voice != "" {
				transcriber, err := newTranscriber()
				if err != nil {
					return err
				}
				transcribed, err := transcriber.Transcribe(ctx, voice)
				if err != nil {
					return fmt.Errorf("failed to transcribe audio: %w", err)
				}
				fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("Transcribed: %s", transcribed)))
				text = transcribed
			}

			recognizer, err := newRecognizer(fallback)
			if err != nil {
				return err
			}

			result, err := recognizer.RecognizeExpense(ctx, text, language)
			if err != nil {
				return fmt.Errorf("%w: %v", common.ErrRecognitionFailed, err)
			}

			led, store, err := initLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			exp, err := led.AddExpense(ctx, ledger.ExpenseInput{
				Amount:      result.Amount,
				Currency:    result.Currency,
				CategoryID:  result.CategoryID,
				Description: result.Description,
				Date:        result.Date,
			})
			if err != nil {
				return fmt.Errorf("failed to record recognized expense: %w", err)
			}

			categoryNote := "uncategorized"
			if exp.CategoryID != "" {
				categoryNote = exp.CategoryID
			}
			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Recorded %s%s in %s (%s)",
				exp.Amount, currency.Symbol(exp.Currency), categoryNote, exp.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&language, "language", "", "language hint for recognition (e.g. en, ru)")
	cmd.Flags().StringVar(&voice, "voice", "", "path to a recorded audio file to transcribe")

	return cmd
}

// newRecognizer builds the recognition client, or falls back to pure
// keyword parsing when no API key is configured.
func newRecognizer(fallback *recognize.FallbackParser) (recognize.Recognizer, error) {
	apiKey := viper.GetString("recognition.api_key")
	if apiKey == "" {
		return offlineRecognizer{fallback: fallback}, nil
	}

	return recognize.NewOpenRouterClient(recognize.Config{
		APIKey:  apiKey,
		Model:   viper.GetString("recognition.model"),
		BaseURL: viper.GetString("recognition.base_url"),
	}, fallback)
}

// offlineRecognizer satisfies the recognizer interface with the keyword
// parser alone.
type offlineRecognizer struct {
	fallback *recognize.FallbackParser
}

func (r offlineRecognizer) RecognizeExpense(_ context.Context, text, _ string) (*recognize.Result, error) {
	return r.fallback.Parse(text), nil
}

func newTranscriber() (recognize.Transcriber, error) {
	apiKey := viper.GetString("transcription.api_key")
	if apiKey == "" {
		return nil, fmt.Errorf("transcription.api_key is not configured")
	}

	return recognize.NewWhisperClient(recognize.Config{
		APIKey:  apiKey,
		Model:   viper.GetString("transcription.model"),
		BaseURL: viper.GetString("transcription.base_url"),
	})
}

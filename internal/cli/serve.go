package cli

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/happyhackingspace/werger"
	"github.com/happyhackingspace/werger/internal/server"
	"github.com/spf13/cobra"
)

func (c *CLI) newServeCommand() *cobra.Command {
	var addr string
	var tmPath string
	var lmPath string
	var beamSize int
	var maxTranslations int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve translations over a WebSocket API",
		Example: `  # Serve on the default address
  wergêr serve --tm phrase-table.db --lm europarl.arpa.gz

  # Custom address and a wider beam
  wergêr serve --addr :9000 --tm phrase-table.db --lm europarl.arpa.gz -b 32`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			tmPath, lmPath, err = resolveModels(tmPath, lmPath)
			if err != nil {
				return err
			}

			start := time.Now()
			tr, err := werger.Load(tmPath, lmPath, &werger.Config{
				BeamSize:        beamSize,
				MaxTranslations: maxTranslations,
			})
			if err != nil {
				return err
			}
			defer func() { _ = tr.Close() }()
			slog.Debug("Models loaded", "duration", time.Since(start))

			slog.Info("Serving translations", "addr", addr)
			if err := http.ListenAndServe(addr, server.New(tr).Handler()); err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&tmPath, "tm", "", "Path to phrase table (default: auto-detect or download)")
	cmd.Flags().StringVar(&lmPath, "lm", "", "Path to ARPA language model (default: auto-detect or download)")
	cmd.Flags().IntVarP(&beamSize, "beam-size", "b", 1, "Hypotheses expanded per stack")
	cmd.Flags().IntVarP(&maxTranslations, "max-translations", "k", 1, "Candidate translations per phrase (0 = all)")
	return cmd
}

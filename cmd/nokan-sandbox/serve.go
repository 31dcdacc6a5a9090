package main

import (
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/nokan/nokan/internal/api/middleware"
	"github.com/nokan/nokan/internal/server"
	"github.com/nokan/nokan/internal/store"
	"github.com/nokan/nokan/internal/store/sqlite"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the sandbox API",
	Long: `Serve the sandbox API until interrupted. An empty database is seeded with a
demo board first and the new tokens are printed once.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		rate, _ := cmd.Flags().GetInt("rate")
		burst, _ := cmd.Flags().GetInt("burst")

		logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

		st, err := openStore()
		if err != nil {
			return err
		}

		ctx := cmd.Context()

		count, err := sqlite.NewBoardRepository(st.DB()).Count(ctx)
		if err != nil {
			st.Close()
			return err
		}
		if count == 0 {
			seeded, err := store.Seed(ctx, st.DB(), store.SeedOptions{})
			if err != nil {
				st.Close()
				return err
			}
			logger.Info("seeded empty database", "board", seeded.BoardID)
			printTokens(cmd.OutOrStdout(), seeded.BoardID, seeded.Tokens)
		}

		srv := server.New(addr, st, server.Options{
			Logger:            logger,
			RequestsPerMinute: rate,
			Burst:             burst,
		})
		if err := srv.ListenAndServe(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", server.DefaultAddress, "Address to listen on")
	serveCmd.Flags().Int("rate", middleware.DefaultRequestsPerMinute, "Requests per minute per token")
	serveCmd.Flags().Int("burst", middleware.DefaultBurst, "Rate limit burst per token")
}

package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yungbote/lovepattern-backend/internal/app"
)

const shutdownTimeout = 30 * time.Second

func newServeCommand(configFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := app.NewViper(*configFile)
			if err != nil {
				return err
			}
			if f := cmd.Flags().Lookup("port"); f != nil && f.Changed {
				if err := v.BindPFlag("PORT", f); err != nil {
					return err
				}
			}
			cfg, err := app.LoadConfig(v)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := app.New(ctx, cfg)
			if err != nil {
				return fmt.Errorf("init app: %w", err)
			}
			if err := a.Start(); err != nil {
				_ = a.Shutdown(context.Background())
				return err
			}

			errCh := make(chan error, 1)
			go func() { errCh <- a.Run() }()

			var runErr error
			select {
			case <-ctx.Done():
				a.Log.Info("shutdown signal received")
			case runErr = <-errCh:
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := a.Shutdown(shutdownCtx); err != nil && runErr == nil {
				runErr = err
			}
			return runErr
		},
	}
	cmd.Flags().String("port", "", "HTTP port (overrides PORT)")
	return cmd
}

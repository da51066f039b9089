package cli

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"hotel-erp/internal/server"
)

type serveOptions struct {
	Listen      string
	JWTSecret   string
	CORSOrigins []string
}

func newServeCommand() *cobra.Command {
	opts := serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Listen, "listen", ":8080", "Listen address")
	cmd.Flags().StringVar(&opts.JWTSecret, "jwt-secret", "", "Secret for signing session tokens")
	cmd.Flags().StringSliceVar(&opts.CORSOrigins, "cors-origin", nil, "Allowed CORS origins")
	_ = viper.BindPFlag("listen", cmd.Flags().Lookup("listen"))
	_ = viper.BindPFlag("jwt_secret", cmd.Flags().Lookup("jwt-secret"))
	_ = viper.BindPFlag("cors_origins", cmd.Flags().Lookup("cors-origin"))
	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command, opts serveOptions) error {
	service, err := newAppService()
	if err != nil {
		return err
	}
	secret := resolveString(cmd, opts.JWTSecret, "jwt_secret", "jwt-secret")
	if strings.TrimSpace(secret) == "" {
		secret = uuid.NewString()
		log.Warn().Msg("jwt secret not configured; tokens will not survive a restart")
	}
	srv, err := server.New(service, server.Config{
		JWTSecret:   secret,
		CORSOrigins: resolveStrings(cmd, opts.CORSOrigins, "cors_origins", "cors-origin"),
		Version:     version,
	})
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx, resolveString(cmd, opts.Listen, "listen", "listen"))
}

package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rpupo63/unified-personal-site-admin/api"
	"github.com/rpupo63/unified-personal-site-admin/services"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the project form",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	// Listen for interrupt signals to gracefully shutdown the server
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var uploader services.ImageUploader
	if a.settings.S3.Bucket != "" {
		s3Uploader, err := services.NewS3ImageUploader(ctx, a.settings.S3)
		if err != nil {
			log.Warn().Err(err).Msg("image upload disabled")
		} else {
			uploader = s3Uploader
		}
	}

	server, err := api.NewServer(a.settings, a.client, uploader)
	if err != nil {
		return err
	}

	log.Info().
		Str("apiBaseUrl", a.settings.APIBaseURL).
		Str("listingRoute", a.settings.ListingRoute).
		Bool("imageUpload", uploader != nil).
		Msg("Initializing app...")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Run)
	g.Go(func() error {
		<-gctx.Done()
		server.ShutdownGracefully(shutdownTimeout)
		return nil
	})
	return g.Wait()
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/scholarscout/internal/buildinfo"
	"github.com/dmitrijs2005/scholarscout/internal/client/api"
	"github.com/dmitrijs2005/scholarscout/internal/client/cli"
	"github.com/dmitrijs2005/scholarscout/internal/client/config"
	"github.com/dmitrijs2005/scholarscout/internal/client/profilestatus"
	"github.com/dmitrijs2005/scholarscout/internal/client/services"
	"github.com/dmitrijs2005/scholarscout/internal/client/session"
	"github.com/dmitrijs2005/scholarscout/internal/client/storage"
	"github.com/dmitrijs2005/scholarscout/internal/client/storage/token"
	"github.com/dmitrijs2005/scholarscout/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	if err := run(ctx, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

}

func run(ctx context.Context, cfg *config.Config) error {
	log := logging.New(cfg.LogLevel, os.Stderr)

	db, err := storage.Open(ctx, cfg.TokenDBPath)
	if err != nil {
		return fmt.Errorf("open token database %s: %w", cfg.TokenDBPath, err)
	}
	defer func() { _ = db.Close() }()

	tokens := token.NewSQLiteStore(db)

	// The session is created after the client, which reports rejected
	// tokens back to it.
	var sess *session.Manager
	client, err := api.New(cfg.APIBaseURL, tokens,
		api.WithTimeout(cfg.RequestTimeout),
		api.WithLogger(log.With("component", "api")),
		api.WithRejectHook(func(ctx context.Context) {
			if sess != nil {
				sess.TokenRejected(ctx)
			}
		}),
	)
	if err != nil {
		return err
	}

	profiles := api.NewProfileAPI(client)
	scholarships := api.NewScholarshipAPI(client)

	sess = session.NewManager(api.NewAuthAPI(client), tokens, log.With("component", "session"))
	tracker := profilestatus.NewTracker(sess, profiles, log.With("component", "profile"))

	app := cli.NewApp(cli.Deps{
		Session:      sess,
		Profile:      tracker,
		OAuth:        api.NewOAuthAPI(client),
		Scholarships: scholarships,
		Reviews:      api.NewReviewAPI(client),
		Platform:     api.NewPlatformAPI(client),
		Dashboard:    services.NewDashboardService(profiles, scholarships),
		Profiles:     services.NewProfileService(profiles),
		Logger:       log,
	})

	log.Debug(ctx, "starting", "api", cfg.APIBaseURL, "db", cfg.TokenDBPath)
	app.Run(ctx)
	return nil
}

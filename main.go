package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/parasight/internal/config"
	"github.com/robalobadob/parasight/internal/content"
	"github.com/robalobadob/parasight/internal/httpserver"
	"github.com/robalobadob/parasight/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if !cfg.Production {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bundle, err := content.Load(content.Sources{
		ParagraphsFile: cfg.ContentFile,
		ParametersFile: cfg.ParametersFile,
		SuffixesFile:   cfg.SuffixesFile,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load content")
	}

	db, dialect, err := openDB(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("failed to open database")
	}
	defer db.Close()

	if err := migrate(ctx, db, dialect, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}

	catalog := content.NewCatalog(db, dialect)
	n, err := catalog.Seed(ctx, bundle.Paragraphs)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to seed catalog")
	}
	log.Info().Int("seeded", n).Msg("catalog ready")

	key, err := cfg.SessionKey()
	if err != nil {
		log.Fatal().Err(err).Msg("session key")
	}

	sessions := store.NewMemoryStore()
	go pruneSessions(ctx, sessions, cfg.SessionTTL)

	srv := httpserver.New(httpserver.Options{
		Store:         sessions,
		Catalog:       catalog,
		Parameters:    bundle.Parameters,
		Suffixes:      bundle.Suffixes,
		SigningKey:    key,
		CookieName:    cfg.CookieName,
		SecureCookies: cfg.Production,
		SessionTTL:    cfg.SessionTTL,
		ClientOrigin:  cfg.ClientOrigin,
		DailySalt:     cfg.DailySalt,
	})
	log.Info().Str("port", cfg.Port).Str("driver", dialect.DriverName()).Msg("starting parasight server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// pruneSessions drops sessions idle for longer than ttl.
func pruneSessions(ctx context.Context, st store.Store, ttl time.Duration) {
	t := time.NewTicker(ttl / 4)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := st.Prune(ctx, now.Add(-ttl)); n > 0 {
				log.Info().Int("pruned", n).Int("active", st.Len()).Msg("idle sessions pruned")
			}
		}
	}
}

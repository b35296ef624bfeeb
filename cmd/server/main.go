package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/librus-gateway/internal/config"
	"github.com/jrsteele09/librus-gateway/librus"
	"github.com/jrsteele09/librus-gateway/server"
	"github.com/jrsteele09/librus-gateway/sessions"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

// set with -ldflags "-X main.version=..."
var version = "dev"

const shutdownTimeout = 5 * time.Second

func main() {
	serveFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    "env-file",
			Usage:   "dotenv file loaded before reading the environment",
			Value:   ".env",
			EnvVars: []string{"ENV_FILE"},
		},
	}

	app := &cli.App{
		Name:    "librus-gateway",
		Usage:   "session gateway in front of the Librus Synergia API",
		Version: version,
		Flags:   serveFlags,
		Action:  serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP gateway (default)",
				Flags:  serveFlags,
				Action: serve,
			},
			{
				Name:  "version",
				Usage: "print the build version",
				Action: func(c *cli.Context) error {
					_, err := fmt.Fprintln(c.App.Writer, version)
					return err
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("Error running server")
	}
}

func serve(c *cli.Context) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	cfg, err := config.New(c.String("env-file"))
	if err != nil {
		return err
	}
	setupLogging(cfg)
	displayAppname(cfg.GetAppName())

	store := sessions.NewInMemoryStore(cfg.GetSessionTTL(), sessions.WithSweepInterval(cfg.GetSweepInterval()))
	defer store.Close()

	newClient := librus.NewFactory(librus.APIConfig{
		BaseURL:  cfg.GetLibrusAPIURL(),
		TokenURL: cfg.GetLibrusTokenURL(),
		ClientID: cfg.GetLibrusClientID(),
		Timeout:  cfg.GetLibrusHTTPTimeout(),
	})

	httpServer := &http.Server{
		Addr:              cfg.GetPort(),
		Handler:           server.New(cfg, store, newClient),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return listenAndServe(httpServer)
	})
	g.Go(func() error {
		<-ctx.Done()
		return shutdown(httpServer)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info().Int("sessions_dropped", store.Len()).Msg("Server stopped")
	return nil
}

func setupLogging(cfg config.Config) {
	level, err := zerolog.ParseLevel(cfg.GetLogLevel())
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	}
	zerolog.DefaultContextLogger = &log.Logger
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}

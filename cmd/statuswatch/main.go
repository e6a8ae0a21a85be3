package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"csb/statusboard/internal/cooldown"
	"csb/statusboard/internal/logging"
	"csb/statusboard/internal/poller"
	"csb/statusboard/internal/poller/termview"
	"csb/statusboard/internal/web"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("statuswatch: %v", err))
		os.Exit(1)
	}
}

func cmd() *cli.Command {
	var (
		endpoint   string
		period     time.Duration
		noCooldown bool
		lenient    bool
		timeout    time.Duration
		logLevel   string
	)

	return &cli.Command{
		Name:  "statuswatch",
		Usage: "Check service status from the terminal. Press Enter to run a check.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "endpoint",
				Usage:       "Status endpoint URL",
				Value:       "http://localhost:8000" + poller.DefaultEndpoint,
				Destination: &endpoint,
				Sources:     cli.EnvVars("STATUSWATCH_ENDPOINT"),
			},
			&cli.DurationFlag{
				Name:        "cooldown",
				Usage:       "Wait between checks",
				Value:       cooldown.DefaultPeriod,
				Destination: &period,
				Sources:     cli.EnvVars("STATUSWATCH_COOLDOWN"),
			},
			&cli.BoolFlag{
				Name:        "no-cooldown",
				Usage:       "Re-enable checks immediately after each result",
				Destination: &noCooldown,
			},
			&cli.BoolFlag{
				Name:        "lenient",
				Usage:       "Decode the body even when the HTTP status is not 2xx",
				Destination: &lenient,
			},
			&cli.DurationFlag{
				Name:        "timeout",
				Usage:       "HTTP request timeout",
				Value:       10 * time.Second,
				Destination: &timeout,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "Log level (debug, info, warn, error)",
				Value:       "error",
				Destination: &logLevel,
				Sources:     cli.EnvVars("LOGGING_LEVEL"),
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := logging.Init("production", logLevel); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer logging.Close()

			opts := poller.DefaultOptions(endpoint)
			opts.CooldownPeriod = period
			opts.WithCooldown = !noCooldown
			opts.StrictHTTPCheck = !lenient
			opts.Client = &http.Client{Timeout: timeout}
			opts.Logger = logging.GetLogger()

			view := termview.New(os.Stdout, web.DefaultButtonLabel)
			p := poller.New(view, opts)
			defer p.Close()
			p.Start()

			return watch(ctx, p, os.Stdin)
		},
	}
}

// watch treats every line read from in as a button click.
func watch(ctx context.Context, p *poller.StatusPoller, in *os.File) error {
	lines := make(chan struct{})
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- struct{}{}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-lines:
			if !ok {
				return nil
			}
			err := p.Click(ctx)
			switch {
			case errors.Is(err, poller.ErrButtonDisabled):
				color.Yellow("Please wait for the cool-down to finish.")
			case errors.Is(err, poller.ErrCheckInFlight):
				color.Yellow("A check is already running.")
			}
		}
	}
}

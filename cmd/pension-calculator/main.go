package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	json "github.com/goccy/go-json"

	"github.com/cloud-ru/pension-calculator-go/internal/calculations"
	"github.com/cloud-ru/pension-calculator-go/internal/config"
	"github.com/cloud-ru/pension-calculator-go/internal/handlers"
	"github.com/cloud-ru/pension-calculator-go/internal/logging"
	"github.com/cloud-ru/pension-calculator-go/internal/render"
	"github.com/cloud-ru/pension-calculator-go/internal/server"
	"github.com/cloud-ru/pension-calculator-go/internal/service"
	"github.com/cloud-ru/pension-calculator-go/internal/tracing"
	"github.com/cloud-ru/pension-calculator-go/internal/validators"
)

const usage = `usage: pension-calculator [serve | calc [flags]]

  serve  run the HTTP calculator (default)
  calc   print the projection table for the given inputs
`

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(stderr, cfg.LogLevel)

	command := "serve"
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	switch command {
	case "serve":
		return serve(ctx, cfg, logger)
	case "calc":
		return calc(ctx, cfg, logger, args, stdout, stderr)
	case "-h", "--help", "help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func newService(cfg *config.Config, logger *slog.Logger) (*service.ProjectionService, *render.Formatter, error) {
	formatter, err := render.NewFormatter(cfg.Locale, cfg.CurrencySymbol)
	if err != nil {
		return nil, nil, err
	}
	svc := service.NewProjectionService(
		calculations.NewCalculator(cfg.Rates),
		defaultsFromConfig(cfg.Defaults),
		tracing.Tracer,
		logger,
	)
	return svc, formatter, nil
}

func defaultsFromConfig(d config.InputDefaults) calculations.Defaults {
	return calculations.Defaults{
		CurrentAge:     d.CurrentAge,
		RetirementAge:  d.RetirementAge,
		WorkPension:    d.WorkPension,
		ISA:            d.ISA,
		SIPP:           d.SIPP,
		PeriodsPerYear: d.PeriodsPerYear,
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.InitTracing(ctx, cfg.OTELServiceName, cfg.OTELEndpoint, logger)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("tracing shutdown failed", "error", err)
		}
	}()

	svc, formatter, err := newService(cfg, logger)
	if err != nil {
		return err
	}

	srv := server.New(cfg, &handlers.Deps{
		Service:   svc,
		Formatter: formatter,
		Logger:    logger,
	})
	return srv.Run(ctx)
}

func calc(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string, stdout, stderr io.Writer) error {
	defaults := calculations.Reset(defaultsFromConfig(cfg.Defaults))

	fs := flag.NewFlagSet("calc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	form := calculations.FormInput{}
	fs.StringVar(&form.CurrentAge, "current-age", defaults.CurrentAge, "current age in years")
	fs.StringVar(&form.RetirementAge, "retirement-age", defaults.RetirementAge, "retirement age in years")
	fs.StringVar(&form.WorkPension, "work-pension", defaults.WorkPension, "work pension contribution per year")
	fs.StringVar(&form.ISA, "isa", defaults.ISA, "ISA contribution per year")
	fs.StringVar(&form.SIPP, "sipp", defaults.SIPP, "SIPP contribution per year")
	fs.StringVar(&form.Compounding, "compounding", defaults.Compounding, "compounding periods per year: 1 (annual) or 12 (monthly)")
	asJSON := fs.Bool("json", false, "print the projection as JSON")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	svc, formatter, err := newService(cfg, logger)
	if err != nil {
		return err
	}

	projection, err := svc.Calculate(ctx, service.SurfaceCLI, form.Request())
	if err != nil {
		if validators.IsValidationError(err) {
			return render.WriteMessage(stdout, err)
		}
		return err
	}

	table := formatter.Table(projection)
	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Projection *calculations.Projection `json:"projection"`
			Table      render.Table             `json:"table"`
		}{projection, table})
	}
	return render.WriteText(stdout, table)
}

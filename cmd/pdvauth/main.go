package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/elite-acai/pdv-auth/internal/app"
	"github.com/elite-acai/pdv-auth/internal/config"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		log.WithError(err).Error("pdvauth failed")
		os.Exit(1)
	}
}

func run() error {
	var (
		cfg         config.AppConfig
		migrateOnly bool
	)

	flagSet := pflag.NewFlagSet("pdvauth", pflag.ContinueOnError)
	flagSet.StringVarP(&cfg.ConfigPath, "config", "c", "", "path to config file (default: $PDV_CONFIG or config.yaml)")
	flagSet.BoolVar(&migrateOnly, "migrate", false, "run database migrations and exit")
	flagSet.BoolVar(&cfg.BootstrapAdmin, "bootstrap-admin", false, "create the privileged ADMIN operator if it does not exist")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if migrateOnly {
		return app.Migrate(ctx, cfg)
	}
	return app.RunServer(ctx, cfg)
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, "pdvauth: PDV operator authentication and permission API.\n\nUsage:\n  pdvauth [flags]\n\nFlags:\n")
	flagSet.PrintDefaults()
}

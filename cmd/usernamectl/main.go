package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/robertddewey/chatpop/internal/admin"
	"github.com/robertddewey/chatpop/internal/config"
	"github.com/robertddewey/chatpop/internal/namegen"
	"github.com/robertddewey/chatpop/internal/storage"
	"github.com/robertddewey/chatpop/internal/suggest"
	"github.com/robertddewey/chatpop/internal/username"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Setup logger
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	logger := log.With().Str("component", "usernamectl").Logger()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "suggest":
		err = runSuggest(os.Args[2:], logger)
	case "inspect":
		err = runInspect(os.Args[2:], logger)
	case "reset":
		err = runReset(os.Args[2:], logger)
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		logger.Fatal().Err(err).Msg("Command failed")
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: usernamectl <suggest|inspect|reset> [flags]")
}

// setup loads configuration and connects to Redis
func setup(configPath string) (*config.Config, *storage.Client, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	if level, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	client, err := storage.NewClient(cfg.Redis)
	if err != nil {
		return nil, nil, err
	}

	return cfg, client, nil
}

func runSuggest(args []string, logger zerolog.Logger) error {
	fs := flag.NewFlagSet("suggest", flag.ExitOnError)
	configPath := fs.String("config", "config/config.yaml", "Path to configuration file")
	fingerprint := fs.String("fingerprint", "", "Client fingerprint (random when omitted)")
	chatCode := fs.String("chat", "", "Chat code scoping the per-chat limit")
	fs.Parse(args)

	if *fingerprint == "" {
		*fingerprint = uuid.NewString()
		logger.Info().Str("fingerprint", *fingerprint).Msg("Generated fingerprint")
	}

	cfg, client, err := setup(*configPath)
	if err != nil {
		return err
	}
	defer client.Close()

	checker, err := username.NewBlocklistChecker(cfg.Limits.BlockedPatterns)
	if err != nil {
		return err
	}

	engine, err := suggest.New(client, namegen.New(), username.NewValidator(checker), suggest.Limits{
		MaxGlobal:         cfg.Limits.MaxGlobal,
		MaxPerChat:        cfg.Limits.MaxPerChat,
		Window:            cfg.Limits.Window(),
		ReservationTTL:    cfg.Limits.ReservationTTL(),
		MaxReserveRetries: cfg.Limits.MaxReserveRetries,
	}, logger)
	if err != nil {
		return err
	}

	result, err := engine.Suggest(context.Background(), suggest.Request{
		Fingerprint: *fingerprint,
		ChatCode:    *chatCode,
	})

	var limited *suggest.RateLimitedError
	if errors.As(err, &limited) {
		return printJSON(map[string]interface{}{
			"error":                limited.Error(),
			"generation_remaining": 0,
			"previous_usernames":   limited.Previous,
		})
	}
	if err != nil {
		return err
	}

	return printJSON(map[string]interface{}{
		"username":             result.Username,
		"generation_remaining": result.Remaining,
	})
}

func runInspect(args []string, logger zerolog.Logger) error {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	configPath := fs.String("config", "config/config.yaml", "Path to configuration file")
	fingerprint := fs.String("fingerprint", "", "Dump state for this fingerprint")
	chatCode := fs.String("chat", "", "Dump state for this chat code")
	fs.Parse(args)

	if (*fingerprint == "") == (*chatCode == "") {
		return fmt.Errorf("exactly one of -fingerprint or -chat is required")
	}

	_, client, err := setup(*configPath)
	if err != nil {
		return err
	}
	defer client.Close()

	maintenance := admin.NewMaintenance(client, logger)
	ctx := context.Background()

	if *fingerprint != "" {
		report, err := maintenance.InspectFingerprint(ctx, *fingerprint)
		if err != nil {
			return err
		}
		return printJSON(report)
	}

	report, err := maintenance.InspectChat(ctx, *chatCode)
	if err != nil {
		return err
	}
	return printJSON(report)
}

func runReset(args []string, logger zerolog.Logger) error {
	fs := flag.NewFlagSet("reset", flag.ExitOnError)
	configPath := fs.String("config", "config/config.yaml", "Path to configuration file")
	yes := fs.Bool("yes", false, "Confirm deletion of all engine state")
	fs.Parse(args)

	if !*yes {
		return fmt.Errorf("reset deletes all engine state; re-run with -yes to confirm")
	}

	_, client, err := setup(*configPath)
	if err != nil {
		return err
	}
	defer client.Close()

	maintenance := admin.NewMaintenance(client, logger)
	report, err := maintenance.Reset(context.Background())
	if err != nil {
		return err
	}

	logger.Info().Int64("total", report.Total).Msg("Reset complete")
	return printJSON(report)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

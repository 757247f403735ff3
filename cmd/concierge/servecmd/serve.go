// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package servecmd implements the "concierge serve" command: a demo
// service driven entirely by a config file and a JSONC schema
// definition, answering every invocation with an echo of what it
// understood.
package servecmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/concierge/cmd/concierge/cli"
	"github.com/bureau-foundation/concierge/lib/concierge"
	"github.com/bureau-foundation/concierge/lib/config"
	"github.com/bureau-foundation/concierge/lib/service"
	"github.com/bureau-foundation/concierge/lib/simpleschema"
)

type serveParams struct {
	Config string `json:"config" flag:"config" desc:"path to the service config file (overrides CONCIERGE_CONFIG)"`
}

// Command returns the "serve" command.
func Command() *cli.Command {
	var params serveParams

	return &cli.Command{
		Name:    "serve",
		Summary: "run a demo concierge service",
		Description: `Runs a concierge service from a config file.

The service answers schema requests with the schema built from the
configured JSONC definition (plus instructions from the configured
markdown file, when set), mints a small state document with every
schema response, and echoes every invocation back: the payload, the
calling client, and the replayed state. Point "concierge call" at it
to watch the whole exchange.

Configuration comes from --config or the CONCIERGE_CONFIG environment
variable. The server runs until SIGINT or SIGTERM, then drains within
the configured shutdown timeout. Logs are JSON on stderr at the
configured level.`,
		Usage: "concierge serve [--config FILE]",
		Examples: []cli.Example{
			{
				Description: "Serve with an explicit config file",
				Command:     "concierge serve --config concierge.yaml",
			},
			{
				Description: "Serve from the environment",
				Command:     "CONCIERGE_CONFIG=concierge.yaml concierge serve",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("serve", &params)
		},
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("serve takes no positional arguments, got %q", args[0])
			}

			cfg, err := loadConfig(params.Config)
			if err != nil {
				return err
			}

			logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: cfg.LogLevel(),
			}))

			handler, err := buildHandler(cfg, logger)
			if err != nil {
				return err
			}

			server := service.NewHTTPServer(service.HTTPServerConfig{
				Address:         cfg.Server.Address,
				Handler:         handler,
				ShutdownTimeout: cfg.ShutdownTimeout(),
				Logger:          logger,
			})

			logger.Info("starting concierge demo service",
				"environment", string(cfg.Environment),
				"schema", cfg.Schema.Definition,
				"serialized_state", cfg.State.Serialized,
			)
			return server.Serve(ctx)
		},
	}
}

// loadConfig resolves the service configuration from the --config flag
// or, when the flag is empty, the CONCIERGE_CONFIG environment variable.
func loadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, cli.NotFound("config file not found: %v", err)
		}
		return nil, cli.Validation("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, cli.Validation("invalid config: %v", err)
	}
	return cfg, nil
}

// buildHandler assembles the protocol handler from the configured
// schema definition and instructions.
func buildHandler(cfg *config.Config, logger *slog.Logger) (http.Handler, error) {
	schema, err := simpleschema.ReadDefinitionFile(cfg.Schema.Definition)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, cli.NotFound("schema definition %q not found", cfg.Schema.Definition)
		}
		return nil, cli.Validation("schema definition: %v", err)
	}

	fingerprint, err := simpleschema.Fingerprint(schema)
	if err != nil {
		return nil, cli.Internal("fingerprint schema: %w", err)
	}

	instructions, err := loadInstructions(cfg.Schema.Instructions)
	if err != nil {
		return nil, err
	}

	return service.ProtocolHandler(service.ProtocolHandlerConfig{
		Schema:          schema,
		Invoker:         echoInvoker,
		Instructions:    instructions,
		SerializedState: cfg.State.Serialized,
		MintState:       mintDemoState,
		ETag:            fingerprint,
		Logger:          logger,
	}), nil
}

// loadInstructions reads the configured instructions markdown file. An
// empty path means the service serves no instructions.
func loadInstructions(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", cli.NotFound("instructions file %q not found", path)
		}
		return "", cli.Validation("read instructions file: %v", err)
	}
	return string(data), nil
}

// echoInvoker answers every invocation with what the service understood:
// the payload, the calling client when one identified itself, and the
// replayed state. It exists so the demo service demonstrates the whole
// protocol loop without any business logic behind it.
func echoInvoker(_ context.Context, invocation concierge.InvocationRequest) (any, error) {
	result := map[string]any{
		"echo": invocation.Payload(),
	}
	if name := invocation.Client(); name != "" {
		result["client"] = name
	}
	if state := invocation.State(); state != nil {
		result["state"] = state
	}
	return result, nil
}

// mintDemoState attaches a small state document to every schema
// response so state replay shows up in the echo.
func mintDemoState(_ context.Context, _ *http.Request) (any, error) {
	return map[string]any{
		"issued": time.Now().UTC().Format(time.RFC3339),
	}, nil
}

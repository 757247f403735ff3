// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/concierge/lib/client"
)

// EndpointConfig holds the shared flags for reaching a concierge-speaking
// service. Used by the client-side commands (describe, call, invoke) so
// that connection flags are spelled the same everywhere.
//
// Usage pattern:
//
//	var endpoint cli.EndpointConfig
//	command := &cli.Command{
//	    Flags: func() *pflag.FlagSet {
//	        fs := pflag.NewFlagSet("mycommand", pflag.ContinueOnError)
//	        endpoint.AddFlags(fs)
//	        return fs
//	    },
//	    Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
//	        conn, err := endpoint.Connect(logger)
//	        ...
//	    },
//	}
type EndpointConfig struct {
	URL             string
	HeaderTransport bool
	ClientName      string
	Timeout         time.Duration
}

// AddFlags registers --url, --header-transport, --client, and --timeout
// on the given flag set.
func (c *EndpointConfig) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&c.URL, "url", "", "concierge service endpoint URL (required)")
	flagSet.BoolVar(&c.HeaderTransport, "header-transport", false, "carry protocol fields in reserved headers instead of the JSON body")
	flagSet.StringVar(&c.ClientName, "client", "", "client name reported to the service")
	flagSet.DurationVar(&c.Timeout, "timeout", 30*time.Second, "HTTP request timeout")
}

// Connect creates a protocol client for the configured endpoint.
func (c *EndpointConfig) Connect(logger *slog.Logger) (*client.Client, error) {
	if c.URL == "" {
		return nil, fmt.Errorf("--url is required")
	}
	return client.New(client.Config{
		BaseURL:         c.URL,
		HTTPClient:      &http.Client{Timeout: c.Timeout},
		ClientName:      c.ClientName,
		HeaderTransport: c.HeaderTransport,
		Logger:          logger,
	})
}

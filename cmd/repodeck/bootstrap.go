package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"

	"go.uber.org/zap"

	"github.com/waabox/repodeck/internal/api"
	"github.com/waabox/repodeck/internal/auth"
	"github.com/waabox/repodeck/internal/config"
	"github.com/waabox/repodeck/internal/csrf"
	"github.com/waabox/repodeck/internal/logger"
	"github.com/waabox/repodeck/internal/store"
	"github.com/waabox/repodeck/internal/workflow"
)

// app wires the backend client and the two dashboard components.
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	client  *api.Client
	store   *store.Store
	imports *workflow.Workflow
}

// bootstrap loads configuration and connects to the backend. The dashboard
// logs to a file because it owns the terminal; subcommands log to stderr
// only in debug mode.
func bootstrap(ctx context.Context, configPath string, dashboard bool) (*app, error) {
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logPath := cfg.LogFileOrDefault()
	if !dashboard && cfg.Debug {
		logPath = ""
	}
	log, err := logger.New(cfg.Debug, logPath)
	if err != nil {
		return nil, err
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}
	hc := &http.Client{Timeout: cfg.API.Timeout, Jar: jar}

	session, err := auth.NewSession(hc, cfg.API.BaseURL, cfg.Session.LoginPath, log)
	if err != nil {
		return nil, err
	}

	cookies, err := csrf.NewCookieSource(jar, cfg.API.BaseURL)
	if err != nil {
		return nil, err
	}
	tokens := csrf.Chain{
		cookies,
		csrf.StaticSource(cfg.Session.CSRFToken),
		csrf.NewFormFieldSource(hc, session.LoginURL()),
	}

	client, err := api.NewClient(cfg.API.BaseURL,
		api.WithHTTPClient(hc),
		api.WithTokenSource(tokens),
		api.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}

	creds := auth.Credentials{
		SessionID: cfg.Session.SessionID,
		Username:  cfg.Session.Username,
		Password:  cfg.Session.Password,
	}
	if err := session.Establish(ctx, creds); err != nil {
		if !errors.Is(err, auth.ErrNoCredentials) {
			return nil, fmt.Errorf("establishing session: %w", err)
		}
		log.Warn("no session credentials configured, requests are sent anonymously")
	}

	st := store.New(client, log)
	return &app{
		cfg:     cfg,
		logger:  log,
		client:  client,
		store:   st,
		imports: workflow.New(client, st, log),
	}, nil
}

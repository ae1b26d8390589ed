package main

import (
	"context"
	"errors"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/joacominatel/phonebook/internal/app"
	"github.com/joacominatel/phonebook/internal/config"
	"github.com/joacominatel/phonebook/internal/console"
	"github.com/joacominatel/phonebook/internal/database"
	"github.com/joacominatel/phonebook/internal/database/postgres"
	"github.com/joacominatel/phonebook/internal/database/sqlite"
	"github.com/joacominatel/phonebook/internal/logging"
	"go.uber.org/zap"
)

var errNoConnection = errors.New("no connection configured: pass --dsn or add a profile to the config file")

// session is an open, initialized phone book connection.
type session struct {
	cfg  *config.Config
	conn config.Connection
	log  *zap.Logger
	svc  *app.Service
	out  *console.Printer
}

// openSession loads the config, builds the logger, connects and prepares the
// schema, in that order. Any failure is returned before the caller gets a session.
func openSession(ctx context.Context) (*session, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, &app.ErrConfig{Cause: err}
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, &app.ErrConfig{Cause: err}
	}

	conn, err := selectConnection(cfg)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}

	store := newStore(conn, cfg.Preferences)
	svc := app.NewService(store, logger, app.Options{PreCheck: cfg.Preferences.PreCheck})
	out := console.NewPrinter(os.Stdout)

	logger.Debug("connecting", zap.String("connection", conn.DisplayString()))
	if err := svc.Connect(ctx, conn.DSN()); err != nil {
		_ = logger.Sync()
		return nil, err
	}
	out.Info("Connected to %s.", svc.DatabaseName())

	s := &session{cfg: cfg, conn: conn, log: logger, svc: svc, out: out}
	if err := svc.Init(ctx); err != nil {
		s.close()
		return nil, err
	}
	return s, nil
}

// close releases the connection and flushes the logger.
func (s *session) close() {
	if err := s.svc.Disconnect(); err != nil {
		s.log.Warn("disconnect failed", zap.Error(err))
	}
	s.out.Info("Connection closed.")
	_ = s.log.Sync()
}

// selectConnection picks --dsn over the default profile and resolves a keyring
// password. With --save the --dsn profile is written to the config file.
func selectConnection(cfg *config.Config) (config.Connection, error) {
	if dsnFlag != "" {
		conn, err := config.ParseDSN(dsnFlag)
		if err != nil {
			return config.Connection{}, &app.ErrConfig{Cause: err}
		}
		if saveFlag {
			cfg.AddConnection(conn)
			if err := config.Save(cfg, configPath); err != nil {
				return config.Connection{}, &app.ErrConfig{Cause: err}
			}
		}
		return conn, nil
	}

	def := config.DefaultConnection(cfg)
	if def == nil {
		return config.Connection{}, &app.ErrConfig{Cause: errNoConnection}
	}
	conn := *def
	if err := config.ResolvePassword(&conn); err != nil {
		return config.Connection{}, &app.ErrConfig{Cause: err}
	}
	return conn, nil
}

func newStore(conn config.Connection, prefs config.Preferences) database.Store {
	if conn.DriverName() == config.DriverSQLite {
		return sqlite.New()
	}
	var opts []postgres.Option
	if prefs.RoutinesScript != "" {
		opts = append(opts, postgres.WithRoutinesScript(prefs.RoutinesScript))
	}
	return postgres.New(opts...)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.TrimSpace(s[size:])
}

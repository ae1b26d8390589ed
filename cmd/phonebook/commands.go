package main

import (
	"fmt"
	"os"

	"github.com/joacominatel/phonebook/internal/config"
	"github.com/joacominatel/phonebook/internal/console"
	"github.com/joacominatel/phonebook/internal/tui"
	"github.com/spf13/cobra"
)

func runBrowse(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.close()

	size := browsePageSize
	if size == 0 {
		size = s.cfg.Preferences.PageSize
	}
	sort := browseSort
	if sort == "" {
		sort = s.cfg.Preferences.SortBy
	}
	return tui.Run(cmd.Context(), s.svc, size, sort, browsePhone)
}

func runImport(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.close()

	n, err := s.svc.ImportCSV(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	s.out.OK("Imported %d contact(s) from %s.", n, args[0])
	return nil
}

// runStorePassword does not connect; it only needs the profile name.
func runStorePassword(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	var conn config.Connection
	if dsnFlag != "" {
		if conn, err = config.ParseDSN(dsnFlag); err != nil {
			return err
		}
	} else if def := config.DefaultConnection(cfg); def != nil {
		conn = *def
	} else {
		return errNoConnection
	}

	password, err := readPassword(fmt.Sprintf("Password for %s: ", conn.DisplayString()))
	if err != nil {
		return err
	}
	if err := config.StorePassword(conn, password); err != nil {
		return err
	}

	// The profile must point at the keyring for the password to be picked up.
	conn.Password = ""
	conn.Keyring = true
	replaced := false
	for i := range cfg.Connections {
		if cfg.Connections[i].Name == conn.Name {
			cfg.Connections[i] = conn
			replaced = true
		}
	}
	if !replaced {
		cfg.AddConnection(conn)
	}
	if err := config.Save(cfg, configPath); err != nil {
		return err
	}

	console.NewPrinter(os.Stdout).OK("Password for %q stored in the keyring.", conn.Name)
	return nil
}

func readPassword(prompt string) (string, error) {
	if !console.IsTerminal() {
		return console.NewLineReader(os.Stdin, os.Stdout).ReadLine(prompt)
	}
	term, err := console.NewTerminal("")
	if err != nil {
		return "", err
	}
	defer term.Close()
	return term.ReadPassword(prompt)
}

// Package menu runs the interactive phone book menu.
package menu

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/joacominatel/phonebook/internal/app"
	"github.com/joacominatel/phonebook/internal/console"
	"go.uber.org/zap"
)

// Options holds defaults offered by the menu prompts.
type Options struct {
	PageSize int
	SortBy   string
}

// Menu reads a command key per iteration and dispatches it until Exit.
type Menu struct {
	svc  *app.Service
	in   console.Reader
	out  *console.Printer
	log  *zap.Logger
	opts Options
}

// New creates a menu over the service and the given console boundary.
func New(svc *app.Service, in console.Reader, out *console.Printer, logger *zap.Logger, opts Options) *Menu {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 5
	}
	if opts.SortBy == "" {
		opts.SortBy = "user_id"
	}
	return &Menu{svc: svc, in: in, out: out, log: logger, opts: opts}
}

// Run loops until the user selects Exit, input ends, or ctx is cancelled.
// Command failures are reported and the loop continues; only a broken input
// stream is returned.
func (m *Menu) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		m.printMenu()

		key, err := m.in.ReadLine("Select an option: ")
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, console.ErrInterrupted) {
				return nil
			}
			return fmt.Errorf("read option: %w", err)
		}

		cmd, ok := ParseCommand(key)
		if !ok {
			m.out.Error("Invalid option.")
			continue
		}
		if cmd == CmdExit {
			return nil
		}

		m.log.Debug("dispatch", zap.String("command", cmd.Label()))
		if err := m.Dispatch(ctx, cmd); err != nil {
			m.report(err)
		}
	}
}

// Dispatch runs the handler for one command.
func (m *Menu) Dispatch(ctx context.Context, cmd Command) error {
	switch cmd {
	case CmdImportCSV:
		return m.importCSV(ctx)
	case CmdAddContact:
		return m.addContact(ctx)
	case CmdBatchInsert:
		return m.batchInsert(ctx)
	case CmdBulkInsert:
		return m.bulkInsert(ctx)
	case CmdUpdatePhoneByName:
		return m.updatePhoneByName(ctx)
	case CmdUpdateNameByPhone:
		return m.updateNameByPhone(ctx)
	case CmdUpdateByID:
		return m.updateByID(ctx)
	case CmdUpsert:
		return m.upsert(ctx)
	case CmdDeleteByName:
		return m.deleteByName(ctx)
	case CmdDeleteByPhone:
		return m.deleteByPhone(ctx)
	case CmdSearch:
		return m.search(ctx)
	case CmdListAll:
		return m.listAll(ctx)
	case CmdBrowse:
		return m.browse(ctx)
	case CmdListUpToID:
		return m.listUpToID(ctx)
	case CmdDeleteByNameOrSurname:
		return m.deleteByNameOrSurname(ctx)
	default:
		return fmt.Errorf("unknown command %d", cmd)
	}
}

func (m *Menu) printMenu() {
	m.out.Println("")
	m.out.Title("--- PHONE BOOK MENU ---")
	for _, c := range Commands() {
		m.out.Println(fmt.Sprintf("%2s. %s", c.Key(), c.Label()))
	}
}

// report turns a handler error into a console message.
func (m *Menu) report(err error) {
	var (
		numErr   *NumberError
		notFound *app.FileNotFoundError
		batchErr *app.BatchError
		queryErr *app.ErrQuery
	)
	switch {
	case errors.Is(err, errAborted):
		m.out.Warn("Cancelled.")
	case errors.Is(err, app.ErrNoMatch):
		m.out.Info("%s; nothing changed.", capitalize(err.Error()))
	case errors.Is(err, app.ErrNothingToUpdate):
		m.out.Warn("Nothing to update.")
	case errors.As(err, &numErr):
		m.out.Error("%s", numErr.Error())
	case errors.As(err, &notFound):
		m.out.Error("File not found: %s", notFound.Path)
	case errors.As(err, &batchErr):
		m.out.Error("Batch stopped at entry %d: %v", batchErr.Index+1, batchErr.Cause)
		m.out.Info("%d contact(s) were added before the failure.", batchErr.Inserted)
	case errors.As(err, &queryErr):
		m.out.Error("Database error: %s", err.Error())
	default:
		m.out.Error("%s", capitalize(err.Error()))
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if c := s[0]; c >= 'a' && c <= 'z' {
		return string(c-'a'+'A') + s[1:]
	}
	return s
}

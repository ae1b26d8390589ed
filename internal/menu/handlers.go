package menu

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/joacominatel/phonebook/internal/app"
	"github.com/joacominatel/phonebook/internal/database"
)

func (m *Menu) importCSV(ctx context.Context) error {
	path, err := m.ask("Enter path to CSV file: ")
	if err != nil {
		return err
	}
	n, err := m.svc.ImportCSV(ctx, path)
	if err != nil {
		return err
	}
	m.out.OK("Imported %d contact(s) from %s.", n, path)
	return nil
}

func (m *Menu) addContact(ctx context.Context) error {
	name, err := m.ask("Enter name: ")
	if err != nil {
		return err
	}
	surname, err := m.ask("Enter surname (optional): ")
	if err != nil {
		return err
	}
	phone, err := m.ask("Enter phone number: ")
	if err != nil {
		return err
	}
	c, err := m.svc.AddContact(ctx, name, surname, phone)
	if err != nil {
		return err
	}
	m.out.OK("Added %s -> %s (id %d).", c.FullName(), c.Phone, c.ID)
	return nil
}

func (m *Menu) batchInsert(ctx context.Context) error {
	n, err := m.askCount("How many contacts to add? ")
	if err != nil {
		return err
	}
	entries, err := m.askEntries(n)
	if err != nil {
		return err
	}
	inserted, err := m.svc.BatchInsert(ctx, entries)
	if err != nil {
		return err
	}
	m.out.OK("Batch insert complete: %d contact(s) added.", len(inserted))
	return nil
}

func (m *Menu) bulkInsert(ctx context.Context) error {
	n, err := m.askCount("How many contacts to add? ")
	if err != nil {
		return err
	}
	entries, err := m.askEntries(n)
	if err != nil {
		return err
	}
	accepted, rejected, err := m.svc.BulkInsert(ctx, entries)
	if err != nil {
		return err
	}
	m.out.OK("%d contact(s) added.", accepted)
	if len(rejected) > 0 {
		m.out.Warn("%d entry(ies) rejected: name is required and phone must be 3-15 digits with an optional '+'.", len(rejected))
		m.out.Contacts(rejected)
	}
	return nil
}

func (m *Menu) updatePhoneByName(ctx context.Context) error {
	name, err := m.ask("Enter name: ")
	if err != nil {
		return err
	}
	phone, err := m.ask("Enter new phone number: ")
	if err != nil {
		return err
	}
	n, err := m.svc.UpdatePhoneByName(ctx, name, phone)
	if err != nil {
		return err
	}
	m.out.OK("Phone for '%s' updated (%d row(s) affected).", name, n)
	return nil
}

func (m *Menu) updateNameByPhone(ctx context.Context) error {
	phone, err := m.ask("Enter current phone number: ")
	if err != nil {
		return err
	}
	name, err := m.ask("Enter new name: ")
	if err != nil {
		return err
	}
	n, err := m.svc.UpdateNameByPhone(ctx, phone, name)
	if err != nil {
		return err
	}
	m.out.OK("Name for phone '%s' updated (%d row(s) affected).", phone, n)
	return nil
}

func (m *Menu) updateByID(ctx context.Context) error {
	id, err := m.askInt("Enter contact ID: ")
	if err != nil {
		return err
	}
	if id <= 0 {
		return app.ErrInvalidID
	}
	var ch database.Changes
	if ch.Name, err = m.ask("Enter new name (leave blank to skip): "); err != nil {
		return err
	}
	if ch.Surname, err = m.ask("Enter new surname (leave blank to skip): "); err != nil {
		return err
	}
	if ch.Phone, err = m.ask("Enter new phone (leave blank to skip): "); err != nil {
		return err
	}
	n, err := m.svc.UpdateByID(ctx, id, ch)
	if err != nil {
		return err
	}
	m.out.OK("Contact %d updated (%d row(s) affected).", id, n)
	return nil
}

func (m *Menu) upsert(ctx context.Context) error {
	name, err := m.ask("Enter name: ")
	if err != nil {
		return err
	}
	surname, err := m.ask("Enter surname (optional): ")
	if err != nil {
		return err
	}
	phone, err := m.ask("Enter phone number: ")
	if err != nil {
		return err
	}
	c, inserted, err := m.svc.Upsert(ctx, name, surname, phone)
	if err != nil {
		return err
	}
	if inserted {
		m.out.OK("Inserted %s -> %s.", c.FullName(), c.Phone)
	} else {
		m.out.OK("Updated phone for %s to %s.", c.FullName(), c.Phone)
	}
	return nil
}

func (m *Menu) deleteByName(ctx context.Context) error {
	name, err := m.ask("Enter name to delete: ")
	if err != nil {
		return err
	}
	n, err := m.svc.DeleteByName(ctx, name)
	if err != nil {
		return err
	}
	m.out.OK("Deleted %d record(s) with name '%s'.", n, name)
	return nil
}

func (m *Menu) deleteByPhone(ctx context.Context) error {
	phone, err := m.ask("Enter phone number to delete: ")
	if err != nil {
		return err
	}
	n, err := m.svc.DeleteByPhone(ctx, phone)
	if err != nil {
		return err
	}
	m.out.OK("Deleted %d record(s) with phone '%s'.", n, phone)
	return nil
}

func (m *Menu) deleteByNameOrSurname(ctx context.Context) error {
	text, err := m.ask("Enter name or surname to delete: ")
	if err != nil {
		return err
	}
	n, err := m.svc.DeleteByNameOrSurname(ctx, text)
	if err != nil {
		return err
	}
	m.out.OK("Deleted %d record(s) with name or surname '%s'.", n, text)
	return nil
}

func (m *Menu) search(ctx context.Context) error {
	pattern, err := m.ask("Enter search pattern (% and _ are wildcards): ")
	if err != nil {
		return err
	}
	contacts, err := m.svc.Search(ctx, pattern)
	if err != nil {
		return err
	}
	m.out.Contacts(contacts)
	return nil
}

func (m *Menu) listAll(ctx context.Context) error {
	contacts, err := m.svc.ListAll(ctx)
	if err != nil {
		return err
	}
	m.out.Contacts(contacts)
	return nil
}

func (m *Menu) listUpToID(ctx context.Context) error {
	maxID, err := m.askInt("Show contacts with ID up to: ")
	if err != nil {
		return err
	}
	contacts, err := m.svc.ListUpToID(ctx, maxID)
	if err != nil {
		return err
	}
	m.out.Contacts(contacts)
	return nil
}

func (m *Menu) browse(ctx context.Context) error {
	size := m.opts.PageSize
	line, err := m.ask(fmt.Sprintf("Page size [%d]: ", size))
	if err != nil {
		return err
	}
	if line != "" {
		if size, err = atoiPositive(line); err != nil {
			return err
		}
	}

	columns := make([]string, len(database.SortColumns))
	for i, c := range database.SortColumns {
		columns[i] = string(c)
	}
	sort, err := m.ask(fmt.Sprintf("Sort by (%s) [%s]: ", strings.Join(columns, ", "), m.opts.SortBy))
	if err != nil {
		return err
	}
	if sort == "" {
		sort = m.opts.SortBy
	}
	phone, err := m.ask("Phone filter (blank for all): ")
	if err != nil {
		return err
	}

	p, err := m.svc.OpenPager(ctx, size, sort, phone)
	if err != nil {
		return err
	}
	if p.Phone() != "" {
		m.out.Info("Phones like %s.", p.Phone())
	}
	m.out.Info("Total records: %d, pages: %d.", p.Total(), p.Pages())

	fetch := true
	for {
		if fetch {
			rows, err := m.svc.FetchPage(ctx, p)
			if err != nil {
				return err
			}
			if p.State() == app.StateDone {
				m.out.Info("No more records.")
				return nil
			}
			m.out.Title(fmt.Sprintf("Page %d of %d", p.Page(), p.Pages()))
			m.out.Contacts(rows)
		}

		choice, err := m.ask("[n]ext, [p]revious, [q]uit: ")
		if errors.Is(err, errAborted) {
			p.Quit()
			return nil
		}
		if err != nil {
			return err
		}

		switch strings.ToLower(choice) {
		case "n", "next":
			if err := p.Next(); err != nil {
				m.out.Info("No more records.")
				fetch = false
				continue
			}
			fetch = true
		case "p", "prev", "previous":
			if !p.Prev() {
				m.out.Info("Already on the first page.")
				fetch = false
				continue
			}
			fetch = true
		case "q", "quit":
			p.Quit()
			return nil
		default:
			m.out.Error("Invalid option.")
			fetch = false
		}
	}
}

func atoiPositive(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &NumberError{Input: s}
	}
	if n <= 0 || n > app.MaxPageSize {
		return 0, app.ErrInvalidPageSize
	}
	return n, nil
}

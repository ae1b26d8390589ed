package menu

import "strconv"

// Command is one entry of the phone book menu. The set is closed; its key is
// the number the user types.
type Command int

const (
	CmdExit Command = iota
	CmdImportCSV
	CmdAddContact
	CmdBatchInsert
	CmdBulkInsert
	CmdUpdatePhoneByName
	CmdUpdateNameByPhone
	CmdUpdateByID
	CmdUpsert
	CmdDeleteByName
	CmdDeleteByPhone
	CmdSearch
	CmdListAll
	CmdBrowse
	CmdListUpToID
	CmdDeleteByNameOrSurname

	numCommands
)

// Key returns the text the user types to select the command.
func (c Command) Key() string {
	return strconv.Itoa(int(c))
}

// Label returns the menu text of the command.
func (c Command) Label() string {
	switch c {
	case CmdExit:
		return "Exit"
	case CmdImportCSV:
		return "Import from CSV file"
	case CmdAddContact:
		return "Add contact"
	case CmdBatchInsert:
		return "Batch insert from console"
	case CmdBulkInsert:
		return "Bulk insert with validation"
	case CmdUpdatePhoneByName:
		return "Update phone by name"
	case CmdUpdateNameByPhone:
		return "Update name by phone"
	case CmdUpdateByID:
		return "Update contact by ID"
	case CmdUpsert:
		return "Insert or update contact"
	case CmdDeleteByName:
		return "Delete by name"
	case CmdDeleteByPhone:
		return "Delete by phone"
	case CmdSearch:
		return "Search by pattern"
	case CmdListAll:
		return "List all contacts"
	case CmdBrowse:
		return "Browse pages"
	case CmdListUpToID:
		return "Query IDs up to a value"
	case CmdDeleteByNameOrSurname:
		return "Delete by name or surname"
	default:
		return "Unknown"
	}
}

// Commands returns the menu entries in display order, Exit last.
func Commands() []Command {
	cmds := make([]Command, 0, numCommands)
	for c := CmdExit + 1; c < numCommands; c++ {
		cmds = append(cmds, c)
	}
	return append(cmds, CmdExit)
}

// ParseCommand maps a typed key to its command.
func ParseCommand(key string) (Command, bool) {
	n, err := strconv.Atoi(key)
	if err != nil || n < 0 || n >= int(numCommands) {
		return 0, false
	}
	c := Command(n)
	if c.Key() != key {
		return 0, false
	}
	return c, true
}

package notes

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/satchelhq/satchel/pkg/ops"
)

type Adapter struct {
	runner Runner
}

func New(runner Runner) *Adapter {
	if runner == nil {
		runner = OsascriptRunner{}
	}
	return &Adapter{runner: runner}
}

func (a *Adapter) listAccounts(ctx context.Context, _ ops.Args) (any, error) {
	script := scriptPrelude + `tell application "Notes"
	set output to ""
	repeat with acc in accounts
		set output to output & (id of acc) & fs & (name of acc) & rs
	end repeat
	return output
end tell`
	out, err := a.runner.Run(ctx, script)
	if err != nil {
		return nil, err
	}

	accounts := make([]Account, 0)
	for _, record := range splitRecords(out) {
		fields := splitFields(record)
		accounts = append(accounts, Account{ID: field(fields, 0), Name: field(fields, 1)})
	}
	return accounts, nil
}

func (a *Adapter) listFolders(ctx context.Context, args ops.Args) (any, error) {
	accountName := args.String("account_name")

	var script string
	if accountName != "" {
		script = scriptPrelude + fmt.Sprintf(`tell application "Notes"
	set output to ""
	try
		set acc to account "%s"
		repeat with f in folders of acc
			set output to output & (id of f) & fs & (name of f) & fs & (count of notes in f) & rs
		end repeat
	end try
	return output
end tell`, escapeScript(accountName))
	} else {
		script = scriptPrelude + `tell application "Notes"
	set output to ""
	repeat with acc in accounts
		set accName to name of acc
		repeat with f in folders of acc
			set output to output & (id of f) & fs & (name of f) & fs & accName & fs & (count of notes in f) & rs
		end repeat
	end repeat
	return output
end tell`
	}

	out, err := a.runner.Run(ctx, script)
	if err != nil {
		return nil, err
	}

	folders := make([]Folder, 0)
	for _, record := range splitRecords(out) {
		fields := splitFields(record)
		if accountName != "" {
			folders = append(folders, Folder{
				ID:        field(fields, 0),
				Name:      field(fields, 1),
				NoteCount: parseCount(field(fields, 2)),
			})
		} else {
			folders = append(folders, Folder{
				ID:        field(fields, 0),
				Name:      field(fields, 1),
				Account:   field(fields, 2),
				NoteCount: parseCount(field(fields, 3)),
			})
		}
	}
	return folders, nil
}

func (a *Adapter) listNotes(ctx context.Context, args ops.Args) (any, error) {
	folderName := args.String("folder_name")
	maxResults := args.Int("max_results")

	var script string
	if folderName != "" {
		script = scriptPrelude + fmt.Sprintf(`tell application "Notes"
	set output to ""
	set noteCount to 0
	repeat with acc in accounts
		repeat with f in folders of acc
			if name of f is "%s" then
				repeat with n in notes of f
					if noteCount >= %d then exit repeat
					set nDate to modification date of n
					set nDateStr to (year of nDate as string) & "-" & (month of nDate as integer as string) & "-" & (day of nDate as string)
					set output to output & (id of n) & fs & (name of n) & fs & nDateStr & rs
					set noteCount to noteCount + 1
				end repeat
			end if
			if noteCount >= %d then exit repeat
		end repeat
		if noteCount >= %d then exit repeat
	end repeat
	return output
end tell`, escapeScript(folderName), maxResults, maxResults, maxResults)
	} else {
		script = scriptPrelude + fmt.Sprintf(`tell application "Notes"
	set output to ""
	set noteCount to 0
	repeat with acc in accounts
		repeat with f in folders of acc
			set folderName to name of f
			repeat with n in notes of f
				if noteCount >= %d then exit repeat
				set nDate to modification date of n
				set nDateStr to (year of nDate as string) & "-" & (month of nDate as integer as string) & "-" & (day of nDate as string)
				set output to output & (id of n) & fs & (name of n) & fs & nDateStr & fs & folderName & rs
				set noteCount to noteCount + 1
			end repeat
			if noteCount >= %d then exit repeat
		end repeat
		if noteCount >= %d then exit repeat
	end repeat
	return output
end tell`, maxResults, maxResults, maxResults)
	}

	out, err := a.runner.Run(ctx, script)
	if err != nil {
		return nil, err
	}

	notes := make([]NoteSummary, 0)
	for _, record := range splitRecords(out) {
		fields := splitFields(record)
		note := NoteSummary{
			ID:               field(fields, 0),
			Name:             field(fields, 1),
			ModificationDate: field(fields, 2),
		}
		if folderName == "" {
			note.Folder = field(fields, 3)
		}
		notes = append(notes, note)
	}
	return notes, nil
}

func (a *Adapter) getNote(ctx context.Context, args ops.Args) (any, error) {
	noteID := args.String("note_id")
	script := scriptPrelude + fmt.Sprintf(`tell application "Notes"
	set n to note id "%s"
	set nCreated to creation date of n
	set nModified to modification date of n
	set createdStr to (year of nCreated as string) & "-" & (month of nCreated as integer as string) & "-" & (day of nCreated as string)
	set modifiedStr to (year of nModified as string) & "-" & (month of nModified as integer as string) & "-" & (day of nModified as string)
	return (id of n) & fs & (name of n) & fs & (plaintext of n) & fs & createdStr & fs & modifiedStr & fs & (password protected of n)
end tell`, escapeScript(noteID))

	out, err := a.runner.Run(ctx, script)
	if err != nil {
		return nil, err
	}
	fields := splitFields(out)
	return NoteDetail{
		ID:                field(fields, 0),
		Name:              field(fields, 1),
		Plaintext:         field(fields, 2),
		CreationDate:      field(fields, 3),
		ModificationDate:  field(fields, 4),
		PasswordProtected: field(fields, 5) == "true",
	}, nil
}

func (a *Adapter) getNoteHTML(ctx context.Context, args ops.Args) (any, error) {
	script := scriptPrelude + fmt.Sprintf(`tell application "Notes"
	set n to note id "%s"
	return (id of n) & fs & (name of n) & fs & (body of n)
end tell`, escapeScript(args.String("note_id")))

	out, err := a.runner.Run(ctx, script)
	if err != nil {
		return nil, err
	}
	fields := splitFields(out)
	return NoteHTML{ID: field(fields, 0), Name: field(fields, 1), HTML: field(fields, 2)}, nil
}

func (a *Adapter) createNote(ctx context.Context, args ops.Args) (any, error) {
	name := args.String("name")
	folderName := args.String("folder_name")
	body := htmlBody(name, args.String("body"))

	var script string
	if accountName := args.String("account_name"); accountName != "" {
		script = fmt.Sprintf(`tell application "Notes"
	set acc to account "%s"
	set f to folder "%s" of acc
	set n to make new note at f with properties {body:"%s"}
	return id of n
end tell`, escapeScript(accountName), escapeScript(folderName), body)
	} else {
		script = fmt.Sprintf(`tell application "Notes"
	set f to folder "%s"
	set n to make new note at f with properties {body:"%s"}
	return id of n
end tell`, escapeScript(folderName), body)
	}

	id, err := a.runner.Run(ctx, script)
	if err != nil {
		return nil, err
	}
	return CreateResult{ID: id, Name: name, Folder: folderName}, nil
}

func (a *Adapter) updateNote(ctx context.Context, args ops.Args) (any, error) {
	noteID := args.String("note_id")
	escapedID := escapeScript(noteID)

	switch {
	case args.Has("body"):
		name := args.String("name")
		if name == "" {
			// The title lives in the body's leading h1, so rewriting
			// the body needs the current title to preserve it.
			current, err := a.runner.Run(ctx, fmt.Sprintf(`tell application "Notes"
	return name of note id "%s"
end tell`, escapedID))
			if err != nil {
				return nil, err
			}
			name = current
		}
		script := fmt.Sprintf(`tell application "Notes"
	set n to note id "%s"
	set body of n to "%s"
	return id of n
end tell`, escapedID, htmlBody(name, args.String("body")))
		id, err := a.runner.Run(ctx, script)
		if err != nil {
			return nil, err
		}
		return UpdateResult{ID: id, Updated: true}, nil

	case args.Has("name"):
		script := fmt.Sprintf(`tell application "Notes"
	set n to note id "%s"
	set name of n to "%s"
	return id of n
end tell`, escapedID, escapeScript(args.String("name")))
		id, err := a.runner.Run(ctx, script)
		if err != nil {
			return nil, err
		}
		return UpdateResult{ID: id, Updated: true}, nil

	default:
		return nil, errors.New("must provide body or name to update")
	}
}

func (a *Adapter) searchNotes(ctx context.Context, args ops.Args) (any, error) {
	maxResults := args.Int("max_results")
	// Title match is done on the Go side; AppleScript has no reliable
	// case-insensitive contains without shelling out per note.
	script := scriptPrelude + fmt.Sprintf(`tell application "Notes"
	set output to ""
	set noteCount to 0
	repeat with acc in accounts
		repeat with f in folders of acc
			set folderName to name of f
			repeat with n in notes of f
				if noteCount >= %d then exit repeat
				set nDate to modification date of n
				set nDateStr to (year of nDate as string) & "-" & (month of nDate as integer as string) & "-" & (day of nDate as string)
				set output to output & (id of n) & fs & (name of n) & fs & nDateStr & fs & folderName & rs
				set noteCount to noteCount + 1
			end repeat
			if noteCount >= %d then exit repeat
		end repeat
		if noteCount >= %d then exit repeat
	end repeat
	return output
end tell`, scanLimit, scanLimit, scanLimit)

	out, err := a.runner.Run(ctx, script)
	if err != nil {
		return nil, err
	}

	query := strings.ToLower(args.String("query"))
	matches := make([]NoteSummary, 0)
	for _, record := range splitRecords(out) {
		fields := splitFields(record)
		name := field(fields, 1)
		if !strings.Contains(strings.ToLower(name), query) {
			continue
		}
		matches = append(matches, NoteSummary{
			ID:               field(fields, 0),
			Name:             name,
			ModificationDate: field(fields, 2),
			Folder:           field(fields, 3),
		})
		if len(matches) >= maxResults {
			break
		}
	}
	return matches, nil
}

func (a *Adapter) deleteNote(ctx context.Context, args ops.Args) (any, error) {
	noteID := args.String("note_id")
	escapedID := escapeScript(noteID)

	name, err := a.runner.Run(ctx, fmt.Sprintf(`tell application "Notes"
	return name of note id "%s"
end tell`, escapedID))
	if err != nil {
		return nil, err
	}

	if _, err := a.runner.Run(ctx, fmt.Sprintf(`tell application "Notes"
	delete note id "%s"
	return "deleted"
end tell`, escapedID)); err != nil {
		return nil, err
	}
	return DeleteResult{
		Deleted:  true,
		NoteID:   noteID,
		NoteName: name,
		Recovery: "Note moved to Recently Deleted folder. Recoverable for 30 days.",
	}, nil
}

func (a *Adapter) showNote(ctx context.Context, args ops.Args) (any, error) {
	noteID := args.String("note_id")
	if _, err := a.runner.Run(ctx, fmt.Sprintf(`tell application "Notes"
	show note id "%s"
	activate
	return "shown"
end tell`, escapeScript(noteID))); err != nil {
		return nil, err
	}
	return ShowResult{Shown: true, NoteID: noteID}, nil
}

// scanLimit bounds how many notes a title search walks before giving up.
const scanLimit = 1000

func parseCount(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

package notes

import "github.com/satchelhq/satchel/pkg/ops"

// Register declares every Apple Notes operation on the registry.
func (a *Adapter) Register(reg *ops.Registry) {
	reg.Register(ops.Descriptor{
		Name:        "notes_list_accounts",
		Description: "List all Apple Notes accounts (iCloud, On My Mac, etc.).",
		Handler:     a.listAccounts,
	})
	reg.Register(ops.Descriptor{
		Name:        "notes_list_folders",
		Description: "List all folders in Apple Notes.",
		Params: map[string]ops.Param{
			"account_name": {Type: ops.TypeString, Description: "Filter folders by account name (optional)"},
		},
		Handler: a.listFolders,
	})
	reg.Register(ops.Descriptor{
		Name:        "notes_list",
		Description: "List notes, optionally filtered by folder.",
		Params: map[string]ops.Param{
			"folder_name": {Type: ops.TypeString, Description: "Filter notes by folder name (optional)"},
			"max_results": {Type: ops.TypeInteger, Description: "Maximum notes to return (default: 50)", Default: 50},
		},
		Handler: a.listNotes,
	})
	reg.Register(ops.Descriptor{
		Name:        "notes_get",
		Description: "Get a note's content by its ID. Returns plaintext content.",
		Params: map[string]ops.Param{
			"note_id": {Type: ops.TypeString, Description: "The note ID", Required: true},
		},
		Handler: a.getNote,
	})
	reg.Register(ops.Descriptor{
		Name:        "notes_get_html",
		Description: "Get a note's HTML content by its ID.",
		Params: map[string]ops.Param{
			"note_id": {Type: ops.TypeString, Description: "The note ID", Required: true},
		},
		Handler: a.getNoteHTML,
	})
	reg.Register(ops.Descriptor{
		Name:        "notes_create",
		Description: "Create a new note.",
		Params: map[string]ops.Param{
			"name":         {Type: ops.TypeString, Description: "Note title", Required: true},
			"body":         {Type: ops.TypeString, Description: "Note content (plain text)", Required: true},
			"folder_name":  {Type: ops.TypeString, Description: "Folder to create note in (default: 'Notes')", Default: "Notes"},
			"account_name": {Type: ops.TypeString, Description: "Account to create note in (optional)"},
		},
		Handler: a.createNote,
	})
	reg.Register(ops.Descriptor{
		Name:        "notes_update",
		Description: "Update an existing note's content.",
		Params: map[string]ops.Param{
			"note_id": {Type: ops.TypeString, Description: "The note ID to update", Required: true},
			"body":    {Type: ops.TypeString, Description: "New note content (plain text)"},
			"name":    {Type: ops.TypeString, Description: "New note title (optional)"},
		},
		Handler: a.updateNote,
	})
	reg.Register(ops.Descriptor{
		Name:        "notes_search",
		Description: "Search notes by name/title.",
		Params: map[string]ops.Param{
			"query":       {Type: ops.TypeString, Description: "Search query (searches note titles)", Required: true},
			"max_results": {Type: ops.TypeInteger, Description: "Maximum results (default: 20)", Default: 20},
		},
		Handler: a.searchNotes,
	})
	reg.Register(ops.Descriptor{
		Name:        "notes_delete",
		Description: "Delete a note (moves to Recently Deleted, recoverable for 30 days).",
		Params: map[string]ops.Param{
			"note_id": {Type: ops.TypeString, Description: "The note ID to delete", Required: true},
		},
		Handler: a.deleteNote,
	})
	reg.Register(ops.Descriptor{
		Name:        "notes_show",
		Description: "Show a note in the Notes app UI.",
		Params: map[string]ops.Param{
			"note_id": {Type: ops.TypeString, Description: "The note ID to show", Required: true},
		},
		Handler: a.showNote,
	})
}

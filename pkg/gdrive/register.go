package gdrive

import "github.com/satchelhq/satchel/pkg/ops"

// Register declares every Drive operation on the registry.
func (a *Adapter) Register(reg *ops.Registry) {
	fileID := ops.Param{Type: ops.TypeString, Description: "The file ID", Required: true}

	reg.Register(ops.Descriptor{
		Name:        "gdrive_list_files",
		Description: "List files in Google Drive. Can filter by folder or custom query.",
		Params: map[string]ops.Param{
			"query":     {Type: ops.TypeString, Description: `Drive API query (e.g., "mimeType='application/pdf'")`},
			"folder_id": {Type: ops.TypeString, Description: "List files in a specific folder"},
			"page_size": {Type: ops.TypeInteger, Description: "Max files to return (default: 20)", Default: 20},
			"order_by":  {Type: ops.TypeString, Description: "Sort order (default: 'modifiedTime desc')", Default: "modifiedTime desc"},
		},
		Handler: a.listFiles,
	})
	reg.Register(ops.Descriptor{
		Name:        "gdrive_search",
		Description: "Search files by name or content.",
		Params: map[string]ops.Param{
			"query":     {Type: ops.TypeString, Description: "Search query", Required: true},
			"page_size": {Type: ops.TypeInteger, Description: "Max results (default: 20)", Default: 20},
		},
		Handler: a.searchFiles,
	})
	reg.Register(ops.Descriptor{
		Name:        "gdrive_get_file",
		Description: "Get metadata for a specific file.",
		Params:      map[string]ops.Param{"file_id": fileID},
		Handler:     a.getFile,
	})
	reg.Register(ops.Descriptor{
		Name:        "gdrive_read_file",
		Description: "Read content of a file. Works with text files, Google Docs, Sheets (as CSV), etc.",
		Params: map[string]ops.Param{
			"file_id": {Type: ops.TypeString, Description: "The file ID to read", Required: true},
		},
		Handler: a.readFile,
	})
	reg.Register(ops.Descriptor{
		Name:        "gdrive_create_file",
		Description: "Create a new file in Drive.",
		Params: map[string]ops.Param{
			"name":      {Type: ops.TypeString, Description: "File name", Required: true},
			"content":   {Type: ops.TypeString, Description: "File content", Required: true},
			"mime_type": {Type: ops.TypeString, Description: "MIME type (default: 'text/plain')", Default: "text/plain"},
			"folder_id": {Type: ops.TypeString, Description: "Parent folder ID (optional)"},
		},
		Handler: a.createFile,
	})
	reg.Register(ops.Descriptor{
		Name:        "gdrive_update_file",
		Description: "Update content of an existing file.",
		Params: map[string]ops.Param{
			"file_id":   {Type: ops.TypeString, Description: "The file ID to update", Required: true},
			"content":   {Type: ops.TypeString, Description: "New file content", Required: true},
			"mime_type": {Type: ops.TypeString, Description: "MIME type (default: 'text/plain')", Default: "text/plain"},
		},
		Handler: a.updateFile,
	})
	reg.Register(ops.Descriptor{
		Name:        "gdrive_delete_file",
		Description: "Delete a file (moves to trash).",
		Params: map[string]ops.Param{
			"file_id": {Type: ops.TypeString, Description: "The file ID to delete", Required: true},
		},
		Handler: a.deleteFile,
	})
	reg.Register(ops.Descriptor{
		Name:        "gdrive_create_folder",
		Description: "Create a new folder in Drive.",
		Params: map[string]ops.Param{
			"name":      {Type: ops.TypeString, Description: "Folder name", Required: true},
			"parent_id": {Type: ops.TypeString, Description: "Parent folder ID (optional)"},
		},
		Handler: a.createFolder,
	})
	reg.Register(ops.Descriptor{
		Name:        "gdrive_move_file",
		Description: "Move a file to a different folder.",
		Params: map[string]ops.Param{
			"file_id":       {Type: ops.TypeString, Description: "The file ID to move", Required: true},
			"new_folder_id": {Type: ops.TypeString, Description: "Destination folder ID", Required: true},
		},
		Handler: a.moveFile,
	})
	reg.Register(ops.Descriptor{
		Name:        "gdrive_share_file",
		Description: "Share a file with someone.",
		Params: map[string]ops.Param{
			"file_id": {Type: ops.TypeString, Description: "The file ID to share", Required: true},
			"email":   {Type: ops.TypeString, Description: "Email address to share with", Required: true},
			"role":    {Type: ops.TypeString, Description: "Permission role: 'reader', 'writer', or 'commenter' (default: 'reader')", Default: "reader", Enum: []string{"reader", "writer", "commenter"}},
		},
		Handler: a.shareFile,
	})
	reg.Register(ops.Descriptor{
		Name:        "gdrive_copy_file",
		Description: "Make a copy of a file.",
		Params: map[string]ops.Param{
			"file_id":   {Type: ops.TypeString, Description: "The file ID to copy", Required: true},
			"new_name":  {Type: ops.TypeString, Description: "Name for the copy (optional)"},
			"folder_id": {Type: ops.TypeString, Description: "Destination folder ID (optional)"},
		},
		Handler: a.copyFile,
	})
	reg.Register(ops.Descriptor{
		Name:        "gdrive_create_google_doc",
		Description: "Create a native Google Doc by converting from HTML or plain text content.",
		Params: map[string]ops.Param{
			"name":         {Type: ops.TypeString, Description: "Document name", Required: true},
			"content":      {Type: ops.TypeString, Description: "HTML or plain text content to convert to Google Doc", Required: true},
			"content_type": {Type: ops.TypeString, Description: "Format of input content: 'html' or 'text' (default: 'html')", Default: "html", Enum: []string{"html", "text"}},
			"folder_id":    {Type: ops.TypeString, Description: "Parent folder ID (optional)"},
		},
		Handler: a.createGoogleDoc,
	})
	reg.Register(ops.Descriptor{
		Name:        "gdrive_list_comments",
		Description: "List comments on a Google Drive file (e.g., Google Doc). Returns comment text, author, quoted text, replies, and resolved status.",
		Params: map[string]ops.Param{
			"file_id":          fileID,
			"include_resolved": {Type: ops.TypeBoolean, Description: "Include resolved comments (default: false)", Default: false},
		},
		Handler: a.listComments,
	})
	reg.Register(ops.Descriptor{
		Name:        "gdrive_create_comment",
		Description: "Add a comment to a Google Drive file.",
		Params: map[string]ops.Param{
			"file_id":     fileID,
			"content":     {Type: ops.TypeString, Description: "The comment text", Required: true},
			"quoted_text": {Type: ops.TypeString, Description: "Text from the document to anchor the comment to (optional)"},
		},
		Handler: a.createComment,
	})
	reg.Register(ops.Descriptor{
		Name:        "gdrive_reply_to_comment",
		Description: "Reply to an existing comment on a Google Drive file.",
		Params: map[string]ops.Param{
			"file_id":    fileID,
			"comment_id": {Type: ops.TypeString, Description: "The comment ID to reply to", Required: true},
			"content":    {Type: ops.TypeString, Description: "The reply text", Required: true},
		},
		Handler: a.replyToComment,
	})
	reg.Register(ops.Descriptor{
		Name:        "gdrive_resolve_comment",
		Description: "Resolve or reopen a comment on a Google Drive file.",
		Params: map[string]ops.Param{
			"file_id":    fileID,
			"comment_id": {Type: ops.TypeString, Description: "The comment ID to resolve/reopen", Required: true},
			"resolved":   {Type: ops.TypeBoolean, Description: "True to resolve, false to reopen (default: true)", Default: true},
		},
		Handler: a.resolveComment,
	})
	reg.Register(ops.Descriptor{
		Name:        "gdrive_list_sheets",
		Description: "List all sheets (tabs) in a Google Spreadsheet.",
		Params: map[string]ops.Param{
			"file_id": {Type: ops.TypeString, Description: "The spreadsheet file ID", Required: true},
		},
		Handler: a.listSheets,
	})
	reg.Register(ops.Descriptor{
		Name:        "gdrive_read_sheet",
		Description: "Read a specific sheet from a Google Spreadsheet. Returns all cell values.",
		Params: map[string]ops.Param{
			"file_id":    {Type: ops.TypeString, Description: "The spreadsheet file ID", Required: true},
			"sheet_name": {Type: ops.TypeString, Description: "Name of the sheet to read (optional, defaults to first sheet)"},
		},
		Handler: a.readSheet,
	})
	reg.Register(ops.Descriptor{
		Name:        "gdrive_read_all_sheets",
		Description: "Read all sheets from a Google Spreadsheet. Returns all cell values from every sheet.",
		Params: map[string]ops.Param{
			"file_id": {Type: ops.TypeString, Description: "The spreadsheet file ID", Required: true},
		},
		Handler: a.readAllSheets,
	})
	reg.Register(ops.Descriptor{
		Name:        "gdrive_reauth",
		Description: "Re-authenticate with Google Drive. Use this if you get token expired/revoked errors.",
		Handler:     a.reauth,
	})
}

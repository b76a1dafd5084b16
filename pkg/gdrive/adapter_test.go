package gdrive

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satchelhq/satchel/pkg/config"
	"github.com/satchelhq/satchel/pkg/credstore"
	"github.com/satchelhq/satchel/pkg/ops"
	"github.com/satchelhq/satchel/pkg/session"
)

// newTestAdapter points both the Drive and Sheets clients at the same fake
// backend and registers the operations with a pre-seeded valid credential.
func newTestAdapter(t *testing.T, backend http.Handler) *ops.Registry {
	t.Helper()

	integ := config.Drive(config.Env{ConfigDir: t.TempDir()})
	store := credstore.New(integ)
	require.NoError(t, store.Save("primary", &credstore.Bundle{
		AccessToken: "test-access",
		TokenType:   "Bearer",
		Scopes:      integ.Scopes,
	}))

	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	provider := session.NewProvider(integ, store, nil)
	registry := ops.NewRegistry()
	New(integ, provider, WithBaseURL(srv.URL), WithSheetsBaseURL(srv.URL)).Register(registry)
	return registry
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestSearchFilesEscapesQuery(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /drive/v3/files", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t,
			`name contains 'year\'s report' or fullText contains 'year\'s report'`,
			r.URL.Query().Get("q"))
		assert.Equal(t, "modifiedTime desc", r.URL.Query().Get("orderBy"))
		writeJSON(t, w, map[string]any{"files": []map[string]any{
			{"id": "f1", "name": "year's report", "mimeType": "text/plain"},
		}})
	})

	registry := newTestAdapter(t, mux)
	result := registry.Dispatch(context.Background(), "gdrive_search", map[string]any{
		"query": "year's report",
	})
	require.NoError(t, result.Err)

	files := result.Payload.([]FileSummary)
	require.Len(t, files, 1)
	assert.Equal(t, "f1", files[0].ID)
}

func TestListFilesFolderScope(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /drive/v3/files", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "'folder-1' in parents", r.URL.Query().Get("q"))
		assert.Equal(t, "20", r.URL.Query().Get("pageSize"))
		writeJSON(t, w, map[string]any{})
	})

	registry := newTestAdapter(t, mux)
	result := registry.Dispatch(context.Background(), "gdrive_list_files", map[string]any{
		"folder_id": "folder-1",
	})
	require.NoError(t, result.Err)
	assert.Empty(t, result.Payload.([]FileSummary))
}

func TestReadFileExportsWorkspaceDoc(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /drive/v3/files/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{
			"mimeType": "application/vnd.google-apps.document",
			"name":     "Notes doc",
		})
	})
	mux.HandleFunc("GET /drive/v3/files/{id}/export", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "text/plain", r.URL.Query().Get("mimeType"))
		io.WriteString(w, "exported text")
	})

	registry := newTestAdapter(t, mux)
	result := registry.Dispatch(context.Background(), "gdrive_read_file", map[string]any{"file_id": "doc-1"})
	require.NoError(t, result.Err)

	content := result.Payload.(FileContent)
	assert.Equal(t, "exported text", content.Content)
	assert.Equal(t, "Notes doc", content.Name)
}

func TestReadFileBinaryPlaceholder(t *testing.T) {
	binary := []byte{0xff, 0xfe, 0x00, 0x01}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /drive/v3/files/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("alt") == "media" {
			w.Write(binary)
			return
		}
		writeJSON(t, w, map[string]any{"mimeType": "application/octet-stream", "name": "blob.bin"})
	})

	registry := newTestAdapter(t, mux)
	result := registry.Dispatch(context.Background(), "gdrive_read_file", map[string]any{"file_id": "bin-1"})
	require.NoError(t, result.Err)

	content := result.Payload.(FileContent)
	assert.Equal(t, "[Binary file, 4 bytes]", content.Content)
	assert.Equal(t, 4, content.Size)
}

func TestCreateFileMultipartUpload(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload/drive/v3/files", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "multipart", r.URL.Query().Get("uploadType"))

		mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		require.NoError(t, err)
		assert.Equal(t, "multipart/related", mediaType)

		reader := multipart.NewReader(r.Body, params["boundary"])

		metaPart, err := reader.NextPart()
		require.NoError(t, err)
		var metadata map[string]any
		require.NoError(t, json.NewDecoder(metaPart).Decode(&metadata))
		assert.Equal(t, "notes.txt", metadata["name"])
		assert.Equal(t, []any{"folder-1"}, metadata["parents"])

		mediaPart, err := reader.NextPart()
		require.NoError(t, err)
		assert.Equal(t, "text/plain", mediaPart.Header.Get("Content-Type"))
		body, err := io.ReadAll(mediaPart)
		require.NoError(t, err)
		assert.Equal(t, "hello drive", string(body))

		writeJSON(t, w, map[string]any{"id": "new-1", "name": "notes.txt"})
	})

	registry := newTestAdapter(t, mux)
	result := registry.Dispatch(context.Background(), "gdrive_create_file", map[string]any{
		"name":      "notes.txt",
		"content":   "hello drive",
		"folder_id": "folder-1",
	})
	require.NoError(t, result.Err)
	assert.Equal(t, "new-1", result.Payload.(CreateResult).ID)
}

func TestCreateGoogleDocConverts(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload/drive/v3/files", func(w http.ResponseWriter, r *http.Request) {
		_, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		require.NoError(t, err)
		reader := multipart.NewReader(r.Body, params["boundary"])

		metaPart, err := reader.NextPart()
		require.NoError(t, err)
		var metadata map[string]any
		require.NoError(t, json.NewDecoder(metaPart).Decode(&metadata))
		assert.Equal(t, "application/vnd.google-apps.document", metadata["mimeType"])

		mediaPart, err := reader.NextPart()
		require.NoError(t, err)
		assert.Equal(t, "text/html", mediaPart.Header.Get("Content-Type"))

		writeJSON(t, w, map[string]any{"id": "doc-1", "name": "Draft"})
	})

	registry := newTestAdapter(t, mux)
	result := registry.Dispatch(context.Background(), "gdrive_create_google_doc", map[string]any{
		"name":    "Draft",
		"content": "<h1>Draft</h1>",
	})
	require.NoError(t, result.Err)
	assert.Equal(t, "doc-1", result.Payload.(CreateResult).ID)
}

func TestMoveFileSwapsParents(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /drive/v3/files/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"parents": []string{"old-1", "old-2"}})
	})
	mux.HandleFunc("PATCH /drive/v3/files/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "new-folder", r.URL.Query().Get("addParents"))
		assert.Equal(t, "old-1,old-2", r.URL.Query().Get("removeParents"))
		writeJSON(t, w, map[string]any{"id": "f1", "name": "moved", "parents": []string{"new-folder"}})
	})

	registry := newTestAdapter(t, mux)
	result := registry.Dispatch(context.Background(), "gdrive_move_file", map[string]any{
		"file_id":       "f1",
		"new_folder_id": "new-folder",
	})
	require.NoError(t, result.Err)
	assert.Equal(t, []string{"new-folder"}, result.Payload.(MoveResult).Parents)
}

func TestListCommentsFiltersResolved(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /drive/v3/files/{id}/comments", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"comments": []map[string]any{
			{
				"id":                "c1",
				"content":           "open question",
				"resolved":          false,
				"author":            map[string]any{"displayName": "Alice"},
				"quotedFileContent": map[string]any{"value": "the quoted passage"},
				"replies": []map[string]any{
					{"id": "r1", "content": "agreed", "author": map[string]any{"displayName": "Bob"}},
				},
			},
			{"id": "c2", "content": "done already", "resolved": true},
		}})
	})

	registry := newTestAdapter(t, mux)
	result := registry.Dispatch(context.Background(), "gdrive_list_comments", map[string]any{"file_id": "f1"})
	require.NoError(t, result.Err)

	comments := result.Payload.([]Comment)
	require.Len(t, comments, 1)
	assert.Equal(t, "c1", comments[0].ID)
	assert.Equal(t, "Alice", comments[0].Author)
	assert.Equal(t, "the quoted passage", comments[0].QuotedText)
	require.Len(t, comments[0].Replies, 1)
	assert.Equal(t, "agreed", comments[0].Replies[0].Content)
}

func TestResolveComment(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /drive/v3/files/{id}/comments/{comment}/replies", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "resolve", body["action"])
		writeJSON(t, w, map[string]any{"id": "r9", "action": "resolve"})
	})

	registry := newTestAdapter(t, mux)
	result := registry.Dispatch(context.Background(), "gdrive_resolve_comment", map[string]any{
		"file_id":    "f1",
		"comment_id": "c1",
	})
	require.NoError(t, result.Err)
	assert.Equal(t, "resolve", result.Payload.(ResolveResult).Action)
}

func TestReadSheetFallsBackToFirstSheet(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v4/spreadsheets/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"sheets": []map[string]any{
			{"properties": map[string]any{"title": "Budget"}},
		}})
	})
	mux.HandleFunc("GET /v4/spreadsheets/{id}/values/{range}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Budget", r.PathValue("range"))
		writeJSON(t, w, map[string]any{
			"range":  "Budget!A1:B2",
			"values": [][]any{{"item", "cost"}, {"paper", "3.50"}},
		})
	})

	registry := newTestAdapter(t, mux)
	result := registry.Dispatch(context.Background(), "gdrive_read_sheet", map[string]any{"file_id": "s1"})
	require.NoError(t, result.Err)

	values := result.Payload.(SheetValues)
	assert.Equal(t, "Budget", values.SheetName)
	assert.Equal(t, 2, values.RowCount)
}

func TestReadAllSheetsBatch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v4/spreadsheets/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{
			"properties": map[string]any{"title": "Ledger"},
			"sheets": []map[string]any{
				{"properties": map[string]any{"title": "Q1"}},
				{"properties": map[string]any{"title": "Q2"}},
			},
		})
	})
	mux.HandleFunc("GET /v4/spreadsheets/{id}/values:batchGet", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, []string{"Q1", "Q2"}, r.URL.Query()["ranges"])
		writeJSON(t, w, map[string]any{"valueRanges": []map[string]any{
			{"range": "'Q1'!A1:B2", "values": [][]any{{"a"}}},
			{"range": "'Q2'!A1:B2", "values": [][]any{{"b"}, {"c"}}},
		}})
	})

	registry := newTestAdapter(t, mux)
	result := registry.Dispatch(context.Background(), "gdrive_read_all_sheets", map[string]any{"file_id": "s1"})
	require.NoError(t, result.Err)

	all := result.Payload.(AllSheetValues)
	assert.Equal(t, "Ledger", all.Title)
	assert.Equal(t, 2, all.SheetCount)
	assert.Equal(t, "Q1", all.Sheets[0].SheetName)
	assert.Equal(t, 2, all.Sheets[1].RowCount)
}

func TestSheetNameFromRange(t *testing.T) {
	assert.Equal(t, "Sheet1", sheetNameFromRange("Sheet1!A1:Z100"))
	assert.Equal(t, "My Sheet", sheetNameFromRange("'My Sheet'!A1:B2"))
	assert.Equal(t, "Bare", sheetNameFromRange("Bare"))
}

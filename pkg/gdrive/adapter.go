// Package gdrive is the Google Drive capability adapter. Spreadsheet
// reads go through the Sheets API with the same session.
package gdrive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/satchelhq/satchel/pkg/config"
	"github.com/satchelhq/satchel/pkg/googleapi"
	"github.com/satchelhq/satchel/pkg/ops"
	"github.com/satchelhq/satchel/pkg/session"
)

const (
	filesPath       = "/drive/v3/files"
	uploadFilesPath = "/upload/drive/v3/files"

	DefaultSheetsBaseURL = "https://sheets.googleapis.com"

	folderMimeType = "application/vnd.google-apps.folder"
	docMimeType    = "application/vnd.google-apps.document"
)

// exportMimeTypes maps Google Workspace document types to the text
// format they are exported as when read.
var exportMimeTypes = map[string]string{
	"application/vnd.google-apps.document":     "text/plain",
	"application/vnd.google-apps.spreadsheet":  "text/csv",
	"application/vnd.google-apps.presentation": "text/plain",
}

type Adapter struct {
	integ      config.Integration
	provider   *session.Provider
	baseURL    string
	sheetsBase string
}

type Option func(*Adapter)

func WithBaseURL(u string) Option {
	return func(a *Adapter) { a.baseURL = u }
}

func WithSheetsBaseURL(u string) Option {
	return func(a *Adapter) { a.sheetsBase = u }
}

func New(integ config.Integration, provider *session.Provider, opts ...Option) *Adapter {
	a := &Adapter{integ: integ, provider: provider, sheetsBase: DefaultSheetsBaseURL}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Adapter) client(ctx context.Context) (*googleapi.Client, error) {
	sess, err := a.provider.GetSession(ctx, config.DefaultAccount)
	if err != nil {
		return nil, err
	}
	return googleapi.New(sess.HTTPClient, a.baseURL), nil
}

func (a *Adapter) sheetsClient(ctx context.Context) (*googleapi.Client, error) {
	sess, err := a.provider.GetSession(ctx, config.DefaultAccount)
	if err != nil {
		return nil, err
	}
	return googleapi.New(sess.HTTPClient, a.sheetsBase), nil
}

func filePath(fileID string) string {
	return filesPath + "/" + url.PathEscape(fileID)
}

func (a *Adapter) listFiles(ctx context.Context, args ops.Args) (any, error) {
	return a.queryFiles(ctx, args.String("query"), args.String("folder_id"),
		args.Int("page_size"), args.String("order_by"))
}

func (a *Adapter) searchFiles(ctx context.Context, args ops.Args) (any, error) {
	query := args.String("query")
	escaped := strings.ReplaceAll(query, "'", `\'`)
	search := fmt.Sprintf("name contains '%s' or fullText contains '%s'", escaped, escaped)
	return a.queryFiles(ctx, search, "", args.Int("page_size"), "modifiedTime desc")
}

func (a *Adapter) queryFiles(ctx context.Context, query, folderID string, pageSize int, orderBy string) (any, error) {
	client, err := a.client(ctx)
	if err != nil {
		return nil, err
	}

	var qParts []string
	if query != "" {
		qParts = append(qParts, query)
	}
	if folderID != "" {
		qParts = append(qParts, fmt.Sprintf("'%s' in parents", folderID))
	}

	q := url.Values{
		"pageSize": {strconv.Itoa(pageSize)},
		"fields":   {"files(id, name, mimeType, size, modifiedTime, parents, webViewLink)"},
		"orderBy":  {orderBy},
	}
	if len(qParts) > 0 {
		q.Set("q", strings.Join(qParts, " and "))
	}

	var list apiFileList
	if err := client.Get(ctx, filesPath, q, &list); err != nil {
		return nil, err
	}

	files := make([]FileSummary, 0, len(list.Files))
	for _, f := range list.Files {
		files = append(files, FileSummary{
			ID:           f.ID,
			Name:         f.Name,
			MimeType:     f.MimeType,
			Size:         f.Size,
			ModifiedTime: f.ModifiedTime,
			Parents:      f.Parents,
			WebViewLink:  f.WebViewLink,
		})
	}
	return files, nil
}

func (a *Adapter) getFile(ctx context.Context, args ops.Args) (any, error) {
	client, err := a.client(ctx)
	if err != nil {
		return nil, err
	}
	q := url.Values{"fields": {"id, name, mimeType, size, modifiedTime, createdTime, parents, webViewLink, owners, shared, permissions"}}
	var f apiFile
	if err := client.Get(ctx, filePath(args.String("file_id")), q, &f); err != nil {
		return nil, err
	}
	return FileMetadata{
		ID:           f.ID,
		Name:         f.Name,
		MimeType:     f.MimeType,
		Size:         f.Size,
		ModifiedTime: f.ModifiedTime,
		CreatedTime:  f.CreatedTime,
		Parents:      f.Parents,
		WebViewLink:  f.WebViewLink,
		Owners:       f.Owners,
		Shared:       f.Shared,
	}, nil
}

func (a *Adapter) readFile(ctx context.Context, args ops.Args) (any, error) {
	client, err := a.client(ctx)
	if err != nil {
		return nil, err
	}
	fileID := args.String("file_id")

	var meta apiFile
	if err := client.Get(ctx, filePath(fileID), url.Values{"fields": {"mimeType, name"}}, &meta); err != nil {
		return nil, err
	}

	// Workspace documents cannot be downloaded directly; export them
	// to the matching text format instead.
	if exportType, ok := exportMimeTypes[meta.MimeType]; ok {
		content, err := client.GetRaw(ctx, filePath(fileID)+"/export", url.Values{"mimeType": {exportType}})
		if err != nil {
			return nil, err
		}
		return FileContent{ID: fileID, Name: meta.Name, MimeType: meta.MimeType, Content: string(content)}, nil
	}

	content, err := client.GetRaw(ctx, filePath(fileID), url.Values{"alt": {"media"}})
	if err != nil {
		return nil, err
	}
	if utf8.Valid(content) {
		return FileContent{ID: fileID, Name: meta.Name, MimeType: meta.MimeType, Content: string(content)}, nil
	}
	return FileContent{
		ID:       fileID,
		Name:     meta.Name,
		MimeType: meta.MimeType,
		Content:  fmt.Sprintf("[Binary file, %d bytes]", len(content)),
		Size:     len(content),
	}, nil
}

func (a *Adapter) createFile(ctx context.Context, args ops.Args) (any, error) {
	metadata := map[string]any{"name": args.String("name")}
	if folderID := args.String("folder_id"); folderID != "" {
		metadata["parents"] = []string{folderID}
	}
	return a.uploadNew(ctx, metadata, args.String("mime_type"), args.String("content"))
}

func (a *Adapter) createGoogleDoc(ctx context.Context, args ops.Args) (any, error) {
	metadata := map[string]any{
		"name":     args.String("name"),
		"mimeType": docMimeType,
	}
	if folderID := args.String("folder_id"); folderID != "" {
		metadata["parents"] = []string{folderID}
	}
	uploadMime := "text/plain"
	if args.String("content_type") == "html" {
		uploadMime = "text/html"
	}
	return a.uploadNew(ctx, metadata, uploadMime, args.String("content"))
}

// uploadNew creates a file with metadata and content in one multipart
// related request. Drive converts the content when the metadata names a
// Workspace mime type.
func (a *Adapter) uploadNew(ctx context.Context, metadata map[string]any, mimeType, content string) (any, error) {
	client, err := a.client(ctx)
	if err != nil {
		return nil, err
	}

	body, contentType, err := multipartRelated(metadata, mimeType, []byte(content))
	if err != nil {
		return nil, err
	}

	q := url.Values{
		"uploadType": {"multipart"},
		"fields":     {"id, name, webViewLink"},
	}
	var created apiFile
	if err := client.Upload(ctx, http.MethodPost, uploadFilesPath, q, contentType, body, &created); err != nil {
		return nil, err
	}
	return CreateResult{ID: created.ID, Name: created.Name, WebViewLink: created.WebViewLink}, nil
}

func (a *Adapter) updateFile(ctx context.Context, args ops.Args) (any, error) {
	client, err := a.client(ctx)
	if err != nil {
		return nil, err
	}

	q := url.Values{
		"uploadType": {"media"},
		"fields":     {"id, name, modifiedTime, webViewLink"},
	}
	path := uploadFilesPath + "/" + url.PathEscape(args.String("file_id"))
	var updated apiFile
	if err := client.Upload(ctx, http.MethodPatch, path, q, args.String("mime_type"), []byte(args.String("content")), &updated); err != nil {
		return nil, err
	}
	return UpdateResult{
		ID:           updated.ID,
		Name:         updated.Name,
		ModifiedTime: updated.ModifiedTime,
		WebViewLink:  updated.WebViewLink,
	}, nil
}

func (a *Adapter) deleteFile(ctx context.Context, args ops.Args) (any, error) {
	client, err := a.client(ctx)
	if err != nil {
		return nil, err
	}
	fileID := args.String("file_id")
	if err := client.Delete(ctx, filePath(fileID), nil); err != nil {
		return nil, err
	}
	return DeleteResult{Deleted: true, FileID: fileID}, nil
}

func (a *Adapter) createFolder(ctx context.Context, args ops.Args) (any, error) {
	client, err := a.client(ctx)
	if err != nil {
		return nil, err
	}

	metadata := map[string]any{
		"name":     args.String("name"),
		"mimeType": folderMimeType,
	}
	if parentID := args.String("parent_id"); parentID != "" {
		metadata["parents"] = []string{parentID}
	}

	var folder apiFile
	q := url.Values{"fields": {"id, name, webViewLink"}}
	if err := client.Post(ctx, filesPath, q, metadata, &folder); err != nil {
		return nil, err
	}
	return CreateResult{ID: folder.ID, Name: folder.Name, WebViewLink: folder.WebViewLink}, nil
}

func (a *Adapter) moveFile(ctx context.Context, args ops.Args) (any, error) {
	client, err := a.client(ctx)
	if err != nil {
		return nil, err
	}
	fileID := args.String("file_id")

	var current apiFile
	if err := client.Get(ctx, filePath(fileID), url.Values{"fields": {"parents"}}, &current); err != nil {
		return nil, err
	}

	q := url.Values{
		"addParents":    {args.String("new_folder_id")},
		"removeParents": {strings.Join(current.Parents, ",")},
		"fields":        {"id, name, parents, webViewLink"},
	}
	var moved apiFile
	if err := client.Patch(ctx, filePath(fileID), q, map[string]any{}, &moved); err != nil {
		return nil, err
	}
	return MoveResult{ID: moved.ID, Name: moved.Name, Parents: moved.Parents, WebViewLink: moved.WebViewLink}, nil
}

func (a *Adapter) shareFile(ctx context.Context, args ops.Args) (any, error) {
	client, err := a.client(ctx)
	if err != nil {
		return nil, err
	}
	fileID := args.String("file_id")
	email := args.String("email")

	permission := map[string]string{
		"type":         "user",
		"role":         args.String("role"),
		"emailAddress": email,
	}
	q := url.Values{
		"sendNotificationEmail": {"true"},
		"fields":                {"id, role, emailAddress"},
	}
	var result apiPermission
	if err := client.Post(ctx, filePath(fileID)+"/permissions", q, permission, &result); err != nil {
		return nil, err
	}
	if result.EmailAddress == "" {
		result.EmailAddress = email
	}
	return ShareResult{PermissionID: result.ID, Role: result.Role, Email: result.EmailAddress, FileID: fileID}, nil
}

func (a *Adapter) copyFile(ctx context.Context, args ops.Args) (any, error) {
	client, err := a.client(ctx)
	if err != nil {
		return nil, err
	}

	body := map[string]any{}
	if name := args.String("new_name"); name != "" {
		body["name"] = name
	}
	if folderID := args.String("folder_id"); folderID != "" {
		body["parents"] = []string{folderID}
	}

	var copied apiFile
	q := url.Values{"fields": {"id, name, webViewLink"}}
	if err := client.Post(ctx, filePath(args.String("file_id"))+"/copy", q, body, &copied); err != nil {
		return nil, err
	}
	return CreateResult{ID: copied.ID, Name: copied.Name, WebViewLink: copied.WebViewLink}, nil
}

func (a *Adapter) listComments(ctx context.Context, args ops.Args) (any, error) {
	client, err := a.client(ctx)
	if err != nil {
		return nil, err
	}
	includeResolved := args.Bool("include_resolved")
	path := filePath(args.String("file_id")) + "/comments"

	comments := make([]Comment, 0)
	pageToken := ""
	for {
		q := url.Values{
			"fields":         {"comments(id, content, resolved, author, createdTime, modifiedTime, quotedFileContent, anchor, replies(id, content, author, createdTime, action)),nextPageToken"},
			"pageSize":       {"100"},
			"includeDeleted": {"false"},
		}
		if pageToken != "" {
			q.Set("pageToken", pageToken)
		}

		var page apiCommentList
		if err := client.Get(ctx, path, q, &page); err != nil {
			return nil, err
		}

		for _, c := range page.Comments {
			if !includeResolved && c.Resolved {
				continue
			}
			comment := Comment{
				ID:           c.ID,
				Content:      c.Content,
				Resolved:     c.Resolved,
				Author:       c.Author.DisplayName,
				CreatedTime:  c.CreatedTime,
				ModifiedTime: c.ModifiedTime,
			}
			if c.QuotedFileContent != nil {
				comment.QuotedText = c.QuotedFileContent.Value
			}
			for _, r := range c.Replies {
				comment.Replies = append(comment.Replies, CommentReply{
					ID:          r.ID,
					Content:     r.Content,
					Author:      r.Author.DisplayName,
					CreatedTime: r.CreatedTime,
					Action:      r.Action,
				})
			}
			comments = append(comments, comment)
		}

		pageToken = page.NextPageToken
		if pageToken == "" {
			break
		}
	}
	return comments, nil
}

func (a *Adapter) createComment(ctx context.Context, args ops.Args) (any, error) {
	client, err := a.client(ctx)
	if err != nil {
		return nil, err
	}

	body := map[string]any{"content": args.String("content")}
	if quoted := args.String("quoted_text"); quoted != "" {
		body["quotedFileContent"] = map[string]string{"value": quoted, "mimeType": "text/plain"}
	}

	var result apiComment
	q := url.Values{"fields": {"id, content, author, createdTime"}}
	if err := client.Post(ctx, filePath(args.String("file_id"))+"/comments", q, body, &result); err != nil {
		return nil, err
	}
	return CommentResult{
		ID:          result.ID,
		Content:     result.Content,
		Author:      result.Author.DisplayName,
		CreatedTime: result.CreatedTime,
	}, nil
}

func (a *Adapter) replyToComment(ctx context.Context, args ops.Args) (any, error) {
	client, err := a.client(ctx)
	if err != nil {
		return nil, err
	}
	path := fmt.Sprintf("%s/comments/%s/replies",
		filePath(args.String("file_id")), url.PathEscape(args.String("comment_id")))

	var result apiReply
	q := url.Values{"fields": {"id, content, author, createdTime"}}
	if err := client.Post(ctx, path, q, map[string]string{"content": args.String("content")}, &result); err != nil {
		return nil, err
	}
	return CommentResult{
		ID:          result.ID,
		Content:     result.Content,
		Author:      result.Author.DisplayName,
		CreatedTime: result.CreatedTime,
	}, nil
}

func (a *Adapter) resolveComment(ctx context.Context, args ops.Args) (any, error) {
	client, err := a.client(ctx)
	if err != nil {
		return nil, err
	}

	// Resolution is expressed as a reply carrying an action.
	action := "reopen"
	if args.Bool("resolved") {
		action = "resolve"
	}
	path := fmt.Sprintf("%s/comments/%s/replies",
		filePath(args.String("file_id")), url.PathEscape(args.String("comment_id")))

	var result apiReply
	q := url.Values{"fields": {"id, content, author, createdTime, action"}}
	if err := client.Post(ctx, path, q, map[string]string{"content": "", "action": action}, &result); err != nil {
		return nil, err
	}
	return ResolveResult{ID: result.ID, Action: result.Action, CreatedTime: result.CreatedTime}, nil
}

func spreadsheetPath(fileID string) string {
	return "/v4/spreadsheets/" + url.PathEscape(fileID)
}

func (a *Adapter) listSheets(ctx context.Context, args ops.Args) (any, error) {
	client, err := a.sheetsClient(ctx)
	if err != nil {
		return nil, err
	}
	fileID := args.String("file_id")

	var spreadsheet apiSpreadsheet
	q := url.Values{"fields": {"properties.title,sheets.properties"}}
	if err := client.Get(ctx, spreadsheetPath(fileID), q, &spreadsheet); err != nil {
		return nil, err
	}

	sheets := make([]SheetInfo, 0, len(spreadsheet.Sheets))
	for _, sheet := range spreadsheet.Sheets {
		props := sheet.Properties
		sheets = append(sheets, SheetInfo{
			SheetID:     props.SheetID,
			Title:       props.Title,
			Index:       props.Index,
			RowCount:    props.GridProperties.RowCount,
			ColumnCount: props.GridProperties.ColumnCount,
		})
	}
	return SheetList{SpreadsheetID: fileID, Title: spreadsheet.Properties.Title, Sheets: sheets}, nil
}

func (a *Adapter) readSheet(ctx context.Context, args ops.Args) (any, error) {
	client, err := a.sheetsClient(ctx)
	if err != nil {
		return nil, err
	}
	fileID := args.String("file_id")

	sheetName := args.String("sheet_name")
	if sheetName == "" {
		var spreadsheet apiSpreadsheet
		q := url.Values{"fields": {"sheets.properties.title"}}
		if err := client.Get(ctx, spreadsheetPath(fileID), q, &spreadsheet); err != nil {
			return nil, err
		}
		sheetName = "Sheet1"
		if len(spreadsheet.Sheets) > 0 && spreadsheet.Sheets[0].Properties.Title != "" {
			sheetName = spreadsheet.Sheets[0].Properties.Title
		}
	}

	var result apiValueRange
	path := spreadsheetPath(fileID) + "/values/" + url.PathEscape(sheetName)
	if err := client.Get(ctx, path, nil, &result); err != nil {
		return nil, err
	}
	return SheetValues{
		SpreadsheetID: fileID,
		SheetName:     sheetName,
		Range:         result.Range,
		RowCount:      len(result.Values),
		Values:        result.Values,
	}, nil
}

func (a *Adapter) readAllSheets(ctx context.Context, args ops.Args) (any, error) {
	client, err := a.sheetsClient(ctx)
	if err != nil {
		return nil, err
	}
	fileID := args.String("file_id")

	var spreadsheet apiSpreadsheet
	q := url.Values{"fields": {"properties.title,sheets.properties.title"}}
	if err := client.Get(ctx, spreadsheetPath(fileID), q, &spreadsheet); err != nil {
		return nil, err
	}

	ranges := url.Values{}
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties.Title != "" {
			ranges.Add("ranges", sheet.Properties.Title)
		}
	}

	var batch apiBatchValues
	if err := client.Get(ctx, spreadsheetPath(fileID)+"/values:batchGet", ranges, &batch); err != nil {
		return nil, err
	}

	sheets := make([]SheetRange, 0, len(batch.ValueRanges))
	for _, vr := range batch.ValueRanges {
		sheets = append(sheets, SheetRange{
			SheetName: sheetNameFromRange(vr.Range),
			Range:     vr.Range,
			RowCount:  len(vr.Values),
			Values:    vr.Values,
		})
	}
	return AllSheetValues{
		SpreadsheetID: fileID,
		Title:         spreadsheet.Properties.Title,
		SheetCount:    len(sheets),
		Sheets:        sheets,
	}, nil
}

// sheetNameFromRange extracts the sheet name from an A1 range such as
// "'Sheet Name'!A1:Z100".
func sheetNameFromRange(r string) string {
	name, _, _ := strings.Cut(r, "!")
	return strings.Trim(name, "'")
}

func (a *Adapter) reauth(ctx context.Context, _ ops.Args) (any, error) {
	if _, err := a.provider.Reauthenticate(ctx, config.DefaultAccount); err != nil {
		return nil, err
	}
	return ReauthResult{Success: true, Message: "Re-authenticated successfully with Google Drive"}, nil
}

// multipartRelated encodes a Drive multipart upload: a JSON metadata
// part followed by the media part.
func multipartRelated(metadata map[string]any, mimeType string, content []byte) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	metaHeader := textproto.MIMEHeader{}
	metaHeader.Set("Content-Type", "application/json; charset=UTF-8")
	metaPart, err := w.CreatePart(metaHeader)
	if err != nil {
		return nil, "", err
	}
	if err := json.NewEncoder(metaPart).Encode(metadata); err != nil {
		return nil, "", err
	}

	mediaHeader := textproto.MIMEHeader{}
	mediaHeader.Set("Content-Type", mimeType)
	mediaPart, err := w.CreatePart(mediaHeader)
	if err != nil {
		return nil, "", err
	}
	if _, err := mediaPart.Write(content); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}

	contentType := "multipart/related; boundary=" + w.Boundary()
	return buf.Bytes(), contentType, nil
}

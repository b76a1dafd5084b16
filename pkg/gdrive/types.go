package gdrive

// Result shapes returned to callers.

type FileSummary struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	MimeType     string   `json:"mimeType"`
	Size         string   `json:"size"`
	ModifiedTime string   `json:"modifiedTime"`
	Parents      []string `json:"parents"`
	WebViewLink  string   `json:"webViewLink"`
}

type FileMetadata struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	MimeType     string           `json:"mimeType"`
	Size         string           `json:"size"`
	ModifiedTime string           `json:"modifiedTime"`
	CreatedTime  string           `json:"createdTime"`
	Parents      []string         `json:"parents"`
	WebViewLink  string           `json:"webViewLink"`
	Owners       []map[string]any `json:"owners"`
	Shared       bool             `json:"shared"`
}

type FileContent struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	Content  string `json:"content"`
	Size     int    `json:"size,omitempty"`
}

type CreateResult struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	WebViewLink string `json:"webViewLink"`
}

type UpdateResult struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ModifiedTime string `json:"modifiedTime"`
	WebViewLink  string `json:"webViewLink"`
}

type DeleteResult struct {
	Deleted bool   `json:"deleted"`
	FileID  string `json:"file_id"`
}

type MoveResult struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Parents     []string `json:"parents"`
	WebViewLink string   `json:"webViewLink"`
}

type ShareResult struct {
	PermissionID string `json:"permission_id"`
	Role         string `json:"role"`
	Email        string `json:"email"`
	FileID       string `json:"file_id"`
}

type CommentReply struct {
	ID          string `json:"id"`
	Content     string `json:"content"`
	Author      string `json:"author"`
	CreatedTime string `json:"createdTime"`
	Action      string `json:"action,omitempty"`
}

type Comment struct {
	ID           string         `json:"id"`
	Content      string         `json:"content"`
	Resolved     bool           `json:"resolved"`
	Author       string         `json:"author"`
	CreatedTime  string         `json:"createdTime"`
	ModifiedTime string         `json:"modifiedTime"`
	QuotedText   string         `json:"quotedText,omitempty"`
	Replies      []CommentReply `json:"replies,omitempty"`
}

type CommentResult struct {
	ID          string `json:"id"`
	Content     string `json:"content"`
	Author      string `json:"author"`
	CreatedTime string `json:"createdTime"`
}

type ResolveResult struct {
	ID          string `json:"id"`
	Action      string `json:"action"`
	CreatedTime string `json:"createdTime"`
}

type SheetInfo struct {
	SheetID     int64  `json:"sheetId"`
	Title       string `json:"title"`
	Index       int    `json:"index"`
	RowCount    int    `json:"rowCount"`
	ColumnCount int    `json:"columnCount"`
}

type SheetList struct {
	SpreadsheetID string      `json:"spreadsheetId"`
	Title         string      `json:"title"`
	Sheets        []SheetInfo `json:"sheets"`
}

type SheetValues struct {
	SpreadsheetID string  `json:"spreadsheetId"`
	SheetName     string  `json:"sheetName"`
	Range         string  `json:"range"`
	RowCount      int     `json:"rowCount"`
	Values        [][]any `json:"values"`
}

type AllSheetValues struct {
	SpreadsheetID string       `json:"spreadsheetId"`
	Title         string       `json:"title"`
	SheetCount    int          `json:"sheetCount"`
	Sheets        []SheetRange `json:"sheets"`
}

type SheetRange struct {
	SheetName string  `json:"sheetName"`
	Range     string  `json:"range"`
	RowCount  int     `json:"rowCount"`
	Values    [][]any `json:"values"`
}

type ReauthResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Wire shapes from the Drive v3 and Sheets v4 APIs.

type apiFile struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	MimeType     string           `json:"mimeType"`
	Size         string           `json:"size"`
	ModifiedTime string           `json:"modifiedTime"`
	CreatedTime  string           `json:"createdTime"`
	Parents      []string         `json:"parents"`
	WebViewLink  string           `json:"webViewLink"`
	Owners       []map[string]any `json:"owners"`
	Shared       bool             `json:"shared"`
}

type apiFileList struct {
	Files []apiFile `json:"files"`
}

type apiPermission struct {
	ID           string `json:"id"`
	Role         string `json:"role"`
	EmailAddress string `json:"emailAddress"`
}

type apiAuthor struct {
	DisplayName string `json:"displayName"`
}

type apiReply struct {
	ID          string    `json:"id"`
	Content     string    `json:"content"`
	Author      apiAuthor `json:"author"`
	CreatedTime string    `json:"createdTime"`
	Action      string    `json:"action"`
}

type apiComment struct {
	ID                string    `json:"id"`
	Content           string    `json:"content"`
	Resolved          bool      `json:"resolved"`
	Author            apiAuthor `json:"author"`
	CreatedTime       string    `json:"createdTime"`
	ModifiedTime      string    `json:"modifiedTime"`
	QuotedFileContent *struct {
		Value string `json:"value"`
	} `json:"quotedFileContent"`
	Replies []apiReply `json:"replies"`
}

type apiCommentList struct {
	Comments      []apiComment `json:"comments"`
	NextPageToken string       `json:"nextPageToken"`
}

type apiSpreadsheet struct {
	Properties struct {
		Title string `json:"title"`
	} `json:"properties"`
	Sheets []struct {
		Properties struct {
			SheetID        int64  `json:"sheetId"`
			Title          string `json:"title"`
			Index          int    `json:"index"`
			GridProperties struct {
				RowCount    int `json:"rowCount"`
				ColumnCount int `json:"columnCount"`
			} `json:"gridProperties"`
		} `json:"properties"`
	} `json:"sheets"`
}

type apiValueRange struct {
	Range  string  `json:"range"`
	Values [][]any `json:"values"`
}

type apiBatchValues struct {
	ValueRanges []apiValueRange `json:"valueRanges"`
}

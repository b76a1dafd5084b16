package gmail

// Result types, one shape per operation, so dispatch serializes a concrete
// contract rather than an untyped mapping.

type AccountStatus struct {
	Name       string `json:"name"`
	Configured bool   `json:"configured"`
	Email      string `json:"email"`
}

type MessageSummary struct {
	ID       string `json:"id"`
	ThreadID string `json:"threadId"`
	Snippet  string `json:"snippet"`
	From     string `json:"from"`
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Date     string `json:"date"`
}

type MessageDetail struct {
	ID       string   `json:"id"`
	ThreadID string   `json:"threadId"`
	From     string   `json:"from"`
	To       string   `json:"to"`
	Subject  string   `json:"subject"`
	Date     string   `json:"date"`
	Body     string   `json:"body"`
	Labels   []string `json:"labels"`
}

type SendResult struct {
	ID       string `json:"id"`
	ThreadID string `json:"threadId"`
}

type DraftResult struct {
	ID        string `json:"id"`
	MessageID string `json:"message_id"`
	ThreadID  string `json:"thread_id,omitempty"`
}

type Label struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type ModifyResult struct {
	ID     string   `json:"id"`
	Labels []string `json:"labels"`
}

type ThreadMessage struct {
	ID      string   `json:"id"`
	Snippet string   `json:"snippet"`
	From    string   `json:"from"`
	To      string   `json:"to"`
	Subject string   `json:"subject"`
	Date    string   `json:"date"`
	Labels  []string `json:"labels"`
}

type ThreadDetail struct {
	ID           string          `json:"id"`
	MessageCount int             `json:"message_count"`
	Messages     []ThreadMessage `json:"messages"`
}

type DraftSummary struct {
	ID        string `json:"id"`
	MessageID string `json:"message_id"`
	To        string `json:"to"`
	Subject   string `json:"subject"`
	Snippet   string `json:"snippet"`
}

type AttachmentInfo struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	MimeType string `json:"mimeType"`
	Size     int    `json:"size"`
}

type AttachmentContent struct {
	Size       int    `json:"size"`
	DataBase64 string `json:"data_base64"`
}

type ReauthResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Gmail wire shapes, limited to the fields the adapter reads.

type apiHeader struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type apiBody struct {
	Data         string `json:"data"`
	AttachmentID string `json:"attachmentId"`
	Size         int    `json:"size"`
}

type apiPart struct {
	MimeType string      `json:"mimeType"`
	Filename string      `json:"filename"`
	Headers  []apiHeader `json:"headers"`
	Body     *apiBody    `json:"body"`
	Parts    []*apiPart  `json:"parts"`
}

type apiMessage struct {
	ID       string   `json:"id"`
	ThreadID string   `json:"threadId"`
	Snippet  string   `json:"snippet"`
	LabelIDs []string `json:"labelIds"`
	Payload  *apiPart `json:"payload"`
}

type apiMessageList struct {
	Messages []struct {
		ID       string `json:"id"`
		ThreadID string `json:"threadId"`
	} `json:"messages"`
}

type apiThread struct {
	ID       string       `json:"id"`
	Messages []apiMessage `json:"messages"`
}

type apiDraft struct {
	ID      string     `json:"id"`
	Message apiMessage `json:"message"`
}

type apiDraftList struct {
	Drafts []struct {
		ID string `json:"id"`
	} `json:"drafts"`
}

type apiLabelList struct {
	Labels []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Type string `json:"type"`
	} `json:"labels"`
}

type apiProfile struct {
	EmailAddress string `json:"emailAddress"`
}

type apiAttachment struct {
	Size int    `json:"size"`
	Data string `json:"data"`
}

func headerMap(part *apiPart) map[string]string {
	out := make(map[string]string)
	if part == nil {
		return out
	}
	for _, h := range part.Headers {
		out[h.Name] = h.Value
	}
	return out
}

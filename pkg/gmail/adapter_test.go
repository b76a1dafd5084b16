package gmail

import (
	"context"
	"encoding/base64"
	"encoding/json"
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

// newTestAdapter wires an adapter to a fake backend with a pre-seeded valid
// credential, then registers its operations. The seeded bundle never expires
// so no test can reach the authorization flow.
func newTestAdapter(t *testing.T, backend http.Handler) *ops.Registry {
	t.Helper()

	integ := config.Gmail(config.Env{ConfigDir: t.TempDir()})
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
	New(integ, provider, WithBaseURL(srv.URL)).Register(registry)
	return registry
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func metadataMessage(id, threadID, snippet string, headers map[string]string) map[string]any {
	hs := make([]map[string]string, 0, len(headers))
	for name, value := range headers {
		hs = append(hs, map[string]string{"name": name, "value": value})
	}
	return map[string]any{
		"id":       id,
		"threadId": threadID,
		"snippet":  snippet,
		"payload":  map[string]any{"headers": hs},
	}
}

func TestListMessages(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /gmail/v1/users/me/messages", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-access", r.Header.Get("Authorization"))
		assert.Equal(t, "10", r.URL.Query().Get("maxResults"))
		assert.Empty(t, r.URL.Query().Get("q"))
		writeJSON(t, w, map[string]any{"messages": []map[string]string{
			{"id": "m1", "threadId": "t1"},
		}})
	})
	mux.HandleFunc("GET /gmail/v1/users/me/messages/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "metadata", r.URL.Query().Get("format"))
		writeJSON(t, w, metadataMessage("m1", "t1", "snippet one", map[string]string{
			"From":    "sender@example.com",
			"Subject": "First",
		}))
	})

	registry := newTestAdapter(t, mux)
	result := registry.Dispatch(context.Background(), "gmail_list", map[string]any{})
	require.NoError(t, result.Err)

	summaries, ok := result.Payload.([]MessageSummary)
	require.True(t, ok)
	require.Len(t, summaries, 1)
	assert.Equal(t, "m1", summaries[0].ID)
	assert.Equal(t, "sender@example.com", summaries[0].From)
	assert.Equal(t, "First", summaries[0].Subject)
	assert.Equal(t, "snippet one", summaries[0].Snippet)
}

func TestSearchMessagesPassesQuery(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /gmail/v1/users/me/messages", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "from:alice is:unread", r.URL.Query().Get("q"))
		assert.Equal(t, "20", r.URL.Query().Get("maxResults"))
		writeJSON(t, w, map[string]any{})
	})

	registry := newTestAdapter(t, mux)
	result := registry.Dispatch(context.Background(), "gmail_search", map[string]any{
		"query": "from:alice is:unread",
	})
	require.NoError(t, result.Err)
	assert.Empty(t, result.Payload.([]MessageSummary))
}

func TestGetMessageExtractsBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /gmail/v1/users/me/messages/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "m1", r.PathValue("id"))
		assert.Equal(t, "full", r.URL.Query().Get("format"))
		writeJSON(t, w, map[string]any{
			"id":       "m1",
			"threadId": "t1",
			"labelIds": []string{"INBOX", "UNREAD"},
			"payload": map[string]any{
				"mimeType": "multipart/alternative",
				"headers": []map[string]string{
					{"name": "Subject", "value": "Body test"},
				},
				"parts": []map[string]any{
					{
						"mimeType": "text/plain",
						"body":     map[string]any{"data": b64("the plain body")},
					},
				},
			},
		})
	})

	registry := newTestAdapter(t, mux)
	result := registry.Dispatch(context.Background(), "gmail_get", map[string]any{"message_id": "m1"})
	require.NoError(t, result.Err)

	detail := result.Payload.(MessageDetail)
	assert.Equal(t, "the plain body", detail.Body)
	assert.Equal(t, "Body test", detail.Subject)
	assert.Equal(t, []string{"INBOX", "UNREAD"}, detail.Labels)
}

func TestSendMessage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /gmail/v1/users/me/messages/send", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		decoded, err := base64.URLEncoding.DecodeString(body["raw"])
		require.NoError(t, err)
		assert.Contains(t, string(decoded), "To: bob@example.com\r\n")
		assert.Contains(t, string(decoded), "Subject: Status\r\n")
		assert.Contains(t, string(decoded), "\r\n\r\nall good")
		writeJSON(t, w, map[string]string{"id": "sent-1", "threadId": "t-9"})
	})

	registry := newTestAdapter(t, mux)
	result := registry.Dispatch(context.Background(), "gmail_send", map[string]any{
		"to":      "bob@example.com",
		"subject": "Status",
		"body":    "all good",
	})
	require.NoError(t, result.Err)
	assert.Equal(t, SendResult{ID: "sent-1", ThreadID: "t-9"}, result.Payload)
}

func TestCreateDraftReplyThreadsCorrectly(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /gmail/v1/users/me/messages/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query()["metadataHeaders"], "Message-ID")
		writeJSON(t, w, metadataMessage("m1", "t1", "", map[string]string{
			"From":       "alice@example.com",
			"To":         "me@example.com",
			"Cc":         "carol@example.com",
			"Subject":    "Plans",
			"Message-ID": "<orig@example.com>",
			"References": "<root@example.com>",
		}))
	})
	mux.HandleFunc("POST /gmail/v1/users/me/drafts", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Message map[string]string `json:"message"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "t1", body.Message["threadId"])

		decoded, err := base64.URLEncoding.DecodeString(body.Message["raw"])
		require.NoError(t, err)
		msg := string(decoded)
		assert.Contains(t, msg, "To: alice@example.com\r\n")
		assert.Contains(t, msg, "Cc: me@example.com, carol@example.com\r\n")
		assert.Contains(t, msg, "Subject: Re: Plans\r\n")
		assert.Contains(t, msg, "In-Reply-To: <orig@example.com>\r\n")
		assert.Contains(t, msg, "References: <root@example.com> <orig@example.com>\r\n")

		writeJSON(t, w, map[string]any{"id": "d1", "message": map[string]string{"id": "dm1"}})
	})

	registry := newTestAdapter(t, mux)
	result := registry.Dispatch(context.Background(), "gmail_create_draft_reply", map[string]any{
		"message_id": "m1",
		"body":       "sounds good",
		"reply_all":  true,
	})
	require.NoError(t, result.Err)
	assert.Equal(t, DraftResult{ID: "d1", MessageID: "dm1", ThreadID: "t1"}, result.Payload)
}

func TestArchiveRemovesInbox(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /gmail/v1/users/me/messages/{id}/modify", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Add    []string `json:"addLabelIds"`
			Remove []string `json:"removeLabelIds"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Empty(t, body.Add)
		assert.Equal(t, []string{"INBOX"}, body.Remove)
		writeJSON(t, w, map[string]any{"id": r.PathValue("id"), "labelIds": []string{"UNREAD"}})
	})

	registry := newTestAdapter(t, mux)
	result := registry.Dispatch(context.Background(), "gmail_archive", map[string]any{"message_id": "m1"})
	require.NoError(t, result.Err)
	assert.Equal(t, ModifyResult{ID: "m1", Labels: []string{"UNREAD"}}, result.Payload)
}

func TestListAttachmentsWalksNestedParts(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /gmail/v1/users/me/messages/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{
			"id": "m1",
			"payload": map[string]any{
				"mimeType": "multipart/mixed",
				"parts": []map[string]any{
					{"mimeType": "text/plain", "body": map[string]any{"data": b64("text")}},
					{
						"mimeType": "multipart/mixed",
						"parts": []map[string]any{
							{
								"mimeType": "application/pdf",
								"filename": "report.pdf",
								"body":     map[string]any{"attachmentId": "att-1", "size": 2048},
							},
						},
					},
				},
			},
		})
	})

	registry := newTestAdapter(t, mux)
	result := registry.Dispatch(context.Background(), "gmail_list_attachments", map[string]any{"message_id": "m1"})
	require.NoError(t, result.Err)

	attachments := result.Payload.([]AttachmentInfo)
	require.Len(t, attachments, 1)
	assert.Equal(t, AttachmentInfo{ID: "att-1", Filename: "report.pdf", MimeType: "application/pdf", Size: 2048}, attachments[0])
}

func TestBackendErrorSurfacesStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /gmail/v1/users/me/labels", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": {"message": "insufficient permissions"}}`, http.StatusForbidden)
	})

	registry := newTestAdapter(t, mux)
	result := registry.Dispatch(context.Background(), "gmail_list_labels", map[string]any{})
	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "403")
}

func TestAccountEnumRejected(t *testing.T) {
	registry := newTestAdapter(t, http.NewServeMux())
	result := registry.Dispatch(context.Background(), "gmail_list", map[string]any{"account": "nobody"})
	require.ErrorIs(t, result.Err, ops.ErrInvalidArgument)
}

// Package gmail is the Gmail capability adapter: each operation obtains a
// session from the provider and issues Gmail REST calls against it.
package gmail

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/satchelhq/satchel/pkg/config"
	"github.com/satchelhq/satchel/pkg/googleapi"
	"github.com/satchelhq/satchel/pkg/ops"
	"github.com/satchelhq/satchel/pkg/session"
)

const usersPath = "/gmail/v1/users/me"

var metadataHeaders = []string{"From", "To", "Subject", "Date"}

type Adapter struct {
	integ    config.Integration
	provider *session.Provider
	baseURL  string
}

// Option tweaks adapter construction; used by tests to point at a local
// API backend.
type Option func(*Adapter)

func WithBaseURL(u string) Option {
	return func(a *Adapter) { a.baseURL = u }
}

func New(integ config.Integration, provider *session.Provider, opts ...Option) *Adapter {
	a := &Adapter{integ: integ, provider: provider}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// client resolves a live session for the account and wraps it in the REST
// helper. Called at the top of every operation; sessions are never cached.
func (a *Adapter) client(ctx context.Context, account string) (*googleapi.Client, error) {
	sess, err := a.provider.GetSession(ctx, account)
	if err != nil {
		return nil, err
	}
	return googleapi.New(sess.HTTPClient, a.baseURL), nil
}

func (a *Adapter) listAccounts(ctx context.Context, _ ops.Args) (any, error) {
	accounts := make([]AccountStatus, 0, len(a.integ.Accounts))
	for _, alias := range a.integ.AccountAliases() {
		configured, _, err := a.provider.Inspect(alias)
		if err != nil {
			configured = false
		}
		status := AccountStatus{Name: alias, Configured: configured}
		if configured {
			// Best effort: a failed profile lookup leaves the email blank.
			if client, err := a.client(ctx, alias); err == nil {
				var profile apiProfile
				if err := client.Get(ctx, usersPath+"/profile", nil, &profile); err == nil {
					status.Email = profile.EmailAddress
				}
			}
		}
		accounts = append(accounts, status)
	}
	return accounts, nil
}

func (a *Adapter) listMessages(ctx context.Context, args ops.Args) (any, error) {
	return a.queryMessages(ctx, args.String("account"), args.String("query"), args.Int("max_results"))
}

func (a *Adapter) searchMessages(ctx context.Context, args ops.Args) (any, error) {
	return a.queryMessages(ctx, args.String("account"), args.String("query"), args.Int("max_results"))
}

func (a *Adapter) queryMessages(ctx context.Context, account, query string, maxResults int) (any, error) {
	client, err := a.client(ctx, account)
	if err != nil {
		return nil, err
	}

	q := url.Values{"maxResults": {strconv.Itoa(maxResults)}}
	if query != "" {
		q.Set("q", query)
	}
	var list apiMessageList
	if err := client.Get(ctx, usersPath+"/messages", q, &list); err != nil {
		return nil, err
	}

	summaries := make([]MessageSummary, 0, len(list.Messages))
	for _, m := range list.Messages {
		detail, err := a.fetchMetadata(ctx, client, m.ID)
		if err != nil {
			return nil, err
		}
		headers := headerMap(detail.Payload)
		summaries = append(summaries, MessageSummary{
			ID:       detail.ID,
			ThreadID: detail.ThreadID,
			Snippet:  detail.Snippet,
			From:     headers["From"],
			To:       headers["To"],
			Subject:  headers["Subject"],
			Date:     headers["Date"],
		})
	}
	return summaries, nil
}

func (a *Adapter) fetchMetadata(ctx context.Context, client *googleapi.Client, id string, extraHeaders ...string) (*apiMessage, error) {
	q := url.Values{"format": {"metadata"}}
	for _, h := range metadataHeaders {
		q.Add("metadataHeaders", h)
	}
	for _, h := range extraHeaders {
		q.Add("metadataHeaders", h)
	}
	var msg apiMessage
	if err := client.Get(ctx, usersPath+"/messages/"+id, q, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (a *Adapter) fetchFull(ctx context.Context, client *googleapi.Client, id string) (*apiMessage, error) {
	var msg apiMessage
	if err := client.Get(ctx, usersPath+"/messages/"+id, url.Values{"format": {"full"}}, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (a *Adapter) getMessage(ctx context.Context, args ops.Args) (any, error) {
	client, err := a.client(ctx, args.String("account"))
	if err != nil {
		return nil, err
	}
	msg, err := a.fetchFull(ctx, client, args.String("message_id"))
	if err != nil {
		return nil, err
	}
	headers := headerMap(msg.Payload)
	return MessageDetail{
		ID:       msg.ID,
		ThreadID: msg.ThreadID,
		From:     headers["From"],
		To:       headers["To"],
		Subject:  headers["Subject"],
		Date:     headers["Date"],
		Body:     extractBody(msg.Payload),
		Labels:   msg.LabelIDs,
	}, nil
}

func (a *Adapter) sendMessage(ctx context.Context, args ops.Args) (any, error) {
	client, err := a.client(ctx, args.String("account"))
	if err != nil {
		return nil, err
	}
	raw := buildRawMessage(composeHeaders{
		To:      args.String("to"),
		Subject: args.String("subject"),
	}, args.String("body"))

	var sent apiMessage
	if err := client.Post(ctx, usersPath+"/messages/send", nil, map[string]string{"raw": raw}, &sent); err != nil {
		return nil, err
	}
	return SendResult{ID: sent.ID, ThreadID: sent.ThreadID}, nil
}

func (a *Adapter) createDraft(ctx context.Context, args ops.Args) (any, error) {
	client, err := a.client(ctx, args.String("account"))
	if err != nil {
		return nil, err
	}
	raw := buildRawMessage(composeHeaders{
		To:      args.String("to"),
		Subject: args.String("subject"),
	}, args.String("body"))

	draft, err := a.postDraft(ctx, client, raw, "")
	if err != nil {
		return nil, err
	}
	return DraftResult{ID: draft.ID, MessageID: draft.Message.ID}, nil
}

func (a *Adapter) postDraft(ctx context.Context, client *googleapi.Client, raw, threadID string) (*apiDraft, error) {
	message := map[string]any{"raw": raw}
	if threadID != "" {
		message["threadId"] = threadID
	}
	var draft apiDraft
	if err := client.Post(ctx, usersPath+"/drafts", nil, map[string]any{"message": message}, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

func (a *Adapter) createDraftReply(ctx context.Context, args ops.Args) (any, error) {
	client, err := a.client(ctx, args.String("account"))
	if err != nil {
		return nil, err
	}
	original, err := a.fetchMetadata(ctx, client, args.String("message_id"), "Cc", "Message-ID", "References")
	if err != nil {
		return nil, err
	}
	headers := headerMap(original.Payload)
	to, cc := replyRecipients(headers, args.Bool("reply_all"))

	raw := buildRawMessage(composeHeaders{
		To:         to,
		Cc:         cc,
		Subject:    replySubject(headers["Subject"]),
		InReplyTo:  headers["Message-ID"],
		References: buildReferences(headers["References"], headers["Message-ID"]),
	}, args.String("body"))

	draft, err := a.postDraft(ctx, client, raw, original.ThreadID)
	if err != nil {
		return nil, err
	}
	return DraftResult{ID: draft.ID, MessageID: draft.Message.ID, ThreadID: original.ThreadID}, nil
}

func (a *Adapter) createDraftForward(ctx context.Context, args ops.Args) (any, error) {
	client, err := a.client(ctx, args.String("account"))
	if err != nil {
		return nil, err
	}
	raw, err := a.buildForwardRaw(ctx, client, args)
	if err != nil {
		return nil, err
	}
	draft, err := a.postDraft(ctx, client, raw, "")
	if err != nil {
		return nil, err
	}
	return DraftResult{ID: draft.ID, MessageID: draft.Message.ID}, nil
}

func (a *Adapter) forwardMessage(ctx context.Context, args ops.Args) (any, error) {
	client, err := a.client(ctx, args.String("account"))
	if err != nil {
		return nil, err
	}
	raw, err := a.buildForwardRaw(ctx, client, args)
	if err != nil {
		return nil, err
	}
	var sent apiMessage
	if err := client.Post(ctx, usersPath+"/messages/send", nil, map[string]string{"raw": raw}, &sent); err != nil {
		return nil, err
	}
	return SendResult{ID: sent.ID, ThreadID: sent.ThreadID}, nil
}

func (a *Adapter) buildForwardRaw(ctx context.Context, client *googleapi.Client, args ops.Args) (string, error) {
	original, err := a.fetchFull(ctx, client, args.String("message_id"))
	if err != nil {
		return "", err
	}
	headers := headerMap(original.Payload)
	return buildRawMessage(composeHeaders{
		To:      args.String("to"),
		Subject: forwardSubject(headers["Subject"]),
	}, buildForwardBody(original, args.String("body"))), nil
}

func (a *Adapter) listLabels(ctx context.Context, args ops.Args) (any, error) {
	client, err := a.client(ctx, args.String("account"))
	if err != nil {
		return nil, err
	}
	var list apiLabelList
	if err := client.Get(ctx, usersPath+"/labels", nil, &list); err != nil {
		return nil, err
	}
	labels := make([]Label, 0, len(list.Labels))
	for _, l := range list.Labels {
		labels = append(labels, Label{ID: l.ID, Name: l.Name, Type: l.Type})
	}
	return labels, nil
}

func (a *Adapter) modifyLabels(ctx context.Context, args ops.Args) (any, error) {
	return a.modify(ctx, args.String("account"), args.String("message_id"),
		args.StringList("add_labels"), args.StringList("remove_labels"))
}

func (a *Adapter) archiveMessage(ctx context.Context, args ops.Args) (any, error) {
	return a.modify(ctx, args.String("account"), args.String("message_id"), nil, []string{"INBOX"})
}

func (a *Adapter) markRead(ctx context.Context, args ops.Args) (any, error) {
	return a.modify(ctx, args.String("account"), args.String("message_id"), nil, []string{"UNREAD"})
}

func (a *Adapter) markUnread(ctx context.Context, args ops.Args) (any, error) {
	return a.modify(ctx, args.String("account"), args.String("message_id"), []string{"UNREAD"}, nil)
}

func (a *Adapter) modify(ctx context.Context, account, messageID string, add, remove []string) (any, error) {
	client, err := a.client(ctx, account)
	if err != nil {
		return nil, err
	}
	if add == nil {
		add = []string{}
	}
	if remove == nil {
		remove = []string{}
	}
	body := map[string]any{
		"addLabelIds":    add,
		"removeLabelIds": remove,
	}
	var msg apiMessage
	if err := client.Post(ctx, usersPath+"/messages/"+messageID+"/modify", nil, body, &msg); err != nil {
		return nil, err
	}
	return ModifyResult{ID: msg.ID, Labels: msg.LabelIDs}, nil
}

func (a *Adapter) getThread(ctx context.Context, args ops.Args) (any, error) {
	client, err := a.client(ctx, args.String("account"))
	if err != nil {
		return nil, err
	}

	q := url.Values{"format": {"metadata"}}
	for _, h := range metadataHeaders {
		q.Add("metadataHeaders", h)
	}
	var thread apiThread
	if err := client.Get(ctx, usersPath+"/threads/"+args.String("thread_id"), q, &thread); err != nil {
		return nil, err
	}

	messages := make([]ThreadMessage, 0, len(thread.Messages))
	for _, msg := range thread.Messages {
		headers := headerMap(msg.Payload)
		messages = append(messages, ThreadMessage{
			ID:      msg.ID,
			Snippet: msg.Snippet,
			From:    headers["From"],
			To:      headers["To"],
			Subject: headers["Subject"],
			Date:    headers["Date"],
			Labels:  msg.LabelIDs,
		})
	}
	return ThreadDetail{ID: thread.ID, MessageCount: len(messages), Messages: messages}, nil
}

func (a *Adapter) listDrafts(ctx context.Context, args ops.Args) (any, error) {
	client, err := a.client(ctx, args.String("account"))
	if err != nil {
		return nil, err
	}

	q := url.Values{"maxResults": {strconv.Itoa(args.Int("max_results"))}}
	var list apiDraftList
	if err := client.Get(ctx, usersPath+"/drafts", q, &list); err != nil {
		return nil, err
	}

	drafts := make([]DraftSummary, 0, len(list.Drafts))
	for _, d := range list.Drafts {
		var draft apiDraft
		if err := client.Get(ctx, usersPath+"/drafts/"+d.ID, url.Values{"format": {"metadata"}}, &draft); err != nil {
			return nil, err
		}
		headers := headerMap(draft.Message.Payload)
		drafts = append(drafts, DraftSummary{
			ID:        draft.ID,
			MessageID: draft.Message.ID,
			To:        headers["To"],
			Subject:   headers["Subject"],
			Snippet:   draft.Message.Snippet,
		})
	}
	return drafts, nil
}

func (a *Adapter) listAttachments(ctx context.Context, args ops.Args) (any, error) {
	client, err := a.client(ctx, args.String("account"))
	if err != nil {
		return nil, err
	}
	msg, err := a.fetchFull(ctx, client, args.String("message_id"))
	if err != nil {
		return nil, err
	}

	attachments := make([]AttachmentInfo, 0)
	var walk func(parts []*apiPart)
	walk = func(parts []*apiPart) {
		for _, part := range parts {
			if part.Filename != "" && part.Body != nil && part.Body.AttachmentID != "" {
				attachments = append(attachments, AttachmentInfo{
					ID:       part.Body.AttachmentID,
					Filename: part.Filename,
					MimeType: part.MimeType,
					Size:     part.Body.Size,
				})
			}
			if len(part.Parts) > 0 {
				walk(part.Parts)
			}
		}
	}
	if msg.Payload != nil {
		walk(msg.Payload.Parts)
	}
	return attachments, nil
}

func (a *Adapter) getAttachment(ctx context.Context, args ops.Args) (any, error) {
	client, err := a.client(ctx, args.String("account"))
	if err != nil {
		return nil, err
	}
	path := fmt.Sprintf("%s/messages/%s/attachments/%s", usersPath, args.String("message_id"), args.String("attachment_id"))
	var attachment apiAttachment
	if err := client.Get(ctx, path, nil, &attachment); err != nil {
		return nil, err
	}
	return AttachmentContent{Size: attachment.Size, DataBase64: attachment.Data}, nil
}

func (a *Adapter) reauth(ctx context.Context, args ops.Args) (any, error) {
	account := args.String("account")
	if _, err := a.provider.Reauthenticate(ctx, account); err != nil {
		return nil, err
	}
	return ReauthResult{
		Success: true,
		Message: fmt.Sprintf("Re-authenticated successfully with Gmail (%s)", account),
	}, nil
}

package gmail

import (
	"github.com/satchelhq/satchel/pkg/config"
	"github.com/satchelhq/satchel/pkg/ops"
)

func (a *Adapter) accountParam() ops.Param {
	return ops.Param{
		Type:        ops.TypeString,
		Description: "Account to use (default: primary)",
		Default:     config.DefaultAccount,
		Enum:        a.integ.AccountAliases(),
	}
}

// Register declares every Gmail operation on the registry.
func (a *Adapter) Register(reg *ops.Registry) {
	account := a.accountParam()
	messageID := ops.Param{Type: ops.TypeString, Description: "The Gmail message ID", Required: true}

	reg.Register(ops.Descriptor{
		Name:        "gmail_list_accounts",
		Description: "List configured Gmail accounts.",
		Handler:     a.listAccounts,
	})
	reg.Register(ops.Descriptor{
		Name:        "gmail_list",
		Description: "List recent emails. Optionally filter with a Gmail search query.",
		Params: map[string]ops.Param{
			"query":       {Type: ops.TypeString, Description: "Gmail search query (e.g., 'from:someone@example.com', 'is:unread')"},
			"max_results": {Type: ops.TypeInteger, Description: "Maximum number of messages to return (default: 10)", Default: 10},
			"account":     account,
		},
		Handler: a.listMessages,
	})
	reg.Register(ops.Descriptor{
		Name:        "gmail_get",
		Description: "Get the full content of a specific email by its ID.",
		Params: map[string]ops.Param{
			"message_id": messageID,
			"account":    account,
		},
		Handler: a.getMessage,
	})
	reg.Register(ops.Descriptor{
		Name:        "gmail_search",
		Description: "Search emails using Gmail search syntax.",
		Params: map[string]ops.Param{
			"query":       {Type: ops.TypeString, Description: "Gmail search query", Required: true},
			"max_results": {Type: ops.TypeInteger, Description: "Max results (default: 20)", Default: 20},
			"account":     account,
		},
		Handler: a.searchMessages,
	})
	reg.Register(ops.Descriptor{
		Name:        "gmail_send",
		Description: "Send an email.",
		Params: map[string]ops.Param{
			"to":      {Type: ops.TypeString, Description: "Recipient email address", Required: true},
			"subject": {Type: ops.TypeString, Description: "Email subject", Required: true},
			"body":    {Type: ops.TypeString, Description: "Email body (plain text)", Required: true},
			"account": account,
		},
		Handler: a.sendMessage,
	})
	reg.Register(ops.Descriptor{
		Name:        "gmail_create_draft",
		Description: "Create a draft email without sending it.",
		Params: map[string]ops.Param{
			"to":      {Type: ops.TypeString, Description: "Recipient email address", Required: true},
			"subject": {Type: ops.TypeString, Description: "Email subject", Required: true},
			"body":    {Type: ops.TypeString, Description: "Email body (plain text)", Required: true},
			"account": account,
		},
		Handler: a.createDraft,
	})
	reg.Register(ops.Descriptor{
		Name:        "gmail_list_labels",
		Description: "List all available Gmail labels.",
		Params:      map[string]ops.Param{"account": account},
		Handler:     a.listLabels,
	})
	reg.Register(ops.Descriptor{
		Name:        "gmail_archive",
		Description: "Archive an email (removes from inbox, keeps in All Mail).",
		Params: map[string]ops.Param{
			"message_id": messageID,
			"account":    account,
		},
		Handler: a.archiveMessage,
	})
	reg.Register(ops.Descriptor{
		Name:        "gmail_mark_read",
		Description: "Mark an email as read.",
		Params: map[string]ops.Param{
			"message_id": messageID,
			"account":    account,
		},
		Handler: a.markRead,
	})
	reg.Register(ops.Descriptor{
		Name:        "gmail_mark_unread",
		Description: "Mark an email as unread.",
		Params: map[string]ops.Param{
			"message_id": messageID,
			"account":    account,
		},
		Handler: a.markUnread,
	})
	reg.Register(ops.Descriptor{
		Name:        "gmail_modify_labels",
		Description: "Add or remove labels from an email.",
		Params: map[string]ops.Param{
			"message_id":    messageID,
			"add_labels":    {Type: ops.TypeStringList, Description: "Label IDs to add"},
			"remove_labels": {Type: ops.TypeStringList, Description: "Label IDs to remove"},
			"account":       account,
		},
		Handler: a.modifyLabels,
	})
	reg.Register(ops.Descriptor{
		Name:        "gmail_create_draft_reply",
		Description: "Create a draft reply to an existing email.",
		Params: map[string]ops.Param{
			"message_id": {Type: ops.TypeString, Description: "The Gmail message ID to reply to", Required: true},
			"body":       {Type: ops.TypeString, Description: "Reply body (plain text)", Required: true},
			"reply_all":  {Type: ops.TypeBoolean, Description: "Reply to all recipients (default: false)", Default: false},
			"account":    account,
		},
		Handler: a.createDraftReply,
	})
	reg.Register(ops.Descriptor{
		Name:        "gmail_create_draft_forward",
		Description: "Create a draft forwarding an existing email.",
		Params: map[string]ops.Param{
			"message_id": {Type: ops.TypeString, Description: "The Gmail message ID to forward", Required: true},
			"to":         {Type: ops.TypeString, Description: "Recipient email address", Required: true},
			"body":       {Type: ops.TypeString, Description: "Optional message above forwarded content"},
			"account":    account,
		},
		Handler: a.createDraftForward,
	})
	reg.Register(ops.Descriptor{
		Name:        "gmail_forward",
		Description: "Forward an email immediately.",
		Params: map[string]ops.Param{
			"message_id": {Type: ops.TypeString, Description: "The Gmail message ID to forward", Required: true},
			"to":         {Type: ops.TypeString, Description: "Recipient email address", Required: true},
			"body":       {Type: ops.TypeString, Description: "Optional message above forwarded content"},
			"account":    account,
		},
		Handler: a.forwardMessage,
	})
	reg.Register(ops.Descriptor{
		Name:        "gmail_get_thread",
		Description: "Get all messages in a conversation thread.",
		Params: map[string]ops.Param{
			"thread_id": {Type: ops.TypeString, Description: "The Gmail thread ID", Required: true},
			"account":   account,
		},
		Handler: a.getThread,
	})
	reg.Register(ops.Descriptor{
		Name:        "gmail_list_drafts",
		Description: "List draft emails.",
		Params: map[string]ops.Param{
			"max_results": {Type: ops.TypeInteger, Description: "Max drafts to return (default: 10)", Default: 10},
			"account":     account,
		},
		Handler: a.listDrafts,
	})
	reg.Register(ops.Descriptor{
		Name:        "gmail_list_attachments",
		Description: "List attachments in an email.",
		Params: map[string]ops.Param{
			"message_id": messageID,
			"account":    account,
		},
		Handler: a.listAttachments,
	})
	reg.Register(ops.Descriptor{
		Name:        "gmail_get_attachment",
		Description: "Download attachment content (base64-encoded).",
		Params: map[string]ops.Param{
			"message_id":    messageID,
			"attachment_id": {Type: ops.TypeString, Description: "The attachment ID", Required: true},
			"account":       account,
		},
		Handler: a.getAttachment,
	})
	reg.Register(ops.Descriptor{
		Name:        "gmail_reauth",
		Description: "Re-authenticate with Gmail. Use this if you get token expired/revoked errors.",
		Params:      map[string]ops.Param{"account": account},
		Handler:     a.reauth,
	})
}

package gcal

import "github.com/satchelhq/satchel/pkg/ops"

// Register declares every Calendar operation on the registry.
func (a *Adapter) Register(reg *ops.Registry) {
	calendarID := ops.Param{Type: ops.TypeString, Description: "Calendar ID (default: 'primary')", Default: "primary"}
	timezone := ops.Param{Type: ops.TypeString, Description: "Timezone (default: 'America/Los_Angeles')", Default: defaultTimezone}

	reg.Register(ops.Descriptor{
		Name:        "gcal_list_calendars",
		Description: "List all calendars the user has access to.",
		Handler:     a.listCalendars,
	})
	reg.Register(ops.Descriptor{
		Name:        "gcal_list_events",
		Description: "List upcoming events from a calendar.",
		Params: map[string]ops.Param{
			"calendar_id": calendarID,
			"time_min":    {Type: ops.TypeString, Description: "Start time in RFC 3339 format with timezone offset (e.g., '2024-01-15T00:00:00-08:00' or '2024-01-15T00:00:00Z'). Default: now."},
			"time_max":    {Type: ops.TypeString, Description: "End time in RFC 3339 format with timezone offset (e.g., '2024-02-01T00:00:00-08:00' or '2024-02-01T00:00:00Z')"},
			"max_results": {Type: ops.TypeInteger, Description: "Maximum events to return (default: 10)", Default: 10},
			"query":       {Type: ops.TypeString, Description: "Free text search query"},
		},
		Handler: a.listEvents,
	})
	reg.Register(ops.Descriptor{
		Name:        "gcal_get_event",
		Description: "Get details of a specific calendar event.",
		Params: map[string]ops.Param{
			"event_id":    {Type: ops.TypeString, Description: "The event ID", Required: true},
			"calendar_id": calendarID,
		},
		Handler: a.getEvent,
	})
	reg.Register(ops.Descriptor{
		Name:        "gcal_create_event",
		Description: "Create a new calendar event.",
		Params: map[string]ops.Param{
			"summary":     {Type: ops.TypeString, Description: "Event title", Required: true},
			"start_time":  {Type: ops.TypeString, Description: "Start time in ISO format (e.g., '2024-01-15T10:00:00')", Required: true},
			"end_time":    {Type: ops.TypeString, Description: "End time in ISO format", Required: true},
			"calendar_id": calendarID,
			"description": {Type: ops.TypeString, Description: "Event description"},
			"location":    {Type: ops.TypeString, Description: "Event location"},
			"attendees":   {Type: ops.TypeStringList, Description: "List of attendee email addresses"},
			"timezone":    timezone,
		},
		Handler: a.createEvent,
	})
	reg.Register(ops.Descriptor{
		Name:        "gcal_update_event",
		Description: "Update an existing calendar event.",
		Params: map[string]ops.Param{
			"event_id":      {Type: ops.TypeString, Description: "The event ID to update", Required: true},
			"calendar_id":   calendarID,
			"summary":       {Type: ops.TypeString, Description: "New event title"},
			"start_time":    {Type: ops.TypeString, Description: "New start time in ISO format"},
			"end_time":      {Type: ops.TypeString, Description: "New end time in ISO format"},
			"description":   {Type: ops.TypeString, Description: "New event description"},
			"location":      {Type: ops.TypeString, Description: "New event location"},
			"timezone":      timezone,
			"attendees":     {Type: ops.TypeStringList, Description: "Replace all attendees with this list of email addresses"},
			"add_attendees": {Type: ops.TypeStringList, Description: "Add these email addresses to existing attendees"},
		},
		Handler: a.updateEvent,
	})
	reg.Register(ops.Descriptor{
		Name:        "gcal_delete_event",
		Description: "Delete a calendar event.",
		Params: map[string]ops.Param{
			"event_id":    {Type: ops.TypeString, Description: "The event ID to delete", Required: true},
			"calendar_id": calendarID,
		},
		Handler: a.deleteEvent,
	})
	reg.Register(ops.Descriptor{
		Name:        "gcal_quick_add",
		Description: "Create an event using natural language (e.g., 'Lunch with John tomorrow at noon').",
		Params: map[string]ops.Param{
			"text":        {Type: ops.TypeString, Description: "Natural language description of the event", Required: true},
			"calendar_id": calendarID,
		},
		Handler: a.quickAdd,
	})
	reg.Register(ops.Descriptor{
		Name:        "gcal_freebusy",
		Description: "Check free/busy status for calendars in a time range.",
		Params: map[string]ops.Param{
			"time_min":     {Type: ops.TypeString, Description: "Start time in RFC 3339 format with timezone offset (e.g., '2024-01-15T00:00:00-08:00' or '2024-01-15T00:00:00Z')", Required: true},
			"time_max":     {Type: ops.TypeString, Description: "End time in RFC 3339 format with timezone offset (e.g., '2024-02-01T00:00:00-08:00' or '2024-02-01T00:00:00Z')", Required: true},
			"calendar_ids": {Type: ops.TypeStringList, Description: "List of calendar IDs to check (default: ['primary'])"},
		},
		Handler: a.freeBusy,
	})
	reg.Register(ops.Descriptor{
		Name:        "gcal_reauth",
		Description: "Re-authenticate with Google Calendar. Use this if you get token expired/revoked errors.",
		Handler:     a.reauth,
	})
}

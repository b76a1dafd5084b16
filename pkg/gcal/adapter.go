// Package gcal is the Google Calendar capability adapter.
package gcal

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/satchelhq/satchel/pkg/config"
	"github.com/satchelhq/satchel/pkg/googleapi"
	"github.com/satchelhq/satchel/pkg/ops"
	"github.com/satchelhq/satchel/pkg/session"
)

const (
	calendarPath    = "/calendar/v3"
	defaultTimezone = "America/Los_Angeles"
)

type Adapter struct {
	integ    config.Integration
	provider *session.Provider
	baseURL  string
	now      func() time.Time
}

type Option func(*Adapter)

func WithBaseURL(u string) Option {
	return func(a *Adapter) { a.baseURL = u }
}

// WithClock overrides the time source; tests pin it to get stable
// default timeMin values.
func WithClock(now func() time.Time) Option {
	return func(a *Adapter) { a.now = now }
}

func New(integ config.Integration, provider *session.Provider, opts ...Option) *Adapter {
	a := &Adapter{integ: integ, provider: provider, now: time.Now}
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

func eventsPath(calendarID string) string {
	return calendarPath + "/calendars/" + url.PathEscape(calendarID) + "/events"
}

func (a *Adapter) listCalendars(ctx context.Context, _ ops.Args) (any, error) {
	client, err := a.client(ctx)
	if err != nil {
		return nil, err
	}
	var list apiCalendarList
	if err := client.Get(ctx, calendarPath+"/users/me/calendarList", nil, &list); err != nil {
		return nil, err
	}
	calendars := make([]CalendarSummary, 0, len(list.Items))
	for _, item := range list.Items {
		calendars = append(calendars, CalendarSummary{
			ID:         item.ID,
			Summary:    item.Summary,
			Primary:    item.Primary,
			AccessRole: item.AccessRole,
		})
	}
	return calendars, nil
}

func (a *Adapter) listEvents(ctx context.Context, args ops.Args) (any, error) {
	client, err := a.client(ctx)
	if err != nil {
		return nil, err
	}

	timeMin := args.String("time_min")
	if timeMin == "" {
		timeMin = a.now().UTC().Format(time.RFC3339)
	}
	q := url.Values{
		"timeMin":      {timeMin},
		"maxResults":   {strconv.Itoa(args.Int("max_results"))},
		"singleEvents": {"true"},
		"orderBy":      {"startTime"},
	}
	if v := args.String("time_max"); v != "" {
		q.Set("timeMax", v)
	}
	if v := args.String("query"); v != "" {
		q.Set("q", v)
	}

	var list apiEventList
	if err := client.Get(ctx, eventsPath(args.String("calendar_id")), q, &list); err != nil {
		return nil, err
	}

	events := make([]EventSummary, 0, len(list.Items))
	for _, event := range list.Items {
		summary := event.Summary
		if summary == "" {
			summary = "(No title)"
		}
		events = append(events, EventSummary{
			ID:          event.ID,
			Summary:     summary,
			Start:       event.Start.when(),
			End:         event.End.when(),
			Location:    event.Location,
			Description: event.Description,
			Attendees:   attendeeEmails(event.Attendees),
			HTMLLink:    event.HTMLLink,
		})
	}
	return events, nil
}

func (a *Adapter) getEvent(ctx context.Context, args ops.Args) (any, error) {
	client, err := a.client(ctx)
	if err != nil {
		return nil, err
	}
	var event apiEvent
	path := eventsPath(args.String("calendar_id")) + "/" + url.PathEscape(args.String("event_id"))
	if err := client.Get(ctx, path, nil, &event); err != nil {
		return nil, err
	}
	return EventDetail{
		ID:             event.ID,
		Summary:        event.Summary,
		Start:          event.Start,
		End:            event.End,
		Location:       event.Location,
		Description:    event.Description,
		Attendees:      event.Attendees,
		Organizer:      event.Organizer,
		Status:         event.Status,
		HTMLLink:       event.HTMLLink,
		ConferenceData: event.ConferenceData,
		Recurrence:     event.Recurrence,
	}, nil
}

func (a *Adapter) createEvent(ctx context.Context, args ops.Args) (any, error) {
	client, err := a.client(ctx)
	if err != nil {
		return nil, err
	}

	timezone := args.String("timezone")
	event := map[string]any{
		"summary": args.String("summary"),
		"start":   map[string]string{"dateTime": args.String("start_time"), "timeZone": timezone},
		"end":     map[string]string{"dateTime": args.String("end_time"), "timeZone": timezone},
	}
	if v := args.String("description"); v != "" {
		event["description"] = v
	}
	if v := args.String("location"); v != "" {
		event["location"] = v
	}
	if attendees := args.StringList("attendees"); len(attendees) > 0 {
		event["attendees"] = attendeeObjects(attendees)
	}

	var created apiEvent
	if err := client.Post(ctx, eventsPath(args.String("calendar_id")), nil, event, &created); err != nil {
		return nil, err
	}
	return EventWriteResult{
		ID:       created.ID,
		Summary:  created.Summary,
		HTMLLink: created.HTMLLink,
		Start:    created.Start,
		End:      created.End,
	}, nil
}

func (a *Adapter) updateEvent(ctx context.Context, args ops.Args) (any, error) {
	client, err := a.client(ctx)
	if err != nil {
		return nil, err
	}
	path := eventsPath(args.String("calendar_id")) + "/" + url.PathEscape(args.String("event_id"))

	// Read-modify-write on the raw event object so fields this adapter
	// does not model (reminders, conference data) survive the update.
	var event map[string]any
	if err := client.Get(ctx, path, nil, &event); err != nil {
		return nil, err
	}

	timezone := args.String("timezone")
	if args.Has("summary") {
		event["summary"] = args.String("summary")
	}
	if args.Has("description") {
		event["description"] = args.String("description")
	}
	if args.Has("location") {
		event["location"] = args.String("location")
	}
	if args.Has("start_time") {
		event["start"] = map[string]string{"dateTime": args.String("start_time"), "timeZone": timezone}
	}
	if args.Has("end_time") {
		event["end"] = map[string]string{"dateTime": args.String("end_time"), "timeZone": timezone}
	}
	if args.Has("attendees") {
		event["attendees"] = attendeeObjects(args.StringList("attendees"))
	}
	if args.Has("add_attendees") {
		event["attendees"] = mergeAttendees(event["attendees"], args.StringList("add_attendees"))
	}

	var updated apiEvent
	if err := client.Put(ctx, path, nil, event, &updated); err != nil {
		return nil, err
	}
	return EventUpdateResult{
		ID:        updated.ID,
		Summary:   updated.Summary,
		HTMLLink:  updated.HTMLLink,
		Start:     updated.Start,
		End:       updated.End,
		Attendees: attendeeEmails(updated.Attendees),
	}, nil
}

func (a *Adapter) deleteEvent(ctx context.Context, args ops.Args) (any, error) {
	client, err := a.client(ctx)
	if err != nil {
		return nil, err
	}
	eventID := args.String("event_id")
	path := eventsPath(args.String("calendar_id")) + "/" + url.PathEscape(eventID)
	if err := client.Delete(ctx, path, nil); err != nil {
		return nil, err
	}
	return DeleteResult{Deleted: true, EventID: eventID}, nil
}

func (a *Adapter) quickAdd(ctx context.Context, args ops.Args) (any, error) {
	client, err := a.client(ctx)
	if err != nil {
		return nil, err
	}
	q := url.Values{"text": {args.String("text")}}
	var created apiEvent
	if err := client.Post(ctx, eventsPath(args.String("calendar_id"))+"/quickAdd", q, nil, &created); err != nil {
		return nil, err
	}
	return EventWriteResult{
		ID:       created.ID,
		Summary:  created.Summary,
		HTMLLink: created.HTMLLink,
		Start:    created.Start,
		End:      created.End,
	}, nil
}

func (a *Adapter) freeBusy(ctx context.Context, args ops.Args) (any, error) {
	client, err := a.client(ctx)
	if err != nil {
		return nil, err
	}

	calendarIDs := args.StringList("calendar_ids")
	if len(calendarIDs) == 0 {
		calendarIDs = []string{"primary"}
	}
	items := make([]map[string]string, 0, len(calendarIDs))
	for _, id := range calendarIDs {
		items = append(items, map[string]string{"id": id})
	}
	body := map[string]any{
		"timeMin": args.String("time_min"),
		"timeMax": args.String("time_max"),
		"items":   items,
	}

	var resp apiFreeBusyResponse
	if err := client.Post(ctx, calendarPath+"/freeBusy", nil, body, &resp); err != nil {
		return nil, err
	}

	calendars := make(map[string]BusyCalendar, len(resp.Calendars))
	for id, data := range resp.Calendars {
		calendars[id] = BusyCalendar{Busy: data.Busy, Errors: data.Errors}
	}
	return calendars, nil
}

func (a *Adapter) reauth(ctx context.Context, _ ops.Args) (any, error) {
	if _, err := a.provider.Reauthenticate(ctx, config.DefaultAccount); err != nil {
		return nil, err
	}
	return ReauthResult{Success: true, Message: "Re-authenticated successfully with Google Calendar"}, nil
}

func attendeeObjects(emails []string) []map[string]string {
	attendees := make([]map[string]string, 0, len(emails))
	for _, email := range emails {
		attendees = append(attendees, map[string]string{"email": email})
	}
	return attendees
}

// mergeAttendees appends new addresses to the existing attendee list,
// skipping addresses already present (case-insensitive).
func mergeAttendees(existing any, add []string) []any {
	merged := make([]any, 0)
	seen := make(map[string]bool)
	switch list := existing.(type) {
	case []any:
		for _, entry := range list {
			merged = append(merged, entry)
			if m, ok := entry.(map[string]any); ok {
				if email, ok := m["email"].(string); ok {
					seen[strings.ToLower(email)] = true
				}
			}
		}
	case []map[string]string:
		for _, entry := range list {
			merged = append(merged, entry)
			seen[strings.ToLower(entry["email"])] = true
		}
	}
	for _, email := range add {
		if !seen[strings.ToLower(email)] {
			merged = append(merged, map[string]any{"email": email})
			seen[strings.ToLower(email)] = true
		}
	}
	return merged
}

package gcal

// Result shapes returned to callers.

type CalendarSummary struct {
	ID         string `json:"id"`
	Summary    string `json:"summary"`
	Primary    bool   `json:"primary"`
	AccessRole string `json:"accessRole"`
}

type EventSummary struct {
	ID          string   `json:"id"`
	Summary     string   `json:"summary"`
	Start       string   `json:"start"`
	End         string   `json:"end"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	Attendees   []string `json:"attendees"`
	HTMLLink    string   `json:"htmlLink"`
}

type EventDetail struct {
	ID             string         `json:"id"`
	Summary        string         `json:"summary"`
	Start          apiEventTime   `json:"start"`
	End            apiEventTime   `json:"end"`
	Location       string         `json:"location"`
	Description    string         `json:"description"`
	Attendees      []apiAttendee  `json:"attendees"`
	Organizer      map[string]any `json:"organizer"`
	Status         string         `json:"status"`
	HTMLLink       string         `json:"htmlLink"`
	ConferenceData map[string]any `json:"conferenceData"`
	Recurrence     []string       `json:"recurrence"`
}

type EventWriteResult struct {
	ID       string       `json:"id"`
	Summary  string       `json:"summary"`
	HTMLLink string       `json:"htmlLink"`
	Start    apiEventTime `json:"start"`
	End      apiEventTime `json:"end"`
}

type EventUpdateResult struct {
	ID        string       `json:"id"`
	Summary   string       `json:"summary"`
	HTMLLink  string       `json:"htmlLink"`
	Start     apiEventTime `json:"start"`
	End       apiEventTime `json:"end"`
	Attendees []string     `json:"attendees"`
}

type DeleteResult struct {
	Deleted bool   `json:"deleted"`
	EventID string `json:"event_id"`
}

type BusyCalendar struct {
	Busy   []apiBusyRange   `json:"busy"`
	Errors []map[string]any `json:"errors"`
}

type ReauthResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Wire shapes from the Calendar v3 API.

type apiCalendarList struct {
	Items []struct {
		ID         string `json:"id"`
		Summary    string `json:"summary"`
		Primary    bool   `json:"primary"`
		AccessRole string `json:"accessRole"`
	} `json:"items"`
}

type apiEventTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

// when returns the dateTime if set, otherwise the all-day date.
func (t apiEventTime) when() string {
	if t.DateTime != "" {
		return t.DateTime
	}
	return t.Date
}

type apiAttendee struct {
	Email          string `json:"email"`
	DisplayName    string `json:"displayName,omitempty"`
	ResponseStatus string `json:"responseStatus,omitempty"`
	Optional       bool   `json:"optional,omitempty"`
	Organizer      bool   `json:"organizer,omitempty"`
	Self           bool   `json:"self,omitempty"`
}

type apiEvent struct {
	ID             string         `json:"id"`
	Summary        string         `json:"summary"`
	Start          apiEventTime   `json:"start"`
	End            apiEventTime   `json:"end"`
	Location       string         `json:"location"`
	Description    string         `json:"description"`
	Attendees      []apiAttendee  `json:"attendees"`
	Organizer      map[string]any `json:"organizer"`
	Status         string         `json:"status"`
	HTMLLink       string         `json:"htmlLink"`
	ConferenceData map[string]any `json:"conferenceData"`
	Recurrence     []string       `json:"recurrence"`
}

type apiEventList struct {
	Items []apiEvent `json:"items"`
}

type apiBusyRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type apiFreeBusyResponse struct {
	Calendars map[string]struct {
		Busy   []apiBusyRange   `json:"busy"`
		Errors []map[string]any `json:"errors"`
	} `json:"calendars"`
}

func attendeeEmails(attendees []apiAttendee) []string {
	emails := make([]string, 0, len(attendees))
	for _, a := range attendees {
		emails = append(emails, a.Email)
	}
	return emails
}

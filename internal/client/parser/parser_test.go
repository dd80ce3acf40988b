package parser

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gvukamolle/Vanta-Speech-sub003/internal/client/models"
)

const folderSyncDoc = `<?xml version="1.0" encoding="utf-8"?>
<FolderSync>
  <Status>1</Status>
  <SyncKey>F1</SyncKey>
  <Changes>
    <Count>4</Count>
    <Add><ServerId>1</ServerId><ParentId>0</ParentId><DisplayName>Inbox</DisplayName><Type>2</Type></Add>
    <Add><ServerId>2</ServerId><ParentId>0</ParentId><DisplayName>Calendar</DisplayName><Type>8</Type></Add>
    <Update><ServerId>3</ServerId><ParentId>2</ParentId><DisplayName>Team</DisplayName><Type>13</Type></Update>
    <Add><DisplayName>No id</DisplayName></Add>
    <Delete><ServerId>9</ServerId></Delete>
  </Changes>
</FolderSync>`

func TestParse_FolderSync(t *testing.T) {
	resp, err := Parse(KindFolderSync, folderSyncDoc)
	require.NoError(t, err)
	require.NotNil(t, resp.FolderSync)
	assert.Nil(t, resp.Sync)

	want := &models.FolderChanges{
		Status: 1,
		Cursor: "F1",
		Added: []models.Folder{
			{ServerID: "1", ParentID: "0", DisplayName: "Inbox", Type: models.FolderTypeUnknown},
			{ServerID: "2", ParentID: "0", DisplayName: "Calendar", Type: models.FolderTypeDefaultCalendar},
		},
		Updated:   []models.Folder{{ServerID: "3", ParentID: "2", DisplayName: "Team", Type: models.FolderTypeUserCalendar}},
		DeletedID: []string{"9"},
	}
	if diff := cmp.Diff(want, resp.FolderSync); diff != "" {
		t.Fatalf("folder changes mismatch (-want +got):\n%s", diff)
	}
}

const syncDoc = `<?xml version="1.0" encoding="utf-8"?>
<Sync><Collections><Collection>
  <SyncKey>S2</SyncKey>
  <CollectionId>2</CollectionId>
  <Status>1</Status>
  <MoreAvailable/>
  <Commands>
    <Add>
      <ServerId>2:1</ServerId>
      <ApplicationData>
        <TimeZone>xP///w==</TimeZone>
        <Subject>Planning</Subject>
        <StartTime>20250110T090000Z</StartTime>
        <EndTime>2025-01-10T10:30:00.000Z</EndTime>
        <Location>Room 1</Location>
        <UID>uid-1</UID>
        <OrganizerEmail>boss@example.com</OrganizerEmail>
        <OrganizerName>Boss</OrganizerName>
        <Body><Type>1</Type><Data>Agenda &amp; notes</Data></Body>
        <Attendees>
          <Attendee><Email>ann@example.com</Email><Name>Ann</Name><AttendeeStatus>3</AttendeeStatus><AttendeeType>1</AttendeeType></Attendee>
          <Attendee><Email></Email><Name>Ghost</Name></Attendee>
          <Attendee><Email>room@example.com</Email><AttendeeType>3</AttendeeType></Attendee>
        </Attendees>
        <Recurrence><Type>1</Type><Interval>0</Interval><DayOfWeek>2</DayOfWeek><Until>20250301T000000Z</Until></Recurrence>
        <Exceptions><Exception><Subject>Moved</Subject><StartTime>20250117T120000Z</StartTime></Exception></Exceptions>
      </ApplicationData>
    </Add>
    <Change>
      <ServerId>2:2</ServerId>
      <ApplicationData>
        <Subject>Holiday</Subject>
        <AllDayEvent>1</AllDayEvent>
        <StartTime>20250110T000000Z</StartTime>
        <Recurrence><Type>4</Type></Recurrence>
      </ApplicationData>
    </Change>
    <Add><ServerId>2:3</ServerId><ApplicationData><Subject>No start</Subject></ApplicationData></Add>
    <Delete><ServerId>2:9</ServerId></Delete>
    <SoftDelete><ServerId>2:8</ServerId></SoftDelete>
  </Commands>
</Collection></Collections></Sync>`

func TestParse_Sync(t *testing.T) {
	resp, err := Parse(KindSync, syncDoc)
	require.NoError(t, err)
	res := resp.Sync
	require.NotNil(t, res)

	assert.Equal(t, 1, res.Status)
	assert.Equal(t, "S2", res.NewCursor)
	assert.Equal(t, "2", resp.CollectionID)
	assert.True(t, res.MoreAvailable)
	assert.Equal(t, []string{"2:9", "2:8"}, res.DeletedIDs)
	assert.Equal(t, 1, resp.DroppedEvents)
	assert.Equal(t, 1, resp.DroppedAttendees)
	require.Len(t, res.Updated, 2)

	ev := res.Updated[0]
	assert.Equal(t, "2:1", ev.ID)
	assert.Equal(t, "uid-1", ev.UID)
	assert.Equal(t, "Planning", ev.Subject)
	assert.Equal(t, "Room 1", ev.Location)
	assert.Equal(t, "Agenda & notes", ev.Body)
	assert.Equal(t, time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC), ev.Start)
	assert.Equal(t, time.Date(2025, 1, 10, 10, 30, 0, 0, time.UTC), ev.End)
	assert.False(t, ev.AllDay)

	require.NotNil(t, ev.Organizer)
	assert.Equal(t, "Boss", ev.Organizer.Name)
	assert.Equal(t, models.ResponseOrganizer, *ev.Organizer.Status)

	require.Len(t, ev.Attendees, 2)
	assert.Equal(t, "ann@example.com", ev.Attendees[0].Email)
	assert.Equal(t, models.ResponseAccepted, *ev.Attendees[0].Status)
	assert.Equal(t, "room@example.com", ev.Attendees[1].Name)
	assert.Equal(t, models.AttendeeResource, ev.Attendees[1].Type)
	assert.Nil(t, ev.Attendees[1].Status)

	require.NotNil(t, ev.Recurrence)
	assert.Equal(t, models.RecurrenceWeekly, ev.Recurrence.Type)
	assert.Equal(t, 1, ev.Recurrence.Interval)
	assert.Equal(t, 2, *ev.Recurrence.DayOfWeek)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), *ev.Recurrence.Until)

	holiday := res.Updated[1]
	assert.Equal(t, "2:2", holiday.ID)
	assert.True(t, holiday.AllDay)
	assert.Equal(t, time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC), holiday.End)
	assert.Nil(t, holiday.Recurrence, "unknown recurrence type must not build a recurrence")
}

func TestParse_AttendeeWithoutEmailIsDropped(t *testing.T) {
	doc := `<Sync><Collections><Collection><SyncKey>1</SyncKey><Commands><Add><ServerId>a</ServerId>` +
		`<ApplicationData><StartTime>20250110T090000Z</StartTime><Attendees>` +
		`<Attendee><Email></Email><Name>X</Name></Attendee></Attendees></ApplicationData></Add></Commands>` +
		`</Collection></Collections></Sync>`
	resp, err := Parse(KindSync, doc)
	require.NoError(t, err)
	require.Len(t, resp.Sync.Updated, 1)
	assert.Empty(t, resp.Sync.Updated[0].Attendees)
	assert.Equal(t, time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC), resp.Sync.Updated[0].End)
}

func TestParse_SyncTopLevelStatus(t *testing.T) {
	resp, err := Parse(KindSync, `<Sync><Status>4</Status></Sync>`)
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Sync.Status)

	resp, err = Parse(KindSync, `<Sync><Collections><Collection><SyncKey>0</SyncKey><Status>3</Status></Collection></Collections></Sync>`)
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Sync.Status)
	assert.Equal(t, "0", resp.Sync.NewCursor)
	assert.False(t, resp.Sync.MoreAvailable)
}

func TestParse_Provision(t *testing.T) {
	doc := `<Provision><Status>1</Status><Policies><Policy><PolicyType>MS-EAS-Provisioning-WBXML</PolicyType>` +
		`<Status>1</Status><PolicyKey>XYZ</PolicyKey><Data><EASProvisionDoc><DevicePasswordEnabled>0</DevicePasswordEnabled>` +
		`</EASProvisionDoc></Data></Policy></Policies></Provision>`
	resp, err := Parse(KindProvision, doc)
	require.NoError(t, err)
	assert.Equal(t, &ProvisionResult{Status: 1, PolicyStatus: 1, PolicyType: "MS-EAS-Provisioning-WBXML", PolicyKey: "XYZ"}, resp.Provision)
}

func TestParse_KindMustMatchRoot(t *testing.T) {
	_, err := Parse(KindSync, folderSyncDoc)
	require.ErrorIs(t, err, ErrUnexpectedRoot)

	_, err = Parse(ResponseKind(42), syncDoc)
	require.ErrorIs(t, err, ErrUnknownKind)
}

func TestParse_Malformed(t *testing.T) {
	for _, doc := range []string{"", `<Sync><Collections></Sync>`, `<Sync>`} {
		_, err := Parse(KindSync, doc)
		require.ErrorIs(t, err, ErrMalformed, doc)
	}
}

func TestParseTime(t *testing.T) {
	want := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	for _, s := range []string{"20250110T090000Z", "2025-01-10T09:00:00.000Z", "2025-01-10T09:00:00Z"} {
		got, ok := parseTime(s)
		require.True(t, ok, s)
		assert.True(t, want.Equal(got), s)
	}
	_, ok := parseTime("yesterday")
	assert.False(t, ok)
}

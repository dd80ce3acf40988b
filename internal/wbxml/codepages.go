package wbxml

import "strconv"

// Page identifies a codepage.
type Page uint8

// Codepages known to the dictionary. Numbers are fixed by the protocol.
const (
	PageAirSync         Page = 0
	PageCalendar        Page = 4
	PageFolderHierarchy Page = 7
	PageProvision       Page = 14
	PageAirSyncBase     Page = 17
	PageSettings        Page = 18
)

var pageNames = map[Page]string{
	PageAirSync:         "AirSync",
	PageCalendar:        "Calendar",
	PageFolderHierarchy: "FolderHierarchy",
	PageProvision:       "Provision",
	PageAirSyncBase:     "AirSyncBase",
	PageSettings:        "Settings",
}

func (p Page) String() string {
	if n, ok := pageNames[p]; ok {
		return n
	}
	return "page(" + strconv.Itoa(int(p)) + ")"
}

// DefaultPriority is the order in which codepages are searched when an element
// name is not found in the page inherited from its parent. It was tuned
// against a production server layout and is part of the wire contract:
// changing it changes which page byte goes out for names such as Status,
// SyncKey, Type or Body.
var DefaultPriority = []Page{
	PageAirSync,
	PageFolderHierarchy,
	PageCalendar,
	PageAirSyncBase,
	PageProvision,
	PageSettings,
}

// contextPages maps elements that open a new namespace to their page.
var contextPages = map[string]Page{
	"Sync":              PageAirSync,
	"FolderSync":        PageFolderHierarchy,
	"Provision":         PageProvision,
	"Settings":          PageSettings,
	"DeviceInformation": PageSettings,
	"BodyPreference":    PageAirSyncBase,
}

var airSyncTags = map[byte]string{
	0x05: "Sync",
	0x06: "Responses",
	0x07: "Add",
	0x08: "Change",
	0x09: "Delete",
	0x0A: "Fetch",
	0x0B: "SyncKey",
	0x0C: "ClientId",
	0x0D: "ServerId",
	0x0E: "Status",
	0x0F: "Collection",
	0x10: "Class",
	0x12: "CollectionId",
	0x13: "GetChanges",
	0x14: "MoreAvailable",
	0x15: "WindowSize",
	0x16: "Commands",
	0x17: "Options",
	0x18: "FilterType",
	0x1B: "Conflict",
	0x1C: "Collections",
	0x1D: "ApplicationData",
	0x1E: "DeletesAsMoves",
	0x20: "Supported",
	0x21: "SoftDelete",
	0x22: "MIMESupport",
	0x23: "MIMETruncation",
	0x24: "Wait",
	0x25: "Limit",
	0x26: "Partial",
	0x27: "ConversationMode",
	0x28: "MaxItems",
	0x29: "HeartbeatInterval",
}

var calendarTags = map[byte]string{
	0x05: "TimeZone",
	0x06: "AllDayEvent",
	0x07: "Attendees",
	0x08: "Attendee",
	0x09: "Email",
	0x0A: "Name",
	0x0B: "Body",
	0x0C: "BodyTruncated",
	0x0D: "BusyStatus",
	0x0E: "Categories",
	0x0F: "Category",
	0x11: "DtStamp",
	0x12: "EndTime",
	0x13: "Exception",
	0x14: "Exceptions",
	0x15: "Deleted",
	0x16: "ExceptionStartTime",
	0x17: "Location",
	0x18: "MeetingStatus",
	0x19: "OrganizerEmail",
	0x1A: "OrganizerName",
	0x1B: "Recurrence",
	0x1C: "Type",
	0x1D: "Until",
	0x1E: "Occurrences",
	0x1F: "Interval",
	0x20: "DayOfWeek",
	0x21: "DayOfMonth",
	0x22: "WeekOfMonth",
	0x23: "MonthOfYear",
	0x24: "Reminder",
	0x25: "Sensitivity",
	0x26: "Subject",
	0x27: "StartTime",
	0x28: "UID",
	0x29: "AttendeeStatus",
	0x2A: "AttendeeType",
	0x33: "DisallowNewTimeProposal",
	0x34: "ResponseRequested",
	0x35: "AppointmentReplyTime",
	0x36: "ResponseType",
	0x37: "CalendarType",
	0x38: "IsLeapMonth",
	0x39: "FirstDayOfWeek",
	0x3A: "OnlineMeetingConfLink",
	0x3B: "OnlineMeetingExternalLink",
}

var folderHierarchyTags = map[byte]string{
	0x07: "DisplayName",
	0x08: "ServerId",
	0x09: "ParentId",
	0x0A: "Type",
	0x0C: "Status",
	0x0E: "Changes",
	0x0F: "Add",
	0x10: "Delete",
	0x11: "Update",
	0x12: "SyncKey",
	0x13: "FolderCreate",
	0x14: "FolderDelete",
	0x15: "FolderUpdate",
	0x16: "FolderSync",
	0x17: "Count",
}

var provisionTags = map[byte]string{
	0x05: "Provision",
	0x06: "Policies",
	0x07: "Policy",
	0x08: "PolicyType",
	0x09: "PolicyKey",
	0x0A: "Data",
	0x0B: "Status",
	0x0C: "RemoteWipe",
	0x0D: "EASProvisionDoc",
	0x0E: "DevicePasswordEnabled",
	0x0F: "AlphanumericDevicePasswordRequired",
	0x10: "RequireStorageCardEncryption",
	0x11: "PasswordRecoveryEnabled",
	0x13: "AttachmentsEnabled",
	0x14: "MinDevicePasswordLength",
	0x15: "MaxInactivityTimeDeviceLock",
	0x16: "MaxDevicePasswordFailedAttempts",
	0x17: "MaxAttachmentSize",
	0x18: "AllowSimpleDevicePassword",
	0x19: "DevicePasswordExpiration",
	0x1A: "DevicePasswordHistory",
	0x1B: "AllowStorageCard",
	0x1C: "AllowCamera",
	0x1D: "RequireDeviceEncryption",
	0x1E: "AllowUnsignedApplications",
	0x1F: "AllowUnsignedInstallationPackages",
	0x20: "MinDevicePasswordComplexCharacters",
	0x21: "AllowWiFi",
	0x22: "AllowTextMessaging",
	0x23: "AllowPOPIMAPEmail",
	0x24: "AllowBluetooth",
	0x25: "AllowIrDA",
	0x26: "RequireManualSyncWhenRoaming",
	0x27: "AllowDesktopSync",
	0x28: "MaxCalendarAgeFilter",
	0x29: "AllowHTMLEmail",
	0x2A: "MaxEmailAgeFilter",
	0x2B: "MaxEmailBodyTruncationSize",
	0x2C: "MaxEmailHTMLBodyTruncationSize",
	0x2D: "RequireSignedSMIMEMessages",
	0x2E: "RequireEncryptedSMIMEMessages",
	0x2F: "RequireSignedSMIMEAlgorithm",
	0x30: "RequireEncryptionSMIMEAlgorithm",
	0x31: "AllowSMIMEEncryptionAlgorithmNegotiation",
	0x32: "AllowSMIMESoftCerts",
	0x33: "AllowBrowser",
	0x34: "AllowConsumerEmail",
	0x35: "AllowRemoteDesktop",
	0x36: "AllowInternetSharing",
	0x37: "UnapprovedInROMApplicationList",
	0x38: "ApplicationName",
	0x39: "ApprovedApplicationList",
	0x3A: "Hash",
	0x3B: "AccountOnlyRemoteWipe",
}

var airSyncBaseTags = map[byte]string{
	0x05: "BodyPreference",
	0x06: "Type",
	0x07: "TruncationSize",
	0x08: "AllOrNone",
	0x0A: "Body",
	0x0B: "Data",
	0x0C: "EstimatedDataSize",
	0x0D: "Truncated",
	0x0E: "Attachments",
	0x0F: "Attachment",
	0x10: "DisplayName",
	0x11: "FileReference",
	0x12: "Method",
	0x13: "ContentId",
	0x14: "ContentLocation",
	0x15: "IsInline",
	0x16: "NativeBodyType",
	0x17: "ContentType",
	0x18: "Preview",
	0x19: "BodyPartPreference",
	0x1A: "BodyPart",
	0x1B: "Status",
}

var settingsTags = map[byte]string{
	0x05: "Settings",
	0x06: "Status",
	0x07: "Get",
	0x08: "Set",
	0x09: "Oof",
	0x0A: "OofState",
	0x0B: "StartTime",
	0x0C: "EndTime",
	0x0D: "OofMessage",
	0x0E: "AppliesToInternal",
	0x0F: "AppliesToExternalKnown",
	0x10: "AppliesToExternalUnknown",
	0x11: "Enabled",
	0x12: "ReplyMessage",
	0x13: "BodyType",
	0x14: "DevicePassword",
	0x15: "Password",
	0x16: "DeviceInformation",
	0x17: "Model",
	0x18: "IMEI",
	0x19: "FriendlyName",
	0x1A: "OS",
	0x1B: "OSLanguage",
	0x1C: "PhoneNumber",
	0x1D: "UserInformation",
	0x1E: "EmailAddresses",
	0x1F: "SmtpAddress",
	0x20: "UserAgent",
	0x21: "EnableOutboundSMS",
	0x22: "MobileOperator",
	0x23: "PrimarySmtpAddress",
	0x24: "Accounts",
	0x25: "Account",
	0x26: "AccountId",
	0x27: "AccountName",
	0x28: "UserDisplayName",
	0x29: "SendDisabled",
	0x2B: "RightsManagementInformation",
}

var defaultTables = map[Page]map[byte]string{
	PageAirSync:         airSyncTags,
	PageCalendar:        calendarTags,
	PageFolderHierarchy: folderHierarchyTags,
	PageProvision:       provisionTags,
	PageAirSyncBase:     airSyncBaseTags,
	PageSettings:        settingsTags,
}

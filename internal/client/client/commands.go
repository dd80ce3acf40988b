package client

import (
	"encoding/xml"
	"strconv"
	"strings"
)

const policyTypeWBXML = "MS-EAS-Provisioning-WBXML"

type deviceSet struct {
	Model        string `xml:"Model,omitempty"`
	FriendlyName string `xml:"FriendlyName,omitempty"`
	OS           string `xml:"OS,omitempty"`
	OSLanguage   string `xml:"OSLanguage,omitempty"`
	UserAgent    string `xml:"UserAgent,omitempty"`
}

type deviceInformation struct {
	Xmlns string    `xml:"xmlns,attr"`
	Set   deviceSet `xml:"Set"`
}

type policyRequest struct {
	PolicyType string `xml:"PolicyType"`
	PolicyKey  string `xml:"PolicyKey,omitempty"`
	Status     string `xml:"Status,omitempty"`
}

type provisionRequest struct {
	XMLName           xml.Name           `xml:"Provision"`
	Xmlns             string             `xml:"xmlns,attr"`
	DeviceInformation *deviceInformation `xml:"DeviceInformation,omitempty"`
	Policies          struct {
		Policy policyRequest `xml:"Policy"`
	} `xml:"Policies"`
}

type folderSyncRequest struct {
	XMLName xml.Name `xml:"FolderSync"`
	Xmlns   string   `xml:"xmlns,attr"`
	SyncKey string   `xml:"SyncKey"`
}

type bodyPreference struct {
	Xmlns          string `xml:"xmlns,attr"`
	Type           int    `xml:"Type"`
	TruncationSize int    `xml:"TruncationSize,omitempty"`
}

type syncOptions struct {
	FilterType     int            `xml:"FilterType"`
	BodyPreference bodyPreference `xml:"BodyPreference"`
}

type syncCollection struct {
	SyncKey      string       `xml:"SyncKey"`
	CollectionID string       `xml:"CollectionId"`
	GetChanges   *struct{}    `xml:"GetChanges,omitempty"`
	WindowSize   int          `xml:"WindowSize,omitempty"`
	Options      *syncOptions `xml:"Options,omitempty"`
}

type syncRequest struct {
	XMLName     xml.Name         `xml:"Sync"`
	Xmlns       string           `xml:"xmlns,attr"`
	Collections []syncCollection `xml:"Collections>Collection"`
}

func (c *EASClient) provisionBody(ack bool, policyKey string) provisionRequest {
	req := provisionRequest{Xmlns: "Provision:"}
	req.Policies.Policy.PolicyType = policyTypeWBXML
	if ack {
		req.Policies.Policy.PolicyKey = policyKey
		req.Policies.Policy.Status = "1"
		return req
	}
	if versionAtLeast(c.ProtocolVersion(), "14.1") {
		d := c.opts.Device
		req.DeviceInformation = &deviceInformation{
			Xmlns: "Settings:",
			Set: deviceSet{
				Model:        d.Model,
				FriendlyName: d.FriendlyName,
				OS:           d.OS,
				OSLanguage:   d.OSLanguage,
				UserAgent:    c.opts.UserAgent,
			},
		}
	}
	return req
}

// syncBody builds the Sync request. The bootstrap form carries only the
// collection id and cursor; servers reject options on a "0" sync key.
func (c *EASClient) syncBody(collectionID, cursor string) syncRequest {
	col := syncCollection{SyncKey: cursor, CollectionID: collectionID}
	if cursor != bootstrapCursor {
		col.GetChanges = &struct{}{}
		col.WindowSize = c.opts.WindowSize
		col.Options = &syncOptions{
			FilterType: c.opts.FilterType,
			BodyPreference: bodyPreference{
				Xmlns:          "AirSyncBase:",
				Type:           c.opts.BodyType,
				TruncationSize: c.opts.TruncationSize,
			},
		}
	}
	return syncRequest{Xmlns: "AirSync:", Collections: []syncCollection{col}}
}

// versionAtLeast compares dotted protocol versions numerically.
func versionAtLeast(v, min string) bool {
	return compareVersions(v, min) >= 0
}

func compareVersions(a, b string) int {
	am, an := splitVersion(a)
	bm, bn := splitVersion(b)
	switch {
	case am != bm:
		return am - bm
	default:
		return an - bn
	}
}

func splitVersion(v string) (int, int) {
	major, minor, _ := strings.Cut(strings.TrimSpace(v), ".")
	m, err := strconv.Atoi(major)
	if err != nil {
		return -1, -1
	}
	n, _ := strconv.Atoi(minor)
	return m, n
}

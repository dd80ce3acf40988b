package client

import (
	"context"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/gvukamolle/Vanta-Speech-sub003/internal/client/models"
	"github.com/gvukamolle/Vanta-Speech-sub003/internal/client/parser"
	"github.com/gvukamolle/Vanta-Speech-sub003/internal/logging"
	"github.com/gvukamolle/Vanta-Speech-sub003/internal/wbxml"
)

const (
	endpointPath     = "/Microsoft-Server-ActiveSync"
	contentTypeWBXML = "application/vnd.ms-sync.wbxml"
	contentTypeXML   = "text/xml"
	headerVersion    = "MS-ASProtocolVersion"
	headerPolicyKey  = "X-MS-PolicyKey"
	headerVersions   = "MS-ASProtocolVersions"
	headerCommands   = "MS-ASProtocolCommands"
	unprovisionedKey = "0"
	bootstrapCursor  = models.BootstrapCursor
	statusSuccess    = 1
	minUsableVersion = "12.0"
)

// EASClient speaks the ActiveSync command protocol over a Transport.
type EASClient struct {
	transport Transport
	log       logging.Logger
	opts      Options
	endpoint  string
	creds     Credentials

	mu        sync.Mutex
	version   string
	policyKey string
}

var _ Client = (*EASClient)(nil)

// NewEASClient validates serverURL and returns an unprovisioned client. A URL
// without a path gets the standard endpoint path appended.
func NewEASClient(serverURL string, creds Credentials, transport Transport, opts Options, log logging.Logger) (*EASClient, error) {
	u, err := url.Parse(strings.TrimSpace(serverURL))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("server url %q must be an absolute http(s) url", serverURL)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = endpointPath
	}
	u.RawQuery = ""
	if creds.Username == "" {
		return nil, errors.New("username is required")
	}
	if log == nil {
		log = logging.Nop()
	}
	opts = opts.withDefaults()

	return &EASClient{
		transport: transport,
		log:       log.With("component", "eas"),
		opts:      opts,
		endpoint:  u.String(),
		creds:     creds,
		version:   opts.ProtocolVersion,
		policyKey: unprovisionedKey,
	}, nil
}

// ProtocolVersion returns the version sent with each command.
func (c *EASClient) ProtocolVersion() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

// PolicyKey returns the current policy key, "0" until provisioned.
func (c *EASClient) PolicyKey() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.policyKey
}

func (c *EASClient) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.version = c.opts.ProtocolVersion
	c.policyKey = unprovisionedKey
}

func (c *EASClient) Discover(ctx context.Context) (Capabilities, error) {
	resp, err := c.send(ctx, "Discover", c.optionsRequest())
	if err != nil {
		return Capabilities{}, err
	}
	caps := Capabilities{
		Versions: splitHeaderList(resp.Header.Get(headerVersions)),
		Commands: splitHeaderList(resp.Header.Get(headerCommands)),
	}
	if len(caps.Versions) == 0 {
		caps.Negotiated = c.opts.ProtocolVersion
	} else {
		v, ok := negotiate(caps.Versions, c.opts.ProtocolVersion)
		if !ok {
			return caps, fmt.Errorf("%w: server offers %s", ErrNoCommonVersion, strings.Join(caps.Versions, ","))
		}
		caps.Negotiated = v
	}

	c.mu.Lock()
	c.version = caps.Negotiated
	c.mu.Unlock()
	c.log.Debug(ctx, "discovered server", "versions", caps.Versions, "negotiated", caps.Negotiated)
	return caps, nil
}

func (c *EASClient) Ping(ctx context.Context) error {
	_, err := c.send(ctx, "Ping", c.optionsRequest())
	return err
}

func (c *EASClient) Provision(ctx context.Context) (string, error) {
	c.mu.Lock()
	c.policyKey = unprovisionedKey
	c.mu.Unlock()

	first, err := c.provisionStep(ctx, c.provisionBody(false, ""))
	if err != nil {
		return "", err
	}
	if !provisionAccepted(first) || first.PolicyKey == "" {
		return "", fmt.Errorf("%w: status %d, policy status %d", ErrProvisioningDenied, first.Status, first.PolicyStatus)
	}

	ack, err := c.provisionStep(ctx, c.provisionBody(true, first.PolicyKey))
	if err != nil {
		return "", err
	}
	if !provisionAccepted(ack) {
		return "", fmt.Errorf("%w: acknowledgement status %d, policy status %d", ErrProvisioningDenied, ack.Status, ack.PolicyStatus)
	}

	key := ack.PolicyKey
	if key == "" {
		key = first.PolicyKey
	}
	c.mu.Lock()
	c.policyKey = key
	c.mu.Unlock()
	c.log.Debug(ctx, "provisioned")
	return key, nil
}

func provisionAccepted(r *parser.ProvisionResult) bool {
	return r.Status == statusSuccess && (r.PolicyStatus == 0 || r.PolicyStatus == statusSuccess)
}

func (c *EASClient) provisionStep(ctx context.Context, body provisionRequest) (*parser.ProvisionResult, error) {
	doc, err := c.command(ctx, "Provision", body)
	if err != nil {
		return nil, err
	}
	resp, err := parser.Parse(parser.KindProvision, doc)
	if err != nil {
		return nil, fmt.Errorf("parse provision response: %w", err)
	}
	return resp.Provision, nil
}

func (c *EASClient) FolderSync(ctx context.Context, cursor string) (*models.FolderChanges, error) {
	if cursor == "" {
		cursor = bootstrapCursor
	}
	doc, err := c.command(ctx, "FolderSync", folderSyncRequest{Xmlns: "FolderHierarchy:", SyncKey: cursor})
	if err != nil {
		return nil, err
	}
	resp, err := parser.Parse(parser.KindFolderSync, doc)
	if err != nil {
		return nil, fmt.Errorf("parse folder sync response: %w", err)
	}
	fs := resp.FolderSync
	if fs.Status != 0 && fs.Status != statusSuccess {
		return nil, &CommandError{Command: "FolderSync", Status: fs.Status}
	}
	return fs, nil
}

func (c *EASClient) Sync(ctx context.Context, collectionID, cursor string) (models.SyncResult, error) {
	if cursor == "" {
		cursor = bootstrapCursor
	}
	doc, err := c.command(ctx, "Sync", c.syncBody(collectionID, cursor))
	if err != nil {
		return models.SyncResult{}, err
	}
	if strings.TrimSpace(doc) == "" {
		// An empty 200 answer means nothing changed since cursor.
		return models.SyncResult{Status: statusSuccess, NewCursor: cursor}, nil
	}

	resp, err := parser.Parse(parser.KindSync, doc)
	if err != nil {
		return models.SyncResult{}, fmt.Errorf("parse sync response: %w", err)
	}
	res := *resp.Sync
	if res.Status != 0 && res.Status != statusSuccess {
		return models.SyncResult{}, &CommandError{Command: "Sync", Status: res.Status}
	}
	if res.NewCursor == "" {
		res.NewCursor = cursor
	}
	if resp.DroppedEvents > 0 || resp.DroppedAttendees > 0 {
		c.log.Debug(ctx, "dropped invalid records",
			"collection", collectionID,
			"events", resp.DroppedEvents,
			"attendees", resp.DroppedAttendees)
	}
	return res, nil
}

// command marshals body, encodes it for the wire and returns the response
// as XML text.
func (c *EASClient) command(ctx context.Context, cmd string, body any) (string, error) {
	raw, err := xml.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("%s: marshal request: %w", cmd, err)
	}

	contentType := contentTypeWBXML
	var payload []byte
	if c.opts.PlainXML {
		contentType = contentTypeXML
		payload = append([]byte(xml.Header), raw...)
	} else {
		payload, err = wbxml.Encode(string(raw))
		if err != nil {
			return "", fmt.Errorf("%s: encode request: %w", cmd, err)
		}
	}

	req := Request{
		Method: http.MethodPost,
		URL:    c.commandURL(cmd),
		Header: c.headers(contentType),
		Body:   payload,
	}
	resp, err := c.send(ctx, cmd, req)
	if err != nil {
		return "", err
	}
	doc, err := decodeBody(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%s: %w", cmd, err)
	}
	return doc, nil
}

// send performs one exchange under the per-call timeout.
func (c *EASClient) send(ctx context.Context, cmd string, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.CallTimeout)
	defer cancel()

	resp, err := c.transport.Send(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cmd, err)
	}
	c.log.Debug(ctx, "exchange", "cmd", cmd, "status", resp.StatusCode, "bytes", len(resp.Body))
	if err := classify(resp); err != nil {
		return nil, fmt.Errorf("%s: %w", cmd, err)
	}
	return resp, nil
}

func (c *EASClient) optionsRequest() Request {
	h := make(http.Header)
	h.Set("Authorization", c.basicAuth())
	h.Set("User-Agent", c.opts.UserAgent)
	return Request{Method: http.MethodOptions, URL: c.endpoint, Header: h}
}

func (c *EASClient) headers(contentType string) http.Header {
	c.mu.Lock()
	version, key := c.version, c.policyKey
	c.mu.Unlock()

	h := make(http.Header)
	h.Set(headerVersion, version)
	h.Set(headerPolicyKey, key)
	h.Set("Content-Type", contentType)
	h.Set("Accept", contentType)
	h.Set("Authorization", c.basicAuth())
	h.Set("User-Agent", c.opts.UserAgent)
	return h
}

func (c *EASClient) basicAuth() string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(c.creds.Username+":"+c.creds.Password))
}

func (c *EASClient) commandURL(cmd string) string {
	q := url.Values{}
	q.Set("Cmd", cmd)
	q.Set("User", c.creds.Username)
	q.Set("DeviceId", c.opts.DeviceID)
	q.Set("DeviceType", c.opts.DeviceType)
	return c.endpoint + "?" + q.Encode()
}

func splitHeaderList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// negotiate picks the highest offered version not above max.
func negotiate(offered []string, max string) (string, bool) {
	best := ""
	for _, v := range offered {
		if compareVersions(v, max) > 0 || compareVersions(v, minUsableVersion) < 0 {
			continue
		}
		if best == "" || compareVersions(v, best) > 0 {
			best = v
		}
	}
	return best, best != ""
}

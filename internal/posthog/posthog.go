// Package posthog is a small PostHog client for crash and error tracking.
//
// Behavior:
//   - crash reports → $exception events, sent synchronously so they leave the
//     process before it dies
//   - WARNING/ERROR log lines → $exception events, fire and forget
//   - other events → event tracking API
//
// Every event carries the installation id as distinct_id plus the app
// version and device.
package posthog

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/lzhiyong/xedit-app/internal/logger"
)

const eventsPath = "/i/v0/e/"

type Options struct {
	Token       string
	Endpoint    string
	DistinctID  string
	Version     string
	Device      string
	InsecureTLS bool
	Timeout     time.Duration
}

type Client struct {
	opts   Options
	http   *http.Client
	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
}

// New returns a client, or nil when no token is configured. All methods are
// no-ops on a nil client.
func New(opts Options) *Client {
	if opts.Token == "" {
		return nil
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.Device == "" {
		opts.Device = "linux"
	}
	opts.Endpoint = strings.TrimSuffix(opts.Endpoint, "/")

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return &Client{
		opts: opts,
		http: &http.Client{Timeout: opts.Timeout, Transport: transport},
	}
}

// CaptureCrash sends a crash report synchronously and returns the report id
// it was sent under.
func (c *Client) CaptureCrash(signalName, text string) (string, error) {
	reportID := uuid.New().String()
	if c == nil {
		return reportID, nil
	}

	description := firstLine(text, "signal:")
	exceptionList := []map[string]interface{}{
		{
			"type":  signalName,
			"value": description,
			"mechanism": map[string]interface{}{
				"handled":   false,
				"synthetic": false,
				"type":      "signalhandler",
			},
			"stacktrace": map[string]interface{}{
				"type":   "raw",
				"frames": backtraceFrames(text),
			},
		},
	}

	properties := map[string]interface{}{
		"$exception_list":    exceptionList,
		"$exception_message": description,
		"$exception_level":   "fatal",
		"report_id":          reportID,
		"report":             text,
	}
	return reportID, c.send("$exception", properties)
}

// Capture forwards a log line to error tracking in the background.
func (c *Client) Capture(level logger.Level, message string) {
	if c == nil {
		return
	}
	// Close must not start waiting between the check and the Add.
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				fmt.Printf("[POSTHOG] Panic: %v\n", r)
			}
		}()

		exceptionList := []map[string]interface{}{
			{
				"type":  string(level),
				"value": message,
				"mechanism": map[string]interface{}{
					"handled":   true,
					"synthetic": false,
				},
				"stacktrace": map[string]interface{}{
					"type": "raw",
					"frames": []map[string]interface{}{
						{
							"platform": "custom",
							"lang":     "go",
							"function": "logger.Msg",
							"module":   "xedit",
						},
					},
				},
			},
		}
		properties := map[string]interface{}{
			"$exception_list":    exceptionList,
			"$exception_message": message,
			"$exception_level":   string(level),
		}
		// Logging the failure would feed back into this hook.
		if err := c.send("$exception", properties); err != nil {
			fmt.Printf("[POSTHOG] Error tracking failed: %v\n", err)
		}
	}()
}

// Track sends a product event synchronously.
func (c *Client) Track(event string, properties map[string]interface{}) error {
	if c == nil {
		return nil
	}
	if properties == nil {
		properties = make(map[string]interface{})
	}
	return c.send(event, properties)
}

// Close waits for background sends and stops accepting new ones.
func (c *Client) Close() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.wg.Wait()
}

func (c *Client) send(event string, properties map[string]interface{}) error {
	properties["distinct_id"] = c.opts.DistinctID
	properties["version"] = c.opts.Version
	properties["device"] = c.opts.Device

	payload := map[string]interface{}{
		"api_key":    c.opts.Token,
		"event":      event,
		"properties": properties,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "marshal event")
	}

	req, err := http.NewRequest("POST", c.opts.Endpoint+eventsPath, bytes.NewBuffer(body))
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "send %s", event)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Errorf("PostHog returned status %d for %s", resp.StatusCode, event)
	}
	return nil
}

// backtraceFrames turns the "#NN pc ..." lines of a report into raw frames.
func backtraceFrames(text string) []map[string]interface{} {
	frames := []map[string]interface{}{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "#") || !strings.Contains(line, " pc ") {
			continue
		}
		frame := map[string]interface{}{
			"platform": "custom",
			"lang":     "native",
			"raw_id":   line,
		}
		// "#00 pc 0x... module (symbol+offset)"
		if fields := strings.SplitN(line, " ", 4); len(fields) == 4 {
			module, symbol, _ := strings.Cut(fields[3], " (")
			if rest, ok := strings.CutPrefix(symbol, "deleted)"); ok {
				module += " (deleted)"
				symbol = strings.TrimPrefix(rest, " (")
			}
			frame["module"] = module
			if symbol != "" {
				frame["function"] = strings.TrimSuffix(symbol, ")")
			}
		}
		frames = append(frames, frame)
	}
	return frames
}

func firstLine(text, prefix string) string {
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, prefix) {
			return line
		}
	}
	return ""
}

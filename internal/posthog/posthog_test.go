package posthog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lzhiyong/xedit-app/internal/logger"
)

const sampleReport = `*** *** *** *** *** *** *** *** *** *** *** *** *** *** *** ***
pid: 10, tid: 10, name: crashdemo  >>> ./crashdemo <<<
signal: 11 (SIGSEGV), code: 1 (SEGV_MAPERR), fault addr: 0x0000000000000000 (Address not mapped to object)

backtrace (unwind tables):
    #00 pc 0x0000000000001139 /usr/bin/crashdemo (xcrash_trigger_inner+9)
    #01 pc 0x0000000000000010 <unknown>
`

type recorder struct {
	mu     sync.Mutex
	events []map[string]interface{}
	status int
}

func (r *recorder) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != eventsPath || req.Method != "POST" {
			t.Errorf("unexpected request %s %s", req.Method, req.URL.Path)
		}
		var event map[string]interface{}
		if err := json.NewDecoder(req.Body).Decode(&event); err != nil {
			t.Errorf("decode: %v", err)
		}
		r.mu.Lock()
		r.events = append(r.events, event)
		status := r.status
		r.mu.Unlock()
		if status != 0 {
			w.WriteHeader(status)
		}
	}
}

func newTestClient(t *testing.T, rec *recorder) *Client {
	srv := httptest.NewServer(rec.handler(t))
	t.Cleanup(srv.Close)
	return New(Options{
		Token:      "phc_test",
		Endpoint:   srv.URL + "/",
		DistinctID: "install-1",
		Version:    "1.2.3",
		Timeout:    2 * time.Second,
	})
}

func TestNewWithoutTokenIsNoop(t *testing.T) {
	c := New(Options{})
	if c != nil {
		t.Fatal("New without token returned a client")
	}
	id, err := c.CaptureCrash("SIGSEGV", sampleReport)
	if err != nil || id == "" {
		t.Errorf("nil CaptureCrash = %q, %v", id, err)
	}
	c.Capture(logger.LevelError, "ignored")
	if err := c.Track("x", nil); err != nil {
		t.Errorf("nil Track = %v", err)
	}
	c.Close()
}

func TestCaptureCrash(t *testing.T) {
	rec := &recorder{}
	c := newTestClient(t, rec)

	id, err := c.CaptureCrash("SIGSEGV", sampleReport)
	if err != nil {
		t.Fatalf("CaptureCrash: %v", err)
	}
	if len(rec.events) != 1 {
		t.Fatalf("got %d events", len(rec.events))
	}
	ev := rec.events[0]
	if ev["event"] != "$exception" || ev["api_key"] != "phc_test" {
		t.Errorf("event = %v", ev)
	}
	props := ev["properties"].(map[string]interface{})
	if props["distinct_id"] != "install-1" || props["version"] != "1.2.3" || props["report_id"] != id {
		t.Errorf("properties = %v", props)
	}
	if msg := props["$exception_message"].(string); !strings.HasPrefix(msg, "signal: 11 (SIGSEGV)") {
		t.Errorf("$exception_message = %q", msg)
	}

	exc := props["$exception_list"].([]interface{})[0].(map[string]interface{})
	frames := exc["stacktrace"].(map[string]interface{})["frames"].([]interface{})
	if len(frames) != 2 {
		t.Fatalf("got %d frames", len(frames))
	}
	f0 := frames[0].(map[string]interface{})
	if f0["module"] != "/usr/bin/crashdemo" || f0["function"] != "xcrash_trigger_inner+9" {
		t.Errorf("frame 0 = %v", f0)
	}
	f1 := frames[1].(map[string]interface{})
	if f1["module"] != "<unknown>" || f1["function"] != nil {
		t.Errorf("frame 1 = %v", f1)
	}
}

func TestBacktraceFrames(t *testing.T) {
	tests := []struct {
		line, module, function string
	}{
		{"#00 pc 0x0000000000001139 /usr/bin/crashdemo (main+9)", "/usr/bin/crashdemo", "main+9"},
		{"#01 pc 0x0000000000002000 /lib/libfoo.so (foo::bar(int, char)+4)", "/lib/libfoo.so", "foo::bar(int, char)+4"},
		{"#02 pc 0x0000000000003000 /lib/libold.so (deleted) (old+1)", "/lib/libold.so (deleted)", "old+1"},
		{"#03 pc 0x0000000000004000 /lib/libold.so (deleted)", "/lib/libold.so (deleted)", ""},
		{"#04 pc 0x00007f0000000000 <anonymous:0x7f0000000000>", "<anonymous:0x7f0000000000>", ""},
	}
	for _, tt := range tests {
		frames := backtraceFrames("    " + tt.line + "\n")
		if len(frames) != 1 {
			t.Fatalf("%q: got %d frames", tt.line, len(frames))
		}
		f := frames[0]
		if f["module"] != tt.module {
			t.Errorf("%q: module = %v", tt.line, f["module"])
		}
		fn, _ := f["function"].(string)
		if fn != tt.function {
			t.Errorf("%q: function = %q", tt.line, fn)
		}
	}
}

func TestCaptureInBackground(t *testing.T) {
	rec := &recorder{}
	c := newTestClient(t, rec)

	c.Capture(logger.LevelWarning, "WARNING: eventfd value 17")
	c.Close()

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.events) != 1 {
		t.Fatalf("got %d events", len(rec.events))
	}
	props := rec.events[0]["properties"].(map[string]interface{})
	if props["$exception_level"] != "warning" {
		t.Errorf("level = %v", props["$exception_level"])
	}

	c.Capture(logger.LevelError, "after close")
	if len(rec.events) != 1 {
		t.Error("Capture after Close sent an event")
	}
}

func TestCaptureRacingClose(t *testing.T) {
	rec := &recorder{}
	c := newTestClient(t, rec)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				c.Capture(logger.LevelError, "racing")
			}
		}()
	}
	c.Close()

	rec.mu.Lock()
	sent := len(rec.events)
	rec.mu.Unlock()

	wg.Wait()
	time.Sleep(50 * time.Millisecond)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.events) != sent {
		t.Errorf("%d events sent after Close returned", len(rec.events)-sent)
	}
}

func TestServerErrorIsReported(t *testing.T) {
	rec := &recorder{status: http.StatusBadRequest}
	c := newTestClient(t, rec)

	if err := c.Track("crash_screen_rendered", map[string]interface{}{"path": "/tmp/x.png"}); err == nil {
		t.Error("Track succeeded on a 400 response")
	}
}

package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// mockVMStats implements VMStats for testing.
type mockVMStats struct {
	imageName string
	running   bool
	uptime    time.Duration
	stat      StatSnapshot
	channels  map[string]string
	slots     []string
}

func (m *mockVMStats) ImageName() string             { return m.imageName }
func (m *mockVMStats) Running() bool                 { return m.running }
func (m *mockVMStats) Uptime() time.Duration         { return m.uptime }
func (m *mockVMStats) Stats() StatSnapshot           { return m.stat }
func (m *mockVMStats) Channels() map[string]string   { return m.channels }
func (m *mockVMStats) SaveSlots() []string            { return m.slots }

func newMockVMStats() *mockVMStats {
	return &mockVMStats{
		imageName: "zork.ulx",
		running:   true,
		uptime:    42 * time.Second,
		stat: StatSnapshot{
			PC: 0x1000, SP: 0x200, FP: 0x180,
			StackDepth: 4, StackCapacity: 256,
			CallDepth:  2,
			HeapStart:  0x4000, HeapExtent: 0x800,
			EndMem:     0x8000,
			UndoCount:  1,
			Instructions: 1234,
		},
		channels: map[string]string{"main": "Hello, world.\n"},
		slots:    []string{"quicksave"},
	}
}

func newTestDashboard(t *testing.T) *Dashboard {
	t.Helper()
	d, err := New(DefaultConfig(), newMockVMStats())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d
}

func TestDashboardNew(t *testing.T) {
	d := newTestDashboard(t)
	if d.templates == nil {
		t.Fatal("expected templates to be parsed")
	}
	if d.Address() != "127.0.0.1:8080" {
		t.Errorf("unexpected address: %s", d.Address())
	}
}

func TestAPIStatusEndpoint(t *testing.T) {
	d := newTestDashboard(t)

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	w := httptest.NewRecorder()
	d.handleAPIStatus(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp StatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.ImageName != "zork.ulx" {
		t.Errorf("unexpected image name: %s", resp.ImageName)
	}
	if resp.PC != 0x1000 {
		t.Errorf("unexpected pc: %#x", resp.PC)
	}
	if !resp.Running {
		t.Error("expected running=true")
	}
}

func TestAPIChannelsEndpoint(t *testing.T) {
	d := newTestDashboard(t)

	req := httptest.NewRequest(http.MethodGet, "/api/channels", nil)
	w := httptest.NewRecorder()
	d.handleAPIChannels(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp ChannelsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Channels["main"] != "Hello, world.\n" {
		t.Errorf("unexpected channel text: %q", resp.Channels["main"])
	}
}

func TestStaticAssets(t *testing.T) {
	if _, ct, ok := getStaticAsset("style.css"); !ok || ct != "text/css" {
		t.Error("expected style.css to be served as text/css")
	}
	if _, ct, ok := getStaticAsset("app.js"); !ok || ct != "application/javascript" {
		t.Error("expected app.js to be served as application/javascript")
	}
	if _, _, ok := getStaticAsset("missing.txt"); ok {
		t.Error("expected missing asset to report not found")
	}
}

func TestTemplateHelpers(t *testing.T) {
	if got := formatDuration(90 * time.Second); got != "1m 30s" {
		t.Errorf("formatDuration: got %q", got)
	}
	if got := formatNumber(uint64(2500)); got != "2.5K" {
		t.Errorf("formatNumber: got %q", got)
	}
	if got := hexAddr(0x1000); got != "0x1000" {
		t.Errorf("hexAddr: got %q", got)
	}
}

func TestHomePageHandler(t *testing.T) {
	d := newTestDashboard(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	d.handleHome(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.Len() == 0 {
		t.Fatal("expected non-empty body")
	}
}

func TestSettingsPageHandler(t *testing.T) {
	d := newTestDashboard(t)

	req := httptest.NewRequest(http.MethodGet, "/settings", nil)
	w := httptest.NewRecorder()
	d.handleSettings(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	d := newTestDashboard(t)

	req := httptest.NewRequest(http.MethodPost, "/api/status", nil)
	w := httptest.NewRecorder()
	d.handleAPIStatus(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}

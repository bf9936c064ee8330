// Package dashboard provides an embedded web dashboard for monitoring a
// running Glulx interpreter.
//
// The dashboard provides:
// - Real-time register, stack, and heap status
// - Live output-channel contents
// - Save-slot and image settings summary
//
// All static assets are embedded as Go strings, making the binary
// self-contained.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Config holds dashboard configuration options.
type Config struct {
	// BindAddress is the address to bind the HTTP server to.
	// Default: "127.0.0.1"
	BindAddress string

	// Port is the port to listen on.
	// Default: 8080
	Port int

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum duration before timing out writes of the response.
	WriteTimeout time.Duration

	// IdleTimeout is the maximum time to wait for the next request.
	IdleTimeout time.Duration
}

// DefaultConfig returns the default dashboard configuration.
func DefaultConfig() Config {
	return Config{
		BindAddress:  "127.0.0.1",
		Port:         8080,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// VMStats provides interpreter statistics to the dashboard. It abstracts
// the engine's internal state for dashboard consumption, the way a status
// page should never hold a lock longer than it takes to copy a snapshot.
type VMStats interface {
	// ImageName is the loaded game file's display name.
	ImageName() string

	// Running reports whether the program has not yet quit or returned
	// from its outermost frame.
	Running() bool

	// Uptime returns how long the interpreter has been running.
	Uptime() time.Duration

	// Stats returns a point-in-time snapshot of registers, stack, and
	// heap usage.
	Stats() StatSnapshot

	// Channels returns the text currently buffered in each output
	// channel, keyed by channel name.
	Channels() map[string]string

	// SaveSlots lists the names of save slots available for the
	// currently loaded image, if a save store is configured.
	SaveSlots() []string
}

// StatSnapshot mirrors glulx.Stats without requiring this package to
// import the engine package.
type StatSnapshot struct {
	PC, SP, FP                uint32
	StackDepth, StackCapacity uint32
	CallDepth                 int
	HeapStart, HeapExtent     uint32
	EndMem                    uint32
	UndoCount                 int
	Instructions              uint64
}

// Dashboard is the web dashboard server.
type Dashboard struct {
	config Config
	stats  VMStats
	server *http.Server

	templates *template.Template

	mu        sync.RWMutex
	running   bool
	startTime time.Time
}

// New creates a new dashboard server backed by stats.
func New(config Config, stats VMStats) (*Dashboard, error) {
	if config.BindAddress == "" {
		config.BindAddress = DefaultConfig().BindAddress
	}
	if config.Port == 0 {
		config.Port = DefaultConfig().Port
	}
	if config.ReadTimeout == 0 {
		config.ReadTimeout = DefaultConfig().ReadTimeout
	}
	if config.WriteTimeout == 0 {
		config.WriteTimeout = DefaultConfig().WriteTimeout
	}
	if config.IdleTimeout == 0 {
		config.IdleTimeout = DefaultConfig().IdleTimeout
	}

	d := &Dashboard{config: config, stats: stats}

	tmpl, err := d.parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	d.templates = tmpl

	return d, nil
}

// parseTemplates parses all embedded templates.
func (d *Dashboard) parseTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"formatDuration": formatDuration,
		"formatNumber":   formatNumber,
		"hexAddr":        hexAddr,
	}

	tmpl := template.New("").Funcs(funcMap)

	if _, err := tmpl.New("layout").Parse(layoutTemplate); err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	pages := map[string]string{
		"home":     homeTemplate,
		"settings": settingsTemplate,
	}
	for name, content := range pages {
		if _, err := tmpl.New(name).Parse(content); err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
	}

	return tmpl, nil
}

// Start starts the dashboard HTTP server and blocks until ctx is canceled
// or the server fails.
func (d *Dashboard) Start(ctx context.Context) error {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return fmt.Errorf("dashboard already running")
	}
	d.running = true
	d.startTime = time.Now()
	d.mu.Unlock()

	mux := http.NewServeMux()
	mux.HandleFunc("/static/", d.handleStatic)
	mux.HandleFunc("/", d.handleHome)
	mux.HandleFunc("/settings", d.handleSettings)
	mux.HandleFunc("/api/status", d.handleAPIStatus)
	mux.HandleFunc("/api/channels", d.handleAPIChannels)

	addr := fmt.Sprintf("%s:%d", d.config.BindAddress, d.config.Port)
	d.server = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  d.config.ReadTimeout,
		WriteTimeout: d.config.WriteTimeout,
		IdleTimeout:  d.config.IdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		d.Stop()
	}()

	return d.server.ListenAndServe()
}

// Stop gracefully stops the dashboard server.
func (d *Dashboard) Stop() error {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return nil
	}
	d.running = false
	d.mu.Unlock()

	if d.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return d.server.Shutdown(ctx)
	}
	return nil
}

// Address returns the address the dashboard is listening on.
func (d *Dashboard) Address() string {
	return fmt.Sprintf("%s:%d", d.config.BindAddress, d.config.Port)
}

// handleHome renders the live status overview page.
func (d *Dashboard) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	d.renderPage(w, "home", d.getStatusData())
}

// handleSettings renders the image/save-store summary page.
func (d *Dashboard) handleSettings(w http.ResponseWriter, r *http.Request) {
	d.renderPage(w, "settings", map[string]interface{}{
		"ImageName":        d.stats.ImageName(),
		"SaveSlots":        d.stats.SaveSlots(),
		"DashboardAddress": d.Address(),
	})
}

// handleStatic serves embedded static assets.
func (d *Dashboard) handleStatic(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/static/")

	content, contentType, ok := getStaticAsset(name)
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write([]byte(content))
}

// getStatusData returns the current interpreter status as template data.
func (d *Dashboard) getStatusData() map[string]interface{} {
	st := d.stats.Stats()
	return map[string]interface{}{
		"ImageName":    d.stats.ImageName(),
		"Running":      d.stats.Running(),
		"Uptime":       d.stats.Uptime(),
		"Stat":         st,
		"Channels":     d.stats.Channels(),
	}
}

// renderPage renders a page template with the given data inside the layout.
func (d *Dashboard) renderPage(w http.ResponseWriter, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	var contentBuf strings.Builder
	if err := d.templates.ExecuteTemplate(&contentBuf, name, data); err != nil {
		http.Error(w, fmt.Sprintf("Template error: %v", err), http.StatusInternalServerError)
		return
	}

	pageData := map[string]interface{}{
		"PageName": name,
		"Content":  template.HTML(contentBuf.String()),
	}

	if err := d.templates.ExecuteTemplate(w, "layout", pageData); err != nil {
		http.Error(w, fmt.Sprintf("Template error: %v", err), http.StatusInternalServerError)
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// Template helper functions

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
	}
	days := int(d.Hours() / 24)
	hours := int(d.Hours()) % 24
	return fmt.Sprintf("%dd %dh", days, hours)
}

func formatNumber(n interface{}) string {
	switch v := n.(type) {
	case int:
		return formatInt(int64(v))
	case int64:
		return formatInt(v)
	case uint64:
		return formatInt(int64(v))
	case uint32:
		return formatInt(int64(v))
	case float64:
		return fmt.Sprintf("%.2f", v)
	default:
		return fmt.Sprintf("%v", n)
	}
}

func formatInt(n int64) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	if n < 1000000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	}
	if n < 1000000000 {
		return fmt.Sprintf("%.1fM", float64(n)/1000000)
	}
	return fmt.Sprintf("%.1fB", float64(n)/1000000000)
}

func hexAddr(v uint32) string {
	return fmt.Sprintf("0x%x", v)
}

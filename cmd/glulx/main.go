// Command glulx runs a Glulx game file (.ulx/.gblorb) to completion on a
// terminal, with persistent save slots, an image resolution cache, and an
// optional live status dashboard.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/mr-tron/base58"

	"github.com/glulx-go/glulx/pkg/dashboard"
	"github.com/glulx-go/glulx/pkg/glulx"
	"github.com/glulx-go/glulx/pkg/imagecache"
	"github.com/glulx-go/glulx/pkg/savestore"
)

// Version information
var (
	Version   = "0.1.0"
	GitCommit = "dev"
)

var (
	dataDir        = flag.String("data-dir", "./glulx-data", "Directory for save files and the image resolution cache")
	saveSlot       = flag.String("save-slot", "quicksave", "Slot name used for every save and restore")
	enableDash     = flag.Bool("dashboard", false, "Enable the live HTTP status dashboard")
	dashAddr       = flag.String("dashboard-addr", "127.0.0.1", "Dashboard bind address")
	dashPort       = flag.Int("dashboard-port", 8080, "Dashboard listen port")
	savePassphrase = flag.String("save-passphrase", "", "Encrypt/decrypt save files with this passphrase (optional)")
	showVersion    = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("glulx %s (%s)\n", Version, GitCommit)
		os.Exit(0)
	}

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: glulx [flags] <game-file>")
		os.Exit(2)
	}
	gamePath := flag.Arg(0)

	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.Printf("Starting glulx %s", Version)

	raw, err := os.ReadFile(gamePath)
	if err != nil {
		log.Fatalf("read game file: %v", err)
	}

	img, err := glulx.LoadImage(raw)
	if err != nil {
		log.Fatalf("load image: %v", err)
	}

	digest := imagecache.Sum(raw)
	log.Printf("Loaded %s (%s, %d bytes)", gamePath, base58.Encode(digest[:8]), len(raw))

	if err := os.MkdirAll(*dataDir, 0755); err != nil {
		log.Fatalf("create data dir: %v", err)
	}

	saves, err := savestore.Open(savestore.DefaultConfig(filepath.Join(*dataDir, "saves.db")))
	if err != nil {
		log.Fatalf("open save store: %v", err)
	}
	defer saves.Close()

	cache, err := imagecache.Open(imagecache.DefaultConfig(filepath.Join(*dataDir, "imagecache")))
	if err != nil {
		log.Fatalf("open image cache: %v", err)
	}
	defer cache.Close()

	if res, ok := cache.Get(digest); ok {
		log.Printf("Image resolution cache hit: %d veneer bindings, decoding cacheable=%v", len(res.Bindings), res.DecodingCached)
	} else {
		_ = cache.Put(digest, &imagecache.Resolution{})
	}

	host := newTerminalHost(filepath.Base(gamePath), digest, saves)

	eng, err := glulx.NewEngine(img, host)
	if err != nil {
		log.Fatalf("create engine: %v", err)
	}
	host.engine = eng
	if *savePassphrase != "" {
		eng.SetSavePassphrase(*savePassphrase)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	if *enableDash {
		dashCfg := dashboard.DefaultConfig()
		dashCfg.BindAddress = *dashAddr
		dashCfg.Port = *dashPort
		dash, err := dashboard.New(dashCfg, host)
		if err != nil {
			log.Fatalf("create dashboard: %v", err)
		}
		go func() {
			if err := dash.Start(ctx); err != nil && ctx.Err() == nil {
				log.Printf("dashboard stopped: %v", err)
			}
		}()
		log.Printf("Dashboard listening on http://%s", dash.Address())
	}

	if err := eng.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("run: %v", err)
	}
	host.flush()
	log.Println("glulx stopped")
}

// terminalHost implements glulx.Host against stdin/stdout, and
// dashboard.VMStats against the running Engine.
type terminalHost struct {
	imageName string
	digest    imagecache.Digest
	saves     *savestore.BoltStore
	defaultSlot string

	reader *bufio.Reader

	mu        sync.Mutex
	startedAt time.Time
	engine    *glulx.Engine
}

func newTerminalHost(imageName string, digest imagecache.Digest, saves *savestore.BoltStore) *terminalHost {
	return &terminalHost{
		imageName:   imageName,
		digest:      digest,
		saves:       saves,
		defaultSlot: *saveSlot,
		reader:      bufio.NewReader(os.Stdin),
		startedAt:   time.Now(),
	}
}

func (h *terminalHost) LineWanted(preloaded string) (string, error) {
	h.flush()
	if preloaded != "" {
		fmt.Printf("> %s", preloaded)
	} else {
		fmt.Print("> ")
	}
	line, err := h.reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return preloaded + trimNewline(line), nil
}

func (h *terminalHost) KeyWanted() (rune, error) {
	h.flush()
	var buf [1]byte
	if _, err := h.reader.Read(buf[:]); err != nil {
		return 0, err
	}
	return rune(buf[0]), nil
}

func (h *terminalHost) OutputReady(channels map[string]string) {
	for name, text := range channels {
		if name == "MAIN" {
			fmt.Print(text)
		} else {
			fmt.Printf("[%s] %s", name, text)
		}
	}
}

func (h *terminalHost) SaveRequested() (io.WriteCloser, error) {
	return &slotWriter{host: h, slot: h.defaultSlot}, nil
}

func (h *terminalHost) LoadRequested() ([]byte, error) {
	return h.saves.Get(h.digest, h.defaultSlot)
}

func (h *terminalHost) TransitionRequested(kind string) {
	fmt.Printf("\n[%s]\n", kind)
}

// flush drains and prints any buffered output without waiting for input.
func (h *terminalHost) flush() {
	h.mu.Lock()
	eng := h.engine
	h.mu.Unlock()
	if eng == nil {
		return
	}
	eng.FlushOutput()
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

// slotWriter buffers a save payload in memory and commits it to the save
// store on Close, satisfying io.WriteCloser for glulx.Host.SaveRequested.
type slotWriter struct {
	host *terminalHost
	slot string
	buf  []byte
}

func (s *slotWriter) Write(p []byte) (int, error) {
	s.buf = append(s.buf, p...)
	return len(p), nil
}

func (s *slotWriter) Close() error {
	return s.host.saves.Put(s.host.digest, s.slot, s.buf)
}

// --- dashboard.VMStats ---

func (h *terminalHost) ImageName() string { return h.imageName }

func (h *terminalHost) Running() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.engine != nil && h.engine.Running()
}

func (h *terminalHost) Uptime() time.Duration {
	return time.Since(h.startedAt)
}

func (h *terminalHost) Stats() dashboard.StatSnapshot {
	h.mu.Lock()
	eng := h.engine
	h.mu.Unlock()
	if eng == nil {
		return dashboard.StatSnapshot{}
	}
	st := eng.Snapshot()
	return dashboard.StatSnapshot{
		PC: st.PC, SP: st.SP, FP: st.FP,
		StackDepth: st.StackDepth, StackCapacity: st.StackCapacity,
		CallDepth:  st.CallDepth,
		HeapStart:  st.HeapStart, HeapExtent: st.HeapExtent,
		EndMem:     st.EndMem,
		UndoCount:  st.UndoCount,
		Instructions: st.Instructions,
	}
}

func (h *terminalHost) Channels() map[string]string {
	h.mu.Lock()
	eng := h.engine
	h.mu.Unlock()
	if eng == nil {
		return nil
	}
	return eng.PeekChannels()
}

func (h *terminalHost) SaveSlots() []string {
	infos, err := h.saves.List(h.digest)
	if err != nil {
		return nil
	}
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
	}
	return names
}

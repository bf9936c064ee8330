package dashboard

import "net/http"

// StatusResponse is the response for GET /api/status.
type StatusResponse struct {
	ImageName    string `json:"imageName"`
	Running      bool   `json:"running"`
	Uptime       string `json:"uptime"`
	UptimeSecs   float64 `json:"uptimeSeconds"`
	PC           uint32 `json:"pc"`
	SP           uint32 `json:"sp"`
	FP           uint32 `json:"fp"`
	StackDepth   uint32 `json:"stackDepthWords"`
	StackCap     uint32 `json:"stackCapacityWords"`
	CallDepth    int    `json:"callDepth"`
	HeapStart    uint32 `json:"heapStart"`
	HeapExtent   uint32 `json:"heapExtent"`
	EndMem       uint32 `json:"endMem"`
	UndoCount    int    `json:"undoCount"`
	Instructions uint64 `json:"instructions"`
}

// ChannelsResponse is the response for GET /api/channels.
type ChannelsResponse struct {
	Channels map[string]string `json:"channels"`
}

// handleAPIStatus handles GET /api/status.
func (d *Dashboard) handleAPIStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	st := d.stats.Stats()
	resp := StatusResponse{
		ImageName:    d.stats.ImageName(),
		Running:      d.stats.Running(),
		Uptime:       d.stats.Uptime().Round(1e9).String(),
		UptimeSecs:   d.stats.Uptime().Seconds(),
		PC:           st.PC,
		SP:           st.SP,
		FP:           st.FP,
		StackDepth:   st.StackDepth,
		StackCap:     st.StackCapacity,
		CallDepth:    st.CallDepth,
		HeapStart:    st.HeapStart,
		HeapExtent:   st.HeapExtent,
		EndMem:       st.EndMem,
		UndoCount:    st.UndoCount,
		Instructions: st.Instructions,
	}
	writeJSON(w, resp)
}

// handleAPIChannels handles GET /api/channels, returning the text
// accumulated in each output channel since the last Flush.
func (d *Dashboard) handleAPIChannels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, ChannelsResponse{Channels: d.stats.Channels()})
}

package glulx

// Stats is a read-only snapshot of engine state for monitoring tools; it
// never feeds back into execution.
type Stats struct {
	Running       bool
	PC            uint32
	SP            uint32
	FP            uint32
	StackDepth    uint32
	StackCapacity uint32
	CallDepth     int
	HeapStart     uint32
	HeapExtent    uint32
	EndMem        uint32
	UndoCount     int
	Instructions  uint64
}

// Snapshot returns the engine's current Stats.
func (e *Engine) Snapshot() Stats {
	return Stats{
		Running:       e.running,
		PC:            e.pc,
		SP:            e.sp,
		FP:            e.fp,
		StackDepth:    e.stackDepthWords(),
		StackCapacity: uint32(len(e.stack)) / 4,
		CallDepth:     len(e.frames),
		HeapStart:     e.heap.HeapStart(),
		HeapExtent:    e.heap.Extent(),
		EndMem:        e.image.EndMem(),
		UndoCount:     len(e.undoStack),
		Instructions:  e.instructions,
	}
}

// PeekChannels returns the text accumulated in each channel without
// clearing it, for a dashboard to display mid-turn.
func (e *Engine) PeekChannels() map[string]string {
	out := make(map[string]string, len(e.channels.buffers))
	for id, b := range e.channels.buffers {
		if b.Len() > 0 {
			out[ChannelName(id)] = b.String()
		}
	}
	return out
}

package glulx

// Component C9: the library-call compatibility shim. Glulx's own
// specification treats "glk" as an opaque call into a separate Glk
// library; this interpreter has no such library and instead folds the
// handful of Glk selectors that matter for text-only play directly into
// Channels, plus a non-standard extension selector, 0x1000 ("Fyrecall"),
// that some interpreters use to fold line/key/channel/veneer requests into
// the same call instead of a second opcode.
const (
	glkExit          = 0x0020
	glkPutChar       = 0x0080
	glkPutBuffer     = 0x0084
	glkPutCharUni    = 0x0122
	glkPutBufferUni  = 0x0126
	glkSelectChannel = 0x00C0 // non-standard: select(id)

	fyrecall = 0x1000
)

// Fyrecall sub-requests, passed as the first stack-popped argument when
// selector is fyrecall.
const (
	fyreLineWanted   = 1
	fyreKeyWanted    = 2
	fyreChannelSel   = 3
	fyreSetVeneer    = 4
	fyreTransition   = 5
)

func (e *Engine) execGlk(selector, argc uint32, dest storeRef) error {
	args, err := e.popArgs(argc)
	if err != nil {
		return err
	}

	switch selector {
	case glkExit:
		e.running = false
		e.host.TransitionRequested("quit")
		return e.store(dest, 0, 4)

	case glkPutChar:
		if len(args) > 0 {
			e.channels.WriteByte(byte(args[0]))
		}
		return e.store(dest, 0, 4)

	case glkPutCharUni:
		if len(args) > 0 {
			e.channels.WriteRune(rune(args[0]))
		}
		return e.store(dest, 0, 4)

	case glkPutBuffer, glkPutBufferUni:
		if len(args) < 2 {
			return e.store(dest, 0, 4)
		}
		addr, length := args[0], args[1]
		width := uint32(1)
		if selector == glkPutBufferUni {
			width = 4
		}
		for i := uint32(0); i < length; i++ {
			v, err := e.readMemWidth(addr+i*width, int(width))
			if err != nil {
				return err
			}
			e.channels.WriteRune(rune(v))
		}
		return e.store(dest, 0, 4)

	case glkSelectChannel:
		if len(args) > 0 {
			e.channels.Select(args[0])
		}
		return e.store(dest, 0, 4)

	case fyrecall:
		return e.execFyrecall(args, dest)

	default:
		// Unrecognized Glk selectors (window/stream management, input
		// line echoing, etc.) are display concerns this shim has no
		// terminal model for; acknowledge them as no-ops rather than
		// failing the whole opcode.
		return e.store(dest, 0, 4)
	}
}

func (e *Engine) execFyrecall(args []uint32, dest storeRef) error {
	if len(args) == 0 {
		return ErrBadFyrecall
	}
	switch args[0] {
	case fyreLineWanted:
		bufAddr, bufLen := uint32(0), uint32(0)
		if len(args) >= 3 {
			bufAddr, bufLen = args[1], args[2]
		}
		preload := ""
		if bufAddr != 0 {
			b, err := e.image.ReadRAM(bufAddr-e.image.RAMStart(), bufLen)
			if err == nil {
				preload = string(b)
			}
		}
		line, err := e.host.LineWanted(preload)
		if err != nil {
			return err
		}
		n := uint32(len(line))
		if n > bufLen {
			n = bufLen
		}
		if bufAddr != 0 {
			if err := e.image.WriteRAM(bufAddr-e.image.RAMStart(), []byte(line)[:n]); err != nil {
				return err
			}
		}
		return e.store(dest, n, 4)

	case fyreKeyWanted:
		r, err := e.host.KeyWanted()
		if err != nil {
			return err
		}
		return e.store(dest, uint32(r), 4)

	case fyreChannelSel:
		if len(args) >= 2 {
			e.channels.Select(args[1])
		}
		return e.store(dest, 0, 4)

	case fyreSetVeneer:
		if len(args) >= 3 {
			e.veneer.Bind(VeneerSlot(args[1]), args[2])
		}
		return e.store(dest, 0, 4)

	case fyreTransition:
		kind := "transition"
		if len(args) >= 2 {
			kind = ChannelName(args[1])
		}
		e.host.TransitionRequested(kind)
		return e.store(dest, 0, 4)

	default:
		return ErrBadFyrecall
	}
}

// FlushOutput drains accumulated channel text to the host. The engine does
// not call this automatically; the host calls it itself (the CLI host does
// so before each line or key read and after Run returns).
func (e *Engine) FlushOutput() {
	out := e.channels.Flush()
	if len(out) > 0 {
		e.host.OutputReady(out)
	}
}

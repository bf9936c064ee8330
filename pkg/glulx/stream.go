package glulx

import "strconv"

// channelSink adapts Channels to the StringSink interface the string
// decoder writes through.
type channelSink struct{ c *Channels }

func (s channelSink) PutChar(r rune) { s.c.WriteRune(r) }

func (e *Engine) execStream(op uint32, value uint32) error {
	switch op {
	case opStreamChar:
		e.channels.WriteByte(byte(value))
		return nil
	case opStreamUnichar:
		e.channels.WriteRune(rune(value))
		return nil
	case opStreamNum:
		e.channels.WriteString(strconv.Itoa(int(int32(value))))
		return nil
	case opStreamStr:
		return e.DecodeString(value, channelSink{e.channels})
	}
	return ErrBadOpcode
}

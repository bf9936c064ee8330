package glulx

// Component C7: Quetzal (IFZS) save files. A save is an IFF FORM containing
// an IFhd identity chunk, a compressed or uncompressed RAM delta, a Stks
// chunk serializing the live call-frame stack, and an optional MAll chunk
// for the heap's allocated-block list.

const (
	chunkIFhd = "IFhd"
	chunkCMem = "CMem"
	chunkUMem = "UMem"
	chunkStks = "Stks"
	chunkMAll = "MAll"
)

type iffChunk struct {
	id   string
	data []byte
}

func writeIFF(formType string, chunks []iffChunk) []byte {
	var body []byte
	body = append(body, []byte(formType)...)
	for _, c := range chunks {
		body = append(body, []byte(c.id)...)
		var lenBuf [4]byte
		putBeU32(lenBuf[:], uint32(len(c.data)))
		body = append(body, lenBuf[:]...)
		body = append(body, c.data...)
		if len(c.data)%2 == 1 {
			body = append(body, 0)
		}
	}
	out := append([]byte("FORM"), 0, 0, 0, 0)
	putBeU32(out[4:], uint32(len(body)))
	out = append(out, body...)
	return out
}

func readIFF(data []byte) (formType string, chunks []iffChunk, err error) {
	if len(data) < 12 || string(data[0:4]) != "FORM" {
		return "", nil, ErrBadSaveFile
	}
	total := beU32(data[4:8])
	if uint64(total)+8 > uint64(len(data)) {
		return "", nil, ErrBadSaveFile
	}
	formType = string(data[8:12])
	off := 12
	end := int(total) + 8
	for off+8 <= end {
		id := string(data[off : off+4])
		size := beU32(data[off+4 : off+8])
		off += 8
		if off+int(size) > end {
			return "", nil, ErrBadSaveFile
		}
		chunks = append(chunks, iffChunk{id: id, data: data[off : off+int(size)]})
		off += int(size)
		if size%2 == 1 {
			off++
		}
	}
	return formType, chunks, nil
}

// Serialize captures the engine's complete state as an IFZS byte stream.
// resume is the call stub of the @save/@saveundo instruction that triggered
// this capture: restoring the file must deliver 0xFFFFFFFF through that
// stub's destination, not through whatever opcode happens to call
// @restore/@restoreundo.
func (e *Engine) Serialize(resume callStub) ([]byte, error) {
	hdrChecksum, err := e.image.ReadU32(hdrChecksum)
	if err != nil {
		return nil, err
	}
	ifhd := make([]byte, 4)
	putBeU32(ifhd, hdrChecksum)

	original := e.image.GetOriginalRAM()
	current, err := e.image.ReadRAM(0, e.image.EndMem()-e.image.RAMStart())
	if err != nil {
		return nil, err
	}
	cmem := rleEncodeXOR(original, current)

	stks := e.serializeStacks(resume)
	mall := e.heap.Save()

	chunks := []iffChunk{
		{id: chunkIFhd, data: ifhd},
		{id: chunkCMem, data: cmem},
		{id: chunkStks, data: stks},
		{id: chunkMAll, data: mall},
	}
	return writeIFF("IFZS", chunks), nil
}

// Deserialize restores engine state from a previously produced Serialize
// byte stream, validating it belongs to the currently loaded image.
func (e *Engine) Deserialize(data []byte) error {
	formType, chunks, err := readIFF(data)
	if err != nil {
		return err
	}
	if formType != "IFZS" {
		return ErrBadSaveFile
	}

	var ifhd, cmem, umem, stks, mall []byte
	for _, c := range chunks {
		switch c.id {
		case chunkIFhd:
			ifhd = c.data
		case chunkCMem:
			cmem = c.data
		case chunkUMem:
			umem = c.data
		case chunkStks:
			stks = c.data
		case chunkMAll:
			mall = c.data
		}
	}
	if len(ifhd) < 4 {
		return ErrBadSaveFile
	}
	wantChecksum, err := e.image.ReadU32(hdrChecksum)
	if err != nil {
		return err
	}
	if beU32(ifhd) != wantChecksum {
		return ErrSaveImageMismatch
	}

	original := e.image.GetOriginalRAM()
	var ram []byte
	switch {
	case umem != nil:
		ram = umem
	case cmem != nil:
		ram, err = rleDecodeXOR(original, cmem)
		if err != nil {
			return err
		}
	default:
		return ErrBadSaveFile
	}
	resume, frames, stackBytes, sp, fp, err := deserializeStacks(stks)
	if err != nil {
		return err
	}
	if uint32(len(stackBytes)) > uint32(len(e.stack)) {
		return ErrStackOverflow
	}
	var loadedHeap *Heap
	if mall != nil {
		loadedHeap, err = LoadHeap(mall, 0xFFFFFFFF, func(n uint32) bool { e.image.SetEndMem(n); return true })
		if err != nil {
			return err
		}
	}

	// Every chunk has parsed; only now is engine state replaced.
	e.image.SetRAM(ram, uint32(len(ram)))
	copy(e.stack, stackBytes)
	for i := len(stackBytes); i < len(e.stack); i++ {
		e.stack[i] = 0
	}
	e.frames = frames
	e.sp, e.fp = sp, fp
	e.catches = nil

	if loadedHeap != nil {
		e.heap = loadedHeap
	} else {
		e.heap = NewHeap(e.image.EndMem(), 0xFFFFFFFF, func(n uint32) bool { e.image.SetEndMem(n); return true })
	}

	// Restore resumes execution right after the original @save/@saveundo
	// call, delivering 0xFFFFFFFF through that instruction's own
	// destination rather than the restore opcode's.
	e.pc = resume.ResumePC
	return e.deliverStub(resume, 0xFFFFFFFF)
}

// snapshotUndo and restoreUndo reuse the Quetzal codec for the in-memory
// undo FIFO rather than inventing a second format: an undo point is simply
// a save that never touches a file.
func (e *Engine) snapshotUndo(resume callStub) []byte {
	data, err := e.Serialize(resume)
	if err != nil {
		return nil
	}
	return data
}

func (e *Engine) restoreUndo(snap []byte) error {
	return e.Deserialize(snap)
}

// rleEncodeXOR produces Quetzal's CMem payload: current XOR original,
// run-length-encoded so that long stretches of zero (unchanged bytes)
// collapse to two bytes each.
func rleEncodeXOR(original, current []byte) []byte {
	out := make([]byte, 0, len(current)/4)
	i := 0
	get := func(b []byte, i int) byte {
		if i < len(b) {
			return b[i]
		}
		return 0
	}
	for i < len(current) {
		d := current[i] ^ get(original, i)
		if d == 0 {
			run := 0
			for i < len(current) && run < 256 && current[i]^get(original, i) == 0 {
				run++
				i++
			}
			out = append(out, 0x00, byte(run-1))
		} else {
			out = append(out, d)
			i++
		}
	}
	return out
}

func rleDecodeXOR(original, encoded []byte) ([]byte, error) {
	out := make([]byte, 0, len(original))
	get := func(b []byte, i int) byte {
		if i < len(b) {
			return b[i]
		}
		return 0
	}
	pos := 0
	for j := 0; j < len(encoded); j++ {
		b := encoded[j]
		if b == 0 {
			if j+1 >= len(encoded) {
				return nil, ErrBadSaveFile
			}
			run := int(encoded[j+1]) + 1
			j++
			for k := 0; k < run; k++ {
				out = append(out, get(original, pos))
				pos++
			}
		} else {
			out = append(out, b^get(original, pos))
			pos++
		}
	}
	return out, nil
}

// serializeStacks encodes resume (the call stub that must receive
// 0xFFFFFFFF when this save is eventually restored) as a 16-byte header,
// followed by every live frame bottom-to-top: frame_len, locals_pos, that
// frame's own call stub (so a return through a restored frame resumes and
// delivers correctly), the function's locals-format descriptors (so
// Deserialize can rebuild a funcLayout without re-reading function code),
// the locals region, and that frame's slice of the value stack.
func (e *Engine) serializeStacks(resume callStub) []byte {
	out := make([]byte, 16)
	putBeU32(out[0:], resume.DestType)
	putBeU32(out[4:], resume.DestAddr)
	putBeU32(out[8:], resume.ResumePC)
	putBeU32(out[12:], resume.SavedFP)

	for idx, f := range e.frames {
		top := e.sp
		if idx+1 < len(e.frames) {
			top = e.frames[idx+1].fp
		}
		var hdr [24]byte
		putBeU32(hdr[0:], f.layout.frameLen)
		putBeU32(hdr[4:], f.layout.localsPos)
		putBeU32(hdr[8:], f.stub.DestType)
		putBeU32(hdr[12:], f.stub.DestAddr)
		putBeU32(hdr[16:], f.stub.ResumePC)
		putBeU32(hdr[20:], f.stub.SavedFP)
		out = append(out, hdr[:]...)
		for _, g := range f.layout.groups {
			out = append(out, g.Size, g.Count)
		}
		out = append(out, 0, 0)
		for uint32(len(out))%4 != 0 {
			out = append(out, 0)
		}
		out = append(out, e.stack[f.fp+f.layout.localsPos:f.fp+f.layout.frameLen]...)

		vs := e.stack[f.fp+f.layout.frameLen : top]
		var vsLen [4]byte
		putBeU32(vsLen[:], uint32(len(vs)))
		out = append(out, vsLen[:]...)
		out = append(out, vs...)
	}
	return out
}

func deserializeStacks(data []byte) (resume callStub, frames []frameRecord, stack []byte, sp, fp uint32, err error) {
	fail := func() (callStub, []frameRecord, []byte, uint32, uint32, error) {
		return callStub{}, nil, nil, 0, 0, ErrBadSaveFile
	}

	if len(data) < 16 {
		return fail()
	}
	resume = callStub{
		DestType: beU32(data[0:]),
		DestAddr: beU32(data[4:]),
		ResumePC: beU32(data[8:]),
		SavedFP:  beU32(data[12:]),
	}
	off := 16
	for off < len(data) {
		if off+24 > len(data) {
			return fail()
		}
		frameLen := beU32(data[off:])
		localsPos := beU32(data[off+4:])
		fstub := callStub{
			DestType: beU32(data[off+8:]),
			DestAddr: beU32(data[off+12:]),
			ResumePC: beU32(data[off+16:]),
			SavedFP:  beU32(data[off+20:]),
		}
		off += 24

		var groups []localGroup
		var slotOffset []uint32
		var slotSize []uint8
		cursor := off
		for {
			if cursor+2 > len(data) {
				return fail()
			}
			size, count := data[cursor], data[cursor+1]
			cursor += 2
			if size == 0 && count == 0 {
				break
			}
			groups = append(groups, localGroup{Size: size, Count: count})
		}
		pos := uint32(0)
		for _, g := range groups {
			if g.Size > 1 {
				pos = align(pos, uint32(g.Size))
			}
			for i := uint8(0); i < g.Count; i++ {
				slotOffset = append(slotOffset, pos)
				slotSize = append(slotSize, g.Size)
				pos += uint32(g.Size)
			}
		}
		off = int(align(uint32(cursor), 4))

		thisFP := uint32(len(stack))
		layout := &funcLayout{groups: groups, localsPos: localsPos, localsLen: pos, frameLen: frameLen, slotOffset: slotOffset, slotSize: slotSize}

		localsLen := int(frameLen - localsPos)
		if off+localsLen > len(data) {
			return fail()
		}
		stack = append(stack, make([]byte, localsPos)...)
		stack = append(stack, data[off:off+localsLen]...)
		off += localsLen

		if off+4 > len(data) {
			return fail()
		}
		vsLen := beU32(data[off:])
		off += 4
		if off+int(vsLen) > len(data) {
			return fail()
		}
		stack = append(stack, data[off:off+int(vsLen)]...)
		off += int(vsLen)

		frames = append(frames, frameRecord{fp: thisFP, layout: layout, stub: fstub, catchBase: 0})
	}
	sp = uint32(len(stack))
	if len(frames) > 0 {
		fp = frames[len(frames)-1].fp
	}
	return resume, frames, stack, sp, fp, nil
}

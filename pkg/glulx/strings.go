package glulx

// Component C5: decoding of the three Glulx string encodings encountered at
// a print-string address: raw C-strings (0xE0), raw Unicode strings (0xE2),
// and Huffman-compressed strings (0xE1) walked against a decoding tree whose
// address is given by the image header.

// stringNode is one node of the compressed-string decoding tree.
type stringNode struct {
	tag uint8

	// tag 0 (branch)
	left, right uint32 // addresses of child nodes

	// tag 2/4 (char/unichar)
	ch rune

	// tags 3/5/8/9/10/11 (C-string, Unicode-C-string, indirect references)
	addr uint32
	args []uint32 // tags 10/11 only: the node's own embedded argument list
}

const (
	nodeBranch               = 0
	nodeStringTerminator     = 1
	nodeChar                 = 2
	nodeUnicharTag           = 4
	nodeCString              = 3
	nodeUnicodeString        = 5
	nodeIndirect             = 8
	nodeDoubleIndirect       = 9
	nodeIndirectArgs         = 10
	nodeDoubleIndirectArgs   = 11
)

// DecodingTable caches a Huffman decoding tree. Per spec.md §4.3, a table
// that lies entirely below ram_start is immutable and is parsed once; a
// table with any byte at or above ram_start may be rewritten by the game at
// runtime and must be re-walked from memory for every character.
type DecodingTable struct {
	addr      uint32
	rootNode  uint32
	cacheable bool
	nodes     map[uint32]stringNode // populated only when cacheable
}

// LoadDecodingTable parses the table header at addr and, if the whole table
// lies below ramStart, walks and caches every node up front.
func LoadDecodingTable(img *Image, addr uint32) (*DecodingTable, error) {
	if addr == 0 {
		return &DecodingTable{addr: 0}, nil
	}
	tableSize, err := img.ReadU32(addr)
	if err != nil {
		return nil, err
	}
	rootNode, err := img.ReadU32(addr + 8)
	if err != nil {
		return nil, err
	}
	dt := &DecodingTable{addr: addr, rootNode: rootNode}
	dt.cacheable = addr+tableSize <= img.RAMStart()

	if dt.cacheable {
		dt.nodes = make(map[uint32]stringNode)
		var branches, ends int
		var walk func(uint32) error
		walk = func(node uint32) error {
			if _, ok := dt.nodes[node]; ok {
				return nil
			}
			n, err := readStringNode(img, node)
			if err != nil {
				return err
			}
			dt.nodes[node] = n
			switch n.tag {
			case nodeBranch:
				branches++
				if err := walk(n.left); err != nil {
					return err
				}
				return walk(n.right)
			case nodeStringTerminator:
				ends++
			}
			return nil
		}
		if err := walk(rootNode); err != nil {
			return nil, err
		}
		if branches == 0 || ends == 0 {
			return nil, ErrBadDecodingTree
		}
	}
	return dt, nil
}

func readStringNode(img *Image, addr uint32) (stringNode, error) {
	tag, err := img.ReadU8(addr)
	if err != nil {
		return stringNode{}, err
	}
	switch tag {
	case nodeBranch:
		left, err := img.ReadU32(addr + 1)
		if err != nil {
			return stringNode{}, err
		}
		right, err := img.ReadU32(addr + 5)
		if err != nil {
			return stringNode{}, err
		}
		return stringNode{tag: tag, left: left, right: right}, nil
	case nodeStringTerminator:
		return stringNode{tag: tag}, nil
	case nodeChar:
		b, err := img.ReadU8(addr + 1)
		if err != nil {
			return stringNode{}, err
		}
		return stringNode{tag: tag, ch: rune(b)}, nil
	case nodeUnicharTag:
		v, err := img.ReadU32(addr + 1)
		if err != nil {
			return stringNode{}, err
		}
		return stringNode{tag: tag, ch: rune(v)}, nil
	case nodeCString, nodeUnicodeString:
		v, err := img.ReadU32(addr + 1)
		if err != nil {
			return stringNode{}, err
		}
		return stringNode{tag: tag, addr: v}, nil
	case nodeIndirect, nodeDoubleIndirect:
		v, err := img.ReadU32(addr + 1)
		if err != nil {
			return stringNode{}, err
		}
		return stringNode{tag: tag, addr: v}, nil
	case nodeIndirectArgs, nodeDoubleIndirectArgs:
		// address, then a one-byte arg count, then that many 4-byte
		// argument values, embedded directly in the node (spec.md §4.3).
		v, err := img.ReadU32(addr + 1)
		if err != nil {
			return stringNode{}, err
		}
		argc, err := img.ReadU8(addr + 5)
		if err != nil {
			return stringNode{}, err
		}
		args := make([]uint32, argc)
		for i := uint8(0); i < argc; i++ {
			av, err := img.ReadU32(addr + 6 + uint32(i)*4)
			if err != nil {
				return stringNode{}, err
			}
			args[i] = av
		}
		return stringNode{tag: tag, addr: v, args: args}, nil
	default:
		return stringNode{}, ErrBadDecodingTree
	}
}

func (dt *DecodingTable) node(img *Image, addr uint32) (stringNode, error) {
	if dt.cacheable {
		n, ok := dt.nodes[addr]
		if !ok {
			return stringNode{}, ErrBadDecodingTree
		}
		return n, nil
	}
	return readStringNode(img, addr)
}

// bitReader walks LSB-first bits starting at byte address addr.
type bitReader struct {
	img  *Image
	addr uint32
	bit  uint8
}

func (r *bitReader) next() (int, error) {
	b, err := r.img.ReadU8(r.addr)
	if err != nil {
		return 0, err
	}
	v := int((b >> r.bit) & 1)
	r.bit++
	if r.bit == 8 {
		r.bit = 0
		r.addr++
	}
	return v, nil
}

// StringSink receives decoded characters; the engine supplies one backed by
// its active output Channels.
type StringSink interface {
	PutChar(r rune)
}

// DecodeString prints the string found at addr (whose first byte identifies
// its encoding) to sink, against the engine's active decoding table.
func (e *Engine) DecodeString(addr uint32, sink StringSink) error {
	tag, err := e.image.ReadU8(addr)
	if err != nil {
		return err
	}
	switch tag {
	case 0xE0:
		return decodeCString(e.image, addr+1, sink)
	case 0xE2:
		return decodeUnicodeString(e.image, addr+4, sink)
	case 0xE1:
		return e.decodeCompressedString(addr+1, sink)
	default:
		return ErrBadDecodingTree
	}
}

func decodeCString(img *Image, addr uint32, sink StringSink) error {
	for {
		b, err := img.ReadU8(addr)
		if err != nil {
			return err
		}
		if b == 0 {
			return nil
		}
		sink.PutChar(rune(b))
		addr++
	}
}

func decodeUnicodeString(img *Image, addr uint32, sink StringSink) error {
	for {
		v, err := img.ReadU32(addr)
		if err != nil {
			return err
		}
		if v == 0 {
			return nil
		}
		sink.PutChar(rune(v))
		addr += 4
	}
}

// printState is a suspended walk of the compressed-string decoding tree: a
// bit-reader position plus output sink, enough to resume after a call to an
// indirect node's target function returns. node is always back at the tree
// root on suspend/resume, since a suspension only ever happens immediately
// after a leaf is reached (spec.md §4.3: "the caller resumes decoding at the
// saved bit position on function return").
type printState struct {
	sink    StringSink
	br      bitReader
	outerPC uint32 // e.pc to restore once this walk (and all it nests) finishes
}

func (e *Engine) decodeCompressedString(addr uint32, sink StringSink) error {
	if e.decoding == nil || e.decoding.addr == 0 {
		return ErrBadDecodingTree
	}
	st := printState{sink: sink, br: bitReader{img: e.image, addr: addr}, outerPC: e.pc}
	return e.runPrintState(&st)
}

func (e *Engine) runPrintState(st *printState) error {
	dt := e.decoding
	node := dt.rootNode
	for {
		n, err := dt.node(e.image, node)
		if err != nil {
			return err
		}
		switch n.tag {
		case nodeBranch:
			bit, err := st.br.next()
			if err != nil {
				return err
			}
			if bit == 0 {
				node = n.left
			} else {
				node = n.right
			}
			continue
		case nodeStringTerminator:
			return nil
		case nodeChar, nodeUnicharTag:
			st.sink.PutChar(n.ch)
		case nodeCString:
			if err := decodeCString(e.image, n.addr, st.sink); err != nil {
				return err
			}
		case nodeUnicodeString:
			if err := decodeUnicodeString(e.image, n.addr, st.sink); err != nil {
				return err
			}
		case nodeIndirect, nodeIndirectArgs:
			suspended, err := e.enterIndirectTarget(st, n.addr, n.args)
			if err != nil {
				return err
			}
			if suspended {
				return nil
			}
		case nodeDoubleIndirect, nodeDoubleIndirectArgs:
			target, err := e.image.ReadU32(n.addr)
			if err != nil {
				return err
			}
			suspended, err := e.enterIndirectTarget(st, target, n.args)
			if err != nil {
				return err
			}
			if suspended {
				return nil
			}
		default:
			return ErrBadDecodingTree
		}
		node = dt.rootNode
	}
}

// enterIndirectTarget resolves one indirect-node target. If it addresses a
// function (format tag 0xC0/0xC1), the current walk suspends onto
// e.printStack and the function is entered as an ordinary call whose result
// is discarded on return; if it addresses a string, that string is decoded
// in place, since decoding a nested string never runs VM bytecode and so
// never needs to suspend the surrounding walk by itself.
func (e *Engine) enterIndirectTarget(st *printState, target uint32, args []uint32) (suspended bool, err error) {
	tagByte, err := e.image.ReadU8(target)
	if err != nil {
		return false, err
	}
	if tagByte == 0xC0 || tagByte == 0xC1 {
		e.printStack = append(e.printStack, *st)
		stub := callStub{DestType: destResumeCompressed}
		if err := e.enterFunction(target, args, stub, -1); err != nil {
			e.printStack = e.printStack[:len(e.printStack)-1]
			return false, err
		}
		return true, nil
	}
	return false, e.DecodeString(target, st.sink)
}

// resumeCompressedPrint continues the most recently suspended compressed
// string walk once its call stub's function has returned; the function's
// result is always discarded.
func (e *Engine) resumeCompressedPrint() error {
	if len(e.printStack) == 0 {
		return ErrBadDecodingTree
	}
	st := e.printStack[len(e.printStack)-1]
	e.printStack = e.printStack[:len(e.printStack)-1]
	depthBefore := len(e.printStack)
	if err := e.runPrintState(&st); err != nil {
		return err
	}
	if len(e.printStack) == depthBefore {
		// The walk reached its terminator without suspending again: resume
		// the instruction stream right after the original @streamstr.
		e.pc = st.outerPC
	}
	return nil
}

package live

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/recera/nodeditor/pkg/area"
	"github.com/recera/nodeditor/pkg/renderer/html"
	"github.com/recera/nodeditor/pkg/vdom"
)

// maxFieldLen bounds strings and counts read from the wire
const maxFieldLen = 1 << 20

// Encoder handles encoding of live protocol messages
type Encoder struct {
	w   io.Writer
	err error
}

// NewEncoder creates a new encoder
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Err returns the first write error
func (e *Encoder) Err() error {
	return e.err
}

func (e *Encoder) write(b []byte) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.Write(b)
}

// WriteByte writes a single byte
func (e *Encoder) WriteByte(b byte) error {
	e.write([]byte{b})
	return e.err
}

// WriteUvarint writes an unsigned varint
func (e *Encoder) WriteUvarint(v uint64) error {
	e.write(binary.AppendUvarint(nil, v))
	return e.err
}

// WriteString writes a length-prefixed string
func (e *Encoder) WriteString(s string) error {
	e.WriteUvarint(uint64(len(s)))
	e.write([]byte(s))
	return e.err
}

// Decoder handles decoding of live protocol messages
type Decoder struct {
	r *bytes.Reader
}

// NewDecoder creates a decoder over one frame
func NewDecoder(data []byte) *Decoder {
	return &Decoder{r: bytes.NewReader(data)}
}

// ReadByte implements io.ByteReader
func (d *Decoder) ReadByte() (byte, error) {
	return d.r.ReadByte()
}

// ReadUvarint reads an unsigned varint
func (d *Decoder) ReadUvarint() (uint64, error) {
	return binary.ReadUvarint(d.r)
}

// ReadString reads a length-prefixed string
func (d *Decoder) ReadString() (string, error) {
	length, err := d.readLen()
	if err != nil {
		return "", err
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func (d *Decoder) readLen() (int, error) {
	n, err := d.ReadUvarint()
	if err != nil {
		return 0, err
	}
	if n > maxFieldLen || n > uint64(d.r.Len()) {
		return 0, fmt.Errorf("length %d: %w", n, ErrFrameTooLarge)
	}
	return int(n), nil
}

func (d *Decoder) expect(t MessageType) error {
	b, err := d.ReadByte()
	if err != nil {
		return err
	}
	if MessageType(b) != t {
		return fmt.Errorf("got 0x%02x, want 0x%02x: %w", b, byte(t), ErrFrameType)
	}
	return nil
}

// FrameTypeOf returns the frame type of an encoded message
func FrameTypeOf(data []byte) (MessageType, bool) {
	if len(data) == 0 {
		return 0, false
	}
	return MessageType(data[0]), true
}

// EncodePatches encodes the patches of one control view.
//
//	[0x00][seq][control id][count] then per patch:
//	[op][path len][path...] and the op's operands
func EncodePatches(seq uint64, f area.Frame) ([]byte, error) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)

	enc.WriteByte(byte(FramePatches))
	enc.WriteUvarint(seq)
	enc.WriteString(f.ControlID)
	enc.WriteUvarint(uint64(len(f.Patches)))

	for _, p := range f.Patches {
		enc.WriteByte(byte(p.Op))
		enc.WriteUvarint(uint64(len(p.Path)))
		for _, idx := range p.Path {
			enc.WriteUvarint(uint64(idx))
		}

		switch p.Op {
		case vdom.OpReplaceText:
			enc.WriteString(p.Value)
		case vdom.OpSetAttribute:
			enc.WriteString(p.Key)
			enc.WriteString(p.Value)
		case vdom.OpRemoveAttribute:
			enc.WriteString(p.Key)
		case vdom.OpRemoveNode:
		case vdom.OpInsertNode, vdom.OpReplaceNode:
			markup, err := html.RenderToString(p.Node)
			if err != nil {
				return nil, fmt.Errorf("encode %s: %w", p, err)
			}
			enc.WriteString(markup)
		default:
			return nil, fmt.Errorf("encode patch: unknown op 0x%02x", byte(p.Op))
		}
	}

	if err := enc.Err(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodePatches decodes a patches frame
func DecodePatches(data []byte) (*PatchFrame, error) {
	d := NewDecoder(data)
	if err := d.expect(FramePatches); err != nil {
		return nil, err
	}

	pf := &PatchFrame{}
	var err error
	if pf.Seq, err = d.ReadUvarint(); err != nil {
		return nil, err
	}
	if pf.ControlID, err = d.ReadString(); err != nil {
		return nil, err
	}
	count, err := d.readLen()
	if err != nil {
		return nil, err
	}

	pf.Patches = make([]WirePatch, 0, count)
	for i := 0; i < count; i++ {
		op, err := d.ReadByte()
		if err != nil {
			return nil, err
		}
		p := WirePatch{Op: vdom.PatchOp(op)}

		depth, err := d.readLen()
		if err != nil {
			return nil, err
		}
		for j := 0; j < depth; j++ {
			idx, err := d.ReadUvarint()
			if err != nil {
				return nil, err
			}
			p.Path = append(p.Path, int(idx))
		}

		switch p.Op {
		case vdom.OpReplaceText, vdom.OpInsertNode, vdom.OpReplaceNode:
			p.Value, err = d.ReadString()
		case vdom.OpSetAttribute:
			if p.Key, err = d.ReadString(); err == nil {
				p.Value, err = d.ReadString()
			}
		case vdom.OpRemoveAttribute:
			p.Key, err = d.ReadString()
		case vdom.OpRemoveNode:
		default:
			err = fmt.Errorf("decode patch: unknown op 0x%02x", op)
		}
		if err != nil {
			return nil, err
		}
		pf.Patches = append(pf.Patches, p)
	}
	return pf, nil
}

// EncodeEvent encodes an event to binary format
//
//	[0x01][event type][control id][value]
func EncodeEvent(evt Event) []byte {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	enc.WriteByte(byte(FrameEvent))
	enc.WriteByte(byte(evt.Type))
	enc.WriteString(evt.ControlID)
	enc.WriteString(evt.Value)
	return buf.Bytes()
}

// DecodeEvent decodes an event from binary format
func DecodeEvent(data []byte) (*Event, error) {
	d := NewDecoder(data)
	if err := d.expect(FrameEvent); err != nil {
		return nil, err
	}

	typ, err := d.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("event type: %w", err)
	}
	evt := &Event{Type: EventType(typ)}
	if evt.ControlID, err = d.ReadString(); err != nil {
		return nil, fmt.Errorf("event control id: %w", err)
	}
	if evt.Value, err = d.ReadString(); err != nil {
		return nil, fmt.Errorf("event value: %w", err)
	}
	return evt, nil
}

// EncodeControl encodes a control frame
//
//	[0x02][name][arg count][args...]
func EncodeControl(c Control) []byte {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	enc.WriteByte(byte(FrameControl))
	enc.WriteString(c.Name)
	enc.WriteUvarint(uint64(len(c.Args)))
	for _, a := range c.Args {
		enc.WriteUvarint(a)
	}
	return buf.Bytes()
}

// DecodeControl decodes a control frame
func DecodeControl(data []byte) (*Control, error) {
	d := NewDecoder(data)
	if err := d.expect(FrameControl); err != nil {
		return nil, err
	}

	name, err := d.ReadString()
	if err != nil {
		return nil, fmt.Errorf("control name: %w", err)
	}
	c := &Control{Name: name}

	// args are optional
	if d.r.Len() == 0 {
		return c, nil
	}
	n, err := d.readLen()
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		v, err := d.ReadUvarint()
		if err != nil {
			return nil, err
		}
		c.Args = append(c.Args, v)
	}
	return c, nil
}

package nbt

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Read decodes one named compound from r, returning its name and contents.
// Both schematic container formats use a compound root, so anything else is
// rejected up front. Values decode to int8/int16/int32/int64, float32/float64,
// string, []byte, []int32, []int64, []any (lists) and map[string]any
// (compounds).
func Read(r io.Reader) (string, map[string]any, error) {
	d := &decoder{r: r}
	tag, err := d.readByte()
	if err != nil {
		return "", nil, err
	}
	if tag != TagCompound {
		return "", nil, fmt.Errorf("root tag type %d, want compound", tag)
	}
	name, err := d.readString()
	if err != nil {
		return "", nil, err
	}
	v, err := d.readCompound()
	if err != nil {
		return "", nil, err
	}
	return name, v, nil
}

type decoder struct {
	r io.Reader
}

func (d *decoder) readByte() (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(d.r, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *decoder) readN(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(d.r, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (d *decoder) readString() (string, error) {
	b, err := d.readN(2)
	if err != nil {
		return "", err
	}
	n := int(binary.BigEndian.Uint16(b))
	s, err := d.readN(n)
	if err != nil {
		return "", err
	}
	return string(s), nil
}

func (d *decoder) readLen() (int, error) {
	b, err := d.readN(4)
	if err != nil {
		return 0, err
	}
	n := int(int32(binary.BigEndian.Uint32(b)))
	if n < 0 {
		return 0, fmt.Errorf("negative length %d", n)
	}
	return n, nil
}

func (d *decoder) readCompound() (map[string]any, error) {
	out := map[string]any{}
	for {
		tag, err := d.readByte()
		if err != nil {
			return nil, err
		}
		if tag == TagEnd {
			return out, nil
		}
		name, err := d.readString()
		if err != nil {
			return nil, err
		}
		v, err := d.readValue(tag)
		if err != nil {
			return nil, fmt.Errorf("tag %q: %w", name, err)
		}
		out[name] = v
	}
}

func (d *decoder) readValue(tag byte) (any, error) {
	switch tag {
	case TagByte:
		b, err := d.readByte()
		return int8(b), err
	case TagShort:
		b, err := d.readN(2)
		if err != nil {
			return nil, err
		}
		return int16(binary.BigEndian.Uint16(b)), nil
	case TagInt:
		b, err := d.readN(4)
		if err != nil {
			return nil, err
		}
		return int32(binary.BigEndian.Uint32(b)), nil
	case TagLong:
		b, err := d.readN(8)
		if err != nil {
			return nil, err
		}
		return int64(binary.BigEndian.Uint64(b)), nil
	case TagFloat:
		b, err := d.readN(4)
		if err != nil {
			return nil, err
		}
		return math.Float32frombits(binary.BigEndian.Uint32(b)), nil
	case TagDouble:
		b, err := d.readN(8)
		if err != nil {
			return nil, err
		}
		return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
	case TagByteArray:
		n, err := d.readLen()
		if err != nil {
			return nil, err
		}
		return d.readN(n)
	case TagString:
		return d.readString()
	case TagList:
		elem, err := d.readByte()
		if err != nil {
			return nil, err
		}
		n, err := d.readLen()
		if err != nil {
			return nil, err
		}
		out := make([]any, 0, n)
		for i := 0; i < n; i++ {
			v, err := d.readValue(elem)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case TagCompound:
		return d.readCompound()
	case TagIntArray:
		n, err := d.readLen()
		if err != nil {
			return nil, err
		}
		out := make([]int32, n)
		for i := range out {
			b, err := d.readN(4)
			if err != nil {
				return nil, err
			}
			out[i] = int32(binary.BigEndian.Uint32(b))
		}
		return out, nil
	case TagLongArray:
		n, err := d.readLen()
		if err != nil {
			return nil, err
		}
		out := make([]int64, n)
		for i := range out {
			b, err := d.readN(8)
			if err != nil {
				return nil, err
			}
			out[i] = int64(binary.BigEndian.Uint64(b))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown tag type %d", tag)
	}
}

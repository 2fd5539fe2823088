// Package nbt implements the subset of the named binary tag format needed by
// the schematic writers: big-endian wire order, explicit tag sequencing, and
// deterministic key order (tags appear exactly in the order they are written).
package nbt

import (
	"bytes"
	"encoding/binary"
)

// Tag type ids.
const (
	TagEnd       byte = 0
	TagByte      byte = 1
	TagShort     byte = 2
	TagInt       byte = 3
	TagLong      byte = 4
	TagFloat     byte = 5
	TagDouble    byte = 6
	TagByteArray byte = 7
	TagString    byte = 8
	TagList      byte = 9
	TagCompound  byte = 10
	TagIntArray  byte = 11
	TagLongArray byte = 12
)

// Writer emits named tags into an in-memory buffer. Buffer writes cannot fail,
// so the methods return nothing; the caller frames and flushes the finished
// buffer in one step.
type Writer struct {
	buf *bytes.Buffer
}

func NewWriter(buf *bytes.Buffer) *Writer {
	return &Writer{buf: buf}
}

func (w *Writer) header(tag byte, name string) {
	w.buf.WriteByte(tag)
	var n [2]byte
	binary.BigEndian.PutUint16(n[:], uint16(len(name)))
	w.buf.Write(n[:])
	w.buf.WriteString(name)
}

// BeginCompound opens a named compound. Close it with EndCompound.
func (w *Writer) BeginCompound(name string) {
	w.header(TagCompound, name)
}

// EndCompound terminates the innermost open compound. Compound elements of a
// list have no header, so their fields are written directly and closed with
// EndCompound as well.
func (w *Writer) EndCompound() {
	w.buf.WriteByte(TagEnd)
}

func (w *Writer) Byte(name string, v int8) {
	w.header(TagByte, name)
	w.buf.WriteByte(byte(v))
}

func (w *Writer) Short(name string, v int16) {
	w.header(TagShort, name)
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], uint16(v))
	w.buf.Write(b[:])
}

func (w *Writer) Int(name string, v int32) {
	w.header(TagInt, name)
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	w.buf.Write(b[:])
}

func (w *Writer) Long(name string, v int64) {
	w.header(TagLong, name)
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	w.buf.Write(b[:])
}

func (w *Writer) String(name, v string) {
	w.header(TagString, name)
	var n [2]byte
	binary.BigEndian.PutUint16(n[:], uint16(len(v)))
	w.buf.Write(n[:])
	w.buf.WriteString(v)
}

func (w *Writer) ByteArray(name string, v []byte) {
	w.header(TagByteArray, name)
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(v)))
	w.buf.Write(n[:])
	w.buf.Write(v)
}

func (w *Writer) IntArray(name string, v []int32) {
	w.header(TagIntArray, name)
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(len(v)))
	w.buf.Write(b[:])
	for _, x := range v {
		binary.BigEndian.PutUint32(b[:], uint32(x))
		w.buf.Write(b[:])
	}
}

func (w *Writer) LongArray(name string, v []int64) {
	w.header(TagLongArray, name)
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(v)))
	w.buf.Write(n[:])
	var b [8]byte
	for _, x := range v {
		binary.BigEndian.PutUint64(b[:], uint64(x))
		w.buf.Write(b[:])
	}
}

// BeginList opens a named list of n elements of the given tag type. List
// elements are written headerless: compound elements as named fields followed
// by EndCompound, scalar elements via the Raw helpers.
func (w *Writer) BeginList(name string, elem byte, n int) {
	w.header(TagList, name)
	w.buf.WriteByte(elem)
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(n))
	w.buf.Write(b[:])
}

// RawString writes a bare string payload (list element).
func (w *Writer) RawString(v string) {
	var n [2]byte
	binary.BigEndian.PutUint16(n[:], uint16(len(v)))
	w.buf.Write(n[:])
	w.buf.WriteString(v)
}

// RawInt writes a bare int payload (list element).
func (w *Writer) RawInt(v int32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	w.buf.Write(b[:])
}

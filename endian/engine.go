// Package endian provides byte order utilities for binary encoding and decoding.
//
// This package extends Go's standard encoding/binary package by combining
// ByteOrder and AppendByteOrder interfaces into a unified EndianEngine interface.
// valuecodec uses it to pack and unpack fixed-shape numeric tensors
// (intrinsics, pose, position, descriptor) in a byte order fixed by the
// artifact format, independent of host architecture.
//
// # Basic Usage
//
//	import "github.com/vgraph/mapcore/endian"
//
//	engine := endian.GetLittleEndianEngine()
//	v := engine.Uint32(descriptorBytes[i*4 : i*4+4])
//
// # Thread Safety
//
// All functions and methods in this package are safe for concurrent use.
// The returned EndianEngine instances are immutable and stateless.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
//
// This interface is satisfied by binary.LittleEndian and binary.BigEndian from
// the standard library, making it fully compatible with existing Go code while
// providing access to both read/write and append operations.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine. The artifact wire
// format is always little-endian regardless of host architecture, so this
// is the only engine valuecodec ever requests.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

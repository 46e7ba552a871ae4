package dynamo

import (
	"encoding/binary"
	"math"

	"github.com/zeebo/xxh3"
)

// Checksum hashes body positions, pin flags and the live constraint count in
// id order. Two worlds built from the same scene and seed and stepped with
// Step alone hash equal.
func (w *World) Checksum() uint64 {
	h := xxh3.New()
	var buf [17]byte
	for _, b := range w.byID {
		binary.LittleEndian.PutUint64(buf[0:8], math.Float64bits(b.position[0]))
		binary.LittleEndian.PutUint64(buf[8:16], math.Float64bits(b.position[1]))
		buf[16] = 0
		if b.Pinned {
			buf[16] = 1
		}
		h.Write(buf[:])
	}
	binary.LittleEndian.PutUint64(buf[0:8], uint64(len(w.constraints)))
	h.Write(buf[:8])
	return h.Sum64()
}

package sleeve

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

const stlHeaderSize = 80

// WriteSTL writes triangles as a binary STL file. name is stored in the
// header, truncated to fit. color, when a "#rrggbb" string, is written to
// every facet's attribute word using the 15-bit colour convention with the
// valid bit set; otherwise attributes are zero.
func WriteSTL(w io.Writer, name string, triangles []Triangle, color string) error {
	var header [stlHeaderSize]byte
	copy(header[:], name)
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(len(triangles))); err != nil {
		return fmt.Errorf("write triangle count: %w", err)
	}

	attr := stlColor(color)
	// Each record is 12 float32 values plus a uint16 attribute.
	var rec [50]byte
	for i, t := range triangles {
		vals := [12]float32{
			float32(t.Normal.X), float32(t.Normal.Y), float32(t.Normal.Z),
		}
		for v := 0; v < 3; v++ {
			vals[3+v*3] = float32(t.V[v].X)
			vals[4+v*3] = float32(t.V[v].Y)
			vals[5+v*3] = float32(t.V[v].Z)
		}
		for k, f := range vals {
			binary.LittleEndian.PutUint32(rec[k*4:], math.Float32bits(f))
		}
		binary.LittleEndian.PutUint16(rec[48:], attr)
		if _, err := w.Write(rec[:]); err != nil {
			return fmt.Errorf("write triangle %d: %w", i, err)
		}
	}
	return nil
}

// stlColor packs "#rrggbb" into 5-5-5 RGB with bit 15 marking it valid.
func stlColor(s string) uint16 {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return 0
	}
	rgb, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0
	}
	r := uint16(rgb>>16&0xff) >> 3
	g := uint16(rgb>>8&0xff) >> 3
	b := uint16(rgb&0xff) >> 3
	return 1<<15 | r<<10 | g<<5 | b
}

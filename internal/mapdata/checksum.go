package mapdata

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Checksum хеш геометрии карты (вершины и линии); используется как ключ кеша сетки
func (m *Map) Checksum() uint64 {
	d := xxhash.New()

	var buf [8]byte
	for _, v := range m.Vertices {
		binary.LittleEndian.PutUint16(buf[0:], uint16(v.X))
		binary.LittleEndian.PutUint16(buf[2:], uint16(v.Y))
		d.Write(buf[:4])
	}

	// Разделитель, чтобы вершины и линии не склеивались в одинаковый поток
	d.Write([]byte{0xFF, 0xFE})

	for _, l := range m.Lines {
		binary.LittleEndian.PutUint16(buf[0:], l.From)
		binary.LittleEndian.PutUint16(buf[2:], l.To)
		binary.LittleEndian.PutUint16(buf[4:], uint16(l.Flags))
		d.Write(buf[:6])
	}

	return d.Sum64()
}

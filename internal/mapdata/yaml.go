package mapdata

import (
	"fmt"
	"os"
	"strings"

	"github.com/annel0/sector-physics/internal/fixed"
	"gopkg.in/yaml.v3"
)

// yamlMap формат текстовой фикстуры карты
type yamlMap struct {
	Vertices [][2]int16   `yaml:"vertices"`
	Sectors  []yamlSector `yaml:"sectors"`
	Lines    []yamlLine   `yaml:"lines"`
	Reject   [][2]uint16  `yaml:"reject"`
}

type yamlSector struct {
	Floor        int16      `yaml:"floor"`
	Ceiling      int16      `yaml:"ceiling"`
	Friction     *int32     `yaml:"friction"`
	Gravity      *int32     `yaml:"gravity"`
	CeilingLimit int16      `yaml:"ceiling_limit"`
	Flow         [3]float64 `yaml:"flow"`
	Type         string     `yaml:"type"`
	Depth        int16      `yaml:"depth"`
}

type yamlLine struct {
	From  uint16   `yaml:"from"`
	To    uint16   `yaml:"to"`
	Front uint16   `yaml:"front"`
	Back  *uint16  `yaml:"back"`
	Flags []string `yaml:"flags"`
}

var lineFlagNames = map[string]LineFlags{
	"impassable":          LineImpassable,
	"creature_impassable": LineCreatureImpassable,
	"two_sided":           LineTwoSided,
	"translucent":         LineTranslucent,
	"always_solid":        LineAlwaysSolid,
	"invisible":           LineInvisible,
	"automapped":          LineAutomapped,
	"seen":                LineSeen,
}

var sectorTypeNames = map[string]SectorType{
	"":       SectorNormal,
	"normal": SectorNormal,
	"water":  SectorWater,
	"lava":   SectorLava,
}

// LoadYAML читает карту из YAML-файла
func LoadYAML(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения карты %s: %w", path, err)
	}
	return ParseYAML(data)
}

// ParseYAML разбирает карту из YAML
func ParseYAML(data []byte) (*Map, error) {
	var raw yamlMap
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("ошибка разбора карты: %w", err)
	}

	b := NewBuilder()
	for _, v := range raw.Vertices {
		b.m.Vertices = append(b.m.Vertices, Vertex{X: v[0], Y: v[1]})
	}

	for i, s := range raw.Sectors {
		info := DefaultInfo
		if s.Friction != nil {
			info.Friction = *s.Friction
		}
		if s.Gravity != nil {
			info.Gravity = *s.Gravity
		}
		info.CeilingLimit = s.CeilingLimit
		info.FlowX = fixed.FromFloat(s.Flow[0])
		info.FlowY = fixed.FromFloat(s.Flow[1])
		info.FlowZ = fixed.FromFloat(s.Flow[2])
		info.Depth = s.Depth

		st, ok := sectorTypeNames[strings.ToLower(s.Type)]
		if !ok {
			return nil, fmt.Errorf("%w: неизвестный тип сектора %q (сектор %d)", ErrInvalidMap, s.Type, i)
		}
		info.Type = st

		b.Sector(s.Floor, s.Ceiling, info)
	}

	for i, l := range raw.Lines {
		var flags LineFlags
		for _, name := range l.Flags {
			f, ok := lineFlagNames[strings.ToLower(name)]
			if !ok {
				return nil, fmt.Errorf("%w: неизвестный флаг линии %q (линия %d)", ErrInvalidMap, name, i)
			}
			flags |= f
		}

		back := NoSector
		if l.Back != nil {
			back = *l.Back
		}
		b.Line(l.From, l.To, l.Front, back, flags)
	}

	for _, pair := range raw.Reject {
		b.Reject(pair[0], pair[1])
	}

	return b.Build()
}

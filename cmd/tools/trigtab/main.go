package main

import (
	"flag"
	"log"

	"github.com/annel0/sector-physics/internal/trig"
)

func main() {
	var (
		out    = flag.String("out", "trig.tab", "Output table file")
		width  = flag.Int("width", trig.DefaultScreenWidth, "Screen width for the inverse-distance table")
		verify = flag.Bool("verify", true, "Read the file back and compare with the generated tables")
	)
	flag.Parse()

	tables := trig.Build(*width)
	if err := tables.Save(*out); err != nil {
		log.Fatalf("❌ Не удалось записать таблицы: %v", err)
	}
	log.Printf("✅ Таблицы записаны в %s (ширина экрана %d)", *out, *width)

	if !*verify {
		return
	}
	loaded, err := trig.Load(*out, *width)
	if err != nil {
		log.Fatalf("❌ Не удалось прочитать таблицы: %v", err)
	}
	for a := 0; a < trig.Angles; a++ {
		angle := trig.Angle(a)
		if loaded.Sine(angle) != tables.Sine(angle) || loaded.Tangent(angle) != tables.Tangent(angle) ||
			loaded.InverseCosine(angle) != tables.InverseCosine(angle) {
			log.Fatalf("❌ Расхождение таблиц на угле %d", a)
		}
	}
	for dy := int32(-127); dy <= 127; dy++ {
		for dx := int32(-127); dx <= 127; dx++ {
			if loaded.ArcTangent(dy, dx) != tables.ArcTangent(dy, dx) {
				log.Fatalf("❌ Расхождение арктангенса в (%d, %d)", dy, dx)
			}
		}
	}
	log.Printf("✅ Проверка пройдена")
}

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/annel0/sector-physics/internal/logging"
	"github.com/annel0/sector-physics/internal/mapdata"
	"github.com/annel0/sector-physics/internal/world/grid"
	"github.com/dgraph-io/badger/v3"
)

// gridKeyPrefix префикс ключей сеток стен; версия меняется вместе с форматом сетки
const gridKeyPrefix = "wallgrid:v1:"

// GridCache кэш собранных сеток стен в BadgerDB, ключ: контрольная сумма геометрии карты
type GridCache struct {
	db      *badger.DB
	mutex   sync.RWMutex
	isReady bool
}

// OpenGridCache открывает (или создаёт) кэш в каталоге dir
func OpenGridCache(dir string) (*GridCache, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Отключаем логирование BadgerDB

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть BadgerDB: %w", err)
	}
	return &GridCache{db: db, isReady: true}, nil
}

// Close закрывает кэш
func (c *GridCache) Close() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if !c.isReady {
		return nil
	}
	c.isReady = false
	return c.db.Close()
}

func gridKey(sum uint64) []byte {
	return []byte(fmt.Sprintf("%s%016x", gridKeyPrefix, sum))
}

// Store сохраняет сетку под контрольной суммой карты
func (c *GridCache) Store(sum uint64, g *grid.WallGrid) error {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if !c.isReady {
		return fmt.Errorf("хранилище не готово")
	}

	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("ошибка сериализации сетки: %w", err)
	}
	if err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(gridKey(sum), data)
	}); err != nil {
		return fmt.Errorf("ошибка сохранения в BadgerDB: %w", err)
	}
	return nil
}

// Load читает сетку; found == false, если записи нет
func (c *GridCache) Load(sum uint64) (g *grid.WallGrid, found bool, err error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if !c.isReady {
		return nil, false, fmt.Errorf("хранилище не готово")
	}

	var data []byte
	err = c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gridKey(sum))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("ошибка чтения из BadgerDB: %w", err)
	}

	g = &grid.WallGrid{}
	if err := json.Unmarshal(data, g); err != nil {
		return nil, false, fmt.Errorf("ошибка десериализации сетки: %w", err)
	}
	if err := checkGrid(g); err != nil {
		return nil, false, err
	}
	return g, true, nil
}

// WallGrid возвращает сетку стен карты из кэша или строит и сохраняет её.
// На nil-кэше просто строит сетку.
func (c *GridCache) WallGrid(m *mapdata.Map) (*grid.WallGrid, error) {
	if c == nil {
		return grid.BuildWallGrid(m)
	}

	sum := m.Checksum()
	g, found, err := c.Load(sum)
	if err != nil {
		logging.Warn("Кэш сетки %016x повреждён, пересборка: %v", sum, err)
	}
	if found {
		logging.Debug("Сетка стен %016x взята из кэша", sum)
		return g, nil
	}

	g, err = grid.BuildWallGrid(m)
	if err != nil {
		return nil, err
	}
	if err := c.Store(sum, g); err != nil {
		logging.Warn("Не удалось сохранить сетку %016x: %v", sum, err)
	}
	return g, nil
}

// checkGrid проверяет, что списки ячеек не выходят за массив и завершены EndOfList
func checkGrid(g *grid.WallGrid) error {
	if g.Width <= 0 || g.Height <= 0 || len(g.Offsets) != int(g.Width*g.Height) {
		return fmt.Errorf("неверный размер сетки %dx%d (%d ячеек)", g.Width, g.Height, len(g.Offsets))
	}
	for cell, off := range g.Offsets {
		end := int(off)
		for end < len(g.Lists) && g.Lists[end] != grid.EndOfList {
			end++
		}
		if end >= len(g.Lists) {
			return fmt.Errorf("список ячейки %d не завершён", cell)
		}
	}
	return nil
}

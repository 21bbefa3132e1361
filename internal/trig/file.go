package trig

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

// ErrBadTableFile файл таблиц повреждён или имеет чужой формат
var ErrBadTableFile = errors.New("некорректный файл тригонометрических таблиц")

var tableMagic = [4]byte{'S', 'T', 'R', 'G'}

const tableVersion uint16 = 1

// Write сериализует таблицы (без InvDist: она зависит от экрана) в zstd-поток
func (t *Tables) Write(w io.Writer) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return fmt.Errorf("ошибка создания zstd-кодировщика: %w", err)
	}

	bw := bufio.NewWriter(enc)
	parts := []interface{}{tableMagic, tableVersion, t.sin, t.tan, t.invCos, t.atan}
	for _, part := range parts {
		if err := binary.Write(bw, binary.LittleEndian, part); err != nil {
			enc.Close()
			return fmt.Errorf("ошибка записи таблиц: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return fmt.Errorf("ошибка записи таблиц: %w", err)
	}
	return enc.Close()
}

// Read загружает таблицы из zstd-потока и строит InvDist под указанную ширину экрана
func Read(r io.Reader, screenWidth int) (*Tables, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания zstd-декодера: %w", err)
	}
	defer dec.Close()

	br := bufio.NewReader(dec)

	var magic [4]byte
	var version uint16
	if err := binary.Read(br, binary.LittleEndian, &magic); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadTableFile, err)
	}
	if magic != tableMagic {
		return nil, fmt.Errorf("%w: неверная сигнатура %q", ErrBadTableFile, magic[:])
	}
	if err := binary.Read(br, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadTableFile, err)
	}
	if version != tableVersion {
		return nil, fmt.Errorf("%w: версия %d не поддерживается", ErrBadTableFile, version)
	}

	t := &Tables{}
	for _, part := range []interface{}{&t.sin, &t.tan, &t.invCos, &t.atan} {
		if err := binary.Read(br, binary.LittleEndian, part); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadTableFile, err)
		}
	}

	t.SetScreenWidth(screenWidth)
	return t, nil
}

// Load читает файл таблиц с диска
func Load(path string, screenWidth int) (*Tables, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия файла таблиц %s: %w", path, err)
	}
	defer f.Close()

	return Read(f, screenWidth)
}

// Save записывает таблицы в файл
func (t *Tables) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("ошибка создания файла таблиц %s: %w", path, err)
	}

	if err := t.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

package logging

import (
	"errors"
	"fmt"
	"os"
	"sync"
)

// Компоненты симуляции с собственными файлами логов
const (
	ComponentWorld = "world"
	ComponentSim   = "sim"
)

// Factory создаёт логгер компонента
type Factory func(component string) (*Logger, error)

// Manager выдаёт логгеры компонентов с общими уровнями консоли и файла.
// Уровни, заданные через SetLevels, применяются и к уже открытым логгерам.
type Manager struct {
	mu      sync.Mutex
	loggers map[string]*Logger
	create  Factory
	console LogLevel
	file    LogLevel
}

// NewManager создаёт менеджер; nil factory означает файловые логгеры NewLogger
func NewManager(create Factory) *Manager {
	if create == nil {
		create = NewLogger
	}
	return &Manager{
		loggers: make(map[string]*Logger),
		create:  create,
		console: INFO,
		file:    TRACE,
	}
}

var components = NewManager(nil)

// Components менеджер логгеров процесса
func Components() *Manager {
	return components
}

// SetLevels задаёт уровни всем открытым и будущим логгерам
func (m *Manager) SetLevels(console, file LogLevel) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.console, m.file = console, file
	for _, l := range m.loggers {
		l.SetLevels(console, file)
	}
}

// Open открывает логгер компонента (повторный вызов возвращает тот же логгер)
func (m *Manager) Open(component string) (*Logger, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if l, ok := m.loggers[component]; ok {
		return l, nil
	}
	l, err := m.create(component)
	if err != nil {
		return nil, fmt.Errorf("логгер компонента %s: %w", component, err)
	}
	l.SetLevels(m.console, m.file)
	m.loggers[component] = l
	return l, nil
}

// Get как Open, но при ошибке возвращает консольный логгер без файла
func (m *Manager) Get(component string) *Logger {
	l, err := m.Open(component)
	if err == nil {
		return l
	}
	Warn("%v, пишем только в консоль", err)

	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.loggers[component]; ok {
		return l
	}
	l = NewWriterLogger(component, os.Stdout, m.console)
	m.loggers[component] = l
	return l
}

// CloseAll закрывает все логгеры; менеджер можно использовать дальше
func (m *Manager) CloseAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for component, l := range m.loggers {
		if err := l.Close(); err != nil {
			errs = append(errs, fmt.Errorf("закрытие логгера %s: %w", component, err))
		}
	}
	m.loggers = make(map[string]*Logger)
	return errors.Join(errs...)
}

// WorldLogger логгер реестра объектов
func WorldLogger() *Logger {
	return components.Get(ComponentWorld)
}

// SimLogger логгер цикла симуляции
func SimLogger() *Logger {
	return components.Get(ComponentSim)
}

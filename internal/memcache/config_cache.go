// Package memcache предоставляет in-memory эталонные реализации всех
// внешних портов поллера (ports.ConfigCache, ports.Preprocessor,
// ports.AvailabilityBus, ports.RTC, ports.MacroExpander) — удобные для
// тестов и для демонстрационного запуска без внешней БД/IPC, построенные
// по образцу internal/health_storage/status_cache.go (mutex + map, без
// внешних зависимостей).
package memcache

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/trsv-dev/zbxpoller/internal/models"
)

type scheduledItem struct {
	item      models.Item
	nextCheck int64
}

// ConfigCache In-memory реализация ports.ConfigCache. Не претендует на
// производительность реального конфигурационного кэша — это справочная
// реализация для тестов/демо, как health_storage.StatusCache у учителя.
type ConfigCache struct {
	mu    sync.Mutex
	items map[int64]*scheduledItem
	// pollerOf определяет, какому типу поллера принадлежит элемент — в
	// реальном ConfigCache это решают таблицы конфигурации; здесь элемент
	// сам сообщает об этом при добавлении.
	pollerOf map[int64]models.PollerType
	delays   map[int64]int64 // itemid -> период опроса в секундах
}

// NewConfigCache Создаёт пустой кэш.
func NewConfigCache() *ConfigCache {
	return &ConfigCache{
		items:    make(map[int64]*scheduledItem),
		pollerOf: make(map[int64]models.PollerType),
		delays:   make(map[int64]int64),
	}
}

// Add Регистрирует элемент в кэше с заданным периодом опроса (секунды) и
// временем первой проверки.
func (c *ConfigCache) Add(item models.Item, pollerType models.PollerType, delaySeconds, firstCheck int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[item.ItemID] = &scheduledItem{item: item, nextCheck: firstCheck}
	c.pollerOf[item.ItemID] = pollerType
	c.delays[item.ItemID] = delaySeconds
}

// FetchDue Возвращает элементы данного типа поллера, чей nextcheck уже
// наступил, в порядке возрастания itemid (детерминизм ради
// воспроизводимых тестов), числом не более models.MaxPollerItems.
func (c *ConfigCache) FetchDue(_ context.Context, pollerType models.PollerType, _ time.Duration) ([]models.Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now().Unix()
	var due []int64
	for id, s := range c.items {
		if c.pollerOf[id] == pollerType && s.nextCheck <= now {
			due = append(due, id)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i] < due[j] })

	if len(due) > models.MaxPollerItems {
		due = due[:models.MaxPollerItems]
	}

	out := make([]models.Item, 0, len(due))
	for _, id := range due {
		out = append(out, c.items[id].item.Clone())
	}
	return out, nil
}

// NextCheck Возвращает наименьший nextcheck среди всех элементов данного
// типа поллера, или now+60 если ничего не запланировано.
func (c *ConfigCache) NextCheck(_ context.Context, pollerType models.PollerType) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var min int64
	found := false
	for id, s := range c.items {
		if c.pollerOf[id] != pollerType {
			continue
		}
		if !found || s.nextCheck < min {
			min, found = s.nextCheck, true
		}
	}
	if !found {
		return time.Now().Unix() + 60, nil
	}
	return min, nil
}

// Requeue Сдвигает nextcheck элемента на tsSec + его период опроса и
// возвращает новое значение.
func (c *ConfigCache) Requeue(_ context.Context, itemID int64, tsSec int64, _ models.ErrCode, _ models.PollerType) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.items[itemID]
	if !ok {
		return 0, nil
	}
	delay := c.delays[itemID]
	if delay <= 0 {
		delay = 60
	}
	s.nextCheck = tsSec + delay
	return s.nextCheck, nil
}

// CleanItems Не освобождает ничего — элементы остаются в кэше до явного
// удаления; существует только чтобы реализовать ports.ConfigCache
// полностью.
func (c *ConfigCache) CleanItems(_ context.Context, _ []models.Item) error {
	return nil
}

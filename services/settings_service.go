package services

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/brijaao-ops/brilhoessenza-sub000/config"
	"github.com/brijaao-ops/brilhoessenza-sub000/models"
)

// Well-known setting keys.
const (
	SettingStoreName        = "store_name"
	SettingBusinessWhatsapp = "business_whatsapp"
	SettingCurrency         = "currency"
	SettingDeliveryFee      = "delivery_fee"
	SettingPayMulticaixa    = "payments_multicaixa_enabled"
	SettingPayCash          = "payments_cash_enabled"
	SettingPayTransfer      = "payments_transfer_enabled"
	SettingPayExpress       = "payments_express_enabled"
	SettingReturnPolicy     = "return_policy"
)

// defaultSettings seed the store on first boot.
var defaultSettings = map[string]string{
	SettingStoreName:        "Brilho Essenza",
	SettingBusinessWhatsapp: "923000000",
	SettingCurrency:         "Kz",
	SettingDeliveryFee:      "1500",
	SettingPayMulticaixa:    "true",
	SettingPayCash:          "true",
	SettingPayTransfer:      "true",
	SettingPayExpress:       "false",
	SettingReturnPolicy:     "Trocas até 7 dias com embalagem selada.",
}

// ErrSettingNotFound is returned when a key exists neither in cache nor DB.
var ErrSettingNotFound = errors.New("setting not found")

// SettingsCache is a read-through, write-through cache over the app_settings
// table. The database is the source of truth; the cache exists so hot paths
// (message composition, storefront reads) avoid a round trip. Refresh() is
// called on boot; concurrent misses for the same key collapse via
// singleflight.
type SettingsCache struct {
	mu     sync.RWMutex
	values map[string]string
	group  singleflight.Group
}

var settingsCacheInstance *SettingsCache

// InitSettingsCache seeds defaults for missing keys, loads the table into
// memory and installs the global cache instance.
func InitSettingsCache() (*SettingsCache, error) {
	cache := &SettingsCache{values: make(map[string]string)}
	if err := cache.seedDefaults(); err != nil {
		return nil, err
	}
	if err := cache.Refresh(); err != nil {
		return nil, err
	}
	settingsCacheInstance = cache
	return cache, nil
}

// GetSettingsCache returns the global settings cache instance
func GetSettingsCache() *SettingsCache {
	return settingsCacheInstance
}

// SetSettingsCache sets the cache instance (primarily for testing)
func SetSettingsCache(cache *SettingsCache) {
	settingsCacheInstance = cache
}

// NewSettingsCache builds an empty cache without installing it globally.
func NewSettingsCache() *SettingsCache {
	return &SettingsCache{values: make(map[string]string)}
}

func (s *SettingsCache) seedDefaults() error {
	db := config.GetDB()
	var count int64
	if err := db.Model(&models.AppSetting{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count settings: %w", err)
	}
	if count > 0 {
		return nil
	}
	for key, value := range defaultSettings {
		if err := db.Create(&models.AppSetting{Key: key, Value: value}).Error; err != nil {
			return fmt.Errorf("failed to seed setting %s: %w", key, err)
		}
	}
	return nil
}

// Refresh reloads every row from the database, replacing the cached copy.
func (s *SettingsCache) Refresh() error {
	var rows []models.AppSetting
	if err := config.GetDB().Find(&rows).Error; err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	fresh := make(map[string]string, len(rows))
	for _, row := range rows {
		fresh[row.Key] = row.Value
	}

	s.mu.Lock()
	s.values = fresh
	s.mu.Unlock()
	return nil
}

// Get serves a key from memory, loading through to the database on a miss.
func (s *SettingsCache) Get(key string) (string, error) {
	s.mu.RLock()
	value, ok := s.values[key]
	s.mu.RUnlock()
	if ok {
		return value, nil
	}

	loaded, err, _ := s.group.Do(key, func() (interface{}, error) {
		var row models.AppSetting
		if err := config.GetDB().First(&row, "key = ?", key).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", ErrSettingNotFound
			}
			return "", fmt.Errorf("failed to load setting %s: %w", key, err)
		}
		s.mu.Lock()
		s.values[row.Key] = row.Value
		s.mu.Unlock()
		return row.Value, nil
	})
	if err != nil {
		return "", err
	}
	return loaded.(string), nil
}

// GetOrDefault returns the value for key, or fallback when it is missing.
func (s *SettingsCache) GetOrDefault(key, fallback string) string {
	value, err := s.Get(key)
	if err != nil {
		return fallback
	}
	return value
}

// GetAll returns a copy of every cached setting.
func (s *SettingsCache) GetAll() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Set writes through: the database row first, then the cached copy.
func (s *SettingsCache) Set(key, value string) error {
	db := config.GetDB()
	setting := models.AppSetting{Key: key, Value: value}
	if err := db.Save(&setting).Error; err != nil {
		return fmt.Errorf("failed to save setting %s: %w", key, err)
	}

	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
	return nil
}

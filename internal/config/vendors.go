package config

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// VendorSignature is the raw, file-loadable form of one extractor table entry.
// Patterns are Go regexp syntax; NamePattern is matched case-insensitively.
type VendorSignature struct {
	ID           string `mapstructure:"id"`
	NamePattern  string `mapstructure:"namePattern"`
	PricePattern string `mapstructure:"pricePattern"`
	Category     string `mapstructure:"category"`
	DisplayName  string `mapstructure:"displayName"`
}

// VendorConfig is the extractor override section of subsense.yml.
// An empty Vendors slice means "use the built-in table".
type VendorConfig struct {
	Vendors []VendorSignature `mapstructure:"vendors"`
}

// VendorConfigHolder exposes the current vendor table and hot-reloads it when
// subsense.yml changes on disk. Invalid updates are ignored and the previous
// table kept.
type VendorConfigHolder struct {
	current atomic.Value // holds VendorConfig
}

func NewVendorConfigHolder() (*VendorConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("subsense")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/subsense/config") // Volume-mounted config
	v.AddConfigPath("/etc/subsense")            // System config
	v.AddConfigPath(".")                        // Current directory (dev mode)

	v.SetEnvPrefix("SUBSENSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	holder := &VendorConfigHolder{}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		holder.current.Store(VendorConfig{})
		return holder, nil
	}

	var cfg VendorConfig
	if err := v.UnmarshalKey("extractor", &cfg); err != nil {
		return nil, err
	}
	if err := validateVendorConfig(cfg); err != nil {
		return nil, err
	}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated VendorConfig
		if err := v.UnmarshalKey("extractor", &updated); err != nil {
			log.Printf("[vendor-config] reload failed: %v", err)
			return
		}
		if err := validateVendorConfig(updated); err != nil {
			log.Printf("[vendor-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[vendor-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *VendorConfigHolder) Get() VendorConfig {
	return h.current.Load().(VendorConfig)
}

func validateVendorConfig(cfg VendorConfig) error {
	for i, sig := range cfg.Vendors {
		if strings.TrimSpace(sig.ID) == "" {
			return fmt.Errorf("extractor.vendors[%d]: id is required", i)
		}
		if strings.TrimSpace(sig.DisplayName) == "" {
			return fmt.Errorf("extractor.vendors[%d]: displayName is required", i)
		}
		if _, err := regexp.Compile("(?i)" + sig.NamePattern); err != nil {
			return fmt.Errorf("extractor.vendors[%d]: bad namePattern: %w", i, err)
		}
		if _, err := regexp.Compile(sig.PricePattern); err != nil {
			return fmt.Errorf("extractor.vendors[%d]: bad pricePattern: %w", i, err)
		}
		if !strings.Contains(sig.PricePattern, "(") {
			return errors.New("pricePattern must contain a capture group for the amount")
		}
	}
	return nil
}

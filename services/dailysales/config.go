package dailysales

import (
	"fmt"
	"os"

	configlibsql "salespipe-backend/lib/configutil/libsql"
)

// ConfigError means a required configuration value is missing.
type ConfigError struct {
	Key string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing required config value: %s", e.Key)
}

// ChannelConfig describes one scraper script. PerBrand channels log
// into a per-brand account and are invoked once per brand with
// `--profile <brand key>`, the rest report every brand in a single
// invocation.
type ChannelConfig struct {
	Name     string   `json:"name"`
	Script   string   `json:"script"`
	PerBrand bool     `json:"per_brand"`
	Args     []string `json:"args"`
}

// BrandConfig binds a brand to its worksheet and to the sales channels
// that apply to it. Channel order decides the column pairs: first
// channel lands in B-C, second in D-E, third in F-G.
type BrandConfig struct {
	Key         string   `json:"key"`
	Worksheet   string   `json:"worksheet"`
	NativeNames []string `json:"native_names"`
	Channels    []string `json:"channels"`
	Ads         bool     `json:"ads"`
}

func (b BrandConfig) Brand() Brand {
	return Brand{Key: b.Key, NativeNames: b.NativeNames}
}

func (b BrandConfig) usesChannel(name string) bool {
	for _, ch := range b.Channels {
		if ch == name {
			return true
		}
	}
	return false
}

type SmtpConfig struct {
	Server       string   `json:"server"`
	Port         int      `json:"port"`
	EmailAddress string   `json:"email_address"`
	Password     string   `json:"password"`
	Notify       []string `json:"notify"`
}

func (c SmtpConfig) Enabled() bool {
	return c.Server != "" && len(c.Notify) > 0
}

type Config struct {
	Spreadsheet     string `json:"spreadsheet"`
	CredentialsFile string `json:"credentials_file"`
	// Interpreter runs the scraper scripts, defaults to "python".
	Interpreter string `json:"interpreter"`
	// TempDir is forced onto the children as TEMP/TMP.
	TempDir       string             `json:"temp_dir"`
	SalesChannels []ChannelConfig    `json:"sales_channels"`
	AdsChannel    *ChannelConfig     `json:"ads_channel"`
	Brands        []BrandConfig      `json:"brands"`
	Database      configlibsql.Struct `json:"database"`
	Smtp          SmtpConfig         `json:"smtp"`
}

// ResolveCredentialsFile returns the service account key path, the
// GOOGLE_SA_JSON environment variable wins over the config file.
func (c Config) ResolveCredentialsFile() string {
	if env := os.Getenv("GOOGLE_SA_JSON"); env != "" {
		return env
	}
	return c.CredentialsFile
}

func (c Config) channel(name string) *ChannelConfig {
	for i := range c.SalesChannels {
		if c.SalesChannels[i].Name == name {
			return &c.SalesChannels[i]
		}
	}
	return nil
}

func (c Config) Validate() error {
	if c.Spreadsheet == "" {
		return &ConfigError{Key: "spreadsheet"}
	}
	if c.ResolveCredentialsFile() == "" {
		return &ConfigError{Key: "credentials_file (or GOOGLE_SA_JSON)"}
	}
	if len(c.SalesChannels) == 0 {
		return &ConfigError{Key: "sales_channels"}
	}
	if len(c.Brands) == 0 {
		return &ConfigError{Key: "brands"}
	}

	for _, ch := range c.SalesChannels {
		if ch.Name == "" {
			return &ConfigError{Key: "sales_channels[].name"}
		}
		if ch.Script == "" {
			return &ConfigError{Key: fmt.Sprintf("sales_channels[%s].script", ch.Name)}
		}
	}
	if c.AdsChannel != nil && c.AdsChannel.Script == "" {
		return &ConfigError{Key: "ads_channel.script"}
	}

	for _, brand := range c.Brands {
		if brand.Key == "" {
			return &ConfigError{Key: "brands[].key"}
		}
		if brand.Worksheet == "" {
			return &ConfigError{Key: fmt.Sprintf("brands[%s].worksheet", brand.Key)}
		}
		if len(brand.Channels) > maxChannelPairs {
			return fmt.Errorf(
				"brand %s: at most %d sales channels fit in columns B-G",
				brand.Key, maxChannelPairs,
			)
		}
		for _, name := range brand.Channels {
			if c.channel(name) == nil {
				return fmt.Errorf("brand %s references unknown channel %s", brand.Key, name)
			}
		}
		if brand.Ads && c.AdsChannel == nil {
			return fmt.Errorf("brand %s wants ads but no ads_channel is configured", brand.Key)
		}
	}
	return nil
}

// Package config loads slotwatch settings from json5 files and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/joho/godotenv"
	"github.com/titanous/json5"
)

// Notifier kinds
const (
	NotifierDiscord = "discord"
	NotifierEmail   = "email"
	NotifierLog     = "log"
)

// Selectors locates the form controls of the booking flow
type Selectors struct {
	Category        string `json:"category"`
	Subcategory     string `json:"subcategory"`
	District        string `json:"district"`
	Location        string `json:"location"`
	AttendancePlace string `json:"attendance_place"`
}

// Site describes the booking flow the scan walks through
type Site struct {
	EntryURL    string `json:"entry_url"`
	EntityTitle string `json:"entity_title"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`

	Selectors Selectors `json:"selectors"`

	NextLink              string `json:"next_link"`
	PreviousLink          string `json:"previous_link"`
	NoAppointmentsHeading string `json:"no_appointments_heading"`

	// URL fragments of the backend requests that populate dependent lists
	LocationsEndpoint        string `json:"locations_endpoint"`
	AttendancePlacesEndpoint string `json:"attendance_places_endpoint"`
}

// Browser configures the Chrome instance
type Browser struct {
	Headful       bool     `json:"headful"`
	ExecPath      string   `json:"exec_path"`
	UserAgent     string   `json:"user_agent"`
	ActionTimeout Duration `json:"action_timeout"`
}

// Report configures the notification message
type Report struct {
	Header        string `json:"header"`
	EmptyTemplate string `json:"empty_template"`
	TimeZone      string `json:"time_zone"`
	NotifyOnEmpty bool   `json:"notify_on_empty"`
}

// Discord holds the bot credentials and target channel
type Discord struct {
	BaseURL   string `json:"base_url"`
	Token     string `json:"-"`
	ChannelID string `json:"channel_id"`
}

// Email holds SMTP delivery settings
type Email struct {
	Server   string   `json:"server"`
	Port     int      `json:"port"`
	Username string   `json:"username"`
	Password string   `json:"-"`
	From     string   `json:"from"`
	To       []string `json:"to"`
	Subject  string   `json:"subject"`
}

// Notifier selects and configures the delivery channel
type Notifier struct {
	Kind    string   `json:"kind"`
	Timeout Duration `json:"timeout"`
	Discord Discord  `json:"discord"`
	Email   Email    `json:"email"`
}

// Watch configures the recurring trigger
type Watch struct {
	Schedule string `json:"schedule"`
}

// Config is the full slotwatch configuration
type Config struct {
	Site     Site     `json:"site"`
	Browser  Browser  `json:"browser"`
	Report   Report   `json:"report"`
	Notifier Notifier `json:"notifier"`
	Watch    Watch    `json:"watch"`
}

// Duration decodes "30s"-style strings
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"'`)
	if s == "" || s == "null" {
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = v
	return nil
}

// Default returns the settings for the residence-permit renewal flow
func Default() Config {
	return Config{
		Site: Site{
			EntryURL:    "https://siga.marcacaodeatendimento.pt/Marcacao/Entidades",
			EntityTitle: "IRN Registo",
			Category:    "Citizen",
			Subcategory: "Residence permit",
			Selectors: Selectors{
				Category:        "#IdCategoria",
				Subcategory:     "#IdSubcategoria",
				District:        "#IdDistrito",
				Location:        "#IdLocalidade",
				AttendancePlace: "#IdLocalAtendimento",
			},
			NextLink:                 "Next",
			PreviousLink:             "Previous",
			NoAppointmentsHeading:    "There are no appointment",
			LocationsEndpoint:        "/Marcacao/PesquisaLocalidades",
			AttendancePlacesEndpoint: "/Marcacao/PesquisaLocalAtendimento",
		},
		Browser: Browser{
			ActionTimeout: Duration{30 * time.Second},
		},
		Report: Report{
			Header:        "Appointments available:",
			EmptyTemplate: "Unfortunately, there are no appointments available for this time: {{.Timestamp}}",
			TimeZone:      "Europe/Lisbon",
		},
		Notifier: Notifier{
			Kind:    NotifierDiscord,
			Timeout: Duration{15 * time.Second},
			Discord: Discord{
				BaseURL: "https://discord.com/api/v10",
			},
			Email: Email{
				Port:    587,
				Subject: "Appointment slots available",
			},
		},
		Watch: Watch{
			Schedule: "*/5 * * * *",
		},
	}
}

func splitExt(f string) (string, string) {
	ext := filepath.Ext(f)
	return strings.TrimSuffix(f, ext), ext
}

// Load builds the configuration from defaults, then <name> and then
// <name-stem>.local.<ext>, each overriding the previous. Missing files are
// skipped. Secrets are read from the environment afterwards.
func Load(name string) (Config, error) {
	out := Default()

	stem, ext := splitExt(name)
	for _, path := range []string{name, stem + ".local" + ext} {
		if err := mergeFile(&out, path); err != nil {
			return out, err
		}
	}

	applyEnv(&out)
	return out, nil
}

func mergeFile(dst *Config, path string) error {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if len(raw) == 0 {
		return nil
	}

	var override Config
	if err := json5.Unmarshal(raw, &override); err != nil {
		return fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	if err := mergo.Merge(dst, override, mergo.WithOverride); err != nil {
		return fmt.Errorf("failed to merge config %s: %w", path, err)
	}
	return nil
}

// LoadEnv loads a dotenv file into the process environment. A missing
// file is not an error; variables already set are kept.
func LoadEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func applyEnv(c *Config) {
	if v := firstEnv("DISCORD_TOKEN", "CLIENT_TOKEN"); v != "" {
		c.Notifier.Discord.Token = v
	}
	if v := os.Getenv("DISCORD_CHANNEL_ID"); v != "" {
		c.Notifier.Discord.ChannelID = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		c.Notifier.Email.Password = v
	}
	if v := os.Getenv("SLOTWATCH_NOTIFIER"); v != "" {
		c.Notifier.Kind = v
	}
}

// Validate checks the configuration for the selected notifier
func (c Config) Validate() error {
	if c.Site.EntryURL == "" {
		return ErrNoEntryURL
	}
	if c.Browser.ActionTimeout.Duration <= 0 {
		return ErrInvalidTimeout
	}
	if _, err := time.LoadLocation(c.Report.TimeZone); err != nil {
		return fmt.Errorf("%w: %q", ErrUnknownTimeZone, c.Report.TimeZone)
	}
	if c.Watch.Schedule == "" {
		return ErrInvalidSchedule
	}

	switch c.Notifier.Kind {
	case NotifierDiscord:
		if c.Notifier.Discord.Token == "" {
			return ErrMissingDiscordToken
		}
		if c.Notifier.Discord.ChannelID == "" {
			return ErrMissingDiscordChannel
		}
	case NotifierEmail:
		e := c.Notifier.Email
		if e.Server == "" || e.From == "" || len(e.To) == 0 {
			return ErrMissingEmailRecipients
		}
	case NotifierLog:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownNotifier, c.Notifier.Kind)
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/cloud-ru/pension-calculator-go/internal/validators"
	"github.com/cloud-ru/pension-calculator-go/pkg/utils"
)

// Config содержит конфигурацию калькулятора
type Config struct {
	Port            int           `env:"PORT" envDefault:"8000"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	CurrencySymbol  string        `env:"CURRENCY_SYMBOL" envDefault:"£"`
	Locale          string        `env:"LOCALE" envDefault:"en-GB"`
	Rates           []float64     `env:"SCENARIO_RATES" envSeparator:"," envDefault:"0.04,0.06,0.08"`
	ScenariosFile   string        `env:"SCENARIOS_FILE"`
	OTELEndpoint    string        `env:"OTEL_ENDPOINT"`
	OTELServiceName string        `env:"OTEL_SERVICE_NAME" envDefault:"pension-calculator"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"INFO"`

	// Defaults не читается из окружения, только из файла сценариев
	Defaults InputDefaults
}

// InputDefaults содержит значения полей формы после сброса
type InputDefaults struct {
	CurrentAge     float64 `yaml:"current_age"`
	RetirementAge  float64 `yaml:"retirement_age"`
	WorkPension    float64 `yaml:"work_pension"`
	ISA            float64 `yaml:"isa"`
	SIPP           float64 `yaml:"sipp"`
	PeriodsPerYear int     `yaml:"periods_per_year"`
}

// ScenariosFile описывает YAML-файл сценариев
type ScenariosFile struct {
	Rates    []float64      `yaml:"rates"`
	Defaults *InputDefaults `yaml:"defaults"`
}

func builtinDefaults() InputDefaults {
	return InputDefaults{
		CurrentAge:     35,
		RetirementAge:  68,
		WorkPension:    3000,
		ISA:            2000,
		SIPP:           1500,
		PeriodsPerYear: 1,
	}
}

// LoadConfig загружает конфигурацию из переменных окружения и, если задан
// SCENARIOS_FILE, из файла сценариев
func LoadConfig() (*Config, error) {
	// Загружаем .env файл, если он существует (игнорируем ошибку)
	_ = godotenv.Load()

	cfg := &Config{Defaults: builtinDefaults()}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.ScenariosFile != "" {
		if err := cfg.applyScenariosFile(cfg.ScenariosFile); err != nil {
			return nil, err
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyScenariosFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read scenarios file: %w", err)
	}

	// Поля, отсутствующие в секции defaults, сохраняют текущие значения
	defaults := c.Defaults
	file := ScenariosFile{Defaults: &defaults}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse scenarios file %s: %w", path, err)
	}

	if len(file.Rates) > 0 {
		c.Rates = file.Rates
	}
	if file.Defaults != nil {
		c.Defaults = *file.Defaults
	}
	return nil
}

func (c *Config) validate() error {
	if len(c.Rates) == 0 {
		return fmt.Errorf("scenario rates: at least one rate is required")
	}
	for _, rate := range c.Rates {
		if !utils.IsFinite(rate) || rate < 0 {
			return fmt.Errorf("scenario rates: rate %v must be a non-negative number", rate)
		}
	}
	if err := c.Defaults.validate(); err != nil {
		return fmt.Errorf("scenario defaults: %w", err)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port: %d is out of range", c.Port)
	}
	return nil
}

func (d InputDefaults) validate() error {
	if _, err := validators.CheckAges(d.CurrentAge, d.RetirementAge); err != nil {
		return err
	}
	for _, amount := range []float64{d.WorkPension, d.ISA, d.SIPP} {
		if !utils.IsFinite(amount) || amount < 0 {
			return fmt.Errorf("contribution %v must be a non-negative number", amount)
		}
	}
	if d.PeriodsPerYear != validators.PeriodsAnnual && d.PeriodsPerYear != validators.PeriodsMonthly {
		return fmt.Errorf("periods_per_year %d must be %d or %d",
			d.PeriodsPerYear, validators.PeriodsAnnual, validators.PeriodsMonthly)
	}
	return nil
}

// Addr возвращает адрес для прослушивания
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

package sweep

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/valpere/transeval/internal"
)

// Plan describes one sweep: which models run on which language pairs, where
// corpora come from and where the report goes.
type Plan struct {
	Models  []string    `mapstructure:"models"`
	Pairs   []string    `mapstructure:"pairs"`
	Dataset DatasetPlan `mapstructure:"dataset"`
	Report  string      `mapstructure:"report"`
}

type DatasetPlan struct {
	Dir   string `mapstructure:"dir"`
	Limit int    `mapstructure:"limit"`
}

const (
	defaultReport = "reports/evaluation_report.csv"
	defaultLimit  = 1000
)

// SetDefaults registers plan defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("models", DefaultModels)
	v.SetDefault("pairs", []string{"de-en"})
	v.SetDefault("dataset.dir", "data")
	v.SetDefault("dataset.limit", defaultLimit)
	v.SetDefault("report", defaultReport)
}

// LoadPlan reads a YAML (or any viper-supported) plan file. An empty path
// returns the defaults.
func LoadPlan(path string) (Plan, error) {
	v := viper.New()
	SetDefaults(v)
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Plan{}, fmt.Errorf("read sweep plan: %w", err)
		}
	}
	return PlanFrom(v)
}

// PlanFrom decodes and validates a plan from v.
func PlanFrom(v *viper.Viper) (Plan, error) {
	var p Plan
	if err := v.Unmarshal(&p); err != nil {
		return Plan{}, fmt.Errorf("decode sweep plan: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Plan{}, err
	}
	return p, nil
}

func (p Plan) Validate() error {
	if len(p.Models) == 0 {
		return internal.Validationf("sweep plan names no models")
	}
	if len(p.Pairs) == 0 {
		return internal.Validationf("sweep plan names no language pairs")
	}
	if _, err := p.LanguagePairs(); err != nil {
		return err
	}
	if strings.TrimSpace(p.Report) == "" {
		return internal.Validationf("sweep plan has no report destination")
	}
	return nil
}

// LanguagePairs parses the plan's "src-tgt" entries.
func (p Plan) LanguagePairs() ([]internal.LanguagePair, error) {
	pairs := make([]internal.LanguagePair, 0, len(p.Pairs))
	for _, raw := range p.Pairs {
		pair, err := internal.ParseLanguagePair(raw)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}

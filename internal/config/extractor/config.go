// Package extractor holds the detail-page selectors and field rules.
package extractor

import (
	"fmt"

	"github.com/tknemuru/kindergarten-collecting/internal/config/types"
)

// Extraction strategies for a labelled row.
const (
	// StrategyPreText reads the text of a <pre> block.
	StrategyPreText = "pre_text"
	// StrategyLinkHref reads the href of the row's link.
	StrategyLinkHref = "link_href"
	// StrategyPreTextWithLink reads the <pre> text and stores a link href in a second field.
	StrategyPreTextWithLink = "pre_text_with_link"
)

// Default selectors and titles.
const (
	DefaultNameField     = "kinderName"
	DefaultNameTitle     = "保育施設名"
	DefaultNameSelector  = ".subsubtitle"
	DefaultRowSelector   = ".map tr"
	DefaultLabelSelector = "th > a"
	DefaultValueSelector = "td > pre"

	DefaultAddressLabel         = "住所"
	DefaultAddressValueSelector = "td > div > pre"
	DefaultAddressLinkSelector  = "td > div > a"
	DefaultAddressMapField      = "addressMap"
	DefaultAddressMapTitle      = "住所の地図"

	DefaultURLLabel        = "URL"
	DefaultURLLinkSelector = "td > a"
)

// Rule binds a row label to an extraction strategy.
type Rule struct {
	// Label is matched exactly against the row header text.
	Label string `yaml:"label"`
	// Strategy is one of pre_text, link_href, pre_text_with_link.
	Strategy string `yaml:"strategy"`
	// ValueSelector locates the <pre> block inside the row.
	ValueSelector string `yaml:"value_selector"`
	// LinkSelector locates the link inside the row.
	LinkSelector string `yaml:"link_selector"`
	// LinkField is the identifier of the secondary field (pre_text_with_link only).
	LinkField string `yaml:"link_field"`
	// LinkTitle is the column title of the secondary field.
	LinkTitle string `yaml:"link_title"`
}

// Config represents the detail extraction configuration.
type Config struct {
	// NameField is the identifier of the leading facility-name column.
	NameField string `env:"EXTRACTOR_NAME_FIELD" yaml:"name_field"`
	// NameTitle is the title of the leading facility-name column.
	NameTitle string `env:"EXTRACTOR_NAME_TITLE" yaml:"name_title"`
	// NameSelector locates the facility name.
	NameSelector string `env:"EXTRACTOR_NAME_SELECTOR" yaml:"name_selector"`
	// RowSelector locates the label/value rows.
	RowSelector string `env:"EXTRACTOR_ROW_SELECTOR" yaml:"row_selector"`
	// LabelSelector locates the label inside a row.
	LabelSelector string `env:"EXTRACTOR_LABEL_SELECTOR" yaml:"label_selector"`
	// ValueSelector locates the value of rows without a specific rule.
	ValueSelector string `env:"EXTRACTOR_VALUE_SELECTOR" yaml:"value_selector"`
	// TrimSpace trims surrounding whitespace from every value.
	TrimSpace bool `env:"EXTRACTOR_TRIM_SPACE" yaml:"trim_space"`
	// Rules maps specific labels to strategies; the first matching rule wins.
	Rules []Rule `yaml:"rules"`
}

// New returns an extractor configuration with default values.
func New() Config {
	return Config{
		NameField:     DefaultNameField,
		NameTitle:     DefaultNameTitle,
		NameSelector:  DefaultNameSelector,
		RowSelector:   DefaultRowSelector,
		LabelSelector: DefaultLabelSelector,
		ValueSelector: DefaultValueSelector,
		Rules:         DefaultRules(),
	}
}

// DefaultRules returns the address and URL rules.
func DefaultRules() []Rule {
	return []Rule{
		{
			Label:         DefaultAddressLabel,
			Strategy:      StrategyPreTextWithLink,
			ValueSelector: DefaultAddressValueSelector,
			LinkSelector:  DefaultAddressLinkSelector,
			LinkField:     DefaultAddressMapField,
			LinkTitle:     DefaultAddressMapTitle,
		},
		{
			Label:        DefaultURLLabel,
			Strategy:     StrategyLinkHref,
			LinkSelector: DefaultURLLinkSelector,
		},
	}
}

// Validate validates the extractor configuration.
func (c *Config) Validate() error {
	required := map[string]string{
		"name_field":     c.NameField,
		"name_selector":  c.NameSelector,
		"row_selector":   c.RowSelector,
		"label_selector": c.LabelSelector,
		"value_selector": c.ValueSelector,
	}
	for field, value := range required {
		if value == "" {
			return &types.ValidationError{Field: field, Value: value, Reason: "must not be empty"}
		}
	}

	for i, r := range c.Rules {
		field := fmt.Sprintf("rules[%d]", i)
		if r.Label == "" {
			return &types.ValidationError{Field: field + ".label", Value: r.Label, Reason: "must not be empty"}
		}
		switch r.Strategy {
		case StrategyPreText:
		case StrategyLinkHref:
			if r.LinkSelector == "" {
				return &types.ValidationError{Field: field + ".link_selector", Value: r.LinkSelector, Reason: "required for link_href"}
			}
		case StrategyPreTextWithLink:
			if r.LinkSelector == "" || r.LinkField == "" {
				return &types.ValidationError{Field: field, Value: r.Label, Reason: "pre_text_with_link needs link_selector and link_field"}
			}
		default:
			return &types.ValidationError{Field: field + ".strategy", Value: r.Strategy, Reason: "unknown strategy"}
		}
	}
	return nil
}

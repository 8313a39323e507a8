package pokemon

import (
	"encoding/json"
	"fmt"
)

// DefaultLocale is the locale every species is guaranteed to have a name for
const DefaultLocale = "english"

// Name is a species display name: either a single plain string or a
// multi-locale record. The bundled dataset contains both shapes, so the JSON
// codec accepts both; in memory it is always the structured form.
type Name struct {
	// Locales maps locale -> display name. Always contains DefaultLocale.
	Locales map[string]string
}

// NewName creates a Name with only the default-locale spelling
func NewName(defaultName string) Name {
	return Name{Locales: map[string]string{DefaultLocale: defaultName}}
}

// Default returns the default-locale name
func (n Name) Default() string {
	return n.Locales[DefaultLocale]
}

// Resolve returns the name for the requested locale, falling back to the
// default locale when the requested one is absent
func (n Name) Resolve(locale string) string {
	if name, ok := n.Locales[locale]; ok && name != "" {
		return name
	}
	return n.Locales[DefaultLocale]
}

// UnmarshalJSON accepts either "Pikachu" or {"english": "Pikachu", ...}
func (n *Name) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		n.Locales = map[string]string{DefaultLocale: plain}
		return nil
	}

	var locales map[string]string
	if err := json.Unmarshal(data, &locales); err != nil {
		return fmt.Errorf("name must be a string or a locale map: %w", err)
	}
	if locales[DefaultLocale] == "" {
		return fmt.Errorf("name record is missing the %q locale", DefaultLocale)
	}
	n.Locales = locales
	return nil
}

// MarshalJSON always writes the structured form
func (n Name) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Locales)
}

package search

import (
	"fmt"
	"sort"
	"strings"
)

// specLabels maps raw specification keys to display labels. Unknown keys
// fall back to a title-cased form of the key.
var specLabels = map[string]string{
	"processor":          "Processor",
	"ram":                "RAM",
	"storage":            "Storage",
	"camera":             "Camera",
	"front_camera":       "Front Camera",
	"battery":            "Battery",
	"battery_capacity":   "Battery",
	"battery_life":       "Battery Life",
	"screen_size":        "Screen",
	"display":            "Display",
	"os":                 "OS",
	"driver_size":        "Driver",
	"impedance":          "Impedance",
	"connectivity":       "Connectivity",
	"charging_time":      "Charging",
	"noise_cancellation": "Noise Cancellation",
	"material":           "Material",
	"fit":                "Fit",
	"pattern":            "Pattern",
	"sleeve":             "Sleeve",
	"capacity":           "Capacity",
	"power":              "Power",
	"dimensions":         "Dimensions",
	"weight":             "Weight",
	"warranty":           "Warranty",
}

// FormatKeySpecs renders a specification map as readable "Label: value"
// strings, sorted by key for stable output.
func FormatKeySpecs(specs map[string]string) []string {
	if len(specs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(specs))
	for k := range specs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	formatted := make([]string, 0, len(keys))
	for _, key := range keys {
		value := strings.TrimSpace(specs[key])
		if value == "" {
			continue
		}
		label, ok := specLabels[strings.ToLower(key)]
		if !ok {
			label = titleCase(strings.ReplaceAll(key, "_", " "))
		}
		formatted = append(formatted, fmt.Sprintf("%s: %s", label, value))
	}
	return formatted
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

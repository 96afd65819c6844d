package discovery

import "strings"

// Australian state abbreviations to full names.
var auStates = map[string]string{
	"NSW": "New South Wales",
	"VIC": "Victoria",
	"QLD": "Queensland",
	"WA":  "Western Australia",
	"SA":  "South Australia",
	"TAS": "Tasmania",
	"ACT": "Australian Capital Territory",
	"NT":  "Northern Territory",
}

// NormalizeAULocation expands an Australian location string into the
// "City, State, Australia" form the SERP provider geolocates best:
//
//	"Brisbane, QLD" -> "Brisbane, Queensland, Australia"
//	"Sydney NSW"    -> "Sydney, New South Wales, Australia"
//	"Melbourne"     -> "Melbourne, Australia"
//
// Strings already mentioning Australia pass through untouched.
func NormalizeAULocation(location string) string {
	location = strings.TrimSpace(location)
	if strings.Contains(strings.ToLower(location), "australia") {
		return location
	}

	parts := strings.Fields(strings.ReplaceAll(location, ",", " "))
	if len(parts) >= 2 {
		last := parts[len(parts)-1]
		if full, ok := auStates[strings.ToUpper(last)]; ok {
			return strings.Join(parts[:len(parts)-1], " ") + ", " + full + ", Australia"
		}
		for _, full := range auStates {
			if strings.EqualFold(last, full) {
				return strings.Join(parts[:len(parts)-1], " ") + ", " + full + ", Australia"
			}
		}
	}

	return location + ", Australia"
}

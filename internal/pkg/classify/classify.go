// Package classify maps free-text hints from listing sites onto the
// catalog's category enum and administrator registry. Keyword lists and
// administrator aliases live in a Registry that can be replaced from an
// external JSON file, so extending them never touches adapter code.
package classify

import "strings"

// Category values shared with the offer domain.
const (
	CategoryRealEstate   = "real_estate"
	CategoryVehicle      = "vehicle"
	CategoryHeavyVehicle = "heavy_vehicle"
	CategoryMotorcycle   = "motorcycle"
)

// AdministratorOther is the bucket for administrators absent from the registry.
const AdministratorOther = "Other"

// Category classifies a text hint into one of the four categories using the
// default registry. Ambiguous or empty input defaults to vehicle.
func Category(text string) string {
	return defaultRegistry.Category(text)
}

// Administrator resolves an administrator mention against the default
// registry. Unmatched input maps to AdministratorOther.
func Administrator(text string) string {
	return defaultRegistry.Administrator(text)
}

// Category classifies against this registry's keyword lists. Heavy-vehicle
// and motorcycle keywords are checked before the generic vehicle list so a
// "caminhão" hint is not swallowed by "veículo".
func (r *Registry) Category(text string) string {
	folded := fold(text)
	if folded == "" {
		return CategoryVehicle
	}

	ordered := []string{CategoryRealEstate, CategoryHeavyVehicle, CategoryMotorcycle, CategoryVehicle}
	for _, cat := range ordered {
		for _, kw := range r.Categories[cat] {
			if strings.Contains(folded, fold(kw)) {
				return cat
			}
		}
	}
	return CategoryVehicle
}

// Administrator resolves a mention against this registry's alias lists.
func (r *Registry) Administrator(text string) string {
	folded := fold(text)
	if folded == "" {
		return AdministratorOther
	}

	for _, entry := range r.Administrators {
		for _, alias := range entry.Aliases {
			if strings.Contains(folded, fold(alias)) {
				return entry.Name
			}
		}
	}
	return AdministratorOther
}

// fold lowercases and strips the accents that appear in Portuguese source
// text, so "Caminhão" and "caminhao" match the same keyword.
func fold(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return accentReplacer.Replace(s)
}

var accentReplacer = strings.NewReplacer(
	"á", "a", "à", "a", "â", "a", "ã", "a",
	"é", "e", "ê", "e",
	"í", "i",
	"ó", "o", "ô", "o", "õ", "o",
	"ú", "u", "ü", "u",
	"ç", "c",
)

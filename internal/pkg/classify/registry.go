package classify

import (
	"encoding/json"
	"fmt"
	"os"
)

// AdministratorEntry names one known consortium administrator and the
// aliases under which listing sites mention it.
type AdministratorEntry struct {
	Name    string   `json:"name"`
	Aliases []string `json:"aliases"`
}

// Registry holds the category keyword lists and the administrator alias
// table. The zero value is unusable; use Default or Load.
type Registry struct {
	Categories     map[string][]string  `json:"categories"`
	Administrators []AdministratorEntry `json:"administrators"`
}

var defaultRegistry = Default()

// Default returns the compiled-in registry.
func Default() *Registry {
	return &Registry{
		Categories: map[string][]string{
			CategoryRealEstate: {
				"imovel", "imoveis", "casa", "apartamento", "terreno",
				"apto", "sala comercial", "real estate",
			},
			CategoryHeavyVehicle: {
				"caminhao", "caminhoes", "onibus", "trator", "carreta",
				"pesado", "pesados", "implemento",
			},
			CategoryMotorcycle: {
				"moto", "motos", "motocicleta", "scooter",
			},
			CategoryVehicle: {
				"veiculo", "veiculos", "carro", "automovel", "auto",
				"picape", "suv",
			},
		},
		Administrators: []AdministratorEntry{
			{Name: "Embracon", Aliases: []string{"embracon"}},
			{Name: "Porto Seguro", Aliases: []string{"porto seguro", "porto"}},
			{Name: "Itaú", Aliases: []string{"itau", "itaú"}},
			{Name: "Bradesco", Aliases: []string{"bradesco"}},
			{Name: "Santander", Aliases: []string{"santander"}},
			{Name: "Rodobens", Aliases: []string{"rodobens"}},
			{Name: "Ademicon", Aliases: []string{"ademicon", "conseg"}},
			{Name: "Canopus", Aliases: []string{"canopus"}},
			{Name: "Honda", Aliases: []string{"honda"}},
			{Name: "Yamaha", Aliases: []string{"yamaha"}},
			{Name: "Magalu", Aliases: []string{"magalu", "luiza"}},
			{Name: "Caixa", Aliases: []string{"caixa"}},
			{Name: "Banco do Brasil", Aliases: []string{"banco do brasil", "bb consorcios"}},
		},
	}
}

// Load reads a registry from a JSON file. Category keys absent from the
// file keep the compiled-in defaults so a partial override file is valid.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry file: %w", err)
	}

	reg := Default()
	var override Registry
	if err := json.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("parse registry file %s: %w", path, err)
	}

	for cat, keywords := range override.Categories {
		if _, ok := reg.Categories[cat]; !ok {
			return nil, fmt.Errorf("registry file %s: unknown category %q", path, cat)
		}
		reg.Categories[cat] = keywords
	}
	if len(override.Administrators) > 0 {
		reg.Administrators = override.Administrators
	}
	return reg, nil
}

// SetDefault installs reg as the registry used by the package-level
// Category and Administrator helpers. Called once at startup.
func SetDefault(reg *Registry) {
	if reg != nil {
		defaultRegistry = reg
	}
}

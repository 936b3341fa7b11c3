package classify_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Wpprobot/cartahub/internal/pkg/classify"
)

func TestCategory(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Apartamento na planta", classify.CategoryRealEstate},
		{"Carta para IMÓVEL", classify.CategoryRealEstate},
		{"Caminhão Mercedes", classify.CategoryHeavyVehicle},
		{"caminhao baú", classify.CategoryHeavyVehicle},
		{"Ônibus rodoviário", classify.CategoryHeavyVehicle},
		{"Moto Honda CG 160", classify.CategoryMotorcycle},
		{"Veículo zero km", classify.CategoryVehicle},
		{"Carro popular", classify.CategoryVehicle},
		// ambiguous or empty defaults to vehicle
		{"", classify.CategoryVehicle},
		{"oferta imperdível", classify.CategoryVehicle},
	}

	for _, tt := range tests {
		if got := classify.Category(tt.in); got != tt.want {
			t.Errorf("Category(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAdministrator(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Embracon", "Embracon"},
		{"EMBRACON ADM. DE CONSÓRCIOS", "Embracon"},
		{"Consórcio Itaú", "Itaú"},
		{"porto seguro consórcio", "Porto Seguro"},
		{"Administradora XPTO", classify.AdministratorOther},
		{"", classify.AdministratorOther},
	}

	for _, tt := range tests {
		if got := classify.Administrator(tt.in); got != tt.want {
			t.Errorf("Administrator(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadRegistryOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	content := `{
		"administrators": [
			{"name": "Nova Adm", "aliases": ["nova", "nova adm"]}
		]
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	reg, err := classify.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := reg.Administrator("Consórcio Nova"); got != "Nova Adm" {
		t.Errorf("Administrator = %q, want %q", got, "Nova Adm")
	}
	// alias list fully replaced
	if got := reg.Administrator("Embracon"); got != classify.AdministratorOther {
		t.Errorf("Administrator = %q, want %q", got, classify.AdministratorOther)
	}
	// category keywords keep compiled-in defaults
	if got := reg.Category("apartamento"); got != classify.CategoryRealEstate {
		t.Errorf("Category = %q, want %q", got, classify.CategoryRealEstate)
	}
}

func TestLoadRegistryUnknownCategory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	content := `{"categories": {"boat": ["lancha"]}}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := classify.Load(path); err == nil {
		t.Fatal("expected error for unknown category key")
	}
}

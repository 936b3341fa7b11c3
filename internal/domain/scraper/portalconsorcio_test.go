package scraper

import "testing"

const portalFixture = `
<html><body>
<table class="tabela-cotas">
  <tr><th>Crédito</th><th>Entrada</th><th>Parcelas</th><th>Administradora</th><th>Grupo/Cota</th></tr>
  <tr>
    <td>R$ 90.000,00</td><td>R$ 25.000,00</td><td>72 x R$ 1.850,30</td>
    <td>Embracon</td><td>1234/56</td>
    <td><a href="/carta/42">ver</a></td>
  </tr>
  <tr>
    <td></td><td>R$ 10.000,00</td><td>12 x 100,00</td><td>Sem crédito</td><td>1/2</td>
  </tr>
  <tr><td>só uma célula</td></tr>
  <tr>
    <td>R$ 350.000,00</td><td>R$ 90.000,00</td><td>200 x R$ 2.400,00</td>
    <td>Porto Seguro</td><td>77/8</td>
    <td><a href="https://outro.example/c/9">ver</a></td>
  </tr>
</table>
</body></html>`

func TestPortalConsorcioExtract(t *testing.T) {
	a := NewPortalConsorcio("https://portal.example", nil)

	raws := a.extract(portalFixture, "imóvel")
	// Header, empty-credit and short rows are skipped without losing siblings.
	if len(raws) != 2 {
		t.Fatalf("raws = %d, want 2", len(raws))
	}

	first := raws[0]
	if first.CreditText != "R$ 90.000,00" {
		t.Errorf("CreditText = %q", first.CreditText)
	}
	if first.InstallmentsText != "72 x R$ 1.850,30" {
		t.Errorf("InstallmentsText = %q", first.InstallmentsText)
	}
	if first.GroupCode != "1234" || first.Quota != "56" {
		t.Errorf("group/quota = %q/%q, want 1234/56", first.GroupCode, first.Quota)
	}
	if first.SourceURL != "https://portal.example/carta/42" {
		t.Errorf("SourceURL = %q, relative href must resolve against the base", first.SourceURL)
	}
	if first.CategoryText != "imóvel" {
		t.Errorf("CategoryText = %q", first.CategoryText)
	}

	if raws[1].SourceURL != "https://outro.example/c/9" {
		t.Errorf("absolute href must pass through, got %q", raws[1].SourceURL)
	}
}

func TestPortalConsorcioExtractNoTable(t *testing.T) {
	a := NewPortalConsorcio("https://portal.example", nil)
	if raws := a.extract("<html><body><p>manutenção</p></body></html>", "carro"); raws != nil {
		t.Fatalf("raws = %v, want none", raws)
	}
}

package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const bolsaFixture = `
<html><body>
<div class="card-carta">
  <span class="categoria">Imóvel</span>
  <span class="credito">R$ 300.000,00</span>
  <span class="entrada">R$ 75.000,00</span>
  <span class="parcelas">150 x R$ 2.100,00</span>
  <span class="taxa">16,5%</span>
  <span class="administradora">Rodobens</span>
  <p class="descricao">Carta de imóvel pronta para transferência</p>
  <a class="detalhe" href="/carta/300k">detalhes</a>
</div>
<div class="card-carta">
  <span class="categoria">Moto</span>
  <span class="entrada">R$ 3.000,00</span>
</div>
<div class="card-carta">
  <span class="categoria">Caminhão</span>
  <span class="credito">R$ 500.000,00</span>
  <span class="administradora">Ademicon</span>
  <a class="detalhe" href="/carta/pesado-500k">detalhes</a>
</div>
</body></html>`

func TestBolsaCartasFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cartas-contempladas" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(bolsaFixture))
	}))
	defer srv.Close()

	a := NewBolsaCartas(srv.URL, testClient())
	raws, err := a.Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	// The card without a credit value is dropped.
	if len(raws) != 2 {
		t.Fatalf("raws = %d, want 2", len(raws))
	}

	first := raws[0]
	if first.CreditText != "R$ 300.000,00" || first.CategoryText != "Imóvel" {
		t.Errorf("first card = %+v", first)
	}
	if first.AdminFeeText != "16,5%" {
		t.Errorf("AdminFeeText = %q", first.AdminFeeText)
	}
	if first.Description == "" {
		t.Error("description should be carried through")
	}
	if first.SourceURL != srv.URL+"/carta/300k" {
		t.Errorf("SourceURL = %q", first.SourceURL)
	}

	if raws[1].AdministratorText != "Ademicon" {
		t.Errorf("second card administrator = %q", raws[1].AdministratorText)
	}
}

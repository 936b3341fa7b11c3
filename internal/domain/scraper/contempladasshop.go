package scraper

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Wpprobot/cartahub/internal/domain/offer"
)

const contempladasShopName = "contempladas-shop"

// ContempladasShop extracts offers from the site's public JSON listing
// endpoint, one request per category path.
type ContempladasShop struct {
	baseURL string
	client  *Client
}

func NewContempladasShop(baseURL string, client *Client) *ContempladasShop {
	return &ContempladasShop{baseURL: baseURL, client: client}
}

func (a *ContempladasShop) Name() string  { return contempladasShopName }
func (a *ContempladasShop) Browser() bool { return false }

// shopCategories maps site category slugs to the hint text fed to
// classification. The slug drives the request path; the hint keeps
// classification independent of the site's own taxonomy.
var shopCategories = map[string]string{
	"imoveis":  "imóvel",
	"veiculos": "veículo",
	"pesados":  "caminhão",
	"motos":    "moto",
}

type shopListing struct {
	ValorCredito   string `json:"valor_credito"`
	Entrada        string `json:"entrada"`
	Parcelas       string `json:"parcelas"`
	Administradora string `json:"administradora"`
	Grupo          string `json:"grupo"`
	Cota           string `json:"cota"`
	TaxaAdm        string `json:"taxa_adm"`
	Descricao      string `json:"descricao"`
	URL            string `json:"url"`
}

type shopResponse struct {
	Cotas []shopListing `json:"cotas"`
}

func (a *ContempladasShop) Fetch(ctx context.Context) ([]offer.RawOffer, error) {
	var raws []offer.RawOffer

	for slug, hint := range shopCategories {
		url := fmt.Sprintf("%s/api/cotas?categoria=%s", a.baseURL, slug)
		body, err := a.client.Get(ctx, url)
		if err != nil {
			return nil, err
		}

		var resp shopResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			// Malformed document for one category; siblings still count.
			log.Warn().Err(err).Str("source", a.Name()).Str("category", slug).
				Msg("Skipping unparseable listing payload")
			continue
		}

		for _, l := range resp.Cotas {
			if l.ValorCredito == "" {
				continue
			}
			raws = append(raws, offer.RawOffer{
				SourceName:        a.Name(),
				SourceURL:         resolveURL(a.baseURL, l.URL),
				CreditText:        l.ValorCredito,
				DownPaymentText:   l.Entrada,
				InstallmentsText:  l.Parcelas,
				AdminFeeText:      l.TaxaAdm,
				AdministratorText: l.Administradora,
				CategoryText:      hint,
				GroupCode:         l.Grupo,
				Quota:             l.Cota,
				Description:       l.Descricao,
			})
		}
	}

	return raws, nil
}

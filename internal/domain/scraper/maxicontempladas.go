package scraper

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Wpprobot/cartahub/internal/domain/offer"
)

const maxiContempladasName = "maxi-contempladas"

// MaxiContempladas builds its listing client-side, so extraction goes
// through a headless browser session per category page. Each RenderPage
// call owns its session; teardown is guaranteed inside the Browser.
type MaxiContempladas struct {
	baseURL string
	browser *Browser
}

func NewMaxiContempladas(baseURL string, browser *Browser) *MaxiContempladas {
	return &MaxiContempladas{baseURL: baseURL, browser: browser}
}

func (a *MaxiContempladas) Name() string  { return maxiContempladasName }
func (a *MaxiContempladas) Browser() bool { return true }

var maxiCategories = map[string]string{
	"imoveis":  "imóvel",
	"veiculos": "carro",
	"pesados":  "caminhão",
	"motos":    "moto",
}

func (a *MaxiContempladas) Fetch(ctx context.Context) ([]offer.RawOffer, error) {
	var raws []offer.RawOffer

	for slug, hint := range maxiCategories {
		url := fmt.Sprintf("%s/contempladas/%s", a.baseURL, slug)
		doc, err := a.browser.RenderPage(ctx, url, "div.oferta")
		if err != nil {
			return nil, err
		}
		raws = append(raws, a.extract(doc, hint)...)
	}

	return raws, nil
}

func (a *MaxiContempladas) extract(doc, categoryHint string) []offer.RawOffer {
	root := parseHTML(doc)

	var raws []offer.RawOffer
	for _, item := range findAll(root, "div", "oferta") {
		credit := text(findFirst(item, "div", "valor-credito"))
		if credit == "" {
			log.Debug().Str("source", a.Name()).Msg("Skipping offer block without credit value")
			continue
		}

		link := ""
		if anchor := findFirst(item, "a", ""); anchor != nil {
			link = resolveURL(a.baseURL, attr(anchor, "href"))
		}

		raws = append(raws, offer.RawOffer{
			SourceName:           a.Name(),
			SourceURL:            link,
			CreditText:           credit,
			DownPaymentText:      text(findFirst(item, "div", "valor-entrada")),
			InstallmentCountText: text(findFirst(item, "div", "qtd-parcelas")),
			InstallmentValueText: text(findFirst(item, "div", "valor-parcela")),
			AdministratorText:    text(findFirst(item, "div", "administradora")),
			CategoryText:         categoryHint,
			GroupCode:            text(findFirst(item, "div", "grupo")),
			Quota:                text(findFirst(item, "div", "cota")),
		})
	}
	return raws
}

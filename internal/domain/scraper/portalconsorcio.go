package scraper

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Wpprobot/cartahub/internal/domain/offer"
)

const portalConsorcioName = "portal-do-consorcio"

// PortalConsorcio extracts offers from the portal's server-rendered HTML
// tables, one page per category.
type PortalConsorcio struct {
	baseURL string
	client  *Client
}

func NewPortalConsorcio(baseURL string, client *Client) *PortalConsorcio {
	return &PortalConsorcio{baseURL: baseURL, client: client}
}

func (a *PortalConsorcio) Name() string  { return portalConsorcioName }
func (a *PortalConsorcio) Browser() bool { return false }

var portalCategories = map[string]string{
	"cartas-imoveis":  "imóvel",
	"cartas-veiculos": "carro",
	"cartas-pesados":  "caminhão",
	"cartas-motos":    "moto",
}

func (a *PortalConsorcio) Fetch(ctx context.Context) ([]offer.RawOffer, error) {
	var raws []offer.RawOffer

	for path, hint := range portalCategories {
		url := fmt.Sprintf("%s/%s", a.baseURL, path)
		body, err := a.client.Get(ctx, url)
		if err != nil {
			return nil, err
		}

		raws = append(raws, a.extract(string(body), hint)...)
	}

	return raws, nil
}

// extract walks the listing table. Column layout:
// crédito | entrada | parcelas | administradora | grupo/cota | link.
// Rows with missing columns or an empty credit cell are skipped; the rest
// of the table is still processed.
func (a *PortalConsorcio) extract(doc, categoryHint string) []offer.RawOffer {
	root := parseHTML(doc)
	table := findFirst(root, "table", "tabela-cotas")
	if table == nil {
		log.Warn().Str("source", a.Name()).Str("category", categoryHint).
			Msg("Listing table not found in document")
		return nil
	}

	var raws []offer.RawOffer
	for _, row := range findAll(table, "tr", "") {
		cells := findAll(row, "td", "")
		if len(cells) < 5 {
			continue // header row or malformed row
		}

		credit := text(cells[0])
		if credit == "" {
			continue
		}

		groupCell := text(cells[4])
		group, quota := splitGroupQuota(groupCell)

		link := ""
		if anchor := findFirst(row, "a", ""); anchor != nil {
			link = resolveURL(a.baseURL, attr(anchor, "href"))
		}

		raws = append(raws, offer.RawOffer{
			SourceName:        a.Name(),
			SourceURL:         link,
			CreditText:        credit,
			DownPaymentText:   text(cells[1]),
			InstallmentsText:  text(cells[2]),
			AdministratorText: text(cells[3]),
			CategoryText:      categoryHint,
			GroupCode:         group,
			Quota:             quota,
		})
	}
	return raws
}

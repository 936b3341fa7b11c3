package scraper

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Wpprobot/cartahub/internal/domain/offer"
)

const redeContempladasName = "rede-contempladas"

// RedeContempladas serves one JS-rendered table with every category mixed
// together; the row's own badge column carries the category hint.
type RedeContempladas struct {
	baseURL string
	browser *Browser
}

func NewRedeContempladas(baseURL string, browser *Browser) *RedeContempladas {
	return &RedeContempladas{baseURL: baseURL, browser: browser}
}

func (a *RedeContempladas) Name() string  { return redeContempladasName }
func (a *RedeContempladas) Browser() bool { return true }

func (a *RedeContempladas) Fetch(ctx context.Context) ([]offer.RawOffer, error) {
	url := fmt.Sprintf("%s/estoque", a.baseURL)
	doc, err := a.browser.RenderPage(ctx, url, "table#listagem tbody tr")
	if err != nil {
		return nil, err
	}
	return a.extract(doc), nil
}

// extract walks the stock table. Column layout:
// categoria | crédito | entrada | parcelas | administradora | grupo | cota.
func (a *RedeContempladas) extract(doc string) []offer.RawOffer {
	root := parseHTML(doc)
	table := findFirst(root, "table", "")
	if table == nil {
		log.Warn().Str("source", a.Name()).Msg("Stock table not found in rendered page")
		return nil
	}

	var raws []offer.RawOffer
	for _, row := range findAll(table, "tr", "") {
		cells := findAll(row, "td", "")
		if len(cells) < 7 {
			continue
		}

		credit := text(cells[1])
		if credit == "" {
			continue
		}

		link := ""
		if anchor := findFirst(row, "a", ""); anchor != nil {
			link = resolveURL(a.baseURL, attr(anchor, "href"))
		}

		raws = append(raws, offer.RawOffer{
			SourceName:        a.Name(),
			SourceURL:         link,
			CreditText:        credit,
			DownPaymentText:   text(cells[2]),
			InstallmentsText:  text(cells[3]),
			AdministratorText: text(cells[4]),
			CategoryText:      text(cells[0]),
			GroupCode:         text(cells[5]),
			Quota:             text(cells[6]),
		})
	}
	return raws
}

package scraper

import (
	"context"
	"fmt"

	"github.com/Wpprobot/cartahub/internal/domain/offer"
)

const bolsaCartasName = "bolsa-de-cartas"

// BolsaCartas extracts offers from the site's card-style listing pages.
// Unlike the portal there is one combined page per category and every card
// carries its own category badge, which is forwarded as the hint.
type BolsaCartas struct {
	baseURL string
	client  *Client
}

func NewBolsaCartas(baseURL string, client *Client) *BolsaCartas {
	return &BolsaCartas{baseURL: baseURL, client: client}
}

func (a *BolsaCartas) Name() string  { return bolsaCartasName }
func (a *BolsaCartas) Browser() bool { return false }

func (a *BolsaCartas) Fetch(ctx context.Context) ([]offer.RawOffer, error) {
	body, err := a.client.Get(ctx, fmt.Sprintf("%s/cartas-contempladas", a.baseURL))
	if err != nil {
		return nil, err
	}
	return a.extract(string(body)), nil
}

func (a *BolsaCartas) extract(doc string) []offer.RawOffer {
	root := parseHTML(doc)

	var raws []offer.RawOffer
	for _, card := range findAll(root, "div", "card-carta") {
		credit := text(findFirst(card, "span", "credito"))
		if credit == "" {
			continue // incomplete card, siblings still extracted
		}

		link := ""
		if anchor := findFirst(card, "a", "detalhe"); anchor != nil {
			link = resolveURL(a.baseURL, attr(anchor, "href"))
		}

		raws = append(raws, offer.RawOffer{
			SourceName:        a.Name(),
			SourceURL:         link,
			CreditText:        credit,
			DownPaymentText:   text(findFirst(card, "span", "entrada")),
			InstallmentsText:  text(findFirst(card, "span", "parcelas")),
			AdminFeeText:      text(findFirst(card, "span", "taxa")),
			AdministratorText: text(findFirst(card, "span", "administradora")),
			CategoryText:      text(findFirst(card, "span", "categoria")),
			Description:       text(findFirst(card, "p", "descricao")),
		})
	}
	return raws
}

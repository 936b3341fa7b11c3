package scraper

import "github.com/Wpprobot/cartahub/internal/config"

// BuildAdapters wires the configured source set. An empty base URL
// disables that source. Each HTTP adapter gets its own Client so the
// politeness delay is per site, not global; browser adapters share one
// Browser since each page render owns its own session anyway.
func BuildAdapters(cfg *config.Config) []Adapter {
	var adapters []Adapter

	if cfg.ContempladasShopURL != "" {
		adapters = append(adapters, NewContempladasShop(cfg.ContempladasShopURL, NewClient()))
	}
	if cfg.PortalConsorcioURL != "" {
		adapters = append(adapters, NewPortalConsorcio(cfg.PortalConsorcioURL, NewClient()))
	}
	if cfg.BolsaCartasURL != "" {
		adapters = append(adapters, NewBolsaCartas(cfg.BolsaCartasURL, NewClient()))
	}

	browser := NewBrowser()
	if cfg.MaxiContempladasURL != "" {
		adapters = append(adapters, NewMaxiContempladas(cfg.MaxiContempladasURL, browser))
	}
	if cfg.RedeContempladasURL != "" {
		adapters = append(adapters, NewRedeContempladas(cfg.RedeContempladasURL, browser))
	}

	return adapters
}

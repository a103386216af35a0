package catalog

import (
	"time"

	"github.com/grimsl/GameShelf/internal/platform/steam"
)

// fromAppDetails builds the full normalized entry from a detail payload.
func fromAppDetails(d *steam.AppDetails, fetchedAt time.Time) Entry {
	e := Entry{
		AppID:            d.SteamAppID,
		Name:             d.Name,
		HeaderImage:      d.HeaderImage,
		CapsuleImage:     d.CapsuleImage,
		ShortDescription: d.ShortDescription,
		Developers:       d.Developers,
		Publishers:       d.Publishers,
		ReleaseDate:      d.ReleaseDate.Date,
		Platforms: Platforms{
			Windows: d.Platforms.Windows,
			Mac:     d.Platforms.Mac,
			Linux:   d.Platforms.Linux,
		},
		FetchedAt: fetchedAt,
	}
	if e.HeaderImage == "" {
		e.HeaderImage = steam.HeaderImageURL(d.SteamAppID)
	}
	if e.CapsuleImage == "" {
		e.CapsuleImage = steam.CapsuleImageURL(d.SteamAppID)
	}
	for _, g := range d.Genres {
		e.Genres = append(e.Genres, g.Description)
	}
	if p := d.PriceOverview; p != nil {
		e.Price = &Price{
			Currency:         p.Currency,
			InitialCents:     p.Initial,
			FinalCents:       p.Final,
			InitialFormatted: p.InitialFormatted,
			FinalFormatted:   p.FinalFormatted,
			DiscountPercent:  p.DiscountPercent,
		}
	}
	if d.Metacritic != nil {
		score := d.Metacritic.Score
		e.ReviewScore = &score
	}
	for _, s := range d.Screenshots {
		if s.PathFull != "" {
			e.Screenshots = append(e.Screenshots, s.PathFull)
		}
	}
	return e
}

// fromFeaturedItem builds a partial entry from a ranked trending item.
// Image URLs are synthesized from the app id when the item omits them.
func fromFeaturedItem(item steam.FeaturedItem, fetchedAt time.Time) Entry {
	e := Entry{
		AppID:        item.ID,
		Name:         item.Name,
		HeaderImage:  item.HeaderImage,
		CapsuleImage: item.LargeCapsule,
		Platforms: Platforms{
			Windows: item.WindowsAvail,
			Mac:     item.MacAvail,
			Linux:   item.LinuxAvail,
		},
		FetchedAt: fetchedAt,
	}
	if e.HeaderImage == "" {
		e.HeaderImage = steam.HeaderImageURL(item.ID)
	}
	if e.CapsuleImage == "" {
		e.CapsuleImage = steam.CapsuleImageURL(item.ID)
	}
	if item.Discounted || item.FinalPrice > 0 {
		e.Price = &Price{
			Currency:        item.Currency,
			InitialCents:    item.FinalPrice,
			FinalCents:      item.FinalPrice,
			DiscountPercent: item.DiscountPct,
		}
	}
	return e
}

// fromSearchItem builds a partial entry from a storefront search hit.
func fromSearchItem(item steam.StoreSearchItem, fetchedAt time.Time) Entry {
	e := Entry{
		AppID:        item.ID,
		Name:         item.Name,
		HeaderImage:  steam.HeaderImageURL(item.ID),
		CapsuleImage: item.TinyImage,
		FetchedAt:    fetchedAt,
	}
	if e.CapsuleImage == "" {
		e.CapsuleImage = steam.CapsuleImageURL(item.ID)
	}
	return e
}

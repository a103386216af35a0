package steam

import "strconv"

// Response shapes follow the storefront and Web API payloads as delivered,
// snake_case and all. Normalization into internal schemas happens in the
// catalog and sync packages, never here and never downstream of them.

// FeaturedCategoriesResponse matches store api/featuredcategories.
type FeaturedCategoriesResponse struct {
	TopSellers struct {
		Items []FeaturedItem `json:"items"`
	} `json:"top_sellers"`
	NewReleases struct {
		Items []FeaturedItem `json:"items"`
	} `json:"new_releases"`
}

type FeaturedItem struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	HeaderImage  string `json:"header_image"`
	Discounted   bool   `json:"discounted"`
	DiscountPct  int    `json:"discount_percent"`
	FinalPrice   int    `json:"final_price"`
	Currency     string `json:"currency"`
	LargeCapsule string `json:"large_capsule_image"`
	SmallCapsule string `json:"small_capsule_image"`
	WindowsAvail bool   `json:"windows_available"`
	MacAvail     bool   `json:"mac_available"`
	LinuxAvail   bool   `json:"linux_available"`
}

// StoreSearchResponse matches store api/storesearch.
type StoreSearchResponse struct {
	Total int               `json:"total"`
	Items []StoreSearchItem `json:"items"`
}

type StoreSearchItem struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	TinyImage string `json:"tiny_image"`
}

// AppDetails matches the data block of store api/appdetails.
type AppDetails struct {
	SteamAppID       int      `json:"steam_appid"`
	Name             string   `json:"name"`
	ShortDescription string   `json:"short_description"`
	HeaderImage      string   `json:"header_image"`
	CapsuleImage     string   `json:"capsule_image"`
	Developers       []string `json:"developers"`
	Publishers       []string `json:"publishers"`
	Genres           []struct {
		ID          string `json:"id"`
		Description string `json:"description"`
	} `json:"genres"`
	ReleaseDate struct {
		ComingSoon bool   `json:"coming_soon"`
		Date       string `json:"date"`
	} `json:"release_date"`
	PriceOverview *PriceOverview `json:"price_overview"`
	Metacritic    *struct {
		Score int `json:"score"`
	} `json:"metacritic"`
	Platforms struct {
		Windows bool `json:"windows"`
		Mac     bool `json:"mac"`
		Linux   bool `json:"linux"`
	} `json:"platforms"`
	Screenshots []struct {
		PathThumbnail string `json:"path_thumbnail"`
		PathFull      string `json:"path_full"`
	} `json:"screenshots"`
}

type PriceOverview struct {
	Currency         string `json:"currency"`
	Initial          int    `json:"initial"`
	Final            int    `json:"final"`
	DiscountPercent  int    `json:"discount_percent"`
	InitialFormatted string `json:"initial_formatted"`
	FinalFormatted   string `json:"final_formatted"`
}

// appDetailsEnvelope is the per-app wrapper appdetails responds with.
type appDetailsEnvelope struct {
	Success bool        `json:"success"`
	Data    *AppDetails `json:"data"`
}

// OwnedGame matches IPlayerService/GetOwnedGames entries.
type OwnedGame struct {
	AppID                    int    `json:"appid"`
	Name                     string `json:"name"`
	PlaytimeForever          int    `json:"playtime_forever"`
	Playtime2Weeks           int    `json:"playtime_2weeks"`
	ImgIconURL               string `json:"img_icon_url"`
	HasCommunityVisibleStats bool   `json:"has_community_visible_stats"`
	RtimeLastPlayed          int64  `json:"rtime_last_played"`
	PlaytimeWindowsForever   int    `json:"playtime_windows_forever"`
	PlaytimeMacForever       int    `json:"playtime_mac_forever"`
	PlaytimeLinuxForever     int    `json:"playtime_linux_forever"`
	PlaytimeDeckForever      int    `json:"playtime_deck_forever"`
}

type ownedGamesEnvelope struct {
	Response struct {
		GameCount int         `json:"game_count"`
		Games     []OwnedGame `json:"games"`
	} `json:"response"`
}

// PlayerAchievement matches ISteamUserStats/GetPlayerAchievements entries.
type PlayerAchievement struct {
	APIName     string `json:"apiname"`
	Achieved    int    `json:"achieved"`
	UnlockTime  int64  `json:"unlocktime"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type playerAchievementsEnvelope struct {
	PlayerStats struct {
		SteamID      string              `json:"steamID"`
		GameName     string              `json:"gameName"`
		Achievements []PlayerAchievement `json:"achievements"`
		Success      bool                `json:"success"`
		Error        string              `json:"error"`
	} `json:"playerstats"`
}

// PlayerSummary matches ISteamUser/GetPlayerSummaries entries.
type PlayerSummary struct {
	SteamID                  string `json:"steamid"`
	PersonaName              string `json:"personaname"`
	ProfileURL               string `json:"profileurl"`
	Avatar                   string `json:"avatar"`
	AvatarFull               string `json:"avatarfull"`
	CommunityVisibilityState int    `json:"communityvisibilitystate"`
}

type playerSummariesEnvelope struct {
	Response struct {
		Players []PlayerSummary `json:"players"`
	} `json:"response"`
}

type currentPlayersEnvelope struct {
	Response struct {
		PlayerCount int `json:"player_count"`
		Result      int `json:"result"`
	} `json:"response"`
}

// HeaderImageURL synthesizes the storefront header art URL for an app id.
// Ranked trending entries arrive without image fields, so the URL is derived.
func HeaderImageURL(appID int) string {
	return storeCDNBase + "/" + strconv.Itoa(appID) + "/header.jpg"
}

// CapsuleImageURL synthesizes the storefront capsule art URL for an app id.
func CapsuleImageURL(appID int) string {
	return storeCDNBase + "/" + strconv.Itoa(appID) + "/capsule_231x87.jpg"
}

// IconImageURL builds the community icon URL for an owned game's icon hash.
func IconImageURL(appID int, iconHash string) string {
	if iconHash == "" {
		return ""
	}
	return "https://media.steampowered.com/steamcommunity/public/images/apps/" +
		strconv.Itoa(appID) + "/" + iconHash + ".jpg"
}

const storeCDNBase = "https://cdn.akamai.steamstatic.com/steam/apps"

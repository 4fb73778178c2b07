package directory

// DefaultLabels maps the UEFA Euro 2024 flag glyphs and FIFA codes to country names
var DefaultLabels = map[string]string{
	"🇩🇪":       "Germany",
	"🏴󠁧󠁢󠁳󠁣󠁴󠁿": "Scotland",
	"🇭🇺":       "Hungary",
	"🇨🇭":       "Switzerland",
	"🇪🇸":       "Spain",
	"🇭🇷":       "Croatia",
	"🇮🇹":       "Italy",
	"🇦🇱":       "Albania",
	"🇸🇮":       "Slovenia",
	"🇩🇰":       "Denmark",
	"🇷🇸":       "Serbia",
	"🏴󠁧󠁢󠁥󠁮󠁧󠁿": "England",
	"🇵🇱":       "Poland",
	"🇳🇱":       "Netherlands",
	"🇦🇹":       "Austria",
	"🇫🇷":       "France",
	"🇧🇪":       "Belgium",
	"🇸🇰":       "Slovakia",
	"🇷🇴":       "Romania",
	"🇺🇦":       "Ukraine",
	"🇹🇷":       "Turkey",
	"🇬🇪":       "Georgia",
	"🇵🇹":       "Portugal",
	"🇨🇿":       "Czechia",

	"GER": "Germany",
	"SCO": "Scotland",
	"HUN": "Hungary",
	"SUI": "Switzerland",
	"ESP": "Spain",
	"CRO": "Croatia",
	"ITA": "Italy",
	"ALB": "Albania",
	"SVN": "Slovenia",
	"DEN": "Denmark",
	"SRB": "Serbia",
	"ENG": "England",
	"POL": "Poland",
	"NED": "Netherlands",
	"AUT": "Austria",
	"FRA": "France",
	"BEL": "Belgium",
	"SVK": "Slovakia",
	"ROU": "Romania",
	"UKR": "Ukraine",
	"TUR": "Turkey",
	"GEO": "Georgia",
	"POR": "Portugal",
	"CZE": "Czechia",
}

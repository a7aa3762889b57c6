package leagues

// Risk buckets for watchlist teams, derived from the historical 0-0 rate
const (
	RiskLow      = "BAIXO"
	RiskModerate = "MODERADO"
	RiskHigh     = "ALTO"
)

// WatchlistEntry is one team's historical goalless-draw record. RiskLevel is
// derived from DrawRatePct at load time and ignored in override files.
type WatchlistEntry struct {
	Team        string  `yaml:"team"`
	DrawRatePct float64 `yaml:"draw_rate_pct"`
	FairOdds    float64 `yaml:"fair_odds"`
	SampleSize  int     `yaml:"sample_size"`
	RiskLevel   string  `yaml:"-"`
}

func riskFor(drawRatePct float64) string {
	switch {
	case drawRatePct < 5.0:
		return RiskLow
	case drawRatePct <= 8.0:
		return RiskModerate
	default:
		return RiskHigh
	}
}

var watchlistDefaults = []WatchlistEntry{
	// England Premier League
	{Team: "Arsenal", DrawRatePct: 3.95, FairOdds: 0.33, SampleSize: 152},
	{Team: "Aston Villa", DrawRatePct: 2.63, FairOdds: 0.00, SampleSize: 152},
	{Team: "Chelsea", DrawRatePct: 4.61, FairOdds: 2.25, SampleSize: 152},
	{Team: "Liverpool", DrawRatePct: 3.29, FairOdds: 3.58, SampleSize: 152},
	{Team: "Manchester City", DrawRatePct: 1.97, FairOdds: 0.92, SampleSize: 152},
	{Team: "Manchester United", DrawRatePct: 3.95, FairOdds: 0.33, SampleSize: 152},

	// Netherlands Eredivisie
	{Team: "Ajax Amsterdam", DrawRatePct: 4.41, FairOdds: 1.67, SampleSize: 136},
	{Team: "AZ Alkmaar", DrawRatePct: 4.41, FairOdds: 0.33, SampleSize: 136},
	{Team: "FC Twente", DrawRatePct: 2.94, FairOdds: 0.67, SampleSize: 136},
	{Team: "Feyenoord", DrawRatePct: 4.41, FairOdds: 1.00, SampleSize: 136},
	{Team: "PSV Eindhoven", DrawRatePct: 0.74, FairOdds: 0.25, SampleSize: 136},
	{Team: "FC Utrecht", DrawRatePct: 5.88, FairOdds: 0.67, SampleSize: 136},
	{Team: "Heerenveen", DrawRatePct: 6.62, FairOdds: 8.25, SampleSize: 136},

	// Germany 2. Bundesliga
	{Team: "1860 Munchen", DrawRatePct: 2.63, FairOdds: 0.67, SampleSize: 152},
	{Team: "Dusseldorf", DrawRatePct: 3.68, FairOdds: 0.25, SampleSize: 136},
	{Team: "Hamburger SV", DrawRatePct: 1.47, FairOdds: 0.33, SampleSize: 136},
	{Team: "Hannover 96", DrawRatePct: 7.35, FairOdds: 1.67, SampleSize: 136},
	{Team: "Karlsruher SC", DrawRatePct: 5.15, FairOdds: 0.92, SampleSize: 136},
	{Team: "Paderborn", DrawRatePct: 7.35, FairOdds: 1.00, SampleSize: 136},

	// Turkey Super Lig
	{Team: "Alanyaspor", DrawRatePct: 3.95, FairOdds: 1.67, SampleSize: 152},
	{Team: "Fenerbahce", DrawRatePct: 3.95, FairOdds: 1.00, SampleSize: 152},
	{Team: "Galatasaray", DrawRatePct: 4.61, FairOdds: 0.25, SampleSize: 152},
	{Team: "Besiktas", DrawRatePct: 6.58, FairOdds: 0.33, SampleSize: 152},
	{Team: "Trabzonspor", DrawRatePct: 6.58, FairOdds: 1.67, SampleSize: 152},

	// Greece Super League
	{Team: "AEK Athens", DrawRatePct: 4.63, FairOdds: 4.33, SampleSize: 108},
	{Team: "Aris", DrawRatePct: 4.63, FairOdds: 0.33, SampleSize: 108},
	{Team: "Olympiakos", DrawRatePct: 7.41, FairOdds: 4.33, SampleSize: 108},
	{Team: "PAOK", DrawRatePct: 6.48, FairOdds: 2.33, SampleSize: 108},
	{Team: "OFI Crete", DrawRatePct: 8.33, FairOdds: 1.00, SampleSize: 108},

	// Sweden Allsvenskan
	{Team: "AIK", DrawRatePct: 4.44, FairOdds: 2.33, SampleSize: 90},
	{Team: "Elfsborg", DrawRatePct: 4.44, FairOdds: 0.33, SampleSize: 90},
	{Team: "Hacken", DrawRatePct: 0.00, FairOdds: 0.00, SampleSize: 90},
	{Team: "Hammarby", DrawRatePct: 12.22, FairOdds: 1.33, SampleSize: 90},
	{Team: "Malmo FF", DrawRatePct: 8.89, FairOdds: 1.33, SampleSize: 90},
}

package leagues

// Teams monitored by the elite goal-average signal, as spelled by the
// provider. Lookups go through name normalization, so accents and case in
// this list are cosmetic.
var eliteDefaults = []string{
	"Manchester City",
	"Liverpool",
	"Arsenal",
	"Chelsea",
	"Tottenham",
	"Manchester United",
	"Newcastle",
	"Bayern Munich",
	"Borussia Dortmund",
	"Bayer Leverkusen",
	"RB Leipzig",
	"Real Madrid",
	"Barcelona",
	"Atletico Madrid",
	"Paris Saint Germain",
	"Monaco",
	"Marseille",
	"Inter",
	"AC Milan",
	"Napoli",
	"Juventus",
	"Atalanta",
	"Benfica",
	"FC Porto",
	"Sporting CP",
	"Ajax Amsterdam",
	"PSV Eindhoven",
	"Feyenoord",
	"Celtic",
	"Rangers",
	"Galatasaray",
	"Fenerbahce",
}

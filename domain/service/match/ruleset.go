package match

import "sort"

// スコアの重み
type Weights struct {
	ExactTitle         float64
	TitleSubstring     float64
	TitleOverlap       float64
	DescriptionOverlap float64
	Genre              float64

	SportsGenre float64
	LiveGame    float64
	TeamPreview float64
	TeamOther   float64
	GameTerm    float64

	// プレビュー番組はこれ以上にならない
	PreviewCap float64

	// これより大きいものだけ候補に残す
	Threshold float64

	// 試合中継とみなす最低放送時間（分）
	GameMinutes int
}

// スポーツ判定に使う語彙
// 追加したいときはここにデータを足すだけでよい
type Ruleset struct {
	// 正式名 -> 別名
	Teams map[string][]string

	// クエリにこれが含まれていればスポーツのクエリとみなす
	SportsTerms []string

	// 試合そのものを指す語
	GameTerms []string

	// 試合前後の番組・ハイライト番組
	PreviewKeywords []string

	// 前後に空白を含めて照合する
	MatchupIndicators []string

	// 試合候補の絞り込みで除外するタイトル語
	SportsExclusions []string

	Weights Weights
}

func DefaultWeights() Weights {
	return Weights{
		ExactTitle:         100,
		TitleSubstring:     80,
		TitleOverlap:       60,
		DescriptionOverlap: 50,
		Genre:              10,
		SportsGenre:        20,
		LiveGame:           100,
		TeamPreview:        5,
		TeamOther:          50,
		GameTerm:           15,
		PreviewCap:         40,
		Threshold:          30,
		GameMinutes:        90,
	}
}

func DefaultRuleset() Ruleset {
	return Ruleset{
		Teams: map[string][]string{
			// NFL
			"arizona cardinals":     {"cardinals", "arizona cardinals"},
			"atlanta falcons":       {"falcons", "atlanta falcons"},
			"baltimore ravens":      {"ravens", "baltimore ravens"},
			"buffalo bills":         {"bills", "buffalo bills"},
			"carolina panthers":     {"panthers", "carolina panthers"},
			"chicago bears":         {"bears", "chicago bears"},
			"cincinnati bengals":    {"bengals", "cincinnati bengals"},
			"cleveland browns":      {"browns", "cleveland browns"},
			"dallas cowboys":        {"cowboys", "dallas cowboys"},
			"denver broncos":        {"broncos", "denver broncos"},
			"detroit lions":         {"lions", "detroit lions"},
			"green bay packers":     {"packers", "green bay packers"},
			"houston texans":        {"texans", "houston texans"},
			"indianapolis colts":    {"colts", "indianapolis colts"},
			"jacksonville jaguars":  {"jaguars", "jacksonville jaguars"},
			"kansas city chiefs":    {"chiefs", "kansas city chiefs"},
			"las vegas raiders":     {"raiders", "las vegas raiders"},
			"los angeles chargers":  {"chargers", "los angeles chargers"},
			"los angeles rams":      {"rams", "los angeles rams"},
			"miami dolphins":        {"dolphins", "miami dolphins"},
			"minnesota vikings":     {"vikings", "minnesota vikings"},
			"new england patriots":  {"patriots", "new england patriots"},
			"new orleans saints":    {"saints", "new orleans saints"},
			"new york giants":       {"giants", "new york giants"},
			"new york jets":         {"jets", "new york jets"},
			"philadelphia eagles":   {"eagles", "philadelphia eagles"},
			"pittsburgh steelers":   {"steelers", "pittsburgh steelers"},
			"san francisco 49ers":   {"49ers", "niners", "san francisco 49ers"},
			"seattle seahawks":      {"seahawks", "seattle seahawks"},
			"tampa bay buccaneers":  {"buccaneers", "bucs", "tampa bay buccaneers"},
			"tennessee titans":      {"titans", "tennessee titans"},
			"washington commanders": {"commanders", "washington commanders"},

			// college
			"alabama":        {"alabama", "bama", "crimson tide"},
			"auburn":         {"auburn"},
			"baylor":         {"baylor"},
			"clemson":        {"clemson"},
			"duke":           {"duke", "blue devils"},
			"florida":        {"florida", "gators"},
			"florida state":  {"florida state", "fsu", "seminoles"},
			"georgia":        {"georgia", "uga", "dawgs"},
			"illinois":       {"illinois", "fighting illini"},
			"indiana":        {"indiana", "hoosiers"},
			"iowa":           {"iowa", "hawkeyes"},
			"iowa state":     {"iowa state", "cyclones"},
			"kansas":         {"kansas", "jayhawks"},
			"kansas state":   {"kansas state"},
			"lsu":            {"lsu"},
			"maryland":       {"maryland", "terrapins"},
			"miami":          {"hurricanes"},
			"michigan":       {"michigan", "wolverines"},
			"michigan state": {"michigan state", "spartans"},
			"minnesota":      {"gophers"},
			"nc state":       {"nc state", "wolfpack"},
			"nebraska":       {"nebraska", "cornhuskers"},
			"north carolina": {"north carolina", "unc", "tar heels"},
			"northwestern":   {"northwestern"},
			"notre dame":     {"notre dame", "fighting irish"},
			"ohio state":     {"ohio state", "buckeyes"},
			"oklahoma":       {"oklahoma", "sooners"},
			"oklahoma state": {"oklahoma state"},
			"oregon":         {"oregon", "ducks"},
			"penn state":     {"penn state", "nittany lions"},
			"purdue":         {"purdue", "boilermakers"},
			"rutgers":        {"rutgers", "scarlet knights"},
			"stanford":       {"stanford"},
			"tcu":            {"tcu", "horned frogs"},
			"tennessee":      {"tennessee", "vols", "volunteers"},
			"texas":          {"texas", "longhorns"},
			"texas tech":     {"texas tech", "red raiders"},
			"ucla":           {"ucla", "bruins"},
			"usc":            {"usc", "trojans", "southern cal"},
			"utah":           {"utah", "utes"},
			"virginia tech":  {"virginia tech", "hokies"},
			"washington":     {"huskies"},
			"west virginia":  {"west virginia", "wvu", "mountaineers"},
			"wisconsin":      {"wisconsin", "badgers"},
		},
		SportsTerms: []string{
			"football", "game", "basketball", "baseball", "soccer", "hockey",
			"tennis", "golf", "match", "vs", "nfl", "ncaa",
		},
		GameTerms: []string{"game", "match", "vs"},
		PreviewKeywords: []string{
			"gameday", "game day", "preview", "analysis", "wrap up", "wrap-up",
			"post game", "postgame", "pregame", "pre game", "highlights", "recap",
			"roundup", "countdown", "tonight", "weekly", "show", "talk", "discussion",
		},
		MatchupIndicators: []string{" at ", " vs ", " vs. ", " v ", " versus ", " @ "},
		SportsExclusions: []string{
			"postgame", "pregame", "game night", "gamenight", "show", "special",
			"replay", "encore", "scoreboard", "countdown",
		},
		Weights: DefaultWeights(),
	}
}

// 照合順を固定するためにソートした正式名
func (r Ruleset) teamNames() []string {
	names := make([]string, 0, len(r.Teams))
	for name := range r.Teams {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

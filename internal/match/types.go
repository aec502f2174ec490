package match

// Match is the subset of a Riot match-v5 document the analyzer reads.
type Match struct {
	Metadata Metadata `json:"metadata"`
	Info     Info     `json:"info"`
}

type Metadata struct {
	MatchID      string   `json:"matchId"`
	Participants []string `json:"participants"`
}

type Info struct {
	GameMode     string        `json:"gameMode"`
	GameDuration int64         `json:"gameDuration"`
	Participants []Participant `json:"participants"`
}

// Participant holds one player's counters for a match.
type Participant struct {
	PUUID              string `json:"puuid"`
	RiotIDGameName     string `json:"riotIdGameName"`
	SummonerName       string `json:"summonerName"`
	ChampionName       string `json:"championName"`
	IndividualPosition string `json:"individualPosition"`
	TeamID             int    `json:"teamId"`
	PlayerSubteamID    int    `json:"playerSubteamId"`
	Win                bool   `json:"win"`

	Kills   int `json:"kills"`
	Deaths  int `json:"deaths"`
	Assists int `json:"assists"`

	TotalDamageDealtToChampions int64 `json:"totalDamageDealtToChampions"`
	DamageSelfMitigated         int64 `json:"damageSelfMitigated"`
	VisionScore                 int64 `json:"visionScore"`
	DamageDealtToObjectives     int64 `json:"damageDealtToObjectives"`
	GoldEarned                  int64 `json:"goldEarned"`
}

// DisplayName is the name other players see in game.
func (p Participant) DisplayName() string {
	if p.RiotIDGameName != "" {
		return p.RiotIDGameName
	}
	return p.SummonerName
}

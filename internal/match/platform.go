package match

import (
	"fmt"
	"strings"
)

// Platform is a League of Legends shard.
type Platform string

const (
	BR1  Platform = "BR1"
	EUN1 Platform = "EUN1"
	EUW1 Platform = "EUW1"
	JP1  Platform = "JP1"
	KR   Platform = "KR"
	LA1  Platform = "LA1"
	LA2  Platform = "LA2"
	NA1  Platform = "NA1"
	OC1  Platform = "OC1"
	TR1  Platform = "TR1"
	RU   Platform = "RU"
	PH2  Platform = "PH2"
	SG2  Platform = "SG2"
	TH2  Platform = "TH2"
	TW2  Platform = "TW2"
	VN2  Platform = "VN2"
)

// DefaultPlatform is used when neither the request nor the settings name one.
const DefaultPlatform = EUN1

// Region is the regional routing value used by account and match endpoints.
type Region string

const (
	Americas Region = "AMERICAS"
	Asia     Region = "ASIA"
	Europe   Region = "EUROPE"
	SEA      Region = "SEA"
)

var routing = map[Platform]Region{
	BR1:  Americas,
	LA1:  Americas,
	LA2:  Americas,
	NA1:  Americas,
	KR:   Asia,
	JP1:  Asia,
	EUN1: Europe,
	EUW1: Europe,
	TR1:  Europe,
	RU:   Europe,
	OC1:  SEA,
	PH2:  SEA,
	SG2:  SEA,
	TH2:  SEA,
	TW2:  SEA,
	VN2:  SEA,
}

// ParsePlatform accepts a platform id in any case.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := routing[p]; !ok {
		return "", fmt.Errorf("unknown platform %q", s)
	}
	return p, nil
}

// Region returns the regional cluster serving p.
func (p Platform) Region() Region {
	return routing[p]
}

// Host returns the platform API host name.
func (p Platform) Host() string {
	return strings.ToLower(string(p)) + ".api.riotgames.com"
}

// Host returns the regional API host name.
func (r Region) Host() string {
	return strings.ToLower(string(r)) + ".api.riotgames.com"
}

// MatchID builds a match-v5 id from a bare game id.
func (p Platform) MatchID(gameID string) string {
	return string(p) + "_" + gameID
}

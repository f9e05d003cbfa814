package analysis

import "strings"

// Sport is the closed set of activity kinds the load calculator knows about
type Sport string

const (
	SportCycling  Sport = "cycling"
	SportRunning  Sport = "running"
	SportSwimming Sport = "swimming"
	SportGeneric  Sport = "generic"
)

// upstreamSports maps lower-cased Strava type / sport_type names onto a Sport.
// Anything missing here is scored as generic.
var upstreamSports = map[string]Sport{
	"cycling":          SportCycling,
	"ride":             SportCycling,
	"virtualride":      SportCycling,
	"gravelride":       SportCycling,
	"mountainbikeride": SportCycling,
	"ebikeride":        SportCycling,
	"velomobile":       SportCycling,
	"handcycle":        SportCycling,
	"running":          SportRunning,
	"run":              SportRunning,
	"trailrun":         SportRunning,
	"virtualrun":       SportRunning,
	"treadmill":        SportRunning,
	"swimming":         SportSwimming,
	"swim":             SportSwimming,
	"openwaterswim":    SportSwimming,
	"poolswim":         SportSwimming,
}

// ParseSport classifies an upstream sport name. Matching ignores case and
// surrounding whitespace; unknown names are generic.
func ParseSport(name string) Sport {
	if s, ok := upstreamSports[strings.ToLower(strings.TrimSpace(name))]; ok {
		return s
	}
	return SportGeneric
}

// Known reports whether s is one of the four sport tags
func (s Sport) Known() bool {
	_, ok := profiles[s]
	return ok
}

// channelKind identifies which sample stream carries a sport's primary effort signal
type channelKind int

const (
	channelNone channelKind = iota
	channelPower
	channelVelocity
)

// sportProfile parameterizes the shared load calculation for one sport
type sportProfile struct {
	primary channelKind

	// paceDistance is the distance in meters the threshold pace is expressed
	// over (1000 for s/km, 100 for s/100m). Zero means effort is not a pace
	// and intensity is normalized/threshold instead of threshold/normalized.
	paceDistance float64

	threshold func(Thresholds) float64
}

var profiles = map[Sport]sportProfile{
	SportCycling: {
		primary:   channelPower,
		threshold: func(t Thresholds) float64 { return t.FTP },
	},
	SportRunning: {
		primary:      channelVelocity,
		paceDistance: 1000,
		threshold:    func(t Thresholds) float64 { return t.RunPace },
	},
	SportSwimming: {
		primary:      channelVelocity,
		paceDistance: 100,
		threshold:    func(t Thresholds) float64 { return t.SwimPace },
	},
	SportGeneric: {
		primary: channelNone,
	},
}

// profileFor selects the calculator profile for a sport, routing anything
// unrecognized to the generic heart-rate based profile.
func profileFor(s Sport) (Sport, sportProfile) {
	if p, ok := profiles[s]; ok {
		return s, p
	}
	return SportGeneric, profiles[SportGeneric]
}

// intensity converts an effort into an intensity factor against the sport's threshold
func (p sportProfile) intensity(effort float64, t Thresholds) float64 {
	threshold := p.threshold(t)
	if p.paceDistance > 0 {
		// Lower pace is faster, so the ratio is inverted
		return threshold / effort
	}
	return effort / threshold
}

// speedToPace converts m/s into seconds per the profile's pace distance
func (p sportProfile) speedToPace(speed float64) float64 {
	return p.paceDistance / speed
}

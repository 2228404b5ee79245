package leagues

import (
	"regexp"
	"strconv"
)

// Family groups leagues that share clock conventions.
type Family string

const (
	FamilyBasketball Family = "basketball"
	FamilyFootball   Family = "football"
	FamilyHockey     Family = "hockey"
	FamilyBaseball   Family = "baseball"
	FamilySoccer     Family = "soccer"
	FamilyGeneric    Family = "generic"
)

// Extra names how a game went past regulation.
type Extra string

const (
	ExtraNone      Extra = ""
	ExtraOvertime  Extra = "overtime"
	ExtraTime      Extra = "extra_time"
	ExtraPenalties Extra = "penalties"
	ExtraShootout  Extra = "shootout"
)

var (
	penaltiesPattern = regexp.MustCompile(`(?i)\b(pens?|penalties|pks?)\b`)
	shootoutPattern  = regexp.MustCompile(`(?i)(\bshoot-?out\b|\bSO\b)`)
	extraTimePattern = regexp.MustCompile(`(?i)(\bET\b|\bAET\b|extra[ -]time)`)
	overtimePattern  = regexp.MustCompile(`(?i)(\b\d*OT\b|overtime)`)

	fourthPattern     = regexp.MustCompile(`(?i)(\bQ4\b|\b4th\b)`)
	secondHalfPattern = regexp.MustCompile(`(?i)(\b2nd half\b|\bH2\b)`)
	thirdPattern      = regexp.MustCompile(`(?i)(\b3rd\b|\bP3\b)`)
	inningPattern     = regexp.MustCompile(`(?i)\b(\d{1,2})(st|nd|rd|th)\b`)
	extraInningsRegex = regexp.MustCompile(`(?i)extra inning`)
	minutePattern     = regexp.MustCompile(`(\d{1,3})\s*'`)
)

// LateSoccerMinute is the first minute treated as late in soccer.
const LateSoccerMinute = 70

// LateInning is the first inning treated as late in baseball.
const LateInning = 8

// ExtraPeriod classifies clock text that indicates play past regulation.
// Penalties win over extra time, which wins over plain overtime.
func ExtraPeriod(clock string) Extra {
	if clock == "" {
		return ExtraNone
	}
	switch {
	case penaltiesPattern.MatchString(clock):
		return ExtraPenalties
	case shootoutPattern.MatchString(clock):
		return ExtraShootout
	case extraTimePattern.MatchString(clock):
		return ExtraTime
	case overtimePattern.MatchString(clock):
		return ExtraOvertime
	}
	return ExtraNone
}

// IsLate reports whether the clock text is in the family's closing stage.
func (f Family) IsLate(clock string) bool {
	if clock == "" {
		return false
	}
	switch f {
	case FamilyBasketball:
		// College games are played in halves.
		return fourthPattern.MatchString(clock) || secondHalfPattern.MatchString(clock) || overtimePattern.MatchString(clock)
	case FamilyFootball:
		return fourthPattern.MatchString(clock) || overtimePattern.MatchString(clock)
	case FamilyHockey:
		return thirdPattern.MatchString(clock) || overtimePattern.MatchString(clock) || shootoutPattern.MatchString(clock)
	case FamilyBaseball:
		if extraInningsRegex.MatchString(clock) {
			return true
		}
		m := inningPattern.FindStringSubmatch(clock)
		if m == nil {
			return false
		}
		n, err := strconv.Atoi(m[1])
		return err == nil && n >= LateInning
	case FamilySoccer:
		if ExtraPeriod(clock) != ExtraNone {
			return true
		}
		m := minutePattern.FindStringSubmatch(clock)
		if m == nil {
			return false
		}
		n, err := strconv.Atoi(m[1])
		return err == nil && n >= LateSoccerMinute
	default:
		return fourthPattern.MatchString(clock) || overtimePattern.MatchString(clock)
	}
}

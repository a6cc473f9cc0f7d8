// Package awards looks up movie awards by movie and awarding body.
package awards

import (
	"errors"
	"math"
	"strconv"
)

// MovieAward is a single award line item of a movie.
type MovieAward struct {
	MovieID          int    `dynamodbav:"movieId" json:"movieId"`
	AwardBody        string `dynamodbav:"awardBody" json:"awardBody"`
	NumAwards        int    `dynamodbav:"numAwards" json:"numAwards"`
	AwardDescription string `dynamodbav:"awardDescription,omitempty" json:"awardDescription,omitempty"`
}

// Params are the path parameters of a lookup. A nil number was absent or not numeric.
//
// NumAwards and AwardDescription are accepted on the route but do not narrow
// the query.
type Params struct {
	MovieID          *int
	AwardBody        string
	NumAwards        *int
	AwardDescription string
	Min              *int
}

// ParseParams reads the lookup parameters out of request path parameters.
func ParseParams(path map[string]string) Params {
	return Params{
		MovieID:          leadingInt(path["movieId"]),
		AwardBody:        path["awardBody"],
		NumAwards:        leadingInt(path["numAwards"]),
		AwardDescription: path["awardDescription"],
		Min:              leadingInt(path["min"]),
	}
}

// HasIdentity reports whether both key parts are present. A zero movie id counts as missing.
func (p Params) HasIdentity() bool {
	return p.MovieID != nil && *p.MovieID != 0 && p.AwardBody != ""
}

// leadingInt parses the integer at the start of s, ignoring leading
// whitespace and anything after the digits. A 0x or 0X prefix after the sign
// selects hexadecimal. Values beyond the int range clamp to math.MaxInt or
// math.MinInt. It returns nil when s does not start with a number.
func leadingInt(s string) *int {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	base, isDigit := 10, isDecimal
	if i+1 < len(s) && s[i] == '0' && (s[i+1] == 'x' || s[i+1] == 'X') {
		base, isDigit = 16, isHex
		i += 2
	}
	digits := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i == digits {
		return nil
	}

	// ErrRange leaves u at the max uint64, which clamps below
	u, err := strconv.ParseUint(s[digits:i], base, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return nil
	}

	var n int
	switch {
	case u > math.MaxInt && neg:
		n = math.MinInt
	case u > math.MaxInt:
		n = math.MaxInt
	case neg:
		n = -int(u)
	default:
		n = int(u)
	}
	return &n
}

func isDecimal(c byte) bool { return c >= '0' && c <= '9' }

func isHex(c byte) bool {
	return isDecimal(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

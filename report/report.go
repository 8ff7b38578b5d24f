// Package report renders designs as text for people to read. Nothing here
// feeds back into the search.
package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/nstehr/ordnance/model"
	"github.com/nstehr/ordnance/optimizer"
)

// Style selects how each design in a listing is drawn.
type Style string

const (
	StyleSummary Style = "summary" // allocation and derived figures
	StyleCard    Style = "card"    // in-game design window
)

func ParseStyle(s string) (Style, error) {
	switch Style(s) {
	case "", StyleSummary:
		return StyleSummary, nil
	case StyleCard:
		return StyleCard, nil
	}
	return "", fmt.Errorf("unknown report style %q (want %q or %q)", s, StyleSummary, StyleCard)
}

func (s Style) Render(m model.Missile) string {
	if s == StyleCard {
		return Card(m)
	}
	return Summary(m)
}

// Summary is the designer view: how the budget was spent, then what it buys.
func Summary(m model.Missile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Size = %s: WH MSP = %s, Fuel MSP = %s, Agility MSP = %s, Excess MSP = %s, Engine Power Modifier = %d%%, Engine Size MSP = %s\n",
		num(m.Size()), num(m.WarheadMSP), num(m.FuelMSP), num(m.AgilityMSP), num(m.ExcessMSP),
		percent(m.Engine.Multiplier), num(m.Engine.TotalMSP()))
	fmt.Fprintf(&b, "Damage = %d, EP = %s, Speed = %s km/s, Range = %sm km, MR = %d, Cth = %s%% / %s%% / %s%%\n",
		m.Damage(), num(m.Engine.EP), num(m.Speed()), num(m.Range()/1e6), m.MR(),
		num(m.Cth(3000)), num(m.Cth(5000)), num(m.Cth(10000)))
	return b.String()
}

// Card mirrors the in-game missile design window.
func Card(m model.Missile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Missile Size: %s MSP  (%s Tons)     Warhead: %s    Manoeuvre Rating: %d\n",
		num(m.Size()), num(m.Size()*5), num(m.WarheadMSP), m.MR())
	fmt.Fprintf(&b, "Speed: %s km/s     Fuel: %s     Flight Time: %s minutes     Range: %sm km\n",
		num(m.Speed()), num(m.Fuel()), whole(m.FlightTime()/60), whole(m.Range()/1e6))
	fmt.Fprintf(&b, "Chance to Hit: 1k km/s %s%%   3k km/s %s%%   5k km/s %s%%   10k km/s %s%%\n",
		num(m.Cth(1000)), num(m.Cth(3000)), num(m.Cth(5000)), num(m.Cth(10000)))
	return b.String()
}

// Engine describes one propulsion configuration.
func Engine(e model.Engine) string {
	prefix := ""
	if e.Count > 1 {
		prefix = fmt.Sprintf("%d x ", e.Count)
	}
	return fmt.Sprintf("%sEP = %s, MSP = %s, multiplier = %s, Fuel/EPH = %s, Fuel/Hour = %s",
		prefix, num(e.EP), num(e.MSP), num(e.Multiplier), num(e.FuelPerEPH), num(e.FuelPerHour()))
}

// Counts lists the axis sizes of a search.
func Counts(c optimizer.Counts) string {
	return fmt.Sprintf("Engine candidates: %d\nWarhead candidates: %d\nMR candidates: %d\n",
		c.Propulsion, c.Payload, c.Agility)
}

// Stats lists what the enumeration did with every composed design.
func Stats(s optimizer.Stats) string {
	return fmt.Sprintf("Composed: %d, no fuel: %d, short range: %d, low Cth: %d, filtered: %d, accepted: %d\n",
		s.Composed, s.SkippedNoFuel, s.RejectedRange, s.RejectedCth, s.RejectedFilter, s.Accepted)
}

// Listing is the full output of a search.
type Listing struct {
	Counts  optimizer.Counts
	Total   int // accepted designs before truncation
	Designs []model.Missile
	Style   Style
	// Info, when set, adds an indented line under each design.
	Info func(m model.Missile) string
}

func (l Listing) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	b.WriteString(Counts(l.Counts))
	fmt.Fprintf(&b, "\n%d candidates:\n\n", l.Total)
	for _, m := range l.Designs {
		b.WriteString(l.Style.Render(m))
		if l.Info != nil {
			fmt.Fprintf(&b, "  %s\n", l.Info(m))
		}
		b.WriteString("\n")
	}
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

func num(x float64) string {
	return strconv.FormatFloat(model.Round(x, model.Precision), 'f', -1, 64)
}

func whole(x float64) string {
	return strconv.FormatFloat(math.RoundToEven(x), 'f', 0, 64)
}

func percent(multiplier float64) int {
	return int(math.RoundToEven(multiplier * 100))
}

package watch

import (
	"fmt"
	"sort"
	"strings"

	dsvc "arbscan/internal/domain/service"
)

const (
	ansiReset    = "\033[0m"
	ansiRed      = "\033[31m"
	ansiGreen    = "\033[32m"
	ansiYellow   = "\033[33m"
	ansiDim      = "\033[2m"
	ansiClearEOL = "\033[K"
)

func colorize(s, c string) string { return c + s + ansiReset }

type Formatter struct {
	SpreadThresholdPct float64
}

func NewFormatter(thresholdPct float64) *Formatter {
	return &Formatter{SpreadThresholdPct: thresholdPct}
}

type RenderMode int

const (
	RenderLive RenderMode = iota
	RenderSnapshot
)

func dirColor(ps pxState) string {
	if !ps.parse {
		return ansiYellow
	}
	switch ps.dir {
	case DirUp:
		return ansiGreen
	case DirDown:
		return ansiRed
	default:
		return ansiYellow
	}
}

func (f *Formatter) Render(st *State, mode RenderMode) string {
	var sb strings.Builder
	if mode == RenderLive {
		sb.WriteString("\r")
	}

	sb.WriteString(colorize("[ARBSCAN] ", ansiDim))

	for i, coin := range st.Coins() {
		if i > 0 {
			sb.WriteString(colorize("  ||  ", ansiDim))
		}
		sb.WriteString(coin)

		prices := st.VenuePrices(coin)
		venues := make([]string, 0, len(prices))
		for v := range prices {
			venues = append(venues, v)
		}
		sort.Strings(venues)

		for _, v := range venues {
			ps := prices[v]
			px := "--"
			if ps.seen && ps.str != "" {
				px = ps.str
			}
			sb.WriteString(" ")
			sb.WriteString(colorize(venueTag(v)+":"+px, dirColor(ps)))
		}

		spreadStr := "Δ%=--"
		sCol := ansiYellow
		if _, _, buy, sell, ok := st.Extremes(coin); ok {
			pct := dsvc.SpreadPct(buy, sell)
			spreadStr = fmt.Sprintf("Δ%%=%+.3f", pct)
			switch dsvc.Band(pct, f.SpreadThresholdPct) {
			case +1:
				sCol = ansiGreen
			case -1:
				sCol = ansiRed
			}
		}
		sb.WriteString(" ")
		sb.WriteString(colorize(spreadStr, sCol))
	}

	if mode == RenderLive {
		sb.WriteString(ansiClearEOL)
	}
	return sb.String()
}

// venueTag shortens a venue name to its first letter for the live line.
func venueTag(venue string) string {
	if venue == "" {
		return "?"
	}
	return venue[:1]
}

package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/dancingmadman2/raydium-bot/internal/model"
)

func sol(lamports int64) float64 {
	return float64(lamports) / float64(model.LamportsPerSol)
}

// FormatProgress formats the one-line per-cycle volume progress log.
func FormatProgress(accumulated, target int64) string {
	pct := 0.0
	if target > 0 {
		pct = float64(accumulated) / float64(target) * 100
	}
	return fmt.Sprintf("volume %.4f / %.4f SOL (%.1f%%)", sol(accumulated), sol(target), pct)
}

// FormatFinal formats the end-of-run summary printed when the volume
// target is reached or the bot is stopped.
func FormatFinal(stats model.VolumeStats, accumulated, target int64, perAccount map[string]model.AccountStats, started time.Time) string {
	var b strings.Builder

	b.WriteString("===== run summary =====\n")
	b.WriteString(fmt.Sprintf("elapsed: %s\n", time.Since(started).Round(time.Second)))
	b.WriteString(fmt.Sprintf("volume:  %.4f SOL (target %.4f)\n", sol(accumulated), sol(target)))
	b.WriteString(fmt.Sprintf("buys:    %s trades, %.4f SOL\n",
		humanize.Comma(int64(stats.BuyTrades)), sol(stats.BuyVolume)))
	b.WriteString(fmt.Sprintf("sells:   %s trades, %.4f SOL\n",
		humanize.Comma(int64(stats.SellTrades)), sol(stats.SellVolume)))

	if len(perAccount) > 0 {
		b.WriteString("per account:\n")
		ids := make([]string, 0, len(perAccount))
		for id := range perAccount {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			s := perAccount[id]
			b.WriteString(fmt.Sprintf("  %s: %d buys / %d sells, %.4f SOL volume, Δsol %+.6f, Δtoken %+d\n",
				shorten(id), s.BuyTrades, s.SellTrades, sol(s.Total()),
				sol(s.SolChange), s.TokenChange))
		}
	}

	b.WriteString("=======================")
	return b.String()
}

// shorten abbreviates a base58 account id for log lines.
func shorten(id string) string {
	if len(id) <= 12 {
		return id
	}
	return id[:6] + ".." + id[len(id)-4:]
}

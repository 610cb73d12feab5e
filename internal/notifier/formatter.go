package notifier

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"LotoSentinel/internal/model"
)

var strategyLabels = map[model.Strategy]string{
	model.StrategyRandom:      "aléatoire",
	model.StrategyAvoidCommon: "anti-populaire",
	model.StrategyBalancedSum: "somme équilibrée",
	model.StrategyHotCold:     "chaud/froid",
}

func strategyLabel(s model.Strategy) string {
	if l, ok := strategyLabels[s]; ok {
		return l
	}
	return string(s)
}

// euros renders an amount in the French convention: "1 234,56 €".
func euros(v float64) string {
	return humanize.FormatFloat("# ###,##", v) + " €"
}

// eurosWhole drops the cents, for jackpot-sized amounts.
func eurosWhole(v float64) string {
	return humanize.FormatFloat("# ###.", v) + " €"
}

func gameTitle(kind string) (title, unit string) {
	switch kind {
	case "loto":
		return "Séries Loto", "tirages"
	case "football":
		return "Séries Football", "matchs"
	default:
		return "Séries " + kind, "événements"
	}
}

// FormatOpportunityReport formats flagged series into a Telegram message.
// The caller passes only symbols at or above the alert threshold, strongest first.
func FormatOpportunityReport(kind string, date time.Time, stats []model.SymbolStat) string {
	title, unit := gameTitle(kind)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("🎰 <b>LotoSentinel | %s</b> | %s\n\n", title, date.Format("2006-01-02")))

	high := 0
	for _, st := range stats {
		if st.Tier == model.TierHigh {
			high++
		}
	}

	if high > 0 {
		b.WriteString("🔴 <b>Opportunités fortes:</b>\n")
		for _, st := range stats {
			if st.Tier == model.TierHigh {
				b.WriteString(formatStatLine(st, unit))
			}
		}
	}
	if high < len(stats) {
		b.WriteString("🟠 <b>À surveiller:</b>\n")
		for _, st := range stats {
			if st.Tier == model.TierAlert {
				b.WriteString(formatStatLine(st, unit))
			}
		}
	}

	b.WriteString(fmt.Sprintf("\n🧮 %d série(s) au-dessus du seuil d'alerte.\n", len(stats)))
	return b.String()
}

func formatStatLine(st model.SymbolStat, unit string) string {
	return fmt.Sprintf("  %s → valeur %.2f (fréq %.1f%%, absent depuis %d %s)\n",
		st.ID, st.Value, st.Frequency*100, st.Streak, unit)
}

// FormatGrids formats suggested grids with their total cost.
func FormatGrids(grids []model.Grid, rules model.Rules, jackpot float64) string {
	var b strings.Builder
	b.WriteString("🎟 <b>Grilles suggérées</b>")
	if jackpot > 0 {
		b.WriteString(fmt.Sprintf(" | jackpot %s", eurosWhole(jackpot)))
	}
	b.WriteString("\n\n")

	for i, g := range grids {
		nums := make([]string, len(g.Numbers))
		for j, n := range g.Numbers {
			nums[j] = fmt.Sprintf("%02d", n)
		}
		b.WriteString(fmt.Sprintf("%d. %s + n°%d (%s)", i+1, strings.Join(nums, "-"), g.Chance, strategyLabel(g.Strategy)))
		if g.Fallback {
			b.WriteString(" ⚠️ repli aléatoire")
		}
		b.WriteString("\n")
	}

	total := rules.TicketPrice * float64(len(grids))
	b.WriteString(fmt.Sprintf("\n💶 Coût total: %s (%d × %s)\n", euros(total), len(grids), euros(rules.TicketPrice)))
	return b.String()
}

// FormatSimulationReport formats a strategy sweep result.
func FormatSimulationReport(res *model.SimulationResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>Simulation %s</b>\n\n", strategyLabel(res.Strategy)))
	b.WriteString(fmt.Sprintf("Tirages joués: %d × %d grille(s)\n", res.Draws, res.GridsPerDraw))
	b.WriteString(fmt.Sprintf("Mise totale: %s\n", euros(res.TotalStake)))
	b.WriteString(fmt.Sprintf("Gains: %s\n", euros(res.TotalPayout)))

	verdict := "🔻"
	if res.Profit >= 0 {
		verdict = "🟢"
	}
	b.WriteString(fmt.Sprintf("Résultat: %s %s (ROI %+.1f%%)\n", verdict, euros(res.Profit), res.ROI))
	b.WriteString(fmt.Sprintf("Grilles gagnantes: %d (%.1f%%)\n", res.Wins, res.WinRate))

	if len(res.TierHits) > 0 {
		ranks := make([]int, 0, len(res.TierHits))
		for r := range res.TierHits {
			ranks = append(ranks, r)
		}
		sort.Ints(ranks)
		b.WriteString("\nDétail par rang:\n")
		for _, r := range ranks {
			b.WriteString(fmt.Sprintf("  Rang %d: %d\n", r, res.TierHits[r]))
		}
	}
	if res.Fallbacks > 0 {
		b.WriteString(fmt.Sprintf("\n⚠️ %d grille(s) générée(s) en repli aléatoire\n", res.Fallbacks))
	}
	return b.String()
}

// FormatBacktestReport formats a walk-forward evaluation result.
func FormatBacktestReport(res *model.BacktestResult) string {
	title, unit := gameTitle(res.Kind)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("🧪 <b>Backtest %s</b>\n\n", title))
	b.WriteString(fmt.Sprintf("Historique: %d %s (seuil %.1f, fenêtre %d)\n",
		res.Records, unit, res.Threshold, res.Lookahead))

	resolved := res.Correct + res.Incorrect
	b.WriteString(fmt.Sprintf("Prédictions: %d résolue(s), %d en attente\n", resolved, res.Pending))
	b.WriteString(fmt.Sprintf("✅ Correctes: %d (%.1f%%)\n", res.Correct, res.SuccessRate*100))
	b.WriteString(fmt.Sprintf("❌ Incorrectes: %d\n", res.Incorrect))
	if res.Correct > 0 {
		b.WriteString(fmt.Sprintf("Délai moyen: %.1f %s\n", res.MeanSteps, unit))
		b.WriteString(fmt.Sprintf("Valeur moyenne (correctes): %.2f\n", res.MeanValueCorrect))
	}
	if res.Incorrect > 0 {
		b.WriteString(fmt.Sprintf("Valeur moyenne (incorrectes): %.2f\n", res.MeanValueIncorrect))
	}
	return b.String()
}

// FormatResolutions summarizes live predictions settled by the latest results.
func FormatResolutions(kind string, resolved []model.Prediction) string {
	_, unit := gameTitle(kind)

	var b strings.Builder
	b.WriteString("🎯 <b>Prédictions résolues</b>\n\n")
	for _, p := range resolved {
		switch p.Outcome {
		case model.OutcomeCorrect:
			b.WriteString(fmt.Sprintf("✅ %s — sorti après %d %s", p.ID, p.Steps, unit))
		case model.OutcomeIncorrect:
			b.WriteString(fmt.Sprintf("❌ %s — toujours absent, fenêtre épuisée", p.ID))
		}
		if !p.Date.IsZero() {
			b.WriteString(fmt.Sprintf(" (prédit le %s)", p.Date.Format("2006-01-02")))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatBudgetLine renders the monthly play budget after a debit.
func FormatBudgetLine(remaining, monthly float64) string {
	return fmt.Sprintf("💰 Budget du mois: %s restant sur %s\n", euros(remaining), euros(monthly))
}

// FormatHelp lists the commands understood by the bot.
func FormatHelp() string {
	return strings.Join([]string{
		"🤖 <b>LotoSentinel</b>",
		"",
		"/series — séries en cours (Loto + football)",
		"/grilles — grilles suggérées pour le prochain tirage",
		"/simulation — rejouer l'historique avec chaque stratégie",
		"/backtest — évaluer l'heuristique sur l'historique",
		"/aide — ce message",
	}, "\n")
}

package scheduler

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"LotoSentinel/internal/backtest"
	"LotoSentinel/internal/bankroll"
	"LotoSentinel/internal/collector"
	"LotoSentinel/internal/config"
	"LotoSentinel/internal/grid"
	"LotoSentinel/internal/metrics"
	"LotoSentinel/internal/model"
	"LotoSentinel/internal/notifier"
	"LotoSentinel/internal/pattern"
	"LotoSentinel/internal/payout"
	"LotoSentinel/internal/recorder"
	"LotoSentinel/internal/series"
	"LotoSentinel/internal/simulate"
)

// Notifier is the outbound messaging surface the scheduler needs.
type Notifier interface {
	Send(text string) error
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Deps groups the external collaborators. Bankroll is optional; when
// nil, grid suggestions are not budget-capped.
type Deps struct {
	Collector *collector.Collector
	Recorder  recorder.Recorder
	Notifier  Notifier
	Metrics   *metrics.Recorder
	Bankroll  *bankroll.Manager
	Log       zerolog.Logger
}

// Scheduler drives the analysis pipeline from cron triggers and chat commands.
type Scheduler struct {
	cron       *cron.Cron
	collector  *collector.Collector
	recorder   recorder.Recorder
	notifier   Notifier
	metrics    *metrics.Recorder
	bankroll   *bankroll.Manager
	engine     *grid.Engine
	runner     *simulate.Runner
	backtester *backtest.Engine
	rules      model.Rules
	thresholds series.Thresholds
	strategies []model.Strategy
	cfg        config.AnalysisConfig
	rng        *rand.Rand
	ctx        context.Context
	log        zerolog.Logger
}

// New builds the scheduler and the analysis components it drives.
func New(ctx context.Context, cfg config.AnalysisConfig, rules model.Rules, d Deps) (*Scheduler, error) {
	thresholds := series.Thresholds{High: cfg.HighThreshold, Alert: cfg.AlertThreshold}
	if err := thresholds.Validate(); err != nil {
		return nil, err
	}

	strategies := make([]model.Strategy, 0, len(cfg.Strategies))
	for _, raw := range cfg.Strategies {
		s, err := model.ParseStrategy(raw)
		if err != nil {
			return nil, err
		}
		strategies = append(strategies, s)
	}
	if len(strategies) == 0 {
		return nil, fmt.Errorf("%w: no grid strategies configured", model.ErrConfiguration)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	engine, err := grid.NewEngine(rules, rng, d.Log)
	if err != nil {
		return nil, err
	}
	runner, err := simulate.NewRunner(rules, payout.DefaultTable(), d.Log)
	if err != nil {
		return nil, err
	}

	return &Scheduler{
		cron:       cron.New(cron.WithSeconds()),
		collector:  d.Collector,
		recorder:   d.Recorder,
		notifier:   d.Notifier,
		metrics:    d.Metrics,
		bankroll:   d.Bankroll,
		engine:     engine,
		runner:     runner,
		backtester: backtest.New(d.Log),
		rules:      rules,
		thresholds: thresholds,
		strategies: strategies,
		cfg:        cfg,
		rng:        rng,
		ctx:        ctx,
		log:        d.Log,
	}, nil
}

// RegisterAll registers the draw-night, football and digest tasks.
func (s *Scheduler) RegisterAll(lotoCron, footballCron, digestCron string) error {
	if _, err := s.cron.AddFunc(lotoCron, s.lotoNightTask); err != nil {
		return fmt.Errorf("register loto task: %w", err)
	}
	if _, err := s.cron.AddFunc(footballCron, s.footballDailyTask); err != nil {
		return fmt.Errorf("register football task: %w", err)
	}
	if _, err := s.cron.AddFunc(digestCron, s.weeklyDigestTask); err != nil {
		return fmt.Errorf("register digest task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.log.Info().Msg("scheduler stopped")
}

// RunLotoNow executes the draw-night task immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunLotoNow() {
	s.lotoNightTask()
}

// analysis is one game's tracked history, scored and filtered.
type analysis struct {
	kind    string
	date    time.Time // date of the newest record
	size    int       // records analyzed
	stats   []model.SymbolStat
	opps    []model.SymbolStat
	seq     series.Sequence
	draws   []model.Draw     // loto only
	summary *pattern.Summary // loto only
}

func (s *Scheduler) analyzeLoto() (*analysis, error) {
	draws, err := s.collector.Draws(s.ctx)
	if err != nil {
		s.metrics.RecordSyncError("loto")
		return nil, fmt.Errorf("sync loto history: %w", err)
	}
	seq := series.DrawSequence(draws)
	stats, err := series.Track(seq, series.BallUniverse(s.rules))
	if err != nil {
		return nil, err
	}
	summary, err := pattern.Analyze(draws)
	if err != nil {
		return nil, err
	}

	a := &analysis{
		kind:    "loto",
		date:    draws[len(draws)-1].Date,
		size:    len(draws),
		stats:   series.Score(stats, s.thresholds),
		seq:     seq,
		draws:   draws,
		summary: summary,
	}
	a.opps = flagged(a.stats)
	s.metrics.RecordAnalysis("loto")
	s.publishTiers(a)
	return a, nil
}

func (s *Scheduler) analyzeFootball() (*analysis, error) {
	matches, err := s.collector.Matches(s.ctx)
	if err != nil {
		s.metrics.RecordSyncError("football")
		return nil, fmt.Errorf("sync football history: %w", err)
	}
	seq := series.MatchSequence(matches)
	stats, err := series.Track(seq, model.Markets())
	if err != nil {
		return nil, err
	}

	a := &analysis{
		kind:  "football",
		date:  matches[len(matches)-1].Date,
		size:  len(matches),
		stats: series.Score(stats, s.thresholds),
		seq:   seq,
	}
	a.opps = flagged(a.stats)
	s.metrics.RecordAnalysis("football")
	s.publishTiers(a)
	return a, nil
}

func flagged(stats []model.SymbolStat) []model.SymbolStat {
	var out []model.SymbolStat
	for _, st := range stats {
		if st.Tier != model.TierNone {
			out = append(out, st)
		}
	}
	return out
}

func (s *Scheduler) publishTiers(a *analysis) {
	high, alert := 0, 0
	for _, st := range a.opps {
		switch st.Tier {
		case model.TierHigh:
			high++
		case model.TierAlert:
			alert++
		}
	}
	s.metrics.SetOpportunities(a.kind, string(model.TierHigh), high)
	s.metrics.SetOpportunities(a.kind, string(model.TierAlert), alert)
}

func (s *Scheduler) lotoNightTask() {
	start := time.Now()
	s.log.Info().Msg("running loto night task")
	s.collector.Invalidate(s.ctx)

	a, err := s.analyzeLoto()
	if err != nil {
		s.log.Error().Err(err).Msg("loto night task")
		s.trySend("❌ Analyse Loto échouée: " + err.Error())
		return
	}

	s.resolvePending(a)

	if len(a.opps) > 0 {
		s.trySend(notifier.FormatOpportunityReport(a.kind, a.date, a.opps))
		if err := s.recorder.RecordOpportunities(a.kind, a.date, a.opps); err != nil {
			s.log.Error().Err(err).Msg("record opportunities")
		}
		s.recordNewPredictions(a)
	} else {
		s.log.Info().Msg("no loto series above the alert threshold")
	}

	count := s.cfg.GridCount
	if s.bankroll != nil {
		count = s.bankroll.Affordable(count, s.rules.TicketPrice)
	}
	if count == 0 {
		s.trySend("💰 Budget mensuel épuisé, pas de grilles suggérées ce tirage.")
	} else if grids, err := s.suggestGrids(a, count); err != nil {
		s.log.Error().Err(err).Msg("generate grids")
	} else {
		jackpot := a.draws[len(a.draws)-1].Jackpot
		msg := notifier.FormatGrids(grids, s.rules, jackpot)
		if s.bankroll != nil {
			st := s.bankroll.Spend(count, s.rules.TicketPrice)
			msg += notifier.FormatBudgetLine(st.Remaining, st.MonthlyBudget)
		}
		s.trySend(msg)
	}

	s.metrics.RecordTaskDuration("loto_night", time.Since(start).Seconds())
}

func (s *Scheduler) footballDailyTask() {
	start := time.Now()
	s.log.Info().Msg("running football task")
	s.collector.Invalidate(s.ctx)

	a, err := s.analyzeFootball()
	if err != nil {
		s.log.Error().Err(err).Msg("football task")
		s.trySend("❌ Analyse football échouée: " + err.Error())
		return
	}

	s.resolvePending(a)

	if len(a.opps) > 0 {
		s.trySend(notifier.FormatOpportunityReport(a.kind, a.date, a.opps))
		if err := s.recorder.RecordOpportunities(a.kind, a.date, a.opps); err != nil {
			s.log.Error().Err(err).Msg("record opportunities")
		}
		s.recordNewPredictions(a)
	} else {
		s.log.Info().Msg("no football series above the alert threshold")
	}

	s.metrics.RecordTaskDuration("football_daily", time.Since(start).Seconds())
}

func (s *Scheduler) weeklyDigestTask() {
	start := time.Now()
	s.log.Info().Msg("running weekly digest")

	for _, msg := range s.simulationReports() {
		s.trySend(msg)
	}
	for _, msg := range s.backtestReports() {
		s.trySend(msg)
	}

	s.metrics.RecordTaskDuration("weekly_digest", time.Since(start).Seconds())
}

// recordNewPredictions stores a live PENDING call for every HIGH-tier
// symbol that has no open prediction yet.
func (s *Scheduler) recordNewPredictions(a *analysis) {
	pending, err := s.recorder.PendingPredictions(a.kind)
	if err != nil {
		s.log.Error().Err(err).Msg("load pending predictions")
		return
	}
	open := make(map[string]bool, len(pending))
	for _, p := range pending {
		open[p.Prediction.ID] = true
	}

	var preds []model.Prediction
	for _, st := range a.opps {
		if st.Tier != model.TierHigh || open[st.ID] {
			continue
		}
		preds = append(preds, model.Prediction{
			ID:        st.ID,
			Kind:      a.kind,
			Date:      a.date,
			AsOf:      a.size,
			Value:     st.Value,
			Frequency: st.Frequency,
			Streak:    st.Streak,
			Threshold: s.thresholds.High,
			Outcome:   model.OutcomePending,
		})
	}
	if len(preds) == 0 {
		return
	}
	if err := s.recorder.RecordPredictions(preds); err != nil {
		s.log.Error().Err(err).Msg("record predictions")
		return
	}
	s.log.Info().Int("count", len(preds)).Str("kind", a.kind).Msg("live predictions recorded")
}

// resolvePending settles open predictions against the refreshed history.
// A call made after asOf records realizes at the first occurrence within
// the lookahead window and expires once the window has fully played out.
func (s *Scheduler) resolvePending(a *analysis) {
	pending, err := s.recorder.PendingPredictions(a.kind)
	if err != nil {
		s.log.Error().Err(err).Msg("load pending predictions")
		return
	}

	var resolved []model.Prediction
	for _, pp := range pending {
		p := pp.Prediction
		if p.AsOf < 0 || p.AsOf >= a.seq.Len() {
			continue
		}
		outcome, steps := model.OutcomePending, 0
		for i := p.AsOf; i < a.seq.Len() && i < p.AsOf+s.cfg.Lookahead; i++ {
			if a.seq.Occurred(p.ID, i) {
				outcome, steps = model.OutcomeCorrect, i-p.AsOf+1
				break
			}
		}
		if outcome == model.OutcomePending && a.seq.Len()-p.AsOf >= s.cfg.Lookahead {
			outcome = model.OutcomeIncorrect
		}
		if outcome == model.OutcomePending {
			continue
		}
		if err := s.recorder.ResolvePrediction(pp.RowID, outcome, steps); err != nil {
			s.log.Error().Err(err).Msg("resolve prediction")
			continue
		}
		p.Outcome, p.Steps = outcome, steps
		resolved = append(resolved, p)
		s.metrics.RecordResolution(a.kind, string(outcome))
	}

	if len(resolved) > 0 {
		s.trySend(notifier.FormatResolutions(a.kind, resolved))
	}
}

// suggestGrids builds n grids, cycling through the configured strategies.
func (s *Scheduler) suggestGrids(a *analysis, n int) ([]model.Grid, error) {
	params := grid.Params{
		Stats:    a.stats,
		Summary:  a.summary,
		Mode:     grid.PoolMode(s.cfg.HotColdMode),
		PoolSize: s.cfg.HotColdPool,
	}
	grids := make([]model.Grid, 0, n)
	for i := 0; i < n; i++ {
		g, err := s.engine.Generate(s.strategies[i%len(s.strategies)], params)
		if err != nil {
			return nil, err
		}
		grids = append(grids, g)
	}
	return grids, nil
}

func (s *Scheduler) simulationReports() []string {
	draws, err := s.collector.Draws(s.ctx)
	if err != nil {
		s.metrics.RecordSyncError("loto")
		return []string{"❌ Historique Loto indisponible: " + err.Error()}
	}

	var out []string
	for _, strat := range s.strategies {
		res, err := s.runner.Run(draws, strat, s.cfg.GridsPerDraw, s.rng)
		if err != nil {
			s.log.Error().Err(err).Str("strategy", string(strat)).Msg("simulation failed")
			out = append(out, fmt.Sprintf("❌ Simulation %s échouée: %v", strat, err))
			continue
		}
		if err := s.recorder.RecordSimulation(res); err != nil {
			s.log.Error().Err(err).Msg("record simulation")
		}
		out = append(out, notifier.FormatSimulationReport(res))
	}
	return out
}

func (s *Scheduler) backtestReports() []string {
	opts := backtest.Options{
		Threshold: s.thresholds.High,
		Lookahead: s.cfg.Lookahead,
		Warmup:    s.cfg.Warmup,
	}

	var out []string
	if draws, err := s.collector.Draws(s.ctx); err != nil {
		s.metrics.RecordSyncError("loto")
		out = append(out, "❌ Historique Loto indisponible: "+err.Error())
	} else if res, err := s.backtester.Run(series.DrawSequence(draws), series.BallUniverse(s.rules), "loto", opts); err != nil {
		out = append(out, "❌ Backtest Loto impossible: "+err.Error())
	} else {
		if err := s.recorder.RecordBacktest(res); err != nil {
			s.log.Error().Err(err).Msg("record backtest")
		}
		out = append(out, notifier.FormatBacktestReport(res))
	}

	if matches, err := s.collector.Matches(s.ctx); err != nil {
		s.metrics.RecordSyncError("football")
		out = append(out, "❌ Historique football indisponible: "+err.Error())
	} else if res, err := s.backtester.Run(series.MatchSequence(matches), model.Markets(), "football", opts); err != nil {
		out = append(out, "❌ Backtest football impossible: "+err.Error())
	} else {
		if err := s.recorder.RecordBacktest(res); err != nil {
			s.log.Error().Err(err).Msg("record backtest")
		}
		out = append(out, notifier.FormatBacktestReport(res))
	}
	return out
}

// HandleCommand processes a user command and returns the reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/series", "/séries":
		return s.seriesReply()
	case "/grilles":
		return s.gridsReply()
	case "/simulation":
		return strings.Join(s.simulationReports(), "\n")
	case "/backtest":
		return strings.Join(s.backtestReports(), "\n")
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) seriesReply() string {
	var parts []string

	if a, err := s.analyzeLoto(); err != nil {
		parts = append(parts, "❌ Loto: "+err.Error())
	} else if len(a.opps) > 0 {
		parts = append(parts, notifier.FormatOpportunityReport(a.kind, a.date, a.opps))
	} else {
		parts = append(parts, "🎰 Loto: aucune série au-dessus du seuil d'alerte.")
	}

	if a, err := s.analyzeFootball(); err != nil {
		parts = append(parts, "❌ Football: "+err.Error())
	} else if len(a.opps) > 0 {
		parts = append(parts, notifier.FormatOpportunityReport(a.kind, a.date, a.opps))
	} else {
		parts = append(parts, "⚽ Football: aucune série au-dessus du seuil d'alerte.")
	}

	return strings.Join(parts, "\n")
}

// gridsReply previews grids without debiting the budget; only the
// scheduled draw-night suggestion spends.
func (s *Scheduler) gridsReply() string {
	a, err := s.analyzeLoto()
	if err != nil {
		return "❌ " + err.Error()
	}
	count := s.cfg.GridCount
	if s.bankroll != nil {
		count = s.bankroll.Affordable(count, s.rules.TicketPrice)
	}
	if count == 0 {
		return "💰 Budget mensuel épuisé, pas de grilles suggérées."
	}
	grids, err := s.suggestGrids(a, count)
	if err != nil {
		return "❌ " + err.Error()
	}
	jackpot := a.draws[len(a.draws)-1].Jackpot
	return notifier.FormatGrids(grids, s.rules, jackpot)
}

func (s *Scheduler) trySend(text string) {
	if err := s.notifier.SendWithRetry(s.ctx, text, 3); err != nil {
		s.log.Error().Err(err).Msg("send notification")
	}
}

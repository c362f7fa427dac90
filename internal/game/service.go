package game

import (
	"context"
	"errors"
	"log/slog"
	mathrand "math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"evolve/internal/sim"
)

// Service owns the live runs. Sessions are in-memory only; a run that
// terminates gets its result banked to the store, and that banked row
// is what enforces one run per team across restarts.
type Service struct {
	store *Store
	log   *slog.Logger

	mu       sync.Mutex
	rand     *mathrand.Rand
	sessions map[string]*sim.Run
	tokens   map[string]string
}

func NewService(store *Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:    store,
		log:      logger,
		rand:     mathrand.New(mathrand.NewSource(time.Now().UnixNano())),
		sessions: make(map[string]*sim.Run),
		tokens:   make(map[string]string),
	}
}

// Login verifies a team's access code and issues a bearer token. Tokens
// live as long as the process; teams re-login after a restart.
func (s *Service) Login(ctx context.Context, team, code string) (string, error) {
	team = strings.TrimSpace(team)
	if err := ValidateTeamName(team); err != nil {
		return "", err
	}
	if err := s.store.Authenticate(ctx, team, strings.TrimSpace(code)); err != nil {
		return "", err
	}
	token := uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = team
	s.mu.Unlock()
	s.log.Info("team logged in", "team", team)
	return token, nil
}

func (s *Service) TeamForToken(token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	team, ok := s.tokens[token]
	if !ok {
		return "", ErrUnauthorized
	}
	return team, nil
}

func (s *Service) Industries() []sim.IndustryProfile {
	return sim.Industries()
}

// StartSession begins a team's one run. A live session or a banked
// result both block a second start.
func (s *Service) StartSession(ctx context.Context, team, industryID string) (SessionView, error) {
	ind, err := sim.IndustryByID(strings.ToUpper(strings.TrimSpace(industryID)))
	if err != nil {
		return SessionView{}, ErrUnknownIndustry
	}

	played, err := s.store.HasResult(ctx, team)
	if err != nil {
		return SessionView{}, err
	}
	if played {
		return SessionView{}, ErrAlreadyPlayed
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[team]; ok {
		return SessionView{}, ErrSessionExists
	}
	run := sim.NewRun(team, ind, s.rand.Float64)
	s.sessions[team] = run
	s.log.Info("session started", "team", team, "industry", ind.ID)
	return viewOf(run), nil
}

func (s *Service) Session(team string) (SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.sessions[team]
	if !ok {
		return SessionView{}, ErrNoSession
	}
	return viewOf(run), nil
}

// PlayTurn advances a team's run one fiscal year. Terminal outcomes are
// banked before returning; a storage hiccup is logged but never blocks
// the player from seeing their ending.
func (s *Service) PlayTurn(ctx context.Context, team string, in sim.TurnInput, dilemmaOption int) (TurnOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.sessions[team]
	if !ok {
		return TurnOutcome{}, ErrNoSession
	}
	res, err := run.PlayTurn(in, dilemmaOption)
	if err != nil {
		return TurnOutcome{}, err
	}
	if run.Phase == sim.PhaseTerminated {
		s.persistResult(ctx, run)
	}
	return TurnOutcome{Session: viewOf(run), Warning: res.Warning, Failure: res.Failure}, nil
}

func (s *Service) AcceptBailout(team string) (SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.sessions[team]
	if !ok {
		return SessionView{}, ErrNoSession
	}
	if err := run.AcceptBailout(); err != nil {
		return SessionView{}, err
	}
	s.log.Info("bailout accepted", "team", team, "year", run.State.Year)
	return viewOf(run), nil
}

func (s *Service) Resign(ctx context.Context, team string) (FinalReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.sessions[team]
	if !ok {
		return FinalReport{}, ErrNoSession
	}
	if err := run.Resign(); err != nil {
		return FinalReport{}, err
	}
	s.persistResult(ctx, run)
	return reportOf(run), nil
}

func (s *Service) Advisor(team string) (AdvisorReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.sessions[team]
	if !ok {
		return AdvisorReport{}, ErrNoSession
	}
	advice, err := run.Consult()
	if err != nil {
		return AdvisorReport{}, err
	}
	return AdvisorReport{Advice: advice, Cash: run.State.Cash}, nil
}

func (s *Service) Oracle(team string) (OracleReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.sessions[team]
	if !ok {
		return OracleReport{}, ErrNoSession
	}
	in, confidence, err := run.Oracle()
	if err != nil {
		return OracleReport{}, err
	}
	return OracleReport{Inputs: in, Confidence: confidence, Cash: run.State.Cash}, nil
}

func (s *Service) Liquidate(team string, discount float64) (LiquidationReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.sessions[team]
	if !ok {
		return LiquidationReport{}, ErrNoSession
	}
	proceeds, err := run.Liquidate(discount)
	if err != nil {
		return LiquidationReport{}, err
	}
	return LiquidationReport{Proceeds: proceeds, Cash: run.State.Cash, Brand: run.State.Brand}, nil
}

func (s *Service) Report(team string) (FinalReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.sessions[team]
	if !ok {
		return FinalReport{}, ErrNoSession
	}
	return reportOf(run), nil
}

func (s *Service) Leaderboard(ctx context.Context) ([]LeaderboardRow, error) {
	return s.store.Leaderboard(ctx)
}

// persistResult banks a terminated run. Called with the mutex held.
func (s *Service) persistResult(ctx context.Context, run *sim.Run) {
	rec := ResultRecord{
		Team:      run.Team,
		Industry:  run.Industry.ID,
		Score:     run.Score(),
		Outcome:   run.Outcome,
		Valuation: run.State.Valuation,
		Cash:      run.State.Cash,
		Years:     run.State.Year,
	}
	if err := s.store.SaveResult(ctx, rec); err != nil && !errors.Is(err, ErrAlreadyPlayed) {
		s.log.Error("persist result failed", "team", run.Team, "err", err)
		return
	}
	s.log.Info("run finished", "team", run.Team, "outcome", run.Outcome, "score", rec.Score)
}

func viewOf(run *sim.Run) SessionView {
	v := SessionView{
		Team:     run.Team,
		Industry: run.Industry,
		Phase:    run.Phase,
		Outcome:  run.Outcome,
		State:    run.State,
		Theme:    sim.ThemeForYear(run.State.Year),
	}
	if run.Phase == sim.PhaseActive || run.Phase == sim.PhaseBailoutActive {
		if d, ok := run.CurrentDilemma(); ok {
			v.Dilemma = &d
		}
	}
	return v
}

func reportOf(run *sim.Run) FinalReport {
	return FinalReport{
		Team:      run.Team,
		Industry:  run.Industry.Name,
		Outcome:   run.Outcome,
		Score:     run.Score(),
		Valuation: run.State.Valuation,
		Cash:      run.State.Cash,
		Years:     run.State.Year,
		History:   run.State.History,
	}
}

package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bolao-app/bolao-api/internal/domain/fixture"
	"github.com/bolao-app/bolao-api/internal/domain/ledger"
	"github.com/bolao-app/bolao-api/internal/domain/prediction"
)

// The canonical reconciliation scenario used across these tests:
//
//	rafa  2-1 Vina            exact score (shared), Vina scored twice alone
//	carol 2-1 (no player)     exact score (shared)
//	dudu  1-0 Pedro Henrique  right outcome, assisted once alone
//	mari  0-0 (no player)     nothing
//
// against an actual 2-1 with scorers [Vina, Vina] and assist
// [Pedro Henrique].
func seedScoredFixture(t *testing.T, env *testEnv) (fixture.Fixture, map[string]prediction.Prediction) {
	t.Helper()

	mustCreateSeason(t, env)
	fx := mustCreateFixture(t, env, "Gremio")

	placed := map[string]prediction.Prediction{
		"user_rafa":  mustPlace(t, env, "user_rafa", fx.ID, 2, 1, "Vina"),
		"user_carol": mustPlace(t, env, "user_carol", fx.ID, 2, 1, ""),
		"user_dudu":  mustPlace(t, env, "user_dudu", fx.ID, 1, 0, "Pedro Henrique"),
		"user_mari":  mustPlace(t, env, "user_mari", fx.ID, 0, 0, ""),
	}

	return fx, placed
}

func canonicalResult() fixture.Result {
	return fixture.Result{
		ActualScore:   fixture.Score{Home: 2, Away: 1},
		ActualScorers: []string{"Vina", "Vina"},
		ActualAssists: []string{"Pedro Henrique"},
	}
}

func TestScoringService_SetResult_AppliesTieredPoints(t *testing.T) {
	env := newTestEnv(t)
	fx, placed := seedScoredFixture(t, env)

	if err := env.scoring.SetResult(t.Context(), fx.ID, canonicalResult(), "user_admin"); err != nil {
		t.Fatalf("set result failed: %v", err)
	}

	points, breakdown := predictionPoints(t, env, placed["user_rafa"].ID)
	if points != 10 {
		t.Fatalf("rafa points got=%d want=10", points)
	}
	if breakdown[prediction.BonusExactScore] != 2 {
		t.Fatalf("rafa exact score bonus got=%d want=2", breakdown[prediction.BonusExactScore])
	}
	if breakdown[prediction.BonusMatchedScorerAlone] != 8 {
		t.Fatalf("rafa scorer bonus got=%d want=8", breakdown[prediction.BonusMatchedScorerAlone])
	}

	points, _ = predictionPoints(t, env, placed["user_carol"].ID)
	if points != 2 {
		t.Fatalf("carol points got=%d want=2", points)
	}

	points, breakdown = predictionPoints(t, env, placed["user_dudu"].ID)
	if points != 3 {
		t.Fatalf("dudu points got=%d want=3", points)
	}
	if breakdown[prediction.BonusWinOrDraw] != 1 || breakdown[prediction.BonusMatchedAssistAlone] != 2 {
		t.Fatalf("dudu breakdown unexpected: %v", breakdown)
	}

	points, breakdown = predictionPoints(t, env, placed["user_mari"].ID)
	if points != 0 {
		t.Fatalf("mari points got=%d want=0", points)
	}
	if len(breakdown) != 0 {
		t.Fatalf("mari breakdown should be empty, got %v", breakdown)
	}

	for userID, want := range map[string]int{
		"user_rafa":  10,
		"user_carol": 2,
		"user_dudu":  3,
		"user_mari":  0,
	} {
		if got := userPoints(t, env, userID); got != want {
			t.Fatalf("%s total points got=%d want=%d", userID, got, want)
		}
	}
	if got := userScorerMatches(t, env, "user_rafa"); got != 1 {
		t.Fatalf("rafa scorer matches got=%d want=1", got)
	}

	stored, err := env.fixtures.GetByID(t.Context(), fx.ID)
	if err != nil {
		t.Fatalf("get fixture failed: %v", err)
	}
	if stored.Status != fixture.StatusFinished {
		t.Fatalf("fixture status got=%s want=%s", stored.Status, fixture.StatusFinished)
	}
	if !stored.HasResult() {
		t.Fatal("fixture should carry the stored result")
	}
}

func TestScoringService_SetResult_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	fx, _ := seedScoredFixture(t, env)

	for i := 0; i < 3; i++ {
		if err := env.scoring.SetResult(t.Context(), fx.ID, canonicalResult(), "user_admin"); err != nil {
			t.Fatalf("set result round %d failed: %v", i+1, err)
		}
	}

	if got := userPoints(t, env, "user_rafa"); got != 10 {
		t.Fatalf("rafa total after repeats got=%d want=10", got)
	}
	if got := userScorerMatches(t, env, "user_rafa"); got != 1 {
		t.Fatalf("rafa scorer matches after repeats got=%d want=1", got)
	}
}

func TestScoringService_SetResult_CorrectionYieldsNetState(t *testing.T) {
	env := newTestEnv(t)
	fx, _ := seedScoredFixture(t, env)

	if err := env.scoring.SetResult(t.Context(), fx.ID, canonicalResult(), "user_admin"); err != nil {
		t.Fatalf("first result failed: %v", err)
	}

	// Correction: the match actually ended 1-0 with no goal for Vina.
	corrected := fixture.Result{
		ActualScore:   fixture.Score{Home: 1, Away: 0},
		ActualScorers: []string{"Zanocello"},
	}
	if err := env.scoring.SetResult(t.Context(), fx.ID, corrected, "user_admin"); err != nil {
		t.Fatalf("corrected result failed: %v", err)
	}

	// A fresh pool that only ever saw the corrected result must agree.
	control := newTestEnv(t)
	controlFx, _ := seedScoredFixture(t, control)
	if err := control.scoring.SetResult(t.Context(), controlFx.ID, corrected, "user_admin"); err != nil {
		t.Fatalf("control result failed: %v", err)
	}

	for _, userID := range []string{"user_rafa", "user_carol", "user_dudu", "user_mari"} {
		got := userPoints(t, env, userID)
		want := userPoints(t, control, userID)
		if got != want {
			t.Fatalf("%s corrected total got=%d want=%d", userID, got, want)
		}
		if gotMatches, wantMatches := userScorerMatches(t, env, userID), userScorerMatches(t, control, userID); gotMatches != wantMatches {
			t.Fatalf("%s corrected scorer matches got=%d want=%d", userID, gotMatches, wantMatches)
		}
	}
}

func TestScoringService_Recalculate_RequiresStoredResult(t *testing.T) {
	env := newTestEnv(t)
	mustCreateSeason(t, env)
	fx := mustCreateFixture(t, env, "Avai")

	err := env.scoring.Recalculate(t.Context(), fx.ID)
	if !errors.Is(err, ErrPrecondition) {
		t.Fatalf("expected ErrPrecondition, got %v", err)
	}
}

func TestScoringService_RecalculateSeason_CountsScoredFixtures(t *testing.T) {
	env := newTestEnv(t)
	created := mustCreateSeason(t, env)

	first := mustCreateFixture(t, env, "Gremio")
	second := mustCreateFixture(t, env, "Avai")
	mustCreateFixture(t, env, "Criciuma") // stays open, no result

	mustPlace(t, env, "user_rafa", first.ID, 2, 1, "Vina")
	mustPlace(t, env, "user_carol", second.ID, 1, 0, "")

	if err := env.scoring.SetResult(t.Context(), first.ID, canonicalResult(), "user_admin"); err != nil {
		t.Fatalf("set first result failed: %v", err)
	}
	if err := env.scoring.SetResult(t.Context(), second.ID, fixture.Result{
		ActualScore: fixture.Score{Home: 1, Away: 0},
	}, "user_admin"); err != nil {
		t.Fatalf("set second result failed: %v", err)
	}
	before := userPoints(t, env, "user_rafa") + userPoints(t, env, "user_carol")

	count, err := env.scoring.RecalculateSeason(t.Context(), created.ID)
	if err != nil {
		t.Fatalf("recalculate season failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("recalculated fixtures got=%d want=2", count)
	}

	after := userPoints(t, env, "user_rafa") + userPoints(t, env, "user_carol")
	if before != after {
		t.Fatalf("season recalculation changed totals: before=%d after=%d", before, after)
	}
}

// flakyWriter delegates to the real store but fails one designated Apply
// call, simulating the store going away between chunks.
type flakyWriter struct {
	inner  ledger.Writer
	maxOps int
	failOn int
	calls  int
}

func (w *flakyWriter) MaxOps() int {
	return w.maxOps
}

func (w *flakyWriter) Apply(ctx context.Context, ops []ledger.Op) error {
	w.calls++
	if w.calls == w.failOn {
		return errors.New("store unavailable")
	}
	return w.inner.Apply(ctx, ops)
}

func TestScoringService_SetResult_PartialApplyRetries(t *testing.T) {
	var writer flakyWriter
	env := newTestEnvWithWriter(t, &writer)
	writer.inner = env.store
	writer.maxOps = 3
	writer.failOn = 2

	fx, _ := seedScoredFixture(t, env)

	err := env.scoring.SetResult(t.Context(), fx.ID, canonicalResult(), "user_admin")
	if !errors.Is(err, ErrPartialApply) {
		t.Fatalf("expected ErrPartialApply, got %v", err)
	}

	// The first chunk committed, so the result is stored and the retry
	// path is open.
	stored, getErr := env.fixtures.GetByID(t.Context(), fx.ID)
	if getErr != nil {
		t.Fatalf("get fixture failed: %v", getErr)
	}
	if !stored.HasResult() {
		t.Fatal("result of the committed first chunk is missing")
	}

	if err := env.scoring.SetResult(t.Context(), fx.ID, canonicalResult(), "user_admin"); err != nil {
		t.Fatalf("retry failed: %v", err)
	}

	// Deltas for the committed prefix recompute to zero on retry, so the
	// totals come out as if the first attempt had never failed.
	for userID, want := range map[string]int{
		"user_rafa":  10,
		"user_carol": 2,
		"user_dudu":  3,
		"user_mari":  0,
	} {
		if got := userPoints(t, env, userID); got != want {
			t.Fatalf("%s total after retry got=%d want=%d", userID, got, want)
		}
	}
	if got := userScorerMatches(t, env, "user_rafa"); got != 1 {
		t.Fatalf("rafa scorer matches after retry got=%d want=1", got)
	}
}

// gatedWriter delegates to the real store but, once armed, parks the
// first Apply call until released so a second sweep can pile up behind
// the in-flight one.
type gatedWriter struct {
	inner   ledger.Writer
	armed   atomic.Bool
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (w *gatedWriter) MaxOps() int {
	return w.inner.MaxOps()
}

func (w *gatedWriter) Apply(ctx context.Context, ops []ledger.Op) error {
	if w.armed.Load() {
		w.once.Do(func() {
			close(w.entered)
			<-w.release
		})
	}
	return w.inner.Apply(ctx, ops)
}

func TestScoringService_RecalculateSeason_ConcurrentCallersSeeLeaderCount(t *testing.T) {
	writer := &gatedWriter{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	env := newTestEnvWithWriter(t, writer)
	writer.inner = env.store

	created := mustCreateSeason(t, env)
	fx := mustCreateFixture(t, env, "Gremio")
	mustPlace(t, env, "user_rafa", fx.ID, 2, 1, "Vina")
	if err := env.scoring.SetResult(t.Context(), fx.ID, canonicalResult(), "user_admin"); err != nil {
		t.Fatalf("set result failed: %v", err)
	}

	writer.armed.Store(true)

	type recalcResult struct {
		count int
		err   error
	}
	leader := make(chan recalcResult, 1)
	go func() {
		count, err := env.scoring.RecalculateSeason(context.Background(), created.ID)
		leader <- recalcResult{count: count, err: err}
	}()

	// The leader holds the flight while parked inside Apply.
	<-writer.entered

	joiner := make(chan recalcResult, 1)
	go func() {
		count, err := env.scoring.RecalculateSeason(context.Background(), created.ID)
		joiner <- recalcResult{count: count, err: err}
	}()

	time.Sleep(20 * time.Millisecond)
	close(writer.release)

	for name, ch := range map[string]chan recalcResult{"leader": leader, "joiner": joiner} {
		res := <-ch
		if res.err != nil {
			t.Fatalf("%s recalculate failed: %v", name, res.err)
		}
		if res.count != 1 {
			t.Fatalf("%s recalculated count got=%d want=1", name, res.count)
		}
	}
}

// Every mutation that touches points must keep the users' running totals
// equal to the sum of points stored on the live predictions. This walks
// the whole store after each step of a season's life.
func TestScoringService_Lifecycle_TotalsMatchStoredPoints(t *testing.T) {
	env := newTestEnv(t)
	fx, _ := seedScoredFixture(t, env)

	if err := env.scoring.SetResult(t.Context(), fx.ID, canonicalResult(), "user_admin"); err != nil {
		t.Fatalf("set result failed: %v", err)
	}
	assertTotalsMatchStoredPoints(t, env)

	// Corrected result on the same fixture.
	if err := env.scoring.SetResult(t.Context(), fx.ID, fixture.Result{
		ActualScore:   fixture.Score{Home: 1, Away: 0},
		ActualScorers: []string{"Zanocello"},
	}, "user_admin"); err != nil {
		t.Fatalf("corrected result failed: %v", err)
	}
	assertTotalsMatchStoredPoints(t, env)

	// A second fixture scored in the same season.
	second := mustCreateFixture(t, env, "Fortaleza")
	mustPlace(t, env, "user_rafa", second.ID, 1, 0, "Pedro Henrique")
	mustPlace(t, env, "user_dudu", second.ID, 0, 0, "")
	if err := env.scoring.SetResult(t.Context(), second.ID, fixture.Result{
		ActualScore:   fixture.Score{Home: 1, Away: 0},
		ActualScorers: []string{"Pedro Henrique"},
	}, "user_admin"); err != nil {
		t.Fatalf("set second result failed: %v", err)
	}
	assertTotalsMatchStoredPoints(t, env)

	// Deleting a scored fixture reverses its points.
	if err := env.fixtures.Delete(t.Context(), fx.ID); err != nil {
		t.Fatalf("delete fixture failed: %v", err)
	}
	assertTotalsMatchStoredPoints(t, env)

	// Season end zeroes the totals and leaves no active season, so both
	// sides of the equation land on zero.
	if _, err := env.seasons.End(t.Context(), second.SeasonID); err != nil {
		t.Fatalf("end season failed: %v", err)
	}
	assertTotalsMatchStoredPoints(t, env)
}

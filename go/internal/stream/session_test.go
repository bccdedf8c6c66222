package stream

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/scoreboard/go/internal/events"
	"github.com/mcdev12/scoreboard/go/internal/match"
	"github.com/mcdev12/scoreboard/go/internal/models"
	"github.com/stretchr/testify/suite"
)

const tickInterval = 3 * time.Second

// fakeClock is the part of clockwork's fake clock the tests drive
type fakeClock interface {
	clockwork.Clock
	Advance(d time.Duration)
	BlockUntilContext(ctx context.Context, n int) error
}

type SessionTestSuite struct {
	suite.Suite
	clock   fakeClock
	sink    *recordingSink
	matches *match.Service
	session *Session
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan error
}

func (suite *SessionTestSuite) SetupTest() {
	suite.clock = clockwork.NewFakeClock()
	suite.sink = newRecordingSink()
	suite.matches = newMatchService(suite.T(), liveSeed(), 0)
	suite.session = NewSession("session-1", "test", suite.sink, suite.matches, suite.clock, tickInterval)
	suite.ctx, suite.cancel = context.WithTimeout(context.Background(), waitTimeout)
	suite.done = make(chan error, 1)
}

func (suite *SessionTestSuite) TearDownTest() {
	suite.cancel()
}

func (suite *SessionTestSuite) run() {
	go func() {
		suite.done <- suite.session.Run(suite.ctx)
	}()
}

// open runs the session and waits until it has sent the snapshot and armed its ticker
func (suite *SessionTestSuite) open() recordedEvent {
	suite.run()
	initial := suite.sink.next(suite.T())
	suite.Require().NoError(suite.clock.BlockUntilContext(suite.ctx, 1))
	return initial
}

func (suite *SessionTestSuite) waitDone() error {
	select {
	case err := <-suite.done:
		return err
	case <-time.After(waitTimeout):
		suite.FailNow("timeout while waiting for session to end")
		return nil
	}
}

func (suite *SessionTestSuite) TestStartsConnecting() {
	suite.Equal(StateConnecting, suite.session.State())
}

func (suite *SessionTestSuite) TestInitialSnapshotComesFirst() {
	initial := suite.open()

	suite.Equal(events.NameInitial, initial.Name)
	payload, ok := initial.Payload.(events.MatchesPayload)
	suite.Require().True(ok)
	suite.Len(payload.Matches, 3)
	suite.Equal(StateOpen, suite.session.State())
}

func (suite *SessionTestSuite) TestLateSessionGetsCurrentSnapshotFirst() {
	suite.open()
	for i := 0; i < 2; i++ {
		suite.clock.Advance(tickInterval)
		suite.Equal(events.NameStatusUpdate, suite.sink.next(suite.T()).Name)
		suite.Equal(events.NameMatchesUpdate, suite.sink.next(suite.T()).Name)
	}

	lateSink := newRecordingSink()
	late := NewSession("session-late", "test", lateSink, suite.matches, suite.clock, tickInterval)
	lateDone := make(chan error, 1)
	go func() { lateDone <- late.Run(suite.ctx) }()

	initial := lateSink.next(suite.T())
	suite.Require().Equal(events.NameInitial, initial.Name)
	payload := initial.Payload.(events.MatchesPayload)
	suite.Require().Len(payload.Matches, 3)
	suite.Equal(12, payload.Matches[0].Minute)
	suite.Equal(models.MatchStatusFirstHalf, payload.Matches[0].Status)
	suite.Require().NoError(suite.clock.BlockUntilContext(suite.ctx, 2))

	late.Close()
	suite.NoError(<-lateDone)
	lateSink.expectNone(suite.T(), 50*time.Millisecond)
}

func (suite *SessionTestSuite) TestTickEmitsStatusThenSnapshot() {
	suite.open()

	suite.clock.Advance(tickInterval)

	status := suite.sink.next(suite.T())
	suite.Equal(events.NameStatusUpdate, status.Name)
	suite.Equal(events.StatusUpdatePayload{
		Type:    events.TypeStatusUpdate,
		MatchID: 1,
		Status:  models.MatchStatusFirstHalf,
		Minute:  11,
	}, status.Payload)

	update := suite.sink.next(suite.T())
	suite.Equal(events.NameMatchesUpdate, update.Name)
	payload := update.Payload.(events.MatchesPayload)
	suite.Require().Len(payload.Matches, 3)
	suite.Equal(11, payload.Matches[0].Minute)
	suite.Equal(models.MatchStatusNotStarted, payload.Matches[1].Status)
}

func (suite *SessionTestSuite) TestGoalIsSentBeforeStatus() {
	suite.matches = newMatchService(suite.T(), liveSeed(), 1)
	suite.session = NewSession("session-goal", "test", suite.sink, suite.matches, suite.clock, tickInterval)
	suite.open()

	suite.clock.Advance(tickInterval)

	score := suite.sink.next(suite.T())
	suite.Require().Equal(events.NameScoreUpdate, score.Name)
	payload := score.Payload.(events.ScoreUpdatePayload)
	suite.Equal(events.TypeGoal, payload.Type)
	suite.Equal(1, payload.MatchID)
	suite.Equal(1, payload.HomeScore+payload.AwayScore)
	suite.GreaterOrEqual(payload.Minute, 1)
	suite.LessOrEqual(payload.Minute, 45)

	suite.Equal(events.NameStatusUpdate, suite.sink.next(suite.T()).Name)
	suite.Equal(events.NameMatchesUpdate, suite.sink.next(suite.T()).Name)
}

func (suite *SessionTestSuite) TestCloseStopsEmissionAndLeavesStateAlone() {
	suite.open()
	before := suite.matches.Matches()

	suite.session.Close()
	suite.Equal(StateClosed, suite.session.State())
	suite.NoError(suite.waitDone())

	suite.clock.Advance(tickInterval * 3)
	suite.sink.expectNone(suite.T(), 50*time.Millisecond)
	suite.Equal(before, suite.matches.Matches())
}

func (suite *SessionTestSuite) TestCloseIsIdempotent() {
	suite.open()

	suite.session.Close()
	suite.session.Close()

	suite.NoError(suite.waitDone())
	suite.Equal(StateClosed, suite.session.State())
	select {
	case <-suite.session.Done():
	default:
		suite.Fail("done channel should be closed")
	}
}

func (suite *SessionTestSuite) TestContextCancelClosesSession() {
	suite.open()

	suite.cancel()

	suite.NoError(suite.waitDone())
	suite.Equal(StateClosed, suite.session.State())
}

func (suite *SessionTestSuite) TestWriteFailureIsADisconnect() {
	suite.sink.failOn = events.NameStatusUpdate
	suite.open()

	suite.clock.Advance(tickInterval)

	suite.NoError(suite.waitDone())
	suite.Equal(StateClosed, suite.session.State())
	suite.sink.expectNone(suite.T(), 50*time.Millisecond)
}

func (suite *SessionTestSuite) TestInitialWriteFailureIsReturned() {
	suite.sink.failOn = events.NameInitial
	suite.run()

	suite.ErrorIs(suite.waitDone(), errBrokenPipe)
	suite.Equal(StateClosed, suite.session.State())
}

func (suite *SessionTestSuite) TestClosedSessionCannotOpen() {
	suite.session.Close()
	suite.run()

	suite.ErrorIs(suite.waitDone(), ErrSessionClosed)
	suite.sink.expectNone(suite.T(), 50*time.Millisecond)
}

func TestSessionTestSuite(t *testing.T) {
	suite.Run(t, new(SessionTestSuite))
}

func TestState_String(t *testing.T) {
	for state, want := range map[State]string{
		StateConnecting: "connecting",
		StateOpen:       "open",
		StateClosed:     "closed",
		State(9):        "state(9)",
	} {
		if got := state.String(); got != want {
			t.Fatalf("State(%d).String() = %q, want %q", state, got, want)
		}
	}
}

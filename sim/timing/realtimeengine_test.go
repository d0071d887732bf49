package timing

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

// fakeClock jumps forward by the requested duration whenever the engine
// waits.
type fakeClock struct {
	now   time.Time
	waits []time.Duration
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.waits = append(c.waits, d)
	c.now = c.now.Add(d)

	ch := make(chan time.Time, 1)
	ch <- c.now

	return ch
}

var _ = Describe("RealTimeEngine", func() {
	var (
		mockCtrl *gomock.Controller
		clock    *fakeClock
		engine   *RealTimeEngine
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		clock = &fakeClock{now: time.Unix(1000, 0)}
		engine = NewRealTimeEngine(clock)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should wait for each event to fall due", func() {
		handler := NewMockHandler(mockCtrl)
		evt1 := mockEventAt(mockCtrl, 1.0, handler)
		evt2 := mockEventAt(mockCtrl, 2.5, handler)

		handleEvt1 := handler.EXPECT().Handle(evt1)
		handler.EXPECT().Handle(evt2).After(handleEvt1)

		engine.Schedule(evt2)
		engine.Schedule(evt1)

		Expect(engine.Run()).To(Succeed())
		Expect(clock.waits).To(Equal([]time.Duration{
			time.Second,
			1500 * time.Millisecond,
		}))
		Expect(engine.Now()).To(Equal(VTimeInSec(2.5)))
	})

	It("should handle due events without waiting", func() {
		handler := NewMockHandler(mockCtrl)
		evt := mockEventAt(mockCtrl, 0, handler)
		handler.EXPECT().Handle(evt)

		engine.Schedule(evt)

		Expect(engine.Run()).To(Succeed())
		Expect(clock.waits).To(BeEmpty())
	})

	It("should return the handler error", func() {
		handler := NewMockHandler(mockCtrl)
		evt := mockEventAt(mockCtrl, 1.0, handler)
		failure := errors.New("handler failed")
		handler.EXPECT().Handle(evt).Return(failure)

		engine.Schedule(evt)

		Expect(engine.Run()).To(MatchError(failure))
	})

	It("should stop when the context is cancelled", func() {
		handler := NewMockHandler(mockCtrl)
		evt := mockEventAt(mockCtrl, 1.0, handler)
		engine.Schedule(evt)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		Expect(engine.RunContext(ctx)).To(MatchError(context.Canceled))
	})

	It("should stop a paused run when the context is cancelled", func() {
		handler := NewMockHandler(mockCtrl)
		evt := mockEventAt(mockCtrl, 0.05, handler)
		engine.Schedule(evt)
		engine.Pause()

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- engine.RunContext(ctx) }()

		Consistently(done, 100*time.Millisecond).ShouldNot(Receive())

		cancel()

		Eventually(done, time.Second).Should(Receive(MatchError(context.Canceled)))
		Expect(engine.Paused()).To(BeTrue())
	})

	It("should hold events while paused and handle them on continue", func() {
		handler := NewMockHandler(mockCtrl)
		evt := mockEventAt(mockCtrl, 1.0, handler)
		handled := make(chan struct{})
		handler.EXPECT().Handle(evt).Do(func(Event) { close(handled) })

		engine.Schedule(evt)
		engine.Pause()

		done := make(chan error, 1)
		go func() { done <- engine.Run() }()

		Consistently(handled, 100*time.Millisecond).ShouldNot(BeClosed())

		engine.Continue()

		Eventually(done, time.Second).Should(Receive(BeNil()))
		Expect(handled).To(BeClosed())
		Expect(engine.Paused()).To(BeFalse())
	})

	It("should ignore continue when not paused", func() {
		engine.Continue()

		Expect(engine.Paused()).To(BeFalse())
	})

	It("should drive a ticking component at wall-clock pace", func() {
		ticker := &countingTicker{limit: 3}
		tc := NewTickingComponent("TC", engine, 1*Hz, ticker)

		tc.TickLater()

		Expect(engine.Run()).To(Succeed())
		Expect(ticker.ticks).To(Equal(3))
		Expect(clock.waits).To(Equal([]time.Duration{
			time.Second, time.Second, time.Second,
		}))
	})
})

package countdown

import (
	"bytes"
	"errors"
	"log"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/basp-group/basplib-redirect/sim/hooking"
	"github.com/basp-group/basplib-redirect/sim/timing"
)

var _ = Describe("Controller", func() {
	var (
		mockCtrl  *gomock.Controller
		engine    *timing.SerialEngine
		display   *MockDisplay
		navigator *MockNavigator
		ctrl      *Controller
		tickTimes []timing.VTimeInSec
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = timing.NewSerialEngine()
		display = NewMockDisplay(mockCtrl)
		navigator = NewMockNavigator(mockCtrl)
		ctrl = MakeBuilder().
			WithEngine(engine).
			WithDisplay(display).
			WithNavigator(navigator).
			Build("Countdown")

		tickTimes = nil
		engine.AcceptHook(hooking.HookFunc(func(ctx hooking.HookCtx) {
			if ctx.Pos != timing.HookPosBeforeEvent {
				return
			}

			tickTimes = append(tickTimes, ctx.Item.(timing.Event).Time())
		}))
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	expectCountdownTexts := func() *gomock.Call {
		var last *gomock.Call
		for _, text := range []string{
			"5 sec.", "4 sec.", "3 sec.", "2 sec.", "1 sec.", "0 sec.",
		} {
			call := display.EXPECT().SetText(text)
			if last != nil {
				call.After(last)
			}
			last = call
		}

		return last
	}

	It("should be idle before start", func() {
		Expect(ctrl.State()).To(Equal(StateIdle))
		Expect(ctrl.Name()).To(Equal("Countdown"))
		Expect(ctrl.Destination()).To(Equal(DefaultDestination))
	})

	It("should count down from five and redirect once", func() {
		lastText := expectCountdownTexts()
		navigator.EXPECT().
			Assign("https://basp-group.github.io/BASPLib/index.html").
			Return(nil).
			After(lastText).
			Times(1)

		ctrl.Start()

		Expect(ctrl.State()).To(Equal(StateCounting))
		Expect(engine.Run()).To(Succeed())
		Expect(ctrl.State()).To(Equal(StateRedirected))
		Expect(ctrl.Ticks()).To(Equal(6))
		Expect(ctrl.Text()).To(Equal("0 sec."))
		Expect(tickTimes).To(Equal([]timing.VTimeInSec{1, 2, 3, 4, 5, 6}))
	})

	It("should not redirect after only five ticks", func() {
		for _, text := range []string{
			"5 sec.", "4 sec.", "3 sec.", "2 sec.", "1 sec.",
		} {
			display.EXPECT().SetText(text)
		}

		ctrl.Start()

		Expect(engine.RunUntil(5)).To(Succeed())
		Expect(ctrl.Ticks()).To(Equal(5))
		Expect(ctrl.Text()).To(Equal("1 sec."))
		Expect(ctrl.Remaining()).To(Equal(0))
		Expect(ctrl.State()).To(Equal(StateCounting))
	})

	It("should show 5-k sec. after the k-th tick", func() {
		display.EXPECT().SetText(gomock.Any()).AnyTimes()
		navigator.EXPECT().Assign(gomock.Any()).Return(nil)

		ctrl.Start()

		for k := 1; k <= 6; k++ {
			Expect(engine.RunUntil(timing.VTimeInSec(k))).To(Succeed())
			Expect(ctrl.Ticks()).To(Equal(k))
			Expect(ctrl.Text()).To(Equal(Format(6 - k)))
		}

		Expect(ctrl.State()).To(Equal(StateRedirected))
	})

	It("should never tick a seventh time", func() {
		expectCountdownTexts()
		navigator.EXPECT().Assign(gomock.Any()).Return(nil)

		ctrl.Start()
		Expect(engine.Run()).To(Succeed())

		Expect(engine.RunUntil(100)).To(Succeed())
		Expect(ctrl.Ticks()).To(Equal(6))
		Expect(ctrl.Cancelled()).To(BeTrue())
		Expect(tickTimes).To(HaveLen(6))
	})

	It("should surface the navigation error from the engine", func() {
		expectCountdownTexts()
		failure := errors.New("location is read-only")
		navigator.EXPECT().Assign(DefaultDestination).Return(failure)

		ctrl.Start()

		Expect(engine.Run()).To(MatchError(failure))
		Expect(ctrl.State()).To(Equal(StateRedirected))
	})

	It("should panic when started twice", func() {
		ctrl.Start()

		Expect(func() { ctrl.Start() }).To(Panic())
	})

	It("should panic when the display surface is missing", func() {
		headless := MakeBuilder().
			WithEngine(engine).
			WithNavigator(navigator).
			Build("Headless")

		headless.Start()

		Expect(func() { _ = engine.Run() }).To(Panic())
	})

	It("should invoke tick and redirect hooks", func() {
		expectCountdownTexts()
		navigator.EXPECT().Assign(gomock.Any()).Return(nil)

		infos := []TickInfo{}
		redirects := []string{}
		ctrl.AcceptHook(hooking.HookFunc(func(ctx hooking.HookCtx) {
			switch ctx.Pos {
			case HookPosTick:
				infos = append(infos, ctx.Detail.(TickInfo))
			case HookPosRedirect:
				redirects = append(redirects, ctx.Item.(string))
			}
		}))

		ctrl.Start()
		Expect(engine.Run()).To(Succeed())

		Expect(infos).To(HaveLen(6))
		Expect(infos[0]).To(Equal(TickInfo{
			Tick: 1, Time: 1, Remaining: 5, Text: "5 sec.",
		}))
		Expect(infos[5].Text).To(Equal("0 sec."))
		Expect(redirects).To(Equal([]string{DefaultDestination}))
	})

	It("should log ticks and the redirect", func() {
		expectCountdownTexts()
		navigator.EXPECT().Assign(gomock.Any()).Return(nil)

		buf := new(bytes.Buffer)
		ctrl.AcceptHook(NewLogHook(log.New(buf, "", 0)))

		ctrl.Start()
		Expect(engine.Run()).To(Succeed())

		Expect(buf.String()).To(ContainSubstring("1.000, tick 1, 5 sec."))
		Expect(buf.String()).To(ContainSubstring("6.000, tick 6, 0 sec."))
		Expect(buf.String()).To(ContainSubstring("redirect to " + DefaultDestination))
	})
})

var _ = Describe("Builder", func() {
	var (
		mockCtrl  *gomock.Controller
		engine    *timing.SerialEngine
		display   *MockDisplay
		navigator *MockNavigator
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = timing.NewSerialEngine()
		display = NewMockDisplay(mockCtrl)
		navigator = NewMockNavigator(mockCtrl)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should honor custom seconds, interval and destination", func() {
		ctrl := MakeBuilder().
			WithEngine(engine).
			WithDisplay(display).
			WithNavigator(navigator).
			WithSeconds(2).
			WithInterval(500 * time.Millisecond).
			WithDestination("https://example.com/").
			Build("Short")

		first := display.EXPECT().SetText("2 sec.")
		second := display.EXPECT().SetText("1 sec.").After(first)
		third := display.EXPECT().SetText("0 sec.").After(second)
		navigator.EXPECT().Assign("https://example.com/").After(third)

		ctrl.Start()

		Expect(engine.Run()).To(Succeed())
		Expect(engine.Now()).To(Equal(timing.VTimeInSec(1.5)))
	})

	It("should redirect on the first tick when starting from zero", func() {
		ctrl := MakeBuilder().
			WithEngine(engine).
			WithDisplay(display).
			WithNavigator(navigator).
			WithSeconds(0).
			Build("Zero")

		display.EXPECT().SetText("0 sec.")
		navigator.EXPECT().Assign(DefaultDestination)

		ctrl.Start()

		Expect(engine.Run()).To(Succeed())
		Expect(ctrl.Ticks()).To(Equal(1))
	})

	It("should require an engine and a navigator", func() {
		Expect(func() {
			MakeBuilder().WithNavigator(navigator).Build("NoEngine")
		}).To(Panic())
		Expect(func() {
			MakeBuilder().WithEngine(engine).Build("NoNavigator")
		}).To(Panic())
	})

	It("should reject negative seconds", func() {
		Expect(func() {
			MakeBuilder().
				WithEngine(engine).
				WithNavigator(navigator).
				WithSeconds(-1).
				Build("Negative")
		}).To(Panic())
	})
})

var _ = Describe("State", func() {
	It("should print names", func() {
		Expect(StateIdle.String()).To(Equal("Idle"))
		Expect(StateCounting.String()).To(Equal("Counting"))
		Expect(StateRedirected.String()).To(Equal("Redirected"))
		Expect(State(9).String()).To(Equal("State(9)"))
	})
})

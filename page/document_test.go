package page_test

import (
	"bytes"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/basp-group/basplib-redirect/page"
)

var _ = Describe("Document", func() {
	var doc *page.Document

	BeforeEach(func() {
		doc = page.NewDocument("Redirecting", "about:blank", "countdown")
	})

	It("should address elements by id", func() {
		e := doc.GetElementByID("countdown")
		Expect(e).NotTo(BeNil())

		e.SetText("3 sec.")

		Expect(doc.GetElementByID("countdown").Text()).To(Equal("3 sec."))
		Expect(doc.GetElementByID("missing")).To(BeNil())
	})

	It("should return a nil display for a missing element", func() {
		Expect(doc.Display("countdown")).NotTo(BeNil())
		Expect(doc.Display("missing")).To(BeNil())
	})

	It("should panic on duplicated element ids", func() {
		Expect(func() { doc.AddElement("countdown") }).To(Panic())
	})

	It("should run load handlers once", func() {
		calls := 0
		doc.OnLoad(func() { calls++ })

		doc.Load()

		Expect(calls).To(Equal(1))
		Expect(doc.Loaded()).To(BeTrue())
		Expect(func() { doc.Load() }).To(Panic())
		Expect(calls).To(Equal(1))
	})

	It("should change location and notify listeners", func() {
		seen := []string{}
		doc.OnNavigate(func(url string) error {
			seen = append(seen, url)
			return nil
		})

		Expect(doc.Navigated()).To(BeFalse())
		Expect(doc.Assign("https://example.com/")).To(Succeed())

		Expect(doc.Location()).To(Equal("https://example.com/"))
		Expect(doc.Navigated()).To(BeTrue())
		Expect(doc.NavigationCount()).To(Equal(1))
		Expect(seen).To(Equal([]string{"https://example.com/"}))
	})

	It("should keep the new location when a listener fails", func() {
		failure := errors.New("no browser")
		doc.OnNavigate(func(string) error { return failure })

		Expect(doc.Assign("https://example.com/")).To(MatchError(failure))
		Expect(doc.Location()).To(Equal("https://example.com/"))
	})

	It("should render elements as html", func() {
		doc.GetElementByID("countdown").SetText("4 sec.")

		buf := new(bytes.Buffer)
		Expect(doc.Render(buf, 1)).To(Succeed())

		Expect(buf.String()).To(ContainSubstring(`<span id="countdown">4 sec.</span>`))
		Expect(buf.String()).To(ContainSubstring(`<meta http-equiv="refresh" content="1">`))
		Expect(buf.String()).To(ContainSubstring(`<title>Redirecting</title>`))
	})
})

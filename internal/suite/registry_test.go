package suite_test

import (
	"sort"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/speedlab/internal/suite"
)

var _ = Describe("Registry", func() {
	var reg *suite.Registry

	BeforeEach(func() {
		reg = suite.Default()
	})

	It("registers every library and scenario suite", func() {
		names := reg.List()
		Expect(names).To(HaveLen(14))
		Expect(sort.StringsAreSorted(names)).To(BeTrue())
		Expect(names).To(ContainElements(
			"toml", "dotenv", "jsonschema", "markup", "version", "tabulate",
			"humanize", "colorize", "dateparse", "charset", "iterx", "validators",
			"web-scraping", "package-versions",
		))
	})

	It("rejects unknown suites", func() {
		_, err := reg.Get("yaml")
		Expect(err).To(MatchError("unknown suite: yaml"))

		_, err = reg.Resolve([]string{"toml", "nope"})
		Expect(err).To(HaveOccurred())
	})

	It("resolves all suites when no names are given", func() {
		suites, err := reg.Resolve(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(suites).To(HaveLen(len(reg.List())))
	})

	It("lets callers add suites", func() {
		reg.Register("custom", func() suite.Suite {
			return suite.Suite{Name: "custom", Cases: []suite.Case{{Name: "noop", Iterations: 1}}}
		})
		s, err := reg.Get("custom")
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Cases).To(HaveLen(1))
	})

	Describe("default cases", func() {
		for _, name := range suite.Default().List() {
			It("runs the accelerated side of "+name, func() {
				s, err := reg.Get(name)
				Expect(err).NotTo(HaveOccurred())
				Expect(s.Name).To(Equal(name))
				Expect(s.Cases).NotTo(BeEmpty())

				for _, c := range s.Cases {
					Expect(c.Iterations).To(BeNumerically(">", 0), c.Name)
					Expect(c.Fast).NotTo(BeNil(), c.Name)
					_, err := c.Fast()
					if c.ExpectError {
						Expect(err).To(HaveOccurred(), c.Name)
					} else {
						Expect(err).NotTo(HaveOccurred(), c.Name)
					}
				}
			})
		}
	})
})

var _ = Describe("Suite.Filter", func() {
	It("keeps only the named cases", func() {
		s, err := suite.Default().Get("humanize")
		Expect(err).NotTo(HaveOccurred())

		filtered := s.Filter("ordinal")
		Expect(filtered.Cases).To(HaveLen(1))
		Expect(filtered.Cases[0].Name).To(Equal("ordinal"))
		Expect(s.Filter().Cases).To(HaveLen(len(s.Cases)))
	})
})

package compat_test

import (
	"context"
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/speedlab/internal/compat"
	"github.com/san-kum/speedlab/internal/suite"
)

func constant(v any) func() (any, error) {
	return func() (any, error) { return v, nil }
}

func failing(msg string) func() (any, error) {
	return func() (any, error) { return nil, errors.New(msg) }
}

var _ = Describe("Check", func() {
	It("matches equal outputs", func() {
		o := compat.Check(suite.Case{Name: "eq", Fast: constant([]int{1, 2}), Reference: constant([]int{1, 2})})
		Expect(o.Match).To(BeTrue())
		Expect(o.Diff).To(BeEmpty())
		Expect(o.AsError()).To(Succeed())
	})

	It("reports a diff for different outputs", func() {
		o := compat.Check(suite.Case{Name: "ne", Fast: constant("a&b"), Reference: constant("a&amp;b")})
		Expect(o.Match).To(BeFalse())
		Expect(o.Diff).To(ContainSubstring("a&amp;b"))
		Expect(o.AsError()).To(MatchError(compat.ErrMismatch))
	})

	It("treats nil and empty collections as equal", func() {
		o := compat.Check(suite.Case{Name: "empty", Fast: constant([]string(nil)), Reference: constant([]string{})})
		Expect(o.Match).To(BeTrue())
	})

	It("compares floats approximately", func() {
		o := compat.Check(suite.Case{Name: "float", Fast: constant(0.1 + 0.2), Reference: constant(0.3)})
		Expect(o.Match).To(BeTrue())
	})

	It("applies Normalize to both sides", func() {
		o := compat.Check(suite.Case{
			Name:      "norm",
			Fast:      constant("HELLO"),
			Reference: constant("hello"),
			Normalize: func(v any) any { return strings.ToLower(v.(string)) },
		})
		Expect(o.Match).To(BeTrue())
	})

	It("accepts matching failures", func() {
		o := compat.Check(suite.Case{Name: "both", Fast: failing("bad toml"), Reference: failing("toml: line 1")})
		Expect(o.Match).To(BeTrue())
	})

	It("flags a one-sided failure", func() {
		o := compat.Check(suite.Case{Name: "one", Fast: failing("boom"), Reference: constant(1)})
		Expect(o.Match).To(BeFalse())
		Expect(o.Diff).To(ContainSubstring("accelerated failed: boom"))

		o = compat.Check(suite.Case{Name: "other", Fast: constant(1), Reference: failing("boom")})
		Expect(o.Match).To(BeFalse())
		Expect(o.Diff).To(ContainSubstring("reference failed"))
	})

	It("skips cases without a reference", func() {
		o := compat.Check(suite.Case{Name: "timing", Fast: constant(1)})
		Expect(o.Skipped).To(BeTrue())
		Expect(o.Match).To(BeTrue())
	})

	It("errors on cases without an accelerated side", func() {
		o := compat.Check(suite.Case{Name: "hollow", Reference: constant(1)})
		Expect(o.Err).To(HaveOccurred())
	})

	It("survives values cmp cannot inspect", func() {
		type opaque struct{ v int }
		o := compat.Check(suite.Case{Name: "opaque", Fast: constant(opaque{1}), Reference: constant(opaque{2})})
		Expect(o.Match).To(BeFalse())
		Expect(o.Diff).To(ContainSubstring("not comparable"))
	})
})

var _ = Describe("CheckAll", func() {
	cases := []suite.Case{
		{Name: "a", Fast: constant(1), Reference: constant(1)},
		{Name: "b", Fast: constant(1), Reference: constant(2)},
		{Name: "c", Fast: constant(1)},
	}

	It("keeps case order", func() {
		outcomes := compat.CheckAll(context.Background(), cases, 2)
		Expect(outcomes).To(HaveLen(3))
		for i, o := range outcomes {
			Expect(o.Case).To(Equal(cases[i].Name))
		}
		matched, failed, skipped := compat.Summary(outcomes)
		Expect([]int{matched, failed, skipped}).To(Equal([]int{1, 1, 1}))
	})

	It("stops starting cases once the context is done", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		for _, o := range compat.CheckAll(ctx, cases, 1) {
			Expect(o.Err).To(MatchError(context.Canceled))
		}
	})
})

var _ = Describe("default suites", func() {
	reg := suite.Default()
	for _, name := range reg.List() {
		It("agree with their references: "+name, func() {
			s, err := reg.Get(name)
			Expect(err).NotTo(HaveOccurred())
			for _, o := range compat.CheckAll(context.Background(), s.Cases, 4) {
				Expect(o.Err).NotTo(HaveOccurred(), o.Case)
				Expect(o.Match).To(BeTrue(), "%s/%s:\n%s", name, o.Case, o.Diff)
			}
		})
	}
})

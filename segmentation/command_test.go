package segmentation

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ParseCommand", func() {
	DescribeTable("valid commands",
		func(line string, expected Command) {
			cmd, err := ParseCommand(line)
			Expect(err).NotTo(HaveOccurred())
			Expect(cmd).To(Equal(expected))
		},
		Entry("allocate", "allocate seg1 30",
			Command{Kind: CommandAllocate, SegmentID: "seg1", Size: 30}),
		Entry("upper case", "ALLOCATE Seg1 30",
			Command{Kind: CommandAllocate, SegmentID: "seg1", Size: 30}),
		Entry("extra spaces", "  allocate   a\t5  ",
			Command{Kind: CommandAllocate, SegmentID: "a", Size: 5}),
		Entry("negative size parses", "allocate a -5",
			Command{Kind: CommandAllocate, SegmentID: "a", Size: -5}),
		Entry("deallocate", "deallocate seg1",
			Command{Kind: CommandDeallocate, SegmentID: "seg1"}),
		Entry("show", "show", Command{Kind: CommandShow}),
		Entry("exit", "Exit", Command{Kind: CommandExit}),
		Entry("blank", "   ", Command{Kind: CommandNone}),
	)

	DescribeTable("malformed commands",
		func(line string) {
			_, err := ParseCommand(line)
			Expect(err).To(MatchError(ErrMalformedCommand))
		},
		Entry("unknown verb", "free a"),
		Entry("allocate without size", "allocate a"),
		Entry("allocate with extra words", "allocate a 5 6"),
		Entry("deallocate without id", "deallocate"),
		Entry("show with argument", "show all"),
		Entry("exit with argument", "exit now"),
	)

	It("should report a size that is not a number", func() {
		_, err := ParseCommand("allocate a lots")

		Expect(err).To(MatchError(ErrMalformedCommand))
		Expect(err).To(MatchError(ErrInvalidSize))
	})

	It("should name command kinds", func() {
		Expect(CommandAllocate.String()).To(Equal("allocate"))
		Expect(CommandKind(42).String()).To(Equal("CommandKind(42)"))
	})
})

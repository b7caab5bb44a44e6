package assembler_test

import (
	"errors"
	"strings"

	gomock "github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Urethramancer/hack/assembler"
	"github.com/Urethramancer/hack/cpu"
)

var stackSetup = []string{
	"// CALL STACK SETUP",
	"@16383",
	"D=A-1",
	"M=D",
}

func texts(lines []assembler.Line) []string {
	list := make([]string, 0, len(lines))
	for _, l := range lines {
		list = append(list, l.Text)
	}
	return list
}

func concat(parts ...[]string) []string {
	var list []string
	for _, p := range parts {
		list = append(list, p...)
	}
	return list
}

var _ = Describe("Preprocessor", func() {
	var asm *assembler.Assembler

	BeforeEach(func() {
		asm = assembler.New()
	})

	It("should prefix the stack setup", func() {
		lines, err := asm.Preprocess("main.asm", "")
		Expect(err).NotTo(HaveOccurred())
		Expect(texts(lines)).To(Equal(stackSetup))
		for _, l := range lines {
			Expect(l.Pos).To(Equal(assembler.Pos{File: "main.asm"}))
		}
	})

	It("should expand #call and #ret", func() {
		lines, err := asm.Preprocess("main.asm", "#call subroutine\n#ret\n")
		Expect(err).NotTo(HaveOccurred())
		Expect(texts(lines)).To(Equal(concat(stackSetup, []string{
			"// CALL subroutine",
			"@subroutine$ret.0",
			"D=A",
			"@16383",
			"A=M",
			"M=D",
			"@16383",
			"M=M-1",
			"@subroutine",
			"0;JMP",
			"(subroutine$ret.0)",
			"// RETURN",
			"@16383",
			"M=M+1",
			"A=M",
			"A=M",
			"0;JMP",
		})))

		Expect(lines[4].Pos).To(Equal(assembler.Pos{File: "main.asm", Line: 1}))
		Expect(lines[len(lines)-1].Pos).To(Equal(assembler.Pos{File: "main.asm", Line: 2}))
	})

	It("should number return labels per call site", func() {
		lines, err := asm.Preprocess("main.asm", "#call f\n#call g\n#call f")
		Expect(err).NotTo(HaveOccurred())
		all := texts(lines)
		Expect(all).To(ContainElement("(f$ret.0)"))
		Expect(all).To(ContainElement("(g$ret.1)"))
		Expect(all).To(ContainElement("(f$ret.2)"))
	})

	It("should use the configured stack pointer", func() {
		asm = assembler.New(assembler.WithStackPointer(300))
		lines, err := asm.Preprocess("main.asm", "#ret")
		Expect(err).NotTo(HaveOccurred())
		all := texts(lines)
		Expect(all[:4]).To(Equal([]string{"// CALL STACK SETUP", "@300", "D=A-1", "M=D"}))
		Expect(all[5]).To(Equal("@300"))
	})

	It("should pass plain lines through normalized", func() {
		src := "@2   // two\n\n  D = A\n(LOOP)\n0;JMP\n"
		lines, err := asm.Preprocess("main.asm", src)
		Expect(err).NotTo(HaveOccurred())
		Expect(texts(lines)).To(Equal(concat(stackSetup, []string{"@2", "D=A", "(LOOP)", "0;JMP"})))
		Expect(lines[5].Pos).To(Equal(assembler.Pos{File: "main.asm", Line: 3}))
	})

	It("should only add the setup when run again on its own output", func() {
		first, err := asm.Preprocess("main.asm", "@2\nD=A\n(LOOP)\n@LOOP\n0;JMP")
		Expect(err).NotTo(HaveOccurred())

		body := texts(first)[len(stackSetup):]
		second, err := asm.Preprocess("main.asm", strings.Join(body, "\n"))
		Expect(err).NotTo(HaveOccurred())
		Expect(texts(second)).To(Equal(texts(first)))
	})

	It("should accept directives in any case", func() {
		lower, err := asm.Preprocess("main.asm", "#call f\n#ret")
		Expect(err).NotTo(HaveOccurred())
		upper, err := asm.Preprocess("main.asm", "#CALL f\n  #Ret  // back")
		Expect(err).NotTo(HaveOccurred())
		Expect(texts(upper)).To(Equal(texts(lower)))
	})

	DescribeTable("should reject malformed directives",
		func(src string, line int) {
			_, err := asm.Preprocess("main.asm", src)
			Expect(errors.Is(err, assembler.ErrMalformedDirective)).To(BeTrue(), "got %v", err)

			var se *assembler.SourceError
			Expect(errors.As(err, &se)).To(BeTrue())
			Expect(se.Pos).To(Equal(assembler.Pos{File: "main.asm", Line: line}))
		},
		Entry("call without target", "@1\n#call", 2),
		Entry("call with comment only", "#call // where", 1),
		Entry("call to a number", "#call 12", 1),
		Entry("include without path", "#include", 1),
		Entry("unknown directive", "@1\n@2\n#define X 1", 3),
		Entry("bare hash", "#", 1),
	)

	It("should leave directives alone when macros are off", func() {
		asm = assembler.New(assembler.WithMacros(false))
		lines, err := asm.Preprocess("main.asm", "#call f")
		Expect(err).NotTo(HaveOccurred())
		Expect(texts(lines)).To(Equal([]string{"#call f"}))
	})
})

var _ = Describe("Includes", func() {
	var (
		mockCtrl     *gomock.Controller
		mockIncluder *MockIncluder
		asm          *assembler.Assembler
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		mockIncluder = NewMockIncluder(mockCtrl)
		asm = assembler.New(assembler.WithIncluder(mockIncluder))
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should append included files in the order they were met", func() {
		gomock.InOrder(
			mockIncluder.EXPECT().ReadFile("lib.asm").
				Return([]byte("(lib)\n@y\n#include util.asm\n"), nil),
			mockIncluder.EXPECT().ReadFile("util.asm").
				Return([]byte("@z\n"), nil),
		)

		lines, err := asm.Preprocess("main.asm", "#include lib.asm\n@x\n")
		Expect(err).NotTo(HaveOccurred())
		Expect(texts(lines)).To(Equal(concat(stackSetup, []string{
			"// INCLUDE lib.asm",
			"@x",
			"// INCLUDED FILE lib.asm",
			"(lib)",
			"@y",
			"// INCLUDE util.asm",
			"// INCLUDED FILE util.asm",
			"@z",
		})))
		Expect(lines[8].Pos).To(Equal(assembler.Pos{File: "lib.asm", Line: 2}))
		Expect(lines[11].Pos).To(Equal(assembler.Pos{File: "util.asm", Line: 1}))
	})

	It("should allocate variables across included files", func() {
		mockIncluder.EXPECT().ReadFile("lib.asm").
			Return([]byte("(lib)\n@y\n#include util.asm\n"), nil)
		mockIncluder.EXPECT().ReadFile("util.asm").
			Return([]byte("@z\n"), nil)

		code, err := asm.Assemble("main.asm", "#include lib.asm\n@x\n")
		Expect(err).NotTo(HaveOccurred())
		Expect(code[len(code)-3:]).To(Equal([]uint16{16, 17, 18}))

		addr, ok := asm.Symbols().Lookup("lib")
		Expect(ok).To(BeTrue())
		Expect(addr).To(Equal(uint16(4)))
	})

	It("should read a file only once", func() {
		mockIncluder.EXPECT().ReadFile("lib.asm").
			Return([]byte("@y\n"), nil).
			Times(1)

		lines, err := asm.Preprocess("main.asm", "#include lib.asm\n#include ./lib.asm\n@x")
		Expect(err).NotTo(HaveOccurred())
		Expect(texts(lines)).To(Equal(concat(stackSetup, []string{
			"// INCLUDE lib.asm",
			"// INCLUDE ./lib.asm",
			"@x",
			"// INCLUDED FILE lib.asm",
			"@y",
		})))
	})

	It("should skip an include of the primary file", func() {
		mockIncluder.EXPECT().ReadFile("lib.asm").
			Return([]byte("#include main.asm\n@y\n"), nil)

		lines, err := asm.Preprocess("main.asm", "#include lib.asm\n@x")
		Expect(err).NotTo(HaveOccurred())
		Expect(texts(lines)).To(Equal(concat(stackSetup, []string{
			"// INCLUDE lib.asm",
			"@x",
			"// INCLUDED FILE lib.asm",
			"// INCLUDE main.asm",
			"@y",
		})))
	})

	It("should report unreadable files at the include line", func() {
		mockIncluder.EXPECT().ReadFile("missing.asm").
			Return(nil, errors.New("no such file"))

		_, err := asm.Assemble("main.asm", "#include missing.asm\n@x")
		Expect(errors.Is(err, assembler.ErrIO)).To(BeTrue(), "got %v", err)

		var se *assembler.SourceError
		Expect(errors.As(err, &se)).To(BeTrue())
		Expect(se.Pos).To(Equal(assembler.Pos{File: "main.asm", Line: 1}))
		Expect(err.Error()).To(ContainSubstring("no such file"))
	})

	It("should report errors inside included files at their own lines", func() {
		mockIncluder.EXPECT().ReadFile("bad.asm").
			Return([]byte("@1\n\nD=A+D\n"), nil)

		_, err := asm.Assemble("main.asm", "#include bad.asm")
		Expect(errors.Is(err, assembler.ErrIllegalComputation)).To(BeTrue(), "got %v", err)

		var se *assembler.SourceError
		Expect(errors.As(err, &se)).To(BeTrue())
		Expect(se.Pos).To(Equal(assembler.Pos{File: "bad.asm", Line: 3}))
	})
})

var _ = Describe("Subroutines on the emulator", func() {
	const program = `
// R0 = 4 * R0, through two calls to double.
@10
D=A
@R1
M=D
@R0
M=D
#call quad
(END)
@END
0;JMP

(double)
@R0
D=M
M=D+M
#ret

(quad)
#call double
#call double
#ret
`

	It("should return to each call site", func() {
		code, err := assembler.New().Assemble("quad.asm", program)
		Expect(err).NotTo(HaveOccurred())

		c := cpu.New(code)
		Expect(c.Run(10_000)).To(Succeed())
		Expect(c.Halted).To(BeTrue())
		Expect(c.RAM[0]).To(Equal(uint16(40)))
		Expect(c.RAM[1]).To(Equal(uint16(10)))
		Expect(c.RAM[assembler.DefaultStackPointer]).To(Equal(uint16(assembler.DefaultStackPointer - 1)))
	})

	It("should honour a moved stack pointer", func() {
		code, err := assembler.New(assembler.WithStackPointer(1000)).Assemble("quad.asm", program)
		Expect(err).NotTo(HaveOccurred())

		c := cpu.New(code)
		Expect(c.Run(10_000)).To(Succeed())
		Expect(c.RAM[0]).To(Equal(uint16(40)))
		Expect(c.RAM[1000]).To(Equal(uint16(999)))
		Expect(c.RAM[assembler.DefaultStackPointer]).To(BeZero())
	})
})

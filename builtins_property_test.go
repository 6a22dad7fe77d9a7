package main

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

//
// Property suites for the built-in function invariants.  The
// builtins only touch the value layer, so a bare runtime is enough
//

func setupBare(t *testing.T) {

	t.Helper()

	g.con = newScriptConsole(strings.NewReader(""), &strings.Builder{})
	g.fs = &osFileSystem{dir: t.TempDir()}

	initProgramTree()
	initRuntime()
}

func TestPropertyChrAscIdentity(t *testing.T) {

	setupBare(t)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("ASC(CHR$(n)) = n for 0 <= n <= 255", prop.ForAll(
		func(n int) bool {
			s := callBuiltin("chr$", []any{float64(n)}).(string)
			back := callBuiltin("asc", []any{s}).(float64)
			return back == float64(n)
		},
		gen.IntRange(0, 255),
	))

	properties.TestingRun(t)
}

func TestPropertyStringHomogeneity(t *testing.T) {

	setupBare(t)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("STRING$(n, c) has length n and every byte c", prop.ForAll(
		func(n, c int) bool {
			s := callBuiltin("string$",
				[]any{float64(n), float64(c)}).(string)

			if len(s) != n {
				return false
			}

			for i := 0; i < len(s); i++ {
				if s[i] != byte(c) {
					return false
				}
			}

			return true
		},
		gen.IntRange(0, 255),
		gen.IntRange(0, 255),
	))

	properties.TestingRun(t)
}

func TestPropertyLeftMidPartition(t *testing.T) {

	setupBare(t)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("LEFT$(s,k) + MID$(s,k+1) = s", prop.ForAll(
		func(s string, k int) bool {
			if k > len(s) {
				k = len(s)
			}

			left := callBuiltin("left$", []any{s, float64(k)}).(string)
			rest := callBuiltin("mid$", []any{s, float64(k + 1)}).(string)

			return left+rest == s
		},
		gen.AlphaString(),
		gen.IntRange(0, 40),
	))

	properties.TestingRun(t)
}

func TestPropertyInstr(t *testing.T) {

	setupBare(t)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("INSTR(s, \"\") = 1; found index >= start or 0", prop.ForAll(
		func(hay, needle string, start int) bool {
			if hay == "" {
				return true
			}

			empty := callBuiltin("instr", []any{hay, ""}).(float64)
			if empty != 1 {
				return false
			}

			if start < 1 {
				start = 1
			}

			got := callBuiltin("instr",
				[]any{float64(start), hay, needle}).(float64)

			if got == 0 {
				return true
			}

			if got < float64(start) {
				return false
			}

			idx := int(got)
			return strings.HasPrefix(hay[idx-1:], needle)
		},
		gen.AlphaString(),
		gen.AlphaString(),
		gen.IntRange(1, 10),
	))

	properties.TestingRun(t)
}

func TestPropertyBinaryRoundTrip(t *testing.T) {

	setupBare(t)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500

	properties := gopter.NewProperties(parameters)

	properties.Property("CVI(MKI$(n)) = n over the int16 range", prop.ForAll(
		func(n int) bool {
			s := callBuiltin("mki$", []any{float64(n)}).(string)
			if len(s) != 2 {
				return false
			}
			back := callBuiltin("cvi", []any{s}).(float64)
			return back == float64(n)
		},
		gen.IntRange(-32768, 32767),
	))

	properties.Property("CVS(MKS$(x)) = x exactly", prop.ForAll(
		func(x float32) bool {
			s := callBuiltin("mks$", []any{float64(x)}).(string)
			if len(s) != 4 {
				return false
			}
			back := callBuiltin("cvs", []any{s}).(float32)
			return back == x || (back != back && x != x)
		},
		gen.Float32(),
	))

	properties.Property("CVD(MKD$(x)) = x exactly", prop.ForAll(
		func(x float64) bool {
			s := callBuiltin("mkd$", []any{x}).(string)
			if len(s) != 8 {
				return false
			}
			back := callBuiltin("cvd", []any{s}).(float64)
			return back == x || (back != back && x != x)
		},
		gen.Float64(),
	))

	properties.TestingRun(t)
}

func TestPropertyMidAssignmentPreservesLength(t *testing.T) {

	setupBare(t)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("MID$(v,p,l) = e leaves LEN(v) unchanged", prop.ForAll(
		func(s, e string, p, l int) bool {
			if s == "" {
				return true
			}

			p = p%len(s) + 1

			initRuntime()
			storeVariable("v$", typeString, s)

			st := &midAssignStmt{
				target: varExpr{name: "v$", vtype: typeString},
				start:  &numberExpr{val: float64(p)},
				length: &numberExpr{val: float64(l)},
				value:  &stringExpr{val: e},
			}

			executeMidAssign(st)

			after := fetchVariable("v$", typeString).(string)
			return len(after) == len(s)
		},
		gen.AlphaString(),
		gen.AlphaString(),
		gen.IntRange(0, 100),
		gen.IntRange(0, 20),
	))

	properties.TestingRun(t)
}

func TestPropertyHexOctRoundTrip(t *testing.T) {

	setupBare(t)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("VAL(\"&H\"+HEX$(n)) = n for 0 <= n < 32768", prop.ForAll(
		func(n int) bool {
			h := callBuiltin("hex$", []any{float64(n)}).(string)
			back := callBuiltin("val", []any{"&H" + h}).(float64)
			return back == float64(n)
		},
		gen.IntRange(0, 32767),
	))

	properties.TestingRun(t)
}

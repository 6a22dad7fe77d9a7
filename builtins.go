package main

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

//
// Built-in function dispatch.  Arguments arrive already evaluated;
// arity errors are Missing operand, domain errors Illegal function
// call
//

func callBuiltin(name string, args []any) any {

	switch name {
	default:
		runtimeFaultMsg(errSyntax, "Unknown function "+strings.ToUpper(name))
		panic(nil)

	//
	// Math
	//

	case "abs":
		return math.Abs(argNumber(args, 0))

	case "atn":
		return math.Atan(argNumber(args, 0))

	case "cos":
		return math.Cos(argNumber(args, 0))

	case "sin":
		return math.Sin(argNumber(args, 0))

	case "tan":
		return math.Tan(argNumber(args, 0))

	case "exp":
		return math.Exp(argNumber(args, 0))

	case "log":
		f := argNumber(args, 0)
		runtimeCheck(f > 0, errIllegalFunction)
		return math.Log(f)

	case "sqr":
		f := argNumber(args, 0)
		runtimeCheck(f >= 0, errIllegalFunction)
		return math.Sqrt(f)

	case "int":
		return math.Floor(argNumber(args, 0))

	case "fix":
		return math.Trunc(argNumber(args, 0))

	case "sgn":
		f := argNumber(args, 0)
		switch {
		case f > 0:
			return float64(1)
		case f < 0:
			return float64(-1)
		}
		return float64(0)

	case "rnd":
		return builtinRnd(args)

	//
	// Type conversion
	//

	case "cint":
		return toInteger(argValue(args, 0))

	case "csng":
		return float32(argNumber(args, 0))

	case "cdbl":
		return argNumber(args, 0)

	//
	// Strings
	//

	case "asc":
		str := argString(args, 0)
		runtimeCheck(len(str) > 0, errIllegalFunction)
		return float64(str[0])

	case "chr$":
		n := argInt(args, 0)
		runtimeCheck(n >= 0 && n <= 255, errIllegalFunction)

		// strings are byte strings; string(rune(n)) would encode
		// codes past 127 as two bytes

		return string([]byte{byte(n)})

	case "len":
		return float64(len(argString(args, 0)))

	case "str$":
		return formatNumber(argValue(args, 0))

	case "val":
		return valPrefix(argString(args, 0))

	case "left$":
		str := argString(args, 0)
		n := argInt(args, 1)
		runtimeCheck(n >= 0, errIllegalFunction)
		if n > len(str) {
			n = len(str)
		}
		return str[:n]

	case "right$":
		str := argString(args, 0)
		n := argInt(args, 1)
		runtimeCheck(n >= 0, errIllegalFunction)
		if n > len(str) {
			n = len(str)
		}
		return str[len(str)-n:]

	case "mid$":
		return builtinMid(args)

	case "space$":
		n := argInt(args, 0)
		runtimeCheck(n >= 0 && n <= maxStringLen, errIllegalFunction)
		return strings.Repeat(" ", n)

	case "string$":
		return builtinString(args)

	case "instr":
		return builtinInstr(args)

	case "hex$":
		return strings.ToUpper(strconv.FormatInt(int64(uint16(argInteger(args, 0))), 16))

	case "oct$":
		return strconv.FormatInt(int64(uint16(argInteger(args, 0))), 8)

	//
	// I/O
	//

	case "tab":
		return builtinTab(args)

	case "spc":
		n := argInt(args, 0)
		runtimeCheck(n >= 0, errIllegalFunction)
		return strings.Repeat(" ", n)

	case "pos":
		return float64(g.con.getColumn() + 1)

	case "lpos":
		return float64(0)

	case "eof":
		return builtinEof(args)

	case "lof":
		return builtinLof(args)

	case "loc":
		return builtinLoc(args)

	case "inkey$":
		if ch, ok := g.con.inkey(); ok {
			return string(rune(ch))
		}
		return ""

	case "input$":
		return builtinInputS(args)

	//
	// System
	//

	case "err":
		return float64(r.errCode)

	case "erl":
		return float64(r.errLine)

	case "timer":
		now := time.Now()
		midnight := time.Date(now.Year(), now.Month(), now.Day(),
			0, 0, 0, 0, now.Location())
		return now.Sub(midnight).Seconds()

	case "date$":
		return time.Now().Format("01-02-2006")

	case "time$":
		return time.Now().Format("15:04:05")

	case "environ$":
		return os.Getenv(argString(args, 0))

	case "error$":
		if len(args) == 0 {
			return errorMessage(r.errCode)
		}
		return errorMessage(argInt(args, 0))

	case "fre":
		return freConstant

	//
	// Hardware-proximate stubs
	//

	case "peek", "inp", "usr", "varptr":
		return float64(0)

	//
	// Binary record conversions, host byte order
	//

	case "mki$":
		var buf [2]byte
		binary.NativeEndian.PutUint16(buf[:], uint16(argInteger(args, 0)))
		return string(buf[:])

	case "mks$":
		var buf [4]byte
		binary.NativeEndian.PutUint32(buf[:],
			math.Float32bits(float32(argNumber(args, 0))))
		return string(buf[:])

	case "mkd$":
		var buf [8]byte
		binary.NativeEndian.PutUint64(buf[:],
			math.Float64bits(argNumber(args, 0)))
		return string(buf[:])

	case "cvi":
		return float64(int16(binary.NativeEndian.Uint16(padBytes(argString(args, 0), 2))))

	case "cvs":
		return float32(math.Float32frombits(
			binary.NativeEndian.Uint32(padBytes(argString(args, 0), 4))))

	case "cvd":
		return math.Float64frombits(
			binary.NativeEndian.Uint64(padBytes(argString(args, 0), 8)))
	}
}

//
// Argument helpers
//

func argValue(args []any, idx int) any {

	runtimeCheck(idx < len(args), errMissingOperand)

	return args[idx]
}

func argNumber(args []any, idx int) float64 {

	v := argValue(args, idx)
	runtimeCheck(isNumeric(v), errTypeMismatch)

	return toNumber(v)
}

func argInteger(args []any, idx int) int16 {

	v := argValue(args, idx)
	runtimeCheck(isNumeric(v), errTypeMismatch)

	return toInteger(v)
}

func argInt(args []any, idx int) int {

	return int(argInteger(args, idx))
}

func argString(args []any, idx int) string {

	v := argValue(args, idx)
	sv, ok := v.(string)
	runtimeCheck(ok, errTypeMismatch)

	return sv
}

func padBytes(str string, n int) []byte {

	buf := make([]byte, n)
	copy(buf, str)

	return buf
}

//
// RND(x): x > 0 or omitted draws anew, x = 0 repeats the last draw,
// x < 0 reseeds with |x| first
//

func builtinRnd(args []any) any {

	x := float64(1)
	if len(args) > 0 {
		x = argNumber(args, 0)
	}

	if x < 0 {
		seedRng(int64(math.Abs(x)))
	} else if x == 0 {
		return r.rndLast
	}

	r.rndLast = r.rng.Float64()

	return r.rndLast
}

func builtinMid(args []any) any {

	str := argString(args, 0)
	start := argInt(args, 1)
	runtimeCheck(start >= 1, errIllegalFunction)

	length := len(str)
	if len(args) > 2 {
		length = argInt(args, 2)
		runtimeCheck(length >= 0, errIllegalFunction)
	}

	if start > len(str) {
		return ""
	}

	end := start - 1 + length
	if end > len(str) {
		end = len(str)
	}

	return str[start-1 : end]
}

//
// STRING$(n, c) where c is a character code or the first character
// of a string
//

func builtinString(args []any) any {

	n := argInt(args, 0)
	runtimeCheck(n >= 0 && n <= maxStringLen, errIllegalFunction)

	var ch byte

	v := argValue(args, 1)
	if sv, ok := v.(string); ok {
		runtimeCheck(len(sv) > 0, errIllegalFunction)
		ch = sv[0]
	} else {
		code := toInteger(v)
		runtimeCheck(code >= 0 && code <= 255, errIllegalFunction)
		ch = byte(code)
	}

	return strings.Repeat(string([]byte{ch}), n)
}

//
// INSTR([start,] hay, needle): 1-based, empty needle matches at
// start, no match is 0
//

func builtinInstr(args []any) any {

	start := 1
	idx := 0

	if len(args) == 3 {
		start = argInt(args, 0)
		runtimeCheck(start >= 1, errIllegalFunction)
		idx = 1
	}

	hay := argString(args, idx)
	needle := argString(args, idx+1)

	if start > len(hay) {
		return float64(0)
	}

	if needle == "" {
		return float64(start)
	}

	found := strings.Index(hay[start-1:], needle)
	if found < 0 {
		return float64(0)
	}

	return float64(start + found)
}

//
// TAB(c) pads to 1-based column c, a no-op when already past it
//

func builtinTab(args []any) any {

	col := argInt(args, 0)
	runtimeCheck(col >= 1, errIllegalFunction)

	cur := g.con.getColumn()
	if cur >= col-1 {
		return ""
	}

	return strings.Repeat(" ", col-1-cur)
}

func builtinEof(args []any) any {

	fp := getOpenFile(argInt(args, 0))

	if fp.atEOF() {
		return float64(-1)
	}

	return float64(0)
}

func builtinLof(args []any) any {

	fp := getOpenFile(argInt(args, 0))

	return float64(fp.length())
}

//
// LOC: 1-based current record for random files, 128-byte block
// number for sequential ones
//

func builtinLoc(args []any) any {

	fp := getOpenFile(argInt(args, 0))

	if fp.mode == modeRandom {
		if fp.recLen > 0 {
			return float64(fp.position()/int64(fp.recLen) + 1)
		}
		return float64(1)
	}

	return float64(fp.position()/seqBlockSize + 1)
}

//
// INPUT$(n [, #f]) reads exactly n bytes
//

func builtinInputS(args []any) any {

	n := argInt(args, 0)
	runtimeCheck(n >= 0 && n <= maxStringLen, errIllegalFunction)

	if len(args) > 1 {
		fp := getOpenFile(argInt(args, 1))
		str, err := fp.readChars(n)
		if err != nil {
			runtimeFault(errInputPastEnd)
		}
		return str
	}

	var sb strings.Builder
	for sb.Len() < n {
		ch, ok := g.con.inkey()
		if !ok {
			time.Sleep(5 * time.Millisecond)
			continue
		}
		sb.WriteByte(ch)
	}

	return sb.String()
}

func unexpectedTypeError(v any) {

	panic(&basicError{code: errInternal,
		msg: fmt.Sprintf("Internal error: unexpected type %T", v)})
}

func unexpectedTokenError(tok int) {

	panic(&basicError{code: errInternal,
		msg: fmt.Sprintf("Internal error: unexpected token %d", tok)})
}

package main

import "fmt"

//
// MBASIC error codes.  These are the wire-visible numbers ERR returns
// and ERROR n raises; the message table below maps them to the classic
// message text
//

const (
	errNextWithoutFor     = 1
	errSyntax             = 2
	errReturnWithoutGosub = 3
	errOutOfData          = 4
	errIllegalFunction    = 5
	errOverflow           = 6
	errOutOfMemory        = 7
	errUndefinedLine      = 8
	errSubscript          = 9
	errDuplicateDef       = 10
	errDivisionByZero     = 11
	errIllegalDirect      = 12
	errTypeMismatch       = 13
	errOutOfStringSpace   = 14
	errStringTooLong      = 15
	errCantContinue       = 17
	errUndefinedFunction  = 18
	errNoResume           = 19
	errResumeWithoutError = 20
	errMissingOperand     = 22
	errLineBufferOverflow = 23
	errForWithoutNext     = 26
	errWhileWithoutWend   = 29
	errWendWithoutWhile   = 30
	errFieldOverflow      = 50
	errInternal           = 51
	errBadFileNumber      = 52
	errFileNotFound       = 53
	errBadFileMode        = 54
	errFileAlreadyOpen    = 55
	errDiskIO             = 57
	errFileExists         = 58
	errDiskFull           = 61
	errInputPastEnd       = 62
	errBadRecordNumber    = 63
	errBadFileName        = 64
	errDirectInFile       = 66
	errTooManyFiles       = 67
)

var errorMessages = map[int]string{
	errNextWithoutFor:     "NEXT without FOR",
	errSyntax:             "Syntax error",
	errReturnWithoutGosub: "RETURN without GOSUB",
	errOutOfData:          "Out of DATA",
	errIllegalFunction:    "Illegal function call",
	errOverflow:           "Overflow",
	errOutOfMemory:        "Out of memory",
	errUndefinedLine:      "Undefined line number",
	errSubscript:          "Subscript out of range",
	errDuplicateDef:       "Duplicate definition",
	errDivisionByZero:     "Division by zero",
	errIllegalDirect:      "Illegal direct",
	errTypeMismatch:       "Type mismatch",
	errOutOfStringSpace:   "Out of string space",
	errStringTooLong:      "String too long",
	errCantContinue:       "Can't continue",
	errUndefinedFunction:  "Undefined user function",
	errNoResume:           "No RESUME",
	errResumeWithoutError: "RESUME without error",
	errMissingOperand:     "Missing operand",
	errLineBufferOverflow: "Line buffer overflow",
	errForWithoutNext:     "FOR without NEXT",
	errWhileWithoutWend:   "WHILE without WEND",
	errWendWithoutWhile:   "WEND without WHILE",
	errFieldOverflow:      "Field overflow",
	errInternal:           "Internal error",
	errBadFileNumber:      "Bad file number",
	errFileNotFound:       "File not found",
	errBadFileMode:        "Bad file mode",
	errFileAlreadyOpen:    "File already open",
	errDiskIO:             "Disk I/O error",
	errFileExists:         "File already exists",
	errDiskFull:           "Disk full",
	errInputPastEnd:       "Input past end",
	errBadRecordNumber:    "Bad record number",
	errBadFileName:        "Bad file name",
	errDirectInFile:       "Direct statement in file",
	errTooManyFiles:       "Too many files",
}

func errorMessage(code int) string {

	msg, ok := errorMessages[code]
	if !ok {
		return fmt.Sprintf("Unprintable error %d", code)
	}

	return msg
}

//
// Runtime errors are carried out-of-band from the normal return path
// as a panic, caught at the tick boundary in executeTick.  That keeps
// the expression evaluator free of error plumbing while keeping the
// interpreter itself crash-proof against user input
//

type basicError struct {
	code int
	msg  string
	at   pc
}

func (e *basicError) Error() string {

	if e.at.line != 0 {
		return fmt.Sprintf("%s in %d", e.msg, e.at.line)
	}

	return e.msg
}

//
// Raise a runtime error with the given code.  The current PC is
// captured when the fault unwinds to the tick loop
//

func runtimeFault(code int) {
	panic(&basicError{code: code, msg: errorMessage(code)})
}

func runtimeFaultMsg(code int, msg string) {
	panic(&basicError{code: code, msg: msg})
}

//
// runtimeCheck is the teacher pattern for inline invariants that map
// to user-visible errors
//

func runtimeCheck(cond bool, code int) {

	if !cond {
		runtimeFault(code)
	}
}

//
// basicAssert guards internal invariants.  Tripping one is a bug in
// the interpreter, not the BASIC program, so it carries the Internal
// error code
//

func basicAssert(cond bool, format string, args ...any) {

	if !cond {
		panic(&basicError{code: errInternal,
			msg: errorMessage(errInternal) + ": " + fmt.Sprintf(format, args...)})
	}
}

//
// Lexer and parser errors never reach ON ERROR; they surface out of
// the program-load path with line and column attached
//

type lexerError struct {
	line    int
	column  int
	message string
}

func (e *lexerError) Error() string {
	return fmt.Sprintf("line %d col %d: %s", e.line, e.column, e.message)
}

type parseError struct {
	line    int
	column  int
	message string
}

func (e *parseError) Error() string {
	return fmt.Sprintf("line %d col %d: %s", e.line, e.column, e.message)
}

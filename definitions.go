package main

import (
	"math/rand"
	"time"

	"github.com/danswartzendruber/avl"
	"github.com/danswartzendruber/liner"
)

//
// Constants
//

const VERSION = "1.0.3"

const basFileSuffix = ".bas"

const maxLineNumber = 65529

const maxStringLen = 255

const maxFilenums = 15

const zoneWidth = 14

const defaultWidth = 80

const maxImplicitSubscript = 10

const seqBlockSize = 128

const fnRecursionMax = 1000

const freConstant = 48000.0

const myPrompt = "Ok\n"
const inputPrompt = "? "

const colorRedSeq = "\033[31m"
const colorResetSeq = "\033[0m"
const clearScreenSeq = "\033[2J\033[H"

//
// Variable types.  The suffix characters %, !, # and $ select these
// explicitly; DEFINT/DEFSNG/DEFDBL/DEFSTR select them per first letter,
// and SINGLE is the fallback
//

type varType int8

const (
	typeInteger varType = iota
	typeSingle
	typeDouble
	typeString
)

//
// Values at runtime are int16, float32, float64 or string, carried
// as 'any'.  See value.go for the coercion rules
//

//
// Why execution halted.  Only reasonRunning advances the PC
//

type stopReason int8

const (
	reasonRunning stopReason = iota
	reasonEnd
	reasonStop
	reasonBreakpoint
	reasonError
	reasonInput
	reasonBreak
)

//
// The program counter is a (line, statement-index) pair plus the halt
// reason.  PCs are indices into the statement table, never pointers,
// so MERGE can replace lines without leaving anything dangling
//

type pc struct {
	line   int
	stmt   int
	reason stopReason
}

func (p pc) running() bool {
	return p.reason == reasonRunning
}

func runningAt(line, stmt int) pc {
	return pc{line: line, stmt: stmt, reason: reasonRunning}
}

func haltedPC(reason stopReason) pc {
	return pc{reason: reason}
}

//
// One numbered program line: the parsed statements plus the original
// source text for LIST and diagnostics.  Lines live in an AVL tree
// keyed by line number
//

type programLine struct {
	avl    avl.AvlNode
	lineNo int
	stmts  []statement
	source string
}

//
// FOR loop bookkeeping, keyed by the loop variable name.  resumePC
// names the statement after the FOR header
//

type forState struct {
	resumePC pc
	end      float64
	step     float64
}

//
// GOSUB/WHILE share one execution stack.  returnPC is meaningful for
// GOSUB entries, loopPC (the WHILE statement itself) for WHILE entries
//

type stackKind int8

const (
	gosubEntry stackKind = iota
	whileEntry
)

type stackEntry struct {
	kind     stackKind
	returnPC pc
	loopPC   pc
}

//
// File I/O modes
//

type fileMode int8

const (
	modeInput fileMode = iota
	modeOutput
	modeAppend
	modeRandom
)

//
// The byte workspace FIELD binds to a RANDOM file, exposed as string
// variables.  GET refreshes the windows from the buffer, LSET/RSET
// write through them, PUT flushes the buffer to disk
//

type fieldBuffer struct {
	buf       []byte
	fields    map[string]fieldWindow
	order     []string
	curRecord int
}

type fieldWindow struct {
	offset int
	width  int
}

//
// Array storage: inclusive upper bounds per axis, flattened data,
// element type.  The index base comes from OPTION BASE
//

type arrayData struct {
	dims  []int
	data  []any
	vtype varType
}

//
// CHAIN and RUN "file" publish one of these for the driver, then halt
//

type chainRequest struct {
	filename  string
	startLine int
	keepVars  bool
	merge     bool
}

//
// This structure contains the non-persistent state of a program run.
// Everything here is dropped or rebuilt by RUN, and partially by CLEAR
//

type run struct {
	pc          pc
	jumpPC      *pc
	vars        map[string]any
	arrays      map[string]*arrayData
	execStack   []stackEntry
	forStates   map[string]*forState
	forOrder    []string
	dataVals    []any
	dataPtr     int
	dataLineMap map[int]int
	userFns     map[string]*defFnStmt
	fnDepth     int
	files       map[int]*file
	fields      map[int]*fieldBuffer
	errHandler  int
	errGosub    bool
	errCode     int
	errLine     int
	errorPC     *pc
	lastError   *basicError
	arrayBase   int
	traceOn     bool
	rng         *rand.Rand
	rndLast     float64
	breakpoints map[pc]bool
	breakReq    bool
	commonVars  map[string]bool
	chainReq    *chainRequest
	directMode  bool
	defTypes    [26]varType
	contPC      *pc
}

//
// This structure contains persistent (cross-run) state
//

var g struct {
	program         *avl.AvlNode
	con             consoleIO
	fs              fileSystem
	parserLiner     *liner.State
	inputLiner      *liner.State
	programFilename string
	loginTime       time.Time
	exiting         bool
	modified        bool
	running         bool
	printStats      bool
	dumpAST         bool
	interactive     bool
}

var r run

//
// Runtime statistics for the executing program
//

var s struct {
	elapsed       time.Time
	utime         int64
	stime         int64
	numStatements int64
}

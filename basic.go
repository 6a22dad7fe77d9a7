package main

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/danswartzendruber/avl"
	"github.com/danswartzendruber/liner"
	"github.com/goforj/godump"
	"github.com/joho/godotenv"
	"github.com/xyproto/env/v2"
	"golang.org/x/term"
)

func main() {

	os.Exit(realMain())
}

func realMain() int {

	//
	// Environment bootstrap: a .env in the working directory feeds
	// ENVIRON$ and the MBASIC_* config knobs
	//

	_ = godotenv.Load()

	g.loginTime = time.Now()
	g.printStats = env.Bool("MBASIC_STATS")
	g.dumpAST = env.Bool("MBASIC_DUMP")
	g.interactive = term.IsTerminal(int(os.Stdin.Fd()))

	g.fs = &osFileSystem{}

	if g.interactive {
		g.con = newTermConsole()
		setupLiners()
		defer cleanupLiners()
	} else {
		g.con = newScriptConsole(os.Stdin, os.Stdout)
	}

	if w := env.Int("MBASIC_WIDTH", 0); w > 0 {
		g.con.setWidth(w)
	}

	initProgramTree()
	initRuntime()

	if env.Bool("MBASIC_TRACE") {
		r.traceOn = true
	}

	go sigHdlr()

	//
	// An optional program argument is loaded and run before the
	// command loop; a load or run failure is an exit status 1
	//

	if len(os.Args) > 1 {
		fname := validateProgramFilename(os.Args[1])

		if err := loadProgramFile(fname); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		commandRun("")

		if r.pc.reason == reasonError {
			return 1
		}

		if !g.interactive {
			return 0
		}
	}

	printVersionInfo()

	commandLoop()

	return 0
}

func printVersionInfo() {

	g.con.print(fmt.Sprintf("MBASIC-80 Rev. %s\n", VERSION))
}

//
// Liner setup.  Two instances: scrollback history for the command
// loop, none for INPUT statements.  They close in reverse order so
// the terminal lands back in cooked mode
//

func setupLiners() {

	g.parserLiner = liner.NewLiner()
	g.parserLiner.SetMultiLineMode(false)

	g.inputLiner = liner.NewLiner()
	g.inputLiner.SetMultiLineMode(true)
}

func cleanupLiners() {

	if g.inputLiner != nil {
		g.inputLiner.Close()
		g.inputLiner = nil
	}

	if g.parserLiner != nil {
		g.parserLiner.Close()
		g.parserLiner = nil
	}
}

//
// The interrupt handler sets the break flag; the interpreter
// observes it at the next tick boundary
//

func sigHdlr() {

	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, syscall.SIGINT)

	for range sigch {
		if g.running {
			r.breakReq = true
		}
	}
}

func readCommandLine() (string, bool) {

	if g.parserLiner != nil {
		line, err := g.parserLiner.Prompt(myPrompt)
		if err != nil {
			return "", true
		}
		if strings.TrimSpace(line) != "" {
			g.parserLiner.AppendHistory(line)
		}
		return line, false
	}

	line, err := g.con.input("")
	if err != nil {
		return "", true
	}

	return line, false
}

//
// The command loop.  Numbered lines edit the program; command words
// drive the REPL; everything else executes as direct statements
//

func commandLoop() {

	for !g.exiting {
		line, eof := readCommandLine()
		if eof {
			return
		}

		processCommandLine(line)
	}
}

func processCommandLine(line string) {

	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return
	}

	if trimmed[0] >= '0' && trimmed[0] <= '9' {
		storeProgramLine(line)
		return
	}

	word := trimmed
	arg := ""

	if i := strings.IndexAny(trimmed, " \t"); i >= 0 {
		word = trimmed[:i]
		arg = strings.TrimSpace(trimmed[i+1:])
	}

	switch strings.ToLower(word) {
	case "new":
		commandNew()

	case "run":
		commandRun(arg)

	case "list":
		commandList(arg, false)

	case "llist":
		commandList(arg, true)

	case "load":
		commandLoad(arg)

	case "save":
		commandSave(arg)

	case "files":
		commandFiles(arg)

	case "auto":
		commandAuto(arg)

	case "edit":
		commandEdit(arg)

	case "delete":
		commandDelete(arg)

	case "renum":
		commandRenum(arg)

	case "cont":
		commandCont()

	case "stats":
		g.printStats = !g.printStats
		g.con.print(fmt.Sprintf("Statistics %s\n", onOff(g.printStats)))

	case "dump":
		commandDump()

	case "break":
		commandBreak(arg)

	case "unbreak":
		commandUnbreak(arg)

	case "help":
		printHelp()

	case "system", "quit", "exit", "bye":
		g.exiting = true

	default:
		executeDirect(line)
	}
}

func onOff(b bool) string {

	if b {
		return "on"
	}

	return "off"
}

//
// Numbered-line entry: parse and insert/replace/delete
//

func storeProgramLine(line string) {

	sl, _, err := parseSourceLine(line, r.defTypes)
	if err != nil {
		printInputError(line, err)
		return
	}

	if sl == nil {
		return
	}

	if sl.lineNo == 0 {
		g.con.print("?Illegal line number\n")
		return
	}

	insertParsedLine(sl)

	//
	// A stored DEFtype line governs identifiers in lines typed from
	// here on
	//

	for _, st := range sl.stmts {
		if dt, ok := st.(*defTypeStmt); ok {
			executeDefType(dt)
		}
	}
}

//
// Direct mode: parse and execute statements immediately.  A jump or
// a RUN statement transfers into the stored program
//

func executeDirect(line string) {

	_, stmts, err := parseSourceLine(line, r.defTypes)
	if err != nil {
		printInputError(line, err)
		return
	}

	r.directMode = true

	//
	// Direct statements execute at a synthetic running PC so that
	// halts (END, STOP) and jumps are distinguishable from the
	// idle prompt state
	//

	saved := r.pc
	r.pc = pc{reason: reasonRunning}

	func() {
		defer func() {
			if e := recover(); e != nil {
				be, ok := e.(*basicError)
				if !ok {
					panic(e)
				}
				g.con.print(fmt.Sprintf("?%s\n", be.msg))
				r.jumpPC = nil
			}
		}()

		for _, st := range stmts {
			executeStatement(st)

			if r.jumpPC != nil || !r.pc.running() {
				break
			}
		}
	}()

	r.directMode = false

	if r.jumpPC == nil {
		if r.pc.running() {
			r.pc = saved
		}
	}

	if r.jumpPC != nil {
		jp := *r.jumpPC
		r.jumpPC = nil
		r.pc = jp
		runLoop()
		reportHalt()
	}

	serviceChainRequests()
}

func printInputError(line string, err error) {

	switch e := err.(type) {
	case *parseError:
		g.con.print(colorizeString(line, e.column-1, e.column) + "\n")
		g.con.print(fmt.Sprintf("?Syntax error: %s\n", e.message))

	case *lexerError:
		g.con.print(colorizeString(line, e.column-1, e.column) + "\n")
		g.con.print(fmt.Sprintf("?%s\n", e.message))

	default:
		g.con.print(fmt.Sprintf("?%s\n", err))
	}
}

//
// Commands
//

func commandNew() {

	initProgramTree()
	initRuntime()
	g.programFilename = ""
	clearModified()
}

func commandRun(arg string) {

	startLine := 0

	if arg != "" {
		if n, err := strconv.Atoi(arg); err == nil {
			startLine = n
		} else {
			fname := validateProgramFilename(strings.TrimSuffix(
				strings.TrimSpace(arg), ",R"))
			if err := loadProgramFile(fname); err != nil {
				g.con.print(fmt.Sprintf("?%s\n", err))
				return
			}
		}
	}

	executeRun(startLine, false)
	reportHalt()

	serviceChainRequests()
}

//
// CHAIN/RUN-file requests published by the interpreter: load the
// new text, preserve what the request says, and keep running
//

func serviceChainRequests() {

	for r.chainReq != nil {
		req := r.chainReq
		r.chainReq = nil

		fname := validateProgramFilename(req.filename)

		text, err := os.ReadFile((&osFileSystem{}).resolve(fname))
		if err != nil {
			g.con.print(fmt.Sprintf("?%s\n", errorMessage(errFileNotFound)))
			return
		}

		prog, perr := parseProgram(string(text))
		if perr != nil {
			g.con.print(fmt.Sprintf("?%s\n", perr))
			return
		}

		if req.merge {
			mergeProgram(prog)
		} else {
			loadProgram(prog)
		}

		g.programFilename = fname

		if req.startLine < 0 {
			return
		}

		executeRun(req.startLine, req.keepVars || req.merge)
		reportHalt()
	}
}

func reportHalt() {

	switch r.pc.reason {
	case reasonError:
		if r.lastError != nil {
			g.con.print(fmt.Sprintf("?%s in %d\n",
				r.lastError.msg, r.lastError.at.line))
		}

	case reasonStop, reasonBreak:
		g.con.print(fmt.Sprintf("Break in %d\n", r.pc.line))

	case reasonBreakpoint:
		g.con.print(fmt.Sprintf("Breakpoint in %d\n", r.pc.line))
	}
}

func commandList(arg string, lprint bool) {

	lo, hi, ok := parseLineRange(arg)
	if !ok {
		g.con.print("?Illegal line range\n")
		return
	}

	for ln := lineTreeFirst(); ln != nil; ln = lineTreeNext(ln) {
		if ln.lineNo < lo || ln.lineNo > hi {
			continue
		}

		if lprint {
			g.con.lprint(ln.source + "\n")
		} else {
			g.con.print(ln.source + "\n")
		}
	}
}

func loadProgramFile(fname string) error {

	text, err := os.ReadFile((&osFileSystem{}).resolve(fname))
	if err != nil {
		return fmt.Errorf("%s: %s", errorMessage(errFileNotFound), fname)
	}

	prog, perr := parseProgram(string(text))
	if perr != nil {
		return perr
	}

	initRuntime()
	loadProgram(prog)

	g.programFilename = fname

	if g.dumpAST {
		commandDump()
	}

	return nil
}

func commandLoad(arg string) {

	runAfter := false

	if i := strings.LastIndexByte(arg, ','); i >= 0 {
		if strings.EqualFold(strings.TrimSpace(arg[i+1:]), "r") {
			runAfter = true
			arg = arg[:i]
		}
	}

	fname := validateProgramFilename(strings.TrimSpace(arg))
	if fname == "" {
		g.con.print("?Bad file name\n")
		return
	}

	if err := loadProgramFile(fname); err != nil {
		g.con.print(fmt.Sprintf("?%s\n", err))
		return
	}

	if runAfter {
		commandRun("")
	}
}

func commandSave(arg string) {

	fname := validateProgramFilename(strings.TrimSpace(arg))
	if fname == "" {
		fname = g.programFilename
	}

	if fname == "" {
		g.con.print("?Bad file name\n")
		return
	}

	var sb strings.Builder
	for ln := lineTreeFirst(); ln != nil; ln = lineTreeNext(ln) {
		sb.WriteString(ln.source)
		sb.WriteByte('\n')
	}

	if err := os.WriteFile((&osFileSystem{}).resolve(fname),
		[]byte(sb.String()), 0644); err != nil {
		g.con.print(fmt.Sprintf("?%s\n", errorMessage(errDiskIO)))
		return
	}

	g.programFilename = fname
	clearModified()
}

func commandFiles(arg string) {

	pattern := strings.Trim(strings.TrimSpace(arg), "\"")
	if pattern == "" {
		pattern = "*"
	}

	names := g.fs.glob(pattern)
	sort.Strings(names)

	for _, name := range names {
		g.con.print(name + "\n")
	}
}

//
// AUTO [start[,inc]]: prompt with generated line numbers until an
// empty line or interrupt
//

func commandAuto(arg string) {

	start := 10
	inc := 10

	if arg != "" {
		parts := strings.SplitN(arg, ",", 2)
		if n, err := strconv.Atoi(strings.TrimSpace(parts[0])); err == nil {
			start = n
		}
		if len(parts) == 2 {
			if n, err := strconv.Atoi(strings.TrimSpace(parts[1])); err == nil {
				inc = n
			}
		}
	}

	for n := start; n <= maxLineNumber; n += inc {
		var text string
		var err error

		prompt := fmt.Sprintf("%d ", n)

		if g.parserLiner != nil {
			text, err = g.parserLiner.Prompt(prompt)
			if err != nil {
				return
			}
		} else {
			text, err = g.con.input(prompt)
			if err != nil {
				return
			}
		}

		if strings.TrimSpace(text) == "" {
			return
		}

		storeProgramLine(fmt.Sprintf("%d %s", n, text))
	}
}

//
// EDIT n: re-prompt with the stored source line for editing
//

func commandEdit(arg string) {

	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || !lineExists(n) {
		g.con.print("?Undefined line number\n")
		return
	}

	text := lineText(n)

	if g.parserLiner == nil {
		g.con.print(text + "\n")
		return
	}

	edited, perr := g.parserLiner.PromptWithSuggestion("", text, len(text))
	if perr != nil {
		return
	}

	if strings.TrimSpace(edited) != "" {
		storeProgramLine(edited)
	}
}

func commandDelete(arg string) {

	lo, hi, ok := parseLineRange(arg)
	if !ok || arg == "" {
		g.con.print("?Illegal line range\n")
		return
	}

	var doomed []*programLine

	for ln := lineTreeFirst(); ln != nil; ln = lineTreeNext(ln) {
		if ln.lineNo >= lo && ln.lineNo <= hi {
			doomed = append(doomed, ln)
		}
	}

	for _, ln := range doomed {
		lineTreeRemove(ln)
	}
}

func commandCont() {

	if r.contPC == nil {
		g.con.print(fmt.Sprintf("?%s\n", errorMessage(errCantContinue)))
		return
	}

	r.pc = *r.contPC

	runLoop()
	reportHalt()
	serviceChainRequests()
}

func commandDump() {

	var lines []string
	for ln := lineTreeFirst(); ln != nil; ln = lineTreeNext(ln) {
		lines = append(lines, ln.source)
	}

	godump.Dump(lines)
	godump.Dump(r.vars)
	godump.Dump(r.arrays)
}

func commandBreak(arg string) {

	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || !lineExists(n) {
		g.con.print("?Undefined line number\n")
		return
	}

	r.breakpoints[pc{line: n}] = true
}

func commandUnbreak(arg string) {

	arg = strings.TrimSpace(arg)

	if arg == "" {
		r.breakpoints = make(map[pc]bool)
		return
	}

	n, err := strconv.Atoi(arg)
	if err != nil {
		g.con.print("?Undefined line number\n")
		return
	}

	delete(r.breakpoints, pc{line: n})
}

//
// RENUM [new[,old[,inc]]].  Three phases, as the statement tree must
// not change until every target is known good: map old numbers to
// new, rewrite every line reference (AST and source text), then
// rebuild the tree
//

func commandRenum(arg string) {

	newStart := 10
	oldStart := 0
	inc := 10

	if arg != "" {
		parts := strings.Split(arg, ",")
		nums := make([]int, 0, 3)
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p == "" {
				nums = append(nums, -1)
				continue
			}
			n, err := strconv.Atoi(p)
			if err != nil {
				g.con.print("?Illegal argument\n")
				return
			}
			nums = append(nums, n)
		}
		if len(nums) > 0 && nums[0] >= 0 {
			newStart = nums[0]
		}
		if len(nums) > 1 && nums[1] >= 0 {
			oldStart = nums[1]
		}
		if len(nums) > 2 && nums[2] >= 0 {
			inc = nums[2]
		}
	}

	if inc <= 0 {
		g.con.print("?Illegal argument\n")
		return
	}

	//
	// Phase 1: propose replacements in order
	//

	renumberMap := make(map[int]int)
	var all []*programLine

	next := newStart

	for ln := lineTreeFirst(); ln != nil; ln = lineTreeNext(ln) {
		all = append(all, ln)

		if ln.lineNo < oldStart {
			renumberMap[ln.lineNo] = ln.lineNo
			continue
		}

		if next > maxLineNumber {
			g.con.print("?Line number exceeds maximum\n")
			return
		}

		renumberMap[ln.lineNo] = next
		next += inc
	}

	//
	// Phase 2: verify every referenced target exists
	//

	bad := false

	for _, ln := range all {
		for _, ref := range collectLineRefs(ln.stmts) {
			if _, ok := renumberMap[ref.line]; !ok {
				g.con.print(fmt.Sprintf("Undefined line %d in %d\n",
					ref.line, ln.lineNo))
				bad = true
			}
		}
	}

	if bad {
		return
	}

	//
	// Phase 3: rewrite numbers in the AST and the stored text, then
	// rebuild the tree
	//

	initProgramTree()

	for _, ln := range all {
		refs := collectLineRefs(ln.stmts)
		sort.Slice(refs, func(i, j int) bool {
			return refs[i].tlocs < refs[j].tlocs
		})

		oldNoStr := strconv.Itoa(ln.lineNo)
		newNo := renumberMap[ln.lineNo]
		newNoStr := strconv.Itoa(newNo)

		src := ln.source

		start := 0
		for start < len(src) && (src[start] == ' ' || src[start] == '\t') {
			start++
		}

		src = replaceSubstring(src, start, start+len(oldNoStr), newNoStr)
		bias := len(newNoStr) - len(oldNoStr)

		for _, ref := range refs {
			oldRefStr := strconv.Itoa(ref.line)
			newRef := renumberMap[ref.line]
			newRefStr := strconv.Itoa(newRef)

			src = replaceSubstring(src, ref.tlocs+bias,
				ref.tloce+bias, newRefStr)

			ref.tlocs += bias
			ref.tloce = ref.tlocs + len(newRefStr)
			ref.line = newRef

			bias += len(newRefStr) - len(oldRefStr)
		}

		ln.lineNo = newNo
		ln.source = src
		ln.avl = avl.AvlNode{}

		lineTreeInsert(ln)
	}
}

//
// collectLineRefs gathers pointers to every line-number operand a
// statement list carries, nested IF branches included
//

func collectLineRefs(stmts []statement) []*lineRef {

	var refs []*lineRef

	for _, st := range stmts {
		switch st := st.(type) {
		case *gotoStmt:
			refs = append(refs, &st.target)

		case *gosubStmt:
			refs = append(refs, &st.target)

		case *returnStmt:
			if st.target != nil {
				refs = append(refs, st.target)
			}

		case *onGotoStmt:
			for i := range st.targets {
				refs = append(refs, &st.targets[i])
			}

		case *onErrorStmt:
			if st.target.line != 0 {
				refs = append(refs, &st.target)
			}

		case *resumeStmt:
			if st.target != nil {
				refs = append(refs, st.target)
			}

		case *restoreStmt:
			if st.target != nil {
				refs = append(refs, st.target)
			}

		case *runStmt:
			if st.startLine != nil && st.filename == nil {
				refs = append(refs, st.startLine)
			}

		case *ifStmt:
			if st.thenLine != nil {
				refs = append(refs, st.thenLine)
			}
			if st.elseLine != nil {
				refs = append(refs, st.elseLine)
			}
			refs = append(refs, collectLineRefs(st.thenStmts)...)
			refs = append(refs, collectLineRefs(st.elseStmts)...)
		}
	}

	return refs
}

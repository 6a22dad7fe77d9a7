package main

import (
	"github.com/danswartzendruber/avl"
)

//
// A set of wrapper routines around the AVL package.  The program is
// an AVL tree of programLine nodes keyed by line number, which gives
// the statement table O(log L) line lookup, ordered iteration for
// LIST/SAVE/RENUM, and cheap whole-line replacement for MERGE
//

func initProgramTree() {

	g.program = nil
}

func cmpLineKey(key any, node any) int {

	return cmpLineNumbers(key.(int), node.(*programLine).lineNo)
}

func cmpLineNodes(node1, node2 any) int {

	return cmpLineNumbers(node1.(*programLine).lineNo, node2.(*programLine).lineNo)
}

func cmpLineNumbers(n1, n2 int) int {

	if n1 < n2 {
		return -1
	} else if n1 > n2 {
		return 1
	} else {
		return 0
	}
}

func lineTreeFirst() *programLine {

	p := avl.AvlTreeFirstInOrder(g.program)
	if p != nil {
		return p.(*programLine)
	} else {
		return nil
	}
}

func lineTreeNext(ln *programLine) *programLine {

	p := avl.AvlTreeNextInOrder(&ln.avl)
	if p != nil {
		return p.(*programLine)
	} else {
		return nil
	}
}

func lineTreeLookup(lineNo int) *programLine {

	p := avl.AvlTreeLookup(g.program, lineNo, cmpLineKey)
	if p != nil {
		return p.(*programLine)
	} else {
		return nil
	}
}

//
// Insert a line, replacing any existing line with the same number.
// The table owns the line from here on
//

func lineTreeInsert(ln *programLine) {

	if old := lineTreeLookup(ln.lineNo); old != nil {
		avl.AvlTreeRemove(&g.program, &old.avl)
	}

	p := avl.AvlTreeInsert(&g.program, &ln.avl, ln, cmpLineNodes)
	basicAssert(p == nil, "line %d already in tree", ln.lineNo)

	setModified()
}

func lineTreeRemove(ln *programLine) {

	avl.AvlTreeRemove(&g.program, &ln.avl)

	setModified()
}

//
// Statement table operations: the (line, stmt-index) address space
//

func stmtAt(p pc) statement {

	ln := lineTreeLookup(p.line)
	if ln == nil || p.stmt >= len(ln.stmts) {
		return nil
	}

	return ln.stmts[p.stmt]
}

func lineText(lineNo int) string {

	ln := lineTreeLookup(lineNo)
	if ln == nil {
		return ""
	}

	return ln.source
}

//
// firstPC yields the first executable statement, or an END-halted PC
// for an empty program
//

func firstPC() pc {

	for ln := lineTreeFirst(); ln != nil; ln = lineTreeNext(ln) {
		if len(ln.stmts) > 0 {
			return runningAt(ln.lineNo, 0)
		}
	}

	return haltedPC(reasonEnd)
}

//
// nextPC advances one statement: O(1) within a line, next line in
// order otherwise.  Running off the end halts with END
//

func nextPC(p pc) pc {

	ln := lineTreeLookup(p.line)
	if ln == nil {
		return haltedPC(reasonEnd)
	}

	if p.stmt+1 < len(ln.stmts) {
		return runningAt(p.line, p.stmt+1)
	}

	for ln = lineTreeNext(ln); ln != nil; ln = lineTreeNext(ln) {
		if len(ln.stmts) > 0 {
			return runningAt(ln.lineNo, 0)
		}
	}

	return haltedPC(reasonEnd)
}

//
// findLinePC resolves a jump target.  Jumping to a line that does
// not exist is Undefined line number
//

func findLinePC(lineNo int) pc {

	ln := lineTreeLookup(lineNo)
	runtimeCheck(ln != nil, errUndefinedLine)

	return runningAt(lineNo, 0)
}

func lineExists(lineNo int) bool {

	return lineTreeLookup(lineNo) != nil
}

//
// Program loading.  loadProgram replaces the whole tree;
// mergeProgram overlays lines (MERGE and CHAIN MERGE)
//

func loadProgram(prog *parsedProgram) {

	initProgramTree()

	for i := range prog.lines {
		insertParsedLine(&prog.lines[i])
	}

	r.defTypes = prog.defTypes

	clearModified()
}

func mergeProgram(prog *parsedProgram) {

	for i := range prog.lines {
		insertParsedLine(&prog.lines[i])
	}

	//
	// DEFtype ranges from the merged text win for their letters
	//

	for i, t := range prog.defTypes {
		if t != typeSingle {
			r.defTypes[i] = t
		}
	}
}

func insertParsedLine(sl *sourceLine) {

	//
	// A bare line number deletes that line
	//

	if len(sl.stmts) == 0 {
		if old := lineTreeLookup(sl.lineNo); old != nil {
			lineTreeRemove(old)
		}
		return
	}

	lineTreeInsert(&programLine{lineNo: sl.lineNo, stmts: sl.stmts,
		source: sl.source})
}

//
// Process declaration statements before a run: collect every DATA
// value into the ordered pool with the line -> first-index map, and
// register the DEF FN bodies.  Later DEF FN definitions for a name
// silently replace earlier ones
//

func processDeclarations() {

	r.dataVals = nil
	r.dataPtr = 0
	r.dataLineMap = make(map[int]int)
	r.userFns = make(map[string]*defFnStmt)

	for ln := lineTreeFirst(); ln != nil; ln = lineTreeNext(ln) {
		for _, st := range ln.stmts {
			switch st := st.(type) {
			case *dataStmt:
				if _, seen := r.dataLineMap[ln.lineNo]; !seen {
					r.dataLineMap[ln.lineNo] = len(r.dataVals)
				}
				r.dataVals = append(r.dataVals, st.values...)

			case *defFnStmt:
				r.userFns[st.name] = st
			}
		}
	}
}

func setModified() {

	if g.program != nil && lineTreeFirst() != nil {
		g.modified = true
	} else {
		g.modified = false
	}
}

func clearModified() {

	g.modified = false
}

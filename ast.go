package main

//
// The AST is a pair of closed enumerations: expression nodes and
// statement nodes, dispatched by type switch in the evaluator and
// the interpreter.  Both are carried as 'any'; the concrete structs
// below are the complete set
//

type expr any
type statement any

//
// Expression nodes
//

type numberExpr struct {
	val  float64
	line int
	col  int
}

type stringExpr struct {
	val  string
	line int
	col  int
}

//
// A variable reference.  name is the normalized storage key: the
// lowercased base plus the canonical suffix for the resolved type,
// so that 'a' under DEFINT A and 'a%' land in the same cell.  orig
// preserves the source spelling for diagnostics
//

type varExpr struct {
	name  string
	orig  string
	vtype varType
	line  int
	col   int
}

type arrayExpr struct {
	name    string
	orig    string
	indices []expr
	vtype   varType
	line    int
	col     int
}

type binaryExpr struct {
	op    tokKind
	left  expr
	right expr
	line  int
	col   int
}

type unaryExpr struct {
	op      tokKind
	operand expr
	line    int
	col     int
}

//
// Built-in function call (name is the canonical lowercase form,
// e.g. "left$") or user FN call (name starts with "fn")
//

type callExpr struct {
	name   string
	args   []expr
	userFn bool
	line   int
	col    int
}

//
// Statement nodes
//

//
// lineRef is a line-number operand together with the byte range its
// digits occupy in the source line, so RENUM can splice new numbers
// into the stored text
//

type lineRef struct {
	line  int
	tlocs int
	tloce int
}

type printStmt struct {
	fileNum    expr
	items      []expr
	separators []byte // ';', ',', ' ' (adjacent), 0 = trailing newline
	using      expr   // non-nil for PRINT USING
	lprint     bool
}

type inputStmt struct {
	fileNum         expr
	prompt          string
	suppressMark    bool
	suppressNewline bool
	targets         []expr // varExpr or arrayExpr
}

type lineInputStmt struct {
	fileNum expr
	prompt  string
	target  expr
}

type letStmt struct {
	target expr // varExpr or arrayExpr
	value  expr
}

type ifStmt struct {
	cond      expr
	thenStmts []statement
	thenLine  *lineRef
	elseStmts []statement
	elseLine  *lineRef
}

type forStmt struct {
	loopVar varExpr
	from    expr
	to      expr
	step    expr
}

type nextStmt struct {
	vars []varExpr
}

type whileStmt struct {
	cond expr
}

type wendStmt struct{}

type gotoStmt struct {
	target lineRef
}

type gosubStmt struct {
	target lineRef
}

type returnStmt struct {
	target *lineRef
}

type onGotoStmt struct {
	selector expr
	targets  []lineRef
	isGosub  bool
}

type onErrorStmt struct {
	target  lineRef
	isGosub bool
}

type resumeStmt struct {
	next   bool
	target *lineRef
}

type dataStmt struct {
	values []any
}

type readStmt struct {
	targets []expr
}

type restoreStmt struct {
	target *lineRef
}

type dimStmt struct {
	decls []dimDecl
}

type dimDecl struct {
	name  string
	orig  string
	dims  []expr
	vtype varType
}

type defFnStmt struct {
	name   string
	params []string
	body   expr
}

type defTypeStmt struct {
	vtype  varType
	ranges [][2]byte
}

type endStmt struct{}

type stopStmt struct{}

type clsStmt struct{}

type remStmt struct {
	comment string
}

type swapStmt struct {
	a expr
	b expr
}

type eraseStmt struct {
	names []string
}

type clearStmt struct {
	args []expr
}

type optionBaseStmt struct {
	base int
}

type randomizeStmt struct {
	seed expr
}

type tronStmt struct{}

type troffStmt struct{}

type widthStmt struct {
	fileNum expr
	width   expr
}

type pokeStmt struct {
	addr expr
	val  expr
}

type errorStmt struct {
	code expr
}

type openStmt struct {
	filename  expr
	mode      fileMode
	modeExpr  expr // classic OPEN "mode$",... form
	fileNum   expr
	recordLen expr
}

type closeStmt struct {
	fileNums []expr
}

type fieldStmt struct {
	fileNum expr
	widths  []expr
	vars    []varExpr
}

type getStmt struct {
	fileNum expr
	record  expr
}

type putStmt struct {
	fileNum expr
	record  expr
}

type lsetStmt struct {
	target varExpr
	value  expr
}

type rsetStmt struct {
	target varExpr
	value  expr
}

type writeStmt struct {
	fileNum expr
	items   []expr
}

type chainStmt struct {
	filename expr
	line     expr
	all      bool
	merge    bool
	delete   bool
}

type commonStmt struct {
	names []string
}

type midAssignStmt struct {
	target varExpr
	start  expr
	length expr
	value  expr
}

type callStmt struct {
	name string
	args []expr
}

type outStmt struct {
	port expr
	val  expr
}

type waitStmt struct {
	port    expr
	andMask expr
	xorMask expr
}

type killStmt struct {
	filename expr
}

type nameStmt struct {
	oldName expr
	newName expr
}

type mergeStmt struct {
	filename expr
}

type runStmt struct {
	filename  expr
	startLine *lineRef
	keepVars  bool
}

//
// A parsed program, before loading into the statement table
//

type sourceLine struct {
	lineNo int
	stmts  []statement
	source string
}

type parsedProgram struct {
	lines    []sourceLine
	defTypes [26]varType
}

package main

func printHelp() {

	lines := []string{
		"auto [start[,inc]]    enter lines with generated numbers",
		"break n / unbreak     set or clear a breakpoint",
		"cont                  continue after STOP, break or breakpoint",
		"delete a[-b]          delete a line range",
		"dump                  dump the program and variable state",
		"edit n                re-enter a stored line for editing",
		"files [pattern]       list files",
		"list [a[-b]]          list the program (llist to the printer)",
		"load \"file\" [,r]      load a program, optionally run it",
		"merge \"file\"          overlay lines from another program",
		"new                   erase the current program",
		"renum [new[,old[,inc]]]  renumber the program",
		"run [line | \"file\"]   execute",
		"save \"file\"           save the current program",
		"stats                 toggle execution statistics",
		"tron / troff          toggle the line trace",
		"system                exit",
	}

	for _, line := range lines {
		g.con.print(line + "\n")
	}
}

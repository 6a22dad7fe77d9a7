package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSequentialWriteThenRead(t *testing.T) {

	src := `10 OPEN "log.txt" FOR OUTPUT AS #1
20 PRINT #1, "alpha"
30 PRINT #1, "beta"; 7
40 CLOSE #1
50 OPEN "log.txt" FOR INPUT AS #1
60 LINE INPUT #1, A$
70 LINE INPUT #1, B$
80 CLOSE #1
90 PRINT A$
100 PRINT B$
`
	got, _ := runProgram(t, src, "")

	if !strings.Contains(got, "alpha\n") || !strings.Contains(got, "beta 7 \n") {
		t.Errorf("round trip output: %q", got)
	}
}

func TestAppendMode(t *testing.T) {

	src := `10 OPEN "a.txt" FOR OUTPUT AS #1
20 PRINT #1, "one"
30 CLOSE #1
40 OPEN "a.txt" FOR APPEND AS #1
50 PRINT #1, "two"
60 CLOSE #1
`
	_, tm := runProgram(t, src, "")

	data, err := os.ReadFile(filepath.Join(tm.dir, "a.txt"))
	if err != nil {
		t.Fatal(err)
	}

	if string(data) != "one\ntwo\n" {
		t.Errorf("file contents = %q", data)
	}
}

func TestEofLofFunctions(t *testing.T) {

	src := `10 OPEN "d.txt" FOR OUTPUT AS #1
20 PRINT #1, "xy"
30 CLOSE #1
40 OPEN "d.txt" FOR INPUT AS #1
50 PRINT EOF(1); LOF(1)
60 LINE INPUT #1, A$
70 PRINT EOF(1)
80 CLOSE #1
`
	got, _ := runProgram(t, src, "")

	if !strings.Contains(got, " 0  3 \n") {
		t.Errorf("EOF/LOF before read: %q", got)
	}

	if !strings.Contains(got, "-1 \n") {
		t.Errorf("EOF after read: %q", got)
	}
}

func TestInputFromFile(t *testing.T) {

	src := `10 OPEN "v.txt" FOR OUTPUT AS #1
20 PRINT #1, "3, four, 5"
30 CLOSE #1
40 OPEN "v.txt" FOR INPUT AS #1
50 INPUT #1, A, B$, C
60 CLOSE #1
70 PRINT A; B$; C
`
	got, _ := runProgram(t, src, "")

	if !strings.Contains(got, " 3 four 5 \n") {
		t.Errorf("INPUT # parse: %q", got)
	}
}

func TestInputPastEnd(t *testing.T) {

	src := `10 OPEN "e.txt" FOR OUTPUT AS #1
20 CLOSE #1
30 OPEN "e.txt" FOR INPUT AS #1
40 INPUT #1, A
`
	runProgram(t, src, "")

	if r.lastError == nil || r.lastError.code != errInputPastEnd {
		t.Errorf("lastError = %+v", r.lastError)
	}
}

func TestBadFileNumber(t *testing.T) {

	src := `10 PRINT #3, "x"
`
	runProgram(t, src, "")

	if r.lastError == nil || r.lastError.code != errBadFileNumber {
		t.Errorf("lastError = %+v", r.lastError)
	}

	src = `10 OPEN "x.txt" FOR OUTPUT AS #16
`
	runProgram(t, src, "")

	if r.lastError == nil || r.lastError.code != errBadFileNumber {
		t.Errorf("lastError = %+v", r.lastError)
	}
}

func TestOpenMissingFileForInput(t *testing.T) {

	src := `10 OPEN "nope.txt" FOR INPUT AS #1
`
	runProgram(t, src, "")

	if r.lastError == nil || r.lastError.code != errFileNotFound {
		t.Errorf("lastError = %+v", r.lastError)
	}
}

func TestFileAlreadyOpen(t *testing.T) {

	src := `10 OPEN "f.txt" FOR OUTPUT AS #1
20 OPEN "f.txt" FOR OUTPUT AS #1
`
	runProgram(t, src, "")

	if r.lastError == nil || r.lastError.code != errFileAlreadyOpen {
		t.Errorf("lastError = %+v", r.lastError)
	}
}

func TestFieldOverflow(t *testing.T) {

	src := `10 OPEN "r.dat" AS #1 LEN = 8
20 FIELD #1, 6 AS A$, 6 AS B$
`
	runProgram(t, src, "")

	if r.lastError == nil || r.lastError.code != errFieldOverflow {
		t.Errorf("lastError = %+v", r.lastError)
	}
}

func TestGetPastEofPadsWithSpaces(t *testing.T) {

	src := `10 OPEN "r.dat" AS #1 LEN = 4
20 FIELD #1, 4 AS A$
30 GET #1, 3
40 PRINT "["; A$; "]"
50 CLOSE #1
`
	got, _ := runProgram(t, src, "")

	if !strings.Contains(got, "[    ]\n") {
		t.Errorf("GET past EOF should pad with spaces: %q", got)
	}
}

func TestGetWithoutRecordAdvances(t *testing.T) {

	src := `10 OPEN "r.dat" AS #1 LEN = 2
20 FIELD #1, 2 AS A$
30 LSET A$ = "ab" : PUT #1, 1
40 LSET A$ = "cd" : PUT #1, 2
50 GET #1, 1
60 GET #1
70 PRINT A$
80 CLOSE #1
`
	got, _ := runProgram(t, src, "")

	if !strings.Contains(got, "cd\n") {
		t.Errorf("sequential GET should land on record 2: %q", got)
	}
}

func TestRsetRightJustifies(t *testing.T) {

	src := `10 OPEN "r.dat" AS #1 LEN = 6
20 FIELD #1, 6 AS A$
30 RSET A$ = "xy"
40 PRINT "["; A$; "]"
50 CLOSE #1
`
	got, _ := runProgram(t, src, "")

	if !strings.Contains(got, "[    xy]\n") {
		t.Errorf("RSET: %q", got)
	}
}

func TestKillAndNameStatements(t *testing.T) {

	src := `10 OPEN "old.txt" FOR OUTPUT AS #1
20 PRINT #1, "body"
30 CLOSE #1
40 NAME "old.txt" AS "new.txt"
50 KILL "new.txt"
`
	_, tm := runProgram(t, src, "")

	if r.lastError != nil {
		t.Fatalf("unexpected error %+v", r.lastError)
	}

	if _, err := os.Stat(filepath.Join(tm.dir, "old.txt")); err == nil {
		t.Error("old.txt still present")
	}

	if _, err := os.Stat(filepath.Join(tm.dir, "new.txt")); err == nil {
		t.Error("new.txt still present after KILL")
	}
}

func TestKillMissingFile(t *testing.T) {

	src := `10 KILL "ghost.txt"
`
	runProgram(t, src, "")

	if r.lastError == nil || r.lastError.code != errFileNotFound {
		t.Errorf("lastError = %+v", r.lastError)
	}
}

func TestWriteToFile(t *testing.T) {

	src := `10 OPEN "w.txt" FOR OUTPUT AS #1
20 WRITE #1, "a", 1
30 CLOSE #1
`
	_, tm := runProgram(t, src, "")

	data, err := os.ReadFile(filepath.Join(tm.dir, "w.txt"))
	if err != nil {
		t.Fatal(err)
	}

	if string(data) != "\"a\",1\n" {
		t.Errorf("WRITE # contents = %q", data)
	}
}

func TestLocSequentialBlocks(t *testing.T) {

	src := `10 OPEN "big.txt" FOR OUTPUT AS #1
20 FOR I = 1 TO 40
30 PRINT #1, "0123456789"
40 NEXT I
50 CLOSE #1
60 OPEN "big.txt" FOR INPUT AS #1
70 A$ = INPUT$(200, #1)
80 PRINT LOC(1)
90 CLOSE #1
`
	got, _ := runProgram(t, src, "")

	if !strings.Contains(got, " 2 \n") {
		t.Errorf("LOC after 200 bytes should be block 2: %q", got)
	}
}

func TestClearClosesFiles(t *testing.T) {

	src := `10 OPEN "c.txt" FOR OUTPUT AS #1
20 CLEAR
30 PRINT #1, "x"
`
	runProgram(t, src, "")

	if r.lastError == nil || r.lastError.code != errBadFileNumber {
		t.Errorf("lastError = %+v", r.lastError)
	}
}

package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tklauser/go-sysconf"
)

//
// Runtime statistics.  The clock is wall time; user/system time
// comes from /proc/self/stat scaled by SC_CLK_TCK, and degrades to
// zeros where that is unavailable
//

func initClock() {

	s.elapsed = time.Now()
	s.utime, s.stime = getCPUInfo()
}

func resetStatistics() {

	s.numStatements = 0
}

func printStatistics() {

	elapsed := time.Since(s.elapsed)
	utime, stime := getCPUInfo()

	g.con.print(fmt.Sprintf("%d statements / elapsed %s / user %s / system %s\n",
		s.numStatements,
		elapsed.Round(time.Millisecond),
		formatCPUTime(utime-s.utime),
		formatCPUTime(stime-s.stime)))
}

func formatCPUTime(t int64) string {

	var h, m int64

	if t >= 3600 {
		h = t / 3600
		t = t % 3600
	}

	if t >= 60 {
		m = t / 60
		t = t % 60
	}

	return fmt.Sprintf("%02d:%02d:%02d", h, m, t)
}

func getCPUInfo() (int64, int64) {

	clktck, err := sysconf.Sysconf(sysconf.SC_CLK_TCK)
	if err != nil || clktck == 0 {
		return 0, 0
	}

	contents, err := os.ReadFile("/proc/self/stat")
	if err != nil {
		return 0, 0
	}

	fields := strings.Fields(string(contents))
	if len(fields) < 15 {
		return 0, 0
	}

	utime, err := strconv.ParseInt(fields[13], 10, 64)
	if err != nil {
		return 0, 0
	}

	stime, err := strconv.ParseInt(fields[14], 10, 64)
	if err != nil {
		return 0, 0
	}

	return utime / clktck, stime / clktck
}

//
// Program filenames default to the .bas suffix
//

func validateProgramFilename(name string) string {

	name = strings.Trim(name, "\"")

	if name != "" && !strings.Contains(name, ".") {
		name += basFileSuffix
	}

	return name
}

//
// colorizeString wraps the [startCol, endCol) byte range of a source
// line in the red escape sequence, for parse diagnostics
//

func colorizeString(line string, startCol, endCol int) string {

	if startCol < 0 {
		startCol = 0
	}

	if startCol >= len(line) {
		return line
	}

	if endCol > len(line) || endCol <= startCol {
		endCol = len(line)
	}

	return line[:startCol] + colorRedSeq + line[startCol:endCol] +
		colorResetSeq + line[endCol:]
}

//
// replaceSubstring splices rep over src[sloc:eloc]; the replacement
// may be shorter or longer than the range it replaces.  RENUM uses
// this to rewrite line-number digits inside stored source text
//

func replaceSubstring(src string, sloc, eloc int, rep string) string {

	if sloc < 0 || sloc > len(src) {
		return src
	}

	if eloc > len(src) {
		eloc = len(src)
	}

	return src[:sloc] + rep + src[eloc:]
}

//
// parseLineRange decodes the a, a-b, a-, -b command argument forms
// used by LIST and DELETE
//

func parseLineRange(arg string) (int, int, bool) {

	arg = strings.TrimSpace(arg)
	if arg == "" {
		return 0, maxLineNumber, true
	}

	if !strings.Contains(arg, "-") {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return 0, 0, false
		}
		return n, n, true
	}

	parts := strings.SplitN(arg, "-", 2)

	lo := 0
	hi := maxLineNumber

	if strings.TrimSpace(parts[0]) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return 0, 0, false
		}
		lo = n
	}

	if strings.TrimSpace(parts[1]) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return 0, 0, false
		}
		hi = n
	}

	return lo, hi, true
}

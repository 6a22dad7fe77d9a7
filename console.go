package main

import (
	"bufio"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"
)

//
// The console I/O port.  The interpreter core writes and reads only
// through this interface; the CLI wires a terminal implementation,
// tests a buffered one
//

type consoleIO interface {
	print(text string)
	lprint(text string)
	input(prompt string) (string, error)
	inkey() (byte, bool)
	getColumn() int
	setColumn(n int)
	getWidth() int
	setWidth(n int)
	clearScreen()
}

//
// Column bookkeeping shared by the implementations: reset on \n,
// snap to the next print zone on \t
//

type columnTracker struct {
	col   int
	width int
}

func (ct *columnTracker) advance(text string) {

	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			ct.col = 0

		case '\t':
			ct.col = (ct.col/zoneWidth + 1) * zoneWidth

		default:
			ct.col++
		}
	}
}

func (ct *columnTracker) getColumn() int {
	return ct.col
}

func (ct *columnTracker) setColumn(n int) {
	ct.col = n
}

func (ct *columnTracker) getWidth() int {

	if ct.width <= 0 {
		return defaultWidth
	}

	return ct.width
}

func (ct *columnTracker) setWidth(n int) {
	ct.width = n
}

//
// Terminal console: stdout plus liner-driven input when interactive
//

type termConsole struct {
	columnTracker
}

func newTermConsole() *termConsole {

	con := &termConsole{}
	con.width = defaultWidth

	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		con.width = w
	}

	return con
}

func (c *termConsole) print(text string) {

	os.Stdout.WriteString(text)
	c.advance(text)
}

func (c *termConsole) lprint(text string) {

	os.Stdout.WriteString(text)
	c.advance(text)
}

func (c *termConsole) input(prompt string) (string, error) {

	var line string
	var err error

	if g.inputLiner != nil {
		line, err = g.inputLiner.Prompt(prompt)
	} else {
		os.Stdout.WriteString(prompt)
		rd := bufio.NewReader(os.Stdin)
		line, err = rd.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
	}

	c.col = 0

	if err != nil {
		return "", err
	}

	return line, nil
}

//
// Best-effort non-blocking key poll.  Raw mode for one short
// deadline read; anything that fails reports no key pending
//

func (c *termConsole) inkey() (byte, bool) {

	fd := int(os.Stdin.Fd())

	if !term.IsTerminal(fd) {
		return 0, false
	}

	old, err := term.MakeRaw(fd)
	if err != nil {
		return 0, false
	}
	defer term.Restore(fd, old)

	if err := os.Stdin.SetReadDeadline(time.Now().Add(10 * time.Millisecond)); err != nil {
		return 0, false
	}
	defer os.Stdin.SetReadDeadline(time.Time{})

	var buf [1]byte
	n, err := os.Stdin.Read(buf[:])
	if err != nil || n == 0 {
		return 0, false
	}

	return buf[0], true
}

func (c *termConsole) clearScreen() {

	os.Stdout.WriteString(clearScreenSeq)
	c.col = 0
}

//
// Script console: reads from a supplied reader, writes to a
// supplied writer.  Used when stdin is not a terminal, and by the
// tests
//

type scriptConsole struct {
	columnTracker
	out  io.Writer
	in   *bufio.Reader
	keys []byte
}

func newScriptConsole(in io.Reader, out io.Writer) *scriptConsole {

	con := &scriptConsole{out: out, in: bufio.NewReader(in)}
	con.width = defaultWidth

	return con
}

func (c *scriptConsole) print(text string) {

	io.WriteString(c.out, text)
	c.advance(text)
}

func (c *scriptConsole) lprint(text string) {

	c.print(text)
}

func (c *scriptConsole) input(prompt string) (string, error) {

	c.print(prompt)

	line, err := c.in.ReadString('\n')
	line = strings.TrimRight(line, "\r\n")

	c.col = 0

	if err != nil && line == "" {
		return "", err
	}

	return line, nil
}

func (c *scriptConsole) inkey() (byte, bool) {

	if len(c.keys) > 0 {
		ch := c.keys[0]
		c.keys = c.keys[1:]
		return ch, true
	}

	//
	// Fall back to the script stream so INPUT$ can be driven from
	// canned input
	//

	ch, err := c.in.ReadByte()
	if err != nil {
		return 0, false
	}

	return ch, true
}

func (c *scriptConsole) clearScreen() {

	io.WriteString(c.out, clearScreenSeq)
	c.col = 0
}

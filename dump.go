// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package guardstack

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// garbage marks a slot beyond size in a dump.
const garbage = "GARBAGE"

// WriteTo writes a diagnostic dump of s to w: capacity, size and one line
// per slot, with slots beyond size shown as GARBAGE. An invalid stack is
// dumped as its control block only. The format is for people, not for
// parsing.
func (s *Stack[T]) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: bufio.NewWriter(w)}
	if r := s.diagnose(); r != reasonNone {
		if s == nil {
			fmt.Fprintf(cw, "Stack <nil>\n")
		} else {
			v := s.controlView()
			fmt.Fprintf(cw, "Stack INVALID (%s) head=%#x tail=%#x capacity=%d size=%d state=%s tag=%#x want=%#x\n",
				r, v.head, v.tail, v.capacity, v.size, v.state, v.tag, v.want)
		}
		return cw.flush()
	}
	fmt.Fprintf(cw, "Stack capacity=%d size=%d\n", s.capacity, s.size)
	for i := range s.capacity {
		if i < s.size {
			fmt.Fprintf(cw, "[%d] %v\n", i, s.data[i])
		} else {
			fmt.Fprintf(cw, "[%d] %s\n", i, garbage)
		}
	}
	return cw.flush()
}

// String returns the dump written by WriteTo.
func (s *Stack[T]) String() string {
	var b strings.Builder
	_, _ = s.WriteTo(&b)
	return b.String()
}

type countingWriter struct {
	w   *bufio.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}

func (c *countingWriter) flush() (int64, error) {
	if c.err != nil {
		return c.n, c.err
	}
	return c.n, c.w.Flush()
}

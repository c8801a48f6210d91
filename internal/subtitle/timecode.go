package subtitle

import "strings"

// normalizeTimes converts a begin/end attribute pair into SRT time-code form:
// the millisecond separator becomes a comma and a time code not starting with
// a zero digit gets its first character replaced by one.
//
// When end needs the leading-digit fix it is rebuilt from BEGIN's tail, not
// its own. That reproduces the long-standing behavior of every earlier
// conversion variant of this tool; downstream archives contain time codes
// shaped by it, so it is kept deliberately rather than corrected.
func normalizeTimes(begin, end string) (string, string) {
	b := strings.ReplaceAll(begin, ".", ",")
	if b != "" && b[0] != '0' {
		b = "0" + b[1:]
	}
	e := strings.ReplaceAll(end, ".", ",")
	if e != "" && e[0] != '0' {
		tail := ""
		if b != "" {
			tail = b[1:]
		}
		e = "0" + tail
	}
	return b, e
}

package questiongen

import "strings"

// LatexCommands is the fixed table of LaTeX command names the model is known
// to emit with a single, JSON-invalid backslash. Several of them start with a
// letter that forms a legal JSON escape (\f, \t, \b, \n, \r), so without repair
// they would decode silently into control characters.
var LatexCommands = []string{
	// fractions, roots, operators
	"frac", "dfrac", "tfrac", "sqrt", "times", "div", "cdot", "pm", "mp",
	"sum", "prod", "int", "lim", "log", "ln", "sin", "cos", "tan", "tanh",
	"binom", "dbinom", "tbinom", "bmod", "pmod", "mod", "nabla", "bullet",
	"bigcup", "bigcap", "triangleq",
	// relations and logic
	"leq", "geq", "le", "ge", "neq", "ne", "approx", "equiv", "sim",
	"lt", "gt", "in", "notin", "not", "neg", "nleq", "ngeq", "nmid",
	"subset", "subseteq", "cup", "cap", "forall", "exists", "nexists",
	"therefore", "because", "top", "bot",
	// arrows
	"rightarrow", "leftarrow", "Rightarrow", "Leftarrow", "to",
	"rightleftharpoons", "nearrow", "nwarrow", "uparrow", "Uparrow",
	// greek
	"alpha", "beta", "gamma", "delta", "theta", "lambda", "mu", "nu", "pi",
	"rho", "sigma", "tau", "phi", "omega", "upsilon", "Delta", "Sigma",
	"Omega", "Theta",
	// layout and text
	"left", "right", "text", "textbf", "textit", "textrm", "texttt",
	"textstyle", "mathrm", "mathbf", "boldsymbol", "bf", "rm",
	"overline", "underline", "underbrace", "tilde", "hat", "bar", "vec",
	"angle", "triangle", "circ", "degree", "infty", "quad", "qquad",
	"begin", "end", "boxed", "fbox", "dots", "ldots", "cdots",
	"perp", "parallel", "newline", "big", "bigl", "bigr",
	"rangle", "rceil", "rfloor", "rbrace", "rvert", "backslash",
}

var latexCommandSet = func() map[string]bool {
	m := make(map[string]bool, len(LatexCommands))
	for _, c := range LatexCommands {
		m[c] = true
	}
	return m
}()

// RepairEscapes rewrites backslash runs in s so the text decodes as JSON with
// the intended single LaTeX backslash. It returns the repaired text and the
// number of runs it changed. The rules, applied to each maximal run of
// backslashes by what follows it:
//
//  1. A LaTeX command from LatexCommands, "{" or "}": the run becomes exactly
//     two backslashes. This doubles a lone "\frac" and collapses "\\\frac" or
//     "\\\\frac" left behind by repeated repair.
//  2. Any other character that cannot start a JSON escape: an odd run gets
//     one more backslash.
//  3. Anything else is left alone.
//
// RepairEscapes is idempotent.
func RepairEscapes(s string) (string, int) {
	if !strings.Contains(s, `\`) {
		return s, 0
	}

	var (
		b       strings.Builder
		repairs int
	)
	b.Grow(len(s) + 16)

	for i := 0; i < len(s); {
		if s[i] != '\\' {
			b.WriteByte(s[i])
			i++
			continue
		}

		j := i
		for j < len(s) && s[j] == '\\' {
			j++
		}
		run := j - i
		want := run

		switch {
		case j < len(s) && (s[j] == '{' || s[j] == '}'):
			want = 2
		case j < len(s) && isLetter(s[j]) && latexCommandSet[letterWord(s, j)]:
			want = 2
		case run%2 == 1 && !validEscapeAt(s, j):
			want = run + 1
		}

		if want != run {
			repairs++
		}
		b.WriteString(strings.Repeat(`\`, want))
		i = j
	}

	return b.String(), repairs
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func letterWord(s string, start int) string {
	end := start
	for end < len(s) && isLetter(s[end]) {
		end++
	}
	return s[start:end]
}

// validEscapeAt reports whether s[i:] can follow a backslash in JSON.
func validEscapeAt(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	switch s[i] {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
		return true
	case 'u':
		if i+5 > len(s) {
			// Might still be arriving.
			return true
		}
		for _, c := range []byte(s[i+1 : i+5]) {
			if !isHex(c) {
				return false
			}
		}
		return true
	}
	return false
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

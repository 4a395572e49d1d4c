package game

// codeAlphabet omits look-alike characters (I, O, 0, 1) so codes stay
// easy to read out loud and type.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// CodeLength is the session code length.
const CodeLength = 6

// NewCode returns a random human-shareable session code.
func NewCode(rng Rand) string {
	out := make([]byte, CodeLength)
	for i := range out {
		out[i] = codeAlphabet[rng.Intn(len(codeAlphabet))]
	}
	return string(out)
}
